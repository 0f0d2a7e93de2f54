package rpc

import (
	"context"
	"fmt"
	"time"

	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"

	"github.com/victornm/trivia/internal/domain"
	"github.com/victornm/trivia/internal/errors"
)

// QuestionClient calls the question service over gRPC.
type QuestionClient struct {
	conn    *grpc.ClientConn
	timeout time.Duration
}

type ClientConfig struct {
	Addr string
	// Timeout bounds every call. Zero leaves the caller's deadline untouched.
	Timeout time.Duration
	Options []grpc.DialOption
}

// NewQuestionClient creates a client for the question service at c.Addr.
// The connection is established lazily on the first call.
func NewQuestionClient(c ClientConfig) (*QuestionClient, error) {
	opts := append([]grpc.DialOption{
		grpc.WithTransportCredentials(insecure.NewCredentials()),
		grpc.WithDefaultCallOptions(grpc.CallContentSubtype(codecName)),
	}, c.Options...)

	conn, err := grpc.NewClient(c.Addr, opts...)
	if err != nil {
		return nil, fmt.Errorf("question client: dial %s: %w", c.Addr, err)
	}

	return &QuestionClient{
		conn:    conn,
		timeout: c.Timeout,
	}, nil
}

func (c *QuestionClient) Close() error {
	return c.conn.Close()
}

func (c *QuestionClient) RandomQuestionIDs(ctx context.Context, category string, count int) ([]int64, error) {
	var out RandomQuestionIDsResponse
	if err := c.invoke(ctx, methodRandomQuestionIDs, &RandomQuestionIDsRequest{Category: category, Count: count}, &out); err != nil {
		return nil, err
	}

	return out.QuestionIDs, nil
}

func (c *QuestionClient) QuestionsByIDs(ctx context.Context, ids []int64) ([]domain.QuestionWrapper, error) {
	var out QuestionsByIDsResponse
	if err := c.invoke(ctx, methodQuestionsByIDs, &QuestionsByIDsRequest{QuestionIDs: ids}, &out); err != nil {
		return nil, err
	}

	return out.Questions, nil
}

func (c *QuestionClient) Score(ctx context.Context, responses []domain.Response) (int, error) {
	var out ScoreResponse
	if err := c.invoke(ctx, methodScore, &ScoreRequest{Responses: responses}, &out); err != nil {
		return 0, err
	}

	return out.Score, nil
}

// invoke performs a unary call and converts a failure status into an *errors.Error.
func (c *QuestionClient) invoke(ctx context.Context, method string, in, out any) error {
	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	if err := c.conn.Invoke(ctx, method, in, out); err != nil {
		return errors.FromGRPC(err)
	}

	return nil
}
