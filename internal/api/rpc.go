package api

import (
	"context"

	"google.golang.org/grpc"

	"github.com/victornm/trivia/internal/errors"
	"github.com/victornm/trivia/internal/rpc"
)

// QuestionRPC exposes the question operations the quiz service depends on over gRPC.
type QuestionRPC struct {
	qs QuestionService
}

func NewQuestionRPC(s *grpc.Server, qs QuestionService) *QuestionRPC {
	r := &QuestionRPC{qs: qs}
	rpc.RegisterQuestionServiceServer(s, r)
	return r
}

func (r *QuestionRPC) RandomQuestionIDs(ctx context.Context, req *rpc.RandomQuestionIDsRequest) (*rpc.RandomQuestionIDsResponse, error) {
	ids, err := r.qs.RandomQuestionIDs(ctx, req.Category, req.Count)
	if err != nil {
		return nil, errors.Convert(err)
	}

	return &rpc.RandomQuestionIDsResponse{QuestionIDs: ids}, nil
}

func (r *QuestionRPC) QuestionsByIDs(ctx context.Context, req *rpc.QuestionsByIDsRequest) (*rpc.QuestionsByIDsResponse, error) {
	ws, err := r.qs.QuestionsByIDs(ctx, req.QuestionIDs)
	if err != nil {
		return nil, errors.Convert(err)
	}

	return &rpc.QuestionsByIDsResponse{Questions: ws}, nil
}

func (r *QuestionRPC) Score(ctx context.Context, req *rpc.ScoreRequest) (*rpc.ScoreResponse, error) {
	score, err := r.qs.Score(ctx, req.Responses)
	if err != nil {
		return nil, errors.Convert(err)
	}

	return &rpc.ScoreResponse{Score: score}, nil
}
