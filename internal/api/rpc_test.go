package api_test

import (
	"context"
	"net"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc"
	"google.golang.org/grpc/test/bufconn"

	"github.com/victornm/trivia/internal/api"
	"github.com/victornm/trivia/internal/domain"
	"github.com/victornm/trivia/internal/errors"
	"github.com/victornm/trivia/internal/rpc"
)

func TestQuestionRPC_RoundTrip(t *testing.T) {
	service := &fakeQuestionService{
		questions: []domain.Question{
			{ID: 1, Title: "q1", Option1: "a", Option2: "b", Option3: "c", Option4: "d", RightAnswer: "a", Category: "Java"},
			{ID: 2, Title: "q2", Option1: "a", Option2: "b", Option3: "c", Option4: "d", RightAnswer: "b", Category: "Java"},
		},
		ids:   []int64{2, 1},
		score: 1,
	}
	client := makeQuestionClient(t, service)
	ctx := context.Background()

	ids, err := client.RandomQuestionIDs(ctx, "Java", 2)
	require.NoError(t, err)
	assert.Equal(t, []int64{2, 1}, ids)
	assert.Equal(t, "Java", service.category)
	assert.Equal(t, 2, service.count)

	ws, err := client.QuestionsByIDs(ctx, []int64{2, 1})
	require.NoError(t, err)
	assert.Equal(t, []domain.QuestionWrapper{
		{ID: 2, Title: "q2", Option1: "a", Option2: "b", Option3: "c", Option4: "d"},
		{ID: 1, Title: "q1", Option1: "a", Option2: "b", Option3: "c", Option4: "d"},
	}, ws)

	score, err := client.Score(ctx, []domain.Response{{ID: 1, Response: "a"}, {ID: 2, Response: "a"}})
	require.NoError(t, err)
	assert.Equal(t, 1, score)
	assert.Equal(t, []domain.Response{{ID: 1, Response: "a"}, {ID: 2, Response: "a"}}, service.responses)
}

func TestQuestionRPC_Errors(t *testing.T) {
	tests := map[string]struct {
		err      error
		wantCode errors.Code
		wantMsg  string
	}{
		"not found crosses the wire": {
			err:      errors.NotFound("questions not found: ids=[5]"),
			wantCode: errors.CodeNotFound,
			wantMsg:  "questions not found: ids=[5]",
		},
		"invalid argument crosses the wire": {
			err:      errors.InvalidArgument("count must be positive, got 0"),
			wantCode: errors.CodeInvalidArgument,
			wantMsg:  "count must be positive, got 0",
		},
		"uncoded errors become internal": {
			err:      assert.AnError,
			wantCode: errors.CodeInternal,
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			client := makeQuestionClient(t, &fakeQuestionService{err: tt.err})

			_, err := client.QuestionsByIDs(context.Background(), []int64{5})
			require.Error(t, err)

			e := errors.Convert(err)
			assert.Equal(t, tt.wantCode, e.Code)
			if tt.wantMsg != "" {
				assert.Equal(t, tt.wantMsg, e.Message)
			}
		})
	}
}

func TestQuestionClient_Unavailable(t *testing.T) {
	lis := bufconn.Listen(1 << 20)
	require.NoError(t, lis.Close())

	client, err := rpc.NewQuestionClient(rpc.ClientConfig{
		Addr:    "passthrough:///bufnet",
		Timeout: time.Second,
		Options: []grpc.DialOption{grpc.WithContextDialer(func(ctx context.Context, _ string) (net.Conn, error) {
			return lis.DialContext(ctx)
		})},
	})
	require.NoError(t, err)
	t.Cleanup(func() { client.Close() })

	_, err = client.Score(context.Background(), []domain.Response{{ID: 1, Response: "a"}})
	assert.Equal(t, errors.CodeUnavailable, errors.Convert(err).Code)
}

func makeQuestionClient(t *testing.T, service api.QuestionService) *rpc.QuestionClient {
	t.Helper()

	lis := bufconn.Listen(1 << 20)
	s := grpc.NewServer()
	api.NewQuestionRPC(s, service)

	go func() {
		_ = s.Serve(lis)
	}()
	t.Cleanup(s.Stop)

	client, err := rpc.NewQuestionClient(rpc.ClientConfig{
		Addr:    "passthrough:///bufnet",
		Timeout: 5 * time.Second,
		Options: []grpc.DialOption{grpc.WithContextDialer(func(ctx context.Context, _ string) (net.Conn, error) {
			return lis.DialContext(ctx)
		})},
	})
	require.NoError(t, err)
	t.Cleanup(func() { client.Close() })

	return client
}
