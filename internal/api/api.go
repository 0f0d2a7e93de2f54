package api

import (
	"context"
	stderrors "errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"

	"github.com/victornm/trivia/internal/domain"
	"github.com/victornm/trivia/internal/errors"
	"github.com/victornm/trivia/internal/question"
	"github.com/victornm/trivia/internal/quiz"
)

// QuestionService is implemented by *question.Service.
type QuestionService interface {
	ListQuestions(ctx context.Context) ([]domain.Question, error)
	ListByCategory(ctx context.Context, category string) ([]domain.Question, error)
	GetQuestion(ctx context.Context, id int64) (*domain.Question, error)
	CreateQuestion(ctx context.Context, req question.CreateQuestionRequest) (*domain.Question, error)
	RandomQuestionIDs(ctx context.Context, category string, count int) ([]int64, error)
	QuestionsByIDs(ctx context.Context, ids []int64) ([]domain.QuestionWrapper, error)
	Score(ctx context.Context, responses []domain.Response) (int, error)
}

// QuizService is implemented by *quiz.Service.
type QuizService interface {
	CreateQuiz(ctx context.Context, req quiz.CreateQuizRequest) (*domain.Quiz, error)
	GetQuiz(ctx context.Context, id int64) (*domain.Quiz, error)
	GetQuizQuestions(ctx context.Context, id int64) ([]domain.QuestionWrapper, error)
	CalculateResult(ctx context.Context, id int64, responses []domain.Response) (int, error)
}

type Redis interface {
	Publish(ctx context.Context, channel string, message any) *redis.IntCmd
}

// writeError aborts the request with the HTTP form of err.
func writeError(c *gin.Context, err error) {
	status, e := httpError(err)

	if status >= http.StatusInternalServerError {
		slog.ErrorContext(c.Request.Context(), "api: request failed",
			"method", c.Request.Method,
			"path", c.FullPath(),
			"status", status,
			"error", err,
		)
	}

	c.AbortWithStatusJSON(status, e)
}

// httpError maps err to a status and body. A question service failure keeps a
// client-side status (not found, invalid argument) and otherwise becomes 502.
func httpError(err error) (int, *errors.Error) {
	var ue *quiz.UpstreamError
	if stderrors.As(err, &ue) {
		e := errors.Convert(ue.Err)
		switch e.Code {
		case errors.CodeNotFound, errors.CodeInvalidArgument:
			return e.HTTPStatusCode(), e
		default:
			return http.StatusBadGateway, errors.New(e.Code, errors.WithMessagef("question service: %s", e.Message))
		}
	}

	e := errors.Convert(err)
	return e.HTTPStatusCode(), e
}

func bindError(err error) *errors.Error {
	return errors.New(errors.CodeInvalidArgument, errors.WithMessagef("invalid request: %v", err), errors.WithCause(err))
}

func paramID(c *gin.Context) (int64, error) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, errors.InvalidArgument("invalid id %q", c.Param("id"))
	}
	return id, nil
}
