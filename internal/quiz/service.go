package quiz

import (
	"context"
	stderrors "errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/victornm/trivia/internal/domain"
	"github.com/victornm/trivia/internal/errors"
	"github.com/victornm/trivia/internal/event"
)

// QuestionClient is what a quiz needs from the question service.
type QuestionClient interface {
	RandomQuestionIDs(ctx context.Context, category string, count int) ([]int64, error)
	QuestionsByIDs(ctx context.Context, ids []int64) ([]domain.QuestionWrapper, error)
	Score(ctx context.Context, responses []domain.Response) (int, error)
}

// UpstreamError is a failed call to the question service.
type UpstreamError struct {
	Op  string
	Err error
}

func (e *UpstreamError) Error() string {
	return fmt.Sprintf("question service: %s: %v", e.Op, e.Err)
}

func (e *UpstreamError) Unwrap() error {
	return e.Err
}

// Repository is the quiz store.
type Repository interface {
	Insert(ctx context.Context, q *domain.Quiz) error
	Get(ctx context.Context, id int64) (*domain.Quiz, error)
}

type Config struct {
	Repository Repository
	Questions  QuestionClient
	EventBus   *event.Bus
}

type Service struct {
	repo      Repository
	questions QuestionClient
	eb        *event.Bus
}

func NewService(c Config) *Service {
	return &Service{
		repo:      c.Repository,
		questions: c.Questions,
		eb:        c.EventBus,
	}
}

// CreateQuizRequest asks for a quiz of Count random questions of Category.
type CreateQuizRequest struct {
	Category string
	Count    int
	Title    string
}

// CreateQuiz picks random questions from the question service and stores a new quiz with them.
func (s *Service) CreateQuiz(ctx context.Context, req CreateQuizRequest) (*domain.Quiz, error) {
	if strings.TrimSpace(req.Title) == "" {
		return nil, errors.InvalidArgument("title is required")
	}

	if strings.TrimSpace(req.Category) == "" {
		return nil, errors.InvalidArgument("category is required")
	}

	if req.Count <= 0 {
		return nil, errors.InvalidArgument("count must be positive, got %d", req.Count)
	}

	ids, err := s.questions.RandomQuestionIDs(ctx, req.Category, req.Count)
	if err != nil {
		return nil, &UpstreamError{Op: "random question ids", Err: err}
	}

	if len(ids) < req.Count {
		return nil, errors.InvalidArgument("category %q has %d questions, %d requested", req.Category, len(ids), req.Count)
	}

	q := &domain.Quiz{
		Title:       req.Title,
		QuestionIDs: ids,
	}

	if err := s.repo.Insert(ctx, q); err != nil {
		return nil, errors.StoreUnavailable(err)
	}

	slog.InfoContext(ctx, "quiz: created", "id", q.ID, "category", req.Category, "questions", len(ids))

	s.eb.Publish(ctx, domain.EventQuizCreated{
		Quiz:     *q,
		Category: req.Category,
	})

	return q, nil
}

func (s *Service) GetQuiz(ctx context.Context, id int64) (*domain.Quiz, error) {
	q, err := s.repo.Get(ctx, id)
	if stderrors.Is(err, ErrNotFound) {
		return nil, errors.NotFound("quiz not found: id=%d", id)
	}
	if err != nil {
		return nil, errors.StoreUnavailable(err)
	}

	return q, nil
}

// GetQuizQuestions returns the questions of a quiz in quiz order, without their answers.
func (s *Service) GetQuizQuestions(ctx context.Context, id int64) ([]domain.QuestionWrapper, error) {
	q, err := s.GetQuiz(ctx, id)
	if err != nil {
		return nil, err
	}

	ws, err := s.questions.QuestionsByIDs(ctx, q.QuestionIDs)
	if err != nil {
		return nil, &UpstreamError{Op: "questions by ids", Err: err}
	}

	return ws, nil
}

// CalculateResult scores the responses submitted for a quiz.
// An unknown quiz id fails with NotFound before the question service is called.
// Responses are not checked against the quiz's own questions.
func (s *Service) CalculateResult(ctx context.Context, id int64, responses []domain.Response) (int, error) {
	if _, err := s.GetQuiz(ctx, id); err != nil {
		return 0, err
	}

	score, err := s.questions.Score(ctx, responses)
	if err != nil {
		return 0, &UpstreamError{Op: "score", Err: err}
	}

	s.eb.Publish(ctx, domain.EventResultCalculated{
		QuizID:    id,
		Score:     score,
		Responses: len(responses),
	})

	return score, nil
}
