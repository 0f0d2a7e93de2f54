package question

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

// Repository is the question store.
type Repository interface {
	List(ctx context.Context) ([]domain.Question, error)
	ListByCategory(ctx context.Context, category string) ([]domain.Question, error)
	Get(ctx context.Context, id int64) (*domain.Question, error)
	GetMany(ctx context.Context, ids []int64) ([]domain.Question, error)
	Insert(ctx context.Context, q *domain.Question) error
	RandomIDs(ctx context.Context, category string, limit int) ([]int64, error)
}

type Config struct {
	Repository Repository
	EventBus   *event.Bus
}

type Service struct {
	repo Repository
	eb   *event.Bus
}

func NewService(c Config) *Service {
	return &Service{
		repo: c.Repository,
		eb:   c.EventBus,
	}
}

// ListQuestions returns every stored question.
func (s *Service) ListQuestions(ctx context.Context) ([]domain.Question, error) {
	qs, err := s.repo.List(ctx)
	if err != nil {
		return nil, errors.StoreUnavailable(err)
	}

	return qs, nil
}

// ListByCategory returns the questions of a category. An unknown category yields an empty list.
func (s *Service) ListByCategory(ctx context.Context, category string) ([]domain.Question, error) {
	if strings.TrimSpace(category) == "" {
		return nil, errors.InvalidArgument("category is required")
	}

	qs, err := s.repo.ListByCategory(ctx, category)
	if err != nil {
		return nil, errors.StoreUnavailable(err)
	}

	return qs, nil
}

func (s *Service) GetQuestion(ctx context.Context, id int64) (*domain.Question, error) {
	q, err := s.repo.Get(ctx, id)
	if stderrors.Is(err, ErrNotFound) {
		return nil, errors.NotFound("question not found: id=%d", id)
	}
	if err != nil {
		return nil, errors.StoreUnavailable(err)
	}

	return q, nil
}

// CreateQuestionRequest represents a new question. RightAnswer must equal one of the options.
type CreateQuestionRequest struct {
	Title       string
	Option1     string
	Option2     string
	Option3     string
	Option4     string
	RightAnswer string
	Category    string
}

// CreateQuestion validates and stores a question, returning it with its assigned ID.
func (s *Service) CreateQuestion(ctx context.Context, req CreateQuestionRequest) (*domain.Question, error) {
	q := &domain.Question{
		Title:       req.Title,
		Option1:     req.Option1,
		Option2:     req.Option2,
		Option3:     req.Option3,
		Option4:     req.Option4,
		RightAnswer: req.RightAnswer,
		Category:    req.Category,
	}

	if err := validate(q); err != nil {
		return nil, err
	}

	if err := s.repo.Insert(ctx, q); err != nil {
		return nil, errors.StoreUnavailable(err)
	}

	slog.InfoContext(ctx, "question: created", "id", q.ID, "category", q.Category)

	s.eb.Publish(ctx, domain.EventQuestionCreated{
		Question: *q,
	})

	return q, nil
}

func validate(q *domain.Question) error {
	if strings.TrimSpace(q.Title) == "" {
		return errors.InvalidArgument("question title is required")
	}

	if strings.TrimSpace(q.Category) == "" {
		return errors.InvalidArgument("category is required")
	}

	for i, o := range q.Options() {
		if strings.TrimSpace(o) == "" {
			return errors.InvalidArgument("option%d is required", i+1)
		}
	}

	if !q.HasOption(q.RightAnswer) {
		return errors.InvalidArgument("right answer %q is not one of the options", q.RightAnswer)
	}

	return nil
}

// RandomQuestionIDs picks up to count distinct random question IDs of the category.
func (s *Service) RandomQuestionIDs(ctx context.Context, category string, count int) ([]int64, error) {
	if strings.TrimSpace(category) == "" {
		return nil, errors.InvalidArgument("category is required")
	}

	if count <= 0 {
		return nil, errors.InvalidArgument("count must be positive, got %d", count)
	}

	ids, err := s.repo.RandomIDs(ctx, category, count)
	if err != nil {
		return nil, errors.StoreUnavailable(err)
	}

	return ids, nil
}

// QuestionsByIDs returns the display form of the questions, in the order of ids.
// If any id does not exist, no questions are returned.
func (s *Service) QuestionsByIDs(ctx context.Context, ids []int64) ([]domain.QuestionWrapper, error) {
	byID, err := s.lookup(ctx, ids)
	if err != nil {
		return nil, err
	}

	ws := make([]domain.QuestionWrapper, 0, len(ids))
	for _, id := range ids {
		ws = append(ws, byID[id].Wrap())
	}

	return ws, nil
}

// Score counts the responses whose answer exactly matches the right answer of their question.
func (s *Service) Score(ctx context.Context, responses []domain.Response) (int, error) {
	ids := make([]int64, 0, len(responses))
	for _, r := range responses {
		ids = append(ids, r.ID)
	}

	byID, err := s.lookup(ctx, ids)
	if err != nil {
		return 0, err
	}

	right := 0
	for _, r := range responses {
		if r.Response == byID[r.ID].RightAnswer {
			right++
		}
	}

	return right, nil
}

// lookup loads the questions of ids, failing with NotFound if any of them is missing.
func (s *Service) lookup(ctx context.Context, ids []int64) (map[int64]domain.Question, error) {
	if len(ids) == 0 {
		return map[int64]domain.Question{}, nil
	}

	qs, err := s.repo.GetMany(ctx, unique(ids))
	if err != nil {
		return nil, errors.StoreUnavailable(err)
	}

	byID := make(map[int64]domain.Question, len(qs))
	for _, q := range qs {
		byID[q.ID] = q
	}

	var missing []int64
	for _, id := range unique(ids) {
		if _, ok := byID[id]; !ok {
			missing = append(missing, id)
		}
	}

	if len(missing) > 0 {
		return nil, errors.New(errors.CodeNotFound,
			errors.WithMessagef("questions not found: ids=%v", missing),
			errors.WithCause(fmt.Errorf("%w: %v", ErrNotFound, missing)),
		)
	}

	return byID, nil
}

func unique(ids []int64) []int64 {
	seen := make(map[int64]struct{}, len(ids))
	out := make([]int64, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}
