package api_test

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"github.com/victornm/trivia/internal/api"
	"github.com/victornm/trivia/internal/domain"
	"github.com/victornm/trivia/internal/errors"
	"github.com/victornm/trivia/internal/question"
)

func TestQuestionAPI(t *testing.T) {
	stored := domain.Question{
		ID:          1,
		Title:       "Size of int?",
		Option1:     "2 bytes",
		Option2:     "4 bytes",
		Option3:     "8 bytes",
		Option4:     "16 bytes",
		RightAnswer: "4 bytes",
		Category:    "Java",
	}

	tests := map[string]struct {
		service    *fakeQuestionService
		method     string
		target     string
		body       string
		wantStatus int
		wantBody   string
		assert     func(t *testing.T, s *fakeQuestionService)
	}{
		"list all": {
			service:    &fakeQuestionService{questions: []domain.Question{stored}},
			method:     http.MethodGet,
			target:     "/questions",
			wantStatus: http.StatusOK,
			wantBody:   `[{"id":1,"questionTitle":"Size of int?","option1":"2 bytes","option2":"4 bytes","option3":"8 bytes","option4":"16 bytes","rightAnswer":"4 bytes","category":"Java"}]`,
		},
		"list all surfaces store failures": {
			service:    &fakeQuestionService{err: errors.StoreUnavailable(assert.AnError)},
			method:     http.MethodGet,
			target:     "/questions",
			wantStatus: http.StatusServiceUnavailable,
			wantBody:   `{"code":14,"message":"store unavailable"}`,
		},
		"list by category encodes empty as array": {
			service:    &fakeQuestionService{},
			method:     http.MethodGet,
			target:     "/questions/category/Rust",
			wantStatus: http.StatusOK,
			wantBody:   `[]`,
			assert: func(t *testing.T, s *fakeQuestionService) {
				assert.Equal(t, "Rust", s.category)
			},
		},
		"get by id": {
			service:    &fakeQuestionService{questions: []domain.Question{stored}},
			method:     http.MethodGet,
			target:     "/questions/1",
			wantStatus: http.StatusOK,
			wantBody:   `{"id":1,"questionTitle":"Size of int?","option1":"2 bytes","option2":"4 bytes","option3":"8 bytes","option4":"16 bytes","rightAnswer":"4 bytes","category":"Java"}`,
		},
		"get by malformed id": {
			service:    &fakeQuestionService{},
			method:     http.MethodGet,
			target:     "/questions/abc",
			wantStatus: http.StatusBadRequest,
		},
		"get missing question": {
			service:    &fakeQuestionService{err: errors.NotFound("question not found: id=2")},
			method:     http.MethodGet,
			target:     "/questions/2",
			wantStatus: http.StatusNotFound,
			wantBody:   `{"code":5,"message":"question not found: id=2"}`,
		},
		"create": {
			service:    &fakeQuestionService{},
			method:     http.MethodPost,
			target:     "/questions",
			body:       `{"questionTitle":"Size of int?","option1":"2 bytes","option2":"4 bytes","option3":"8 bytes","option4":"16 bytes","rightAnswer":"4 bytes","category":"Java"}`,
			wantStatus: http.StatusCreated,
			wantBody:   `{"id":1,"questionTitle":"Size of int?","option1":"2 bytes","option2":"4 bytes","option3":"8 bytes","option4":"16 bytes","rightAnswer":"4 bytes","category":"Java"}`,
			assert: func(t *testing.T, s *fakeQuestionService) {
				assert.Equal(t, question.CreateQuestionRequest{
					Title:       "Size of int?",
					Option1:     "2 bytes",
					Option2:     "4 bytes",
					Option3:     "8 bytes",
					Option4:     "16 bytes",
					RightAnswer: "4 bytes",
					Category:    "Java",
				}, s.created)
			},
		},
		"create with missing fields": {
			service:    &fakeQuestionService{},
			method:     http.MethodPost,
			target:     "/questions",
			body:       `{"questionTitle":"Size of int?"}`,
			wantStatus: http.StatusBadRequest,
		},
		"generate": {
			service:    &fakeQuestionService{ids: []int64{3, 1}},
			method:     http.MethodGet,
			target:     "/questions/generate?category=Java&count=2",
			wantStatus: http.StatusOK,
			wantBody:   `[3,1]`,
			assert: func(t *testing.T, s *fakeQuestionService) {
				assert.Equal(t, "Java", s.category)
				assert.Equal(t, 2, s.count)
			},
		},
		"generate without count": {
			service:    &fakeQuestionService{},
			method:     http.MethodGet,
			target:     "/questions/generate?category=Java",
			wantStatus: http.StatusBadRequest,
		},
		"batch": {
			service:    &fakeQuestionService{questions: []domain.Question{stored}},
			method:     http.MethodPost,
			target:     "/questions/batch",
			body:       `[1]`,
			wantStatus: http.StatusOK,
			wantBody:   `[{"id":1,"questionTitle":"Size of int?","option1":"2 bytes","option2":"4 bytes","option3":"8 bytes","option4":"16 bytes"}]`,
		},
		"batch with unknown id": {
			service:    &fakeQuestionService{err: errors.NotFound("questions not found: ids=[7]")},
			method:     http.MethodPost,
			target:     "/questions/batch",
			body:       `[7]`,
			wantStatus: http.StatusNotFound,
		},
		"score": {
			service:    &fakeQuestionService{score: 1},
			method:     http.MethodPost,
			target:     "/questions/score",
			body:       `[{"id":1,"response":"4 bytes"},{"id":2,"response":"x"}]`,
			wantStatus: http.StatusOK,
			wantBody:   `1`,
			assert: func(t *testing.T, s *fakeQuestionService) {
				assert.Equal(t, []domain.Response{{ID: 1, Response: "4 bytes"}, {ID: 2, Response: "x"}}, s.responses)
			},
		},
		"score with malformed body": {
			service:    &fakeQuestionService{},
			method:     http.MethodPost,
			target:     "/questions/score",
			body:       `{"id":1}`,
			wantStatus: http.StatusBadRequest,
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			e := newEngine()
			api.NewQuestionAPI(api.QuestionConfig{
				Router:  e,
				Service: tt.service,
			})

			w := serve(e, tt.method, tt.target, tt.body)

			assert.Equal(t, tt.wantStatus, w.Code, w.Body.String())
			if tt.wantBody != "" {
				assert.JSONEq(t, tt.wantBody, w.Body.String())
			}
			if tt.assert != nil {
				tt.assert(t, tt.service)
			}
		})
	}
}

func newEngine() *gin.Engine {
	gin.SetMode(gin.TestMode)
	return gin.New()
}

func serve(h http.Handler, method, target, body string) *httptest.ResponseRecorder {
	var r *http.Request
	if body == "" {
		r = httptest.NewRequest(method, target, nil)
	} else {
		r = httptest.NewRequest(method, target, bytes.NewBufferString(body))
		r.Header.Set("Content-Type", "application/json")
	}

	w := httptest.NewRecorder()
	h.ServeHTTP(w, r)
	return w
}

// fakeQuestionService records its inputs and answers from canned data.
type fakeQuestionService struct {
	questions []domain.Question
	ids       []int64
	score     int
	err       error

	category  string
	count     int
	created   question.CreateQuestionRequest
	responses []domain.Response
}

func (f *fakeQuestionService) ListQuestions(context.Context) ([]domain.Question, error) {
	return f.questions, f.err
}

func (f *fakeQuestionService) ListByCategory(_ context.Context, category string) ([]domain.Question, error) {
	f.category = category
	return f.questions, f.err
}

func (f *fakeQuestionService) GetQuestion(_ context.Context, id int64) (*domain.Question, error) {
	if f.err != nil {
		return nil, f.err
	}
	for _, q := range f.questions {
		if q.ID == id {
			return &q, nil
		}
	}
	return nil, errors.NotFound("question not found: id=%d", id)
}

func (f *fakeQuestionService) CreateQuestion(_ context.Context, req question.CreateQuestionRequest) (*domain.Question, error) {
	f.created = req
	if f.err != nil {
		return nil, f.err
	}
	return &domain.Question{
		ID:          int64(len(f.questions) + 1),
		Title:       req.Title,
		Option1:     req.Option1,
		Option2:     req.Option2,
		Option3:     req.Option3,
		Option4:     req.Option4,
		RightAnswer: req.RightAnswer,
		Category:    req.Category,
	}, nil
}

func (f *fakeQuestionService) RandomQuestionIDs(_ context.Context, category string, count int) ([]int64, error) {
	f.category, f.count = category, count
	return f.ids, f.err
}

func (f *fakeQuestionService) QuestionsByIDs(_ context.Context, ids []int64) ([]domain.QuestionWrapper, error) {
	if f.err != nil {
		return nil, f.err
	}
	ws := make([]domain.QuestionWrapper, 0, len(ids))
	for _, id := range ids {
		for _, q := range f.questions {
			if q.ID == id {
				ws = append(ws, q.Wrap())
			}
		}
	}
	return ws, nil
}

func (f *fakeQuestionService) Score(_ context.Context, responses []domain.Response) (int, error) {
	f.responses = responses
	return f.score, f.err
}
