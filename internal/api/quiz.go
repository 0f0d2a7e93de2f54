package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/victornm/trivia/internal/domain"
	"github.com/victornm/trivia/internal/quiz"
)

type QuizConfig struct {
	Router  gin.IRouter
	Service QuizService
}

// QuizAPI serves quizzes over HTTP.
type QuizAPI struct {
	qs QuizService
}

func NewQuizAPI(c QuizConfig) *QuizAPI {
	a := &QuizAPI{qs: c.Service}

	g := c.Router.Group("/quizzes")
	g.POST("", a.CreateQuiz)
	g.GET("/:id", a.GetQuiz)
	g.GET("/:id/questions", a.GetQuizQuestions)
	g.POST("/:id/submit", a.Submit)

	return a
}

type (
	createQuizRequest struct {
		Category string `json:"categoryName" binding:"required"`
		Count    int    `json:"numQuestions" binding:"required,min=1"`
		Title    string `json:"title" binding:"required"`
	}

	createQuizResponse struct {
		Message string       `json:"message"`
		Quiz    *domain.Quiz `json:"quiz"`
	}
)

func (a *QuizAPI) CreateQuiz(c *gin.Context) {
	var req createQuizRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, bindError(err))
		return
	}

	q, err := a.qs.CreateQuiz(c.Request.Context(), quiz.CreateQuizRequest{
		Category: req.Category,
		Count:    req.Count,
		Title:    req.Title,
	})
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusCreated, createQuizResponse{
		Message: "Success",
		Quiz:    q,
	})
}

func (a *QuizAPI) GetQuiz(c *gin.Context) {
	id, err := paramID(c)
	if err != nil {
		writeError(c, err)
		return
	}

	q, err := a.qs.GetQuiz(c.Request.Context(), id)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, q)
}

func (a *QuizAPI) GetQuizQuestions(c *gin.Context) {
	id, err := paramID(c)
	if err != nil {
		writeError(c, err)
		return
	}

	ws, err := a.qs.GetQuizQuestions(c.Request.Context(), id)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, nonNil(ws))
}

func (a *QuizAPI) Submit(c *gin.Context) {
	id, err := paramID(c)
	if err != nil {
		writeError(c, err)
		return
	}

	var responses []domain.Response
	if err := c.ShouldBindJSON(&responses); err != nil {
		writeError(c, bindError(err))
		return
	}

	score, err := a.qs.CalculateResult(c.Request.Context(), id, responses)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, score)
}
