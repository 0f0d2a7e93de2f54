package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/victornm/trivia/internal/domain"
	"github.com/victornm/trivia/internal/question"
)

type QuestionConfig struct {
	Router  gin.IRouter
	Service QuestionService
}

// QuestionAPI serves the question catalog over HTTP.
type QuestionAPI struct {
	qs QuestionService
}

func NewQuestionAPI(c QuestionConfig) *QuestionAPI {
	a := &QuestionAPI{qs: c.Service}

	g := c.Router.Group("/questions")
	g.GET("", a.ListQuestions)
	g.POST("", a.CreateQuestion)
	g.GET("/:id", a.GetQuestion)
	g.GET("/category/:category", a.ListByCategory)
	g.GET("/generate", a.GenerateQuiz)
	g.POST("/batch", a.QuestionsByIDs)
	g.POST("/score", a.Score)

	return a
}

type (
	createQuestionRequest struct {
		Title       string `json:"questionTitle" binding:"required"`
		Option1     string `json:"option1" binding:"required"`
		Option2     string `json:"option2" binding:"required"`
		Option3     string `json:"option3" binding:"required"`
		Option4     string `json:"option4" binding:"required"`
		RightAnswer string `json:"rightAnswer" binding:"required"`
		Category    string `json:"category" binding:"required"`
	}

	generateQuizRequest struct {
		Category string `form:"category" binding:"required"`
		Count    int    `form:"count" binding:"required,min=1"`
	}
)

func (a *QuestionAPI) ListQuestions(c *gin.Context) {
	qs, err := a.qs.ListQuestions(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, nonNil(qs))
}

func (a *QuestionAPI) ListByCategory(c *gin.Context) {
	qs, err := a.qs.ListByCategory(c.Request.Context(), c.Param("category"))
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, nonNil(qs))
}

func (a *QuestionAPI) GetQuestion(c *gin.Context) {
	id, err := paramID(c)
	if err != nil {
		writeError(c, err)
		return
	}

	q, err := a.qs.GetQuestion(c.Request.Context(), id)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, q)
}

func (a *QuestionAPI) CreateQuestion(c *gin.Context) {
	var req createQuestionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, bindError(err))
		return
	}

	q, err := a.qs.CreateQuestion(c.Request.Context(), question.CreateQuestionRequest{
		Title:       req.Title,
		Option1:     req.Option1,
		Option2:     req.Option2,
		Option3:     req.Option3,
		Option4:     req.Option4,
		RightAnswer: req.RightAnswer,
		Category:    req.Category,
	})
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusCreated, q)
}

// GenerateQuiz returns random question ids of a category, for assembling a quiz.
func (a *QuestionAPI) GenerateQuiz(c *gin.Context) {
	var req generateQuizRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		writeError(c, bindError(err))
		return
	}

	ids, err := a.qs.RandomQuestionIDs(c.Request.Context(), req.Category, req.Count)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, nonNil(ids))
}

func (a *QuestionAPI) QuestionsByIDs(c *gin.Context) {
	var ids []int64
	if err := c.ShouldBindJSON(&ids); err != nil {
		writeError(c, bindError(err))
		return
	}

	ws, err := a.qs.QuestionsByIDs(c.Request.Context(), ids)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, nonNil(ws))
}

func (a *QuestionAPI) Score(c *gin.Context) {
	var responses []domain.Response
	if err := c.ShouldBindJSON(&responses); err != nil {
		writeError(c, bindError(err))
		return
	}

	score, err := a.qs.Score(c.Request.Context(), responses)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, score)
}

// nonNil keeps empty results encoded as [] rather than null.
func nonNil[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}
