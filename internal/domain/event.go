package domain

const (
	EventNameQuestionCreated  = "question.created"
	EventNameQuizCreated      = "quiz.created"
	EventNameResultCalculated = "quiz.result_calculated"
)

type EventQuestionCreated struct {
	Question Question
}

func (EventQuestionCreated) Name() string { return EventNameQuestionCreated }

type EventQuizCreated struct {
	Quiz     Quiz
	Category string
}

func (EventQuizCreated) Name() string { return EventNameQuizCreated }

type EventResultCalculated struct {
	QuizID    int64
	Score     int
	Responses int
}

func (EventResultCalculated) Name() string { return EventNameResultCalculated }
