package domain

// Question is a multiple choice question with exactly four options.
type Question struct {
	ID          int64  `json:"id"`
	Title       string `json:"questionTitle"`
	Option1     string `json:"option1"`
	Option2     string `json:"option2"`
	Option3     string `json:"option3"`
	Option4     string `json:"option4"`
	RightAnswer string `json:"rightAnswer"`
	Category    string `json:"category"`
}

// Options returns the four options in display order.
func (q Question) Options() []string {
	return []string{q.Option1, q.Option2, q.Option3, q.Option4}
}

// HasOption reports whether answer equals one of the options.
func (q Question) HasOption(answer string) bool {
	for _, o := range q.Options() {
		if o == answer {
			return true
		}
	}
	return false
}

// Wrap projects the question for display, dropping the right answer.
func (q Question) Wrap() QuestionWrapper {
	return QuestionWrapper{
		ID:      q.ID,
		Title:   q.Title,
		Option1: q.Option1,
		Option2: q.Option2,
		Option3: q.Option3,
		Option4: q.Option4,
	}
}

// QuestionWrapper is the view of a question shown to a quiz taker.
type QuestionWrapper struct {
	ID      int64  `json:"id"`
	Title   string `json:"questionTitle"`
	Option1 string `json:"option1"`
	Option2 string `json:"option2"`
	Option3 string `json:"option3"`
	Option4 string `json:"option4"`
}

// Response is an answer submitted for a single question.
type Response struct {
	ID       int64  `json:"id"`
	Response string `json:"response"`
}

// Quiz is an ordered selection of questions. Question IDs reference the question service.
type Quiz struct {
	ID          int64   `json:"id"`
	Title       string  `json:"title"`
	QuestionIDs []int64 `json:"questionIds"`
}
