package api

import (
	"context"
	"encoding/json"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/victornm/trivia/internal/domain"
	"github.com/victornm/trivia/internal/event"
)

type (
	Notification struct {
		Event string `json:"event"`
		Data  any    `json:"data"`
	}

	QuestionAdded struct {
		Category string                 `json:"category"`
		Question domain.QuestionWrapper `json:"question"`
	}

	QuizCreated struct {
		QuizID      int64   `json:"quiz_id"`
		Title       string  `json:"title"`
		Category    string  `json:"category"`
		QuestionIDs []int64 `json:"question_ids"`
	}

	ResultCalculated struct {
		QuizID    int64 `json:"quiz_id"`
		Score     int   `json:"score"`
		Responses int   `json:"responses"`
	}
)

// Notifier fans domain events out to Redis pub/sub channels.
type Notifier struct {
	redis  Redis
	prefix string
}

// NewNotifier subscribes a notifier to the question and quiz events of eb.
func NewNotifier(eb *event.Bus, r Redis, prefix string) *Notifier {
	n := &Notifier{
		redis:  r,
		prefix: prefix,
	}

	eb.Subscribe(domain.EventNameQuestionCreated, func(ctx context.Context, e event.Event) error {
		return n.PublishQuestionCreated(ctx, e.(domain.EventQuestionCreated))
	})
	eb.Subscribe(domain.EventNameQuizCreated, func(ctx context.Context, e event.Event) error {
		return n.PublishQuizCreated(ctx, e.(domain.EventQuizCreated))
	})
	eb.Subscribe(domain.EventNameResultCalculated, func(ctx context.Context, e event.Event) error {
		return n.PublishResultCalculated(ctx, e.(domain.EventResultCalculated))
	})

	return n
}

// PublishQuestionCreated announces a new question on its category channel. The right answer is not published.
func (n *Notifier) PublishQuestionCreated(ctx context.Context, e domain.EventQuestionCreated) error {
	data := QuestionAdded{
		Category: e.Question.Category,
		Question: e.Question.Wrap(),
	}

	return n.publish(ctx, n.CategoryChannel(e.Question.Category), e.Name(), data)
}

// PublishQuizCreated announces a quiz on the global quizzes channel and on its category channel.
func (n *Notifier) PublishQuizCreated(ctx context.Context, e domain.EventQuizCreated) error {
	data := QuizCreated{
		QuizID:      e.Quiz.ID,
		Title:       e.Quiz.Title,
		Category:    e.Category,
		QuestionIDs: e.Quiz.QuestionIDs,
	}

	var eg errgroup.Group
	for _, ch := range []string{n.QuizzesChannel(), n.CategoryChannel(e.Category)} {
		eg.Go(func() error {
			return n.publish(ctx, ch, e.Name(), data)
		})
	}

	return eg.Wait()
}

func (n *Notifier) PublishResultCalculated(ctx context.Context, e domain.EventResultCalculated) error {
	data := ResultCalculated{
		QuizID:    e.QuizID,
		Score:     e.Score,
		Responses: e.Responses,
	}

	return n.publish(ctx, n.QuizChannel(e.QuizID), e.Name(), data)
}

func (n *Notifier) CategoryChannel(category string) string {
	return fmt.Sprintf("%s:category:%s", n.prefix, category)
}

func (n *Notifier) QuizzesChannel() string {
	return fmt.Sprintf("%s:quizzes", n.prefix)
}

func (n *Notifier) QuizChannel(id int64) string {
	return fmt.Sprintf("%s:quiz:%d", n.prefix, id)
}

func (n *Notifier) publish(ctx context.Context, channel, event string, data any) error {
	b, err := json.Marshal(Notification{
		Event: event,
		Data:  data,
	})
	if err != nil {
		return fmt.Errorf("pubsub: marshal %s: %v", event, err)
	}

	return n.redis.Publish(ctx, channel, b).Err()
}
