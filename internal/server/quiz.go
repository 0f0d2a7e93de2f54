package server

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"google.golang.org/grpc"

	"github.com/victornm/trivia/internal/api"
	"github.com/victornm/trivia/internal/event"
	"github.com/victornm/trivia/internal/quiz"
	"github.com/victornm/trivia/internal/rpc"
	"github.com/victornm/trivia/internal/telemetry"
)

type QuizConfig struct {
	HTTP struct {
		Port int32
	}

	QuestionService struct {
		Addr    string
		Timeout time.Duration
	}

	Postgres PostgresConfig
	Redis    RedisConfig
}

// DefaultQuizConfig returns the settings used when neither the file nor the environment set a key.
func DefaultQuizConfig() QuizConfig {
	var c QuizConfig
	c.HTTP.Port = 8090
	c.QuestionService.Addr = "localhost:9090"
	c.QuestionService.Timeout = 5 * time.Second
	c.Postgres = PostgresConfig{Addr: "localhost:5432", User: "postgres", Pass: "postgres", Name: "quizzes"}
	c.Redis = RedisConfig{Addrs: []string{"localhost:6379"}, Prefix: "trivia"}
	return c
}

// QuizServer runs the quiz service. Questions are fetched from the question service over gRPC.
type QuizServer struct {
	c  QuizConfig
	eb *event.Bus

	infra struct {
		postgres  *pgxpool.Pool
		redis     redis.UniversalClient
		questions *rpc.QuestionClient
	}

	closers closers
	service *quiz.Service
	l       listeners
}

func InitQuiz(c QuizConfig) (*QuizServer, error) {
	s := &QuizServer{c: c}

	s.eb = event.NewBus()

	if err := s.initInfra(); err != nil {
		return nil, fmt.Errorf("server: init infra: %w", err)
	}

	s.service = quiz.NewService(quiz.Config{
		Repository: quiz.NewPostgresRepository(s.infra.postgres),
		Questions:  s.infra.questions,
		EventBus:   s.eb,
	})

	if err := s.initAPI(); err != nil {
		s.closers.close(context.Background())
		return nil, fmt.Errorf("server: init api: %w", err)
	}

	return s, nil
}

func (s *QuizServer) initInfra() (err error) {
	defer func() {
		if err != nil {
			s.closers.close(context.Background())
		}
	}()

	s.infra.postgres, err = connectPostgres(s.c.Postgres)
	if err != nil {
		return fmt.Errorf("postgres: %w", err)
	}
	s.closers.add(func() error { s.infra.postgres.Close(); return nil })

	if s.c.Postgres.Migrate {
		ctx, cancel := context.WithTimeout(context.Background(), connectTimeout)
		defer cancel()

		if err := quiz.NewPostgresRepository(s.infra.postgres).EnsureSchema(ctx); err != nil {
			return fmt.Errorf("postgres: %w", err)
		}
	}

	s.infra.redis, err = connectRedis(s.c.Redis)
	if err != nil {
		return fmt.Errorf("redis: %w", err)
	}
	s.closers.add(s.infra.redis.Close)

	s.infra.questions, err = rpc.NewQuestionClient(rpc.ClientConfig{
		Addr:    s.c.QuestionService.Addr,
		Timeout: s.c.QuestionService.Timeout,
		Options: []grpc.DialOption{telemetry.GRPCClientInterceptor()},
	})
	if err != nil {
		return fmt.Errorf("question service: %w", err)
	}
	s.closers.add(s.infra.questions.Close)

	return nil
}

func (s *QuizServer) initAPI() error {
	e, err := newEngine("quiz")
	if err != nil {
		return err
	}

	api.NewQuizAPI(api.QuizConfig{
		Router:  e,
		Service: s.service,
	})
	api.NewNotifier(s.eb, s.infra.redis, s.c.Redis.Prefix)

	s.l = listeners{
		http: newHTTPServer(s.c.HTTP.Port, e),
	}

	return nil
}

// Start serves until Shutdown is called or a listener fails.
func (s *QuizServer) Start() error {
	return s.l.serve(context.TODO())
}

func (s *QuizServer) Shutdown() {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	s.l.shutdown(ctx)
	s.eb.Stop()
	s.closers.close(ctx)

	slog.InfoContext(ctx, "server: shutdown completed")
}
