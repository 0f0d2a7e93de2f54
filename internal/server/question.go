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
	"github.com/victornm/trivia/internal/question"
	"github.com/victornm/trivia/internal/telemetry"
)

type QuestionConfig struct {
	HTTP struct {
		Port int32
	}

	GRPC struct {
		Port int32
	}

	Postgres PostgresConfig
	Redis    RedisConfig
}

// DefaultQuestionConfig returns the settings used when neither the file nor the environment set a key.
func DefaultQuestionConfig() QuestionConfig {
	var c QuestionConfig
	c.HTTP.Port = 8080
	c.GRPC.Port = 9090
	c.Postgres = PostgresConfig{Addr: "localhost:5432", User: "postgres", Pass: "postgres", Name: "questions"}
	c.Redis = RedisConfig{Addrs: []string{"localhost:6379"}, Prefix: "trivia"}
	return c
}

// QuestionServer runs the question service: the catalog HTTP API and the gRPC API used by quizzes.
type QuestionServer struct {
	c  QuestionConfig
	eb *event.Bus

	infra struct {
		postgres *pgxpool.Pool
		redis    redis.UniversalClient
	}

	closers closers
	service *question.Service
	l       listeners
}

func InitQuestion(c QuestionConfig) (*QuestionServer, error) {
	s := &QuestionServer{c: c}

	s.eb = event.NewBus()

	if err := s.initInfra(); err != nil {
		return nil, fmt.Errorf("server: init infra: %w", err)
	}

	s.service = question.NewService(question.Config{
		Repository: question.NewPostgresRepository(s.infra.postgres),
		EventBus:   s.eb,
	})

	if err := s.initAPI(); err != nil {
		s.closers.close(context.Background())
		return nil, fmt.Errorf("server: init api: %w", err)
	}

	return s, nil
}

func (s *QuestionServer) initInfra() (err error) {
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

		if err := question.NewPostgresRepository(s.infra.postgres).EnsureSchema(ctx); err != nil {
			return fmt.Errorf("postgres: %w", err)
		}
	}

	s.infra.redis, err = connectRedis(s.c.Redis)
	if err != nil {
		return fmt.Errorf("redis: %w", err)
	}
	s.closers.add(s.infra.redis.Close)

	return nil
}

func (s *QuestionServer) initAPI() error {
	e, err := newEngine("question")
	if err != nil {
		return err
	}

	g := grpc.NewServer(telemetry.GRPCServerInterceptor())

	api.NewQuestionAPI(api.QuestionConfig{
		Router:  e,
		Service: s.service,
	})
	api.NewQuestionRPC(g, s.service)
	api.NewNotifier(s.eb, s.infra.redis, s.c.Redis.Prefix)

	s.l = listeners{
		http:     newHTTPServer(s.c.HTTP.Port, e),
		grpc:     g,
		grpcPort: s.c.GRPC.Port,
	}

	return nil
}

// Start serves until Shutdown is called or a listener fails.
func (s *QuestionServer) Start() error {
	return s.l.serve(context.TODO())
}

func (s *QuestionServer) Shutdown() {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	s.l.shutdown(ctx)
	s.eb.Stop()
	s.closers.close(ctx)

	slog.InfoContext(ctx, "server: shutdown completed")
}
