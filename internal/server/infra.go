package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/gin-contrib/pprof"
	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/errgroup"
	"google.golang.org/grpc"

	"github.com/victornm/trivia/internal/telemetry"
)

const connectTimeout = 10 * time.Second

type PostgresConfig struct {
	Addr string
	User string
	Pass string
	Name string
	// Migrate creates the service tables on startup.
	Migrate bool
}

type RedisConfig struct {
	Addrs  []string
	Pass   string
	Prefix string
}

func connectPostgres(c PostgresConfig) (*pgxpool.Pool, error) {
	ctx, cancel := context.WithTimeout(context.Background(), connectTimeout)
	defer cancel()

	cc, err := pgxpool.ParseConfig(fmt.Sprintf("postgres://%s:%s@%s/%s", c.User, c.Pass, c.Addr, c.Name))
	if err != nil {
		return nil, err
	}

	db, err := pgxpool.NewWithConfig(ctx, cc)
	if err != nil {
		return nil, err
	}

	if err := db.Ping(ctx); err != nil {
		db.Close()
		return nil, err
	}

	return db, nil
}

func connectRedis(c RedisConfig) (_ redis.UniversalClient, err error) {
	ctx, cancel := context.WithTimeout(context.Background(), connectTimeout)
	defer cancel()

	r := redis.NewUniversalClient(&redis.UniversalOptions{
		Addrs:    c.Addrs,
		Password: c.Pass,
	})
	defer func() {
		if err != nil {
			_ = r.Close()
		}
	}()

	if err := telemetry.MonitorRedis(r); err != nil {
		return nil, err
	}

	if err := r.Ping(ctx).Err(); err != nil {
		return nil, err
	}

	return r, nil
}

// newEngine returns a gin engine with metrics, profiling, request logging and panic recovery.
func newEngine(service string) (*gin.Engine, error) {
	m, err := telemetry.NewHTTPMetrics(prometheus.DefaultRegisterer, service)
	if err != nil {
		return nil, fmt.Errorf("http metrics: %w", err)
	}

	e := gin.New()
	e.GET("/metrics", gin.WrapH(promhttp.Handler()))
	pprof.Register(e, "/debug/pprof")
	e.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok", "service": service})
	})
	e.Use(gin.Recovery(), telemetry.HTTPMiddleware(m))

	return e, nil
}

func newHTTPServer(port int32, h http.Handler) *http.Server {
	return &http.Server{
		Addr:              fmt.Sprintf(":%d", port),
		Handler:           h,
		ReadHeaderTimeout: 60 * time.Second,
	}
}

// listeners runs an HTTP server and, when set, a gRPC server until both stop.
type listeners struct {
	http     *http.Server
	grpc     *grpc.Server
	grpcPort int32
}

// serve blocks until both servers stop. If one fails the other is stopped too.
func (l listeners) serve(ctx context.Context) error {
	var eg errgroup.Group

	if l.grpc != nil {
		lis, err := net.Listen("tcp", fmt.Sprintf(":%d", l.grpcPort))
		if err != nil {
			return fmt.Errorf("grpc server: listen: %w", err)
		}

		eg.Go(func() error {
			slog.InfoContext(ctx, fmt.Sprintf("server: gRPC listening on port %d", l.grpcPort))
			if err := l.grpc.Serve(lis); err != nil && !errors.Is(err, grpc.ErrServerStopped) {
				_ = l.http.Close()
				return fmt.Errorf("grpc server: %w", err)
			}
			return nil
		})
	}

	eg.Go(func() error {
		slog.InfoContext(ctx, fmt.Sprintf("server: HTTP listening on %s", l.http.Addr))
		if err := l.http.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			if l.grpc != nil {
				l.grpc.Stop()
			}
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	})

	return eg.Wait()
}

func (l listeners) shutdown(ctx context.Context) {
	if l.grpc != nil {
		l.grpc.GracefulStop()
	}

	if err := l.http.Shutdown(ctx); err != nil {
		slog.ErrorContext(ctx, "server: shutdown HTTP failed", "error", err)
	}
}

// closers releases infrastructure in reverse order of acquisition.
type closers []func() error

func (c *closers) add(f func() error) {
	*c = append(*c, f)
}

// close runs every closer, newest first, and empties c. Failures are logged, not returned.
func (c *closers) close(ctx context.Context) {
	for i := len(*c) - 1; i >= 0; i-- {
		if err := (*c)[i](); err != nil {
			slog.ErrorContext(ctx, "server: close failed", "error", err)
		}
	}
	*c = nil
}
