package telemetry

import (
	"context"
	"fmt"
	"log/slog"
	"net"
	"time"

	"github.com/redis/go-redis/extra/redisotel/v9"
	"github.com/redis/go-redis/v9"
)

// MonitorRedis instruments r with tracing, metrics and debug logging of every command.
func MonitorRedis(r redis.UniversalClient) error {
	if err := redisotel.InstrumentTracing(r); err != nil {
		return fmt.Errorf("instrument tracing: %w", err)
	}
	if err := redisotel.InstrumentMetrics(r); err != nil {
		return fmt.Errorf("instrument metrics: %w", err)
	}
	r.AddHook(redisLog{})
	return nil
}

type redisLog struct{}

func (redisLog) DialHook(hook redis.DialHook) redis.DialHook {
	return func(ctx context.Context, network, addr string) (net.Conn, error) {
		conn, err := hook(ctx, network, addr)
		if err != nil {
			slog.WarnContext(ctx, "redis: dial failed", "network", network, "addr", addr, "error", err)
			return nil, err
		}
		slog.InfoContext(ctx, "redis: dialed", "network", network, "addr", addr)
		return conn, nil
	}
}

func (redisLog) ProcessHook(hook redis.ProcessHook) redis.ProcessHook {
	return func(ctx context.Context, cmd redis.Cmder) error {
		start := time.Now()
		err := hook(ctx, cmd)
		slog.DebugContext(ctx, "redis: processed",
			"cmd", cmd.Name(),
			"duration", time.Since(start),
			"error", err,
		)
		return err
	}
}

func (redisLog) ProcessPipelineHook(hook redis.ProcessPipelineHook) redis.ProcessPipelineHook {
	return func(ctx context.Context, cmds []redis.Cmder) error {
		start := time.Now()
		err := hook(ctx, cmds)
		slog.DebugContext(ctx, "redis: processed pipeline",
			"cmds", len(cmds),
			"duration", time.Since(start),
			"error", err,
		)
		return err
	}
}
