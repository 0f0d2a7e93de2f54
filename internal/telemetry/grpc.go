package telemetry

import (
	"context"
	"log/slog"

	"github.com/grpc-ecosystem/go-grpc-middleware/v2/interceptors/logging"
	"google.golang.org/grpc"
)

var logEvents = logging.WithLogOnEvents(logging.StartCall, logging.FinishCall)

// GRPCServerInterceptor logs every unary call handled by the server.
func GRPCServerInterceptor() grpc.ServerOption {
	return grpc.ChainUnaryInterceptor(
		logging.UnaryServerInterceptor(grpcLogger(slog.Default()), logEvents),
	)
}

// GRPCClientInterceptor logs every unary call made by a client.
func GRPCClientInterceptor() grpc.DialOption {
	return grpc.WithChainUnaryInterceptor(
		logging.UnaryClientInterceptor(grpcLogger(slog.Default()), logEvents),
	)
}

func grpcLogger(l *slog.Logger) logging.Logger {
	return logging.LoggerFunc(func(ctx context.Context, lvl logging.Level, msg string, fields ...any) {
		l.Log(ctx, slog.Level(lvl), msg, fields...)
	})
}
