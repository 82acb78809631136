package log

import (
	"context"
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

type logKeyT string

const logKey logKeyT = "geosys.logger"

var defaultLogger *zap.Logger

func init() {
	var err error
	config := zap.NewProductionConfig()
	config.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	if os.Getenv("GEOSYS_DEBUG") != "" {
		config.Level = zap.NewAtomicLevelAt(zap.DebugLevel)
	}
	if defaultLogger, err = config.Build(zap.AddStacktrace(zapcore.FatalLevel)); err != nil {
		panic(err)
	}
}

// Logger returns the logger attached to the context, or the default logger
func Logger(ctx context.Context) *zap.Logger {
	if l, ok := ctx.Value(logKey).(*zap.Logger); ok {
		return l
	}
	return defaultLogger
}

// With returns a context whose logger carries the given key/value
func With(ctx context.Context, key string, value interface{}) context.Context {
	return context.WithValue(ctx, logKey, Logger(ctx).With(zap.Any(key, value)))
}

// Set attaches the logger to the context
func Set(ctx context.Context, l *zap.Logger) context.Context {
	return context.WithValue(ctx, logKey, l)
}

func Fatal(msg string, fields ...zap.Field) {
	defaultLogger.Fatal(msg, fields...)
}
