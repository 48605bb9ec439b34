// Package logger wraps a process-wide zap logger with context-aware helpers
// that attach the request ID carried by the context.
package logger

import (
	"context"
	"os"
	"path/filepath"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

type ctxKey struct{}

// Log is the process logger. It is a no-op until Init runs so packages and
// tests can log without setup.
var Log = zap.NewNop()

// Init builds a JSON logger writing to stdout and, when logFile is set, to
// that file as well. An unknown level falls back to info.
func Init(serviceName, level, logFile string) {
	var zapLevel zapcore.Level
	if err := zapLevel.UnmarshalText([]byte(level)); err != nil {
		zapLevel = zap.InfoLevel
	}

	encoderConfig := zap.NewProductionEncoderConfig()
	encoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	encoderConfig.EncodeLevel = zapcore.CapitalLevelEncoder
	encoderConfig.MessageKey = "msg"

	syncers := []zapcore.WriteSyncer{zapcore.AddSync(os.Stdout)}
	if logFile != "" {
		if err := os.MkdirAll(filepath.Dir(logFile), 0755); err == nil {
			f, err := os.OpenFile(logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
			if err == nil {
				syncers = append(syncers, zapcore.AddSync(f))
			}
		}
	}

	core := zapcore.NewCore(
		zapcore.NewJSONEncoder(encoderConfig),
		zapcore.NewMultiWriteSyncer(syncers...),
		zapLevel,
	)

	Log = zap.New(core, zap.AddCaller(), zap.AddCallerSkip(1)).
		With(zap.String("service", serviceName))
}

// WithRequestID returns a context carrying id for later log calls.
func WithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, ctxKey{}, id)
}

// RequestID returns the request ID stored in ctx, or "".
func RequestID(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	id, _ := ctx.Value(ctxKey{}).(string)
	return id
}

func Info(ctx context.Context, msg string, fields ...zap.Field) {
	Log.Info(msg, withRequestID(ctx, fields)...)
}

func Warn(ctx context.Context, msg string, fields ...zap.Field) {
	Log.Warn(msg, withRequestID(ctx, fields)...)
}

func Error(ctx context.Context, msg string, fields ...zap.Field) {
	Log.Error(msg, withRequestID(ctx, fields)...)
}

func Debug(ctx context.Context, msg string, fields ...zap.Field) {
	Log.Debug(msg, withRequestID(ctx, fields)...)
}

func withRequestID(ctx context.Context, fields []zap.Field) []zap.Field {
	if id := RequestID(ctx); id != "" {
		fields = append(fields, zap.String("request_id", id))
	}
	return fields
}

// Sync flushes buffered entries; call it before exit.
func Sync() {
	_ = Log.Sync()
}
