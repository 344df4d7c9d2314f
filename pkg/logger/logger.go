package logger

import (
	"context"

	"go.uber.org/zap"

	"grading_service/pkg/ctxdata"
)

const traceIDField = "trace_id"

type Logger struct {
	ZapLogger *zap.Logger
}

func New() *Logger {
	zapLogger, _ := zap.NewDevelopment()
	return &Logger{ZapLogger: zapLogger}
}

// NewProduction returns a JSON logger at info level.
func NewProduction() (*Logger, error) {
	zapLogger, err := zap.NewProduction()
	if err != nil {
		return nil, err
	}
	return &Logger{ZapLogger: zapLogger}, nil
}

func NewNop() *Logger {
	return &Logger{ZapLogger: zap.NewNop()}
}

func (l *Logger) Info(msg string, fields ...zap.Field) {
	l.ZapLogger.Info(msg, fields...)
}

func (l *Logger) Warn(msg string, fields ...zap.Field) {
	l.ZapLogger.Warn(msg, fields...)
}

func (l *Logger) Error(msg string, fields ...zap.Field) {
	l.ZapLogger.Error(msg, fields...)
}

func (l *Logger) Debug(msg string, fields ...zap.Field) {
	l.ZapLogger.Debug(msg, fields...)
}

func (l *Logger) Fatal(msg string, fields ...zap.Field) {
	l.ZapLogger.Fatal(msg, fields...)
}

func (l *Logger) Infof(format string, args ...interface{}) {
	l.ZapLogger.Sugar().Infof(format, args...)
}

func (l *Logger) Warnf(format string, args ...interface{}) {
	l.ZapLogger.Sugar().Warnf(format, args...)
}

func (l *Logger) Errorf(format string, args ...interface{}) {
	l.ZapLogger.Sugar().Errorf(format, args...)
}

func (l *Logger) Fatalf(format string, args ...interface{}) {
	l.ZapLogger.Sugar().Fatalf(format, args...)
}

func (l *Logger) InfoContext(ctx context.Context, msg string, fields ...zap.Field) {
	l.ZapLogger.Info(msg, withTraceID(ctx, fields)...)
}

func (l *Logger) WarnContext(ctx context.Context, msg string, fields ...zap.Field) {
	l.ZapLogger.Warn(msg, withTraceID(ctx, fields)...)
}

func (l *Logger) ErrorContext(ctx context.Context, msg string, fields ...zap.Field) {
	l.ZapLogger.Error(msg, withTraceID(ctx, fields)...)
}

func (l *Logger) DebugContext(ctx context.Context, msg string, fields ...zap.Field) {
	l.ZapLogger.Debug(msg, withTraceID(ctx, fields)...)
}

func (l *Logger) Sync() error {
	return l.ZapLogger.Sync()
}

func (l *Logger) With(fields ...zap.Field) *Logger {
	return &Logger{ZapLogger: l.ZapLogger.With(fields...)}
}

func withTraceID(ctx context.Context, fields []zap.Field) []zap.Field {
	if traceID, ok := ctxdata.GetTraceID(ctx); ok {
		fields = append(fields, zap.String(traceIDField, traceID))
	}
	return fields
}
