package otelclient

import (
	"context"
	"os"
	"time"

	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Logger is the logging surface the traced client writes to. The
// context parameter lets implementations attach the active trace and
// span ids to every line.
type Logger interface {
	With(kv ...zap.Field) Logger
	Debug(ctx context.Context, msg string, kv ...zap.Field)
	Info(ctx context.Context, msg string, kv ...zap.Field)
	Warn(ctx context.Context, msg string, kv ...zap.Field)
	Error(ctx context.Context, msg string, kv ...zap.Field)
}

type zapLogger struct {
	base *zap.Logger
	meta []zap.Field // static fields: service, env, version
}

// NewLogger builds the default JSON logger: stdout, debug level,
// RFC3339Nano UTC timestamps, trace/span ids attached when the context
// carries a valid span.
func NewLogger(service, env, version string) Logger {
	encCfg := zapcore.EncoderConfig{
		TimeKey:       "ts",
		LevelKey:      "level",
		NameKey:       "logger",
		MessageKey:    "message",
		CallerKey:     "caller",
		StacktraceKey: "stack",

		EncodeTime:   func(t time.Time, enc zapcore.PrimitiveArrayEncoder) { enc.AppendString(t.UTC().Format(time.RFC3339Nano)) },
		EncodeLevel:  zapcore.LowercaseLevelEncoder,
		EncodeCaller: zapcore.ShortCallerEncoder,
		LineEnding:   zapcore.DefaultLineEnding,
	}
	core := zapcore.NewCore(zapcore.NewJSONEncoder(encCfg), zapcore.AddSync(os.Stdout), zap.DebugLevel)
	z := zap.New(core, zap.AddCaller())

	meta := []zap.Field{
		zap.String("service", service),
		zap.String("env", env),
		zap.String("service_version", version),
	}
	return &zapLogger{base: z, meta: meta}
}

// NewZapLogger wraps an existing zap logger, for callers that already
// own one.
func NewZapLogger(z *zap.Logger) Logger {
	return &zapLogger{base: z}
}

func (l *zapLogger) With(kv ...zap.Field) Logger {
	return &zapLogger{base: l.base, meta: append(append([]zap.Field{}, l.meta...), kv...)}
}

func (l *zapLogger) Debug(ctx context.Context, msg string, kv ...zap.Field) {
	l.log(ctx, zap.DebugLevel, msg, kv...)
}
func (l *zapLogger) Info(ctx context.Context, msg string, kv ...zap.Field) {
	l.log(ctx, zap.InfoLevel, msg, kv...)
}
func (l *zapLogger) Warn(ctx context.Context, msg string, kv ...zap.Field) {
	l.log(ctx, zap.WarnLevel, msg, kv...)
}
func (l *zapLogger) Error(ctx context.Context, msg string, kv ...zap.Field) {
	l.log(ctx, zap.ErrorLevel, msg, kv...)
}

func (l *zapLogger) log(ctx context.Context, level zapcore.Level, msg string, kv ...zap.Field) {
	fields := append([]zap.Field{}, l.meta...)

	if ctx != nil {
		if sc := trace.SpanContextFromContext(ctx); sc.IsValid() {
			fields = append(fields,
				zap.String("trace_id", sc.TraceID().String()),
				zap.String("span_id", sc.SpanID().String()),
			)
		}
	}

	fields = append(fields, kv...)

	switch level {
	case zap.DebugLevel:
		l.base.Debug(msg, fields...)
	case zap.InfoLevel:
		l.base.Info(msg, fields...)
	case zap.WarnLevel:
		l.base.Warn(msg, fields...)
	case zap.ErrorLevel:
		l.base.Error(msg, fields...)
	default:
		l.base.Info(msg, fields...)
	}
}

// NopLogger discards everything. It is the default when Config.Logger
// is nil.
func NopLogger() Logger { return nopLogger{} }

type nopLogger struct{}

func (nopLogger) With(...zap.Field) Logger                    { return nopLogger{} }
func (nopLogger) Debug(context.Context, string, ...zap.Field) {}
func (nopLogger) Info(context.Context, string, ...zap.Field)  {}
func (nopLogger) Warn(context.Context, string, ...zap.Field)  {}
func (nopLogger) Error(context.Context, string, ...zap.Field) {}
