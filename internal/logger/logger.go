package logger

import (
	"context"
	"os"
	"strings"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"pickbot/internal/trace"
	"pickbot/internal/types"
)

// callerSkip skips logWithTrace and the exported wrapper so the reported
// caller is the code that called Info/Warn/etc.
const callerSkip = 2

var (
	// Global logger instance. A no-op logger until Init runs so packages can
	// log from tests without setup.
	globalLogger = zap.NewNop()
	// Whether detailed logging is enabled
	detailedLogging bool
)

// LogConfig holds logging configuration
type LogConfig struct {
	Level           string // DEBUG, INFO, WARN, ERROR
	Format          string // json or console
	DetailedLogging bool   // Enable debug logs and caller info
}

// Init initializes the global logger based on environment variables
func Init() error {
	return InitWithConfig(LoadConfigFromEnv())
}

// LoadConfigFromEnv loads logging configuration from environment variables
func LoadConfigFromEnv() LogConfig {
	return LogConfig{
		Level:           getEnvOrDefault("LOG_LEVEL", "INFO"),
		Format:          getEnvOrDefault("LOG_FORMAT", "json"),
		DetailedLogging: getEnvOrDefault("LOG_DETAILED", "false") == "true",
	}
}

// InitWithConfig initializes the logger with specific configuration
func InitWithConfig(config LogConfig) error {
	detailedLogging = config.DetailedLogging

	level := parseLogLevel(config.Level)
	if detailedLogging && level > zapcore.DebugLevel {
		level = zapcore.DebugLevel
	}

	zcfg := zap.NewProductionConfig()
	zcfg.Level = zap.NewAtomicLevelAt(level)
	zcfg.Sampling = nil
	zcfg.EncoderConfig.TimeKey = "time"
	zcfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	if strings.ToLower(config.Format) != "json" {
		zcfg.Encoding = "console"
		zcfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	}
	zcfg.DisableCaller = !detailedLogging

	l, err := zcfg.Build()
	if err != nil {
		return err
	}
	globalLogger = l
	return nil
}

// InitWithCore swaps in a caller-supplied core. Tests pair it with
// zaptest/observer to assert on emitted entries.
func InitWithCore(core zapcore.Core, detailed bool) {
	detailedLogging = detailed
	globalLogger = zap.New(core, zap.AddCaller())
}

// Sync flushes buffered log entries.
func Sync() error {
	return globalLogger.Sync()
}

// parseLogLevel converts string log level to a zap level
func parseLogLevel(level string) zapcore.Level {
	switch strings.ToUpper(level) {
	case "DEBUG":
		return zapcore.DebugLevel
	case "WARN":
		return zapcore.WarnLevel
	case "ERROR":
		return zapcore.ErrorLevel
	default:
		return zapcore.InfoLevel
	}
}

// getEnvOrDefault gets environment variable or returns default value
func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// Debug logs a debug message
func Debug(ctx context.Context, msg string, args ...any) {
	if !detailedLogging {
		return
	}
	logWithTrace(ctx, zapcore.DebugLevel, msg, callerSkip, args...)
}

// Info logs an info message
func Info(ctx context.Context, msg string, args ...any) {
	logWithTrace(ctx, zapcore.InfoLevel, msg, callerSkip, args...)
}

// Warn logs a warning message
func Warn(ctx context.Context, msg string, args ...any) {
	logWithTrace(ctx, zapcore.WarnLevel, msg, callerSkip, args...)
}

// Error logs an error message
func Error(ctx context.Context, msg string, args ...any) {
	logWithTrace(ctx, zapcore.ErrorLevel, msg, callerSkip, args...)
}

// ErrorWithErr logs an error message with an error object and marks the
// active span as failed.
func ErrorWithErr(ctx context.Context, msg string, err error, args ...any) {
	trace.RecordError(ctx, err)
	logWithTrace(ctx, zapcore.ErrorLevel, msg, callerSkip, append([]any{"error", err}, args...)...)
}

// DebugSkip is Debug for wrappers: skip extra frames so the reported caller
// is the wrapper's caller.
func DebugSkip(ctx context.Context, skip int, msg string, args ...any) {
	if !detailedLogging {
		return
	}
	logWithTrace(ctx, zapcore.DebugLevel, msg, callerSkip+skip, args...)
}

// InfoSkip is Info for wrappers.
func InfoSkip(ctx context.Context, skip int, msg string, args ...any) {
	logWithTrace(ctx, zapcore.InfoLevel, msg, callerSkip+skip, args...)
}

// WarnSkip is Warn for wrappers.
func WarnSkip(ctx context.Context, skip int, msg string, args ...any) {
	logWithTrace(ctx, zapcore.WarnLevel, msg, callerSkip+skip, args...)
}

// ErrorWithErrSkip is ErrorWithErr for wrappers.
func ErrorWithErrSkip(ctx context.Context, skip int, msg string, err error, args ...any) {
	trace.RecordError(ctx, err)
	logWithTrace(ctx, zapcore.ErrorLevel, msg, callerSkip+skip, append([]any{"error", err}, args...)...)
}

// logWithTrace logs a message with trace ID and span ID if available.
// skip is the number of frames between the real caller and this function.
func logWithTrace(ctx context.Context, level zapcore.Level, msg string, skip int, args ...any) {
	if traceID, spanID, ok := trace.GetTraceFields(ctx); ok {
		args = append([]any{"trace_id", traceID, "span_id", spanID}, args...)
	}

	s := globalLogger.WithOptions(zap.AddCallerSkip(skip)).Sugar()
	switch level {
	case zapcore.DebugLevel:
		s.Debugw(msg, args...)
	case zapcore.WarnLevel:
		s.Warnw(msg, args...)
	case zapcore.ErrorLevel:
		s.Errorw(msg, args...)
	default:
		s.Infow(msg, args...)
	}
}

// OperationTimer measures an operation and closes its span.
type OperationTimer struct {
	ctx    context.Context
	end    func()
	start  time.Time
	fields []any
}

// StartOperation starts timing an operation inside a new span
func StartOperation(ctx context.Context, operation string, fields ...any) *OperationTimer {
	ctx, span := trace.StartSpan(ctx, operation)
	trace.SetAttributes(ctx, toAttributes(fields)...)

	Debug(ctx, "Operation started", append([]any{"operation", operation}, fields...)...)

	return &OperationTimer{
		ctx:    ctx,
		end:    func() { span.End() },
		start:  time.Now(),
		fields: append([]any{"operation", operation}, fields...),
	}
}

// End completes the operation timer and logs the duration
func (ot *OperationTimer) End(additionalFields ...any) {
	duration := time.Since(ot.start)
	trace.SetAttributes(ot.ctx, attribute.Int64("duration_ms", duration.Milliseconds()))
	trace.SetAttributes(ot.ctx, toAttributes(additionalFields)...)

	fields := append(append([]any{}, ot.fields...), "duration_ms", duration.Milliseconds())
	logWithTrace(ot.ctx, zapcore.DebugLevel, "Operation completed", callerSkip, append(fields, additionalFields...)...)
	ot.end()
}

// EndWithError completes the operation timer with an error
func (ot *OperationTimer) EndWithError(err error, additionalFields ...any) {
	duration := time.Since(ot.start)
	trace.SetAttributes(ot.ctx, attribute.Int64("duration_ms", duration.Milliseconds()))
	trace.RecordError(ot.ctx, err)

	fields := append(append([]any{}, ot.fields...), "duration_ms", duration.Milliseconds(), "error", err)
	logWithTrace(ot.ctx, zapcore.ErrorLevel, "Operation failed", callerSkip, append(fields, additionalFields...)...)
	ot.end()
}

// GetContext returns the context with the span
func (ot *OperationTimer) GetContext() context.Context {
	return ot.ctx
}

func toAttributes(fields []any) []attribute.KeyValue {
	attrs := make([]attribute.KeyValue, 0, len(fields)/2)
	for i := 0; i+1 < len(fields); i += 2 {
		key, ok := fields[i].(string)
		if !ok {
			continue
		}
		switch v := fields[i+1].(type) {
		case string:
			attrs = append(attrs, attribute.String(key, v))
		case int:
			attrs = append(attrs, attribute.Int(key, v))
		case int64:
			attrs = append(attrs, attribute.Int64(key, v))
		case float64:
			attrs = append(attrs, attribute.Float64(key, v))
		case bool:
			attrs = append(attrs, attribute.Bool(key, v))
		}
	}
	return attrs
}

// Pick logs a selected pick (always logged regardless of level)
func Pick(ctx context.Context, p types.Pick, fields ...any) {
	trace.AddEvent(ctx, "pick_selected",
		attribute.Int64("fixture_id", p.FixtureID),
		attribute.String("market", p.Market),
		attribute.String("outcome", p.Outcome),
		attribute.String("odd", p.RawOdd),
	)

	allFields := append([]any{
		"type", "PICK",
		"fixture_id", p.FixtureID,
		"match", p.Home + " vs " + p.Away,
		"market", p.Market,
		"outcome", p.Outcome,
		"odd", p.RawOdd,
	}, fields...)
	logWithTrace(ctx, zapcore.InfoLevel, "Pick selected", callerSkip, allFields...)
}

// Publish logs a message delivered to a channel
func Publish(ctx context.Context, channelID string, length int, fields ...any) {
	trace.AddEvent(ctx, "message_published",
		attribute.String("channel_id", channelID),
		attribute.Int("length", length),
	)

	allFields := append([]any{
		"type", "PUBLISH",
		"channel_id", channelID,
		"length", length,
	}, fields...)
	logWithTrace(ctx, zapcore.InfoLevel, "Message published", callerSkip, allFields...)
}

// IsDebugEnabled returns whether debug logging is enabled
func IsDebugEnabled() bool {
	return detailedLogging
}
