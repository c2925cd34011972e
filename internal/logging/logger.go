package logging

import (
	"context"
	"fmt"
	"os"
	"sync"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Config configures the process-wide logger.
type Config struct {
	// Type selects the encoder: "console" for human-readable output,
	// "json" (or "file") for structured JSON.
	Type string
	// Level is one of "debug", "info", "warning", "error".
	Level string
	// Writer is where encoded log lines go. Defaults to os.Stderr when nil.
	Writer zapcore.WriteSyncer
}

var (
	globalLogger *zap.Logger
	globalMu     sync.RWMutex
)

// Initialize sets up the global logger. Call once at process start;
// GetLogger lazily creates a no-op-safe default if this was never called,
// so libraries never have to guard every log call on whether a caller
// remembered to configure logging.
func Initialize(cfg Config) error {
	globalMu.Lock()
	defer globalMu.Unlock()

	writer := cfg.Writer
	if writer == nil {
		writer = os.Stderr
	}

	encoderConfig := zap.NewProductionEncoderConfig()
	encoderConfig.TimeKey = "timestamp"
	encoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder

	var core zapcore.Core
	switch cfg.Type {
	case "console":
		core = zapcore.NewCore(zapcore.NewConsoleEncoder(encoderConfig), writer, levelToZap(cfg.Level))
	case "", "file", "json":
		core = zapcore.NewCore(zapcore.NewJSONEncoder(encoderConfig), writer, levelToZap(cfg.Level))
	default:
		return fmt.Errorf("logging: unsupported logger type %q", cfg.Type)
	}

	globalLogger = zap.New(core)
	return nil
}

// GetLogger returns a namespaced Logger. Namespaces mirror the component
// they instrument: "agent", "registry", "executor", "provider.openai",
// "provider.anthropic".
func GetLogger(namespace string) Logger {
	globalMu.RLock()
	logger := globalLogger
	globalMu.RUnlock()

	if logger == nil {
		logger = zap.NewNop()
	}
	return &zapLogger{logger: logger.Named(namespace), namespace: namespace}
}

type zapLogger struct {
	logger    *zap.Logger
	namespace string
}

func (l *zapLogger) Debug(ctx context.Context, msg string, opts ...EventOption) {
	l.emit(EventTypeDebug, msg, opts)
}

func (l *zapLogger) Info(ctx context.Context, msg string, opts ...EventOption) {
	l.emit(EventTypeInfo, msg, opts)
}

func (l *zapLogger) Warning(ctx context.Context, msg string, opts ...EventOption) {
	l.emit(EventTypeWarning, msg, opts)
}

func (l *zapLogger) Error(ctx context.Context, msg string, opts ...EventOption) {
	l.emit(EventTypeError, msg, opts)
}

func (l *zapLogger) Progress(ctx context.Context, msg string, opts ...EventOption) {
	l.emit(EventTypeProgress, msg, opts)
}

func (l *zapLogger) emit(etype EventType, msg string, opts []EventOption) {
	event := &Event{Type: etype, Namespace: l.namespace, Message: msg}
	for _, opt := range opts {
		opt(event)
	}

	fields := make([]zap.Field, 0, 3)
	if event.Name != "" {
		fields = append(fields, zap.String("name", event.Name))
	}
	if event.Data != nil {
		fields = append(fields, zap.Any("data", event.Data))
	}

	switch etype {
	case EventTypeDebug:
		l.logger.Debug(msg, fields...)
	case EventTypeWarning:
		l.logger.Warn(msg, fields...)
	case EventTypeError:
		l.logger.Error(msg, fields...)
	default:
		l.logger.Info(msg, fields...)
	}
}

func levelToZap(level string) zapcore.Level {
	switch level {
	case "debug":
		return zapcore.DebugLevel
	case "warning", "warn":
		return zapcore.WarnLevel
	case "error":
		return zapcore.ErrorLevel
	default:
		return zapcore.InfoLevel
	}
}
