package logx

import (
	"os"
	"sync"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Level mirrors the levels accepted by LOG_LEVEL
type Level int8

const (
	LevelDebug Level = iota - 1
	LevelInfo
	LevelWarn
	LevelError
)

func (l Level) zapLevel() zapcore.Level {
	switch l {
	case LevelDebug:
		return zapcore.DebugLevel
	case LevelWarn:
		return zapcore.WarnLevel
	case LevelError:
		return zapcore.ErrorLevel
	default:
		return zapcore.InfoLevel
	}
}

// ParseLevel maps "debug", "warn" and "error" to their level; anything else is info.
func ParseLevel(s string) Level {
	switch s {
	case "debug":
		return LevelDebug
	case "warn":
		return LevelWarn
	case "error":
		return LevelError
	default:
		return LevelInfo
	}
}

// Fields are structured key/value pairs attached to an entry
type Fields map[string]any

var (
	mu    sync.RWMutex
	level = zap.NewAtomicLevelAt(zapcore.InfoLevel)
	base  = newLogger(false)
)

func newLogger(development bool) *zap.SugaredLogger {
	var encoder zapcore.Encoder
	if development {
		cfg := zap.NewDevelopmentEncoderConfig()
		cfg.EncodeLevel = zapcore.CapitalColorLevelEncoder
		encoder = zapcore.NewConsoleEncoder(cfg)
	} else {
		cfg := zap.NewProductionEncoderConfig()
		cfg.EncodeTime = zapcore.ISO8601TimeEncoder
		encoder = zapcore.NewJSONEncoder(cfg)
	}

	core := zapcore.NewCore(encoder, zapcore.Lock(os.Stdout), level)
	return zap.New(core, zap.AddCaller(), zap.AddCallerSkip(1)).Sugar()
}

func logger() *zap.SugaredLogger {
	mu.RLock()
	defer mu.RUnlock()
	return base
}

// Configure switches between the console encoder (development) and JSON.
func Configure(development bool) {
	mu.Lock()
	defer mu.Unlock()
	base = newLogger(development)
}

func SetLevel(l Level) {
	level.SetLevel(l.zapLevel())
}

func GetLevel() Level {
	switch level.Level() {
	case zapcore.DebugLevel:
		return LevelDebug
	case zapcore.WarnLevel:
		return LevelWarn
	case zapcore.ErrorLevel:
		return LevelError
	default:
		return LevelInfo
	}
}

// ReplaceCore routes output to core (still gated by SetLevel) and returns a
// function restoring the previous logger.
func ReplaceCore(core zapcore.Core) (restore func()) {
	gated, err := zapcore.NewIncreaseLevelCore(core, level)
	if err != nil {
		gated = core
	}

	mu.Lock()
	prev := base
	base = zap.New(gated, zap.AddCaller(), zap.AddCallerSkip(1)).Sugar()
	mu.Unlock()

	return func() {
		mu.Lock()
		base = prev
		mu.Unlock()
	}
}

// Sync flushes buffered entries
func Sync() error {
	return logger().Sync()
}

func Debug(args ...any)                 { logger().Debug(args...) }
func Debugf(format string, args ...any) { logger().Debugf(format, args...) }
func Info(args ...any)                  { logger().Info(args...) }
func Infof(format string, args ...any)  { logger().Infof(format, args...) }
func Warn(args ...any)                  { logger().Warn(args...) }
func Warnf(format string, args ...any)  { logger().Warnf(format, args...) }
func Error(args ...any)                 { logger().Error(args...) }
func Errorf(format string, args ...any) { logger().Errorf(format, args...) }
func Fatal(args ...any)                 { logger().Fatal(args...) }
func Fatalf(format string, args ...any) { logger().Fatalf(format, args...) }

// Entry is a logger carrying structured fields
type Entry struct {
	s *zap.SugaredLogger
}

func WithFields(fields Fields) *Entry {
	kv := make([]any, 0, len(fields)*2)
	for k, v := range fields {
		kv = append(kv, k, v)
	}
	return &Entry{s: logger().With(kv...)}
}

// WithError is shorthand for WithFields(Fields{"error": err})
func WithError(err error) *Entry {
	return &Entry{s: logger().With(zap.Error(err))}
}

func (e *Entry) WithFields(fields Fields) *Entry {
	kv := make([]any, 0, len(fields)*2)
	for k, v := range fields {
		kv = append(kv, k, v)
	}
	return &Entry{s: e.s.With(kv...)}
}

func (e *Entry) WithError(err error) *Entry {
	return &Entry{s: e.s.With(zap.Error(err))}
}

func (e *Entry) Debug(args ...any)                 { e.s.Debug(args...) }
func (e *Entry) Debugf(format string, args ...any) { e.s.Debugf(format, args...) }
func (e *Entry) Info(args ...any)                  { e.s.Info(args...) }
func (e *Entry) Infof(format string, args ...any)  { e.s.Infof(format, args...) }
func (e *Entry) Warn(args ...any)                  { e.s.Warn(args...) }
func (e *Entry) Warnf(format string, args ...any)  { e.s.Warnf(format, args...) }
func (e *Entry) Error(args ...any)                 { e.s.Error(args...) }
func (e *Entry) Errorf(format string, args ...any) { e.s.Errorf(format, args...) }
