package logging

import (
	"os"
	"path/filepath"
	"sort"
	"sync/atomic"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
)

type Fields map[string]interface{}

// Config controls where log lines go. An empty Config logs JSON at info
// level to stderr.
type Config struct {
	Level string
	// Dir enables a rolling <App>.log file inside Dir in addition to stderr.
	Dir string
	App string
}

var current atomic.Pointer[zap.Logger]

func init() {
	current.Store(newZap(Config{}))
}

// Configure replaces the process logger. The previous logger is flushed.
func Configure(cfg Config) {
	prev := current.Swap(newZap(cfg))
	if prev != nil {
		_ = prev.Sync()
	}
}

// Sync flushes buffered entries; call it before the process exits.
func Sync() {
	_ = current.Load().Sync()
}

func newZap(cfg Config) *zap.Logger {
	lv := zap.NewAtomicLevelAt(zap.InfoLevel)
	if cfg.Level != "" {
		if err := lv.UnmarshalText([]byte(cfg.Level)); err != nil {
			lv.SetLevel(zap.InfoLevel)
		}
	}
	enc := zap.NewProductionEncoderConfig()
	enc.TimeKey = "ts"
	enc.MessageKey = "msg"
	enc.EncodeTime = zapcore.RFC3339TimeEncoder

	cores := []zapcore.Core{
		zapcore.NewCore(zapcore.NewJSONEncoder(enc), zapcore.Lock(os.Stderr), lv),
	}
	if cfg.Dir != "" {
		app := cfg.App
		if app == "" {
			app = "kids-games"
		}
		w := &lumberjack.Logger{
			Filename:   filepath.Join(cfg.Dir, app+".log"),
			MaxSize:    100,
			MaxBackups: 7,
			MaxAge:     10,
			Compress:   true,
		}
		cores = append(cores, zapcore.NewCore(zapcore.NewJSONEncoder(enc), zapcore.AddSync(w), lv))
	}
	return zap.New(zapcore.NewTee(cores...), zap.AddCaller(), zap.AddCallerSkip(2))
}

func toZap(err error, fields Fields) []zap.Field {
	keys := make([]string, 0, len(fields))
	for k := range fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	out := make([]zap.Field, 0, len(keys)+1)
	for _, k := range keys {
		out = append(out, zap.Any(k, fields[k]))
	}
	if err != nil {
		out = append(out, zap.Error(err))
	}
	return out
}

func output(level zapcore.Level, msg string, err error, fields Fields) {
	l := current.Load()
	if ce := l.Check(level, msg); ce != nil {
		ce.Write(toZap(err, fields)...)
	}
}

// Debug logs a debug message with optional fields.
func Debug(msg string, fields Fields) {
	output(zapcore.DebugLevel, msg, nil, fields)
}

// Info logs an informational message with optional fields.
func Info(msg string, fields Fields) {
	output(zapcore.InfoLevel, msg, nil, fields)
}

// Warn logs a degraded-but-handled condition.
func Warn(msg string, err error, fields Fields) {
	output(zapcore.WarnLevel, msg, err, fields)
}

// Error logs an error message and includes the error text in the fields.
func Error(msg string, err error, fields Fields) {
	output(zapcore.ErrorLevel, msg, err, fields)
}

// Fatal logs a fatal error and exits the process.
func Fatal(msg string, err error, fields Fields) {
	output(zapcore.ErrorLevel, msg, err, fields)
	Sync()
	os.Exit(1)
}
