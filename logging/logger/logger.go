// Package logger provides structured logging on top of logrus.
package logger

import (
	"context"
	"fmt"
	"os"

	"github.com/sirupsen/logrus"
)

// Config holds logger configuration.
type Config struct {
	Level      string // debug, info, warn, error
	Format     string // text or json
	Output     string // stdout, stderr or file
	OutputFile string // path when Output is file
}

// Logger wraps a logrus logger with a context-aware key/value API.
type Logger struct {
	l    *logrus.Logger
	file *os.File
}

var std = &Logger{l: logrus.StandardLogger()}

// New configures the standard logger from cfg and returns a cleanup
// function that flushes and closes any open log file.
func New(cfg *Config) (func(), error) {
	l := logrus.StandardLogger()

	level := logrus.InfoLevel
	if cfg != nil && cfg.Level != "" {
		parsed, err := logrus.ParseLevel(cfg.Level)
		if err != nil {
			return nil, fmt.Errorf("invalid log level %q: %w", cfg.Level, err)
		}
		level = parsed
	}
	l.SetLevel(level)

	if cfg != nil && cfg.Format == "json" {
		l.SetFormatter(&logrus.JSONFormatter{})
	} else {
		l.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	}

	var file *os.File
	if cfg != nil {
		switch cfg.Output {
		case "", "stdout":
			l.SetOutput(os.Stdout)
		case "stderr":
			l.SetOutput(os.Stderr)
		case "file":
			f, err := os.OpenFile(cfg.OutputFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
			if err != nil {
				return nil, fmt.Errorf("failed to open log file: %w", err)
			}
			l.SetOutput(f)
			file = f
		default:
			return nil, fmt.Errorf("unknown log output %q", cfg.Output)
		}
	}

	std = &Logger{l: l, file: file}

	cleanup := func() {
		if file != nil {
			_ = file.Close()
		}
	}
	return cleanup, nil
}

// StdLogger returns the process-wide logger.
func StdLogger() *Logger {
	return std
}

// Debug logs at debug level with alternating key/value pairs.
func (lg *Logger) Debug(ctx context.Context, msg string, kvs ...any) {
	lg.entry(ctx, kvs).Debug(msg)
}

// Info logs at info level with alternating key/value pairs.
func (lg *Logger) Info(ctx context.Context, msg string, kvs ...any) {
	lg.entry(ctx, kvs).Info(msg)
}

// Warn logs at warn level with alternating key/value pairs.
func (lg *Logger) Warn(ctx context.Context, msg string, kvs ...any) {
	lg.entry(ctx, kvs).Warn(msg)
}

// Error logs at error level with alternating key/value pairs.
func (lg *Logger) Error(ctx context.Context, msg string, kvs ...any) {
	lg.entry(ctx, kvs).Error(msg)
}

func (lg *Logger) entry(ctx context.Context, kvs []any) *logrus.Entry {
	e := lg.l.WithContext(ctx)
	if len(kvs) == 0 {
		return e
	}
	fields := make(logrus.Fields, len(kvs)/2)
	for i := 0; i+1 < len(kvs); i += 2 {
		key, ok := kvs[i].(string)
		if !ok {
			key = fmt.Sprint(kvs[i])
		}
		fields[key] = kvs[i+1]
	}
	if len(kvs)%2 != 0 {
		fields[fmt.Sprint(kvs[len(kvs)-1])] = "(MISSING)"
	}
	return e.WithFields(fields)
}
