package log

import (
	"bytes"
	"fmt"
	"io"
	"log"
	"os"
	"sync"

	"github.com/go-logfmt/logfmt"
	"go.uber.org/zap"
)

type (
	Logger interface {
		Errorf(msg string, args ...any)
		Warnf(msg string, args ...any)
		Infof(msg string, args ...any)
	}

	simpleLogger struct {
		mu  sync.Mutex
		out *log.Logger
	}

	zapLogger struct {
		sugar *zap.SugaredLogger
	}

	noopLogger struct{}
)

// SimpleLogger is a bare-bones implementation of the logging interface that writes one logfmt record per message to
// stderr, e.g., used for testing
func SimpleLogger() Logger {
	return NewSimpleLogger(os.Stderr)
}

// NewSimpleLogger is SimpleLogger writing to w.
func NewSimpleLogger(w io.Writer) Logger {
	return &simpleLogger{out: log.New(w, "", 0)}
}

func (l *simpleLogger) Errorf(msg string, args ...any) {
	l.write("error", msg, args...)
}

func (l *simpleLogger) Warnf(msg string, args ...any) {
	l.write("warning", msg, args...)
}

func (l *simpleLogger) Infof(msg string, args ...any) {
	l.write("info", msg, args...)
}

func (l *simpleLogger) write(level, msg string, args ...any) {
	var buf bytes.Buffer
	enc := logfmt.NewEncoder(&buf)
	if err := enc.EncodeKeyvals("level", level, "msg", fmt.Sprintf(msg, args...)); err != nil {
		buf.Reset()
		buf.WriteString(fmt.Sprintf("level=%s msg=%q", level, fmt.Sprintf(msg, args...)))
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	l.out.Print(buf.String())
}

// ZapLogger adapts a zap logger to the logging interface.
func ZapLogger(l *zap.Logger) Logger {
	return &zapLogger{sugar: l.WithOptions(zap.AddCallerSkip(1)).Sugar()}
}

func (l *zapLogger) Errorf(msg string, args ...any) {
	l.sugar.Errorf(msg, args...)
}

func (l *zapLogger) Warnf(msg string, args ...any) {
	l.sugar.Warnf(msg, args...)
}

func (l *zapLogger) Infof(msg string, args ...any) {
	l.sugar.Infof(msg, args...)
}

// NoopLogger discards every message.
func NoopLogger() Logger {
	return noopLogger{}
}

func (noopLogger) Errorf(string, ...any) {}

func (noopLogger) Warnf(string, ...any) {}

func (noopLogger) Infof(string, ...any) {}
