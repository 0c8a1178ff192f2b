package logger

import (
	"io"
	"os"
	"sync"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var level = zap.NewAtomicLevelAt(zap.InfoLevel)

// SetLevel changes the level of every logger created by this package.
// Unknown names leave the level untouched.
func SetLevel(name string) error {
	return level.UnmarshalText([]byte(name))
}

type BaseLogger struct {
	mu     sync.Mutex
	prefix string
	sugar  *zap.SugaredLogger
}

func NewLogger(writer io.Writer, prefix string) *BaseLogger {
	if writer == nil {
		writer = os.Stdout
	}
	encoderCfg := zap.NewProductionEncoderConfig()
	encoderCfg.EncodeTime = zapcore.ISO8601TimeEncoder
	encoderCfg.EncodeLevel = zapcore.CapitalLevelEncoder

	core := zapcore.NewCore(zapcore.NewConsoleEncoder(encoderCfg), zapcore.AddSync(writer), level)
	return &BaseLogger{
		prefix: prefix,
		sugar:  zap.New(core).Sugar(),
	}
}

func (l *BaseLogger) Log(format string, v ...interface{}) {
	l.sugar.Infof(l.format(format), v...)
}

func (l *BaseLogger) Warn(format string, v ...interface{}) {
	l.sugar.Warnf(l.format(format), v...)
}

func (l *BaseLogger) Error(format string, v ...interface{}) {
	l.sugar.Errorf(l.format(format), v...)
}

func (l *BaseLogger) format(format string) string {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.prefix == "" {
		return format
	}
	return l.prefix + " " + format
}

func (l *BaseLogger) WithPrefix(extraPrefix string) *BaseLogger {
	l.mu.Lock()
	defer l.mu.Unlock()
	return &BaseLogger{
		prefix: l.prefix + " " + extraPrefix,
		sugar:  l.sugar,
	}
}

func (l *BaseLogger) SetPrefix(prefix string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.prefix = prefix
}

// Sync flushes buffered entries.
func (l *BaseLogger) Sync() error {
	return l.sugar.Sync()
}
