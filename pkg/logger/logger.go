package logger

import (
	"sync"

	"go.uber.org/zap"
)

var (
	mu    sync.RWMutex
	base  = zap.NewNop()
	sugar = base.Sugar()
)

// Init replaces the process logger. Development gets a console encoder with debug level,
// everything else gets production JSON.
func Init(environment string) error {
	var (
		l   *zap.Logger
		err error
	)
	if environment == "development" {
		l, err = zap.NewDevelopment(zap.AddCallerSkip(1))
	} else {
		l, err = zap.NewProduction(zap.AddCallerSkip(1))
	}
	if err != nil {
		return err
	}
	Set(l)
	return nil
}

// Set installs l as the process logger. Tests use it with zaptest/zap.NewNop.
func Set(l *zap.Logger) {
	mu.Lock()
	defer mu.Unlock()
	base = l
	sugar = l.Sugar()
}

// L returns the structured logger for callers that want typed fields.
func L() *zap.Logger {
	mu.RLock()
	defer mu.RUnlock()
	return base
}

func current() *zap.SugaredLogger {
	mu.RLock()
	defer mu.RUnlock()
	return sugar
}

func Info(format string, v ...interface{}) {
	current().Infof(format, v...)
}

func Error(format string, v ...interface{}) {
	current().Errorf(format, v...)
}

func Debug(format string, v ...interface{}) {
	current().Debugf(format, v...)
}

func Warn(format string, v ...interface{}) {
	current().Warnf(format, v...)
}

// Sync flushes buffered entries; call it on shutdown.
func Sync() {
	_ = L().Sync()
}
