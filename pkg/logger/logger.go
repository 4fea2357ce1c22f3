package logger

import (
	"fmt"
	"sync/atomic"

	"go.uber.org/zap"
)

var (
	base        atomic.Pointer[zap.Logger]
	serviceName atomic.Value
)

func init() {
	base.Store(zap.NewNop())
	serviceName.Store("default")
}

// Init собирает production-логгер (или development при debug) и ставит имя сервиса.
func Init(service string, debug bool) error {
	var (
		l   *zap.Logger
		err error
	)
	if debug {
		l, err = zap.NewDevelopment()
	} else {
		l, err = zap.NewProduction()
	}
	if err != nil {
		return fmt.Errorf("build zap logger: %w", err)
	}
	SetLogger(l)
	SetServiceName(service)
	return nil
}

// SetLogger подменяет базовый логгер (тесты используют zaptest/observer).
func SetLogger(l *zap.Logger) {
	if l == nil {
		l = zap.NewNop()
	}
	base.Store(l)
}

func SetServiceName(newName string) string {
	oldName, _ := serviceName.Load().(string)
	serviceName.Store(newName)

	return oldName
}

func Sync() { _ = base.Load().Sync() }

func with() *zap.Logger {
	name, _ := serviceName.Load().(string)
	return base.Load().With(zap.String("service", name))
}

func Debug(format string, args ...interface{}) {
	with().Debug(fmt.Sprintf(format, args...))
}

func Info(format string, args ...interface{}) {
	with().Info(fmt.Sprintf(format, args...))
}

func Warn(format string, args ...interface{}) {
	with().Warn(fmt.Sprintf(format, args...))
}

func Error(format string, args ...interface{}) {
	with().Error(fmt.Sprintf(format, args...))
}

func Fatal(format string, args ...interface{}) {
	with().Fatal(fmt.Sprintf(format, args...))
}
