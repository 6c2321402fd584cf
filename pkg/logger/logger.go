package logger

import (
	"go.uber.org/zap"
)

var l = zap.NewNop()

// Init builds the global logger. mode "release" selects the production
// encoder, anything else the development one.
func Init(mode string) error {
	var (
		built *zap.Logger
		err   error
	)
	if mode == "release" {
		built, err = zap.NewProduction()
	} else {
		built, err = zap.NewDevelopment()
	}
	if err != nil {
		return err
	}
	l = built
	return nil
}

// L exposes the underlying zap logger for middleware that needs it directly.
func L() *zap.Logger { return l }

func Debug(msg string, fields ...zap.Field) { l.Debug(msg, fields...) }
func Info(msg string, fields ...zap.Field)  { l.Info(msg, fields...) }
func Warn(msg string, fields ...zap.Field)  { l.Warn(msg, fields...) }
func Error(msg string, fields ...zap.Field) { l.Error(msg, fields...) }

// Sync flushes buffered log entries; call on shutdown.
func Sync() { _ = l.Sync() }
