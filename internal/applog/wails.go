package applog

import (
	"log/slog"
	"os"

	"github.com/wailsapp/wails/v2/pkg/logger"
)

// WailsLogger routes the Wails runtime's own log output into slog.
type WailsLogger struct {
	l            *slog.Logger
	panicOnFatal bool
}

var _ logger.Logger = (*WailsLogger)(nil)

// NewWailsLogger returns an adapter writing through l.
// A nil l uses the "wails" component logger.
func NewWailsLogger(l *slog.Logger) *WailsLogger {
	if l == nil {
		l = WithComponent("wails")
	}
	return &WailsLogger{l: l}
}

func (w *WailsLogger) Print(message string)   { w.l.Info(message) }
func (w *WailsLogger) Trace(message string)   { w.l.Debug(message, slog.Bool("trace", true)) }
func (w *WailsLogger) Debug(message string)   { w.l.Debug(message) }
func (w *WailsLogger) Info(message string)    { w.l.Info(message) }
func (w *WailsLogger) Warning(message string) { w.l.Warn(message) }
func (w *WailsLogger) Error(message string)   { w.l.Error(message) }

// PanicOnFatal makes Fatal panic instead of exiting the process. Embedded
// launches use it so the host process survives and the launch worker can
// recover and report failure.
func (w *WailsLogger) PanicOnFatal() *WailsLogger {
	w.panicOnFatal = true
	return w
}

// Fatal logs and exits, matching the contract of the Wails default logger.
func (w *WailsLogger) Fatal(message string) {
	w.l.Error(message, slog.Bool("fatal", true))
	if w.panicOnFatal {
		panic("wails fatal: " + message)
	}
	exitFn(1)
}

var exitFn = os.Exit

// WailsLevel maps a level name to the Wails log level.
func WailsLevel(s string) logger.LogLevel {
	switch ParseLevel(s) {
	case slog.LevelDebug:
		return logger.DEBUG
	case slog.LevelWarn:
		return logger.WARNING
	case slog.LevelError:
		return logger.ERROR
	default:
		return logger.INFO
	}
}
