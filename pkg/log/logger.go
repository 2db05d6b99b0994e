// Package log provides the zerolog-backed logger used for numkit
// diagnostics: verbose domain reports from the smooth extensions and
// progress messages from the bootstrap loops.
//
// The logger writes to standard error. Library code never fails through
// this channel; errors travel through return values (see pkg/errors).
package log

import (
	"io"
	"os"
	"sync"

	"github.com/rs/zerolog"

	"github.com/YuminosukeSato/numkit/pkg/errors"
)

var (
	mu     sync.RWMutex
	logger = zerolog.New(os.Stderr).With().Timestamp().Str("lib", "numkit").Logger()
)

func init() {
	// Route library warnings into structured log events. Injected through a
	// setter because pkg/errors must not import pkg/log.
	errors.SetZerologWarnFunc(func(w error) {
		l := Logger()
		if obj, ok := w.(zerolog.LogObjectMarshaler); ok {
			l.Warn().Object("warning", obj).Msg(w.Error())
			return
		}
		l.Warn().Err(w).Msg(w.Error())
	})
}

// Setup sets the global level from a string ("debug", "info", "warn",
// "error", "disabled"). Unknown strings leave the level at info.
func Setup(level string) {
	lvl, err := zerolog.ParseLevel(level)
	if err != nil {
		lvl = zerolog.InfoLevel
	}
	mu.Lock()
	defer mu.Unlock()
	logger = logger.Level(lvl)
}

// Logger returns the package logger.
func Logger() zerolog.Logger {
	mu.RLock()
	defer mu.RUnlock()
	return logger
}

// SetOutput redirects the package logger, returning a restore function.
// Intended for tests that capture diagnostics.
func SetOutput(w io.Writer) (restore func()) {
	mu.Lock()
	prev := logger
	logger = logger.Output(w)
	mu.Unlock()
	return func() {
		mu.Lock()
		logger = prev
		mu.Unlock()
	}
}
