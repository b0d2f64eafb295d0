package logging

import (
	"sync/atomic"

	"github.com/rs/zerolog"
)

var current atomic.Pointer[zerolog.Logger]

func init() {
	l := zerolog.Nop()
	current.Store(&l)
}

// Logger returns the process logger. It is a no-op until configured.
func Logger() *zerolog.Logger {
	return current.Load()
}

// SetLevel changes the level of the process logger.
func SetLevel(lvl zerolog.Level) {
	l := current.Load().Level(lvl)
	current.Store(&l)
}

func Tracef(format string, args ...any) { Logger().Trace().Msgf(format, args...) }

func Debugf(format string, args ...any) { Logger().Debug().Msgf(format, args...) }

func Infof(format string, args ...any) { Logger().Info().Msgf(format, args...) }

func Warnf(format string, args ...any) { Logger().Warn().Msgf(format, args...) }

func Errf(format string, args ...any) { Logger().Error().Msgf(format, args...) }
