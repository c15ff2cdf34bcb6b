// Package log provides an abstraction over structured loggers.
package log

import (
	"fmt"
	"io"

	"github.com/rs/zerolog"
)

type (
	// Logger is used by most components so the same log is used everywhere.
	Logger interface {
		// Printf writes the formatted string with values to the logger.
		// Arguments are handled in the manner of fmt.Printf.
		Printf(format string, v ...interface{})
	}

	// Debugger is a Logger that can write events that are only shown when debugging.
	Debugger interface {
		Logger
		Debugf(format string, v ...interface{})
	}

	// Zerolog is a Logger that writes leveled, structured events.
	Zerolog struct {
		zerolog.Logger
	}
)

// NewZerolog creates a Logger that writes json events to the writer.
// The level is parsed by zerolog.ParseLevel; an empty level logs info messages and above.
func NewZerolog(w io.Writer, level string) (*Zerolog, error) {
	if len(level) == 0 {
		level = zerolog.LevelInfoValue
	}
	lvl, err := zerolog.ParseLevel(level)
	if err != nil {
		return nil, fmt.Errorf("parsing log level: %w", err)
	}
	zl := zerolog.New(w).Level(lvl).With().Timestamp().Logger()
	l := Zerolog{
		Logger: zl,
	}
	return &l, nil
}

// Debugf writes the formatted message as a debug event if the logger is a Debugger.
// Other loggers print the message.
func Debugf(l Logger, format string, v ...interface{}) {
	if d, ok := l.(Debugger); ok {
		d.Debugf(format, v...)
		return
	}
	l.Printf(format, v...)
}

// Printf writes an info event with the formatted message.
func (l Zerolog) Printf(format string, v ...interface{}) {
	l.Info().Msgf(format, v...)
}

// Debugf writes a debug event with the formatted message.
func (l Zerolog) Debugf(format string, v ...interface{}) {
	l.Debug().Msgf(format, v...)
}

// Errorf writes an error event with the formatted message.
func (l Zerolog) Errorf(format string, v ...interface{}) {
	l.Error().Msgf(format, v...)
}

// Component creates a child logger that tags events with the name of the component writing them.
func (l Zerolog) Component(name string) *Zerolog {
	zl := l.With().Str("component", name).Logger()
	return &Zerolog{Logger: zl}
}
