package cli

import (
	"io"
	"time"

	"github.com/rs/zerolog"
)

// newLogger returns a console logger writing to w. Only warnings and
// errors are shown unless verbose is set.
func newLogger(w io.Writer, verbose bool) zerolog.Logger {
	level := zerolog.WarnLevel
	if verbose {
		level = zerolog.DebugLevel
	}

	writer := zerolog.ConsoleWriter{
		Out:        w,
		NoColor:    true,
		TimeFormat: time.RFC3339,
	}

	return zerolog.New(writer).Level(level).With().Timestamp().Logger()
}
