// Package logging provides the zerolog constructors shared by the buildconf
// command and its components.
package logging

import (
	"io"
	"os"

	"github.com/rs/zerolog"
)

// New returns a logger tagged with the given component name, writing JSON
// lines to stderr.
func New(component string) zerolog.Logger {
	return NewWithWriter(component, os.Stderr)
}

// NewWithWriter is New with an explicit destination; tests pass a buffer.
func NewWithWriter(component string, w io.Writer) zerolog.Logger {
	return zerolog.New(w).With().
		Str("component", component).
		Timestamp().
		Logger()
}
