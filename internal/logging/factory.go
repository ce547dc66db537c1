package logging

import (
	"io"
	"strings"
)

// New builds the backend named in opts writing to w.
func New(w io.Writer, opts Options) Logger {
	if strings.EqualFold(opts.Backend, "slog") {
		return newSlogBackend(w, opts)
	}
	return newZerologBackend(w, opts)
}
