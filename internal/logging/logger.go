// Package logging builds the slog loggers used across jsonview.
package logging

import (
	"io"
	"log/slog"
	"os"
)

// Log formats.
const (
	FormatText = "text"
	FormatJSON = "json"
)

// Options configures New. The zero value logs text at info level to stderr.
type Options struct {
	Level  slog.Level
	Format string
	// Output defaults to os.Stderr, keeping stdout free for the player.
	Output io.Writer
}

// New creates the application logger. The "error" key is renamed to "err"
// so both spellings end up in one column.
func New(opts Options) *slog.Logger {
	out := opts.Output
	if out == nil {
		out = os.Stderr
	}
	ho := &slog.HandlerOptions{
		Level: opts.Level,
		ReplaceAttr: func(groups []string, a slog.Attr) slog.Attr {
			if a.Key == "error" {
				a.Key = "err"
			}
			return a
		},
	}
	if opts.Format == FormatJSON {
		return slog.New(slog.NewJSONHandler(out, ho))
	}
	return slog.New(slog.NewTextHandler(out, ho))
}

// NewNop returns a logger that discards everything.
func NewNop() *slog.Logger {
	return slog.New(slog.DiscardHandler)
}
