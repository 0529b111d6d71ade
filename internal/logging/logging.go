// Package logging selects the slog handler for the process.
package logging

import (
	"io"
	"log/slog"
	"time"

	"github.com/lmittmann/tint"
)

// NewLogger returns a logger writing to w. format "pretty" produces
// colorized, human-readable lines for local development; anything else
// produces JSON for log aggregation.
func NewLogger(format string, w io.Writer) *slog.Logger {
	if format == "pretty" {
		return slog.New(tint.NewHandler(w, &tint.Options{
			TimeFormat: time.TimeOnly,
		}))
	}
	return slog.New(slog.NewJSONHandler(w, nil))
}
