// Package logger builds the process-wide zerolog logger.
package logger

import (
	"io"
	"os"

	"github.com/rs/zerolog"
)

const permission = 0664

// New returns the logger every component shares.  Dev environments get
// human-readable console output; everything else emits JSON lines.
// When path is non-empty the stream is additionally appended to that
// file, synchronized so concurrent handlers do not interleave lines.
func New(env, path string) (zerolog.Logger, error) {
	var w io.Writer = os.Stderr
	if env == "dev" {
		w = zerolog.ConsoleWriter{Out: os.Stderr}
	}

	if path != "" {
		f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, permission)
		if err != nil {
			return zerolog.Logger{}, err
		}
		w = zerolog.MultiLevelWriter(w, zerolog.SyncWriter(f))
	}

	return zerolog.New(w).With().Timestamp().Logger(), nil
}
