// Package logging provides structured JSON logging for screentime.
//
// The terminal belongs to the clock face while the program runs, so logs go
// to a file or nowhere.
package logging

import (
	"fmt"
	"io"
	"log/slog"
	"path/filepath"
	"strings"

	"github.com/acolita/screentime/internal/adapters/realfs"
	"github.com/acolita/screentime/internal/ports"
)

// ParseLevel maps a config level name to a slog.Level. Unknown names fall
// back to info.
func ParseLevel(level string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// NewLogger returns a JSON logger writing to w at the given level.
func NewLogger(w io.Writer, level string) *slog.Logger {
	handler := slog.NewJSONHandler(w, &slog.HandlerOptions{
		Level: ParseLevel(level),
	})
	return slog.New(handler)
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }

// Setup initializes the global logger. With an empty path logs are
// discarded. Otherwise the file is opened for appending, its directory
// created first, and the returned Closer releases it.
// An optional FileSystem can be passed for testing; if omitted, the real OS is used.
func Setup(level, path string, fsys ...ports.FileSystem) (io.Closer, error) {
	if path == "" {
		slog.SetDefault(NewLogger(io.Discard, level))
		return nopCloser{}, nil
	}

	var files ports.FileSystem = realfs.New()
	if len(fsys) > 0 && fsys[0] != nil {
		files = fsys[0]
	}

	if err := files.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("create log directory: %w", err)
	}
	w, err := files.OpenAppend(path, 0644)
	if err != nil {
		return nil, fmt.Errorf("open log file: %w", err)
	}

	slog.SetDefault(NewLogger(w, level))
	return w, nil
}
