package testutil

import (
	"io"
	"log/slog"

	"github.com/streamtube/streamtube-server/internal/logger"
)

// MakeNoopLogger returns a logger that discards all output, for tests.
func MakeNoopLogger() *logger.Logger {
	return &logger.Logger{Logger: slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{}))}
}
