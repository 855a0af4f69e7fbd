package api

import (
	"io"
	"log/slog"
)

// testLogger returns a logger that discards everything, keeping test
// output clean.
func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}
