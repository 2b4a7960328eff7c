package testutil

import (
	"io"
	"log"
)

// DiscardLogger returns a logger that drops everything, for tests that
// exercise failure paths.
func DiscardLogger() *log.Logger {
	return log.New(io.Discard, "", 0)
}
