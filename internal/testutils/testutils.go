// Package testutils provides simplified testing utilities and helper functions
package testutils

import (
	"bytes"
	"context"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

// Context returns a context that is cancelled when the test finishes or after timeout
func Context(t testing.TB, timeout time.Duration) context.Context {
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	t.Cleanup(cancel)
	return ctx
}

// LogBuffer captures slog output produced during a test
type LogBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

// Write implements io.Writer
func (b *LogBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

// String returns everything logged so far
func (b *LogBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

// NewTestLogger returns a text logger writing every level into the returned buffer
func NewTestLogger() (*slog.Logger, *LogBuffer) {
	buf := &LogBuffer{}
	logger := slog.New(slog.NewTextHandler(buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
	return logger, buf
}

// RequirePanicValue runs fn and returns what it panicked with, failing the test if it did not panic
func RequirePanicValue(t testing.TB, fn func()) (value interface{}) {
	t.Helper()

	defer func() {
		value = recover()
		require.NotNil(t, value, "expected function to panic")
	}()

	fn()
	return nil
}
