package testutils

import (
	"testing"

	"github.com/coder/quartz"
)

// NewMockClock creates a mock clock for testing. The returned clock satisfies quartz.Clock
// and can be handed to any component that takes one.
func NewMockClock(t testing.TB) *quartz.Mock {
	return quartz.NewMock(t)
}
