package session

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestState_String(t *testing.T) {
	assert.Equal(t, "Idle", StateIdle.String())
	assert.Equal(t, "BaselineCaptured", StateBaselineCaptured.String())
	assert.Equal(t, "Polling", StatePolling.String())
	assert.Equal(t, "Stalled", StateStalled.String())
	assert.Equal(t, "State(42)", State(42).String())
}

func TestStallError(t *testing.T) {
	err := &StallError{Expected: 3, Observed: 2, Waited: 1500 * time.Millisecond, Failed: 1}

	assert.True(t, errors.Is(err, ErrStalled))
	assert.True(t, errors.Is(fmt.Errorf("run: %w", err), ErrStalled))
	assert.Contains(t, err.Error(), "expected 3 matching windows, found 2")
	assert.Contains(t, err.Error(), "1.5s")
	assert.Contains(t, err.Error(), "1 launch(es) failed")

	noFailures := &StallError{Expected: 1, Observed: 0, Waited: time.Second}
	assert.NotContains(t, noFailures.Error(), "failed")
}
