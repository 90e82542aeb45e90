package session

import (
	"errors"
	"fmt"
	"time"
)

// ErrStalled is matched by every StallError
var ErrStalled = errors.New("client windows did not appear")

// StallError reports that polling gave up before the expected number of
// client windows existed
type StallError struct {
	Expected int
	Observed int
	Waited   time.Duration
	Failed   int // launches that had already failed
}

func (e *StallError) Error() string {
	msg := fmt.Sprintf("%v after %s: expected %d matching windows, found %d",
		ErrStalled, e.Waited.Round(time.Millisecond), e.Expected, e.Observed)

	if e.Failed > 0 {
		msg += fmt.Sprintf(" (%d launch(es) failed)", e.Failed)
	}

	return msg
}

func (e *StallError) Is(target error) bool {
	return target == ErrStalled
}
