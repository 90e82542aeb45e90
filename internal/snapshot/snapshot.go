// Package snapshot holds point-in-time views of the host's top-level windows.
//
// A Snapshot is an immutable, ordered set of windows captured by one
// enumeration of the window registry. Order is whatever the registry
// produced and is not guaranteed to be stable between captures.
package snapshot

import (
	"fmt"
	"strings"
)

// Handle is an opaque OS-assigned identifier for a top-level window
type Handle uintptr

func (h Handle) String() string {
	return fmt.Sprintf("0x%X", uintptr(h))
}

// Window describes one top-level window as seen at capture time
type Window struct {
	Handle Handle
	PID    uint32
	Class  string
	Title  string
}

// Snapshot is an immutable ordered set of windows. The zero value is an
// empty snapshot.
type Snapshot struct {
	windows []Window
	index   map[Handle]int
}

// New builds a snapshot from windows in enumeration order. Duplicate handles
// keep their first position.
func New(windows []Window) Snapshot {
	s := Snapshot{
		windows: make([]Window, 0, len(windows)),
		index:   make(map[Handle]int, len(windows)),
	}

	for _, w := range windows {
		if _, seen := s.index[w.Handle]; seen {
			continue
		}

		s.index[w.Handle] = len(s.windows)
		s.windows = append(s.windows, w)
	}

	return s
}

// Filter builds a snapshot containing only the windows whose class name
// contains classFilter. An empty filter keeps everything.
func Filter(windows []Window, classFilter string) Snapshot {
	kept := make([]Window, 0, len(windows))
	for _, w := range windows {
		if strings.Contains(w.Class, classFilter) {
			kept = append(kept, w)
		}
	}

	return New(kept)
}

// Len returns the number of windows in the snapshot
func (s Snapshot) Len() int {
	return len(s.windows)
}

// Contains reports whether h was present at capture time
func (s Snapshot) Contains(h Handle) bool {
	_, ok := s.index[h]
	return ok
}

// Windows returns a copy of the windows in enumeration order
func (s Snapshot) Windows() []Window {
	out := make([]Window, len(s.windows))
	copy(out, s.windows)
	return out
}

// Handles returns the handles in enumeration order
func (s Snapshot) Handles() []Handle {
	out := make([]Handle, len(s.windows))
	for i, w := range s.windows {
		out[i] = w.Handle
	}

	return out
}

// Difference returns the windows of s whose handles are absent from base,
// preserving the enumeration order of s.
func (s Snapshot) Difference(base Snapshot) Snapshot {
	kept := make([]Window, 0, len(s.windows))
	for _, w := range s.windows {
		if !base.Contains(w.Handle) {
			kept = append(kept, w)
		}
	}

	return New(kept)
}
