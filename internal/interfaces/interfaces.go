// Package interfaces defines core interfaces for dependency injection and testing.
package interfaces

import (
	"github.com/Norgate-AV/wizql/internal/process"
	"github.com/Norgate-AV/wizql/internal/snapshot"
)

// WindowRegistry captures the current set of top-level windows
type WindowRegistry interface {
	// Snapshot returns every top-level window whose class name contains
	// classFilter, in enumeration order. It never blocks indefinitely.
	Snapshot(classFilter string) snapshot.Snapshot
}

// ProcessLauncher starts client processes without waiting for them
type ProcessLauncher interface {
	Launch(workingDir string) (process.Info, error)
}

// InputInjector posts synthetic input to a window. Both calls are
// fire-and-forget: nothing reports whether the target processed them.
type InputInjector interface {
	SendText(h snapshot.Handle, text string)
	SetTitle(h snapshot.Handle, title string)
}

// WindowPlacer moves windows without resizing them
type WindowPlacer interface {
	MoveTo(h snapshot.Handle, x, y int)
}
