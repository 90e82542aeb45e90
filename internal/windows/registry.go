//go:build windows

package windows

import (
	"log/slog"
	"strings"
	"sync"

	"golang.org/x/sys/windows"

	"github.com/Norgate-AV/wizql/internal/logger"
	"github.com/Norgate-AV/wizql/internal/snapshot"
)

// The enumeration callback can only report through package state. It is
// created once because Windows callbacks are a finite resource, and the
// accumulator is only touched while enumMu is held.
var (
	enumMu       sync.Mutex
	enumFound    []uintptr
	enumCallback = windows.NewCallback(enumWindowsProc)
)

func enumWindowsProc(hwnd uintptr, _ uintptr) uintptr {
	enumFound = append(enumFound, hwnd)
	return 1 // Continue enumeration
}

// EnumerateWindows returns every top-level window handle in z-order
func EnumerateWindows() []uintptr {
	enumMu.Lock()
	defer enumMu.Unlock()

	enumFound = nil
	ret, _, _ := procEnumWindows.Call(enumCallback, 0)
	if ret == 0 {
		return nil
	}

	found := make([]uintptr, len(enumFound))
	copy(found, enumFound)
	enumFound = nil

	return found
}

// windowRegistry implements the WindowRegistry interface
type windowRegistry struct {
	log logger.LoggerInterface
}

func newWindowRegistry(log logger.LoggerInterface) *windowRegistry {
	return &windowRegistry{log: log}
}

// Snapshot captures the top-level windows whose class contains classFilter
func (r *windowRegistry) Snapshot(classFilter string) snapshot.Snapshot {
	handles := EnumerateWindows()

	matched := make([]snapshot.Window, 0)
	for _, hwnd := range handles {
		class := GetClassName(hwnd)
		if !strings.Contains(class, classFilter) {
			continue
		}

		matched = append(matched, snapshot.Window{
			Handle: snapshot.Handle(hwnd),
			PID:    GetWindowPid(hwnd),
			Class:  class,
			Title:  GetWindowText(hwnd),
		})
	}

	r.log.Trace("Enumerated windows",
		slog.Int("total", len(handles)),
		slog.Int("matched", len(matched)),
		slog.String("class", classFilter),
	)

	return snapshot.New(matched)
}
