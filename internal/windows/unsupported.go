//go:build !windows

package windows

import (
	"github.com/Norgate-AV/wizql/internal/logger"
	"github.com/Norgate-AV/wizql/internal/process"
	"github.com/Norgate-AV/wizql/internal/snapshot"
)

// ConsoleCtrlHandler is a callback function for console control events
type ConsoleCtrlHandler func(ctrlType uint32) uintptr

// WindowsAPI sees no windows and launches nothing on this platform
type WindowsAPI struct{}

func NewWindowsAPI(_ logger.LoggerInterface, _ process.Spec) *WindowsAPI {
	return &WindowsAPI{}
}

func (w *WindowsAPI) Snapshot(string) snapshot.Snapshot { return snapshot.Snapshot{} }

func (w *WindowsAPI) Launch(string) (process.Info, error) {
	return process.Info{}, ErrUnsupported
}

func (w *WindowsAPI) SendText(snapshot.Handle, string) {}
func (w *WindowsAPI) SetTitle(snapshot.Handle, string) {}
func (w *WindowsAPI) MoveTo(snapshot.Handle, int, int) {}

func IsElevated() bool { return false }

func RelaunchAsAdmin() error { return ErrUnsupported }

func SetConsoleCtrlHandler(ConsoleCtrlHandler) error { return ErrUnsupported }
