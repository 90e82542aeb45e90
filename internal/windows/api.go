//go:build windows

package windows

import (
	"golang.org/x/sys/windows"

	"github.com/Norgate-AV/wizql/internal/logger"
	"github.com/Norgate-AV/wizql/internal/process"
	"github.com/Norgate-AV/wizql/internal/snapshot"
)

var (
	user32                       = windows.NewLazySystemDLL("user32.dll")
	procEnumWindows              = user32.NewProc("EnumWindows")
	procGetClassNameW            = user32.NewProc("GetClassNameW")
	procGetWindowTextW           = user32.NewProc("GetWindowTextW")
	procSetWindowTextW           = user32.NewProc("SetWindowTextW")
	procGetWindowThreadProcessId = user32.NewProc("GetWindowThreadProcessId")
	procIsWindow                 = user32.NewProc("IsWindow")
	procPostMessageW             = user32.NewProc("PostMessageW")
	procSetWindowPos             = user32.NewProc("SetWindowPos")
	procGetWindowRect            = user32.NewProc("GetWindowRect")

	kernel32                  = windows.NewLazySystemDLL("kernel32.dll")
	procSetConsoleCtrlHandler = kernel32.NewProc("SetConsoleCtrlHandler")
)

const (
	WM_CHAR = 0x0102

	SWP_NOSIZE     = 0x0001
	SWP_NOZORDER   = 0x0004
	SWP_NOACTIVATE = 0x0010

	SW_SHOWNORMAL = 1

	maxClassName = 256
	maxTitle     = 256
)

// RECT mirrors the Win32 RECT structure
type RECT struct {
	Left, Top, Right, Bottom int32
}

// WindowsAPI is a concrete implementation of all Windows-related interfaces
// It wraps a Client to provide the required functionality
type WindowsAPI struct {
	client *Client
}

// NewWindowsAPI creates a WindowsAPI whose launcher starts clients from spec
func NewWindowsAPI(log logger.LoggerInterface, spec process.Spec) *WindowsAPI {
	return &WindowsAPI{
		client: NewClient(log, spec),
	}
}

// WindowRegistry interface implementation
func (w *WindowsAPI) Snapshot(classFilter string) snapshot.Snapshot {
	return w.client.Registry.Snapshot(classFilter)
}

// ProcessLauncher interface implementation
func (w *WindowsAPI) Launch(workingDir string) (process.Info, error) {
	return w.client.Launcher.Launch(workingDir)
}

// InputInjector interface implementation
func (w *WindowsAPI) SendText(h snapshot.Handle, text string) { w.client.Input.SendText(h, text) }
func (w *WindowsAPI) SetTitle(h snapshot.Handle, title string) { w.client.Input.SetTitle(h, title) }

// WindowPlacer interface implementation
func (w *WindowsAPI) MoveTo(h snapshot.Handle, x, y int) { w.client.Placer.MoveTo(h, x, y) }
