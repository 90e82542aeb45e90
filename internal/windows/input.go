//go:build windows

package windows

import (
	"log/slog"
	"unsafe"

	"golang.org/x/sys/windows"

	"github.com/Norgate-AV/wizql/internal/logger"
	"github.com/Norgate-AV/wizql/internal/snapshot"
)

// inputInjector implements the InputInjector interface
type inputInjector struct {
	log logger.LoggerInterface
}

func newInputInjector(log logger.LoggerInterface) *inputInjector {
	return &inputInjector{log: log}
}

// SendText posts one WM_CHAR per character. Posting does not wait for the
// window to process anything.
func (k *inputInjector) SendText(h snapshot.Handle, text string) {
	if !IsWindow(uintptr(h)) {
		k.log.Warn("Window no longer exists, text not sent", slog.String("hwnd", h.String()))
		return
	}

	units, err := windows.UTF16FromString(text)
	if err != nil {
		k.log.Warn("Text contains a NUL character, not sent", slog.String("hwnd", h.String()))
		return
	}

	for _, unit := range units[:len(units)-1] {
		ret, _, err := procPostMessageW.Call(uintptr(h), WM_CHAR, uintptr(unit), 0)
		if ret == 0 {
			k.log.Debug("PostMessage WM_CHAR failed",
				slog.String("hwnd", h.String()),
				slog.Any("error", err),
			)

			return
		}
	}
}

// SetTitle replaces the window caption
func (k *inputInjector) SetTitle(h snapshot.Handle, title string) {
	ptr, err := windows.UTF16PtrFromString(title)
	if err != nil {
		k.log.Warn("Invalid window title", slog.String("title", title), slog.Any("error", err))
		return
	}

	ret, _, callErr := procSetWindowTextW.Call(uintptr(h), uintptr(unsafe.Pointer(ptr)))
	if ret == 0 {
		k.log.Debug("SetWindowText failed",
			slog.String("hwnd", h.String()),
			slog.Any("error", callErr),
		)
	}
}
