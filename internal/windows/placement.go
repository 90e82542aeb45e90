//go:build windows

package windows

import (
	"log/slog"

	"github.com/Norgate-AV/wizql/internal/logger"
	"github.com/Norgate-AV/wizql/internal/snapshot"
)

// windowPlacer implements the WindowPlacer interface
type windowPlacer struct {
	log logger.LoggerInterface
}

func newWindowPlacer(log logger.LoggerInterface) *windowPlacer {
	return &windowPlacer{log: log}
}

// MoveTo moves the window's top-left corner to (x, y) in screen
// coordinates, keeping its size, z-order and activation
func (p *windowPlacer) MoveTo(h snapshot.Handle, x, y int) {
	ret, _, err := procSetWindowPos.Call(
		uintptr(h),
		0,
		uintptr(int32(x)),
		uintptr(int32(y)),
		0,
		0,
		SWP_NOSIZE|SWP_NOZORDER|SWP_NOACTIVATE,
	)

	if ret == 0 {
		p.log.Debug("SetWindowPos failed",
			slog.String("hwnd", h.String()),
			slog.Int("x", x),
			slog.Int("y", y),
			slog.Any("error", err),
		)
	}
}
