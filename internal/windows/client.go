//go:build windows

package windows

import (
	"github.com/Norgate-AV/wizql/internal/logger"
	"github.com/Norgate-AV/wizql/internal/process"
)

// Client provides methods for interacting with Windows APIs
// It composes specialized managers for different categories of functionality
type Client struct {
	log      logger.LoggerInterface
	Registry *windowRegistry
	Launcher *processLauncher
	Input    *inputInjector
	Placer   *windowPlacer
}

// NewClient creates a new Windows API client
func NewClient(log logger.LoggerInterface, spec process.Spec) *Client {
	return &Client{
		log:      log,
		Registry: newWindowRegistry(log),
		Launcher: newProcessLauncher(log, spec),
		Input:    newInputInjector(log),
		Placer:   newWindowPlacer(log),
	}
}
