//go:build windows

package windows

import (
	"fmt"
	"log/slog"
	"unsafe"

	"golang.org/x/sys/windows"

	"github.com/Norgate-AV/wizql/internal/logger"
	"github.com/Norgate-AV/wizql/internal/process"
)

// processLauncher implements the ProcessLauncher interface
type processLauncher struct {
	log  logger.LoggerInterface
	spec process.Spec
}

func newProcessLauncher(log logger.LoggerInterface, spec process.Spec) *processLauncher {
	return &processLauncher{log: log, spec: spec}
}

// Launch starts one client from workingDir and returns without waiting.
// In shell mode the PID belongs to the short-lived cmd wrapper, not the
// client.
func (l *processLauncher) Launch(workingDir string) (process.Info, error) {
	cmd := l.spec.Build(workingDir)

	l.log.Debug("Creating process",
		slog.String("mode", string(l.spec.Mode)),
		slog.String("commandLine", cmd.CommandLine),
		slog.String("dir", cmd.Dir),
	)

	info, err := createProcess(cmd)
	if err != nil {
		return process.Info{}, &process.LaunchError{Dir: workingDir, Err: err}
	}

	l.log.Debug("Process created",
		slog.Uint64("pid", uint64(info.PID)),
		slog.Uint64("tid", uint64(info.TID)),
	)

	return info, nil
}

func createProcess(cmd process.Command) (process.Info, error) {
	var appName, dir *uint16
	var err error

	if cmd.Application != "" {
		appName, err = windows.UTF16PtrFromString(cmd.Application)
		if err != nil {
			return process.Info{}, err
		}
	}

	cmdLine, err := windows.UTF16PtrFromString(cmd.CommandLine)
	if err != nil {
		return process.Info{}, err
	}

	if cmd.Dir != "" {
		dir, err = windows.UTF16PtrFromString(cmd.Dir)
		if err != nil {
			return process.Info{}, err
		}
	}

	si := windows.StartupInfo{}
	si.Cb = uint32(unsafe.Sizeof(si))
	if cmd.Hidden {
		si.Flags = windows.STARTF_USESHOWWINDOW
		si.ShowWindow = windows.SW_HIDE
	}

	var pi windows.ProcessInformation
	if err := windows.CreateProcess(appName, cmdLine, nil, nil, false, 0, nil, dir, &si, &pi); err != nil {
		return process.Info{}, fmt.Errorf("CreateProcess: %w", err)
	}

	// Only the IDs are needed
	_ = windows.CloseHandle(pi.Thread)
	_ = windows.CloseHandle(pi.Process)

	return process.Info{PID: pi.ProcessId, TID: pi.ThreadId}, nil
}
