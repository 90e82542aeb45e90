// Package process describes how client processes are launched, independently
// of the host operating system's process-creation call.
package process

import (
	"fmt"
	"path/filepath"
	"strings"
)

// Mode selects how the client executable is started
type Mode string

const (
	// ModeShell starts the client through "cmd /C cd ... && start ...". The
	// returned process identifiers belong to the shell, not the client.
	ModeShell Mode = "shell"

	// ModeDirect starts the client executable itself with the working
	// directory set, so the returned PID owns the client's windows.
	ModeDirect Mode = "direct"
)

// ParseMode converts a flag value into a Mode
func ParseMode(s string) (Mode, error) {
	switch Mode(strings.ToLower(strings.TrimSpace(s))) {
	case ModeShell, "":
		return ModeShell, nil
	case ModeDirect:
		return ModeDirect, nil
	default:
		return "", fmt.Errorf("unknown launch mode %q (want %q or %q)", s, ModeShell, ModeDirect)
	}
}

// Spec is everything needed to start one client, apart from its directory
type Spec struct {
	Executable string
	Args       []string
	Mode       Mode
}

// Command is a fully resolved process-creation request
type Command struct {
	// Application is passed as lpApplicationName. Empty means the first
	// token of CommandLine is resolved by the OS.
	Application string
	CommandLine string
	// Dir is the working directory handed to the OS. Empty inherits ours.
	Dir string
	// Hidden starts the process with its window hidden. Only the shell
	// wrapper is hidden; the client must stay visible.
	Hidden bool
}

// Build resolves the launch settings against a working directory
func (s Spec) Build(workingDir string) Command {
	if s.Mode == ModeDirect {
		app := filepath.Join(workingDir, s.Executable)
		return Command{
			Application: app,
			CommandLine: joinArgs(append([]string{app}, s.Args...)),
			Dir:         workingDir,
		}
	}

	// "start" treats a leading quoted argument as the window title, so the
	// executable is left bare. Its name never contains spaces.
	parts := []string{"cmd", "/C", "cd", "/d", quoteArg(workingDir), "&&", "start", s.Executable}
	parts = append(parts, quoteArgs(s.Args)...)

	return Command{CommandLine: strings.Join(parts, " "), Hidden: true}
}

// Info identifies a started process
type Info struct {
	PID uint32
	TID uint32
}

// LaunchError reports that the OS refused to create a process. It carries a
// human-readable message and the underlying OS error, nothing more.
type LaunchError struct {
	Dir string
	Err error
}

func (e *LaunchError) Error() string {
	return fmt.Sprintf("failed to launch client in %s: %v", e.Dir, e.Err)
}

func (e *LaunchError) Unwrap() error {
	return e.Err
}

func joinArgs(args []string) string {
	return strings.Join(quoteArgs(args), " ")
}

func quoteArgs(args []string) []string {
	out := make([]string, len(args))
	for i, a := range args {
		out[i] = quoteArg(a)
	}

	return out
}

// quoteArg wraps arguments containing whitespace or quotes so the
// Windows command-line parser keeps them as one token
func quoteArg(s string) string {
	if s == "" {
		return `""`
	}

	if !strings.ContainsAny(s, " \t\"") {
		return s
	}

	return `"` + strings.ReplaceAll(s, `"`, `\"`) + `"`
}
