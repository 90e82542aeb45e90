//go:build windows

package windows

import (
	"fmt"
	"os"
	"strings"

	"golang.org/x/sys/windows"
)

// IsElevated reports whether the current process token is elevated
func IsElevated() bool {
	return windows.GetCurrentProcessToken().IsElevated()
}

// RelaunchAsAdmin starts this executable again through the UAC prompt with
// the same arguments
func RelaunchAsAdmin() error {
	exe, err := os.Executable()
	if err != nil {
		return err
	}

	// Check if running via 'go run' (exe will be in temp dir)
	if strings.Contains(exe, "go-build") {
		return fmt.Errorf("cannot relaunch when run via 'go run', please build the executable first with: go build -o wizql.exe")
	}

	args := make([]string, len(os.Args)-1)
	for i, a := range os.Args[1:] {
		args[i] = windows.EscapeArg(a)
	}

	cwd, _ := os.Getwd()

	return ShellExecute("runas", exe, strings.Join(args, " "), cwd, SW_SHOWNORMAL)
}
