// Package wizard101 holds what is specific to the Wizard101 client: where it
// is installed, how it is started and how its windows are recognised.
package wizard101

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/Norgate-AV/wizql/internal/process"
)

const (
	// ExecutableName is the client binary inside the install's Bin directory
	ExecutableName = "WizardGraphicalClient.exe"

	// LoginServer and LoginPort are passed as "-L <server> <port>"
	LoginServer = "login.us.wizard101.com"
	LoginPort   = "12000"

	// WindowClass is the registered class name of client windows
	WindowClass = "Wizard Graphical Client"

	// TitleFormat renames a logged-in window after its account
	TitleFormat = "[%s] Wizard101"

	// DefaultInstallPath is the Bin directory of a default install
	DefaultInstallPath = "C:\\ProgramData\\KingsIsle Entertainment\\Wizard101\\Bin"

	// InstallPathEnvVar overrides DefaultInstallPath
	InstallPathEnvVar = "WIZARD101_PATH"
)

// GetInstallPath returns the client Bin directory suggested to new
// configurations. It checks the WIZARD101_PATH environment variable first,
// falling back to the default installation path if not set.
func GetInstallPath() string {
	if envPath := os.Getenv(InstallPathEnvVar); envPath != "" {
		return envPath
	}

	return DefaultInstallPath
}

// ValidateInstallation checks that dir contains the client executable.
// Returns an error with helpful guidance if it does not.
func ValidateInstallation(dir string) error {
	exe := filepath.Join(dir, ExecutableName)

	info, err := os.Stat(exe)
	if os.IsNotExist(err) {
		return fmt.Errorf("Wizard101 client not found at %s\n"+
			"Please check file_path in the configuration points at the Wizard101 Bin directory", exe)
	}

	if err != nil {
		return fmt.Errorf("error checking Wizard101 installation at %s: %w", exe, err)
	}

	if info.IsDir() {
		return fmt.Errorf("expected %s to be a file, found a directory", exe)
	}

	return nil
}

// LaunchSpec describes how to start one client connected to the US login server
func LaunchSpec(mode process.Mode) process.Spec {
	return process.Spec{
		Executable: ExecutableName,
		Args:       []string{"-L", LoginServer, LoginPort},
		Mode:       mode,
	}
}

// LoginTitle is the caption given to a window once its account is bound.
// An empty format falls back to TitleFormat.
func LoginTitle(format, username string) string {
	if format == "" {
		format = TitleFormat
	}

	return fmt.Sprintf(format, username)
}
