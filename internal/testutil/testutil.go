// Package testutil provides test utilities and mock implementations.
package testutil

import (
	"os"
	"path/filepath"
	"strconv"
	"testing"

	"github.com/Norgate-AV/wizql/internal/config"
	"github.com/Norgate-AV/wizql/internal/wizard101"
)

// CreateTempDir creates a temporary directory for testing
func CreateTempDir(t *testing.T) string {
	dir, err := os.MkdirTemp("", "wizql-test-*")
	if err != nil {
		t.Fatalf("Failed to create temp dir: %v", err)
	}

	t.Cleanup(func() {
		_ = os.RemoveAll(dir)
	})

	return dir
}

// CreateFakeInstall creates an empty client executable so the directory
// passes wizard101.ValidateInstallation
func CreateFakeInstall(t *testing.T, dir string) string {
	path := filepath.Join(dir, wizard101.ExecutableName)
	if err := os.WriteFile(path, []byte("MZ"), 0o644); err != nil {
		t.Fatalf("Failed to create fake client: %v", err)
	}

	return dir
}

// CreateTempConfig saves cfg as an unencrypted config file in dir
func CreateTempConfig(t *testing.T, dir, name string, cfg *config.Configuration) string {
	path := filepath.Join(dir, name)
	if err := config.Save(path, cfg); err != nil {
		t.Fatalf("Failed to write test config: %v", err)
	}

	return path
}

// TestAccounts returns n accounts named user1..userN placed 100px apart
func TestAccounts(n int) []config.Account {
	accounts := make([]config.Account, n)
	for i := range accounts {
		accounts[i] = config.Account{
			Username: "user" + strconv.Itoa(i+1),
			Password: "secret" + strconv.Itoa(i+1),
			X:        i * 100,
			Y:        i * 100,
		}
	}

	return accounts
}
