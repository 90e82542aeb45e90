package config

import (
	"bytes"
	"errors"
	"io"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Norgate-AV/wizql/internal/secrets"
	"github.com/Norgate-AV/wizql/internal/wizard101"
)

// scriptedSecrets returns each answer in turn, then io.EOF
func scriptedSecrets(answers ...string) SecretReader {
	return func() (string, error) {
		if len(answers) == 0 {
			return "", io.EOF
		}

		next := answers[0]
		answers = answers[1:]
		return next, nil
	}
}

func newTestGenerator(input string, secretAnswers ...string) (*Generator, *bytes.Buffer) {
	var out bytes.Buffer
	g := NewGenerator(strings.NewReader(input), &out, scriptedSecrets(secretAnswers...))
	g.retryDelay = 0
	return g, &out
}

func TestGenerator_SavesEncryptedConfig(t *testing.T) {
	t.Setenv(secrets.PassphraseEnvVar, "")
	t.Setenv("WIZQL_FILE_PATH", "")

	passphrase := "correct horse battery"
	input := strings.Join([]string{
		`C:\W101\Bin`,
		"1", "alice", "100", "100",
		"1", "bob", "400", "100",
		"2",
		"3",
		"4",
	}, "\n") + "\n"

	g, out := newTestGenerator(input, passphrase, passphrase, "pw1", "pw2")
	path := filepath.Join(t.TempDir(), "config.json")

	require.NoError(t, g.Run(path))
	assert.True(t, g.Saved())
	assert.Contains(t, out.String(), "1. Username: alice, Position: (100, 100)")
	assert.Contains(t, out.String(), "2. Username: bob, Position: (400, 100)")

	_, err := Load(path, LoadOptions{})
	assert.ErrorIs(t, err, secrets.ErrMissingPassphrase, "saved file must be encrypted")

	cfg, err := Load(path, LoadOptions{Passphrase: passphrase})
	require.NoError(t, err)
	assert.Equal(t, `C:\W101\Bin`, cfg.LaunchPath)
	assert.Equal(t, []Account{
		{Username: "alice", Password: "pw1", X: 100, Y: 100},
		{Username: "bob", Password: "pw2", X: 400, Y: 100},
	}, cfg.Accounts)
}

func TestGenerator_DefaultInstallPath(t *testing.T) {
	t.Setenv(secrets.PassphraseEnvVar, "from-the-environment")
	t.Setenv(wizard101.InstallPathEnvVar, `F:\Wizard101\Bin`)

	g, out := newTestGenerator("\n4\n")

	require.NoError(t, g.Run(filepath.Join(t.TempDir(), "config.json")))
	assert.Equal(t, `F:\Wizard101\Bin`, g.launchPath)
	assert.False(t, g.Saved())
	assert.NotContains(t, out.String(), "Create a passphrase", "env passphrase skips the prompt")
}

func TestGenerator_RejectsShortEnvPassphrase(t *testing.T) {
	t.Setenv(secrets.PassphraseEnvVar, "short")

	g, _ := newTestGenerator("C:/W101\n1\nalice\n10\n20\n3\n4\n", "pw")
	path := filepath.Join(t.TempDir(), "config.json")

	err := g.Run(path)
	require.Error(t, err)
	assert.ErrorIs(t, err, secrets.ErrWeakPassphrase)
	assert.Contains(t, err.Error(), secrets.PassphraseEnvVar)
	assert.False(t, g.Saved())
	assert.NoFileExists(t, path)
}

func TestGenerator_PassphraseRules(t *testing.T) {
	t.Setenv(secrets.PassphraseEnvVar, "")

	tests := []struct {
		name    string
		secrets []string
		wantErr bool
		wantOut string
	}{
		{
			name:    "too short then accepted",
			secrets: []string{"short", "long-enough-phrase", "long-enough-phrase"},
			wantOut: "Passphrase must be at least 12 characters.",
		},
		{
			name:    "mismatch then accepted",
			secrets: []string{"long-enough-phrase", "long-enough-phrasf", "long-enough-phrase", "long-enough-phrase"},
			wantOut: "Passphrases do not match.",
		},
		{
			name:    "gives up after three attempts",
			secrets: []string{"a", "b", "c"},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			g, out := newTestGenerator("C:/W101\n4\n", tt.secrets...)

			err := g.Run(filepath.Join(t.TempDir(), "config.json"))
			if tt.wantErr {
				assert.ErrorContains(t, err, "failed to set passphrase")
				return
			}

			require.NoError(t, err)
			assert.Contains(t, out.String(), tt.wantOut)
		})
	}
}

func TestGenerator_RejectsInvalidSave(t *testing.T) {
	t.Setenv(secrets.PassphraseEnvVar, "from-the-environment")

	g, out := newTestGenerator("C:/W101\n3\n4\n")

	require.NoError(t, g.Run(filepath.Join(t.TempDir(), "config.json")))
	assert.False(t, g.Saved())
	assert.Contains(t, out.String(), "no accounts")
}

func TestGenerator_RetriesNonNumericPosition(t *testing.T) {
	t.Setenv(secrets.PassphraseEnvVar, "from-the-environment")

	g, out := newTestGenerator("C:/W101\n1\nalice\nleft\n10\n20\n4\n", "pw")

	require.NoError(t, g.Run(filepath.Join(t.TempDir(), "config.json")))
	assert.Contains(t, out.String(), "Please enter a whole number")
	assert.Equal(t, []Account{{Username: "alice", Password: "pw", X: 10, Y: 20}}, g.accounts)
}

func TestGenerator_InvalidOption(t *testing.T) {
	t.Setenv(secrets.PassphraseEnvVar, "from-the-environment")

	g, out := newTestGenerator("C:/W101\n9\n4\n")

	require.NoError(t, g.Run(filepath.Join(t.TempDir(), "config.json")))
	assert.Contains(t, out.String(), "Invalid option")
}

func TestGenerator_EOFStopsMenu(t *testing.T) {
	t.Setenv(secrets.PassphraseEnvVar, "from-the-environment")

	g, _ := newTestGenerator("C:/W101\n1\n")

	err := g.Run(filepath.Join(t.TempDir(), "config.json"))
	assert.True(t, errors.Is(err, io.ErrUnexpectedEOF), "got %v", err)
}
