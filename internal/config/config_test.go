package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Norgate-AV/wizql/internal/secrets"
)

const sampleJSON = `{
  "file_path": "C:/Games/Wizard101/Bin",
  "accounts_data": [
    {"username": "alice", "password": "pw1", "x_pos": 100, "y_pos": 100},
    {"username": "bob", "password": "pw2", "x_pos": 400, "y_pos": 100}
  ]
}`

func writeFile(t *testing.T, name, content string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoad_JSON(t *testing.T) {
	t.Setenv("WIZQL_FILE_PATH", "")

	cfg, err := Load(writeFile(t, "config.json", sampleJSON), LoadOptions{})
	require.NoError(t, err)

	assert.Equal(t, "C:/Games/Wizard101/Bin", cfg.LaunchPath)
	assert.Equal(t, []Account{
		{Username: "alice", Password: "pw1", X: 100, Y: 100},
		{Username: "bob", Password: "pw2", X: 400, Y: 100},
	}, cfg.Accounts, "account order must follow the file")
}

func TestLoad_YAML(t *testing.T) {
	t.Setenv("WIZQL_FILE_PATH", "")

	content := `file_path: D:\W101\Bin
accounts_data:
  - username: carol
    password: pw3
    x_pos: -1920
    y_pos: 0
`
	cfg, err := Load(writeFile(t, "config.yaml", content), LoadOptions{})
	require.NoError(t, err)

	require.Len(t, cfg.Accounts, 1)
	assert.Equal(t, Account{Username: "carol", Password: "pw3", X: -1920, Y: 0}, cfg.Accounts[0])
}

func TestLoad_EnvOverridesLaunchPath(t *testing.T) {
	t.Setenv("WIZQL_FILE_PATH", `E:\Elsewhere\Bin`)

	cfg, err := Load(writeFile(t, "config.json", sampleJSON), LoadOptions{})
	require.NoError(t, err)

	assert.Equal(t, `E:\Elsewhere\Bin`, cfg.LaunchPath)
}

func TestLoad_MissingFile(t *testing.T) {
	t.Parallel()

	_, err := Load(filepath.Join(t.TempDir(), "missing.json"), LoadOptions{})
	require.Error(t, err)

	var loadErr *LoadError
	assert.True(t, errors.As(err, &loadErr))
	assert.True(t, errors.Is(err, os.ErrNotExist), "expected os.ErrNotExist, got %v", err)
}

func TestLoad_Malformed(t *testing.T) {
	t.Parallel()

	_, err := Load(writeFile(t, "config.json", `{"file_path": `), LoadOptions{})

	var loadErr *LoadError
	require.True(t, errors.As(err, &loadErr))
}

func TestLoad_Invalid(t *testing.T) {
	t.Setenv("WIZQL_FILE_PATH", "")

	_, err := Load(writeFile(t, "config.json", `{"file_path": "", "accounts_data": []}`), LoadOptions{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "file_path is empty")
	assert.Contains(t, err.Error(), "no accounts")
}

func TestLoad_Encrypted(t *testing.T) {
	t.Setenv("WIZQL_FILE_PATH", "")

	passphrase := "super-secure-passphrase"
	salt, err := secrets.GenerateSalt()
	require.NoError(t, err)

	cipher, err := secrets.NewCipher(passphrase, salt)
	require.NoError(t, err)

	sealed, err := cipher.Encrypt("hunter2")
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "config.json")
	require.NoError(t, Save(path, &Configuration{
		LaunchPath:     "C:/Games/Wizard101/Bin",
		Accounts:       []Account{{Username: "encrypted-user", Password: sealed, X: 10, Y: 20}},
		UsesEncryption: true,
		EncryptionSalt: secrets.EncodeSalt(salt),
	}))

	t.Run("passphrase from env", func(t *testing.T) {
		t.Setenv(secrets.PassphraseEnvVar, passphrase)

		cfg, err := Load(path, LoadOptions{})
		require.NoError(t, err)
		assert.Equal(t, "hunter2", cfg.Accounts[0].Password)
	})

	t.Run("passphrase from options", func(t *testing.T) {
		t.Setenv(secrets.PassphraseEnvVar, "")

		cfg, err := Load(path, LoadOptions{Passphrase: passphrase})
		require.NoError(t, err)
		assert.Equal(t, "hunter2", cfg.Accounts[0].Password)
	})

	t.Run("missing passphrase", func(t *testing.T) {
		t.Setenv(secrets.PassphraseEnvVar, "")

		_, err := Load(path, LoadOptions{})
		assert.ErrorIs(t, err, secrets.ErrMissingPassphrase)
	})

	t.Run("wrong passphrase", func(t *testing.T) {
		_, err := Load(path, LoadOptions{Passphrase: "not-the-passphrase"})
		assert.ErrorContains(t, err, "failed to decrypt password for account encrypted-user")
	})
}

func TestValidate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		cfg     Configuration
		wantErr []string
	}{
		{
			name: "valid",
			cfg: Configuration{
				LaunchPath: "C:/W101",
				Accounts:   []Account{{Username: "a", Password: "p"}},
			},
		},
		{
			name: "empty username",
			cfg: Configuration{
				LaunchPath: "C:/W101",
				Accounts:   []Account{{Username: " ", Password: "p"}},
			},
			wantErr: []string{"account 1: username is empty"},
		},
		{
			name: "empty password",
			cfg: Configuration{
				LaunchPath: "C:/W101",
				Accounts:   []Account{{Username: "a"}},
			},
			wantErr: []string{"account 1 (a): password is empty"},
		},
		{
			name: "duplicate username ignores case",
			cfg: Configuration{
				LaunchPath: "C:/W101",
				Accounts: []Account{
					{Username: "Alice", Password: "p"},
					{Username: "alice", Password: "q"},
				},
			},
			wantErr: []string{"account 2 (alice): duplicate of account 1"},
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			err := tt.cfg.Validate()
			if len(tt.wantErr) == 0 {
				assert.NoError(t, err)
				return
			}

			require.Error(t, err)
			for _, want := range tt.wantErr {
				assert.Contains(t, err.Error(), want)
			}
		})
	}
}

func TestSave_FormatsLoadBack(t *testing.T) {
	t.Setenv("WIZQL_FILE_PATH", "")

	want := &Configuration{
		LaunchPath: `C:\Games\Wizard101\Bin`,
		Accounts: []Account{
			{Username: "alice", Password: "pw1", X: 100, Y: 100},
			{Username: "bob", Password: "pw2", X: 400, Y: 100},
		},
	}

	for _, name := range []string{"config.json", "config.yaml", "config.toml"} {
		name := name
		t.Run(name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), name)
			require.NoError(t, Save(path, want))

			info, err := os.Stat(path)
			require.NoError(t, err)
			assert.False(t, info.IsDir())

			got, err := Load(path, LoadOptions{})
			require.NoError(t, err)
			assert.Equal(t, want, got)
		})
	}
}

func TestSave_UnsupportedFormat(t *testing.T) {
	t.Parallel()

	err := Save(filepath.Join(t.TempDir(), "config.ini"), &Configuration{})
	assert.ErrorContains(t, err, "unsupported config format")
}
