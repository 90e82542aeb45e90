// Package config loads, validates and saves the launcher configuration: the
// client install directory and the ordered list of accounts to log in.
package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	toml "github.com/pelletier/go-toml/v2"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/Norgate-AV/wizql/internal/secrets"
)

const (
	// DefaultPath is where the configuration is looked for when no path is given
	DefaultPath = "config.json"

	// EnvPrefix prefixes environment overrides, e.g. WIZQL_FILE_PATH
	EnvPrefix = "WIZQL"

	keyLaunchPath = "file_path"
	configFileMod = 0o600
)

// Account is one login to drive. Password is plain text after Load, and
// ciphertext in a Configuration that is about to be saved with encryption.
type Account struct {
	Username string `mapstructure:"username" json:"username" yaml:"username" toml:"username"`
	Password string `mapstructure:"password" json:"password" yaml:"password" toml:"password"`
	X        int    `mapstructure:"x_pos" json:"x_pos" yaml:"x_pos" toml:"x_pos"`
	Y        int    `mapstructure:"y_pos" json:"y_pos" yaml:"y_pos" toml:"y_pos"`
}

// Configuration is read once at start and stays read-only for the run
type Configuration struct {
	LaunchPath     string    `mapstructure:"file_path" json:"file_path" yaml:"file_path" toml:"file_path"`
	Accounts       []Account `mapstructure:"accounts_data" json:"accounts_data" yaml:"accounts_data" toml:"accounts_data"`
	UsesEncryption bool      `mapstructure:"uses_encryption" json:"uses_encryption" yaml:"uses_encryption" toml:"uses_encryption"`
	EncryptionSalt string    `mapstructure:"encryption_salt" json:"encryption_salt,omitempty" yaml:"encryption_salt,omitempty" toml:"encryption_salt,omitempty"`
}

// LoadError reports any failure to produce a valid Configuration. Nothing
// has been launched when it is returned.
type LoadError struct {
	Path string
	Err  error
}

func (e *LoadError) Error() string {
	return fmt.Sprintf("failed to load config %s: %v", e.Path, e.Err)
}

func (e *LoadError) Unwrap() error {
	return e.Err
}

// LoadOptions supplies what Load needs beyond the file itself
type LoadOptions struct {
	// Passphrase unlocks encrypted passwords. Load falls back to the
	// WIZQL_PASSPHRASE environment variable when it is empty.
	Passphrase string
}

// Load reads, decrypts and validates the configuration at path. The format
// follows the file extension (.json, .yaml, .yml, .toml).
func Load(path string, opts LoadOptions) (*Configuration, error) {
	v := viper.New()
	v.SetConfigFile(path)
	v.SetEnvPrefix(EnvPrefix)

	if err := v.BindEnv(keyLaunchPath); err != nil {
		return nil, &LoadError{Path: path, Err: err}
	}

	if err := v.ReadInConfig(); err != nil {
		return nil, &LoadError{Path: path, Err: err}
	}

	var cfg Configuration
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, &LoadError{Path: path, Err: fmt.Errorf("failed to decode config: %w", err)}
	}

	if cfg.UsesEncryption {
		passphrase := opts.Passphrase
		if passphrase == "" {
			passphrase = strings.TrimSpace(os.Getenv(secrets.PassphraseEnvVar))
		}

		if err := cfg.decryptPasswords(passphrase); err != nil {
			return nil, &LoadError{Path: path, Err: err}
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, &LoadError{Path: path, Err: err}
	}

	return &cfg, nil
}

func (c *Configuration) decryptPasswords(passphrase string) error {
	salt, err := secrets.DecodeSalt(c.EncryptionSalt)
	if err != nil {
		return err
	}

	cipher, err := secrets.NewCipher(passphrase, salt)
	if err != nil {
		return err
	}

	for i := range c.Accounts {
		plain, err := cipher.Decrypt(c.Accounts[i].Password)
		if err != nil {
			return fmt.Errorf("failed to decrypt password for account %s: %w", c.Accounts[i].Username, err)
		}

		c.Accounts[i].Password = plain
	}

	return nil
}

// Validate checks everything the launcher relies on
func (c *Configuration) Validate() error {
	var errs []error

	if strings.TrimSpace(c.LaunchPath) == "" {
		errs = append(errs, errors.New("file_path is empty"))
	}

	if len(c.Accounts) == 0 {
		errs = append(errs, errors.New("accounts_data has no accounts"))
	}

	seen := make(map[string]int, len(c.Accounts))
	for i, acc := range c.Accounts {
		n := i + 1
		if strings.TrimSpace(acc.Username) == "" {
			errs = append(errs, fmt.Errorf("account %d: username is empty", n))
			continue
		}

		if acc.Password == "" {
			errs = append(errs, fmt.Errorf("account %d (%s): password is empty", n, acc.Username))
		}

		key := strings.ToLower(acc.Username)
		if first, dup := seen[key]; dup {
			errs = append(errs, fmt.Errorf("account %d (%s): duplicate of account %d", n, acc.Username, first))
			continue
		}

		seen[key] = n
	}

	return errors.Join(errs...)
}

// Save writes cfg to path in the format named by its extension. The file is
// written to a temporary sibling first and renamed into place.
func Save(path string, cfg *Configuration) error {
	data, err := marshal(path, cfg)
	if err != nil {
		return err
	}

	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, ".wizql-config-*.tmp")
	if err != nil {
		return fmt.Errorf("failed to create temp config file: %w", err)
	}

	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to write config file: %w", err)
	}

	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	if err := os.Chmod(tmpName, configFileMod); err != nil {
		return fmt.Errorf("failed to set config file permissions: %w", err)
	}

	if err := os.Rename(tmpName, path); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

func marshal(path string, cfg *Configuration) ([]byte, error) {
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".json":
		data, err := json.MarshalIndent(cfg, "", "    ")
		if err != nil {
			return nil, fmt.Errorf("failed to marshal config: %w", err)
		}

		return append(data, '\n'), nil
	case ".yaml", ".yml":
		data, err := yaml.Marshal(cfg)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal config: %w", err)
		}

		return data, nil
	case ".toml":
		data, err := toml.Marshal(cfg)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal config: %w", err)
		}

		return data, nil
	default:
		return nil, fmt.Errorf("unsupported config format %q (use .json, .yaml or .toml)", ext)
	}
}
