package config

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/fatih/color"
	"golang.org/x/term"

	"github.com/Norgate-AV/wizql/internal/secrets"
	"github.com/Norgate-AV/wizql/internal/timeouts"
	"github.com/Norgate-AV/wizql/internal/wizard101"
)

const maxPassphraseAttempts = 3

// SecretReader reads one line of input without echoing it
type SecretReader func() (string, error)

// TerminalSecretReader reads from the console with echo disabled
func TerminalSecretReader() (string, error) {
	secret, err := term.ReadPassword(int(os.Stdin.Fd()))
	if err != nil {
		return "", fmt.Errorf("failed to read secret: %w", err)
	}

	return string(secret), nil
}

// Generator interactively builds a new configuration file. Passwords are
// always saved encrypted.
type Generator struct {
	in         *bufio.Reader
	out        io.Writer
	readSecret SecretReader
	retryDelay time.Duration

	launchPath string
	accounts   []Account
	passphrase string
	salt       []byte
	saved      bool
}

// NewGenerator creates a generator reading answers from in and hidden
// answers from readSecret
func NewGenerator(in io.Reader, out io.Writer, readSecret SecretReader) *Generator {
	return &Generator{
		in:         bufio.NewReader(in),
		out:        out,
		readSecret: readSecret,
		retryDelay: timeouts.PromptRetryDelay,
		passphrase: strings.TrimSpace(os.Getenv(secrets.PassphraseEnvVar)),
	}
}

// Saved reports whether Run wrote a configuration
func (g *Generator) Saved() bool {
	return g.saved
}

// Passphrase returns the passphrase used to encrypt the saved passwords
func (g *Generator) Passphrase() string {
	return g.passphrase
}

// Run shows the menu until the user exits, saving to path on request
func (g *Generator) Run(path string) error {
	banner := color.New(color.FgCyan, color.Bold)
	_, _ = banner.Fprintln(g.out, "Wizard101 Quick Launcher - Configuration Generator")
	fmt.Fprintln(g.out, "--------------------------------------------------")

	suggested := wizard101.GetInstallPath()
	launchPath, err := g.prompt(fmt.Sprintf("Enter Wizard101 Bin directory [%s]: ", suggested))
	if err != nil {
		return err
	}

	if launchPath == "" {
		launchPath = suggested
	}

	g.launchPath = launchPath

	if g.passphrase != "" {
		if err := secrets.CheckPassphrase(g.passphrase); err != nil {
			return fmt.Errorf("%s: %w", secrets.PassphraseEnvVar, err)
		}
	} else {
		fmt.Fprintln(g.out, "\nCreate a passphrase to protect your saved passwords.")
		fmt.Fprintf(g.out, "The same passphrase must be set in %s when launching.\n", secrets.PassphraseEnvVar)

		if err := g.promptForPassphrase(); err != nil {
			return err
		}
	}

	for {
		fmt.Fprintln(g.out, "\nCurrent accounts:", len(g.accounts))
		fmt.Fprintln(g.out, "1. Add account")
		fmt.Fprintln(g.out, "2. List accounts")
		fmt.Fprintln(g.out, "3. Save configuration")
		fmt.Fprintln(g.out, "4. Exit")

		choice, err := g.prompt("Choose an option (1-4): ")
		if err != nil {
			return err
		}

		switch choice {
		case "1":
			if err := g.addAccount(); err != nil {
				return err
			}
		case "2":
			g.listAccounts()
		case "3":
			if err := g.save(path); err != nil {
				return err
			}
		case "4":
			return nil
		default:
			fmt.Fprintln(g.out, "Invalid option")
		}
	}
}

func (g *Generator) addAccount() error {
	username, err := g.prompt("Enter username: ")
	if err != nil {
		return err
	}

	if username == "" {
		fmt.Fprintln(g.out, "Username cannot be empty")
		return nil
	}

	password, err := g.promptSecret("Enter password: ")
	if err != nil {
		return err
	}

	x, err := g.promptInt("Enter X position: ")
	if err != nil {
		return err
	}

	y, err := g.promptInt("Enter Y position: ")
	if err != nil {
		return err
	}

	g.accounts = append(g.accounts, Account{
		Username: username,
		Password: strings.TrimSpace(password),
		X:        x,
		Y:        y,
	})

	fmt.Fprintln(g.out, "Account added successfully!")
	return nil
}

func (g *Generator) listAccounts() {
	if len(g.accounts) == 0 {
		fmt.Fprintln(g.out, "No accounts configured")
		return
	}

	fmt.Fprintln(g.out, "\nConfigured accounts:")
	for i, acc := range g.accounts {
		fmt.Fprintf(g.out, "%d. Username: %s, Position: (%d, %d)\n", i+1, acc.Username, acc.X, acc.Y)
	}
}

func (g *Generator) save(path string) error {
	plain := &Configuration{LaunchPath: g.launchPath, Accounts: g.accounts}
	if err := plain.Validate(); err != nil {
		fmt.Fprintf(g.out, "Configuration is not valid yet:\n%v\n", err)
		return nil
	}

	if len(g.salt) == 0 {
		salt, err := secrets.GenerateSalt()
		if err != nil {
			return err
		}

		g.salt = salt
	}

	cipher, err := secrets.NewCipher(g.passphrase, g.salt)
	if err != nil {
		return err
	}

	cfg := &Configuration{
		LaunchPath:     g.launchPath,
		Accounts:       make([]Account, 0, len(g.accounts)),
		UsesEncryption: true,
		EncryptionSalt: secrets.EncodeSalt(g.salt),
	}

	for _, acc := range g.accounts {
		sealed, err := cipher.Encrypt(acc.Password)
		if err != nil {
			return fmt.Errorf("failed to encrypt password for %s: %w", acc.Username, err)
		}

		acc.Password = sealed
		cfg.Accounts = append(cfg.Accounts, acc)
	}

	if err := Save(path, cfg); err != nil {
		return err
	}

	g.saved = true
	fmt.Fprintf(g.out, "Configuration saved to %s\n", path)
	return nil
}

func (g *Generator) promptForPassphrase() error {
	for i := 0; i < maxPassphraseAttempts; i++ {
		candidate, err := g.promptSecret(fmt.Sprintf("Create passphrase (min %d characters): ", secrets.MinPassphraseLength))
		if err != nil {
			return err
		}

		if secrets.CheckPassphrase(candidate) != nil {
			fmt.Fprintf(g.out, "Passphrase must be at least %d characters.\n", secrets.MinPassphraseLength)
			time.Sleep(g.retryDelay)
			continue
		}

		confirm, err := g.promptSecret("Confirm passphrase: ")
		if err != nil {
			return err
		}

		if candidate != confirm {
			fmt.Fprintln(g.out, "Passphrases do not match.")
			time.Sleep(g.retryDelay)
			continue
		}

		g.passphrase = candidate
		return nil
	}

	return errors.New("failed to set passphrase after multiple attempts")
}

// prompt reads one trimmed line. Running out of input mid-dialog is an error
// so a closed stdin cannot spin the menu forever.
func (g *Generator) prompt(message string) (string, error) {
	fmt.Fprint(g.out, message)

	line, err := g.in.ReadString('\n')
	if err != nil && !(errors.Is(err, io.EOF) && line != "") {
		if errors.Is(err, io.EOF) {
			return "", fmt.Errorf("configuration generator: %w", io.ErrUnexpectedEOF)
		}

		return "", fmt.Errorf("failed to read input: %w", err)
	}

	return strings.TrimSpace(line), nil
}

func (g *Generator) promptSecret(message string) (string, error) {
	fmt.Fprint(g.out, message)
	secret, err := g.readSecret()
	fmt.Fprintln(g.out)

	return secret, err
}

func (g *Generator) promptInt(message string) (int, error) {
	for {
		answer, err := g.prompt(message)
		if err != nil {
			return 0, err
		}

		n, convErr := strconv.Atoi(answer)
		if convErr == nil {
			return n, nil
		}

		fmt.Fprintln(g.out, "Please enter a whole number")
	}
}
