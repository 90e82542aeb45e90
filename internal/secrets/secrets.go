// Package secrets encrypts and decrypts account passwords stored in the
// configuration file.
//
// Passwords are sealed with AES-256-GCM. The key is derived from a
// user-supplied passphrase and a per-file salt with scrypt. The stored form is
// base64(nonce || ciphertext).
package secrets

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"

	"golang.org/x/crypto/scrypt"
)

const (
	// PassphraseEnvVar holds the passphrase used to unlock encrypted configurations
	PassphraseEnvVar = "WIZQL_PASSPHRASE"

	// MinPassphraseLength is enforced when a new passphrase is chosen
	MinPassphraseLength = 12

	saltSize  = 16
	nonceSize = 12
	keySize   = 32

	scryptN = 1 << 15
	scryptR = 8
	scryptP = 1
)

var (
	ErrMissingSalt       = errors.New("missing salt for key derivation")
	ErrCiphertextShort   = errors.New("ciphertext too short")
	ErrMissingPassphrase = fmt.Errorf("configuration requires an encryption passphrase: set %s", PassphraseEnvVar)
	ErrWeakPassphrase    = fmt.Errorf("passphrase must be at least %d characters", MinPassphraseLength)
)

// CheckPassphrase rejects a new passphrase shorter than MinPassphraseLength
func CheckPassphrase(passphrase string) error {
	if len(passphrase) < MinPassphraseLength {
		return ErrWeakPassphrase
	}

	return nil
}

// Cipher seals and opens secrets with one derived key. Deriving the key is
// deliberately slow, so a Cipher is built once per configuration file.
type Cipher struct {
	aead cipher.AEAD
}

// NewCipher derives a key from passphrase and salt
func NewCipher(passphrase string, salt []byte) (*Cipher, error) {
	if passphrase == "" {
		return nil, ErrMissingPassphrase
	}

	if len(salt) == 0 {
		return nil, ErrMissingSalt
	}

	key, err := scrypt.Key([]byte(passphrase), salt, scryptN, scryptR, scryptP, keySize)
	if err != nil {
		return nil, fmt.Errorf("unable to derive key: %w", err)
	}

	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, fmt.Errorf("unable to create cipher: %w", err)
	}

	aead, err := cipher.NewGCM(block)
	if err != nil {
		return nil, fmt.Errorf("unable to create gcm: %w", err)
	}

	return &Cipher{aead: aead}, nil
}

// Encrypt seals plainText and returns its base64 form
func (c *Cipher) Encrypt(plainText string) (string, error) {
	nonce := make([]byte, nonceSize)
	if _, err := rand.Read(nonce); err != nil {
		return "", fmt.Errorf("unable to generate nonce: %w", err)
	}

	sealed := c.aead.Seal(nonce, nonce, []byte(plainText), nil)
	return base64.StdEncoding.EncodeToString(sealed), nil
}

// Decrypt opens a value produced by Encrypt
func (c *Cipher) Decrypt(cipherText string) (string, error) {
	payload, err := base64.StdEncoding.DecodeString(cipherText)
	if err != nil {
		return "", fmt.Errorf("unable to decode secret: %w", err)
	}

	if len(payload) < nonceSize {
		return "", ErrCiphertextShort
	}

	plain, err := c.aead.Open(nil, payload[:nonceSize], payload[nonceSize:], nil)
	if err != nil {
		return "", fmt.Errorf("unable to decrypt: %w", err)
	}

	return string(plain), nil
}

// GenerateSalt returns a fresh random salt
func GenerateSalt() ([]byte, error) {
	salt := make([]byte, saltSize)
	if _, err := rand.Read(salt); err != nil {
		return nil, fmt.Errorf("unable to generate salt: %w", err)
	}

	return salt, nil
}

// EncodeSalt and DecodeSalt convert salts to and from their stored form
func EncodeSalt(salt []byte) string {
	return base64.StdEncoding.EncodeToString(salt)
}

func DecodeSalt(s string) ([]byte, error) {
	salt, err := base64.StdEncoding.DecodeString(s)
	if err != nil {
		return nil, fmt.Errorf("failed to decode encryption salt: %w", err)
	}

	return salt, nil
}
