package secrets_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Norgate-AV/wizql/internal/secrets"
)

const passphrase = "super-secure-passphrase"

func newCipher(t *testing.T) (*secrets.Cipher, []byte) {
	t.Helper()

	salt, err := secrets.GenerateSalt()
	require.NoError(t, err)

	c, err := secrets.NewCipher(passphrase, salt)
	require.NoError(t, err)

	return c, salt
}

func TestCipher_EncryptDecrypt(t *testing.T) {
	t.Parallel()

	c, _ := newCipher(t)

	sealed, err := c.Encrypt("hunter2")
	require.NoError(t, err)
	assert.NotContains(t, sealed, "hunter2")

	plain, err := c.Decrypt(sealed)
	require.NoError(t, err)
	assert.Equal(t, "hunter2", plain)
}

func TestCipher_NonceIsRandom(t *testing.T) {
	t.Parallel()

	c, _ := newCipher(t)

	a, err := c.Encrypt("same")
	require.NoError(t, err)
	b, err := c.Encrypt("same")
	require.NoError(t, err)

	assert.NotEqual(t, a, b)
}

func TestCipher_WrongPassphraseFails(t *testing.T) {
	t.Parallel()

	c, salt := newCipher(t)
	sealed, err := c.Encrypt("hunter2")
	require.NoError(t, err)

	other, err := secrets.NewCipher("a-different-passphrase", salt)
	require.NoError(t, err)

	_, err = other.Decrypt(sealed)
	assert.ErrorContains(t, err, "unable to decrypt")
}

func TestCipher_DecryptRejectsGarbage(t *testing.T) {
	t.Parallel()

	c, _ := newCipher(t)

	_, err := c.Decrypt("not base64!")
	assert.ErrorContains(t, err, "unable to decode secret")

	_, err = c.Decrypt("c2hvcnQ=") // "short"
	assert.ErrorIs(t, err, secrets.ErrCiphertextShort)
}

func TestNewCipher_RequiresPassphraseAndSalt(t *testing.T) {
	t.Parallel()

	_, err := secrets.NewCipher("", []byte("salt"))
	assert.ErrorIs(t, err, secrets.ErrMissingPassphrase)
	assert.ErrorContains(t, err, secrets.PassphraseEnvVar)

	_, err = secrets.NewCipher(passphrase, nil)
	assert.ErrorIs(t, err, secrets.ErrMissingSalt)
}

func TestSaltEncoding(t *testing.T) {
	t.Parallel()

	salt, err := secrets.GenerateSalt()
	require.NoError(t, err)
	assert.Len(t, salt, 16)

	decoded, err := secrets.DecodeSalt(secrets.EncodeSalt(salt))
	require.NoError(t, err)
	assert.Equal(t, salt, decoded)

	_, err = secrets.DecodeSalt("%%%")
	assert.Error(t, err)
}

func TestCheckPassphrase(t *testing.T) {
	t.Parallel()

	assert.ErrorIs(t, secrets.CheckPassphrase(""), secrets.ErrWeakPassphrase)
	assert.ErrorIs(t, secrets.CheckPassphrase("elevenchars"), secrets.ErrWeakPassphrase)
	assert.NoError(t, secrets.CheckPassphrase("twelve-chars"))
	assert.NoError(t, secrets.CheckPassphrase(passphrase))
}
