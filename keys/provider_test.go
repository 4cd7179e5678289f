package keys

import (
	"encoding/hex"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/miaadrajabi/security-module-signing/interfaces"
)

// Identity key for ("test_device_12345", "com.miaadrajabi.securitysample"),
// computed with an independent SHA-256 implementation over the binding
// string.
const identityKeyHex = "6b1a798f261ec30f7271ca98ba1091d61431c68270861177047fbebef418311d"

func TestDeriveLiteral(t *testing.T) {
	key, err := Derive(interfaces.LiteralKey("mysecret"))
	require.NoError(t, err)

	// Literal keys are used as-is, no hashing.
	assert.Equal(t, []byte("mysecret"), key.Bytes())
	assert.Equal(t, "literal", key.KeyType())
}

func TestDeriveLiteralEmpty(t *testing.T) {
	_, err := Derive(interfaces.LiteralKey(""))
	require.ErrorIs(t, err, interfaces.ErrKeyUnavailable)
}

func TestDeriveEnv(t *testing.T) {
	t.Setenv("CONFIG_HMAC_KEY", "mysecret")

	key, err := Derive(interfaces.EnvKey("CONFIG_HMAC_KEY"))
	require.NoError(t, err)
	assert.Equal(t, []byte("mysecret"), key.Bytes())
	assert.Equal(t, "environment", key.KeyType())
}

func TestDeriveEnvEmptyValue(t *testing.T) {
	// Present but empty is treated as absent, never as a zero-length key.
	t.Setenv("CONFIG_HMAC_KEY", "")

	_, err := Derive(interfaces.EnvKey("CONFIG_HMAC_KEY"))
	require.ErrorIs(t, err, interfaces.ErrKeyUnavailable)
	assert.Contains(t, err.Error(), "CONFIG_HMAC_KEY")
}

func TestDeriveEnvUnset(t *testing.T) {
	_, err := Derive(interfaces.EnvKey("SIGNING_KEY_THAT_DOES_NOT_EXIST"))
	require.ErrorIs(t, err, interfaces.ErrKeyUnavailable)
}

func TestDeriveFile(t *testing.T) {
	testCases := []struct {
		name     string
		contents string
		want     string
	}{
		{name: "plain", contents: "mysecret", want: "mysecret"},
		{name: "trailing newline", contents: "mysecret\n", want: "mysecret"},
		{name: "crlf and spaces", contents: "mysecret \r\n", want: "mysecret"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "hmac.key")
			require.NoError(t, os.WriteFile(path, []byte(tc.contents), 0600))

			key, err := Derive(interfaces.FileKey(path))
			require.NoError(t, err)
			assert.Equal(t, []byte(tc.want), key.Bytes())
			assert.Equal(t, "file", key.KeyType())
		})
	}
}

func TestDeriveFileMissing(t *testing.T) {
	_, err := Derive(interfaces.FileKey(filepath.Join(t.TempDir(), "nope.key")))
	require.ErrorIs(t, err, interfaces.ErrKeyUnavailable)
}

func TestDeriveFileEmptyAfterTrim(t *testing.T) {
	path := filepath.Join(t.TempDir(), "hmac.key")
	require.NoError(t, os.WriteFile(path, []byte(" \n\t\n"), 0600))

	_, err := Derive(interfaces.FileKey(path))
	require.ErrorIs(t, err, interfaces.ErrKeyUnavailable)
}

func TestDeriveIdentity(t *testing.T) {
	key, err := Derive(interfaces.IdentityKey("test_device_12345", "com.miaadrajabi.securitysample"))
	require.NoError(t, err)

	assert.Equal(t, identityKeyHex, hex.EncodeToString(key.Bytes()))
	assert.Equal(t, "device-bound", key.KeyType())
	assert.Len(t, key.Bytes(), 32)
}

func TestDeriveIdentityMissingInputs(t *testing.T) {
	for _, src := range []interfaces.KeySource{
		interfaces.IdentityKey("", "com.miaadrajabi.securitysample"),
		interfaces.IdentityKey("test_device_12345", ""),
		interfaces.IdentityKey("", ""),
	} {
		_, err := Derive(src)
		require.ErrorIs(t, err, interfaces.ErrKeyUnavailable)
	}
}

func TestKeyMaterialNeverFormatsFullKey(t *testing.T) {
	key, err := Derive(interfaces.IdentityKey("test_device_12345", "com.miaadrajabi.securitysample"))
	require.NoError(t, err)

	assert.NotContains(t, key.String(), identityKeyHex)
	assert.Contains(t, key.String(), identityKeyHex[:16])
	assert.Equal(t, identityKeyHex[:16]+"...", key.Preview())
}

func TestKeyMaterialZero(t *testing.T) {
	key, err := Derive(interfaces.LiteralKey("mysecret"))
	require.NoError(t, err)

	key.Zero()
	for _, b := range key.Bytes() {
		assert.Zero(t, b)
	}
}
