package keys

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/miaadrajabi/security-module-signing/interfaces"
)

func TestFileKeyStoreCreatesMaster(t *testing.T) {
	path := filepath.Join(t.TempDir(), "signing.key")
	ks := NewFileKeyStore(path, nil)

	key, err := ks.GetOrCreateKey("HMAC")
	require.NoError(t, err)
	assert.Len(t, key.Bytes(), 32)
	assert.Equal(t, "software", key.KeyType())

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0600), info.Mode().Perm())
}

func TestFileKeyStoreStableAcrossInstances(t *testing.T) {
	path := filepath.Join(t.TempDir(), "signing.key")

	first, err := NewFileKeyStore(path, nil).GetOrCreateKey("HMAC")
	require.NoError(t, err)
	second, err := NewFileKeyStore(path, nil).GetOrCreateKey("HMAC")
	require.NoError(t, err)

	assert.Equal(t, first.Bytes(), second.Bytes())
}

func TestFileKeyStoreAliasSeparation(t *testing.T) {
	ks := NewFileKeyStore(filepath.Join(t.TempDir(), "signing.key"), nil)

	hmacKey, err := ks.GetOrCreateKey("HMAC")
	require.NoError(t, err)
	otherKey, err := ks.GetOrCreateKey("config")
	require.NoError(t, err)

	assert.NotEqual(t, hmacKey.Bytes(), otherKey.Bytes())
}

func TestFileKeyStoreIndependentStores(t *testing.T) {
	dir := t.TempDir()

	first, err := NewFileKeyStore(filepath.Join(dir, "a.key"), nil).GetOrCreateKey("HMAC")
	require.NoError(t, err)
	second, err := NewFileKeyStore(filepath.Join(dir, "b.key"), nil).GetOrCreateKey("HMAC")
	require.NoError(t, err)

	assert.NotEqual(t, first.Bytes(), second.Bytes())
}

func TestFileKeyStoreCorruptMaster(t *testing.T) {
	path := filepath.Join(t.TempDir(), "signing.key")
	require.NoError(t, os.WriteFile(path, []byte("not hex at all"), 0600))

	_, err := NewFileKeyStore(path, nil).GetOrCreateKey("HMAC")
	require.ErrorIs(t, err, interfaces.ErrKeyUnavailable)
}

func TestFileKeyStoreEmptyAlias(t *testing.T) {
	ks := NewFileKeyStore(filepath.Join(t.TempDir(), "signing.key"), nil)

	_, err := ks.GetOrCreateKey("")
	require.ErrorIs(t, err, interfaces.ErrKeyUnavailable)
}

func TestIdentityKeyStoreMatchesDerive(t *testing.T) {
	ks := IdentityKeyStore{
		DeviceID:    "test_device_12345",
		PackageName: "com.miaadrajabi.securitysample",
	}

	fromStore, err := ks.GetOrCreateKey("HMAC")
	require.NoError(t, err)
	fromSource, err := Derive(interfaces.IdentityKey(ks.DeviceID, ks.PackageName))
	require.NoError(t, err)

	assert.Equal(t, fromSource.Bytes(), fromStore.Bytes())
}

func TestIdentityKeyStoreAliasSeparation(t *testing.T) {
	ks := IdentityKeyStore{DeviceID: "dev", PackageName: "pkg"}

	hmacKey, err := ks.GetOrCreateKey("HMAC")
	require.NoError(t, err)
	otherKey, err := ks.GetOrCreateKey("config")
	require.NoError(t, err)

	assert.NotEqual(t, hmacKey.Bytes(), otherKey.Bytes())
}

func TestIdentityKeyStoreMissingIdentity(t *testing.T) {
	_, err := IdentityKeyStore{DeviceID: "dev"}.GetOrCreateKey("HMAC")
	require.ErrorIs(t, err, interfaces.ErrKeyUnavailable)
}
