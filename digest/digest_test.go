package digest

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// SHA-256 of "hello world", computed with an independent implementation.
const helloWorldDigest = "b94d27b9934d3e08a52e52d7da7dabfac484efe37a5380ee9088f7ace2efcde9"

func TestFileDigest(t *testing.T) {
	path := filepath.Join(t.TempDir(), "artifact.bin")
	require.NoError(t, os.WriteFile(path, []byte("hello world"), 0644))

	d, err := File(path)
	require.NoError(t, err)
	assert.Equal(t, helloWorldDigest, d.String())
}

func TestFileDigestMissingFile(t *testing.T) {
	_, err := File(filepath.Join(t.TempDir(), "nope.apk"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "nope.apk")
}

func TestChunkSizeIndependence(t *testing.T) {
	// Deterministic input larger than any chunk size under test.
	data := make([]byte, 200_000)
	for i := range data {
		data[i] = byte(i * 31)
	}

	want, err := Reader(bytes.NewReader(data))
	require.NoError(t, err)

	for _, chunkSize := range []int{1, 7, 1024, 8192, 64 * 1024, 1 << 20} {
		d, err := ReaderChunked(bytes.NewReader(data), chunkSize)
		require.NoError(t, err)
		assert.Equal(t, want, d, "chunk size %d", chunkSize)
	}
}

func TestInvalidChunkSize(t *testing.T) {
	for _, chunkSize := range []int{0, -1} {
		_, err := ReaderChunked(bytes.NewReader([]byte("x")), chunkSize)
		assert.Error(t, err, "chunk size %d", chunkSize)
	}
}

func TestBytesMatchesReader(t *testing.T) {
	data := []byte("hello world")

	fromReader, err := Reader(bytes.NewReader(data))
	require.NoError(t, err)
	assert.Equal(t, fromReader, Bytes(data))
	assert.Equal(t, helloWorldDigest, Bytes(data).String())
}

func TestEmptyInput(t *testing.T) {
	d, err := Reader(bytes.NewReader(nil))
	require.NoError(t, err)
	// SHA-256 of the empty string.
	assert.Equal(t, "e3b0c44298fc1c149afbf4c8996fb92427ae41e4649b934ca495991b7852b855", d.String())
}
