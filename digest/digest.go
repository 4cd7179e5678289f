// Package digest computes streaming SHA-256 digests of build artifacts.
// Artifacts may be large application packages, so input is always read in
// fixed-size chunks and memory use is bounded by the chunk size, not the
// artifact size.
package digest

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"os"

	"github.com/miaadrajabi/security-module-signing/interfaces"
)

// ChunkSize is the read chunk used when streaming artifact bytes. The
// digest value does not depend on it; it only bounds memory.
const ChunkSize = 64 * 1024

// File computes the SHA-256 digest of the file at path.
func File(path string) (interfaces.ArtifactDigest, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", fmt.Errorf("failed to open artifact %s: %w", path, err)
	}
	defer f.Close()

	d, err := Reader(f)
	if err != nil {
		return "", fmt.Errorf("failed to read artifact %s: %w", path, err)
	}
	return d, nil
}

// Reader computes the SHA-256 digest of everything readable from r.
func Reader(r io.Reader) (interfaces.ArtifactDigest, error) {
	return ReaderChunked(r, ChunkSize)
}

// ReaderChunked is Reader with an explicit chunk size. The digest is
// identical for any positive chunk size.
func ReaderChunked(r io.Reader, chunkSize int) (interfaces.ArtifactDigest, error) {
	if chunkSize <= 0 {
		return "", fmt.Errorf("chunk size must be positive, got %d", chunkSize)
	}

	h := sha256.New()
	buf := make([]byte, chunkSize)
	for {
		n, err := r.Read(buf)
		if n > 0 {
			h.Write(buf[:n])
		}
		if err == io.EOF {
			break
		}
		if err != nil {
			return "", err
		}
	}

	return interfaces.ArtifactDigest(hex.EncodeToString(h.Sum(nil))), nil
}

// Bytes computes the SHA-256 digest of an in-memory byte slice.
func Bytes(data []byte) interfaces.ArtifactDigest {
	sum := sha256.Sum256(data)
	return interfaces.ArtifactDigest(hex.EncodeToString(sum[:]))
}
