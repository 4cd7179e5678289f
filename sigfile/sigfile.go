// Package sigfile reads and writes signature sidecar files. Two variants
// exist: a bare sidecar holding exactly the lowercase hex tag, and a
// structured JSON record carrying the artifact digest, tag and metadata.
package sigfile

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/miaadrajabi/security-module-signing/interfaces"
)

const (
	// FormatVersion is written into every structured record so a future
	// format change is detectable by the verifier.
	FormatVersion = "1.0.0"

	// Algorithm is the keyed tag algorithm recorded in sidecars.
	Algorithm = "HMAC-SHA256"

	// HashAlgorithm is the digest algorithm recorded in sidecars.
	HashAlgorithm = "SHA-256"
)

// Record is the structured sidecar. The JSON keys are a fixed wire format
// shared with the Android-side verifier; they never change with the Go
// field names.
type Record struct {
	ArtifactName  string                    `json:"apk_file"`
	ArtifactPath  string                    `json:"apk_path"`
	Digest        interfaces.ArtifactDigest `json:"apk_hash"`
	Tag           interfaces.IntegrityTag   `json:"hmac_signature"`
	KeyType       string                    `json:"key_type"`
	Timestamp     int64                     `json:"timestamp"`
	Algorithm     string                    `json:"algorithm"`
	HashAlgorithm string                    `json:"hash_algorithm"`
	Version       string                    `json:"version"`
}

// NewRecord assembles a structured record for an artifact at path, stamped
// with the current time and the fixed algorithm identifiers.
func NewRecord(artifactPath string, d interfaces.ArtifactDigest, tag interfaces.IntegrityTag, keyType string) Record {
	abs, err := filepath.Abs(artifactPath)
	if err != nil {
		abs = artifactPath
	}
	return Record{
		ArtifactName:  filepath.Base(artifactPath),
		ArtifactPath:  abs,
		Digest:        d,
		Tag:           tag,
		KeyType:       keyType,
		Timestamp:     time.Now().Unix(),
		Algorithm:     Algorithm,
		HashAlgorithm: HashAlgorithm,
		Version:       FormatVersion,
	}
}

// Validate checks that every field of the record is present and
// well-formed, and normalizes the hex fields to their canonical lowercase
// form. The algorithm identifiers must match the fixed constants: a record
// claiming any other MAC or hash algorithm must never be verified as
// HMAC-SHA256.
func (r *Record) Validate() error {
	if r.Version == "" {
		return fmt.Errorf("%w: missing version", interfaces.ErrFormat)
	}
	if r.Version != FormatVersion {
		return fmt.Errorf("%w: unsupported version %q", interfaces.ErrFormat, r.Version)
	}
	if r.ArtifactName == "" {
		return fmt.Errorf("%w: missing apk_file", interfaces.ErrFormat)
	}
	if r.ArtifactPath == "" {
		return fmt.Errorf("%w: missing apk_path", interfaces.ErrFormat)
	}
	if r.KeyType == "" {
		return fmt.Errorf("%w: missing key_type", interfaces.ErrFormat)
	}
	if r.Timestamp <= 0 {
		return fmt.Errorf("%w: missing timestamp", interfaces.ErrFormat)
	}
	if r.Algorithm != Algorithm {
		return fmt.Errorf("%w: unsupported algorithm %q", interfaces.ErrFormat, r.Algorithm)
	}
	if r.HashAlgorithm != HashAlgorithm {
		return fmt.Errorf("%w: unsupported hash algorithm %q", interfaces.ErrFormat, r.HashAlgorithm)
	}

	d, err := interfaces.NewArtifactDigest(string(r.Digest))
	if err != nil {
		return fmt.Errorf("%w: %v", interfaces.ErrFormat, err)
	}
	r.Digest = d

	tag, err := interfaces.NewIntegrityTag(string(r.Tag))
	if err != nil {
		return fmt.Errorf("%w: %v", interfaces.ErrFormat, err)
	}
	r.Tag = tag
	return nil
}

// WriteBare overwrites dest with exactly the hex characters of the tag.
// No trailing newline is written; the bare sidecar is byte-for-byte the
// tag, which keeps embedded verifiers free of trimming rules.
func WriteBare(dest string, tag interfaces.IntegrityTag) error {
	if err := os.WriteFile(dest, []byte(tag), 0644); err != nil {
		return fmt.Errorf("failed to write signature file %s: %w", dest, err)
	}
	return nil
}

// WriteRecord overwrites dest with the indented JSON form of rec.
func WriteRecord(dest string, rec Record) error {
	data, err := json.MarshalIndent(rec, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode signature record: %w", err)
	}
	if err := os.WriteFile(dest, data, 0644); err != nil {
		return fmt.Errorf("failed to write signature file %s: %w", dest, err)
	}
	return nil
}

// ReadBare reads a bare sidecar. Surrounding whitespace is tolerated on
// read so hand-edited files with a trailing newline still verify.
func ReadBare(src string) (interfaces.IntegrityTag, error) {
	data, err := os.ReadFile(src)
	if err != nil {
		return "", fmt.Errorf("failed to read signature file %s: %w", src, err)
	}
	tag, err := interfaces.NewIntegrityTag(strings.TrimSpace(string(data)))
	if err != nil {
		return "", fmt.Errorf("%w: %s: %v", interfaces.ErrFormat, src, err)
	}
	return tag, nil
}

// ReadRecord reads and validates a structured sidecar.
func ReadRecord(src string) (Record, error) {
	data, err := os.ReadFile(src)
	if err != nil {
		return Record{}, fmt.Errorf("failed to read signature file %s: %w", src, err)
	}

	var rec Record
	if err := json.Unmarshal(data, &rec); err != nil {
		return Record{}, fmt.Errorf("%w: %s: %v", interfaces.ErrFormat, src, err)
	}
	if err := rec.Validate(); err != nil {
		return Record{}, fmt.Errorf("%s: %w", src, err)
	}
	return rec, nil
}

// DefaultSidecarPath derives the bare sidecar path for an artifact by
// replacing its extension: "app-release.apk" becomes
// "app-release_hmac_signature.txt".
func DefaultSidecarPath(artifactPath string) string {
	stem := strings.TrimSuffix(artifactPath, filepath.Ext(artifactPath))
	return stem + "_hmac_signature.txt"
}

// DefaultRecordPath is DefaultSidecarPath for the structured variant: the
// ".json" extension keeps the written sidecar recognizable as structured
// when it is read back.
func DefaultRecordPath(artifactPath string) string {
	stem := strings.TrimSuffix(artifactPath, filepath.Ext(artifactPath))
	return stem + "_hmac_signature.json"
}

// IsStructuredPath reports whether path selects the structured variant by
// extension.
func IsStructuredPath(path string) bool {
	return strings.EqualFold(filepath.Ext(path), ".json")
}
