package interfaces

import (
	"encoding/hex"
	"errors"
	"fmt"
	"strings"
)

// DigestHexLen is the length of a hex-encoded SHA-256 digest.
const DigestHexLen = 64

// TagHexLen is the length of a hex-encoded HMAC-SHA256 tag.
const TagHexLen = 64

// ArtifactDigest is the lowercase hex SHA-256 digest of an artifact's full
// byte stream. It is a function of the bytes only; no key is involved.
type ArtifactDigest string

// NewArtifactDigest validates and normalizes a hex digest string.
func NewArtifactDigest(s string) (ArtifactDigest, error) {
	s = strings.ToLower(s)
	if len(s) != DigestHexLen {
		return "", fmt.Errorf("invalid digest length: hex string must be %d characters, got %d", DigestHexLen, len(s))
	}
	if _, err := hex.DecodeString(s); err != nil {
		return "", fmt.Errorf("invalid digest: %w", err)
	}
	return ArtifactDigest(s), nil
}

// Message returns the UTF-8 bytes of the digest hex string, the message
// form used by the digest-then-MAC signing profile.
func (d ArtifactDigest) Message() []byte {
	return []byte(d)
}

func (d ArtifactDigest) String() string {
	return string(d)
}

// IntegrityTag is a lowercase hex HMAC-SHA256 authentication value.
type IntegrityTag string

// NewIntegrityTag validates and normalizes a hex tag string.
func NewIntegrityTag(s string) (IntegrityTag, error) {
	s = strings.ToLower(s)
	if len(s) != TagHexLen {
		return "", fmt.Errorf("invalid tag length: hex string must be %d characters, got %d", TagHexLen, len(s))
	}
	if _, err := hex.DecodeString(s); err != nil {
		return "", fmt.Errorf("invalid tag: %w", err)
	}
	return IntegrityTag(s), nil
}

// MACBytes returns the decoded MAC value for constant-time comparison.
func (t IntegrityTag) MACBytes() ([]byte, error) {
	raw, err := hex.DecodeString(string(t))
	if err != nil {
		return nil, fmt.Errorf("invalid tag encoding: %w", err)
	}
	if len(raw) != TagHexLen/2 {
		return nil, fmt.Errorf("invalid tag length: must decode to %d bytes, got %d", TagHexLen/2, len(raw))
	}
	return raw, nil
}

func (t IntegrityTag) String() string {
	return string(t)
}

// KeyMaterial is the shared secret used for keyed tag computation. It lives
// only in process memory for the duration of one invocation and is never
// persisted. Only a truncated preview may be surfaced for diagnostics.
type KeyMaterial struct {
	raw     []byte
	keyType string
}

// NewKeyMaterial wraps raw key bytes. Zero-length keys are rejected so a
// misconfigured source can never silently produce an unkeyed tag.
func NewKeyMaterial(raw []byte, keyType string) (KeyMaterial, error) {
	if len(raw) == 0 {
		return KeyMaterial{}, errors.New("key material must not be empty")
	}
	buf := make([]byte, len(raw))
	copy(buf, raw)
	return KeyMaterial{raw: buf, keyType: keyType}, nil
}

// Bytes returns the key bytes. The slice is shared with the KeyMaterial;
// callers must not retain it past Zero.
func (k KeyMaterial) Bytes() []byte {
	return k.raw
}

// KeyType reports how the key was sourced ("literal", "environment",
// "file", "device-bound", "software"). Recorded in structured sidecars.
func (k KeyMaterial) KeyType() string {
	return k.keyType
}

// Preview returns the first 16 hex characters of the key for diagnostics.
func (k KeyMaterial) Preview() string {
	enc := hex.EncodeToString(k.raw)
	if len(enc) > 16 {
		enc = enc[:16]
	}
	return enc + "..."
}

// String returns the preview only, so formatting a KeyMaterial with %v or
// %s can never leak the full key into a log or error message.
func (k KeyMaterial) String() string {
	return "KeyMaterial(" + k.Preview() + ")"
}

// Zero overwrites the key bytes. Call when the invocation is done with the key.
func (k KeyMaterial) Zero() {
	for i := range k.raw {
		k.raw[i] = 0
	}
}

// SigningProfile selects which message form is fed into tag computation.
// The profile is fixed per artifact type and carried explicitly; it is
// never inferred from content, since signing and verifying under different
// profiles is indistinguishable from tampering.
type SigningProfile int

const (
	// ProfileDigestThenMAC authenticates the UTF-8 hex digest of the
	// artifact. Used for large package files, where it decouples tag
	// computation from a second full read.
	ProfileDigestThenMAC SigningProfile = iota

	// ProfileDirectMAC authenticates the raw artifact bytes. Used for
	// small config files read in full.
	ProfileDirectMAC
)

func (p SigningProfile) String() string {
	switch p {
	case ProfileDigestThenMAC:
		return "digest-then-mac"
	case ProfileDirectMAC:
		return "direct-mac"
	default:
		return fmt.Sprintf("unknown-profile-%d", int(p))
	}
}
