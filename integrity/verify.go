package integrity

import (
	"crypto/hmac"
	"fmt"

	"github.com/miaadrajabi/security-module-signing/interfaces"
)

// Result is the outcome of a verification. Tamper is an expected,
// first-class outcome, not an error: the caller decides what rejection
// looks like.
type Result int

const (
	// Match means the recomputed tag equals the expected tag.
	Match Result = iota

	// Tamper means the artifact bytes (or the key) do not match the
	// expected tag.
	Tamper
)

func (r Result) String() string {
	switch r {
	case Match:
		return "match"
	case Tamper:
		return "tamper"
	default:
		return fmt.Sprintf("unknown-result-%d", int(r))
	}
}

// Verify recomputes the tag for message under key and compares it against
// expected in constant time. The message must be built with the same
// signing profile used at signing time. A malformed expected tag is a
// format error, not a tamper verdict.
func Verify(message []byte, key interfaces.KeyMaterial, expected interfaces.IntegrityTag) (Result, error) {
	want, err := expected.MACBytes()
	if err != nil {
		return Tamper, fmt.Errorf("%w: %v", interfaces.ErrFormat, err)
	}

	got := computeMAC(message, key)
	if hmac.Equal(got, want) {
		return Match, nil
	}
	return Tamper, nil
}

// VerifyDigest verifies a digest-then-MAC tag against the artifact digest.
func VerifyDigest(d interfaces.ArtifactDigest, key interfaces.KeyMaterial, expected interfaces.IntegrityTag) (Result, error) {
	return Verify(d.Message(), key, expected)
}
