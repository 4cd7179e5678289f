// Package integrity computes and verifies keyed integrity tags
// (HMAC-SHA256) over artifact messages. The message fed to the MAC is
// chosen by the signing profile: the raw artifact bytes, or the UTF-8 hex
// string of the artifact's SHA-256 digest. Signer and verifier must use
// the same profile for the same artifact type.
package integrity

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"

	"github.com/miaadrajabi/security-module-signing/interfaces"
)

// ComputeTag returns the lowercase hex HMAC-SHA256 of message under key.
func ComputeTag(message []byte, key interfaces.KeyMaterial) interfaces.IntegrityTag {
	return interfaces.IntegrityTag(hex.EncodeToString(computeMAC(message, key)))
}

// TagDigest computes a tag in the digest-then-MAC profile: the message is
// the UTF-8 hex string of the artifact digest.
func TagDigest(d interfaces.ArtifactDigest, key interfaces.KeyMaterial) interfaces.IntegrityTag {
	return ComputeTag(d.Message(), key)
}

func computeMAC(message []byte, key interfaces.KeyMaterial) []byte {
	h := hmac.New(sha256.New, key.Bytes())
	h.Write(message)
	return h.Sum(nil)
}
