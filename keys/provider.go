package keys

import (
	"bytes"
	"crypto/sha256"
	"fmt"
	"os"
	"unicode"

	"github.com/miaadrajabi/security-module-signing/interfaces"
)

// bindingSuffix fixes the domain separation of the identity derivation.
// Changing it invalidates every previously issued device-bound tag.
const bindingSuffix = "SecurityModule:HMAC"

// Derive resolves a KeySource into in-memory key material. Exactly one
// source is consulted per call; the KeySource constructors guarantee that.
// Failures are interfaces.ErrKeyUnavailable: none of them is transient,
// so callers must not retry.
func Derive(src interfaces.KeySource) (interfaces.KeyMaterial, error) {
	switch src.Kind {
	case interfaces.KeySourceLiteral:
		if src.Literal == "" {
			return interfaces.KeyMaterial{}, fmt.Errorf("literal key is empty: %w", interfaces.ErrKeyUnavailable)
		}
		return interfaces.NewKeyMaterial([]byte(src.Literal), src.Kind.String())

	case interfaces.KeySourceEnv:
		// An empty value is treated as absent, never as a zero-length key.
		val := os.Getenv(src.EnvVar)
		if val == "" {
			return interfaces.KeyMaterial{}, fmt.Errorf("environment variable %s is empty or not set: %w", src.EnvVar, interfaces.ErrKeyUnavailable)
		}
		return interfaces.NewKeyMaterial([]byte(val), src.Kind.String())

	case interfaces.KeySourceFile:
		data, err := os.ReadFile(src.FilePath)
		if err != nil {
			return interfaces.KeyMaterial{}, fmt.Errorf("failed to read key file %s: %v: %w", src.FilePath, err, interfaces.ErrKeyUnavailable)
		}
		data = bytes.TrimRightFunc(data, unicode.IsSpace)
		if len(data) == 0 {
			return interfaces.KeyMaterial{}, fmt.Errorf("key file %s is empty: %w", src.FilePath, interfaces.ErrKeyUnavailable)
		}
		return interfaces.NewKeyMaterial(data, src.Kind.String())

	case interfaces.KeySourceIdentity:
		if src.DeviceID == "" || src.PackageName == "" {
			return interfaces.KeyMaterial{}, fmt.Errorf("identity binding requires device id and package name: %w", interfaces.ErrKeyUnavailable)
		}
		return deriveIdentityKey(src.DeviceID, src.PackageName)

	default:
		return interfaces.KeyMaterial{}, fmt.Errorf("unsupported key source kind %d: %w", int(src.Kind), interfaces.ErrKeyUnavailable)
	}
}

// deriveIdentityKey builds the identity binding string and hashes it into a
// 32-byte key. The result is reproducible by anyone who knows the device id
// and package name, so this offers no secrecy against an adversary who can
// read both; see the package documentation.
func deriveIdentityKey(deviceID, packageName string) (interfaces.KeyMaterial, error) {
	binding := deviceID + ":" + packageName + ":" + bindingSuffix
	sum := sha256.Sum256([]byte(binding))
	return interfaces.NewKeyMaterial(sum[:], interfaces.KeySourceIdentity.String())
}
