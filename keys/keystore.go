package keys

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"golang.org/x/crypto/hkdf"

	"github.com/miaadrajabi/security-module-signing/interfaces"
)

// masterKeySize is the size of the generated master secret in bytes.
const masterKeySize = 32

// KeyStore issues named signing keys. A production deployment backs this
// with a hardware keystore or OS secure element; the implementations here
// are software stand-ins with an explicit custody story.
type KeyStore interface {
	// GetOrCreateKey returns the key for alias, creating it if needed.
	GetOrCreateKey(alias string) (interfaces.KeyMaterial, error)
}

// FileKeyStore keeps a random master secret in a file (mode 0600) and
// derives a per-alias subkey with HKDF-SHA256. The master secret is
// created on first use, so repeated runs on the same machine sign with
// the same key while different machines get independent keys.
type FileKeyStore struct {
	path string
	log  *slog.Logger
}

// NewFileKeyStore creates a keystore persisting its master secret at path.
func NewFileKeyStore(path string, log *slog.Logger) *FileKeyStore {
	return &FileKeyStore{path: path, log: log}
}

// GetOrCreateKey derives the subkey for alias from the master secret.
func (s *FileKeyStore) GetOrCreateKey(alias string) (interfaces.KeyMaterial, error) {
	if alias == "" {
		return interfaces.KeyMaterial{}, fmt.Errorf("key alias must not be empty: %w", interfaces.ErrKeyUnavailable)
	}

	master, err := s.loadOrCreateMaster()
	if err != nil {
		return interfaces.KeyMaterial{}, err
	}
	defer func() {
		for i := range master {
			master[i] = 0
		}
	}()

	sub := make([]byte, masterKeySize)
	kdf := hkdf.New(sha256.New, master, nil, []byte(bindingSuffix+":"+alias))
	if _, err := io.ReadFull(kdf, sub); err != nil {
		return interfaces.KeyMaterial{}, fmt.Errorf("failed to derive key for alias %s: %w", alias, err)
	}

	return interfaces.NewKeyMaterial(sub, "software")
}

// loadOrCreateMaster reads the persisted master secret, generating and
// persisting a fresh one when the file does not exist yet.
func (s *FileKeyStore) loadOrCreateMaster() ([]byte, error) {
	data, err := os.ReadFile(s.path)
	if err == nil {
		master, decErr := hex.DecodeString(strings.TrimSpace(string(data)))
		if decErr != nil || len(master) != masterKeySize {
			return nil, fmt.Errorf("keystore file %s is corrupt: %w", s.path, interfaces.ErrKeyUnavailable)
		}
		return master, nil
	}
	if !os.IsNotExist(err) {
		return nil, fmt.Errorf("failed to read keystore file %s: %v: %w", s.path, err, interfaces.ErrKeyUnavailable)
	}

	master := make([]byte, masterKeySize)
	if _, err := rand.Read(master); err != nil {
		return nil, fmt.Errorf("failed to generate master secret: %w", err)
	}
	if err := os.WriteFile(s.path, []byte(hex.EncodeToString(master)), 0600); err != nil {
		return nil, fmt.Errorf("failed to write keystore file %s: %w", s.path, err)
	}

	if s.log != nil {
		s.log.Info("Generated new signing master secret",
			slog.String("path", s.path))
	}
	return master, nil
}

// IdentityKeyStore derives deterministic keys bound to a device identity.
// It is the test double for a hardware-backed keystore: the derivation is
// reproducible from public-ish identifiers and must not be treated as a
// secret in production.
type IdentityKeyStore struct {
	DeviceID    string
	PackageName string
}

// GetOrCreateKey derives the key for alias from the identity binding
// string "<deviceID>:<packageName>:SecurityModule:<alias>". With alias
// "HMAC" this matches Derive with an IdentityKey source.
func (s IdentityKeyStore) GetOrCreateKey(alias string) (interfaces.KeyMaterial, error) {
	if s.DeviceID == "" || s.PackageName == "" {
		return interfaces.KeyMaterial{}, fmt.Errorf("identity binding requires device id and package name: %w", interfaces.ErrKeyUnavailable)
	}
	if alias == "" {
		return interfaces.KeyMaterial{}, fmt.Errorf("key alias must not be empty: %w", interfaces.ErrKeyUnavailable)
	}

	binding := s.DeviceID + ":" + s.PackageName + ":SecurityModule:" + alias
	sum := sha256.Sum256([]byte(binding))
	return interfaces.NewKeyMaterial(sum[:], interfaces.KeySourceIdentity.String())
}
