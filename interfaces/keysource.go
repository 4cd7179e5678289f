package interfaces

// KeySourceKind discriminates the KeySource variants.
type KeySourceKind int

const (
	// KeySourceLiteral uses the UTF-8 bytes of a literal string as the key.
	KeySourceLiteral KeySourceKind = iota

	// KeySourceEnv looks the key up in an environment variable.
	KeySourceEnv

	// KeySourceFile reads the key from a file, trimming trailing whitespace.
	KeySourceFile

	// KeySourceIdentity derives the key from a device identity binding.
	KeySourceIdentity
)

func (k KeySourceKind) String() string {
	switch k {
	case KeySourceLiteral:
		return "literal"
	case KeySourceEnv:
		return "environment"
	case KeySourceFile:
		return "file"
	case KeySourceIdentity:
		return "device-bound"
	default:
		return "unknown"
	}
}

// KeySource names exactly one place to obtain key material from. Construct
// it with one of LiteralKey, EnvKey, FileKey or IdentityKey; the single
// constructor per variant is what enforces the "exactly one source"
// invariant, instead of a runtime check over optional parameters.
type KeySource struct {
	Kind KeySourceKind

	// Literal is the key string for KeySourceLiteral.
	Literal string

	// EnvVar is the environment variable name for KeySourceEnv.
	EnvVar string

	// FilePath is the key file path for KeySourceFile.
	FilePath string

	// DeviceID and PackageName are the identity binding inputs for
	// KeySourceIdentity.
	DeviceID    string
	PackageName string
}

// LiteralKey selects the UTF-8 bytes of s as the key, used as-is with no
// hashing. Callers choosing this mode own key strength.
func LiteralKey(s string) KeySource {
	return KeySource{Kind: KeySourceLiteral, Literal: s}
}

// EnvKey selects the value of the named environment variable as the key.
func EnvKey(name string) KeySource {
	return KeySource{Kind: KeySourceEnv, EnvVar: name}
}

// FileKey selects the contents of the file at path as the key.
func FileKey(path string) KeySource {
	return KeySource{Kind: KeySourceFile, FilePath: path}
}

// IdentityKey selects a key derived from the device/package identity
// binding. The derivation is a reproducible simulation of a hardware-bound
// key; see the keys package for the security caveats.
func IdentityKey(deviceID, packageName string) KeySource {
	return KeySource{Kind: KeySourceIdentity, DeviceID: deviceID, PackageName: packageName}
}
