// Package keys resolves key sources into in-memory key material for tag
// computation and verification.
//
// Four sources are supported: a literal string, an environment variable, a
// key file, and a device-identity derivation. An empty environment value
// or an empty key file is treated as "no key", never as a valid
// zero-length key.
//
// # Device-bound keys
//
// The identity derivation hashes "<deviceId>:<packageName>:SecurityModule:HMAC"
// with SHA-256. This is a simulation of a hardware-bound key: it binds the
// key to a device identity, but it is reproducible by anyone who knows the
// device id and package name, so it provides no secrecy against an
// adversary who can read both. Production deployments must source key
// material from a hardware-backed keystore instead; the KeyStore interface
// is the seam for that, with IdentityKeyStore as the deterministic test
// double and FileKeyStore as a software implementation with a locally
// generated master secret.
package keys
