// Package interfaces defines the shared domain types of the artifact
// signing toolchain: validated hex values for digests and integrity tags,
// opaque in-memory key material, the tagged KeySource variant, the signing
// profile selector, and the sentinel errors of the error taxonomy.
//
// Types here carry their own invariants: ArtifactDigest and IntegrityTag
// can only be constructed from well-formed hex of the right length, and
// KeyMaterial formats as a truncated preview so key bytes cannot leak
// through logging.
package interfaces
