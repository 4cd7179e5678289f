// Package main (cmd/apk-sign) generates HMAC-SHA256 integrity signatures for
// application packages during the build process, so a repackaged or modified
// APK can be detected at runtime by a verifier holding the same key.
//
// The package is digested with streaming SHA-256 and the tag authenticates
// the hex digest (digest-then-MAC), which keeps tag computation independent
// of a second full read of a potentially large file. The signature is
// written next to the artifact either as a bare hex sidecar (the default,
// "<stem>_hmac_signature.txt") or as a structured JSON record when --json is
// given or the output path ends in .json; with --json and no --out the
// default becomes "<stem>_hmac_signature.json".
//
// Key selection, in order of precedence:
//
//  1. An explicit key source flag: --key, --key-env, --key-file, or the
//     --device-id/--package pair (mutually exclusive).
//  2. A software keystore file given with --keystore, created on first use.
//  3. The default keystore file "apk_signing.key" in the working directory.
//
// The device-bound derivation is a simulation intended for testing; see the
// keys package documentation for its security caveats.
package main
