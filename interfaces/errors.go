package interfaces

import "errors"

var (
	// ErrKeyUnavailable indicates no usable signing key could be resolved:
	// an unset or empty environment variable, a missing or empty key file,
	// or missing identity inputs. Not transient; never retried.
	ErrKeyUnavailable = errors.New("no usable signing key resolved")

	// ErrFormat indicates a malformed signature artifact: missing
	// structured fields, or a digest/tag that is not valid hex of the
	// expected length.
	ErrFormat = errors.New("malformed signature artifact")
)
