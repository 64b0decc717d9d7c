package transfer

import "errors"

// The transfer error taxonomy. Callers check these with errors.Is; the
// orchestrators wrap them with request detail but never downgrade the kind.
var (
	// ErrInvalidIdentifier is returned when a target application id is missing
	// or not numeric.
	ErrInvalidIdentifier = errors.New("transfer: target application id is not numeric")

	// ErrArchiveFormat is returned when a payload claims archive mode but is
	// not a well-formed zip archive.
	ErrArchiveFormat = errors.New("transfer: payload is not a well-formed archive")

	// ErrEncoding is returned when binary content is not valid UTF-8 where
	// text is required.
	ErrEncoding = errors.New("transfer: binary content is not valid UTF-8 text")

	// ErrScopeResolution is returned when no workspace could be determined for
	// a request, neither explicitly nor from the caller's assignments.
	ErrScopeResolution = errors.New("transfer: no workspace could be resolved")
)
