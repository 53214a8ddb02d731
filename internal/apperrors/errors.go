// Package apperrors defines the error kinds shared across augmentorium's
// components, so callers can map failures to transport status codes
// without matching on error text.
package apperrors

import "errors"

// Kind classifies an error for propagation-policy decisions (retry, downgrade,
// abort-file, abort-process) and for mapping to HTTP status codes.
type Kind string

const (
	KindIgnoredInput     Kind = "ignored_input"
	KindParseUnavailable Kind = "parse_unavailable"
	KindParseFailure     Kind = "parse_failure"
	KindEmbeddingTransient Kind = "embedding_transient"
	KindEmbeddingFatal   Kind = "embedding_fatal"
	KindStoreWrite       Kind = "store_write"
	KindConfigInvalid    Kind = "config_invalid"
	KindNotFound         Kind = "not_found"
	KindBadRequest       Kind = "bad_request"
)

var (
	// ErrNotFound is returned when a queried project or node is absent.
	ErrNotFound = errors.New("not found")
	// ErrBadRequest is returned when a request is missing required fields.
	ErrBadRequest = errors.New("bad request")
	// ErrEmbeddingUnreachable is returned when the embedding provider cannot
	// be reached at startup; the process must exit non-zero.
	ErrEmbeddingUnreachable = errors.New("embedding provider unreachable")
	// ErrProjectExists is returned when registering a name already taken by
	// a different root path.
	ErrProjectExists = errors.New("project already registered")
	// ErrConfigInvalid is returned for malformed root configuration.
	ErrConfigInvalid = errors.New("invalid configuration")
)

// Error wraps an underlying error with a Kind for dispatch at transport
// boundaries (HTTP status, MCP tool error payloads, propagation policy).
type Error struct {
	Kind Kind
	Err  error
}

func (e *Error) Error() string {
	if e.Err == nil {
		return string(e.Kind)
	}
	return string(e.Kind) + ": " + e.Err.Error()
}

func (e *Error) Unwrap() error { return e.Err }

// New builds a Kind-tagged error.
func New(kind Kind, err error) *Error {
	return &Error{Kind: kind, Err: err}
}

// KindOf extracts the Kind from err, if it (or something it wraps) is an
// *Error. Returns ok=false otherwise.
func KindOf(err error) (Kind, bool) {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind, true
	}
	return "", false
}
