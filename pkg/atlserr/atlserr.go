// Package atlserr defines the typed error taxonomy shared across the aTLS
// client: a small set of Kinds that callers can switch on with errors.As,
// each wrapping the underlying cause the way the rest of this codebase
// wraps errors with fmt.Errorf("%w", ...).
package atlserr

import "fmt"

// Kind identifies which of the aTLS error taxonomy's buckets an Error
// belongs to. It is a closed set; do not add values without updating every
// switch over Kind in this module.
type Kind string

const (
	// KindInvalidArgument covers construction-time misuse: an empty
	// validator list, a malformed nonce length.
	KindInvalidArgument Kind = "INVALID_ARGUMENT"

	// KindHandshakeError covers any TLS-layer failure, including a
	// verify callback that rejected every validator.
	KindHandshakeError Kind = "HANDSHAKE_ERROR"

	// KindAttestationReject means the verify callback ran to completion
	// and no (validator, extension) pair accepted. It is always wrapped
	// in a KindHandshakeError before reaching the caller.
	KindAttestationReject Kind = "ATTESTATION_REJECT"

	// KindTrustConfig means a JKU URL (or other trust input) was not on
	// the allow-list the validator was configured with.
	KindTrustConfig Kind = "TRUST_CONFIG_ERROR"

	// KindTransport means a JWKS fetch failed at the HTTP layer.
	KindTransport Kind = "TRANSPORT_ERROR"

	// KindNotImplemented means the scheme is declared but unimplemented.
	KindNotImplemented Kind = "NOT_IMPLEMENTED"
)

// Error is the concrete error type for every kind in the aTLS taxonomy.
type Error struct {
	Kind Kind
	Msg  string
	Err  error
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Msg, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Msg)
}

// Unwrap exposes the wrapped cause for errors.Is/errors.As.
func (e *Error) Unwrap() error {
	return e.Err
}

// Is reports whether target is an *Error of the same Kind, so callers can
// write errors.Is(err, atlserr.InvalidArgument("")) to test a kind without
// caring about the message.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return e.Kind == t.Kind
}

// InvalidArgument constructs a KindInvalidArgument error.
func InvalidArgument(msg string) *Error {
	return &Error{Kind: KindInvalidArgument, Msg: msg}
}

// Handshake constructs a KindHandshakeError error wrapping cause, which may
// itself be an *Error of KindAttestationReject.
func Handshake(msg string, cause error) *Error {
	return &Error{Kind: KindHandshakeError, Msg: msg, Err: cause}
}

// AttestationReject constructs a KindAttestationReject error.
func AttestationReject(msg string) *Error {
	return &Error{Kind: KindAttestationReject, Msg: msg}
}

// TrustConfig constructs a KindTrustConfig error.
func TrustConfig(msg string) *Error {
	return &Error{Kind: KindTrustConfig, Msg: msg}
}

// Transport constructs a KindTransport error wrapping the underlying
// network/HTTP cause.
func Transport(msg string, cause error) *Error {
	return &Error{Kind: KindTransport, Msg: msg, Err: cause}
}

// NotImplemented constructs a KindNotImplemented error.
func NotImplemented(msg string) *Error {
	return &Error{Kind: KindNotImplemented, Msg: msg}
}
