// Package atls implements the client side of Attested TLS: a TLS 1.2
// handshake whose peer-certificate verification is replaced by a callback
// that walks a caller-supplied list of Validators against the server
// certificate's extensions, accepting the connection only once one of them
// proves the certificate's key is bound to a genuine, fresh attestation
// document.
package atls

import (
	"context"
	"encoding/asn1"
)

// Validator is a polymorphic contract for a single attestation scheme. It
// is satisfied by exactly three concrete types in this module — none of
// which live in this package, to keep the core free of any one scheme's
// dependencies:
//
//   - github.com/sunet/atls/pkg/validators/aasaci  (flagship, implemented)
//   - github.com/sunet/atls/pkg/validators/aascvm  (declared, unimplemented)
//   - github.com/sunet/atls/pkg/validators/null    (test-only, unsafe)
//
// Go has no sealed unions, so the closed set above is documentation, not
// the compiler's doing; each concrete type asserts conformance with
// `var _ atls.Validator = (*T)(nil)`.
type Validator interface {
	// Accepts reports whether this validator recognizes attestation
	// documents carried under the given certificate-extension OID. It must
	// be pure, side-effect free, and total — no I/O, no panics on
	// unexpected input.
	Accepts(oid asn1.ObjectIdentifier) bool

	// Validate reports whether document proves that the holder of the key
	// whose DER-encoded SubjectPublicKeyInfo is spki is a legitimate TEE,
	// and that the document was generated fresh against nonce. It must
	// fail closed: any integrity, policy, or parse failure returns false,
	// never a panic or error, except that implementations may perform
	// network I/O (a JWKS fetch) bounded by ctx.
	Validate(ctx context.Context, document, spki, nonce []byte) bool
}

// ErrorReporter is an optional interface a Validator may implement to
// surface a non-boolean diagnostic — a trust-configuration or transport
// failure — from its most recent Validate call, for post-mortem inspection
// via Context.LastValidationError. Validators that have no such diagnostics
// (Null, AAS-CVM) need not implement it.
type ErrorReporter interface {
	LastError() error
}
