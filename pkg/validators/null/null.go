// Package null provides an explicitly unsafe Validator that accepts every
// certificate extension and every document. It exists to exercise the aTLS
// handshake pipeline — nonce transport, verify-callback wiring, extension
// iteration — without standing up a real AAS issuer and JWKS fixture. Using
// it outside tests defeats every attestation guarantee this module exists
// to provide.
package null

import (
	"context"
	"encoding/asn1"

	"github.com/sunet/atls/pkg/atls"
)

// Validator unconditionally accepts every OID and every document.
type Validator struct{}

var _ atls.Validator = (*Validator)(nil)

// Accepts always returns true.
func (Validator) Accepts(asn1.ObjectIdentifier) bool {
	return true
}

// Validate always returns true without inspecting document, spki, or nonce.
func (Validator) Validate(context.Context, []byte, []byte, []byte) bool {
	return true
}
