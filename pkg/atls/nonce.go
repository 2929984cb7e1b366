package atls

import (
	"crypto/rand"
	"encoding/base64"
)

// NonceSize is the fixed length of a Nonce in bytes.
const NonceSize = 32

// Nonce is a single-use, per-connection random value bound into the
// attestation document a server presents during the handshake. A Nonce
// belongs to exactly one Context and must never be reused across
// connections — doing so lets a captured attestation document be replayed.
type Nonce [NonceSize]byte

// NewNonce draws NonceSize bytes from a cryptographically secure source.
func NewNonce() (Nonce, error) {
	var n Nonce
	if _, err := rand.Read(n[:]); err != nil {
		return Nonce{}, err
	}
	return n, nil
}

// SNIEncoding renders the nonce the way it is carried to the server: in the
// TLS ClientHello's SNI field, as standard base64 with the trailing newline
// a line-wrapping encoder appends. The server's decoder expects exactly
// this byte form, so the encoding here is intentionally not trimmed.
func (n Nonce) SNIEncoding() string {
	return base64.StdEncoding.EncodeToString(n[:]) + "\n"
}
