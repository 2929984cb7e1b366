// Package httphelpers holds small, dependency-free HTTP/TLS building
// blocks shared by the aTLS client: the base tls.Config every attested
// connection starts from, and a bounded HTTP client for fetching JWKS
// documents.
package httphelpers

import (
	"crypto/tls"
)

// StandardTLSConfig returns the base tls.Config an attested connection is
// built from. TLS 1.2 is pinned as both floor and ceiling: TLS 1.3 folds
// the server certificate into the encrypted handshake, so there is no
// ServerCertificate message left for VerifyPeerCertificate to inspect
// before the session is considered established.
func StandardTLSConfig() *tls.Config {
	return &tls.Config{
		MinVersion:       tls.VersionTLS12,
		MaxVersion:       tls.VersionTLS12,
		CurvePreferences: []tls.CurveID{tls.CurveP521, tls.CurveP384, tls.CurveP256},
		// The handshake is accepted or rejected entirely by the attestation
		// verify callback installed by the caller; the default chain-of-trust
		// check is not a substitute for it and is turned off deliberately.
		InsecureSkipVerify: true,
	}
}
