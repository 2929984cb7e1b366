package atls

import (
	"context"
	"crypto/tls"
	"crypto/x509"
	"fmt"
	"net"
	"sync"

	"github.com/sunet/atls/pkg/atlserr"
	"github.com/sunet/atls/pkg/httphelpers"
	"github.com/sunet/atls/pkg/logger"
	"github.com/sunet/atls/pkg/pki"
)

// Context owns the per-connection state of one attested TLS handshake: the
// nonce transported to the server, the ordered Validators consulted against
// the peer certificate, and the single-use guard that makes replaying a
// Context's nonce a programming error rather than a silent vulnerability.
type Context struct {
	validators []Validator
	nonce      Nonce
	log        *logger.Log

	mu   sync.Mutex
	used bool
}

// New constructs a Context bound to validators, tried in the given order.
// If nonce is nil, NewNonce generates a fresh one. Construction fails with
// an InvalidArgument error if validators is empty.
func New(validators []Validator, nonce *Nonce, log *logger.Log) (*Context, error) {
	if len(validators) == 0 {
		return nil, atlserr.InvalidArgument("validator list must not be empty")
	}

	var n Nonce
	if nonce != nil {
		n = *nonce
	} else {
		generated, err := NewNonce()
		if err != nil {
			return nil, atlserr.Handshake("generating nonce", err)
		}
		n = generated
	}

	if log == nil {
		log = logger.NewSimple("atls")
	}

	return &Context{validators: validators, nonce: n, log: log}, nil
}

// Nonce returns the Context's nonce.
func (c *Context) Nonce() Nonce {
	return c.nonce
}

// Wrap performs the TLS 1.2 handshake over conn, transporting the nonce in
// the ClientHello's SNI field and delegating the entire trust decision to
// the attestation verify callback. A Context may be wrapped exactly once;
// a second call returns an InvalidArgument error without touching conn.
func (c *Context) Wrap(ctx context.Context, conn net.Conn) (*tls.Conn, error) {
	c.mu.Lock()
	if c.used {
		c.mu.Unlock()
		return nil, atlserr.InvalidArgument("context already consumed by a prior handshake")
	}
	c.used = true
	c.mu.Unlock()

	cfg := httphelpers.StandardTLSConfig()
	cfg.ServerName = c.nonce.SNIEncoding()
	cfg.VerifyPeerCertificate = c.verifyPeerCertificate(ctx)

	tlsConn := tls.Client(conn, cfg)
	if err := tlsConn.HandshakeContext(ctx); err != nil {
		return nil, atlserr.Handshake("tls handshake failed", err)
	}

	return tlsConn, nil
}

// LastValidationError returns the most recent non-boolean diagnostic (a
// trust-configuration or transport failure) reported by v, if v implements
// ErrorReporter and has one. It reflects v's most recent Validate call: it
// is nil if that call succeeded or if v never recorded a diagnostic, and a
// validator that failed before another one accepted keeps its diagnostic.
func (c *Context) LastValidationError(v Validator) error {
	reporter, ok := v.(ErrorReporter)
	if !ok {
		return nil
	}
	return reporter.LastError()
}

// verifyPeerCertificate builds the callback installed as
// tls.Config.VerifyPeerCertificate. It implements the core accept/reject
// algorithm: for each validator in order, for each certificate extension
// it accepts, ask it to validate; the first success wins.
func (c *Context) verifyPeerCertificate(ctx context.Context) func([][]byte, [][]*x509.Certificate) error {
	return func(rawCerts [][]byte, _ [][]*x509.Certificate) error {
		if len(rawCerts) == 0 {
			return atlserr.Handshake("no peer certificate presented", nil)
		}

		leaf, err := x509.ParseCertificate(rawCerts[0])
		if err != nil {
			return atlserr.Handshake("parsing peer certificate", err)
		}

		spki, err := pki.SubjectPublicKeyInfoDER(leaf)
		if err != nil {
			return atlserr.Handshake("extracting peer subject public key info", err)
		}

		for _, v := range c.validators {
			for _, ext := range leaf.Extensions {
				if !v.Accepts(ext.Id) {
					continue
				}
				if len(ext.Value) == 0 {
					continue
				}
				if c.safeValidate(ctx, v, ext.Value, spki) {
					return nil
				}
			}
		}

		reject := atlserr.AttestationReject("no validator accepted the peer certificate")
		return atlserr.Handshake("attestation verification failed", reject)
	}
}

// safeValidate calls v.Validate, recovering a panic inside a Validator
// implementation and treating it as an ordinary false rather than aborting
// the whole callback — Go has no checked exceptions to catch selectively,
// so this is the idiomatic equivalent of "swallow integrity failures only".
func (c *Context) safeValidate(ctx context.Context, v Validator, document, spki []byte) (ok bool) {
	defer func() {
		if r := recover(); r != nil {
			c.log.Info("recovered panic inside validator", "panic", fmt.Sprintf("%v", r))
			ok = false
		}
	}()
	return v.Validate(ctx, document, spki, c.nonce[:])
}
