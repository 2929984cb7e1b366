// Package aascvm declares the Validator for AAS Confidential VM attestation
// documents. The claim set for this scheme is unspecified upstream, so
// Validate always fails; the type exists so a caller can include the CVM
// OID in a validator list today and swap in real verification later
// without touching call sites.
package aascvm

import (
	"context"
	"encoding/asn1"

	"github.com/sunet/atls/pkg/atls"
	"github.com/sunet/atls/pkg/logger"
)

// OID is the certificate-extension object identifier carrying an AAS
// Confidential VM attestation document.
var OID = asn1.ObjectIdentifier{1, 3, 9999, 2, 1, 1}

// Validator recognizes AAS-CVM attestation documents by OID but cannot yet
// verify them.
type Validator struct {
	log *logger.Log
}

var _ atls.Validator = (*Validator)(nil)

// New returns a Validator. If log is nil a default component logger is
// used.
func New(log *logger.Log) *Validator {
	if log == nil {
		log = logger.NewSimple("aascvm")
	}
	return &Validator{log: log}
}

// Accepts reports whether oid is the AAS-CVM extension OID.
func (v *Validator) Accepts(oid asn1.ObjectIdentifier) bool {
	return oid.Equal(OID)
}

// Validate always returns false: the CVM claim set is not yet specified.
// It logs at debug level so a caller inspecting diagnostics understands why
// the CVM branch never wins, rather than this being indistinguishable from
// an ordinary attestation rejection.
func (v *Validator) Validate(_ context.Context, _, _, _ []byte) bool {
	v.log.Debug("aascvm validation is not implemented, rejecting")
	return false
}
