package aascvm

import (
	"context"
	"encoding/asn1"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAcceptsOnlyCVMOID(t *testing.T) {
	v := New(nil)
	assert.True(t, v.Accepts(OID))
	assert.False(t, v.Accepts(asn1.ObjectIdentifier{1, 3, 9999, 2, 1, 2}))
}

func TestValidateAlwaysFails(t *testing.T) {
	v := New(nil)
	assert.False(t, v.Validate(context.Background(), []byte("anything"), []byte("spki"), []byte("nonce")))
}
