package atls

import (
	"context"
	"encoding/asn1"
	"errors"
	"net"
	"testing"

	"github.com/sunet/atls/pkg/atlserr"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// nullValidator is a minimal in-package stand-in for pkg/validators/null,
// used to avoid an import cycle in these white-box tests.
type nullValidator struct{}

func (nullValidator) Accepts(asn1.ObjectIdentifier) bool { return true }
func (nullValidator) Validate(context.Context, []byte, []byte, []byte) bool {
	return true
}

func TestNewEmptyValidatorListFails(t *testing.T) {
	_, err := New(nil, nil, nil)
	require.Error(t, err)
	assert.True(t, errors.Is(err, atlserr.InvalidArgument("")))
}

func TestNewGeneratesNonceWhenNilProvided(t *testing.T) {
	c, err := New([]Validator{nullValidator{}}, nil, nil)
	require.NoError(t, err)
	assert.Len(t, c.Nonce(), NonceSize)
}

func TestNewUsesProvidedNonce(t *testing.T) {
	var n Nonce
	n[0] = 0x42

	c, err := New([]Validator{nullValidator{}}, &n, nil)
	require.NoError(t, err)
	assert.Equal(t, n, c.Nonce())
}

func TestWrapIsSingleUse(t *testing.T) {
	c, err := New([]Validator{nullValidator{}}, nil, nil)
	require.NoError(t, err)

	clientConn, serverConn := net.Pipe()
	_ = serverConn.Close() // force the first handshake attempt to fail fast

	_, firstErr := c.Wrap(context.Background(), clientConn)
	require.Error(t, firstErr)
	assert.False(t, errors.Is(firstErr, atlserr.InvalidArgument("")),
		"first call should fail on the handshake, not the single-use guard")

	clientConn2, serverConn2 := net.Pipe()
	_ = serverConn2.Close()

	_, secondErr := c.Wrap(context.Background(), clientConn2)
	require.Error(t, secondErr)
	assert.True(t, errors.Is(secondErr, atlserr.InvalidArgument("")),
		"second call on the same Context must be rejected before touching the network")
}
