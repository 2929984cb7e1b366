package atlserr

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestErrorIs(t *testing.T) {
	cause := errors.New("dial tcp: connection refused")
	err := Transport("fetching jwks", cause)

	assert.True(t, errors.Is(err, Transport("", nil)))
	assert.False(t, errors.Is(err, InvalidArgument("")))
	assert.True(t, errors.Is(err, cause))
}

func TestHandshakeWrapsAttestationReject(t *testing.T) {
	reject := AttestationReject("no validator accepted the peer certificate")
	err := Handshake("peer verification failed", reject)

	assert.True(t, errors.Is(err, Handshake("", nil)))

	var got *Error
	assert.True(t, errors.As(err, &got))
	assert.Equal(t, KindHandshakeError, got.Kind)

	assert.True(t, errors.Is(err.Err, AttestationReject("")))
}

func TestErrorMessages(t *testing.T) {
	assert.Contains(t, InvalidArgument("empty validator list").Error(), "INVALID_ARGUMENT")
	assert.Contains(t, NotImplemented("cvm scheme").Error(), "NOT_IMPLEMENTED")
}
