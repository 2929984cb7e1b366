package atls

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewNonceIsRandom(t *testing.T) {
	a, err := NewNonce()
	assert.NoError(t, err)
	b, err := NewNonce()
	assert.NoError(t, err)

	assert.NotEqual(t, a, b)
	assert.Len(t, a[:], NonceSize)
}

func TestNonceSNIEncodingHasTrailingNewline(t *testing.T) {
	var n Nonce
	encoded := n.SNIEncoding()
	assert.True(t, strings.HasSuffix(encoded, "\n"))
}
