package httphelpers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/sunet/atls/pkg/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClientGetJSON(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"keys":[]}`))
	}))
	defer srv.Close()

	c := New(logger.NewSimple("test"), 2*time.Second)
	body, err := c.GetJSON(context.Background(), srv.URL)
	require.NoError(t, err)
	assert.JSONEq(t, `{"keys":[]}`, string(body))
}

func TestClientGetJSONNon200(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	c := New(logger.NewSimple("test"), 2*time.Second)
	_, err := c.GetJSON(context.Background(), srv.URL)
	assert.Error(t, err)
}

func TestStandardTLSConfigPinsTLS12(t *testing.T) {
	cfg := StandardTLSConfig()
	assert.Equal(t, uint16(0x0303), cfg.MinVersion)
	assert.Equal(t, cfg.MinVersion, cfg.MaxVersion)
	assert.True(t, cfg.InsecureSkipVerify)
}
