package logger

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	log, err := New("test", "", false)
	require.NoError(t, err)
	assert.NotNil(t, log)

	log.Info("hello")
	log.Debug("hello")
	log.Security("no allow-list configured")
}

func TestNewWithLogPath(t *testing.T) {
	dir := t.TempDir()

	log, err := New("test", dir, true)
	require.NoError(t, err)
	assert.NotNil(t, log)
}

func TestSubLogger(t *testing.T) {
	log, err := New("test", "", false)
	require.NoError(t, err)

	sub := log.New("aasaci")
	assert.NotNil(t, sub)
}
