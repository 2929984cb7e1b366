package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var mockConfig = []byte(`
common:
  production: false
  log:
    folder_path: ""
client:
  target: "aci.example.com:443"
  connect_timeout_seconds: 7
  jwks_timeout_seconds: 3
  jwks_cache_ttl_seconds: 60
  jku_allowlist:
    - "https://aas.example.com/certs"
  cce_policy_allowlist:
    - "allow all"
`)

func TestNew(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(path, mockConfig, 0o600))

	t.Setenv("ATLS_CONFIG_YAML", path)

	cfg, err := New()
	require.NoError(t, err)

	assert.Equal(t, "aci.example.com:443", cfg.Client.Target)
	assert.Equal(t, 7*time.Second, cfg.Client.ConnectTimeout())
	assert.Equal(t, 3*time.Second, cfg.Client.JWKSTimeout())
	assert.Equal(t, 60*time.Second, cfg.Client.JWKSCacheTTL())
	assert.Equal(t, []string{"https://aas.example.com/certs"}, cfg.Client.JKUAllowlist)
}

func TestNewAppliesDefaults(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("client:\n  target: \"host:443\"\n"), 0o600))

	t.Setenv("ATLS_CONFIG_YAML", path)

	cfg, err := New()
	require.NoError(t, err)

	assert.Equal(t, 10*time.Second, cfg.Client.ConnectTimeout())
	assert.Equal(t, 5*time.Second, cfg.Client.JWKSTimeout())
}

func TestNewMissingTargetFailsValidation(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("client:\n  connect_timeout_seconds: 1\n"), 0o600))

	t.Setenv("ATLS_CONFIG_YAML", path)

	_, err := New()
	assert.Error(t, err)
}

func TestNewMissingEnvVar(t *testing.T) {
	t.Setenv("ATLS_CONFIG_YAML", "")

	_, err := New()
	assert.Error(t, err)
}

func TestNewConfigIsFolder(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("ATLS_CONFIG_YAML", dir)

	_, err := New()
	assert.Error(t, err)
}
