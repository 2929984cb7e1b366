// Package config loads the typed configuration for the aTLS reference
// client the way the rest of this codebase's corpus loads its service
// configuration: an environment variable names a YAML file, defaults are
// applied, the file is unmarshaled on top, and the result is validated with
// struct tags before anything else touches it.
package config

import (
	"errors"
	"os"
	"path/filepath"
	"time"

	"github.com/sunet/atls/pkg/logger"

	"github.com/creasty/defaults"
	"github.com/go-playground/validator/v10"
	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v3"
)

// Log holds logging configuration.
type Log struct {
	FolderPath string `yaml:"folder_path"`
}

// Common holds configuration shared by every entry point built on this
// library.
type Common struct {
	Production bool `yaml:"production"`
	Log        Log  `yaml:"log"`
}

// Client holds the aTLS client configuration: where to dial, how long to
// wait, and which JKUs/CCE policies the AAS-ACI validator trusts.
type Client struct {
	// Target is the "host:port" to dial. Port defaults to 443.
	Target string `yaml:"target" validate:"required"`

	// ConnectTimeoutSeconds bounds the TCP connect and TLS handshake.
	ConnectTimeoutSeconds int `yaml:"connect_timeout_seconds" default:"10" validate:"min=1"`

	// JWKSTimeoutSeconds bounds a single JWKS HTTP fetch.
	JWKSTimeoutSeconds int `yaml:"jwks_timeout_seconds" default:"5" validate:"min=1"`

	// JWKSCacheTTLSeconds bounds how long a fetched JWKS document is
	// reused before being refetched. Zero disables caching.
	JWKSCacheTTLSeconds int `yaml:"jwks_cache_ttl_seconds" default:"300"`

	// JKUAllowlist restricts which JWKS URLs the AAS-ACI validator will
	// contact. Empty means "allow any", which emits a security warning.
	JKUAllowlist []string `yaml:"jku_allowlist"`

	// CCEPolicyAllowlist restricts which CCE policies (plaintext Rego
	// source) the AAS-ACI validator accepts as host-data. Empty means
	// "allow any workload identity", which emits a security warning.
	CCEPolicyAllowlist []string `yaml:"cce_policy_allowlist"`
}

// ConnectTimeout returns Client.ConnectTimeoutSeconds as a time.Duration.
func (c Client) ConnectTimeout() time.Duration {
	return time.Duration(c.ConnectTimeoutSeconds) * time.Second
}

// JWKSTimeout returns Client.JWKSTimeoutSeconds as a time.Duration.
func (c Client) JWKSTimeout() time.Duration {
	return time.Duration(c.JWKSTimeoutSeconds) * time.Second
}

// JWKSCacheTTL returns Client.JWKSCacheTTLSeconds as a time.Duration.
func (c Client) JWKSCacheTTL() time.Duration {
	return time.Duration(c.JWKSCacheTTLSeconds) * time.Second
}

// Cfg is the root configuration for the reference aTLS CLI.
type Cfg struct {
	Common Common `yaml:"common"`
	Client Client `yaml:"client" validate:"required"`
}

type envVars struct {
	ConfigYAML string `envconfig:"ATLS_CONFIG_YAML" required:"true"`
}

// New parses the config file named by the ATLS_CONFIG_YAML environment
// variable, applying defaults first and validating the result last.
func New() (*Cfg, error) {
	log := logger.NewSimple("config")
	log.Info("reading ATLS_CONFIG_YAML")

	env := envVars{}
	if err := envconfig.Process("", &env); err != nil {
		return nil, err
	}

	cfg := &Cfg{}
	if err := defaults.Set(cfg); err != nil {
		return nil, err
	}

	configPath := env.ConfigYAML

	fileInfo, err := os.Stat(configPath)
	if err != nil {
		return nil, err
	}
	if fileInfo.IsDir() {
		return nil, errors.New("config is a folder")
	}

	configFile, err := os.ReadFile(filepath.Clean(configPath))
	if err != nil {
		return nil, err
	}

	if err := yaml.Unmarshal(configFile, cfg); err != nil {
		return nil, err
	}

	if err := Validate(cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate runs struct-tag validation over cfg.
func Validate(cfg *Cfg) error {
	validate := validator.New(validator.WithRequiredStructEnabled())
	return validate.Struct(cfg)
}
