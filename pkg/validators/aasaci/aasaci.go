// Package aasaci implements the flagship aTLS Validator: verification of
// Azure Attestation Service (AAS) documents issued for AMD SEV-SNP
// confidential ACI containers. It checks the document's JWT signature
// against a JWKS endpoint constrained by an allow-list, binds the document
// to the peer certificate's key and the handshake nonce via the SEV-SNP
// report-data field, and enforces platform and CCE-policy claims.
package aasaci

import (
	"bytes"
	"context"
	"crypto/sha256"
	"crypto/x509"
	"encoding/asn1"
	"encoding/base64"
	"encoding/hex"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/sunet/atls/pkg/atls"
	"github.com/sunet/atls/pkg/atlserr"
	"github.com/sunet/atls/pkg/httphelpers"
	"github.com/sunet/atls/pkg/logger"
	"github.com/sunet/atls/pkg/trust"

	"github.com/golang-jwt/jwt/v5"
	"github.com/lestrrat-go/jwx/v3/jwk"
)

// OID is the certificate-extension object identifier carrying an AAS ACI
// container attestation document.
var OID = asn1.ObjectIdentifier{1, 3, 9999, 2, 1, 2}

const (
	claimAttestationType = "x-ms-attestation-type"
	claimCompliance      = "x-ms-compliance-status"
	claimIsDebuggable    = "x-ms-sevsnpvm-is-debuggable"
	claimReportData      = "x-ms-sevsnpvm-reportdata"
	claimHostData        = "x-ms-sevsnpvm-hostdata"
	claimRuntime         = "x-ms-runtime"

	wantAttestationType = "sevsnpvm"
	wantCompliance      = "azure-compliant-uvm"

	defaultJWKSTimeout = 5 * time.Second
)

// Config configures a Validator. A zero Config is valid but emits security
// warnings for both missing allow-lists when the Validator is built.
type Config struct {
	// JKUAllowlist restricts which JWKS URLs are ever contacted. Empty
	// means any JWKS named by the token is trusted.
	JKUAllowlist []string

	// CCEPolicyAllowlist restricts which CCE policies (plaintext Rego
	// source) bind a workload identity. Empty means any workload identity
	// passes the policy-binding check.
	CCEPolicyAllowlist []string

	// JWKSTimeout bounds a single JWKS HTTP fetch. Defaults to 5 seconds.
	JWKSTimeout time.Duration

	// JWKSCacheTTL bounds how long a fetched JWKS document is reused.
	// Zero disables caching.
	JWKSCacheTTL time.Duration

	// Log receives diagnostics and the one-time security warnings. If nil,
	// a default component logger is used.
	Log *logger.Log
}

// Validator verifies AAS-issued attestation documents for SEV-SNP ACI
// containers.
type Validator struct {
	jkuAllowlist    *trust.AllowList
	policyAllowlist *trust.AllowList
	httpClient      *httphelpers.Client
	jwksCache       *trust.JWKSCache
	log             *logger.Log

	warnOnce sync.Once

	mu      sync.Mutex
	lastErr error
}

var _ atls.Validator = (*Validator)(nil)
var _ atls.ErrorReporter = (*Validator)(nil)

// New builds a Validator from cfg.
func New(cfg Config) *Validator {
	log := cfg.Log
	if log == nil {
		log = logger.NewSimple("aasaci")
	}

	timeout := cfg.JWKSTimeout
	if timeout <= 0 {
		timeout = defaultJWKSTimeout
	}

	v := &Validator{
		jkuAllowlist:    trust.NewAllowList(cfg.JKUAllowlist),
		policyAllowlist: trust.NewAllowList(cfg.CCEPolicyAllowlist),
		httpClient:      httphelpers.New(log, timeout),
		jwksCache:       trust.NewJWKSCache(cfg.JWKSCacheTTL),
		log:             log,
	}
	v.warnOnce.Do(v.warnIfUnconfigured)
	return v
}

// Close stops the validator's JWKS cache eviction goroutine.
func (v *Validator) Close() {
	v.jwksCache.Stop()
}

// Accepts reports whether oid is the AAS ACI extension OID.
func (v *Validator) Accepts(oid asn1.ObjectIdentifier) bool {
	return oid.Equal(OID)
}

// LastError returns the most recent trust-configuration or transport
// diagnostic recorded by Validate, or nil.
func (v *Validator) LastError() error {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.lastErr
}

func (v *Validator) setLastError(err error) {
	v.mu.Lock()
	v.lastErr = err
	v.mu.Unlock()
}

// Validate implements the atls.Validator contract. It fails closed: every
// return path other than full success returns false, with diagnostics
// (never the boolean result) carrying TrustConfig/Transport detail.
func (v *Validator) Validate(ctx context.Context, document, spki, nonce []byte) bool {
	ok, err := v.validate(ctx, document, spki, nonce)
	v.setLastError(err)
	if err != nil {
		v.log.Info("aasaci validation diagnostic", "error", err)
	}
	return ok
}

func (v *Validator) warnIfUnconfigured() {
	if v.jkuAllowlist.Empty() {
		v.log.Security("aasaci validator has no jku allow-list configured; any jwks endpoint the token names will be trusted")
	}
	if v.policyAllowlist.Empty() {
		v.log.Security("aasaci validator has no cce policy allow-list configured; any workload identity will pass policy binding")
	}
}

func (v *Validator) validate(ctx context.Context, document, spki, nonce []byte) (bool, error) {
	parser := jwt.NewParser()
	unverified, _, err := parser.ParseUnverified(string(document), jwt.MapClaims{})
	if err != nil {
		return false, nil
	}

	jku, _ := unverified.Header["jku"].(string)
	kid, _ := unverified.Header["kid"].(string)
	alg, _ := unverified.Header["alg"].(string)

	if !v.jkuAllowlist.Empty() && !v.jkuAllowlist.Contains(jku) {
		return false, atlserr.TrustConfig(fmt.Sprintf("jku %q is not on the allow-list", jku))
	}

	set, err := v.resolveJWKS(ctx, jku)
	if err != nil {
		return false, atlserr.Transport(fmt.Sprintf("fetching jwks from %q", jku), err)
	}

	key, ok := set.LookupKeyID(kid)
	if !ok {
		return false, nil
	}

	pubKey, err := publicKeyFromX5C(key)
	if err != nil {
		return false, nil
	}

	verified, err := jwt.Parse(string(document), func(*jwt.Token) (interface{}, error) {
		return pubKey, nil
	}, jwt.WithValidMethods([]string{alg}))
	if err != nil || !verified.Valid {
		return false, nil
	}

	claims, ok := verified.Claims.(jwt.MapClaims)
	if !ok {
		return false, nil
	}

	if !checkRuntimeDataBinding(claims, spki, nonce) {
		return false, nil
	}
	if !checkPlatformClaims(claims) {
		return false, nil
	}
	if !v.policyAllowlist.Empty() && !checkPolicyBinding(claims, v.policyAllowlist) {
		return false, nil
	}

	return true, nil
}

func (v *Validator) resolveJWKS(ctx context.Context, jku string) (jwk.Set, error) {
	if set, ok := v.jwksCache.Get(jku); ok {
		return set, nil
	}

	body, err := v.httpClient.GetJSON(ctx, jku)
	if err != nil {
		return nil, err
	}

	set, err := jwk.Parse(body)
	if err != nil {
		return nil, err
	}

	v.jwksCache.Set(jku, set)
	return set, nil
}

func publicKeyFromX5C(key jwk.Key) (any, error) {
	chain, ok := key.X509CertChain()
	if !ok || chain == nil || chain.Len() == 0 {
		return nil, fmt.Errorf("key %q has no x5c chain", key.KeyID())
	}

	der, ok := chain.Get(0)
	if !ok {
		return nil, fmt.Errorf("could not read leaf certificate from x5c chain")
	}

	leaf, err := x509.ParseCertificate(der)
	if err != nil {
		return nil, fmt.Errorf("parsing x5c leaf certificate: %w", err)
	}

	return leaf.PublicKey, nil
}

// CanonicalRuntimeDataHex computes the 64-char lowercase hex SHA-256 digest
// the AAS issuer writes as the first half of x-ms-sevsnpvm-reportdata:
// sha256(`{"publicKey":"<b64 spki>","nonce":"<b64 nonce>"}`).
func CanonicalRuntimeDataHex(spki, nonce []byte) string {
	rd := fmt.Sprintf(`{"publicKey":"%s","nonce":"%s"}`,
		base64.StdEncoding.EncodeToString(spki),
		base64.StdEncoding.EncodeToString(nonce))
	sum := sha256.Sum256([]byte(rd))
	return hex.EncodeToString(sum[:])
}

func checkRuntimeDataBinding(claims jwt.MapClaims, spki, nonce []byte) bool {
	reportData, _ := claims[claimReportData].(string)
	if len(reportData) < 64 {
		return false
	}
	if !strings.EqualFold(reportData[:64], CanonicalRuntimeDataHex(spki, nonce)) {
		return false
	}

	runtime, ok := claims[claimRuntime].(map[string]interface{})
	if !ok {
		return false
	}

	runtimeNonceB64, _ := runtime["nonce"].(string)
	runtimeNonce, err := base64.StdEncoding.DecodeString(runtimeNonceB64)
	if err != nil || !bytes.Equal(runtimeNonce, nonce) {
		return false
	}

	runtimeKeyB64, _ := runtime["publicKey"].(string)
	runtimeKey, err := base64.StdEncoding.DecodeString(runtimeKeyB64)
	if err != nil || !bytes.Equal(runtimeKey, spki) {
		return false
	}

	return true
}

func checkPlatformClaims(claims jwt.MapClaims) bool {
	attType, _ := claims[claimAttestationType].(string)
	if attType != wantAttestationType {
		return false
	}

	compliance, _ := claims[claimCompliance].(string)
	if compliance != wantCompliance {
		return false
	}

	return !isDebuggable(claims[claimIsDebuggable])
}

// isDebuggable treats a missing or non-boolean claim as debuggable, since
// every other missing-claim case in this validator fails closed too.
func isDebuggable(v interface{}) bool {
	b, ok := v.(bool)
	if !ok {
		return true
	}
	return b
}

func checkPolicyBinding(claims jwt.MapClaims, allow *trust.AllowList) bool {
	hostData, _ := claims[claimHostData].(string)
	if hostData == "" {
		return false
	}

	for _, policy := range allow.Entries() {
		sum := sha256.Sum256([]byte(policy))
		if strings.EqualFold(hex.EncodeToString(sum[:]), hostData) {
			return true
		}
	}
	return false
}
