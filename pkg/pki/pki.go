// Package pki holds small X.509/PEM parsing helpers shared by the aTLS
// client and its tests: reading certificate chains and private keys off
// disk, and extracting the DER-encoded SubjectPublicKeyInfo the verify
// callback hands to every Validator.
package pki

import (
	"crypto/x509"
	"encoding/base64"
	"encoding/pem"
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

// ParseX509CertificateFromFile reads a PEM file containing one or more
// certificates and returns the leaf (the first block) along with the full
// chain in file order.
func ParseX509CertificateFromFile(path string) (*x509.Certificate, []*x509.Certificate, error) {
	pemData, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		return nil, nil, err
	}

	chain, err := parsePEMChain(pemData)
	if err != nil {
		return nil, nil, err
	}
	if len(chain) == 0 {
		return nil, nil, errors.New("certificate decoding error")
	}

	return chain[0], chain, nil
}

func parsePEMChain(pemData []byte) ([]*x509.Certificate, error) {
	var chain []*x509.Certificate

	rest := pemData
	for {
		var block *pem.Block
		block, rest = pem.Decode(rest)
		if block == nil {
			break
		}

		if block.Type != "CERTIFICATE" {
			return nil, fmt.Errorf("certificate type error: got %q", block.Type)
		}

		cert, err := x509.ParseCertificate(block.Bytes)
		if err != nil {
			return nil, err
		}

		chain = append(chain, cert)
	}

	return chain, nil
}

// ParseKeyFromFile reads a PEM-encoded private key in PKCS#8, SEC1 (EC), or
// PKCS#1 (RSA) form.
func ParseKeyFromFile(path string) (any, error) {
	pemData, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		return nil, err
	}
	block, rest := pem.Decode(pemData)
	if block == nil || len(rest) > 0 {
		return nil, errors.New("failed to decode PEM block from file")
	}

	switch block.Type {
	case "PRIVATE KEY":
		key, err := x509.ParsePKCS8PrivateKey(block.Bytes)
		if err != nil {
			return nil, fmt.Errorf("failed to parse PKCS#8 private key: %w", err)
		}
		return key, nil

	case "EC PRIVATE KEY":
		key, err := x509.ParseECPrivateKey(block.Bytes)
		if err != nil {
			return nil, fmt.Errorf("failed to parse EC private key: %w", err)
		}
		return key, nil

	case "RSA PRIVATE KEY":
		key, err := x509.ParsePKCS1PrivateKey(block.Bytes)
		if err != nil {
			return nil, fmt.Errorf("failed to parse RSA private key: %w", err)
		}
		return key, nil

	default:
		return nil, fmt.Errorf("unsupported key type: %s", block.Type)
	}
}

// Base64EncodeCertificate returns the unpadded standard base64 encoding of
// cert's raw DER bytes.
func Base64EncodeCertificate(cert *x509.Certificate) string {
	return base64.RawStdEncoding.EncodeToString(cert.Raw)
}

// SubjectPublicKeyInfoDER returns the DER encoding of cert's
// SubjectPublicKeyInfo structure — the exact byte string the aTLS verify
// callback passes to every Validator as spki, never the bare public key.
func SubjectPublicKeyInfoDER(cert *x509.Certificate) ([]byte, error) {
	if cert == nil {
		return nil, errors.New("nil certificate")
	}

	// cert.RawSubjectPublicKeyInfo is exactly the SPKI structure as it
	// appeared in the certificate's DER encoding.
	if len(cert.RawSubjectPublicKeyInfo) == 0 {
		return nil, errors.New("certificate has no subject public key info")
	}

	spki := make([]byte, len(cert.RawSubjectPublicKeyInfo))
	copy(spki, cert.RawSubjectPublicKeyInfo)
	return spki, nil
}
