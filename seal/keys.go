package seal

import (
	"crypto/ecdsa"
	"crypto/elliptic"
	"crypto/rand"
	"crypto/x509"
	"encoding/pem"
	"fmt"
	"os"

	"github.com/google/uuid"
)

// Key is the operator's snapshot signing key (ECDSA P-256, COSE ES256).
type Key struct {
	privateKey *ecdsa.PrivateKey // Keep private - sensitive!
	PublicKey  *ecdsa.PublicKey
	ID         string
}

// GenerateKey creates a fresh signing key.
func GenerateKey() (*Key, error) {
	privateKey, err := ecdsa.GenerateKey(elliptic.P256(), rand.Reader)
	if err != nil {
		return nil, fmt.Errorf("failed to generate key pair: %w", err)
	}
	return newKey(privateKey)
}

// ParseKeyPEM loads a signing key from an "EC PRIVATE KEY" PEM block.
func ParseKeyPEM(data []byte) (*Key, error) {
	block, _ := pem.Decode(data)
	if block == nil {
		return nil, fmt.Errorf("no PEM block found")
	}
	if block.Type != "EC PRIVATE KEY" {
		return nil, fmt.Errorf("unexpected PEM block type %q", block.Type)
	}
	privateKey, err := x509.ParseECPrivateKey(block.Bytes)
	if err != nil {
		return nil, fmt.Errorf("parse EC private key: %w", err)
	}
	if privateKey.Curve != elliptic.P256() {
		return nil, fmt.Errorf("signing key must use P-256, got %s", privateKey.Curve.Params().Name)
	}
	return newKey(privateKey)
}

// LoadKeyFile reads a signing key from a PEM file.
func LoadKeyFile(path string) (*Key, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read signing key: %w", err)
	}
	return ParseKeyPEM(data)
}

// ParsePublicKeyPEM loads a P-256 public key from a "PUBLIC KEY" PEM block.
func ParsePublicKeyPEM(data []byte) (*ecdsa.PublicKey, error) {
	block, _ := pem.Decode(data)
	if block == nil {
		return nil, fmt.Errorf("no PEM block found")
	}
	if block.Type != "PUBLIC KEY" {
		return nil, fmt.Errorf("unexpected PEM block type %q", block.Type)
	}
	parsed, err := x509.ParsePKIXPublicKey(block.Bytes)
	if err != nil {
		return nil, fmt.Errorf("parse public key: %w", err)
	}
	publicKey, ok := parsed.(*ecdsa.PublicKey)
	if !ok || publicKey.Curve != elliptic.P256() {
		return nil, fmt.Errorf("public key must be ECDSA P-256")
	}
	return publicKey, nil
}

// KeyID returns the identifier sealed envelopes carry for a public key.
func KeyID(publicKey *ecdsa.PublicKey) (string, error) {
	derBytes, err := x509.MarshalPKIXPublicKey(publicKey)
	if err != nil {
		return "", fmt.Errorf("failed to marshal public key: %w", err)
	}
	return uuid.NewSHA1(uuid.NameSpaceOID, derBytes).String(), nil
}

// PrivateKeyPEM returns the private key in PEM format.
func (k *Key) PrivateKeyPEM() ([]byte, error) {
	derBytes, err := x509.MarshalECPrivateKey(k.privateKey)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal private key: %w", err)
	}
	return pem.EncodeToMemory(&pem.Block{Type: "EC PRIVATE KEY", Bytes: derBytes}), nil
}

// PublicKeyPEM returns the public key in PEM format.
func (k *Key) PublicKeyPEM() (string, error) {
	derBytes, err := x509.MarshalPKIXPublicKey(k.PublicKey)
	if err != nil {
		return "", fmt.Errorf("failed to marshal public key: %w", err)
	}
	return string(pem.EncodeToMemory(&pem.Block{Type: "PUBLIC KEY", Bytes: derBytes})), nil
}

// newKey derives the key id from the public key so the same key always has the same id.
func newKey(privateKey *ecdsa.PrivateKey) (*Key, error) {
	id, err := KeyID(&privateKey.PublicKey)
	if err != nil {
		return nil, err
	}
	return &Key{
		privateKey: privateKey,
		PublicKey:  &privateKey.PublicKey,
		ID:         id,
	}, nil
}
