// Package seal wraps snapshot bytes in a signed COSE_Sign1 envelope so a saved
// auction cannot be edited by hand without the change being detected on load.
package seal

import (
	"crypto/ecdsa"
	"crypto/rand"
	"errors"
	"fmt"

	"github.com/fxamacker/cbor/v2"
	"github.com/veraison/go-cose"
)

// cborTagSign1 is the CBOR tag of a tagged COSE_Sign1 message.
const cborTagSign1 = 18

var (
	// ErrNotSealed is returned when bytes are not a COSE_Sign1 envelope.
	ErrNotSealed = errors.New("data is not a sealed envelope")

	// ErrKeyMismatch is returned when an envelope names a different signing key.
	ErrKeyMismatch = errors.New("envelope was sealed with a different key")

	// ErrTampered is returned when the envelope signature does not verify.
	ErrTampered = errors.New("envelope signature verification failed")
)

// Seal signs the payload and returns a tagged COSE_Sign1 message.
// The key id travels in the unprotected header, the content type in the protected one.
func Seal(key *Key, payload []byte, contentType string) ([]byte, error) {
	signer, err := cose.NewSigner(cose.AlgorithmES256, key.privateKey)
	if err != nil {
		return nil, fmt.Errorf("create signer: %w", err)
	}

	headers := cose.Headers{
		Protected: cose.ProtectedHeader{
			cose.HeaderLabelAlgorithm:   cose.AlgorithmES256,
			cose.HeaderLabelContentType: contentType,
		},
		Unprotected: cose.UnprotectedHeader{
			cose.HeaderLabelKeyID: []byte(key.ID),
		},
	}

	sealed, err := cose.Sign1(rand.Reader, signer, headers, payload, nil)
	if err != nil {
		return nil, fmt.Errorf("sign envelope: %w", err)
	}
	return sealed, nil
}

// Open verifies a sealed envelope against the key and returns its payload.
func Open(key *Key, sealed []byte) ([]byte, error) {
	env, err := Inspect(sealed)
	if err != nil {
		return nil, err
	}
	if env.KeyID != "" && env.KeyID != key.ID {
		return nil, fmt.Errorf("%w: sealed by %s, have %s", ErrKeyMismatch, env.KeyID, key.ID)
	}
	return Verify(key.PublicKey, sealed)
}

// Verify checks the envelope signature with a public key alone, so a snapshot
// can be audited by someone who does not hold the signing key.
func Verify(publicKey *ecdsa.PublicKey, sealed []byte) ([]byte, error) {
	if !IsSealed(sealed) {
		return nil, ErrNotSealed
	}

	var msg cose.Sign1Message
	if err := msg.UnmarshalCBOR(sealed); err != nil {
		return nil, fmt.Errorf("parse COSE_Sign1: %w", err)
	}

	verifier, err := cose.NewVerifier(cose.AlgorithmES256, publicKey)
	if err != nil {
		return nil, fmt.Errorf("create verifier: %w", err)
	}
	if err := msg.Verify(nil, verifier); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrTampered, err)
	}
	return msg.Payload, nil
}

// Envelope is the unverified content of a sealed message.
type Envelope struct {
	KeyID       string
	ContentType string
	Payload     []byte
}

// Inspect reads the headers and payload of a sealed envelope without verifying it.
func Inspect(sealed []byte) (*Envelope, error) {
	if !IsSealed(sealed) {
		return nil, ErrNotSealed
	}

	var msg cose.Sign1Message
	if err := msg.UnmarshalCBOR(sealed); err != nil {
		return nil, fmt.Errorf("parse COSE_Sign1: %w", err)
	}

	env := &Envelope{Payload: msg.Payload}
	if kid, ok := msg.Headers.Unprotected[cose.HeaderLabelKeyID].([]byte); ok {
		env.KeyID = string(kid)
	}
	if ct, ok := msg.Headers.Protected[cose.HeaderLabelContentType].(string); ok {
		env.ContentType = ct
	}
	return env, nil
}

// IsSealed reports whether the bytes start with a tagged COSE_Sign1 message.
func IsSealed(data []byte) bool {
	var tag cbor.RawTag
	if err := cbor.Unmarshal(data, &tag); err != nil {
		return false
	}
	return tag.Number == cborTagSign1
}

// ExtractPayload returns the payload of a sealed envelope without verifying it.
// COSE_Sign1 structure: [protected, unprotected, payload, signature]
func ExtractPayload(sealed []byte) ([]byte, error) {
	var tag cbor.RawTag
	if err := cbor.Unmarshal(sealed, &tag); err != nil || tag.Number != cborTagSign1 {
		return nil, ErrNotSealed
	}

	var coseArray []any
	if err := cbor.Unmarshal(tag.Content, &coseArray); err != nil {
		return nil, fmt.Errorf("parse COSE array: %w", err)
	}
	if len(coseArray) != 4 {
		return nil, fmt.Errorf("invalid COSE_Sign1 structure: expected 4 elements, got %d", len(coseArray))
	}

	payload, ok := coseArray[2].([]byte)
	if !ok {
		return nil, fmt.Errorf("invalid payload in COSE structure")
	}
	return payload, nil
}
