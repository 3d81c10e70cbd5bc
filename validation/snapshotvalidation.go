// Package validation audits sealed session snapshots with the operator's
// public key, for participants who want to check the ledger they were shown.
package validation

import (
	"fmt"

	"github.com/cloudx-io/auctioneer/core"
	"github.com/cloudx-io/auctioneer/seal"
	"github.com/cloudx-io/auctioneer/snapshot"
)

// ValidateSnapshot verifies a sealed snapshot and checks:
// - The envelope was signed by the given public key
// - The key id in the envelope matches that key
// - The payload is a consistent ledger
// - The ledger hashes to the expected state hash, when one is given
//
// Returns:
//   - SnapshotValidationResult with detailed results (call result.IsValid() to check overall status)
//   - error if validation cannot be performed (e.g., unparsable key, input not sealed)
func ValidateSnapshot(input *SnapshotValidationInput) (*SnapshotValidationResult, error) {
	publicKey, err := seal.ParsePublicKeyPEM([]byte(input.PublicKeyPEM))
	if err != nil {
		return nil, fmt.Errorf("parse public key: %w", err)
	}
	expectedKeyID, err := seal.KeyID(publicKey)
	if err != nil {
		return nil, err
	}

	envelope, err := seal.Inspect(input.Sealed)
	if err != nil {
		return nil, fmt.Errorf("read sealed snapshot: %w", err)
	}

	result := &SnapshotValidationResult{
		ValidationDetails: []string{},
	}

	if envelope.KeyID == expectedKeyID {
		result.KeyIDMatch = true
		result.ValidationDetails = append(result.ValidationDetails, fmt.Sprintf("Key id matches: %s", expectedKeyID))
	} else {
		result.ValidationDetails = append(result.ValidationDetails,
			fmt.Sprintf("Key id mismatch: sealed by %q, expected %q", envelope.KeyID, expectedKeyID))
	}

	payload, err := seal.Verify(publicKey, input.Sealed)
	if err != nil {
		result.ValidationDetails = append(result.ValidationDetails, fmt.Sprintf("COSE signature verification failed: %v", err))
		// An unverified payload is still parsed below so the details show what it claims.
		payload = envelope.Payload
	} else {
		result.SignatureValid = true
		result.ValidationDetails = append(result.ValidationDetails, "COSE signature verified")
	}

	result.LedgerValid = validateLedger(payload, result)
	result.StateHashMatch = validateStateHash(input.ExpectedStateHash, result)

	return result, nil
}

func validateLedger(payload []byte, result *SnapshotValidationResult) bool {
	snap, err := snapshot.Decode(payload)
	if err != nil {
		result.ValidationDetails = append(result.ValidationDetails, fmt.Sprintf("Snapshot payload invalid: %v", err))
		return false
	}
	state, _, err := snap.ToState()
	if err != nil {
		result.ValidationDetails = append(result.ValidationDetails, fmt.Sprintf("Ledger inconsistent: %v", err))
		return false
	}

	result.SessionID = snap.SessionID
	result.StateHash = core.ComputeStateHash(state)
	result.ValidationDetails = append(result.ValidationDetails,
		fmt.Sprintf("Ledger consistent: %d teams, %d unsold players", len(state.TeamNames()), len(state.Unsold())))
	return true
}

func validateStateHash(expected string, result *SnapshotValidationResult) bool {
	if expected == "" {
		return true
	}
	if result.StateHash == "" {
		result.ValidationDetails = append(result.ValidationDetails, "State hash unavailable: ledger could not be read")
		return false
	}
	if result.StateHash != expected {
		result.ValidationDetails = append(result.ValidationDetails,
			fmt.Sprintf("State hash mismatch: expected=%s, computed=%s", expected, result.StateHash))
		return false
	}
	result.ValidationDetails = append(result.ValidationDetails, "State hash matches receipt")
	return true
}
