package validation

// SnapshotValidationInput contains everything needed to audit a sealed snapshot
type SnapshotValidationInput struct {
	Sealed            []byte // Sealed snapshot bytes as stored or exported
	PublicKeyPEM      string // Operator's public key ("PUBLIC KEY" PEM)
	ExpectedStateHash string // Optional state hash from an operation receipt
}

// SnapshotValidationResult contains the outcome of each snapshot check
type SnapshotValidationResult struct {
	SignatureValid    bool
	KeyIDMatch        bool
	LedgerValid       bool
	StateHashMatch    bool
	StateHash         string
	SessionID         string
	ValidationDetails []string
}

// IsValid returns true if all snapshot validation checks passed
func (r *SnapshotValidationResult) IsValid() bool {
	return r.SignatureValid && r.KeyIDMatch && r.LedgerValid && r.StateHashMatch
}
