package session

import (
	"time"

	"github.com/cloudx-io/auctioneer/core"
)

// Receipt records one committed operation. PriorHash and StateHash chain
// consecutive receipts, so a printed log of receipts shows whether any
// change happened outside the tool.
type Receipt struct {
	Operation string    `json:"operation"`
	SessionID string    `json:"session_id"`
	PriorHash string    `json:"prior_hash,omitempty"`
	StateHash string    `json:"state_hash"`
	Timestamp time.Time `json:"timestamp"`

	// Complete is set by Next when no player remains.
	Complete bool `json:"complete,omitempty"`
}

func newReceipt(op, sessionID, priorHash string, state *core.AuctionState, at time.Time) *Receipt {
	return &Receipt{
		Operation: op,
		SessionID: sessionID,
		PriorHash: priorHash,
		StateHash: core.ComputeStateHash(state),
		Timestamp: at.UTC(),
	}
}
