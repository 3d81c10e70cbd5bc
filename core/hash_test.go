package core

import (
	"testing"

	"github.com/peterldowns/testy/assert"
)

func TestComputeStateHash(t *testing.T) {
	state := newTestState(t, "100", 1, 2, 3)
	hash := ComputeStateHash(state)

	// Verify hash is 64 characters (SHA256 hex encoding)
	if len(hash) != 64 {
		t.Errorf("ComputeStateHash() hash length = %d, want 64", len(hash))
	}

	// Verify hash contains only hex characters
	for _, c := range hash {
		if !((c >= '0' && c <= '9') || (c >= 'a' && c <= 'f')) {
			t.Errorf("ComputeStateHash() contains non-hex character: %c", c)
		}
	}

	// Same state should produce same hash (deterministic)
	if hash != ComputeStateHash(state) {
		t.Errorf("ComputeStateHash() not deterministic")
	}
}

func TestComputeStateHash_TracksLedgerChanges(t *testing.T) {
	base := newTestState(t, "100", 1, 2, 3)
	sold := mustSell(t, base, 1, 0, "10")
	soldElsewhere := mustSell(t, base, 1, 1, "10")
	soldDearer := mustSell(t, base, 1, 0, "10.01")
	unsold := mustUnsold(t, base, 2)
	moved := at(t, base, 3)

	hashes := map[string]string{
		"base":           ComputeStateHash(base),
		"sold":           ComputeStateHash(sold),
		"sold elsewhere": ComputeStateHash(soldElsewhere),
		"sold dearer":    ComputeStateHash(soldDearer),
		"unsold":         ComputeStateHash(unsold),
		"moved":          ComputeStateHash(moved),
	}
	seen := map[string]string{}
	for name, h := range hashes {
		if other, dup := seen[h]; dup {
			t.Errorf("%s and %s produced the same hash", name, other)
		}
		seen[h] = name
	}
}

func TestComputeStateHash_SameLedgerDifferentHistory(t *testing.T) {
	// selling and refunding a player leaves the ledger where it started
	base := newTestState(t, "100", 1, 2)
	sold := mustSell(t, base, 2, 1, "30")
	refunded, err := RemovePlayer(sold, 1, 2)
	assert.NoError(t, err)

	if ComputeStateHash(base) != ComputeStateHash(refunded) {
		t.Errorf("refund should restore the original hash")
	}
}

func TestComputeStateHash_IgnoresPool(t *testing.T) {
	a := newTestState(t, "100", 1, 2)
	b := newTestState(t, "100", 1, 2, 3, 4)
	if ComputeStateHash(a) != ComputeStateHash(b) {
		t.Errorf("pool contents should not affect the ledger hash")
	}
}

func TestComputeStateHash_NamesCannotForgeFieldBoundaries(t *testing.T) {
	build := func(players []PlayerRecord, sales ...Sale) *AuctionState {
		t.Helper()
		state, err := InitializeTeams([]string{"A", "B"}, money("100"))
		assert.NoError(t, err)
		state, err = WithPool(state, players)
		assert.NoError(t, err)
		for _, sale := range sales {
			state, err = SellPlayer(state, sale)
			assert.NoError(t, err)
		}
		return state
	}

	tests := []struct {
		name  string
		left  *AuctionState
		right *AuctionState
	}{
		{
			// one entry whose name spells out a second entry, against two real entries
			name: "roster entry separators",
			left: build([]PlayerRecord{
				{ID: 1, FirstName: "Ann", Surname: "Lee:0.00:false;2:Bob Ray"},
				{ID: 2, FirstName: "Bob", Surname: "Ray"},
			}, Sale{PlayerID: 1, Team: 0, Price: money("3")}),
			right: build([]PlayerRecord{
				{ID: 1, FirstName: "Ann", Surname: "Lee"},
				{ID: 2, FirstName: "Bob", Surname: "Ray"},
			}, Sale{PlayerID: 1, Team: 0, Price: money("0")}, Sale{PlayerID: 2, Team: 0, Price: money("3")}),
		},
		{
			name: "length-like names",
			left: build([]PlayerRecord{
				{ID: 1, FirstName: "4:Ann"},
			}, Sale{PlayerID: 1, Team: 0, Price: money("1")}),
			right: build([]PlayerRecord{
				{ID: 1, FirstName: "Ann"},
			}, Sale{PlayerID: 1, Team: 0, Price: money("1")}),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if ComputeStateHash(tt.left) == ComputeStateHash(tt.right) {
				t.Errorf("ledgers with different rosters produced the same hash")
			}
		})
	}
}
