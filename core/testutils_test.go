package core

import (
	"fmt"
	"testing"

	"github.com/peterldowns/testy/assert"
	"github.com/shopspring/decimal"
)

func money(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func pid(id int) *PlayerID {
	p := PlayerID(id)
	return &p
}

// makePool builds pool players with the given ids and zero reserve.
func makePool(ids ...int) []PlayerRecord {
	players := make([]PlayerRecord, len(ids))
	for i, id := range ids {
		players[i] = PlayerRecord{
			ID:           PlayerID(id),
			FirstName:    "Player",
			Surname:      fmt.Sprintf("%d", id),
			ReservePrice: decimal.Zero,
		}
	}
	return players
}

// newTestState sets up teams "A" and "B" with the given budget and pool.
func newTestState(t *testing.T, budget string, ids ...int) *AuctionState {
	t.Helper()
	state, err := InitializeTeams([]string{"A", "B"}, money(budget))
	assert.NoError(t, err)
	state, err = WithPool(state, makePool(ids...))
	assert.NoError(t, err)
	return state
}

func mustSell(t *testing.T, state *AuctionState, id int, team TeamID, price string) *AuctionState {
	t.Helper()
	next, err := SellPlayer(state, Sale{PlayerID: PlayerID(id), Team: team, Price: money(price)})
	assert.NoError(t, err)
	return next
}

func mustUnsold(t *testing.T, state *AuctionState, id int) *AuctionState {
	t.Helper()
	next, err := MarkUnsold(state, PlayerID(id))
	assert.NoError(t, err)
	return next
}

func at(t *testing.T, state *AuctionState, id int) *AuctionState {
	t.Helper()
	next, err := SelectNextPlayer(state, pid(id))
	assert.NoError(t, err)
	return next
}

// assertConservation checks initial budget - spent == budget for every team.
func assertConservation(t *testing.T, state *AuctionState) {
	t.Helper()
	for _, team := range state.Teams() {
		expected := state.TotalBudget().Sub(team.Spent())
		assert.True(t, expected.Equal(team.Budget))
	}
}
