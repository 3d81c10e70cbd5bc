package snapshot

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/cloudx-io/auctioneer/core"
)

// FromState builds a snapshot of the ledger and the operator's shortlists.
func FromState(state *core.AuctionState, shortlists core.Shortlists, sessionID string, savedAt time.Time) *Snapshot {
	ledger := state.Ledger()

	snap := &Snapshot{
		TeamList:      ledger.TeamNames,
		Budgets:       make(map[string]float64, len(ledger.TeamNames)),
		PlayerData:    make(map[string][]RosterEntry, len(ledger.TeamNames)),
		TotalBudget:   core.MoneyToFloat(ledger.TotalBudget),
		UnsoldPlayers: make([]int, 0, len(ledger.Unsold)),
		Version:       CurrentVersion,
		SessionID:     sessionID,
	}
	if !savedAt.IsZero() {
		t := savedAt.UTC()
		snap.SavedAt = &t
	}

	for _, name := range ledger.TeamNames {
		snap.Budgets[name] = core.MoneyToFloat(ledger.Budgets[name])

		entries := make([]RosterEntry, 0, len(ledger.Rosters[name]))
		for _, p := range ledger.Rosters[name] {
			entries = append(entries, RosterEntry{
				PlayerID: playerIDToInt(p.PlayerID),
				Name:     p.Name,
				Price:    core.MoneyToFloat(p.Price),
				RTM:      p.RightToMatch,
			})
		}
		snap.PlayerData[name] = entries
	}

	for _, id := range ledger.Unsold {
		snap.UnsoldPlayers = append(snap.UnsoldPlayers, int(id))
	}
	snap.CurrentPlayer = playerIDToInt(ledger.Current)

	if len(shortlists) > 0 {
		snap.Shortlists = make(map[string][]string, len(shortlists))
		for _, list := range shortlists.Lists() {
			snap.Shortlists[list] = shortlists.Names(list)
		}
	}
	return snap
}

// ToState validates the snapshot and rebuilds the ledger and shortlists from it.
// Every failure wraps ErrMalformedSnapshot.
func (s *Snapshot) ToState() (*core.AuctionState, core.Shortlists, error) {
	if len(s.TeamList) == 0 {
		return nil, nil, malformed("team_list is missing or empty")
	}

	ledger := core.Ledger{
		TeamNames:   s.TeamList,
		Budgets:     make(map[string]decimal.Decimal, len(s.Budgets)),
		Rosters:     make(map[string][]core.AcquiredPlayer, len(s.PlayerData)),
		TotalBudget: core.MoneyFromFloat(s.TotalBudget),
		Unsold:      make([]core.PlayerID, 0, len(s.UnsoldPlayers)),
	}

	for name, budget := range s.Budgets {
		ledger.Budgets[name] = core.MoneyFromFloat(budget)
	}

	for name, entries := range s.PlayerData {
		roster := make([]core.AcquiredPlayer, 0, len(entries))
		for i, e := range entries {
			if e.Name == "" {
				return nil, nil, malformed("%s roster entry %d has no name", name, i+1)
			}
			roster = append(roster, core.AcquiredPlayer{
				PlayerID:     intToPlayerID(e.PlayerID),
				Name:         e.Name,
				Price:        core.MoneyFromFloat(e.Price),
				RightToMatch: e.RTM,
			})
		}
		ledger.Rosters[name] = roster
	}

	for _, id := range s.UnsoldPlayers {
		if id < 1 {
			return nil, nil, malformed("unsold player id %d is not valid", id)
		}
		ledger.Unsold = append(ledger.Unsold, core.PlayerID(id))
	}
	ledger.Current = intToPlayerID(s.CurrentPlayer)

	state, err := core.Restore(ledger)
	if err != nil {
		return nil, nil, malformed("%v", err)
	}

	shortlists := core.Shortlists{}
	for list, names := range s.Shortlists {
		shortlists[list] = append([]string{}, names...)
	}
	return state, shortlists, nil
}

func playerIDToInt(id *core.PlayerID) *int {
	if id == nil {
		return nil
	}
	v := int(*id)
	return &v
}

func intToPlayerID(id *int) *core.PlayerID {
	if id == nil {
		return nil
	}
	v := core.PlayerID(*id)
	return &v
}
