package snapshot

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/peterldowns/testy/assert"
	"github.com/peterldowns/testy/check"
	"github.com/shopspring/decimal"

	"github.com/cloudx-io/auctioneer/core"
)

func buildState(t *testing.T) (*core.AuctionState, core.Shortlists) {
	t.Helper()
	state, err := core.InitializeTeams([]string{"Strikers", "Titans"}, decimal.RequireFromString("100"))
	assert.NoError(t, err)

	pool := make([]core.PlayerRecord, 0, 4)
	for id := 1; id <= 4; id++ {
		pool = append(pool, core.PlayerRecord{ID: core.PlayerID(id), FirstName: "Player", Surname: fmt.Sprint(id)})
	}
	state, err = core.WithPool(state, pool)
	assert.NoError(t, err)

	state, err = core.RetainPlayer(state, core.Retention{Team: 0, Name: "Local Hero", Price: decimal.RequireFromString("12.25")})
	assert.NoError(t, err)
	state, err = core.SellPlayer(state, core.Sale{PlayerID: 1, Team: 1, Price: decimal.RequireFromString("20.5"), RightToMatch: true})
	assert.NoError(t, err)
	state, err = core.MarkUnsold(state, 2)
	assert.NoError(t, err)
	three := core.PlayerID(3)
	state, err = core.SelectNextPlayer(state, &three)
	assert.NoError(t, err)

	lists := core.Shortlists{}
	assert.NoError(t, lists.Add("First Playing XI", "Player 1"))
	return state, lists
}

func TestRoundTrip(t *testing.T) {
	state, lists := buildState(t)
	savedAt := time.Date(2025, 3, 14, 18, 30, 0, 0, time.UTC)

	for _, format := range []Format{FormatJSON, FormatCBOR} {
		t.Run(string(format), func(t *testing.T) {
			data, err := Encode(FromState(state, lists, "session-1", savedAt), format)
			assert.NoError(t, err)
			check.Equal(t, format, DetectFormat(data))

			decoded, err := Decode(data)
			assert.NoError(t, err)
			check.Equal(t, "session-1", decoded.SessionID)
			check.Equal(t, CurrentVersion, decoded.Version)
			assert.NotNil(t, decoded.SavedAt)
			check.True(t, savedAt.Equal(*decoded.SavedAt))

			restored, restoredLists, err := decoded.ToState()
			assert.NoError(t, err)

			check.Equal(t, core.ComputeStateHash(state), core.ComputeStateHash(restored))
			check.Equal(t, state.TeamNames(), restored.TeamNames())
			check.Equal(t, state.Unsold(), restored.Unsold())
			for i, team := range state.Teams() {
				got := restored.Teams()[i]
				check.True(t, team.Budget.Equal(got.Budget))
				check.Equal(t, len(team.Roster), len(got.Roster))
			}
			check.Equal(t, []string{"Player 1"}, restoredLists.Names("First Playing XI"))
		})
	}
}

func TestFromState_WireShape(t *testing.T) {
	state, _ := buildState(t)
	snap := FromState(state, nil, "", time.Time{})

	check.Equal(t, []string{"Strikers", "Titans"}, snap.TeamList)
	check.Equal(t, 87.75, snap.Budgets["Strikers"])
	check.Equal(t, 79.5, snap.Budgets["Titans"])
	check.Equal(t, 100.0, snap.TotalBudget)
	check.Equal(t, []int{2}, snap.UnsoldPlayers)
	check.Nil(t, snap.SavedAt)
	check.Nil(t, snap.Shortlists)

	retained := snap.PlayerData["Strikers"][0]
	check.Nil(t, retained.PlayerID)
	check.Equal(t, "Local Hero", retained.Name)
	check.Equal(t, 12.25, retained.Price)

	sold := snap.PlayerData["Titans"][0]
	assert.NotNil(t, sold.PlayerID)
	check.Equal(t, 1, *sold.PlayerID)
	check.True(t, sold.RTM)
}

func TestDecode_SpecFormat(t *testing.T) {
	data := []byte(`{
		"team_list": ["A", "B"],
		"budgets": {"A": 75.5, "B": 100},
		"player_data": {
			"A": [{"Player ID": 7, "Name": "Some Player", "Price": 24.5, "RTM": false}],
			"B": []
		},
		"total_budget": 100,
		"unsold_players": [3, 1]
	}`)

	snap, err := Decode(data)
	assert.NoError(t, err)
	state, lists, err := snap.ToState()
	assert.NoError(t, err)

	check.Equal(t, []core.PlayerID{1, 3}, state.Unsold())
	check.Nil(t, state.CurrentID())
	check.Equal(t, 0, len(lists))
	owner, sold := state.Owner(7)
	check.True(t, sold)
	check.Equal(t, core.TeamID(0), owner)
}

func TestDecode_LegacyRetentionFormat(t *testing.T) {
	// older saves: no unsold list, retention entries as {"name", "value"}
	data := []byte(`{
		"team_list": ["A", "B"],
		"budgets": {"A": 88, "B": 100},
		"cumulative_deductions": {"A": 12, "B": 0},
		"player_data": {"A": [{"name": "Local Hero", "value": 12}], "B": []}
	}`)

	snap, err := Decode(data)
	assert.NoError(t, err)
	state, _, err := snap.ToState()
	assert.NoError(t, err)

	a := state.Teams()[0]
	assert.Equal(t, 1, len(a.Roster))
	check.Equal(t, "Local Hero", a.Roster[0].Name)
	check.True(t, decimal.RequireFromString("12").Equal(a.Roster[0].Price))
	check.Nil(t, a.Roster[0].PlayerID)
	check.True(t, decimal.RequireFromString("88").Equal(a.Budget))
	check.Equal(t, 0, len(state.Unsold()))
}

func TestDecode_Malformed(t *testing.T) {
	tests := []struct {
		name string
		data string
	}{
		{"empty", ``},
		{"not an object", `[1, 2, 3]`},
		{"null", `null`},
		{"broken JSON", `{"team_list": [`},
		{"wrong field type", `{"team_list": "A"}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Decode([]byte(tt.data))
			check.True(t, errors.Is(err, ErrMalformedSnapshot))
		})
	}
}

func TestToState_Malformed(t *testing.T) {
	one := 1
	tests := []struct {
		name string
		snap Snapshot
	}{
		{"no teams", Snapshot{}},
		{"duplicate teams", Snapshot{TeamList: []string{"A", "A"}}},
		{"budget for unknown team", Snapshot{TeamList: []string{"A"}, Budgets: map[string]float64{"Z": 1}}},
		{"roster for unknown team", Snapshot{TeamList: []string{"A"}, PlayerData: map[string][]RosterEntry{"Z": {}}}},
		{"nameless entry", Snapshot{TeamList: []string{"A"}, PlayerData: map[string][]RosterEntry{"A": {{Price: 1}}}}},
		{"negative budget", Snapshot{TeamList: []string{"A"}, Budgets: map[string]float64{"A": -3}}},
		{"bad unsold id", Snapshot{TeamList: []string{"A"}, UnsoldPlayers: []int{0}}},
		{"double sale", Snapshot{
			TeamList:    []string{"A", "B"},
			TotalBudget: 10,
			PlayerData: map[string][]RosterEntry{
				"A": {{PlayerID: &one, Name: "X", Price: 1}},
				"B": {{PlayerID: &one, Name: "X", Price: 1}},
			},
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			state, _, err := tt.snap.ToState()
			check.Nil(t, state)
			check.True(t, errors.Is(err, ErrMalformedSnapshot))
		})
	}
}

func TestParseFormat(t *testing.T) {
	f, err := ParseFormat("cbor")
	check.NoError(t, err)
	check.Equal(t, FormatCBOR, f)

	_, err = ParseFormat("xml")
	var unknown *UnknownFormatError
	check.True(t, errors.As(err, &unknown))

	_, err = Encode(&Snapshot{}, Format("xml"))
	check.True(t, errors.As(err, &unknown))
}
