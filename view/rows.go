// Package view turns auction state into display rows and terminal tables.
package view

import (
	"sort"
	"strconv"

	"github.com/shopspring/decimal"

	"github.com/cloudx-io/auctioneer/core"
)

// BudgetRow is one line of the budget overview.
type BudgetRow struct {
	Team    string
	Budget  decimal.Decimal
	Spent   decimal.Decimal
	Players int
}

// BudgetRows lists every team in setup order.
func BudgetRows(state *core.AuctionState) []BudgetRow {
	teams := state.Teams()
	rows := make([]BudgetRow, 0, len(teams))
	for _, t := range teams {
		rows = append(rows, BudgetRow{
			Team:    t.Name,
			Budget:  t.Budget,
			Spent:   t.Spent(),
			Players: len(t.Roster),
		})
	}
	return rows
}

// RosterRow is one acquired player.
type RosterRow struct {
	PlayerID string // "-" for retained players without a pool id
	Name     string
	Price    decimal.Decimal
	RTM      bool
}

// RosterRows lists a team's roster in acquisition order.
func RosterRows(team core.Team) []RosterRow {
	rows := make([]RosterRow, 0, len(team.Roster))
	for _, p := range team.Roster {
		id := "-"
		if p.PlayerID != nil {
			id = strconv.Itoa(int(*p.PlayerID))
		}
		rows = append(rows, RosterRow{PlayerID: id, Name: p.Name, Price: p.Price, RTM: p.RightToMatch})
	}
	return rows
}

// PlayerRow is one pool player with its auction status.
type PlayerRow struct {
	ID         core.PlayerID
	Name       string
	Reserve    decimal.Decimal
	Status     core.PlayerStatus
	Owner      string // team name when sold
	Current    bool
	Attributes map[string]string
}

// StatusLabel renders the status the way the player list shows it.
func (r PlayerRow) StatusLabel() string {
	if r.Status == core.StatusSold {
		return "sold to " + r.Owner
	}
	return r.Status.String()
}

// PlayerRows annotates players with their state in the auction.
func PlayerRows(state *core.AuctionState, players []core.PlayerRecord) []PlayerRow {
	current := state.CurrentID()
	teams := state.TeamNames()

	rows := make([]PlayerRow, 0, len(players))
	for _, p := range players {
		row := PlayerRow{
			ID:         p.ID,
			Name:       p.FullName(),
			Reserve:    p.ReservePrice,
			Status:     state.Status(p.ID),
			Current:    current != nil && *current == p.ID,
			Attributes: p.Attributes,
		}
		if owner, ok := state.Owner(p.ID); ok {
			row.Owner = teams[owner]
		}
		rows = append(rows, row)
	}
	return rows
}

// Card describes the player on the floor.
type Card struct {
	Player     core.PlayerRecord
	Status     core.PlayerStatus
	Unsold     int // size of the unsold pool
	Remaining  int // pool players not yet on a roster
	Attributes []Attribute
}

// Attribute is one descriptive field of a player, in column order.
type Attribute struct {
	Name  string
	Value string
}

// CurrentCard returns the card for the player on the floor, if any.
// columns orders the attributes shown; nil shows all, sorted by name.
func CurrentCard(state *core.AuctionState, columns []string) (Card, bool) {
	player, ok := state.Current()
	if !ok {
		return Card{}, false
	}

	remaining := 0
	for _, p := range state.Pool() {
		if state.Status(p.ID) != core.StatusSold {
			remaining++
		}
	}

	if columns == nil {
		columns = AttributeColumns([]core.PlayerRecord{player})
	}
	attrs := make([]Attribute, 0, len(columns))
	for _, c := range columns {
		if v, ok := player.Attributes[c]; ok {
			attrs = append(attrs, Attribute{Name: c, Value: v})
		}
	}

	return Card{
		Player:     player,
		Status:     state.Status(player.ID),
		Unsold:     len(state.Unsold()),
		Remaining:  remaining,
		Attributes: attrs,
	}, true
}

// AttributeColumns returns every attribute name used by the players, sorted.
func AttributeColumns(players []core.PlayerRecord) []string {
	seen := make(map[string]struct{})
	var columns []string
	for _, p := range players {
		for name := range p.Attributes {
			if _, ok := seen[name]; !ok {
				seen[name] = struct{}{}
				columns = append(columns, name)
			}
		}
	}
	sort.Strings(columns)
	return columns
}
