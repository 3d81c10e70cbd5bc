package core

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// Sale describes the outcome of bidding on one pool player.
//
// Team is the single authority on who pays: when a right-to-match override is
// used, the caller passes the matching team as the buyer and the price it pays.
type Sale struct {
	PlayerID     PlayerID
	Team         TeamID
	Price        decimal.Decimal
	RightToMatch bool
}

// Retention describes a pre-auction assignment of a player to a team.
// PlayerID is optional; retained players outside the pool have none.
type Retention struct {
	Team     TeamID
	Name     string
	Price    decimal.Decimal
	PlayerID *PlayerID
}

// minBudget is the smallest starting budget that survives rounding.
var minBudget = decimal.New(1, -monetaryPrecision)

// InitializeTeams creates the state for a new session: every team starts with
// the full budget and an empty roster, nothing is unsold and no player is on
// the floor. The pool is attached separately with WithPool.
func InitializeTeams(names []string, budget decimal.Decimal) (*AuctionState, error) {
	if err := validateTeamNames(names); err != nil {
		return nil, err
	}
	if !budget.IsPositive() {
		return nil, fmt.Errorf("%w: budget must be positive, got %s", ErrValidation, budget)
	}
	rounded := RoundMoney(budget)
	if !rounded.IsPositive() {
		return nil, fmt.Errorf("%w: budget must be at least %s, got %s", ErrValidation, FormatMoney(minBudget), budget)
	}
	budget = rounded

	state := newState(names, budget)
	for i := range state.teams {
		state.teams[i].Budget = budget
	}
	return state, nil
}

// WithPool returns a copy of the state with the given roster pool attached.
// Player ids must be unique and start at 1; reserve prices must not be negative.
func WithPool(state *AuctionState, players []PlayerRecord) (*AuctionState, error) {
	sorted := make([]PlayerRecord, len(players))
	copy(sorted, players)
	sortPlayers(sorted)

	index := make(map[PlayerID]int, len(sorted))
	for i, p := range sorted {
		if p.ID < 1 {
			return nil, fmt.Errorf("%w: player id must be 1 or greater, got %d", ErrValidation, p.ID)
		}
		if _, dup := index[p.ID]; dup {
			return nil, fmt.Errorf("%w: duplicate player id %d in pool", ErrValidation, p.ID)
		}
		if p.ReservePrice.IsNegative() {
			return nil, fmt.Errorf("%w: player %d has negative reserve price", ErrValidation, p.ID)
		}
		index[p.ID] = i
	}

	next := state.clone()
	next.pool = sorted
	next.poolIndex = index
	return next, nil
}

// Restore rebuilds a state from its exported ledger, checking every ledger
// invariant. A team missing from Budgets gets TotalBudget minus its spend.
func Restore(l Ledger) (*AuctionState, error) {
	if err := validateTeamNames(l.TeamNames); err != nil {
		return nil, err
	}
	if l.TotalBudget.IsNegative() {
		return nil, fmt.Errorf("%w: total budget must not be negative", ErrValidation)
	}

	state := newState(l.TeamNames, RoundMoney(l.TotalBudget))
	for name := range l.Budgets {
		if _, ok := state.teamIndex[name]; !ok {
			return nil, fmt.Errorf("%w: budget for unknown team %q", ErrValidation, name)
		}
	}
	for name := range l.Rosters {
		if _, ok := state.teamIndex[name]; !ok {
			return nil, fmt.Errorf("%w: roster for unknown team %q", ErrValidation, name)
		}
	}

	seen := make(map[PlayerID]string)
	for i := range state.teams {
		t := &state.teams[i]
		t.Roster = copyRoster(l.Rosters[t.Name])
		for j, p := range t.Roster {
			if p.Price.IsNegative() {
				return nil, fmt.Errorf("%w: %s roster entry %q has negative price", ErrValidation, t.Name, p.Name)
			}
			t.Roster[j].Price = RoundMoney(p.Price)
			if p.PlayerID == nil {
				continue
			}
			if owner, dup := seen[*p.PlayerID]; dup {
				return nil, fmt.Errorf("%w: player %d is on both %s and %s", ErrAlreadySold, *p.PlayerID, owner, t.Name)
			}
			seen[*p.PlayerID] = t.Name
		}

		budget, ok := l.Budgets[t.Name]
		if !ok {
			budget = state.totalBudget.Sub(t.Spent())
		}
		if budget.IsNegative() {
			return nil, fmt.Errorf("%w: %s has negative budget %s", ErrValidation, t.Name, FormatMoney(budget))
		}
		t.Budget = RoundMoney(budget)
	}

	for _, id := range l.Unsold {
		if owner, sold := seen[id]; sold {
			return nil, fmt.Errorf("%w: player %d is marked unsold but belongs to %s", ErrValidation, id, owner)
		}
		state.unsold[id] = struct{}{}
	}
	if l.Current != nil {
		id := *l.Current
		state.current = &id
	}
	return state, nil
}

// SellPlayer assigns a pool player to the buying team at the given price and
// deducts it from that team's budget. The player leaves the unsold set.
//
// Advancing to the next player is left to the caller via SelectNextPlayer.
func SellPlayer(state *AuctionState, sale Sale) (*AuctionState, error) {
	price := RoundMoney(sale.Price)
	if price.IsNegative() {
		return nil, fmt.Errorf("%w: price must not be negative", ErrValidation)
	}
	team, err := state.team(sale.Team)
	if err != nil {
		return nil, err
	}
	player, ok := state.Player(sale.PlayerID)
	if !ok {
		return nil, fmt.Errorf("%w: player %d is not in the pool", ErrNotFound, sale.PlayerID)
	}
	if owner, sold := state.Owner(sale.PlayerID); sold {
		return nil, fmt.Errorf("%w: player %d is on %s's roster", ErrAlreadySold, sale.PlayerID, state.teams[owner].Name)
	}
	if !PriceMeetsReserve(price, player.ReservePrice) {
		return nil, fmt.Errorf("%w: %s for player %d, reserve is %s",
			ErrBelowReserve, FormatMoney(price), sale.PlayerID, FormatMoney(player.ReservePrice))
	}
	if !CanAfford(team.Budget, price) {
		return nil, insufficientBudget(team, price)
	}

	next := state.clone()
	buyer := &next.teams[sale.Team]
	id := sale.PlayerID
	buyer.Roster = append(buyer.Roster, AcquiredPlayer{
		PlayerID:     &id,
		Name:         player.FullName(),
		Price:        price,
		RightToMatch: sale.RightToMatch,
	})
	buyer.Budget = buyer.Budget.Sub(price)
	delete(next.unsold, id)
	return next, nil
}

// RetainPlayer records a pre-auction retention. The retention value is
// deducted from the team's budget exactly like a sale.
func RetainPlayer(state *AuctionState, r Retention) (*AuctionState, error) {
	price := RoundMoney(r.Price)
	name := strings.TrimSpace(r.Name)
	if !price.IsPositive() {
		return nil, fmt.Errorf("%w: retention value must be positive", ErrValidation)
	}
	team, err := state.team(r.Team)
	if err != nil {
		return nil, err
	}

	var id *PlayerID
	if r.PlayerID != nil {
		player, ok := state.Player(*r.PlayerID)
		if !ok {
			return nil, fmt.Errorf("%w: player %d is not in the pool", ErrNotFound, *r.PlayerID)
		}
		if owner, sold := state.Owner(*r.PlayerID); sold {
			return nil, fmt.Errorf("%w: player %d is on %s's roster", ErrAlreadySold, *r.PlayerID, state.teams[owner].Name)
		}
		if name == "" {
			name = player.FullName()
		}
		pid := *r.PlayerID
		id = &pid
	}
	if name == "" {
		return nil, fmt.Errorf("%w: retained player needs a name", ErrValidation)
	}
	if !CanAfford(team.Budget, price) {
		return nil, insufficientBudget(team, price)
	}

	next := state.clone()
	t := &next.teams[r.Team]
	t.Roster = append(t.Roster, AcquiredPlayer{PlayerID: id, Name: name, Price: price})
	t.Budget = t.Budget.Sub(price)
	if id != nil {
		delete(next.unsold, *id)
	}
	return next, nil
}

// MarkUnsold adds the player to the unsold set. Marking twice is a no-op.
// A player already on a roster cannot be marked unsold.
func MarkUnsold(state *AuctionState, id PlayerID) (*AuctionState, error) {
	if _, ok := state.Player(id); !ok {
		return nil, fmt.Errorf("%w: player %d is not in the pool", ErrNotFound, id)
	}
	if owner, sold := state.Owner(id); sold {
		return nil, fmt.Errorf("%w: player %d is on %s's roster", ErrAlreadySold, id, state.teams[owner].Name)
	}
	next := state.clone()
	next.unsold[id] = struct{}{}
	return next, nil
}

// RemovePlayer takes a player off a team's roster and refunds the price paid.
// The player becomes pending again; it is not put back into the unsold set.
func RemovePlayer(state *AuctionState, team TeamID, id PlayerID) (*AuctionState, error) {
	t, err := state.team(team)
	if err != nil {
		return nil, err
	}
	pos := -1
	for i, p := range t.Roster {
		if p.HasID(id) {
			pos = i
			break
		}
	}
	if pos < 0 {
		return nil, fmt.Errorf("%w: player %d is not on %s's roster", ErrNotFound, id, t.Name)
	}
	return removeAt(state, team, pos), nil
}

// ReleaseRetained removes a retained entry that has no pool id, matched by
// name, and refunds its retention value.
func ReleaseRetained(state *AuctionState, team TeamID, name string) (*AuctionState, error) {
	t, err := state.team(team)
	if err != nil {
		return nil, err
	}
	name = strings.TrimSpace(name)
	for i, p := range t.Roster {
		if p.PlayerID == nil && p.Name == name {
			return removeAt(state, team, i), nil
		}
	}
	return nil, fmt.Errorf("%w: no retained player %q on %s's roster", ErrNotFound, name, t.Name)
}

func removeAt(state *AuctionState, team TeamID, pos int) *AuctionState {
	next := state.clone()
	t := &next.teams[team]
	refund := t.Roster[pos].Price
	t.Roster = append(t.Roster[:pos], t.Roster[pos+1:]...)
	t.Budget = t.Budget.Add(refund)
	return next
}

func newState(names []string, totalBudget decimal.Decimal) *AuctionState {
	state := &AuctionState{
		poolIndex:   make(map[PlayerID]int),
		teams:       make([]Team, len(names)),
		teamIndex:   make(map[string]TeamID, len(names)),
		totalBudget: totalBudget,
		unsold:      make(map[PlayerID]struct{}),
	}
	for i, name := range names {
		state.teams[i] = Team{Name: name, Roster: []AcquiredPlayer{}}
		state.teamIndex[name] = TeamID(i)
	}
	return state
}

func validateTeamNames(names []string) error {
	if len(names) == 0 {
		return fmt.Errorf("%w: at least one team is required", ErrValidation)
	}
	seen := make(map[string]bool, len(names))
	for i, name := range names {
		if strings.TrimSpace(name) == "" {
			return fmt.Errorf("%w: team %d has an empty name", ErrValidation, i+1)
		}
		if seen[name] {
			return fmt.Errorf("%w: duplicate team name %q", ErrValidation, name)
		}
		seen[name] = true
	}
	return nil
}

func insufficientBudget(team *Team, price decimal.Decimal) error {
	return &InsufficientBudgetError{
		Team:      team.Name,
		Budget:    team.Budget,
		Price:     price,
		Shortfall: price.Sub(team.Budget),
	}
}
