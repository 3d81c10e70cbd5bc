package core

import (
	"sort"
	"strings"

	"github.com/shopspring/decimal"
)

// PlayerID is the stable 1-based identifier of a player in the roster pool.
type PlayerID int

// TeamID is a handle to a team within one AuctionState. Team handles are
// assigned at setup in team-list order and never change afterwards.
type TeamID int

// PlayerRecord is one row of the roster pool.
type PlayerRecord struct {
	ID           PlayerID          `json:"id"`
	FirstName    string            `json:"first_name"`
	Surname      string            `json:"surname"`
	ReservePrice decimal.Decimal   `json:"reserve_price"`
	Attributes   map[string]string `json:"attributes,omitempty"`
}

// FullName joins first name and surname the way the player list displays them.
func (p PlayerRecord) FullName() string {
	return strings.TrimSpace(p.FirstName + " " + p.Surname)
}

// AcquiredPlayer is a roster entry. PlayerID is nil for a retained player
// that has no auction identifier.
type AcquiredPlayer struct {
	PlayerID     *PlayerID       `json:"player_id"`
	Name         string          `json:"name"`
	Price        decimal.Decimal `json:"price"`
	RightToMatch bool            `json:"rtm"`
}

// HasID reports whether the entry refers to the given pool identifier.
func (a AcquiredPlayer) HasID(id PlayerID) bool {
	return a.PlayerID != nil && *a.PlayerID == id
}

// Team is a participant in the auction with its remaining budget and roster.
type Team struct {
	Name   string
	Budget decimal.Decimal
	Roster []AcquiredPlayer
}

// Spent returns the sum of all roster prices.
func (t Team) Spent() decimal.Decimal {
	return sumPrices(t.Roster)
}

// PlayerStatus is the position of a pool player in the auction state machine.
type PlayerStatus int

const (
	StatusPending PlayerStatus = iota
	StatusUnsold
	StatusSold
)

func (s PlayerStatus) String() string {
	switch s {
	case StatusPending:
		return "pending"
	case StatusUnsold:
		return "unsold"
	case StatusSold:
		return "sold"
	default:
		return "unknown"
	}
}

// AuctionState is the complete ledger of a session: the roster pool, teams with
// budgets and rosters, the unsold set and the player currently on the floor.
//
// Operations in this package never modify the state they are given; they
// return a new state on success and leave the input untouched on failure.
type AuctionState struct {
	pool      []PlayerRecord
	poolIndex map[PlayerID]int

	teams       []Team
	teamIndex   map[string]TeamID
	totalBudget decimal.Decimal

	unsold  map[PlayerID]struct{}
	current *PlayerID
}

// Ledger is the plain, exportable form of an AuctionState without its pool.
// Budgets and Rosters are keyed by team name.
type Ledger struct {
	TeamNames   []string
	Budgets     map[string]decimal.Decimal
	Rosters     map[string][]AcquiredPlayer
	TotalBudget decimal.Decimal
	Unsold      []PlayerID
	Current     *PlayerID
}

// TeamNames returns team names in setup order.
func (s *AuctionState) TeamNames() []string {
	names := make([]string, len(s.teams))
	for i, t := range s.teams {
		names[i] = t.Name
	}
	return names
}

// Team resolves a team name to its handle.
func (s *AuctionState) Team(name string) (TeamID, error) {
	id, ok := s.teamIndex[name]
	if !ok {
		return 0, &TeamNotFoundError{Name: name}
	}
	return id, nil
}

// TeamByID returns a copy of the team behind a handle.
func (s *AuctionState) TeamByID(id TeamID) (Team, error) {
	t, err := s.team(id)
	if err != nil {
		return Team{}, err
	}
	return copyTeam(*t), nil
}

// Teams returns copies of all teams in setup order.
func (s *AuctionState) Teams() []Team {
	teams := make([]Team, len(s.teams))
	for i, t := range s.teams {
		teams[i] = copyTeam(t)
	}
	return teams
}

// TotalBudget is the per-team budget the session was set up with.
func (s *AuctionState) TotalBudget() decimal.Decimal {
	return s.totalBudget
}

// Pool returns the roster pool ordered by player id.
func (s *AuctionState) Pool() []PlayerRecord {
	out := make([]PlayerRecord, len(s.pool))
	copy(out, s.pool)
	return out
}

// Player looks up a pool player by id.
func (s *AuctionState) Player(id PlayerID) (PlayerRecord, bool) {
	idx, ok := s.poolIndex[id]
	if !ok {
		return PlayerRecord{}, false
	}
	return s.pool[idx], true
}

// Owner returns the team whose roster holds the player, if any.
func (s *AuctionState) Owner(id PlayerID) (TeamID, bool) {
	for i, t := range s.teams {
		for _, p := range t.Roster {
			if p.HasID(id) {
				return TeamID(i), true
			}
		}
	}
	return 0, false
}

// Status reports where a player sits in the auction state machine.
func (s *AuctionState) Status(id PlayerID) PlayerStatus {
	if _, sold := s.Owner(id); sold {
		return StatusSold
	}
	if _, unsold := s.unsold[id]; unsold {
		return StatusUnsold
	}
	return StatusPending
}

// Unsold returns the unsold set in ascending order.
func (s *AuctionState) Unsold() []PlayerID {
	return sortedIDs(s.unsold)
}

// CurrentID returns the id of the player on the floor, or nil.
func (s *AuctionState) CurrentID() *PlayerID {
	if s.current == nil {
		return nil
	}
	id := *s.current
	return &id
}

// Current returns the pool record of the player on the floor. The second
// result is false when no player is on the floor or the id is not in the pool.
func (s *AuctionState) Current() (PlayerRecord, bool) {
	if s.current == nil {
		return PlayerRecord{}, false
	}
	return s.Player(*s.current)
}

// Ledger exports the state without its pool.
func (s *AuctionState) Ledger() Ledger {
	l := Ledger{
		TeamNames:   s.TeamNames(),
		Budgets:     make(map[string]decimal.Decimal, len(s.teams)),
		Rosters:     make(map[string][]AcquiredPlayer, len(s.teams)),
		TotalBudget: s.totalBudget,
		Unsold:      s.Unsold(),
		Current:     s.CurrentID(),
	}
	for _, t := range s.teams {
		l.Budgets[t.Name] = t.Budget
		l.Rosters[t.Name] = copyRoster(t.Roster)
	}
	return l
}

func (s *AuctionState) team(id TeamID) (*Team, error) {
	if id < 0 || int(id) >= len(s.teams) {
		return nil, &TeamNotFoundError{ID: &id}
	}
	return &s.teams[id], nil
}

// owned returns every pool id held on some roster.
func (s *AuctionState) owned() map[PlayerID]struct{} {
	owned := make(map[PlayerID]struct{})
	for _, t := range s.teams {
		for _, p := range t.Roster {
			if p.PlayerID != nil {
				owned[*p.PlayerID] = struct{}{}
			}
		}
	}
	return owned
}

// clone copies everything an operation may modify. The pool is immutable and shared.
func (s *AuctionState) clone() *AuctionState {
	next := &AuctionState{
		pool:        s.pool,
		poolIndex:   s.poolIndex,
		teams:       make([]Team, len(s.teams)),
		teamIndex:   s.teamIndex,
		totalBudget: s.totalBudget,
		unsold:      make(map[PlayerID]struct{}, len(s.unsold)),
		current:     s.CurrentID(),
	}
	for i, t := range s.teams {
		next.teams[i] = copyTeam(t)
	}
	for id := range s.unsold {
		next.unsold[id] = struct{}{}
	}
	return next
}

func copyTeam(t Team) Team {
	return Team{Name: t.Name, Budget: t.Budget, Roster: copyRoster(t.Roster)}
}

func copyRoster(roster []AcquiredPlayer) []AcquiredPlayer {
	out := make([]AcquiredPlayer, len(roster))
	for i, p := range roster {
		out[i] = p
		if p.PlayerID != nil {
			id := *p.PlayerID
			out[i].PlayerID = &id
		}
	}
	return out
}

func sortedIDs(set map[PlayerID]struct{}) []PlayerID {
	ids := make([]PlayerID, 0, len(set))
	for id := range set {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}
