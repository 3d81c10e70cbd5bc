package snapshot

import (
	"encoding/json"
	"time"
)

// CurrentVersion is written into every snapshot produced by this package.
// Snapshots without a version predate it and are read the same way.
const CurrentVersion = 1

// RosterEntry is one acquired player as stored in a snapshot.
type RosterEntry struct {
	PlayerID *int    `json:"Player ID" yaml:"Player ID"` // null for retained players without a pool id
	Name     string  `json:"Name" yaml:"Name"`
	Price    float64 `json:"Price" yaml:"Price"`
	RTM      bool    `json:"RTM" yaml:"RTM"`
}

// legacyRosterEntry covers retention-only snapshots that stored {"name", "value"}.
type legacyRosterEntry struct {
	PlayerID *int     `json:"Player ID"`
	Name     string   `json:"Name"`
	Price    *float64 `json:"Price"`
	RTM      bool     `json:"RTM"`

	LegacyName  string   `json:"name"`
	LegacyValue *float64 `json:"value"`
}

// UnmarshalJSON accepts both the current entry shape and the legacy
// {"name": ..., "value": ...} retention shape.
func (e *RosterEntry) UnmarshalJSON(data []byte) error {
	var raw legacyRosterEntry
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	e.PlayerID = raw.PlayerID
	e.Name = raw.Name
	e.RTM = raw.RTM
	if e.Name == "" {
		e.Name = raw.LegacyName
	}
	switch {
	case raw.Price != nil:
		e.Price = *raw.Price
	case raw.LegacyValue != nil:
		e.Price = *raw.LegacyValue
	default:
		e.Price = 0
	}
	return nil
}

// Snapshot is the persisted form of a session. The first five fields are the
// long-standing save format; the rest are optional and default to empty.
type Snapshot struct {
	TeamList      []string                 `json:"team_list" yaml:"team_list"`
	Budgets       map[string]float64       `json:"budgets" yaml:"budgets"`
	PlayerData    map[string][]RosterEntry `json:"player_data" yaml:"player_data"`
	TotalBudget   float64                  `json:"total_budget" yaml:"total_budget"`
	UnsoldPlayers []int                    `json:"unsold_players" yaml:"unsold_players"`

	Version       int                 `json:"version,omitempty" yaml:"version,omitempty"`
	SessionID     string              `json:"session_id,omitempty" yaml:"session_id,omitempty"`
	SavedAt       *time.Time          `json:"saved_at,omitempty" yaml:"saved_at,omitempty"`
	CurrentPlayer *int                `json:"current_player,omitempty" yaml:"current_player,omitempty"`
	Shortlists    map[string][]string `json:"shortlists,omitempty" yaml:"shortlists,omitempty"`
}

// Format selects the byte encoding of a snapshot.
type Format string

const (
	FormatJSON Format = "json"
	FormatCBOR Format = "cbor"
)

// ParseFormat validates a format name from configuration or flags.
func ParseFormat(s string) (Format, error) {
	switch Format(s) {
	case FormatJSON, FormatCBOR:
		return Format(s), nil
	default:
		return "", &UnknownFormatError{Format: s}
	}
}
