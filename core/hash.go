package core

import (
	"crypto/sha256"
	"fmt"
	"strconv"
	"strings"
)

// ComputeStateHash computes a digest of the ledger part of a state.
// Two states with equal teams, budgets, rosters, unsold set and current player
// hash identically, regardless of how they were produced.
//
// Formula: SHA256 over a sequence of fields, each written as len(value) + ":" + value:
//
//	"total" budget, then per team "team" name budget len(roster),
//	then per entry id name price rtm,
//	then "unsold" len(unsold) ids..., then "current" id
//
// Ids are decimal ("" for a retained player without one, and for no current
// player). Amounts carry exactly monetaryPrecision decimal places. Length
// prefixes keep names containing separators from shifting field boundaries.
func ComputeStateHash(state *AuctionState) string {
	var b strings.Builder
	field := func(value string) {
		b.WriteString(strconv.Itoa(len(value)))
		b.WriteByte(':')
		b.WriteString(value)
	}

	field("total")
	field(FormatMoney(state.totalBudget))

	for _, t := range state.teams {
		field("team")
		field(t.Name)
		field(FormatMoney(t.Budget))
		field(strconv.Itoa(len(t.Roster)))
		for _, p := range t.Roster {
			field(formatID(p.PlayerID))
			field(p.Name)
			field(FormatMoney(p.Price))
			field(strconv.FormatBool(p.RightToMatch))
		}
	}

	unsold := state.Unsold()
	field("unsold")
	field(strconv.Itoa(len(unsold)))
	for _, id := range unsold {
		field(strconv.Itoa(int(id)))
	}

	field("current")
	field(formatID(state.current))

	hash := sha256.Sum256([]byte(b.String()))
	return fmt.Sprintf("%x", hash)
}

func formatID(id *PlayerID) string {
	if id == nil {
		return ""
	}
	return strconv.Itoa(int(*id))
}
