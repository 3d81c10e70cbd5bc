package core

import (
	"sort"
)

// SelectNextPlayer moves the floor to the next player.
//
// With an explicit id the floor is set to that id unconditionally; checking
// that the id is in the pool is the caller's job.
//
// Without one, the selection rule applies:
//  1. remaining: pool ids not on any roster, ascending
//  2. unsold: the unsold set, ascending
//  3. current player is unsold: smallest remaining id above it, else smallest
//     unsold id above it, else the smallest pending id, else the smallest
//     unsold id (wrap around)
//  4. otherwise: smallest remaining id above the current one (or the smallest
//     overall with nobody on the floor), else the smallest pending id, else
//     the smallest unsold id
//  5. remaining and unsold both empty: the floor is cleared and
//     ErrAuctionComplete is returned together with the new state
//
// Pending ids are remaining ids that were never marked unsold, including
// players returned by RemovePlayer. Because they are picked before any wrap
// into the unsold set, the main pool is exhausted before accelerated rounds
// start, and accelerated rounds cycle through the unsold players.
func SelectNextPlayer(state *AuctionState, explicit *PlayerID) (*AuctionState, error) {
	next := state.clone()
	if explicit != nil {
		id := *explicit
		next.current = &id
		return next, nil
	}

	// nextCandidate only fails when remaining and unsold are both empty
	id, ok := nextCandidate(remainingIDs(state), state.Unsold(), state.current, state.isUnsold)
	if !ok {
		next.current = nil
		return next, ErrAuctionComplete
	}
	next.current = &id
	return next, nil
}

func nextCandidate(remaining, unsold []PlayerID, current *PlayerID, isUnsold func(PlayerID) bool) (PlayerID, bool) {
	if current == nil {
		if id, ok := first(remaining); ok {
			return id, true
		}
		return first(unsold)
	}

	if id, ok := firstAbove(remaining, *current); ok {
		return id, true
	}
	if isUnsold(*current) {
		if id, ok := firstAbove(unsold, *current); ok {
			return id, true
		}
	}
	if id, ok := firstPending(remaining, isUnsold); ok {
		return id, true
	}
	return first(unsold)
}

// remainingIDs returns pool ids that are not on any roster, ascending.
func remainingIDs(state *AuctionState) []PlayerID {
	owned := state.owned()
	ids := make([]PlayerID, 0, len(state.pool))
	for _, p := range state.pool {
		if _, sold := owned[p.ID]; !sold {
			ids = append(ids, p.ID)
		}
	}
	return ids
}

func (s *AuctionState) isUnsold(id PlayerID) bool {
	_, ok := s.unsold[id]
	return ok
}

// firstAbove returns the smallest id in the ascending slice strictly greater than floor.
func firstAbove(ids []PlayerID, floor PlayerID) (PlayerID, bool) {
	i := sort.Search(len(ids), func(i int) bool { return ids[i] > floor })
	if i == len(ids) {
		return 0, false
	}
	return ids[i], true
}

// firstPending returns the smallest id that was never marked unsold.
func firstPending(remaining []PlayerID, isUnsold func(PlayerID) bool) (PlayerID, bool) {
	for _, id := range remaining {
		if !isUnsold(id) {
			return id, true
		}
	}
	return 0, false
}

func first(ids []PlayerID) (PlayerID, bool) {
	if len(ids) == 0 {
		return 0, false
	}
	return ids[0], true
}

func sortPlayers(players []PlayerRecord) {
	sort.Slice(players, func(i, j int) bool { return players[i].ID < players[j].ID })
}
