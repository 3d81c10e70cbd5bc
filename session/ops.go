package session

import (
	"context"
	"errors"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/cloudx-io/auctioneer/core"
)

// SaleRequest is a sale as the operator enters it. A nil PlayerID sells the
// player currently on the floor.
type SaleRequest struct {
	PlayerID     *core.PlayerID
	Team         string
	Price        decimal.Decimal
	RightToMatch bool
}

// Sell records a sale and deducts the price from the buying team.
func (s *Session) Sell(ctx context.Context, req SaleRequest) (*Receipt, error) {
	if err := s.requireState(); err != nil {
		return nil, err
	}

	id, err := s.resolvePlayer(req.PlayerID)
	if err != nil {
		return nil, s.rejected("sell", err)
	}
	team, err := s.state.Team(req.Team)
	if err != nil {
		return nil, s.rejected("sell", err)
	}

	next, err := core.SellPlayer(s.state, core.Sale{
		PlayerID:     id,
		Team:         team,
		Price:        req.Price,
		RightToMatch: req.RightToMatch,
	})
	if err != nil {
		return nil, s.rejected("sell", err, "team", req.Team, "player_id", int(id))
	}

	receipt, err := s.commit(ctx, "sell", next, s.shortlists)
	if err != nil {
		return nil, err
	}
	budget, _ := next.TeamByID(team)
	s.logger.Info().
		Int("player_id", int(id)).
		Str("team", req.Team).
		Str("price", core.FormatMoney(req.Price)).
		Bool("rtm", req.RightToMatch).
		Str("budget_left", core.FormatMoney(budget.Budget)).
		Msg("Player sold")
	return receipt, nil
}

// MarkUnsold moves a player to the unsold pool. A nil id marks the player on the floor.
func (s *Session) MarkUnsold(ctx context.Context, playerID *core.PlayerID) (*Receipt, error) {
	if err := s.requireState(); err != nil {
		return nil, err
	}

	id, err := s.resolvePlayer(playerID)
	if err != nil {
		return nil, s.rejected("unsold", err)
	}
	next, err := core.MarkUnsold(s.state, id)
	if err != nil {
		return nil, s.rejected("unsold", err, "player_id", int(id))
	}

	receipt, err := s.commit(ctx, "unsold", next, s.shortlists)
	if err != nil {
		return nil, err
	}
	s.logger.Info().Int("player_id", int(id)).Int("unsold", len(next.Unsold())).Msg("Player marked unsold")
	return receipt, nil
}

// Remove takes a player off a team's roster and refunds the price.
func (s *Session) Remove(ctx context.Context, teamName string, id core.PlayerID) (*Receipt, error) {
	if err := s.requireState(); err != nil {
		return nil, err
	}

	team, err := s.state.Team(teamName)
	if err != nil {
		return nil, s.rejected("remove", err)
	}
	next, err := core.RemovePlayer(s.state, team, id)
	if err != nil {
		return nil, s.rejected("remove", err, "team", teamName, "player_id", int(id))
	}

	receipt, err := s.commit(ctx, "remove", next, s.shortlists)
	if err != nil {
		return nil, err
	}
	s.logger.Info().Int("player_id", int(id)).Str("team", teamName).Msg("Player removed and refunded")
	return receipt, nil
}

// RetainRequest is a pre-auction retention. PlayerID links the entry to the
// pool when the retained player is also listed there.
type RetainRequest struct {
	Team     string
	Name     string
	Price    decimal.Decimal
	PlayerID *core.PlayerID
}

// Retain assigns a player to a team before the auction.
func (s *Session) Retain(ctx context.Context, req RetainRequest) (*Receipt, error) {
	if err := s.requireState(); err != nil {
		return nil, err
	}

	team, err := s.state.Team(req.Team)
	if err != nil {
		return nil, s.rejected("retain", err)
	}
	next, err := core.RetainPlayer(s.state, core.Retention{
		Team:     team,
		Name:     req.Name,
		Price:    req.Price,
		PlayerID: req.PlayerID,
	})
	if err != nil {
		return nil, s.rejected("retain", err, "team", req.Team)
	}

	receipt, err := s.commit(ctx, "retain", next, s.shortlists)
	if err != nil {
		return nil, err
	}
	s.logger.Info().
		Str("team", req.Team).
		Str("player", req.Name).
		Str("price", core.FormatMoney(req.Price)).
		Msg("Player retained")
	return receipt, nil
}

// Release removes a retained player that has no pool id and refunds the price.
func (s *Session) Release(ctx context.Context, teamName, playerName string) (*Receipt, error) {
	if err := s.requireState(); err != nil {
		return nil, err
	}

	team, err := s.state.Team(teamName)
	if err != nil {
		return nil, s.rejected("release", err)
	}
	next, err := core.ReleaseRetained(s.state, team, playerName)
	if err != nil {
		return nil, s.rejected("release", err, "team", teamName)
	}

	receipt, err := s.commit(ctx, "release", next, s.shortlists)
	if err != nil {
		return nil, err
	}
	s.logger.Info().Str("team", teamName).Str("player", playerName).Msg("Retained player released")
	return receipt, nil
}

// Next puts the next player on the floor. An explicit id must be in the roster
// pool. When nothing is left the receipt has Complete set and the floor is empty.
func (s *Session) Next(ctx context.Context, explicit *core.PlayerID) (*Receipt, error) {
	if err := s.requireState(); err != nil {
		return nil, err
	}

	if explicit != nil {
		if _, ok := s.state.Player(*explicit); !ok {
			return nil, s.rejected("next", fmt.Errorf("%w: player %d is not in the roster pool", core.ErrNotFound, *explicit))
		}
	}

	next, err := core.SelectNextPlayer(s.state, explicit)
	complete := errors.Is(err, core.ErrAuctionComplete)
	if err != nil && !complete {
		return nil, s.rejected("next", err)
	}

	receipt, err := s.commit(ctx, "next", next, s.shortlists)
	if err != nil {
		return nil, err
	}
	receipt.Complete = complete

	if complete {
		s.logger.Info().Msg("Auction complete: no players remaining")
		return receipt, nil
	}
	player, _ := next.Current()
	s.logger.Info().
		Int("player_id", int(player.ID)).
		Str("player", player.FullName()).
		Str("status", s.state.Status(player.ID).String()).
		Msg("Player on the floor")
	return receipt, nil
}

// AddToShortlist appends a player name to one of the operator's lists.
func (s *Session) AddToShortlist(ctx context.Context, list, name string) (*Receipt, error) {
	if err := s.requireState(); err != nil {
		return nil, err
	}

	lists := copyShortlists(s.shortlists)
	if err := lists.Add(list, name); err != nil {
		return nil, s.rejected("shortlist add", err, "list", list)
	}

	receipt, err := s.commit(ctx, "shortlist add", s.state, lists)
	if err != nil {
		return nil, err
	}
	s.logger.Info().Str("list", list).Str("player", name).Msg("Added to shortlist")
	return receipt, nil
}

// FlushShortlist empties one of the operator's lists.
func (s *Session) FlushShortlist(ctx context.Context, list string) (*Receipt, error) {
	if err := s.requireState(); err != nil {
		return nil, err
	}

	lists := copyShortlists(s.shortlists)
	lists.Flush(list)

	receipt, err := s.commit(ctx, "shortlist flush", s.state, lists)
	if err != nil {
		return nil, err
	}
	s.logger.Info().Str("list", list).Msg("Shortlist flushed")
	return receipt, nil
}

// resolvePlayer returns the explicit id, or the player on the floor when nil.
func (s *Session) resolvePlayer(id *core.PlayerID) (core.PlayerID, error) {
	if id != nil {
		return *id, nil
	}
	current := s.state.CurrentID()
	if current == nil {
		return 0, fmt.Errorf("%w: no player on the floor; pass a player id", core.ErrValidation)
	}
	return *current, nil
}

// rejected logs a refused operation at warn level and returns err unchanged.
func (s *Session) rejected(op string, err error, fields ...any) error {
	s.logger.Warn().Err(err).Str("op", op).Fields(fields).Msg("Operation rejected")
	return err
}
