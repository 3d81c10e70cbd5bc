package core

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

var (
	// ErrValidation marks rejected setup or operation input.
	ErrValidation = errors.New("validation failed")

	// ErrAlreadySold is returned when a player is already on some team's roster.
	ErrAlreadySold = errors.New("player already sold")

	// ErrInsufficientBudget is returned when a price exceeds the buyer's budget.
	ErrInsufficientBudget = errors.New("insufficient budget")

	// ErrNotFound is returned for unknown players, teams or roster entries.
	ErrNotFound = errors.New("not found")

	// ErrBelowReserve is returned when a sale price is under the player's reserve.
	ErrBelowReserve = fmt.Errorf("%w: price below reserve", ErrValidation)

	// ErrAlreadyListed is returned when a shortlist already holds the name.
	ErrAlreadyListed = errors.New("already on shortlist")

	// ErrAuctionComplete signals that no eligible player is left to present.
	// It is not a failure: the accompanying state has no current player.
	ErrAuctionComplete = errors.New("auction complete")
)

// InsufficientBudgetError reports the team and amount a sale fell short by.
type InsufficientBudgetError struct {
	Team      string
	Budget    decimal.Decimal
	Price     decimal.Decimal
	Shortfall decimal.Decimal
}

func (e *InsufficientBudgetError) Error() string {
	return fmt.Sprintf("insufficient budget: %s has %s, price %s (short by %s)",
		e.Team, e.Budget.StringFixed(monetaryPrecision), e.Price.StringFixed(monetaryPrecision),
		e.Shortfall.StringFixed(monetaryPrecision))
}

func (e *InsufficientBudgetError) Unwrap() error {
	return ErrInsufficientBudget
}

// TeamNotFoundError is returned for an unknown team name or an out-of-range handle.
type TeamNotFoundError struct {
	Name string
	ID   *TeamID
}

func (e *TeamNotFoundError) Error() string {
	if e.ID != nil {
		return fmt.Sprintf("team handle %d not found", *e.ID)
	}
	return fmt.Sprintf("team %q not found", e.Name)
}

func (e *TeamNotFoundError) Unwrap() error {
	return ErrNotFound
}
