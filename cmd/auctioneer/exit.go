package main

import (
	"errors"
	"fmt"

	"github.com/cloudx-io/auctioneer/core"
	"github.com/cloudx-io/auctioneer/operator"
	"github.com/cloudx-io/auctioneer/seal"
	"github.com/cloudx-io/auctioneer/session"
)

// Exit codes:
//
//	0 - Operation applied (or verification passed)
//	1 - Operation rejected by the ledger (or verification failed)
//	2 - Invalid input or runtime error
const (
	exitOK       = 0
	exitRejected = 1
	exitFailure  = 2
)

// errVerificationFailed is returned by verify after it has printed a failing report.
var errVerificationFailed = errors.New("snapshot verification failed")

// rejections are the errors that mean the ledger refused the operation and
// nothing was changed.
var rejections = []error{
	core.ErrValidation,
	core.ErrAlreadySold,
	core.ErrInsufficientBudget,
	core.ErrNotFound,
	core.ErrAlreadyListed,
	session.ErrAlreadyExists,
	session.ErrUnsealedSnapshot,
	seal.ErrKeyMismatch,
	seal.ErrTampered,
	operator.ErrPasswordRequired,
	operator.ErrInvalidPassword,
	errVerificationFailed,
}

// inputError marks a bad flag or argument value.
type inputError struct {
	err error
}

func (e *inputError) Error() string { return e.err.Error() }
func (e *inputError) Unwrap() error { return e.err }

func invalidInput(err error) error {
	return &inputError{err: err}
}

func invalidInputf(format string, args ...any) error {
	return &inputError{err: fmt.Errorf(format, args...)}
}

func exitCode(err error) int {
	if err == nil {
		return exitOK
	}
	var input *inputError
	if errors.As(err, &input) {
		return exitFailure
	}
	for _, target := range rejections {
		if errors.Is(err, target) {
			return exitRejected
		}
	}
	return exitFailure
}
