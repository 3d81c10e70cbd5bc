package main

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/cloudx-io/auctioneer/core"
	"github.com/cloudx-io/auctioneer/operator"
	"github.com/cloudx-io/auctioneer/pool"
	"github.com/cloudx-io/auctioneer/seal"
	"github.com/cloudx-io/auctioneer/session"
	"github.com/cloudx-io/auctioneer/snapshot"
	"github.com/cloudx-io/auctioneer/store"
)

// access describes what a command does with the stored session.
type access int

const (
	// readSession opens an existing session and leaves it unchanged.
	readSession access = iota
	// writeSession opens an existing session and commits one operation.
	writeSession
	// replaceSession may run before any session exists (setup, import).
	replaceSession
)

// withSession builds the configured store, pool and signing key, opens the
// session and runs fn. Commands that change the ledger pass the operator gate first.
func (a *app) withSession(cmd *cobra.Command, mode access, fn func(ctx context.Context, s *session.Session) error) error {
	if mode != readSession {
		if err := a.checkOperator(); err != nil {
			return err
		}
	}

	st, closeStore, err := a.openStore()
	if err != nil {
		return err
	}
	defer closeStore()

	s, err := a.newSession(st)
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	if err := s.Open(ctx); err != nil {
		if mode != replaceSession || !errors.Is(err, session.ErrNotInitialized) {
			return err
		}
	}
	return fn(ctx, s)
}

func (a *app) checkOperator() error {
	gate, err := operator.NewGate(a.cfg.Operator.PasswordHash)
	if err != nil {
		return invalidInput(err)
	}
	return gate.Check(viper.GetString("password"))
}

func (a *app) openStore() (store.Store, func(), error) {
	switch a.cfg.Store.Backend {
	case "redis":
		rs := store.NewRedisStore(store.RedisOptions{
			Addr:      a.cfg.Store.Redis.Addr,
			Password:  a.cfg.Store.Redis.Password,
			DB:        a.cfg.Store.Redis.DB,
			KeyPrefix: a.cfg.Store.Redis.KeyPrefix,
		})
		return rs, func() {
			if err := rs.Close(); err != nil {
				log.Debug().Err(err).Msg("Failed to close redis client")
			}
		}, nil
	default:
		fs, err := store.NewFileStore(a.cfg.Store.Dir)
		if err != nil {
			return nil, nil, err
		}
		return fs, func() {}, nil
	}
}

func (a *app) newSession(st store.Store) (*session.Session, error) {
	format, err := snapshot.ParseFormat(a.cfg.Snapshot.Format)
	if err != nil {
		return nil, invalidInput(err)
	}

	var players []core.PlayerRecord
	if a.cfg.Pool.Path != "" {
		players, err = pool.LoadFile(a.cfg.Pool.Path, a.cfg.Pool.Columns)
		if err != nil {
			return nil, invalidInput(err)
		}
	}

	var key *seal.Key
	if a.cfg.Snapshot.SigningKey != "" {
		key, err = seal.LoadKeyFile(a.cfg.Snapshot.SigningKey)
		if err != nil {
			return nil, invalidInput(err)
		}
	}

	return session.New(session.Options{
		Name:   a.cfg.Session.Name,
		Store:  st,
		Format: format,
		Key:    key,
		Pool:   players,
		Logger: log.Logger,
	}), nil
}

func parseMoney(flag, value string) (decimal.Decimal, error) {
	if value == "" {
		return decimal.Zero, invalidInputf("--%s is required", flag)
	}
	amount, err := decimal.NewFromString(value)
	if err != nil {
		return decimal.Zero, invalidInputf("--%s: %q is not an amount", flag, value)
	}
	return amount, nil
}

func parsePlayerID(value string) (core.PlayerID, error) {
	id, err := strconv.Atoi(value)
	if err != nil || id < 1 {
		return 0, invalidInputf("player id must be a positive integer, got %q", value)
	}
	return core.PlayerID(id), nil
}

// optionalPlayerID parses the first positional argument when present.
func optionalPlayerID(args []string) (*core.PlayerID, error) {
	if len(args) == 0 {
		return nil, nil
	}
	id, err := parsePlayerID(args[0])
	if err != nil {
		return nil, err
	}
	return &id, nil
}

func printReceipt(cmd *cobra.Command, r *session.Receipt) {
	fmt.Fprintf(cmd.OutOrStdout(), "%s: ok (state %s)\n", r.Operation, r.StateHash)
}
