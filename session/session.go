// Package session binds an auction ledger to its persisted snapshot. Every
// mutating operation runs against a copy of the state and only replaces the
// in-memory state after the new snapshot has been stored.
package session

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/cloudx-io/auctioneer/core"
	"github.com/cloudx-io/auctioneer/seal"
	"github.com/cloudx-io/auctioneer/snapshot"
	"github.com/cloudx-io/auctioneer/store"
)

var (
	// ErrNotInitialized is returned when an operation needs a session that has not been set up.
	ErrNotInitialized = errors.New("session has not been set up")

	// ErrAlreadyExists is returned by Setup when a snapshot already exists and overwrite was not requested.
	ErrAlreadyExists = errors.New("session already exists")

	// ErrUnsealedSnapshot is returned when a signing key is configured but the stored snapshot is not sealed.
	ErrUnsealedSnapshot = errors.New("snapshot is not sealed")

	// ErrNoSigningKey is returned by ExportSealed when the session has no key.
	ErrNoSigningKey = errors.New("no signing key configured")
)

// Options configures a Session.
type Options struct {
	Name   string
	Store  store.Store
	Format snapshot.Format
	Key    *seal.Key // optional; seals snapshots when set
	Pool   []core.PlayerRecord
	Logger zerolog.Logger
	Now    func() time.Time
}

// Session is one named auction backed by a store.
type Session struct {
	name   string
	store  store.Store
	format snapshot.Format
	key    *seal.Key
	pool   []core.PlayerRecord
	logger zerolog.Logger
	now    func() time.Time

	id         string
	state      *core.AuctionState
	shortlists core.Shortlists
}

// New creates a session handle. Call Setup or Open before running operations.
func New(opts Options) *Session {
	if opts.Format == "" {
		opts.Format = snapshot.FormatJSON
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	return &Session{
		name:       opts.Name,
		store:      opts.Store,
		format:     opts.Format,
		key:        opts.Key,
		pool:       opts.Pool,
		logger:     opts.Logger.With().Str("session", opts.Name).Logger(),
		now:        opts.Now,
		shortlists: core.Shortlists{},
	}
}

// Name returns the store key of the session.
func (s *Session) Name() string { return s.name }

// ID returns the session identifier recorded in its snapshots.
func (s *Session) ID() string { return s.id }

// State returns the current ledger, or nil before Setup/Open.
func (s *Session) State() *core.AuctionState { return s.state }

// Shortlists returns a copy of the operator's shortlists.
func (s *Session) Shortlists() core.Shortlists {
	return copyShortlists(s.shortlists)
}

// Setup starts a new auction with the given teams, each holding the full budget.
// An existing snapshot is only replaced when overwrite is true.
func (s *Session) Setup(ctx context.Context, teams []string, budget decimal.Decimal, overwrite bool) (*Receipt, error) {
	if !overwrite {
		_, err := s.store.Load(ctx, s.name)
		if err == nil {
			return nil, fmt.Errorf("%w: %s", ErrAlreadyExists, s.name)
		}
		if !errors.Is(err, store.ErrNotFound) {
			return nil, fmt.Errorf("failed to check for existing session: %w", err)
		}
	}

	state, err := core.InitializeTeams(teams, budget)
	if err != nil {
		s.logger.Warn().Err(err).Strs("teams", teams).Msg("Setup rejected")
		return nil, err
	}
	state, err = core.WithPool(state, s.pool)
	if err != nil {
		return nil, fmt.Errorf("invalid roster pool: %w", err)
	}

	prevID := s.id
	s.id = uuid.NewString()
	receipt, err := s.commit(ctx, "setup", state, core.Shortlists{})
	if err != nil {
		s.id = prevID
		return nil, err
	}

	s.logger.Info().
		Str("session_id", s.id).
		Int("teams", len(teams)).
		Str("budget", core.FormatMoney(budget)).
		Int("pool_size", len(s.pool)).
		Msg("Auction set up")
	return receipt, nil
}

// Open loads the stored snapshot and attaches the roster pool.
func (s *Session) Open(ctx context.Context) error {
	data, err := s.store.Load(ctx, s.name)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return fmt.Errorf("%w: %s", ErrNotInitialized, s.name)
		}
		return fmt.Errorf("failed to load session: %w", err)
	}

	snap, err := s.decode(data, s.key != nil, true)
	if err != nil {
		return err
	}
	if err := s.install(snap); err != nil {
		return err
	}

	s.logger.Debug().
		Str("session_id", s.id).
		Int("bytes", len(data)).
		Msg("Session loaded")
	return nil
}

// Snapshot returns the persisted form of the current session.
func (s *Session) Snapshot() (*snapshot.Snapshot, error) {
	if s.state == nil {
		return nil, ErrNotInitialized
	}
	return snapshot.FromState(s.state, s.shortlists, s.id, s.now()), nil
}

// Export encodes the current session without sealing it.
func (s *Session) Export(format snapshot.Format) ([]byte, error) {
	snap, err := s.Snapshot()
	if err != nil {
		return nil, err
	}
	return snapshot.Encode(snap, format)
}

// ExportSealed encodes the current session in the configured format and seals
// it, producing a file participants can audit with the operator's public key.
func (s *Session) ExportSealed() ([]byte, error) {
	if s.key == nil {
		return nil, ErrNoSigningKey
	}
	snap, err := s.Snapshot()
	if err != nil {
		return nil, err
	}
	return s.encode(snap)
}

// Import replaces the whole session with the given snapshot bytes and stores it.
// On any failure the prior state is kept. verify requires a valid seal when
// the bytes are sealed; unsealed input is accepted as an operator-supplied file.
func (s *Session) Import(ctx context.Context, data []byte, verify bool) (*Receipt, error) {
	snap, err := s.decode(data, false, verify)
	if err != nil {
		s.logger.Warn().Err(err).Msg("Import rejected")
		return nil, err
	}

	state, shortlists, err := snap.ToState()
	if err != nil {
		s.logger.Warn().Err(err).Msg("Import rejected")
		return nil, err
	}
	state, err = core.WithPool(state, s.pool)
	if err != nil {
		return nil, fmt.Errorf("invalid roster pool: %w", err)
	}

	prevID := s.id
	if snap.SessionID != "" {
		s.id = snap.SessionID
	} else if s.id == "" {
		s.id = uuid.NewString()
	}
	receipt, err := s.commit(ctx, "import", state, shortlists)
	if err != nil {
		s.id = prevID
		return nil, err
	}
	s.warnUnknownPlayers()

	s.logger.Info().
		Str("session_id", s.id).
		Int("teams", len(state.TeamNames())).
		Int("unsold", len(state.Unsold())).
		Msg("Snapshot imported")
	return receipt, nil
}

// commit stores the snapshot of next and, only on success, makes it current.
func (s *Session) commit(ctx context.Context, op string, next *core.AuctionState, shortlists core.Shortlists) (*Receipt, error) {
	priorHash := ""
	if s.state != nil {
		priorHash = core.ComputeStateHash(s.state)
	}

	at := s.now()
	data, err := s.encode(snapshot.FromState(next, shortlists, s.id, at))
	if err != nil {
		return nil, err
	}
	if err := s.store.Save(ctx, s.name, data); err != nil {
		s.logger.Error().Err(err).Str("op", op).Msg("Failed to save snapshot")
		return nil, fmt.Errorf("failed to save session: %w", err)
	}

	s.state = next
	s.shortlists = shortlists
	return newReceipt(op, s.id, priorHash, next, at), nil
}

func (s *Session) encode(snap *snapshot.Snapshot) ([]byte, error) {
	data, err := snapshot.Encode(snap, s.format)
	if err != nil {
		return nil, err
	}
	if s.key == nil {
		return data, nil
	}
	sealed, err := seal.Seal(s.key, data, contentType(s.format))
	if err != nil {
		return nil, fmt.Errorf("failed to seal snapshot: %w", err)
	}
	return sealed, nil
}

// decode unwraps and parses snapshot bytes. requireSeal rejects unsealed input;
// verify checks a sealed envelope against the configured key.
func (s *Session) decode(data []byte, requireSeal, verify bool) (*snapshot.Snapshot, error) {
	if !seal.IsSealed(data) {
		if requireSeal {
			return nil, ErrUnsealedSnapshot
		}
		return snapshot.Decode(data)
	}

	var (
		payload []byte
		err     error
	)
	switch {
	case !verify:
		payload, err = seal.ExtractPayload(data)
	case s.key == nil:
		err = fmt.Errorf("%w: no signing key configured to verify it", seal.ErrKeyMismatch)
	default:
		payload, err = seal.Open(s.key, data)
	}
	if err != nil {
		return nil, err
	}
	return snapshot.Decode(payload)
}

func (s *Session) install(snap *snapshot.Snapshot) error {
	state, shortlists, err := snap.ToState()
	if err != nil {
		return err
	}
	state, err = core.WithPool(state, s.pool)
	if err != nil {
		return fmt.Errorf("invalid roster pool: %w", err)
	}
	s.state = state
	s.shortlists = shortlists
	s.id = snap.SessionID
	s.warnUnknownPlayers()
	return nil
}

// warnUnknownPlayers reports ledger ids that the current pool does not contain,
// which happens when the player list changed between runs.
func (s *Session) warnUnknownPlayers() {
	for _, team := range s.state.Teams() {
		for _, p := range team.Roster {
			if p.PlayerID == nil {
				continue
			}
			if _, ok := s.state.Player(*p.PlayerID); !ok {
				s.logger.Warn().Str("team", team.Name).Int("player_id", int(*p.PlayerID)).Msg("Sold player is not in the roster pool")
			}
		}
	}
	for _, id := range s.state.Unsold() {
		if _, ok := s.state.Player(id); !ok {
			s.logger.Warn().Int("player_id", int(id)).Msg("Unsold player is not in the roster pool")
		}
	}
}

func (s *Session) requireState() error {
	if s.state == nil {
		return ErrNotInitialized
	}
	return nil
}

func contentType(format snapshot.Format) string {
	if format == snapshot.FormatCBOR {
		return "application/cbor"
	}
	return "application/json"
}

func copyShortlists(in core.Shortlists) core.Shortlists {
	out := make(core.Shortlists, len(in))
	for list, names := range in {
		out[list] = append([]string{}, names...)
	}
	return out
}
