package engine

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/roach88/classroom/internal/config"
	"github.com/roach88/classroom/internal/ir"
	"github.com/roach88/classroom/internal/store"
)

// Engine is the lifecycle controller.
//
// Thread-safety: all methods are safe for concurrent use. Mutating requests
// serialize on the store's single connection, so seq order matches commit
// order.
type Engine struct {
	store  *store.Store
	cfg    config.Config
	clock  Sequencer
	ids    RequestIDGenerator
	logger *slog.Logger
}

// Option configures an Engine.
type Option func(*Engine)

// WithLogger sets the structured logger. Default: slog.Default().
func WithLogger(l *slog.Logger) Option {
	return func(e *Engine) {
		e.logger = l
	}
}

// WithRequestIDGenerator sets the request id source. Default: UUIDv7Generator.
func WithRequestIDGenerator(g RequestIDGenerator) Option {
	return func(e *Engine) {
		e.ids = g
	}
}

// WithClock sets the logical clock. The clock is used as given and is not
// advanced to the store's highest seq.
func WithClock(c Sequencer) Option {
	return func(e *Engine) {
		e.clock = c
	}
}

// New creates an Engine over s.
//
// A zero cfg is replaced by config.Default(). Unless WithClock is given, the
// clock resumes from the highest seq already recorded in s.
func New(ctx context.Context, s *store.Store, cfg config.Config, opts ...Option) (*Engine, error) {
	if cfg == (config.Config{}) {
		cfg = config.Default()
	}

	e := &Engine{
		store:  s,
		cfg:    cfg,
		ids:    UUIDv7Generator{},
		logger: slog.Default(),
	}

	for _, opt := range opts {
		opt(e)
	}

	if e.clock == nil {
		seq, err := s.MaxSeq(ctx)
		if err != nil {
			return nil, fmt.Errorf("resume clock: %w", err)
		}
		e.clock = NewClockAt(seq)
	}

	return e, nil
}

// Config returns the configuration the engine runs with.
func (e *Engine) Config() config.Config {
	return e.cfg
}

// FetchProfile reads the profile owner holds under name.
// found is false, with a nil error, when there is none.
func (e *Engine) FetchProfile(ctx context.Context, owner ir.Identity, name string) (ir.Profile, bool, error) {
	addr, err := ir.ProfileAddress(owner, name)
	if err != nil {
		return ir.Profile{}, false, addressError(err)
	}

	rec, found, err := e.store.Get(ctx, addr)
	if err != nil || !found {
		return ir.Profile{}, false, err
	}

	p, err := rec.Profile()
	if err != nil {
		return ir.Profile{}, false, fmt.Errorf("fetch profile: %w", err)
	}
	return p, true, nil
}

// FetchSubmission reads owner's submission.
// found is false, with a nil error, when there is none.
func (e *Engine) FetchSubmission(ctx context.Context, owner ir.Identity) (ir.Submission, bool, error) {
	addr, err := ir.SubmissionAddress(owner)
	if err != nil {
		return ir.Submission{}, false, addressError(err)
	}

	rec, found, err := e.store.Get(ctx, addr)
	if err != nil || !found {
		return ir.Submission{}, false, err
	}

	s, err := rec.Submission()
	if err != nil {
		return ir.Submission{}, false, fmt.Errorf("fetch submission: %w", err)
	}
	return s, true, nil
}

// SlotSize reports the stored size at addr in bytes, 0 when the slot is empty.
func (e *Engine) SlotSize(ctx context.Context, addr ir.Address) (int, error) {
	return e.store.SlotSize(ctx, addr)
}

// Events returns owner's lifecycle log in commit order.
func (e *Engine) Events(ctx context.Context, owner ir.Identity) ([]ir.Event, error) {
	return e.store.ReadEvents(ctx, owner)
}

// Records returns every record owner holds, oldest first.
func (e *Engine) Records(ctx context.Context, owner ir.Identity) ([]store.Record, error) {
	return e.store.ListByOwner(ctx, owner)
}

// txContext applies the configured transaction timeout unless ctx already
// carries a deadline.
func (e *Engine) txContext(ctx context.Context) (context.Context, context.CancelFunc) {
	if _, ok := ctx.Deadline(); ok {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, e.cfg.Timeout())
}

// reject logs a failed request and returns err unchanged.
// Taxonomy errors are expected outcomes and log at Debug; anything else is
// an infrastructure failure.
func (e *Engine) reject(op string, err error) error {
	var re *Error
	if errors.As(err, &re) {
		e.logger.Debug("request rejected",
			"op", op,
			"code", re.Code,
			"reason", re.Reason,
			"address", re.Address,
		)
		return err
	}
	e.logger.Error("request failed", "op", op, "error", err)
	return err
}

// committed logs a committed transition.
func (e *Engine) committed(ev ir.Event) {
	e.logger.Info(eventMessage(ev.Type),
		"owner", ev.Owner,
		"address", ev.Address,
		"seq", ev.Seq,
		"request_id", ev.RequestID,
	)
}

func eventMessage(t ir.EventType) string {
	switch t {
	case ir.EventProfileCreated:
		return "profile created"
	case ir.EventProfileDestroyed:
		return "profile destroyed"
	case ir.EventSubmissionCreated:
		return "submission created"
	case ir.EventSubmissionDestroyed:
		return "submission destroyed"
	}
	return string(t)
}
