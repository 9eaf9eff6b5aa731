// Package engine implements the board's business rules over a store snapshot:
// post CRUD, comments, idempotent views, like toggling, statistics and export.
package engine

import (
	"context"
	"errors"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/cppla/codeshare/metrics"
	"github.com/cppla/codeshare/models"
	"github.com/cppla/codeshare/store"
	"github.com/cppla/codeshare/utils"
)

const defaultMaxAttempts = 5

// Publisher receives one event per committed mutation.
type Publisher interface {
	Publish(evt models.Event)
}

// NopPublisher discards events; use it to run without a realtime layer.
type NopPublisher struct{}

// Publish implements Publisher.
func (NopPublisher) Publish(models.Event) {}

// Engine applies business rules to the snapshot held by a Store.
type Engine struct {
	store       store.Store
	pub         Publisher
	now         func() time.Time
	logger      *zap.Logger
	maxAttempts int

	// commitMu orders save+publish so events leave in save-completion order.
	commitMu sync.Mutex
}

// Option configures an Engine.
type Option func(*Engine)

// WithClock overrides the time source.
func WithClock(now func() time.Time) Option {
	return func(e *Engine) { e.now = now }
}

// WithLogger overrides the logger.
func WithLogger(l *zap.Logger) Option {
	return func(e *Engine) { e.logger = l }
}

// WithMaxAttempts bounds the load-mutate-save retries on version conflicts.
func WithMaxAttempts(n int) Option {
	return func(e *Engine) {
		if n > 0 {
			e.maxAttempts = n
		}
	}
}

// New returns an Engine over s publishing to pub. A nil pub disables publication.
func New(s store.Store, pub Publisher, opts ...Option) *Engine {
	if pub == nil {
		pub = NopPublisher{}
	}
	e := &Engine{
		store:       s,
		pub:         pub,
		now:         time.Now,
		logger:      utils.Logger,
		maxAttempts: defaultMaxAttempts,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// mutation applies a change to snap. It returns the event to publish once the change is
// saved, and whether snap changed at all; an unchanged snapshot is not saved.
type mutation func(snap *models.Snapshot) (evt *models.Event, changed bool, err error)

// mutate runs load-mutate-save for op. The cycle is re-run from a fresh load when another
// writer saved first, so concurrent mutations never silently overwrite each other.
// A failed save publishes nothing.
func (e *Engine) mutate(ctx context.Context, op string, fn mutation) error {
	// Operations are not cancellable once started.
	ctx = context.WithoutCancel(ctx)

	for attempt := 1; ; attempt++ {
		snap, err := e.store.Load(ctx)
		if err != nil {
			e.fail(op, err)
			return persistence(op, err)
		}
		evt, changed, err := fn(snap)
		if err != nil || !changed {
			return err
		}

		e.commitMu.Lock()
		err = e.store.Save(ctx, snap)
		if err == nil && evt != nil {
			e.pub.Publish(*evt)
		}
		e.commitMu.Unlock()

		if err == nil {
			metrics.Mutations.WithLabelValues(op, metrics.OutcomeOK).Inc()
			return nil
		}
		if errors.Is(err, store.ErrConflict) && attempt < e.maxAttempts {
			metrics.Mutations.WithLabelValues(op, metrics.OutcomeConflict).Inc()
			e.logger.Debug("snapshot conflict, retrying", zap.String("op", op), zap.Int("attempt", attempt))
			continue
		}
		e.fail(op, err)
		return persistence(op, err)
	}
}

// load returns a snapshot for read-only operations.
func (e *Engine) load(ctx context.Context, op string) (*models.Snapshot, error) {
	snap, err := e.store.Load(ctx)
	if err != nil {
		metrics.StoreReadFailures.WithLabelValues(op).Inc()
		e.logger.Error("store read failed", zap.String("op", op), zap.Error(err))
		return nil, persistence(op, err)
	}
	return snap, nil
}

func (e *Engine) fail(op string, err error) {
	metrics.Mutations.WithLabelValues(op, metrics.OutcomeFailed).Inc()
	e.logger.Error("store operation failed", zap.String("op", op), zap.Error(err))
}
