// Package portfolio keeps the latest account, positions and orders of the signed-in user.
package portfolio

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/vadiminshakov/investorpro/internal/domain"
)

const msgAccountUnavailable = "Unable to fetch account information. Please check your API keys."

type accountService interface {
	GetAccount(ctx context.Context) (domain.AccountSnapshot, error)
	GetPositions(ctx context.Context) ([]domain.Position, error)
	GetOrders(ctx context.Context) ([]domain.Order, error)
}

type snapshotSaver interface {
	Save(snapshot domain.AccountSnapshotRecord) error
}

type modeSource interface {
	Mode() domain.TradingMode
}

type notifier interface {
	Notify(message string, kind domain.NotificationKind)
}

// Snapshot is an immutable view of the portfolio. Each part keeps its last
// good value when its fetch fails.
type Snapshot struct {
	Account   *domain.AccountSnapshot
	Positions []domain.Position
	Orders    []domain.Order

	AccountAt   time.Time
	PositionsAt time.Time
	OrdersAt    time.Time
}

// Refresher fetches the portfolio parts independently and publishes them atomically.
type Refresher struct {
	service  accountService
	notifier notifier
	mode     modeSource
	history  snapshotSaver
	logger   *zap.Logger
	now      func() time.Time

	current atomic.Pointer[Snapshot]
	// mu serialises merges of concurrent refreshes
	mu sync.Mutex
}

// Option configures the Refresher.
type Option func(*Refresher)

// WithHistory records every fetched account snapshot in store.
func WithHistory(store snapshotSaver, mode modeSource) Option {
	return func(r *Refresher) {
		r.history = store
		r.mode = mode
	}
}

// WithLogger sets the logger.
func WithLogger(logger *zap.Logger) Option {
	return func(r *Refresher) {
		if logger != nil {
			r.logger = logger
		}
	}
}

// NewRefresher creates a Refresher with nothing loaded.
func NewRefresher(service accountService, n notifier, opts ...Option) *Refresher {
	r := &Refresher{
		service:  service,
		notifier: n,
		logger:   zap.NewNop(),
		now:      time.Now,
	}
	r.current.Store(&Snapshot{})
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Snapshot returns the latest published portfolio.
func (r *Refresher) Snapshot() Snapshot {
	return *r.current.Load()
}

// AccountLoaded reports whether an account snapshot has been fetched at least once.
func (r *Refresher) AccountLoaded() bool {
	return r.current.Load().Account != nil
}

// Summary aggregates the latest positions.
func (r *Refresher) Summary() domain.PositionsSummary {
	return domain.SummarizePositions(r.current.Load().Positions)
}

// Refresh fetches account, positions and orders concurrently. A failed part
// keeps its previous value and never blocks the others.
func (r *Refresher) Refresh(ctx context.Context) {
	var (
		account   *domain.AccountSnapshot
		positions []domain.Position
		orders    []domain.Order
		posOK     bool
		ordersOK  bool
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		a, err := r.service.GetAccount(gctx)
		if err != nil {
			r.logger.Error("failed to fetch account", zap.Error(err))
			r.notifier.Notify(msgAccountUnavailable, domain.NotificationError)
			return nil
		}
		account = &a
		return nil
	})
	g.Go(func() error {
		p, err := r.service.GetPositions(gctx)
		if err != nil {
			r.logger.Error("failed to fetch positions", zap.Error(err))
			return nil
		}
		positions, posOK = p, true
		return nil
	})
	g.Go(func() error {
		o, err := r.service.GetOrders(gctx)
		if err != nil {
			r.logger.Error("failed to fetch orders", zap.Error(err))
			return nil
		}
		orders, ordersOK = o, true
		return nil
	})
	_ = g.Wait()

	r.mu.Lock()
	now := r.now()
	next := *r.current.Load()
	if account != nil {
		next.Account = account
		next.AccountAt = now
	}
	if posOK {
		next.Positions = positions
		next.PositionsAt = now
	}
	if ordersOK {
		next.Orders = orders
		next.OrdersAt = now
	}
	r.current.Store(&next)
	r.mu.Unlock()

	if account != nil {
		r.record(now, *account)
	}
}

func (r *Refresher) record(ts time.Time, account domain.AccountSnapshot) {
	if r.history == nil {
		return
	}
	mode := domain.TradingModePaper
	if r.mode != nil {
		mode = r.mode.Mode()
	}
	if err := r.history.Save(domain.NewAccountSnapshotRecord(ts.UTC(), mode, account)); err != nil {
		r.logger.Warn("failed to store account snapshot", zap.Error(err))
	}
}

// Run refreshes immediately and then on every tick until ctx is cancelled.
func (r *Refresher) Run(ctx context.Context, interval time.Duration) error {
	r.Refresh(ctx)

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	r.logger.Info("starting portfolio refresh loop", zap.Duration("interval", interval))

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			r.Refresh(ctx)
		}
	}
}
