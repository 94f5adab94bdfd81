package internal

import (
	"context"
	"time"

	"github.com/pkg/errors"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/vadiminshakov/investorpro/internal/domain"
	"github.com/vadiminshakov/investorpro/internal/services/chart"
	"github.com/vadiminshakov/investorpro/internal/services/portfolio"
	"github.com/vadiminshakov/investorpro/internal/services/quotes"
	"github.com/vadiminshakov/investorpro/internal/web"
)

type sessionView interface {
	User() (domain.User, bool)
	Mode() domain.TradingMode
}

type portfolioSource interface {
	Snapshot() portfolio.Snapshot
	Summary() domain.PositionsSummary
	Run(ctx context.Context, interval time.Duration) error
}

type watchlistSource interface {
	Entries() []quotes.Entry
	History(symbol string) []domain.PricePoint
	Run(ctx context.Context, interval time.Duration) error
}

type notificationFeed interface {
	Active() []domain.Notification
}

type webServer interface {
	Start(ctx context.Context) error
}

// Dashboard keeps the account overview, the watchlist and the notification feed current.
type Dashboard struct {
	session   sessionView
	portfolio portfolioSource
	watchlist watchlistSource
	feed      notificationFeed
	server    webServer
	logger    *zap.Logger

	accountInterval time.Duration
	quoteInterval   time.Duration
	now             func() time.Time
}

// DashboardConfig holds the dashboard loop intervals.
type DashboardConfig struct {
	AccountRefreshInterval time.Duration
	QuotePollInterval      time.Duration
}

// NewDashboard creates a dashboard. server may be nil when the web UI is disabled.
func NewDashboard(conf DashboardConfig, session sessionView, p portfolioSource, w watchlistSource,
	feed notificationFeed, server webServer, logger *zap.Logger) (*Dashboard, error) {
	if session == nil || p == nil || w == nil || feed == nil {
		return nil, errors.New("session, portfolio, watchlist and feed are required")
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	if conf.AccountRefreshInterval <= 0 {
		conf.AccountRefreshInterval = time.Minute
	}
	if conf.QuotePollInterval <= 0 {
		conf.QuotePollInterval = quotes.DefaultPollInterval
	}

	return &Dashboard{
		session:         session,
		portfolio:       p,
		watchlist:       w,
		feed:            feed,
		server:          server,
		logger:          logger,
		accountInterval: conf.AccountRefreshInterval,
		quoteInterval:   conf.QuotePollInterval,
		now:             time.Now,
	}, nil
}

// Summary returns the current overview.
func (d *Dashboard) Summary() web.Summary {
	snapshot := d.portfolio.Snapshot()
	entries := d.watchlist.Entries()

	summary := web.Summary{
		Mode:          d.session.Mode(),
		Account:       snapshot.Account,
		Positions:     d.portfolio.Summary(),
		OpenOrders:    countOpen(snapshot.Orders),
		Watchlist:     entries,
		Indicators:    make(map[string]chart.Indicators),
		PnL:           make(map[string]chart.PnL),
		Notifications: d.feed.Active(),
		GeneratedAt:   d.now().UTC(),
	}
	if user, ok := d.session.User(); ok {
		summary.User = &user
	}

	for _, e := range entries {
		// short histories have no indicators yet
		if ind, err := chart.Latest(d.watchlist.History(e.Symbol), chart.DefaultEMAPeriod, chart.DefaultRSIPeriod); err == nil {
			summary.Indicators[e.Symbol] = ind
		}
		if e.Quote == nil {
			continue
		}
		if trades := chart.TradesFromOrders(snapshot.Orders, e.Symbol); len(trades) > 0 {
			summary.PnL[e.Symbol] = chart.CalculatePnL(trades, e.Quote.CurrentPrice)
		}
	}
	return summary
}

// Run executes the refresh loops and the web server until ctx is cancelled.
func (d *Dashboard) Run(ctx context.Context) error {
	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		return d.portfolio.Run(ctx, d.accountInterval)
	})
	g.Go(func() error {
		return d.watchlist.Run(ctx, d.quoteInterval)
	})
	if d.server != nil {
		g.Go(func() error {
			if err := d.server.Start(ctx); err != nil {
				return errors.Wrap(err, "web dashboard")
			}
			return nil
		})
	}

	d.logger.Info("dashboard started",
		zap.String("mode", d.session.Mode().String()),
		zap.Duration("account_interval", d.accountInterval),
		zap.Duration("quote_interval", d.quoteInterval))

	err := g.Wait()
	if errors.Is(err, context.Canceled) {
		d.logger.Info("context done, stopping dashboard")
		return nil
	}
	return err
}

func countOpen(orders []domain.Order) int {
	open := 0
	for _, o := range orders {
		if o.IsOpen() {
			open++
		}
	}
	return open
}
