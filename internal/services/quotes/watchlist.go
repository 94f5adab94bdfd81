// Package quotes polls real-time quotes for the watchlist.
package quotes

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/vadiminshakov/investorpro/internal/domain"
)

const (
	// DefaultPollInterval is how often every watchlist quote is refreshed.
	DefaultPollInterval = 30 * time.Second
	// DefaultHistorySize bounds the per-symbol price history.
	DefaultHistorySize = 240

	msgQuoteFailed  = "Failed to fetch quote"
	maxParallelPoll = 4
)

// DefaultSymbols is the watchlist of a new user.
var DefaultSymbols = []string{"AAPL", "GOOGL", "MSFT", "TSLA"}

type quoteService interface {
	GetQuote(ctx context.Context, symbol string) (domain.Quote, error)
}

type notifier interface {
	Notify(message string, kind domain.NotificationKind)
}

// Entry is the display state of one watched symbol.
type Entry struct {
	Symbol string        `json:"symbol"`
	Quote  *domain.Quote `json:"quote,omitempty"`
	// Error is set when the latest fetch failed; Quote then holds the last good value.
	Error     string    `json:"error,omitempty"`
	UpdatedAt time.Time `json:"updated_at,omitempty"`
}

// Watchlist tracks symbols and their latest quotes.
type Watchlist struct {
	service     quoteService
	notifier    notifier
	logger      *zap.Logger
	historySize int
	now         func() time.Time

	mu      sync.RWMutex
	symbols []string
	entries map[string]*Entry
	history map[string][]domain.PricePoint
}

// NewWatchlist creates a watchlist seeded with symbols. n, when not nil, is told
// about symbols added or removed later.
func NewWatchlist(service quoteService, symbols []string, n notifier, logger *zap.Logger) *Watchlist {
	if logger == nil {
		logger = zap.NewNop()
	}
	w := &Watchlist{
		service:     service,
		logger:      logger,
		historySize: DefaultHistorySize,
		now:         time.Now,
		entries:     make(map[string]*Entry),
		history:     make(map[string][]domain.PricePoint),
	}
	for _, s := range symbols {
		w.add(domain.NormalizeSymbol(s))
	}
	w.notifier = n
	return w
}

// Add watches symbol. It reports false for an empty or already watched symbol.
func (w *Watchlist) Add(symbol string) bool {
	symbol = domain.NormalizeSymbol(symbol)
	if !w.add(symbol) {
		return false
	}
	if w.notifier != nil {
		w.notifier.Notify(symbol+" added to watchlist", domain.NotificationSuccess)
	}
	return true
}

func (w *Watchlist) add(symbol string) bool {
	if symbol == "" {
		return false
	}

	w.mu.Lock()
	defer w.mu.Unlock()

	if _, ok := w.entries[symbol]; ok {
		return false
	}
	w.symbols = append(w.symbols, symbol)
	w.entries[symbol] = &Entry{Symbol: symbol}
	return true
}

// Remove stops watching symbol and drops its history.
func (w *Watchlist) Remove(symbol string) bool {
	symbol = domain.NormalizeSymbol(symbol)

	w.mu.Lock()
	if _, ok := w.entries[symbol]; !ok {
		w.mu.Unlock()
		return false
	}
	delete(w.entries, symbol)
	delete(w.history, symbol)
	for i, s := range w.symbols {
		if s == symbol {
			w.symbols = append(w.symbols[:i], w.symbols[i+1:]...)
			break
		}
	}
	w.mu.Unlock()

	if w.notifier != nil {
		w.notifier.Notify(symbol+" removed from watchlist", domain.NotificationInfo)
	}
	return true
}

// Symbols returns the watched symbols in insertion order.
func (w *Watchlist) Symbols() []string {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return append([]string(nil), w.symbols...)
}

// Entries returns the display state of every watched symbol.
func (w *Watchlist) Entries() []Entry {
	w.mu.RLock()
	defer w.mu.RUnlock()

	out := make([]Entry, 0, len(w.symbols))
	for _, s := range w.symbols {
		e := *w.entries[s]
		if e.Quote != nil {
			q := *e.Quote
			e.Quote = &q
		}
		out = append(out, e)
	}
	return out
}

// History returns the observed prices of symbol, oldest first.
func (w *Watchlist) History(symbol string) []domain.PricePoint {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return append([]domain.PricePoint(nil), w.history[domain.NormalizeSymbol(symbol)]...)
}

// Poll fetches every watched quote. Fetches are independent: one failing
// symbol never affects another.
func (w *Watchlist) Poll(ctx context.Context) {
	symbols := w.Symbols()

	var g errgroup.Group
	g.SetLimit(maxParallelPoll)
	for _, symbol := range symbols {
		g.Go(func() error {
			quote, err := w.service.GetQuote(ctx, symbol)
			w.apply(symbol, quote, err)
			return nil
		})
	}
	_ = g.Wait()
}

func (w *Watchlist) apply(symbol string, quote domain.Quote, err error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	entry, ok := w.entries[symbol]
	if !ok {
		// removed while the fetch was in flight
		return
	}

	if err != nil {
		w.logger.Warn("failed to fetch quote", zap.String("symbol", symbol), zap.Error(err))
		entry.Error = msgQuoteFailed
		return
	}

	now := w.now()
	if quote.Symbol == "" {
		quote.Symbol = symbol
	}
	entry.Quote = &quote
	entry.Error = ""
	entry.UpdatedAt = now

	history := append(w.history[symbol], domain.PricePoint{Time: now, Price: quote.CurrentPrice})
	if len(history) > w.historySize {
		history = append([]domain.PricePoint(nil), history[len(history)-w.historySize:]...)
	}
	w.history[symbol] = history
}

// Run polls immediately and then every interval until ctx is cancelled.
func (w *Watchlist) Run(ctx context.Context, interval time.Duration) error {
	if interval <= 0 {
		interval = DefaultPollInterval
	}

	w.Poll(ctx)

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			w.Poll(ctx)
		}
	}
}
