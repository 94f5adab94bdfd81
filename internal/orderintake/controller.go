// Package orderintake turns raw order ticket input into validated order requests.
//
// The Controller owns one ticket: it merges field edits into a draft, validates the
// symbol against the service after a quiet period, enforces local checks before any
// network call and gates real-money orders behind an explicit confirmation.
package orderintake

import (
	"context"
	"sync"
	"time"

	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/vadiminshakov/investorpro/internal/clients"
	"github.com/vadiminshakov/investorpro/internal/domain"
)

// DefaultDebounce is the symbol field quiet period before a validation request is issued.
const DefaultDebounce = 500 * time.Millisecond

var (
	ErrInvalidLimitPrice = errors.New(msgInvalidLimitPrice)
	ErrSymbolNotTradable = errors.New("symbol is not tradable")
	ErrInvalidQuantity   = errors.New(msgInvalidQuantity)
	ErrCancelled         = errors.New("order cancelled by user")
	ErrSubmitInProgress  = errors.New("order submission already in progress")
	ErrClosed            = errors.New("order ticket is closed")
)

// Service is the part of the Market/Account Service the ticket needs.
type Service interface {
	ValidateSymbol(ctx context.Context, symbol string) (domain.SymbolCheck, error)
	PlaceOrder(ctx context.Context, req domain.OrderRequest) (domain.OrderReceipt, error)
}

// Refresher reloads account, positions and orders after a placed order.
type Refresher interface {
	Refresh(ctx context.Context)
	AccountLoaded() bool
}

// Notifier receives user-facing messages. Delivery is fire-and-forget.
type Notifier interface {
	Notify(message string, kind domain.NotificationKind)
}

// Confirmer asks the user an explicit yes/no question.
type Confirmer interface {
	Confirm(prompt string) bool
}

// ConfirmFunc adapts a plain function to the Confirmer interface.
type ConfirmFunc func(prompt string) bool

// Confirm calls f(prompt).
func (f ConfirmFunc) Confirm(prompt string) bool {
	return f(prompt)
}

// State is the lifecycle phase of the ticket.
type State int

const (
	StateIdle State = iota
	StateEditing
	StateValidating
	StateSubmitting
)

// String returns the string representation of the state.
func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateEditing:
		return "editing"
	case StateValidating:
		return "validating"
	case StateSubmitting:
		return "submitting"
	default:
		return "unknown"
	}
}

// Controller owns the draft and symbol validation state of one order ticket.
type Controller struct {
	service   Service
	refresher Refresher
	notifier  Notifier
	logger    *zap.Logger
	scheduler Scheduler
	debounce  time.Duration

	mu         sync.Mutex
	draft      domain.OrderDraft
	validation domain.SymbolValidation
	// generation increments on every symbol change; validation results
	// tagged with an older generation are discarded on arrival.
	generation uint64
	timer      Timer
	submitting bool
	closed     bool
}

// Option configures the Controller.
type Option func(*Controller)

// WithDebounce sets the symbol validation quiet period.
func WithDebounce(d time.Duration) Option {
	return func(c *Controller) {
		if d > 0 {
			c.debounce = d
		}
	}
}

// WithScheduler replaces the timer source.
func WithScheduler(s Scheduler) Option {
	return func(c *Controller) {
		if s != nil {
			c.scheduler = s
		}
	}
}

// WithLogger sets the logger.
func WithLogger(logger *zap.Logger) Option {
	return func(c *Controller) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// NewController creates a ticket with an empty draft.
func NewController(service Service, refresher Refresher, notifier Notifier, opts ...Option) (*Controller, error) {
	if service == nil {
		return nil, errors.New("service is required for order ticket")
	}
	if refresher == nil {
		return nil, errors.New("refresher is required for order ticket")
	}
	if notifier == nil {
		return nil, errors.New("notifier is required for order ticket")
	}

	c := &Controller{
		service:    service,
		refresher:  refresher,
		notifier:   notifier,
		logger:     zap.NewNop(),
		scheduler:  clockScheduler{},
		debounce:   DefaultDebounce,
		draft:      domain.NewOrderDraft(),
		validation: domain.EmptySymbolValidation(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// Draft returns a copy of the current draft.
func (c *Controller) Draft() domain.OrderDraft {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.draft
}

// Validation returns a copy of the current symbol validation state.
func (c *Controller) Validation() domain.SymbolValidation {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.validation
}

// State returns the current lifecycle phase.
func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	switch {
	case c.submitting:
		return StateSubmitting
	case c.validation.Pending:
		return StateValidating
	case c.draft == domain.NewOrderDraft():
		return StateIdle
	default:
		return StateEditing
	}
}

// UpdateField merges one raw field value into the draft. A changed symbol
// (re)arms the validation timer; no network call is made here.
func (c *Controller) UpdateField(field domain.DraftField, value string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return ErrClosed
	}

	previous := c.draft.Symbol
	if err := c.draft.Set(field, value); err != nil {
		return err
	}
	if c.draft.Symbol != previous {
		c.symbolChangedLocked()
	}
	return nil
}

// symbolChangedLocked cancels the armed timer and schedules validation for the new symbol.
func (c *Controller) symbolChangedLocked() {
	c.generation++
	if c.timer != nil {
		c.timer.Stop()
		c.timer = nil
	}

	symbol := c.draft.Symbol
	if symbol == "" {
		c.validation = domain.EmptySymbolValidation()
		return
	}

	// no completed lookup exists yet for this symbol
	c.validation = domain.SymbolValidation{Valid: true, Pending: true}

	gen := c.generation
	c.timer = c.scheduler.AfterFunc(c.debounce, func() {
		c.validate(gen, symbol)
	})
}

func (c *Controller) validate(gen uint64, symbol string) {
	c.mu.Lock()
	if c.closed || gen != c.generation {
		c.mu.Unlock()
		return
	}
	c.timer = nil
	c.mu.Unlock()

	check, err := c.service.ValidateSymbol(context.Background(), symbol)

	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed || gen != c.generation || c.draft.Symbol != symbol {
		c.logger.Debug("discarding stale symbol validation",
			zap.String("symbol", symbol),
			zap.String("current", c.draft.Symbol))
		return
	}

	if err != nil {
		c.logger.Warn("symbol validation failed", zap.String("symbol", symbol), zap.Error(err))
		c.validation = domain.SymbolValidation{Valid: false, Message: msgValidationUnavailable}
		return
	}

	c.validation = domain.SymbolValidation{Valid: check.Tradable, Message: check.Message}
}

// CanSubmit reports whether the ticket is complete enough to be submitted.
func (c *Controller) CanSubmit() bool {
	c.mu.Lock()
	draft := c.draft
	valid := c.validation.Valid
	c.mu.Unlock()

	return c.refresher.AccountLoaded() &&
		valid &&
		draft.Symbol != "" &&
		draft.Quantity != "" &&
		(draft.OrderType == domain.OrderTypeMarket || draft.LimitPrice != "")
}

// Submit runs the local checks, asks for confirmation in live mode and places the order.
// Local rejections and service failures are reported to the notifier and returned;
// a declined confirmation returns ErrCancelled without a notification.
func (c *Controller) Submit(ctx context.Context, mode domain.TradingMode, confirmer Confirmer) (domain.OrderReceipt, error) {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return domain.OrderReceipt{}, ErrClosed
	}
	if c.submitting {
		c.mu.Unlock()
		return domain.OrderReceipt{}, ErrSubmitInProgress
	}
	c.submitting = true
	draft := c.draft
	validation := c.validation
	c.mu.Unlock()

	defer func() {
		c.mu.Lock()
		c.submitting = false
		c.mu.Unlock()
	}()

	req, err := c.checkLocal(draft, validation)
	if err != nil {
		return domain.OrderReceipt{}, err
	}

	if mode == domain.TradingModeLive {
		if confirmer == nil || !confirmer.Confirm(ConfirmationPrompt(draft)) {
			c.logger.Info("live order declined", zap.String("symbol", req.Symbol))
			return domain.OrderReceipt{}, ErrCancelled
		}
	}

	receipt, err := c.service.PlaceOrder(ctx, req)
	if err != nil {
		c.logger.Error("order placement failed",
			zap.String("symbol", req.Symbol),
			zap.String("side", req.Side.String()),
			zap.String("mode", mode.String()),
			zap.Error(err))
		c.notifier.Notify(failureMessage(err), domain.NotificationError)
		return domain.OrderReceipt{}, errors.Wrap(err, "place order")
	}

	c.reset()

	c.logger.Info("order placed",
		zap.String("symbol", req.Symbol),
		zap.String("side", req.Side.String()),
		zap.String("type", req.OrderType.String()),
		zap.String("quantity", req.Quantity.String()),
		zap.String("mode", mode.String()))
	c.notifier.Notify(successMessage(req, receipt), domain.NotificationSuccess)

	c.refresher.Refresh(ctx)

	return receipt, nil
}

// checkLocal applies the client-side checks in order and builds the request.
func (c *Controller) checkLocal(draft domain.OrderDraft, validation domain.SymbolValidation) (domain.OrderRequest, error) {
	var limitPrice *decimal.Decimal
	if draft.OrderType == domain.OrderTypeLimit {
		price, ok := parsePositive(draft.LimitPrice)
		if !ok {
			c.notifier.Notify(msgInvalidLimitPrice, domain.NotificationError)
			return domain.OrderRequest{}, ErrInvalidLimitPrice
		}
		limitPrice = &price
	}

	if !validation.Valid {
		message := validation.Message
		if message == "" {
			message = msgSymbolNotTradable
		}
		c.notifier.Notify(message, domain.NotificationError)
		return domain.OrderRequest{}, errors.Wrap(ErrSymbolNotTradable, message)
	}

	quantity, ok := parsePositive(draft.Quantity)
	if !ok {
		c.notifier.Notify(msgInvalidQuantity, domain.NotificationError)
		return domain.OrderRequest{}, ErrInvalidQuantity
	}

	return domain.OrderRequest{
		Symbol:     domain.NormalizeSymbol(draft.Symbol),
		Quantity:   quantity,
		Side:       draft.Side,
		OrderType:  draft.OrderType,
		LimitPrice: limitPrice,
	}, nil
}

// reset clears the draft after a placed order.
func (c *Controller) reset() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.generation++
	if c.timer != nil {
		c.timer.Stop()
		c.timer = nil
	}
	c.draft = domain.NewOrderDraft()
	c.validation = domain.EmptySymbolValidation()
}

// Close stops the pending validation timer; results still in flight are ignored.
func (c *Controller) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.closed = true
	c.generation++
	if c.timer != nil {
		c.timer.Stop()
		c.timer = nil
	}
}

func parsePositive(raw string) (decimal.Decimal, bool) {
	if raw == "" {
		return decimal.Zero, false
	}
	d, err := decimal.NewFromString(raw)
	if err != nil || !d.IsPositive() {
		return decimal.Zero, false
	}
	return d, true
}

func failureMessage(err error) string {
	detail := clients.Detail(err)
	if detail == "" {
		detail = msgServiceUnavailable
	}
	return "Order failed: " + detail
}

func successMessage(req domain.OrderRequest, receipt domain.OrderReceipt) string {
	if receipt.OrderType.IsValid() {
		req.OrderType = receipt.OrderType
	}
	return "Order placed successfully: " + req.Describe()
}
