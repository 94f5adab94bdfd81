package tui

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/charmbracelet/huh"
	"github.com/pkg/errors"
	"github.com/shopspring/decimal"

	"github.com/vadiminshakov/investorpro/internal/domain"
	"github.com/vadiminshakov/investorpro/internal/orderintake"
)

// ErrTicketIncomplete is returned when the ticket cannot be submitted yet.
var ErrTicketIncomplete = errors.New("order ticket is incomplete")

const validationWait = 10 * time.Second

type ticket interface {
	UpdateField(field domain.DraftField, value string) error
	Validation() domain.SymbolValidation
	CanSubmit() bool
	Submit(ctx context.Context, mode domain.TradingMode, confirmer orderintake.Confirmer) (domain.OrderReceipt, error)
}

// TicketInput is the raw order ticket as typed into the form.
type TicketInput struct {
	Symbol     string
	Quantity   string
	Side       string
	OrderType  string
	LimitPrice string
}

// Apply feeds every field into the ticket in the order the form shows them.
// The order type goes before the limit price so a market order drops it.
func (in TicketInput) Apply(t ticket) error {
	fields := []struct {
		field domain.DraftField
		value string
	}{
		{domain.FieldSymbol, in.Symbol},
		{domain.FieldSide, in.Side},
		{domain.FieldOrderType, in.OrderType},
		{domain.FieldQuantity, in.Quantity},
		{domain.FieldLimitPrice, in.LimitPrice},
	}
	for _, f := range fields {
		if f.field == domain.FieldLimitPrice && in.OrderType != domain.OrderTypeLimit.String() {
			continue
		}
		if err := t.UpdateField(f.field, f.value); err != nil {
			return errors.Wrapf(err, "set %s", f.field)
		}
	}
	return nil
}

// WaitValidation blocks until the symbol lookup settles, ctx ends or the wait times out.
func WaitValidation(ctx context.Context, t ticket, poll time.Duration) domain.SymbolValidation {
	if poll <= 0 {
		poll = 50 * time.Millisecond
	}
	ctx, cancel := context.WithTimeout(ctx, validationWait)
	defer cancel()

	ticker := time.NewTicker(poll)
	defer ticker.Stop()

	for {
		v := t.Validation()
		if !v.Pending {
			return v
		}
		select {
		case <-ctx.Done():
			return v
		case <-ticker.C:
		}
	}
}

// Place validates the ticket and submits it. Service and local failures have
// already been reported to the notifier when an error is returned.
func Place(ctx context.Context, out io.Writer, t ticket, in TicketInput, mode domain.TradingMode, confirmer orderintake.Confirmer) (domain.OrderReceipt, error) {
	if err := in.Apply(t); err != nil {
		return domain.OrderReceipt{}, err
	}

	fmt.Fprintln(out, mutedStyle.Render("Validating "+domain.NormalizeSymbol(in.Symbol)+"..."))
	v := WaitValidation(ctx, t, 0)
	if v.Message != "" {
		style := successStyle
		if !v.Valid {
			style = errorStyle
		}
		fmt.Fprintln(out, style.Render(v.Message))
	}

	if !t.CanSubmit() {
		return domain.OrderReceipt{}, ErrTicketIncomplete
	}
	return t.Submit(ctx, mode, confirmer)
}

// RunOrderTicket shows the order form and places the order.
func RunOrderTicket(ctx context.Context, out io.Writer, t ticket, mode domain.TradingMode, prefill TicketInput) (domain.OrderReceipt, error) {
	in := prefill
	if in.Side == "" {
		in.Side = domain.SideBuy.String()
	}
	if in.OrderType == "" {
		in.OrderType = domain.OrderTypeMarket.String()
	}

	clearScreen(out)
	fmt.Fprintf(out, "%s %s\n", Header("ORDER TICKET"), ModeBadge(mode))

	err := huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Symbol").
				Description("Ticker, e.g. AAPL").
				Value(&in.Symbol).
				Validate(required("symbol")),
			huh.NewSelect[string]().
				Title("Side").
				Options(
					huh.NewOption("Buy", domain.SideBuy.String()),
					huh.NewOption("Sell", domain.SideSell.String()),
				).
				Value(&in.Side),
			huh.NewSelect[string]().
				Title("Order type").
				Options(
					huh.NewOption("Market", domain.OrderTypeMarket.String()),
					huh.NewOption("Limit", domain.OrderTypeLimit.String()),
				).
				Value(&in.OrderType),
			huh.NewInput().
				Title("Quantity").
				Description("Number of shares").
				Value(&in.Quantity).
				Validate(required("quantity")),
		),
	).RunWithContext(ctx)
	if err != nil {
		return domain.OrderReceipt{}, err
	}

	if in.OrderType == domain.OrderTypeLimit.String() {
		err = huh.NewForm(
			huh.NewGroup(
				huh.NewInput().
					Title("Limit price").
					Description("Price per share in USD").
					Value(&in.LimitPrice).
					Validate(positiveNumber),
			),
		).RunWithContext(ctx)
		if err != nil {
			return domain.OrderReceipt{}, err
		}
	}

	return Place(ctx, out, t, in, mode, HuhConfirmer{})
}

func required(name string) func(string) error {
	return func(s string) error {
		if s == "" {
			return fmt.Errorf("%s cannot be empty", name)
		}
		return nil
	}
}

func positiveNumber(s string) error {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return fmt.Errorf("must be a valid number")
	}
	if !d.IsPositive() {
		return fmt.Errorf("must be greater than 0")
	}
	return nil
}
