package tui

import (
	"bytes"
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vadiminshakov/investorpro/internal/domain"
	"github.com/vadiminshakov/investorpro/internal/orderintake"
)

type fakeTicket struct {
	mu         sync.Mutex
	fields     []domain.DraftField
	draft      domain.OrderDraft
	validation domain.SymbolValidation
	canSubmit  bool
	submitted  bool
	mode       domain.TradingMode
}

func (f *fakeTicket) UpdateField(field domain.DraftField, value string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.fields = append(f.fields, field)
	return f.draft.Set(field, value)
}

func (f *fakeTicket) Validation() domain.SymbolValidation {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.validation
}

func (f *fakeTicket) setValidation(v domain.SymbolValidation) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.validation = v
}

func (f *fakeTicket) CanSubmit() bool { return f.canSubmit }

func (f *fakeTicket) Submit(_ context.Context, mode domain.TradingMode, _ orderintake.Confirmer) (domain.OrderReceipt, error) {
	f.submitted = true
	f.mode = mode
	return domain.OrderReceipt{ID: "o-1", OrderType: f.draft.OrderType}, nil
}

func TestTicketInput_Apply(t *testing.T) {
	t.Run("limit order sets every field", func(t *testing.T) {
		ft := &fakeTicket{draft: domain.NewOrderDraft()}
		in := TicketInput{Symbol: "aapl", Quantity: "10", Side: "sell", OrderType: "limit", LimitPrice: "250"}

		require.NoError(t, in.Apply(ft))
		assert.Equal(t, []domain.DraftField{
			domain.FieldSymbol, domain.FieldSide, domain.FieldOrderType, domain.FieldQuantity, domain.FieldLimitPrice,
		}, ft.fields)
		assert.Equal(t, "AAPL", ft.draft.Symbol)
		assert.Equal(t, domain.SideSell, ft.draft.Side)
		assert.Equal(t, "250", ft.draft.LimitPrice)
	})

	t.Run("market order skips limit price", func(t *testing.T) {
		ft := &fakeTicket{draft: domain.NewOrderDraft()}
		in := TicketInput{Symbol: "MSFT", Quantity: "1", Side: "buy", OrderType: "market", LimitPrice: "99"}

		require.NoError(t, in.Apply(ft))
		assert.NotContains(t, ft.fields, domain.FieldLimitPrice)
		assert.Empty(t, ft.draft.LimitPrice)
	})

	t.Run("unknown side is rejected", func(t *testing.T) {
		ft := &fakeTicket{draft: domain.NewOrderDraft()}
		err := TicketInput{Symbol: "MSFT", Side: "hold", OrderType: "market"}.Apply(ft)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "set side")
	})
}

func TestWaitValidation(t *testing.T) {
	ft := &fakeTicket{validation: domain.SymbolValidation{Valid: true, Pending: true}}

	go func() {
		time.Sleep(30 * time.Millisecond)
		ft.setValidation(domain.SymbolValidation{Valid: false, Message: "Symbol not found"})
	}()

	v := WaitValidation(context.Background(), ft, 5*time.Millisecond)
	assert.False(t, v.Pending)
	assert.False(t, v.Valid)
	assert.Equal(t, "Symbol not found", v.Message)
}

func TestWaitValidation_ContextDone(t *testing.T) {
	ft := &fakeTicket{validation: domain.SymbolValidation{Valid: true, Pending: true}}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	v := WaitValidation(ctx, ft, 5*time.Millisecond)
	assert.True(t, v.Pending)
}

func TestPlace(t *testing.T) {
	t.Run("incomplete ticket is not submitted", func(t *testing.T) {
		ft := &fakeTicket{draft: domain.NewOrderDraft(), validation: domain.SymbolValidation{Valid: false, Message: "Symbol not found"}}
		var out bytes.Buffer

		_, err := Place(context.Background(), &out, ft, TicketInput{Symbol: "ZZZZ", Quantity: "1", Side: "buy", OrderType: "market"}, domain.TradingModePaper, nil)
		assert.ErrorIs(t, err, ErrTicketIncomplete)
		assert.False(t, ft.submitted)
		assert.Contains(t, out.String(), "Symbol not found")
	})

	t.Run("complete ticket is submitted with mode", func(t *testing.T) {
		ft := &fakeTicket{draft: domain.NewOrderDraft(), validation: domain.SymbolValidation{Valid: true, Message: "AAPL is tradable"}, canSubmit: true}
		var out bytes.Buffer

		receipt, err := Place(context.Background(), &out, ft, TicketInput{Symbol: "AAPL", Quantity: "10", Side: "buy", OrderType: "market"}, domain.TradingModeLive, nil)
		require.NoError(t, err)
		assert.Equal(t, "o-1", receipt.ID)
		assert.True(t, ft.submitted)
		assert.Equal(t, domain.TradingModeLive, ft.mode)
		assert.Contains(t, out.String(), "Validating AAPL...")
	})
}

func TestPositiveNumber(t *testing.T) {
	assert.NoError(t, positiveNumber("250.5"))
	assert.Error(t, positiveNumber("0"))
	assert.Error(t, positiveNumber("-1"))
	assert.Error(t, positiveNumber("abc"))
}
