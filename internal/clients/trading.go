package clients

import (
	"context"
	"net/http"
	"net/url"

	"github.com/vadiminshakov/investorpro/internal/domain"
)

// ValidateSymbol asks the service whether symbol is currently tradable.
func (c *BackendClient) ValidateSymbol(ctx context.Context, symbol string) (domain.SymbolCheck, error) {
	var check domain.SymbolCheck
	err := c.do(ctx, http.MethodGet, "/api/trading/validate-symbol/"+url.PathEscape(symbol), nil, nil, &check)
	return check, err
}

// GetAccount returns the account snapshot of the active trading mode.
func (c *BackendClient) GetAccount(ctx context.Context) (domain.AccountSnapshot, error) {
	var account domain.AccountSnapshot
	err := c.do(ctx, http.MethodGet, "/api/trading/account", nil, nil, &account)
	return account, err
}

// GetPositions returns open positions.
func (c *BackendClient) GetPositions(ctx context.Context) ([]domain.Position, error) {
	var positions []domain.Position
	if err := c.do(ctx, http.MethodGet, "/api/trading/positions", nil, nil, &positions); err != nil {
		return nil, err
	}
	return positions, nil
}

type ordersResponse struct {
	Orders []domain.Order `json:"orders"`
}

// GetOrders returns recent orders.
func (c *BackendClient) GetOrders(ctx context.Context) ([]domain.Order, error) {
	var resp ordersResponse
	if err := c.do(ctx, http.MethodGet, "/api/trading/orders", nil, nil, &resp); err != nil {
		return nil, err
	}
	return resp.Orders, nil
}

// PlaceOrder submits an order. Rejections come back as *APIError carrying the service detail.
func (c *BackendClient) PlaceOrder(ctx context.Context, req domain.OrderRequest) (domain.OrderReceipt, error) {
	var receipt domain.OrderReceipt
	err := c.do(ctx, http.MethodPost, "/api/trading/orders", nil, req, &receipt)
	return receipt, err
}
