package clients

import (
	"context"
	"net/http"
	"net/url"

	"github.com/vadiminshakov/investorpro/internal/domain"
)

type searchResponse struct {
	Results []domain.StockMatch `json:"results"`
}

type newsResponse struct {
	News []domain.NewsArticle `json:"news"`
}

type newsSearchRequest struct {
	Query    string `json:"query"`
	Category string `json:"category"`
}

// SearchStocks looks up symbols matching query.
func (c *BackendClient) SearchStocks(ctx context.Context, query string) ([]domain.StockMatch, error) {
	var resp searchResponse
	if err := c.do(ctx, http.MethodGet, "/api/stocks/search", url.Values{"q": {query}}, nil, &resp); err != nil {
		return nil, err
	}
	return resp.Results, nil
}

// GetQuote returns the latest quote for symbol.
func (c *BackendClient) GetQuote(ctx context.Context, symbol string) (domain.Quote, error) {
	var quote domain.Quote
	err := c.do(ctx, http.MethodGet, "/api/stocks/quote/"+url.PathEscape(symbol), nil, nil, &quote)
	return quote, err
}

// MarketNews returns general market news for a category.
func (c *BackendClient) MarketNews(ctx context.Context, category string) ([]domain.NewsArticle, error) {
	var query url.Values
	if category != "" {
		query = url.Values{"category": {category}}
	}
	var resp newsResponse
	if err := c.do(ctx, http.MethodGet, "/api/news/market", query, nil, &resp); err != nil {
		return nil, err
	}
	return resp.News, nil
}

// WatchlistNews returns news related to the user's watchlist.
func (c *BackendClient) WatchlistNews(ctx context.Context) ([]domain.NewsArticle, error) {
	var resp newsResponse
	if err := c.do(ctx, http.MethodGet, "/api/news/watchlist", nil, nil, &resp); err != nil {
		return nil, err
	}
	return resp.News, nil
}

// SearchNews runs a free-text news search.
func (c *BackendClient) SearchNews(ctx context.Context, query, category string) ([]domain.NewsArticle, error) {
	var resp newsResponse
	if err := c.do(ctx, http.MethodPost, "/api/news/search", nil, newsSearchRequest{Query: query, Category: category}, &resp); err != nil {
		return nil, err
	}
	return resp.News, nil
}

// ExportTradingData downloads the trading history in the given format (xlsx or csv).
func (c *BackendClient) ExportTradingData(ctx context.Context, format string) ([]byte, error) {
	return c.doRaw(ctx, http.MethodGet, "/api/export/trading-data", url.Values{"format": {format}}, nil)
}
