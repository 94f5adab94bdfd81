package clients

import (
	"context"
	"net/http"
	"net/url"

	"github.com/pkg/errors"
	"github.com/vadiminshakov/investorpro/internal/domain"
)

type addKeyRequest struct {
	Provider    string             `json:"provider"`
	APIKey      string             `json:"api_key"`
	SecretKey   string             `json:"secret_key"`
	Environment domain.TradingMode `json:"environment"`
}

// ListKeys returns the registered brokerage keys. Secrets are never returned.
func (c *BackendClient) ListKeys(ctx context.Context) ([]domain.APIKey, error) {
	var keys []domain.APIKey
	if err := c.do(ctx, http.MethodGet, "/api/keys/list", nil, nil, &keys); err != nil {
		return nil, err
	}
	return keys, nil
}

// AddKey registers a brokerage key pair.
func (c *BackendClient) AddKey(ctx context.Context, key domain.APIKey) error {
	if key.APIKey == "" || key.SecretKey == "" {
		return errors.New("api key and secret key are required")
	}
	if key.Provider == "" {
		key.Provider = domain.DefaultKeyProvider
	}
	if !key.Environment.IsValid() {
		key.Environment = domain.TradingModePaper
	}
	return c.do(ctx, http.MethodPost, "/api/keys/add", nil, addKeyRequest{
		Provider:    key.Provider,
		APIKey:      key.APIKey,
		SecretKey:   key.SecretKey,
		Environment: key.Environment,
	}, nil)
}

// DeleteKey removes a registered key.
func (c *BackendClient) DeleteKey(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, "/api/keys/"+url.PathEscape(id), nil, nil, nil)
}
