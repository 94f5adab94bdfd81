package clients

import (
	"context"
	"net/http"

	"github.com/vadiminshakov/investorpro/internal/domain"
)

type loginRequest struct {
	Email      string `json:"email"`
	Password   string `json:"password"`
	RememberMe bool   `json:"remember_me"`
}

type registerRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	FullName string `json:"full_name"`
}

type switchModeRequest struct {
	TradingMode domain.TradingMode `json:"trading_mode"`
}

type availableAccountsResponse struct {
	AvailableAccounts []domain.BrokerAccount `json:"available_accounts"`
}

// Login exchanges credentials for an access token. It does not change the client token.
func (c *BackendClient) Login(ctx context.Context, email, password string, rememberMe bool) (domain.AuthResult, error) {
	var result domain.AuthResult
	err := c.do(ctx, http.MethodPost, "/api/auth/login", nil, loginRequest{
		Email:      email,
		Password:   password,
		RememberMe: rememberMe,
	}, &result)
	return result, err
}

// Register creates a user account.
func (c *BackendClient) Register(ctx context.Context, email, password, fullName string) (domain.AuthResult, error) {
	var result domain.AuthResult
	err := c.do(ctx, http.MethodPost, "/api/auth/register", nil, registerRequest{
		Email:    email,
		Password: password,
		FullName: fullName,
	}, &result)
	return result, err
}

// Me returns the authenticated user.
func (c *BackendClient) Me(ctx context.Context) (domain.User, error) {
	var user domain.User
	err := c.do(ctx, http.MethodGet, "/api/auth/me", nil, nil, &user)
	return user, err
}

// AvailableAccounts lists the brokerage accounts the user can trade with.
func (c *BackendClient) AvailableAccounts(ctx context.Context) ([]domain.BrokerAccount, error) {
	var resp availableAccountsResponse
	if err := c.do(ctx, http.MethodGet, "/api/auth/available-accounts", nil, nil, &resp); err != nil {
		return nil, err
	}
	return resp.AvailableAccounts, nil
}

// SwitchTradingMode changes the server-side trading mode of the user.
func (c *BackendClient) SwitchTradingMode(ctx context.Context, mode domain.TradingMode) (domain.ModeSwitchResult, error) {
	var result domain.ModeSwitchResult
	err := c.do(ctx, http.MethodPost, "/api/auth/switch-trading-mode", nil, switchModeRequest{TradingMode: mode}, &result)
	return result, err
}
