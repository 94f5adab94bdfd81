// Package session owns the access token and the process-wide trading mode.
package session

import (
	"context"
	"sync"
	"time"

	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/vadiminshakov/investorpro/internal/clients"
	"github.com/vadiminshakov/investorpro/internal/domain"
	"github.com/vadiminshakov/investorpro/internal/storage/sessionfile"
)

// ErrNotLoggedIn is returned when no usable token is available.
var ErrNotLoggedIn = errors.New("not logged in")

type authService interface {
	Login(ctx context.Context, email, password string, rememberMe bool) (domain.AuthResult, error)
	Register(ctx context.Context, email, password, fullName string) (domain.AuthResult, error)
	Me(ctx context.Context) (domain.User, error)
	SetToken(token string)
}

type tokenStore interface {
	Load() (*sessionfile.State, error)
	Save(state sessionfile.State) error
	Clear() error
}

// Manager tracks the signed-in user. Remembered tokens go to the token store,
// others live in memory for the lifetime of the process.
type Manager struct {
	auth     authService
	store    tokenStore
	logger   *zap.Logger
	envToken string
	now      func() time.Time

	mu    sync.RWMutex
	user  *domain.User
	token string
	mode  domain.TradingMode
}

// NewManager creates a signed-out session. envToken, when set, is tried by Restore
// before the token store.
func NewManager(auth authService, store tokenStore, envToken string, logger *zap.Logger) *Manager {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Manager{
		auth:     auth,
		store:    store,
		logger:   logger,
		envToken: envToken,
		now:      time.Now,
		mode:     domain.TradingModePaper,
	}
}

// Login signs in. With remember the token survives restarts.
func (m *Manager) Login(ctx context.Context, email, password string, remember bool) (domain.User, error) {
	result, err := m.auth.Login(ctx, email, password, remember)
	if err != nil {
		return domain.User{}, errors.Wrap(err, "login")
	}

	if remember {
		if err := m.persist(result.AccessToken, result.User.Email); err != nil {
			return domain.User{}, err
		}
	} else if err := m.store.Clear(); err != nil {
		// a previously remembered token must not outlive this session
		m.logger.Warn("failed to clear remembered session", zap.Error(err))
	}

	m.apply(result.AccessToken, result.User)
	m.logger.Info("logged in", zap.String("email", result.User.Email), zap.Bool("remember", remember))
	return result.User, nil
}

// Register creates an account and signs it in persistently.
func (m *Manager) Register(ctx context.Context, email, password, fullName string) (domain.User, error) {
	result, err := m.auth.Register(ctx, email, password, fullName)
	if err != nil {
		return domain.User{}, errors.Wrap(err, "register")
	}
	if err := m.persist(result.AccessToken, result.User.Email); err != nil {
		return domain.User{}, err
	}

	m.apply(result.AccessToken, result.User)
	m.logger.Info("registered", zap.String("email", result.User.Email))
	return result.User, nil
}

// Restore resumes a previous session from the environment token or the token store.
// A token the service rejects is discarded.
func (m *Manager) Restore(ctx context.Context) (domain.User, error) {
	token, fromStore, err := m.storedToken()
	if err != nil {
		return domain.User{}, err
	}
	if token == "" {
		return domain.User{}, ErrNotLoggedIn
	}

	m.auth.SetToken(token)
	user, err := m.auth.Me(ctx)
	if err != nil {
		m.auth.SetToken("")
		if errors.Is(err, clients.ErrUnauthorized) {
			if fromStore {
				if clearErr := m.store.Clear(); clearErr != nil {
					m.logger.Warn("failed to clear rejected session", zap.Error(clearErr))
				}
			}
			return domain.User{}, errors.Wrap(ErrNotLoggedIn, "stored token rejected")
		}
		return domain.User{}, errors.Wrap(err, "restore session")
	}

	m.apply(token, user)
	return user, nil
}

// Logout forgets the token and resets the mode to paper.
func (m *Manager) Logout() error {
	m.mu.Lock()
	m.user = nil
	m.token = ""
	m.mode = domain.TradingModePaper
	m.mu.Unlock()

	m.auth.SetToken("")
	return m.store.Clear()
}

// User returns the signed-in user.
func (m *Manager) User() (domain.User, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.user == nil {
		return domain.User{}, false
	}
	return *m.user, true
}

// LoggedIn reports whether a token is held.
func (m *Manager) LoggedIn() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.token != ""
}

// Mode returns the current trading mode.
func (m *Manager) Mode() domain.TradingMode {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.mode
}

// SetMode records a mode confirmed by the service.
func (m *Manager) SetMode(mode domain.TradingMode) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.mode = mode
	if m.user != nil {
		m.user.TradingMode = mode
	}
}

func (m *Manager) storedToken() (string, bool, error) {
	if m.envToken != "" {
		return m.envToken, false, nil
	}
	state, err := m.store.Load()
	if err != nil {
		return "", false, errors.Wrap(err, "load session")
	}
	if state == nil {
		return "", false, nil
	}
	return state.Token, true, nil
}

func (m *Manager) persist(token, email string) error {
	err := m.store.Save(sessionfile.State{Token: token, Email: email, SavedAt: m.now().UTC()})
	return errors.Wrap(err, "remember session")
}

func (m *Manager) apply(token string, user domain.User) {
	mode, err := domain.ParseTradingMode(user.TradingMode.String())
	if err != nil {
		m.logger.Warn("unknown trading mode from service, using paper", zap.String("mode", user.TradingMode.String()))
		mode = domain.TradingModePaper
	}
	user.TradingMode = mode

	m.mu.Lock()
	m.user = &user
	m.token = token
	m.mode = mode
	m.mu.Unlock()

	m.auth.SetToken(token)
}

// FailureMessage renders an authentication error for the user.
func FailureMessage(err error, fallback string) string {
	if detail := clients.Detail(err); detail != "" {
		return detail
	}
	return fallback
}
