package session

import (
	"context"
	"net/http"
	"path/filepath"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vadiminshakov/investorpro/internal/clients"
	"github.com/vadiminshakov/investorpro/internal/domain"
	"github.com/vadiminshakov/investorpro/internal/storage/sessionfile"
)

type fakeAuth struct {
	token    string
	loginErr error
	meErr    error
	me       domain.User
	result   domain.AuthResult
	meToken  string
}

func (f *fakeAuth) Login(_ context.Context, email, _ string, _ bool) (domain.AuthResult, error) {
	if f.loginErr != nil {
		return domain.AuthResult{}, f.loginErr
	}
	res := f.result
	res.User.Email = email
	return res, nil
}

func (f *fakeAuth) Register(_ context.Context, email, _, fullName string) (domain.AuthResult, error) {
	res := f.result
	res.User.Email = email
	res.User.FullName = fullName
	return res, nil
}

func (f *fakeAuth) Me(context.Context) (domain.User, error) {
	f.meToken = f.token
	if f.meErr != nil {
		return domain.User{}, f.meErr
	}
	return f.me, nil
}

func (f *fakeAuth) SetToken(token string) { f.token = token }

func newStore(t *testing.T) *sessionfile.Store {
	t.Helper()
	store, err := sessionfile.NewStore(filepath.Join(t.TempDir(), "session.json"))
	require.NoError(t, err)
	return store
}

func TestManager_LoginRemember(t *testing.T) {
	auth := &fakeAuth{result: domain.AuthResult{AccessToken: "tok", User: domain.User{TradingMode: domain.TradingModeLive}}}
	store := newStore(t)
	m := NewManager(auth, store, "", nil)

	user, err := m.Login(context.Background(), "ann@example.com", "pw", true)
	require.NoError(t, err)
	assert.Equal(t, "ann@example.com", user.Email)
	assert.Equal(t, domain.TradingModeLive, m.Mode())
	assert.Equal(t, "tok", auth.token)
	assert.True(t, m.LoggedIn())

	state, err := store.Load()
	require.NoError(t, err)
	require.NotNil(t, state)
	assert.Equal(t, "tok", state.Token)
}

func TestManager_LoginWithoutRememberKeepsTokenInMemory(t *testing.T) {
	auth := &fakeAuth{result: domain.AuthResult{AccessToken: "fresh"}}
	store := newStore(t)
	require.NoError(t, store.Save(sessionfile.State{Token: "old"}))
	m := NewManager(auth, store, "", nil)

	_, err := m.Login(context.Background(), "ann@example.com", "pw", false)
	require.NoError(t, err)
	assert.Equal(t, "fresh", auth.token)
	assert.Equal(t, domain.TradingModePaper, m.Mode(), "missing mode defaults to paper")

	state, err := store.Load()
	require.NoError(t, err)
	assert.Nil(t, state)
}

func TestManager_LoginFailure(t *testing.T) {
	auth := &fakeAuth{loginErr: &clients.APIError{Status: http.StatusUnauthorized, Detail: "Incorrect email or password"}}
	m := NewManager(auth, newStore(t), "", nil)

	_, err := m.Login(context.Background(), "ann@example.com", "bad", true)
	require.Error(t, err)
	assert.False(t, m.LoggedIn())
	assert.Equal(t, "Incorrect email or password", FailureMessage(err, "Authentication failed"))
	assert.Equal(t, "Authentication failed", FailureMessage(errors.New("timeout"), "Authentication failed"))
}

func TestManager_Register(t *testing.T) {
	auth := &fakeAuth{result: domain.AuthResult{AccessToken: "reg"}}
	store := newStore(t)
	m := NewManager(auth, store, "", nil)

	user, err := m.Register(context.Background(), "bob@example.com", "pw", "Bob")
	require.NoError(t, err)
	assert.Equal(t, "Bob", user.FullName)

	state, err := store.Load()
	require.NoError(t, err)
	require.NotNil(t, state)
	assert.Equal(t, "reg", state.Token)
}

func TestManager_Restore(t *testing.T) {
	t.Run("no token", func(t *testing.T) {
		m := NewManager(&fakeAuth{}, newStore(t), "", nil)
		_, err := m.Restore(context.Background())
		assert.ErrorIs(t, err, ErrNotLoggedIn)
	})

	t.Run("stored token", func(t *testing.T) {
		auth := &fakeAuth{me: domain.User{Email: "ann@example.com", TradingMode: domain.TradingModeLive}}
		store := newStore(t)
		require.NoError(t, store.Save(sessionfile.State{Token: "saved"}))
		m := NewManager(auth, store, "", nil)

		user, err := m.Restore(context.Background())
		require.NoError(t, err)
		assert.Equal(t, "ann@example.com", user.Email)
		assert.Equal(t, "saved", auth.meToken)
		assert.Equal(t, domain.TradingModeLive, m.Mode())
	})

	t.Run("env token wins", func(t *testing.T) {
		auth := &fakeAuth{}
		store := newStore(t)
		require.NoError(t, store.Save(sessionfile.State{Token: "saved"}))
		m := NewManager(auth, store, "from-env", nil)

		_, err := m.Restore(context.Background())
		require.NoError(t, err)
		assert.Equal(t, "from-env", auth.meToken)
	})

	t.Run("rejected token is cleared", func(t *testing.T) {
		auth := &fakeAuth{meErr: &clients.APIError{Status: http.StatusUnauthorized}}
		store := newStore(t)
		require.NoError(t, store.Save(sessionfile.State{Token: "expired"}))
		m := NewManager(auth, store, "", nil)

		_, err := m.Restore(context.Background())
		assert.ErrorIs(t, err, ErrNotLoggedIn)
		assert.Empty(t, auth.token)

		state, err := store.Load()
		require.NoError(t, err)
		assert.Nil(t, state)
	})

	t.Run("service outage keeps token", func(t *testing.T) {
		auth := &fakeAuth{meErr: &clients.APIError{Status: http.StatusBadGateway}}
		store := newStore(t)
		require.NoError(t, store.Save(sessionfile.State{Token: "saved"}))
		m := NewManager(auth, store, "", nil)

		_, err := m.Restore(context.Background())
		require.Error(t, err)
		assert.NotErrorIs(t, err, ErrNotLoggedIn)

		state, err := store.Load()
		require.NoError(t, err)
		assert.NotNil(t, state)
	})
}

func TestManager_LogoutResetsMode(t *testing.T) {
	auth := &fakeAuth{result: domain.AuthResult{AccessToken: "tok", User: domain.User{TradingMode: domain.TradingModeLive}}}
	store := newStore(t)
	m := NewManager(auth, store, "", nil)

	_, err := m.Login(context.Background(), "ann@example.com", "pw", true)
	require.NoError(t, err)
	require.NoError(t, m.Logout())

	assert.False(t, m.LoggedIn())
	assert.Equal(t, domain.TradingModePaper, m.Mode())
	_, ok := m.User()
	assert.False(t, ok)
	assert.Empty(t, auth.token)

	state, err := store.Load()
	require.NoError(t, err)
	assert.Nil(t, state)
}
