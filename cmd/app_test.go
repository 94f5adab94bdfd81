package main

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/vadiminshakov/investorpro/config"
)

func newTestApp(t *testing.T, backend http.HandlerFunc) (*app, *bytes.Buffer) {
	t.Helper()

	conf := config.Default()
	conf.SessionFile = filepath.Join(t.TempDir(), "session.json")
	conf.WALDir = t.TempDir()
	conf.Token = "env-token"
	if backend != nil {
		srv := httptest.NewServer(backend)
		t.Cleanup(srv.Close)
		conf.BackendURL = srv.URL
	}

	var out bytes.Buffer
	a, err := newApp(conf, zap.NewNop(), &out)
	require.NoError(t, err)
	return a, &out
}

func TestRun_UnknownCommand(t *testing.T) {
	a, out := newTestApp(t, nil)

	err := a.run(context.Background(), []string{"frobnicate"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), `unknown command "frobnicate"`)
	assert.Contains(t, out.String(), "usage: investorpro")

	assert.Error(t, a.run(context.Background(), nil))
	assert.NoError(t, a.run(context.Background(), []string{"help"}))
}

func TestRun_ArgumentErrors(t *testing.T) {
	a, _ := newTestApp(t, nil)
	ctx := context.Background()

	assert.EqualError(t, a.run(ctx, []string{"search"}), "usage: search <query>")
	assert.EqualError(t, a.run(ctx, []string{"export", "pdf"}), `unsupported export format "pdf"`)
}

func TestRun_Search(t *testing.T) {
	a, out := newTestApp(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer env-token", r.Header.Get("Authorization"))
		switch r.URL.Path {
		case "/api/auth/me":
			_, _ = io.WriteString(w, `{"email":"ann@example.com","full_name":"Ann","trading_mode":"paper"}`)
		case "/api/stocks/search":
			_, _ = io.WriteString(w, `{"results":[{"symbol":"AAPL","description":"Apple Inc"}]}`)
		default:
			http.NotFound(w, r)
		}
	})

	require.NoError(t, a.run(context.Background(), []string{"search", "apple"}))
	assert.Contains(t, out.String(), "AAPL")
	assert.Contains(t, out.String(), "Apple Inc")
}

func TestRun_Export(t *testing.T) {
	a, out := newTestApp(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/auth/me":
			_, _ = io.WriteString(w, `{"email":"ann@example.com"}`)
		case "/api/export/trading-data":
			assert.Equal(t, "csv", r.URL.Query().Get("format"))
			_, _ = io.WriteString(w, "symbol,qty\nAAPL,10\n")
		default:
			http.NotFound(w, r)
		}
	})

	target := filepath.Join(t.TempDir(), "out.csv")
	require.NoError(t, a.run(context.Background(), []string{"export", "csv", "-o", target}))

	data, err := os.ReadFile(target)
	require.NoError(t, err)
	assert.Equal(t, "symbol,qty\nAAPL,10\n", string(data))
	assert.Contains(t, out.String(), "Exported trading data to "+target)
}

func TestRun_RejectedTokenAsksForLogin(t *testing.T) {
	a, _ := newTestApp(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = io.WriteString(w, `{"detail":"Could not validate credentials"}`)
	})

	err := a.run(context.Background(), []string{"notes"})
	assert.ErrorIs(t, err, errNotLoggedIn)
}

func TestErrorLine(t *testing.T) {
	assert.Equal(t, "", errorLine(reportedError{errors.New("order failed")}))
	assert.Equal(t, "", errorLine(errors.Wrap(reportedError{errors.New("x")}, "outer")))
	assert.Equal(t, "boom", errorLine(errors.New("boom")))
}
