// Package web serves the read-only dashboard: account history and notifications as
// server-sent events plus a JSON summary of the current portfolio and watchlist.
package web

import (
	"context"
	"crypto/tls"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"
	"golang.org/x/crypto/acme/autocert"

	"github.com/vadiminshakov/investorpro/internal/domain"
	"github.com/vadiminshakov/investorpro/internal/services/chart"
	"github.com/vadiminshakov/investorpro/internal/services/quotes"
)

const (
	defaultPollInterval = 2 * time.Second
	heartbeatInterval   = 20 * time.Second
	thinKeepLast        = 100
)

type accountSnapshotReader interface {
	SnapshotsAfter(index uint64) ([]domain.IndexedAccountSnapshot, error)
}

type notificationReader interface {
	EventsAfter(index uint64) ([]domain.NotificationRecord, error)
}

type summaryProvider interface {
	Summary() Summary
}

// Summary is the current dashboard state served on /api/summary.
type Summary struct {
	User          *domain.User                `json:"user,omitempty"`
	Mode          domain.TradingMode          `json:"mode"`
	Account       *domain.AccountSnapshot     `json:"account,omitempty"`
	Positions     domain.PositionsSummary     `json:"positions"`
	OpenOrders    int                         `json:"open_orders"`
	Watchlist     []quotes.Entry              `json:"watchlist"`
	Indicators    map[string]chart.Indicators `json:"indicators,omitempty"`
	PnL           map[string]chart.PnL        `json:"pnl,omitempty"`
	Notifications []domain.Notification       `json:"notifications"`
	GeneratedAt   time.Time                   `json:"generated_at"`
}

// Server exposes HTTP endpoints serving the HTML UI and the SSE streams.
type Server struct {
	Addr          string
	Snapshots     accountSnapshotReader
	Notifications notificationReader
	Summaries     summaryProvider

	logger       *zap.Logger
	pollInterval time.Duration
}

// NewServer creates a new web server instance. Nil readers disable their endpoints.
func NewServer(addr string, snapshots accountSnapshotReader, notifications notificationReader, summaries summaryProvider, logger *zap.Logger) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Server{
		Addr:          addr,
		Snapshots:     snapshots,
		Notifications: notifications,
		Summaries:     summaries,
		logger:        logger,
		pollInterval:  defaultPollInterval,
	}
}

// Handler returns the dashboard routes.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/", s.handleIndex)
	mux.HandleFunc("/account/stream", s.handleAccountStream)
	mux.HandleFunc("/notifications/stream", s.handleNotificationStream)
	mux.HandleFunc("/api/summary", s.handleSummary)
	return mux
}

// Start runs the HTTP server (blocking) and shuts it down when ctx is cancelled.
func (s *Server) Start(ctx context.Context) error {
	if ctx == nil {
		ctx = context.Background()
	}

	server := &http.Server{
		Addr:              s.Addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 15 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = server.Shutdown(shutdownCtx)
	}()

	s.logger.Info("dashboard listening", zap.String("addr", s.Addr))
	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// StartWithAutoTLS runs an HTTPS server with automatic TLS certificates via ACME.
// It also starts an HTTP server on port 80 to handle ACME HTTP-01 challenges.
func (s *Server) StartWithAutoTLS(ctx context.Context, domains []string, cacheDir string) error {
	if ctx == nil {
		ctx = context.Background()
	}
	if len(domains) == 0 {
		return fmt.Errorf("no domains provided for automatic TLS")
	}
	if cacheDir == "" {
		cacheDir = "cert-cache"
	}

	manager := &autocert.Manager{
		Prompt:     autocert.AcceptTOS,
		HostPolicy: autocert.HostWhitelist(domains...),
		Cache:      autocert.DirCache(cacheDir),
	}

	httpSrv := &http.Server{
		Addr:              ":80",
		Handler:           manager.HTTPHandler(nil),
		ReadHeaderTimeout: 15 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	tlsConfig := manager.TLSConfig()
	tlsConfig.MinVersion = tls.VersionTLS12

	httpsSrv := &http.Server{
		Addr:              s.Addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 15 * time.Second,
		IdleTimeout:       120 * time.Second,
		TLSConfig:         tlsConfig,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := httpSrv.Shutdown(shutdownCtx); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.logger.Warn("http (acme) server shutdown error", zap.Error(err))
		}
		if err := httpsSrv.Shutdown(shutdownCtx); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.logger.Warn("https server shutdown error", zap.Error(err))
		}
	}()

	go func() {
		if err := httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.logger.Error("http (acme) server error", zap.Error(err))
		}
	}()

	s.logger.Info("dashboard listening with automatic TLS", zap.String("addr", s.Addr), zap.Strings("domains", domains))
	if err := httpsSrv.ListenAndServeTLS("", ""); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	fmt.Fprint(w, indexHTML)
}

func (s *Server) handleSummary(w http.ResponseWriter, r *http.Request) {
	if s.Summaries == nil {
		http.Error(w, "summary not available", http.StatusServiceUnavailable)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Cache-Control", "no-cache")
	if err := json.NewEncoder(w).Encode(s.Summaries.Summary()); err != nil {
		s.logger.Warn("failed to write summary", zap.Error(err))
	}
}

func (s *Server) handleAccountStream(w http.ResponseWriter, r *http.Request) {
	if s.Snapshots == nil {
		http.Error(w, "account history not available", http.StatusServiceUnavailable)
		return
	}

	first := true
	s.stream(w, r, "account", func(after uint64) ([]event, error) {
		records, err := s.Snapshots.SnapshotsAfter(after)
		if err != nil {
			return nil, err
		}
		// thin a large backlog on first load only
		if first && after == 0 {
			records = thinRecords(records)
		}
		first = false

		events := make([]event, 0, len(records))
		for _, rec := range records {
			events = append(events, event{index: rec.Index, data: rec.Snapshot})
		}
		return events, nil
	})
}

func (s *Server) handleNotificationStream(w http.ResponseWriter, r *http.Request) {
	if s.Notifications == nil {
		http.Error(w, "notification history not available", http.StatusServiceUnavailable)
		return
	}

	s.stream(w, r, "notification", func(after uint64) ([]event, error) {
		records, err := s.Notifications.EventsAfter(after)
		if err != nil {
			return nil, err
		}
		events := make([]event, 0, len(records))
		for _, rec := range records {
			events = append(events, event{index: rec.Index, data: rec.Notification})
		}
		return events, nil
	})
}

type event struct {
	index uint64
	data  any
}

// stream polls fetch and writes every new record as an SSE event until the client leaves.
func (s *Server) stream(w http.ResponseWriter, r *http.Request, name string, fetch func(after uint64) ([]event, error)) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "streaming unsupported", http.StatusInternalServerError)
		return
	}

	lastIndex := s.parseLastEventID(r.Header.Get("Last-Event-ID"), r.URL.Query().Get("last_event_id"))
	send := func() error {
		events, err := fetch(lastIndex)
		if err != nil {
			return err
		}
		for _, ev := range events {
			payload, err := json.Marshal(ev.data)
			if err != nil {
				return err
			}
			fmt.Fprintf(w, "id: %d\n", ev.index)
			fmt.Fprintf(w, "event: %s\n", name)
			fmt.Fprintf(w, "data: %s\n\n", payload)
			lastIndex = ev.index
		}
		if len(events) > 0 {
			flusher.Flush()
		}
		return nil
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache, no-store, must-revalidate")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Set("X-Accel-Buffering", "no")

	resumed := lastIndex
	if err := send(); err != nil {
		http.Error(w, "failed to load "+name+" history", http.StatusInternalServerError)
		s.logger.Error("stream initial load failed", zap.String("stream", name), zap.Error(err))
		return
	}

	// tell the client the backlog is empty so it can leave the loading state
	if lastIndex == resumed {
		fmt.Fprintf(w, "event: no_data\n")
		fmt.Fprintf(w, "data: {}\n\n")
	}
	flusher.Flush()

	heartbeat := time.NewTicker(heartbeatInterval)
	defer heartbeat.Stop()

	poll := time.NewTicker(s.pollInterval)
	defer poll.Stop()

	for {
		select {
		case <-r.Context().Done():
			return
		case <-heartbeat.C:
			fmt.Fprintf(w, ": ping\n\n")
			flusher.Flush()
		case <-poll.C:
			if err := send(); err != nil {
				s.logger.Warn("stream poll failed", zap.String("stream", name), zap.Error(err))
			}
		}
	}
}

// parseLastEventID extracts an SSE event ID from either the Last-Event-ID header or a query parameter.
// The header is preferred; the query parameter allows manual reconnects to resume from a known index.
func (s *Server) parseLastEventID(headerVal, queryVal string) uint64 {
	idStr := strings.TrimSpace(headerVal)
	if idStr == "" {
		idStr = strings.TrimSpace(queryVal)
	}
	if idStr == "" {
		return 0
	}

	id, err := strconv.ParseUint(idStr, 10, 64)
	if err != nil {
		s.logger.Debug("invalid last event id", zap.String("id", idStr), zap.Error(err))
		return 0
	}
	return id
}

// thinRecords keeps the last records as is and exponentially thins the older ones.
func thinRecords(records []domain.IndexedAccountSnapshot) []domain.IndexedAccountSnapshot {
	if len(records) <= thinKeepLast {
		return records
	}

	older := records[:len(records)-thinKeepLast]
	var picked []domain.IndexedAccountSnapshot

	step := 1
	for i := len(older) - 1; i >= 0; i -= step {
		picked = append(picked, older[i])
		// double the gap every 12 kept records
		if len(picked)%12 == 0 {
			step *= 2
		}
	}

	thinned := make([]domain.IndexedAccountSnapshot, 0, len(picked)+thinKeepLast)
	for i := len(picked) - 1; i >= 0; i-- {
		thinned = append(thinned, picked[i])
	}
	return append(thinned, records[len(records)-thinKeepLast:]...)
}
