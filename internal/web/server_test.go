package web

import (
	"bufio"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vadiminshakov/investorpro/internal/domain"
)

type fakeNotifications struct {
	mu      sync.Mutex
	records []domain.NotificationRecord
}

func (f *fakeNotifications) add(message string, kind domain.NotificationKind) {
	f.mu.Lock()
	defer f.mu.Unlock()
	index := uint64(len(f.records) + 1)
	f.records = append(f.records, domain.NotificationRecord{
		Index:        index,
		Notification: domain.Notification{ID: message, Message: message, Kind: kind},
	})
}

func (f *fakeNotifications) EventsAfter(index uint64) ([]domain.NotificationRecord, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []domain.NotificationRecord
	for _, rec := range f.records {
		if rec.Index > index {
			out = append(out, rec)
		}
	}
	return out, nil
}

type fakeSnapshots struct {
	records []domain.IndexedAccountSnapshot
}

func (f *fakeSnapshots) SnapshotsAfter(index uint64) ([]domain.IndexedAccountSnapshot, error) {
	var out []domain.IndexedAccountSnapshot
	for _, rec := range f.records {
		if rec.Index > index {
			out = append(out, rec)
		}
	}
	return out, nil
}

type staticSummary Summary

func (s staticSummary) Summary() Summary { return Summary(s) }

// readEvents collects SSE frames until want frames were read or the deadline hits.
func readEvents(t *testing.T, url, lastEventID string, want int) []map[string]string {
	t.Helper()

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	require.NoError(t, err)
	if lastEventID != "" {
		req.Header.Set("Last-Event-ID", lastEventID)
	}

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Equal(t, "text/event-stream", resp.Header.Get("Content-Type"))

	var (
		frames  []map[string]string
		current = map[string]string{}
	)
	scanner := bufio.NewScanner(resp.Body)
	for scanner.Scan() {
		line := scanner.Text()
		if line == "" {
			if len(current) > 0 {
				frames = append(frames, current)
				current = map[string]string{}
			}
			if len(frames) >= want {
				return frames
			}
			continue
		}
		if strings.HasPrefix(line, ":") {
			continue
		}
		key, value, _ := strings.Cut(line, ": ")
		current[key] = value
	}
	return frames
}

func newTestServer(t *testing.T, s *Server) *httptest.Server {
	t.Helper()
	s.pollInterval = 20 * time.Millisecond
	srv := httptest.NewServer(s.Handler())
	t.Cleanup(srv.Close)
	return srv
}

func TestNotificationStream_BacklogAndLiveEvents(t *testing.T) {
	notes := &fakeNotifications{}
	notes.add("AAPL added to watchlist", domain.NotificationSuccess)

	srv := newTestServer(t, NewServer("", nil, notes, nil, nil))

	go func() {
		time.Sleep(100 * time.Millisecond)
		notes.add("Order failed: market closed", domain.NotificationError)
	}()

	frames := readEvents(t, srv.URL+"/notifications/stream", "", 2)
	require.Len(t, frames, 2)

	assert.Equal(t, "1", frames[0]["id"])
	assert.Equal(t, "notification", frames[0]["event"])
	var first domain.Notification
	require.NoError(t, json.Unmarshal([]byte(frames[0]["data"]), &first))
	assert.Equal(t, "AAPL added to watchlist", first.Message)

	assert.Equal(t, "2", frames[1]["id"])
	var second domain.Notification
	require.NoError(t, json.Unmarshal([]byte(frames[1]["data"]), &second))
	assert.Equal(t, domain.NotificationError, second.Kind)
}

func TestNotificationStream_ResumesFromLastEventID(t *testing.T) {
	notes := &fakeNotifications{}
	notes.add("one", domain.NotificationInfo)
	notes.add("two", domain.NotificationInfo)
	notes.add("three", domain.NotificationInfo)

	srv := newTestServer(t, NewServer("", nil, notes, nil, nil))

	frames := readEvents(t, srv.URL+"/notifications/stream", "2", 1)
	require.Len(t, frames, 1)
	assert.Equal(t, "3", frames[0]["id"])

	frames = readEvents(t, srv.URL+"/notifications/stream?last_event_id=1", "", 2)
	require.Len(t, frames, 2)
	assert.Equal(t, "2", frames[0]["id"])
	assert.Equal(t, "3", frames[1]["id"])
}

func TestAccountStream_NoData(t *testing.T) {
	srv := newTestServer(t, NewServer("", &fakeSnapshots{}, nil, nil, nil))

	frames := readEvents(t, srv.URL+"/account/stream", "", 1)
	require.Len(t, frames, 1)
	assert.Equal(t, "no_data", frames[0]["event"])
}

func TestAccountStream_SendsSnapshots(t *testing.T) {
	ts := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	snapshots := &fakeSnapshots{records: []domain.IndexedAccountSnapshot{
		{Index: 1, Snapshot: domain.AccountSnapshotRecord{Timestamp: ts, Mode: domain.TradingModePaper, PortfolioValue: "1000"}},
		{Index: 2, Snapshot: domain.AccountSnapshotRecord{Timestamp: ts.Add(time.Minute), Mode: domain.TradingModePaper, PortfolioValue: "1010"}},
	}}
	srv := newTestServer(t, NewServer("", snapshots, nil, nil, nil))

	frames := readEvents(t, srv.URL+"/account/stream", "", 2)
	require.Len(t, frames, 2)
	assert.Equal(t, "account", frames[1]["event"])

	var rec domain.AccountSnapshotRecord
	require.NoError(t, json.Unmarshal([]byte(frames[1]["data"]), &rec))
	assert.Equal(t, "1010", rec.PortfolioValue)
}

func TestStreams_Unavailable(t *testing.T) {
	srv := newTestServer(t, NewServer("", nil, nil, nil, nil))

	for _, path := range []string{"/account/stream", "/notifications/stream", "/api/summary"} {
		resp, err := http.Get(srv.URL + path)
		require.NoError(t, err)
		resp.Body.Close()
		assert.Equal(t, http.StatusServiceUnavailable, resp.StatusCode, path)
	}
}

func TestSummaryEndpoint(t *testing.T) {
	summary := staticSummary{
		Mode:       domain.TradingModeLive,
		Account:    &domain.AccountSnapshot{PortfolioValue: decimal.NewFromInt(2500)},
		Positions:  domain.PositionsSummary{Count: 2},
		OpenOrders: 1,
	}
	srv := newTestServer(t, NewServer("", nil, nil, summary, nil))

	resp, err := http.Get(srv.URL + "/api/summary")
	require.NoError(t, err)
	defer resp.Body.Close()

	require.Equal(t, http.StatusOK, resp.StatusCode)
	var got Summary
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&got))
	assert.Equal(t, domain.TradingModeLive, got.Mode)
	require.NotNil(t, got.Account)
	assert.True(t, got.Account.PortfolioValue.Equal(decimal.NewFromInt(2500)))
	assert.Equal(t, 2, got.Positions.Count)
	assert.Equal(t, 1, got.OpenOrders)
}

func TestIndex(t *testing.T) {
	srv := newTestServer(t, NewServer("", nil, nil, nil, nil))

	resp, err := http.Get(srv.URL + "/")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, resp.Header.Get("Content-Type"), "text/html")

	resp, err = http.Get(srv.URL + "/missing")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestParseLastEventID(t *testing.T) {
	s := NewServer("", nil, nil, nil, nil)

	assert.Equal(t, uint64(7), s.parseLastEventID("7", "3"))
	assert.Equal(t, uint64(3), s.parseLastEventID("", " 3 "))
	assert.Equal(t, uint64(0), s.parseLastEventID("abc", ""))
	assert.Equal(t, uint64(0), s.parseLastEventID("", ""))
}

func TestThinRecords(t *testing.T) {
	records := make([]domain.IndexedAccountSnapshot, 400)
	for i := range records {
		records[i] = domain.IndexedAccountSnapshot{Index: uint64(i + 1)}
	}

	thinned := thinRecords(records)
	require.Less(t, len(thinned), len(records))
	assert.Greater(t, len(thinned), thinKeepLast)

	// newest records are kept untouched and order is preserved
	assert.Equal(t, records[len(records)-thinKeepLast:], thinned[len(thinned)-thinKeepLast:])
	for i := 1; i < len(thinned); i++ {
		assert.Less(t, thinned[i-1].Index, thinned[i].Index)
	}

	short := records[:10]
	assert.Equal(t, short, thinRecords(short))
}
