package app

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

func TestStatusServer_Health(t *testing.T) {
	m := newTestMonitor(t, NewMockAlertsSource(), newFakeClock(time.Now()))
	s := NewStatusServer(zap.NewNop(), m, 0)

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)

	if rec.Code != http.StatusOK || rec.Body.String() != "ok" {
		t.Errorf("unexpected response: %d %q", rec.Code, rec.Body.String())
	}
}

func TestStatusServer_Stats(t *testing.T) {
	src := NewMockAlertsSource()
	src.SetSummary(scenarioSummary())
	m := newTestMonitor(t, src, newFakeClock(time.Now()))
	if err := m.Refresh(context.Background()); err != nil {
		t.Fatal(err)
	}
	s := NewStatusServer(nil, m, 0)

	req := httptest.NewRequest(http.MethodGet, "/stats", nil)
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("unexpected status: %d", rec.Code)
	}
	if ct := rec.Header().Get("Content-Type"); ct != "application/json" {
		t.Errorf("unexpected content type: %s", ct)
	}

	var stats ServiceStats
	if err := json.NewDecoder(rec.Body).Decode(&stats); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if stats.Session.SessionID != "test-session" {
		t.Errorf("unexpected session ID: %s", stats.Session.SessionID)
	}
	if stats.Session.TotalEvents != 4 || len(stats.Session.Feed) != 1 {
		t.Errorf("unexpected session view: %+v", stats.Session)
	}
	if stats.Build.Commit == "" || stats.Runtime.GoVersion == "" {
		t.Error("expected build and runtime info")
	}
	if stats.Tasks == nil {
		t.Error("expected empty task list, not null")
	}
}

func TestStatusServer_WebSocketPushesViews(t *testing.T) {
	clock := newFakeClock(time.Date(2024, 1, 15, 9, 0, 0, 0, time.Local))
	m := newTestMonitor(t, NewMockAlertsSource(), clock)
	s := NewStatusServer(zap.NewNop(), m, 0)

	server := httptest.NewServer(s.Handler())
	defer server.Close()

	wsURL := "ws" + strings.TrimPrefix(server.URL, "http") + "/ws"
	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	defer conn.Close()

	var v View
	if err := conn.ReadJSON(&v); err != nil {
		t.Fatalf("read initial view: %v", err)
	}
	if v.SessionID != "test-session" {
		t.Errorf("unexpected session ID: %s", v.SessionID)
	}

	clock.Advance(7 * time.Second)
	m.tickDuration(context.Background())

	_ = conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	if err := conn.ReadJSON(&v); err != nil {
		t.Fatalf("read pushed view: %v", err)
	}
	if v.Duration != "00:00:07" {
		t.Errorf("unexpected duration: %s", v.Duration)
	}

	m.Close()
	_ = conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	if _, _, err := conn.ReadMessage(); !websocket.IsCloseError(err, websocket.CloseGoingAway) {
		t.Errorf("expected going-away close, got %v", err)
	}
}

func TestStatusServer_StartShutdown(t *testing.T) {
	m := newTestMonitor(t, NewMockAlertsSource(), newFakeClock(time.Now()))
	s := NewStatusServer(zap.NewNop(), m, 0)

	s.Start()

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	if err := s.Shutdown(ctx); err != nil {
		t.Errorf("unexpected shutdown error: %v", err)
	}
}
