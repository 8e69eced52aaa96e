package httpserver

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/felixguerrero12/SessionSentry/internal/model"
	"github.com/gin-gonic/gin"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// stubSource serves a fixed event sequence, or a fixed error.
type stubSource struct {
	events []*model.Event
	err    error
}

func (s *stubSource) LoadEvents() ([]*model.Event, error) {
	return s.events, s.err
}

func newTestServer(t *testing.T, source EventSource) *gin.Engine {
	t.Helper()
	srv := NewServer("", source)
	srv.startTime = time.Now()

	r := gin.New()
	r.Use(gin.Recovery())
	srv.Routes(r)
	return r
}

func get(t *testing.T, r *gin.Engine, path string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func sampleEvents() []*model.Event {
	at := func(hour, min int) time.Time {
		return time.Date(2025, 3, 10, hour, min, 0, 0, time.UTC)
	}
	return []*model.Event{
		{Timestamp: at(9, 0), EventType: "Login", EventID: "4624", Username: "Alice",
			LogonID: "0x1", LogonType: "Interactive", Workstation: "WS01", IPAddress: "10.0.0.5"},
		{Timestamp: at(9, 30), EventType: "Logoff", EventID: "4634", Username: "Alice",
			LogonID: "0x1", LogonType: model.NA},
		{Timestamp: at(10, 0), EventType: "Login", EventID: "4624", Username: "Bob",
			LogonID: "0x2", LogonType: "Network", Workstation: "WS02", IPAddress: model.NA},
	}
}

func TestHealthEndpoint(t *testing.T) {
	r := newTestServer(t, &stubSource{events: sampleEvents()})

	w := get(t, r, "/api/health")
	if w.Code != http.StatusOK {
		t.Errorf("health status = %d, want %d", w.Code, http.StatusOK)
	}

	var body map[string]interface{}
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("unmarshal health: %v", err)
	}
	if body["status"] != "ok" {
		t.Errorf("health status = %v, want ok", body["status"])
	}
	if body["event_count"] != float64(3) {
		t.Errorf("event_count = %v, want 3", body["event_count"])
	}
}

func TestUsersEndpoint(t *testing.T) {
	r := newTestServer(t, &stubSource{events: sampleEvents()})

	w := get(t, r, "/api/users")
	if w.Code != http.StatusOK {
		t.Fatalf("users status = %d, want %d", w.Code, http.StatusOK)
	}

	var users []string
	if err := json.Unmarshal(w.Body.Bytes(), &users); err != nil {
		t.Fatalf("unmarshal users: %v", err)
	}
	if len(users) != 2 || users[0] != "Alice" || users[1] != "Bob" {
		t.Errorf("users = %v, want [Alice Bob]", users)
	}
}

func TestSessionsEndpoint(t *testing.T) {
	r := newTestServer(t, &stubSource{events: sampleEvents()})

	w := get(t, r, "/api/sessions")
	if w.Code != http.StatusOK {
		t.Fatalf("sessions status = %d, want %d", w.Code, http.StatusOK)
	}

	var sessionList []map[string]interface{}
	if err := json.Unmarshal(w.Body.Bytes(), &sessionList); err != nil {
		t.Fatalf("unmarshal sessions: %v", err)
	}
	if len(sessionList) != 2 {
		t.Fatalf("expected 2 sessions, got %d", len(sessionList))
	}
	// Newest first: Bob's 10:00 session leads.
	if sessionList[0]["session_id"] != "0x2" {
		t.Errorf("expected newest session 0x2 first, got %v", sessionList[0]["session_id"])
	}
	if sessionList[0]["status"] != "Active" {
		t.Errorf("expected Bob's session Active, got %v", sessionList[0]["status"])
	}
	if sessionList[1]["status"] != "Completed" {
		t.Errorf("expected Alice's session Completed, got %v", sessionList[1]["status"])
	}
}

func TestSessionsEndpointUserFilter(t *testing.T) {
	r := newTestServer(t, &stubSource{events: sampleEvents()})

	w := get(t, r, "/api/sessions?user=alice")
	var sessionList []map[string]interface{}
	if err := json.Unmarshal(w.Body.Bytes(), &sessionList); err != nil {
		t.Fatalf("unmarshal sessions: %v", err)
	}
	if len(sessionList) != 1 {
		t.Fatalf("expected 1 session for alice, got %d", len(sessionList))
	}
	if sessionList[0]["username"] != "Alice" {
		t.Errorf("expected Alice's session, got %v", sessionList[0]["username"])
	}
}

func TestSessionEndpoint(t *testing.T) {
	r := newTestServer(t, &stubSource{events: sampleEvents()})

	w := get(t, r, "/api/session/0x1")
	if w.Code != http.StatusOK {
		t.Fatalf("session status = %d, want %d; body: %s", w.Code, http.StatusOK, w.Body.String())
	}

	var session map[string]interface{}
	if err := json.Unmarshal(w.Body.Bytes(), &session); err != nil {
		t.Fatalf("unmarshal session: %v", err)
	}
	if session["session_id"] != "0x1" {
		t.Errorf("session_id = %v, want 0x1", session["session_id"])
	}
	if session["duration_formatted"] != "30m" {
		t.Errorf("duration_formatted = %v, want 30m", session["duration_formatted"])
	}
}

func TestSessionEndpointNotFound(t *testing.T) {
	r := newTestServer(t, &stubSource{events: sampleEvents()})

	w := get(t, r, "/api/session/0x999")
	if w.Code != http.StatusNotFound {
		t.Errorf("status = %d, want %d", w.Code, http.StatusNotFound)
	}

	var body map[string]interface{}
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("unmarshal error body: %v", err)
	}
	if body["error"] != "Session not found" {
		t.Errorf("error = %v, want 'Session not found'", body["error"])
	}
}

func TestSessionEventsEndpoint(t *testing.T) {
	r := newTestServer(t, &stubSource{events: sampleEvents()})

	w := get(t, r, "/api/session-events?logon_id=0x1")
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", w.Code, http.StatusOK)
	}

	var events []map[string]interface{}
	if err := json.Unmarshal(w.Body.Bytes(), &events); err != nil {
		t.Fatalf("unmarshal events: %v", err)
	}
	if len(events) != 2 {
		t.Errorf("expected 2 raw events for 0x1, got %d", len(events))
	}
}

func TestSessionEventsEndpointMissingParam(t *testing.T) {
	r := newTestServer(t, &stubSource{events: sampleEvents()})

	w := get(t, r, "/api/session-events")
	if w.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want %d", w.Code, http.StatusBadRequest)
	}
}

func TestSessionEventsEndpointNotFound(t *testing.T) {
	r := newTestServer(t, &stubSource{events: sampleEvents()})

	w := get(t, r, "/api/session-events?logon_id=0x999")
	if w.Code != http.StatusNotFound {
		t.Errorf("status = %d, want %d", w.Code, http.StatusNotFound)
	}
}

func TestTimelineEndpoint(t *testing.T) {
	r := newTestServer(t, &stubSource{events: sampleEvents()})

	w := get(t, r, "/api/timeline")
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", w.Code, http.StatusOK)
	}

	var entries []map[string]interface{}
	if err := json.Unmarshal(w.Body.Bytes(), &entries); err != nil {
		t.Fatalf("unmarshal timeline: %v", err)
	}
	if len(entries) != 3 {
		t.Fatalf("expected 3 entries, got %d", len(entries))
	}
	if entries[0]["details"] != "Event 4624 (Login), Type Interactive" {
		t.Errorf("unexpected details: %v", entries[0]["details"])
	}
}

func TestSourceUnavailableServesEmpty(t *testing.T) {
	src := &stubSource{err: fmt.Errorf("%w: no such file", model.ErrSourceUnavailable)}
	r := newTestServer(t, src)

	for _, path := range []string{"/api/users", "/api/sessions", "/api/timeline"} {
		w := get(t, r, path)
		if w.Code != http.StatusOK {
			t.Errorf("%s status = %d, want %d", path, w.Code, http.StatusOK)
		}
		if w.Body.String() != "[]" {
			t.Errorf("%s body = %s, want []", path, w.Body.String())
		}
	}
}

func TestLoadFailureIsServerError(t *testing.T) {
	r := newTestServer(t, &stubSource{err: errors.New("disk on fire")})

	w := get(t, r, "/api/sessions")
	if w.Code != http.StatusInternalServerError {
		t.Errorf("status = %d, want %d", w.Code, http.StatusInternalServerError)
	}
}

func TestStartAndStop(t *testing.T) {
	srv := NewServer("127.0.0.1:0", &stubSource{events: sampleEvents()})
	if err := srv.Start(); err != nil {
		t.Fatalf("Start failed: %v", err)
	}
	if err := srv.Stop(); err != nil {
		t.Errorf("Stop failed: %v", err)
	}
}
