package api

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/ayusman/mudra/internal/action"
	"github.com/ayusman/mudra/internal/session"
	"github.com/ayusman/mudra/internal/store"
)

// newTestStore creates a new Store with a temporary database for testing.
func newTestStore(t *testing.T) *store.Store {
	t.Helper()

	s, err := store.New(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("failed to create store: %v", err)
	}
	t.Cleanup(func() {
		s.Close()
	})

	return s
}

func serve(h http.Handler, method, path string, body []byte) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, bytes.NewReader(body))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestBindingsHandler_List(t *testing.T) {
	s := newTestStore(t)
	mux := http.NewServeMux()
	NewBindingsHandler(s, action.DefaultTable()).Register(mux)

	rec := serve(mux, http.MethodGet, "/api/bindings", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusOK)
	}

	var resp listBindingsResponse
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if len(resp.Bindings) != 6 {
		t.Fatalf("len(bindings) = %d, want 6", len(resp.Bindings))
	}
	if got := resp.Bindings[1]; got.Key != "space" || got.Text != "forward" {
		t.Errorf("binding 1 = %+v, want space/forward", got)
	}
	if got := resp.Bindings[4]; got.Text != "volume down" {
		t.Errorf("binding 4 text = %q, want volume down", got.Text)
	}
}

func TestBindingsHandler_Update(t *testing.T) {
	s := newTestStore(t)
	mux := http.NewServeMux()
	NewBindingsHandler(s, action.DefaultTable()).Register(mux)

	tests := []struct {
		name       string
		path       string
		body       string
		wantStatus int
	}{
		{"valid update", "/api/bindings/2", `{"key":"pageup","text":"previous"}`, http.StatusOK},
		{"label out of range", "/api/bindings/6", `{"key":"x"}`, http.StatusBadRequest},
		{"label not a number", "/api/bindings/two", `{"key":"x"}`, http.StatusBadRequest},
		{"bad body", "/api/bindings/2", `{`, http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := serve(mux, http.MethodPut, tt.path, []byte(tt.body))
			if rec.Code != tt.wantStatus {
				t.Errorf("status = %d, want %d", rec.Code, tt.wantStatus)
			}
		})
	}

	b, err := s.Bindings().Get(2)
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if b.Key != "pageup" || b.Text != "previous" {
		t.Errorf("stored binding = %+v, want pageup/previous", b)
	}
}

func TestSessionsHandler(t *testing.T) {
	s := newTestStore(t)
	mux := http.NewServeMux()
	NewSessionsHandler(s).Register(mux)

	start := time.Date(2026, 2, 1, 9, 0, 0, 0, time.UTC)
	rec := store.NewRecorder(s, nil)
	rec.SessionStarted("abc", start)
	rec.OnCycle(session.CycleResult{SessionID: "abc", Seq: 1, Time: start})
	rec.OnCycle(session.CycleResult{SessionID: "abc", Seq: 2, Time: start, HandSeen: true, Label: 3, Key: "right", Text: "volume up", Fired: true})
	rec.SessionStopped(session.Summary{ID: "abc", StartedAt: start, StoppedAt: start.Add(time.Second), Cycles: 2, Reason: session.ReasonQuit})

	t.Run("list", func(t *testing.T) {
		rec := serve(mux, http.MethodGet, "/api/sessions", nil)
		if rec.Code != http.StatusOK {
			t.Fatalf("status = %d, want %d", rec.Code, http.StatusOK)
		}
		var resp struct {
			Sessions []store.Session `json:"sessions"`
		}
		json.NewDecoder(rec.Body).Decode(&resp)
		if len(resp.Sessions) != 1 || resp.Sessions[0].ID != "abc" {
			t.Errorf("sessions = %+v, want one session abc", resp.Sessions)
		}
	})

	t.Run("bad limit", func(t *testing.T) {
		rec := serve(mux, http.MethodGet, "/api/sessions?limit=0", nil)
		if rec.Code != http.StatusBadRequest {
			t.Errorf("status = %d, want %d", rec.Code, http.StatusBadRequest)
		}
	})

	t.Run("get", func(t *testing.T) {
		rec := serve(mux, http.MethodGet, "/api/sessions/abc", nil)
		if rec.Code != http.StatusOK {
			t.Fatalf("status = %d, want %d", rec.Code, http.StatusOK)
		}
		var got store.Session
		json.NewDecoder(rec.Body).Decode(&got)
		if got.Reason != "quit" || got.Cycles != 2 {
			t.Errorf("session = %+v, want reason quit with 2 cycles", got)
		}
	})

	t.Run("events", func(t *testing.T) {
		rec := serve(mux, http.MethodGet, "/api/sessions/abc/events", nil)
		if rec.Code != http.StatusOK {
			t.Fatalf("status = %d, want %d", rec.Code, http.StatusOK)
		}
		var resp struct {
			Events []store.Event `json:"events"`
		}
		json.NewDecoder(rec.Body).Decode(&resp)
		if len(resp.Events) != 2 {
			t.Fatalf("len(events) = %d, want 2", len(resp.Events))
		}
		if resp.Events[1].Text != "volume up" {
			t.Errorf("event text = %q, want volume up", resp.Events[1].Text)
		}
	})

	t.Run("unknown session", func(t *testing.T) {
		for _, path := range []string{"/api/sessions/nope", "/api/sessions/nope/events"} {
			rec := serve(mux, http.MethodGet, path, nil)
			if rec.Code != http.StatusNotFound {
				t.Errorf("%s: status = %d, want %d", path, rec.Code, http.StatusNotFound)
			}
		}
	})
}

type fakeLauncher struct {
	detectErr error
	active    bool
	status    session.Status
	detects   int
}

func (f *fakeLauncher) Detect() error {
	f.detects++
	return f.detectErr
}

func (f *fakeLauncher) StopActive() bool { return f.active }

func (f *fakeLauncher) Status() session.Status { return f.status }

func TestControlHandler(t *testing.T) {
	tests := []struct {
		name       string
		launcher   *fakeLauncher
		method     string
		path       string
		wantStatus int
	}{
		{"detect starts", &fakeLauncher{}, http.MethodPost, "/api/detect", http.StatusAccepted},
		{"detect while active", &fakeLauncher{detectErr: session.ErrSessionActive}, http.MethodPost, "/api/detect", http.StatusConflict},
		{"detect after close", &fakeLauncher{detectErr: session.ErrLauncherClosed}, http.MethodPost, "/api/detect", http.StatusServiceUnavailable},
		{"detect requires POST", &fakeLauncher{}, http.MethodGet, "/api/detect", http.StatusMethodNotAllowed},
		{"stop active", &fakeLauncher{active: true}, http.MethodPost, "/api/stop", http.StatusAccepted},
		{"stop idle", &fakeLauncher{}, http.MethodPost, "/api/stop", http.StatusConflict},
		{"status", &fakeLauncher{}, http.MethodGet, "/api/status", http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mux := http.NewServeMux()
			NewControlHandler(tt.launcher).Register(mux)

			rec := serve(mux, tt.method, tt.path, nil)
			if rec.Code != tt.wantStatus {
				t.Errorf("status = %d, want %d", rec.Code, tt.wantStatus)
			}
		})
	}
}

func TestControlHandler_StatusBody(t *testing.T) {
	last := session.CycleResult{Seq: 7, HandSeen: true, Label: 1, Text: "forward"}
	l := &fakeLauncher{status: session.Status{State: session.StateRunning, SessionID: "s1", Cycles: 7, Last: &last}}

	mux := http.NewServeMux()
	NewControlHandler(l).Register(mux)

	rec := serve(mux, http.MethodGet, "/api/status", nil)

	var got session.Status
	if err := json.NewDecoder(rec.Body).Decode(&got); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if got.State != session.StateRunning || got.SessionID != "s1" {
		t.Errorf("status = %+v", got)
	}
	if got.Last == nil || got.Last.Text != "forward" {
		t.Errorf("last = %+v, want forward", got.Last)
	}
}
