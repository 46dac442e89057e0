package e2e

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"

	"github.com/ayusman/mudra/internal/app"
	"github.com/ayusman/mudra/internal/capture"
	"github.com/ayusman/mudra/internal/config"
	"github.com/ayusman/mudra/internal/detector"
	"github.com/ayusman/mudra/internal/display"
	"github.com/ayusman/mudra/internal/hand"
	"github.com/ayusman/mudra/internal/session"
	"github.com/ayusman/mudra/internal/store"
)

type recordingPresser struct {
	keys chan string
}

func (p *recordingPresser) Press(key string) error {
	p.keys <- key
	return nil
}

func TestE2E_CompleteWorkflow(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping e2e test")
	}

	tmpDir := t.TempDir()
	t.Setenv("HOME", tmpDir)
	t.Chdir(tmpDir)

	settings, err := config.Load(config.New(), "")
	if err != nil {
		t.Fatalf("config.Load() error = %v", err)
	}
	settings.Store.Path = filepath.Join(tmpDir, "data.db")
	settings.Keyboard.Backend = "none"

	const frames = 4
	presser := &recordingPresser{keys: make(chan string, frames)}

	application, err := app.New(app.Options{
		Settings: settings,
		NewCamera: func(capture.Config) capture.Camera {
			cam := capture.NewMockCamera(nil, false)
			cam.FailAfter(frames)
			return cam
		},
		NewProvider: func(detector.Config) (detector.Provider, error) {
			d := detector.NewMockDetector()
			d.SetHands(hand.PointingIndex(), hand.OpenPalm())
			return d, nil
		},
		NewDisplay: func(bool, string) display.Display { return display.Headless{} },
		Presser:    presser,
	})
	if err != nil {
		t.Fatalf("app.New() error = %v", err)
	}
	defer application.Close()

	ts := httptest.NewServer(application.Server())
	defer ts.Close()

	client := ts.Client()

	t.Run("DefaultBindings", func(t *testing.T) {
		resp, err := client.Get(ts.URL + "/api/bindings")
		if err != nil {
			t.Fatalf("list bindings error = %v", err)
		}
		defer resp.Body.Close()

		var body struct {
			Bindings []struct {
				Label int    `json:"label"`
				Key   string `json:"key"`
				Text  string `json:"text"`
			} `json:"bindings"`
		}
		if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
			t.Fatalf("decode error = %v", err)
		}
		if len(body.Bindings) != 6 || body.Bindings[1].Key != "space" {
			t.Errorf("unexpected bindings: %+v", body.Bindings)
		}
	})

	wsURL := "ws" + strings.TrimPrefix(ts.URL, "http") + "/api/events"
	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	if err != nil {
		t.Fatalf("websocket dial error = %v", err)
	}
	defer conn.Close()

	deadline := time.Now().Add(2 * time.Second)
	for application.Events().Clients() == 0 {
		if time.Now().After(deadline) {
			t.Fatal("websocket client never registered")
		}
		time.Sleep(10 * time.Millisecond)
	}

	t.Run("Detect", func(t *testing.T) {
		resp, err := client.Post(ts.URL+"/api/detect", "application/json", nil)
		if err != nil {
			t.Fatalf("detect error = %v", err)
		}
		resp.Body.Close()

		if resp.StatusCode != http.StatusAccepted {
			t.Fatalf("status = %d, want %d", resp.StatusCode, http.StatusAccepted)
		}
	})

	t.Run("StreamsCycleResults", func(t *testing.T) {
		for i := 1; i <= frames; i++ {
			conn.SetReadDeadline(time.Now().Add(5 * time.Second))
			_, msg, err := conn.ReadMessage()
			if err != nil {
				t.Fatalf("read cycle %d error = %v", i, err)
			}

			var res session.CycleResult
			if err := json.Unmarshal(msg, &res); err != nil {
				t.Fatalf("decode cycle %d error = %v", i, err)
			}
			if res.Seq != i {
				t.Errorf("seq = %d, want %d", res.Seq, i)
			}
			if res.Hands != 2 {
				t.Errorf("hands = %d, want 2", res.Hands)
			}
			// Only the first hand is classified.
			if res.Label != 1 || res.Text != "forward" || !res.Fired {
				t.Errorf("cycle %d = %+v, want label 1 forward fired", i, res)
			}
		}
	})

	t.Run("PressesKeys", func(t *testing.T) {
		for i := 0; i < frames; i++ {
			select {
			case key := <-presser.keys:
				if key != "space" {
					t.Errorf("pressed %q, want space", key)
				}
			case <-time.After(5 * time.Second):
				t.Fatalf("only %d key presses", i)
			}
		}
	})

	var sessionID string
	t.Run("SessionRecorded", func(t *testing.T) {
		deadline := time.Now().Add(5 * time.Second)
		for {
			st := application.Launcher().Status()
			if st.Previous != nil {
				sessionID = st.Previous.ID
				if st.Previous.Reason != session.ReasonFrameRead {
					t.Errorf("reason = %q, want %q", st.Previous.Reason, session.ReasonFrameRead)
				}
				break
			}
			if time.Now().After(deadline) {
				t.Fatal("session did not stop")
			}
			time.Sleep(10 * time.Millisecond)
		}

		resp, err := client.Get(ts.URL + "/api/sessions/" + sessionID + "/events")
		if err != nil {
			t.Fatalf("list events error = %v", err)
		}
		defer resp.Body.Close()

		var body struct {
			Events []store.Event `json:"events"`
		}
		if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
			t.Fatalf("decode error = %v", err)
		}
		if len(body.Events) != 1 {
			t.Fatalf("events = %d, want 1", len(body.Events))
		}
		if body.Events[0].Fingers != "index" {
			t.Errorf("fingers = %q, want index", body.Events[0].Fingers)
		}
	})

	t.Run("Metrics", func(t *testing.T) {
		resp, err := client.Get(ts.URL + "/metrics")
		if err != nil {
			t.Fatalf("metrics error = %v", err)
		}
		defer resp.Body.Close()

		data, err := io.ReadAll(resp.Body)
		if err != nil {
			t.Fatalf("read metrics error = %v", err)
		}
		text := string(data)
		for _, want := range []string{
			"mudra_cycles_total 4",
			`mudra_key_presses_total{key="space"} 4`,
			`mudra_sessions_stopped_total{reason="frame-read"} 1`,
		} {
			if !strings.Contains(text, want) {
				t.Errorf("metrics missing %q", want)
			}
		}
	})
}
