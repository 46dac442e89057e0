package metrics

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ayusman/mudra/internal/session"
)

func TestSessionMetrics_OnCycle(t *testing.T) {
	m, err := New()
	require.NoError(t, err)
	sm := m.Session

	sm.OnCycle(session.CycleResult{FPS: 12})
	sm.OnCycle(session.CycleResult{HandSeen: true, Label: 1, Key: "space", Fired: true, FPS: 15})
	sm.OnCycle(session.CycleResult{HandSeen: true, Label: 1, FPS: 15})
	sm.OnCycle(session.CycleResult{HandSeen: true, Label: 0, FPS: 20})

	assert.InDelta(t, 4, testutil.ToFloat64(sm.cyclesTotal), 0)
	assert.InDelta(t, 3, testutil.ToFloat64(sm.handsSeenTotal), 0)
	assert.InDelta(t, 2, testutil.ToFloat64(sm.gesturesTotal.WithLabelValues("1")), 0)
	assert.InDelta(t, 1, testutil.ToFloat64(sm.gesturesTotal.WithLabelValues("0")), 0)
	assert.InDelta(t, 1, testutil.ToFloat64(sm.keyPressesTotal.WithLabelValues("space")), 0)
	assert.InDelta(t, 20, testutil.ToFloat64(sm.framesPerSecond), 0)
}

func TestSessionMetrics_Lifecycle(t *testing.T) {
	m, err := New()
	require.NoError(t, err)
	sm := m.Session
	start := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

	sm.SessionStarted("a", start)
	assert.InDelta(t, 1, testutil.ToFloat64(sm.sessionActive), 0)

	sm.SessionStopped(session.Summary{ID: "a", StartedAt: start, StoppedAt: start.Add(10 * time.Second), Reason: session.ReasonQuit})
	sm.SessionStopped(session.Summary{ID: "b", StoppedAt: start, Reason: session.ReasonDeviceUnavailable})

	assert.InDelta(t, 0, testutil.ToFloat64(sm.sessionActive), 0)
	assert.InDelta(t, 1, testutil.ToFloat64(sm.sessionsStarted), 0)
	assert.InDelta(t, 1, testutil.ToFloat64(sm.sessionsStopped.WithLabelValues("quit")), 0)
	assert.InDelta(t, 1, testutil.ToFloat64(sm.sessionsStopped.WithLabelValues("device-unavailable")), 0)
	assert.Equal(t, 1, testutil.CollectAndCount(sm.sessionDuration))
}

func TestMetrics_Handler(t *testing.T) {
	m, err := New()
	require.NoError(t, err)
	m.Session.OnCycle(session.CycleResult{HandSeen: true, Label: 5, Key: "down", Fired: true})

	mux := http.NewServeMux()
	m.RegisterHandlers(mux)

	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	body, err := io.ReadAll(rec.Body)
	require.NoError(t, err)
	assert.True(t, strings.Contains(string(body), `mudra_key_presses_total{key="down"} 1`))
	assert.True(t, strings.Contains(string(body), "go_goroutines"))
}
