package api

import (
	"errors"
	"net/http"

	"github.com/ayusman/mudra/internal/session"
)

// Launcher starts and inspects detection sessions.
type Launcher interface {
	Detect() error
	StopActive() bool
	Status() session.Status
}

// ControlHandler exposes the launcher over HTTP.
type ControlHandler struct {
	launcher Launcher
}

// NewControlHandler creates a new ControlHandler.
func NewControlHandler(l Launcher) *ControlHandler {
	return &ControlHandler{launcher: l}
}

// Register adds the control routes to mux.
func (h *ControlHandler) Register(mux *http.ServeMux) {
	mux.HandleFunc("GET /api/status", h.status)
	mux.HandleFunc("POST /api/detect", h.detect)
	mux.HandleFunc("POST /api/stop", h.stop)
}

func (h *ControlHandler) status(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.launcher.Status())
}

// detect handles POST /api/detect. The session starts asynchronously.
func (h *ControlHandler) detect(w http.ResponseWriter, r *http.Request) {
	err := h.launcher.Detect()
	switch {
	case err == nil:
		writeJSON(w, http.StatusAccepted, map[string]string{"status": "starting"})
	case errors.Is(err, session.ErrSessionActive):
		writeError(w, http.StatusConflict, err.Error())
	case errors.Is(err, session.ErrLauncherClosed):
		writeError(w, http.StatusServiceUnavailable, err.Error())
	default:
		writeError(w, http.StatusInternalServerError, err.Error())
	}
}

func (h *ControlHandler) stop(w http.ResponseWriter, r *http.Request) {
	if !h.launcher.StopActive() {
		writeError(w, http.StatusConflict, "no active session")
		return
	}
	writeJSON(w, http.StatusAccepted, map[string]string{"status": "stopping"})
}
