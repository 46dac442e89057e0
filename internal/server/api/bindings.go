package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/ayusman/mudra/internal/action"
	"github.com/ayusman/mudra/internal/gesture"
	"github.com/ayusman/mudra/internal/store"
)

// BindingsHandler serves the label to key bindings. Changes apply to the
// next detection session.
type BindingsHandler struct {
	store *store.Store
	base  action.Table
}

// NewBindingsHandler creates a handler over s with base as the fallback table.
func NewBindingsHandler(s *store.Store, base action.Table) *BindingsHandler {
	return &BindingsHandler{store: s, base: base}
}

// Register adds the binding routes to mux.
func (h *BindingsHandler) Register(mux *http.ServeMux) {
	mux.HandleFunc("GET /api/bindings", h.list)
	mux.HandleFunc("PUT /api/bindings/{label}", h.update)
}

type bindingResponse struct {
	Label int    `json:"label"`
	Key   string `json:"key"`
	Text  string `json:"text"`
}

type listBindingsResponse struct {
	Bindings []bindingResponse `json:"bindings"`
}

type updateBindingRequest struct {
	Key  string `json:"key"`
	Text string `json:"text"`
}

// list handles GET /api/bindings and returns the effective table.
func (h *BindingsHandler) list(w http.ResponseWriter, r *http.Request) {
	table, err := h.store.Bindings().Table(h.base)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to list bindings")
		return
	}

	response := listBindingsResponse{Bindings: make([]bindingResponse, 0, len(table))}
	for label, b := range table {
		response.Bindings = append(response.Bindings, bindingResponse{Label: label, Key: b.Key, Text: b.Text})
	}
	writeJSON(w, http.StatusOK, response)
}

// update handles PUT /api/bindings/{label}.
func (h *BindingsHandler) update(w http.ResponseWriter, r *http.Request) {
	n, err := strconv.Atoi(r.PathValue("label"))
	if err != nil || !gesture.Label(n).Valid() {
		writeError(w, http.StatusBadRequest, "label must be an integer from 0 to 5")
		return
	}

	var req updateBindingRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	b := &store.Binding{Label: gesture.Label(n), Key: req.Key, Text: req.Text}
	if err := h.store.Bindings().Upsert(b); err != nil {
		if errors.Is(err, store.ErrInvalidLabel) {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		writeError(w, http.StatusInternalServerError, "failed to update binding")
		return
	}

	writeJSON(w, http.StatusOK, bindingResponse{Label: n, Key: b.Key, Text: b.Text})
}
