package outline

import (
	"encoding/json"
	"net/http"

	"emberlog/internal/event"
	"emberlog/internal/model"
)

// Handler exposes the outline document over HTTP.
type Handler struct {
	store *Store
	bus   *event.Bus
}

func NewHandler(store *Store, bus *event.Bus) *Handler {
	return &Handler{store: store, bus: bus}
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func writeErr(w http.ResponseWriter, code int, msg string) {
	writeJSON(w, code, map[string]any{"error": msg})
}

// Todos serves GET/POST /api/todos: read the parsed tree, or overwrite the
// outline from a posted tree.
func (h *Handler) Todos(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		sections, err := h.store.Load()
		if err != nil {
			writeErr(w, http.StatusInternalServerError, err.Error())
			return
		}
		writeJSON(w, http.StatusOK, sections)

	case http.MethodPost:
		var sections model.Sections
		if err := json.NewDecoder(r.Body).Decode(&sections); err != nil {
			writeErr(w, http.StatusBadRequest, "bad json")
			return
		}
		if err := h.store.Save(&sections); err != nil {
			writeErr(w, http.StatusInternalServerError, err.Error())
			return
		}
		if h.bus != nil {
			h.bus.Publish(event.TypeUpdate, &sections)
		}
		writeJSON(w, http.StatusOK, map[string]any{"status": "ok"})

	default:
		writeErr(w, http.StatusMethodNotAllowed, "method not allowed")
	}
}
