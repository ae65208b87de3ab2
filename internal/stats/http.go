package stats

import (
	"encoding/json"
	"net/http"
	"time"

	"emberlog/internal/model"
)

// Loader yields the current outline tree; satisfied by the outline store.
type Loader interface {
	Load() (*model.Sections, error)
}

type Handler struct {
	loader Loader
	now    func() time.Time
}

func NewHandler(loader Loader) *Handler {
	return &Handler{loader: loader, now: time.Now}
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func writeErr(w http.ResponseWriter, code int, msg string) {
	writeJSON(w, code, map[string]any{"error": msg})
}

// GET /api/stats
func (h *Handler) Summary(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeErr(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	sections, err := h.loader.Load()
	if err != nil {
		writeErr(w, http.StatusInternalServerError, err.Error())
		return
	}
	today := h.now().Format("2006-01-02")
	writeJSON(w, http.StatusOK, Summarize(sections, today))
}

// GET /api/quick-win — null body when nothing qualifies.
func (h *Handler) QuickWin(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeErr(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	sections, err := h.loader.Load()
	if err != nil {
		writeErr(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, PickQuickWin(sections))
}

type bonusRequest struct {
	XP     int    `json:"xp"`
	Reason string `json:"reason"`
}

// POST /api/stats/bonus — acknowledged but not persisted; stats are derived
// from the outline on every read.
func (h *Handler) Bonus(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeErr(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	var in bonusRequest
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		writeErr(w, http.StatusBadRequest, "bad json")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"status":   "ok",
		"xp_added": in.XP,
		"reason":   in.Reason,
	})
}
