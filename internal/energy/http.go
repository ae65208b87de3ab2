package energy

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"emberlog/internal/stats"
)

// Handler exposes the energy engine over HTTP. Every endpoint takes an
// optional ?session_id=; absent means the default session.
type Handler struct {
	engine *Engine
}

func NewHandler(engine *Engine) *Handler {
	return &Handler{engine: engine}
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func writeErr(w http.ResponseWriter, code int, msg string) {
	writeJSON(w, code, map[string]any{"error": msg})
}

func sessionID(r *http.Request) string {
	id := strings.TrimSpace(r.URL.Query().Get("session_id"))
	if id == "" {
		return DefaultSessionID
	}
	return id
}

// rejectionStatus maps engine errors onto HTTP codes. Precondition
// violations are client errors carrying the engine's reason verbatim.
func rejectionStatus(err error) int {
	switch {
	case errors.Is(err, ErrOnBreak),
		errors.Is(err, ErrInsufficientEnergy),
		errors.Is(err, ErrAlreadyOnBreak),
		errors.Is(err, ErrEnergyFull),
		errors.Is(err, ErrNotOnBreak),
		errors.Is(err, ErrInvalidAmount),
		errors.Is(err, stats.ErrMissingMetadata):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

// GET /api/energy
func (h *Handler) State(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeErr(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	writeJSON(w, http.StatusOK, h.engine.Snapshot(sessionID(r)))
}

type consumeRequest struct {
	Amount       int           `json:"amount"`
	TaskID       string        `json:"task_id"`
	TaskMetadata *TaskMetadata `json:"task_metadata"`
}

// POST /api/energy/consume
func (h *Handler) Consume(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeErr(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	var in consumeRequest
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		writeErr(w, http.StatusBadRequest, "bad json")
		return
	}

	res, err := h.engine.Consume(sessionID(r), in.Amount, in.TaskMetadata, in.TaskID)
	if err != nil {
		writeErr(w, rejectionStatus(err), err.Error())
		return
	}
	writeJSON(w, http.StatusOK, res)
}

// POST /api/energy/break?duration_minutes=N
func (h *Handler) Break(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeErr(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	duration := h.engine.MinBreak()
	if raw := strings.TrimSpace(r.URL.Query().Get("duration_minutes")); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			writeErr(w, http.StatusBadRequest, "invalid duration_minutes")
			return
		}
		duration = n
	}

	res, err := h.engine.StartBreak(sessionID(r), duration)
	if err != nil {
		writeErr(w, rejectionStatus(err), err.Error())
		return
	}
	writeJSON(w, http.StatusOK, res)
}

// POST /api/energy/restore
func (h *Handler) Restore(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeErr(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	res, err := h.engine.CompleteBreak(sessionID(r))
	if err != nil {
		writeErr(w, rejectionStatus(err), err.Error())
		return
	}
	writeJSON(w, http.StatusOK, res)
}

// GET /api/energy/regeneration
func (h *Handler) Regeneration(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeErr(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	writeJSON(w, http.StatusOK, h.engine.RegenerationState(sessionID(r)))
}

// POST /api/energy/regeneration/pause
func (h *Handler) Pause(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeErr(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	writeJSON(w, http.StatusOK, h.engine.PauseRegeneration(sessionID(r)))
}

// POST /api/energy/regeneration/resume
func (h *Handler) Resume(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeErr(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	writeJSON(w, http.StatusOK, h.engine.ResumeRegeneration(sessionID(r)))
}
