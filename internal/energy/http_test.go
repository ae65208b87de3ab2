package energy

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

func newHandlerForTest() *Handler {
	clock := NewFakeClock(time.Date(2026, 8, 29, 9, 0, 0, 0, time.UTC))
	return NewHandler(NewEngine(Options{Clock: clock}))
}

func TestState_DefaultSession(t *testing.T) {
	h := newHandlerForTest()

	req := httptest.NewRequest(http.MethodGet, "/api/energy", nil)
	rec := httptest.NewRecorder()
	h.State(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d body=%s", rec.Code, rec.Body.String())
	}
	var out Snapshot
	if err := json.NewDecoder(rec.Body).Decode(&out); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if out.SessionID != DefaultSessionID {
		t.Fatalf("expected default session, got %q", out.SessionID)
	}
	if out.CurrentEnergy != DefaultMaxEnergy {
		t.Fatalf("expected full energy, got %d", out.CurrentEnergy)
	}
}

func TestConsume_EndpointWithMetadata(t *testing.T) {
	h := newHandlerForTest()

	body := strings.NewReader(`{"task_id":"task_2","task_metadata":{"effort":"1h","friction":"x"}}`)
	req := httptest.NewRequest(http.MethodPost, "/api/energy/consume", body)
	rec := httptest.NewRecorder()
	h.Consume(rec, req)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for bad json, got %d", rec.Code)
	}

	body = strings.NewReader(`{"task_id":"task_2","task_metadata":{"effort":"1h","friction":3}}`)
	req = httptest.NewRequest(http.MethodPost, "/api/energy/consume", body)
	rec = httptest.NewRecorder()
	h.Consume(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d body=%s", rec.Code, rec.Body.String())
	}
	var out ConsumeResult
	if err := json.NewDecoder(rec.Body).Decode(&out); err != nil {
		t.Fatalf("decode: %v", err)
	}
	// 60/30 + (3-2) = 3.
	if out.EnergyConsumed != 3 {
		t.Fatalf("expected cost 3, got %d", out.EnergyConsumed)
	}
	if out.TaskID != "task_2" {
		t.Fatalf("expected task id echoed, got %q", out.TaskID)
	}
}

func TestConsume_EndpointRejections(t *testing.T) {
	h := newHandlerForTest()

	// Missing friction in metadata.
	body := strings.NewReader(`{"task_metadata":{"effort":"1h"}}`)
	req := httptest.NewRequest(http.MethodPost, "/api/energy/consume", body)
	rec := httptest.NewRecorder()
	h.Consume(rec, req)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d body=%s", rec.Code, rec.Body.String())
	}

	// More than the session holds.
	body = strings.NewReader(`{"amount":99}`)
	req = httptest.NewRequest(http.MethodPost, "/api/energy/consume", body)
	rec = httptest.NewRecorder()
	h.Consume(rec, req)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d body=%s", rec.Code, rec.Body.String())
	}
}

func TestBreakAndRestore_Endpoints(t *testing.T) {
	h := newHandlerForTest()

	// Break at full energy is rejected.
	req := httptest.NewRequest(http.MethodPost, "/api/energy/break?duration_minutes=30", nil)
	rec := httptest.NewRecorder()
	h.Break(rec, req)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 at full energy, got %d", rec.Code)
	}

	body := strings.NewReader(`{"amount":6}`)
	req = httptest.NewRequest(http.MethodPost, "/api/energy/consume", body)
	rec = httptest.NewRecorder()
	h.Consume(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("consume: expected 200, got %d", rec.Code)
	}

	req = httptest.NewRequest(http.MethodPost, "/api/energy/break?duration_minutes=30", nil)
	rec = httptest.NewRecorder()
	h.Break(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("break: expected 200, got %d body=%s", rec.Code, rec.Body.String())
	}
	var br BreakResult
	if err := json.NewDecoder(rec.Body).Decode(&br); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if br.EnergyToRestore != 2 {
		t.Fatalf("expected 2 to restore, got %d", br.EnergyToRestore)
	}

	req = httptest.NewRequest(http.MethodPost, "/api/energy/restore", nil)
	rec = httptest.NewRecorder()
	h.Restore(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("restore: expected 200, got %d body=%s", rec.Code, rec.Body.String())
	}
	var rr RestoreResult
	if err := json.NewDecoder(rec.Body).Decode(&rr); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if rr.EnergyRestored != 1 {
		t.Fatalf("expected minimum restore of 1, got %d", rr.EnergyRestored)
	}
}

func TestBreak_InvalidDuration(t *testing.T) {
	h := newHandlerForTest()

	req := httptest.NewRequest(http.MethodPost, "/api/energy/break?duration_minutes=soon", nil)
	rec := httptest.NewRecorder()
	h.Break(rec, req)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

func TestRegeneration_PauseResumeEndpoints(t *testing.T) {
	h := newHandlerForTest()

	body := strings.NewReader(`{"amount":4}`)
	req := httptest.NewRequest(http.MethodPost, "/api/energy/consume?session_id=s1", body)
	rec := httptest.NewRecorder()
	h.Consume(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("consume: expected 200, got %d", rec.Code)
	}

	req = httptest.NewRequest(http.MethodGet, "/api/energy/regeneration?session_id=s1", nil)
	rec = httptest.NewRecorder()
	h.Regeneration(rec, req)
	var read RegenRead
	if err := json.NewDecoder(rec.Body).Decode(&read); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if !read.IsRegenerating {
		t.Fatal("expected regeneration after consume")
	}

	req = httptest.NewRequest(http.MethodPost, "/api/energy/regeneration/pause?session_id=s1", nil)
	rec = httptest.NewRecorder()
	h.Pause(rec, req)
	if err := json.NewDecoder(rec.Body).Decode(&read); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if read.IsRegenerating {
		t.Fatal("expected paused read to report not regenerating")
	}

	req = httptest.NewRequest(http.MethodPost, "/api/energy/regeneration/resume?session_id=s1", nil)
	rec = httptest.NewRecorder()
	h.Resume(rec, req)
	if err := json.NewDecoder(rec.Body).Decode(&read); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if !read.IsRegenerating {
		t.Fatal("expected resumed read to report regenerating")
	}
}

func TestSessionIsolation_OverHTTP(t *testing.T) {
	h := newHandlerForTest()

	body := strings.NewReader(`{"amount":5}`)
	req := httptest.NewRequest(http.MethodPost, "/api/energy/consume?session_id=alice", body)
	rec := httptest.NewRecorder()
	h.Consume(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("consume: expected 200, got %d", rec.Code)
	}

	req = httptest.NewRequest(http.MethodGet, "/api/energy?session_id=bob", nil)
	rec = httptest.NewRecorder()
	h.State(rec, req)
	var out Snapshot
	if err := json.NewDecoder(rec.Body).Decode(&out); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if out.CurrentEnergy != DefaultMaxEnergy {
		t.Fatalf("expected bob untouched, got %d", out.CurrentEnergy)
	}
}

func TestEndpoints_MethodNotAllowed(t *testing.T) {
	h := newHandlerForTest()

	req := httptest.NewRequest(http.MethodPost, "/api/energy", nil)
	rec := httptest.NewRecorder()
	h.State(rec, req)
	if rec.Code != http.StatusMethodNotAllowed {
		t.Fatalf("expected 405, got %d", rec.Code)
	}

	req = httptest.NewRequest(http.MethodGet, "/api/energy/consume", nil)
	rec = httptest.NewRecorder()
	h.Consume(rec, req)
	if rec.Code != http.StatusMethodNotAllowed {
		t.Fatalf("expected 405, got %d", rec.Code)
	}
}
