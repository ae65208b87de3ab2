package outline

import (
	"encoding/json"
	"log"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"emberlog/internal/event"
	"emberlog/internal/model"
)

func newHandlerForTest(t *testing.T) (*Handler, *event.Bus, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "todos.md")
	store, err := NewStore(path, "", log.Default())
	if err != nil {
		t.Fatalf("new store: %v", err)
	}
	bus := event.NewBus()
	return NewHandler(store, bus), bus, path
}

func TestTodos_GetParsesFile(t *testing.T) {
	h, _, path := newHandlerForTest(t)
	if err := os.WriteFile(path, []byte("# today\n- [ ] walk dog !15m\n"), 0o644); err != nil {
		t.Fatalf("seed file: %v", err)
	}

	req := httptest.NewRequest(http.MethodGet, "/api/todos", nil)
	rec := httptest.NewRecorder()
	h.Todos(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d body=%s", rec.Code, rec.Body.String())
	}
	var out model.Sections
	if err := json.NewDecoder(rec.Body).Decode(&out); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(out.Today) != 1 || out.Today[0].Title != "walk dog" {
		t.Fatalf("unexpected sections: %+v", out)
	}
}

func TestTodos_PostSavesAndPublishes(t *testing.T) {
	h, bus, path := newHandlerForTest(t)

	ch, cancel := bus.Subscribe(4)
	defer cancel()

	body := strings.NewReader(`{"today":[{"title":"walk dog","effort":"15m"}],"ideas":[],"backlog":[]}`)
	req := httptest.NewRequest(http.MethodPost, "/api/todos", body)
	rec := httptest.NewRecorder()
	h.Todos(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d body=%s", rec.Code, rec.Body.String())
	}

	b, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read saved file: %v", err)
	}
	if !strings.Contains(string(b), "- [ ] walk dog !15m") {
		t.Fatalf("saved content missing task: %q", string(b))
	}

	select {
	case ev := <-ch:
		if ev.Type != event.TypeUpdate {
			t.Fatalf("expected update event, got %v", ev.Type)
		}
	default:
		t.Fatal("expected an update event")
	}
}

func TestTodos_BadJSON(t *testing.T) {
	h, _, _ := newHandlerForTest(t)

	req := httptest.NewRequest(http.MethodPost, "/api/todos", strings.NewReader("{nope"))
	rec := httptest.NewRecorder()
	h.Todos(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

func TestTodos_MethodNotAllowed(t *testing.T) {
	h, _, _ := newHandlerForTest(t)

	req := httptest.NewRequest(http.MethodDelete, "/api/todos", nil)
	rec := httptest.NewRecorder()
	h.Todos(rec, req)

	if rec.Code != http.StatusMethodNotAllowed {
		t.Fatalf("expected 405, got %d", rec.Code)
	}
}
