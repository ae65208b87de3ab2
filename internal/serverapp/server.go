package serverapp

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"strings"
	"time"

	"emberlog/internal/config"
	"emberlog/internal/energy"
	"emberlog/internal/event"
	"emberlog/internal/httpmw"
	"emberlog/internal/outline"
	"emberlog/internal/stats"
	staticfiles "emberlog/static"
)

type Options struct {
	Config        *config.Config
	StaticDir     string
	UseDiskStatic bool
	Logger        *log.Logger
	Clock         energy.Clock
}

// App bundles the wired components so the entrypoint can run the background
// pieces (ticker, watcher) alongside the HTTP handler.
type App struct {
	Handler http.Handler
	Store   *outline.Store
	Engine  *energy.Engine
	Ticker  *energy.Ticker
	Watcher *outline.Watcher
	Bus     *event.Bus
}

func New(opts Options) (*App, error) {
	if opts.Config == nil {
		return nil, errors.New("config is required")
	}
	if strings.TrimSpace(opts.StaticDir) == "" {
		opts.StaticDir = "static"
	}
	if opts.Logger == nil {
		opts.Logger = log.Default()
	}
	if opts.Clock == nil {
		opts.Clock = energy.RealClock{}
	}
	cfg := opts.Config

	bus := event.NewBus()

	store, err := outline.NewStore(cfg.Outline.Path, cfg.Outline.BackupDir, opts.Logger)
	if err != nil {
		return nil, err
	}

	engine := energy.NewEngine(energy.Options{
		Bus:                     bus,
		Clock:                   opts.Clock,
		Logger:                  opts.Logger,
		MaxEnergy:               cfg.Energy.MaxEnergy,
		RegenInterval:           time.Duration(cfg.Energy.RegenIntervalMinutes) * time.Minute,
		BreakMinMinutes:         cfg.Energy.Break.MinMinutes,
		BreakMaxMinutes:         cfg.Energy.Break.MaxMinutes,
		BreakRestorePerInterval: cfg.Energy.Break.RestorePerQuarterHour,
	})

	mux := http.NewServeMux()

	staticHandler := http.FileServer(http.FS(staticfiles.EmbeddedFS()))
	if opts.UseDiskStatic {
		staticHandler = http.FileServer(http.Dir(opts.StaticDir))
	}
	mux.Handle("/assets/", staticHandler)
	mux.Handle("/", rootOnly(staticHandler))

	outlineHandler := outline.NewHandler(store, bus)
	mux.HandleFunc("/api/todos", outlineHandler.Todos)

	statsHandler := stats.NewHandler(store)
	mux.HandleFunc("/api/stats", statsHandler.Summary)
	mux.HandleFunc("/api/stats/bonus", statsHandler.Bonus)
	mux.HandleFunc("/api/quick-win", statsHandler.QuickWin)

	energyHandler := energy.NewHandler(engine)
	mux.HandleFunc("/api/energy", energyHandler.State)
	mux.HandleFunc("/api/energy/consume", energyHandler.Consume)
	mux.HandleFunc("/api/energy/break", energyHandler.Break)
	mux.HandleFunc("/api/energy/restore", energyHandler.Restore)
	mux.HandleFunc("/api/energy/regeneration", energyHandler.Regeneration)
	mux.HandleFunc("/api/energy/regeneration/pause", energyHandler.Pause)
	mux.HandleFunc("/api/energy/regeneration/resume", energyHandler.Resume)

	mux.HandleFunc("/api/events", streamEvents(bus))

	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			w.WriteHeader(http.StatusMethodNotAllowed)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{
			"ok":      true,
			"service": "emberlog",
			"time":    time.Now().UTC().Format(time.RFC3339),
		})
	})

	mux.HandleFunc("/readyz", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			w.WriteHeader(http.StatusMethodNotAllowed)
			return
		}
		if _, err := store.Load(); err != nil {
			writeJSON(w, http.StatusServiceUnavailable, map[string]any{
				"ok":    false,
				"error": "outline storage unavailable",
			})
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{
			"ok":      true,
			"service": "emberlog",
			"time":    time.Now().UTC().Format(time.RFC3339),
		})
	})

	var watcher *outline.Watcher
	if cfg.Outline.Watch {
		watcher = outline.NewWatcher(store, bus, opts.Logger)
	}

	handler := httpmw.Chain(
		mux,
		httpmw.WithAccessLog(opts.Logger),
		httpmw.WithRequestID,
		httpmw.WithRecover(opts.Logger),
	)

	return &App{
		Handler: handler,
		Store:   store,
		Engine:  engine,
		Ticker: &energy.Ticker{
			Engine:   engine,
			Interval: time.Duration(cfg.Energy.TickSeconds) * time.Second,
		},
		Watcher: watcher,
		Bus:     bus,
	}, nil
}

// rootOnly serves the index for "/" and 404s everything else, so unknown
// paths do not fall through to the file server's directory listing.
func rootOnly(h http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/" {
			http.NotFound(w, r)
			return
		}
		h.ServeHTTP(w, r)
	})
}

// streamEvents forwards bus events to the client as server-sent events.
// Delivery is best-effort; a slow client only loses its own events.
func streamEvents(bus *event.Bus) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			w.WriteHeader(http.StatusMethodNotAllowed)
			return
		}
		flusher, ok := w.(http.Flusher)
		if !ok {
			http.Error(w, "streaming unsupported", http.StatusInternalServerError)
			return
		}

		w.Header().Set("Content-Type", "text/event-stream")
		w.Header().Set("Cache-Control", "no-cache")
		w.Header().Set("Connection", "keep-alive")

		ch, cancel := bus.Subscribe(32)
		defer cancel()

		for {
			select {
			case <-r.Context().Done():
				return
			case ev, open := <-ch:
				if !open {
					return
				}
				b, err := json.Marshal(ev)
				if err != nil {
					continue
				}
				fmt.Fprintf(w, "data: %s\n\n", b)
				flusher.Flush()
			}
		}
	}
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func UseDiskStaticByEnv() bool {
	switch strings.ToLower(strings.TrimSpace(os.Getenv("EMBERLOG_DEV_STATIC"))) {
	case "1", "true", "yes":
		return true
	default:
		return false
	}
}
