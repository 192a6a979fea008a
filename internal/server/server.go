// Package server exposes the plan and generation pipeline over a local
// HTTP API, with an SSE stream for generation progress events.
package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"time"

	json "github.com/goccy/go-json"
	"go.uber.org/zap"

	"github.com/theirongolddev/futureline/internal/mediacache"
	"github.com/theirongolddev/futureline/internal/pipeline"
	"github.com/theirongolddev/futureline/internal/planstore"
)

// Config controls the server runtime.
type Config struct {
	Addr         string
	EventsBuffer int
}

// Event is emitted after mutations and completed generation runs.
type Event struct {
	ID        int64     `json:"id"`
	Type      string    `json:"type"`
	Timestamp time.Time `json:"timestamp"`
	Year      int       `json:"year,omitempty"`
	DayType   string    `json:"dayType,omitempty"`
	Images    int       `json:"images,omitempty"`
	Dropped   []string  `json:"dropped,omitempty"`
}

// Status is served at /v1/status.
type Status struct {
	StartedAt       time.Time `json:"started_at"`
	Addr            string    `json:"addr"`
	PlanExists      bool      `json:"plan_exists"`
	BoardsCached    int       `json:"boards_cached"`
	EventCount      int       `json:"event_count"`
	SubscriberCount int       `json:"subscriber_count"`
}

// Service wires the plan store, generation pipeline, and media cache into
// HTTP handlers.
type Service struct {
	cfg   Config
	store *planstore.Store
	pipe  *pipeline.Pipeline
	cache *mediacache.Cache
	log   *zap.Logger

	mu          sync.RWMutex
	startedAt   time.Time
	nextEventID int64
	events      []Event

	nextSubID int
	subs      map[int]chan Event
}

// New returns a Service. The cache may be nil.
func New(cfg Config, store *planstore.Store, pipe *pipeline.Pipeline, cache *mediacache.Cache, log *zap.Logger) *Service {
	if cfg.Addr == "" {
		cfg.Addr = "127.0.0.1:8791"
	}
	if cfg.EventsBuffer < 1 {
		cfg.EventsBuffer = 200
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Service{
		cfg:       cfg,
		store:     store,
		pipe:      pipe,
		cache:     cache,
		log:       log,
		startedAt: time.Now(),
		subs:      make(map[int]chan Event),
	}
}

// Handler builds the route mux. Split out from Run for tests.
func (s *Service) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /healthz", s.handleHealth)
	mux.HandleFunc("GET /v1/status", s.handleStatus)
	mux.HandleFunc("GET /v1/events", s.handleEvents)
	mux.HandleFunc("GET /v1/stream", s.handleStream)
	mux.HandleFunc("GET /v1/plan", s.handleGetPlan)
	mux.HandleFunc("PUT /v1/plan", s.handlePutPlan)
	mux.HandleFunc("GET /v1/timeline", s.handleTimeline)
	mux.HandleFunc("POST /v1/day-text", s.handleDayText)
	mux.HandleFunc("POST /v1/day-texts", s.handleDayTexts)
	mux.HandleFunc("POST /v1/analyze-photo", s.handleAnalyzePhoto)
	mux.HandleFunc("POST /v1/scenes", s.handleScenes)
	mux.HandleFunc("POST /v1/anchor", s.handleAnchor)
	mux.HandleFunc("POST /v1/scene-image", s.handleSceneImage)
	mux.HandleFunc("POST /v1/vision-board", s.handleVisionBoard)
	mux.HandleFunc("POST /v1/timeline-images", s.handleTimelineImages)
	return mux
}

// Run serves the API until ctx is canceled.
func (s *Service) Run(ctx context.Context) error {
	server := &http.Server{
		Addr:              s.cfg.Addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	s.log.Info("server listening", zap.String("addr", s.cfg.Addr))

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	case err := <-errCh:
		return fmt.Errorf("server: %w", err)
	}
}

func (s *Service) publish(ev Event) {
	s.mu.Lock()
	s.nextEventID++
	ev.ID = s.nextEventID
	ev.Timestamp = time.Now()
	s.events = append(s.events, ev)
	if len(s.events) > s.cfg.EventsBuffer {
		s.events = s.events[len(s.events)-s.cfg.EventsBuffer:]
	}
	for _, ch := range s.subs {
		select {
		case ch <- ev:
		default:
		}
	}
	s.mu.Unlock()
}

func (s *Service) addSubscriber(ch chan Event) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextSubID++
	id := s.nextSubID
	s.subs[id] = ch
	return id
}

func (s *Service) removeSubscriber(id int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.subs, id)
}

func (s *Service) handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = w.Write([]byte("ok\n"))
}

func (s *Service) handleStatus(w http.ResponseWriter, _ *http.Request) {
	planExists := true
	if _, err := s.store.Load(); err != nil {
		planExists = false
	}

	boards := 0
	if s.cache != nil {
		if n, err := s.cache.BoardCount(); err == nil {
			boards = n
		}
	}

	s.mu.RLock()
	st := Status{
		StartedAt:       s.startedAt,
		Addr:            s.cfg.Addr,
		PlanExists:      planExists,
		BoardsCached:    boards,
		EventCount:      len(s.events),
		SubscriberCount: len(s.subs),
	}
	s.mu.RUnlock()

	writeJSON(w, http.StatusOK, st)
}

func (s *Service) handleEvents(w http.ResponseWriter, _ *http.Request) {
	s.mu.RLock()
	events := make([]Event, len(s.events))
	copy(events, s.events)
	s.mu.RUnlock()

	writeJSON(w, http.StatusOK, events)
}

func (s *Service) handleStream(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "streaming unsupported", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")

	ch := make(chan Event, 16)
	id := s.addSubscriber(ch)
	defer s.removeSubscriber(id)

	flusher.Flush()

	for {
		select {
		case <-r.Context().Done():
			return
		case ev := <-ch:
			writeSSE(w, ev)
			flusher.Flush()
		}
	}
}

func writeSSE(w http.ResponseWriter, ev Event) {
	data, err := json.Marshal(ev)
	if err != nil {
		return
	}
	_, _ = fmt.Fprintf(w, "event: %s\n", ev.Type)
	_, _ = fmt.Fprintf(w, "data: %s\n\n", data)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
