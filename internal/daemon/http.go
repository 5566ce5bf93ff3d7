package daemon

import (
	"encoding/json"
	"fmt"
	"math"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"

	"github.com/theirongolddev/tburn/internal/cli"
	"github.com/theirongolddev/tburn/internal/finance"
	"github.com/theirongolddev/tburn/internal/logging"
)

// TimeCostResponse is served at /v1/timecost.
type TimeCostResponse struct {
	Amount    float64 `json:"amount"`
	Recurring bool    `json:"recurring"`
	Months    float64 `json:"months,omitempty"`
	Hours     float64 `json:"hours"`
	Formatted string  `json:"formatted"`
	Unit      string  `json:"unit"`
}

// Handler returns the daemon's HTTP routes.
func (s *Service) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(logging.Middleware(&s.log))
	r.Use(middleware.Recoverer)

	r.Get("/healthz", s.handleHealth)
	r.Route("/v1", func(r chi.Router) {
		r.Get("/status", s.handleStatus)
		r.Get("/events", s.handleEvents)
		r.Get("/stream", s.handleStream)
		r.Get("/timecost", s.handleTimeCost)
	})
	return r
}

func (s *Service) handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = w.Write([]byte("ok\n"))
}

func (s *Service) handleStatus(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, s.snapshotStatus())
}

func (s *Service) handleEvents(w http.ResponseWriter, _ *http.Request) {
	s.mu.RLock()
	events := make([]Event, len(s.events))
	copy(events, s.events)
	s.mu.RUnlock()

	writeJSON(w, http.StatusOK, events)
}

func (s *Service) handleTimeCost(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	amount, err := parseFinite(q.Get("amount"))
	if err != nil || amount < 0 {
		http.Error(w, "amount must be a non-negative number", http.StatusBadRequest)
		return
	}
	recurring, _ := strconv.ParseBool(q.Get("recurring"))

	c := finance.Charge{Amount: amount, Recurring: recurring}
	resp := TimeCostResponse{Amount: amount, Recurring: recurring}
	if m := q.Get("months"); m != "" {
		months, err := parseFinite(m)
		if err != nil || months <= 0 {
			http.Error(w, "months must be a positive number", http.StatusBadRequest)
			return
		}
		c.Recurring = true
		c.MonthsDuration = &months
		resp.Recurring, resp.Months = true, months
	}

	resp.Hours = finance.AssumptionsFor(s.cfg.Params).TimeCost(c)
	if math.IsNaN(resp.Hours) || math.IsInf(resp.Hours, 0) {
		http.Error(w, "amount is too large to price", http.StatusBadRequest)
		return
	}
	span := cli.FormatTime(resp.Hours)
	resp.Formatted, resp.Unit = span.String(), string(span.Unit)

	zerolog.Ctx(r.Context()).Debug().Float64("hours", resp.Hours).Msg("time cost")
	writeJSON(w, http.StatusOK, resp)
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

	writeSSE(w, Event{
		Type:      EventSnapshot,
		Timestamp: time.Now(),
		Snapshot:  s.snapshotStatus().Summary,
	})
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

// parseFinite parses a float, rejecting NaN and the infinities.
func parseFinite(s string) (float64, error) {
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, err
	}
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, fmt.Errorf("%q is not a finite number", s)
	}
	return v, nil
}

// writeJSON encodes before writing the header so an encoding failure
// becomes a 500 rather than an empty 200.
func writeJSON(w http.ResponseWriter, code int, v any) {
	data, err := json.Marshal(v)
	if err != nil {
		http.Error(w, "encoding response: "+err.Error(), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_, _ = w.Write(append(data, '\n'))
}

func writeSSE(w http.ResponseWriter, ev Event) {
	data, err := json.Marshal(ev)
	if err != nil {
		return
	}
	_, _ = fmt.Fprintf(w, "event: %s\n", ev.Type)
	_, _ = fmt.Fprintf(w, "data: %s\n\n", data)
}
