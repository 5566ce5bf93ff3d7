// Package daemon provides the long-running background progress monitor.
package daemon

import (
	"context"
	"errors"
	"math"
	"net/http"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/theirongolddev/tburn/internal/model"
	"github.com/theirongolddev/tburn/internal/pipeline"
)

// Event types.
const (
	EventSnapshot      = "snapshot"
	EventProgressDelta = "progress_delta"
)

// RecordSource supplies the ledger contents on every poll.
type RecordSource interface {
	List() ([]model.Record, error)
}

// Config controls the daemon runtime behavior.
type Config struct {
	Source       RecordSource
	Params       model.Params
	LedgerPath   string
	Interval     time.Duration
	Addr         string
	EventsBuffer int
	Logger       zerolog.Logger
}

// Snapshot is a compact progress state for status/event payloads.
type Snapshot struct {
	At              time.Time    `json:"at"`
	Records         int          `json:"records"`
	Status          model.Status `json:"status"`
	EstimatedAge    float64      `json:"estimated_age"`
	AgeDiff         float64      `json:"age_diff"`
	SavedHours      float64      `json:"saved_hours"`
	SpentHours      float64      `json:"spent_hours"`
	NetHours        float64      `json:"net_hours"`
	MonthSaved      float64      `json:"month_saved"`
	MonthSpent      float64      `json:"month_spent"`
	SavingsGap      float64      `json:"savings_gap"`
	RemainingBudget float64      `json:"remaining_budget"`
	ProgressPercent float64      `json:"progress_percent"`
	Deviation       float64      `json:"deviation"`
}

// Delta captures snapshot changes between polls.
type Delta struct {
	Records         int     `json:"records"`
	NetHours        float64 `json:"net_hours"`
	AgeDiff         float64 `json:"age_diff"`
	ProgressPercent float64 `json:"progress_percent"`
	StatusChanged   bool    `json:"status_changed"`
}

func (d Delta) isZero() bool {
	return d.Records == 0 &&
		d.NetHours == 0 &&
		d.AgeDiff == 0 &&
		d.ProgressPercent == 0 &&
		!d.StatusChanged
}

// Event is emitted whenever the progress snapshot changes.
type Event struct {
	ID        int64     `json:"id"`
	Type      string    `json:"type"`
	Timestamp time.Time `json:"timestamp"`
	Snapshot  Snapshot  `json:"snapshot"`
	Delta     Delta     `json:"delta"`
}

// Status is served at /v1/status.
type Status struct {
	StartedAt       time.Time `json:"started_at"`
	LastPollAt      time.Time `json:"last_poll_at"`
	PollIntervalSec int       `json:"poll_interval_sec"`
	PollCount       int64     `json:"poll_count"`
	Ledger          string    `json:"ledger"`
	Summary         Snapshot  `json:"summary"`
	LastError       string    `json:"last_error,omitempty"`
	EventCount      int       `json:"event_count"`
	SubscriberCount int       `json:"subscriber_count"`
}

// Service provides the daemon runtime and HTTP API.
type Service struct {
	cfg Config
	now func() time.Time
	log zerolog.Logger

	mu          sync.RWMutex
	startedAt   time.Time
	lastPollAt  time.Time
	pollCount   int64
	lastError   string
	hasSnapshot bool
	snapshot    Snapshot
	nextEventID int64
	events      []Event

	nextSubID int
	subs      map[int]chan Event
}

// New returns a new daemon service with the provided config.
func New(cfg Config) *Service {
	if cfg.Interval < 2*time.Second {
		cfg.Interval = 10 * time.Second
	}
	if cfg.EventsBuffer < 1 {
		cfg.EventsBuffer = 200
	}
	if cfg.Addr == "" {
		cfg.Addr = "127.0.0.1:8787"
	}

	return &Service{
		cfg:       cfg,
		now:       time.Now,
		log:       cfg.Logger.With().Str("component", "daemon").Logger(),
		startedAt: time.Now(),
		subs:      make(map[int]chan Event),
	}
}

// Run serves the HTTP API and polls the ledger until ctx is canceled.
func (s *Service) Run(ctx context.Context) error {
	server := &http.Server{
		Addr:              s.cfg.Addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		s.log.Info().Str("addr", s.cfg.Addr).Msg("listening")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	g.Go(func() error {
		// Seed an initial snapshot so status is useful immediately.
		s.pollOnce()

		ticker := time.NewTicker(s.cfg.Interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return nil
			case <-ticker.C:
				s.pollOnce()
			}
		}
	})

	g.Go(func() error {
		<-ctx.Done()
		s.log.Info().Msg("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	})

	return g.Wait()
}

func (s *Service) pollOnce() {
	records, err := s.cfg.Source.List()
	now := s.now()
	if err != nil {
		s.mu.Lock()
		s.lastError = err.Error()
		s.lastPollAt = now
		s.pollCount++
		s.mu.Unlock()
		s.log.Error().Err(err).Msg("poll failed")
		return
	}

	snap := BuildSnapshot(s.cfg.Params, records, now)

	var (
		ev      Event
		publish bool
	)

	s.mu.Lock()
	prev := s.snapshot
	prevExists := s.hasSnapshot

	s.hasSnapshot = true
	s.snapshot = snap
	s.lastPollAt = now
	s.pollCount++
	s.lastError = ""

	if !prevExists {
		s.nextEventID++
		ev = Event{ID: s.nextEventID, Type: EventSnapshot, Timestamp: now, Snapshot: snap}
		publish = true
	} else if delta := diffSnapshots(prev, snap); !delta.isZero() {
		s.nextEventID++
		ev = Event{ID: s.nextEventID, Type: EventProgressDelta, Timestamp: now, Snapshot: snap, Delta: delta}
		publish = true
	}
	s.mu.Unlock()

	s.log.Debug().Int("records", snap.Records).Str("status", string(snap.Status)).Bool("changed", publish).Msg("poll")
	if publish {
		s.publishEvent(ev)
	}
}

// BuildSnapshot computes the progress picture for records as of now.
func BuildSnapshot(p model.Params, records []model.Record, now time.Time) Snapshot {
	progress := pipeline.Progress(p.TargetRetireAge, records)
	month := pipeline.MonthlySavingsStatus(p, pipeline.FilterByMonth(records, now))
	traj := pipeline.Trajectory(p, records, now)

	return Snapshot{
		At:              now,
		Records:         len(records),
		Status:          progress.Status,
		EstimatedAge:    progress.EstimatedAge,
		AgeDiff:         progress.AgeDiff,
		SavedHours:      progress.TotalSavedHours,
		SpentHours:      progress.TotalSpentHours,
		NetHours:        progress.NetHoursImpact,
		MonthSaved:      month.ActualMonthlySavings,
		MonthSpent:      month.TotalSpend,
		SavingsGap:      month.SavingsGap,
		RemainingBudget: month.RemainingBudget,
		ProgressPercent: finite(month.ProgressPercent),
		Deviation:       traj.Deviation,
	}
}

// JSON cannot carry NaN or Inf.
func finite(v float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	return v
}

func diffSnapshots(prev, curr Snapshot) Delta {
	return Delta{
		Records:         curr.Records - prev.Records,
		NetHours:        curr.NetHours - prev.NetHours,
		AgeDiff:         curr.AgeDiff - prev.AgeDiff,
		ProgressPercent: curr.ProgressPercent - prev.ProgressPercent,
		StatusChanged:   curr.Status != prev.Status,
	}
}

func (s *Service) publishEvent(ev Event) {
	s.mu.Lock()
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

func (s *Service) snapshotStatus() Status {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return Status{
		StartedAt:       s.startedAt,
		LastPollAt:      s.lastPollAt,
		PollIntervalSec: int(s.cfg.Interval.Seconds()),
		PollCount:       s.pollCount,
		Ledger:          s.cfg.LedgerPath,
		Summary:         s.snapshot,
		LastError:       s.lastError,
		EventCount:      len(s.events),
		SubscriberCount: len(s.subs),
	}
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
