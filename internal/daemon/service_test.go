package daemon

import (
	"encoding/json"
	"errors"
	"math"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/theirongolddev/tburn/internal/model"
)

type fakeSource struct {
	records []model.Record
	err     error
}

func (f *fakeSource) List() ([]model.Record, error) {
	return f.records, f.err
}

var testNow = time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)

func newTestService(src RecordSource) *Service {
	s := New(Config{
		Source: src,
		Params: model.Params{
			Age: 30, TargetRetireAge: 60, Salary: 17_600,
			MonthlySavings: 2000, InflationRate: 0, ROIRate: 0,
			CreatedAt: testNow.AddDate(0, -1, 0),
		},
		Interval:     10 * time.Second,
		EventsBuffer: 10,
		Logger:       zerolog.Nop(),
	})
	s.now = func() time.Time { return testNow }
	return s
}

func TestDiffSnapshots(t *testing.T) {
	prev := Snapshot{Records: 10, NetHours: 40, AgeDiff: -0.02, ProgressPercent: 50, Status: model.Behind}
	curr := Snapshot{Records: 12, NetHours: 28, AgeDiff: -0.013, ProgressPercent: 80, Status: model.Behind}

	delta := diffSnapshots(prev, curr)
	if delta.Records != 2 {
		t.Fatalf("Records delta = %d, want 2", delta.Records)
	}
	if math.Abs(delta.NetHours+12) > 1e-9 {
		t.Fatalf("NetHours delta = %.2f, want -12", delta.NetHours)
	}
	if math.Abs(delta.ProgressPercent-30) > 1e-9 {
		t.Fatalf("ProgressPercent delta = %.2f, want 30", delta.ProgressPercent)
	}
	if delta.StatusChanged {
		t.Fatal("status unexpectedly reported as changed")
	}
	if delta.isZero() {
		t.Fatal("delta unexpectedly reported as zero")
	}

	curr.Status = model.OnTrack
	if !diffSnapshots(prev, curr).StatusChanged {
		t.Fatal("status change not detected")
	}
	if !diffSnapshots(curr, curr).isZero() {
		t.Fatal("identical snapshots should give a zero delta")
	}
}

func TestPublishEventRingBuffer(t *testing.T) {
	s := New(Config{
		Source:       &fakeSource{},
		Interval:     10 * time.Second,
		EventsBuffer: 2,
	})

	s.publishEvent(Event{ID: 1})
	s.publishEvent(Event{ID: 2})
	s.publishEvent(Event{ID: 3})

	s.mu.RLock()
	defer s.mu.RUnlock()

	if len(s.events) != 2 {
		t.Fatalf("events len = %d, want 2", len(s.events))
	}
	if s.events[0].ID != 2 || s.events[1].ID != 3 {
		t.Fatalf("events ring contains IDs [%d, %d], want [2, 3]", s.events[0].ID, s.events[1].ID)
	}
}

func TestPollOnce_PublishesOnChange(t *testing.T) {
	src := &fakeSource{records: []model.Record{
		{Type: model.Save, Amount: 1000, TimeCost: 10, Timestamp: testNow.AddDate(0, 0, -3)},
	}}
	s := newTestService(src)

	s.pollOnce()
	s.pollOnce() // unchanged ledger, no event
	src.records = append(src.records, model.Record{Type: model.Spend, Amount: 500, TimeCost: 50, Timestamp: testNow.AddDate(0, 0, -1)})
	s.pollOnce()

	s.mu.RLock()
	defer s.mu.RUnlock()
	require.Len(t, s.events, 2)
	assert.Equal(t, EventSnapshot, s.events[0].Type)
	assert.Equal(t, EventProgressDelta, s.events[1].Type)
	assert.Equal(t, 1, s.events[1].Delta.Records)
	assert.InDelta(t, 50, s.events[1].Delta.NetHours, 1e-9)
	assert.Equal(t, int64(3), s.pollCount)
}

func TestPollOnce_RecordsError(t *testing.T) {
	s := newTestService(&fakeSource{err: errors.New("disk gone")})
	s.pollOnce()

	st := s.snapshotStatus()
	assert.Equal(t, "disk gone", st.LastError)
	assert.Equal(t, int64(1), st.PollCount)
	assert.Zero(t, st.EventCount)
}

func TestBuildSnapshot(t *testing.T) {
	p := model.Params{Age: 30, TargetRetireAge: 60, Salary: 10_000, MonthlySavings: 2000}
	records := []model.Record{
		{Type: model.Save, Amount: 2000, TimeCost: 4, Timestamp: testNow.AddDate(0, 0, -2)},
		{Type: model.Spend, Amount: 3000, TimeCost: 2112, Timestamp: testNow.AddDate(0, 0, -1)},
	}

	snap := BuildSnapshot(p, records, testNow)
	assert.Equal(t, 2, snap.Records)
	assert.Equal(t, model.Behind, snap.Status)
	assert.InDelta(t, 2108, snap.NetHours, 1e-9)
	assert.Equal(t, 2000.0, snap.MonthSaved)
	assert.Equal(t, 3000.0, snap.MonthSpent)
	assert.InDelta(t, 0, snap.SavingsGap, 1e-6)
	assert.InDelta(t, 100, snap.ProgressPercent, 1e-6)
	assert.InDelta(t, 5000, snap.RemainingBudget, 1e-6)
}

func TestHTTP(t *testing.T) {
	s := newTestService(&fakeSource{records: []model.Record{
		{Type: model.Save, Amount: 100, TimeCost: 1, Timestamp: testNow.AddDate(0, 0, -1)},
	}})
	s.pollOnce()

	srv := httptest.NewServer(s.Handler())
	defer srv.Close()

	t.Run("healthz", func(t *testing.T) {
		resp, err := http.Get(srv.URL + "/healthz")
		require.NoError(t, err)
		defer resp.Body.Close()
		assert.Equal(t, http.StatusOK, resp.StatusCode)
	})

	t.Run("status", func(t *testing.T) {
		resp, err := http.Get(srv.URL + "/v1/status")
		require.NoError(t, err)
		defer resp.Body.Close()

		var st Status
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&st))
		assert.Equal(t, 1, st.Summary.Records)
		assert.Equal(t, 1, st.EventCount)
	})

	t.Run("events", func(t *testing.T) {
		resp, err := http.Get(srv.URL + "/v1/events")
		require.NoError(t, err)
		defer resp.Body.Close()

		var events []Event
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&events))
		require.Len(t, events, 1)
		assert.Equal(t, EventSnapshot, events[0].Type)
	})

	t.Run("timecost", func(t *testing.T) {
		// Salary 17,600 is 100 an hour; rates of zero keep 250 at 250.
		resp, err := http.Get(srv.URL + "/v1/timecost?amount=250")
		require.NoError(t, err)
		defer resp.Body.Close()

		var tc TimeCostResponse
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&tc))
		assert.InDelta(t, 2.5, tc.Hours, 1e-9)
		assert.Equal(t, "2.5 hours", tc.Formatted)
	})

	t.Run("timecost finite subscription", func(t *testing.T) {
		resp, err := http.Get(srv.URL + "/v1/timecost?amount=100&months=3")
		require.NoError(t, err)
		defer resp.Body.Close()

		var tc TimeCostResponse
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&tc))
		assert.True(t, tc.Recurring)
		assert.InDelta(t, 3, tc.Hours, 1e-9)
	})

	t.Run("timecost bad input", func(t *testing.T) {
		for _, q := range []string{"", "?amount=abc", "?amount=-1", "?amount=5&months=0",
			"?amount=NaN", "?amount=Inf", "?amount=-Inf", "?amount=5&months=NaN", "?amount=5&months=Inf",
			"?amount=1e308&months=1e300"} {
			resp, err := http.Get(srv.URL + "/v1/timecost" + q)
			require.NoError(t, err)
			resp.Body.Close()
			assert.Equal(t, http.StatusBadRequest, resp.StatusCode, "query %q", q)
		}
	})
}
