package store

import (
	"database/sql"
	"errors"
	"math"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/theirongolddev/tburn/internal/finance"
	"github.com/theirongolddev/tburn/internal/model"
	"github.com/theirongolddev/tburn/internal/source"
)

func openTestLedger(t *testing.T) *Ledger {
	t.Helper()
	l, err := Open(filepath.Join(t.TempDir(), "nested", "ledger.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = l.Close() })
	return l
}

func day(d int) time.Time {
	return time.Date(2025, 3, d, 9, 30, 0, 0, time.UTC)
}

func TestOpen_Migrates(t *testing.T) {
	l := openTestLedger(t)

	version, err := SchemaVersion(l.Path())
	require.NoError(t, err)
	assert.Equal(t, uint(2), version)

	// Reopening an up-to-date ledger is a no-op.
	again, err := Open(l.Path())
	require.NoError(t, err)
	require.NoError(t, again.Close())
}

func TestAddAndList(t *testing.T) {
	l := openTestLedger(t)

	months := 6.0
	_, err := l.Add(model.Record{Type: model.Spend, Amount: 15.99, TimeCost: 1.5, IsRecurring: true, MonthsDuration: &months, Timestamp: day(3)})
	require.NoError(t, err)
	saved, err := l.Add(model.Record{Type: model.Save, Amount: 0.1, Note: "coins", Timestamp: day(1)})
	require.NoError(t, err)
	assert.NotEmpty(t, saved.ID)

	recs, err := l.List()
	require.NoError(t, err)
	require.Len(t, recs, 2)

	assert.Equal(t, saved.ID, recs[0].ID, "oldest first")
	assert.Equal(t, 0.1, recs[0].Amount)
	assert.Equal(t, "coins", recs[0].Note)
	assert.True(t, recs[0].Timestamp.Equal(day(1)))

	sub := recs[1]
	assert.Equal(t, model.Active, sub.RecurringStatus)
	require.NotNil(t, sub.MonthsDuration)
	assert.Equal(t, 6.0, *sub.MonthsDuration)
	assert.Equal(t, 15.99, sub.Amount)

	n, err := l.Count()
	require.NoError(t, err)
	assert.Equal(t, 2, n)
}

func TestAdd_Rejects(t *testing.T) {
	l := openTestLedger(t)

	_, err := l.Add(model.Record{Type: "borrow", Amount: 1})
	assert.True(t, errors.Is(err, ErrUnknownType))

	_, err = l.Add(model.Record{Type: model.Save, Amount: -1})
	assert.True(t, errors.Is(err, ErrInvalidAmount))

	n, err := l.Count()
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestListBetween(t *testing.T) {
	l := openTestLedger(t)
	for d := 1; d <= 5; d++ {
		_, err := l.Add(model.Record{Type: model.Save, Amount: float64(d), Timestamp: day(d)})
		require.NoError(t, err)
	}

	recs, err := l.ListBetween(day(2), day(4))
	require.NoError(t, err)
	require.Len(t, recs, 2)
	assert.Equal(t, 2.0, recs[0].Amount)
	assert.Equal(t, 3.0, recs[1].Amount)

	recs, err = l.ListBetween(day(4), time.Time{})
	require.NoError(t, err)
	assert.Len(t, recs, 2)
}

func TestEndRecurring(t *testing.T) {
	l := openTestLedger(t)

	sub, err := l.Add(model.Record{Type: model.Spend, Amount: 10, IsRecurring: true, Timestamp: day(1)})
	require.NoError(t, err)
	once, err := l.Add(model.Record{Type: model.Spend, Amount: 10, Timestamp: day(1)})
	require.NoError(t, err)

	ended, err := l.EndRecurring(sub.ID[:8], day(20))
	require.NoError(t, err)
	assert.True(t, ended.IsEnded())

	got, err := l.Get(sub.ID)
	require.NoError(t, err)
	assert.Equal(t, model.Ended, got.RecurringStatus)
	assert.True(t, got.EndedAt.Equal(day(20)))
	assert.False(t, got.CountsForward())

	_, err = l.EndRecurring(once.ID, day(20))
	assert.True(t, errors.Is(err, ErrNotRecurring))
}

func TestDelete(t *testing.T) {
	l := openTestLedger(t)

	r, err := l.Add(model.Record{Type: model.Save, Amount: 5})
	require.NoError(t, err)
	require.NoError(t, l.Delete(r.ID))

	_, err = l.Get(r.ID)
	assert.True(t, errors.Is(err, ErrNotFound))
	assert.True(t, errors.Is(l.Delete(r.ID), ErrNotFound))
}

func TestSum_IsExact(t *testing.T) {
	l := openTestLedger(t)
	for i := 0; i < 10; i++ {
		_, err := l.Add(model.Record{Type: model.Save, Amount: 0.1})
		require.NoError(t, err)
	}

	total, err := l.Sum(model.Save)
	require.NoError(t, err)
	assert.Equal(t, "1", total.String())
}

func TestImport_SkipsKnownIDs(t *testing.T) {
	l := openTestLedger(t)

	batch := []model.Record{
		{ID: "7d2c1c2e-0b7a-4bb5-9a41-4f8b8f0e0001", Type: model.Save, Amount: 1, Timestamp: day(1)},
		{ID: "7d2c1c2e-0b7a-4bb5-9a41-4f8b8f0e0002", Type: model.Spend, Amount: 2, Timestamp: day(2)},
	}
	added, err := l.Import(batch)
	require.NoError(t, err)
	assert.Equal(t, 2, added)

	added, err = l.Import(batch)
	require.NoError(t, err)
	assert.Zero(t, added)

	_, err = l.Import([]model.Record{{Type: model.Save, Amount: -3}})
	assert.True(t, errors.Is(err, ErrInvalidAmount))

	n, err := l.Count()
	require.NoError(t, err)
	assert.Equal(t, 2, n)
}

func TestImport_ExportWithBadDurationKeepsGoodLines(t *testing.T) {
	l := openTestLedger(t)

	res := source.Parse(strings.NewReader(strings.Join([]string{
		`{"type":"save","amount":100,"date":"2025-03-01"}`,
		`{"type":"spend","amount":9.99,"isRecurring":true,"monthsDuration":0,"date":"2025-03-02"}`,
		`{"type":"spend","amount":12,"isRecurring":true,"monthsDuration":6,"date":"2025-03-03"}`,
	}, "\n")), finance.Assumptions{HourlyRate: 10})
	assert.Equal(t, 1, res.ParseErrors)
	require.Len(t, res.Records, 2)

	added, err := l.Import(res.Records)
	require.NoError(t, err)
	assert.Equal(t, 2, added)
}

func TestValidate_MonthsDuration(t *testing.T) {
	bad := []float64{0, -1, math.NaN(), math.Inf(1)}
	for _, d := range bad {
		r := model.Record{Type: model.Spend, Amount: 1, IsRecurring: true, MonthsDuration: &d}
		assert.Error(t, Validate(r), "months %v", d)
	}
	ok := 3.0
	assert.NoError(t, Validate(model.Record{Type: model.Spend, Amount: 1, IsRecurring: true, MonthsDuration: &ok}))
}

func TestList_ReturnsLocalTimes(t *testing.T) {
	l := openTestLedger(t)
	_, err := l.Add(model.Record{Type: model.Save, Amount: 5, Timestamp: day(4)})
	require.NoError(t, err)

	records, err := l.List()
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.True(t, records[0].Timestamp.Equal(day(4)))
	assert.Equal(t, time.Local, records[0].Timestamp.Location())
}

func TestGet_PrefixRules(t *testing.T) {
	l := openTestLedger(t)
	r, err := l.Add(model.Record{ID: "7d2c1c2e-0b7a-4bb5-9a41-4f8b8f0e0003", Type: model.Save, Amount: 1, Timestamp: day(1)})
	require.NoError(t, err)

	got, err := l.Get("7d2c1c")
	require.NoError(t, err)
	assert.Equal(t, r.ID, got.ID)

	for _, id := range []string{"", "7d2", "%", "%%%%", "____", "7d2_", `7d2\`} {
		_, err := l.Get(id)
		assert.True(t, errors.Is(err, ErrNotFound), "id %q", id)
	}
	assert.True(t, errors.Is(l.Delete("%"), ErrNotFound))

	n, err := l.Count()
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}

func TestOpen_KeepsExistingRecordsTable(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ledger.db")
	db, err := sql.Open("sqlite", path)
	require.NoError(t, err)
	_, err = db.Exec(`CREATE TABLE records (
		id TEXT PRIMARY KEY, type TEXT NOT NULL, amount TEXT NOT NULL,
		time_cost REAL NOT NULL DEFAULT 0, is_recurring INTEGER NOT NULL DEFAULT 0,
		recurring_status TEXT NOT NULL DEFAULT '', months_duration REAL,
		note TEXT NOT NULL DEFAULT '', timestamp TEXT NOT NULL,
		ended_at TEXT NOT NULL DEFAULT '', created_at TEXT NOT NULL)`)
	require.NoError(t, err)
	_, err = db.Exec(`INSERT INTO records (id, type, amount, timestamp, created_at)
		VALUES ('legacy-1', 'save', '42', ?, ?)`, formatTime(day(2)), formatTime(day(2)))
	require.NoError(t, err)
	require.NoError(t, db.Close())

	l, err := Open(path)
	require.NoError(t, err)
	t.Cleanup(func() { _ = l.Close() })

	got, err := l.Get("legacy-1")
	require.NoError(t, err)
	assert.Equal(t, 42.0, got.Amount)
}
