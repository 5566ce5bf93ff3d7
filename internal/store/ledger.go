// Package store provides the SQLite-backed ledger of save and spend records.
package store

import (
	"database/sql"
	"errors"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/theirongolddev/tburn/internal/model"

	_ "modernc.org/sqlite" // register sqlite driver
)

var (
	ErrInvalidAmount = errors.New("amount must be a finite, non-negative number")
	ErrUnknownType   = errors.New("record type must be save or spend")
	ErrNotRecurring  = errors.New("record is not recurring")
	ErrNotFound      = errors.New("record not found")
)

// Fixed width so lexical order matches time order.
const tsLayout = "2006-01-02T15:04:05.000000000Z"

// Ledger stores records in a SQLite database.
type Ledger struct {
	db   *sql.DB
	path string
}

// Open opens or creates the ledger at the given path, migrating it to the
// current schema first.
func Open(dbPath string) (*Ledger, error) {
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return nil, fmt.Errorf("creating ledger dir: %w", err)
	}

	if err := RunMigrations(dbPath); err != nil {
		return nil, err
	}

	db, err := sql.Open("sqlite", dbPath+"?_pragma=journal_mode(wal)&_pragma=synchronous(normal)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("opening ledger db: %w", err)
	}

	return &Ledger{db: db, path: dbPath}, nil
}

// Close closes the ledger database.
func (l *Ledger) Close() error {
	return l.db.Close()
}

// Path is the database file backing the ledger.
func (l *Ledger) Path() string {
	return l.path
}

// Add validates r, fills in a missing ID and timestamp, and stores it.
// The stored record is returned.
func (l *Ledger) Add(r model.Record) (model.Record, error) {
	if err := Validate(r); err != nil {
		return r, err
	}
	r = normalize(r)
	if _, err := insert(l.db, "INSERT", r); err != nil {
		return r, fmt.Errorf("inserting record: %w", err)
	}
	return r, nil
}

// Import stores records in one transaction, skipping IDs already present.
// It returns how many were new.
func (l *Ledger) Import(records []model.Record) (int, error) {
	for _, r := range records {
		if err := Validate(r); err != nil {
			return 0, fmt.Errorf("record %s: %w", r.ID, err)
		}
	}

	tx, err := l.db.Begin()
	if err != nil {
		return 0, err
	}
	defer func() { _ = tx.Rollback() }()

	added := 0
	for _, r := range records {
		n, err := insert(tx, "INSERT OR IGNORE", normalize(r))
		if err != nil {
			return 0, fmt.Errorf("importing record %s: %w", r.ID, err)
		}
		added += int(n)
	}
	return added, tx.Commit()
}

type execer interface {
	Exec(query string, args ...any) (sql.Result, error)
}

func insert(db execer, verb string, r model.Record) (int64, error) {
	var months sql.NullFloat64
	if r.MonthsDuration != nil {
		months = sql.NullFloat64{Float64: *r.MonthsDuration, Valid: true}
	}

	res, err := db.Exec(verb+` INTO records
		(id, type, amount, time_cost, is_recurring, recurring_status,
		 months_duration, note, timestamp, ended_at, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		r.ID, string(r.Type), decimal.NewFromFloat(r.Amount).String(), r.TimeCost,
		boolInt(r.IsRecurring), string(r.RecurringStatus), months, r.Note,
		formatTime(r.Timestamp), formatTime(r.EndedAt), formatTime(time.Now()),
	)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

func normalize(r model.Record) model.Record {
	if r.ID == "" {
		r.ID = uuid.NewString()
	}
	if r.Timestamp.IsZero() {
		r.Timestamp = time.Now()
	}
	if r.IsRecurring && r.RecurringStatus == "" {
		r.RecurringStatus = model.Active
	}
	if !r.IsRecurring {
		r.RecurringStatus = ""
		r.MonthsDuration = nil
		r.EndedAt = time.Time{}
	}
	return r
}

// Validate checks a record before it is stored.
func Validate(r model.Record) error {
	if !r.Type.Valid() {
		return fmt.Errorf("%w: %q", ErrUnknownType, r.Type)
	}
	if r.Amount < 0 || math.IsNaN(r.Amount) || math.IsInf(r.Amount, 0) {
		return fmt.Errorf("%w: %v", ErrInvalidAmount, r.Amount)
	}
	if d := r.MonthsDuration; d != nil && (!(*d > 0) || math.IsInf(*d, 0)) {
		return fmt.Errorf("months duration must be positive, got %v", *r.MonthsDuration)
	}
	return nil
}

const selectRecords = `SELECT id, type, amount, time_cost, is_recurring,
	recurring_status, months_duration, note, timestamp, ended_at
	FROM records`

// List returns every record, oldest first.
func (l *Ledger) List() ([]model.Record, error) {
	return l.query(selectRecords + " ORDER BY timestamp, id")
}

// ListBetween returns records with since <= timestamp < until, oldest
// first. A zero bound is open.
func (l *Ledger) ListBetween(since, until time.Time) ([]model.Record, error) {
	var (
		where []string
		args  []any
	)
	if !since.IsZero() {
		where = append(where, "timestamp >= ?")
		args = append(args, formatTime(since))
	}
	if !until.IsZero() {
		where = append(where, "timestamp < ?")
		args = append(args, formatTime(until))
	}

	q := selectRecords
	if len(where) > 0 {
		q += " WHERE " + strings.Join(where, " AND ")
	}
	return l.query(q+" ORDER BY timestamp, id", args...)
}

// MinIDPrefix is the shortest ID prefix Get will resolve.
const MinIDPrefix = 4

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// Get returns the record with the given ID, or one whose ID starts with it
// when the prefix is at least MinIDPrefix long and unambiguous.
func (l *Ledger) Get(id string) (model.Record, error) {
	var (
		recs []model.Record
		err  error
	)
	if len(id) < MinIDPrefix {
		recs, err = l.query(selectRecords+" WHERE id = ?", id)
	} else {
		recs, err = l.query(selectRecords+` WHERE id = ? OR id LIKE ? ESCAPE '\' LIMIT 2`,
			id, likeEscaper.Replace(id)+"%")
	}
	if err != nil {
		return model.Record{}, err
	}
	for _, r := range recs {
		if r.ID == id {
			return r, nil
		}
	}
	switch len(recs) {
	case 0:
		return model.Record{}, fmt.Errorf("%w: %q", ErrNotFound, id)
	case 1:
		return recs[0], nil
	default:
		return model.Record{}, fmt.Errorf("id prefix %q is ambiguous", id)
	}
}

// EndRecurring marks a recurring record as ended at the given time. Ending
// an already ended record leaves it unchanged.
func (l *Ledger) EndRecurring(id string, at time.Time) (model.Record, error) {
	r, err := l.Get(id)
	if err != nil {
		return r, err
	}
	if !r.IsRecurring {
		return r, fmt.Errorf("%w: %s", ErrNotRecurring, r.ID)
	}
	if r.IsEnded() {
		return r, nil
	}

	r.RecurringStatus = model.Ended
	r.EndedAt = at
	_, err = l.db.Exec("UPDATE records SET recurring_status = ?, ended_at = ? WHERE id = ?",
		string(model.Ended), formatTime(at), r.ID)
	if err != nil {
		return r, fmt.Errorf("ending record: %w", err)
	}
	return r, nil
}

// Delete removes a record.
func (l *Ledger) Delete(id string) error {
	r, err := l.Get(id)
	if err != nil {
		return err
	}
	_, err = l.db.Exec("DELETE FROM records WHERE id = ?", r.ID)
	return err
}

// Count returns the number of stored records.
func (l *Ledger) Count() (int, error) {
	var count int
	err := l.db.QueryRow("SELECT COUNT(*) FROM records").Scan(&count)
	return count, err
}

// Sum adds the amounts of every record of type t without float drift.
func (l *Ledger) Sum(t model.RecordType) (decimal.Decimal, error) {
	rows, err := l.db.Query("SELECT amount FROM records WHERE type = ?", string(t))
	if err != nil {
		return decimal.Zero, err
	}
	defer func() { _ = rows.Close() }()

	total := decimal.Zero
	for rows.Next() {
		var s string
		if err := rows.Scan(&s); err != nil {
			return decimal.Zero, err
		}
		d, err := decimal.NewFromString(s)
		if err != nil {
			return decimal.Zero, fmt.Errorf("bad stored amount %q: %w", s, err)
		}
		total = total.Add(d)
	}
	return total, rows.Err()
}

func (l *Ledger) query(q string, args ...any) ([]model.Record, error) {
	rows, err := l.db.Query(q, args...)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var records []model.Record
	for rows.Next() {
		var (
			r                  model.Record
			typ, amount        string
			status, ts, endStr string
			recurring          int
			months             sql.NullFloat64
		)
		err := rows.Scan(&r.ID, &typ, &amount, &r.TimeCost, &recurring,
			&status, &months, &r.Note, &ts, &endStr)
		if err != nil {
			return nil, err
		}

		d, err := decimal.NewFromString(amount)
		if err != nil {
			return nil, fmt.Errorf("record %s: bad amount %q: %w", r.ID, amount, err)
		}
		r.Amount = d.InexactFloat64()
		r.Type = model.RecordType(typ)
		r.IsRecurring = recurring != 0
		r.RecurringStatus = model.RecurringStatus(status)
		if months.Valid {
			m := months.Float64
			r.MonthsDuration = &m
		}
		r.Timestamp = parseTime(ts)
		r.EndedAt = parseTime(endStr)

		records = append(records, r)
	}
	return records, rows.Err()
}

func formatTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format(tsLayout)
}

func parseTime(s string) time.Time {
	if s == "" {
		return time.Time{}
	}
	t, _ := time.Parse(tsLayout, s)
	return t.Local()
}

func boolInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
