// Package model defines domain types for tburn records, parameters and results.
package model

import "time"

// RecordType distinguishes money put aside from money spent.
type RecordType string

const (
	Save  RecordType = "save"
	Spend RecordType = "spend"
)

// Valid reports whether t is a known record type.
func (t RecordType) Valid() bool {
	return t == Save || t == Spend
}

// RecurringStatus tracks whether a recurring record is still running.
type RecurringStatus string

const (
	Active RecurringStatus = "active"
	Ended  RecurringStatus = "ended"
)

// Record is one saving or spending entry.
// TimeCost is computed once when the record is created and never re-derived,
// so later changes to salary or rates don't rewrite history.
type Record struct {
	ID              string
	Type            RecordType
	Amount          float64
	TimeCost        float64 // hours
	IsRecurring     bool
	RecurringStatus RecurringStatus
	MonthsDuration  *float64 // finite subscription length, nil = open-ended
	Note            string
	Timestamp       time.Time
	EndedAt         time.Time
}

// IsEnded reports whether a recurring record has been stopped.
func (r Record) IsEnded() bool {
	return r.IsRecurring && r.RecurringStatus == Ended
}

// CountsForward reports whether the record still affects projections.
// Ended recurring spends remain in history but no longer move the
// projected retirement age.
func (r Record) CountsForward() bool {
	return !(r.Type == Spend && r.RecurringStatus == Ended)
}
