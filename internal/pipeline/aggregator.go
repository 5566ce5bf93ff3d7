// Package pipeline aggregates ledger records into progress, budget and
// trajectory figures. Functions here never mutate their inputs.
package pipeline

import (
	"sort"
	"time"

	"github.com/theirongolddev/tburn/internal/model"
)

// AggregateMonths computes per-calendar-month totals, most recent first.
// Months between the first and last record are filled with zeros so charts
// show gaps.
func AggregateMonths(records []model.Record) []model.MonthlyStats {
	if len(records) == 0 {
		return nil
	}

	monthMap := make(map[time.Time]*model.MonthlyStats)
	var first, last time.Time
	for _, r := range records {
		if r.Timestamp.IsZero() {
			continue
		}
		key := MonthStart(r.Timestamp)
		ms, ok := monthMap[key]
		if !ok {
			ms = &model.MonthlyStats{Month: key}
			monthMap[key] = ms
		}
		ms.Records++
		switch r.Type {
		case model.Save:
			ms.Saved += r.Amount
			ms.SavedHours += r.TimeCost
		case model.Spend:
			ms.Spent += r.Amount
			ms.SpentHours += r.TimeCost
		}
		if first.IsZero() || key.Before(first) {
			first = key
		}
		if key.After(last) {
			last = key
		}
	}

	for m := first; !m.IsZero() && !m.After(last); m = m.AddDate(0, 1, 0) {
		if _, ok := monthMap[m]; !ok {
			monthMap[m] = &model.MonthlyStats{Month: m}
		}
	}

	months := make([]model.MonthlyStats, 0, len(monthMap))
	for _, ms := range monthMap {
		months = append(months, *ms)
	}
	sort.Slice(months, func(i, j int) bool {
		return months[i].Month.After(months[j].Month)
	})
	return months
}

// FilterByTime returns records whose timestamp falls within [since, until).
// A zero bound is open.
func FilterByTime(records []model.Record, since, until time.Time) []model.Record {
	if since.IsZero() && until.IsZero() {
		return records
	}

	var result []model.Record
	for _, r := range records {
		if !since.IsZero() && r.Timestamp.Before(since) {
			continue
		}
		if !until.IsZero() && !r.Timestamp.Before(until) {
			continue
		}
		result = append(result, r)
	}
	return result
}

// FilterByMonth returns the records in the calendar month containing at.
func FilterByMonth(records []model.Record, at time.Time) []model.Record {
	start := MonthStart(at)
	return FilterByTime(records, start, start.AddDate(0, 1, 0))
}

// FilterByType returns records of one type.
func FilterByType(records []model.Record, t model.RecordType) []model.Record {
	var result []model.Record
	for _, r := range records {
		if r.Type == t {
			result = append(result, r)
		}
	}
	return result
}

// MonthStart truncates t to midnight on the first of its month, in t's
// location.
func MonthStart(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, t.Location())
}

// SortByTime orders a copy of records oldest first.
func SortByTime(records []model.Record) []model.Record {
	sorted := make([]model.Record, len(records))
	copy(sorted, records)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Timestamp.Before(sorted[j].Timestamp)
	})
	return sorted
}
