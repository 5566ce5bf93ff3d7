package pipeline

import (
	"github.com/theirongolddev/tburn/internal/finance"
	"github.com/theirongolddev/tburn/internal/model"
)

// StatusEpsilonYears is the age difference, in years, inside which the user
// counts as on track. About 2 working hours.
const StatusEpsilonYears = 0.001

// Progress derives the retirement-age outlook from the records' stored
// time costs. Ended recurring spends are left out; saves always count.
func Progress(targetRetireAge float64, records []model.Record) model.ProgressStats {
	var stats model.ProgressStats
	for _, r := range records {
		switch r.Type {
		case model.Save:
			stats.TotalSavedHours += r.TimeCost
		case model.Spend:
			if r.CountsForward() {
				stats.TotalSpentHours += r.TimeCost
			}
		}
	}

	stats.NetHoursImpact = stats.TotalSpentHours - stats.TotalSavedHours
	stats.EstimatedAge = targetRetireAge + stats.NetHoursImpact/finance.WorkingHoursPerYear
	stats.AgeDiff = targetRetireAge - stats.EstimatedAge
	stats.Status = ClassifyAgeDiff(stats.AgeDiff)
	return stats
}

// ClassifyAgeDiff maps an age difference in years to a goal status.
func ClassifyAgeDiff(ageDiff float64) model.Status {
	switch {
	case ageDiff > StatusEpsilonYears:
		return model.Ahead
	case ageDiff < -StatusEpsilonYears:
		return model.Behind
	default:
		return model.OnTrack
	}
}

// CalculateTotals sums amounts by type across every record, ended ones
// included.
func CalculateTotals(records []model.Record) model.Totals {
	var t model.Totals
	for _, r := range records {
		switch r.Type {
		case model.Save:
			t.TotalSaved += r.Amount
		case model.Spend:
			t.TotalSpent += r.Amount
		}
	}
	return t
}
