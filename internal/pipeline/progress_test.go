package pipeline

import (
	"math"
	"testing"

	"github.com/theirongolddev/tburn/internal/finance"
	"github.com/theirongolddev/tburn/internal/model"
)

func hours(t model.RecordType, h float64) model.Record {
	return model.Record{Type: t, TimeCost: h, Amount: h * 10}
}

func TestProgress_Totals(t *testing.T) {
	records := []model.Record{
		hours(model.Save, 100),
		hours(model.Spend, 300),
		{Type: model.Spend, TimeCost: 5000, IsRecurring: true, RecurringStatus: model.Ended},
		{Type: model.Spend, TimeCost: 50, IsRecurring: true, RecurringStatus: model.Active},
	}

	got := Progress(65, records)
	if got.TotalSavedHours != 100 {
		t.Errorf("TotalSavedHours = %.2f, want 100", got.TotalSavedHours)
	}
	if got.TotalSpentHours != 350 {
		t.Errorf("TotalSpentHours = %.2f, want 350 (ended spend excluded)", got.TotalSpentHours)
	}
	if got.NetHoursImpact != 250 {
		t.Errorf("NetHoursImpact = %.2f, want 250", got.NetHoursImpact)
	}
	wantAge := 65 + 250.0/finance.WorkingHoursPerYear
	if math.Abs(got.EstimatedAge-wantAge) > 1e-12 {
		t.Errorf("EstimatedAge = %.6f, want %.6f", got.EstimatedAge, wantAge)
	}
	if got.Status != model.Behind {
		t.Errorf("Status = %s, want behind", got.Status)
	}
}

func TestProgress_Status(t *testing.T) {
	cases := []struct {
		name  string
		saved float64
		spent float64
		want  model.Status
	}{
		{"empty", 0, 0, model.OnTrack},
		{"saved a year", finance.WorkingHoursPerYear, 0, model.Ahead},
		{"spent a year", 0, finance.WorkingHoursPerYear, model.Behind},
		{"inside epsilon", 2, 0, model.OnTrack},
		{"just past epsilon", 2.2, 0, model.Ahead},
		{"just past epsilon behind", 0, 2.2, model.Behind},
		// Four hours is under one working day; an hour-based rule would
		// report on track, the year-fraction rule does not.
		{"half a day", 0, 4, model.Behind},
		{"half a day saved", 4, 0, model.Ahead},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := Progress(60, []model.Record{hours(model.Save, tc.saved), hours(model.Spend, tc.spent)})
			if got.Status != tc.want {
				t.Errorf("Status = %s, want %s (ageDiff %.5f)", got.Status, tc.want, got.AgeDiff)
			}
		})
	}
}

func TestClassifyAgeDiff_Boundary(t *testing.T) {
	if got := ClassifyAgeDiff(StatusEpsilonYears); got != model.OnTrack {
		t.Errorf("at +epsilon = %s, want onTrack", got)
	}
	if got := ClassifyAgeDiff(-StatusEpsilonYears); got != model.OnTrack {
		t.Errorf("at -epsilon = %s, want onTrack", got)
	}
	if got := ClassifyAgeDiff(math.Nextafter(StatusEpsilonYears, 1)); got != model.Ahead {
		t.Errorf("above +epsilon = %s, want ahead", got)
	}
	if got := ClassifyAgeDiff(math.Nextafter(-StatusEpsilonYears, -1)); got != model.Behind {
		t.Errorf("below -epsilon = %s, want behind", got)
	}
}

func TestCalculateTotals(t *testing.T) {
	records := []model.Record{
		{Type: model.Save, Amount: 100},
		{Type: model.Save, Amount: 50.5},
		{Type: model.Spend, Amount: 20},
		{Type: model.Spend, Amount: 80, IsRecurring: true, RecurringStatus: model.Ended},
	}
	got := CalculateTotals(records)
	if got.TotalSaved != 150.5 {
		t.Errorf("TotalSaved = %.2f, want 150.5", got.TotalSaved)
	}
	if got.TotalSpent != 100 {
		t.Errorf("TotalSpent = %.2f, want 100 (ended included)", got.TotalSpent)
	}
}
