package model

import "time"

// Status is the goal progress classification.
type Status string

const (
	Ahead   Status = "ahead"
	Behind  Status = "behind"
	OnTrack Status = "onTrack"
)

// ProgressStats is the retirement-age outlook derived from the records.
type ProgressStats struct {
	EstimatedAge    float64
	AgeDiff         float64 // positive = retiring earlier than targeted
	Status          Status
	TotalSavedHours float64
	TotalSpentHours float64
	NetHoursImpact  float64 // spent - saved
}

// Totals sums record amounts by type, independent of hours.
type Totals struct {
	TotalSaved float64
	TotalSpent float64
}

// SavingsStatus reconciles one period's recorded savings against cash flow.
type SavingsStatus struct {
	RequiredMonthlySavings float64
	ActualMonthlySavings   float64 // recorded "save" amounts
	EffectiveSavings       float64
	TotalSpend             float64
	CashFlowSurplus        float64
	SavingsGap             float64 // positive = behind
	RemainingBudget        float64
	ProgressPercent        float64
}

// TrajectoryPoint is one week on the accumulation curve.
type TrajectoryPoint struct {
	Week      int
	WeekStart time.Time
	Target    float64
	Actual    float64
}

// TrajectoryStats compares cumulative savings against the linear target ramp.
type TrajectoryStats struct {
	StartDate         time.Time
	WeeksElapsed      int
	MonthsElapsed     int
	TargetAccumulated float64
	ActualAccumulated float64
	Deviation         float64 // positive = ahead
	UnallocatedFunds  float64
	Points            []TrajectoryPoint
}

// MonthlyStats holds per-calendar-month amounts.
type MonthlyStats struct {
	Month      time.Time
	Records    int
	Saved      float64
	Spent      float64
	SavedHours float64
	SpentHours float64
}

// ProjectionYear is one row of a year-by-year fund projection.
type ProjectionYear struct {
	Year        int
	Age         float64
	Contributed float64
	Fund        float64
}
