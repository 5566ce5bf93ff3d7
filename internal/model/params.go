package model

import "time"

// Params holds the user's financial profile.
// Rates are percentages (3.5 means 3.5%).
type Params struct {
	Age                  float64
	Salary               float64 // monthly
	TargetRetireAge      float64
	CurrentSavings       float64
	MonthlySavings       float64 // target
	InflationRate        float64
	ROIRate              float64
	TargetRetirementFund *float64
	CreatedAt            time.Time
	TrajectoryStart      time.Time
}

// YearsToRetire returns the years left until the target retirement age.
// It can be zero or negative for users past their target.
func (p Params) YearsToRetire() float64 {
	return p.TargetRetireAge - p.Age
}
