package finance

import (
	"math"

	"github.com/theirongolddev/tburn/internal/model"
)

// TargetFundByAge projects the fund after years of growth on the current
// balance plus monthly contributions.
func TargetFundByAge(currentSavings, monthlySavings, years, rate float64) float64 {
	return FutureValue(currentSavings, rate, years) + AnnuityFutureValue(monthlySavings, rate, years)
}

// YearsToTarget returns how many years of saving it takes to reach target.
// It returns 0 when current savings already cover it and +Inf when the
// target is not reached within MaxSearchYears. Callers must check
// math.IsInf before treating the result as a year count.
func YearsToTarget(currentSavings, monthlySavings, target, rate float64) float64 {
	if currentSavings >= target {
		return 0
	}
	years, ok := SolveMonotone(func(y float64) bool {
		return TargetFundByAge(currentSavings, monthlySavings, y, rate) >= target
	}, 0, MaxSearchYears, YearsTolerance)
	if !ok {
		return math.Inf(1)
	}
	return years
}

// RequiredMonthlySavings solves the annuity formula for the monthly
// contribution that lifts currentSavings to target within years.
// With no months left the whole shortfall is due at once.
func RequiredMonthlySavings(currentSavings, target, years, rate float64) float64 {
	remaining := target - FutureValue(currentSavings, rate, years)
	if remaining <= 0 {
		return 0
	}
	months := years * MonthsPerYear
	if months <= 0 {
		return remaining
	}
	return remaining / annuityFactor(rate, months)
}

// MonthlyToFund applies the 4% rule: the fund that sustains a monthly draw.
func MonthlyToFund(monthlyExpense float64) float64 {
	return monthlyExpense * FourPercentMultiplier
}

// FundToMonthly is the monthly draw a fund sustains under the 4% rule.
func FundToMonthly(fund float64) float64 {
	return fund / FourPercentMultiplier
}

// PlanTarget is the fund the profile aims for: the explicit target when
// set, otherwise what the planned contributions project to.
func PlanTarget(p model.Params) float64 {
	if p.TargetRetirementFund != nil {
		return *p.TargetRetirementFund
	}
	rate := RealRate(p.InflationRate, p.ROIRate)
	return TargetFundByAge(p.CurrentSavings, p.MonthlySavings, p.YearsToRetire(), rate)
}

// PlanRequiredMonthly is the monthly saving needed to stay on plan.
func PlanRequiredMonthly(p model.Params) float64 {
	rate := RealRate(p.InflationRate, p.ROIRate)
	return RequiredMonthlySavings(p.CurrentSavings, PlanTarget(p), p.YearsToRetire(), rate)
}

// Projection returns the fund at the end of each whole year until
// retirement, saving the planned monthly amount.
func Projection(p model.Params) []model.ProjectionYear {
	years := int(math.Ceil(p.YearsToRetire()))
	if years <= 0 {
		return nil
	}
	if years > MaxSearchYears {
		years = MaxSearchYears
	}
	rate := RealRate(p.InflationRate, p.ROIRate)

	rows := make([]model.ProjectionYear, 0, years)
	for y := 1; y <= years; y++ {
		yf := float64(y)
		if yf > p.YearsToRetire() {
			yf = p.YearsToRetire()
		}
		rows = append(rows, model.ProjectionYear{
			Year:        y,
			Age:         p.Age + yf,
			Contributed: p.CurrentSavings + p.MonthlySavings*yf*MonthsPerYear,
			Fund:        TargetFundByAge(p.CurrentSavings, p.MonthlySavings, yf, rate),
		})
	}
	return rows
}
