package finance

import "math"

// RealRate returns the inflation-adjusted return as a decimal
// (0.0341 for 3.41%). Both inputs are percentages.
func RealRate(inflationPct, roiPct float64) float64 {
	return (1+roiPct/100)/(1+inflationPct/100) - 1
}

// FutureValue compounds pv annually at rate for years.
// Non-positive years return pv unchanged.
func FutureValue(pv, rate, years float64) float64 {
	if years <= 0 {
		return pv
	}
	return pv * math.Pow(1+rate, years)
}

// AnnuityFutureValue accumulates a monthly contribution compounded monthly
// at rate/12 for years.
func AnnuityFutureValue(monthly, rate, years float64) float64 {
	monthlyRate := rate / MonthsPerYear
	months := years * MonthsPerYear
	if months <= 0 {
		return 0
	}
	if monthlyRate == 0 {
		return monthly * months
	}
	return monthly * (math.Pow(1+monthlyRate, months) - 1) / monthlyRate
}

// annuityFactor is the future value of one unit contributed monthly.
func annuityFactor(rate, months float64) float64 {
	monthlyRate := rate / MonthsPerYear
	if monthlyRate == 0 {
		return months
	}
	return (math.Pow(1+monthlyRate, months) - 1) / monthlyRate
}
