package finance

import (
	"math"

	"github.com/theirongolddev/tburn/internal/model"
)

// Charge describes an amount whose time cost is being measured.
type Charge struct {
	Amount    float64
	Recurring bool
	// MonthsDuration bounds a recurring charge. nil means it runs until
	// retirement.
	MonthsDuration *float64
}

// HourlyRate converts a monthly salary into pay per working hour.
func HourlyRate(salary float64) float64 {
	return salary / WorkingDaysPerMonth / WorkingHoursPerDay
}

// TimeCost returns the hours of labor equal to what the charge would have
// grown to by retirement.
func TimeCost(c Charge, hourlyRate, realRate, yearsToRetire float64) float64 {
	if hourlyRate <= 0 {
		return 0
	}
	return chargeFutureValue(c, realRate, yearsToRetire) / hourlyRate
}

func chargeFutureValue(c Charge, realRate, yearsToRetire float64) float64 {
	if !c.Recurring {
		if yearsToRetire <= 0 {
			return c.Amount
		}
		return c.Amount * math.Pow(1+realRate, yearsToRetire)
	}

	monthsToRetire := yearsToRetire * MonthsPerYear
	if c.MonthsDuration == nil {
		if monthsToRetire <= 0 {
			return 0
		}
		return AnnuityFutureValue(c.Amount, realRate, yearsToRetire)
	}

	// Accumulate over the paid months, then let the lump grow untouched.
	effective := math.Min(*c.MonthsDuration, monthsToRetire)
	if effective <= 0 {
		return 0
	}
	lump := AnnuityFutureValue(c.Amount, realRate, effective/MonthsPerYear)
	return FutureValue(lump, realRate, (monthsToRetire-effective)/MonthsPerYear)
}

// Assumptions are the profile-derived inputs shared by every time-cost
// calculation.
type Assumptions struct {
	HourlyRate    float64
	RealRate      float64
	YearsToRetire float64
}

// AssumptionsFor derives time-cost inputs from a profile.
func AssumptionsFor(p model.Params) Assumptions {
	return Assumptions{
		HourlyRate:    HourlyRate(p.Salary),
		RealRate:      RealRate(p.InflationRate, p.ROIRate),
		YearsToRetire: p.YearsToRetire(),
	}
}

// TimeCost applies the assumptions to a charge.
func (a Assumptions) TimeCost(c Charge) float64 {
	return TimeCost(c, a.HourlyRate, a.RealRate, a.YearsToRetire)
}

// ChargeOf extracts the time-cost inputs of a record.
func ChargeOf(r model.Record) Charge {
	return Charge{
		Amount:         r.Amount,
		Recurring:      r.IsRecurring,
		MonthsDuration: r.MonthsDuration,
	}
}
