package fees

import "math"

// DefaultRate is the platform's cut of a work order budget.
const DefaultRate = 0.15

// Quote is the platform fee breakdown for a budget. PlatformFee and
// ProviderEarnings always partition Budget exactly at cent granularity.
type Quote struct {
	Budget           float64 `json:"budget"`
	PlatformFee      float64 `json:"platform_fee"`
	ProviderEarnings float64 `json:"provider_earnings"`
}

// Calculator derives fee quotes from a budget alone, so the wizard's display
// and the saga's committed amounts can never disagree.
type Calculator struct {
	Rate float64
}

// NewCalculator returns a Calculator with the given fee rate. A zero or
// negative rate falls back to DefaultRate.
func NewCalculator(rate float64) Calculator {
	if rate <= 0 {
		rate = DefaultRate
	}
	return Calculator{Rate: rate}
}

// Quote computes the platform fee and provider earnings for a budget.
// The fee is rounded to the nearest cent; earnings take the remainder so the
// two always sum back to the budget.
func (c Calculator) Quote(budget float64) Quote {
	budget = RoundToCent(budget)
	fee := RoundToCent(budget * c.Rate)
	earnings := RoundToCent(budget - fee)
	return Quote{
		Budget:           budget,
		PlatformFee:      fee,
		ProviderEarnings: earnings,
	}
}

// RoundToCent rounds an amount to two decimal places.
func RoundToCent(v float64) float64 {
	return math.Round(v*100) / 100
}
