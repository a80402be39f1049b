package calculation

import (
	"math"

	"github.com/finsim/household-forecast/internal/domain"
	"github.com/shopspring/decimal"
)

// scenarioRates bundles the named preset outlooks. The custom preset uses the
// explicit rate table from the assumptions instead.
var scenarioRates = map[domain.ScenarioPreset]domain.RateTable{
	domain.PresetOptimistic: {
		Savings:    decimal.NewFromFloat(0.035),
		Investment: decimal.NewFromFloat(0.08),
		Pension:    decimal.NewFromFloat(0.06),
		RealEstate: decimal.NewFromFloat(0.05),
		Inflation:  decimal.NewFromFloat(0.02),
	},
	domain.PresetAverage: {
		Savings:    decimal.NewFromFloat(0.025),
		Investment: decimal.NewFromFloat(0.06),
		Pension:    decimal.NewFromFloat(0.045),
		RealEstate: decimal.NewFromFloat(0.03),
		Inflation:  decimal.NewFromFloat(0.025),
	},
	domain.PresetPessimistic: {
		Savings:    decimal.NewFromFloat(0.015),
		Investment: decimal.NewFromFloat(0.03),
		Pension:    decimal.NewFromFloat(0.025),
		RealEstate: decimal.NewFromFloat(0.01),
		Inflation:  decimal.NewFromFloat(0.035),
	},
}

// RateProvider resolves the effective annual growth rate for a balance from
// its rate category and the active assumption set. It is a pure function of
// its construction-time assumptions and the per-call inputs.
type RateProvider struct {
	assumptions domain.Assumptions
}

// NewRateProvider creates a rate provider for one assumption set.
func NewRateProvider(assumptions domain.Assumptions) *RateProvider {
	return &RateProvider{assumptions: assumptions}
}

// EffectiveAnnualRate resolves the annual rate for a category. An item with
// the fixed rate category keeps its own stored rate unconditionally; there is
// no blending with the scenario assumption. Unknown categories resolve to
// zero growth.
func (rp *RateProvider) EffectiveAnnualRate(category domain.RateCategory, itemRate decimal.Decimal) decimal.Decimal {
	if category == domain.RateFixed {
		return itemRate
	}
	if rate, ok := rp.table().Lookup(category); ok {
		return rate
	}
	return decimal.Zero
}

// InflationRate returns the active annual inflation assumption.
func (rp *RateProvider) InflationRate() decimal.Decimal {
	rate, _ := rp.table().Lookup(domain.RateInflation)
	return rate
}

func (rp *RateProvider) table() domain.RateTable {
	if rp.assumptions.Mode == domain.ModeScenario {
		if table, ok := scenarioRates[rp.assumptions.Preset]; ok {
			return table
		}
	}
	return rp.assumptions.Rates
}

// MonthlyRate converts an annual rate to its monthly-compounded equivalent,
// (1+annual)^(1/12) - 1. The fractional exponent goes through float64 and
// back to decimal for the monetary arithmetic.
func MonthlyRate(annual decimal.Decimal) decimal.Decimal {
	if annual.IsZero() {
		return decimal.Zero
	}
	monthly := math.Pow(1+annual.InexactFloat64(), 1.0/12.0) - 1
	return decimal.NewFromFloat(monthly)
}

// CompoundMonthly grows an amount by an annual rate over a number of months,
// amount * (1+annual)^(months/12).
func CompoundMonthly(amount decimal.Decimal, annual decimal.Decimal, months int) decimal.Decimal {
	if months <= 0 || annual.IsZero() {
		return amount
	}
	factor := math.Pow(1+annual.InexactFloat64(), float64(months)/12.0)
	return amount.Mul(decimal.NewFromFloat(factor))
}
