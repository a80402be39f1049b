package domain

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// AssumptionMode selects where growth rates come from: explicit per-category
// rates, or a named scenario preset.
type AssumptionMode string

const (
	ModeFixed    AssumptionMode = "fixed"
	ModeScenario AssumptionMode = "scenario"
)

// ScenarioPreset names a bundled rate outlook.
type ScenarioPreset string

const (
	PresetOptimistic  ScenarioPreset = "optimistic"
	PresetAverage     ScenarioPreset = "average"
	PresetPessimistic ScenarioPreset = "pessimistic"
	PresetCustom      ScenarioPreset = "custom"
)

// RateCategory keys the per-category annual rates. RateFixed marks an item
// that carries its own rate and bypasses the assumption table entirely.
type RateCategory string

const (
	RateSavings    RateCategory = "savings"
	RateInvestment RateCategory = "investment"
	RatePension    RateCategory = "pension"
	RateRealEstate RateCategory = "real_estate"
	RateInflation  RateCategory = "inflation"
	RateFixed      RateCategory = "fixed"
)

// RateTable holds annual rates per category, as fractions (0.05 = 5%).
type RateTable struct {
	Savings    decimal.Decimal `yaml:"savings" json:"savings"`
	Investment decimal.Decimal `yaml:"investment" json:"investment"`
	Pension    decimal.Decimal `yaml:"pension" json:"pension"`
	RealEstate decimal.Decimal `yaml:"real_estate" json:"real_estate"`
	Inflation  decimal.Decimal `yaml:"inflation" json:"inflation"`
}

// Lookup returns the rate for a category. RateFixed has no table entry; the
// caller resolves it from the item itself.
func (rt RateTable) Lookup(category RateCategory) (decimal.Decimal, bool) {
	switch category {
	case RateSavings:
		return rt.Savings, true
	case RateInvestment:
		return rt.Investment, true
	case RatePension:
		return rt.Pension, true
	case RateRealEstate:
		return rt.RealEstate, true
	case RateInflation:
		return rt.Inflation, true
	}
	return decimal.Zero, false
}

// Assumptions drives every assumption-based growth rate in a run.
type Assumptions struct {
	Mode   AssumptionMode `yaml:"mode" json:"mode"`
	Preset ScenarioPreset `yaml:"preset,omitempty" json:"preset,omitempty"`
	Rates  RateTable      `yaml:"rates" json:"rates"`
}

// Validate checks mode/preset coherence.
func (a *Assumptions) Validate() error {
	switch a.Mode {
	case ModeFixed:
		if a.Preset != "" {
			return fmt.Errorf("preset %q is only valid in scenario mode", a.Preset)
		}
	case ModeScenario:
		switch a.Preset {
		case PresetOptimistic, PresetAverage, PresetPessimistic, PresetCustom:
		default:
			return fmt.Errorf("unknown scenario preset %q", a.Preset)
		}
	default:
		return fmt.Errorf("unknown assumption mode %q", a.Mode)
	}
	return nil
}
