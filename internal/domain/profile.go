package domain

import (
	"fmt"

	"github.com/finsim/household-forecast/pkg/dateutil"
)

// Profile carries the household members' vital statistics. Spouse fields are
// nil for a single-person household.
type Profile struct {
	BirthYear           int  `yaml:"birth_year" json:"birth_year"`
	RetirementAge       int  `yaml:"retirement_age" json:"retirement_age"`
	LifeExpectancy      int  `yaml:"life_expectancy" json:"life_expectancy"`
	SpouseBirthYear     *int `yaml:"spouse_birth_year,omitempty" json:"spouse_birth_year,omitempty"`
	SpouseRetirementAge *int `yaml:"spouse_retirement_age,omitempty" json:"spouse_retirement_age,omitempty"`
}

// HasSpouse reports whether spouse data is present.
func (p *Profile) HasSpouse() bool {
	return p.SpouseBirthYear != nil && p.SpouseRetirementAge != nil
}

// RetirementMonth resolves an owner's retirement period: December of the year
// the relevant party reaches retirement age. Common items retire with the
// later of the two parties.
func (p *Profile) RetirementMonth(owner Owner) dateutil.YearMonth {
	self := dateutil.New(p.BirthYear+p.RetirementAge, 12)
	switch owner {
	case OwnerSpouse:
		if p.HasSpouse() {
			return dateutil.New(*p.SpouseBirthYear+*p.SpouseRetirementAge, 12)
		}
		return self
	case OwnerCommon:
		if p.HasSpouse() {
			spouse := dateutil.New(*p.SpouseBirthYear+*p.SpouseRetirementAge, 12)
			if spouse.After(self) {
				return spouse
			}
		}
		return self
	default:
		return self
	}
}

// HorizonEnd returns the last simulated period: December of the year the
// longer-lived party reaches life expectancy.
func (p *Profile) HorizonEnd() dateutil.YearMonth {
	endYear := p.BirthYear + p.LifeExpectancy
	if p.SpouseBirthYear != nil {
		if spouseEnd := *p.SpouseBirthYear + p.LifeExpectancy; spouseEnd > endYear {
			endYear = spouseEnd
		}
	}
	return dateutil.New(endYear, 12)
}

// Validate checks the profile for structural errors.
func (p *Profile) Validate() error {
	if p.BirthYear <= 0 {
		return fmt.Errorf("birth_year is required")
	}
	if p.RetirementAge <= 0 {
		return fmt.Errorf("retirement_age must be positive")
	}
	if p.LifeExpectancy <= p.RetirementAge {
		return fmt.Errorf("life_expectancy (%d) must exceed retirement_age (%d)", p.LifeExpectancy, p.RetirementAge)
	}
	if (p.SpouseBirthYear == nil) != (p.SpouseRetirementAge == nil) {
		return fmt.Errorf("spouse_birth_year and spouse_retirement_age must be set together")
	}
	return nil
}

// Plan bundles everything a projection run consumes. The engine treats it as
// immutable: edits happen upstream and trigger a fresh run.
type Plan struct {
	Profile     Profile             `yaml:"profile" json:"profile"`
	Assumptions Assumptions         `yaml:"assumptions" json:"assumptions"`
	Items       []FinancialItem     `yaml:"items" json:"items"`
	Priorities  CashFlowPriorities  `yaml:"cash_flow_priorities" json:"cash_flow_priorities"`
	Start       *dateutil.YearMonth `yaml:"start,omitempty" json:"start,omitempty"`
	// HorizonYears caps the projection; 0 means run to the life-expectancy
	// horizon.
	HorizonYears int `yaml:"horizon_years,omitempty" json:"horizon_years,omitempty"`
}

// StartMonth returns the explicit start or the current month.
func (p *Plan) StartMonth() dateutil.YearMonth {
	if p.Start != nil {
		return *p.Start
	}
	return dateutil.Now()
}

// EndMonth returns the last simulated period for this plan.
func (p *Plan) EndMonth() dateutil.YearMonth {
	end := p.Profile.HorizonEnd()
	if p.HorizonYears > 0 {
		capped := p.StartMonth().Add(p.HorizonYears*12 - 1)
		if capped.Before(end) {
			return capped
		}
	}
	return end
}
