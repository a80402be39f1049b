package domain

import (
	"testing"

	"github.com/finsim/household-forecast/pkg/dateutil"
	"github.com/stretchr/testify/assert"
)

func coupleProfile() Profile {
	spouseBirth := 1985
	spouseRetire := 62
	return Profile{
		BirthYear:           1982,
		RetirementAge:       65,
		LifeExpectancy:      90,
		SpouseBirthYear:     &spouseBirth,
		SpouseRetirementAge: &spouseRetire,
	}
}

func TestRetirementMonth(t *testing.T) {
	p := coupleProfile()
	tests := []struct {
		name     string
		owner    Owner
		expected dateutil.YearMonth
	}{
		{name: "self retires at 65", owner: OwnerSelf, expected: dateutil.New(2047, 12)},
		{name: "spouse retires at 62", owner: OwnerSpouse, expected: dateutil.New(2047, 12)},
		{name: "common items run to the later retirement", owner: OwnerCommon, expected: dateutil.New(2047, 12)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, p.RetirementMonth(tt.owner))
		})
	}
}

func TestRetirementMonthLaterSpouse(t *testing.T) {
	p := coupleProfile()
	*p.SpouseRetirementAge = 67 // 1985+67 = 2052, later than self's 2047
	assert.Equal(t, dateutil.New(2052, 12), p.RetirementMonth(OwnerSpouse))
	assert.Equal(t, dateutil.New(2052, 12), p.RetirementMonth(OwnerCommon))
	assert.Equal(t, dateutil.New(2047, 12), p.RetirementMonth(OwnerSelf))
}

func TestRetirementMonthSingle(t *testing.T) {
	p := Profile{BirthYear: 1982, RetirementAge: 65, LifeExpectancy: 90}
	// Without a spouse every owner resolves to the primary's retirement.
	assert.Equal(t, dateutil.New(2047, 12), p.RetirementMonth(OwnerSpouse))
	assert.Equal(t, dateutil.New(2047, 12), p.RetirementMonth(OwnerCommon))
}

func TestHorizonEnd(t *testing.T) {
	p := coupleProfile()
	// Spouse is younger, so the horizon follows the spouse: 1985+90.
	assert.Equal(t, dateutil.New(2075, 12), p.HorizonEnd())

	single := Profile{BirthYear: 1982, RetirementAge: 65, LifeExpectancy: 90}
	assert.Equal(t, dateutil.New(2072, 12), single.HorizonEnd())
}

func TestProfileValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Profile)
		wantErr string
	}{
		{name: "valid couple", mutate: func(p *Profile) {}},
		{
			name:    "missing birth year",
			mutate:  func(p *Profile) { p.BirthYear = 0 },
			wantErr: "birth_year is required",
		},
		{
			name:    "life expectancy below retirement",
			mutate:  func(p *Profile) { p.LifeExpectancy = 60 },
			wantErr: "must exceed retirement_age",
		},
		{
			name:    "spouse fields must pair",
			mutate:  func(p *Profile) { p.SpouseRetirementAge = nil },
			wantErr: "must be set together",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := coupleProfile()
			tt.mutate(&p)
			err := p.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			assert.ErrorContains(t, err, tt.wantErr)
		})
	}
}

func TestPlanEndMonth(t *testing.T) {
	start := dateutil.New(2025, 1)
	plan := Plan{
		Profile: Profile{BirthYear: 1982, RetirementAge: 65, LifeExpectancy: 90},
		Start:   &start,
	}

	// No cap: runs to the life-expectancy horizon.
	assert.Equal(t, dateutil.New(2072, 12), plan.EndMonth())

	// A tighter horizon cap wins.
	plan.HorizonYears = 10
	assert.Equal(t, dateutil.New(2034, 12), plan.EndMonth())

	// A cap beyond the horizon does not extend the run.
	plan.HorizonYears = 80
	assert.Equal(t, dateutil.New(2072, 12), plan.EndMonth())
}

func TestAssumptionsValidate(t *testing.T) {
	tests := []struct {
		name    string
		a       Assumptions
		wantErr string
	}{
		{name: "fixed mode", a: Assumptions{Mode: ModeFixed}},
		{name: "scenario with preset", a: Assumptions{Mode: ModeScenario, Preset: PresetAverage}},
		{
			name:    "fixed mode rejects preset",
			a:       Assumptions{Mode: ModeFixed, Preset: PresetAverage},
			wantErr: "only valid in scenario mode",
		},
		{
			name:    "scenario requires known preset",
			a:       Assumptions{Mode: ModeScenario, Preset: "wild"},
			wantErr: "unknown scenario preset",
		},
		{
			name:    "unknown mode",
			a:       Assumptions{Mode: "stochastic"},
			wantErr: "unknown assumption mode",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.a.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			assert.ErrorContains(t, err, tt.wantErr)
		})
	}
}
