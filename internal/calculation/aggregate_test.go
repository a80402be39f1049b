package calculation

import (
	"testing"

	"github.com/finsim/household-forecast/internal/domain"
	"github.com/finsim/household-forecast/pkg/dateutil"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func aggregatorPlan() *domain.Plan {
	start := dateutil.New(2025, 11)
	return &domain.Plan{
		Profile: domain.Profile{BirthYear: 1980, RetirementAge: 65, LifeExpectancy: 90},
		Start:   &start,
	}
}

func makeSnap(period dateutil.YearMonth, income, expense int64) domain.Snapshot {
	return domain.Snapshot{
		Period:      period,
		Income:      decimal.NewFromInt(income),
		Expense:     decimal.NewFromInt(expense),
		NetCashFlow: decimal.NewFromInt(income - expense),
		Balances: []domain.AccountBalance{
			{AccountType: "checking", Balance: decimal.NewFromInt(income)},
		},
		Entries: []domain.FlowEntry{
			{Title: "Salary", Category: domain.CategoryIncome, Flow: domain.FlowRegular, Amount: decimal.NewFromInt(income)},
		},
	}
}

func TestAggregatorYearlyRollup(t *testing.T) {
	plan := aggregatorPlan()
	agg := NewAggregator(plan, *plan.Start)

	// Two months of 2025, one month of 2026.
	agg.Add(makeSnap(dateutil.New(2025, 11), 100, 40))
	agg.Add(makeSnap(dateutil.New(2025, 12), 100, 40))
	agg.Add(makeSnap(dateutil.New(2026, 1), 200, 40))

	result := agg.Result()
	assert.Len(t, result.Monthly, 3)
	assert.Len(t, result.Yearly, 2)

	y2025 := result.Yearly[0]
	assert.Equal(t, 2025, y2025.Period.Year)
	assert.Equal(t, "200", y2025.Income.String())
	assert.Equal(t, "80", y2025.Expense.String())
	// Flows sum, breakdown entries merge.
	assert.Len(t, y2025.Entries, 1)
	assert.Equal(t, "200", y2025.Entries[0].Amount.String())
	// Balances carry the latest month, not a sum.
	assert.Equal(t, "100", y2025.Balances[0].Balance.String())

	y2026 := result.Yearly[1]
	assert.Equal(t, "200", y2026.Income.String())

	assert.Equal(t, 2025, result.StartYear)
	assert.Equal(t, 2026, result.EndYear)
	assert.Equal(t, 2045, result.RetirementYear)
}

func TestAggregatorRollupDoesNotAliasMonthly(t *testing.T) {
	plan := aggregatorPlan()
	agg := NewAggregator(plan, *plan.Start)

	first := makeSnap(dateutil.New(2025, 11), 100, 40)
	agg.Add(first)
	agg.Add(makeSnap(dateutil.New(2025, 12), 100, 40))

	result := agg.Result()
	// Folding December in must not have mutated November's monthly entries.
	assert.Equal(t, "100", result.Monthly[0].Entries[0].Amount.String())
	assert.Equal(t, "200", result.Yearly[0].Entries[0].Amount.String())
}

func TestAggregatorSummaryFigures(t *testing.T) {
	plan := aggregatorPlan()
	agg := NewAggregator(plan, *plan.Start)

	high := makeSnap(dateutil.New(2025, 11), 500, 100)
	agg.Add(high)

	low := makeSnap(dateutil.New(2025, 12), 100, 100)
	low.Depleted = true
	agg.Add(low)

	result := agg.Result()
	s := result.Summary
	assert.Equal(t, "500", s.CurrentNetWorth.String())
	assert.Equal(t, "500", s.PeakNetWorth.String())
	assert.Equal(t, dateutil.New(2025, 11), s.PeakPeriod)

	if assert.NotNil(t, s.BankruptcyPeriod) {
		assert.Equal(t, dateutil.New(2025, 12), *s.BankruptcyPeriod)
	}
	if assert.NotNil(t, s.BankruptcyYear) {
		assert.Equal(t, 2025, *s.BankruptcyYear)
	}
}

func TestAggregatorIndependenceDetection(t *testing.T) {
	plan := aggregatorPlan()
	agg := NewAggregator(plan, *plan.Start)

	working := makeSnap(dateutil.New(2025, 11), 100, 50)
	working.Growth = decimal.NewFromInt(10)
	agg.Add(working)

	free := makeSnap(dateutil.New(2026, 3), 100, 50)
	free.Growth = decimal.NewFromInt(60)
	agg.Add(free)

	result := agg.Result()
	if assert.NotNil(t, result.Summary.YearsToIndependence) {
		assert.Equal(t, 1, *result.Summary.YearsToIndependence)
	}
}

func TestAggregatorNoIndependenceWithoutGrowth(t *testing.T) {
	plan := aggregatorPlan()
	agg := NewAggregator(plan, *plan.Start)
	agg.Add(makeSnap(dateutil.New(2025, 11), 100, 50))

	assert.Nil(t, agg.Result().Summary.YearsToIndependence)
}

func TestMergeEntriesKeepsDistinctFlows(t *testing.T) {
	base := []domain.FlowEntry{
		{Title: "Checking", Category: domain.CategorySavings, Flow: domain.FlowSurplusInvestment, Amount: decimal.NewFromInt(50)},
	}
	extra := []domain.FlowEntry{
		{Title: "Checking", Category: domain.CategorySavings, Flow: domain.FlowSurplusInvestment, Amount: decimal.NewFromInt(30)},
		{Title: "Checking", Category: domain.CategorySavings, Flow: domain.FlowDeficitWithdrawal, Amount: decimal.NewFromInt(-20)},
	}

	merged := mergeEntries(base, extra)
	assert.Len(t, merged, 2)
	assert.Equal(t, "80", merged[0].Amount.String())
	assert.Equal(t, "-20", merged[1].Amount.String())
}
