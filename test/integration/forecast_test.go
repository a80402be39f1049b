package integration

import (
	"bytes"
	"testing"

	"github.com/finsim/household-forecast/internal/calculation"
	"github.com/finsim/household-forecast/internal/config"
	"github.com/finsim/household-forecast/internal/output"
	"github.com/finsim/household-forecast/pkg/dateutil"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestFullForecastFromFile(t *testing.T) {
	parser := config.NewParser()
	plan, err := parser.LoadFromFile("../testdata/example_plan.yaml")
	assert.NoError(t, err)

	engine := calculation.NewEngine()
	result, err := engine.Run(plan)
	assert.NoError(t, err)

	// 30 horizon years starting January 2025.
	assert.Equal(t, 2025, result.StartYear)
	assert.Equal(t, 2054, result.EndYear)
	assert.Len(t, result.Monthly, 360)
	assert.Len(t, result.Yearly, 30)
	assert.Equal(t, 2047, result.RetirementYear)

	// The first month: both salaries in, living costs and the pension
	// contribution out, one mortgage payment.
	first := result.Monthly[0]
	assert.Equal(t, dateutil.New(2025, 1), first.Period)
	assert.Equal(t, 43, first.AgeSelf)
	assert.Equal(t, 41, first.AgeSpouse)
	assert.Equal(t, "9300", first.Income.String())
	assert.Equal(t, "4600", first.Expense.String())
	// 300,000 at 4.2% over 300 months: ~1,616.82 per month.
	assert.InDelta(t, 1616.82, first.DebtService.InexactFloat64(), 0.1)
	assert.True(t, first.NetCashFlow.IsPositive())
	assert.False(t, first.Depleted)

	// The waterfall ran: pension topped up, IRP created implicitly.
	var irpSeen bool
	for _, b := range first.Balances {
		if b.AccountType == "irp" {
			irpSeen = true
			assert.Equal(t, "300", b.Balance.String())
		}
	}
	assert.True(t, irpSeen)

	// This household stays solvent for the full horizon.
	assert.Nil(t, result.Summary.BankruptcyYear)
	last := result.Monthly[359]
	assert.False(t, last.Depleted)
	assert.True(t, last.NetWorth().GreaterThan(result.Summary.CurrentNetWorth))

	// The mortgage is fully repaid by January 2050 (300 payments).
	assert.True(t, result.Monthly[300].DebtOutstanding.IsZero())
}

func TestAnnualLimitCapsIRPInflow(t *testing.T) {
	parser := config.NewParser()
	plan, err := parser.LoadFromFile("../testdata/example_plan.yaml")
	assert.NoError(t, err)

	engine := calculation.NewEngine()
	result, err := engine.Run(plan)
	assert.NoError(t, err)

	// 300/month against a 9,000 annual cap never binds within a year, so the
	// IRP collects twelve full deposits plus savings-rate growth on them.
	december := result.Monthly[11]
	for _, b := range december.Balances {
		if b.AccountType == "irp" {
			assert.InDelta(t, 3640.8, b.Balance.InexactFloat64(), 2.0)
		}
	}
}

func TestRunIsRepeatable(t *testing.T) {
	parser := config.NewParser()
	plan, err := parser.LoadFromFile("../testdata/example_plan.yaml")
	assert.NoError(t, err)

	engine := calculation.NewEngine()
	first, err := engine.Run(plan)
	assert.NoError(t, err)
	second, err := engine.Run(plan)
	assert.NoError(t, err)
	assert.Same(t, first, second)

	fresh, err := calculation.NewEngine().Run(plan)
	assert.NoError(t, err)
	assert.True(t, fresh.Summary.PeakNetWorth.Equal(first.Summary.PeakNetWorth))
	assert.Equal(t, len(first.Monthly), len(fresh.Monthly))
}

func TestReportFormats(t *testing.T) {
	parser := config.NewParser()
	plan, err := parser.LoadFromFile("../testdata/example_plan.yaml")
	assert.NoError(t, err)

	result, err := calculation.NewEngine().Run(plan)
	assert.NoError(t, err)

	for _, format := range []string{"console", "csv", "detailed-csv", "json"} {
		t.Run(format, func(t *testing.T) {
			var buf bytes.Buffer
			assert.NoError(t, output.WriteReport(&buf, result, format))
			assert.NotZero(t, buf.Len())
		})
	}

	var buf bytes.Buffer
	assert.ErrorIs(t, output.WriteReport(&buf, result, "html"), output.ErrUnsupportedFormat)
}

func TestSurplusNeverOutpacesIncome(t *testing.T) {
	parser := config.NewParser()
	plan, err := parser.LoadFromFile("../testdata/example_plan.yaml")
	assert.NoError(t, err)

	result, err := calculation.NewEngine().Run(plan)
	assert.NoError(t, err)

	// Conservation: in every month the allocated surplus entries sum to the
	// net cash flow when it is positive.
	for _, m := range result.Monthly {
		if !m.NetCashFlow.IsPositive() {
			continue
		}
		allocated := decimal.Zero
		for _, e := range m.Entries {
			if e.Flow == "surplus_investment" {
				allocated = allocated.Add(e.Amount)
			}
		}
		assert.True(t, allocated.Equal(m.NetCashFlow),
			"month %s: allocated %s vs net %s", m.Period, allocated, m.NetCashFlow)
	}
}
