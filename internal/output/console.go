package output

import (
	"bytes"
	"fmt"

	"github.com/finsim/household-forecast/internal/domain"
	"github.com/finsim/household-forecast/pkg/money"
	"github.com/shopspring/decimal"
)

// ConsoleFormatter renders the run summary and a yearly table as plain text.
type ConsoleFormatter struct{}

func (c ConsoleFormatter) Name() string { return "console" }

func (c ConsoleFormatter) Format(result *domain.SimulationResult) ([]byte, error) {
	var buf bytes.Buffer
	fmt.Fprintln(&buf, "HOUSEHOLD CASH FLOW FORECAST")
	fmt.Fprintln(&buf, "============================")
	fmt.Fprintf(&buf, "Horizon: %d - %d (retirement %d)\n", result.StartYear, result.EndYear, result.RetirementYear)
	fmt.Fprintln(&buf)

	s := result.Summary
	fmt.Fprintf(&buf, "Current Net Worth:    %s\n", FormatCurrency(s.CurrentNetWorth))
	fmt.Fprintf(&buf, "Retirement Net Worth: %s\n", FormatCurrency(s.RetirementNetWorth))
	fmt.Fprintf(&buf, "Peak Net Worth:       %s (%s)\n", FormatCurrency(s.PeakNetWorth), s.PeakPeriod)
	if s.BankruptcyPeriod != nil {
		fmt.Fprintf(&buf, "Funds Depleted:       %s\n", s.BankruptcyPeriod)
	} else {
		fmt.Fprintln(&buf, "Funds Depleted:       never within horizon")
	}
	if s.YearsToIndependence != nil {
		fmt.Fprintf(&buf, "Financial Independence: in %d years\n", *s.YearsToIndependence)
	}
	fmt.Fprintln(&buf)

	fmt.Fprintf(&buf, "%-6s %4s %14s %14s %14s %14s %16s %14s\n",
		"Year", "Age", "Income", "Expenses", "DebtSvc", "NetFlow", "Assets", "Debt")
	for _, y := range result.Yearly {
		assets := money.FromDecimal(y.TotalBalances())
		fmt.Fprintf(&buf, "%-6d %4d %14s %14s %14s %14s %16s %14s\n",
			y.Period.Year,
			y.AgeSelf,
			FormatCurrency(y.Income),
			FormatCurrency(y.Expense),
			FormatCurrency(y.DebtService),
			FormatCurrency(y.NetCashFlow),
			assets.Round().Format(),
			FormatCurrency(y.DebtOutstanding),
		)
		if y.Depleted {
			fmt.Fprintf(&buf, "       ^ liquid funds exhausted during %d\n", y.Period.Year)
		}
	}
	return buf.Bytes(), nil
}

// FormatCurrency formats a decimal as currency with 2 decimals.
// Kept here so it can be reused by multiple formatters and unit tested in isolation.
func FormatCurrency(amount decimal.Decimal) string {
	return money.FromDecimal(amount).Round().Format()
}

// FormatPercentage formats a decimal rate as a percentage with 2 decimals.
func FormatPercentage(rate decimal.Decimal) string {
	return rate.Mul(decimal.NewFromInt(100)).StringFixed(2) + "%"
}
