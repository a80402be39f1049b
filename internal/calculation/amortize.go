package calculation

import (
	"math"

	"github.com/finsim/household-forecast/internal/domain"
	"github.com/shopspring/decimal"
)

// AmortizationResult is the interest/principal split for one debt and one
// period. RemainingBalance is the balance after the payment, floored at zero.
type AmortizationResult struct {
	Interest         decimal.Decimal
	Principal        decimal.Decimal
	Payment          decimal.Decimal
	RemainingBalance decimal.Decimal
}

// LoanSchedule summarizes a debt's full repayment for display purposes.
type LoanSchedule struct {
	MonthlyPayment decimal.Decimal
	TotalInterest  decimal.Decimal
	TotalPayment   decimal.Decimal
}

// ScheduleEntry is one period of a generated repayment table.
type ScheduleEntry struct {
	Period           int
	Interest         decimal.Decimal
	Principal        decimal.Decimal
	Payment          decimal.Decimal
	RemainingBalance decimal.Decimal
}

// AmortizePeriod computes one period's payment for a debt under its
// repayment scheme. monthsElapsed counts completed periods since the debt's
// start; baseRate is the period's reference rate for floating debts
// (ignored for fixed-rate debts). A remaining term of zero or less means the
// full balance is due immediately with no further interest, which also
// guards the annuity formula against division by zero.
func AmortizePeriod(dt *domain.DebtTerms, balance decimal.Decimal, monthsElapsed int, baseRate decimal.Decimal) AmortizationResult {
	if balance.LessThanOrEqual(decimal.Zero) {
		return AmortizationResult{RemainingBalance: decimal.Zero}
	}

	remainingTerm := dt.TermMonths - monthsElapsed
	if remainingTerm <= 0 {
		return AmortizationResult{
			Principal:        balance,
			Payment:          balance,
			RemainingBalance: decimal.Zero,
		}
	}

	rate := monthlyDebtRate(dt, baseRate)
	interest := balance.Mul(rate)
	var principal decimal.Decimal

	switch dt.Repayment {
	case domain.RepaymentEqualPayment:
		payment := annuityPayment(balance, rate, remainingTerm)
		principal = payment.Sub(interest)

	case domain.RepaymentEqualPrincipal:
		if dt.TermMonths > 0 {
			principal = dt.Principal.Div(decimal.NewFromInt(int64(dt.TermMonths)))
		} else {
			principal = balance
		}

	case domain.RepaymentBullet:
		if remainingTerm == 1 {
			principal = balance
		}

	case domain.RepaymentGraced:
		if monthsElapsed < dt.GraceMonths {
			// Interest only; principal untouched until grace ends.
		} else {
			// Annuity over the remaining term, using the balance held at
			// grace end (unchanged through the grace window).
			payment := annuityPayment(balance, rate, remainingTerm)
			principal = payment.Sub(interest)
		}

	default:
		// Unknown schemes contribute nothing rather than aborting the run.
		return AmortizationResult{RemainingBalance: balance}
	}

	// The final period clears the balance exactly, absorbing rounding drift.
	if remainingTerm == 1 || principal.GreaterThan(balance) {
		principal = balance
	}
	if principal.IsNegative() {
		principal = decimal.Zero
	}

	return AmortizationResult{
		Interest:         interest,
		Principal:        principal,
		Payment:          interest.Add(principal),
		RemainingBalance: balance.Sub(principal),
	}
}

// Schedule computes the display summary for a debt over its full term,
// starting from the original principal. Floating debts are priced at their
// stored reference rate plus spread throughout.
func Schedule(dt *domain.DebtTerms) LoanSchedule {
	entries := ScheduleEntries(dt)
	var totalInterest, totalPayment, firstPayment decimal.Decimal
	for i, e := range entries {
		totalInterest = totalInterest.Add(e.Interest)
		totalPayment = totalPayment.Add(e.Payment)
		if i == 0 {
			firstPayment = e.Payment
		}
	}
	return LoanSchedule{
		MonthlyPayment: firstPayment,
		TotalInterest:  totalInterest,
		TotalPayment:   totalPayment,
	}
}

// ScheduleEntries generates the full period-by-period repayment table for a
// debt from its original principal. Degenerate terms produce an empty table.
func ScheduleEntries(dt *domain.DebtTerms) []ScheduleEntry {
	if dt.TermMonths <= 0 || dt.Principal.LessThanOrEqual(decimal.Zero) {
		return nil
	}
	entries := make([]ScheduleEntry, 0, dt.TermMonths)
	balance := dt.Principal
	for period := 0; period < dt.TermMonths; period++ {
		res := AmortizePeriod(dt, balance, period, dt.AnnualRate)
		entries = append(entries, ScheduleEntry{
			Period:           period + 1,
			Interest:         res.Interest,
			Principal:        res.Principal,
			Payment:          res.Payment,
			RemainingBalance: res.RemainingBalance,
		})
		balance = res.RemainingBalance
		if balance.IsZero() {
			break
		}
	}
	return entries
}

// monthlyDebtRate resolves the period rate for a debt. Loans use the nominal
// convention, annual/12. Floating debts re-price each period from the
// caller-supplied base rate plus their spread.
func monthlyDebtRate(dt *domain.DebtTerms, baseRate decimal.Decimal) decimal.Decimal {
	annual := dt.AnnualRate
	if dt.RateKind == domain.RateKindFloating {
		annual = baseRate.Add(dt.Spread)
	}
	return annual.Div(decimal.NewFromInt(12))
}

// annuityPayment computes the equal-payment amount for a balance over n
// periods at a monthly rate: B*i / (1 - (1+i)^-n). The power term goes
// through float64; the monetary arithmetic stays decimal.
func annuityPayment(balance decimal.Decimal, monthlyRate decimal.Decimal, n int) decimal.Decimal {
	if n <= 0 {
		return balance
	}
	if monthlyRate.IsZero() {
		return balance.Div(decimal.NewFromInt(int64(n)))
	}
	r := monthlyRate.InexactFloat64()
	factor := math.Pow(1+r, float64(n))
	return balance.Mul(decimal.NewFromFloat(r * factor / (factor - 1)))
}
