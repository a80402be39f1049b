package calculation

import (
	"github.com/finsim/household-forecast/internal/domain"
	"github.com/finsim/household-forecast/pkg/dateutil"
	"github.com/shopspring/decimal"
)

// Aggregator collects the engine's per-period snapshots and maintains the
// running figures the summary reports: peak net worth, net worth at
// retirement, first depletion, first financial-independence period. It is
// purely accumulative; prior periods are never recomputed or reordered.
type Aggregator struct {
	start           dateutil.YearMonth
	retirementMonth dateutil.YearMonth

	monthly []domain.Snapshot
	yearly  []domain.Snapshot

	current        decimal.Decimal
	currentSet     bool
	retirement     decimal.Decimal
	retirementSeen bool
	peak           decimal.Decimal
	peakPeriod     dateutil.YearMonth
	peakSet        bool
	bankruptcy     *dateutil.YearMonth
	independence   *dateutil.YearMonth
}

// NewAggregator creates an aggregator for one run.
func NewAggregator(plan *domain.Plan, start dateutil.YearMonth) *Aggregator {
	return &Aggregator{
		start:           start,
		retirementMonth: plan.Profile.RetirementMonth(domain.OwnerSelf),
	}
}

// Add appends one monthly snapshot, folds it into the current yearly rollup,
// and advances the running aggregates.
func (a *Aggregator) Add(snap domain.Snapshot) {
	a.monthly = append(a.monthly, snap)
	a.rollIntoYear(snap)

	nw := snap.NetWorth()
	if !a.currentSet {
		a.current = nw
		a.currentSet = true
	}
	if !a.peakSet || nw.GreaterThan(a.peak) {
		a.peak = nw
		a.peakPeriod = snap.Period
		a.peakSet = true
	}
	if !a.retirementSeen && snap.Period.Index() >= a.retirementMonth.Index() {
		a.retirement = nw
		a.retirementSeen = true
	}
	if a.bankruptcy == nil && snap.Depleted {
		p := snap.Period
		a.bankruptcy = &p
	}
	// Financial independence: the first period where investable-asset growth
	// alone covers the month's expenses.
	if a.independence == nil && snap.Expense.IsPositive() && snap.Growth.GreaterThanOrEqual(snap.Expense) {
		p := snap.Period
		a.independence = &p
	}
}

// rollIntoYear folds a monthly snapshot into its calendar-year rollup: flows
// are summed, breakdown entries merged by title and flow type, and ages,
// balances, and debt carry the latest month's values.
func (a *Aggregator) rollIntoYear(snap domain.Snapshot) {
	n := len(a.yearly)
	if n == 0 || a.yearly[n-1].Period.Year != snap.Period.Year {
		year := snap
		year.Entries = append([]domain.FlowEntry(nil), snap.Entries...)
		year.Balances = append([]domain.AccountBalance(nil), snap.Balances...)
		a.yearly = append(a.yearly, year)
		return
	}

	year := &a.yearly[n-1]
	year.Period = snap.Period
	year.AgeSelf = snap.AgeSelf
	year.AgeSpouse = snap.AgeSpouse
	year.Income = year.Income.Add(snap.Income)
	year.Expense = year.Expense.Add(snap.Expense)
	year.DebtService = year.DebtService.Add(snap.DebtService)
	year.NetCashFlow = year.NetCashFlow.Add(snap.NetCashFlow)
	year.Growth = year.Growth.Add(snap.Growth)
	year.Balances = append([]domain.AccountBalance(nil), snap.Balances...)
	year.DebtOutstanding = snap.DebtOutstanding
	year.Depleted = year.Depleted || snap.Depleted
	year.Entries = mergeEntries(year.Entries, snap.Entries)
}

// mergeEntries sums breakdown amounts that share title, category, and flow
// type, preserving first-seen order.
func mergeEntries(base, extra []domain.FlowEntry) []domain.FlowEntry {
	type key struct {
		title    string
		category domain.Category
		flow     domain.FlowType
	}
	index := make(map[key]int, len(base))
	for i, e := range base {
		index[key{e.Title, e.Category, e.Flow}] = i
	}
	for _, e := range extra {
		k := key{e.Title, e.Category, e.Flow}
		if i, ok := index[k]; ok {
			base[i].Amount = base[i].Amount.Add(e.Amount)
			continue
		}
		index[k] = len(base)
		base = append(base, e)
	}
	return base
}

// Result finalizes the run output.
func (a *Aggregator) Result() *domain.SimulationResult {
	summary := domain.Summary{
		CurrentNetWorth:    a.current,
		RetirementNetWorth: a.retirement,
		PeakNetWorth:       a.peak,
		PeakPeriod:         a.peakPeriod,
	}
	if a.bankruptcy != nil {
		year := a.bankruptcy.Year
		summary.BankruptcyYear = &year
		summary.BankruptcyPeriod = a.bankruptcy
	}
	if a.independence != nil {
		years := a.independence.Year - a.start.Year
		summary.YearsToIndependence = &years
	}

	result := &domain.SimulationResult{
		StartYear:      a.start.Year,
		RetirementYear: a.retirementMonth.Year,
		Monthly:        a.monthly,
		Yearly:         a.yearly,
		Summary:        summary,
	}
	if len(a.monthly) > 0 {
		result.EndYear = a.monthly[len(a.monthly)-1].Period.Year
	}
	return result
}
