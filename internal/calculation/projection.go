package calculation

import (
	"github.com/finsim/household-forecast/internal/domain"
	"github.com/finsim/household-forecast/pkg/dateutil"
	"github.com/shopspring/decimal"
)

// debtState tracks one debt's mutable balance across the run.
type debtState struct {
	item    *domain.FinancialItem
	balance decimal.Decimal
}

// pendingContribution is a month's routed savings contribution, credited to
// its account after growth is applied (end-of-month convention).
type pendingContribution struct {
	accountType string
	amount      decimal.Decimal
}

// project advances the household state machine one calendar month at a time
// from the plan's start to its horizon. Each step: ages, active-item
// selection, income and expense aggregation, debt amortization, account
// growth, net cash flow, surplus/deficit allocation, depletion detection,
// snapshot emission. The loop never exits early: a depleted state is
// meaningful output, not an error.
func (e *Engine) project(plan *domain.Plan) *domain.SimulationResult {
	start := plan.StartMonth()
	end := plan.EndMonth()
	profile := &plan.Profile

	rates := NewRateProvider(plan.Assumptions)
	allocator := NewAllocator(&plan.Priorities)
	limits := NewAnnualLimitTracker()
	agg := NewAggregator(plan, start)

	accounts := NewAccountSet()
	var debts []*debtState
	for i := range plan.Items {
		item := &plan.Items[i]
		switch item.Category {
		case domain.CategorySavings, domain.CategoryPension, domain.CategoryAsset:
			accounts.Add(&Account{
				Type:         accountKey(item),
				Title:        item.Title,
				Balance:      item.Account.Balance,
				RateCategory: item.Account.RateCategory,
				AnnualRate:   item.Account.AnnualRate,
				Liquid:       true,
				OpensAt:      item.Start.Index(),
			})
		case domain.CategoryRealEstate:
			accounts.Add(&Account{
				Type:         accountKey(item),
				Title:        item.Title,
				Balance:      item.RealEstate.Value,
				RateCategory: item.RealEstate.RateCategory,
				AnnualRate:   item.RealEstate.AnnualRate,
				Liquid:       false,
				OpensAt:      item.Start.Index(),
			})
		case domain.CategoryDebt:
			debts = append(debts, &debtState{item: item, balance: item.Debt.CurrentBalance})
		}
	}

	e.Logger.Debugf("projecting %s..%s (%d accounts, %d debts, %d items)",
		start, end, len(accounts.Ordered()), len(debts), len(plan.Items))

	for idx := start.Index(); idx <= end.Index(); idx++ {
		period := dateutil.FromIndex(idx)
		if period.Month == 1 && idx != start.Index() {
			limits.Reset()
		}

		var entries []domain.FlowEntry
		var contribs []pendingContribution
		income := decimal.Zero
		expense := decimal.Zero

		for i := range plan.Items {
			item := &plan.Items[i]
			if !itemActive(item, profile, idx) {
				continue
			}
			switch item.Category {
			case domain.CategoryIncome:
				amount := CompoundMonthly(item.Flow.MonthlyAmount, item.Flow.AnnualGrowthRate, idx-item.Start.Index())
				income = income.Add(amount)
				entries = append(entries, domain.FlowEntry{
					Title: item.Title, Category: item.Category, Flow: domain.FlowRegular, Amount: amount,
				})

			case domain.CategoryExpense:
				amount := CompoundMonthly(item.Flow.MonthlyAmount, item.Flow.AnnualGrowthRate, idx-item.Start.Index())
				expense = expense.Add(amount)
				entries = append(entries, domain.FlowEntry{
					Title: item.Title, Category: item.Category, Flow: domain.FlowRegular, Amount: amount.Neg(),
				})

			case domain.CategoryRealEstate:
				if item.RealEstate.MonthlyRent.IsPositive() {
					income = income.Add(item.RealEstate.MonthlyRent)
					entries = append(entries, domain.FlowEntry{
						Title: item.Title + " rent", Category: item.Category, Flow: domain.FlowRegular,
						Amount: item.RealEstate.MonthlyRent,
					})
				}

			case domain.CategorySavings, domain.CategoryPension, domain.CategoryAsset:
				// Contributions leave the monthly budget and land on the
				// account balance below.
				if c := item.Account.MonthlyContribution; c.IsPositive() {
					expense = expense.Add(c)
					contribs = append(contribs, pendingContribution{accountType: accountKey(item), amount: c})
					entries = append(entries, domain.FlowEntry{
						Title: item.Title + " contribution", Category: item.Category, Flow: domain.FlowRegular,
						Amount: c.Neg(),
					})
				}
			}
		}

		debtService := decimal.Zero
		for _, ds := range debts {
			if idx < ds.item.Start.Index() || ds.balance.LessThanOrEqual(decimal.Zero) {
				continue
			}
			res := AmortizePeriod(ds.item.Debt, ds.balance, idx-ds.item.Start.Index(), ds.item.Debt.AnnualRate)
			ds.balance = res.RemainingBalance
			debtService = debtService.Add(res.Payment)
			entries = append(entries, domain.FlowEntry{
				Title: ds.item.Title, Category: domain.CategoryDebt, Flow: domain.FlowRegular,
				Amount: res.Payment.Neg(),
			})
		}

		// Monthly-compounded growth on every balance-bearing account whose
		// item window has opened. Growth on investable (liquid) balances is
		// what the independence check measures against expenses.
		liquidGrowth := decimal.Zero
		for _, acc := range accounts.Ordered() {
			if idx < acc.OpensAt {
				continue
			}
			rate := MonthlyRate(rates.EffectiveAnnualRate(acc.RateCategory, acc.AnnualRate))
			g := acc.Balance.Mul(rate)
			acc.Balance = acc.Balance.Add(g)
			if acc.Liquid {
				liquidGrowth = liquidGrowth.Add(g)
			}
		}
		for _, c := range contribs {
			acc := accounts.Ensure(c.accountType)
			acc.Balance = acc.Balance.Add(c.amount)
		}

		net := income.Sub(expense).Sub(debtService)
		res := allocator.Allocate(net, accounts, limits)

		for _, alloc := range res.Allocations {
			acc := accounts.Ensure(alloc.AccountType)
			acc.Balance = acc.Balance.Add(alloc.Amount)
			entries = append(entries, domain.FlowEntry{
				Title: acc.Title, Category: domain.CategorySavings, Flow: domain.FlowSurplusInvestment,
				Amount: alloc.Amount,
			})
		}
		for _, w := range res.Withdrawals {
			acc, ok := accounts.Get(w.AccountType)
			if !ok {
				continue
			}
			acc.Balance = acc.Balance.Sub(w.Amount)
			if acc.Balance.IsNegative() {
				acc.Balance = decimal.Zero
			}
			entries = append(entries, domain.FlowEntry{
				Title: acc.Title, Category: domain.CategorySavings, Flow: domain.FlowDeficitWithdrawal,
				Amount: w.Amount.Neg(),
			})
		}

		depleted := res.Uncovered.IsPositive() ||
			(len(res.Withdrawals) > 0 && accounts.TotalLiquid().IsZero())

		totalDebt := decimal.Zero
		for _, ds := range debts {
			totalDebt = totalDebt.Add(ds.balance)
		}

		snap := domain.Snapshot{
			Period:          period,
			AgeSelf:         dateutil.AgeAt(profile.BirthYear, period),
			Income:          income,
			Expense:         expense,
			DebtService:     debtService,
			NetCashFlow:     net,
			Growth:          liquidGrowth,
			Balances:        accounts.Balances(),
			DebtOutstanding: totalDebt,
			Entries:         entries,
			Depleted:        depleted,
		}
		if profile.HasSpouse() {
			snap.AgeSpouse = dateutil.AgeAt(*profile.SpouseBirthYear, period)
		}
		agg.Add(snap)
	}

	return agg.Result()
}

// accountKey derives the balance key for a balance-bearing item; the refined
// type doubles as the allocation destination, falling back to the item id.
func accountKey(item *domain.FinancialItem) string {
	if item.Type != "" {
		return item.Type
	}
	return item.ID
}

// itemActive reports whether an item's window covers a period. Retirement
// end markers resolve to the owner's retirement month; malformed windows
// simply contribute zero periods.
func itemActive(item *domain.FinancialItem, profile *domain.Profile, idx int) bool {
	if idx < item.Start.Index() {
		return false
	}
	if item.End != nil {
		return idx <= item.End.Index()
	}
	if item.EndAtRetirement {
		return idx <= profile.RetirementMonth(item.Owner).Index()
	}
	return true
}
