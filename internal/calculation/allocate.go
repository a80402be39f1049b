package calculation

import (
	"sort"

	"github.com/finsim/household-forecast/internal/domain"
	"github.com/shopspring/decimal"
)

// AnnualLimitTracker tracks how much each capped rule has consumed in the
// current calendar year. The engine resets it at every year boundary.
type AnnualLimitTracker struct {
	used map[string]decimal.Decimal
}

// NewAnnualLimitTracker creates an empty tracker.
func NewAnnualLimitTracker() *AnnualLimitTracker {
	return &AnnualLimitTracker{used: make(map[string]decimal.Decimal)}
}

// Reset clears all consumed capacity at a calendar year boundary.
func (t *AnnualLimitTracker) Reset() {
	t.used = make(map[string]decimal.Decimal)
}

// Used returns the capacity a rule has consumed this year.
func (t *AnnualLimitTracker) Used(ruleID string) decimal.Decimal {
	return t.used[ruleID]
}

func (t *AnnualLimitTracker) record(ruleID string, amount decimal.Decimal) {
	t.used[ruleID] = t.used[ruleID].Add(amount)
}

// remainingCapacity clamps an amount by the rule's unconsumed annual limit.
func (t *AnnualLimitTracker) remainingCapacity(rule domain.CashFlowRule, amount decimal.Decimal) decimal.Decimal {
	if rule.AnnualLimit == nil {
		return amount
	}
	left := rule.AnnualLimit.Sub(t.used[rule.ID])
	if left.IsNegative() {
		return decimal.Zero
	}
	if amount.GreaterThan(left) {
		return left
	}
	return amount
}

// RuleAllocation is surplus routed into one destination account.
type RuleAllocation struct {
	RuleID      string
	AccountType string
	Amount      decimal.Decimal
}

// AccountWithdrawal is a deficit draw from one account.
type AccountWithdrawal struct {
	AccountType string
	Amount      decimal.Decimal
}

// AllocationResult is the outcome of distributing one period's net cash
// flow. Exactly one of Allocations or Withdrawals is populated. Uncovered is
// the deficit portion no balance could absorb; a positive value signals
// asset depletion to the caller.
type AllocationResult struct {
	Allocations   []RuleAllocation
	Withdrawals   []AccountWithdrawal
	RemainderUsed decimal.Decimal
	Uncovered     decimal.Decimal
}

// Allocator distributes a monthly surplus across the priority-ordered
// waterfall, or draws accounts down to cover a deficit. It never mutates
// account balances; the engine applies the returned result.
type Allocator struct {
	priorities *domain.CashFlowPriorities
}

// NewAllocator creates an allocator over a validated rule set.
func NewAllocator(priorities *domain.CashFlowPriorities) *Allocator {
	return &Allocator{priorities: priorities}
}

// Allocate distributes net (positive surplus or negative deficit) for one
// period. Surpluses run the fixed rules in ascending priority, each clamped
// by its monthly amount and remaining annual-limit capacity, with the
// remainder rule absorbing what is left. Deficits withdraw in
// reverse-priority order, capped at each account's balance.
func (a *Allocator) Allocate(net decimal.Decimal, accounts *AccountSet, limits *AnnualLimitTracker) AllocationResult {
	if net.IsNegative() {
		return a.withdraw(net.Neg(), accounts)
	}
	return a.distribute(net, limits)
}

func (a *Allocator) distribute(surplus decimal.Decimal, limits *AnnualLimitTracker) AllocationResult {
	result := AllocationResult{}
	remaining := surplus

	for _, rule := range a.priorities.EnabledFixed() {
		amount := rule.MonthlyAmount
		if amount.GreaterThan(remaining) {
			amount = remaining
		}
		amount = limits.remainingCapacity(rule, amount)
		if amount.LessThanOrEqual(decimal.Zero) {
			continue
		}
		result.Allocations = append(result.Allocations, RuleAllocation{
			RuleID:      rule.ID,
			AccountType: rule.AccountType,
			Amount:      amount,
		})
		limits.record(rule.ID, amount)
		remaining = remaining.Sub(amount)
	}

	if remaining.IsNegative() {
		remaining = decimal.Zero
	}
	if remaining.IsPositive() {
		// The remainder rule absorbs the leftover regardless of its own
		// priority number; without one, leftovers accrue to the implicit
		// default cash account.
		target := domain.DefaultCashAccountType
		ruleID := ""
		if rem, ok := a.priorities.Remainder(); ok {
			target = rem.AccountType
			ruleID = rem.ID
		}
		result.Allocations = append(result.Allocations, RuleAllocation{
			RuleID:      ruleID,
			AccountType: target,
			Amount:      remaining,
		})
		result.RemainderUsed = remaining
	}
	return result
}

func (a *Allocator) withdraw(shortfall decimal.Decimal, accounts *AccountSet) AllocationResult {
	result := AllocationResult{}
	for _, acc := range a.withdrawalOrder(accounts) {
		if shortfall.LessThanOrEqual(decimal.Zero) {
			break
		}
		if !acc.Liquid || acc.Balance.LessThanOrEqual(decimal.Zero) {
			continue
		}
		take := acc.Balance
		if take.GreaterThan(shortfall) {
			take = shortfall
		}
		result.Withdrawals = append(result.Withdrawals, AccountWithdrawal{
			AccountType: acc.Type,
			Amount:      take,
		})
		shortfall = shortfall.Sub(take)
	}
	// An unmet shortfall is reported, never fabricated from thin air.
	result.Uncovered = shortfall
	return result
}

// withdrawalOrder is the reverse of the allocation waterfall: the remainder
// account drains first, then fixed-rule accounts from lowest to highest
// precedence, then any remaining liquid accounts in registration order.
func (a *Allocator) withdrawalOrder(accounts *AccountSet) []*Account {
	ordered := make([]*Account, 0, len(accounts.Ordered()))
	seen := make(map[string]bool)

	appendType := func(accountType string) {
		if seen[accountType] {
			return
		}
		if acc, ok := accounts.Get(accountType); ok {
			ordered = append(ordered, acc)
			seen[accountType] = true
		}
	}

	if rem, ok := a.priorities.Remainder(); ok {
		appendType(rem.AccountType)
	} else {
		appendType(domain.DefaultCashAccountType)
	}

	fixed := a.priorities.EnabledFixed()
	sort.SliceStable(fixed, func(i, j int) bool { return fixed[i].Priority > fixed[j].Priority })
	for _, rule := range fixed {
		appendType(rule.AccountType)
	}

	for _, acc := range accounts.Ordered() {
		if !seen[acc.Type] {
			ordered = append(ordered, acc)
			seen[acc.Type] = true
		}
	}
	return ordered
}
