package calculation

import (
	"sort"

	"github.com/finsim/household-forecast/internal/domain"
	"github.com/shopspring/decimal"
)

// Account is the engine's mutable state for one balance-bearing destination.
// Liquid accounts can cover deficits; property values cannot. OpensAt is the
// month index from which the balance starts compounding; before it the
// balance sits still.
type Account struct {
	Type         string
	Title        string
	Balance      decimal.Decimal
	RateCategory domain.RateCategory
	AnnualRate   decimal.Decimal
	Liquid       bool
	OpensAt      int
}

// AccountSet tracks every account of a run in stable registration order.
type AccountSet struct {
	list   []*Account
	byType map[string]*Account
}

// NewAccountSet creates an empty account set.
func NewAccountSet() *AccountSet {
	return &AccountSet{byType: make(map[string]*Account)}
}

// Add registers an account. Two items sharing an account type merge into one
// balance that opens with the earliest of them.
func (s *AccountSet) Add(acc *Account) *Account {
	if existing, ok := s.byType[acc.Type]; ok {
		existing.Balance = existing.Balance.Add(acc.Balance)
		if acc.OpensAt < existing.OpensAt {
			existing.OpensAt = acc.OpensAt
		}
		return existing
	}
	s.list = append(s.list, acc)
	s.byType[acc.Type] = acc
	return acc
}

// Ensure returns the account for a type, creating an implicit liquid cash
// account when an allocation rule targets a type no item declared.
func (s *AccountSet) Ensure(accountType string) *Account {
	if acc, ok := s.byType[accountType]; ok {
		return acc
	}
	return s.Add(&Account{
		Type:         accountType,
		Title:        accountType,
		RateCategory: domain.RateSavings,
		Liquid:       true,
	})
}

// Get looks up an account by type.
func (s *AccountSet) Get(accountType string) (*Account, bool) {
	acc, ok := s.byType[accountType]
	return acc, ok
}

// Ordered returns accounts in registration order.
func (s *AccountSet) Ordered() []*Account {
	return s.list
}

// Balances renders the current balances sorted by account type, the
// deterministic form snapshots carry.
func (s *AccountSet) Balances() []domain.AccountBalance {
	out := make([]domain.AccountBalance, 0, len(s.list))
	for _, acc := range s.list {
		out = append(out, domain.AccountBalance{AccountType: acc.Type, Balance: acc.Balance})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].AccountType < out[j].AccountType })
	return out
}

// TotalLiquid sums the balances deficits can draw on.
func (s *AccountSet) TotalLiquid() decimal.Decimal {
	total := decimal.Zero
	for _, acc := range s.list {
		if acc.Liquid {
			total = total.Add(acc.Balance)
		}
	}
	return total
}

// Total sums every account balance, liquid or not.
func (s *AccountSet) Total() decimal.Decimal {
	total := decimal.Zero
	for _, acc := range s.list {
		total = total.Add(acc.Balance)
	}
	return total
}
