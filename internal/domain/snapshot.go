package domain

import (
	"github.com/finsim/household-forecast/pkg/dateutil"
	"github.com/shopspring/decimal"
)

// FlowType tags a snapshot breakdown entry by how the money moved.
type FlowType string

const (
	FlowRegular           FlowType = "regular"
	FlowDeficitWithdrawal FlowType = "deficit_withdrawal"
	FlowSurplusInvestment FlowType = "surplus_investment"
)

// FlowEntry is one itemized line of a snapshot, carrying enough context for a
// chart or table layer to render without re-deriving amounts. Amounts are
// signed: outflows are negative.
type FlowEntry struct {
	Title    string          `json:"title"`
	Category Category        `json:"category"`
	Flow     FlowType        `json:"flow"`
	Amount   decimal.Decimal `json:"amount"`
}

// AccountBalance is one account's end-of-period balance. Snapshots carry
// these as a slice sorted by account type so output is deterministic.
type AccountBalance struct {
	AccountType string          `json:"account_type"`
	Balance     decimal.Decimal `json:"balance"`
}

// Snapshot is the immutable record of one computed period. The engine emits
// one per month; the aggregator additionally rolls them up per year.
type Snapshot struct {
	Period    dateutil.YearMonth `json:"period"`
	AgeSelf   int                `json:"age_self"`
	AgeSpouse int                `json:"age_spouse,omitempty"`

	Income      decimal.Decimal `json:"income"`
	Expense     decimal.Decimal `json:"expense"`
	DebtService decimal.Decimal `json:"debt_service"`
	NetCashFlow decimal.Decimal `json:"net_cash_flow"`

	// Growth is the total assumption-driven account growth credited this
	// period; it is the income the household's investable assets generate
	// on their own.
	Growth decimal.Decimal `json:"growth"`

	Balances        []AccountBalance `json:"balances"`
	DebtOutstanding decimal.Decimal  `json:"debt_outstanding"`
	Entries         []FlowEntry      `json:"entries"`

	// Depleted is set from the first period in which financial assets hit
	// zero or a deficit went uncovered.
	Depleted bool `json:"depleted"`
}

// TotalBalances sums every account balance in the snapshot.
func (s *Snapshot) TotalBalances() decimal.Decimal {
	total := decimal.Zero
	for _, b := range s.Balances {
		total = total.Add(b.Balance)
	}
	return total
}

// NetWorth is total balances less outstanding debt.
func (s *Snapshot) NetWorth() decimal.Decimal {
	return s.TotalBalances().Sub(s.DebtOutstanding)
}

// Summary condenses a full run into headline figures.
type Summary struct {
	CurrentNetWorth    decimal.Decimal     `json:"current_net_worth"`
	RetirementNetWorth decimal.Decimal     `json:"retirement_net_worth"`
	PeakNetWorth       decimal.Decimal     `json:"peak_net_worth"`
	PeakPeriod         dateutil.YearMonth  `json:"peak_period"`
	BankruptcyYear     *int                `json:"bankruptcy_year,omitempty"`
	BankruptcyPeriod   *dateutil.YearMonth `json:"bankruptcy_period,omitempty"`
	// YearsToIndependence is the number of years from the simulation start
	// to the first period where account growth alone covers expenses; nil
	// when that never happens within the horizon.
	YearsToIndependence *int `json:"years_to_independence,omitempty"`
}

// SimulationResult is the complete output of one projection run. It is
// created fresh per run and never mutated afterwards.
type SimulationResult struct {
	StartYear      int        `json:"start_year"`
	EndYear        int        `json:"end_year"`
	RetirementYear int        `json:"retirement_year"`
	Monthly        []Snapshot `json:"monthly"`
	Yearly         []Snapshot `json:"yearly"`
	Summary        Summary    `json:"summary"`
}
