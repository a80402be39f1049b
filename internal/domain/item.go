package domain

import (
	"fmt"

	"github.com/finsim/household-forecast/pkg/dateutil"
	"github.com/shopspring/decimal"
)

// Category classifies a financial item.
type Category string

const (
	CategoryIncome     Category = "income"
	CategoryExpense    Category = "expense"
	CategorySavings    Category = "savings"
	CategoryDebt       Category = "debt"
	CategoryPension    Category = "pension"
	CategoryRealEstate Category = "real_estate"
	CategoryAsset      Category = "asset"
)

// Owner identifies which household member an item belongs to.
type Owner string

const (
	OwnerSelf   Owner = "self"
	OwnerSpouse Owner = "spouse"
	OwnerCommon Owner = "common"
)

// RateKind distinguishes fixed-rate debts from floating-rate debts.
type RateKind string

const (
	RateKindFixed    RateKind = "fixed"
	RateKindFloating RateKind = "floating"
)

// RepaymentType selects the amortization scheme for a debt.
type RepaymentType string

const (
	RepaymentEqualPayment   RepaymentType = "equal_payment"
	RepaymentEqualPrincipal RepaymentType = "equal_principal"
	RepaymentBullet         RepaymentType = "bullet"
	RepaymentGraced         RepaymentType = "graced"
)

// FinancialItem is one entry of the household ledger: an income or expense
// stream, a balance-bearing account, a debt, or a property. The payload is a
// closed union keyed by Category: exactly one of Flow, Account, Debt, or
// RealEstate is set, and Validate enforces the pairing. The engine switches on
// Category exhaustively, so a new category cannot silently fall through.
type FinancialItem struct {
	ID       string             `yaml:"id" json:"id"`
	Title    string             `yaml:"title" json:"title"`
	Category Category           `yaml:"category" json:"category"`
	Type     string             `yaml:"type" json:"type"` // refines the category; doubles as the account key for balance-bearing items
	Owner    Owner              `yaml:"owner" json:"owner"`
	Start    dateutil.YearMonth `yaml:"start" json:"start"`

	// End closes the active window; nil means open-ended. EndAtRetirement
	// resolves the end to the owner's retirement month instead.
	End             *dateutil.YearMonth `yaml:"end,omitempty" json:"end,omitempty"`
	EndAtRetirement bool                `yaml:"end_at_retirement,omitempty" json:"end_at_retirement,omitempty"`

	Flow       *FlowTerms       `yaml:"flow,omitempty" json:"flow,omitempty"`
	Account    *AccountTerms    `yaml:"account,omitempty" json:"account,omitempty"`
	Debt       *DebtTerms       `yaml:"debt,omitempty" json:"debt,omitempty"`
	RealEstate *RealEstateTerms `yaml:"real_estate,omitempty" json:"real_estate,omitempty"`
}

// FlowTerms is the payload for income and expense items.
type FlowTerms struct {
	MonthlyAmount    decimal.Decimal `yaml:"monthly_amount" json:"monthly_amount"`
	AnnualGrowthRate decimal.Decimal `yaml:"annual_growth_rate" json:"annual_growth_rate"`
}

// AccountTerms is the payload for savings, pension, and generic asset items.
type AccountTerms struct {
	Balance             decimal.Decimal `yaml:"balance" json:"balance"`
	MonthlyContribution decimal.Decimal `yaml:"monthly_contribution,omitempty" json:"monthly_contribution,omitempty"`
	RateCategory        RateCategory    `yaml:"rate_category" json:"rate_category"`

	// AnnualRate is the item's own rate; it wins unconditionally when
	// RateCategory is "fixed" and is ignored otherwise.
	AnnualRate decimal.Decimal `yaml:"annual_rate,omitempty" json:"annual_rate,omitempty"`
}

// DebtTerms is the payload for debt items.
type DebtTerms struct {
	Principal      decimal.Decimal `yaml:"principal" json:"principal"`
	CurrentBalance decimal.Decimal `yaml:"current_balance" json:"current_balance"`
	AnnualRate     decimal.Decimal `yaml:"annual_rate" json:"annual_rate"`
	RateKind       RateKind        `yaml:"rate_kind" json:"rate_kind"`
	Spread         decimal.Decimal `yaml:"spread,omitempty" json:"spread,omitempty"`
	Repayment      RepaymentType   `yaml:"repayment" json:"repayment"`
	GraceMonths    int             `yaml:"grace_months,omitempty" json:"grace_months,omitempty"`
	TermMonths     int             `yaml:"term_months" json:"term_months"`
}

// RealEstateTerms is the payload for property items. A property may carry a
// rent stream and reference the debt that financed it.
type RealEstateTerms struct {
	Value        decimal.Decimal `yaml:"value" json:"value"`
	MonthlyRent  decimal.Decimal `yaml:"monthly_rent,omitempty" json:"monthly_rent,omitempty"`
	RateCategory RateCategory    `yaml:"rate_category" json:"rate_category"`
	AnnualRate   decimal.Decimal `yaml:"annual_rate,omitempty" json:"annual_rate,omitempty"`
	LinkedDebtID string          `yaml:"linked_debt_id,omitempty" json:"linked_debt_id,omitempty"`
}

// Validate checks the item's internal invariants: the payload matches the
// category, the active window is well-formed, and debt terms are sane.
func (fi *FinancialItem) Validate() error {
	if fi.ID == "" {
		return fmt.Errorf("item id is required")
	}
	if fi.Title == "" {
		return fmt.Errorf("item %s: title is required", fi.ID)
	}
	switch fi.Owner {
	case OwnerSelf, OwnerSpouse, OwnerCommon:
	default:
		return fmt.Errorf("item %s: unknown owner %q", fi.ID, fi.Owner)
	}

	if fi.End != nil && fi.EndAtRetirement {
		return fmt.Errorf("item %s: end and end_at_retirement are mutually exclusive", fi.ID)
	}
	if fi.End != nil && fi.End.Before(fi.Start) {
		return fmt.Errorf("item %s: end %s precedes start %s", fi.ID, fi.End, fi.Start)
	}

	if err := fi.validatePayload(); err != nil {
		return err
	}
	return nil
}

func (fi *FinancialItem) validatePayload() error {
	set := 0
	if fi.Flow != nil {
		set++
	}
	if fi.Account != nil {
		set++
	}
	if fi.Debt != nil {
		set++
	}
	if fi.RealEstate != nil {
		set++
	}
	if set != 1 {
		return fmt.Errorf("item %s: exactly one payload must be set, got %d", fi.ID, set)
	}

	switch fi.Category {
	case CategoryIncome, CategoryExpense:
		if fi.Flow == nil {
			return fmt.Errorf("item %s: category %s requires a flow payload", fi.ID, fi.Category)
		}
	case CategorySavings, CategoryPension, CategoryAsset:
		if fi.Account == nil {
			return fmt.Errorf("item %s: category %s requires an account payload", fi.ID, fi.Category)
		}
		if fi.Account.Balance.IsNegative() {
			return fmt.Errorf("item %s: account balance cannot be negative", fi.ID)
		}
	case CategoryDebt:
		if fi.Debt == nil {
			return fmt.Errorf("item %s: category debt requires a debt payload", fi.ID)
		}
		return fi.Debt.validate(fi.ID)
	case CategoryRealEstate:
		if fi.RealEstate == nil {
			return fmt.Errorf("item %s: category real_estate requires a real_estate payload", fi.ID)
		}
		if fi.RealEstate.Value.IsNegative() {
			return fmt.Errorf("item %s: property value cannot be negative", fi.ID)
		}
	default:
		return fmt.Errorf("item %s: unknown category %q", fi.ID, fi.Category)
	}
	return nil
}

func (dt *DebtTerms) validate(id string) error {
	if dt.CurrentBalance.IsNegative() {
		return fmt.Errorf("item %s: debt balance cannot be negative", id)
	}
	switch dt.RateKind {
	case RateKindFixed, RateKindFloating, "":
	default:
		return fmt.Errorf("item %s: unknown rate kind %q", id, dt.RateKind)
	}
	switch dt.Repayment {
	case RepaymentEqualPayment, RepaymentEqualPrincipal, RepaymentBullet, RepaymentGraced:
	default:
		return fmt.Errorf("item %s: unknown repayment type %q", id, dt.Repayment)
	}
	if dt.GraceMonths < 0 {
		return fmt.Errorf("item %s: grace months cannot be negative", id)
	}
	if dt.GraceMonths > 0 && dt.Repayment != RepaymentGraced {
		return fmt.Errorf("item %s: grace months only apply to graced repayment", id)
	}
	if dt.Repayment == RepaymentGraced && dt.GraceMonths >= dt.TermMonths {
		return fmt.Errorf("item %s: grace period must end before maturity", id)
	}
	return nil
}

// Maturity returns the final payment period of a debt item.
func (fi *FinancialItem) Maturity() dateutil.YearMonth {
	return fi.Start.Add(fi.Debt.TermMonths - 1)
}
