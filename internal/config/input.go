package config

import (
	"fmt"
	"os"

	"github.com/finsim/household-forecast/internal/domain"
	"github.com/finsim/household-forecast/pkg/dateutil"
	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"
)

// Parser loads and validates plan files. Every configuration error the
// projection engine assumes away (invalid dates, duplicate remainder rules,
// priority collisions) is rejected here, before a run starts.
type Parser struct{}

// NewParser creates a plan file parser.
func NewParser() *Parser {
	return &Parser{}
}

// LoadFromFile loads a plan from a YAML file.
func (p *Parser) LoadFromFile(filename string) (*domain.Plan, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to read file %s: %w", filename, err)
	}

	var plan domain.Plan
	if err := yaml.Unmarshal(data, &plan); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	if err := p.ValidatePlan(&plan); err != nil {
		return nil, fmt.Errorf("plan validation failed: %w", err)
	}
	return &plan, nil
}

// ValidatePlan validates a loaded plan: profile, assumptions, every item,
// and the waterfall invariants.
func (p *Parser) ValidatePlan(plan *domain.Plan) error {
	if err := plan.Profile.Validate(); err != nil {
		return fmt.Errorf("profile: %w", err)
	}
	if err := plan.Assumptions.Validate(); err != nil {
		return fmt.Errorf("assumptions: %w", err)
	}
	if plan.HorizonYears < 0 || plan.HorizonYears > 100 {
		return fmt.Errorf("horizon_years must be between 0 and 100")
	}

	ids := make(map[string]bool)
	debtIDs := make(map[string]bool)
	for i := range plan.Items {
		item := &plan.Items[i]
		if err := item.Validate(); err != nil {
			return err
		}
		if ids[item.ID] {
			return fmt.Errorf("duplicate item id %q", item.ID)
		}
		ids[item.ID] = true
		if item.Category == domain.CategoryDebt {
			debtIDs[item.ID] = true
		}
	}
	for i := range plan.Items {
		item := &plan.Items[i]
		if item.Category == domain.CategoryRealEstate && item.RealEstate.LinkedDebtID != "" {
			if !debtIDs[item.RealEstate.LinkedDebtID] {
				return fmt.Errorf("item %s: linked_debt_id %q does not reference a debt item",
					item.ID, item.RealEstate.LinkedDebtID)
			}
		}
	}

	if err := plan.Priorities.Validate(); err != nil {
		return fmt.Errorf("cash_flow_priorities: %w", err)
	}
	return nil
}

// SavePlan writes a plan back to a YAML file.
func SavePlan(plan *domain.Plan, filename string) error {
	data, err := yaml.Marshal(plan)
	if err != nil {
		return err
	}
	return os.WriteFile(filename, data, 0644)
}

// ExamplePlan creates a starter plan for the CLI example command: a couple
// with salaries, living costs, a mortgaged home, savings, and a pension
// waterfall.
func ExamplePlan() *domain.Plan {
	start := dateutil.New(2025, 1)
	spouseBirth := 1984
	spouseRetire := 65
	irpLimit := decimal.NewFromInt(9000)

	return &domain.Plan{
		Profile: domain.Profile{
			BirthYear:           1982,
			RetirementAge:       65,
			LifeExpectancy:      90,
			SpouseBirthYear:     &spouseBirth,
			SpouseRetirementAge: &spouseRetire,
		},
		Assumptions: domain.Assumptions{
			Mode: domain.ModeFixed,
			Rates: domain.RateTable{
				Savings:    decimal.NewFromFloat(0.025),
				Investment: decimal.NewFromFloat(0.06),
				Pension:    decimal.NewFromFloat(0.045),
				RealEstate: decimal.NewFromFloat(0.03),
				Inflation:  decimal.NewFromFloat(0.025),
			},
		},
		Start: &start,
		Items: []domain.FinancialItem{
			{
				ID: "salary-self", Title: "Salary", Category: domain.CategoryIncome,
				Type: "salary", Owner: domain.OwnerSelf,
				Start: start, EndAtRetirement: true,
				Flow: &domain.FlowTerms{
					MonthlyAmount:    decimal.NewFromInt(5200),
					AnnualGrowthRate: decimal.NewFromFloat(0.03),
				},
			},
			{
				ID: "salary-spouse", Title: "Spouse salary", Category: domain.CategoryIncome,
				Type: "salary", Owner: domain.OwnerSpouse,
				Start: start, EndAtRetirement: true,
				Flow: &domain.FlowTerms{
					MonthlyAmount:    decimal.NewFromInt(4100),
					AnnualGrowthRate: decimal.NewFromFloat(0.03),
				},
			},
			{
				ID: "living", Title: "Living expenses", Category: domain.CategoryExpense,
				Type: "living", Owner: domain.OwnerCommon,
				Start: start,
				Flow: &domain.FlowTerms{
					MonthlyAmount:    decimal.NewFromInt(4300),
					AnnualGrowthRate: decimal.NewFromFloat(0.025),
				},
			},
			{
				ID: "checking", Title: "Checking account", Category: domain.CategorySavings,
				Type: "checking", Owner: domain.OwnerCommon,
				Start: start,
				Account: &domain.AccountTerms{
					Balance:      decimal.NewFromInt(18000),
					RateCategory: domain.RateSavings,
				},
			},
			{
				ID: "brokerage", Title: "Brokerage account", Category: domain.CategoryAsset,
				Type: "investment", Owner: domain.OwnerSelf,
				Start: start,
				Account: &domain.AccountTerms{
					Balance:      decimal.NewFromInt(65000),
					RateCategory: domain.RateInvestment,
				},
			},
			{
				ID: "pension-self", Title: "Pension savings", Category: domain.CategoryPension,
				Type: "pension_savings", Owner: domain.OwnerSelf,
				Start: start, EndAtRetirement: true,
				Account: &domain.AccountTerms{
					Balance:             decimal.NewFromInt(42000),
					MonthlyContribution: decimal.NewFromInt(300),
					RateCategory:        domain.RatePension,
				},
			},
			{
				ID: "home", Title: "Family home", Category: domain.CategoryRealEstate,
				Type: "home", Owner: domain.OwnerCommon,
				Start: start,
				RealEstate: &domain.RealEstateTerms{
					Value:        decimal.NewFromInt(520000),
					RateCategory: domain.RateRealEstate,
					LinkedDebtID: "mortgage",
				},
			},
			{
				ID: "mortgage", Title: "Mortgage", Category: domain.CategoryDebt,
				Type: "mortgage", Owner: domain.OwnerCommon,
				Start: start,
				Debt: &domain.DebtTerms{
					Principal:      decimal.NewFromInt(300000),
					CurrentBalance: decimal.NewFromInt(300000),
					AnnualRate:     decimal.NewFromFloat(0.042),
					RateKind:       domain.RateKindFixed,
					Repayment:      domain.RepaymentEqualPayment,
					TermMonths:     300,
				},
			},
		},
		Priorities: domain.CashFlowPriorities{
			Rules: []domain.CashFlowRule{
				{
					ID: "rule-pension", AccountType: "pension_savings", Priority: 1,
					Type: domain.AllocationFixed, MonthlyAmount: decimal.NewFromInt(500),
					Enabled: true,
				},
				{
					ID: "rule-irp", AccountType: "irp", Priority: 2,
					Type: domain.AllocationFixed, MonthlyAmount: decimal.NewFromInt(300),
					AnnualLimit: &irpLimit, Enabled: true,
				},
				{
					ID: "rule-checking", AccountType: "checking", Priority: 99,
					Type: domain.AllocationRemainder, Enabled: true,
				},
			},
		},
	}
}
