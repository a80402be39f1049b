package domain

import (
	"fmt"
	"sort"

	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"
)

// AllocationType distinguishes capped fixed-amount rules from the single
// remainder rule that absorbs whatever surplus is left.
type AllocationType string

const (
	AllocationFixed     AllocationType = "fixed"
	AllocationRemainder AllocationType = "remainder"
)

// DefaultCashAccountType receives unallocated surplus when no rules are
// enabled.
const DefaultCashAccountType = "checking"

// CashFlowRule is one step of the surplus waterfall: route up to
// MonthlyAmount per month (and AnnualLimit per calendar year) into the
// account identified by AccountType. Lower Priority runs first. The
// remainder rule always sorts last regardless of its priority value.
type CashFlowRule struct {
	ID            string           `yaml:"id" json:"id"`
	AccountType   string           `yaml:"account_type" json:"account_type"`
	Priority      int              `yaml:"priority" json:"priority"`
	Type          AllocationType   `yaml:"type" json:"type"`
	MonthlyAmount decimal.Decimal  `yaml:"monthly_amount,omitempty" json:"monthly_amount,omitempty"`
	AnnualLimit   *decimal.Decimal `yaml:"annual_limit,omitempty" json:"annual_limit,omitempty"`
	Enabled       bool             `yaml:"enabled" json:"enabled"`
}

// UnmarshalYAML accepts the annual limit as a plain YAML scalar while keeping
// decimal precision (the scalar may arrive quoted or bare).
func (r *CashFlowRule) UnmarshalYAML(value *yaml.Node) error {
	type alias struct {
		ID            string          `yaml:"id"`
		AccountType   string          `yaml:"account_type"`
		Priority      int             `yaml:"priority"`
		Type          AllocationType  `yaml:"type"`
		MonthlyAmount decimal.Decimal `yaml:"monthly_amount"`
		AnnualLimit   *string         `yaml:"annual_limit"`
		Enabled       bool            `yaml:"enabled"`
	}

	var aux alias
	if err := value.Decode(&aux); err != nil {
		return err
	}

	r.ID = aux.ID
	r.AccountType = aux.AccountType
	r.Priority = aux.Priority
	r.Type = aux.Type
	r.MonthlyAmount = aux.MonthlyAmount
	r.Enabled = aux.Enabled

	if aux.AnnualLimit != nil {
		limit, err := decimal.NewFromString(*aux.AnnualLimit)
		if err != nil {
			return fmt.Errorf("rule %s: invalid annual_limit: %w", aux.ID, err)
		}
		r.AnnualLimit = &limit
	}
	return nil
}

// CashFlowPriorities is the ordered waterfall configuration supplied by the
// caller. It is immutable for the duration of a run.
type CashFlowPriorities struct {
	Rules []CashFlowRule `yaml:"rules" json:"rules"`
}

// EnabledFixed returns the enabled fixed rules in ascending priority order.
func (p *CashFlowPriorities) EnabledFixed() []CashFlowRule {
	out := make([]CashFlowRule, 0, len(p.Rules))
	for _, r := range p.Rules {
		if r.Enabled && r.Type == AllocationFixed {
			out = append(out, r)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Priority < out[j].Priority })
	return out
}

// Remainder returns the enabled remainder rule, if any.
func (p *CashFlowPriorities) Remainder() (CashFlowRule, bool) {
	for _, r := range p.Rules {
		if r.Enabled && r.Type == AllocationRemainder {
			return r, true
		}
	}
	return CashFlowRule{}, false
}

// Validate enforces the waterfall invariants: at most one enabled remainder
// rule, no priority collisions among enabled fixed rules, and well-formed
// amounts. Priority ties are a configuration error, never resolved
// arbitrarily downstream.
func (p *CashFlowPriorities) Validate() error {
	remainders := 0
	seen := make(map[int]string)
	ids := make(map[string]bool)
	for _, r := range p.Rules {
		if r.ID == "" {
			return fmt.Errorf("cash flow rule without id")
		}
		if ids[r.ID] {
			return fmt.Errorf("duplicate cash flow rule id %q", r.ID)
		}
		ids[r.ID] = true
		if r.AccountType == "" {
			return fmt.Errorf("rule %s: account_type is required", r.ID)
		}

		switch r.Type {
		case AllocationFixed:
			if !r.Enabled {
				continue
			}
			if r.MonthlyAmount.IsNegative() {
				return fmt.Errorf("rule %s: monthly_amount cannot be negative", r.ID)
			}
			if r.AnnualLimit != nil && r.AnnualLimit.IsNegative() {
				return fmt.Errorf("rule %s: annual_limit cannot be negative", r.ID)
			}
			if other, dup := seen[r.Priority]; dup {
				return fmt.Errorf("rules %s and %s share priority %d", other, r.ID, r.Priority)
			}
			seen[r.Priority] = r.ID
		case AllocationRemainder:
			if r.Enabled {
				remainders++
			}
		default:
			return fmt.Errorf("rule %s: unknown allocation type %q", r.ID, r.Type)
		}
	}
	if remainders > 1 {
		return fmt.Errorf("exactly one enabled remainder rule is allowed, got %d", remainders)
	}
	return nil
}
