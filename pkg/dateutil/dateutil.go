package dateutil

import (
	"fmt"
	"time"
)

// YearMonth identifies one simulated period (a calendar month).
type YearMonth struct {
	Year  int `yaml:"year" json:"year"`
	Month int `yaml:"month" json:"month"` // 1..12
}

// New builds a YearMonth and normalizes month overflow/underflow, so
// New(2025, 13) == New(2026, 1).
func New(year, month int) YearMonth {
	return FromIndex(year*12 + (month - 1))
}

// Now returns the current calendar month in UTC.
func Now() YearMonth {
	t := time.Now().UTC()
	return YearMonth{Year: t.Year(), Month: int(t.Month())}
}

// Parse reads the "YYYY-MM" form used in plan files.
func Parse(s string) (YearMonth, error) {
	var year, month int
	if _, err := fmt.Sscanf(s, "%d-%d", &year, &month); err != nil {
		return YearMonth{}, fmt.Errorf("invalid year-month %q: %w", s, err)
	}
	if month < 1 || month > 12 {
		return YearMonth{}, fmt.Errorf("invalid year-month %q: month must be 1..12", s)
	}
	return YearMonth{Year: year, Month: month}, nil
}

// Index flattens the pair into a single month index (year*12 + month-1).
// All interval and duration arithmetic happens in this space.
func (ym YearMonth) Index() int {
	return ym.Year*12 + (ym.Month - 1)
}

// FromIndex converts a month index back to a YearMonth.
func FromIndex(idx int) YearMonth {
	year := idx / 12
	rem := idx % 12
	if rem < 0 {
		year--
		rem += 12
	}
	return YearMonth{Year: year, Month: rem + 1}
}

// Add advances by n months (n may be negative).
func (ym YearMonth) Add(n int) YearMonth {
	return FromIndex(ym.Index() + n)
}

// Before reports whether ym precedes other.
func (ym YearMonth) Before(other YearMonth) bool {
	return ym.Index() < other.Index()
}

// After reports whether ym follows other.
func (ym YearMonth) After(other YearMonth) bool {
	return ym.Index() > other.Index()
}

// MonthsUntil returns the number of months from ym to other (negative when
// other precedes ym).
func (ym YearMonth) MonthsUntil(other YearMonth) int {
	return other.Index() - ym.Index()
}

// IsZero reports whether ym is the zero value.
func (ym YearMonth) IsZero() bool {
	return ym.Year == 0 && ym.Month == 0
}

// String renders the canonical "YYYY-MM" form.
func (ym YearMonth) String() string {
	return fmt.Sprintf("%04d-%02d", ym.Year, ym.Month)
}

// MarshalYAML renders the compact string form in plan files.
func (ym YearMonth) MarshalYAML() (interface{}, error) {
	return ym.String(), nil
}

// UnmarshalYAML accepts the "YYYY-MM" string form.
func (ym *YearMonth) UnmarshalYAML(unmarshal func(interface{}) error) error {
	var s string
	if err := unmarshal(&s); err != nil {
		return err
	}
	parsed, err := Parse(s)
	if err != nil {
		return err
	}
	*ym = parsed
	return nil
}

// AgeAt calculates a person's age in a given period from their birth year.
// Birthdays are assumed at the start of the year, matching how plan files
// carry birth years rather than full dates.
func AgeAt(birthYear int, ym YearMonth) int {
	return ym.Year - birthYear
}
