package common

import (
	"github.com/pkg/errors"
	"github.com/robaho/fixed"
	"github.com/shopspring/decimal"
)

func NewDecimal(s string) decimal.Decimal {
	d, _ := decimal.NewFromString(s)
	return d
}

// ParseRatio parses a leg ratio, NaN is not a ratio
func ParseRatio(s string) (fixed.Fixed, error) {
	f, err := fixed.NewSErr(s)
	if err != nil {
		return f, err
	}
	if f.IsNaN() {
		return f, errors.Errorf("invalid ratio %q", s)
	}
	return f, nil
}

func ToDecimal(f fixed.Fixed) decimal.Decimal {
	return NewDecimal(f.String())
}
