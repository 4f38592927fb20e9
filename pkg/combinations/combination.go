package combinations

import (
	"github.com/pkg/errors"
	"github.com/robaho/fixed"
	"github.com/robaho/go-combinations/pkg/common"
)

type Cardinality int

const (
	// Fixed patterns match exactly len(Legs) components in some order
	Fixed Cardinality = iota
	// Multiple patterns match N identical copies of a fixed shape
	Multiple
	// More patterns match MinCount or more components against a single leg
	More
)

func (c Cardinality) String() string {
	switch c {
	case Fixed:
		return "fixed"
	case Multiple:
		return "multiple"
	case More:
		return "more"
	}
	return "unknown"
}

var UnknownCardinality = errors.New("unknown cardinality")

func ParseCardinality(s string) (Cardinality, error) {
	switch s {
	case "fixed":
		return Fixed, nil
	case "multiple":
		return Multiple, nil
	case "more":
		return More, nil
	}
	return 0, errors.Wrapf(UnknownCardinality, "%q", s)
}

// Ratio is the ratio requirement of a pattern leg, either ExactRatio or SignRatio
type Ratio interface {
	isRatio()
}

// ExactRatio requires the component ratio, sign included, to be within Accuracy of Value
type ExactRatio struct {
	Value fixed.Fixed
}

// SignRatio requires a non zero ratio, positive when Long
type SignRatio struct {
	Long bool
}

func (ExactRatio) isRatio() {}
func (SignRatio) isRatio()  {}

// Constraint is a strike or expiration requirement shared across the legs of a pattern.
// One of NoConstraint, Var, Offset or DurationOffset (expiration only).
type Constraint interface {
	isConstraint()
}

type NoConstraint struct{}

// Var binds Tag to the first value seen, later legs with the same tag must be equal to it
type Var struct {
	Tag rune
}

// Offset places the value Steps positions away from the start of the offset chain
type Offset struct {
	Steps int
}

// DurationOffset requires the expiration to be exactly Amount units after the last leg
// that did not have a DurationOffset
type DurationOffset struct {
	Amount int
	Unit   common.Unit
}

func (NoConstraint) isConstraint()   {}
func (Var) isConstraint()            {}
func (Offset) isConstraint()         {}
func (DurationOffset) isConstraint() {}

// Leg is one leg of a pattern
type Leg struct {
	Type       common.InstrumentType
	Ratio      Ratio
	Strike     Constraint
	Expiration Constraint
}

// Match checks type and ratio only, strike and expiration depend on the other legs
func (leg *Leg) Match(c common.Component) bool {
	if leg.Type != c.Type && !(leg.Type == common.Option && common.IsOption(c.Type)) {
		return false
	}
	switch r := leg.Ratio.(type) {
	case ExactRatio:
		return common.EqualRatio(r.Value, c.Ratio)
	case SignRatio:
		return !common.IsZeroRatio(c.Ratio) && r.Long == c.IsLong()
	}
	return false
}

// Combination is a named strategy pattern
type Combination struct {
	Name        string
	Cardinality Cardinality
	MinCount    int
	Legs        []Leg
}

var InvalidCombination = errors.New("invalid combination")

func (c *Combination) validate() error {
	if len(c.Legs) == 0 {
		return errors.Wrapf(InvalidCombination, "%s: no legs", c.Name)
	}
	switch c.Cardinality {
	case Fixed, Multiple:
		if c.MinCount != len(c.Legs) {
			return errors.Wrapf(InvalidCombination, "%s: mincount %d with %d legs", c.Name, c.MinCount, len(c.Legs))
		}
	case More:
		if len(c.Legs) != 1 {
			return errors.Wrapf(InvalidCombination, "%s: more needs a single leg, has %d", c.Name, len(c.Legs))
		}
		if c.MinCount < 1 {
			return errors.Wrapf(InvalidCombination, "%s: mincount %d", c.Name, c.MinCount)
		}
	default:
		return errors.Wrapf(UnknownCardinality, "%s: %d", c.Name, int(c.Cardinality))
	}
	for i, leg := range c.Legs {
		if leg.Ratio == nil {
			return errors.Wrapf(InvalidCombination, "%s: leg %d has no ratio", c.Name, i+1)
		}
		if _, ok := leg.Strike.(DurationOffset); ok {
			return errors.Wrapf(InvalidCombination, "%s: leg %d has a duration strike", c.Name, i+1)
		}
	}
	return nil
}
