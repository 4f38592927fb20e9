// Package combinations classifies sets of option, future and underlying legs against a library
// of named multi-leg strategy patterns.
//
// A Combinations value is immutable once built and may be shared by concurrent callers of
// Classify, every call keeps its own matching state.
package combinations

import (
	"github.com/pkg/errors"
	"github.com/robaho/go-combinations/pkg/common"
)

// Unclassified is the name returned when no combination matches
const Unclassified = "Unclassified"

type Combinations struct {
	combinations []Combination
	byName       map[string]int
}

// New builds a library from definitions in precedence order. The definitions are copied.
func New(definitions []Combination) (*Combinations, error) {
	c := &Combinations{
		combinations: make([]Combination, 0, len(definitions)),
		byName:       make(map[string]int, len(definitions)),
	}
	for i := range definitions {
		def := definitions[i]
		if err := def.validate(); err != nil {
			return nil, err
		}
		def.Legs = append([]Leg(nil), def.Legs...)
		if _, ok := c.byName[def.Name]; !ok {
			c.byName[def.Name] = len(c.combinations)
		}
		c.combinations = append(c.combinations, def)
	}
	return c, nil
}

// MustNew is like New but panics on an invalid definition
func MustNew(definitions []Combination) *Combinations {
	c, err := New(definitions)
	if err != nil {
		panic(errors.Wrap(err, "combinations"))
	}
	return c
}

// Classify returns the name of the first combination, in definition order, matched by
// components along with the witnessing order. For fixed combinations order[i] is the 1-based
// index of the component that fills leg i. For multiple combinations the components are grouped
// into classes of equal components, numbered by first occurrence; with perm the fixed order over
// the classes, the j-th member of class i gets perm[i] + j*classes. A single copy therefore
// gives the same order as a fixed combination. For more combinations the order is the identity.
// Unclassified is returned with an empty order.
func (c *Combinations) Classify(components []common.Component) (string, []int) {
	for i := range c.combinations {
		ch := checker{combination: &c.combinations[i], components: components}
		if order, ok := ch.check(); ok {
			return c.combinations[i].Name, order
		}
	}
	return Unclassified, []int{}
}

func (c *Combinations) Len() int {
	return len(c.combinations)
}

// Names lists the combination names in precedence order
func (c *Combinations) Names() []string {
	names := make([]string, len(c.combinations))
	for i := range c.combinations {
		names[i] = c.combinations[i].Name
	}
	return names
}

// Lookup returns a copy of the first combination with the given name
func (c *Combinations) Lookup(name string) (Combination, bool) {
	i, ok := c.byName[name]
	if !ok {
		return Combination{}, false
	}
	def := c.combinations[i]
	def.Legs = append([]Leg(nil), def.Legs...)
	return def, true
}
