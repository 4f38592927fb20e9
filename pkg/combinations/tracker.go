package combinations

import (
	"github.com/robaho/go-combinations/pkg/common"
	"github.com/shopspring/decimal"
)

type ordering[T any] interface {
	equal(a T, b T) bool
	less(a T, b T) bool
}

type strikeOrdering struct{}

func (strikeOrdering) equal(a decimal.Decimal, b decimal.Decimal) bool {
	return common.EqualStrike(a, b)
}
func (strikeOrdering) less(a decimal.Decimal, b decimal.Decimal) bool {
	return a.LessThan(b)
}

type dateOrdering struct{}

func (dateOrdering) equal(a common.Date, b common.Date) bool {
	return a.Equal(b)
}
func (dateOrdering) less(a common.Date, b common.Date) bool {
	return a.Before(b)
}

type last[T any] struct {
	value  T
	offset int
}

// tracker resolves Var and Offset constraints of one attribute across the legs of a single
// match attempt. It must not be reused between attempts.
type tracker[T any] struct {
	ord  ordering[T]
	vars map[rune]T
	last last[T]
}

func newTracker[T any](ord ordering[T], first T) *tracker[T] {
	return &tracker[T]{ord: ord, vars: make(map[rune]T), last: last[T]{value: first}}
}

func (t *tracker[T]) check(c Constraint, value T) bool {
	switch c := c.(type) {
	case Var:
		if bound, ok := t.vars[c.Tag]; ok {
			if !t.ord.equal(bound, value) {
				return false
			}
		} else {
			t.vars[c.Tag] = value
		}
		t.last.offset = 0
	case Offset:
		delta := c.Steps - t.last.offset
		switch {
		case delta == 0 && t.ord.equal(t.last.value, value):
		case delta > 0 && t.ord.less(t.last.value, value):
		case delta < 0 && t.ord.less(value, t.last.value):
		default:
			return false
		}
		t.last.offset += delta
	case nil, NoConstraint, DurationOffset:
		t.last.offset = 0
	}
	t.last.value = value
	return true
}
