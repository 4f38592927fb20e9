package combinations

import (
	"testing"

	"github.com/robaho/go-combinations/pkg/common"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func dates(t *testing.T, values ...string) []common.Date {
	var result []common.Date
	for _, s := range values {
		d, err := common.ParseDate(s)
		if err != nil {
			t.Fatal(err)
		}
		result = append(result, d)
	}
	return result
}

func runTracker[T any](ord ordering[T], constraints []Constraint, values []T) bool {
	tr := newTracker(ord, values[0])
	for i, v := range values {
		if !tr.check(constraints[i], v) {
			return false
		}
	}
	return true
}

func TestTrackerVar(t *testing.T) {
	tags := []Constraint{Var{'a'}, Var{'a'}}
	strikes := func(s1, s2 string) []decimal.Decimal {
		return []decimal.Decimal{common.NewDecimal(s1), common.NewDecimal(s2)}
	}

	assert.True(t, runTracker[decimal.Decimal](strikeOrdering{}, tags, strikes("100.0", "100.000001")))
	assert.False(t, runTracker[decimal.Decimal](strikeOrdering{}, tags, strikes("100.0", "100.1")))
	assert.True(t, runTracker[decimal.Decimal](strikeOrdering{}, []Constraint{Var{'a'}, Var{'b'}}, strikes("100", "110")))
	assert.True(t, runTracker[decimal.Decimal](strikeOrdering{}, []Constraint{Var{'a'}, Var{'A'}}, strikes("100", "110")))
}

func TestTrackerOffsetChain(t *testing.T) {
	chain := []Constraint{Offset{0}, Offset{1}, Offset{2}}

	assert.True(t, runTracker[common.Date](dateOrdering{}, chain, dates(t, "2024-01-01", "2024-02-01", "2024-03-01")))
	assert.False(t, runTracker[common.Date](dateOrdering{}, chain, dates(t, "2024-01-01", "2024-02-01", "2024-01-15")))

	// the same offset twice means the same value
	same := []Constraint{Offset{0}, Offset{1}, Offset{1}}
	assert.False(t, runTracker[common.Date](dateOrdering{}, same, dates(t, "2024-01-01", "2024-02-01", "2024-03-01")))
	assert.True(t, runTracker[common.Date](dateOrdering{}, same, dates(t, "2024-01-01", "2024-02-01", "2024-02-01")))

	down := []Constraint{NoConstraint{}, Offset{-1}, Offset{-2}}
	assert.True(t, runTracker[common.Date](dateOrdering{}, down, dates(t, "2024-03-01", "2024-02-01", "2024-01-01")))
	assert.False(t, runTracker[common.Date](dateOrdering{}, down, dates(t, "2024-03-01", "2024-03-01", "2024-01-01")))
}

func TestTrackerResetsChain(t *testing.T) {
	// a non offset leg restarts counting from its own value
	constraints := []Constraint{Offset{0}, Offset{1}, Var{'x'}, Offset{1}}
	values := []decimal.Decimal{
		common.NewDecimal("100"),
		common.NewDecimal("105"),
		common.NewDecimal("90"),
		common.NewDecimal("95"),
	}
	assert.True(t, runTracker[decimal.Decimal](strikeOrdering{}, constraints, values))

	values[3] = common.NewDecimal("85")
	assert.False(t, runTracker[decimal.Decimal](strikeOrdering{}, constraints, values))
}

func TestTrackerOffsetTolerance(t *testing.T) {
	constraints := []Constraint{NoConstraint{}, Offset{0}}
	values := []decimal.Decimal{common.NewDecimal("100"), common.NewDecimal("100.000004")}
	assert.True(t, runTracker[decimal.Decimal](strikeOrdering{}, constraints, values))
}
