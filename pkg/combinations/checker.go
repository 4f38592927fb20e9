package combinations

import (
	"github.com/robaho/go-combinations/pkg/common"
	"github.com/shopspring/decimal"
)

// checker runs one combination against one set of components
type checker struct {
	combination *Combination
	components  []common.Component
}

// check returns the witnessing order, see Combinations.Classify for its meaning
func (c *checker) check() ([]int, bool) {
	switch c.combination.Cardinality {
	case Fixed:
		order := make([]int, len(c.components))
		for i := range order {
			order[i] = i + 1
		}
		if !c.checkFixed(order) {
			return nil, false
		}
		return order, true
	case Multiple:
		return c.checkMultiple()
	case More:
		return c.checkMore()
	}
	return nil, false
}

// checkFixed permutes order, which holds ascending 1-based component indexes, until
// order[i] is a component satisfying leg i. The search is brute force, leg counts are small.
func (c *checker) checkFixed(order []int) bool {
	if len(order) != c.combination.MinCount {
		return false
	}
	for {
		if c.matches(order) {
			return true
		}
		if !nextPermutation(order) {
			return false
		}
	}
}

func (c *checker) matches(order []int) bool {
	first := c.components[order[0]-1]
	strikes := newTracker[decimal.Decimal](strikeOrdering{}, first.Strike)
	expirations := newTracker[common.Date](dateOrdering{}, first.Expiration)
	// durations are anchored on the literal date of the last non duration leg
	var anchor common.Date

	for i, index := range order {
		comp := c.components[index-1]
		leg := &c.combination.Legs[i]

		duration, isDuration := leg.Expiration.(DurationOffset)
		if isDuration && anchor.IsZero() {
			return false
		}
		if !isDuration {
			anchor = comp.Expiration
		}
		if !leg.Match(comp) {
			return false
		}
		if !expirations.check(leg.Expiration, comp.Expiration) {
			return false
		}
		if common.IsOption(leg.Type) && !strikes.check(leg.Strike, comp.Strike) {
			return false
		}
		if isDuration && !common.MatchesDurationOffset(anchor, comp.Expiration, duration.Amount, duration.Unit) {
			return false
		}
	}
	return true
}

// checkMultiple groups equal components, matches one representative per group as a fixed
// combination, and numbers the j-th member of class i as perm[i] + j*groups, perm being the
// fixed order over the representatives
func (c *checker) checkMultiple() ([]int, bool) {
	n := len(c.components)
	if n == 0 || n%c.combination.MinCount != 0 {
		return nil, false
	}

	var representatives []int // 1-based
	var groups [][]int        // 0-based members, in occurrence order
	for i, comp := range c.components {
		found := false
		for j, r := range representatives {
			if comp.Equal(c.components[r-1]) {
				groups[j] = append(groups[j], i)
				found = true
				break
			}
		}
		if !found {
			representatives = append(representatives, i+1)
			groups = append(groups, []int{i})
		}
	}

	// every group must repeat the same number of times
	for _, group := range groups {
		if len(group) != len(groups[0]) {
			return nil, false
		}
	}

	groupOf := make(map[int]int, len(representatives))
	for j, r := range representatives {
		groupOf[r] = j
	}

	legs := append([]int(nil), representatives...)
	if !c.checkFixed(legs) {
		return nil, false
	}

	// class i, in first occurrence order, takes the rank of the class filling leg i
	order := make([]int, n)
	for i, r := range legs {
		for j, member := range groups[i] {
			order[member] = groupOf[r] + 1 + j*len(legs)
		}
	}
	return order, true
}

func (c *checker) checkMore() ([]int, bool) {
	if len(c.components) < c.combination.MinCount {
		return nil, false
	}
	leg := &c.combination.Legs[0]
	for _, comp := range c.components {
		if !leg.Match(comp) {
			return nil, false
		}
	}
	order := make([]int, len(c.components))
	for i := range order {
		order[i] = i + 1
	}
	return order, true
}

// nextPermutation rearranges a into the next lexicographically greater permutation, returning
// false and leaving a sorted ascending once the last permutation has been passed
func nextPermutation(a []int) bool {
	i := len(a) - 2
	for i >= 0 && a[i] >= a[i+1] {
		i--
	}
	if i < 0 {
		reverse(a)
		return false
	}
	j := len(a) - 1
	for a[j] <= a[i] {
		j--
	}
	a[i], a[j] = a[j], a[i]
	reverse(a[i+1:])
	return true
}

func reverse(a []int) {
	for i, j := 0, len(a)-1; i < j; i, j = i+1, j-1 {
		a[i], a[j] = a[j], a[i]
	}
}
