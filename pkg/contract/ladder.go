package contract

import (
	"sort"

	"golang.org/x/text/cases"
)

// DefaultRuneWeight is given to catalog runes missing from the weight table.
const DefaultRuneWeight = 25.0

// RuneLadder returns every known rune ordered from most common to rarest.
// Catalog runes without a weight are added at DefaultRuneWeight. Names are
// unique case-insensitively; the first spelling wins.
func (c *Contract) RuneLadder() []RuneWeight {
	fold := cases.Fold()
	seen := map[string]struct{}{}
	ladder := make([]RuneWeight, 0, len(c.weights))

	add := func(w RuneWeight) {
		key := fold.String(w.Rune)
		if _, dup := seen[key]; dup {
			return
		}
		seen[key] = struct{}{}
		ladder = append(ladder, w)
	}

	for _, w := range c.weights {
		add(w)
	}
	for _, r := range c.catalog {
		for _, rn := range r.Runes {
			add(RuneWeight{Rune: rn, Weight: DefaultRuneWeight})
		}
	}

	sort.SliceStable(ladder, func(i, j int) bool {
		return ladder[i].Weight > ladder[j].Weight
	})
	return ladder
}
