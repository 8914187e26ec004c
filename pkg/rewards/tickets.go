package rewards

import (
	"math"
	"strconv"
	"strings"

	"github.com/jwebster45206/calamity-forge/pkg/compileerr"
	"github.com/jwebster45206/calamity-forge/pkg/contract"
	"github.com/jwebster45206/calamity-forge/pkg/records"
)

const (
	// TargetMaxTickets is the ticket count the most common rune is scaled to.
	TargetMaxTickets = 24
	// MaxTickets caps any single rune's share of a weighted pool.
	MaxTickets = 24
	// MaxPoolEntries is the most entries a leveled list can hold.
	MaxPoolEntries = 255
)

// Allocation is one rune's share of a weighted pool.
type Allocation struct {
	Rune    string
	Weight  float64
	Tickets int
}

// Tickets scales a ladder's weights into duplicate-entry counts. Every rune
// gets at least one ticket; non-positive weights count as
// contract.DefaultRuneWeight. The result keeps ladder order.
func Tickets(ladder []contract.RuneWeight) ([]Allocation, error) {
	if len(ladder) == 0 {
		return nil, compileerr.Contract("runewordRuneWeights", "rune ladder is empty; cannot build a fragment pool.")
	}

	seen := make(map[string]struct{}, len(ladder))
	allocs := make([]Allocation, 0, len(ladder))
	maxWeight := 0.0
	for i, w := range ladder {
		key := records.FoldName(strings.TrimSpace(w.Rune))
		if key == "" {
			return nil, compileerr.Contract(indexField(i), "rune ladder entry #%d has an empty name.", i+1)
		}
		if _, dup := seen[key]; dup {
			return nil, compileerr.Uniqueness(indexField(i), "Duplicate rune in ladder (case-insensitive): %s", w.Rune)
		}
		seen[key] = struct{}{}

		weight := w.Weight
		if weight <= 0 || math.IsNaN(weight) || math.IsInf(weight, 0) {
			weight = contract.DefaultRuneWeight
		}
		maxWeight = math.Max(maxWeight, weight)
		allocs = append(allocs, Allocation{Rune: w.Rune, Weight: weight})
	}

	scale := math.Max(1, maxWeight/TargetMaxTickets)
	for i := range allocs {
		n := int(math.Round(allocs[i].Weight / scale))
		allocs[i].Tickets = min(max(n, 1), MaxTickets)
	}
	return allocs, nil
}

// TotalTickets sums the ticket counts.
func TotalTickets(allocs []Allocation) int {
	n := 0
	for _, a := range allocs {
		n += a.Tickets
	}
	return n
}

// ChanceNone converts a drop chance percentage into a leveled list's miss
// probability.
func ChanceNone(chancePercent float64) float64 {
	if math.IsNaN(chancePercent) {
		chancePercent = 0
	}
	c := min(max(chancePercent, 0), 100)
	return (100 - c) / 100
}

func indexField(i int) string {
	return "runewordRuneWeights[" + strconv.Itoa(i) + "]"
}
