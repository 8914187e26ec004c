// Package rewards creates the rune fragment and reforge orb currency items and
// the leveled lists they drop from.
package rewards

import (
	"fmt"
	"log/slog"

	"github.com/jwebster45206/calamity-forge/pkg/affixspec"
	"github.com/jwebster45206/calamity-forge/pkg/compileerr"
	"github.com/jwebster45206/calamity-forge/pkg/contract"
	"github.com/jwebster45206/calamity-forge/pkg/records"
	"github.com/jwebster45206/calamity-forge/pkg/textfilter"
)

const (
	RuneFragmentPrefix = "CAFF_RuneFrag_"
	ReforgeOrbEditorID = "CAFF_Misc_ReforgeOrb"

	RuneFragmentPoolEditorID = "CAFF_LItem_RunewordFragmentDrops"
	ReforgeOrbPoolEditorID   = "CAFF_LItem_ReforgeOrbDrops"

	currencyModel = `Meshes\Clutter\SoulGem\SoulGemPiece01.nif`
)

// Strategy is how a pool expresses relative rarity.
type Strategy string

const (
	// StrategyFlat gives every item one entry; only chance none applies.
	StrategyFlat Strategy = "flat"
	// StrategyWeighted duplicates entries in proportion to rune weight.
	StrategyWeighted Strategy = "weighted"
)

// Pool describes one reward list the allocator created.
type Pool struct {
	FormKey    records.FormKey
	EditorID   string
	Strategy   Strategy
	ChanceNone float64
	Entries    int
}

// Pools are the reward lists merged into target leveled lists. It is empty
// when the spec has no loot policy.
type Pools struct {
	RuneFragments *Pool
	ReforgeOrb    *Pool
}

// Refs returns the pool references to inject, fragment pool first.
func (p Pools) Refs() []records.FormKey {
	var refs []records.FormKey
	for _, pool := range []*Pool{p.RuneFragments, p.ReforgeOrb} {
		if pool != nil {
			refs = append(refs, pool.FormKey)
		}
	}
	return refs
}

// Empty reports whether no pools were created.
func (p Pools) Empty() bool {
	return p.RuneFragments == nil && p.ReforgeOrb == nil
}

type Allocator struct {
	names  *textfilter.NameFilter
	logger *slog.Logger
}

func New(logger *slog.Logger) *Allocator {
	if logger == nil {
		logger = slog.Default()
	}
	return &Allocator{names: textfilter.NewNameFilter(), logger: logger}
}

// Allocate returns a copy of in with one fragment item per ladder rune and the
// reforge orb added. When loot is set it also adds the two drop pools: the
// fragment pool uses weighted tickets, the orb pool is flat.
func (a *Allocator) Allocate(in *records.Graph, loot *affixspec.LootPolicy, ladder []contract.RuneWeight) (*records.Graph, Pools, error) {
	allocs, err := Tickets(ladder)
	if err != nil {
		return nil, Pools{}, err
	}

	g := in.Clone()
	fragments := make([]records.FormKey, len(allocs))
	for i, al := range allocs {
		editorID := RuneFragmentPrefix + al.Rune
		if _, exists := g.FindMiscItem(editorID); exists {
			return nil, Pools{}, compileerr.Uniqueness(editorID, "Duplicate misc item editorId: %s", editorID)
		}
		idx := g.AddMiscItem(records.MiscItem{
			EditorID: editorID,
			Name:     a.names.PluginSafeName(fmt.Sprintf("Rune Fragment: %s", al.Rune), editorID),
			Model:    currencyModel,
		})
		fragments[i] = g.MiscItems[idx].FormKey
	}
	orbIdx := g.AddMiscItem(records.MiscItem{
		EditorID: ReforgeOrbEditorID,
		Name:     "Reforge Orb",
		Model:    currencyModel,
	})
	orb := g.MiscItems[orbIdx].FormKey

	if loot == nil {
		a.logger.Debug("no loot policy; skipping currency pools", "fragments", len(fragments))
		return g, Pools{}, nil
	}

	fragPool, err := weightedPool(g, RuneFragmentPoolEditorID, ChanceNone(loot.RunewordFragmentChancePercent), allocs, fragments)
	if err != nil {
		return nil, Pools{}, err
	}
	orbPool := flatPool(g, ReforgeOrbPoolEditorID, ChanceNone(loot.ReforgeOrbChancePercent), []records.FormKey{orb})

	a.logger.Debug("allocated currency pools",
		"fragment_entries", fragPool.Entries,
		"fragment_chance_none", fragPool.ChanceNone,
		"orb_chance_none", orbPool.ChanceNone)
	return g, Pools{RuneFragments: fragPool, ReforgeOrb: orbPool}, nil
}

func weightedPool(g *records.Graph, editorID string, chanceNone float64, allocs []Allocation, items []records.FormKey) (*Pool, error) {
	if total := TotalTickets(allocs); total > MaxPoolEntries {
		return nil, compileerr.Policy(editorID,
			"%s would hold %d entries; a leveled list holds at most %d.", editorID, total, MaxPoolEntries)
	}

	list := records.LeveledItem{EditorID: editorID, ChanceNone: chanceNone}
	for i, al := range allocs {
		for n := 0; n < al.Tickets; n++ {
			list.Entries = append(list.Entries, records.LeveledEntry{Level: 1, Count: 1, Reference: items[i]})
		}
	}
	idx := g.AddLeveledItem(list)
	return &Pool{
		FormKey:    g.LeveledItems[idx].FormKey,
		EditorID:   editorID,
		Strategy:   StrategyWeighted,
		ChanceNone: chanceNone,
		Entries:    len(list.Entries),
	}, nil
}

func flatPool(g *records.Graph, editorID string, chanceNone float64, items []records.FormKey) *Pool {
	list := records.LeveledItem{EditorID: editorID, ChanceNone: chanceNone}
	for _, it := range items {
		list.AddEntryIfMissing(it)
	}
	idx := g.AddLeveledItem(list)
	return &Pool{
		FormKey:    g.LeveledItems[idx].FormKey,
		EditorID:   editorID,
		Strategy:   StrategyFlat,
		ChanceNone: chanceNone,
		Entries:    len(list.Entries),
	}
}
