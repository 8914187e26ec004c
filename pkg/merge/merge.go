// Package merge injects reward pools into externally owned leveled lists
// through override records.
package merge

import (
	"log/slog"

	"github.com/jwebster45206/calamity-forge/pkg/compileerr"
	"github.com/jwebster45206/calamity-forge/pkg/records"
	"github.com/jwebster45206/calamity-forge/pkg/rewards"
)

// Resolver looks up leveled lists owned by loaded master containers.
// Implementations must be safe for concurrent reads.
type Resolver interface {
	ResolveLeveledItem(fk records.FormKey) (records.LeveledItem, bool)
}

// ResolverFunc adapts a function to Resolver.
type ResolverFunc func(fk records.FormKey) (records.LeveledItem, bool)

func (f ResolverFunc) ResolveLeveledItem(fk records.FormKey) (records.LeveledItem, bool) {
	return f(fk)
}

// Engine merges reward pools into target lists.
type Engine struct {
	resolver Resolver
	logger   *slog.Logger
}

// New creates an Engine. resolver may be nil when no masters are loaded;
// merging pools then fails.
func New(resolver Resolver, logger *slog.Logger) *Engine {
	if logger == nil {
		logger = slog.Default()
	}
	return &Engine{resolver: resolver, logger: logger}
}

// Merge returns a copy of in where every target list has an override holding
// one entry per pool reference. Targets may repeat; each reference is added
// at most once per override. With no pools the graph is returned unchanged.
func (e *Engine) Merge(in *records.Graph, pools rewards.Pools, targets []records.FormKey) (*records.Graph, error) {
	g := in.Clone()
	refs := pools.Refs()
	if len(refs) == 0 {
		return g, nil
	}
	if e.resolver == nil {
		return nil, compileerr.Referential("masters",
			"currencyDropMode=leveledList/hybrid requires a leveled-list resolver loaded from masters. Provide --masters <GameDataPath> when running the compiler.")
	}

	added := 0
	for _, target := range targets {
		idx, err := e.getOrAddOverride(g, target)
		if err != nil {
			return nil, err
		}
		for _, ref := range refs {
			if g.LeveledItems[idx].AddEntryIfMissing(ref) {
				added++
			}
		}
	}

	e.logger.Debug("merged currency pools", "targets", len(targets), "entries_added", added)
	return g, nil
}

func (e *Engine) getOrAddOverride(g *records.Graph, target records.FormKey) (int, error) {
	if idx, ok := g.FindLeveledItem(target); ok {
		return idx, nil
	}
	base, ok := e.resolver.ResolveLeveledItem(target)
	if !ok {
		return -1, compileerr.Referential(target.String(),
			"Failed to resolve target leveled list from masters: %s. Ensure --masters points to game Data containing required plugins.", target)
	}
	// Keep the identity that was asked for even if the resolver returns a
	// differently cased container name.
	base.FormKey = target
	return g.AddOverride(base), nil
}
