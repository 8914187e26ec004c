package merge

import (
	"fmt"
	"slices"
	"strings"

	"github.com/jwebster45206/calamity-forge/pkg/records"
)

// DeathItemPrefix marks leveled lists the engine rolls when an actor dies.
const DeathItemPrefix = "DeathItem"

func skyrim(id uint32) records.FormKey {
	return records.FormKey{Mod: "Skyrim.esm", ID: id}
}

// DefaultTargets are the curated base game death item lists currency pools
// are merged into when no targets are configured.
var DefaultTargets = []records.FormKey{
	skyrim(0x068525), skyrim(0x0F961D), skyrim(0x1046E2), skyrim(0x10E0E0),
	skyrim(0x1046E3), skyrim(0x087138), skyrim(0x10B2C0), skyrim(0x1031D0),
	skyrim(0x0C3C9B), skyrim(0x0C3C9E), skyrim(0x03AD7F), skyrim(0x10FACC),
	skyrim(0x03AD84), skyrim(0x03ADA0), skyrim(0x03AD7E), skyrim(0x03ADA5),
}

// OfficialMasters are skipped by DeathItem discovery; the curated defaults
// already cover them.
var OfficialMasters = []string{
	"Skyrim.esm",
	"Update.esm",
	"Dawnguard.esm",
	"HearthFires.esm",
	"Dragonborn.esm",
}

// ParseTargets parses "Container.esm|00ABCDEF" strings. Blank entries are
// skipped; a malformed entry is a schema error naming field[i].
func ParseTargets(raw []string, field string) ([]records.FormKey, error) {
	out := make([]records.FormKey, 0, len(raw))
	for i, s := range raw {
		s = strings.TrimSpace(s)
		if s == "" {
			continue
		}
		fk, err := records.ParseFormKey(s, fmt.Sprintf("%s[%d]", field, i))
		if err != nil {
			return nil, err
		}
		out = append(out, fk)
	}
	return out, nil
}

// Plan orders the lists to merge into. Explicit targets replace
// DefaultTargets when non-empty. Discovered targets follow; a target listed
// in both keeps its first position. Each group is sorted by container name,
// then id.
func Plan(explicit, discovered []records.FormKey) []records.FormKey {
	configured := explicit
	if len(configured) == 0 {
		configured = DefaultTargets
	}

	seen := map[string]struct{}{}
	take := func(in []records.FormKey) []records.FormKey {
		var group []records.FormKey
		for _, fk := range in {
			key := records.FoldName(fk.Mod) + "|" + fmt.Sprint(fk.ID)
			if _, dup := seen[key]; dup {
				continue
			}
			seen[key] = struct{}{}
			group = append(group, fk)
		}
		slices.SortStableFunc(group, compare)
		return group
	}

	plan := take(configured)
	return append(plan, take(discovered)...)
}

func compare(a, b records.FormKey) int {
	switch {
	case a.Less(b):
		return -1
	case b.Less(a):
		return 1
	default:
		return 0
	}
}

// DiscoverDeathItems returns the lists whose editor id starts with
// DeathItemPrefix, ignoring case, excluding official masters and the
// output container itself. The result is sorted.
func DiscoverDeathItems(lists []records.LeveledItem, outputMod string) []records.FormKey {
	skip := map[string]struct{}{records.FoldName(outputMod): {}}
	for _, m := range OfficialMasters {
		skip[records.FoldName(m)] = struct{}{}
	}

	prefix := records.FoldName(DeathItemPrefix)
	var found []records.FormKey
	for _, l := range lists {
		if _, skipped := skip[records.FoldName(l.FormKey.Mod)]; skipped {
			continue
		}
		if !strings.HasPrefix(records.FoldName(l.EditorID), prefix) {
			continue
		}
		found = append(found, l.FormKey)
	}
	slices.SortStableFunc(found, compare)
	return slices.CompactFunc(found, records.FormKey.Same)
}
