package validate

import (
	"strings"

	"github.com/tidwall/gjson"

	"github.com/jwebster45206/calamity-forge/pkg/affixspec"
	"github.com/jwebster45206/calamity-forge/pkg/compileerr"
)

// removedLootFields configured explicit leveled-list targeting before the
// hybrid policy. They are rejected even when null.
var removedLootFields = []string{
	"currencyLeveledListTargets",
	"currencyLeveledListAutoDiscoverDeathItems",
}

func validateLoot(raw []byte, loot *affixspec.LootPolicy) error {
	node := gjson.GetBytes(raw, "loot")
	if loot == nil || !node.IsObject() {
		return nil
	}

	for _, field := range removedLootFields {
		if node.Get(field).Exists() {
			return compileerr.Policy("loot."+field,
				"loot.%s has been removed. currencyDropMode %q is the only supported policy; "+
					"merge targets come from the curated defaults, DeathItem auto-discovery and the compiler's targets configuration.",
				field, affixspec.CurrencyDropModeHybrid)
		}
	}

	if !strings.EqualFold(strings.TrimSpace(loot.CurrencyDropMode), affixspec.CurrencyDropModeHybrid) {
		return compileerr.Policy("loot.currencyDropMode",
			"loot.currencyDropMode must be %q (got: %s).", affixspec.CurrencyDropModeHybrid, loot.CurrencyDropMode)
	}

	for _, p := range []struct {
		name  string
		value float64
	}{
		{"chancePercent", loot.ChancePercent},
		{"runewordFragmentChancePercent", loot.RunewordFragmentChancePercent},
		{"reforgeOrbChancePercent", loot.ReforgeOrbChancePercent},
	} {
		if p.value < 0 || p.value > 100 {
			return compileerr.Contract("loot."+p.name, "loot.%s must be in range 0..100 (got: %v).", p.name, p.value)
		}
	}

	for _, m := range []struct {
		name  string
		value float64
	}{
		{"lootSourceChanceMultCorpse", loot.LootSourceChanceMultCorpse},
		{"lootSourceChanceMultContainer", loot.LootSourceChanceMultContainer},
		{"lootSourceChanceMultBossContainer", loot.LootSourceChanceMultBossContainer},
		{"lootSourceChanceMultWorld", loot.LootSourceChanceMultWorld},
	} {
		if m.value < 0 {
			return compileerr.Contract("loot."+m.name, "loot.%s must be >= 0 (got: %v).", m.name, m.value)
		}
	}

	for _, n := range []struct {
		name  string
		value int
	}{
		{"trapGlobalMaxActive", loot.TrapGlobalMaxActive},
		{"trapCastBudgetPerTick", loot.TrapCastBudgetPerTick},
		{"triggerProcBudgetPerWindow", loot.TriggerProcBudgetPerWindow},
		{"triggerProcBudgetWindowMs", loot.TriggerProcBudgetWindowMs},
		{"dotTagSafetyUniqueEffectThreshold", loot.DotTagSafetyUniqueEffectThreshold},
	} {
		if n.value < 0 {
			return compileerr.Contract("loot."+n.name, "loot.%s must be >= 0 (got: %d).", n.name, n.value)
		}
	}

	for _, list := range []struct {
		name   string
		values []string
	}{
		{"armorEditorIdDenyContains", loot.ArmorEditorIDDenyContains},
		{"bossContainerEditorIdAllowContains", loot.BossContainerEditorIDAllowContains},
		{"bossContainerEditorIdDenyContains", loot.BossContainerEditorIDDenyContains},
	} {
		for i, v := range list.values {
			if strings.TrimSpace(v) == "" {
				return compileerr.Schema(indexPath("loot."+list.name, i),
					"loot.%s[%d] must be a non-empty string.", list.name, i)
			}
		}
	}
	return nil
}
