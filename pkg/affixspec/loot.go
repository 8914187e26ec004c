package affixspec

import "encoding/json"

// CurrencyDropModeHybrid is the only supported currency drop mode.
const CurrencyDropModeHybrid = "hybrid"

// DefaultNameFormat is used when loot.nameFormat is absent.
const DefaultNameFormat = "{base} [{affix}]"

// LootPolicy configures loot rolls and currency drops.
type LootPolicy struct {
	ChancePercent                 float64 `json:"chancePercent"`
	RunewordFragmentChancePercent float64 `json:"runewordFragmentChancePercent"`
	ReforgeOrbChancePercent       float64 `json:"reforgeOrbChancePercent"`
	CurrencyDropMode              string  `json:"currencyDropMode"`

	LootSourceChanceMultCorpse        float64 `json:"lootSourceChanceMultCorpse"`
	LootSourceChanceMultContainer     float64 `json:"lootSourceChanceMultContainer"`
	LootSourceChanceMultBossContainer float64 `json:"lootSourceChanceMultBossContainer"`
	LootSourceChanceMultWorld         float64 `json:"lootSourceChanceMultWorld"`

	RenameItem         bool   `json:"renameItem"`
	NameMarkerPosition string `json:"nameMarkerPosition,omitempty"`
	SharedPool         bool   `json:"sharedPool"`
	DebugLog           bool   `json:"debugLog"`
	NameFormat         string `json:"nameFormat,omitempty"`

	DotTagSafetyAutoDisable           bool `json:"dotTagSafetyAutoDisable"`
	DotTagSafetyUniqueEffectThreshold int  `json:"dotTagSafetyUniqueEffectThreshold"`

	// 0 means unlimited for the budget fields below.
	TrapGlobalMaxActive        int `json:"trapGlobalMaxActive"`
	TrapCastBudgetPerTick      int `json:"trapCastBudgetPerTick"`
	TriggerProcBudgetPerWindow int `json:"triggerProcBudgetPerWindow"`
	TriggerProcBudgetWindowMs  int `json:"triggerProcBudgetWindowMs"`

	CleanupInvalidLegacyAffixes bool `json:"cleanupInvalidLegacyAffixes"`
	StripTrackedSuffixSlots     bool `json:"stripTrackedSuffixSlots"`

	ArmorEditorIDDenyContains          []string `json:"armorEditorIdDenyContains,omitempty"`
	BossContainerEditorIDAllowContains []string `json:"bossContainerEditorIdAllowContains,omitempty"`
	BossContainerEditorIDDenyContains  []string `json:"bossContainerEditorIdDenyContains,omitempty"`
}

// DefaultLootPolicy returns the policy used for every field a document omits.
func DefaultLootPolicy() LootPolicy {
	return LootPolicy{
		RunewordFragmentChancePercent:     5,
		ReforgeOrbChancePercent:           3,
		CurrencyDropMode:                  CurrencyDropModeHybrid,
		LootSourceChanceMultCorpse:        0.8,
		LootSourceChanceMultContainer:     1.0,
		LootSourceChanceMultBossContainer: 1.35,
		LootSourceChanceMultWorld:         1.0,
		NameFormat:                        DefaultNameFormat,
		DotTagSafetyUniqueEffectThreshold: 96,
		TrapGlobalMaxActive:               64,
		TrapCastBudgetPerTick:             8,
		TriggerProcBudgetPerWindow:        12,
		TriggerProcBudgetWindowMs:         100,
		CleanupInvalidLegacyAffixes:       true,
		StripTrackedSuffixSlots:           true,
	}
}

// UnmarshalJSON decodes on top of DefaultLootPolicy so absent fields keep their defaults.
func (l *LootPolicy) UnmarshalJSON(data []byte) error {
	type plain LootPolicy
	p := plain(DefaultLootPolicy())
	if err := json.Unmarshal(data, &p); err != nil {
		return err
	}
	*l = LootPolicy(p)
	return nil
}
