package affixspec

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

// Known action types. The runtime contract may list more; those decode to GenericAction.
const (
	ActionDebugNotify              = "DebugNotify"
	ActionCastSpell                = "CastSpell"
	ActionCastSpellAdaptiveElement = "CastSpellAdaptiveElement"
	ActionCastOnCrit               = "CastOnCrit"
	ActionConvertDamage            = "ConvertDamage"
	ActionMindOverMatter           = "MindOverMatter"
	ActionArchmage                 = "Archmage"
	ActionCorpseExplosion          = "CorpseExplosion"
	ActionSummonCorpseExplosion    = "SummonCorpseExplosion"
	ActionSpawnTrap                = "SpawnTrap"
)

// RuntimeBehavior is the decoded runtime block of an affix.
// Optional numbers stay nil when absent; validation never fills defaults.
type RuntimeBehavior struct {
	Trigger             string
	ProcChancePercent   *float64
	ICDSeconds          *float64
	PerTargetICDSeconds *float64
	LootWeight          *float64
	Action              Action
}

// Action is the runtime action payload, one concrete type per action.type.
type Action interface {
	ActionType() string
	// Validate reports field problems; messages are relative to runtime.action.
	Validate() error
	// SpellRefs lists the spell editor ids the action names.
	SpellRefs() []SpellUse
}

// SpellUse is a spell editor id referenced from an action field.
type SpellUse struct {
	EditorID string
	Field    string
}

// spellValueEditorID reads a spell given either as "EditorID" or {"spellEditorId": ...}.
func spellValueEditorID(raw json.RawMessage) (string, bool) {
	if len(raw) == 0 {
		return "", false
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return strings.TrimSpace(s), strings.TrimSpace(s) != ""
	}
	var obj struct {
		SpellEditorID string `json:"spellEditorId"`
	}
	if err := json.Unmarshal(raw, &obj); err == nil && strings.TrimSpace(obj.SpellEditorID) != "" {
		return strings.TrimSpace(obj.SpellEditorID), true
	}
	return "", false
}

// SpellRef names the spell an action casts, by editor id or "Mod.esp|ID" form.
type SpellRef struct {
	SpellEditorID string `json:"spellEditorId,omitempty"`
	SpellForm     string `json:"spellForm,omitempty"`
}

func (s SpellRef) hasSpell() bool {
	return s.SpellEditorID != "" || s.SpellForm != ""
}

func (s SpellRef) uses() []SpellUse {
	if id := strings.TrimSpace(s.SpellEditorID); id != "" {
		return []SpellUse{{EditorID: id, Field: "spellEditorId"}}
	}
	return nil
}

// CastOptions are the casting knobs shared by spell-casting actions.
type CastOptions struct {
	Effectiveness     *float64          `json:"effectiveness,omitempty"`
	MagnitudeOverride float64           `json:"magnitudeOverride,omitempty"`
	NoHitEffectArt    *bool             `json:"noHitEffectArt,omitempty"`
	ApplyTo           string            `json:"applyTo,omitempty"`
	MagnitudeScaling  *MagnitudeScaling `json:"magnitudeScaling,omitempty"`
}

// MagnitudeScaling derives a spell magnitude from a runtime source value.
type MagnitudeScaling struct {
	Source         string  `json:"source"`
	Mult           float64 `json:"mult"`
	Add            float64 `json:"add"`
	Min            float64 `json:"min"`
	Max            float64 `json:"max"`
	SpellBaseAsMin bool    `json:"spellBaseAsMin"`
}

// SuffixOptions are read by the runtime for suffix-slot affixes.
type SuffixOptions struct {
	PassiveSpellEditorID string  `json:"passiveSpellEditorId,omitempty"`
	CritDamageBonusPct   float64 `json:"critDamageBonusPct,omitempty"`
	DebugNotify          bool    `json:"debugNotify,omitempty"`
}

func (c CastOptions) validate() error {
	if c.Effectiveness != nil && *c.Effectiveness < 0 {
		return fmt.Errorf("effectiveness must be >= 0 (got: %v)", *c.Effectiveness)
	}
	if c.ApplyTo != "" && c.ApplyTo != "Self" && c.ApplyTo != "Target" {
		return fmt.Errorf("applyTo must be Self or Target (got: %s)", c.ApplyTo)
	}
	if m := c.MagnitudeScaling; m != nil && m.Max > 0 && m.Min > m.Max {
		return fmt.Errorf("magnitudeScaling.min must be <= max (got: %v > %v)", m.Min, m.Max)
	}
	return nil
}

var errMissingSpell = errors.New("spellEditorId or spellForm is required")

// Variants

type DebugNotifyAction struct {
	Type string `json:"type"`
	Text string `json:"text,omitempty"`
	SuffixOptions
}

func (DebugNotifyAction) ActionType() string { return ActionDebugNotify }
func (DebugNotifyAction) Validate() error    { return nil }

func (DebugNotifyAction) SpellRefs() []SpellUse { return nil }

type CastSpellAction struct {
	Type string `json:"type"`
	SpellRef
	CastOptions
	SuffixOptions
	Evolution *Evolution `json:"evolution,omitempty"`
	ModeCycle *ModeCycle `json:"modeCycle,omitempty"`
}

// Evolution scales a spell with accumulated procs.
type Evolution struct {
	XPPerProc   *int      `json:"xpPerProc,omitempty"`
	Thresholds  []int     `json:"thresholds"`
	Multipliers []float64 `json:"multipliers"`
}

func (e *Evolution) validate() error {
	if e == nil {
		return nil
	}
	if e.XPPerProc != nil && *e.XPPerProc <= 0 {
		return fmt.Errorf("evolution.xpPerProc must be an integer > 0 (got: %d)", *e.XPPerProc)
	}
	if len(e.Thresholds) == 0 {
		return errors.New("evolution.thresholds must be a non-empty integer array")
	}
	for i, t := range e.Thresholds {
		if t < 0 {
			return fmt.Errorf("evolution.thresholds[%d] must be an integer >= 0 (got: %d)", i, t)
		}
	}
	if len(e.Multipliers) == 0 {
		return errors.New("evolution.multipliers must be a non-empty number array")
	}
	for i, m := range e.Multipliers {
		if m <= 0 {
			return fmt.Errorf("evolution.multipliers[%d] must be > 0 (got: %v)", i, m)
		}
	}
	return nil
}

// ModeCycle rotates between several spells.
type ModeCycle struct {
	Spells           []json.RawMessage `json:"spells"`
	Labels           []string          `json:"labels,omitempty"`
	SwitchEveryProcs *int              `json:"switchEveryProcs,omitempty"`
	ManualOnly       bool              `json:"manualOnly,omitempty"`
}

func (m *ModeCycle) validate() error {
	if m == nil {
		return nil
	}
	if len(m.Spells) == 0 {
		return errors.New("modeCycle.spells must be a non-empty array")
	}
	for i, raw := range m.Spells {
		if _, ok := spellValueEditorID(raw); !ok {
			return fmt.Errorf("modeCycle.spells[%d] must be a spellEditorId string or spell object", i)
		}
	}
	if m.SwitchEveryProcs != nil && *m.SwitchEveryProcs <= 0 {
		return fmt.Errorf("modeCycle.switchEveryProcs must be an integer > 0 (got: %d)", *m.SwitchEveryProcs)
	}
	return nil
}

func (m *ModeCycle) uses() []SpellUse {
	if m == nil {
		return nil
	}
	var out []SpellUse
	for i, raw := range m.Spells {
		if id, ok := spellValueEditorID(raw); ok {
			out = append(out, SpellUse{EditorID: id, Field: fmt.Sprintf("modeCycle.spells[%d]", i)})
		}
	}
	return out
}

func (CastSpellAction) ActionType() string { return ActionCastSpell }

func (a CastSpellAction) Validate() error {
	if !a.hasSpell() {
		return errMissingSpell
	}
	if err := a.Evolution.validate(); err != nil {
		return err
	}
	if err := a.ModeCycle.validate(); err != nil {
		return err
	}
	return a.CastOptions.validate()
}

func (a CastSpellAction) SpellRefs() []SpellUse {
	return append(a.SpellRef.uses(), a.ModeCycle.uses()...)
}

type CastSpellAdaptiveElementAction struct {
	Type string `json:"type"`
	// Mode defaults to WeakestResist at runtime.
	Mode      string         `json:"mode,omitempty"`
	Spells    AdaptiveSpells `json:"spells"`
	Evolution *Evolution     `json:"evolution,omitempty"`
	ModeCycle *ModeCycle     `json:"modeCycle,omitempty"`
	CastOptions
}

// AdaptiveSpells maps an element to the spell cast for it.
type AdaptiveSpells struct {
	Fire  json.RawMessage `json:"Fire,omitempty"`
	Frost json.RawMessage `json:"Frost,omitempty"`
	Shock json.RawMessage `json:"Shock,omitempty"`
}

func (CastSpellAdaptiveElementAction) ActionType() string { return ActionCastSpellAdaptiveElement }

func (a CastSpellAdaptiveElementAction) Validate() error {
	if len(a.Spells.Fire) == 0 && len(a.Spells.Frost) == 0 && len(a.Spells.Shock) == 0 {
		return errors.New("spells requires at least one of Fire, Frost, Shock")
	}
	if err := a.Evolution.validate(); err != nil {
		return err
	}
	if err := a.ModeCycle.validate(); err != nil {
		return err
	}
	return a.CastOptions.validate()
}

func (a CastSpellAdaptiveElementAction) SpellRefs() []SpellUse {
	var out []SpellUse
	for _, e := range []struct {
		name string
		raw  json.RawMessage
	}{{"Fire", a.Spells.Fire}, {"Frost", a.Spells.Frost}, {"Shock", a.Spells.Shock}} {
		if id, ok := spellValueEditorID(e.raw); ok {
			out = append(out, SpellUse{EditorID: id, Field: "spells." + e.name})
		}
	}
	return append(out, a.ModeCycle.uses()...)
}

type CastOnCritAction struct {
	Type string `json:"type"`
	SpellRef
	CastOptions
}

func (CastOnCritAction) ActionType() string { return ActionCastOnCrit }

func (a CastOnCritAction) Validate() error {
	if !a.hasSpell() {
		return errMissingSpell
	}
	return a.CastOptions.validate()
}

func (a CastOnCritAction) SpellRefs() []SpellUse { return a.SpellRef.uses() }

type ConvertDamageAction struct {
	Type    string  `json:"type"`
	Element string  `json:"element"`
	Percent float64 `json:"percent"`
	SpellRef
	CastOptions
}

func (ConvertDamageAction) ActionType() string { return ActionConvertDamage }

func (a ConvertDamageAction) Validate() error {
	switch a.Element {
	case "Fire", "Frost", "Shock":
	default:
		return fmt.Errorf("element must be one of [Fire, Frost, Shock] (got: %s)", a.Element)
	}
	if a.Percent <= 0 || a.Percent > 100 {
		return fmt.Errorf("percent must be in range (0..100] (got: %v)", a.Percent)
	}
	if !a.hasSpell() {
		return errMissingSpell
	}
	return a.CastOptions.validate()
}

func (a ConvertDamageAction) SpellRefs() []SpellUse { return a.SpellRef.uses() }

// MindOverMatterAction redirects incoming damage to magicka. It only fires on IncomingHit.
type MindOverMatterAction struct {
	Type               string   `json:"type"`
	DamageToMagickaPct *float64 `json:"damageToMagickaPct"`
	MaxRedirectPerHit  *float64 `json:"maxRedirectPerHit,omitempty"`
}

func (MindOverMatterAction) ActionType() string { return ActionMindOverMatter }

func (a MindOverMatterAction) Validate() error {
	if a.DamageToMagickaPct == nil {
		return errors.New("damageToMagickaPct is required")
	}
	if v := *a.DamageToMagickaPct; v <= 0 || v > 100 {
		return fmt.Errorf("damageToMagickaPct out of range: %v (expected >0 and <=100)", v)
	}
	if a.MaxRedirectPerHit != nil && *a.MaxRedirectPerHit < 0 {
		return fmt.Errorf("maxRedirectPerHit must be >= 0 (got: %v)", *a.MaxRedirectPerHit)
	}
	return nil
}

func (MindOverMatterAction) SpellRefs() []SpellUse { return nil }

type ArchmageAction struct {
	Type                  string  `json:"type"`
	DamagePctOfMaxMagicka float64 `json:"damagePctOfMaxMagicka"`
	CostPctOfMaxMagicka   float64 `json:"costPctOfMaxMagicka"`
	SpellRef
	CastOptions
}

func (ArchmageAction) ActionType() string { return ActionArchmage }

func (a ArchmageAction) SpellRefs() []SpellUse { return a.SpellRef.uses() }

func (a ArchmageAction) Validate() error {
	if a.DamagePctOfMaxMagicka <= 0 {
		return fmt.Errorf("damagePctOfMaxMagicka must be > 0 (got: %v)", a.DamagePctOfMaxMagicka)
	}
	if a.CostPctOfMaxMagicka <= 0 {
		return fmt.Errorf("costPctOfMaxMagicka must be > 0 (got: %v)", a.CostPctOfMaxMagicka)
	}
	if !a.hasSpell() {
		return errMissingSpell
	}
	return a.CastOptions.validate()
}

// CorpseExplosionAction covers CorpseExplosion and SummonCorpseExplosion.
type CorpseExplosionAction struct {
	Type                   string  `json:"type"`
	FlatDamage             float64 `json:"flatDamage,omitempty"`
	PctOfCorpseMaxHealth   float64 `json:"pctOfCorpseMaxHealth,omitempty"`
	Radius                 float64 `json:"radius"`
	MaxTargets             *int    `json:"maxTargets,omitempty"`
	MaxChainDepth          *int    `json:"maxChainDepth,omitempty"`
	ChainFalloff           float64 `json:"chainFalloff,omitempty"`
	ChainWindowSeconds     float64 `json:"chainWindowSeconds,omitempty"`
	RateLimitWindowSeconds float64 `json:"rateLimitWindowSeconds,omitempty"`
	MaxExplosionsPerWindow *int    `json:"maxExplosionsPerWindow,omitempty"`
	SpellRef
	CastOptions
}

func (a CorpseExplosionAction) ActionType() string {
	if a.Type == ActionSummonCorpseExplosion {
		return ActionSummonCorpseExplosion
	}
	return ActionCorpseExplosion
}

func (a CorpseExplosionAction) SpellRefs() []SpellUse { return a.SpellRef.uses() }

func (a CorpseExplosionAction) Validate() error {
	if !a.hasSpell() {
		return errMissingSpell
	}
	if a.Radius <= 0 {
		return fmt.Errorf("radius must be > 0 (got: %v)", a.Radius)
	}
	if a.MaxTargets != nil && *a.MaxTargets <= 0 {
		return fmt.Errorf("maxTargets must be > 0 (got: %d)", *a.MaxTargets)
	}
	if a.FlatDamage <= 0 && a.PctOfCorpseMaxHealth <= 0 {
		return errors.New("flatDamage or pctOfCorpseMaxHealth must be > 0")
	}
	if a.ChainFalloff < 0 || a.ChainFalloff > 1 {
		return fmt.Errorf("chainFalloff must be in range 0..1 (got: %v)", a.ChainFalloff)
	}
	return a.CastOptions.validate()
}

type SpawnTrapAction struct {
	Type                     string            `json:"type"`
	SpawnAt                  string            `json:"spawnAt,omitempty"`
	Radius                   float64           `json:"radius"`
	MaxActive                *int              `json:"maxActive,omitempty"`
	MaxTriggers              *int              `json:"maxTriggers,omitempty"`
	RequireCritOrPowerAttack bool              `json:"requireCritOrPowerAttack,omitempty"`
	RequireWeaponHit         *bool             `json:"requireWeaponHit,omitempty"`
	TTLSeconds               float64           `json:"ttlSeconds"`
	ArmDelaySeconds          float64           `json:"armDelaySeconds,omitempty"`
	RearmDelaySeconds        float64           `json:"rearmDelaySeconds,omitempty"`
	ExtraSpells              []json.RawMessage `json:"extraSpells,omitempty"`
	SpellRef
	CastOptions
}

func (SpawnTrapAction) ActionType() string { return ActionSpawnTrap }

func (a SpawnTrapAction) SpellRefs() []SpellUse {
	out := a.SpellRef.uses()
	for i, raw := range a.ExtraSpells {
		if id, ok := spellValueEditorID(raw); ok {
			out = append(out, SpellUse{EditorID: id, Field: fmt.Sprintf("extraSpells[%d]", i)})
		}
	}
	return out
}

func (a SpawnTrapAction) Validate() error {
	if !a.hasSpell() {
		return errMissingSpell
	}
	if a.Radius <= 0 {
		return fmt.Errorf("radius must be > 0 (got: %v)", a.Radius)
	}
	if a.TTLSeconds <= 0 {
		return fmt.Errorf("ttlSeconds must be > 0 (got: %v)", a.TTLSeconds)
	}
	if a.ArmDelaySeconds < 0 || a.RearmDelaySeconds < 0 {
		return errors.New("armDelaySeconds and rearmDelaySeconds must be >= 0")
	}
	switch a.SpawnAt {
	case "", "Target", "Self":
	default:
		return fmt.Errorf("spawnAt must be Target or Self (got: %s)", a.SpawnAt)
	}
	return a.CastOptions.validate()
}

// GenericAction carries an action type the contract allows but this build has no struct for.
type GenericAction struct {
	Type   string
	Fields map[string]json.RawMessage
}

func (a GenericAction) ActionType() string { return a.Type }
func (GenericAction) Validate() error      { return nil }

func (GenericAction) SpellRefs() []SpellUse { return nil }

// DecodeAction decodes an action object by its "type" field.
func DecodeAction(raw json.RawMessage) (Action, error) {
	var head struct {
		Type string `json:"type"`
	}
	if err := json.Unmarshal(raw, &head); err != nil {
		return nil, err
	}

	var target Action
	switch head.Type {
	case ActionDebugNotify:
		target = &DebugNotifyAction{}
	case ActionCastSpell:
		target = &CastSpellAction{}
	case ActionCastSpellAdaptiveElement:
		target = &CastSpellAdaptiveElementAction{}
	case ActionCastOnCrit:
		target = &CastOnCritAction{}
	case ActionConvertDamage:
		target = &ConvertDamageAction{}
	case ActionMindOverMatter:
		target = &MindOverMatterAction{}
	case ActionArchmage:
		target = &ArchmageAction{}
	case ActionCorpseExplosion, ActionSummonCorpseExplosion:
		target = &CorpseExplosionAction{}
	case ActionSpawnTrap:
		target = &SpawnTrapAction{}
	default:
		fields := map[string]json.RawMessage{}
		if err := json.Unmarshal(raw, &fields); err != nil {
			return nil, err
		}
		return GenericAction{Type: head.Type, Fields: fields}, nil
	}

	if err := json.Unmarshal(raw, target); err != nil {
		return nil, err
	}
	return deref(target), nil
}

func deref(a Action) Action {
	switch v := a.(type) {
	case *DebugNotifyAction:
		return *v
	case *CastSpellAction:
		return *v
	case *CastSpellAdaptiveElementAction:
		return *v
	case *CastOnCritAction:
		return *v
	case *ConvertDamageAction:
		return *v
	case *MindOverMatterAction:
		return *v
	case *ArchmageAction:
		return *v
	case *CorpseExplosionAction:
		return *v
	case *SpawnTrapAction:
		return *v
	}
	return a
}
