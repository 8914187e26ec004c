package affixspec

// RecordSpec lists the magic effects and spells an affix defines. Both the
// singular and the plural field are accepted; Normalize merges them.
type RecordSpec struct {
	MagicEffect  *MagicEffect  `json:"magicEffect,omitempty"`
	MagicEffects []MagicEffect `json:"magicEffects,omitempty"`
	Spell        *Spell        `json:"spell,omitempty"`
	Spells       []Spell       `json:"spells,omitempty"`
}

// MagicEffect describes a magic effect record.
type MagicEffect struct {
	EditorID    string `json:"editorId" jsonschema:"minLength=1"`
	Name        string `json:"name,omitempty"`
	ActorValue  string `json:"actorValue"`
	ResistValue string `json:"resistValue,omitempty"`
	MagicSkill  string `json:"magicSkill,omitempty"`
	Hostile     bool   `json:"hostile"`
	Recover     bool   `json:"recover"`
	Archetype   string `json:"archetype,omitempty"`
}

// Spell describes a spell record.
type Spell struct {
	EditorID  string      `json:"editorId" jsonschema:"minLength=1"`
	Name      string      `json:"name,omitempty"`
	Delivery  string      `json:"delivery" jsonschema:"enum=Self,enum=TargetActor"`
	SpellType string      `json:"spellType,omitempty" jsonschema:"enum=Spell,enum=Ability"`
	CastType  string      `json:"castType,omitempty" jsonschema:"enum=FireAndForget,enum=ConstantEffect"`
	Effect    *EffectRef  `json:"effect,omitempty"`
	Effects   []EffectRef `json:"effects,omitempty"`
}

// EffectRef binds a magic effect to a spell.
type EffectRef struct {
	MagicEffectEditorID string  `json:"magicEffectEditorId"`
	Magnitude           float64 `json:"magnitude"`
	Duration            int     `json:"duration"`
	Area                int     `json:"area"`
}

// NormalizedMagicEffects returns the singular field followed by the plural list.
func (r *RecordSpec) NormalizedMagicEffects() []MagicEffect {
	if r == nil {
		return nil
	}
	out := make([]MagicEffect, 0, len(r.MagicEffects)+1)
	if r.MagicEffect != nil {
		out = append(out, *r.MagicEffect)
	}
	return append(out, r.MagicEffects...)
}

// NormalizedSpells returns the singular field followed by the plural list.
func (r *RecordSpec) NormalizedSpells() []Spell {
	if r == nil {
		return nil
	}
	out := make([]Spell, 0, len(r.Spells)+1)
	if r.Spell != nil {
		out = append(out, *r.Spell)
	}
	return append(out, r.Spells...)
}

// NormalizedEffects returns the singular effect followed by the plural list.
func (s *Spell) NormalizedEffects() []EffectRef {
	out := make([]EffectRef, 0, len(s.Effects)+1)
	if s.Effect != nil {
		out = append(out, *s.Effect)
	}
	return append(out, s.Effects...)
}
