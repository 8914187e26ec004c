package validate

import (
	"strings"

	"github.com/jwebster45206/calamity-forge/pkg/affixspec"
	"github.com/jwebster45206/calamity-forge/pkg/compileerr"
	"github.com/jwebster45206/calamity-forge/pkg/records"
)

func (w *walker) magicEffectList(def affixspec.Affix) ([]MagicEffect, error) {
	src := def.Records.NormalizedMagicEffects()
	out := make([]MagicEffect, 0, len(src))
	for i, m := range src {
		path := def.ID + ".records.magicEffects"
		if strings.TrimSpace(m.EditorID) == "" {
			return nil, compileerr.Schema(indexPath(path, i), "%s: records magic effect #%d requires editorId.", def.ID, i+1)
		}
		key := records.FoldName(m.EditorID)
		if w.magicEffects[key] {
			return nil, compileerr.Uniqueness(indexPath(path, i), "Duplicate MagicEffect editorId: %s", m.EditorID)
		}

		av, ok := records.LookupActorValue(m.ActorValue)
		if !ok {
			return nil, compileerr.Schema(indexPath(path, i)+".actorValue",
				"Unknown ActorValue: %s (MagicEffect: %s)", m.ActorValue, m.EditorID)
		}
		resist, err := optionalActorValue(m.ResistValue, "resistValue", m.EditorID, indexPath(path, i))
		if err != nil {
			return nil, err
		}
		skill, err := optionalActorValue(m.MagicSkill, "magicSkill", m.EditorID, indexPath(path, i))
		if err != nil {
			return nil, err
		}
		archetype := records.DefaultArchetype
		if strings.TrimSpace(m.Archetype) != "" {
			if archetype, ok = records.LookupArchetype(m.Archetype); !ok {
				return nil, compileerr.Schema(indexPath(path, i)+".archetype",
					"Unknown MagicEffect archetype: %s (MagicEffect: %s)", m.Archetype, m.EditorID)
			}
		}

		w.magicEffects[key] = true
		out = append(out, MagicEffect{
			EditorID:    m.EditorID,
			Name:        m.Name,
			ActorValue:  av,
			ResistValue: resist,
			MagicSkill:  skill,
			Hostile:     m.Hostile,
			Recover:     m.Recover,
			Archetype:   archetype,
		})
	}
	return out, nil
}

func optionalActorValue(v, field, editorID, path string) (string, error) {
	if strings.TrimSpace(v) == "" {
		return "", nil
	}
	av, ok := records.LookupActorValue(v)
	if !ok {
		return "", compileerr.Schema(path+"."+field, "Unknown ActorValue: %s (MagicEffect.%s: %s)", v, field, editorID)
	}
	return av, nil
}

// spellList validates spells after the affix's magic effects are registered,
// so a spell may use effects from the same affix or any earlier one.
func (w *walker) spellList(def affixspec.Affix) ([]Spell, error) {
	src := def.Records.NormalizedSpells()
	out := make([]Spell, 0, len(src))
	for i := range src {
		s := &src[i]
		path := indexPath(def.ID+".records.spells", i)
		if strings.TrimSpace(s.EditorID) == "" {
			return nil, compileerr.Schema(path, "%s: records spell #%d requires editorId.", def.ID, i+1)
		}
		key := records.FoldName(s.EditorID)
		if w.spells[key] {
			return nil, compileerr.Uniqueness(path, "Duplicate Spell editorId: %s", s.EditorID)
		}

		sp := Spell{EditorID: s.EditorID, Name: s.Name}
		switch s.Delivery {
		case string(records.TargetSelf), string(records.TargetActor):
			sp.Delivery = records.TargetType(s.Delivery)
		default:
			return nil, compileerr.Schema(path+".delivery", "Unknown Spell delivery: %s (Spell: %s)", s.Delivery, s.EditorID)
		}
		switch s.SpellType {
		case "", string(records.SpellTypeSpell):
			sp.Type = records.SpellTypeSpell
		case string(records.SpellTypeAbility):
			sp.Type = records.SpellTypeAbility
		default:
			return nil, compileerr.Schema(path+".spellType", "Unknown Spell spellType: %s (Spell: %s)", s.SpellType, s.EditorID)
		}
		switch s.CastType {
		case "", string(records.CastFireAndForget):
			sp.CastType = records.CastFireAndForget
		case string(records.CastConstantEffect):
			sp.CastType = records.CastConstantEffect
		default:
			return nil, compileerr.Schema(path+".castType", "Unknown Spell castType: %s (Spell: %s)", s.CastType, s.EditorID)
		}

		effects := s.NormalizedEffects()
		if len(effects) == 0 {
			return nil, compileerr.Schema(path+".effects", "Spell %s requires at least one effect.", s.EditorID)
		}
		for j, e := range effects {
			epath := indexPath(path+".effects", j)
			ref := strings.TrimSpace(e.MagicEffectEditorID)
			if ref == "" {
				return nil, compileerr.Schema(epath+".magicEffectEditorId", "Spell %s requires effect.magicEffectEditorId", s.EditorID)
			}
			if !w.magicEffects[records.FoldName(ref)] {
				return nil, compileerr.Referential(epath+".magicEffectEditorId",
					"Spell %s references missing MagicEffect %s. Define it in records.magicEffect (or generate it in another affix).",
					s.EditorID, ref)
			}
			if e.Duration < 0 {
				return nil, compileerr.Schema(epath+".duration", "Spell %s effect.duration must be >= 0 (got: %d).", s.EditorID, e.Duration)
			}
			if e.Area < 0 {
				return nil, compileerr.Schema(epath+".area", "Spell %s effect.area must be >= 0 (got: %d).", s.EditorID, e.Area)
			}
			effects[j].MagicEffectEditorID = ref
		}
		sp.Effects = effects

		w.spells[key] = true
		w.generatedSpells[strings.TrimSpace(s.EditorID)] = true
		out = append(out, sp)
	}
	return out, nil
}
