// Package synth turns a validated spec into linked keyword, magic effect and
// spell records.
package synth

import (
	"log/slog"

	"github.com/jwebster45206/calamity-forge/pkg/compileerr"
	"github.com/jwebster45206/calamity-forge/pkg/records"
	"github.com/jwebster45206/calamity-forge/pkg/textfilter"
	"github.com/jwebster45206/calamity-forge/pkg/validate"
)

// TargetActorRange is the cast range given to aimed, non-constant spells.
const TargetActorRange float32 = 4096

// Enchantment contact visuals from the base game, keyed by resist value.
var elementVisuals = map[string]struct{ hitShader, impactData records.FormKey }{
	"ResistFire":  {skyrim(0x01B212), skyrim(0x01C2AF)},
	"ResistFrost": {skyrim(0x0435A3), skyrim(0x032DA7)},
	"ResistShock": {skyrim(0x057C67), skyrim(0x038B05)},
}

func skyrim(id uint32) records.FormKey {
	return records.FormKey{Mod: "Skyrim.esm", ID: id}
}

// Synthesizer builds the record graph for a validated spec.
type Synthesizer struct {
	names  *textfilter.NameFilter
	logger *slog.Logger
}

// New creates a Synthesizer. A nil logger uses slog.Default().
func New(logger *slog.Logger) *Synthesizer {
	if logger == nil {
		logger = slog.Default()
	}
	return &Synthesizer{names: textfilter.NewNameFilter(), logger: logger}
}

// Synthesize creates the configuration quest, then one keyword per tag and
// affix, then each affix's magic effects and spells. Effects and spells are
// created once per editor id across the whole run.
func (s *Synthesizer) Synthesize(vs *validate.ValidatedSpec) (*records.Graph, error) {
	g := records.NewGraph(vs.ModKey, vs.ESL)
	if _, err := EnsureConfigQuest(g); err != nil {
		return nil, err
	}

	for _, tag := range vs.Tags {
		g.AddKeyword(tag.EditorID)
	}

	// boundBy records which spell last set each magic effect's delivery.
	boundBy := map[int]string{}
	for _, affix := range vs.Affixes {
		g.AddKeyword(affix.EditorID)

		for _, m := range affix.MagicEffects {
			if _, seen := g.FindMagicEffect(m.EditorID); seen {
				continue
			}
			g.AddMagicEffect(s.magicEffect(m))
		}
		for _, sp := range affix.Spells {
			if _, seen := g.FindSpell(sp.EditorID); seen {
				continue
			}
			if err := s.addSpell(g, sp, boundBy); err != nil {
				return nil, err
			}
		}
	}

	s.logger.Debug("synthesized records",
		"keywords", len(g.Keywords),
		"magic_effects", len(g.MagicEffects),
		"spells", len(g.Spells))
	return g, nil
}

func (s *Synthesizer) magicEffect(m validate.MagicEffect) records.MagicEffect {
	rec := records.MagicEffect{
		EditorID:    m.EditorID,
		Name:        s.names.PluginSafeName(m.Name, m.EditorID),
		Archetype:   m.Archetype,
		ActorValue:  m.ActorValue,
		ResistValue: m.ResistValue,
		MagicSkill:  m.MagicSkill,
		CastType:    records.CastFireAndForget,
		TargetType:  records.TargetSelf,
	}
	if m.Hostile {
		rec.Flags |= records.FlagHostile | records.FlagDetrimental
	}
	if m.Recover {
		rec.Flags |= records.FlagRecover
	}
	if v, ok := elementVisuals[m.ResistValue]; ok {
		hs, id := v.hitShader, v.impactData
		rec.HitShader, rec.ImpactData = &hs, &id
	}
	return rec
}

func (s *Synthesizer) addSpell(g *records.Graph, sp validate.Spell, boundBy map[int]string) error {
	rec := records.Spell{
		EditorID:   sp.EditorID,
		Name:       s.names.PluginSafeName(sp.Name, sp.EditorID),
		Type:       sp.Type,
		CastType:   sp.CastType,
		TargetType: sp.Delivery,
	}
	if rec.TargetType == records.TargetActor && rec.CastType != records.CastConstantEffect {
		rec.Range = TargetActorRange
	}

	for _, e := range sp.Effects {
		mi, ok := g.FindMagicEffect(e.MagicEffectEditorID)
		if !ok {
			return compileerr.Referential(sp.EditorID,
				"Spell %s references missing MagicEffect %s. Define it in records.magicEffect (or generate it in another affix).",
				sp.EditorID, e.MagicEffectEditorID)
		}

		// The engine checks cast and target type on the effect itself; a
		// mismatch casts the spell but never applies the effect.
		mgef := &g.MagicEffects[mi]
		if prev, ok := boundBy[mi]; ok && (mgef.TargetType != rec.TargetType || mgef.CastType != rec.CastType) {
			s.logger.Warn("magic effect shared by spells with different delivery",
				"magic_effect", mgef.EditorID, "spell", sp.EditorID, "previous_spell", prev)
		}
		mgef.CastType = rec.CastType
		mgef.TargetType = rec.TargetType
		boundBy[mi] = sp.EditorID

		rec.Effects = append(rec.Effects, records.Effect{
			MagicEffect: mi,
			BaseEffect:  mgef.FormKey,
			Magnitude:   float32(e.Magnitude),
			Duration:    e.Duration,
			Area:        e.Area,
		})
	}

	g.AddSpell(rec)
	return nil
}
