package synth

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jwebster45206/calamity-forge/pkg/affixspec"
	"github.com/jwebster45206/calamity-forge/pkg/compileerr"
	"github.com/jwebster45206/calamity-forge/pkg/contract"
	"github.com/jwebster45206/calamity-forge/pkg/records"
	"github.com/jwebster45206/calamity-forge/pkg/validate"
)

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func validated(t *testing.T, tags []map[string]any, affixes []map[string]any) *validate.ValidatedSpec {
	t.Helper()
	if tags == nil {
		tags = []map[string]any{}
	}
	if affixes == nil {
		affixes = []map[string]any{}
	}
	raw, err := json.Marshal(map[string]any{
		"version": 1,
		"modKey":  "CalamityAffixes.esp",
		"keywords": map[string]any{
			"tags":    tags,
			"affixes": affixes,
		},
	})
	require.NoError(t, err)
	vs, err := validate.Validate(raw, contract.Builtin())
	require.NoError(t, err)
	return vs
}

func plainAffix(i int) map[string]any {
	return map[string]any{
		"id":       fmt.Sprintf("affix_%02d", i),
		"editorId": fmt.Sprintf("CAFF_AFFIX_%02d", i),
		"name":     "Affix",
		"runtime":  map[string]any{"trigger": "Hit", "action": map[string]any{"type": "DebugNotify"}},
	}
}

func TestSynthesizeMinimal(t *testing.T) {
	vs := validated(t, []map[string]any{{"editorId": "CAFF_TAG_DOT", "name": "DoT"}}, nil)

	g, err := New(quietLogger()).Synthesize(vs)
	require.NoError(t, err)
	require.Len(t, g.Keywords, 1)
	assert.Equal(t, "CAFF_TAG_DOT", g.Keywords[0].EditorID)
	assert.Empty(t, g.MagicEffects)
	assert.Empty(t, g.Spells)
	require.Len(t, g.Quests, 1)
}

func TestConfigQuestIDIsStable(t *testing.T) {
	empty := validated(t, nil, nil)

	var many []map[string]any
	for i := 0; i < 50; i++ {
		many = append(many, plainAffix(i))
	}
	full := validated(t, []map[string]any{{"editorId": "CAFF_TAG_A"}}, many)

	s := New(quietLogger())
	g0, err := s.Synthesize(empty)
	require.NoError(t, err)
	g50, err := s.Synthesize(full)
	require.NoError(t, err)

	assert.Equal(t, g0.Quests[0].FormKey, g50.Quests[0].FormKey)
	assert.Equal(t, records.FormKey{Mod: "CalamityAffixes.esp", ID: records.FirstLocalID}, g50.Quests[0].FormKey)
	assert.Len(t, g50.Keywords, 51)
	assert.Equal(t, records.FirstLocalID+1, g50.Keywords[0].FormKey.ID)
}

func TestEnsureConfigQuest(t *testing.T) {
	g := records.NewGraph("A.esp", false)
	first, err := EnsureConfigQuest(g)
	require.NoError(t, err)
	again, err := EnsureConfigQuest(g)
	require.NoError(t, err)
	assert.Equal(t, first, again)
	assert.Len(t, g.Quests, 1)

	q := g.Quests[0]
	assert.Equal(t, ConfigQuestEditorID, q.EditorID)
	assert.Equal(t, uint8(60), q.Priority)
	assert.Equal(t, records.QuestFlagStartGameEnabled, q.Flags)
	require.Len(t, q.Aliases, 1)
	assert.Equal(t, "Skyrim.esm|00000014", q.Aliases[0].ForcedReference.String())

	late := records.NewGraph("B.esp", false)
	late.AddKeyword("content")
	_, err = EnsureConfigQuest(late)
	assert.Error(t, err)
}

func TestSpellSynchronizesMagicEffects(t *testing.T) {
	affix := plainAffix(1)
	affix["records"] = map[string]any{
		"magicEffects": []map[string]any{
			{"editorId": "CAFF_MGEF_Burn", "name": "Burn / 화상", "actorValue": "Health", "resistValue": "ResistFire", "hostile": true, "recover": false},
			{"editorId": "CAFF_MGEF_Ward", "actorValue": "DamageResist", "recover": true},
		},
		"spells": []map[string]any{
			{"editorId": "CAFF_SPEL_Burn", "name": "Burn", "delivery": "TargetActor", "effects": []map[string]any{
				{"magicEffectEditorId": "CAFF_MGEF_Burn", "magnitude": 12.5, "duration": 3},
				{"magicEffectEditorId": "CAFF_MGEF_Ward", "magnitude": 5},
			}},
			{"editorId": "CAFF_SPEL_Aura", "delivery": "TargetActor", "spellType": "Ability", "castType": "ConstantEffect",
				"effect": map[string]any{"magicEffectEditorId": "CAFF_MGEF_Ward"}},
		},
	}
	vs := validated(t, nil, []map[string]any{affix})

	g, err := New(quietLogger()).Synthesize(vs)
	require.NoError(t, err)
	require.Len(t, g.MagicEffects, 2)
	require.Len(t, g.Spells, 2)

	burn, aura := g.Spells[0], g.Spells[1]
	assert.Equal(t, TargetActorRange, burn.Range)
	assert.Zero(t, aura.Range, "constant effect spells have no range")
	require.Len(t, burn.Effects, 2)
	assert.Equal(t, float32(12.5), burn.Effects[0].Magnitude)
	assert.Equal(t, g.MagicEffects[0].FormKey, burn.Effects[0].BaseEffect)

	fire := g.MagicEffects[0]
	assert.Equal(t, "Burn", fire.Name)
	assert.Equal(t, records.FlagHostile|records.FlagDetrimental, fire.Flags)
	assert.Equal(t, records.TargetActor, fire.TargetType)
	assert.Equal(t, records.CastFireAndForget, fire.CastType)
	require.NotNil(t, fire.HitShader)
	assert.Equal(t, uint32(0x01B212), fire.HitShader.ID)

	ward := g.MagicEffects[1]
	assert.Equal(t, records.FlagRecover, ward.Flags)
	assert.Nil(t, ward.HitShader)
	assert.Equal(t, records.CastConstantEffect, ward.CastType, "last spell using the effect wins")
	assert.Empty(t, ward.Name, "no display name given")
}

func TestSelfDeliveryHasNoRange(t *testing.T) {
	affix := plainAffix(1)
	affix["records"] = map[string]any{
		"magicEffect": map[string]any{"editorId": "M", "actorValue": "Health"},
		"spell":       map[string]any{"editorId": "S", "delivery": "Self", "effect": map[string]any{"magicEffectEditorId": "M"}},
	}
	g, err := New(quietLogger()).Synthesize(validated(t, nil, []map[string]any{affix}))
	require.NoError(t, err)
	assert.Zero(t, g.Spells[0].Range)
	assert.Equal(t, records.TargetSelf, g.MagicEffects[0].TargetType)
}

func TestPluralEffectsResolveToTwoBindings(t *testing.T) {
	affix := plainAffix(1)
	affix["records"] = map[string]any{
		"magicEffects": []map[string]any{
			{"editorId": "A", "actorValue": "Health"},
			{"editorId": "B", "actorValue": "Stamina"},
		},
		"spell": map[string]any{"editorId": "S", "delivery": "Self", "effects": []map[string]any{
			{"magicEffectEditorId": "A"}, {"magicEffectEditorId": "B"},
		}},
	}
	g, err := New(quietLogger()).Synthesize(validated(t, nil, []map[string]any{affix}))
	require.NoError(t, err)
	require.Len(t, g.Spells, 1)
	assert.Len(t, g.Spells[0].Effects, 2)
	assert.Equal(t, 1, g.Spells[0].Effects[1].MagicEffect)
}

func TestSynthesizeDeduplicatesByEditorID(t *testing.T) {
	mgef := validate.MagicEffect{EditorID: "CAFF_MGEF_Shared", ActorValue: "Health", Archetype: records.DefaultArchetype}
	spell := validate.Spell{
		EditorID: "CAFF_SPEL_Shared", Delivery: records.TargetSelf, Type: records.SpellTypeSpell, CastType: records.CastFireAndForget,
		Effects: []affixspec.EffectRef{{MagicEffectEditorID: "caff_mgef_shared"}},
	}
	vs := &validate.ValidatedSpec{
		ModKey: "CalamityAffixes.esp",
		Affixes: []validate.Affix{
			{Affix: affixspec.Affix{EditorID: "K1"}, MagicEffects: []validate.MagicEffect{mgef}, Spells: []validate.Spell{spell}},
			{Affix: affixspec.Affix{EditorID: "K2"}, MagicEffects: []validate.MagicEffect{mgef}, Spells: []validate.Spell{spell}},
		},
	}

	g, err := New(quietLogger()).Synthesize(vs)
	require.NoError(t, err)
	assert.Len(t, g.Keywords, 2)
	assert.Len(t, g.MagicEffects, 1)
	assert.Len(t, g.Spells, 1)
}

func TestSynthesizeMissingEffectIsReferential(t *testing.T) {
	vs := &validate.ValidatedSpec{
		ModKey: "CalamityAffixes.esp",
		Affixes: []validate.Affix{{
			Affix: affixspec.Affix{EditorID: "K"},
			Spells: []validate.Spell{{
				EditorID: "S", Delivery: records.TargetSelf,
				Effects: []affixspec.EffectRef{{MagicEffectEditorID: "Nope"}},
			}},
		}},
	}
	_, err := New(quietLogger()).Synthesize(vs)
	require.Error(t, err)
	assert.Equal(t, compileerr.KindReferential, compileerr.KindOf(err))
}
