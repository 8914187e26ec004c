package affixspec

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeActionVariants(t *testing.T) {
	tests := []struct {
		name     string
		raw      string
		wantType string
		check    func(t *testing.T, a Action)
	}{
		{
			name:     "debug notify",
			raw:      `{"type":"DebugNotify","text":"proc!"}`,
			wantType: ActionDebugNotify,
			check: func(t *testing.T, a Action) {
				assert.Equal(t, "proc!", a.(DebugNotifyAction).Text)
			},
		},
		{
			name:     "cast spell",
			raw:      `{"type":"CastSpell","spellEditorId":"CAFF_SPEL_Fire","effectiveness":1.5,"applyTo":"Target"}`,
			wantType: ActionCastSpell,
			check: func(t *testing.T, a Action) {
				cs := a.(CastSpellAction)
				assert.Equal(t, "CAFF_SPEL_Fire", cs.SpellEditorID)
				require.NotNil(t, cs.Effectiveness)
				assert.Equal(t, 1.5, *cs.Effectiveness)
			},
		},
		{
			name:     "summon corpse explosion shares struct",
			raw:      `{"type":"SummonCorpseExplosion","spellForm":"Skyrim.esm|0001C789","radius":256,"flatDamage":40}`,
			wantType: ActionSummonCorpseExplosion,
		},
		{
			name:     "adaptive element",
			raw:      `{"type":"CastSpellAdaptiveElement","spells":{"Fire":"CAFF_A","Shock":{"spellEditorId":"CAFF_B"}}}`,
			wantType: ActionCastSpellAdaptiveElement,
		},
		{
			name:     "contract-only type",
			raw:      `{"type":"FutureThing","power":3}`,
			wantType: "FutureThing",
			check: func(t *testing.T, a Action) {
				g := a.(GenericAction)
				assert.Contains(t, g.Fields, "power")
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a, err := DecodeAction([]byte(tt.raw))
			require.NoError(t, err)
			assert.Equal(t, tt.wantType, a.ActionType())
			assert.NoError(t, a.Validate())
			if tt.check != nil {
				tt.check(t, a)
			}
		})
	}
}

func TestActionValidate(t *testing.T) {
	tests := []struct {
		name    string
		raw     string
		wantErr string
	}{
		{"cast spell without spell", `{"type":"CastSpell"}`, "spellEditorId or spellForm is required"},
		{"cast spell with mode cycle", `{"type":"CastSpell","spellEditorId":"A","modeCycle":{"spells":["A",{"spellEditorId":"B"}]}}`, ""},
		{"mode cycle without spells", `{"type":"CastSpell","spellEditorId":"A","modeCycle":{"spells":[]}}`, "modeCycle.spells"},
		{"mode cycle zero switch", `{"type":"CastSpell","spellEditorId":"A","modeCycle":{"spells":["A"],"switchEveryProcs":0}}`, "switchEveryProcs"},
		{"evolution without thresholds", `{"type":"CastSpell","spellEditorId":"A","evolution":{"multipliers":[1]}}`, "evolution.thresholds"},
		{"evolution bad multiplier", `{"type":"CastSpell","spellEditorId":"A","evolution":{"thresholds":[0,10],"multipliers":[1,0]}}`, "evolution.multipliers[1]"},
		{"mind over matter missing pct", `{"type":"MindOverMatter"}`, "damageToMagickaPct is required"},
		{"mind over matter out of range", `{"type":"MindOverMatter","damageToMagickaPct":120}`, "out of range"},
		{"mind over matter ok", `{"type":"MindOverMatter","damageToMagickaPct":30,"maxRedirectPerHit":50}`, ""},
		{"cast on crit without spell", `{"type":"CastOnCrit"}`, "spellEditorId"},
		{"convert damage bad element", `{"type":"ConvertDamage","element":"Poison","percent":10,"spellEditorId":"S"}`, "element"},
		{"convert damage bad percent", `{"type":"ConvertDamage","element":"Fire","percent":150,"spellEditorId":"S"}`, "percent"},
		{"archmage zero cost", `{"type":"Archmage","spellEditorId":"S","damagePctOfMaxMagicka":2}`, "costPctOfMaxMagicka"},
		{"corpse explosion no damage", `{"type":"CorpseExplosion","spellEditorId":"S","radius":100}`, "flatDamage"},
		{"spawn trap no ttl", `{"type":"SpawnTrap","spellEditorId":"S","radius":100}`, "ttlSeconds"},
		{"spawn trap ok", `{"type":"SpawnTrap","spellEditorId":"S","radius":100,"ttlSeconds":10}`, ""},
		{"adaptive without spells", `{"type":"CastSpellAdaptiveElement","spells":{}}`, "Fire"},
		{"negative effectiveness", `{"type":"CastOnCrit","spellEditorId":"S","effectiveness":-1}`, "effectiveness"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a, err := DecodeAction([]byte(tt.raw))
			require.NoError(t, err)
			err = a.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestDecodeActionTypeMismatch(t *testing.T) {
	_, err := DecodeAction([]byte(`{"type":"ConvertDamage","percent":"lots"}`))
	assert.Error(t, err)
}

func TestSpellRefs(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want []SpellUse
	}{
		{
			name: "cast spell with mode cycle",
			raw:  `{"type":"CastSpell","spellEditorId":"CAFF_A","modeCycle":{"spells":["CAFF_B",{"spellEditorId":"CAFF_C"}]}}`,
			want: []SpellUse{
				{EditorID: "CAFF_A", Field: "spellEditorId"},
				{EditorID: "CAFF_B", Field: "modeCycle.spells[0]"},
				{EditorID: "CAFF_C", Field: "modeCycle.spells[1]"},
			},
		},
		{
			name: "spell form is not an editor id",
			raw:  `{"type":"CastOnCrit","spellForm":"Skyrim.esm|0001C789"}`,
		},
		{
			name: "adaptive element",
			raw:  `{"type":"CastSpellAdaptiveElement","spells":{"Fire":"CAFF_F","Shock":{"spellEditorId":"CAFF_S"}}}`,
			want: []SpellUse{
				{EditorID: "CAFF_F", Field: "spells.Fire"},
				{EditorID: "CAFF_S", Field: "spells.Shock"},
			},
		},
		{
			name: "convert damage",
			raw:  `{"type":"ConvertDamage","element":"Fire","percent":25,"spellEditorId":"CAFF_SPEL_BURN"}`,
			want: []SpellUse{
				{EditorID: "CAFF_SPEL_BURN", Field: "spellEditorId"},
			},
		},
		{
			name: "spawn trap extras",
			raw:  `{"type":"SpawnTrap","spellEditorId":"CAFF_T","extraSpells":["CAFF_X"]}`,
			want: []SpellUse{
				{EditorID: "CAFF_T", Field: "spellEditorId"},
				{EditorID: "CAFF_X", Field: "extraSpells[0]"},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a, err := DecodeAction([]byte(tt.raw))
			require.NoError(t, err)
			assert.Equal(t, tt.want, a.SpellRefs())
		})
	}
}
