package records

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jwebster45206/calamity-forge/pkg/compileerr"
)

func TestParseFormKey(t *testing.T) {
	tests := []struct {
		name    string
		in      string
		want    FormKey
		wantErr string
	}{
		{name: "plain", in: "Skyrim.esm|0009AF0A", want: FormKey{Mod: "Skyrim.esm", ID: 0x9AF0A}},
		{name: "0x prefix and spaces", in: " Dawnguard.esm | 0x00ABC ", want: FormKey{Mod: "Dawnguard.esm", ID: 0xABC}},
		{name: "missing bar", in: "Skyrim.esm", wantErr: "must be 'ModName.esm|00ABCDEF'"},
		{name: "empty id", in: "Skyrim.esm|", wantErr: "must be 'ModName.esm|00ABCDEF'"},
		{name: "bad hex", in: "Skyrim.esm|XYZ", wantErr: "invalid FormID hex value: Skyrim.esm|XYZ"},
		{name: "overflow", in: "Skyrim.esm|1FFFFFFFF", wantErr: "invalid FormID hex value"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseFormKey(tt.in, "targets[0]")
			if tt.wantErr != "" {
				require.Error(t, err)
				assert.True(t, errors.Is(err, compileerr.ErrSchema))
				assert.Contains(t, err.Error(), "targets[0]")
				assert.Contains(t, err.Error(), tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestFormKeyOrderingAndText(t *testing.T) {
	a := FormKey{Mod: "skyrim.esm", ID: 2}
	b := FormKey{Mod: "Skyrim.esm", ID: 10}
	c := FormKey{Mod: "Update.esm", ID: 1}

	assert.True(t, a.Less(b))
	assert.True(t, b.Less(c))
	assert.False(t, c.Less(a))
	assert.True(t, FormKey{Mod: "SKYRIM.ESM", ID: 2}.Same(a))
	assert.Equal(t, "Skyrim.esm|0000000A", b.String())

	data, err := json.Marshal(map[string]FormKey{"k": b})
	require.NoError(t, err)
	assert.JSONEq(t, `{"k":"Skyrim.esm|0000000A"}`, string(data))

	var back map[string]FormKey
	require.NoError(t, json.Unmarshal(data, &back))
	assert.Equal(t, b, back["k"])
}

func TestGraphAllocatesSequentialIDs(t *testing.T) {
	g := NewGraph("CalamityAffixes.esp", false)
	q := g.AddQuest(Quest{EditorID: "Q"})
	k := g.AddKeyword("KW")
	m := g.AddMagicEffect(MagicEffect{EditorID: "MGEF"})

	assert.Equal(t, FormKey{Mod: "CalamityAffixes.esp", ID: 0x800}, g.Quests[q].FormKey)
	assert.Equal(t, uint32(0x801), g.Keywords[k].FormKey.ID)
	assert.Equal(t, uint32(0x802), g.MagicEffects[m].FormKey.ID)
	assert.Equal(t, 3, g.NewRecordCount())

	i, ok := g.FindMagicEffect("mgef")
	require.True(t, ok)
	assert.Equal(t, m, i)
}

func TestGraphOverridesKeepIdentity(t *testing.T) {
	g := NewGraph("CalamityAffixes.esp", false)
	base := LeveledItem{
		FormKey:    FormKey{Mod: "Skyrim.esm", ID: 0x3AD7F},
		EditorID:   "DeathItemDraugr",
		ChanceNone: 0.25,
		Flags:      1,
		Entries:    []LeveledEntry{{Level: 1, Count: 1, Reference: FormKey{Mod: "Skyrim.esm", ID: 0xF}}},
	}
	i := g.AddOverride(base)

	assert.True(t, g.IsOverride(i))
	assert.Equal(t, base.FormKey, g.LeveledItems[i].FormKey)
	assert.Equal(t, uint32(FirstLocalID), g.NextID, "overrides do not consume local ids")

	g.LeveledItems[i].Entries[0].Count = 5
	assert.Equal(t, int16(1), base.Entries[0].Count, "override must not alias the base entries")

	ref := FormKey{Mod: "CalamityAffixes.esp", ID: 0x900}
	assert.True(t, g.LeveledItems[i].AddEntryIfMissing(ref))
	assert.False(t, g.LeveledItems[i].AddEntryIfMissing(FormKey{Mod: "calamityaffixes.esp", ID: 0x900}))
	assert.Len(t, g.LeveledItems[i].Entries, 2)
}

func TestGraphClone(t *testing.T) {
	g := NewGraph("A.esp", false)
	hs := FormKey{Mod: "Skyrim.esm", ID: 1}
	m := g.AddMagicEffect(MagicEffect{EditorID: "M", HitShader: &hs})
	s := g.AddSpell(Spell{EditorID: "S", Effects: []Effect{{MagicEffect: m}}})

	c := g.Clone()
	c.Spells[s].Effects[0].Magnitude = 9
	c.MagicEffects[m].HitShader.ID = 2
	c.AddKeyword("extra")

	assert.Zero(t, g.Spells[s].Effects[0].Magnitude)
	assert.Equal(t, uint32(1), g.MagicEffects[m].HitShader.ID)
	assert.Empty(t, g.Keywords)
}

func TestCheckCapacity(t *testing.T) {
	g := NewGraph("Light.esp", true)
	for i := 0; i < 2048; i++ {
		g.AddKeyword("K")
	}
	require.NoError(t, g.CheckCapacity())

	g.AddKeyword("overflow")
	err := g.CheckCapacity()
	require.Error(t, err)
	assert.Equal(t, compileerr.KindPolicy, compileerr.KindOf(err))

	full := NewGraph("Full.esp", false)
	for i := 0; i < 5000; i++ {
		full.AddKeyword("K")
	}
	assert.NoError(t, full.CheckCapacity())
}

func TestLookupEnums(t *testing.T) {
	av, ok := LookupActorValue("resistfire")
	require.True(t, ok)
	assert.Equal(t, "ResistFire", av)

	_, ok = LookupActorValue("Charisma")
	assert.False(t, ok)

	arch, ok := LookupArchetype("script")
	require.True(t, ok)
	assert.Equal(t, "Script", arch)
}
