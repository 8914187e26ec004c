// Package records is the in-memory record graph a compile produces. Records
// live in typed arenas on Graph and reference each other by FormKey or by
// arena index.
package records

import (
	"slices"

	"github.com/jwebster45206/calamity-forge/pkg/compileerr"
)

const (
	// FirstLocalID is the first id handed out to new records.
	FirstLocalID uint32 = 0x800
	// LastLightID is the highest id a light container may use.
	LastLightID uint32 = 0xFFF
)

type CastType string

const (
	CastFireAndForget  CastType = "FireAndForget"
	CastConstantEffect CastType = "ConstantEffect"
)

type TargetType string

const (
	TargetSelf  TargetType = "Self"
	TargetActor TargetType = "TargetActor"
)

type SpellType string

const (
	SpellTypeSpell   SpellType = "Spell"
	SpellTypeAbility SpellType = "Ability"
)

// MagicEffectFlags mirrors the engine's magic effect flag bits.
type MagicEffectFlags uint32

const (
	FlagHostile     MagicEffectFlags = 0x00000001
	FlagRecover     MagicEffectFlags = 0x00000002
	FlagDetrimental MagicEffectFlags = 0x00000004
)

// QuestFlagStartGameEnabled starts the quest with a new game.
const QuestFlagStartGameEnabled uint16 = 0x0001

type Quest struct {
	FormKey  FormKey      `json:"formKey"`
	EditorID string       `json:"editorId"`
	Name     string       `json:"name,omitempty"`
	Flags    uint16       `json:"flags"`
	Priority uint8        `json:"priority"`
	Scripts  []string     `json:"scripts,omitempty"`
	Aliases  []QuestAlias `json:"aliases,omitempty"`
}

type QuestAlias struct {
	ID              uint32  `json:"id"`
	Name            string  `json:"name"`
	ForcedReference FormKey `json:"forcedReference"`
}

type Keyword struct {
	FormKey  FormKey `json:"formKey"`
	EditorID string  `json:"editorId"`
}

type MagicEffect struct {
	FormKey     FormKey          `json:"formKey"`
	EditorID    string           `json:"editorId"`
	Name        string           `json:"name,omitempty"`
	Archetype   string           `json:"archetype"`
	ActorValue  string           `json:"actorValue"`
	ResistValue string           `json:"resistValue,omitempty"`
	MagicSkill  string           `json:"magicSkill,omitempty"`
	Flags       MagicEffectFlags `json:"flags"`
	CastType    CastType         `json:"castType"`
	TargetType  TargetType       `json:"targetType"`
	HitShader   *FormKey         `json:"hitShader,omitempty"`
	ImpactData  *FormKey         `json:"impactData,omitempty"`
}

type Spell struct {
	FormKey    FormKey    `json:"formKey"`
	EditorID   string     `json:"editorId"`
	Name       string     `json:"name,omitempty"`
	Type       SpellType  `json:"type"`
	CastType   CastType   `json:"castType"`
	TargetType TargetType `json:"targetType"`
	Range      float32    `json:"range"`
	Flags      uint32     `json:"flags"`
	Effects    []Effect   `json:"effects"`
}

// Effect binds a magic effect (by arena index) to a spell.
type Effect struct {
	MagicEffect int     `json:"magicEffect"`
	BaseEffect  FormKey `json:"baseEffect"`
	Magnitude   float32 `json:"magnitude"`
	Duration    int     `json:"duration"`
	Area        int     `json:"area"`
}

type MiscItem struct {
	FormKey  FormKey `json:"formKey"`
	EditorID string  `json:"editorId"`
	Name     string  `json:"name"`
	Model    string  `json:"model"`
	Weight   float32 `json:"weight"`
	Value    uint32  `json:"value"`
}

// LeveledItem is a reward pool. ChanceNone is a fraction in [0,1].
type LeveledItem struct {
	FormKey    FormKey        `json:"formKey"`
	EditorID   string         `json:"editorId,omitempty"`
	ChanceNone float64        `json:"chanceNone"`
	Flags      uint8          `json:"flags"`
	Entries    []LeveledEntry `json:"entries"`
}

type LeveledEntry struct {
	Level     int16   `json:"level"`
	Count     int16   `json:"count"`
	Reference FormKey `json:"reference"`
}

// HasReference reports whether any entry points at ref.
func (l *LeveledItem) HasReference(ref FormKey) bool {
	for _, e := range l.Entries {
		if e.Reference.Same(ref) {
			return true
		}
	}
	return false
}

// AddEntryIfMissing appends a level 1, count 1 entry unless ref is already present.
func (l *LeveledItem) AddEntryIfMissing(ref FormKey) bool {
	if l.HasReference(ref) {
		return false
	}
	l.Entries = append(l.Entries, LeveledEntry{Level: 1, Count: 1, Reference: ref})
	return true
}

// Graph holds every record one compile produces.
type Graph struct {
	ModKey string `json:"modKey"`
	Light  bool   `json:"light"`

	Quests       []Quest       `json:"quests"`
	Keywords     []Keyword     `json:"keywords"`
	MagicEffects []MagicEffect `json:"magicEffects"`
	Spells       []Spell       `json:"spells"`
	MiscItems    []MiscItem    `json:"miscItems"`
	LeveledItems []LeveledItem `json:"leveledItems"`

	NextID uint32 `json:"nextId"`
}

// NewGraph returns an empty graph for the given output container.
func NewGraph(modKey string, light bool) *Graph {
	return &Graph{ModKey: modKey, Light: light, NextID: FirstLocalID}
}

func (g *Graph) alloc() FormKey {
	fk := FormKey{Mod: g.ModKey, ID: g.NextID}
	g.NextID++
	return fk
}

// NewRecordCount is the number of records this container defines itself.
func (g *Graph) NewRecordCount() int {
	return int(g.NextID - FirstLocalID)
}

// CheckCapacity fails when a light container has run past its id range.
func (g *Graph) CheckCapacity() error {
	if g.Light && g.NextID-1 > LastLightID {
		return compileerr.Policy("eslFlag",
			"eslFlag is set but %s defines %d new records; a light container holds at most %d.",
			g.ModKey, g.NewRecordCount(), LastLightID-FirstLocalID+1)
	}
	return nil
}

func (g *Graph) AddQuest(q Quest) int {
	q.FormKey = g.alloc()
	g.Quests = append(g.Quests, q)
	return len(g.Quests) - 1
}

func (g *Graph) AddKeyword(editorID string) int {
	g.Keywords = append(g.Keywords, Keyword{FormKey: g.alloc(), EditorID: editorID})
	return len(g.Keywords) - 1
}

func (g *Graph) AddMagicEffect(m MagicEffect) int {
	m.FormKey = g.alloc()
	g.MagicEffects = append(g.MagicEffects, m)
	return len(g.MagicEffects) - 1
}

func (g *Graph) AddSpell(s Spell) int {
	s.FormKey = g.alloc()
	g.Spells = append(g.Spells, s)
	return len(g.Spells) - 1
}

func (g *Graph) AddMiscItem(m MiscItem) int {
	m.FormKey = g.alloc()
	g.MiscItems = append(g.MiscItems, m)
	return len(g.MiscItems) - 1
}

// AddLeveledItem creates a new leveled list owned by this container.
func (g *Graph) AddLeveledItem(l LeveledItem) int {
	l.FormKey = g.alloc()
	g.LeveledItems = append(g.LeveledItems, l)
	return len(g.LeveledItems) - 1
}

// AddOverride copies an externally owned leveled list into the graph,
// keeping its identity, entries, flags and chance none.
func (g *Graph) AddOverride(base LeveledItem) int {
	cp := base
	cp.Entries = append([]LeveledEntry(nil), base.Entries...)
	g.LeveledItems = append(g.LeveledItems, cp)
	return len(g.LeveledItems) - 1
}

// IsOverride reports whether the leveled list at i belongs to another container.
func (g *Graph) IsOverride(i int) bool {
	return FoldName(g.LeveledItems[i].FormKey.Mod) != FoldName(g.ModKey)
}

// FindLeveledItem returns the index of the leveled list with the given FormKey.
func (g *Graph) FindLeveledItem(fk FormKey) (int, bool) {
	for i := range g.LeveledItems {
		if g.LeveledItems[i].FormKey.Same(fk) {
			return i, true
		}
	}
	return -1, false
}

// FindMagicEffect looks up a magic effect by editor id, case-insensitively.
func (g *Graph) FindMagicEffect(editorID string) (int, bool) {
	key := FoldName(editorID)
	for i := range g.MagicEffects {
		if FoldName(g.MagicEffects[i].EditorID) == key {
			return i, true
		}
	}
	return -1, false
}

// FindSpell looks up a spell by editor id, case-insensitively.
func (g *Graph) FindSpell(editorID string) (int, bool) {
	key := FoldName(editorID)
	for i := range g.Spells {
		if FoldName(g.Spells[i].EditorID) == key {
			return i, true
		}
	}
	return -1, false
}

// FindMiscItem looks up a misc item by exact editor id.
func (g *Graph) FindMiscItem(editorID string) (int, bool) {
	for i := range g.MiscItems {
		if g.MiscItems[i].EditorID == editorID {
			return i, true
		}
	}
	return -1, false
}

// FindLeveledItemByEditorID looks up a leveled list by exact editor id.
func (g *Graph) FindLeveledItemByEditorID(editorID string) (int, bool) {
	for i := range g.LeveledItems {
		if g.LeveledItems[i].EditorID == editorID {
			return i, true
		}
	}
	return -1, false
}

// Clone returns a deep copy; pipeline stages work on clones of their input.
func (g *Graph) Clone() *Graph {
	c := *g
	c.Quests = slices.Clone(g.Quests)
	for i := range c.Quests {
		c.Quests[i].Scripts = slices.Clone(c.Quests[i].Scripts)
		c.Quests[i].Aliases = slices.Clone(c.Quests[i].Aliases)
	}
	c.Keywords = slices.Clone(g.Keywords)
	c.MagicEffects = slices.Clone(g.MagicEffects)
	for i := range c.MagicEffects {
		m := &c.MagicEffects[i]
		if m.HitShader != nil {
			hs := *m.HitShader
			m.HitShader = &hs
		}
		if m.ImpactData != nil {
			id := *m.ImpactData
			m.ImpactData = &id
		}
	}
	c.Spells = slices.Clone(g.Spells)
	for i := range c.Spells {
		c.Spells[i].Effects = slices.Clone(c.Spells[i].Effects)
	}
	c.MiscItems = slices.Clone(g.MiscItems)
	c.LeveledItems = slices.Clone(g.LeveledItems)
	for i := range c.LeveledItems {
		c.LeveledItems[i].Entries = slices.Clone(c.LeveledItems[i].Entries)
	}
	return &c
}

// RecordCount is the total number of records, overrides included.
func (g *Graph) RecordCount() int {
	return len(g.Quests) + len(g.Keywords) + len(g.MagicEffects) + len(g.Spells) +
		len(g.MiscItems) + len(g.LeveledItems)
}
