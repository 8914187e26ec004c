// Package validate checks an affix spec document against the runtime
// contract and produces the normalized ValidatedSpec the synthesizer consumes.
//
// Validation walks the whole document in a fixed order (modKey, loot policy,
// tags, affixes in input order with their nested records, spell references,
// spidRules) and stops at the first violation.
package validate

import (
	"encoding/json"
	"errors"
	"strings"

	"github.com/tidwall/gjson"

	"github.com/jwebster45206/calamity-forge/pkg/affixspec"
	"github.com/jwebster45206/calamity-forge/pkg/compileerr"
	"github.com/jwebster45206/calamity-forge/pkg/contract"
	"github.com/jwebster45206/calamity-forge/pkg/records"
)

// ValidatedSpec is a spec that passed validation, with every singular/plural
// field pair resolved into one list.
type ValidatedSpec struct {
	Version   int
	ModKey    string
	ESL       bool
	Loot      *affixspec.LootPolicy
	Tags      []affixspec.Tag
	Affixes   []Affix
	KIDRules  []affixspec.KIDRule
	SPIDRules []json.RawMessage
	Contract  *contract.Contract
}

// Affix is an affix definition with its runtime block decoded.
type Affix struct {
	affixspec.Affix
	Behavior     affixspec.RuntimeBehavior
	MagicEffects []MagicEffect
	Spells       []Spell
}

// MagicEffect carries canonical enum spellings.
type MagicEffect struct {
	EditorID    string
	Name        string
	ActorValue  string
	ResistValue string
	MagicSkill  string
	Hostile     bool
	Recover     bool
	Archetype   string
}

type Spell struct {
	EditorID string
	Name     string
	Delivery records.TargetType
	Type     records.SpellType
	CastType records.CastType
	Effects  []affixspec.EffectRef
}

var errNilContract = errors.New("validate: runtime contract is required")

// generatedSpellPrefix marks spell editor ids this compiler is expected to generate.
const generatedSpellPrefix = "CAFF_"

// Validate decodes and validates a raw spec document.
func Validate(raw []byte, c *contract.Contract) (*ValidatedSpec, error) {
	if c == nil {
		return nil, errNilContract
	}
	if !gjson.ValidBytes(raw) || !gjson.ParseBytes(raw).IsObject() {
		return nil, compileerr.Schema("", "Failed to parse spec JSON: document must be a JSON object.")
	}
	spec, err := affixspec.Decode(raw)
	if err != nil {
		return nil, compileerr.Schema("", "Failed to parse spec JSON: %v", err)
	}

	if err := validateModKey(spec.ModKey); err != nil {
		return nil, err
	}
	if err := validateLoot(raw, spec.Loot); err != nil {
		return nil, err
	}

	w := &walker{
		contract:        c,
		keywords:        map[string]bool{},
		affixIDs:        map[string]int{},
		magicEffects:    map[string]bool{},
		spells:          map[string]bool{},
		generatedSpells: map[string]bool{},
	}

	for i, tag := range spec.Keywords.Tags {
		if err := w.tag(i, tag); err != nil {
			return nil, err
		}
	}

	affixes := make([]Affix, 0, len(spec.Keywords.Affixes))
	for i, def := range spec.Keywords.Affixes {
		a, err := w.affix(i, def)
		if err != nil {
			return nil, err
		}
		affixes = append(affixes, a)
	}

	if err := w.checkSpellRefs(); err != nil {
		return nil, err
	}
	if err := validateSPIDRules(spec.Keywords.SPIDRules); err != nil {
		return nil, err
	}

	return &ValidatedSpec{
		Version:   spec.Version,
		ModKey:    spec.ModKey,
		ESL:       spec.ESLFlag,
		Loot:      spec.Loot,
		Tags:      spec.Keywords.Tags,
		Affixes:   affixes,
		KIDRules:  spec.Keywords.KIDRules,
		SPIDRules: spec.Keywords.SPIDRules,
		Contract:  c,
	}, nil
}

// walker carries the uniqueness sets for one validation run.
type walker struct {
	contract *contract.Contract

	keywords     map[string]bool
	affixIDs     map[string]int
	magicEffects map[string]bool
	spells       map[string]bool

	generatedSpells map[string]bool
	spellRefs       []spellRef
}

type spellRef struct {
	editorID string
	context  string
}

func (w *walker) tag(i int, tag affixspec.Tag) error {
	if strings.TrimSpace(tag.EditorID) == "" {
		return compileerr.Schema(indexPath("keywords.tags", i)+".editorId",
			"keywords.tags[%d].editorId must be a non-empty string.", i)
	}
	return w.claimKeyword(tag.EditorID, indexPath("keywords.tags", i))
}

func (w *walker) claimKeyword(editorID, path string) error {
	key := records.FoldName(editorID)
	if w.keywords[key] {
		return compileerr.Uniqueness(path+".editorId", "Duplicate keyword editorId: %s", editorID)
	}
	w.keywords[key] = true
	return nil
}

func (w *walker) affix(i int, def affixspec.Affix) (Affix, error) {
	path := indexPath("keywords.affixes", i)
	if strings.TrimSpace(def.ID) == "" {
		return Affix{}, compileerr.Schema(path+".id", "keywords.affixes[%d].id must be a non-empty string.", i)
	}
	if strings.TrimSpace(def.EditorID) == "" {
		return Affix{}, compileerr.Schema(path+".editorId", "keywords.affixes[%d].editorId must be a non-empty string.", i)
	}

	idKey := records.FoldName(strings.TrimSpace(def.ID))
	if prev, ok := w.affixIDs[idKey]; ok {
		return Affix{}, compileerr.Uniqueness(path+".id",
			"Duplicate affix id (case-insensitive): '%s' at keywords.affixes[%d] and keywords.affixes[%d].", def.ID, prev, i)
	}
	w.affixIDs[idKey] = i

	if err := w.claimKeyword(def.EditorID, path); err != nil {
		return Affix{}, err
	}

	behavior, err := validateRuntime(def, w.contract)
	if err != nil {
		return Affix{}, err
	}
	for _, use := range behavior.Action.SpellRefs() {
		w.spellRefs = append(w.spellRefs, spellRef{
			editorID: use.EditorID,
			context:  def.ID + ":action." + use.Field,
		})
	}

	mgefs, err := w.magicEffectList(def)
	if err != nil {
		return Affix{}, err
	}
	spells, err := w.spellList(def)
	if err != nil {
		return Affix{}, err
	}

	return Affix{Affix: def, Behavior: behavior, MagicEffects: mgefs, Spells: spells}, nil
}

// checkSpellRefs requires every CAFF_ spell an action names to be generated
// somewhere in the document.
func (w *walker) checkSpellRefs() error {
	for _, ref := range w.spellRefs {
		if !strings.HasPrefix(ref.editorID, generatedSpellPrefix) {
			continue
		}
		if !w.generatedSpells[ref.editorID] {
			return compileerr.Referential(ref.context,
				"Missing generated spell for reference '%s' (%s). Define it under records.spell or records.spells[].",
				ref.editorID, ref.context)
		}
	}
	return nil
}

// spidDisallowedPrefix is the SPID distribution type the hybrid drop policy replaces.
const spidDisallowedPrefix = "deathitem"

func validateSPIDRules(rules []json.RawMessage) error {
	for i, raw := range rules {
		rule := gjson.ParseBytes(raw)
		if !rule.IsObject() {
			return compileerr.Schema(indexPath("keywords.spidRules", i), "keywords.spidRules[%d] must be an object.", i)
		}
		line := rule.Get("line")
		if line.Type != gjson.String {
			continue
		}
		if strings.HasPrefix(strings.ToLower(strings.TrimLeft(line.Str, " \t\r\n")), spidDisallowedPrefix) {
			return compileerr.Policy(indexPath("keywords.spidRules", i)+".line",
				"keywords.spidRules[%d].line uses DeathItem distribution. Hybrid policy requires Perk distribution + AddLeveledListOnDeath.", i)
		}
	}
	return nil
}
