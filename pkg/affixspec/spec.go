// Package affixspec holds the affix spec document types and their JSON decoding.
package affixspec

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
)

// Spec is the root of an affix spec document.
type Spec struct {
	Version  int         `json:"version" jsonschema:"description=Spec format version"`
	ModKey   string      `json:"modKey" jsonschema:"description=Output container file name (.esp/.esm/.esl),minLength=1"`
	ESLFlag  bool        `json:"eslFlag" jsonschema:"description=Mark the output container as light"`
	Loot     *LootPolicy `json:"loot,omitempty" jsonschema:"description=Loot and currency drop policy"`
	Keywords KeywordSet  `json:"keywords"`
}

// KeywordSet groups tags, affixes and the pass-through rule collections.
type KeywordSet struct {
	Tags     []Tag     `json:"tags"`
	Affixes  []Affix   `json:"affixes"`
	KIDRules []KIDRule `json:"kidRules"`
	// SPIDRules are opaque to the compiler apart from the "line" field.
	SPIDRules []json.RawMessage `json:"spidRules"`
}

// Tag is a plain keyword definition.
type Tag struct {
	EditorID string `json:"editorId" jsonschema:"minLength=1"`
	Name     string `json:"name"`
}

// Affix is one affix definition.
type Affix struct {
	ID       string       `json:"id" jsonschema:"minLength=1"`
	EditorID string       `json:"editorId" jsonschema:"minLength=1"`
	Name     string       `json:"name"`
	NameEn   string       `json:"nameEn,omitempty"`
	NameKo   string       `json:"nameKo,omitempty"`
	Records  *RecordSpec  `json:"records,omitempty"`
	KID      Distribution `json:"kid"`
	Slot     string       `json:"slot,omitempty"`
	Family   string       `json:"family,omitempty"`
	// Runtime is kept raw; its shape is checked against the runtime contract
	// and decoded into a RuntimeBehavior during validation.
	Runtime json.RawMessage `json:"runtime" jsonschema:"type=object"`
}

// Distribution is the KID filter tuple attached to an affix keyword.
type Distribution struct {
	Type        string  `json:"type"`
	Strings     string  `json:"strings"`
	FormFilters string  `json:"formFilters"`
	Traits      string  `json:"traits"`
	Chance      float64 `json:"chance"`
}

// KIDRule is a free-standing KID distribution line.
type KIDRule struct {
	Comment         string  `json:"comment,omitempty"`
	KeywordEditorID string  `json:"keywordEditorId"`
	Type            string  `json:"type"`
	Strings         string  `json:"strings"`
	FormFilters     string  `json:"formFilters"`
	Traits          string  `json:"traits"`
	Chance          float64 `json:"chance"`
}

// Decode parses a spec document. Unknown fields are tolerated here; the
// validator probes the raw document for fields that must be rejected.
func Decode(data []byte) (*Spec, error) {
	var s Spec
	dec := json.NewDecoder(bytes.NewReader(data))
	if err := dec.Decode(&s); err != nil {
		return nil, fmt.Errorf("failed to parse spec JSON: %w", err)
	}
	return &s, nil
}

// Load reads and decodes a spec file.
func Load(path string) (*Spec, []byte, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to read spec %s: %w", path, err)
	}
	s, err := Decode(data)
	if err != nil {
		return nil, nil, fmt.Errorf("%s: %w", path, err)
	}
	return s, data, nil
}
