// Package contract loads the runtime contract: the legal trigger and action
// type names plus the runeword catalog and rune weight table.
package contract

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/tidwall/gjson"
)

// RelativePath is where the contract document lives relative to a repo root.
const RelativePath = "tools/affix_validation_contract.json"

// SourceBuiltin marks a contract that came from the compiled-in fallback.
const SourceBuiltin = "builtin"

// Recipe is one runeword catalog row.
type Recipe struct {
	ID              string   `json:"id"`
	Name            string   `json:"name"`
	Runes           []string `json:"runes"`
	ResultAffixID   string   `json:"resultAffixId"`
	RecommendedBase string   `json:"recommendedBase,omitempty"`
}

// RuneWeight is a rune tier and its drop weight. Higher is more common.
type RuneWeight struct {
	Rune   string  `json:"rune"`
	Weight float64 `json:"weight"`
}

// Contract is immutable after construction.
type Contract struct {
	triggers    []string
	actionTypes []string
	catalog     []Recipe
	weights     []RuneWeight
	source      string

	triggerSet map[string]struct{}
	actionSet  map[string]struct{}
}

func newContract(triggers, actionTypes []string, catalog []Recipe, weights []RuneWeight, source string) *Contract {
	c := &Contract{
		triggers:    triggers,
		actionTypes: actionTypes,
		catalog:     catalog,
		weights:     weights,
		source:      source,
		triggerSet:  make(map[string]struct{}, len(triggers)),
		actionSet:   make(map[string]struct{}, len(actionTypes)),
	}
	for _, t := range triggers {
		c.triggerSet[t] = struct{}{}
	}
	for _, a := range actionTypes {
		c.actionSet[a] = struct{}{}
	}
	return c
}

// Triggers returns the supported trigger names in document order.
func (c *Contract) Triggers() []string { return append([]string(nil), c.triggers...) }

// ActionTypes returns the supported action types in document order.
func (c *Contract) ActionTypes() []string { return append([]string(nil), c.actionTypes...) }

// Catalog returns the runeword recipes.
func (c *Contract) Catalog() []Recipe { return append([]Recipe(nil), c.catalog...) }

// RuneWeights returns the raw weight table as loaded.
func (c *Contract) RuneWeights() []RuneWeight { return append([]RuneWeight(nil), c.weights...) }

// Source is the file the contract was read from, or SourceBuiltin.
func (c *Contract) Source() string { return c.source }

// HasTrigger matches case-sensitively.
func (c *Contract) HasTrigger(name string) bool {
	_, ok := c.triggerSet[name]
	return ok
}

// HasActionType matches case-sensitively.
func (c *Contract) HasActionType(name string) bool {
	_, ok := c.actionSet[name]
	return ok
}

// TriggerList formats the triggers for error messages, e.g. "Hit, Kill".
func (c *Contract) TriggerList() string { return strings.Join(c.triggers, ", ") }

// ActionTypeList formats the action types for error messages.
func (c *Contract) ActionTypeList() string { return strings.Join(c.actionTypes, ", ") }

// Document is the on-disk shape of a contract.
type Document struct {
	SupportedTriggers    []string     `json:"supportedTriggers"`
	SupportedActionTypes []string     `json:"supportedActionTypes"`
	RunewordCatalog      []Recipe     `json:"runewordCatalog"`
	RunewordRuneWeights  []RuneWeight `json:"runewordRuneWeights"`
}

// Document returns the contract in its on-disk shape, with the rune ladder
// as the weight table.
func (c *Contract) Document() Document {
	return Document{
		SupportedTriggers:    c.Triggers(),
		SupportedActionTypes: c.ActionTypes(),
		RunewordCatalog:      c.Catalog(),
		RunewordRuneWeights:  c.RuneLadder(),
	}
}

// Parse reads a contract document. source is recorded for diagnostics.
func Parse(data []byte, source string) (*Contract, error) {
	if !gjson.ValidBytes(data) {
		return nil, fmt.Errorf("validation contract %s is not valid JSON", source)
	}
	root := gjson.ParseBytes(data)

	triggers, err := readStringSet(root, "supportedTriggers")
	if err != nil {
		return nil, err
	}
	actionTypes, err := readStringSet(root, "supportedActionTypes")
	if err != nil {
		return nil, err
	}

	var doc Document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("failed to decode validation contract %s: %w", source, err)
	}

	catalog := make([]Recipe, 0, len(doc.RunewordCatalog))
	for i, r := range doc.RunewordCatalog {
		if strings.TrimSpace(r.ID) == "" || strings.TrimSpace(r.ResultAffixID) == "" {
			return nil, fmt.Errorf("validation contract runewordCatalog[%d] requires id and resultAffixId", i)
		}
		runes := make([]string, 0, len(r.Runes))
		for _, rn := range r.Runes {
			if rn = strings.TrimSpace(rn); rn != "" {
				runes = append(runes, rn)
			}
		}
		if len(runes) == 0 {
			return nil, fmt.Errorf("validation contract runewordCatalog[%d] (%s) has no runes", i, r.ID)
		}
		r.Runes = runes
		catalog = append(catalog, r)
	}

	weights := make([]RuneWeight, 0, len(doc.RunewordRuneWeights))
	for i, w := range doc.RunewordRuneWeights {
		if strings.TrimSpace(w.Rune) == "" {
			return nil, fmt.Errorf("validation contract runewordRuneWeights[%d] has an empty rune", i)
		}
		if w.Weight <= 0 {
			return nil, fmt.Errorf("validation contract runewordRuneWeights[%d] (%s) weight must be > 0 (got: %v)", i, w.Rune, w.Weight)
		}
		weights = append(weights, w)
	}
	if len(weights) == 0 {
		weights = fallbackRuneWeights()
	}

	return newContract(triggers, actionTypes, catalog, weights, source), nil
}

func readStringSet(root gjson.Result, key string) ([]string, error) {
	prop := root.Get(key)
	if !prop.IsArray() {
		return nil, fmt.Errorf("Validation contract missing array: %s", key)
	}

	var out []string
	seen := map[string]struct{}{}
	for _, item := range prop.Array() {
		if item.Type != gjson.String {
			return nil, fmt.Errorf("Validation contract '%s' entries must be strings.", key)
		}
		v := item.String()
		if strings.TrimSpace(v) == "" {
			return nil, fmt.Errorf("Validation contract '%s' contains an empty value.", key)
		}
		if _, dup := seen[v]; dup {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("Validation contract '%s' must not be empty.", key)
	}
	return out, nil
}

// LoadFile reads and parses the contract at path.
func LoadFile(path string) (*Contract, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read validation contract %s: %w", path, err)
	}
	return Parse(data, path)
}
