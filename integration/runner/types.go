package runner

import (
	"encoding/json"
	"time"

	"github.com/jwebster45206/calamity-forge/internal/masters"
)

// TestCase is one end-to-end compile: a spec, the master lists it can
// resolve against, and what the compile must produce.
type TestCase struct {
	Name string          `json:"name"`
	Spec json.RawMessage `json:"spec"`

	// Masters are the containers visible to the merge, in load order.
	Masters  []masters.Container `json:"masters,omitempty"`
	Targets  []string            `json:"targets,omitempty"`
	Discover bool                `json:"discover,omitempty"`

	Expect Expectations `json:"expect"`
}

// Expectations lists checks run after the compile. Nil fields are skipped.
type Expectations struct {
	// Failure
	ErrorKind     *string  `json:"error_kind,omitempty"`
	ErrorContains []string `json:"error_contains,omitempty"`

	// Record counts
	Keywords     *int `json:"keywords,omitempty"`
	MagicEffects *int `json:"magic_effects,omitempty"`
	Spells       *int `json:"spells,omitempty"`
	MiscItems    *int `json:"misc_items,omitempty"`
	NewRecords   *int `json:"new_records,omitempty"`

	ConfigQuest *string `json:"config_quest,omitempty"`

	FragmentPoolEntries *int `json:"fragment_pool_entries,omitempty"`
	OrbPoolEntries      *int `json:"orb_pool_entries,omitempty"`

	// Targets is the exact merge order.
	Targets []string `json:"targets,omitempty"`
	// OverrideEntries maps an override's FormKey to its entry count.
	OverrideEntries map[string]int `json:"override_entries,omitempty"`

	KIDContains  []string `json:"kid_contains,omitempty"`
	SPIDContains []string `json:"spid_contains,omitempty"`
}

// TestResult is the outcome of one case.
type TestResult struct {
	Name     string
	Passed   bool
	Failures []string
	Duration time.Duration
	// Graph is the serialized record graph, empty when the compile failed.
	Graph []byte
}
