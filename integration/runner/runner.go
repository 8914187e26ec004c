package runner

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/tidwall/gjson"

	"github.com/jwebster45206/calamity-forge/internal/masters"
	"github.com/jwebster45206/calamity-forge/pkg/compileerr"
	"github.com/jwebster45206/calamity-forge/pkg/compiler"
	"github.com/jwebster45206/calamity-forge/pkg/contract"
	"github.com/jwebster45206/calamity-forge/pkg/merge"
	"github.com/jwebster45206/calamity-forge/pkg/records"
	"github.com/jwebster45206/calamity-forge/pkg/rewards"
	"github.com/jwebster45206/calamity-forge/pkg/ruletext"
)

// Runner compiles test cases in process and checks their expectations.
type Runner struct {
	Contract *contract.Contract
	Logger   func(format string, args ...interface{})
	// SlogLogger receives the compiler's own logs.
	SlogLogger *slog.Logger
}

// NewRunner creates a runner against the given contract, or the builtin
// contract when c is nil.
func NewRunner(c *contract.Contract) *Runner {
	if c == nil {
		c = contract.Builtin()
	}
	return &Runner{
		Contract:   c,
		Logger:     func(string, ...interface{}) {},
		SlogLogger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
}

// LoadTestCase loads a test case from a JSON file
func LoadTestCase(filename string) (TestCase, error) {
	content, err := os.ReadFile(filename)
	if err != nil {
		return TestCase{}, fmt.Errorf("failed to read test file %s: %w", filename, err)
	}

	var tc TestCase
	if err := json.Unmarshal(content, &tc); err != nil {
		return TestCase{}, fmt.Errorf("failed to parse JSON in %s: %w", filename, err)
	}
	if tc.Name == "" {
		return TestCase{}, fmt.Errorf("test case %s has no name", filename)
	}
	if len(tc.Spec) == 0 {
		return TestCase{}, fmt.Errorf("test case %s has no spec", filename)
	}
	return tc, nil
}

// Run compiles one case and checks every expectation it sets.
func (r *Runner) Run(tc TestCase) TestResult {
	start := time.Now()
	result := TestResult{Name: tc.Name}
	fail := func(format string, args ...interface{}) {
		result.Failures = append(result.Failures, fmt.Sprintf(format, args...))
	}

	res, err := r.compile(tc)
	result.Duration = time.Since(start)
	exp := tc.Expect

	if err != nil {
		r.Logger("   compile failed: %v", err)
		if exp.ErrorKind == nil && len(exp.ErrorContains) == 0 {
			fail("unexpected error: %v", err)
		}
		if exp.ErrorKind != nil {
			if got := string(compileerr.KindOf(err)); got != *exp.ErrorKind {
				fail("error kind: expected %s, got %s", *exp.ErrorKind, got)
			}
		}
		for _, s := range exp.ErrorContains {
			if !strings.Contains(err.Error(), s) {
				fail("error %q does not contain %q", err.Error(), s)
			}
		}
		result.Passed = len(result.Failures) == 0
		return result
	}

	if exp.ErrorKind != nil || len(exp.ErrorContains) > 0 {
		fail("expected a compile error, compile succeeded")
	}

	g := res.Graph
	checkCount(fail, "keywords", exp.Keywords, len(g.Keywords))
	checkCount(fail, "magic effects", exp.MagicEffects, len(g.MagicEffects))
	checkCount(fail, "spells", exp.Spells, len(g.Spells))
	checkCount(fail, "misc items", exp.MiscItems, len(g.MiscItems))
	checkCount(fail, "new records", exp.NewRecords, g.NewRecordCount())

	if exp.ConfigQuest != nil && res.ConfigQuest.String() != *exp.ConfigQuest {
		fail("config quest: expected %s, got %s", *exp.ConfigQuest, res.ConfigQuest)
	}
	if exp.FragmentPoolEntries != nil {
		checkCount(fail, "fragment pool entries", exp.FragmentPoolEntries, poolEntries(res.Pools.RuneFragments))
	}
	if exp.OrbPoolEntries != nil {
		checkCount(fail, "orb pool entries", exp.OrbPoolEntries, poolEntries(res.Pools.ReforgeOrb))
	}

	if exp.Targets != nil {
		got := make([]string, len(res.Targets))
		for i, fk := range res.Targets {
			got[i] = fk.String()
		}
		if strings.Join(got, ",") != strings.Join(exp.Targets, ",") {
			fail("targets: expected %v, got %v", exp.Targets, got)
		}
	}
	for key, want := range exp.OverrideEntries {
		fk, err := records.ParseFormKey(key, "override_entries")
		if err != nil {
			fail("%v", err)
			continue
		}
		idx, ok := g.FindLeveledItem(fk)
		if !ok {
			fail("no leveled list %s in output", key)
			continue
		}
		if n := len(g.LeveledItems[idx].Entries); n != want {
			fail("%s entries: expected %d, got %d", key, want, n)
		}
	}

	rules := ruletext.New(r.SlogLogger)
	checkText(fail, "KID", rules.KID(res.Spec.KIDRules), exp.KIDContains)
	checkText(fail, "SPID", rules.SPID(res.Spec.SPIDRules), exp.SPIDContains)

	graph, err := json.Marshal(g)
	if err != nil {
		fail("failed to marshal graph: %v", err)
	}
	result.Graph = graph
	result.Passed = len(result.Failures) == 0
	return result
}

func (r *Runner) compile(tc TestCase) (*compiler.Result, error) {
	targets, err := merge.ParseTargets(tc.Targets, "targets")
	if err != nil {
		return nil, err
	}
	opts := compiler.Options{Targets: targets}
	if len(tc.Masters) > 0 {
		set := masters.NewSet(tc.Masters...)
		opts.Resolver = set
		if tc.Discover {
			opts.Discovered = set.DiscoverDeathItems(gjson.GetBytes(tc.Spec, "modKey").String())
		}
	}
	return compiler.New(r.Contract, r.SlogLogger).Compile(tc.Spec, opts)
}

func checkCount(fail func(string, ...interface{}), what string, want *int, got int) {
	if want != nil && *want != got {
		fail("%s: expected %d, got %d", what, *want, got)
	}
}

func checkText(fail func(string, ...interface{}), what, text string, wants []string) {
	for _, s := range wants {
		if !strings.Contains(text, s) {
			fail("%s output does not contain %q", what, s)
		}
	}
}

func poolEntries(p *rewards.Pool) int {
	if p == nil {
		return 0
	}
	return p.Entries
}
