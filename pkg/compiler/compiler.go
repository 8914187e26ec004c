// Package compiler runs the full spec to record graph pipeline.
package compiler

import (
	"errors"
	"log/slog"

	"github.com/jwebster45206/calamity-forge/pkg/contract"
	"github.com/jwebster45206/calamity-forge/pkg/merge"
	"github.com/jwebster45206/calamity-forge/pkg/records"
	"github.com/jwebster45206/calamity-forge/pkg/rewards"
	"github.com/jwebster45206/calamity-forge/pkg/synth"
	"github.com/jwebster45206/calamity-forge/pkg/validate"
)

// Options carries the inputs that do not come from the spec document.
type Options struct {
	// Targets replace merge.DefaultTargets when non-empty.
	Targets []records.FormKey
	// Discovered are DeathItem lists found in the loaded masters.
	Discovered []records.FormKey
	// Resolver reads leveled lists from the loaded masters. Required when
	// the spec has a loot policy.
	Resolver merge.Resolver
}

// Result is a completed compile.
type Result struct {
	Spec        *validate.ValidatedSpec
	Graph       *records.Graph
	Pools       rewards.Pools
	Targets     []records.FormKey
	ConfigQuest records.FormKey
}

type Compiler struct {
	contract *contract.Contract
	synth    *synth.Synthesizer
	rewards  *rewards.Allocator
	logger   *slog.Logger
}

func New(c *contract.Contract, logger *slog.Logger) *Compiler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Compiler{
		contract: c,
		synth:    synth.New(logger),
		rewards:  rewards.New(logger),
		logger:   logger,
	}
}

// Compile validates raw and builds the linked record graph. Any error aborts
// the whole run and no partial graph is returned.
func (c *Compiler) Compile(raw []byte, opts Options) (*Result, error) {
	if c.contract == nil {
		return nil, errors.New("compiler has no runtime contract")
	}

	vs, err := validate.Validate(raw, c.contract)
	if err != nil {
		return nil, err
	}
	c.logger.Debug("spec validated",
		"mod_key", vs.ModKey,
		"tags", len(vs.Tags),
		"affixes", len(vs.Affixes),
		"contract", c.contract.Source())

	g, err := c.synth.Synthesize(vs)
	if err != nil {
		return nil, err
	}

	g, pools, err := c.rewards.Allocate(g, vs.Loot, c.contract.RuneLadder())
	if err != nil {
		return nil, err
	}

	var targets []records.FormKey
	if !pools.Empty() {
		targets = merge.Plan(opts.Targets, opts.Discovered)
	}
	g, err = merge.New(opts.Resolver, c.logger).Merge(g, pools, targets)
	if err != nil {
		return nil, err
	}

	if err := g.CheckCapacity(); err != nil {
		return nil, err
	}

	c.logger.Info("compiled spec",
		"mod_key", g.ModKey,
		"new_records", g.NewRecordCount(),
		"overrides", len(targets))
	return &Result{
		Spec:        vs,
		Graph:       g,
		Pools:       pools,
		Targets:     targets,
		ConfigQuest: g.Quests[0].FormKey,
	}, nil
}
