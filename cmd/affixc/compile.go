package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
	"github.com/tidwall/gjson"

	"github.com/jwebster45206/calamity-forge/internal/logger"
	"github.com/jwebster45206/calamity-forge/internal/masters"
	internalstorage "github.com/jwebster45206/calamity-forge/internal/storage"
	"github.com/jwebster45206/calamity-forge/pkg/compiler"
	"github.com/jwebster45206/calamity-forge/pkg/emit"
	"github.com/jwebster45206/calamity-forge/pkg/merge"
	"github.com/jwebster45206/calamity-forge/pkg/storage"
)

type compileFlags struct {
	spec       string
	dataDir    string
	masters    string
	loadOrder  string
	targets    []string
	noDiscover bool
	redisURL   string
	dryRun     bool
	timeout    time.Duration
}

func newCompileCmd(a *app) *cobra.Command {
	f := &compileFlags{}
	cmd := &cobra.Command{
		Use:   "compile",
		Short: "Validate a spec, build its records and write all outputs",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := context.WithTimeout(cmd.Context(), f.timeout)
			defer cancel()
			return a.runCompile(ctx, cmd, f)
		},
	}
	cmd.Flags().StringVar(&f.spec, "spec", a.cfg.SpecPath, "affix spec JSON")
	cmd.Flags().StringVar(&f.dataDir, "data", a.cfg.DataDir, "output Data directory")
	cmd.Flags().StringVar(&f.masters, "masters", a.cfg.MastersDir, "directory of exported *.records.json master files")
	cmd.Flags().StringVar(&f.loadOrder, "load-order", a.cfg.LoadOrder, "plugins.txt giving the master load order")
	cmd.Flags().StringSliceVar(&f.targets, "target", a.cfg.Targets, "leveled list to merge currency into, e.g. Skyrim.esm|0009AF0A (repeatable)")
	cmd.Flags().BoolVar(&f.noDiscover, "no-discover", !a.cfg.AutoDiscover, "do not merge into DeathItem lists found in masters")
	cmd.Flags().StringVar(&f.redisURL, "redis", a.cfg.RedisURL, "publish the build to this Redis URL")
	cmd.Flags().BoolVar(&f.dryRun, "dry-run", false, "compile without writing outputs")
	cmd.Flags().DurationVar(&f.timeout, "timeout", 2*time.Minute, "overall time limit")
	return cmd
}

func (a *app) runCompile(ctx context.Context, cmd *cobra.Command, f *compileFlags) error {
	runID := logger.NewRunID()
	log := logger.WithRunID(a.logger, runID)

	c, err := a.loadContract()
	if err != nil {
		return err
	}
	raw, err := os.ReadFile(f.spec)
	if err != nil {
		return fmt.Errorf("failed to read spec: %w", err)
	}

	targets, err := merge.ParseTargets(f.targets, "targets")
	if err != nil {
		return err
	}
	opts := compiler.Options{Targets: targets}

	if f.masters != "" {
		set, err := masters.Load(ctx, f.masters, f.loadOrder, log)
		if err != nil {
			return err
		}
		opts.Resolver = set
		if !f.noDiscover {
			opts.Discovered = set.DiscoverDeathItems(modKeyOf(raw))
			log.Debug("discovered death item lists", "count", len(opts.Discovered))
		}
	}

	res, err := compiler.New(c, log).Compile(raw, opts)
	if err != nil {
		return err
	}

	e := emit.New(f.dataDir, log)
	files, err := e.Render(res, raw, c)
	if err != nil {
		return err
	}
	if !f.dryRun {
		if err := e.Write(files); err != nil {
			return err
		}
	}

	if f.redisURL != "" {
		if err := a.publish(ctx, f.redisURL, runID, res, c.Source()); err != nil {
			return err
		}
	}

	fmt.Fprintln(cmd.OutOrStdout(), renderSummary(summaryOf(res, runID, f.dataDir, files, f.dryRun)))
	return nil
}

func (a *app) publish(ctx context.Context, url, runID string, res *compiler.Result, contractSource string) error {
	store, err := internalstorage.NewRedisStorage(url, a.logger)
	if err != nil {
		return err
	}
	defer store.Close()
	if err := store.Ping(ctx); err != nil {
		return err
	}

	graph, err := json.Marshal(res.Graph)
	if err != nil {
		return fmt.Errorf("failed to marshal record graph: %w", err)
	}
	_, err = storage.Publish(ctx, store, &storage.Build{
		RunID:       runID,
		ModKey:      res.Graph.ModKey,
		ConfigQuest: res.ConfigQuest.String(),
		NewRecords:  res.Graph.NewRecordCount(),
		Overrides:   len(res.Targets),
		Contract:    contractSource,
		CreatedAt:   time.Now().UTC(),
		Graph:       graph,
	}, logger.WithRunID(a.logger, runID))
	return err
}

// modKeyOf reads modKey before validation so discovery can skip the
// output container. Validation reports a bad value later.
func modKeyOf(raw []byte) string {
	return gjson.GetBytes(raw, "modKey").String()
}
