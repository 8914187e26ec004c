// Package masters loads the leveled lists of installed plugins from their
// exported record files and serves them to the merge engine.
package masters

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/jwebster45206/calamity-forge/pkg/merge"
	"github.com/jwebster45206/calamity-forge/pkg/records"
)

// FileSuffix names exported record files: "Skyrim.esm.records.json".
const FileSuffix = ".records.json"

// maxParallel bounds concurrent file reads.
const maxParallel = 8

// Container is one plugin's exported leveled lists.
type Container struct {
	ModKey       string                `json:"modKey"`
	LeveledItems []records.LeveledItem `json:"leveledItems"`
}

// Set is the loaded containers in load order. It is read-only after Load
// and safe for concurrent use.
type Set struct {
	containers []Container
	// winners maps folded "mod|id" to the last loaded version of a record.
	winners map[string]records.LeveledItem
	order   []string
}

var _ merge.Resolver = (*Set)(nil)

// Load reads every *.records.json in dir. loadOrder names a plugins.txt;
// when empty, dir/plugins.txt is used if present.
func Load(ctx context.Context, dir, loadOrder string, logger *slog.Logger) (*Set, error) {
	if logger == nil {
		logger = slog.Default()
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read masters directory: %w", err)
	}
	var files []string
	for _, e := range entries {
		if !e.IsDir() && strings.HasSuffix(strings.ToLower(e.Name()), FileSuffix) {
			files = append(files, e.Name())
		}
	}
	if len(files) == 0 {
		return nil, fmt.Errorf("no %s files found in %s", FileSuffix, dir)
	}

	if loadOrder == "" {
		if p := filepath.Join(dir, "plugins.txt"); fileExists(p) {
			loadOrder = p
		}
	}
	var listed []string
	if loadOrder != "" {
		if listed, err = ReadLoadOrder(loadOrder); err != nil {
			return nil, err
		}
	}
	files = orderFiles(files, listed)

	containers := make([]Container, len(files))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(maxParallel)
	for i, name := range files {
		i, name := i, name
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			c, err := readContainer(filepath.Join(dir, name))
			if err != nil {
				return err
			}
			containers[i] = c
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	s := newSet(containers)
	logger.Info("loaded masters", "containers", len(containers), "leveled_items", len(s.winners))
	return s, nil
}

// NewSet builds a Set from containers already in load order.
func NewSet(containers ...Container) *Set {
	return newSet(containers)
}

func newSet(containers []Container) *Set {
	s := &Set{containers: containers, winners: map[string]records.LeveledItem{}}
	for _, c := range containers {
		for _, l := range c.LeveledItems {
			key := foldKey(l.FormKey)
			if _, seen := s.winners[key]; !seen {
				s.order = append(s.order, key)
			}
			s.winners[key] = l
		}
	}
	return s
}

// ResolveLeveledItem returns the last loaded version of fk.
func (s *Set) ResolveLeveledItem(fk records.FormKey) (records.LeveledItem, bool) {
	l, ok := s.winners[foldKey(fk)]
	if !ok {
		return records.LeveledItem{}, false
	}
	l.Entries = slices.Clone(l.Entries)
	return l, true
}

// LeveledItems returns the winning version of every known list, in the order
// each was first seen.
func (s *Set) LeveledItems() []records.LeveledItem {
	out := make([]records.LeveledItem, 0, len(s.order))
	for _, key := range s.order {
		out = append(out, s.winners[key])
	}
	return out
}

// ModKeys returns the container names in load order.
func (s *Set) ModKeys() []string {
	out := make([]string, len(s.containers))
	for i, c := range s.containers {
		out[i] = c.ModKey
	}
	return out
}

// DiscoverDeathItems finds DeathItem lists owned by non-official plugins.
func (s *Set) DiscoverDeathItems(outputMod string) []records.FormKey {
	return merge.DiscoverDeathItems(s.LeveledItems(), outputMod)
}

// ReadLoadOrder parses a plugins.txt: one plugin per line, an optional "*"
// active marker, "#" comments.
func ReadLoadOrder(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open load order: %w", err)
	}
	defer f.Close()

	var plugins []string
	sc := bufio.NewScanner(f)
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		plugins = append(plugins, strings.TrimSpace(strings.TrimPrefix(line, "*")))
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("failed to read load order: %w", err)
	}
	return plugins, nil
}

// orderFiles puts official masters first, then plugins in listed order, then
// anything unlisted by name.
func orderFiles(files, listed []string) []string {
	byPlugin := map[string]string{}
	for _, f := range files {
		byPlugin[records.FoldName(pluginName(f))] = f
	}

	var out []string
	take := func(plugin string) {
		key := records.FoldName(plugin)
		if f, ok := byPlugin[key]; ok {
			out = append(out, f)
			delete(byPlugin, key)
		}
	}
	for _, m := range merge.OfficialMasters {
		take(m)
	}
	for _, p := range listed {
		take(p)
	}

	var rest []string
	for _, f := range byPlugin {
		rest = append(rest, f)
	}
	slices.SortFunc(rest, func(a, b string) int {
		return strings.Compare(records.FoldName(a), records.FoldName(b))
	})
	return append(out, rest...)
}

func readContainer(path string) (Container, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Container{}, fmt.Errorf("failed to read %s: %w", filepath.Base(path), err)
	}
	var c Container
	if err := json.Unmarshal(data, &c); err != nil {
		return Container{}, fmt.Errorf("failed to parse %s: %w", filepath.Base(path), err)
	}
	if c.ModKey == "" {
		c.ModKey = pluginName(filepath.Base(path))
	}
	return c, nil
}

func pluginName(file string) string {
	return file[:len(file)-len(FileSuffix)]
}

func foldKey(fk records.FormKey) string {
	return fmt.Sprintf("%s|%08X", records.FoldName(fk.Mod), fk.ID)
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}
