// Package emit writes a finished compile to a game Data directory.
package emit

import (
	"bytes"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/jwebster45206/calamity-forge/pkg/compiler"
	"github.com/jwebster45206/calamity-forge/pkg/contract"
	"github.com/jwebster45206/calamity-forge/pkg/ruletext"
)

const (
	KIDFileName  = "CalamityAffixes_KID.ini"
	SPIDFileName = "CalamityAffixes_DISTR.ini"

	inventoryInjectorSchema = "https://raw.githubusercontent.com/Exit-9B/InventoryInjector/main/docs/InventoryInjector.schema.json"
)

var (
	configDir            = filepath.Join("SKSE", "Plugins", "CalamityAffixes")
	inventoryInjectorDir = filepath.Join("SKSE", "Plugins", "InventoryInjector")
)

// File is one rendered output, Path relative to the Data directory.
type File struct {
	Path string
	Data []byte
}

// Emitter renders and writes compile outputs.
type Emitter struct {
	dataDir string
	rules   *ruletext.Writer
	logger  *slog.Logger
}

func New(dataDir string, logger *slog.Logger) *Emitter {
	if logger == nil {
		logger = slog.Default()
	}
	return &Emitter{dataDir: dataDir, rules: ruletext.New(logger), logger: logger}
}

// Render builds every output in memory. raw is the spec document as read,
// mirrored for the runtime.
func (e *Emitter) Render(res *compiler.Result, raw []byte, c *contract.Contract) ([]File, error) {
	graph, err := json.MarshalIndent(res.Graph, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal record graph: %w", err)
	}

	var mirror bytes.Buffer
	if err := json.Indent(&mirror, raw, "", "  "); err != nil {
		return nil, fmt.Errorf("failed to format spec mirror: %w", err)
	}

	contractDoc, err := json.MarshalIndent(c.Document(), "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal runtime contract: %w", err)
	}

	injector, err := json.MarshalIndent(map[string]any{
		"$schema": inventoryInjectorSchema,
		// Affix names are shown by the runtime overlay, not injected as item text.
		"rules": []any{},
	}, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal inventory injector config: %w", err)
	}

	modKey := res.Graph.ModKey
	base := strings.TrimSuffix(modKey, filepath.Ext(modKey))
	return []File{
		{Path: modKey + ".graph.json", Data: newline(graph)},
		{Path: KIDFileName, Data: []byte(e.rules.KID(res.Spec.KIDRules))},
		{Path: SPIDFileName, Data: []byte(e.rules.SPID(res.Spec.SPIDRules))},
		{Path: filepath.Join(configDir, "affixes.json"), Data: newline(mirror.Bytes())},
		{Path: filepath.Join(configDir, "runtime_contract.json"), Data: newline(contractDoc)},
		{Path: filepath.Join(inventoryInjectorDir, base+".json"), Data: newline(injector)},
	}, nil
}

// Write stores files under the Data directory. Every file is first written
// to a temporary name; only when all of them succeed are they renamed into
// place. A failed write removes the temporaries and leaves existing outputs
// untouched.
func (e *Emitter) Write(files []File) error {
	tmps := make([]string, 0, len(files))
	cleanup := func() {
		for _, tmp := range tmps {
			if err := os.Remove(tmp); err != nil && !os.IsNotExist(err) {
				e.logger.Warn("failed to remove temporary output", "path", tmp, "error", err)
			}
		}
	}

	for _, f := range files {
		out := filepath.Join(e.dataDir, f.Path)
		if err := os.MkdirAll(filepath.Dir(out), 0o755); err != nil {
			cleanup()
			return fmt.Errorf("failed to create directory for %s: %w", f.Path, err)
		}
		tmp := out + ".tmp"
		if err := os.WriteFile(tmp, f.Data, 0o644); err != nil {
			cleanup()
			return fmt.Errorf("failed to write %s: %w", f.Path, err)
		}
		tmps = append(tmps, tmp)
	}

	for i, f := range files {
		out := filepath.Join(e.dataDir, f.Path)
		if err := os.Rename(tmps[i], out); err != nil {
			tmps = tmps[i:]
			cleanup()
			return fmt.Errorf("failed to replace %s: %w", f.Path, err)
		}
		e.logger.Debug("wrote output", "path", out, "bytes", len(f.Data))
	}
	return nil
}

// Emit renders and then writes. Nothing is written if rendering fails.
func (e *Emitter) Emit(res *compiler.Result, raw []byte, c *contract.Contract) ([]File, error) {
	files, err := e.Render(res, raw, c)
	if err != nil {
		return nil, err
	}
	if err := e.Write(files); err != nil {
		return nil, err
	}
	return files, nil
}

func newline(b []byte) []byte {
	return append(b, '\n')
}
