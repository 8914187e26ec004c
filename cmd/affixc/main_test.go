package main

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tidwall/gjson"

	"github.com/jwebster45206/calamity-forge/internal/config"
	internalstorage "github.com/jwebster45206/calamity-forge/internal/storage"
	"github.com/jwebster45206/calamity-forge/pkg/compileerr"
)

const lootSpec = `{
  "version": 1,
  "modKey": "CalamityAffixes.esp",
  "loot": {"currencyDropMode": "hybrid"},
  "keywords": {
    "tags": [{"editorId": "CAFF_TAG_DOT", "name": "DoT"}],
    "affixes": [{
      "id": "burn", "editorId": "CAFF_AFFIX_BURN", "name": "Burn / 화상",
      "runtime": {"trigger": "Hit", "action": {"type": "DebugNotify"}}
    }]
  }
}`

const mastersFile = `{
  "modKey": "Skyrim.esm",
  "leveledItems": [
    {"formKey": "Skyrim.esm|0009AF0A", "editorId": "DeathItemBandit", "entries": []}
  ]
}`

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	cmd := newRootCmd(&config.Config{LogLevel: slog.LevelError, AutoDiscover: true}, io.Discard)
	cmd.SetOut(&out)
	cmd.SetErr(io.Discard)
	cmd.SetArgs(args)
	err := cmd.ExecuteContext(context.Background())
	return out.String(), err
}

func writeTemp(t *testing.T, dir, name, body string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestCompileCommandWritesOutputs(t *testing.T) {
	dir := t.TempDir()
	spec := writeTemp(t, dir, "affixes.json", lootSpec)
	mastersDir := filepath.Join(dir, "masters")
	require.NoError(t, os.MkdirAll(mastersDir, 0o755))
	writeTemp(t, mastersDir, "Skyrim.esm.records.json", mastersFile)
	dataDir := filepath.Join(dir, "Data")

	mr := miniredis.RunT(t)

	out, err := run(t, "compile",
		"--spec", spec,
		"--data", dataDir,
		"--masters", mastersDir,
		"--target", "Skyrim.esm|0009AF0A",
		"--redis", "redis://"+mr.Addr())
	require.NoError(t, err)
	assert.Contains(t, out, "Compiled CalamityAffixes.esp")
	assert.Contains(t, out, "CalamityAffixes.esp|00000800")

	graph, err := os.ReadFile(filepath.Join(dataDir, "CalamityAffixes.esp.graph.json"))
	require.NoError(t, err)
	override := gjson.GetBytes(graph, `leveledItems.#(editorId=="DeathItemBandit")`)
	require.True(t, override.Exists())
	assert.Len(t, override.Get("entries").Array(), 2)

	store, err := internalstorage.NewRedisStorage("redis://"+mr.Addr(), nil)
	require.NoError(t, err)
	defer store.Close()
	latest, err := store.LatestBuild(context.Background(), "CalamityAffixes.esp")
	require.NoError(t, err)
	require.NotNil(t, latest)
	assert.Equal(t, "CalamityAffixes.esp|00000800", latest.ConfigQuest)
}

func TestCompileCommandDryRun(t *testing.T) {
	dir := t.TempDir()
	spec := writeTemp(t, dir, "affixes.json", `{"version":1,"modKey":"A.esp","keywords":{"tags":[{"editorId":"T"}]}}`)
	dataDir := filepath.Join(dir, "Data")

	out, err := run(t, "compile", "--spec", spec, "--data", dataDir, "--dry-run")
	require.NoError(t, err)
	assert.Contains(t, out, "dry run")
	_, err = os.Stat(dataDir)
	assert.True(t, os.IsNotExist(err))
}

func TestCompileCommandLootWithoutMasters(t *testing.T) {
	dir := t.TempDir()
	spec := writeTemp(t, dir, "affixes.json", lootSpec)
	_, err := run(t, "compile", "--spec", spec, "--data", filepath.Join(dir, "Data"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "--masters")
}

func TestCompileCommandBadTarget(t *testing.T) {
	dir := t.TempDir()
	spec := writeTemp(t, dir, "affixes.json", lootSpec)
	_, err := run(t, "compile", "--spec", spec, "--target", "Skyrim.esm")
	require.Error(t, err)
	assert.Equal(t, compileerr.KindSchema, compileerr.KindOf(err))
}

func TestValidateCommand(t *testing.T) {
	dir := t.TempDir()
	good := writeTemp(t, dir, "good.json", lootSpec)
	bad := writeTemp(t, dir, "bad.json", `{"version":1,"modKey":"../Foo.esp","keywords":{}}`)

	out, err := run(t, "validate", good)
	require.NoError(t, err)
	assert.Contains(t, out, "1 affixes")

	_, err = run(t, "validate", good, bad)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "file name only")
}

func TestContractCommand(t *testing.T) {
	out, err := run(t, "contract")
	require.NoError(t, err)
	assert.Contains(t, out, "Zod")
	assert.Contains(t, out, "fragment pool: 210 entries")

	out, err = run(t, "contract", "--json")
	require.NoError(t, err)
	assert.Len(t, gjson.Get(out, "runewordRuneWeights").Array(), 33)
}

func TestContractFlagRejectsBadFile(t *testing.T) {
	path := writeTemp(t, t.TempDir(), "contract.json", `{"supportedTriggers":[]}`)
	_, err := run(t, "--contract", path, "contract")
	assert.Error(t, err)
}

func TestSchemaCommand(t *testing.T) {
	out := filepath.Join(t.TempDir(), "schema", "affixes.schema.json")
	_, err := run(t, "schema", "--out", out)
	require.NoError(t, err)

	data, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.Equal(t, "Calamity Affixes Spec", gjson.GetBytes(data, "title").String())
	assert.Contains(t, string(data), "modKey")
}
