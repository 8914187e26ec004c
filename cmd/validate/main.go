package main

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/jwebster45206/calamity-forge/pkg/affixspec"
	"github.com/jwebster45206/calamity-forge/pkg/compileerr"
	"github.com/jwebster45206/calamity-forge/pkg/contract"
	"github.com/jwebster45206/calamity-forge/pkg/validate"
)

func main() {
	if len(os.Args) < 2 {
		fmt.Fprintf(os.Stderr, "Usage: %s <affixes.json> [runtime_contract.json]\n", os.Args[0])
		os.Exit(1)
	}

	var contractPath string
	if len(os.Args) > 2 {
		contractPath = os.Args[2]
	}

	if err := validateFile(os.Args[1], contractPath); err != nil {
		fmt.Fprintf(os.Stderr, "Validation failed: %v\n", err)
		os.Exit(1)
	}

	fmt.Println("Affix spec is valid!")
}

func validateFile(filename, contractPath string) error {
	fmt.Printf("Validating %s...\n", filename)

	if !strings.HasSuffix(strings.ToLower(filepath.Base(filename)), ".json") {
		return fmt.Errorf("affix spec must have .json extension: %s", filepath.Base(filename))
	}

	spec, data, err := affixspec.Load(filename)
	if err != nil {
		return err
	}
	fmt.Printf("Decoded %s: %d tags, %d affixes\n", spec.ModKey, len(spec.Keywords.Tags), len(spec.Keywords.Affixes))

	c, err := loadContract(contractPath)
	if err != nil {
		return err
	}
	fmt.Printf("Using runtime contract from %s\n", c.Source())

	vs, err := validate.Validate(data, c)
	if err != nil {
		var ce *compileerr.Error
		if errors.As(err, &ce) && ce.Path != "" {
			return fmt.Errorf("%s at %s: %s", ce.Kind, ce.Path, ce.Msg)
		}
		return err
	}

	fmt.Printf("%s: %d KID rules, %d SPID rules\n", vs.ModKey, len(vs.KIDRules), len(vs.SPIDRules))
	if vs.Loot != nil {
		fmt.Printf("Loot: currencyDropMode=%s\n", vs.Loot.CurrencyDropMode)
	}
	return nil
}

func loadContract(path string) (*contract.Contract, error) {
	if path != "" {
		return contract.LoadFile(path)
	}
	quiet := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))
	return contract.Load(contract.DefaultStartDirs(), quiet), nil
}
