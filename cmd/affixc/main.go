// Command affixc compiles an affix spec into the record graph, distribution
// rules and runtime config files the game plugin consumes.
package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/jwebster45206/calamity-forge/internal/config"
	"github.com/jwebster45206/calamity-forge/internal/logger"
	"github.com/jwebster45206/calamity-forge/pkg/contract"
)

// app is shared state for one invocation.
type app struct {
	cfg          *config.Config
	logger       *slog.Logger
	contractPath string
	verbose      bool
	logOut       io.Writer
}

func newRootCmd(cfg *config.Config, logOut io.Writer) *cobra.Command {
	a := &app{cfg: cfg, logOut: logOut}

	root := &cobra.Command{
		Use:           "affixc",
		Short:         "Compile affix specs into plugin records and runtime config",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			if a.verbose {
				a.cfg.LogLevel = slog.LevelDebug
			}
			a.logger = logger.Setup(a.cfg, a.logOut)
		},
	}
	root.PersistentFlags().StringVar(&a.contractPath, "contract", cfg.ContractPath, "runtime contract JSON (default: discover tools/affix_validation_contract.json)")
	root.PersistentFlags().BoolVarP(&a.verbose, "verbose", "v", false, "Enable debug logging")

	root.AddCommand(newCompileCmd(a))
	root.AddCommand(newValidateCmd(a))
	root.AddCommand(newContractCmd(a))
	root.AddCommand(newSchemaCmd(a))
	return root
}

// loadContract reads --contract when given, otherwise discovers the
// document and falls back to the builtin contract.
func (a *app) loadContract() (*contract.Contract, error) {
	if a.contractPath != "" {
		return contract.LoadFile(a.contractPath)
	}
	return contract.Load(contract.DefaultStartDirs(), a.logger), nil
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	if err := newRootCmd(cfg, os.Stderr).Execute(); err != nil {
		fmt.Fprintln(os.Stderr, errorStyle.Render(err.Error()))
		os.Exit(1)
	}
}
