package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/jwebster45206/calamity-forge/pkg/validate"
)

func newValidateCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "validate [spec.json...]",
		Short: "Validate specs without building records",
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 {
				args = []string{a.cfg.SpecPath}
			}
			c, err := a.loadContract()
			if err != nil {
				return err
			}

			for _, path := range args {
				raw, err := os.ReadFile(path)
				if err != nil {
					return fmt.Errorf("failed to read spec: %w", err)
				}
				vs, err := validate.Validate(raw, c)
				if err != nil {
					return fmt.Errorf("%s: %w", path, err)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%s %s (%s, %d tags, %d affixes)\n",
					valueStyle.Render("ok"), path, vs.ModKey, len(vs.Tags), len(vs.Affixes))
			}
			return nil
		},
	}
}
