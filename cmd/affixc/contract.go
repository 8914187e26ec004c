package main

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/jwebster45206/calamity-forge/pkg/rewards"
)

func newContractCmd(a *app) *cobra.Command {
	var asJSON bool
	cmd := &cobra.Command{
		Use:   "contract",
		Short: "Show the runtime contract and rune drop ladder in use",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := a.loadContract()
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()

			if asJSON {
				data, err := json.MarshalIndent(c.Document(), "", "  ")
				if err != nil {
					return fmt.Errorf("failed to marshal contract: %w", err)
				}
				fmt.Fprintln(out, string(data))
				return nil
			}

			allocs, err := rewards.Tickets(c.RuneLadder())
			if err != nil {
				return err
			}
			rows := make([][]string, len(allocs))
			for i, al := range allocs {
				rows[i] = []string{
					al.Rune,
					strconv.FormatFloat(al.Weight, 'f', -1, 64),
					strconv.Itoa(al.Tickets),
				}
			}
			t := table.New().
				Border(lipgloss.RoundedBorder()).
				BorderStyle(lipgloss.NewStyle().Foreground(lipgloss.Color("62"))).
				Headers("RUNE", "WEIGHT", "TICKETS").
				Rows(rows...)

			fmt.Fprintln(out, titleStyle.Render("Runtime contract")+" "+labelStyle.UnsetWidth().Render(c.Source()))
			fmt.Fprintln(out, "triggers:     "+strings.Join(c.Triggers(), ", "))
			fmt.Fprintln(out, "action types: "+strings.Join(c.ActionTypes(), ", "))
			fmt.Fprintf(out, "runewords:    %d\n", len(c.Catalog()))
			fmt.Fprintln(out, t.String())
			fmt.Fprintf(out, "fragment pool: %d entries\n", rewards.TotalTickets(allocs))
			return nil
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "print the contract document as JSON")
	return cmd
}
