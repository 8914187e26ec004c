package main

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/jwebster45206/calamity-forge/pkg/compiler"
	"github.com/jwebster45206/calamity-forge/pkg/emit"
)

var (
	titleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("205")). // pink
			Bold(true)

	labelStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240")). // dark grey
			Width(16)

	valueStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("86")) // green

	warnStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("214")) // yellow

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("196")) // red

	panelStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("62")).
			Padding(0, 1)
)

type summary struct {
	title string
	rows  [][2]string
	note  string
}

func summaryOf(res *compiler.Result, runID, dataDir string, files []emit.File, dryRun bool) summary {
	g := res.Graph
	s := summary{
		title: "Compiled " + g.ModKey,
		rows: [][2]string{
			{"run", runID},
			{"config quest", res.ConfigQuest.String()},
			{"keywords", fmt.Sprint(len(g.Keywords))},
			{"magic effects", fmt.Sprint(len(g.MagicEffects))},
			{"spells", fmt.Sprint(len(g.Spells))},
			{"misc items", fmt.Sprint(len(g.MiscItems))},
			{"new records", fmt.Sprint(g.NewRecordCount())},
			{"overrides", fmt.Sprint(len(res.Targets))},
		},
	}
	if p := res.Pools.RuneFragments; p != nil {
		s.rows = append(s.rows, [2]string{"fragment pool", fmt.Sprintf("%d entries, %.0f%% drop", p.Entries, (1-p.ChanceNone)*100)})
	}
	if p := res.Pools.ReforgeOrb; p != nil {
		s.rows = append(s.rows, [2]string{"orb pool", fmt.Sprintf("%d entries, %.0f%% drop", p.Entries, (1-p.ChanceNone)*100)})
	}

	if dryRun {
		s.note = "dry run: nothing written"
		return s
	}
	paths := make([]string, len(files))
	for i, f := range files {
		paths[i] = filepath.Join(dataDir, f.Path)
	}
	s.rows = append(s.rows, [2]string{"wrote", strings.Join(paths, "\n")})
	return s
}

func renderSummary(s summary) string {
	var b strings.Builder
	b.WriteString(titleStyle.Render(s.title))
	for _, r := range s.rows {
		b.WriteString("\n")
		b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, labelStyle.Render(r[0]), valueStyle.Render(r[1])))
	}
	if s.note != "" {
		b.WriteString("\n")
		b.WriteString(warnStyle.Render(s.note))
	}
	return panelStyle.Render(b.String())
}
