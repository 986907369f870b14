package main

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/mattn/go-runewidth"
	"github.com/spf13/cobra"

	"github.com/okian/aigi/internal/domain/model"
	"github.com/okian/aigi/internal/domain/snapshot"
)

func newShowCommand(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "show [snapshot.json]",
		Short: "Render a snapshot as a table",
		Long: `Show prints a snapshot's models ranked by model score, with their tier and
pillar scores. Without a file argument the newest snapshot in snapshot_dir is
shown.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var path string
			if len(args) == 1 {
				path = args[0]
			}
			path, err := c.resolveSnapshot(path)
			if err != nil {
				return err
			}
			snap, digest, err := snapshot.Read(path)
			if err != nil {
				return err
			}
			renderSnapshot(cmd.OutOrStdout(), snap, digest)
			return nil
		},
	}
}

var showHeader = []string{"#", "MODEL", "TIER", "SCORE", "INTELLIGENCE", "ADOPTION", "MOMENTUM"}

func renderSnapshot(w io.Writer, s snapshot.Snapshot, digest string) {
	fmt.Fprintf(w, "epoch %s  %s  engine %s\n", s.EpochID, s.Timestamp, s.EngineVersion)
	fmt.Fprintf(w, "CIS %s  models %d\n", formatScore(model.Some(s.CIS)), len(s.Models))
	fmt.Fprintf(w, "sha256 %s\n\n", digest)

	models := make([]snapshot.ModelEntry, len(s.Models))
	copy(models, s.Models)
	sort.SliceStable(models, func(i, j int) bool {
		a, aok := models[i].ModelScore.Get()
		b, bok := models[j].ModelScore.Get()
		if aok != bok {
			return aok
		}
		if a != b {
			return a > b
		}
		return models[i].Name < models[j].Name
	})

	rows := [][]string{showHeader}
	for i, m := range models {
		rows = append(rows, []string{
			fmt.Sprint(i + 1),
			m.Name,
			string(m.Tier),
			formatScore(m.ModelScore),
			formatScore(m.IntelligenceScore),
			formatScore(m.AdoptionScore),
			formatScore(m.MomentumScore),
		})
	}

	widths := make([]int, len(showHeader))
	for _, row := range rows {
		for i, cell := range row {
			widths[i] = max(widths[i], runewidth.StringWidth(cell))
		}
	}
	for _, row := range rows {
		cells := make([]string, len(row))
		for i, cell := range row {
			cells[i] = padRight(cell, widths[i])
		}
		fmt.Fprintln(w, strings.TrimRight(strings.Join(cells, "  "), " "))
	}
}

func formatScore(v model.Value) string {
	f, ok := v.Get()
	if !ok {
		return "-"
	}
	return fmt.Sprintf("%.2f", f)
}

// padRight pads s with spaces so its terminal display width reaches width.
func padRight(s string, width int) string {
	sw := runewidth.StringWidth(s)
	if sw >= width {
		return s
	}
	return s + strings.Repeat(" ", width-sw)
}
