package main

import (
	"fmt"
	"io"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/okian/aigi/internal/adapters/catalog"
)

func newHistoryCommand(c *cli) *cobra.Command {
	var (
		epochID string
		limit   int
	)
	cmd := &cobra.Command{
		Use:   "history",
		Short: "List catalogued snapshots, newest first",
		Long: `History reads the snapshot catalog and prints one line per published
snapshot. It requires catalog_path to be configured.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			svc, err := c.newService()
			if err != nil {
				return err
			}
			ctx := cmd.Context()
			if err := svc.Start(ctx); err != nil {
				return err
			}
			defer svc.Stop()

			entries, err := svc.History(ctx, epochID, limit)
			if err != nil {
				return err
			}
			renderHistory(cmd.OutOrStdout(), entries)
			return nil
		},
	}
	cmd.Flags().StringVar(&epochID, "epoch", "", "Only list snapshots of this epoch")
	cmd.Flags().IntVar(&limit, "limit", 20, "Maximum entries to list, 0 for all")
	return cmd
}

func renderHistory(w io.Writer, entries []catalog.Entry) {
	if len(entries) == 0 {
		fmt.Fprintln(w, "no snapshots catalogued")
		return
	}
	header := []string{"EPOCH", "TIMESTAMP", "CIS", "MODELS", "SHA256"}
	rows := make([][]string, len(entries))
	for i, e := range entries {
		rows[i] = []string{
			e.EpochID,
			e.Timestamp,
			strconv.FormatFloat(e.CIS, 'f', 4, 64),
			strconv.Itoa(e.Models),
			e.SHA256[:min(12, len(e.SHA256))],
		}
	}
	widths := make([]int, len(header))
	for i, h := range header {
		widths[i] = len(h)
	}
	for _, r := range rows {
		for i, cell := range r {
			widths[i] = max(widths[i], len(cell))
		}
	}
	writeRow := func(cells []string) {
		for i, cell := range cells {
			if i == len(cells)-1 {
				fmt.Fprintln(w, cell)
				continue
			}
			fmt.Fprint(w, padRight(cell, widths[i]+2))
		}
	}
	writeRow(header)
	for _, r := range rows {
		writeRow(r)
	}
}
