package main

import (
	"encoding/json"

	"github.com/spf13/cobra"
)

func newLatestCommand(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "latest",
		Short: "Print the summary of the newest published snapshot as JSON",
		Long: `Latest looks the newest snapshot up in the catalog, or by modification
time in snapshot_dir when no catalog is configured, and prints its filename,
path, epoch, timestamp, CIS, model count, engine version and digest.`,
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

			latest, err := svc.LoadLatest(ctx)
			if err != nil {
				return err
			}
			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(latest)
		},
	}
}
