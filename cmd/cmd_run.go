package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

type runFlags struct {
	epochID             string
	timestamp           string
	registry            string
	feeds               string
	out                 string
	noArchive           bool
	previousFromCurrent bool
	redistribute        bool
}

func newRunCommand(c *cli) *cobra.Command {
	var f runFlags
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Score the registry against the feed directory and publish a snapshot",
		Long: `Run loads the model registry and every feed in the feed directory, computes
pillar scores, model scores and the tier-weighted CIS, and writes the snapshot
with its SHA-256 sidecar. The digest and path are printed on stdout.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			flags := cmd.Flags()
			if flags.Changed("epoch-id") {
				c.cfg.EpochID = f.epochID
			}
			if flags.Changed("timestamp") {
				c.cfg.SnapshotTimestamp = f.timestamp
			}
			if flags.Changed("registry") {
				c.cfg.RegistryPath = f.registry
			}
			if flags.Changed("feeds") {
				c.cfg.FeedsDir = f.feeds
			}
			if flags.Changed("out") {
				c.cfg.SnapshotDir = f.out
			}
			if f.noArchive {
				c.cfg.ArchiveRawFeeds = false
			}
			if flags.Changed("previous-from-current") {
				c.cfg.PreviousFromCurrent = f.previousFromCurrent
			}
			if flags.Changed("redistribute") {
				c.cfg.RedistributeMissing = f.redistribute
			}
			if err := c.revalidate(); err != nil {
				return err
			}

			svc, err := c.newService()
			if err != nil {
				return err
			}
			ctx := cmd.Context()
			if err := svc.Start(ctx); err != nil {
				return err
			}
			defer svc.Stop()

			res, err := svc.Run(ctx)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s  %s\n", res.SHA256, res.Path)
			return nil
		},
	}
	cmd.Flags().StringVar(&f.epochID, "epoch-id", "", "epoch label, e.g. 2026-04")
	cmd.Flags().StringVar(&f.timestamp, "timestamp", "", "snapshot timestamp override")
	cmd.Flags().StringVar(&f.registry, "registry", "", "model registry file")
	cmd.Flags().StringVar(&f.feeds, "feeds", "", "feed directory")
	cmd.Flags().StringVar(&f.out, "out", "", "snapshot directory")
	cmd.Flags().BoolVar(&f.noArchive, "no-archive", false, "skip the raw feed archive")
	cmd.Flags().BoolVar(&f.previousFromCurrent, "previous-from-current", false, "fill missing previous-epoch values from current ones")
	cmd.Flags().BoolVar(&f.redistribute, "redistribute", false, "rescale weights over present metrics")
	return cmd
}
