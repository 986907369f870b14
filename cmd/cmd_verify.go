package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/okian/aigi/internal/domain/snapshot"
)

func newVerifyCommand(c *cli) *cobra.Command {
	var expected string
	cmd := &cobra.Command{
		Use:   "verify [snapshot.json]",
		Short: "Re-hash a snapshot and compare it with its recorded digest",
		Long: `Verify re-canonicalizes a snapshot file and compares the SHA-256 with
--sha256, or with the <file>.sha256 sidecar when no digest is given. Without
a file argument the newest snapshot in snapshot_dir is checked.

Exit status is 0 on a match and 3 on a mismatch.`,
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
			v, err := snapshot.Verify(path, expected)
			if errors.Is(err, snapshot.ErrDigestMismatch) {
				fmt.Fprintf(cmd.OutOrStdout(), "%s: FAILED\n  expected %s\n  actual   %s\n", v.Path, v.Expected, v.Actual)
				return &exitError{code: 3, err: err}
			}
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s: OK %s\n", v.Path, v.Actual)
			return nil
		},
	}
	cmd.Flags().StringVar(&expected, "sha256", "", "expected hex digest")
	return cmd
}
