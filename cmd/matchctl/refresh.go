// Pawmatch - Pet Adoption Matching Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/pawmatch

package main

import (
	"context"
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/tomtom215/pawmatch/internal/recommend"
)

func newRefreshCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "refresh",
		Short: "Recompute stored matches",
	}

	allCmd := &cobra.Command{
		Use:   "all",
		Short: "Run a full batch refresh over every adopter",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.withEnv(cmd, func(ctx context.Context, e *env) error {
				report, err := e.orch.RefreshAll(ctx)
				if report != nil {
					if perr := a.printReport(report); perr != nil {
						return perr
					}
				}
				return err
			})
		},
	}

	var k int
	userCmd := &cobra.Command{
		Use:   "user <user-id>",
		Short: "Recompute one adopter's matches",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			userID, err := parseID(args[0], "user-id")
			if err != nil {
				return err
			}
			return a.withEnv(cmd, func(ctx context.Context, e *env) error {
				res, err := e.orch.RefreshOne(ctx, userID, k)
				if err != nil {
					return err
				}
				return a.printRefreshResult(res)
			})
		},
	}
	userCmd.Flags().IntVarP(&k, "k", "k", 0, "number of matches to keep (0 = matching.on_demand_top_k)")

	cmd.AddCommand(allCmd, userCmd)
	return cmd
}

func (a *app) printReport(r *recommend.RefreshReport) error {
	if a.jsonOut {
		return a.printJSON(r)
	}
	tw := tabwriter.NewWriter(a.out, 0, 0, 2, ' ', 0)
	fmt.Fprintf(tw, "run id\t%s\n", r.RunID)
	fmt.Fprintf(tw, "duration\t%s\n", r.Duration)
	fmt.Fprintf(tw, "candidates\t%d\n", r.Candidates)
	fmt.Fprintf(tw, "adopters\t%d\n", r.Adopters)
	fmt.Fprintf(tw, "refreshed\t%d\n", r.Refreshed)
	fmt.Fprintf(tw, "skipped\t%d\n", r.Skipped)
	fmt.Fprintf(tw, "failed\t%d\n", r.Failed)
	fmt.Fprintf(tw, "inserted / updated / deleted\t%d / %d / %d\n", r.Inserted, r.Updated, r.Deleted)
	if r.Cancelled {
		fmt.Fprintln(tw, "cancelled\ttrue")
	}
	return tw.Flush()
}

func (a *app) printRefreshResult(res *recommend.RefreshResult) error {
	if a.jsonOut {
		return a.printJSON(res)
	}
	tw := tabwriter.NewWriter(a.out, 0, 0, 2, ' ', 0)
	fmt.Fprintf(tw, "adopter %d: %d inserted, %d updated, %d deleted\n", res.UserID, res.Inserted, res.Updated, res.Deleted)
	fmt.Fprintln(tw, "RANK\tPET\tSCORE")
	for i, m := range res.Matches {
		fmt.Fprintf(tw, "%d\t%d\t%.4f\n", i+1, m.PetID, m.Score)
	}
	return tw.Flush()
}
