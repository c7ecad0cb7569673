// Pawmatch - Pet Adoption Matching Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/pawmatch

package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

func newSeedCmd(a *app) *cobra.Command {
	var refresh bool
	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Insert the demo pets and adopters into an empty database",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.withEnv(cmd, func(ctx context.Context, e *env) error {
				summary, err := e.db.SeedDemoData(ctx)
				if err != nil {
					return err
				}
				if a.jsonOut && !refresh {
					return a.printJSON(summary)
				}
				if summary.Skipped {
					fmt.Fprintln(a.out, "database already has pets, seed skipped")
				} else {
					fmt.Fprintf(a.out, "seeded %d pets and %d adopters\n", summary.Pets, summary.Adopters)
				}
				if !refresh {
					return nil
				}
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
	cmd.Flags().BoolVar(&refresh, "refresh", false, "run a batch refresh after seeding")
	return cmd
}
