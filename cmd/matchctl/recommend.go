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

	"github.com/tomtom215/pawmatch/internal/validation"
)

func newRecommendCmd(a *app) *cobra.Command {
	var page, pageSize int
	cmd := &cobra.Command{
		Use:   "recommend <user-id>",
		Short: "Print one page of an adopter's recommendations",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			userID, err := parseID(args[0], "user-id")
			if err != nil {
				return err
			}
			query := validation.RecommendationQuery{UserID: userID, Page: page, PageSize: pageSize}
			if verr := validation.ValidateStruct(&query); verr != nil {
				return verr
			}

			return a.withEnv(cmd, func(ctx context.Context, e *env) error {
				res, err := e.orch.Recommend(ctx, userID, page, pageSize)
				if err != nil {
					return err
				}
				if a.jsonOut {
					return a.printJSON(res)
				}

				tw := tabwriter.NewWriter(a.out, 0, 0, 2, ' ', 0)
				fmt.Fprintf(tw, "adopter %d, page %d (size %d), %d matches total\n", res.UserID, res.Page, res.PageSize, res.Total)
				fmt.Fprintln(tw, "PET\tNAME\tSPECIES\tBREED\tAGE\tSCORE")
				for _, rec := range res.Results {
					fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%s\t%.2f\n",
						rec.Pet.ID, rec.Pet.Name, rec.Pet.Species, rec.Pet.Breed, rec.Pet.AgeGroup, rec.MatchScore)
				}
				if res.HasMore {
					fmt.Fprintf(tw, "more results: --page %d\n", res.Page+1)
				}
				return tw.Flush()
			})
		},
	}
	cmd.Flags().IntVar(&page, "page", 1, "1-based page number")
	cmd.Flags().IntVar(&pageSize, "page-size", 0, "results per page (0 = matching.default_page_size)")
	return cmd
}

func newScoreCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "score <user-id> <pet-id>",
		Short: "Score one adopter and pet pair without touching matches",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			userID, err := parseID(args[0], "user-id")
			if err != nil {
				return err
			}
			petID, err := parseID(args[1], "pet-id")
			if err != nil {
				return err
			}
			return a.withEnv(cmd, func(ctx context.Context, e *env) error {
				score, err := e.orch.ScorePet(ctx, userID, petID)
				if err != nil {
					return err
				}
				if a.jsonOut {
					return a.printJSON(map[string]interface{}{"user_id": userID, "pet_id": petID, "score": score})
				}
				_, err = fmt.Fprintf(a.out, "%.4f\n", score)
				return err
			})
		},
	}
}
