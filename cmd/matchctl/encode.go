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

func newEncodeCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "encode",
		Short: "Encode and store one feature vector, then print it",
	}

	petCmd := &cobra.Command{
		Use:   "pet <pet-id>",
		Short: "Re-encode a pet; unavailable pets lose their vector and matches",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			petID, err := parseID(args[0], "pet-id")
			if err != nil {
				return err
			}
			return a.withEnv(cmd, func(ctx context.Context, e *env) error {
				pet, err := e.db.GetPet(ctx, petID)
				if err != nil {
					return err
				}
				if pet == nil {
					return fmt.Errorf("%w: %d", recommend.ErrPetNotFound, petID)
				}
				if err := e.orch.OnPetChanged(ctx, petID); err != nil {
					return err
				}
				if !pet.IsAvailable() {
					_, err := fmt.Fprintf(a.out, "pet %d is %s: vector and matches removed\n", petID, pet.Status)
					return err
				}
				return a.printVector(fmt.Sprintf("pet %d", petID), recommend.EncodePet(pet))
			})
		},
	}

	adopterCmd := &cobra.Command{
		Use:   "adopter <user-id>",
		Short: "Re-encode an adopter and recompute their matches",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			userID, err := parseID(args[0], "user-id")
			if err != nil {
				return err
			}
			return a.withEnv(cmd, func(ctx context.Context, e *env) error {
				prefs, err := e.db.GetPreferences(ctx, userID)
				if err != nil {
					return err
				}
				if prefs == nil {
					return fmt.Errorf("%w: user %d", recommend.ErrMissingPreferences, userID)
				}
				vec, err := recommend.EncodeAdopter(prefs)
				if err != nil {
					return err
				}
				if _, err := e.orch.OnPreferencesChanged(ctx, userID); err != nil {
					return err
				}
				return a.printVector(fmt.Sprintf("adopter %d", userID), vec)
			})
		},
	}

	cmd.AddCommand(petCmd, adopterCmd)
	return cmd
}

func (a *app) printVector(label string, vec []float64) error {
	names := recommend.FieldNames()
	if a.jsonOut {
		fields := make(map[string]float64, len(vec))
		for i, v := range vec {
			fields[names[i]] = v
		}
		return a.printJSON(map[string]interface{}{
			"entity":         label,
			"schema_version": recommend.SchemaVersion,
			"vector":         vec,
			"fields":         fields,
		})
	}
	tw := tabwriter.NewWriter(a.out, 0, 0, 2, ' ', 0)
	fmt.Fprintf(tw, "%s (schema v%d)\n", label, recommend.SchemaVersion)
	for i, v := range vec {
		fmt.Fprintf(tw, "%2d\t%s\t%.4f\n", i, names[i], v)
	}
	return tw.Flush()
}
