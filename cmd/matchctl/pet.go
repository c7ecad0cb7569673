// Pawmatch - Pet Adoption Matching Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/pawmatch

package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/tomtom215/pawmatch/internal/models"
)

var petStatuses = map[string]models.PetStatus{
	"available": models.StatusAvailable,
	"pending":   models.StatusPending,
	"adopted":   models.StatusAdopted,
}

func newPetCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "pet",
		Short: "Pet record operations",
	}

	statusCmd := &cobra.Command{
		Use:   "status <pet-id> <Available|Pending|Adopted>",
		Short: "Set a pet's adoption status and apply the change to vectors and matches",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			petID, err := parseID(args[0], "pet-id")
			if err != nil {
				return err
			}
			status, ok := petStatuses[strings.ToLower(args[1])]
			if !ok {
				return fmt.Errorf("status must be one of Available, Pending, Adopted, got %q", args[1])
			}

			return a.withEnv(cmd, func(ctx context.Context, e *env) error {
				if err := e.db.SetPetStatus(ctx, petID, status); err != nil {
					return fmt.Errorf("set status of pet %d: %w", petID, err)
				}
				if err := e.orch.OnPetChanged(ctx, petID); err != nil {
					return err
				}
				_, err := fmt.Fprintf(a.out, "pet %d is now %s\n", petID, status)
				return err
			})
		},
	}

	cmd.AddCommand(statusCmd)
	return cmd
}
