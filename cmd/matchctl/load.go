// Pawmatch - Pet Adoption Matching Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/pawmatch

package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/goccy/go-json"
	"github.com/spf13/cobra"

	"github.com/tomtom215/pawmatch/internal/models"
	"github.com/tomtom215/pawmatch/internal/validation"
)

// loadFile is the input format of the load command.
type loadFile struct {
	Pets        []models.Pet         `json:"pets"`
	Preferences []models.Preferences `json:"preferences"`
}

// loadSummary is printed after a load.
type loadSummary struct {
	Pets        int `json:"pets"`
	Preferences int `json:"preferences"`
	Matches     int `json:"matches"`
}

func newLoadCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "load <file.json>",
		Short: "Validate and upsert pets and adopter preferences from a JSON file",
		Long: `Reads {"pets": [...], "preferences": [...]} and upserts every record.
All records are validated first; nothing is written if any record is invalid.
Pets are re-encoded, then each adopter's matches are recomputed.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			in, err := readLoadFile(args[0])
			if err != nil {
				return err
			}
			return a.withEnv(cmd, func(ctx context.Context, e *env) error {
				summary, err := applyLoad(ctx, e, in)
				if err != nil {
					return err
				}
				if a.jsonOut {
					return a.printJSON(summary)
				}
				_, err = fmt.Fprintf(a.out, "loaded %d pets and %d adopters, %d matches stored\n",
					summary.Pets, summary.Preferences, summary.Matches)
				return err
			})
		},
	}
}

func readLoadFile(path string) (*loadFile, error) {
	data, err := os.ReadFile(path) //nolint:gosec // operator-supplied path
	if err != nil {
		return nil, err
	}
	var in loadFile
	if err := json.Unmarshal(data, &in); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}

	var errs []error
	for i := range in.Pets {
		if verr := validation.ValidatePet(&in.Pets[i]); verr != nil {
			errs = append(errs, fmt.Errorf("pets[%d]: %w", i, verr))
		}
	}
	for i := range in.Preferences {
		if verr := validation.ValidatePreferences(&in.Preferences[i]); verr != nil {
			errs = append(errs, fmt.Errorf("preferences[%d]: %w", i, verr))
		}
	}
	if err := errors.Join(errs...); err != nil {
		return nil, err
	}
	return &in, nil
}

func applyLoad(ctx context.Context, e *env, in *loadFile) (*loadSummary, error) {
	summary := &loadSummary{}
	for i := range in.Pets {
		pet := &in.Pets[i]
		if err := e.db.UpsertPet(ctx, pet); err != nil {
			return summary, fmt.Errorf("upsert pet %d: %w", pet.ID, err)
		}
		if err := e.orch.OnPetChanged(ctx, pet.ID); err != nil {
			return summary, err
		}
		summary.Pets++
	}
	for i := range in.Preferences {
		prefs := &in.Preferences[i]
		if err := e.db.UpsertPreferences(ctx, prefs); err != nil {
			return summary, fmt.Errorf("upsert preferences of user %d: %w", prefs.UserID, err)
		}
		res, err := e.orch.OnPreferencesChanged(ctx, prefs.UserID)
		if err != nil {
			return summary, err
		}
		summary.Preferences++
		summary.Matches += len(res.Matches)
	}
	return summary, nil
}
