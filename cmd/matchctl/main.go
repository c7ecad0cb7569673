// Pawmatch - Pet Adoption Matching Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/pawmatch

// Package main is matchctl, the operator CLI for the matching engine.
//
// Usage:
//
//	matchctl [flags] <command> [subcommand] [args]
//
// Commands:
//
//	refresh all              run a full batch refresh
//	refresh user <id>        recompute one adopter's matches
//	recommend <id>           print a page of recommendations
//	score <user-id> <pet-id> score one adopter and pet pair
//	encode pet|adopter <id>  print and store one feature vector
//	pet status <id> <status> change a pet's adoption status
//	load <file>              upsert pets and preferences from JSON
//	seed                     insert the demo population
//	notify pet|preferences   publish a change event to a running daemon
//
// matchctl opens the DuckDB file directly. Configuration is read the same
// way as the daemon: defaults, config.yaml, then environment variables.
package main

import (
	"fmt"
	"os"
)

func main() {
	if err := newRootCmd(newApp(os.Stdout)).Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
