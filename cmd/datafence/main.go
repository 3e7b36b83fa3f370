// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Command datafence is the CLI for the data-classification and
// policy-enforcement library.
//
// Usage:
//
//	datafence serve                      # start the fence API server
//	datafence redact < payload.json     # redact a JSON document on stdin
//	datafence decide -a log < doc.json  # evaluate a document for an action
//
// With a policy file:
//
//	datafence serve --policy policy.yaml --watch
//	datafence decide --policy policy.yaml -a network < doc.json
//
// Example requests against the server:
//
//	curl http://localhost:8080/v1/fence/health
//
//	curl -X POST http://localhost:8080/v1/fence/redact \
//	  -H "Content-Type: application/json" \
//	  -d '{"user": "jane", "password": "hunter2"}'
//
//	curl -X POST http://localhost:8080/v1/fence/decide \
//	  -H "Content-Type: application/json" \
//	  -d '{"action": "log", "data": {"msg": "hello"}}'
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// policyPath holds the --policy flag value shared by all subcommands.
var policyPath string

func main() {
	root := &cobra.Command{
		Use:   "datafence",
		Short: "Classify, redact, and police sensitive data at boundaries",
		Long: "datafence tags string values with a security classification and\n" +
			"enforces how classified values may cross boundaries (logging,\n" +
			"network, storage, analytics), redacting them before unsafe sinks.",
		SilenceUsage: true,
	}
	root.PersistentFlags().StringVar(&policyPath, "policy", "", "path to a YAML policy file (default: built-in policy)")

	root.AddCommand(newServeCommand())
	root.AddCommand(newRedactCommand())
	root.AddCommand(newDecideCommand())

	if err := root.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
