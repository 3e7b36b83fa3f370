// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/AleutianAI/datafence/services/policy"
)

func newDecideCommand() *cobra.Command {
	var action string

	cmd := &cobra.Command{
		Use:   "decide",
		Short: "Evaluate a JSON document against the policy for an action",
		Long: "Reads a JSON document from stdin and prints the policy decision\n" +
			"for the given action. Exits non-zero when the decision is a denial,\n" +
			"so it can gate scripts and CI steps.",
		RunE: func(_ *cobra.Command, _ []string) error {
			return runDecide(action)
		},
	}
	cmd.Flags().StringVarP(&action, "action", "a", "", "action to evaluate: log, network, storage, analytics")
	_ = cmd.MarkFlagRequired("action")
	return cmd
}

func runDecide(action string) error {
	p := policy.Default()
	if policyPath != "" {
		loaded, err := policy.LoadFile(policyPath)
		if err != nil {
			return err
		}
		p = loaded
	}

	input, err := io.ReadAll(os.Stdin)
	if err != nil {
		return fmt.Errorf("reading stdin: %w", err)
	}

	var doc any
	if err := json.Unmarshal(input, &doc); err != nil {
		return fmt.Errorf("stdin is not valid JSON: %w", err)
	}

	decision, err := policy.Decide(p, policy.Action(action), doc)
	if err != nil {
		return err
	}

	out, err := json.MarshalIndent(decision, "", "  ")
	if err != nil {
		return err
	}
	fmt.Println(string(out))

	if !decision.Allowed {
		return fmt.Errorf("denied: %s", decision.Reason)
	}
	return nil
}
