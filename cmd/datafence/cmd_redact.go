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
	"github.com/AleutianAI/datafence/services/redact"
)

func newRedactCommand() *cobra.Command {
	var indent string

	cmd := &cobra.Command{
		Use:   "redact",
		Short: "Redact a JSON document read from stdin",
		Long: "Reads a JSON document from stdin, masks suspicious-keyed values\n" +
			"with the active policy's redaction options, and writes the\n" +
			"sanitized document to stdout.",
		RunE: func(_ *cobra.Command, _ []string) error {
			return runRedact(indent)
		},
	}
	cmd.Flags().StringVar(&indent, "indent", "  ", "indentation for the output JSON")
	return cmd
}

func runRedact(indent string) error {
	opts, err := activeRedactionOptions()
	if err != nil {
		return err
	}

	input, err := io.ReadAll(os.Stdin)
	if err != nil {
		return fmt.Errorf("reading stdin: %w", err)
	}

	var doc any
	if err := json.Unmarshal(input, &doc); err != nil {
		return fmt.Errorf("stdin is not valid JSON: %w", err)
	}

	out, err := redact.SafeJSONStringify(doc, opts, indent)
	if err != nil {
		return err
	}
	fmt.Println(out)
	return nil
}

// activeRedactionOptions resolves redaction options from --policy, or
// defaults when no policy file is given.
func activeRedactionOptions() (*redact.Options, error) {
	if policyPath == "" {
		return redact.DefaultOptions(), nil
	}
	p, err := policy.LoadFile(policyPath)
	if err != nil {
		return nil, err
	}
	return p.Redaction, nil
}
