// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package policy

import (
	"fmt"
	"os"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"

	"github.com/AleutianAI/datafence/services/classify"
	"github.com/AleutianAI/datafence/services/redact"
)

// policyFile mirrors the YAML policy document.
//
// Example:
//
//	name: edge-api
//	allow:
//	  log: [public]
//	  analytics: [public]
//	  network: [public, token]
//	  storage: [public, pii, secret, token, credential]
//	redact_before: [log, analytics]
//	redaction:
//	  guess_by_key: true
//	  max_depth: 25
type policyFile struct {
	Name         string              `yaml:"name" validate:"required"`
	Allow        map[string][]string `yaml:"allow" validate:"required,min=1"`
	RedactBefore []string            `yaml:"redact_before"`
	Redaction    *redactionFile      `yaml:"redaction"`
}

type redactionFile struct {
	GuessByKey *bool `yaml:"guess_by_key"`
	MaxDepth   int   `yaml:"max_depth" validate:"gte=0,lte=10000"`
}

// fileValidator is shared across loads; validator.Validate is
// concurrent-safe.
var fileValidator = validator.New()

// FromYAML parses and validates a YAML policy document.
//
// Description:
//
//	Action and kind names are checked against the closed sets — an
//	unknown action or kind in the file is a load error, not a silent
//	default. Actions missing from the allow table are filled with empty
//	sets so the resulting policy denies all classified data for them
//	(fail closed).
//
// Inputs:
//   - data: The YAML document bytes.
//
// Outputs:
//   - *Policy: The parsed policy.
//   - error: Non-nil on malformed YAML, failed validation, or unknown
//     action/kind names.
func FromYAML(data []byte) (*Policy, error) {
	var pf policyFile
	if err := yaml.Unmarshal(data, &pf); err != nil {
		return nil, fmt.Errorf("policy: parsing yaml: %w", err)
	}
	if err := fileValidator.Struct(&pf); err != nil {
		return nil, fmt.Errorf("policy: invalid policy document: %w", err)
	}

	p := &Policy{
		Name:         pf.Name,
		Allow:        make(map[Action][]classify.Kind, len(Actions)),
		RedactBefore: make(map[Action]bool, len(pf.RedactBefore)),
		Redaction:    redact.DefaultOptions(),
	}

	for name, kinds := range pf.Allow {
		action := Action(name)
		if !action.Valid() {
			return nil, fmt.Errorf("policy %q: allow entry for action %q: %w", pf.Name, name, ErrUnknownAction)
		}
		set := make([]classify.Kind, 0, len(kinds))
		for _, k := range kinds {
			kind := classify.Kind(k)
			if !kind.Valid() {
				return nil, fmt.Errorf("policy %q: action %q allows unknown kind %q", pf.Name, name, k)
			}
			set = append(set, kind)
		}
		p.Allow[action] = set
	}

	// Every action gets an allow-set; missing ones deny all classified data.
	for _, action := range Actions {
		if _, ok := p.Allow[action]; !ok {
			p.Allow[action] = []classify.Kind{}
		}
	}

	for _, name := range pf.RedactBefore {
		action := Action(name)
		if !action.Valid() {
			return nil, fmt.Errorf("policy %q: redact_before entry %q: %w", pf.Name, name, ErrUnknownAction)
		}
		p.RedactBefore[action] = true
	}

	if pf.Redaction != nil {
		if pf.Redaction.GuessByKey != nil {
			p.Redaction.GuessByKey = *pf.Redaction.GuessByKey
		}
		if pf.Redaction.MaxDepth > 0 {
			p.Redaction.MaxDepth = pf.Redaction.MaxDepth
		}
	}

	return p, nil
}

// LoadFile reads and parses a YAML policy file from disk.
//
// Inputs:
//   - path: The policy file path.
//
// Outputs:
//   - *Policy: The parsed policy.
//   - error: Non-nil on read or parse failure.
func LoadFile(path string) (*Policy, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("policy: reading %s: %w", path, err)
	}
	return FromYAML(data)
}
