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
	"os"
	"strconv"
)

// Config holds process-level configuration for the enforcement library.
//
// Description:
//
//	Loaded from environment variables at startup via LoadConfig(). All
//	fields have safe defaults (enforcement on, audit on, key guessing
//	on). The policy itself comes from PolicyFile when set, otherwise
//	Default().
//
// Thread Safety: Config is a value type. Safe to copy and share after
// loading.
type Config struct {
	// PolicyFile is the path to a YAML policy file. Empty means the
	// built-in default policy.
	// Env: DATAFENCE_POLICY_FILE (default: "")
	PolicyFile string

	// WatchPolicy enables hot reload of PolicyFile on change.
	// Env: DATAFENCE_WATCH_POLICY (default: "false")
	WatchPolicy bool

	// AuditEnabled controls whether decision audit logging is active.
	// Env: DATAFENCE_AUDIT_ENABLED (default: "true")
	AuditEnabled bool

	// GuessByKey enables suspicious-key redaction for unclassified values.
	// Env: DATAFENCE_GUESS_BY_KEY (default: "true")
	GuessByKey bool

	// MaxDepth is the redaction/detection traversal depth limit.
	// Env: DATAFENCE_MAX_DEPTH (default: 25)
	MaxDepth int

	// ListenAddr is the bind address for the demo API server.
	// Env: DATAFENCE_LISTEN_ADDR (default: ":8080")
	ListenAddr string
}

// LoadConfig reads configuration from environment variables.
//
// Outputs:
//   - *Config: Fully populated configuration with safe defaults.
func LoadConfig() *Config {
	return &Config{
		PolicyFile:   os.Getenv("DATAFENCE_POLICY_FILE"),
		WatchPolicy:  envBool("DATAFENCE_WATCH_POLICY", false),
		AuditEnabled: envBool("DATAFENCE_AUDIT_ENABLED", true),
		GuessByKey:   envBool("DATAFENCE_GUESS_BY_KEY", true),
		MaxDepth:     envInt("DATAFENCE_MAX_DEPTH", 25),
		ListenAddr:   envString("DATAFENCE_LISTEN_ADDR", ":8080"),
	}
}

// envBool reads a boolean environment variable with a default value.
func envBool(key string, defaultVal bool) bool {
	val := os.Getenv(key)
	if val == "" {
		return defaultVal
	}
	b, err := strconv.ParseBool(val)
	if err != nil {
		return defaultVal
	}
	return b
}

// envInt reads an integer environment variable with a default value.
func envInt(key string, defaultVal int) int {
	val := os.Getenv(key)
	if val == "" {
		return defaultVal
	}
	n, err := strconv.Atoi(val)
	if err != nil {
		return defaultVal
	}
	return n
}

// envString reads a string environment variable with a default value.
func envString(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}
