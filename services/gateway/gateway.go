// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package gateway is the HTTP consumer surface of the enforcement
// library: Gin middleware and handlers that gate response bodies
// through the policy engine, classify inbound bearer tokens, and expose
// redaction/decision endpoints.
//
// Description:
//
//	The gateway demonstrates the intended call discipline: extract
//	bearer tokens into classified token values at the edge, assert the
//	network action before any response body is written, and map policy
//	violations to 403 responses — a caught data-handling mistake, not
//	an internal fault.
//
// Thread Safety:
//
//	All exported types are safe for concurrent use. Handlers hold only
//	read-only or concurrent-safe state.
package gateway

import (
	"log/slog"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/AleutianAI/datafence/services/policy"
)

// PolicySource supplies the currently active policy. Both a fixed
// policy (Static) and a hot-reloading policy.Watcher satisfy it.
type PolicySource interface {
	Policy() *policy.Policy
}

// Static wraps a fixed policy as a PolicySource.
type Static struct {
	P *policy.Policy
}

// Policy returns the wrapped policy.
func (s Static) Policy() *policy.Policy { return s.P }

// Handlers serves the /v1/fence endpoints.
//
// Thread Safety: Safe for concurrent use.
type Handlers struct {
	source  PolicySource
	auditor *policy.Auditor
	logger  *slog.Logger
}

// NewHandlers creates the gateway handlers.
//
// Inputs:
//   - source: The policy source. Must not be nil.
//   - auditor: Decision audit emitter. nil disables audit logging.
//   - logger: Request logger. nil means slog.Default().
//
// Outputs:
//   - *Handlers: The handlers instance.
func NewHandlers(source PolicySource, auditor *policy.Auditor, logger *slog.Logger) *Handlers {
	if logger == nil {
		logger = slog.Default()
	}
	if auditor == nil {
		auditor = policy.NewAuditor(logger, false)
	}
	return &Handlers{source: source, auditor: auditor, logger: logger}
}

// ErrorResponse is the JSON error envelope for all gateway endpoints.
type ErrorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}

// getOrCreateRequestID returns the inbound X-Request-ID or mints one.
func getOrCreateRequestID(c *gin.Context) string {
	if id := c.GetHeader("X-Request-ID"); id != "" {
		return id
	}
	return uuid.New().String()
}
