// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package gateway

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/AleutianAI/datafence/services/policy"
	"github.com/AleutianAI/datafence/services/redact"
)

// RedactResponse wraps the redacted document.
type RedactResponse struct {
	Redacted any `json:"redacted"`
}

// DecideRequest asks for a policy decision over a JSON document.
type DecideRequest struct {
	Action string `json:"action" binding:"required"`
	Data   any    `json:"data"`
}

// HandleHealth handles GET /v1/fence/health.
func (h *Handlers) HandleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": "ok",
		"policy": h.source.Policy().Name,
	})
}

// HandleRedact handles POST /v1/fence/redact.
//
// Description:
//
//	Redacts an arbitrary JSON document with the active policy's
//	redaction options and returns the sanitized copy. Inbound JSON
//	carries no classified values (branding cannot cross a process
//	boundary), so this exercises the suspicious-key heuristic and depth
//	guard.
//
// Response:
//
//	200 OK: RedactResponse
//	400 Bad Request: Body is not valid JSON
func (h *Handlers) HandleRedact(c *gin.Context) {
	requestID := getOrCreateRequestID(c)

	var doc any
	if err := c.ShouldBindJSON(&doc); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error: "request body must be valid JSON",
			Code:  "INVALID_JSON",
		})
		return
	}

	redacted := redact.Redact(doc, h.source.Policy().Redaction)
	h.logger.Debug("document redacted", slog.String("request_id", requestID))
	c.JSON(http.StatusOK, RedactResponse{Redacted: redacted})
}

// HandleDecide handles POST /v1/fence/decide.
//
// Description:
//
//	Evaluates the given document against the active policy for the
//	requested action and returns the decision. Unknown actions are a
//	400, not a decision.
//
// Response:
//
//	200 OK: policy.Decision
//	400 Bad Request: Missing/unknown action or invalid JSON
func (h *Handlers) HandleDecide(c *gin.Context) {
	var req DecideRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error: "body must be JSON with a non-empty action",
			Code:  "INVALID_REQUEST",
		})
		return
	}

	decision, err := policy.Decide(h.source.Policy(), policy.Action(req.Action), req.Data)
	if err != nil {
		c.JSON(statusForPolicyError(err), ErrorResponse{
			Error: err.Error(),
			Code:  codeForPolicyError(err),
		})
		return
	}
	c.JSON(http.StatusOK, decision)
}

// HandleAudit handles POST /v1/fence/audit.
//
// Description:
//
//	Like HandleDecide but never fails: returns a timestamped audit
//	event and emits it through the auditor. Unknown actions fold into a
//	denied decision.
//
// Response:
//
//	200 OK: policy.Event
//	400 Bad Request: Invalid JSON
func (h *Handlers) HandleAudit(c *gin.Context) {
	var req DecideRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error: "body must be JSON with a non-empty action",
			Code:  "INVALID_REQUEST",
		})
		return
	}

	event := policy.Audit(h.source.Policy(), policy.Action(req.Action), req.Data)
	h.auditor.LogEvent(c.Request.Context(), event)
	c.JSON(http.StatusOK, event)
}

// HandleWhoAmI handles GET /v1/fence/whoami.
//
// Description:
//
//	Demonstrates the classified-token flow end to end: the BearerToken
//	middleware classified the Authorization header on the way in, and
//	the response goes out through Respond, so the token itself can
//	never appear in the body (network allows token kind, but the body
//	below only carries its placeholder string form).
func (h *Handlers) HandleWhoAmI(c *gin.Context) {
	token, ok := TokenFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{
			Error: "missing bearer token",
			Code:  "NO_TOKEN",
		})
		return
	}
	h.Respond(c, http.StatusOK, gin.H{
		"token_kind": token.Kind(),
		"token":      token, // marshals as its placeholder
	})
}
