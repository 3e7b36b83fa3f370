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
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"github.com/AleutianAI/datafence/services/classify"
	"github.com/AleutianAI/datafence/services/policy"
)

// tokenContextKey is the gin context key holding the classified bearer token.
const tokenContextKey = "datafence.bearer_token"

// BearerToken returns middleware that lifts an Authorization bearer
// token into a classified token value.
//
// Description:
//
//	The raw header string is classified the moment it enters the
//	process, so downstream handlers only ever see a *classify.Value —
//	any attempt to log or serialize it yields the placeholder. Requests
//	without an Authorization header pass through; the middleware does
//	not authenticate.
func BearerToken() gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if raw, ok := strings.CutPrefix(header, "Bearer "); ok && raw != "" {
			token, err := classify.Token(raw)
			if err == nil {
				c.Set(tokenContextKey, token)
			}
		}
		c.Next()
	}
}

// TokenFromContext returns the classified bearer token extracted by the
// BearerToken middleware, if any.
func TokenFromContext(c *gin.Context) (*classify.Value, bool) {
	v, ok := c.Get(tokenContextKey)
	if !ok {
		return nil, false
	}
	token, ok := v.(*classify.Value)
	return token, ok
}

// Respond asserts the network policy over body and writes it as JSON.
//
// Description:
//
//	The enforcement point for every gateway response: the body is
//	deep-scanned before a single byte is written. A policy violation
//	maps to 403 with the decision reason — the classified data never
//	reaches the wire. The evaluation is traced and audited.
//
// Inputs:
//   - c: The gin request context.
//   - status: HTTP status for the allowed case.
//   - body: The response payload about to cross the network boundary.
func (h *Handlers) Respond(c *gin.Context, status int, body any) {
	ctx, span := otel.Tracer("datafence.gateway").Start(c.Request.Context(), "gateway.Respond")
	defer span.End()

	p := h.source.Policy()
	event := policy.Audit(p, policy.ActionNetwork, body)
	h.auditor.LogEvent(ctx, event)

	span.SetAttributes(
		attribute.String("policy", event.Policy),
		attribute.Bool("allowed", event.Decision.Allowed),
	)

	if !event.Decision.Allowed {
		span.SetStatus(codes.Error, event.Decision.Reason)
		c.JSON(http.StatusForbidden, ErrorResponse{
			Error: event.Decision.Reason,
			Code:  "POLICY_VIOLATION",
		})
		return
	}

	span.SetStatus(codes.Ok, "")
	c.JSON(status, body)
}

// statusForPolicyError maps policy errors to HTTP statuses: violations
// are the client's data-handling mistake (403), unknown actions are a
// bad request, anything else is internal.
func statusForPolicyError(err error) int {
	switch {
	case errors.Is(err, policy.ErrViolation):
		return http.StatusForbidden
	case errors.Is(err, policy.ErrUnknownAction):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

// codeForPolicyError maps policy errors to machine-readable error codes,
// mirroring statusForPolicyError.
func codeForPolicyError(err error) string {
	switch {
	case errors.Is(err, policy.ErrViolation):
		return "POLICY_VIOLATION"
	case errors.Is(err, policy.ErrUnknownAction):
		return "UNKNOWN_ACTION"
	default:
		return "INTERNAL_ERROR"
	}
}
