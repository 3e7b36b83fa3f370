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
	"github.com/gin-gonic/gin"
)

// RegisterRoutes registers all fence routes with the router.
//
// Description:
//
//	Registers the /v1/fence/* endpoints with the given Gin router
//	group. The BearerToken middleware is applied to the group so every
//	handler sees classified tokens, never raw Authorization strings.
//
// Endpoints:
//
//	GET  /v1/fence/health - Health check (active policy name)
//	POST /v1/fence/redact - Redact a JSON document
//	POST /v1/fence/decide - Evaluate a document against the policy
//	POST /v1/fence/audit  - Evaluate and emit an audit event
//	GET  /v1/fence/whoami - Classified bearer-token round trip
//
// Example:
//
//	handlers := gateway.NewHandlers(gateway.Static{P: policy.Default()}, auditor, logger)
//
//	v1 := router.Group("/v1")
//	gateway.RegisterRoutes(v1, handlers)
func RegisterRoutes(rg *gin.RouterGroup, handlers *Handlers) {
	fence := rg.Group("/fence")
	fence.Use(BearerToken())
	{
		fence.GET("/health", handlers.HandleHealth)
		fence.POST("/redact", handlers.HandleRedact)
		fence.POST("/decide", handlers.HandleDecide)
		fence.POST("/audit", handlers.HandleAudit)
		fence.GET("/whoami", handlers.HandleWhoAmI)
	}
}
