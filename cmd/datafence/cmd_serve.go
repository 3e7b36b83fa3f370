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
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/propagation"

	"github.com/AleutianAI/datafence/services/gateway"
	"github.com/AleutianAI/datafence/services/policy"
)

func newServeCommand() *cobra.Command {
	var (
		addr  string
		watch bool
		debug bool
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the fence API server",
		RunE: func(_ *cobra.Command, _ []string) error {
			return runServe(addr, watch, debug)
		},
	}
	cmd.Flags().StringVar(&addr, "addr", "", "listen address (default from DATAFENCE_LISTEN_ADDR or :8080)")
	cmd.Flags().BoolVar(&watch, "watch", false, "hot-reload the policy file on change")
	cmd.Flags().BoolVar(&debug, "debug", false, "enable debug mode (request logging)")
	return cmd
}

func runServe(addr string, watch, debug bool) error {
	cfg := policy.LoadConfig()
	if addr == "" {
		addr = cfg.ListenAddr
	}
	if policyPath == "" {
		policyPath = cfg.PolicyFile
	}
	watch = watch || cfg.WatchPolicy

	if debug {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}

	// W3C TraceContext propagation so trace context flows from inbound
	// headers through the gateway handlers.
	otel.SetTextMapPropagator(propagation.NewCompositeTextMapPropagator(
		propagation.TraceContext{},
		propagation.Baggage{},
	))

	source, cleanup, err := policySource(watch)
	if err != nil {
		return err
	}
	defer cleanup()

	auditor := policy.NewAuditor(slog.Default(), cfg.AuditEnabled)
	handlers := gateway.NewHandlers(source, auditor, slog.Default())

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(otelgin.Middleware("datafence"))
	if debug {
		router.Use(gin.Logger())
	}
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	v1 := router.Group("/v1")
	gateway.RegisterRoutes(v1, handlers)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-quit
		slog.Info("Shutting down datafence server")
		cleanup()
		os.Exit(0)
	}()

	slog.Info("Starting datafence server",
		slog.String("address", addr),
		slog.String("policy", source.Policy().Name),
	)
	if err := router.Run(addr); err != nil {
		return fmt.Errorf("server: %w", err)
	}
	return nil
}

// policySource resolves the policy source from --policy/--watch: the
// built-in default, a one-shot file load, or a hot-reloading watcher.
func policySource(watch bool) (gateway.PolicySource, func(), error) {
	if policyPath == "" {
		return gateway.Static{P: policy.Default()}, func() {}, nil
	}
	if !watch {
		p, err := policy.LoadFile(policyPath)
		if err != nil {
			return nil, nil, err
		}
		return gateway.Static{P: p}, func() {}, nil
	}
	w, err := policy.NewWatcher(policyPath, slog.Default())
	if err != nil {
		return nil, nil, err
	}
	var once sync.Once
	return w, func() { once.Do(func() { _ = w.Close() }) }, nil
}
