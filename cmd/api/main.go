package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/Sridevivaradharajan/AtlasGuard/internal/application/session"
	"github.com/Sridevivaradharajan/AtlasGuard/internal/config"
	aiclient "github.com/Sridevivaradharajan/AtlasGuard/internal/infra/ai/openai"
	"github.com/Sridevivaradharajan/AtlasGuard/internal/infra/extract"
	"github.com/Sridevivaradharajan/AtlasGuard/internal/infra/httpserver"
)

func main() {
	// path config.yaml
	path := "config.yaml"
	if v := os.Getenv("CONFIG_PATH"); v != "" {
		path = v
	}

	log := logrus.New()
	log.SetFormatter(&logrus.JSONFormatter{})

	// load config
	cfg, err := config.Load(path)
	if err != nil {
		log.Fatalf("config load error: %v", err)
	}

	apiKey := cfg.AI.APIKey
	if v := os.Getenv("OPENAI_API_KEY"); v != "" {
		apiKey = v
	}
	if apiKey == "" {
		log.Fatal("missing AI API key (config ai.apiKey or OPENAI_API_KEY)")
	}

	analyzer := aiclient.NewClient(apiKey, cfg.AI.Model)

	svc := session.New(session.Params{
		Log:       log,
		Analyzer:  analyzer,
		Extractor: extract.NewNative(),
		Clock:     session.SystemClock(),
		Delays: session.Delays{
			Gate:     cfg.GateDelay(),
			Extract:  cfg.ExtractDelay(),
			Decision: cfg.DecisionDelay(),
			RedTeam:  cfg.RedTeamDelay(),
		},
		MaxExcerptChars: cfg.AI.MaxExcerptChars,
		Users:           cfg.Auth.Users,
	})

	handler := httpserver.NewRouter(svc, log, httpserver.Options{
		CORSOrigins:       cfg.Server.CORSOrigins,
		RateLimitCapacity: cfg.RateLimit.Capacity,
		RateLimitRefill:   cfg.RateLimit.RefillRate,
	})

	addr := fmt.Sprintf(":%d", cfg.Server.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      handler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// run server
	go func() {
		log.WithField("addr", addr).Info("server listening")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("server error: %v", err)
		}
	}()

	// graceful shutdown
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop
	log.Info("shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.WithError(err).Error("shutdown error")
	}
}
