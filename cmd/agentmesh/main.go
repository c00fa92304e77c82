package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/agentmesh/agentmesh/internal/adapter/a2aclient"
	"github.com/agentmesh/agentmesh/internal/adapter/fsstore"
	"github.com/agentmesh/agentmesh/internal/adapter/gemini"
	amhttp "github.com/agentmesh/agentmesh/internal/adapter/http"
	amnats "github.com/agentmesh/agentmesh/internal/adapter/nats"
	"github.com/agentmesh/agentmesh/internal/adapter/natskv"
	"github.com/agentmesh/agentmesh/internal/adapter/otel"
	"github.com/agentmesh/agentmesh/internal/adapter/ristretto"
	"github.com/agentmesh/agentmesh/internal/adapter/serper"
	"github.com/agentmesh/agentmesh/internal/adapter/tiered"
	"github.com/agentmesh/agentmesh/internal/agent"
	"github.com/agentmesh/agentmesh/internal/config"
	"github.com/agentmesh/agentmesh/internal/domain/capability"
	"github.com/agentmesh/agentmesh/internal/logger"
	"github.com/agentmesh/agentmesh/internal/middleware"
	a2aport "github.com/agentmesh/agentmesh/internal/port/a2a"
	"github.com/agentmesh/agentmesh/internal/port/agentbackend"
	"github.com/agentmesh/agentmesh/internal/port/cache"
	"github.com/agentmesh/agentmesh/internal/port/eventbus"
	"github.com/agentmesh/agentmesh/internal/resilience"
	"github.com/agentmesh/agentmesh/internal/service"
)

func main() {
	if err := run(); err != nil {
		slog.Error("fatal", "error", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("config: %w", err)
	}

	log, logCloser := logger.New(cfg.Logging)
	defer logCloser.Close()
	slog.SetDefault(log)

	slog.Info("config loaded",
		"role", cfg.Agent.Role,
		"port", cfg.Server.Port,
		"log_level", cfg.Logging.Level,
	)

	ctx := context.Background()

	shutdownTracer := otel.InitTracer(cfg.Logging.Service)
	defer func() { _ = shutdownTracer(context.Background()) }()

	metrics, err := otel.NewMetrics()
	if err != nil {
		return fmt.Errorf("metrics: %w", err)
	}

	// --- Infrastructure ---

	var (
		bus     eventbus.Bus
		natsBus *amnats.Bus
	)
	if cfg.NATS.Enabled {
		natsBus, err = amnats.Connect(ctx, cfg.NATS.URL)
		if err != nil {
			return fmt.Errorf("nats: %w", err)
		}
		defer func() { _ = natsBus.Close() }()
		bus = natsBus
	}

	breaker := resilience.NewBreaker(cfg.Breaker.MaxFailures, cfg.Breaker.Timeout)

	gem, err := gemini.New(ctx, cfg.Gemini.APIKey, cfg.Gemini.Model, cfg.Gemini.ImageModel)
	if err != nil {
		return fmt.Errorf("gemini: %w", err)
	}
	gem.SetBreaker(breaker)

	// --- Capability registry ---

	registry := agentbackend.NewRegistry()
	primary, err := registerRole(ctx, cfg, gem, breaker, metrics, natsBus, registry, log)
	if err != nil {
		return err
	}

	// --- HTTP ---

	handler := a2aport.NewHandler(a2aport.AgentMeta{
		Name:        cfg.Agent.Name,
		Description: cfg.Agent.Description,
		BaseURL:     cfg.Agent.BaseURL,
		Primary:     primary,
	}, registry, bus)
	handler.SetMetrics(metrics)

	r := chi.NewRouter()
	r.Use(amhttp.CORS(cfg.Server.CORSOrigin))
	r.Use(amhttp.SecurityHeaders)
	r.Use(middleware.RequestID)
	r.Use(amhttp.Logger)
	r.Use(chimw.RealIP)
	r.Use(chimw.Recoverer)
	r.Use(chimw.Timeout(2 * cfg.Orchestrator.MaxWait))
	r.Use(otel.HTTPMiddleware(cfg.Logging.Service))

	r.Get("/health", healthHandler(cfg, primary))
	handler.MountRoutes(r)

	addr := ":" + cfg.Server.Port
	srv := &http.Server{
		Addr:              addr,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      3 * cfg.Orchestrator.MaxWait,
		IdleTimeout:       120 * time.Second,
	}

	done := make(chan os.Signal, 1)
	signal.Notify(done, os.Interrupt, syscall.SIGTERM)

	go func() {
		slog.Info("starting server", "addr", addr, "role", cfg.Agent.Role)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("server failed", "error", err)
		}
	}()

	<-done
	slog.Info("shutting down server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	return srv.Shutdown(shutdownCtx)
}

// registerRole wires the capability backend for the configured role and
// returns the primary capability the protocol server binds to. The
// assistant role additionally builds the protocol client and the
// orchestrator it drives.
func registerRole(ctx context.Context, cfg *config.Config, gem *gemini.Client, breaker *resilience.Breaker, metrics *otel.Metrics, natsBus *amnats.Bus, registry *agentbackend.Registry, log *slog.Logger) (capability.Kind, error) {
	switch cfg.Agent.Role {
	case config.RoleResearch:
		search := serper.NewClient(cfg.Serper.URL, cfg.Serper.APIKey)
		search.SetBreaker(breaker)
		registry.Register(agent.NewResearchBackend(gem, search, log))
		return capability.KindResearch, nil

	case config.RoleWriting:
		registry.Register(agent.NewWritingBackend(gem, log))
		return capability.KindWriting, nil

	case config.RoleImage:
		registry.Register(agent.NewImageBackend(gem.Images(), fsstore.New(cfg.Storage.ImagesDir), log))
		return capability.KindImage, nil

	case config.RoleReport:
		registry.Register(agent.NewReportBackend(gem, log))
		return capability.KindReport, nil

	case config.RoleAssistant:
		local, err := ristretto.New(cfg.Cache.MaxSizeMB * 1024 * 1024)
		if err != nil {
			return "", fmt.Errorf("cache: %w", err)
		}
		var descCache cache.Cache = local
		if natsBus != nil {
			kv, err := natsBus.KeyValue(ctx, "AGENTMESH_DESCRIPTORS", cfg.Cache.DescriptorTTL)
			if err != nil {
				return "", fmt.Errorf("descriptor kv: %w", err)
			}
			descCache = tiered.New(local, natskv.New(kv), cfg.Cache.DescriptorTTL)
		}
		client := a2aclient.New(cfg.Client, descCache, log)
		orch := service.NewOrchestrator(gem, client, cfg.Orchestrator, metrics, log)
		registry.Register(agent.NewAssistantBackend(orch))
		return capability.KindAssistant, nil
	}
	return "", fmt.Errorf("unknown role %q", cfg.Agent.Role)
}

func healthHandler(cfg *config.Config, primary capability.Kind) http.HandlerFunc {
	type healthStatus struct {
		Status     string `json:"status"`
		Role       string `json:"role"`
		Capability string `json:"capability"`
		NATS       bool   `json:"nats"`
	}

	return func(w http.ResponseWriter, _ *http.Request) {
		status := healthStatus{
			Status:     "ok",
			Role:       cfg.Agent.Role,
			Capability: string(primary),
			NATS:       cfg.NATS.Enabled,
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_ = json.NewEncoder(w).Encode(status)
	}
}
