package main

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"caregiver-matcher/internal/api"
	"caregiver-matcher/internal/common/camunda"
	"caregiver-matcher/internal/common/config"
	"caregiver-matcher/internal/common/logger"
	findmatches "caregiver-matcher/internal/workers/matching/find-caregiver-matches"
	recordfeedback "caregiver-matcher/internal/workers/matching/record-match-feedback"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"
)

func newServeCmd(root *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API, the Zeebe job workers and the ops endpoints",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := root.load()
			if err != nil {
				return err
			}
			log := logger.NewFromConfig(cfg.Logging)

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			return serve(ctx, cfg, log)
		},
	}
}

func serve(ctx context.Context, cfg *config.Config, log logger.Logger) error {
	log.Info("Starting matching service...", map[string]interface{}{
		"version":         cfg.App.Version,
		"environment":     cfg.App.Environment,
		"candidateSource": cfg.Matching.CandidateSource,
	})

	a, err := newApp(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer a.Close()

	// --- Zeebe workers ---
	var zeebe *camunda.Client
	var workers *camunda.Manager
	if cfg.Camunda.Enabled {
		zeebe, err = camunda.NewClientWithConfig(&camunda.ClientConfig{
			GatewayAddress:         cfg.Camunda.BrokerAddress,
			UsePlaintextConnection: true,
			RequestTimeout:         config.GetDuration(cfg.Camunda.RequestTimeout),
		})
		if err != nil {
			return err
		}
		defer zeebe.Close()
		log.Info("Zeebe client connected successfully", map[string]interface{}{"gateway": cfg.Camunda.BrokerAddress})

		workers = camunda.NewManager(zeebe.GetClient(), log)
		defer workers.Close()
		if err := registerWorkers(workers, cfg, a, log); err != nil {
			return err
		}
	}

	// --- HTTP API ---
	if cfg.App.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	apiServer := &http.Server{
		Addr: cfg.Server.Address,
		Handler: api.NewRouter(api.RouterOptions{
			Service:   a.service,
			RateLimit: cfg.Server.RateLimit,
			Logger:    log,
		}),
		ReadTimeout:  config.GetDuration(cfg.Server.ReadTimeout),
		WriteTimeout: config.GetDuration(cfg.Server.WriteTimeout),
	}

	// --- Health & Metrics ---
	opsServer := &http.Server{
		Addr:              cfg.Server.OpsAddress,
		Handler:           opsHandler(a, zeebe),
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 2)
	for _, srv := range []*http.Server{apiServer, opsServer} {
		go func(srv *http.Server) {
			log.Info("HTTP server listening", map[string]interface{}{"address": srv.Addr})
			if err := srv.ListenAndServe(); err != nil && !stderrors.Is(err, http.ErrServerClosed) {
				errCh <- err
			}
		}(srv)
	}

	select {
	case <-ctx.Done():
		log.Info("Shutdown signal received, stopping...", nil)
	case err = <-errCh:
		log.Error("HTTP server failed", map[string]interface{}{"error": err.Error()})
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), config.GetDuration(cfg.Server.ShutdownTimeout))
	defer cancel()
	for _, srv := range []*http.Server{apiServer, opsServer} {
		if shutdownErr := srv.Shutdown(shutdownCtx); shutdownErr != nil {
			log.Warn("HTTP server shutdown error", map[string]interface{}{"address": srv.Addr, "error": shutdownErr.Error()})
		}
	}

	log.Info("Matching service stopped", nil)
	return err
}

func registerWorkers(m *camunda.Manager, cfg *config.Config, a *app, log logger.Logger) error {
	matchHandler, err := findmatches.NewHandler(findmatches.HandlerOptions{
		AppConfig:     cfg,
		Matcher:       a.service,
		Logger:        log,
		Observability: a.obs,
	})
	if err != nil {
		return err
	}
	m.Register(findmatches.TaskType, config.GetWorkerConfig(cfg, findmatches.TaskType), matchHandler)

	feedbackHandler, err := recordfeedback.NewHandler(recordfeedback.HandlerOptions{
		AppConfig:     cfg,
		Recorder:      a.service,
		Logger:        log,
		Observability: a.obs,
	})
	if err != nil {
		return err
	}
	m.Register(recordfeedback.TaskType, config.GetWorkerConfig(cfg, recordfeedback.TaskType), feedbackHandler)

	log.Info("Workers registered", map[string]interface{}{"taskTypes": m.TaskTypes()})
	return nil
}

// opsHandler serves liveness, readiness and Prometheus metrics.
func opsHandler(a *app, zeebe *camunda.Client) http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		writeStatus(w, http.StatusOK, map[string]string{"status": "healthy"})
	})
	mux.HandleFunc("/ready", func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
		defer cancel()

		err := a.ready(ctx)
		if err == nil && zeebe != nil {
			err = zeebe.HealthCheck(ctx)
		}
		if err != nil {
			writeStatus(w, http.StatusServiceUnavailable, map[string]string{"status": "not ready", "error": err.Error()})
			return
		}
		writeStatus(w, http.StatusOK, map[string]string{"status": "ready"})
	})
	mux.Handle("/metrics", promhttp.Handler())
	return mux
}

func writeStatus(w http.ResponseWriter, status int, body map[string]string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}
