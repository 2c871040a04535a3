package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/ericminessale/ai-call-center-core/internal/api"
	"github.com/ericminessale/ai-call-center-core/internal/auth"
	"github.com/ericminessale/ai-call-center-core/internal/broadcast"
	"github.com/ericminessale/ai-call-center-core/internal/classify"
	"github.com/ericminessale/ai-call-center-core/internal/conference"
	"github.com/ericminessale/ai-call-center-core/internal/config"
	"github.com/ericminessale/ai-call-center-core/internal/fabric"
	"github.com/ericminessale/ai-call-center-core/internal/ingest"
	"github.com/ericminessale/ai-call-center-core/internal/metrics"
	"github.com/ericminessale/ai-call-center-core/internal/queuehealth"
	"github.com/ericminessale/ai-call-center-core/internal/storage"
	"github.com/ericminessale/ai-call-center-core/internal/store"
	"github.com/ericminessale/ai-call-center-core/internal/transfer"
	"github.com/ericminessale/ai-call-center-core/internal/websocket"
	"github.com/ericminessale/ai-call-center-core/pkg/middleware"
	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

func main() {
	// Configure logger
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load configuration")
	}

	// Set log level
	level, err := zerolog.ParseLevel(cfg.LogLevel)
	if err != nil {
		log.Warn().Str("level", cfg.LogLevel).Msg("invalid log level, using info")
		level = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(level)

	log.Info().
		Str("port", cfg.Port).
		Strs("allowed_origins", cfg.AllowedOrigins).
		Str("fabric_url", cfg.FabricURL).
		Str("log_level", cfg.LogLevel).
		Msg("starting triage server")

	// Create context for services
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Create WebSocket hub
	hub := websocket.NewHub(log.Logger)
	go hub.Run()

	// Create call state store and conference registry
	st := store.New(log.Logger)
	conferences := conference.NewRegistry(log.Logger)

	// Create archive store (DynamoDB or noop depending on DYNAMODB_MODE)
	archive, err := storage.NewStore(ctx, log.Logger)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize archive store")
	}

	// Create ingest loop and connect it to the telephony fabric
	loop := ingest.New(st, conferences, archive, time.Duration(cfg.RetentionMinutes)*time.Minute, log.Logger)
	go loop.Run(ctx)

	commander := fabric.NewClient(cfg.FabricURL, cfg.FabricCommandTimeout, log.Logger)
	stream := fabric.NewStream(cfg.FabricURL, loop.Events(), log.Logger)
	go stream.Run(ctx)

	// Queue health scoring and attention flagging
	health := queuehealth.Config{
		SLAThresholdSecs: float64(cfg.SLAThresholdSecs),
		WarnWaitingCount: cfg.WarnWaitingCount,
		CritWaitingCount: cfg.CritWaitingCount,
		WarnLongestSecs:  float64(cfg.WarnLongestWaitSecs),
		CritLongestSecs:  float64(cfg.CritLongestWaitSecs),
		TrendMarginPct:   float64(cfg.TrendMarginPct),
	}
	sampler := queuehealth.NewTrendSampler(cfg.TrendSampleWindow)
	attention := classify.AttentionConfig{
		SentimentCutoff:    cfg.AttentionSentiment,
		DurationCutoffSecs: float64(cfg.AttentionDurationSecs),
	}

	// Create snapshot broadcaster
	broadcaster := broadcast.New(st, conferences, hub, health, sampler, cfg.BroadcastInterval, log.Logger)
	go broadcaster.Start(ctx)

	// Create transfer coordinator
	coordinator := transfer.NewCoordinator(st, loop, commander, archive, log.Logger)

	// Create handlers
	wsHandler := websocket.NewHandler(hub, cfg, attention, log.Logger)
	eventsHandler := api.NewEventsHandler(loop, log.Logger)
	triageHandler := api.NewTriageHandler(st, broadcaster, conferences, attention, log.Logger)
	actionsHandler := api.NewActionsHandler(commander, coordinator, log.Logger)
	historyHandler := api.NewHistoryHandler(archive, log.Logger)
	adminHandler := api.NewAdminHandler(archive, log.Logger)

	// Create router
	r := chi.NewRouter()

	// Add middleware
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.Logger(log.Logger))
	r.Use(chimiddleware.Recoverer)
	r.Use(middleware.CORS(cfg.AllowedOrigins))

	// Register public routes (no auth required)
	r.Get("/health", healthHandler)
	r.Get("/metrics", metrics.Get().Handler())

	// Internal routes (no auth - for the fabric bridge and simulators)
	r.Route("/internal", func(r chi.Router) {
		r.Post("/event", eventsHandler.HandleEvent)
		r.Get("/event/stats", eventsHandler.GetStats)
	})

	// Add auth middleware for protected routes
	r.Group(func(r chi.Router) {
		r.Use(auth.Middleware)

		r.Get("/ws", wsHandler.ServeHTTP)

		r.Route("/api", func(r chi.Router) {
			r.Get("/calls", triageHandler.GetCalls)
			r.Get("/calls/{callId}", triageHandler.GetCall)
			r.Get("/queues", triageHandler.GetQueues)
			r.Get("/conference", triageHandler.GetConference)
			r.Get("/conferences", triageHandler.GetConferences)

			r.Post("/calls/{callId}/take", actionsHandler.TakeCall)
			r.Post("/calls/{callId}/transfer", actionsHandler.Transfer)
			r.Post("/calls/{callId}/hold", actionsHandler.Hold(true))
			r.Post("/calls/{callId}/unhold", actionsHandler.Hold(false))
			r.Post("/calls/{callId}/mute", actionsHandler.Mute(true))
			r.Post("/calls/{callId}/unmute", actionsHandler.Mute(false))
			r.Post("/calls/{callId}/digits", actionsHandler.SendDigits)
			r.Post("/agents/status", actionsHandler.SetAgentStatus)

			r.Get("/history/calls", historyHandler.GetCalls)
			r.Get("/history/calls/{callId}/transfers", historyHandler.GetTransfers)
			r.Get("/history/agents/{agentId}/calls", historyHandler.GetAgentCalls)

			r.With(api.RequireAdmin).Post("/admin/archive/truncate", adminHandler.TruncateArchive)
		})
	})

	// Create HTTP server
	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in a goroutine
	go func() {
		log.Info().Msgf("server listening on :%s", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("failed to start server")
		}
	}()

	// Wait for interrupt signal to gracefully shut down the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("shutting down server...")

	// Stop ingest, broadcast and fabric stream
	cancel()

	// Create shutdown context with timeout
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	// Attempt graceful shutdown
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Fatal().Err(err).Msg("server forced to shutdown")
	}

	log.Info().Msg("server stopped")
}

// healthHandler handles health check requests
func healthHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	fmt.Fprintf(w, `{"status":"ok","service":"triage-server"}`)
}
