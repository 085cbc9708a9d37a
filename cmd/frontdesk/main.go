package main

import (
	"context"
	"fmt"
	"math"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/gosuda/frontdesk/internal/agent"
	"github.com/gosuda/frontdesk/internal/audit"
	"github.com/gosuda/frontdesk/internal/config"
	"github.com/gosuda/frontdesk/internal/dispatch"
	"github.com/gosuda/frontdesk/internal/domain"
	"github.com/gosuda/frontdesk/internal/llm"
	"github.com/gosuda/frontdesk/internal/notify"
	"github.com/gosuda/frontdesk/internal/router"
	"github.com/gosuda/frontdesk/internal/safety"
	"github.com/gosuda/frontdesk/internal/server"
	"github.com/gosuda/frontdesk/internal/session"
	"github.com/gosuda/frontdesk/internal/store/postgres"
	"github.com/gosuda/frontdesk/internal/tools"
)

func main() {
	if err := run(); err != nil {
		log.Fatal().Err(err).Msg("startup failed")
	}
}

func run() error {
	// Local development convenience; a missing .env is not an error.
	_ = godotenv.Load()

	// Initialize structured logging from environment.
	logLevel := os.Getenv("FRONTDESK_LOG_LEVEL")
	level, parseErr := zerolog.ParseLevel(logLevel)
	if parseErr != nil {
		level = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(level)

	logFormat := os.Getenv("FRONTDESK_LOG_FORMAT")
	if logFormat == "text" {
		log.Logger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stdout}).With().Timestamp().Logger()
	} else {
		log.Logger = zerolog.New(os.Stdout).With().Timestamp().Logger()
	}

	ctx := context.Background()

	// Load configuration from environment.
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	if cfg.Database.MaxConns < 0 || cfg.Database.MaxConns > math.MaxInt32 {
		return fmt.Errorf("database max_conns %d out of int32 range", cfg.Database.MaxConns)
	}

	// Connect to PostgreSQL (tenants, API keys, audit sink).
	store, err := postgres.New(ctx, cfg.Database.DSN(), int32(cfg.Database.MaxConns)) //nolint:gosec // bounds checked above
	if err != nil {
		return err
	}
	defer store.Close()

	// Connect to Redis for session state; the handoff notifier shares the
	// same connection pool.
	sessionStore, err := session.NewRedisStore(ctx, cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
	if err != nil {
		return err
	}
	defer sessionStore.Close()

	notifier := notify.New(notify.NewPubSub(sessionStore.Client()))

	sessions := session.NewManager(sessionStore, cfg.Session.TTL, cfg.Session.MaxUnits, cfg.Session.MaxCondensed)
	auditor := audit.NewLogger(store.Audit())

	// Generation provider and intent router.
	client := llm.NewHTTPClient(cfg.LLM.BaseURL, cfg.LLM.APIKey, cfg.LLM.Timeout)
	intents := router.New(client, cfg.LLM.RouterModel, cfg.LLM.RouterFallback, cfg.Router.ConfidenceThreshold)

	// Tool bridge with the calendar and knowledge backends.
	bridge := tools.NewBridge(cfg.Tools.Timeout)
	calendar := tools.NewCalendarProvider(cfg.Tools.CalendarURL)
	knowledge := tools.NewKnowledgeProvider(cfg.Tools.KnowledgeURL)
	if err := bridge.Register(calendar); err != nil {
		return err
	}
	if err := bridge.Register(knowledge); err != nil {
		return err
	}

	// Domain handlers. Each agent is constructed with its fixed tool set;
	// the registry has no way to hand a handler foreign tools.
	loop := agent.NewLoop(client, bridge, auditor, cfg.Tools.MaxRounds)
	conversation := agent.NewConversationAgent(client, cfg.LLM.DefaultModel)

	registry := agent.NewRegistry()
	if err := registry.Register(agent.NewSchedulingAgent(loop, cfg.LLM.SchedulingModel, calendar.Definitions())); err != nil {
		return err
	}
	if err := registry.Register(agent.NewFAQAgent(loop, cfg.LLM.DefaultModel, knowledge.Definitions())); err != nil {
		return err
	}
	if err := registry.Register(agent.NewHandoffAgent(client, cfg.LLM.DefaultModel)); err != nil {
		return err
	}
	if err := registry.Register(agent.NewCrisisHandler()); err != nil {
		return err
	}
	if err := registry.Register(conversation); err != nil {
		return err
	}
	// The conversation agent also covers goodbye, out-of-scope, and
	// unclassified turns.
	for _, d := range []domain.Domain{domain.DomainGoodbye, domain.DomainOutOfScope, domain.DomainUnknown} {
		if err := registry.RegisterAs(d, conversation); err != nil {
			return err
		}
	}

	// Safety gate: HTTP screening service or pass-through.
	var gate safety.Gate = safety.NoopGate{}
	if cfg.Safety.Enabled {
		gate = safety.NewHTTPGate(cfg.Safety.URL, cfg.Safety.Timeout)
	} else {
		log.Warn().Msg("safety screening disabled; all messages pass through unscreened")
	}

	dispatcher := dispatch.New(sessions, intents, registry, gate, auditor, notifier)

	// Graceful shutdown on SIGINT / SIGTERM.
	ctx, cancel := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer cancel()

	// Create HTTP server with all routes wired.
	srv := server.New(ctx, cfg, store, sessions, dispatcher, auditor)

	// Start server in background goroutine.
	go func() {
		log.Info().Str("addr", cfg.Server.Addr).Msg("starting server")
		if startErr := srv.Start(ctx); startErr != nil {
			log.Error().Err(startErr).Msg("server error")
		}
	}()

	// Block until shutdown signal.
	<-ctx.Done()
	log.Info().Msg("shutting down")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if shutdownErr := srv.Shutdown(shutdownCtx); shutdownErr != nil {
		return shutdownErr
	}

	log.Info().Msg("stopped")
	return nil
}
