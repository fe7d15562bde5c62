package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/dkeye/Meet/internal/adapters/engine"
	"github.com/dkeye/Meet/internal/adapters/httpapi"
	"github.com/dkeye/Meet/internal/adapters/platform"
	"github.com/dkeye/Meet/internal/app"
	"github.com/dkeye/Meet/internal/config"
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	// Initialize zerolog global logger early so config.Load can use it.
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	// Human-friendly output for terminal; in production you may want JSON only.
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
	zerolog.SetGlobalLevel(zerolog.InfoLevel)

	cfg, err := config.Load()
	if err != nil {
		log.Error().Err(err).Msg("failed to load config")
	}

	exec := app.NewExecutor(cfg.QueueSize)
	registry := app.NewObserverRegistry()
	dispatcher := app.NewDispatcher(registry, exec)
	eng := engine.New(ctx, dispatcher, engine.WithMedia(engine.DefaultRTCConfig()))
	ctrl := app.NewSessionController(eng, platform.NewDefault(), dispatcher, exec, app.ControllerConfig{
		PortOffset:        cfg.PortOffset,
		SignalingTemplate: cfg.SignalingTemplate,
		Transport:         cfg.Transport,
		SendCodec:         cfg.SendCodec,
		RecvCodec:         cfg.RecvCodec,
	})

	obs := &logObserver{}
	registry.AddLifecycle(obs)
	registry.AddTelemetry(obs)

	go exec.Run(ctx)

	r := httpapi.SetupRouter(cfg, ctrl, dispatcher)
	srv := &http.Server{
		Addr:    cfg.StatusAddr,
		Handler: r,
	}

	go func() {
		log.Info().Str("addr", cfg.StatusAddr).Msg("Meet client started")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error().Err(err).Msg("server error")
		}
	}()

	<-ctx.Done()
	log.Info().Msg("Shutting down")
	if err := ctrl.Stop(); err != nil {
		log.Warn().Err(err).Msg("no session to stop")
	}
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("Server forced to shutdown")
	}
	log.Info().Msg("Client exited gracefully")
}
