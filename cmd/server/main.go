package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"dreamweaver.app/journal/internal/api"
	"dreamweaver.app/journal/internal/config"
	"dreamweaver.app/journal/internal/core"
	"dreamweaver.app/journal/internal/logger"
	"dreamweaver.app/journal/internal/store"
)

func main() {
	log := logger.New("dreamweaver")

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load configuration")
	}

	local, err := store.NewLocalStore(cfg.DatabasePath)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to open journal database")
	}
	defer local.Close()

	entries := store.NewEntryStore(local, log)

	llmService, err := core.NewLLMService(context.Background(), cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize Gemini client")
	}
	defer llmService.Close()

	journal := core.NewJournalService(entries, llmService, llmService, llmService, cfg.RequestTimeout, log)

	apiHandler := api.NewAPIHandler(journal, log)
	router := api.NewRouter(apiHandler)

	serverAddr := fmt.Sprintf(":%s", cfg.HTTPPort)
	srv := &http.Server{
		Addr:         serverAddr,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 120 * time.Second, // analysis + image generation can take a while
		IdleTimeout:  120 * time.Second,
	}

	go func() {
		log.Info().Str("addr", serverAddr).Int("entries", len(entries.Entries())).Msg("server starting")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Str("addr", serverAddr).Msg("server failed")
		}
	}()

	// Wait for interrupt signal to gracefully shut down the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info().Msg("shutting down server")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal().Err(err).Msg("server forced to shutdown")
	}
	log.Info().Msg("server exited gracefully")
}
