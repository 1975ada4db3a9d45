package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"retailpos/backend/internal/config"
	"retailpos/backend/internal/httpapi"
	"retailpos/backend/internal/service"
	"retailpos/backend/internal/store"
	"retailpos/backend/internal/store/memory"
	"retailpos/backend/internal/store/postgres"
)

func main() {
	cfg := config.Load()

	if err := validateSecurityConfig(cfg); err != nil {
		log.Fatalf("security config: %v", err)
	}

	ctx := context.Background()

	var repo store.Repository
	if cfg.DatabaseURL != "" {
		pg, err := postgres.New(ctx, cfg.DatabaseURL)
		if err != nil {
			log.Fatalf("postgres store: %v", err)
		}
		repo = pg
		log.Printf("using postgres store")
	} else {
		repo = memory.NewSeeded()
		log.Printf("DATABASE_URL not set, using seeded in-memory store")
	}

	svc := service.New(repo)
	auth := httpapi.NewAuthManager(cfg.AuthSecret, time.Duration(cfg.AccessTokenTTLMinutes)*time.Minute, repo)
	if cfg.AdminUsername != "" && cfg.AdminPassword != "" {
		if err := auth.EnsureAdmin(cfg.AdminUsername, cfg.AdminPassword); err != nil {
			log.Fatalf("bootstrap admin: %v", err)
		}
	}
	api := httpapi.New(svc, auth, cfg.AllowedOrigin)

	server := &http.Server{
		Addr:              cfg.Address(),
		Handler:           api.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		log.Printf("listening on %s", cfg.Address())
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("http server: %v", err)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop

	log.Printf("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Printf("shutdown: %v", err)
	}
	if err := repo.Close(); err != nil {
		log.Printf("close store: %v", err)
	}
}

// validateSecurityConfig refuses to boot with a weak or missing auth secret
// when a real database is configured. The in-memory demo mode may run
// without one.
func validateSecurityConfig(cfg config.Config) error {
	if cfg.DatabaseURL == "" && cfg.AuthSecret == "" {
		return nil
	}
	if len(cfg.AuthSecret) < 32 {
		return fmt.Errorf("AUTH_SECRET must be at least 32 characters")
	}
	return nil
}
