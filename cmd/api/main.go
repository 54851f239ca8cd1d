package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"marketcore.dev/internal/auth"
	"marketcore.dev/internal/httpapi"
	"marketcore.dev/internal/obs"
)

var (
	version = "0.3.0"
	commit  = "dev"
)

func main() {
	obs.Init()
	obs.InitBuildInfo(version, commit)

	secret := os.Getenv("MARKETCORE_AUTH_SECRET")
	if secret == "" {
		log.Fatal("MARKETCORE_AUTH_SECRET is required")
	}
	tokens, err := auth.NewTokenService(secret)
	if err != nil {
		log.Fatalf("token service: %v", err)
	}

	// Storage: Postgres when a DSN is set, in-memory otherwise.
	var store auth.Store
	probe := httpapi.ReadyProbe{}
	if dsn := os.Getenv("MARKETCORE_PG_DSN"); dsn != "" {
		pg, err := auth.OpenPG(dsn)
		if err != nil {
			log.Fatalf("open db: %v", err)
		}
		defer pg.Close()
		store = pg
		probe.DB = pg.DB()
	} else {
		log.Println("MARKETCORE_PG_DSN not set, using in-memory store")
		store = auth.NewMemStore()
	}

	svc, err := auth.NewService(store, tokens)
	if err != nil {
		log.Fatalf("auth service: %v", err)
	}
	resolver := auth.NewResolver(tokens, store.Users())
	engine := auth.NewEngine(store.Users())

	api := httpapi.New(probe, version, svc, resolver, engine)

	addr := os.Getenv("MARKETCORE_ADDR")
	if addr == "" {
		addr = ":8080"
	}
	srv := &http.Server{
		Addr:              addr,
		Handler:           api.Handler(),
		ReadTimeout:       15 * time.Second,
		ReadHeaderTimeout: 15 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	log.Printf("Starting marketcore-api %s on %s", version, srv.Addr)

	// graceful shutdown
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("listen: %v", err)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	<-stop
	log.Println("Shutting down...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	_ = srv.Shutdown(ctx)
	log.Println("Stopped")
}
