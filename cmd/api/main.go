package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/mubashira9/Cosmic-Tracker-sub000/internal"
	"github.com/mubashira9/Cosmic-Tracker-sub000/internal/config"
	"github.com/mubashira9/Cosmic-Tracker-sub000/internal/gateway"
)

func main() {
	// Load and validate configuration
	cfg, err := config.LoadAndValidate()
	if err != nil {
		log.Fatalf("Configuration error: %v", err)
	}

	dsn := cfg.DBDSN
	if dsn == "" && cfg.DBDriver == "sqlite" {
		dsn = "cosmic.db"
	}
	if dsn == "" {
		log.Fatal("DB_DSN environment variable is required")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	db, err := gateway.Open(ctx, cfg.DBDriver, dsn)
	cancel()
	if err != nil {
		log.Fatal("Failed to open database: ", err)
	}

	srv, err := internal.NewServer(gateway.New(db, cfg.DBDriver), cfg, nil)
	if err != nil {
		log.Fatal("Server setup failed: ", err)
	}

	log.Println("Starting Cosmic Tracker API server...")
	log.Printf("Database driver: %s", cfg.DBDriver)
	log.Printf("JWT Issuer: %s", cfg.JWTIssuer)
	log.Printf("JWT Audience: %s", cfg.JWTAudience)
	log.Printf("JWT Expiry: %v", cfg.JWTExpiry)
	log.Printf("Listening on %s", cfg.ListenAddr)

	httpSrv := &http.Server{Addr: cfg.ListenAddr, Handler: srv.Router, ReadHeaderTimeout: 10 * time.Second}
	go func() {
		if err := httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal(err)
		}
	}()

	stop, release := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer release()
	<-stop.Done()

	log.Println("Shutting down...")
	shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancelShutdown()
	if err := httpSrv.Shutdown(shutdownCtx); err != nil {
		log.Printf("HTTP shutdown: %v", err)
	}
	if err := srv.Close(shutdownCtx); err != nil {
		log.Printf("Closing database: %v", err)
	}
}
