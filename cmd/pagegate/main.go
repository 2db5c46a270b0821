package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"pagegate/internal/server"
	"pagegate/internal/store"
)

func main() {
	// Local development convenience; a missing .env is fine.
	_ = godotenv.Load()

	addr := getenvDefault("PGT_ADDR", ":8080")

	build := server.BuildInfo{
		Version: getenvDefault("PGT_VERSION", "dev"),
		Commit:  getenvDefault("PGT_COMMIT", "unknown"),
	}

	// Safety: refuse to start without the upload secret.
	token := os.Getenv("PGT_UPLOAD_TOKEN")
	if token == "" {
		log.Printf("service=pagegate msg=%q", "missing PGT_UPLOAD_TOKEN")
		os.Exit(1)
	}

	target := getenvDefault("PGT_TARGET_FILE", "web/index.html")
	st, err := store.New(target)
	if err != nil {
		log.Printf("service=pagegate msg=%q err=%v", "store_init_failed", err)
		os.Exit(1)
	}

	mirror, err := server.NewMirrorFromEnv()
	if err != nil {
		log.Printf("service=pagegate msg=%q err=%v", "mirror_init_failed", err)
		os.Exit(1)
	}
	if mirror == nil {
		log.Printf("service=pagegate msg=%q", "mirror_disabled")
	}

	notifier := server.NewNotifierFromEnv()
	if notifier == nil {
		log.Printf("service=pagegate msg=%q", "webhooks_disabled")
	}

	srv := server.New(server.Config{
		Addr:     addr,
		Build:    build,
		Auth:     server.TokenAuth{Token: token},
		Store:    st,
		Mirror:   mirror,
		Notifier: notifier,
	})

	// Start the HTTP server in a background goroutine so we can listen
	// for OS signals while it runs.
	errCh := make(chan error, 1)
	go func() {
		log.Printf("service=pagegate msg=%q addr=%s target=%s version=%s commit=%s",
			"starting", addr, target, build.Version, build.Commit)
		errCh <- srv.Start()
	}()

	// Graceful shutdown on SIGINT (Ctrl+C) or SIGTERM (container stop).
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)

	select {
	case sig := <-sigCh:
		log.Printf("service=pagegate msg=%q signal=%s", "shutting_down", sig.String())
		// Give in-flight requests 5 seconds to finish.
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(ctx); err != nil {
			log.Printf("service=pagegate msg=%q err=%v", "shutdown_error", err)
			os.Exit(1)
		}
		log.Printf("service=pagegate msg=%q", "shutdown_complete")
	case err := <-errCh:
		if err != nil {
			log.Printf("service=pagegate msg=%q err=%v", "server_error", err)
			os.Exit(1)
		}
	}
}

// getenvDefault reads an environment variable and returns a default value
// if not set.
func getenvDefault(key, def string) string {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	return v
}
