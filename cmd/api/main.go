package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"mdcsite/api/internal/app"
	"mdcsite/api/internal/archive"
	"mdcsite/api/internal/assistant"
	"mdcsite/api/internal/config"
	"mdcsite/api/internal/content"
	"mdcsite/api/internal/images"
	"mdcsite/api/internal/kv"
	"mdcsite/api/internal/search"
)

func main() {
	cfg := config.Load()
	ctx := context.Background()

	var backend kv.Store
	if strings.TrimSpace(cfg.RedisURL) != "" {
		log.Printf("Using Redis for content storage")
		redisStore, err := kv.NewRedisStore(cfg.RedisURL)
		if err != nil {
			log.Fatalf("redis connection failed: %v", err)
		}
		backend = redisStore
	} else {
		log.Printf("Using PostgreSQL for content storage")
		pgStore, err := kv.OpenPostgres(ctx, cfg.DatabaseURL)
		if err != nil {
			log.Fatalf("database connection failed: %v", err)
		}
		backend = pgStore
	}
	defer backend.Close()

	store := content.NewStore(backend)
	archiveSvc := archive.New(cfg.ArchiveDir)

	var meiliClient *search.Meili
	if strings.TrimSpace(cfg.MeiliURL) != "" {
		meiliClient = search.NewMeili(cfg.MeiliURL, cfg.MeiliMasterKey)
		defer meiliClient.Close()
	}
	searchService := search.NewService(meiliClient, search.NewMemory())

	var uploader images.Uploader
	if strings.TrimSpace(cfg.MinIOEndpoint) != "" {
		minioUploader, err := images.NewMinioUploader(cfg)
		if err != nil {
			log.Fatalf("minio connection failed: %v", err)
		}
		log.Printf("Using MinIO for image uploads")
		uploader = minioUploader
	}

	assistantService := assistant.New(cfg.AssistantAPIBase)

	service := app.New(cfg, store, backend, archiveSvc, searchService, assistantService, uploader)
	if err := service.Bootstrap(ctx); err != nil {
		log.Printf("WARNING: bootstrap error (will retry on next restart): %v", err)
	}

	httpServer := app.NewHTTPServer(service, cfg.CORSOrigin)
	server := &http.Server{
		Addr:              cfg.Addr,
		Handler:           httpServer.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		log.Printf("MDC site API listening on %s", cfg.Addr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("server failed: %v", err)
		}
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Printf("shutdown error: %v", err)
	}
}
