package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/hamzaoui/ayahreels/internal/api"
	"github.com/hamzaoui/ayahreels/internal/config"
	"github.com/hamzaoui/ayahreels/internal/db"
	"github.com/hamzaoui/ayahreels/internal/queue"
	"github.com/hamzaoui/ayahreels/internal/quran"
	"github.com/hamzaoui/ayahreels/internal/services"
	"github.com/hamzaoui/ayahreels/internal/storage"
	"github.com/hamzaoui/ayahreels/internal/worker"
)

func main() {
	log.Println("Starting Ayah Reels API...")

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// Provision output/temp/cache directories once; every later component
	// receives them as configuration
	paths, err := storage.Provision(cfg.OutputDir, cfg.TempDir, cfg.CacheDir)
	if err != nil {
		log.Fatalf("Failed to provision directories: %v", err)
	}
	log.Printf("Directories ready (output: %s)", paths.OutputDir)

	// Connect to database
	database, err := db.New(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer database.Close()
	log.Println("Connected to database")

	// Connect to Redis queue
	q, err := queue.New(cfg.RedisURL)
	if err != nil {
		log.Fatalf("Failed to connect to queue: %v", err)
	}
	defer q.Close()
	log.Println("Connected to Redis queue")

	// Verse text provider
	quranClient := quran.NewClient(cfg.QuranAPIURL)

	// Create API handler
	handler := api.NewHandler(database, q, quranClient, cfg.DefaultReciterID)
	router := api.NewRouter(handler, api.RouterConfig{
		BackendAPIKey:      cfg.BackendAPIKey,
		CorsAllowedOrigins: cfg.CorsAllowedOrigins,
		OutputDir:          paths.OutputDir,
	})

	if cfg.BackendAPIKey != "" {
		log.Println("API key authentication enabled")
	} else {
		log.Println("WARNING: No BACKEND_API_KEY set — API is unprotected (dev mode)")
	}

	// Start HTTP server
	server := &http.Server{
		Addr:    ":" + cfg.APIPort,
		Handler: router,
	}

	// Start worker if enabled
	var workerCtx context.Context
	var workerCancel context.CancelFunc
	if cfg.WorkerEnabled {
		log.Println("Worker enabled, starting background processing...")

		ffmpegSvc := services.NewFFmpegService(paths.TempDir)
		store := storage.NewStore(paths.CacheDir)
		audioSvc := services.NewAudioService(
			cfg.AudioHostURL,
			time.Duration(cfg.DownloadTimeoutSeconds)*time.Second,
			store, paths, ffmpegSvc,
		)
		backgroundSvc := services.NewBackgroundService(
			cfg.BackgroundSources,
			time.Duration(cfg.DownloadTimeoutSeconds)*time.Second,
			paths, ffmpegSvc,
			cfg.VideoWidth, cfg.VideoHeight, cfg.VideoFPS,
		)
		overlaySvc := services.NewOverlayRenderer(
			cfg.VideoWidth, cfg.VideoHeight,
			cfg.FontPath, cfg.FontFallback, cfg.FontSize,
		)
		compositorSvc := services.NewCompositor(ffmpegSvc, cfg.VideoWidth, cfg.VideoHeight, cfg.VideoFPS)

		pipeline := worker.NewPipeline(audioSvc, backgroundSvc, overlaySvc, compositorSvc, ffmpegSvc, paths)
		w := worker.New(database, q, quranClient, pipeline)

		workerCtx, workerCancel = context.WithCancel(context.Background())
		go w.Start(workerCtx, cfg.MaxConcurrentJobs)
	}

	// Start server in goroutine
	go func() {
		log.Printf("API server listening on :%s", cfg.APIPort)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server error: %v", err)
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down server...")

	// Shutdown worker
	if workerCancel != nil {
		workerCancel()
	}

	// Shutdown HTTP server
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.Fatalf("Server forced to shutdown: %v", err)
	}

	log.Println("Server exited")
}
