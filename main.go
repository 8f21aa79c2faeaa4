package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"filebox/internal/handlers"
	"filebox/internal/logging"
	"filebox/internal/media"
	"filebox/internal/metrics"
	"filebox/internal/middleware"
	"filebox/internal/startup"
	"filebox/internal/stats"
	"filebox/internal/store"
	"filebox/internal/upload"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/cors"
)

func main() {
	startTime := time.Now()

	// Load configuration
	config, err := startup.LoadConfig()
	if err != nil {
		startup.LogFatal("Configuration error: %v", err)
	}

	// Initialize metadata stores
	storeStart := time.Now()
	fileStore, err := store.NewFileStore(config.DataDir)
	if err != nil {
		startup.LogFatal("Failed to initialize file store: %v", err)
	}
	folderStore, err := store.NewFolderStore(config.DataDir)
	if err != nil {
		startup.LogFatal("Failed to initialize folder store: %v", err)
	}
	startup.LogStoreInit(time.Since(storeStart))

	// Initialize thumbnail generator and upload orchestrator
	startup.LogThumbnailInit(config.ThumbnailsEnabled)
	thumbs := media.NewFFmpegGenerator(config.ThumbsDir, config.ThumbnailsEnabled)
	uploader := upload.New(fileStore, folderStore, thumbs)

	// Stats collector reads record sizes and the upload volume's capacity
	collector := stats.NewCollector(fileStore, config.UploadDir)

	// Initialize handlers
	h := handlers.New(fileStore, folderStore, uploader, collector, config.UploadDir)

	// Setup router
	router := setupRouter(h)
	startup.LogHTTPRoutes(router)

	// Metrics middleware runs inside the router so the mux route template is
	// available as the path label
	router.Use(middleware.Metrics(middleware.DefaultMetricsConfig()))

	// Apply logging middleware
	loggingConfig := middleware.DefaultLoggingConfig()
	loggingConfig.LogHealthChecks = config.LogHealthChecks
	loggedHandler := middleware.Logger(loggingConfig)(router)

	// Apply CORS
	corsHandler := cors.New(cors.Options{
		AllowedOrigins: strings.Split(config.CORSOrigins, ","),
		AllowedMethods: []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Origin", "Content-Type", "Accept", "Authorization", "Range"},
	})
	handler := corsHandler.Handler(loggedHandler)

	// Metrics listener on its own port
	if config.MetricsEnabled {
		metrics.InitializeMetrics()
		go serveMetrics(config.MetricsPort)
	}

	// Create server. Write timeout stays disabled so large media transfers
	// are never cut off mid-stream.
	srv := &http.Server{
		Addr:         ":" + config.Port,
		Handler:      handler,
		ReadTimeout:  15 * time.Minute,
		WriteTimeout: 0,
		IdleTimeout:  60 * time.Second,
	}

	// Start graceful shutdown handler
	go handleShutdown(srv)

	// Start server
	startup.LogServerStarted(config.Port, config.MetricsPort, config.MetricsEnabled, time.Since(startTime))
	if err := srv.ListenAndServe(); err != http.ErrServerClosed {
		startup.LogFatal("Server error: %v", err)
	}
}

func setupRouter(h *handlers.Handlers) *mux.Router {
	r := mux.NewRouter()

	// Health check and version routes
	r.HandleFunc("/health", h.HealthCheck).Methods("GET")
	r.HandleFunc("/healthz", h.HealthCheck).Methods("GET")
	r.HandleFunc("/livez", h.LivenessCheck).Methods("GET", "HEAD")
	r.HandleFunc("/readyz", h.ReadinessCheck).Methods("GET")
	r.HandleFunc("/version", h.GetVersion).Methods("GET")

	// File API
	api := r.PathPrefix("/api").Subrouter()
	api.HandleFunc("/files", h.ListFiles).Methods("GET")
	api.HandleFunc("/files/upload", h.Upload).Methods("POST")
	api.HandleFunc("/files/{id}", h.PatchFile).Methods("PATCH")
	api.HandleFunc("/files/{id}", h.DeleteFile).Methods("DELETE")
	api.HandleFunc("/files/{id}/thumb", h.GetThumb).Methods("GET")
	api.HandleFunc("/files/{id}/raw", h.GetRaw).Methods("GET")
	api.HandleFunc("/files/{id}/stream", h.Stream).Methods("GET")
	api.HandleFunc("/files/{id}/download", h.Download).Methods("GET")

	// Folder API
	api.HandleFunc("/folders", h.ListFolders).Methods("GET")
	api.HandleFunc("/folders", h.CreateFolder).Methods("POST")
	api.HandleFunc("/folders/{id}", h.DeleteFolder).Methods("DELETE")

	// Stats
	api.HandleFunc("/stats", h.GetStats).Methods("GET")

	return r
}

func serveMetrics(port string) {
	m := http.NewServeMux()
	m.Handle("/metrics", promhttp.Handler())

	srv := &http.Server{
		Addr:         ":" + port,
		Handler:      m,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
	}
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logging.Error("Metrics server error: %v", err)
	}
}

func handleShutdown(srv *http.Server) {
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	sig := <-sigChan

	startup.LogShutdownInitiated(sig.String())

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	startup.LogShutdownStep("Shutting down HTTP server")
	if err := srv.Shutdown(ctx); err != nil {
		logging.Warn("Server shutdown error: %v", err)
	} else {
		startup.LogShutdownStepComplete("HTTP server stopped")
	}

	startup.LogShutdownComplete()
}
