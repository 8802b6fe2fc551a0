package main

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/willfx/sitegeist/app/annotator"
	"github.com/willfx/sitegeist/app/api"
	"github.com/willfx/sitegeist/app/cfg"
	"github.com/willfx/sitegeist/app/database"
	"github.com/willfx/sitegeist/app/ingest"
	"github.com/willfx/sitegeist/app/source"
	"github.com/willfx/sitegeist/app/subjects"
	"github.com/willfx/sitegeist/app/tasks"
)

func main() {
	appCfg, err := cfg.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	if appCfg == nil {
		// Help was shown, exit gracefully
		return
	}

	logLevel := slog.LevelInfo
	if appCfg.Debug {
		logLevel = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: logLevel})))

	slog.Info("Starting SiteGeist server", "version", appCfg.Version)

	db, err := database.NewConnection(appCfg.DBPath)
	if err != nil {
		log.Fatalf("Failed to open database: %v", err)
	}
	defer db.Close()

	version, dirty, err := database.RunMigrations(db)
	if err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}
	slog.Info("Database ready", "path", appCfg.DBPath, "schema_version", version, "dirty", dirty)

	userRepo := database.NewUserRepo(db)
	postRepo := database.NewPostRepo(db)
	subjectRepo := database.NewSubjectRepo(db)
	summaryRepo := database.NewSummaryRepo(db)

	coords := appCfg.GeofenceCoords
	fence := source.Geofence{Lat1: coords[0], Lon1: coords[1], Lat2: coords[2], Lon2: coords[3]}
	if err := fence.Validate(); err != nil {
		log.Fatalf("Invalid geofence: %v", err)
	}

	ann, err := buildAnnotator(appCfg)
	if err != nil {
		log.Fatalf("Failed to build annotator: %v", err)
	}

	stream := source.NewStream(appCfg.StreamURL, appCfg.LookupURL, appCfg.StreamToken, appCfg.UserAgent, fence)
	defer stream.Close()

	pipeline := ingest.New(stream, ann, userRepo, postRepo, subjectRepo)

	ingestCtx, cancelIngest := context.WithCancel(context.Background())
	defer cancelIngest()

	pipelineErrChan := make(chan error, 1)
	go func() {
		slog.Info("Starting post ingestion", "stream_url", appCfg.StreamURL, "geofence", appCfg.Geofence)
		if err := pipeline.Run(ingestCtx); err != nil && ingestCtx.Err() == nil {
			pipelineErrChan <- err
		}
	}()

	slog.Info("Starting background scheduler", "workers", appCfg.WorkerCount)
	scheduler := tasks.NewScheduler(summaryRepo, postRepo)
	scheduler.Start()
	defer scheduler.Stop()

	service := subjects.NewService(subjectRepo, summaryRepo)
	apiHandler := api.NewHandler(service, postRepo, subjectRepo, summaryRepo, fence)
	server := api.NewServer(apiHandler, appCfg.APIAccessKey)

	httpServer := &http.Server{
		Addr:         ":" + appCfg.Port,
		Handler:      server,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	serverErrChan := make(chan error, 1)
	go func() {
		slog.Info("Starting HTTP server", "port", appCfg.Port)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			serverErrChan <- fmt.Errorf("HTTP server error: %w", err)
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	select {
	case sig := <-sigChan:
		slog.Info("Received signal", "signal", sig.String())
	case err := <-serverErrChan:
		slog.Error("Server error", "error", err)
	case err := <-pipelineErrChan:
		slog.Error("Post ingestion stopped", "error", err)
	}

	slog.Info("Shutting down gracefully")

	cancelIngest()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		slog.Error("HTTP server shutdown error", "error", err)
	} else {
		slog.Info("HTTP server stopped")
	}

	// Scheduler and stream are stopped via defer
	slog.Info("Shutdown complete")
}

// buildAnnotator picks the remote annotation service when configured, the
// built-in rules-based annotator otherwise.
func buildAnnotator(appCfg *cfg.Cfg) (annotator.Annotator, error) {
	if appCfg.AnnotatorURL != "" {
		slog.Info("Using remote annotation service", "url", appCfg.AnnotatorURL)
		return annotator.NewRemote(appCfg.AnnotatorURL, appCfg.UserAgent,
			time.Duration(appCfg.AnnotatorTimeout)*time.Second), nil
	}

	var rules annotator.Rules
	var err error
	if appCfg.AnnotatorRules != "" {
		rules, err = annotator.LoadRules(appCfg.AnnotatorRules)
	} else {
		rules, err = annotator.DefaultRules()
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load annotator rules: %w", err)
	}
	slog.Info("Using built-in annotator")
	return annotator.NewBasic(rules), nil
}
