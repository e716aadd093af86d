package app

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"time"

	"khichik-studio/app/controller"
	"khichik-studio/app/router"
	"khichik-studio/config"
	"khichik-studio/db"
	"khichik-studio/models"
	"khichik-studio/repository"
	"khichik-studio/service"
)

const sessionCleanupInterval = time.Minute

// Initialize wires the studio from cfg and registers its routes on mux.
// The returned function releases what Initialize acquired.
func Initialize(ctx context.Context, cfg *config.Config, mux *http.ServeMux) (func(), error) {
	var closers []func()
	cleanup := func() {
		for i := len(closers) - 1; i >= 0; i-- {
			closers[i]()
		}
	}

	// Image store for originals and persisted mattes
	imageStore, err := repository.NewDiskImageStore(cfg.Storage.ImagesDir)
	if err != nil {
		return func() {}, err
	}

	// Background removal engine
	remover, destroy := newRemover(cfg.Removal)
	if destroy != nil {
		closers = append(closers, destroy)
	}
	stage := service.NewBackgroundRemovalStage(imageStore, remover, models.RemovalConfig{
		OutputFormat: cfg.Removal.OutputFormat,
		Quality:      cfg.Removal.Quality,
		Model:        cfg.Removal.Model,
	})

	// Persistence sinks
	sink, submissions, err := newSink(ctx, cfg, &closers)
	if err != nil {
		cleanup()
		return func() {}, err
	}

	// Session manager
	sessions := service.NewSessionManager(service.DesignSessionDeps{
		Stage:         stage,
		Sink:          sink,
		Mockups:       service.NewDiskMockupLoader(cfg.Mockups.Dir),
		Store:         imageStore,
		Surface:       models.SurfaceSize{Width: cfg.Surface.Width, Height: cfg.Surface.Height},
		FallbackFill:  cfg.Surface.FallbackFill,
		UploadTimeout: time.Duration(cfg.Server.UploadTimeoutSeconds) * time.Second,
	}, cfg.Sessions.MaxSessions, time.Duration(cfg.Sessions.MaxAgeMinutes)*time.Minute)
	sessions.StartCleanup(ctx, sessionCleanupInterval)

	proofService := service.NewProofService(cfg.Server.BaseURL)

	// Create controllers
	controllers := &router.Controllers{
		Design: controller.NewDesignSessionController(sessions, cfg.Server.MaxUploadMB),
		Live:   controller.NewLivePreviewController(sessions),
		Proof:  controller.NewProofController(sessions, proofService),
		Image:  controller.NewImageController(imageStore),
		Mockup: controller.NewMockupController(cfg.Mockups.Dir),
	}
	if submissions != nil {
		controllers.Submission = controller.NewSubmissionController(submissions)
	}

	router.SetupRoutes(mux, controllers)

	return cleanup, nil
}

// newRemover builds the configured background removal engine.
// An engine that fails to start degrades to UnavailableRemover so uploads still composite.
func newRemover(cfg config.RemovalConfig) (service.BackgroundRemover, func()) {
	switch cfg.Engine {
	case "onnx":
		remover, err := service.NewONNXBackgroundRemover(
			cfg.ONNX.LibraryPath,
			cfg.ONNX.ModelPath,
			cfg.ONNX.InputName,
			cfg.ONNX.OutputName,
			cfg.ONNX.InputSize,
		)
		if err != nil {
			log.Printf("⚠️  ONNX background removal unavailable, uploads will keep their background: %v", err)
			return service.UnavailableRemover{}, nil
		}
		log.Printf("✓ ONNX background removal ready (%s)", cfg.ONNX.ModelPath)
		return remover, remover.Destroy
	case "http":
		log.Printf("✓ HTTP background removal at %s", cfg.HTTP.URL)
		return service.NewHTTPBackgroundRemover(cfg.HTTP.URL, time.Duration(cfg.HTTP.TimeoutSeconds)*time.Second), nil
	default:
		log.Printf("⚠️  Background removal disabled (engine=%q)", cfg.Engine)
		return service.UnavailableRemover{}, nil
	}
}

// newSink builds the sinks named in cfg.Sinks in order.
// The submission repository is returned when the postgres sink is enabled.
func newSink(ctx context.Context, cfg *config.Config, closers *[]func()) (service.DesignSinkInterface, repository.DesignSubmissionRepositoryInterface, error) {
	var sinks service.MultiSink
	var submissions repository.DesignSubmissionRepositoryInterface

	for _, name := range cfg.Sinks {
		switch name {
		case "log":
			sinks = append(sinks, service.LogSink{})
		case "uploads":
			uploads, err := service.NewUploadsSink(cfg.Storage.UploadsDir)
			if err != nil {
				return nil, nil, err
			}
			sinks = append(sinks, uploads)
		case "drive":
			// Get credentials path from environment variable
			credentialsPath := os.Getenv("GOOGLE_APPLICATION_CREDENTIALS")
			if credentialsPath == "" {
				return nil, nil, fmt.Errorf("GOOGLE_APPLICATION_CREDENTIALS environment variable is not set")
			}
			driveService, err := service.NewDriveService(credentialsPath)
			if err != nil {
				return nil, nil, err
			}
			sinks = append(sinks, service.NewDriveSink(driveService, cfg.Drive.FolderID))
		case "postgres":
			if err := db.InitDB(); err != nil {
				return nil, nil, fmt.Errorf("failed to initialize database: %w", err)
			}
			*closers = append(*closers, func() { db.CloseDB() })

			repo := repository.NewDesignSubmissionRepository()
			if err := repo.EnsureSchema(ctx); err != nil {
				return nil, nil, err
			}
			submissions = repo
			sinks = append(sinks, service.NewPostgresSink(repo))
		default:
			return nil, nil, fmt.Errorf("unknown design sink %q", name)
		}
	}

	if len(sinks) == 0 {
		sinks = append(sinks, service.LogSink{})
	}
	log.Printf("✓ Design sinks: %v", cfg.Sinks)

	if len(sinks) == 1 {
		return sinks[0], submissions, nil
	}
	return sinks, submissions, nil
}
