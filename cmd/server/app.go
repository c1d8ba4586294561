package main

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	"github.com/flashdeck/flashdeck-api/internal/config"
	"github.com/flashdeck/flashdeck-api/internal/events"
	"github.com/flashdeck/flashdeck-api/internal/platform/postgres"
	"github.com/flashdeck/flashdeck-api/internal/service"
	"github.com/flashdeck/flashdeck-api/internal/service/auth"
	"github.com/flashdeck/flashdeck-api/internal/store"
	"github.com/flashdeck/flashdeck-api/internal/task"
)

// application holds all shared application dependencies so wiring and
// shutdown live in one place.
type application struct {
	config *config.Config
	logger *slog.Logger
	db     *sql.DB

	// Stores
	userStore     store.UserStore
	studySetStore store.StudySetStore
	cardStore     store.CardStore
	folderStore   store.FolderStore
	taskStore     task.TaskStore

	// Services
	jwtService       auth.JWTService
	passwordVerifier auth.PasswordVerifier
	studySetService  service.StudySetService
	cardService      service.CardService
	folderService    service.FolderService
	userService      service.UserService

	// Learning sessions
	sessionManager *service.SessionManager

	// Background processing
	eventEmitter events.EventEmitter
	taskRunner   *task.TaskRunner
}

// newApplication wires up every dependency from configuration, logger, and
// an open database connection.
func newApplication(ctx context.Context, cfg *config.Config, logger *slog.Logger, db *sql.DB) (*application, error) {
	app := &application{
		config: cfg,
		logger: logger,
		db:     db,
	}

	var err error
	app.jwtService, err = auth.NewJWTService(cfg.Auth)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize JWT service: %w", err)
	}
	logger.Info("JWT authentication service initialized",
		"token_lifetime_minutes", cfg.Auth.TokenLifetimeMinutes)

	app.passwordVerifier = auth.NewBcryptVerifier()

	// Stores
	app.userStore = postgres.NewPostgresUserStore(db, cfg.Auth.BCryptCost, logger)
	app.studySetStore = postgres.NewPostgresStudySetStore(db, logger)
	app.cardStore = postgres.NewPostgresCardStore(db, logger)
	app.folderStore = postgres.NewPostgresFolderStore(db, logger)

	taskStore := postgres.NewPostgresTaskStore(db, logger)
	resetFactory := task.NewMasteryResetTaskFactory(app.cardStore, logger)
	taskStore.SetReconstructor(resetFactory.Reconstruct)
	app.taskStore = taskStore

	// Background task processing. The runner recovers unfinished mastery
	// resets from the store on start.
	app.taskRunner = task.NewTaskRunner(app.taskStore, task.TaskRunnerConfig{
		QueueSize:    cfg.Task.QueueSize,
		WorkerCount:  cfg.Task.WorkerCount,
		StuckTaskAge: time.Duration(cfg.Task.StuckTaskAgeMinutes) * time.Minute,
	}, logger)
	if err := app.taskRunner.Start(); err != nil {
		return nil, fmt.Errorf("failed to start task runner: %w", err)
	}

	emitter := events.NewInMemoryEventEmitter(logger)
	emitter.RegisterHandler(task.NewTaskFactoryEventHandler(resetFactory, app.taskRunner, logger))
	app.eventEmitter = emitter

	// Domain services
	app.studySetService, err = service.NewStudySetService(app.studySetStore, app.cardStore, app.folderStore, db, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to create study set service: %w", err)
	}

	app.cardService, err = service.NewCardService(app.cardStore, app.studySetStore, db, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to create card service: %w", err)
	}

	app.folderService, err = service.NewFolderService(app.folderStore, db, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to create folder service: %w", err)
	}

	app.userService = service.NewUserService(app.userStore, db, logger)

	// Learning sessions
	loader := service.NewSessionLoader(app.cardStore, app.studySetStore, logger)
	app.sessionManager = service.NewSessionManager(
		loader,
		service.NewMasteryWriter(app.cardStore),
		service.NewEventResetScheduler(app.eventEmitter, logger),
		cfg.Session,
		logger,
	)
	app.sessionManager.Start()

	logger.Info("Application initialized successfully")
	return app, nil
}

// Run starts the HTTP server and blocks until shutdown.
func (app *application) Run(ctx context.Context) error {
	router := app.setupRouter()

	if err := app.startHTTPServer(ctx, router); err != nil {
		return fmt.Errorf("server error: %w", err)
	}
	return nil
}

// cleanup handles graceful shutdown of application resources.
func (app *application) cleanup() {
	if app.sessionManager != nil {
		app.sessionManager.Stop()
	}

	if app.taskRunner != nil {
		app.taskRunner.Stop()
	}

	if app.db != nil {
		if err := app.db.Close(); err != nil {
			app.logger.Error("Error closing database connection", "error", err)
		}
	}

	app.logger.Info("Application shutdown completed")
}
