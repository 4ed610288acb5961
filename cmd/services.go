package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/sirupsen/logrus"
	"github.com/xvierd/wod-cli/internal/adapters/notification"
	"github.com/xvierd/wod-cli/internal/adapters/storage"
	"github.com/xvierd/wod-cli/internal/config"
	"github.com/xvierd/wod-cli/internal/logging"
	"github.com/xvierd/wod-cli/internal/ports"
	"github.com/xvierd/wod-cli/internal/services"
)

// appDeps groups all service-layer dependencies initialized at startup.
type appDeps struct {
	storage  ports.Storage
	blocks   *services.BlockService
	workouts *services.WorkoutService
	state    *services.StateService
	notifier *notification.Notifier
	config   *config.Config
	logs     io.Closer
}

// app holds all initialized service dependencies.
// Populated by initializeServices() and accessible to all commands.
var app appDeps

// initializeServices sets up all the required services and adapters.
func initializeServices() error {
	var err error
	app.config, err = config.Load()
	if err != nil {
		// If config loading fails, use defaults
		app.config = config.DefaultConfig()
	}

	logs, logErr := logging.Setup(logging.LoggerSetupParams{
		LogFileName:   config.GetLogPath(app.config),
		LogToStdout:   app.config.Logging.Stdout,
		LogLevel:      app.config.Logging.Level,
		LogFormatJSON: app.config.Logging.JSON,
	})
	app.logs = logs
	if logErr != nil {
		fmt.Fprintf(os.Stderr, "Warning: logging to file disabled: %v\n", logErr)
	}
	if err != nil {
		logrus.WithError(err).Warn("config not loaded, using defaults")
	}

	if dbPath == "" {
		dbPath = config.GetDBPath(app.config)
	}
	if err := os.MkdirAll(filepath.Dir(dbPath), 0750); err != nil {
		return fmt.Errorf("failed to create database directory: %w", err)
	}

	app.storage, err = storage.New(dbPath)
	if err != nil {
		return fmt.Errorf("failed to initialize storage: %w", err)
	}

	app.notifier = notification.New(&app.config.Notifications)
	wireServices(app.storage, app.config, app.notifier)

	if sound, ok, err := app.storage.Preferences().Get(context.Background(), ports.PrefSound); err != nil {
		logrus.WithError(err).Warn("failed to read sound preference")
	} else if ok {
		app.notifier.SetSound(sound == "on")
	}

	logrus.WithField("db", dbPath).Debug("services initialized")
	return nil
}

// wireServices builds the service layer on top of an open store.
func wireServices(store ports.Storage, cfg *config.Config, notifier ports.Notifier) {
	app.storage = store
	app.config = cfg
	app.blocks = services.NewBlockService(store, cfg.DefaultSettings())
	app.workouts = services.NewWorkoutService(store, nil, notifier)
	app.state = services.NewStateService(app.blocks, app.workouts)
}

// cleanupServices closes all resources.
func cleanupServices() error {
	var err error
	if app.storage != nil {
		err = app.storage.Close()
	}
	if app.logs != nil {
		_ = app.logs.Close()
	}
	return err
}

// setupSignalHandler sets up a context that cancels on interrupt signals.
func setupSignalHandler() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
}
