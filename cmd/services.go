package cmd

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/xvierd/unfocus/internal/adapters/git"
	"github.com/xvierd/unfocus/internal/adapters/notification"
	"github.com/xvierd/unfocus/internal/adapters/storage"
	"github.com/xvierd/unfocus/internal/config"
	"github.com/xvierd/unfocus/internal/logging"
	"github.com/xvierd/unfocus/internal/ports"
	"github.com/xvierd/unfocus/internal/services"
)

// annotationFullscreen marks commands that hand the terminal to the TUI.
// Their logs go to the log file instead of stderr.
const annotationFullscreen = "fullscreen"

// appDeps groups all service-layer dependencies initialized at startup.
type appDeps struct {
	config     *config.Config
	logger     *slog.Logger
	logCloser  io.Closer
	storage    ports.Storage
	controller *services.Controller
}

// app holds all initialized service dependencies.
// Populated by initializeServices() and accessible to all commands.
var app appDeps

// initializeServices sets up all the required services and adapters.
func initializeServices(cmd *cobra.Command) error {
	// Load configuration
	var err error
	app.config, err = config.Load()
	if err != nil {
		// If config loading fails, use defaults
		app.config = config.DefaultConfig()
	}

	// Initialize logging
	app.logger, app.logCloser = newLogger(cmd, app.config)
	slog.SetDefault(app.logger)

	// Determine database path
	path := dbPath
	if path == "" {
		path = config.GetDBPath(app.config)
	}

	// Ensure directory exists
	if err := os.MkdirAll(filepath.Dir(path), 0750); err != nil {
		return fmt.Errorf("failed to create database directory: %w", err)
	}

	// Initialize storage
	app.storage, err = storage.New(path)
	if err != nil {
		return fmt.Errorf("failed to initialize storage: %w", err)
	}

	catalog, err := app.config.Catalog()
	if err != nil {
		return fmt.Errorf("invalid break configuration: %w", err)
	}

	// Initialize the controller and its side-effect adapters
	ctrl := services.NewController(
		storage.WithPrefix(app.storage.KV(), app.config.Storage.KeyPrefix),
		app.storage.History(),
	)
	ctrl.SetLogger(app.logger)
	ctrl.SetCatalog(catalog)
	ctrl.SetDefaults(app.config.DefaultSettings())
	ctrl.SetNotifier(notification.New(&app.config.Notifications, app.logger))
	ctrl.SetChime(notification.NewChime(app.config.Notifications.Enabled, app.logger))

	workingDir, _ := os.Getwd()
	ctrl.SetGitDetector(git.NewDetector(), workingDir)

	ctrl.Load(cmd.Context())
	app.controller = ctrl

	return nil
}

// newLogger picks stderr for plain commands and the log file for
// full-screen ones. A log file that cannot be opened is replaced by a
// discarding logger so the TUI is never drawn over.
func newLogger(cmd *cobra.Command, cfg *config.Config) (*slog.Logger, io.Closer) {
	if cmd.Annotations[annotationFullscreen] == "" {
		return logging.Stderr(cfg.Log.Level), nil
	}
	logger, closer, err := logging.File(config.GetLogPath(cfg), cfg.Log.Level)
	if err != nil {
		return logging.New(io.Discard, cfg.Log.Level), nil
	}
	return logger, closer
}

// cleanupServices closes all resources.
func cleanupServices() error {
	var err error
	if app.storage != nil {
		err = app.storage.Close()
		app.storage = nil
	}
	if app.logCloser != nil {
		_ = app.logCloser.Close()
		app.logCloser = nil
	}
	return err
}

// setupSignalHandler sets up a context that cancels on interrupt signals.
func setupSignalHandler(parent context.Context) context.Context {
	ctx, cancel := context.WithCancel(parent)

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		select {
		case <-sigChan:
			cancel()
		case <-ctx.Done():
		}
		signal.Stop(sigChan)
	}()

	return ctx
}
