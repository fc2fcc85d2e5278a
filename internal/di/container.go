// Package di provides dependency injection configuration for libkeeper.
package di

import (
	"context"

	"github.com/samber/do/v2"

	"github.com/libkeeper/libkeeper/internal/config"
	"github.com/libkeeper/libkeeper/internal/logger"
	"github.com/libkeeper/libkeeper/internal/persist"
	"github.com/libkeeper/libkeeper/internal/service"
	"github.com/libkeeper/libkeeper/internal/store"
	"github.com/libkeeper/libkeeper/internal/validation"
)

// NewContainer creates and configures the DI container with all providers.
func NewContainer() *do.RootScope {
	injector := do.New()

	// Core infrastructure
	do.Provide(injector, ProvideConfig)
	do.Provide(injector, ProvideLogger)
	do.Provide(injector, ProvideValidator)

	// Persistence layer
	do.Provide(injector, ProvideFileStore)
	do.Provide(injector, ProvideLibrary)

	// Business services
	do.Provide(injector, ProvideLibraryService)

	// Workers
	do.Provide(injector, ProvideLibraryWatcher)

	return injector
}

// Bootstrap eagerly initializes every service so configuration or wiring
// problems surface at startup rather than on first use.
func Bootstrap(injector *do.RootScope) error {
	if _, err := do.Invoke[*config.Config](injector); err != nil {
		return err
	}
	if _, err := do.Invoke[*logger.Logger](injector); err != nil {
		return err
	}
	if _, err := do.Invoke[*store.Library](injector); err != nil {
		return err
	}
	if _, err := do.Invoke[*service.LibraryService](injector); err != nil {
		return err
	}

	cfg := do.MustInvoke[*config.Config](injector)
	if cfg.Watch.Enabled {
		if _, err := do.Invoke[*LibraryWatcherHandle](injector); err != nil {
			return err
		}
	}

	return nil
}

// ProvideConfig provides the application configuration.
func ProvideConfig(i do.Injector) (*config.Config, error) {
	return config.LoadConfig()
}

// ProvideLogger provides the structured logger.
func ProvideLogger(i do.Injector) (*logger.Logger, error) {
	cfg := do.MustInvoke[*config.Config](i)

	log := logger.New(logger.Config{
		Level:       logger.ParseLevel(cfg.Logger.Level),
		AddSource:   cfg.App.Environment == "development",
		Environment: cfg.App.Environment,
	})

	log.Info("Starting libkeeper",
		"environment", cfg.App.Environment,
		"log_level", cfg.Logger.Level,
		"library_file", cfg.Library.FilePath,
	)

	return log, nil
}

// ProvideValidator provides the draft validator.
func ProvideValidator(i do.Injector) (*validation.Validator, error) {
	return validation.New(), nil
}

// ProvideFileStore provides the JSON library file persister.
func ProvideFileStore(i do.Injector) (*persist.FileStore, error) {
	cfg := do.MustInvoke[*config.Config](i)
	log := do.MustInvoke[*logger.Logger](i)

	return persist.NewFileStore(cfg.Library.FilePath, log.Logger), nil
}

// ProvideLibrary provides the in-memory collection, loading the persisted
// library if one exists. A missing file starts an empty collection.
func ProvideLibrary(i do.Injector) (*store.Library, error) {
	fs := do.MustInvoke[*persist.FileStore](i)
	v := do.MustInvoke[*validation.Validator](i)
	log := do.MustInvoke[*logger.Logger](i)

	lib := store.New(fs, v, log.Logger)

	if fs.Exists() {
		if err := lib.Load(); err != nil {
			return nil, err
		}
		log.Info("Library loaded", "path", fs.Path(), "books", lib.Len())
	} else {
		log.Info("No library file found, starting empty", "path", fs.Path())
	}

	return lib, nil
}

// ProvideLibraryService provides the business logic layer.
func ProvideLibraryService(i do.Injector) (*service.LibraryService, error) {
	lib := do.MustInvoke[*store.Library](i)
	log := do.MustInvoke[*logger.Logger](i)

	return service.NewLibraryService(lib, log.Logger), nil
}

// LibraryWatcherHandle wraps the file watcher with shutdown capability.
type LibraryWatcherHandle struct {
	*persist.Watcher
	cancel context.CancelFunc
}

// Shutdown implements do.Shutdownable.
func (h *LibraryWatcherHandle) Shutdown() error {
	h.cancel()
	return h.Watcher.Stop()
}

// ProvideLibraryWatcher provides the library file watcher. External edits
// to the library file are reloaded after writes settle.
func ProvideLibraryWatcher(i do.Injector) (*LibraryWatcherHandle, error) {
	cfg := do.MustInvoke[*config.Config](i)
	fs := do.MustInvoke[*persist.FileStore](i)
	lib := do.MustInvoke[*store.Library](i)
	log := do.MustInvoke[*logger.Logger](i)

	w, err := persist.NewWatcher(cfg.Library.FilePath, log.Logger, func() {
		// The store's own atomic saves land here too; only reload when the
		// file actually differs from what was last written.
		if fs.UnchangedSinceSave() {
			return
		}
		if err := lib.Load(); err != nil {
			log.Warn("failed to reload library after external change", "error", err)
		}
	})
	if err != nil {
		return nil, err
	}
	w.SetSettle(cfg.Watch.Settle)

	ctx, cancel := context.WithCancel(context.Background())
	if err := w.Start(ctx); err != nil {
		cancel()
		return nil, err
	}

	log.Info("Watching library file", "path", cfg.Library.FilePath)

	return &LibraryWatcherHandle{
		Watcher: w,
		cancel:  cancel,
	}, nil
}
