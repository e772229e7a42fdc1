package app

import (
	"context"
	"fmt"
	"time"

	"github.com/ternarybob/arbor"

	"github.com/semkit/rolemark/internal/common"
	"github.com/semkit/rolemark/internal/handlers"
	"github.com/semkit/rolemark/internal/interfaces"
	"github.com/semkit/rolemark/internal/morph"
	"github.com/semkit/rolemark/internal/resources"
	"github.com/semkit/rolemark/internal/services/analyzer"
	"github.com/semkit/rolemark/internal/services/cache"
	"github.com/semkit/rolemark/internal/services/events"
	"github.com/semkit/rolemark/internal/services/llm"
	"github.com/semkit/rolemark/internal/services/scheduler"
	"github.com/semkit/rolemark/internal/storage/badger"
)

// App holds all application components and dependencies
type App struct {
	Config         *common.Config
	Logger         arbor.ILogger
	StorageManager interfaces.StorageManager

	EventService     interfaces.EventService
	Tagger           interfaces.Tagger
	Resources        *resources.Store
	LLMProvider      *llm.ProviderFactory
	CacheService     *cache.Service
	AnalyzerService  *analyzer.Service
	SchedulerService *scheduler.Service

	// HTTP handlers
	APIHandler       *handlers.APIHandler
	SRLHandler       *handlers.SRLHandler
	ResourcesHandler *handlers.ResourcesHandler
	KVHandler        *handlers.KVHandler
	WSHandler        *handlers.WebSocketHandler

	wsWriter *handlers.WebSocketWriter
}

// New initializes the application with all dependencies
func New(cfg *common.Config, logger arbor.ILogger) (*App, error) {
	app := &App{
		Config: cfg,
		Logger: logger,
	}

	if err := app.initDatabase(); err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	// WebSocket handler is created early so the log writer can broadcast
	// startup logs to clients that connect during initialization
	app.EventService = events.NewService(app.Logger)
	app.WSHandler = handlers.NewWebSocketHandler(app.EventService, app.Logger, &app.Config.WebSocket)

	wsWriter := handlers.NewWebSocketWriter(app.WSHandler, &app.Config.WebSocket)
	app.wsWriter = wsWriter
	app.Logger.SetChannel("websocket", wsWriter.GetChannel())

	if err := app.initServices(); err != nil {
		return nil, fmt.Errorf("failed to initialize services: %w", err)
	}

	if err := app.initHandlers(); err != nil {
		return nil, fmt.Errorf("failed to initialize handlers: %w", err)
	}

	logger.Info().
		Str("provider", cfg.LLM.DefaultProvider).
		Str("morph_mode", cfg.Morph.Mode).
		Bool("cache_enabled", cfg.Cache.Enabled).
		Msg("Application initialization complete")

	return app, nil
}

// initDatabase initializes the storage layer (Badger)
func (a *App) initDatabase() error {
	manager, err := badger.NewManager(a.Logger, &a.Config.Storage.Badger)
	if err != nil {
		return fmt.Errorf("failed to create storage manager: %w", err)
	}

	a.StorageManager = manager
	a.Logger.Debug().
		Str("storage", "badger").
		Str("path", a.Config.Storage.Badger.Path).
		Msg("Storage layer initialized")

	return nil
}

// initServices initializes all business services in dependency order
func (a *App) initServices() error {
	tagger, err := a.buildTagger()
	if err != nil {
		return err
	}
	a.Tagger = tagger

	// Resource files must load before the first request; the store supports
	// hot reload afterwards
	a.Resources = resources.NewStore(a.Config.Resources, a.Tagger, a.Logger)
	if err := a.Resources.Load(context.Background()); err != nil {
		return fmt.Errorf("failed to load resources: %w", err)
	}

	a.LLMProvider = llm.NewProviderFactory(&a.Config.LLM, a.StorageManager.KVStorage(), a.Logger)

	ttl, err := a.Config.CacheTTL()
	if err != nil {
		return err
	}
	a.CacheService = cache.NewService(a.StorageManager.AnalysisStorage(), a.Config.Cache.Enabled, ttl, a.Logger)

	a.AnalyzerService = analyzer.NewService(
		a.Resources,
		a.Tagger,
		a.LLMProvider,
		a.CacheService,
		a.EventService,
		a.Config.Resources.ExampleCount,
		a.Logger,
	)

	if err := a.initScheduler(); err != nil {
		return err
	}

	return nil
}

// buildTagger constructs the configured morphological tagger
func (a *App) buildTagger() (interfaces.Tagger, error) {
	switch a.Config.Morph.Mode {
	case "remote":
		timeout, err := a.Config.MorphTimeout()
		if err != nil {
			return nil, err
		}
		a.Logger.Debug().
			Str("endpoint", a.Config.Morph.Endpoint).
			Msg("Using remote morphological tagger")
		return morph.NewRemoteTagger(a.Config.Morph.Endpoint, timeout, a.Logger), nil
	default:
		lexicon, err := morph.LoadLexicon(a.Config.Morph.LexiconPath)
		if err != nil {
			return nil, fmt.Errorf("failed to load lexicon %s: %w", a.Config.Morph.LexiconPath, err)
		}
		a.Logger.Debug().
			Str("path", a.Config.Morph.LexiconPath).
			Int("entries", len(lexicon)).
			Msg("Using lexicon morphological tagger")
		return morph.NewLexiconTagger(lexicon, a.Logger), nil
	}
}

// initScheduler registers and starts the maintenance jobs
func (a *App) initScheduler() error {
	a.SchedulerService = scheduler.NewService(a.Logger)

	if a.Config.Cache.Enabled && a.Config.Cache.CleanupSchedule != "" {
		err := a.SchedulerService.RegisterJob("cache_cleanup", a.Config.Cache.CleanupSchedule, func() error {
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
			defer cancel()
			removed, err := a.CacheService.Cleanup(ctx)
			if err != nil {
				return err
			}
			if removed > 0 {
				a.Logger.Info().Int("removed", removed).Msg("Cache cleanup complete")
			}
			return nil
		})
		if err != nil {
			return fmt.Errorf("failed to register cache cleanup job: %w", err)
		}
	}

	if a.Config.Cache.BadgerGCSchedule != "" {
		err := a.SchedulerService.RegisterJob("badger_gc", a.Config.Cache.BadgerGCSchedule, func() error {
			return a.StorageManager.RunGC()
		})
		if err != nil {
			return fmt.Errorf("failed to register badger GC job: %w", err)
		}
	}

	if err := a.SchedulerService.Start(); err != nil {
		return fmt.Errorf("failed to start scheduler: %w", err)
	}
	a.Logger.Debug().Msg("Scheduler service started")

	return nil
}

// initHandlers initializes all HTTP handlers
func (a *App) initHandlers() error {
	a.APIHandler = handlers.NewAPIHandler(a.Resources, a.StorageManager, a.Tagger, &a.Config.LLM)
	a.SRLHandler = handlers.NewSRLHandler(a.AnalyzerService, a.Logger)
	a.ResourcesHandler = handlers.NewResourcesHandler(a.Resources, a.EventService, a.Logger)
	a.KVHandler = handlers.NewKVHandler(a.StorageManager.KVStorage(), a.Logger)
	// WSHandler already created in New() so the log writer could attach early

	return nil
}

// Close closes all application resources in reverse dependency order
func (a *App) Close() error {
	if a.SchedulerService != nil {
		if err := a.SchedulerService.Stop(); err != nil {
			a.Logger.Warn().Err(err).Msg("Failed to stop scheduler service")
		}
	}

	if a.LLMProvider != nil {
		if err := a.LLMProvider.Close(); err != nil {
			a.Logger.Warn().Err(err).Msg("Failed to close LLM provider")
		}
	}

	if a.wsWriter != nil {
		if err := a.wsWriter.Close(); err != nil {
			a.Logger.Warn().Err(err).Msg("Failed to close websocket log writer")
		}
	}

	if a.EventService != nil {
		if err := a.EventService.Close(); err != nil {
			a.Logger.Warn().Err(err).Msg("Failed to close event service")
		}
	}

	if a.StorageManager != nil {
		if err := a.StorageManager.Close(); err != nil {
			return fmt.Errorf("failed to close storage: %w", err)
		}
		a.Logger.Info().Msg("Storage closed")
	}

	return nil
}
