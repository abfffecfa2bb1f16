// Package app wires configuration, storage, services and handlers into a
// running application.
package app

import (
	"fmt"

	"github.com/ternarybob/arbor"
	"github.com/ternarybob/sitechat/internal/common"
	"github.com/ternarybob/sitechat/internal/handlers"
	"github.com/ternarybob/sitechat/internal/httpclient"
	"github.com/ternarybob/sitechat/internal/interfaces"
	"github.com/ternarybob/sitechat/internal/services/chat"
	"github.com/ternarybob/sitechat/internal/services/llm"
	"github.com/ternarybob/sitechat/internal/services/scraper"
	badgerstore "github.com/ternarybob/sitechat/internal/storage/badger"
)

// App holds all application components and dependencies
type App struct {
	Config *common.Config
	Logger arbor.ILogger

	// Storage
	DB           *badgerstore.BadgerDB
	CacheStorage interfaces.CacheStorage
	KVStorage    interfaces.KeyValueStorage
	Maintenance  *badgerstore.Maintenance

	// Services
	ScrapeService interfaces.ScrapeService
	LLMService    interfaces.LLMService
	ChatService   interfaces.ChatService

	// HTTP handlers
	APIHandler    *handlers.APIHandler
	ChatHandler   *handlers.ChatHandler
	ScrapeHandler *handlers.ScrapeHandler
}

// New creates and wires the application
func New(cfg *common.Config, logger arbor.ILogger) (*App, error) {
	app := &App{
		Config: cfg,
		Logger: logger,
	}

	if err := app.initStorage(); err != nil {
		return nil, fmt.Errorf("failed to initialize storage: %w", err)
	}

	if err := app.initServices(); err != nil {
		app.DB.Close()
		return nil, fmt.Errorf("failed to initialize services: %w", err)
	}

	app.initHandlers()

	logger.Info().
		Str("provider", string(cfg.LLM.DefaultProvider)).
		Str("storage_path", cfg.Storage.Badger.Path).
		Msg("Application initialization complete")

	return app, nil
}

// initStorage initializes the storage layer (Badger)
func (a *App) initStorage() error {
	db, err := badgerstore.NewBadgerDB(a.Logger, &a.Config.Storage.Badger)
	if err != nil {
		return fmt.Errorf("failed to open badger database: %w", err)
	}
	a.DB = db
	a.CacheStorage = badgerstore.NewCacheStorage(db, a.Logger)
	a.KVStorage = badgerstore.NewKVStorage(db, a.Logger)
	a.Maintenance = badgerstore.NewMaintenance(db, a.Logger)

	if schedule := a.Config.Maintenance.GCSchedule; schedule != "" {
		if err := a.Maintenance.Start(schedule); err != nil {
			return fmt.Errorf("failed to start storage maintenance: %w", err)
		}
	}

	return nil
}

// initServices initializes scraping, LLM and chat services
func (a *App) initServices() error {
	httpClient := httpclient.NewDefaultHTTPClient(a.Config.Scraper.RequestTimeout)
	a.ScrapeService = scraper.NewService(a.Config.Scraper, a.CacheStorage, httpClient, a.Logger)

	llmService, err := llm.NewLLMService(a.Config, a.KVStorage, a.Logger)
	if err != nil {
		return fmt.Errorf("failed to create LLM service: %w", err)
	}
	a.LLMService = llmService

	a.ChatService = chat.NewChatService(a.LLMService, a.ScrapeService, a.Logger)

	return nil
}

// initHandlers initializes HTTP handlers
func (a *App) initHandlers() {
	a.APIHandler = handlers.NewAPIHandler(a.Logger)
	a.ChatHandler = handlers.NewChatHandler(a.ChatService, a.Logger)
	a.ScrapeHandler = handlers.NewScrapeHandler(a.ScrapeService, a.Logger)
}

// Close releases application resources in reverse dependency order
func (a *App) Close() error {
	if a.LLMService != nil {
		if err := a.LLMService.Close(); err != nil {
			a.Logger.Warn().Err(err).Msg("Failed to close LLM service")
		}
	}

	if a.Maintenance != nil {
		a.Maintenance.Stop()
	}

	if a.DB != nil {
		if err := a.DB.Close(); err != nil {
			a.Logger.Warn().Err(err).Msg("Failed to close badger database")
			return err
		}
	}

	a.Logger.Info().Msg("Application closed")
	return nil
}
