package internal

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/fluent/fluent-logger-golang/fluent"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/Venuja2003/Estate-Agent/internal/adapters/catalogfile"
	logger_adapter "github.com/Venuja2003/Estate-Agent/internal/adapters/logger"
	"github.com/Venuja2003/Estate-Agent/internal/adapters/notifier"
	postgres_adapter "github.com/Venuja2003/Estate-Agent/internal/adapters/postgres"
	"github.com/Venuja2003/Estate-Agent/internal/adapters/rabbitmq"
	"github.com/Venuja2003/Estate-Agent/internal/adapters/rest"
	"github.com/Venuja2003/Estate-Agent/internal/configs"
	"github.com/Venuja2003/Estate-Agent/internal/contextkeys"
	"github.com/Venuja2003/Estate-Agent/internal/core/domain"
	"github.com/Venuja2003/Estate-Agent/internal/core/port"
	"github.com/Venuja2003/Estate-Agent/internal/core/session"
	"github.com/Venuja2003/Estate-Agent/internal/core/usecase"
	fluentlogger "github.com/Venuja2003/Estate-Agent/pkg/fluentlogger"
	"github.com/Venuja2003/Estate-Agent/pkg/postgres"
	"github.com/Venuja2003/Estate-Agent/pkg/rabbitmq/amqpx"
)

const shutdownTimeout = 10 * time.Second

type App struct {
	config    *configs.AppConfig
	apiServer *rest.Server
	notifier  *notifier.SSENotifier
	sessions  *session.Registry

	dbPool       *pgxpool.Pool
	amqpManager  *amqpx.ConnectionManager
	publisher    *amqpx.Publisher
	fluentClient *fluent.Fluent
	logger       port.LoggerPort
}

// Logging is the logger stack built from configuration. Close flushes the
// Fluent Bit client when there is one.
type Logging struct {
	Base         port.LoggerPort
	fluentClient *fluent.Fluent
}

func (l *Logging) Close() {
	if l.fluentClient != nil {
		if err := l.fluentClient.Close(); err != nil {
			fmt.Fprintf(os.Stderr, "ERROR: closing fluent client: %v\n", err)
		}
	}
}

// NewLogging builds the stdout logger and, when enabled, the Fluent Bit sink.
func NewLogging(cfg *configs.AppConfig) (*Logging, error) {
	stdout := logger_adapter.NewSlogAdapter(logger_adapter.SlogConfig{
		Writer:   os.Stderr,
		Level:    parseLogLevel(cfg.StdoutLogger.Level),
		IsJSON:   cfg.StdoutLogger.JSON,
		UseColor: !cfg.StdoutLogger.JSON,
	})
	active := []port.LoggerPort{stdout}

	var fluentClient *fluent.Fluent
	if cfg.FluentBit.Enabled {
		var err error
		fluentClient, err = fluentlogger.NewClient(fluentlogger.Config{
			Host:      cfg.FluentBit.Host,
			Port:      cfg.FluentBit.Port,
			TagPrefix: cfg.AppName,
			Async:     true,
		})
		if err != nil {
			stdout.Error("Failed to create fluentbit client", err, nil)
			return nil, err
		}
		fluentAdapter, err := logger_adapter.NewFluentLoggerAdapter(fluentClient, parseLogLevel(cfg.FluentBit.Level))
		if err != nil {
			_ = fluentClient.Close()
			return nil, err
		}
		active = append(active, fluentAdapter)
	}

	multi, err := logger_adapter.NewMultiLoggerAdapter(active...)
	if err != nil {
		return nil, fmt.Errorf("failed to create multi-logger: %w", err)
	}
	base := multi.WithFields(port.Fields{"service_name": cfg.AppName})
	return &Logging{Base: base, fluentClient: fluentClient}, nil
}

// LoadCatalog reads the catalog from the configured source. The returned
// pool is nil for the file source; the caller closes it otherwise.
func LoadCatalog(ctx context.Context, cfg *configs.AppConfig) (*domain.Catalog, *pgxpool.Pool, error) {
	var (
		loader port.CatalogLoaderPort
		pool   *pgxpool.Pool
	)

	switch cfg.Catalog.Source {
	case configs.CatalogSourcePostgres:
		var err error
		pool, err = postgres.NewClient(ctx, postgres.Config{DatabaseURL: cfg.Database.URL, ConnTimeout: 10 * time.Second})
		if err != nil {
			return nil, nil, fmt.Errorf("%w: %v", domain.ErrCatalogUnavailable, err)
		}
		repo, err := postgres_adapter.NewCatalogRepository(pool)
		if err != nil {
			pool.Close()
			return nil, nil, err
		}
		loader = repo
	default:
		fileLoader, err := catalogfile.NewLoader(cfg.Catalog.Path)
		if err != nil {
			return nil, nil, fmt.Errorf("%w: %v", domain.ErrCatalogUnavailable, err)
		}
		loader = fileLoader
	}

	records, err := loader.Load(ctx)
	if err == nil {
		var catalog *domain.Catalog
		catalog, err = domain.NewCatalog(records)
		if err == nil {
			return catalog, pool, nil
		}
	}
	if pool != nil {
		pool.Close()
	}
	return nil, nil, err
}

func NewApp() (*App, error) {
	appConfig, err := configs.LoadConfig()
	if err != nil {
		return nil, fmt.Errorf("error loading application configuration: %w", err)
	}
	return NewAppWithConfig(appConfig)
}

func NewAppWithConfig(appConfig *configs.AppConfig) (*App, error) {
	logging, err := NewLogging(appConfig)
	if err != nil {
		return nil, err
	}
	baseLogger := logging.Base
	appLogger := baseLogger.WithFields(port.Fields{"component": "app"})
	appLogger.Info("Logger system initialized", port.Fields{"fluent_enabled": appConfig.FluentBit.Enabled})

	ctx := contextkeys.ContextWithLogger(context.Background(), baseLogger)
	catalog, dbPool, err := LoadCatalog(ctx, appConfig)
	if err != nil {
		appLogger.Error("Catalog unavailable, refusing to start", err, nil)
		logging.Close()
		return nil, fmt.Errorf("failed to load catalog: %w", err)
	}
	appLogger.Info("Catalog ready", port.Fields{"properties": catalog.Len(), "source": appConfig.Catalog.Source})

	app := &App{
		config:       appConfig,
		dbPool:       dbPool,
		fluentClient: logging.fluentClient,
		logger:       appLogger,
	}

	var events port.FavouritesEventPublisherPort = rabbitmq.NoopEventsAdapter{}
	if appConfig.RabbitMQ.Enabled {
		events, err = app.connectRabbitMQ(baseLogger)
		if err != nil {
			app.closeResources()
			return nil, err
		}
	}

	app.notifier = notifier.NewSSENotifier(baseLogger)
	app.sessions = session.NewRegistry(appConfig.Sessions.IdleTTL)
	app.sessions.OnCreate(app.notifier.Watch)

	registry := app.sessions
	handlers := rest.Handlers{
		Properties: rest.NewPropertyHandler(
			usecase.NewSearchPropertiesUseCase(catalog),
			usecase.NewGetPropertyUseCase(catalog, appConfig.MapsEmbedKey),
			usecase.NewGetFavouritesUseCase(registry)),
		Favourites: rest.NewFavouritesHandler(
			usecase.NewAddToFavouritesUseCase(catalog, registry, events),
			usecase.NewRemoveFromFavouritesUseCase(registry, events),
			usecase.NewClearFavouritesUseCase(registry, events),
			usecase.NewGetFavouritesUseCase(registry),
			app.notifier),
		Drag: rest.NewDragHandler(
			usecase.NewStartDragUseCase(catalog, registry),
			usecase.NewMoveDragUseCase(registry),
			usecase.NewDropDragUseCase(registry, events),
			usecase.NewCancelDragUseCase(registry),
			usecase.NewGetDragStateUseCase(registry),
			usecase.NewDropPayloadUseCase(catalog, registry, events)),
		Sessions: rest.NewSessionHandler(registry, catalog.Len()),
	}
	app.apiServer = rest.NewServer(rest.ServerConfig{
		Port:           appConfig.Rest.Port,
		AllowedOrigins: appConfig.Rest.AllowedOrigins,
	}, handlers, registry, baseLogger)
	appLogger.Info("REST API server configured", nil)

	return app, nil
}

func (a *App) connectRabbitMQ(baseLogger port.LoggerPort) (port.FavouritesEventPublisherPort, error) {
	bridge := rabbitmq.NewLoggerBridge(baseLogger)

	manager, err := amqpx.NewConnectionManager(a.config.RabbitMQ.URL, 0, bridge)
	if err != nil {
		a.logger.Error("Failed to connect to RabbitMQ", err, nil)
		return nil, fmt.Errorf("failed to connect to RabbitMQ: %w", err)
	}
	a.amqpManager = manager

	publisher, err := amqpx.NewPublisher(amqpx.PublisherConfig{
		ExchangeName:    a.config.RabbitMQ.Exchange,
		ExchangeType:    "topic",
		DurableExchange: true,
		DeclareExchange: true,
		Logger:          bridge,
	}, manager)
	if err != nil {
		return nil, fmt.Errorf("failed to create RabbitMQ publisher: %w", err)
	}
	a.publisher = publisher
	a.logger.Info("RabbitMQ publisher ready", port.Fields{"exchange": a.config.RabbitMQ.Exchange})

	return rabbitmq.NewFavouritesEventsAdapter(publisher)
}

// sweepSessions evicts idle sessions until ctx is done.
func (a *App) sweepSessions(ctx context.Context) {
	interval := a.config.Sessions.SweepInterval
	if interval <= 0 || a.config.Sessions.IdleTTL <= 0 {
		return
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if n := a.sessions.Evict(); n > 0 {
				a.logger.Info("Evicted idle sessions", port.Fields{"evicted": n, "live": a.sessions.Len()})
			}
		}
	}
}

func (a *App) closeResources() {
	if a.publisher != nil {
		if err := a.publisher.Close(); err != nil {
			a.logger.Error("Error closing RabbitMQ publisher", err, nil)
		}
	}
	if a.amqpManager != nil {
		if err := a.amqpManager.Close(); err != nil {
			a.logger.Error("Error closing RabbitMQ connection", err, nil)
		}
	}
	if a.dbPool != nil {
		a.dbPool.Close()
		a.logger.Info("PostgreSQL pool closed", nil)
	}
	if a.fluentClient != nil {
		if err := a.fluentClient.Close(); err != nil {
			fmt.Fprintf(os.Stderr, "ERROR: closing fluent client: %v\n", err)
		}
	}
}

// Run serves until SIGINT/SIGTERM or a server failure, then shuts down.
func (a *App) Run() error {
	appCtx, cancelApp := context.WithCancel(context.Background())
	defer cancelApp()

	go a.notifier.Run(appCtx)
	go a.sweepSessions(appCtx)

	serverErrors := make(chan error, 1)
	go func() {
		if err := a.apiServer.Start(); err != nil {
			serverErrors <- err
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(quit)

	a.logger.Info("Application running", port.Fields{"port": a.config.Rest.Port})

	var runErr error
	select {
	case sig := <-quit:
		a.logger.Warn("Received OS signal, shutting down", port.Fields{"signal": sig.String()})
	case runErr = <-serverErrors:
		a.logger.Error("Server failed, shutting down", runErr, nil)
	}

	cancelApp()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := a.apiServer.Stop(shutdownCtx); err != nil {
		a.logger.Error("Error during API server shutdown", err, nil)
	}

	a.logger.Info("Application shut down", nil)
	a.closeResources()
	return runErr
}

func parseLogLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "info", "":
		return slog.LevelInfo
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		log.Printf("Warning: unknown log level %q, defaulting to info", level)
		return slog.LevelInfo
	}
}
