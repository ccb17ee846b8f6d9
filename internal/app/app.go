package app

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"librarydesk/internal/cli"
	"librarydesk/internal/config"
	"librarydesk/internal/lending"
	"librarydesk/internal/storage"
	"librarydesk/internal/storage/ch"
	"librarydesk/internal/storage/file"
	"librarydesk/internal/storage/sqlite"
	"librarydesk/internal/storage/stubs"
)

// App represents the application
type App struct {
	config  *config.Config
	logger  *zap.Logger
	db      storage.Storage
	library *lending.Library
}

// New creates and initializes a new application instance
func New(ctx context.Context) (*App, error) {
	// Load .env file if it exists
	envErr := godotenv.Load()

	// Load configuration from environment variables
	cfg, err := config.LoadFromEnv()
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	logger, err := newLogger(cfg.LogLevel, cfg.LogFormat)
	if err != nil {
		return nil, err
	}
	if envErr != nil {
		logger.Debug("No .env file found, using system environment variables")
	}

	app := &App{config: cfg, logger: logger}

	if err := app.initDatabase(ctx); err != nil {
		_ = logger.Sync()
		return nil, err
	}

	if err := app.initLibrary(ctx); err != nil {
		_ = app.db.Close()
		_ = logger.Sync()
		return nil, err
	}

	return app, nil
}

// newLogger builds a zap logger writing to stderr so command output stays clean
func newLogger(level, format string) (*zap.Logger, error) {
	lvl, err := zapcore.ParseLevel(level)
	if err != nil {
		return nil, fmt.Errorf("invalid LOG_LEVEL: %w", err)
	}

	zcfg := zap.NewProductionConfig()
	if format == "console" {
		zcfg = zap.NewDevelopmentConfig()
		zcfg.DisableStacktrace = true
	}
	zcfg.Level = zap.NewAtomicLevelAt(lvl)
	zcfg.OutputPaths = []string{"stderr"}
	zcfg.ErrorOutputPaths = []string{"stderr"}

	logger, err := zcfg.Build()
	if err != nil {
		return nil, fmt.Errorf("failed to build logger: %w", err)
	}
	return logger, nil
}

// initDatabase opens the configured storage backend
func (a *App) initDatabase(ctx context.Context) error {
	var db storage.Storage
	switch a.config.StorageBackend {
	case config.BackendMemory:
		a.logger.Info("Using in-memory storage")
		db = stubs.NewMockDB()
	case config.BackendFile:
		a.logger.Info("Using JSON file storage", zap.String("dir", a.config.DataDir))
		db = file.NewFileDB(a.config.DataDir, a.logger)
	case config.BackendSQLite:
		a.logger.Info("Using SQLite storage", zap.String("path", a.config.SQLitePath))
		sqliteDB, err := sqlite.NewSQLiteDB(a.config.SQLitePath, a.logger)
		if err != nil {
			return fmt.Errorf("failed to open SQLite: %w", err)
		}
		db = sqliteDB
	case config.BackendClickHouse:
		a.logger.Info("Connecting to ClickHouse",
			zap.String("host", a.config.ClickHouseHost),
			zap.Int("port", a.config.ClickHousePort),
			zap.String("database", a.config.ClickHouseDatabase),
			zap.String("user", a.config.ClickHouseUser),
			zap.Bool("tls", a.config.ClickHouseUseTLS))
		clickhouseDB, err := ch.NewClickHouseDB(
			a.config.ClickHouseHost,
			a.config.ClickHousePort,
			a.config.ClickHouseDatabase,
			a.config.ClickHouseUser,
			a.config.ClickHousePassword,
			a.config.ClickHouseUseTLS,
		)
		if err != nil {
			return fmt.Errorf("failed to connect to ClickHouse: %w", err)
		}
		db = clickhouseDB
	default:
		return fmt.Errorf("unknown storage backend %q", a.config.StorageBackend)
	}

	if err := db.Initialize(ctx); err != nil {
		_ = db.Close()
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	a.logger.Debug("Database initialized successfully")

	a.db = db
	return nil
}

func (a *App) initLibrary(ctx context.Context) error {
	lib, err := lending.New(ctx, a.db, lending.Config{
		FinePerDay:   a.config.FinePerDay,
		MaxBooks:     a.config.MaxBooks,
		BorrowPeriod: a.config.BorrowPeriod,
	}, a.logger)
	if err != nil {
		return fmt.Errorf("failed to load library: %w", err)
	}
	a.library = lib
	return nil
}

// Run executes one command line and shuts the application down
func (a *App) Run(args []string) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	runErr := a.Execute(ctx, args)
	if err := a.Shutdown(); err != nil && runErr == nil {
		return err
	}
	return runErr
}

// Execute runs one command line against the loaded library
func (a *App) Execute(ctx context.Context, args []string) error {
	root := cli.NewRootCmd(a.library, a.logger)
	root.SetArgs(args)
	err := root.ExecuteContext(ctx)
	if err != nil {
		a.logger.Debug("Command failed", zap.Error(err), zap.String("kind", lending.KindOf(err).String()))
	}
	return err
}

// Shutdown closes storage and flushes the logger
func (a *App) Shutdown() error {
	if err := a.db.Close(); err != nil {
		a.logger.Error("Error closing database", zap.Error(err))
		return err
	}
	// Sync on stderr returns EINVAL on some platforms
	_ = a.logger.Sync()
	return nil
}
