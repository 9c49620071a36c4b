package container

import (
	"context"
	"fmt"
	"time"

	"roster/adapters/excel"
	"roster/adapters/kv"
	"roster/adapters/postgres"
	"roster/internal"
	"roster/internal/agenda"
	"roster/internal/config"
	"roster/internal/events"
	"roster/internal/importer"
	"roster/internal/migration"
	"roster/internal/roster"
	"roster/internal/seed"
	"roster/ports"
	"roster/ui"

	"github.com/jmoiron/sqlx"
)

// Container holds all application dependencies and manages their lifecycle
type Container struct {
	Config *config.Config
	Logger *internal.Logger

	// Infrastructure
	DB       *sqlx.DB
	Snapshot ports.SnapshotRepository

	// Domain services
	Events   *events.SSEHub
	Store    *roster.Store
	Importer *importer.Service
	Agenda   *agenda.Scheduler

	// HTTP surfaces
	API   *ui.Server
	Admin *ui.AdminApp
}

// New creates a new dependency injection container
func New(cfg *config.Config) (*Container, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config cannot be nil")
	}

	return &Container{
		Config: cfg,
		Logger: internal.NewLogger(internal.ParseLogLevel(cfg.Log.Level)),
	}, nil
}

// Init opens persistence and wires every component. Shutdown must be called
// even when Init fails part way.
func (c *Container) Init(ctx context.Context) error {
	if err := c.initPersistence(ctx); err != nil {
		return fmt.Errorf("failed to initialize persistence: %w", err)
	}

	if err := c.initStore(ctx); err != nil {
		return fmt.Errorf("failed to initialize store: %w", err)
	}

	if err := c.initServices(); err != nil {
		return fmt.Errorf("failed to initialize services: %w", err)
	}

	c.initHTTP()

	c.Logger.Info("Container initialized with %s backend, %d customers", c.Config.Store.Backend, c.Store.Len())
	return nil
}

// initPersistence opens the configured snapshot backend
func (c *Container) initPersistence(ctx context.Context) error {
	switch c.Config.Store.Backend {
	case config.BackendPostgres:
		db, err := postgres.Connect(ctx, c.Config.Store.DatabaseURL)
		if err != nil {
			return err
		}
		if err := migrateOrClose(ctx, db, migration.NewRunner().Run); err != nil {
			return err
		}
		c.DB = db
		c.Snapshot = postgres.NewSnapshotRepository(db)
	default:
		repo, err := kv.OpenBadger(c.Config.Store.BadgerDir, c.Logger)
		if err != nil {
			return err
		}
		c.Snapshot = repo
	}
	return nil
}

// migrateOrClose applies the schema and closes db when that fails
func migrateOrClose(ctx context.Context, db *sqlx.DB, run func(context.Context, *sqlx.DB) error) error {
	if err := run(ctx, db); err != nil {
		if closeErr := db.Close(); closeErr != nil {
			return fmt.Errorf("%w (closing database: %v)", err, closeErr)
		}
		return err
	}
	return nil
}

// initStore loads the record set, seeding an empty slot
func (c *Container) initStore(ctx context.Context) error {
	records, err := seed.LoadFile(c.Config.Store.SeedFile)
	if err != nil {
		return err
	}

	c.Events = events.NewSSEHub(30*time.Second, c.Logger)
	c.Store, err = roster.Open(ctx, c.Snapshot, roster.Options{
		Slot:     c.Config.Store.Slot,
		Location: c.Config.Server.Location,
		Seed:     records,
		Logger:   c.Logger,
		Listener: c.Events,
	})
	return err
}

// initServices wires the importer and the agenda scheduler
func (c *Container) initServices() error {
	excelConfig := excel.DefaultExcelConfig()
	excelConfig.MaxUploadBytes = c.Config.Import.MaxUploadBytes()

	c.Importer = importer.NewService(
		excel.NewDataReader(excelConfig),
		importer.NewAggregator(c.Logger),
		importer.NewPendingRegistry(c.Config.Import.PendingTTL),
		c.Store,
		c.Logger,
	)

	var err error
	c.Agenda, err = agenda.New(c.Config.Server.Location, c.Config.Agenda.Spec, c.Store, c.Importer.Pending(), c.Logger)
	return err
}

// initHTTP builds the API server and the admin listener
func (c *Container) initHTTP() {
	c.API = ui.NewServer(ui.Deps{
		Store:          c.Store,
		Importer:       c.Importer,
		Events:         c.Events,
		MaxUploadBytes: c.Config.Import.MaxUploadBytes(),
		AllowedOrigins: c.Config.Server.AllowedOrigins,
		Logger:         c.Logger,
	})

	var pinger ui.Pinger
	if p, ok := c.Snapshot.(ui.Pinger); ok {
		pinger = p
	}
	c.Admin = ui.NewAdminApp(ui.AdminConfig{Profiling: c.Config.Profiling.Enabled}, c.Store, c.Importer.Pending(), pinger)
}

// Shutdown gracefully shuts down all components
func (c *Container) Shutdown(ctx context.Context) error {
	if c.Snapshot != nil {
		return c.Snapshot.Close()
	}
	if c.DB != nil {
		return c.DB.Close()
	}
	return nil
}
