package commands

import (
	"context"
	"errors"
	"fmt"

	"github.com/wolfeidau/aistudio/internal/logger"
	"github.com/wolfeidau/aistudio/internal/server"
	"github.com/wolfeidau/aistudio/internal/store"
	memorystore "github.com/wolfeidau/aistudio/internal/store/memory"
	postgresstore "github.com/wolfeidau/aistudio/internal/store/postgres"
)

type ServerCmd struct {
	Listen string `help:"HTTP server listen address" default:"0.0.0.0:8000" env:"AISTUDIO_LISTEN"`

	// Store configuration
	StoreType string        `help:"store type (postgres or memory)" default:"postgres" env:"AISTUDIO_STORE_TYPE" enum:"postgres,memory"`
	Postgres  PostgresFlags `embed:"" prefix:"postgres-"`
}

type PostgresFlags struct {
	// Connection Configuration
	ConnString string `help:"PostgreSQL connection string" env:"DATABASE_URL"`

	// Connection Pool Configuration
	MaxConns        int32 `help:"maximum number of connections in pool" default:"20"`
	MinConns        int32 `help:"minimum number of connections in pool" default:"2"`
	MaxConnLifetime int32 `help:"maximum connection lifetime in seconds" default:"3600"`
	MaxConnIdleTime int32 `help:"maximum connection idle time in seconds" default:"1800"`

	// Provisioning Configuration
	Provision bool `help:"provision schema and isolation policies on startup" default:"true" negatable:"" env:"AISTUDIO_POSTGRES_PROVISION"`
}

func (f *PostgresFlags) Validate() error {
	if f.ConnString == "" {
		return errors.New("PostgreSQL connection string is required (--postgres-conn-string or DATABASE_URL)")
	}
	return nil
}

func (c *ServerCmd) Run(globals *Globals) error {
	log := logger.Setup(globals.Debug)
	ctx := context.Background()

	log.Info().Str("version", globals.Version).Bool("debug", globals.Debug).Msg("Starting server")

	var (
		projectStore  store.ProjectStore
		agentRunStore store.AgentRunStore
		usageLogStore store.UsageLogStore
	)

	switch c.StoreType {
	case "postgres":
		if err := c.Postgres.Validate(); err != nil {
			return fmt.Errorf("failed to validate postgres flags: %w", err)
		}

		db, err := postgresstore.Open(ctx, &postgresstore.PoolConfig{
			ConnString:      c.Postgres.ConnString,
			MaxConns:        c.Postgres.MaxConns,
			MinConns:        c.Postgres.MinConns,
			MaxConnLifetime: c.Postgres.MaxConnLifetime,
			MaxConnIdleTime: c.Postgres.MaxConnIdleTime,
		})
		if err != nil {
			return fmt.Errorf("failed to open database: %w", err)
		}
		defer db.Close()

		// Must complete before the listener starts; serving against a
		// partially provisioned schema is never acceptable.
		if c.Postgres.Provision {
			if err := postgresstore.Provision(ctx, db.Pool()); err != nil {
				return fmt.Errorf("failed to provision database: %w", err)
			}
		}

		projectStore = postgresstore.NewProjectStore(db)
		agentRunStore = postgresstore.NewAgentRunStore(db)
		usageLogStore = postgresstore.NewUsageLogStore(db)
		log.Info().Msg("Using PostgreSQL stores")

	default:
		stores := memorystore.New()
		projectStore = stores.Projects
		agentRunStore = stores.Runs
		usageLogStore = stores.Logs
		log.Warn().Msg("Using in-memory stores. Data is not persisted; development only!")
	}

	srv := server.New(projectStore, agentRunStore, usageLogStore)

	log.Info().Str("addr", c.Listen).Str("store", c.StoreType).Msg("Starting HTTP server")
	return configureHTTPServer(c.Listen, srv.Router(log)).ListenAndServe()
}
