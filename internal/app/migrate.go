package app

import (
	"errors"
	"fmt"
	"strings"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/pgx/v5"
	"github.com/golang-migrate/migrate/v4/source/iofs"

	"github.com/adanyl0v/tasks-api/internal/config"
	"github.com/adanyl0v/tasks-api/migrations"
)

const (
	MigrateUp      = "up"
	MigrateDown    = "down"
	MigrateVersion = "version"
)

// migrateLogger adapts zerolog to migrate.Logger.
type migrateLogger struct{}

func (migrateLogger) Printf(format string, v ...any) {
	globalLogger.Debug().Msg(strings.TrimSpace(fmt.Sprintf(format, v...)))
}

func (migrateLogger) Verbose() bool {
	return false
}

// MustMigratePostgres applies the embedded migrations. "down" rolls back a
// single step; "version" only reports the current schema version.
func MustMigratePostgres(direction string) {
	m, err := newMigrate(config.Global().Postgres)
	if err != nil {
		globalLogger.Error().
			Err(err).
			Msg("failed to init migrations")
		panic(err)
	}
	defer func() {
		srcErr, dbErr := m.Close()
		if err := errors.Join(srcErr, dbErr); err != nil {
			globalLogger.Warn().
				Err(err).
				Msg("failed to close migrations")
		}
	}()

	switch direction {
	case MigrateUp:
		err = m.Up()
	case MigrateDown:
		err = m.Steps(-1)
	case MigrateVersion:
	default:
		err = fmt.Errorf("unknown migration direction: %s", direction)
	}
	if err != nil && !errors.Is(err, migrate.ErrNoChange) {
		globalLogger.Error().
			Err(err).
			Str("direction", direction).
			Msg("failed to migrate postgres")
		panic(err)
	}

	version, dirty, err := m.Version()
	if err != nil && !errors.Is(err, migrate.ErrNilVersion) {
		globalLogger.Error().
			Err(err).
			Msg("failed to get migration version")
		panic(err)
	}
	globalLogger.Info().
		Str("direction", direction).
		Uint("version", version).
		Bool("dirty", dirty).
		Msg("migrated postgres")
}

func newMigrate(cfg config.PostgresConfig) (*migrate.Migrate, error) {
	src, err := iofs.New(migrations.FS, ".")
	if err != nil {
		return nil, fmt.Errorf("open embedded migrations: %w", err)
	}

	// The pgx/v5 driver registers itself under the pgx5 scheme.
	dbURL := "pgx5://" + strings.TrimPrefix(cfg.URL(), "postgres://")

	m, err := migrate.NewWithSourceInstance("iofs", src, dbURL)
	if err != nil {
		return nil, fmt.Errorf("create migrate instance: %w", err)
	}
	m.Log = migrateLogger{}
	return m, nil
}
