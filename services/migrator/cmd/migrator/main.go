package main

import (
	"errors"
	"flag"
	"strings"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/pgx/v5"
	"github.com/golang-migrate/migrate/v4/source/iofs"

	"github.com/Mutter0815/PageBuilder/internal/store"
	"github.com/Mutter0815/PageBuilder/pkg/config"
	"github.com/Mutter0815/PageBuilder/pkg/logx"
)

func main() {
	logx.Init()
	defer logx.Sync()

	down := flag.Bool("down", false, "roll back every migration instead of applying them")
	flag.Parse()

	config.MustLoadMigrator()

	src, err := iofs.New(store.Migrations, "migrations")
	if err != nil {
		logx.L().Fatalw("migrations_source_error", "error", err)
	}
	m, err := migrate.NewWithSourceInstance("iofs", src, pgxDSN(config.Migrator.DBDSN))
	if err != nil {
		logx.L().Fatalw("migrate_init_error", "error", err)
	}
	defer func() {
		if srcErr, dbErr := m.Close(); srcErr != nil || dbErr != nil {
			logx.L().Warnw("migrate_close_error", "source", srcErr, "db", dbErr)
		}
	}()

	if *down {
		err = m.Down()
	} else {
		err = m.Up()
	}
	switch {
	case errors.Is(err, migrate.ErrNoChange):
		logx.L().Infow("migrations_no_change")
	case err != nil:
		logx.L().Fatalw("migrate_error", "down", *down, "error", err)
	default:
		version, dirty, _ := m.Version()
		logx.L().Infow("migrations_applied", "down", *down, "version", version, "dirty", dirty)
	}
}

// pgxDSN points a postgres URL at the pgx/v5 migrate driver.
func pgxDSN(dsn string) string {
	for _, scheme := range []string{"postgres://", "postgresql://"} {
		if strings.HasPrefix(dsn, scheme) {
			return "pgx5://" + strings.TrimPrefix(dsn, scheme)
		}
	}
	return dsn
}
