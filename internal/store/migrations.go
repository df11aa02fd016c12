package store

import "embed"

// Migrations holds the Postgres schema, applied by the migrator service.
//
//go:embed migrations/*.sql
var Migrations embed.FS
