package migrations

import "github.com/uptrace/bun/migrate"

// Migrations collects the schema changes; each file registers itself by its numbered name.
var Migrations = migrate.NewMigrations()
