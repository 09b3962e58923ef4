package predictionmigrations

import "github.com/uptrace/bun/migrate"

// Migrations holds the prediction module's schema history.
var Migrations = migrate.NewMigrations()
