package openlark

import "embed"

// Migrations holds the goose migrations of the outbox schema.
//
//go:embed migrations/*.sql
var Migrations embed.FS
