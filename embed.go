// Package wefund exposes build-time assets embedded into the binary,
// currently the goose SQL migrations applied by the migrate subcommand.
package wefund

import "embed"

// Migrations contains the goose SQL migration files.
//
//go:embed migrations/*.sql
var Migrations embed.FS
