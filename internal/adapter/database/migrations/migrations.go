// Package migrations embeds the schema so the binary migrates its own store
// on start, without a migrations directory next to it.
package migrations

import "embed"

//go:embed sqlite/*.sql
var SQLite embed.FS

//go:embed postgres/*.sql
var Postgres embed.FS
