// Package migrations embeds the SQL schema into the binary.
//
// Importing this package registers the schema with the database package,
// so the term table can be created at startup without SQL files on disk.
package migrations

import (
	"embed"

	"github.com/nerrad567/glossary-core/internal/infrastructure/database"
)

//go:embed *.sql
var migrationsFS embed.FS

func init() {
	database.MigrationsFS = migrationsFS
	database.MigrationsDir = "." // Files are at root of embedded FS
}
