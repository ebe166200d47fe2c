// Package migrations embeds the round-ledger/anomaly-ledger schema and
// runs it through golang-migrate, replacing the teacher's
// `database.AutoMigrate` (gorm.AutoMigrate against a fixed model list)
// with explicit up/down SQL — the larger, append-only table count here
// (round history kept forever, not just the current row per entity)
// benefits from real migration versioning instead of gorm inferring
// the schema from structs. Grounded on
// order_service/src/database/connection.go's AutoMigrate call site,
// generalized to golang-migrate since DESIGN.md already names it as
// the teacher's declared-but-unwired migration dependency.
package migrations

import (
	"embed"
	"errors"
	"fmt"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	"github.com/golang-migrate/migrate/v4/source/iofs"
)

//go:embed *.sql
var fs embed.FS

// Run applies every pending up migration against dsn. There is no
// on-disk migrations directory to serve over a filesystem path, so the
// SQL files are embedded into the binary and served through iofs.
func Run(dsn string) error {
	source, err := iofs.New(fs, ".")
	if err != nil {
		return fmt.Errorf("migrations: open embedded source: %w", err)
	}

	m, err := migrate.NewWithSourceInstance("iofs", source, dsn)
	if err != nil {
		return fmt.Errorf("migrations: build migrator: %w", err)
	}
	defer m.Close()

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("migrations: apply: %w", err)
	}
	return nil
}
