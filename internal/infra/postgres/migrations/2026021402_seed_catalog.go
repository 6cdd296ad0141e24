package migrations

import (
	"context"
	_ "embed"

	"github.com/uptrace/bun"
)

//go:embed 0002_seed_catalog.sql
var seedCatalogSQL string

func init() {
	Migrations.MustRegister(
		func(ctx context.Context, db *bun.DB) error {
			_, err := db.ExecContext(ctx, seedCatalogSQL)
			return err
		},
		func(ctx context.Context, db *bun.DB) error {
			// Cascades to question_options.
			_, err := db.ExecContext(ctx, `DELETE FROM questions`)
			return err
		},
	)
}
