package database

import (
	"context"
	_ "embed"
	"fmt"

	"github.com/jmoiron/sqlx"
)

//go:embed schema.sql
var schemaSQL string

// Schema returns the embedded DDL, used by the test container suite.
func Schema() string {
	return schemaSQL
}

// Migrate applies the embedded schema in one transaction. Every statement
// is idempotent, so it is safe to run on each deploy.
func (db *DB) Migrate(ctx context.Context) error {
	err := db.Transaction(ctx, func(tx *sqlx.Tx) error {
		_, err := tx.ExecContext(ctx, schemaSQL)
		return err
	})
	if err != nil {
		return fmt.Errorf("failed to apply schema: %w", err)
	}
	db.logger.Info().Msg("database schema applied")
	return nil
}
