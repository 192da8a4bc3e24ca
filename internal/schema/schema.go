// Package schema holds the Postgres DDL applied by "wardrobe migrate".
package schema

import (
	"context"
	_ "embed"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"
)

//go:embed schema.sql
var SQL string

type execer interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
}

// Apply runs the whole schema. Every statement is idempotent.
func Apply(ctx context.Context, db execer) error {
	if _, err := db.Exec(ctx, SQL); err != nil {
		return fmt.Errorf("failed to apply schema: %w", err)
	}
	return nil
}
