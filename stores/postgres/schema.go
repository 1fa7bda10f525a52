package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog/log"
)

// CreateSchema ensures the events table exists. The uniqueness constraint on
// (aggregate_id, version) is what makes concurrent appends safe; its backing
// index also serves single-aggregate history reads.
func CreateSchema(ctx context.Context, pool *pgxpool.Pool, table EventsTableName) error {
	name := string(table)
	if name == "" {
		name = string(DefaultEventsTableName)
	}

	schema := fmt.Sprintf(
		`CREATE TABLE IF NOT EXISTS %s (
			id TEXT PRIMARY KEY,
			aggregate_type TEXT NOT NULL,
			aggregate_id TEXT NOT NULL,
			version BIGINT NOT NULL,
			event_type TEXT NOT NULL,
			encoding TEXT NOT NULL,
			payload BYTEA NOT NULL,
			created_at TIMESTAMPTZ NOT NULL,
			UNIQUE (aggregate_id, version)
		)`,
		name,
	)

	if _, err := pool.Exec(ctx, schema); err != nil {
		return fmt.Errorf("create events table: %w", err)
	}

	log.Info().Str("table", name).Msg("ensured postgres events schema")

	return nil
}
