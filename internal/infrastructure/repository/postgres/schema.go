package postgres

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
)

// schemaSQL declares the tables the repositories operate on. espn_id carries
// a full UNIQUE constraint rather than a partial index: the reconciler's
// ON CONFLICT (espn_id) infers its arbiter from the bare column list, and a
// predicated index would never be matched. Nullable unique columns admit any
// number of NULLs, so rows without an external id are unaffected.
const schemaSQL = `
	CREATE EXTENSION IF NOT EXISTS "uuid-ossp";

	CREATE TABLE IF NOT EXISTS app_users (
		id UUID PRIMARY KEY DEFAULT uuid_generate_v4(),
		username VARCHAR(255) UNIQUE NOT NULL,
		display_name VARCHAR(255) NOT NULL DEFAULT '',
		password_hash VARCHAR(255) NOT NULL,
		expires_at TIMESTAMP WITH TIME ZONE NOT NULL,
		is_active BOOLEAN NOT NULL DEFAULT true,
		created_at TIMESTAMP WITH TIME ZONE DEFAULT NOW(),
		updated_at TIMESTAMP WITH TIME ZONE DEFAULT NOW()
	);

	CREATE INDEX IF NOT EXISTS idx_app_users_username ON app_users(username);

	CREATE TABLE IF NOT EXISTS events (
		id UUID PRIMARY KEY DEFAULT uuid_generate_v4(),
		espn_id VARCHAR(64) UNIQUE,
		name VARCHAR(512) NOT NULL,
		event_date TIMESTAMP WITH TIME ZONE NOT NULL,
		sport VARCHAR(64) NOT NULL DEFAULT '',
		league VARCHAR(64) NOT NULL DEFAULT '',
		team_home VARCHAR(255) NOT NULL DEFAULT '',
		team_away VARCHAR(255) NOT NULL DEFAULT '',
		thumbnail TEXT,
		stream_url TEXT NOT NULL DEFAULT '',
		stream_url_2 TEXT NOT NULL DEFAULT '',
		stream_url_3 TEXT NOT NULL DEFAULT '',
		is_live BOOLEAN NOT NULL DEFAULT false,
		is_active BOOLEAN NOT NULL DEFAULT true,
		created_at TIMESTAMP WITH TIME ZONE DEFAULT NOW(),
		updated_at TIMESTAMP WITH TIME ZONE DEFAULT NOW()
	);

	CREATE INDEX IF NOT EXISTS idx_events_event_date ON events(event_date);

	CREATE TABLE IF NOT EXISTS settings (
		key VARCHAR(255) PRIMARY KEY,
		value JSONB NOT NULL,
		updated_at TIMESTAMP WITH TIME ZONE DEFAULT NOW()
	);
`

// Migrate applies the schema. All statements are idempotent.
func Migrate(ctx context.Context, pool *pgxpool.Pool) error {
	_, err := pool.Exec(ctx, schemaSQL)
	return err
}
