// internal/common/database/schema.go
package database

// schemaStatements create the tables the mandi workers read and write.
var schemaStatements = []string{
	`CREATE TABLE IF NOT EXISTS mandis (
		id         TEXT PRIMARY KEY,
		name       TEXT NOT NULL,
		location   TEXT NOT NULL DEFAULT '',
		latitude   DOUBLE PRECISION NOT NULL,
		longitude  DOUBLE PRECISION NOT NULL,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE TABLE IF NOT EXISTS mandi_listings (
		id                 BIGSERIAL PRIMARY KEY,
		mandi_id           TEXT NOT NULL REFERENCES mandis(id) ON DELETE CASCADE,
		product_name       TEXT NOT NULL,
		available_quantity DOUBLE PRECISION NOT NULL CHECK (available_quantity >= 0),
		price_per_kg       DOUBLE PRECISION NOT NULL CHECK (price_per_kg >= 0),
		shelf_life_days    INTEGER NOT NULL CHECK (shelf_life_days >= 0),
		updated_at         TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE INDEX IF NOT EXISTS idx_mandi_listings_product ON mandi_listings (LOWER(product_name))`,
	`CREATE TABLE IF NOT EXISTS retailers (
		id        TEXT PRIMARY KEY,
		name      TEXT NOT NULL,
		email     TEXT,
		phone     TEXT,
		latitude  DOUBLE PRECISION NOT NULL,
		longitude DOUBLE PRECISION NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS mandi_orders (
		id                  UUID PRIMARY KEY,
		request_id          TEXT NOT NULL UNIQUE,
		retailer_id         TEXT NOT NULL,
		mandi_id            TEXT NOT NULL,
		product_name        TEXT NOT NULL,
		quantity            DOUBLE PRECISION NOT NULL,
		price_per_kg        DOUBLE PRECISION NOT NULL,
		total_cost          DOUBLE PRECISION NOT NULL,
		profit              DOUBLE PRECISION NOT NULL,
		distance_km         DOUBLE PRECISION NOT NULL,
		shelf_life_days     INTEGER NOT NULL,
		delivery_time_hours INTEGER NOT NULL,
		scenario            TEXT,
		status              TEXT NOT NULL,
		details             JSONB,
		order_date          TIMESTAMPTZ NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS mandi_notifications (
		id            UUID PRIMARY KEY,
		mandi_id      TEXT NOT NULL,
		order_id      UUID,
		type          TEXT NOT NULL,
		message       TEXT NOT NULL,
		retailer_name TEXT NOT NULL DEFAULT '',
		product_name  TEXT NOT NULL DEFAULT '',
		quantity      DOUBLE PRECISION NOT NULL DEFAULT 0,
		total_cost    DOUBLE PRECISION NOT NULL DEFAULT 0,
		distance_km   DOUBLE PRECISION NOT NULL DEFAULT 0,
		is_read       BOOLEAN NOT NULL DEFAULT FALSE,
		created_at    TIMESTAMPTZ NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS idx_mandi_notifications_mandi ON mandi_notifications (mandi_id, created_at DESC)`,
	`CREATE TABLE IF NOT EXISTS audit_log (
		id          BIGSERIAL PRIMARY KEY,
		entity_type TEXT NOT NULL,
		entity_id   TEXT NOT NULL,
		action      TEXT NOT NULL,
		details     JSONB,
		created_at  TIMESTAMPTZ NOT NULL
	)`,
}
