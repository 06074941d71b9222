package database

import (
	"context"
	"fmt"
	"strings"
)

// Схема каталога. DDL идемпотентен: IF NOT EXISTS везде, где Postgres
// это поддерживает, ошибки повторного добавления колонок игнорируются.
var catalogMigrations = []string{
	`CREATE TABLE IF NOT EXISTS foods_canonical (
		product_key TEXT PRIMARY KEY,
		brand TEXT NOT NULL DEFAULT '',
		brand_slug TEXT NOT NULL DEFAULT '',
		brand_confidence TEXT NOT NULL DEFAULT 'unmapped',
		product_name TEXT NOT NULL DEFAULT '',
		form TEXT NOT NULL DEFAULT '',
		life_stage TEXT NOT NULL DEFAULT '',
		ingredients_tokens TEXT NOT NULL DEFAULT '',
		protein_percent DOUBLE PRECISION,
		fat_percent DOUBLE PRECISION,
		fiber_percent DOUBLE PRECISION,
		ash_percent DOUBLE PRECISION,
		moisture_percent DOUBLE PRECISION,
		kcal_per_100g DOUBLE PRECISION,
		price NUMERIC(12, 2),
		price_currency TEXT NOT NULL DEFAULT '',
		source TEXT NOT NULL DEFAULT '',
		source_url TEXT NOT NULL DEFAULT '',
		created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
	)`,
	`CREATE INDEX IF NOT EXISTS idx_foods_canonical_brand ON foods_canonical(brand)`,
	`CREATE INDEX IF NOT EXISTS idx_foods_canonical_brand_slug ON foods_canonical(brand_slug)`,
	`CREATE INDEX IF NOT EXISTS idx_foods_canonical_confidence ON foods_canonical(brand_confidence)`,

	`CREATE TABLE IF NOT EXISTS brand_alias (
		alias TEXT PRIMARY KEY,
		canonical_brand TEXT NOT NULL,
		created_at TIMESTAMPTZ NOT NULL DEFAULT now()
	)`,
	`CREATE INDEX IF NOT EXISTS idx_brand_alias_canonical ON brand_alias(canonical_brand)`,

	`CREATE TABLE IF NOT EXISTS brand_rename_audit (
		id BIGSERIAL PRIMARY KEY,
		old_brand TEXT NOT NULL,
		new_brand TEXT NOT NULL,
		old_slug TEXT NOT NULL,
		new_slug TEXT NOT NULL,
		old_product_key TEXT NOT NULL,
		new_product_key TEXT NOT NULL,
		actor TEXT NOT NULL DEFAULT '',
		created_at TIMESTAMPTZ NOT NULL DEFAULT now()
	)`,
	`CREATE INDEX IF NOT EXISTS idx_brand_rename_audit_new_brand ON brand_rename_audit(new_brand)`,

	`CREATE TABLE IF NOT EXISTS manufacturer_harvest_staging (
		id BIGSERIAL PRIMARY KEY,
		session_id TEXT NOT NULL,
		source TEXT NOT NULL,
		source_url TEXT NOT NULL DEFAULT '',
		raw_brand TEXT NOT NULL DEFAULT '',
		product_name TEXT NOT NULL DEFAULT '',
		snapshot_key TEXT NOT NULL DEFAULT '',
		harvested_at TIMESTAMPTZ NOT NULL DEFAULT now()
	)`,
	`CREATE INDEX IF NOT EXISTS idx_harvest_staging_session ON manufacturer_harvest_staging(session_id)`,

	`CREATE TABLE IF NOT EXISTS foods_published_preview (
		product_key TEXT PRIMARY KEY,
		brand TEXT NOT NULL,
		brand_slug TEXT NOT NULL,
		product_name TEXT NOT NULL DEFAULT '',
		published_at TIMESTAMPTZ NOT NULL DEFAULT now()
	)`,
	`CREATE TABLE IF NOT EXISTS foods_published_prod (
		product_key TEXT PRIMARY KEY,
		brand TEXT NOT NULL,
		brand_slug TEXT NOT NULL,
		product_name TEXT NOT NULL DEFAULT '',
		published_at TIMESTAMPTZ NOT NULL DEFAULT now()
	)`,
}

// RunMigrations применяет схему каталога
func (db *CatalogDB) RunMigrations(ctx context.Context) error {
	for _, migration := range catalogMigrations {
		if _, err := db.conn.ExecContext(ctx, migration); err != nil {
			errStr := strings.ToLower(err.Error())
			// Повторное добавление колонки или индекса не считается ошибкой
			if strings.Contains(errStr, "already exists") || strings.Contains(errStr, "duplicate column") {
				continue
			}
			return fmt.Errorf("migration failed: %s, error: %w", firstLine(migration), err)
		}
	}
	return nil
}

func firstLine(stmt string) string {
	stmt = strings.TrimSpace(stmt)
	if idx := strings.IndexByte(stmt, '\n'); idx > 0 {
		return stmt[:idx]
	}
	return stmt
}
