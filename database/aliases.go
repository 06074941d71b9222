package database

import (
	"context"
	"fmt"
)

// AliasRow строка таблицы brand_alias
type AliasRow struct {
	Alias          string `json:"alias"`
	CanonicalBrand string `json:"canonical_brand"`
}

// UpsertAlias вставляет или обновляет алиас бренда. Алиас должен
// приходить уже нормализованным (brands.Normalize).
func (db *CatalogDB) UpsertAlias(ctx context.Context, alias, canonicalBrand string) error {
	if alias == "" {
		return fmt.Errorf("alias is empty")
	}
	if canonicalBrand == "" {
		return fmt.Errorf("canonical brand is empty")
	}

	_, err := db.conn.ExecContext(ctx, `
		INSERT INTO brand_alias (alias, canonical_brand)
		VALUES ($1, $2)
		ON CONFLICT (alias) DO UPDATE SET canonical_brand = EXCLUDED.canonical_brand
	`, alias, canonicalBrand)
	if err != nil {
		return fmt.Errorf("failed to upsert alias %s: %w", alias, err)
	}

	return nil
}

// ListAliases возвращает все алиасы каталога
func (db *CatalogDB) ListAliases(ctx context.Context) ([]AliasRow, error) {
	rows, err := db.conn.QueryContext(ctx,
		`SELECT alias, canonical_brand FROM brand_alias ORDER BY alias`)
	if err != nil {
		return nil, fmt.Errorf("failed to list aliases: %w", err)
	}
	defer rows.Close()

	var aliases []AliasRow
	for rows.Next() {
		var a AliasRow
		if err := rows.Scan(&a.Alias, &a.CanonicalBrand); err != nil {
			return nil, fmt.Errorf("failed to scan alias: %w", err)
		}
		aliases = append(aliases, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate aliases: %w", err)
	}

	return aliases, nil
}

// LearnAlias запоминает удачно разрешенный вариант написания, чтобы
// следующий прогон нашел его точным поиском. Конфликт с существующим
// алиасом не перезаписывается: выученный алиас слабее курируемого.
func (db *CatalogDB) LearnAlias(ctx context.Context, alias, canonicalBrand string) error {
	if alias == "" || canonicalBrand == "" {
		return fmt.Errorf("alias and canonical brand must not be empty")
	}

	_, err := db.conn.ExecContext(ctx, `
		INSERT INTO brand_alias (alias, canonical_brand)
		VALUES ($1, $2)
		ON CONFLICT (alias) DO NOTHING
	`, alias, canonicalBrand)
	if err != nil {
		return fmt.Errorf("failed to learn alias %s: %w", alias, err)
	}

	return nil
}
