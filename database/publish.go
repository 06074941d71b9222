package database

import (
	"context"
	"fmt"
)

// BrandCoverage покрытие полей каталога по одному бренду.
// Используется гейтом готовности к публикации.
type BrandCoverage struct {
	Brand               string  `json:"brand"`
	TotalProducts       int     `json:"total_products"`
	IngredientsCoverage float64 `json:"ingredients_coverage"`
	FormCoverage        float64 `json:"form_coverage"`
	LifeStageCoverage   float64 `json:"life_stage_coverage"`
	KcalCoverage        float64 `json:"kcal_coverage"`
}

// GetBrandCoverage считает покрытие полей по всем брендам каталога
func (db *CatalogDB) GetBrandCoverage(ctx context.Context) ([]*BrandCoverage, error) {
	rows, err := db.conn.QueryContext(ctx, `
		SELECT
			brand,
			COUNT(*) AS total,
			AVG(CASE WHEN ingredients_tokens <> '' THEN 1.0 ELSE 0.0 END) * 100 AS ingredients_pct,
			AVG(CASE WHEN form <> '' THEN 1.0 ELSE 0.0 END) * 100 AS form_pct,
			AVG(CASE WHEN life_stage <> '' THEN 1.0 ELSE 0.0 END) * 100 AS life_stage_pct,
			AVG(CASE WHEN kcal_per_100g IS NOT NULL THEN 1.0 ELSE 0.0 END) * 100 AS kcal_pct
		FROM foods_canonical
		WHERE brand <> ''
		GROUP BY brand
		ORDER BY brand
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to compute brand coverage: %w", err)
	}
	defer rows.Close()

	var result []*BrandCoverage
	for rows.Next() {
		var c BrandCoverage
		if err := rows.Scan(&c.Brand, &c.TotalProducts, &c.IngredientsCoverage, &c.FormCoverage, &c.LifeStageCoverage, &c.KcalCoverage); err != nil {
			return nil, fmt.Errorf("failed to scan brand coverage: %w", err)
		}
		result = append(result, &c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate brand coverage: %w", err)
	}

	return result, nil
}

// PublishBrandToPreview копирует записи бренда из каталога в таблицу
// предпросмотра публикации
func (db *CatalogDB) PublishBrandToPreview(ctx context.Context, brand string) (int, error) {
	res, err := db.conn.ExecContext(ctx, `
		INSERT INTO foods_published_preview (product_key, brand, brand_slug, product_name)
		SELECT product_key, brand, brand_slug, product_name
		FROM foods_canonical
		WHERE brand = $1
		ON CONFLICT (product_key) DO UPDATE SET
			brand = EXCLUDED.brand,
			brand_slug = EXCLUDED.brand_slug,
			product_name = EXCLUDED.product_name,
			published_at = now()
	`, brand)
	if err != nil {
		return 0, fmt.Errorf("failed to publish brand %s to preview: %w", brand, err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return 0, nil
	}
	return int(affected), nil
}

// PromoteBrandToProd переносит записи бренда из предпросмотра в прод
// одной транзакцией: прошедший гейт бренд публикуется целиком
func (db *CatalogDB) PromoteBrandToProd(ctx context.Context, brand string) (int, error) {
	tx, err := db.conn.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	res, err := tx.ExecContext(ctx, `
		INSERT INTO foods_published_prod (product_key, brand, brand_slug, product_name)
		SELECT product_key, brand, brand_slug, product_name
		FROM foods_published_preview
		WHERE brand = $1
		ON CONFLICT (product_key) DO UPDATE SET
			brand = EXCLUDED.brand,
			brand_slug = EXCLUDED.brand_slug,
			product_name = EXCLUDED.product_name,
			published_at = now()
	`, brand)
	if err != nil {
		return 0, fmt.Errorf("failed to promote brand %s to prod: %w", brand, err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		affected = 0
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("failed to commit promotion of brand %s: %w", brand, err)
	}

	return int(affected), nil
}
