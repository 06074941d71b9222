package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// ProductRecord запись каталога foods_canonical
type ProductRecord struct {
	ProductKey       string          `json:"product_key"`
	Brand            string          `json:"brand"`
	BrandSlug        string          `json:"brand_slug"`
	BrandConfidence  string          `json:"brand_confidence"`
	ProductName      string          `json:"product_name"`
	Form             string          `json:"form"`
	LifeStage        string          `json:"life_stage"`
	IngredientsRaw   string          `json:"ingredients_tokens"`
	ProteinPercent   float64         `json:"protein_percent"`
	FatPercent       float64         `json:"fat_percent"`
	FiberPercent     float64         `json:"fiber_percent"`
	AshPercent       float64         `json:"ash_percent"`
	MoisturePercent  float64         `json:"moisture_percent"`
	KcalPer100g      float64         `json:"kcal_per_100g"`
	Price            decimal.Decimal `json:"price"`
	PriceCurrency    string          `json:"price_currency"`
	Source           string          `json:"source"`
	SourceURL        string          `json:"source_url"`
	CreatedAt        time.Time       `json:"created_at"`
	UpdatedAt        time.Time       `json:"updated_at"`
}

const productColumns = `product_key, brand, brand_slug, brand_confidence, product_name,
	form, life_stage, ingredients_tokens,
	protein_percent, fat_percent, fiber_percent, ash_percent, moisture_percent, kcal_per_100g,
	price, price_currency, source, source_url, created_at, updated_at`

// UpsertProduct вставляет или обновляет запись каталога по product_key
func (db *CatalogDB) UpsertProduct(ctx context.Context, p *ProductRecord) error {
	if p == nil {
		return fmt.Errorf("product is nil")
	}
	if p.ProductKey == "" {
		return fmt.Errorf("product_key is empty")
	}

	_, err := db.conn.ExecContext(ctx, `
		INSERT INTO foods_canonical (
			product_key, brand, brand_slug, brand_confidence, product_name,
			form, life_stage, ingredients_tokens,
			protein_percent, fat_percent, fiber_percent, ash_percent, moisture_percent, kcal_per_100g,
			price, price_currency, source, source_url
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18)
		ON CONFLICT (product_key) DO UPDATE SET
			brand = EXCLUDED.brand,
			brand_slug = EXCLUDED.brand_slug,
			brand_confidence = EXCLUDED.brand_confidence,
			product_name = EXCLUDED.product_name,
			form = EXCLUDED.form,
			life_stage = EXCLUDED.life_stage,
			ingredients_tokens = EXCLUDED.ingredients_tokens,
			protein_percent = EXCLUDED.protein_percent,
			fat_percent = EXCLUDED.fat_percent,
			fiber_percent = EXCLUDED.fiber_percent,
			ash_percent = EXCLUDED.ash_percent,
			moisture_percent = EXCLUDED.moisture_percent,
			kcal_per_100g = EXCLUDED.kcal_per_100g,
			price = EXCLUDED.price,
			price_currency = EXCLUDED.price_currency,
			source = EXCLUDED.source,
			source_url = EXCLUDED.source_url,
			updated_at = now()
	`,
		p.ProductKey, p.Brand, p.BrandSlug, p.BrandConfidence, p.ProductName,
		p.Form, p.LifeStage, p.IngredientsRaw,
		nullableFloat(p.ProteinPercent), nullableFloat(p.FatPercent), nullableFloat(p.FiberPercent),
		nullableFloat(p.AshPercent), nullableFloat(p.MoisturePercent), nullableFloat(p.KcalPer100g),
		p.Price.String(), p.PriceCurrency, p.Source, p.SourceURL,
	)
	if err != nil {
		return fmt.Errorf("failed to upsert product %s: %w", p.ProductKey, err)
	}

	return nil
}

// GetProduct возвращает запись каталога по ключу; (nil, nil) если нет
func (db *CatalogDB) GetProduct(ctx context.Context, productKey string) (*ProductRecord, error) {
	row := db.conn.QueryRowContext(ctx,
		`SELECT `+productColumns+` FROM foods_canonical WHERE product_key = $1`, productKey)

	p, err := scanProduct(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get product %s: %w", productKey, err)
	}
	return p, nil
}

// ListUnresolvedProducts возвращает записи, чей бренд еще не разрешен
// автоматически (unmapped/low/medium или пустой slug)
func (db *CatalogDB) ListUnresolvedProducts(ctx context.Context, limit int) ([]*ProductRecord, error) {
	if limit <= 0 {
		limit = 1000
	}

	rows, err := db.conn.QueryContext(ctx, `
		SELECT `+productColumns+`
		FROM foods_canonical
		WHERE brand_confidence IN ('unmapped', 'low', 'medium') OR brand_slug = ''
		ORDER BY product_key
		LIMIT $1
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list unresolved products: %w", err)
	}
	defer rows.Close()

	return collectProducts(rows)
}

// ListProductsByBrand возвращает записи каталога указанного бренда
func (db *CatalogDB) ListProductsByBrand(ctx context.Context, brand string) ([]*ProductRecord, error) {
	rows, err := db.conn.QueryContext(ctx,
		`SELECT `+productColumns+` FROM foods_canonical WHERE brand = $1 ORDER BY product_key`, brand)
	if err != nil {
		return nil, fmt.Errorf("failed to list products for brand %s: %w", brand, err)
	}
	defer rows.Close()

	return collectProducts(rows)
}

// ApplyBrandResolution применяет разрешение бренда к одной записи в
// одной транзакции: brand, brand_slug, brand_confidence и product_key
// обновляются вместе, строка аудита пишется туда же. rebuildKey получает
// старый ключ и возвращает новый.
func (db *CatalogDB) ApplyBrandResolution(ctx context.Context, productKey, canonical, slug, confidence, actor string, rebuildKey func(string) string) error {
	if rebuildKey == nil {
		return fmt.Errorf("rebuildKey is nil")
	}

	tx, err := db.conn.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	var oldBrand, oldSlug string
	err = tx.QueryRowContext(ctx,
		`SELECT brand, brand_slug FROM foods_canonical WHERE product_key = $1 FOR UPDATE`,
		productKey).Scan(&oldBrand, &oldSlug)
	if err != nil {
		return fmt.Errorf("failed to lock product %s: %w", productKey, err)
	}

	newKey := rebuildKey(productKey)
	_, err = tx.ExecContext(ctx, `
		UPDATE foods_canonical
		SET brand = $1, brand_slug = $2, brand_confidence = $3, product_key = $4, updated_at = now()
		WHERE product_key = $5
	`, canonical, slug, confidence, newKey, productKey)
	if err != nil {
		return fmt.Errorf("failed to update product %s: %w", productKey, err)
	}

	_, err = tx.ExecContext(ctx, `
		INSERT INTO brand_rename_audit (old_brand, new_brand, old_slug, new_slug, old_product_key, new_product_key, actor)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`, oldBrand, canonical, oldSlug, slug, productKey, newKey, actor)
	if err != nil {
		return fmt.Errorf("failed to write audit row for %s: %w", productKey, err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit brand resolution for %s: %w", productKey, err)
	}

	return nil
}

// RenameBrandResult итог массового переименования бренда
type RenameBrandResult struct {
	OldBrand string `json:"old_brand"`
	NewBrand string `json:"new_brand"`
	Renamed  int    `json:"renamed"`
}

// RenameBrand переименовывает бренд во всех записях каталога одной
// транзакцией: brand, brand_slug и product_key каждой строки меняются
// вместе, на каждую строку пишется строка аудита. Частично примененных
// переименований не бывает.
func (db *CatalogDB) RenameBrand(ctx context.Context, oldBrand, newBrand, newSlug, actor string, rebuildKey func(string) string) (*RenameBrandResult, error) {
	if rebuildKey == nil {
		return nil, fmt.Errorf("rebuildKey is nil")
	}

	tx, err := db.conn.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	rows, err := tx.QueryContext(ctx,
		`SELECT product_key, brand_slug FROM foods_canonical WHERE brand = $1 FOR UPDATE`, oldBrand)
	if err != nil {
		return nil, fmt.Errorf("failed to select products of brand %s: %w", oldBrand, err)
	}

	type keyPair struct {
		oldKey  string
		oldSlug string
	}
	var pairs []keyPair
	for rows.Next() {
		var kp keyPair
		if err := rows.Scan(&kp.oldKey, &kp.oldSlug); err != nil {
			rows.Close()
			return nil, fmt.Errorf("failed to scan product key: %w", err)
		}
		pairs = append(pairs, kp)
	}
	if err := rows.Err(); err != nil {
		rows.Close()
		return nil, fmt.Errorf("failed to iterate products of brand %s: %w", oldBrand, err)
	}
	rows.Close()

	for _, kp := range pairs {
		newKey := rebuildKey(kp.oldKey)

		_, err = tx.ExecContext(ctx, `
			UPDATE foods_canonical
			SET brand = $1, brand_slug = $2, product_key = $3, updated_at = now()
			WHERE product_key = $4
		`, newBrand, newSlug, newKey, kp.oldKey)
		if err != nil {
			return nil, fmt.Errorf("failed to rename product %s: %w", kp.oldKey, err)
		}

		_, err = tx.ExecContext(ctx, `
			INSERT INTO brand_rename_audit (old_brand, new_brand, old_slug, new_slug, old_product_key, new_product_key, actor)
			VALUES ($1, $2, $3, $4, $5, $6, $7)
		`, oldBrand, newBrand, kp.oldSlug, newSlug, kp.oldKey, newKey, actor)
		if err != nil {
			return nil, fmt.Errorf("failed to write audit row for %s: %w", kp.oldKey, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit rename %s -> %s: %w", oldBrand, newBrand, err)
	}

	return &RenameBrandResult{OldBrand: oldBrand, NewBrand: newBrand, Renamed: len(pairs)}, nil
}

func nullableFloat(v float64) interface{} {
	if v == 0 {
		return nil
	}
	return v
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanProduct(row rowScanner) (*ProductRecord, error) {
	var (
		p          ProductRecord
		protein    sql.NullFloat64
		fat        sql.NullFloat64
		fiber      sql.NullFloat64
		ash        sql.NullFloat64
		moisture   sql.NullFloat64
		kcal       sql.NullFloat64
		price      sql.NullString
	)

	err := row.Scan(
		&p.ProductKey, &p.Brand, &p.BrandSlug, &p.BrandConfidence, &p.ProductName,
		&p.Form, &p.LifeStage, &p.IngredientsRaw,
		&protein, &fat, &fiber, &ash, &moisture, &kcal,
		&price, &p.PriceCurrency, &p.Source, &p.SourceURL, &p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	p.ProteinPercent = nullFloat(protein)
	p.FatPercent = nullFloat(fat)
	p.FiberPercent = nullFloat(fiber)
	p.AshPercent = nullFloat(ash)
	p.MoisturePercent = nullFloat(moisture)
	p.KcalPer100g = nullFloat(kcal)

	if price.Valid && price.String != "" {
		parsed, err := decimal.NewFromString(price.String)
		if err != nil {
			return nil, fmt.Errorf("invalid price %q for %s: %w", price.String, p.ProductKey, err)
		}
		p.Price = parsed
	}

	return &p, nil
}

func collectProducts(rows *sql.Rows) ([]*ProductRecord, error) {
	var products []*ProductRecord
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan product: %w", err)
		}
		products = append(products, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate products: %w", err)
	}
	return products, nil
}
