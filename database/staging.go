package database

import (
	"context"
	"fmt"
	"time"
)

// HarvestStagingRow строка стейджинга производителя: сырой результат
// скрейпинга до нормализации и слияния с каталогом
type HarvestStagingRow struct {
	ID          int64     `json:"id"`
	SessionID   string    `json:"session_id"`
	Source      string    `json:"source"`
	SourceURL   string    `json:"source_url"`
	RawBrand    string    `json:"raw_brand"`
	ProductName string    `json:"product_name"`
	SnapshotKey string    `json:"snapshot_key"`
	HarvestedAt time.Time `json:"harvested_at"`
}

// InsertHarvestStaging пишет строку стейджинга
func (db *CatalogDB) InsertHarvestStaging(ctx context.Context, row *HarvestStagingRow) error {
	if row == nil {
		return fmt.Errorf("staging row is nil")
	}
	if row.SessionID == "" {
		return fmt.Errorf("session id is empty")
	}

	_, err := db.conn.ExecContext(ctx, `
		INSERT INTO manufacturer_harvest_staging (session_id, source, source_url, raw_brand, product_name, snapshot_key)
		VALUES ($1, $2, $3, $4, $5, $6)
	`, row.SessionID, row.Source, row.SourceURL, row.RawBrand, row.ProductName, row.SnapshotKey)
	if err != nil {
		return fmt.Errorf("failed to insert harvest staging row: %w", err)
	}

	return nil
}

// ListHarvestStaging возвращает строки стейджинга одной сессии
func (db *CatalogDB) ListHarvestStaging(ctx context.Context, sessionID string) ([]*HarvestStagingRow, error) {
	rows, err := db.conn.QueryContext(ctx, `
		SELECT id, session_id, source, source_url, raw_brand, product_name, snapshot_key, harvested_at
		FROM manufacturer_harvest_staging
		WHERE session_id = $1
		ORDER BY id
	`, sessionID)
	if err != nil {
		return nil, fmt.Errorf("failed to list harvest staging rows: %w", err)
	}
	defer rows.Close()

	var result []*HarvestStagingRow
	for rows.Next() {
		var r HarvestStagingRow
		if err := rows.Scan(&r.ID, &r.SessionID, &r.Source, &r.SourceURL, &r.RawBrand, &r.ProductName, &r.SnapshotKey, &r.HarvestedAt); err != nil {
			return nil, fmt.Errorf("failed to scan harvest staging row: %w", err)
		}
		result = append(result, &r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate harvest staging rows: %w", err)
	}

	return result, nil
}
