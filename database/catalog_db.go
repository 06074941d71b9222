// Package database содержит доступ к каталогу кормов в Postgres:
// таблицы foods_canonical, brand_alias, brand_rename_audit,
// manufacturer_harvest_staging и публикационные таблицы.
package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib" // регистрация драйвера pgx для database/sql
)

// DBConfig настройки пула соединений
type DBConfig struct {
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
}

// DefaultDBConfig возвращает настройки пула по умолчанию
func DefaultDBConfig() DBConfig {
	return DBConfig{
		MaxOpenConns:    25,
		MaxIdleConns:    5,
		ConnMaxLifetime: 5 * time.Minute,
	}
}

// CatalogDB обертка для работы с каталогом кормов
type CatalogDB struct {
	conn *sql.DB
}

// NewCatalogDB открывает подключение к Postgres и проверяет его.
// DSN приходит из конфигурации (Supabase выдает обычный Postgres DSN).
func NewCatalogDB(ctx context.Context, dsn string, cfg DBConfig) (*CatalogDB, error) {
	if dsn == "" {
		return nil, fmt.Errorf("database dsn is empty")
	}

	conn, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open postgres connection: %w", err)
	}

	conn.SetMaxOpenConns(cfg.MaxOpenConns)
	conn.SetMaxIdleConns(cfg.MaxIdleConns)
	conn.SetConnMaxLifetime(cfg.ConnMaxLifetime)

	if err := conn.PingContext(ctx); err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("failed to ping postgres: %w", err)
	}

	return &CatalogDB{conn: conn}, nil
}

// NewCatalogDBFromConn оборачивает готовое подключение (используется в тестах)
func NewCatalogDBFromConn(conn *sql.DB) *CatalogDB {
	return &CatalogDB{conn: conn}
}

// GetDB возвращает нижележащее подключение
func (db *CatalogDB) GetDB() *sql.DB {
	return db.conn
}

// Close закрывает подключение
func (db *CatalogDB) Close() error {
	if db.conn == nil {
		return nil
	}
	return db.conn.Close()
}

func nullFloat(nf sql.NullFloat64) float64 {
	if nf.Valid {
		return nf.Float64
	}
	return 0
}
