// Package bootstrap собирает зависимости CLI-команд и сервера из
// конфигурации: логгер, подключение к каталогу, резолвер брендов.
package bootstrap

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"foodpipeline/brands"
	"foodpipeline/database"
	"foodpipeline/importer"
	"foodpipeline/internal/config"
)

// SetupLogger настраивает slog.Default по уровню из конфигурации
func SetupLogger(cfg *config.Config) {
	handler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: cfg.SlogLevel(),
	})
	slog.SetDefault(slog.New(handler))
}

// OpenCatalog открывает каталог и прогоняет миграции
func OpenCatalog(ctx context.Context, cfg *config.Config) (*database.CatalogDB, error) {
	if cfg.DatabaseURL == "" {
		return nil, fmt.Errorf("DATABASE_URL is not set")
	}

	db, err := database.NewCatalogDB(ctx, cfg.DatabaseURL, cfg.DBConfig())
	if err != nil {
		return nil, err
	}
	if err := db.RunMigrations(ctx); err != nil {
		_ = db.Close()
		return nil, err
	}

	return db, nil
}

// BuildResolver строит резолвер брендов из справочников и таблицы
// алиасов каталога. db может быть nil, тогда используются только файлы.
func BuildResolver(ctx context.Context, cfg *config.Config, db *database.CatalogDB) (*brands.Resolver, error) {
	names, err := importer.LoadCanonicalBrandsFile(cfg.CanonicalBrandsPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load canonical brands: %w", err)
	}
	canonical, err := brands.NewCanonicalSet(names)
	if err != nil {
		return nil, fmt.Errorf("failed to build canonical set: %w", err)
	}

	variants, err := importer.LoadCuratedVariantsFile(cfg.BrandVariantsPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load curated variants: %w", err)
	}

	aliases := brands.NewAliasTable()
	if db != nil {
		rows, err := db.ListAliases(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to load aliases: %w", err)
		}
		for _, row := range rows {
			if err := aliases.Add(row.Alias, row.CanonicalBrand); err != nil {
				slog.Default().Warn("Skipping conflicting alias",
					"alias", row.Alias,
					"canonical", row.CanonicalBrand,
					"error", err)
			}
		}
	}

	return brands.NewResolver(aliases, variants, canonical), nil
}
