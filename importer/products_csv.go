package importer

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/shopspring/decimal"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/transform"

	"foodpipeline/brands"
	"foodpipeline/database"
)

// ImportResult итог импорта CSV-выгрузки
type ImportResult struct {
	TotalRows    int      `json:"total_rows"`
	Imported     int      `json:"imported"`
	SkippedRows  int      `json:"skipped_rows"`
	UnmappedRows int      `json:"unmapped_rows"`
	Errors       []string `json:"errors"`
}

// ProductCSVImporter импортер CSV-выгрузок ритейлеров в каталог.
// Каждая строка нормализуется: бренд разрешается в канонический,
// строится slug и составной ключ продукта, разбирается аналитический
// состав. Ошибки строк подсчитываются, импорт продолжается.
type ProductCSVImporter struct {
	db       *database.CatalogDB
	resolver *brands.Resolver
	logger   *slog.Logger

	source  string
	decoder *charmap.Charmap
}

// ImporterOption настройка импортера
type ImporterOption func(*ProductCSVImporter)

// WithWindows1252 включает перекодирование входа из Windows-1252:
// выгрузки европейских ритейлеров часто приходят не в UTF-8
func WithWindows1252() ImporterOption {
	return func(imp *ProductCSVImporter) { imp.decoder = charmap.Windows1252 }
}

// NewProductCSVImporter создает импортер для указанного источника
func NewProductCSVImporter(db *database.CatalogDB, resolver *brands.Resolver, source string, opts ...ImporterOption) *ProductCSVImporter {
	imp := &ProductCSVImporter{
		db:       db,
		resolver: resolver,
		logger:   slog.Default().With("component", "product_csv_importer", "source", source),
		source:   source,
	}
	for _, opt := range opts {
		opt(imp)
	}
	return imp
}

// Ожидаемые колонки CSV. Обязательны brand и product_name, остальные
// опциональны.
var csvColumns = []string{
	"brand", "product_name", "form", "life_stage", "ingredients",
	"nutrition", "price", "currency", "url",
}

// Import читает CSV и пишет записи в каталог. dryRun отключает запись.
func (imp *ProductCSVImporter) Import(ctx context.Context, r io.Reader, dryRun bool) (*ImportResult, error) {
	if imp.db == nil && !dryRun {
		return nil, fmt.Errorf("catalog db is nil")
	}
	if imp.resolver == nil {
		return nil, fmt.Errorf("resolver is nil")
	}

	if imp.decoder != nil {
		r = transform.NewReader(r, imp.decoder.NewDecoder())
	}

	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("failed to read csv header: %w", err)
	}

	columns := make(map[string]int, len(header))
	for i, name := range header {
		columns[strings.ToLower(strings.TrimSpace(name))] = i
	}
	for _, required := range []string{"brand", "product_name"} {
		if _, ok := columns[required]; !ok {
			return nil, fmt.Errorf("csv is missing required column %q", required)
		}
	}

	result := &ImportResult{Errors: []string{}}

	for {
		select {
		case <-ctx.Done():
			return result, ctx.Err()
		default:
		}

		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			result.Errors = append(result.Errors, fmt.Sprintf("row %d: %v", result.TotalRows+2, err))
			result.SkippedRows++
			result.TotalRows++
			continue
		}

		result.TotalRows++

		field := func(name string) string {
			idx, ok := columns[name]
			if !ok || idx >= len(record) {
				return ""
			}
			return strings.TrimSpace(record[idx])
		}

		rawBrand := field("brand")
		productName := field("product_name")
		if rawBrand == "" || productName == "" {
			result.SkippedRows++
			continue
		}

		product, unmapped, err := imp.buildProduct(rawBrand, productName, field)
		if err != nil {
			result.Errors = append(result.Errors, fmt.Sprintf("row %d: %v", result.TotalRows+1, err))
			result.SkippedRows++
			continue
		}
		if unmapped {
			result.UnmappedRows++
		}

		if !dryRun {
			if err := imp.db.UpsertProduct(ctx, product); err != nil {
				result.Errors = append(result.Errors, fmt.Sprintf("row %d: %v", result.TotalRows+1, err))
				imp.logger.Warn("Failed to upsert product",
					"product_key", product.ProductKey,
					"error", err.Error())
				continue
			}
		}

		result.Imported++
	}

	imp.logger.Info("Completed CSV import",
		"total_rows", result.TotalRows,
		"imported", result.Imported,
		"skipped", result.SkippedRows,
		"unmapped", result.UnmappedRows,
		"errors", len(result.Errors),
		"dry_run", dryRun)

	return result, nil
}

// ImportFile импортирует CSV из файла
func (imp *ProductCSVImporter) ImportFile(ctx context.Context, path string, dryRun bool) (*ImportResult, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open csv file: %w", err)
	}
	defer file.Close()

	return imp.Import(ctx, file, dryRun)
}

func (imp *ProductCSVImporter) buildProduct(rawBrand, productName string, field func(string) string) (*database.ProductRecord, bool, error) {
	match := imp.resolver.ResolveCanonical(rawBrand, productName)

	brand := match.Canonical
	slug := match.Slug
	unmapped := false
	if match.Tier == brands.TierUnmapped || !match.Tier.AutoApply() {
		// Сырой бренд остается в записи; пакетный конвейер или ручная
		// проверка разрешат его позже
		brand = rawBrand
		slug = brands.DeriveSlug(rawBrand)
		unmapped = true
	}

	product := &database.ProductRecord{
		ProductKey:      brands.BuildProductKey(slug, productName),
		Brand:           brand,
		BrandSlug:       slug,
		BrandConfidence: string(match.Tier),
		ProductName:     productName,
		Form:            strings.ToLower(field("form")),
		LifeStage:       strings.ToLower(field("life_stage")),
		Source:          imp.source,
		SourceURL:       field("url"),
	}

	if ingredients := field("ingredients"); ingredients != "" {
		product.IngredientsRaw = strings.Join(TokenizeIngredients(ingredients), ", ")
	}

	if nutritionText := field("nutrition"); nutritionText != "" {
		n := ParseNutrition(nutritionText)
		product.ProteinPercent = n.ProteinPercent
		product.FatPercent = n.FatPercent
		product.FiberPercent = n.FiberPercent
		product.AshPercent = n.AshPercent
		product.MoisturePercent = n.MoisturePercent
		product.KcalPer100g = n.KcalPer100g
	}

	if priceStr := field("price"); priceStr != "" {
		price, err := decimal.NewFromString(strings.ReplaceAll(priceStr, ",", "."))
		if err != nil {
			return nil, false, fmt.Errorf("invalid price %q: %w", priceStr, err)
		}
		product.Price = price
		product.PriceCurrency = strings.ToUpper(field("currency"))
	}

	return product, unmapped, nil
}
