package database

import (
	"context"
	"database/sql/driver"
	"strings"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
)

var productTestColumns = []string{
	"product_key", "brand", "brand_slug", "brand_confidence", "product_name",
	"form", "life_stage", "ingredients_tokens",
	"protein_percent", "fat_percent", "fiber_percent", "ash_percent", "moisture_percent", "kcal_per_100g",
	"price", "price_currency", "source", "source_url", "created_at", "updated_at",
}

func productTestRow(key, brand, slug, confidence, name string) []driver.Value {
	now := time.Now()
	return []driver.Value{
		key, brand, slug, confidence, name,
		"dry", "adult", "chicken|rice",
		26.0, 14.0, 3.0, nil, 8.0, 370.0,
		"24.99", "GBP", "test", "https://example.com", now, now,
	}
}

func newMockDB(t *testing.T) (*CatalogDB, sqlmock.Sqlmock) {
	t.Helper()

	conn, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("failed to create sqlmock: %v", err)
	}
	t.Cleanup(func() { _ = conn.Close() })

	return NewCatalogDBFromConn(conn), mock
}

func TestListUnresolvedProducts(t *testing.T) {
	db, mock := newMockDB(t)

	rows := sqlmock.NewRows(productTestColumns).
		AddRow(productTestRow("royal-canin|adult", "ROYAL CANIN", "", "unmapped", "Adult")...).
		AddRow(productTestRow("acana|puppy", "acana", "acana", "low", "Puppy")...)

	mock.ExpectQuery("FROM foods_canonical").
		WithArgs(100).
		WillReturnRows(rows)

	products, err := db.ListUnresolvedProducts(context.Background(), 100)
	if err != nil {
		t.Fatalf("ListUnresolvedProducts failed: %v", err)
	}
	if len(products) != 2 {
		t.Fatalf("expected 2 products, got %d", len(products))
	}
	if products[0].Brand != "ROYAL CANIN" {
		t.Errorf("brand = %q", products[0].Brand)
	}
	if products[0].ProteinPercent != 26.0 {
		t.Errorf("protein = %.1f, want 26.0", products[0].ProteinPercent)
	}
	if products[0].Price.String() != "24.99" {
		t.Errorf("price = %s, want 24.99", products[0].Price.String())
	}
	// NULL ash_percent читается нулем
	if products[0].AshPercent != 0 {
		t.Errorf("ash = %.1f, want 0", products[0].AshPercent)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet expectations: %v", err)
	}
}

func TestApplyBrandResolution(t *testing.T) {
	db, mock := newMockDB(t)

	mock.ExpectBegin()
	mock.ExpectQuery("SELECT brand, brand_slug FROM foods_canonical").
		WithArgs("royal|adult").
		WillReturnRows(sqlmock.NewRows([]string{"brand", "brand_slug"}).
			AddRow("ROYAL CANIN VETERINARY", "royal"))
	mock.ExpectExec("UPDATE foods_canonical").
		WithArgs("Royal Canin", "royal-canin", "high", "royal-canin|adult", "royal|adult").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("INSERT INTO brand_rename_audit").
		WithArgs("ROYAL CANIN VETERINARY", "Royal Canin", "royal", "royal-canin", "royal|adult", "royal-canin|adult", "test_actor").
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectCommit()

	rebuild := func(oldKey string) string {
		return strings.Replace(oldKey, "royal", "royal-canin", 1)
	}
	err := db.ApplyBrandResolution(context.Background(),
		"royal|adult", "Royal Canin", "royal-canin", "high", "test_actor", rebuild)
	if err != nil {
		t.Fatalf("ApplyBrandResolution failed: %v", err)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet expectations: %v", err)
	}
}

func TestApplyBrandResolutionRollsBackOnUpdateError(t *testing.T) {
	db, mock := newMockDB(t)

	mock.ExpectBegin()
	mock.ExpectQuery("SELECT brand, brand_slug FROM foods_canonical").
		WithArgs("key|1").
		WillReturnRows(sqlmock.NewRows([]string{"brand", "brand_slug"}).AddRow("Old", "old"))
	mock.ExpectExec("UPDATE foods_canonical").
		WillReturnError(errDuplicateKey{})
	mock.ExpectRollback()

	err := db.ApplyBrandResolution(context.Background(),
		"key|1", "New", "new", "high", "actor", func(k string) string { return k })
	if err == nil {
		t.Fatal("expected error, got nil")
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet expectations: %v", err)
	}
}

type errDuplicateKey struct{}

func (errDuplicateKey) Error() string { return "duplicate key value violates unique constraint" }

func TestRenameBrand(t *testing.T) {
	db, mock := newMockDB(t)

	mock.ExpectBegin()
	mock.ExpectQuery("SELECT product_key, brand_slug FROM foods_canonical").
		WithArgs("Skinners").
		WillReturnRows(sqlmock.NewRows([]string{"product_key", "brand_slug"}).
			AddRow("skinners-old|duck", "skinners-old").
			AddRow("skinners-old|lamb", "skinners-old"))
	for _, name := range []string{"duck", "lamb"} {
		mock.ExpectExec("UPDATE foods_canonical").
			WithArgs("Skinner's", "skinners", "skinners|"+name, "skinners-old|"+name).
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectExec("INSERT INTO brand_rename_audit").
			WithArgs("Skinners", "Skinner's", "skinners-old", "skinners", "skinners-old|"+name, "skinners|"+name, "cli").
			WillReturnResult(sqlmock.NewResult(1, 1))
	}
	mock.ExpectCommit()

	rebuild := func(oldKey string) string {
		return strings.Replace(oldKey, "skinners-old", "skinners", 1)
	}
	result, err := db.RenameBrand(context.Background(), "Skinners", "Skinner's", "skinners", "cli", rebuild)
	if err != nil {
		t.Fatalf("RenameBrand failed: %v", err)
	}
	if result.Renamed != 2 {
		t.Errorf("renamed = %d, want 2", result.Renamed)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet expectations: %v", err)
	}
}

func TestUpsertProductValidation(t *testing.T) {
	db, _ := newMockDB(t)

	if err := db.UpsertProduct(context.Background(), nil); err == nil {
		t.Error("expected error for nil product")
	}
	if err := db.UpsertProduct(context.Background(), &ProductRecord{}); err == nil {
		t.Error("expected error for empty product_key")
	}
}

func TestGetProductNotFound(t *testing.T) {
	db, mock := newMockDB(t)

	mock.ExpectQuery("FROM foods_canonical").
		WithArgs("missing|key").
		WillReturnRows(sqlmock.NewRows(productTestColumns))

	p, err := db.GetProduct(context.Background(), "missing|key")
	if err != nil {
		t.Fatalf("GetProduct failed: %v", err)
	}
	if p != nil {
		t.Errorf("expected nil for missing product, got %+v", p)
	}
}
