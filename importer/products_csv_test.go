package importer

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/brianvoe/gofakeit/v6"

	"foodpipeline/brands"
)

func csvResolver(t *testing.T) *brands.Resolver {
	t.Helper()

	canonical, err := brands.NewCanonicalSet([]string{"Royal Canin", "Skinner's", "Acana"})
	if err != nil {
		t.Fatalf("failed to build canonical set: %v", err)
	}
	return brands.NewResolver(brands.NewAliasTable(), nil, canonical)
}

func TestImportDryRun(t *testing.T) {
	csvData := `brand,product_name,form,life_stage,nutrition,ingredients,price,currency,url
Skinners,Field & Trial Adult,Dry,Adult,"Protein 26%, Fat 14%","Chicken (26%), Rice",24.99,gbp,https://example.com/p1
ROYAL CANIN,Maxi Puppy,dry,puppy,,,,,
Mystery Brand XYZ,Some Dinner,wet,adult,,,,,
,Missing Brand,,,,,,,
`

	imp := NewProductCSVImporter(nil, csvResolver(t), "test_source")
	result, err := imp.Import(context.Background(), strings.NewReader(csvData), true)
	if err != nil {
		t.Fatalf("Import failed: %v", err)
	}

	if result.TotalRows != 4 {
		t.Errorf("total = %d, want 4", result.TotalRows)
	}
	if result.Imported != 3 {
		t.Errorf("imported = %d, want 3", result.Imported)
	}
	if result.SkippedRows != 1 {
		t.Errorf("skipped = %d, want 1", result.SkippedRows)
	}
	if result.UnmappedRows != 1 {
		t.Errorf("unmapped = %d, want 1", result.UnmappedRows)
	}
	if len(result.Errors) != 0 {
		t.Errorf("errors: %v", result.Errors)
	}
}

func TestImportResolvesBrandFields(t *testing.T) {
	imp := NewProductCSVImporter(nil, csvResolver(t), "test_source")
	product, unmapped, err := imp.buildProduct("Skinners", "Adult Duck", func(name string) string {
		switch name {
		case "nutrition":
			return "Crude Protein 20%, 360 kcal/100g"
		case "price":
			return "18,50"
		case "currency":
			return "gbp"
		}
		return ""
	})
	if err != nil {
		t.Fatalf("buildProduct failed: %v", err)
	}
	if unmapped {
		t.Error("Skinners resolved as unmapped")
	}
	if product.Brand != "Skinner's" {
		t.Errorf("brand = %q, want Skinner's", product.Brand)
	}
	if product.BrandSlug != "skinners" {
		t.Errorf("slug = %q, want skinners", product.BrandSlug)
	}
	if product.ProductKey != "skinners|adult|duck" {
		t.Errorf("product_key = %q", product.ProductKey)
	}
	if product.ProteinPercent != 20 || product.KcalPer100g != 360 {
		t.Errorf("nutrition not parsed: %+v", product)
	}
	if product.Price.String() != "18.5" {
		t.Errorf("price = %s", product.Price.String())
	}
	if product.PriceCurrency != "GBP" {
		t.Errorf("currency = %q", product.PriceCurrency)
	}
}

func TestImportUnmappedKeepsRawBrand(t *testing.T) {
	imp := NewProductCSVImporter(nil, csvResolver(t), "test_source")

	product, unmapped, err := imp.buildProduct("Mystery Brand XYZ", "Dinner", func(string) string { return "" })
	if err != nil {
		t.Fatalf("buildProduct failed: %v", err)
	}
	if !unmapped {
		t.Error("expected unmapped for unknown brand")
	}
	if product.Brand != "Mystery Brand XYZ" {
		t.Errorf("raw brand not preserved: %q", product.Brand)
	}
	if product.BrandSlug != "mystery-brand-xyz" {
		t.Errorf("slug = %q", product.BrandSlug)
	}
}

func TestImportMissingRequiredColumn(t *testing.T) {
	csvData := "product_name,form\nDinner,dry\n"

	imp := NewProductCSVImporter(nil, csvResolver(t), "test_source")
	if _, err := imp.Import(context.Background(), strings.NewReader(csvData), true); err == nil {
		t.Error("expected error for missing brand column")
	}
}

func TestImportInvalidPrice(t *testing.T) {
	csvData := `brand,product_name,price
Skinners,Adult Duck,not-a-price
`

	imp := NewProductCSVImporter(nil, csvResolver(t), "test_source")
	result, err := imp.Import(context.Background(), strings.NewReader(csvData), true)
	if err != nil {
		t.Fatalf("Import failed: %v", err)
	}
	if len(result.Errors) != 1 {
		t.Errorf("expected 1 row error, got %v", result.Errors)
	}
	if result.Imported != 0 {
		t.Errorf("imported = %d, want 0", result.Imported)
	}
}

// Импорт большого сгенерированного файла не должен падать на форматах полей
func TestImportGeneratedRows(t *testing.T) {
	gofakeit.Seed(42)

	var b strings.Builder
	b.WriteString("brand,product_name,form,life_stage,price,currency\n")
	knownBrands := []string{"Skinners", "ROYAL CANIN", "acana"}
	forms := []string{"dry", "wet", "raw"}
	stages := []string{"puppy", "adult", "senior"}
	for i := 0; i < 200; i++ {
		brand := knownBrands[i%len(knownBrands)]
		name := strings.ReplaceAll(gofakeit.Fruit(), ",", " ")
		fmt.Fprintf(&b, "%s,%s %d,%s,%s,%.2f,GBP\n",
			brand, name, i, forms[i%len(forms)], stages[i%len(stages)],
			gofakeit.Float64Range(1, 100))
	}

	imp := NewProductCSVImporter(nil, csvResolver(t), "generated")
	result, err := imp.Import(context.Background(), strings.NewReader(b.String()), true)
	if err != nil {
		t.Fatalf("Import failed: %v", err)
	}
	if result.Imported != 200 {
		t.Errorf("imported = %d, want 200 (errors %v)", result.Imported, result.Errors)
	}
}
