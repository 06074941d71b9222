package importer

import (
	"reflect"
	"strings"
	"testing"
)

func TestParseCanonicalBrands(t *testing.T) {
	input := `# Canonical Brand List

<!-- comment line -->

- Royal Canin
- Skinner's
* Pooch & Mutt
+ Acana
- Royal Canin

Plain Brand
`

	brands, err := ParseCanonicalBrands(strings.NewReader(input))
	if err != nil {
		t.Fatalf("ParseCanonicalBrands failed: %v", err)
	}

	expected := []string{"Royal Canin", "Skinner's", "Pooch & Mutt", "Acana", "Plain Brand"}
	if !reflect.DeepEqual(brands, expected) {
		t.Errorf("brands = %v, want %v", brands, expected)
	}
}

func TestParseCanonicalBrandsEmpty(t *testing.T) {
	inputs := []string{
		"",
		"# Only a heading\n\n<!-- and a comment -->",
	}

	for _, input := range inputs {
		if _, err := ParseCanonicalBrands(strings.NewReader(input)); err == nil {
			t.Errorf("expected error for input %q", input)
		}
	}
}

func TestParseCuratedVariants(t *testing.T) {
	input := `{
		"royal canin veterinary": "Royal Canin",
		"purina pro plan": "Pro Plan"
	}`

	variants, err := ParseCuratedVariants(strings.NewReader(input))
	if err != nil {
		t.Fatalf("ParseCuratedVariants failed: %v", err)
	}
	if len(variants) != 2 {
		t.Fatalf("expected 2 variants, got %d", len(variants))
	}
	if variants["royal canin veterinary"] != "Royal Canin" {
		t.Errorf("unexpected mapping: %v", variants)
	}
}

func TestParseCuratedVariantsRejectsEmptyEntries(t *testing.T) {
	inputs := []string{
		`{"": "Royal Canin"}`,
		`{"royal canin vet": ""}`,
		`not json`,
	}

	for _, input := range inputs {
		if _, err := ParseCuratedVariants(strings.NewReader(input)); err == nil {
			t.Errorf("expected error for input %q", input)
		}
	}
}

func TestLoadCuratedVariantsFileMissing(t *testing.T) {
	variants, err := LoadCuratedVariantsFile("/nonexistent/path/aliases.json")
	if err != nil {
		t.Fatalf("missing file must not be an error: %v", err)
	}
	if len(variants) != 0 {
		t.Errorf("expected empty map, got %v", variants)
	}
}
