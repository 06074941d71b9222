package brands

import "testing"

func TestNormalize(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"lowercase", "ROYAL CANIN", "royal canin"},
		{"collapse spaces", "  Royal   Canin  ", "royal canin"},
		{"keeps apostrophe", "Lily's Kitchen", "lily's kitchen"},
		{"unicode apostrophe", "Lily’s Kitchen", "lily's kitchen"},
		{"ampersand spaced", "Pooch&Mutt", "pooch & mutt"},
		{"punctuation to space", "Tails.com!", "tails com"},
		{"hyphen to space", "Fish4Dogs - Finest", "fish4dogs finest"},
		{"empty", "", ""},
		{"only punctuation", "...", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Normalize(tt.input)
			if got != tt.expected {
				t.Errorf("Normalize(%q) = %q, want %q", tt.input, got, tt.expected)
			}
		})
	}
}

// Повторная нормализация не должна менять строку
func TestNormalizeIdempotent(t *testing.T) {
	inputs := []string{
		"ROYAL CANIN Veterinary",
		"Lily’s   Kitchen",
		"Pooch&Mutt",
		"Hill's Science Plan",
		"Edgard & Cooper",
	}

	for _, input := range inputs {
		once := Normalize(input)
		twice := Normalize(once)
		if once != twice {
			t.Errorf("Normalize not idempotent for %q: %q != %q", input, once, twice)
		}
	}
}

func TestFoldForMatch(t *testing.T) {
	tests := []struct {
		name string
		a    string
		b    string
	}{
		{"apostrophe insensitive", "Skinner's", "Skinners"},
		{"ampersand word form", "Pooch & Mutt", "Pooch and Mutt"},
		{"case insensitive", "ROYAL CANIN", "royal canin"},
		{"unicode apostrophe", "Lily’s Kitchen", "Lilys Kitchen"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if FoldForMatch(tt.a) != FoldForMatch(tt.b) {
				t.Errorf("FoldForMatch(%q) = %q, FoldForMatch(%q) = %q, expected equal",
					tt.a, FoldForMatch(tt.a), tt.b, FoldForMatch(tt.b))
			}
		})
	}
}

func TestFoldForMatchDistinct(t *testing.T) {
	// Разные бренды не должны сворачиваться в один ключ
	if FoldForMatch("Royal Canin") == FoldForMatch("Pro Plan") {
		t.Error("distinct brands collapsed to the same fold key")
	}
}
