package brands

import "testing"

func TestDeriveSlug(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"simple", "Royal Canin", "royal-canin"},
		{"apostrophe removed", "Hill's Science Plan", "hills-science-plan"},
		{"ampersand to and", "Pooch & Mutt", "pooch-and-mutt"},
		{"tight ampersand", "Billy&Margot", "billy-and-margot"},
		{"dot dropped", "Tails.com", "tails-com"},
		{"digits kept", "Fish4Dogs", "fish4dogs"},
		{"trims spaces", "  Acana  ", "acana"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := DeriveSlug(tt.input)
			if got != tt.expected {
				t.Errorf("DeriveSlug(%q) = %q, want %q", tt.input, got, tt.expected)
			}
		})
	}
}

// Slug обязан быть инъективным на каноническом наборе: два бренда с
// одним slug развалили бы составные ключи каталога
func TestDeriveSlugInjectiveOnCanonicalSet(t *testing.T) {
	canonical := []string{
		"AATU", "Acana", "Applaws", "Arden Grange", "Barking Heads",
		"Billy & Margot", "Burgess", "Burns", "Butcher's", "Canagan",
		"Edgard & Cooper", "Eukanuba", "Fish4Dogs", "Forthglade",
		"Hill's Prescription Diet", "Hill's Science Plan", "Iams",
		"James Wellbeloved", "Lily's Kitchen", "Nature's Menu", "Orijen",
		"Pedigree", "Pooch & Mutt", "Pro Plan", "Purina", "Royal Canin",
		"Skinner's", "Tails.com", "Taste of the Wild", "The Honest Kitchen",
		"Vet's Kitchen", "Wainwright's", "Whiskas", "Wolf of Wilderness",
		"Ziwi Peak",
	}

	seen := make(map[string]string)
	for _, brand := range canonical {
		slug := DeriveSlug(brand)
		if slug == "" {
			t.Errorf("DeriveSlug(%q) is empty", brand)
			continue
		}
		if other, ok := seen[slug]; ok {
			t.Errorf("brands %q and %q share slug %q", brand, other, slug)
		}
		seen[slug] = brand
	}
}

func TestRebuildProductKey(t *testing.T) {
	tests := []struct {
		name     string
		oldKey   string
		newSlug  string
		expected string
	}{
		{"replaces first segment", "royal-canin|adult-setter|dry", "skinners", "skinners|adult-setter|dry"},
		{"single segment", "royal-canin", "skinners", "skinners"},
		{"empty key unchanged", "", "skinners", ""},
		{"preserves remaining segments", "a|b|c|d", "x", "x|b|c|d"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := RebuildProductKey(tt.oldKey, tt.newSlug)
			if got != tt.expected {
				t.Errorf("RebuildProductKey(%q, %q) = %q, want %q", tt.oldKey, tt.newSlug, got, tt.expected)
			}
		})
	}
}

func TestBuildProductKey(t *testing.T) {
	key := BuildProductKey("royal-canin", "Adult Setter Dry")
	if key != "royal-canin|adult|setter|dry" {
		t.Errorf("unexpected product key: %q", key)
	}

	// Без названия остается только slug бренда
	if got := BuildProductKey("acana", ""); got != "acana" {
		t.Errorf("unexpected product key for empty name: %q", got)
	}

	// Переименование через RebuildProductKey сохраняет токены названия
	renamed := RebuildProductKey(key, "skinners")
	if renamed != "skinners|adult|setter|dry" {
		t.Errorf("unexpected rebuilt key: %q", renamed)
	}
}
