package brands

import "testing"

func testResolver(t *testing.T) *Resolver {
	t.Helper()

	canonical, err := NewCanonicalSet([]string{
		"Royal Canin", "Skinner's", "Barkin Bistro", "Pro Plan", "Purina",
		"Hill's Science Plan", "Hill's Prescription Diet", "Pooch & Mutt",
		"Taste of the Wild", "The Honest Kitchen", "Lily's Kitchen", "Acana",
	})
	if err != nil {
		t.Fatalf("failed to build canonical set: %v", err)
	}

	aliases := NewAliasTable()
	if err := aliases.Add("rc", "Royal Canin"); err != nil {
		t.Fatalf("failed to add alias: %v", err)
	}

	variants := map[string]string{
		"royal canin veterinary": "Royal Canin",
		"purina one":             "Purina",
	}

	return NewResolver(aliases, variants, canonical)
}

func TestResolveCanonicalScenarios(t *testing.T) {
	r := testResolver(t)

	tests := []struct {
		name          string
		raw           string
		productName   string
		wantCanonical string
		wantSlug      string
		minTier       Tier
		wantMethod    string
	}{
		{
			name:          "curated veterinary variant",
			raw:           "ROYAL CANIN VETERINARY",
			wantCanonical: "Royal Canin",
			wantSlug:      "royal-canin",
			minTier:       TierHigh,
			wantMethod:    "curated_variant",
		},
		{
			name:          "casing and spacing fix",
			raw:           "barkinBISTRO",
			wantCanonical: "Barkin Bistro",
			wantSlug:      "barkin-bistro",
			minTier:       TierHigh,
			wantMethod:    "fuzzy",
		},
		{
			name:          "apostrophe insensitive exact",
			raw:           "Skinners",
			wantCanonical: "Skinner's",
			wantSlug:      "skinners",
			minTier:       TierHigh,
			wantMethod:    "canonical_fold",
		},
		{
			name:          "alias exact",
			raw:           "RC",
			wantCanonical: "Royal Canin",
			wantSlug:      "royal-canin",
			minTier:       TierExact,
			wantMethod:    "alias",
		},
		{
			name:          "already canonical",
			raw:           "Pro Plan",
			wantCanonical: "Pro Plan",
			wantSlug:      "pro-plan",
			minTier:       TierExact,
			wantMethod:    "canonical_fold",
		},
	}

	tierRank := map[Tier]int{TierUnmapped: 0, TierLow: 1, TierMedium: 2, TierHigh: 3, TierExact: 4}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			match := r.ResolveCanonical(tt.raw, tt.productName)
			if match.Canonical != tt.wantCanonical {
				t.Errorf("canonical = %q, want %q (method %s, score %.3f)",
					match.Canonical, tt.wantCanonical, match.Method, match.Score)
			}
			if match.Slug != tt.wantSlug {
				t.Errorf("slug = %q, want %q", match.Slug, tt.wantSlug)
			}
			if tierRank[match.Tier] < tierRank[tt.minTier] {
				t.Errorf("tier = %s, want at least %s (score %.3f)", match.Tier, tt.minTier, match.Score)
			}
			if match.Method != tt.wantMethod {
				t.Errorf("method = %q, want %q", match.Method, tt.wantMethod)
			}
		})
	}
}

func TestResolveCanonicalAmbiguousFragment(t *testing.T) {
	r := testResolver(t)

	// Короткий фрагмент без контекста остается неразрешенным вместо
	// опасного нечеткого совпадения
	match := r.ResolveCanonical("The", "")
	if match.Tier != TierUnmapped {
		t.Errorf("tier = %s, want unmapped (canonical %q)", match.Tier, match.Canonical)
	}
	if match.Method != "ambiguous_skip" {
		t.Errorf("method = %q, want ambiguous_skip", match.Method)
	}
}

func TestResolveCanonicalEmpty(t *testing.T) {
	r := testResolver(t)

	for _, raw := range []string{"", "   ", "..."} {
		match := r.ResolveCanonical(raw, "")
		if match.Tier != TierUnmapped {
			t.Errorf("ResolveCanonical(%q) tier = %s, want unmapped", raw, match.Tier)
		}
	}
}

func TestResolveHills(t *testing.T) {
	r := testResolver(t)

	tests := []struct {
		name          string
		productName   string
		wantCanonical string
		wantTier      Tier
	}{
		{
			name:          "prescription keywords",
			productName:   "Prescription Diet i/d Digestive Care",
			wantCanonical: "Hill's Prescription Diet",
			wantTier:      TierHigh,
		},
		{
			name:          "science plan keywords",
			productName:   "Science Plan Adult Perfect Weight",
			wantCanonical: "Hill's Science Plan",
			wantTier:      TierHigh,
		},
		{
			name:          "no keywords goes to review",
			productName:   "Adult Chicken",
			wantCanonical: "Hill's Science Plan",
			wantTier:      TierMedium,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			match := r.ResolveCanonical("Hills", tt.productName)
			if match.Canonical != tt.wantCanonical {
				t.Errorf("canonical = %q, want %q", match.Canonical, tt.wantCanonical)
			}
			if match.Tier != tt.wantTier {
				t.Errorf("tier = %s, want %s", match.Tier, tt.wantTier)
			}
			if match.Method != "hills_keywords" {
				t.Errorf("method = %q, want hills_keywords", match.Method)
			}
		})
	}
}

func TestTierForScore(t *testing.T) {
	tests := []struct {
		score float64
		want  Tier
	}{
		{1.0, TierExact},
		{0.95, TierExact},
		{0.94, TierHigh},
		{0.85, TierHigh},
		{0.84, TierMedium},
		{0.70, TierMedium},
		{0.69, TierLow},
		{0.0, TierLow},
	}

	for _, tt := range tests {
		if got := tierForScore(tt.score); got != tt.want {
			t.Errorf("tierForScore(%.2f) = %s, want %s", tt.score, got, tt.want)
		}
	}
}

func TestTierAutoApply(t *testing.T) {
	auto := []Tier{TierExact, TierHigh}
	manual := []Tier{TierMedium, TierLow, TierUnmapped}

	for _, tier := range auto {
		if !tier.AutoApply() {
			t.Errorf("%s.AutoApply() = false, want true", tier)
		}
	}
	for _, tier := range manual {
		if tier.AutoApply() {
			t.Errorf("%s.AutoApply() = true, want false", tier)
		}
	}
}
