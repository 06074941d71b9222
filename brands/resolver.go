package brands

import (
	"log/slog"
	"strings"
)

// Tier ярус уверенности разрешения бренда
type Tier string

const (
	TierExact    Tier = "exact"
	TierHigh     Tier = "high"
	TierMedium   Tier = "medium"
	TierLow      Tier = "low"
	TierUnmapped Tier = "unmapped"
)

// Пороги счета нечеткого сопоставления для ярусов уверенности
const (
	exactScoreThreshold  = 0.95
	highScoreThreshold   = 0.85
	mediumScoreThreshold = 0.70
)

// AutoApply сообщает, можно ли применять разрешение автоматически.
// exact и high применяются без участия оператора, medium и low уходят
// в очередь ручной проверки.
func (t Tier) AutoApply() bool {
	return t == TierExact || t == TierHigh
}

// Match результат разрешения бренда
type Match struct {
	Canonical string  `json:"canonical"`
	Slug      string  `json:"slug"`
	Tier      Tier    `json:"tier"`
	Score     float64 `json:"score"`
	Method    string  `json:"method"`
}

// Resolver разрешает свободный текст бренда в канонический бренд.
// Порядок: точный поиск по таблице алиасов, поиск по свернутой форме в
// каноническом наборе, курируемый словарь вариантов, нечеткое
// сопоставление. Неоднозначные короткие фрагменты разрешаются только по
// названию продукта.
type Resolver struct {
	aliases   *AliasTable
	variants  map[string]string // нормализованный вариант -> канонический бренд
	canonical *CanonicalSet
	matcher   *Matcher
	logger    *slog.Logger
}

// NewResolver создает резолвер. variants содержит курируемый словарь частых
// вариантов написания (загружается из файла данных, ключи нормализуются
// при построении).
func NewResolver(aliases *AliasTable, variants map[string]string, canonical *CanonicalSet) *Resolver {
	if aliases == nil {
		aliases = NewAliasTable()
	}

	normalizedVariants := make(map[string]string, len(variants))
	for variant, target := range variants {
		normalizedVariants[Normalize(variant)] = target
	}

	return &Resolver{
		aliases:   aliases,
		variants:  normalizedVariants,
		canonical: canonical,
		matcher:   NewMatcher(canonical),
		logger:    slog.Default().With("component", "brand_resolver"),
	}
}

// ResolveCanonical разрешает сырое название бренда. productName передается
// для дизамбигуации коротких фрагментов и может быть пустым.
func (r *Resolver) ResolveCanonical(raw, productName string) Match {
	normalized := Normalize(raw)
	if normalized == "" {
		return Match{Tier: TierUnmapped, Method: "empty"}
	}

	// Неоднозначные короткие фрагменты: нечеткий поиск для них запрещен
	if canonical, ambiguous := resolveAmbiguousFragment(normalized, productName); ambiguous {
		if canonical == "" {
			r.logger.Debug("Ambiguous brand fragment left unresolved",
				"brand", raw,
				"normalized", normalized)
			return Match{Tier: TierUnmapped, Method: "ambiguous_skip"}
		}
		return r.match(canonical, TierHigh, 1.0, "ambiguous_hint")
	}

	// Разделение линеек Hill's по ключевым словам названия продукта
	if canonical, tier, ok := resolveHills(normalized, productName); ok {
		return r.match(canonical, tier, 1.0, "hills_keywords")
	}

	// 1. Точное совпадение в таблице алиасов
	if canonical, ok := r.aliases.Lookup(normalized); ok {
		return r.match(canonical, TierExact, 1.0, "alias")
	}

	// 2. Точное совпадение с каноническим брендом по свернутой форме
	// (апострофы и форма амперсанда не учитываются)
	if canonical, ok := r.canonical.LookupFold(normalized); ok {
		return r.match(canonical, TierExact, 1.0, "canonical_fold")
	}

	// 3. Курируемый словарь частых вариантов написания
	if canonical, ok := r.variants[normalized]; ok {
		return r.match(canonical, TierHigh, 1.0, "curated_variant")
	}

	// 4. Нечеткое сопоставление против канонического набора
	best, found := r.matcher.BestMatch(normalized)
	if !found {
		return Match{Tier: TierUnmapped, Method: "no_candidates"}
	}

	tier := tierForScore(best.Score)
	return r.match(best.Canonical, tier, best.Score, "fuzzy")
}

func (r *Resolver) match(canonical string, tier Tier, score float64, method string) Match {
	return Match{
		Canonical: canonical,
		Slug:      DeriveSlug(canonical),
		Tier:      tier,
		Score:     score,
		Method:    method,
	}
}

func tierForScore(score float64) Tier {
	switch {
	case score >= exactScoreThreshold:
		return TierExact
	case score >= highScoreThreshold:
		return TierHigh
	case score >= mediumScoreThreshold:
		return TierMedium
	default:
		return TierLow
	}
}

// Ключевые слова ветеринарных диет Hill's в названиях продуктов
var prescriptionDietHints = []string{
	"prescription", "i/d", "z/d", "k/d", "c/d", "d/d", "j/d", "l/d",
	"metabolic", "derm complete", "gastrointestinal biome",
}

var scienceplanHints = []string{
	"science plan", "perfect weight", "healthy mobility", "oral care",
}

// resolveHills разделяет бренды группы Hill's по названию продукта.
// Счетчики подсказок в названии решают между Science Plan и Prescription
// Diet; при отсутствии подсказок выбирается Science Plan с ярусом medium,
// чтобы строка попала на ручную проверку.
func resolveHills(normalized, productName string) (string, Tier, bool) {
	switch normalized {
	case "hills", "hill's", "hill s":
	default:
		return "", TierUnmapped, false
	}

	haystack := strings.ToLower(productName)
	prescription := 0
	science := 0
	for _, hint := range prescriptionDietHints {
		if strings.Contains(haystack, hint) {
			prescription++
		}
	}
	for _, hint := range scienceplanHints {
		if strings.Contains(haystack, hint) {
			science++
		}
	}

	switch {
	case prescription > science:
		return "Hill's Prescription Diet", TierHigh, true
	case science > 0:
		return "Hill's Science Plan", TierHigh, true
	default:
		return "Hill's Science Plan", TierMedium, true
	}
}
