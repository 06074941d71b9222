package importer

import (
	"regexp"
	"strconv"
	"strings"
)

// Nutrition разобранные значения аналитического состава
type Nutrition struct {
	ProteinPercent  float64 `json:"protein_percent"`
	FatPercent      float64 `json:"fat_percent"`
	FiberPercent    float64 `json:"fiber_percent"`
	AshPercent      float64 `json:"ash_percent"`
	MoisturePercent float64 `json:"moisture_percent"`
	KcalPer100g     float64 `json:"kcal_per_100g"`
}

// Поля аналитического состава в том виде, как их печатают производители:
// "Crude Protein 26%", "Protein: 26.0 %", "Fat content 15,5%"
var nutritionPatterns = map[string]*regexp.Regexp{
	"protein":  regexp.MustCompile(`(?i)(?:crude\s+)?protein[^0-9]{0,10}(\d+(?:[.,]\d+)?)\s*%`),
	"fat":      regexp.MustCompile(`(?i)(?:crude\s+)?(?:fat|oils?\s+and\s+fats?|fat\s+content)[^0-9]{0,10}(\d+(?:[.,]\d+)?)\s*%`),
	"fiber":    regexp.MustCompile(`(?i)(?:crude\s+)?fib(?:re|er)[^0-9]{0,10}(\d+(?:[.,]\d+)?)\s*%`),
	"ash":      regexp.MustCompile(`(?i)(?:crude\s+|inorganic\s+matter\s*)?ash[^0-9]{0,10}(\d+(?:[.,]\d+)?)\s*%`),
	"moisture": regexp.MustCompile(`(?i)moisture[^0-9]{0,10}(\d+(?:[.,]\d+)?)\s*%`),
}

var kcalPattern = regexp.MustCompile(`(?i)(\d+(?:[.,]\d+)?)\s*kcal\s*/\s*100\s*g`)

// ParseNutrition извлекает аналитический состав из свободного текста.
// Отсутствующие поля остаются нулевыми.
func ParseNutrition(text string) Nutrition {
	var n Nutrition
	if strings.TrimSpace(text) == "" {
		return n
	}

	assign := map[string]*float64{
		"protein":  &n.ProteinPercent,
		"fat":      &n.FatPercent,
		"fiber":    &n.FiberPercent,
		"ash":      &n.AshPercent,
		"moisture": &n.MoisturePercent,
	}

	for field, pattern := range nutritionPatterns {
		if m := pattern.FindStringSubmatch(text); m != nil {
			*assign[field] = parseDecimalComma(m[1])
		}
	}

	if m := kcalPattern.FindStringSubmatch(text); m != nil {
		n.KcalPer100g = parseDecimalComma(m[1])
	}

	return n
}

func parseDecimalComma(s string) float64 {
	s = strings.ReplaceAll(s, ",", ".")
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0
	}
	return v
}

// TokenizeIngredients нормализует список ингредиентов в токены:
// нижний регистр, разбиение по запятым, проценты и скобочные уточнения
// отбрасываются
func TokenizeIngredients(raw string) []string {
	if strings.TrimSpace(raw) == "" {
		return nil
	}

	// Скобочные уточнения вида "chicken (26%)" убираются целиком
	parens := regexp.MustCompile(`\([^)]*\)`)
	cleaned := parens.ReplaceAllString(raw, "")

	parts := strings.Split(cleaned, ",")
	tokens := make([]string, 0, len(parts))
	seen := make(map[string]bool)

	for _, part := range parts {
		token := strings.ToLower(strings.TrimSpace(part))
		token = strings.Trim(token, ".;:")
		if token == "" || seen[token] {
			continue
		}
		seen[token] = true
		tokens = append(tokens, token)
	}

	return tokens
}
