package algorithms

import (
	"strings"
	"unicode"
)

// NGramSimilarity вычисляет сходство на основе N-грамм через индекс Жаккара
func NGramSimilarity(s1, s2 string, n int) float64 {
	a := normalizeForCompare(s1)
	b := normalizeForCompare(s2)
	if a == b {
		return 1.0
	}

	grams1 := generateNGrams(a, n)
	grams2 := generateNGrams(b, n)

	return jaccardIndex(grams1, grams2)
}

// BigramSimilarity вычисляет сходство на основе биграмм
func BigramSimilarity(s1, s2 string) float64 {
	return NGramSimilarity(s1, s2, 2)
}

// TrigramSimilarity вычисляет сходство на основе триграмм
func TrigramSimilarity(s1, s2 string) float64 {
	return NGramSimilarity(s1, s2, 3)
}

func generateNGrams(text string, n int) map[string]int {
	grams := make(map[string]int)
	runes := []rune(text)

	if len(runes) < n {
		// Строка короче граммы используется целиком
		if len(runes) > 0 {
			grams[string(runes)] = 1
		}
		return grams
	}

	for i := 0; i <= len(runes)-n; i++ {
		grams[string(runes[i:i+n])]++
	}

	return grams
}

// TokenJaccard вычисляет индекс Жаккара по множествам слов.
// Основной сигнал для многословных брендов: "royal canin veterinary" и
// "royal canin" пересекаются по 2 словам из 3
func TokenJaccard(s1, s2 string) float64 {
	return jaccardIndex(Tokenize(s1), Tokenize(s2))
}

// TokenOverlap возвращает долю слов более короткой строки, найденных в более длинной.
// В отличие от Жаккара не штрафует за лишние слова в длинной строке
func TokenOverlap(s1, s2 string) float64 {
	t1 := Tokenize(s1)
	t2 := Tokenize(s2)

	if len(t1) == 0 || len(t2) == 0 {
		return 0.0
	}

	small, large := t1, t2
	if len(t2) < len(t1) {
		small, large = t2, t1
	}

	hits := 0
	for tok := range small {
		if _, ok := large[tok]; ok {
			hits++
		}
	}

	return float64(hits) / float64(len(small))
}

// Tokenize разбивает строку на множество слов в нижнем регистре
func Tokenize(text string) map[string]int {
	text = strings.ToLower(strings.TrimSpace(text))
	tokens := make(map[string]int)

	words := strings.FieldsFunc(text, func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})

	for _, word := range words {
		if len(word) > 0 {
			tokens[word]++
		}
	}

	return tokens
}

func jaccardIndex(set1, set2 map[string]int) float64 {
	if len(set1) == 0 && len(set2) == 0 {
		return 1.0
	}
	if len(set1) == 0 || len(set2) == 0 {
		return 0.0
	}

	intersection := 0
	for key := range set1 {
		if _, exists := set2[key]; exists {
			intersection++
		}
	}

	union := len(set1) + len(set2) - intersection
	if union == 0 {
		return 0.0
	}

	return float64(intersection) / float64(union)
}
