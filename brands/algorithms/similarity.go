package algorithms

import "strings"

// SimilarityFunc функция вычисления сходства двух строк, результат в диапазоне [0, 1]
type SimilarityFunc func(s1, s2 string) float64

// SimilarityMethod именованный метод сходства с порогом срабатывания
type SimilarityMethod struct {
	Name      string
	Compute   SimilarityFunc
	Threshold float64
}

// GetDefaultMethods возвращает методы сходства, используемые при сопоставлении брендов
func GetDefaultMethods() []SimilarityMethod {
	return []SimilarityMethod{
		{Name: "levenshtein", Compute: LevenshteinSimilarity, Threshold: 0.85},
		{Name: "damerau_levenshtein", Compute: DamerauLevenshteinSimilarity, Threshold: 0.85},
		{Name: "jaro_winkler", Compute: JaroWinklerSimilarity, Threshold: 0.90},
		{Name: "bigram", Compute: BigramSimilarity, Threshold: 0.75},
		{Name: "token_jaccard", Compute: TokenJaccard, Threshold: 0.70},
	}
}

// normalizeForCompare приводит строку к нижнему регистру и обрезает пробелы.
// Все алгоритмы пакета сравнивают строки без учета регистра.
func normalizeForCompare(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
