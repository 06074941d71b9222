package brands

import (
	"strings"
	"sync"

	"foodpipeline/brands/algorithms"
)

// Candidate кандидат нечеткого сопоставления
type Candidate struct {
	Canonical string  `json:"canonical"`
	Score     float64 `json:"score"`
}

// Matcher нечеткий матчер входной строки против канонического набора.
// Результаты парных сравнений кэшируются: пакетная нормализация каталога
// многократно сравнивает одни и те же варианты написания.
type Matcher struct {
	canonical *CanonicalSet
	cache     map[string]float64
	cacheMu   sync.RWMutex
}

// NewMatcher создает матчер над каноническим набором брендов
func NewMatcher(canonical *CanonicalSet) *Matcher {
	return &Matcher{
		canonical: canonical,
		cache:     make(map[string]float64),
	}
}

// BestMatch возвращает наиболее похожий канонический бренд и его счет.
// Второй результат false, если канонический набор пуст.
func (m *Matcher) BestMatch(raw string) (Candidate, bool) {
	fold := FoldForMatch(raw)
	if fold == "" || m.canonical.Len() == 0 {
		return Candidate{}, false
	}

	best := Candidate{Score: -1.0}
	for _, name := range m.canonical.Names() {
		score := m.score(fold, FoldForMatch(name))
		if score > best.Score {
			best = Candidate{Canonical: name, Score: score}
		}
	}

	return best, best.Score >= 0
}

// score вычисляет счет пары свернутых строк с кэшированием
func (m *Matcher) score(fold1, fold2 string) float64 {
	cacheKey := fold1 + "|" + fold2

	m.cacheMu.RLock()
	if cached, ok := m.cache[cacheKey]; ok {
		m.cacheMu.RUnlock()
		return cached
	}
	m.cacheMu.RUnlock()

	score := brandSimilarity(fold1, fold2)

	m.cacheMu.Lock()
	m.cache[cacheKey] = score
	m.cacheMu.Unlock()

	return score
}

// Пороговые и бонусные константы нечеткого сопоставления брендов.
// Бонус за вхождение подстроки поднимает счет в ярус high, но не до
// exact: "royal canin veterinary" содержит "royal canin", однако это
// не дословное совпадение.
const (
	containmentFloor  = 0.90
	tokenOverlapFloor = 0.88
	// Минимальная доля совпавших слов для бонуса многословных брендов
	tokenOverlapThreshold = 0.99
)

// brandSimilarity комбинированный счет сходства двух брендов:
// максимум из посимвольных метрик, усиленный вхождением подстроки
// и пересечением множеств слов для многословных брендов
func brandSimilarity(fold1, fold2 string) float64 {
	if fold1 == fold2 {
		return 1.0
	}

	score := algorithms.LevenshteinSimilarity(fold1, fold2)
	if jw := algorithms.JaroWinklerSimilarity(fold1, fold2); jw > score {
		score = jw
	}
	if dl := algorithms.DamerauLevenshteinSimilarity(fold1, fold2); dl > score {
		score = dl
	}

	// Бонус за вхождение: один бренд целиком содержится в другом
	if containsWholeWords(fold1, fold2) || containsWholeWords(fold2, fold1) {
		if score < containmentFloor {
			score = containmentFloor
		}
	}

	// Бонус за совпадение множеств слов у многословных брендов
	if isMultiWord(fold1) || isMultiWord(fold2) {
		if algorithms.TokenOverlap(fold1, fold2) >= tokenOverlapThreshold {
			if score < tokenOverlapFloor {
				score = tokenOverlapFloor
			}
		}
	}

	return score
}

// containsWholeWords проверяет вхождение needle в haystack по границам слов
func containsWholeWords(haystack, needle string) bool {
	if needle == "" || len(needle) >= len(haystack) {
		return false
	}
	return strings.Contains(" "+haystack+" ", " "+needle+" ")
}

func isMultiWord(s string) bool {
	return strings.ContainsRune(s, ' ')
}
