package algorithms

// LevenshteinDistance вычисляет классическое расстояние Левенштейна
func LevenshteinDistance(s1, s2 string) int {
	r1 := []rune(normalizeForCompare(s1))
	r2 := []rune(normalizeForCompare(s2))
	len1, len2 := len(r1), len(r2)

	if len1 == 0 {
		return len2
	}
	if len2 == 0 {
		return len1
	}

	// Храним только две строки матрицы
	prev := make([]int, len2+1)
	curr := make([]int, len2+1)
	for j := 0; j <= len2; j++ {
		prev[j] = j
	}

	for i := 1; i <= len1; i++ {
		curr[0] = i
		for j := 1; j <= len2; j++ {
			cost := 1
			if r1[i-1] == r2[j-1] {
				cost = 0
			}
			curr[j] = min3(
				prev[j]+1,      // удаление
				curr[j-1]+1,    // вставка
				prev[j-1]+cost, // замена
			)
		}
		prev, curr = curr, prev
	}

	return prev[len2]
}

// LevenshteinSimilarity нормализует расстояние Левенштейна в коэффициент сходства [0, 1]
func LevenshteinSimilarity(s1, s2 string) float64 {
	a := normalizeForCompare(s1)
	b := normalizeForCompare(s2)
	if a == b {
		return 1.0
	}

	maxLen := max(len([]rune(a)), len([]rune(b)))
	if maxLen == 0 {
		return 1.0
	}

	return 1.0 - float64(LevenshteinDistance(a, b))/float64(maxLen)
}

// DamerauLevenshteinDistance вычисляет расстояние Дамерау-Левенштейна.
// Учитывает транспозиции соседних символов ("barikn" -> "barkin" = 1 операция)
func DamerauLevenshteinDistance(s1, s2 string) int {
	r1 := []rune(normalizeForCompare(s1))
	r2 := []rune(normalizeForCompare(s2))
	len1, len2 := len(r1), len(r2)

	if len1 == 0 {
		return len2
	}
	if len2 == 0 {
		return len1
	}

	matrix := make([][]int, len1+1)
	for i := range matrix {
		matrix[i] = make([]int, len2+1)
		matrix[i][0] = i
	}
	for j := 0; j <= len2; j++ {
		matrix[0][j] = j
	}

	for i := 1; i <= len1; i++ {
		for j := 1; j <= len2; j++ {
			cost := 1
			if r1[i-1] == r2[j-1] {
				cost = 0
			}

			matrix[i][j] = min3(
				matrix[i-1][j]+1,
				matrix[i][j-1]+1,
				matrix[i-1][j-1]+cost,
			)

			// Транспозиция
			if i > 1 && j > 1 && r1[i-1] == r2[j-2] && r1[i-2] == r2[j-1] {
				if matrix[i-2][j-2]+cost < matrix[i][j] {
					matrix[i][j] = matrix[i-2][j-2] + cost
				}
			}
		}
	}

	return matrix[len1][len2]
}

// DamerauLevenshteinSimilarity нормализует расстояние Дамерау-Левенштейна в [0, 1]
func DamerauLevenshteinSimilarity(s1, s2 string) float64 {
	a := normalizeForCompare(s1)
	b := normalizeForCompare(s2)
	if a == b {
		return 1.0
	}

	maxLen := max(len([]rune(a)), len([]rune(b)))
	if maxLen == 0 {
		return 1.0
	}

	return 1.0 - float64(DamerauLevenshteinDistance(a, b))/float64(maxLen)
}

func min3(a, b, c int) int {
	if a < b {
		if a < c {
			return a
		}
		return c
	}
	if b < c {
		return b
	}
	return c
}
