package algorithms

// JaroSimilarity вычисляет сходство Jaro между двумя строками
func JaroSimilarity(s1, s2 string) float64 {
	a := normalizeForCompare(s1)
	b := normalizeForCompare(s2)

	if a == b {
		return 1.0
	}

	r1, r2 := []rune(a), []rune(b)
	len1, len2 := len(r1), len(r2)

	if len1 == 0 || len2 == 0 {
		return 0.0
	}

	// Окно совпадений
	matchWindow := max(len1, len2)/2 - 1
	if matchWindow < 0 {
		matchWindow = 0
	}

	matches1 := make([]bool, len1)
	matches2 := make([]bool, len2)
	matches := 0

	for i := 0; i < len1; i++ {
		start := max(0, i-matchWindow)
		end := min(len2, i+matchWindow+1)

		for j := start; j < end; j++ {
			if matches2[j] || r1[i] != r2[j] {
				continue
			}
			matches1[i] = true
			matches2[j] = true
			matches++
			break
		}
	}

	if matches == 0 {
		return 0.0
	}

	// Транспозиции
	transpositions := 0
	k := 0
	for i := 0; i < len1; i++ {
		if !matches1[i] {
			continue
		}
		for !matches2[k] {
			k++
		}
		if r1[i] != r2[k] {
			transpositions++
		}
		k++
	}

	m := float64(matches)
	t := float64(transpositions) / 2.0

	return (m/float64(len1) + m/float64(len2) + (m-t)/m) / 3.0
}

// JaroWinklerSimilarity вычисляет сходство Jaro-Winkler.
// Дает бонус за совпадающий префикс (до 4 символов), что хорошо работает
// для брендов, отличающихся только окончанием ("Skinners" / "Skinner's")
func JaroWinklerSimilarity(s1, s2 string) float64 {
	jaro := JaroSimilarity(s1, s2)
	if jaro < 0.7 {
		return jaro
	}

	r1 := []rune(normalizeForCompare(s1))
	r2 := []rune(normalizeForCompare(s2))

	prefix := 0
	for i := 0; i < min(min(len(r1), len(r2)), 4); i++ {
		if r1[i] != r2[i] {
			break
		}
		prefix++
	}

	const scalingFactor = 0.1
	return jaro + float64(prefix)*scalingFactor*(1.0-jaro)
}
