package brands

import "strings"

// AmbiguousRule правило дизамбигуации короткого фрагмента бренда
// по подстроке в названии продукта
type AmbiguousRule struct {
	// Подстрока, которую ищем в нормализованном названии продукта
	Hint string
	// Канонический бренд, выбираемый при совпадении подсказки
	Canonical string
}

// ambiguousFragments короткие обрывки брендов, которые нельзя разрешать
// нечетким поиском: "The" одинаково похож на половину каталога.
// Разрешаются только по подсказке из названия продукта, иначе остаются
// неразрешенными (политика пропуска).
var ambiguousFragments = map[string][]AmbiguousRule{
	"the": {
		{Hint: "innocent hound", Canonical: "The Innocent Hound"},
		{Hint: "dog's table", Canonical: "The Dog's Table"},
		{Hint: "dogs table", Canonical: "The Dog's Table"},
		{Hint: "honest kitchen", Canonical: "The Honest Kitchen"},
	},
	"natural": {
		{Hint: "instinct", Canonical: "Natural Instinct"},
		{Hint: "dog food company", Canonical: "Natural Dog Food Company"},
	},
	"pet": {
		{Hint: "munchies", Canonical: "Pet Munchies"},
	},
	"wild": {
		{Hint: "taste of the wild", Canonical: "Taste of the Wild"},
	},
}

// resolveAmbiguousFragment пытается разрешить короткий фрагмент по
// названию продукта. Возвращает false, если фрагмент не числится
// неоднозначным; пустой canonical — фрагмент неоднозначен, но подсказка
// в названии продукта не найдена.
func resolveAmbiguousFragment(normalized, productName string) (canonical string, ambiguous bool) {
	rules, ok := ambiguousFragments[normalized]
	if !ok {
		return "", false
	}

	haystack := Normalize(productName)
	if haystack != "" {
		for _, rule := range rules {
			if strings.Contains(haystack, Normalize(rule.Hint)) {
				return rule.Canonical, true
			}
		}
	}

	return "", true
}
