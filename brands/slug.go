package brands

import (
	"strings"
	"unicode"
)

// ProductKeySeparator разделитель сегментов составного ключа продукта
const ProductKeySeparator = "|"

// DeriveSlug строит URL-безопасный slug канонического бренда:
// нижний регистр, апострофы удаляются, "&" заменяется на "and",
// пробелы на дефисы. Детерминирована и инъективна на каноническом
// наборе брендов (проверяется тестом на актуальном наборе).
func DeriveSlug(canonical string) string {
	s := strings.ToLower(strings.TrimSpace(canonical))
	s = strings.ReplaceAll(s, "'", "")
	for _, r := range apostropheVariants {
		s = strings.ReplaceAll(s, string(r), "")
	}
	s = strings.ReplaceAll(s, "&", " and ")

	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		switch {
		case unicode.IsLetter(r) || unicode.IsDigit(r):
			b.WriteRune(r)
		default:
			b.WriteRune(' ')
		}
	}

	return strings.Join(strings.Fields(b.String()), "-")
}

// RebuildProductKey заменяет первый сегмент составного ключа (slug бренда)
// на новый slug, остальные сегменты сохраняются без изменений.
// Пустой или бессегментный ключ возвращается как есть.
func RebuildProductKey(oldKey, newSlug string) string {
	if oldKey == "" {
		return oldKey
	}

	segments := strings.Split(oldKey, ProductKeySeparator)
	segments[0] = newSlug
	return strings.Join(segments, ProductKeySeparator)
}

// BuildProductKey строит составной ключ продукта: slug бренда плюс
// токены названия продукта, каждый отдельным сегментом
func BuildProductKey(brandSlug, productName string) string {
	nameSlug := DeriveSlug(productName)
	if nameSlug == "" {
		return brandSlug
	}

	segments := append([]string{brandSlug}, strings.Split(nameSlug, "-")...)
	return strings.Join(segments, ProductKeySeparator)
}
