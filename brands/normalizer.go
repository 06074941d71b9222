// Package brands реализует канонизацию названий брендов кормов:
// нормализация свободного текста, разрешение в каноническое имя через
// таблицу алиасов, курируемый словарь вариантов и нечеткое сопоставление,
// а также построение slug и составного ключа продукта.
package brands

import (
	"strings"
	"unicode"
)

// Варианты апострофов, встречающиеся в выгрузках ритейлеров
const apostropheVariants = "’‘`´"

// Normalize приводит сырое название бренда к нормальной форме:
// нижний регистр, обрезка краев, схлопывание внутренних пробелов,
// удаление пунктуации. Апострофы и амперсанды сохраняются, так как они
// участвуют в точном поиске по таблице алиасов.
// Функция идемпотентна: Normalize(Normalize(s)) == Normalize(s).
func Normalize(raw string) string {
	s := strings.ToLower(strings.TrimSpace(raw))

	var b strings.Builder
	b.Grow(len(s))

	for _, r := range s {
		switch {
		case unicode.IsLetter(r) || unicode.IsDigit(r):
			b.WriteRune(r)
		case r == '\'' || strings.ContainsRune(apostropheVariants, r):
			b.WriteRune('\'')
		case r == '&':
			b.WriteString(" & ")
		default:
			// Любая прочая пунктуация и пробельные символы становятся разделителем
			b.WriteRune(' ')
		}
	}

	return collapseSpaces(b.String())
}

// FoldForMatch строит ключ для сравнения без учета апострофов и формы
// амперсанда: "Skinner's" и "Skinners" дают одинаковый ключ, "&" и "and"
// считаются эквивалентными
func FoldForMatch(raw string) string {
	s := Normalize(raw)
	s = strings.ReplaceAll(s, "'", "")
	s = strings.ReplaceAll(s, "&", "and")
	return collapseSpaces(s)
}

func collapseSpaces(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
