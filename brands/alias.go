package brands

import (
	"fmt"
	"sort"
)

// AliasTable таблица соответствий "алиас -> канонический бренд".
// Ключи хранятся в нормализованной форме (Normalize), значения —
// члены канонического набора.
type AliasTable struct {
	entries map[string]string
}

// NewAliasTable создает пустую таблицу алиасов
func NewAliasTable() *AliasTable {
	return &AliasTable{entries: make(map[string]string)}
}

// Add регистрирует алиас. Возвращает ошибку, если нормализованный алиас
// уже указывает на другой канонический бренд — алиасы обязаны быть
// уникальными после нормализации.
func (at *AliasTable) Add(alias, canonical string) error {
	key := Normalize(alias)
	if key == "" {
		return fmt.Errorf("alias %q is empty after normalization", alias)
	}

	if existing, ok := at.entries[key]; ok && existing != canonical {
		return fmt.Errorf("alias %q already mapped to %q, conflicting mapping to %q", key, existing, canonical)
	}

	at.entries[key] = canonical
	return nil
}

// Lookup ищет канонический бренд по нормализованному алиасу
func (at *AliasTable) Lookup(raw string) (string, bool) {
	canonical, ok := at.entries[Normalize(raw)]
	return canonical, ok
}

// Len возвращает число зарегистрированных алиасов
func (at *AliasTable) Len() int {
	return len(at.entries)
}

// Entries возвращает пары (алиас, канонический бренд) в стабильном порядке
func (at *AliasTable) Entries() [][2]string {
	keys := make([]string, 0, len(at.entries))
	for k := range at.entries {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	pairs := make([][2]string, 0, len(keys))
	for _, k := range keys {
		pairs = append(pairs, [2]string{k, at.entries[k]})
	}
	return pairs
}

// CanonicalSet канонический набор брендов с индексом по свернутой форме
// (FoldForMatch) для апостроф-нечувствительного точного поиска
type CanonicalSet struct {
	names  []string
	byFold map[string]string
}

// NewCanonicalSet строит набор из списка официальных названий брендов.
// Дубликаты по свернутой форме отвергаются: два канонических бренда не
// должны схлопываться в один ключ сравнения.
func NewCanonicalSet(names []string) (*CanonicalSet, error) {
	cs := &CanonicalSet{
		names:  make([]string, 0, len(names)),
		byFold: make(map[string]string, len(names)),
	}

	for _, name := range names {
		fold := FoldForMatch(name)
		if fold == "" {
			continue
		}
		if existing, ok := cs.byFold[fold]; ok {
			if existing == name {
				continue
			}
			return nil, fmt.Errorf("canonical brands %q and %q collapse to the same fold key %q", existing, name, fold)
		}
		cs.byFold[fold] = name
		cs.names = append(cs.names, name)
	}

	return cs, nil
}

// Names возвращает канонические названия в порядке добавления
func (cs *CanonicalSet) Names() []string {
	return cs.names
}

// Len возвращает размер набора
func (cs *CanonicalSet) Len() int {
	return len(cs.names)
}

// LookupFold ищет канонический бренд по свернутой форме строки
func (cs *CanonicalSet) LookupFold(raw string) (string, bool) {
	canonical, ok := cs.byFold[FoldForMatch(raw)]
	return canonical, ok
}

// Contains проверяет членство названия в каноническом наборе
func (cs *CanonicalSet) Contains(name string) bool {
	canonical, ok := cs.byFold[FoldForMatch(name)]
	return ok && canonical == name
}
