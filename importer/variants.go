package importer

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
)

// Курируемый словарь вариантов написания хранится одним файлом данных
// вместо дублирующихся словарей в каждом скрипте. Формат:
//
//	{
//	  "royal canin veterinary": "Royal Canin",
//	  "purina pro plan": "Pro Plan"
//	}
//
// Ключи нормализуются резолвером при построении.

// ParseCuratedVariants читает словарь вариантов из JSON
func ParseCuratedVariants(r io.Reader) (map[string]string, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read curated variants: %w", err)
	}

	variants := make(map[string]string)
	if err := json.Unmarshal(data, &variants); err != nil {
		return nil, fmt.Errorf("failed to parse curated variants: %w", err)
	}

	for variant, canonical := range variants {
		if variant == "" || canonical == "" {
			return nil, fmt.Errorf("curated variants contain empty entry (%q -> %q)", variant, canonical)
		}
	}

	return variants, nil
}

// LoadCuratedVariantsFile читает словарь вариантов из файла.
// Отсутствующий файл не считается ошибкой: возвращается пустой словарь.
func LoadCuratedVariantsFile(path string) (map[string]string, error) {
	file, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return map[string]string{}, nil
		}
		return nil, fmt.Errorf("failed to open curated variants file: %w", err)
	}
	defer file.Close()

	return ParseCuratedVariants(file)
}
