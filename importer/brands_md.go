// Package importer содержит разборщики входных артефактов пайплайна:
// канонический список брендов (ALL-BRANDS.md), курируемый словарь
// вариантов написания и CSV-выгрузки ритейлеров.
package importer

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"
)

// ParseCanonicalBrands читает канонический список брендов из
// Markdown-файла: по одному бренду на строку, маркеры списков и
// заголовки отбрасываются, пустые строки и дубликаты пропускаются.
func ParseCanonicalBrands(r io.Reader) ([]string, error) {
	scanner := bufio.NewScanner(r)

	var brands []string
	seen := make(map[string]bool)

	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") || strings.HasPrefix(line, "<!--") {
			continue
		}

		// Маркеры списков Markdown
		for _, prefix := range []string{"- ", "* ", "+ "} {
			if strings.HasPrefix(line, prefix) {
				line = strings.TrimSpace(line[len(prefix):])
				break
			}
		}

		if line == "" || seen[line] {
			continue
		}
		seen[line] = true
		brands = append(brands, line)
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read canonical brands: %w", err)
	}

	if len(brands) == 0 {
		return nil, fmt.Errorf("canonical brand list is empty")
	}

	return brands, nil
}

// LoadCanonicalBrandsFile читает канонический список брендов из файла
func LoadCanonicalBrandsFile(path string) ([]string, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open canonical brands file: %w", err)
	}
	defer file.Close()

	return ParseCanonicalBrands(file)
}
