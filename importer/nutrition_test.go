package importer

import (
	"reflect"
	"testing"
)

func TestParseNutrition(t *testing.T) {
	tests := []struct {
		name     string
		text     string
		expected Nutrition
	}{
		{
			name: "full analytical constituents",
			text: "Crude Protein 26%, Crude Fat 14%, Crude Fibre 3.1%, Ash 7%, Moisture 8%, 370 kcal/100g",
			expected: Nutrition{
				ProteinPercent:  26,
				FatPercent:      14,
				FiberPercent:    3.1,
				AshPercent:      7,
				MoisturePercent: 8,
				KcalPer100g:     370,
			},
		},
		{
			name: "comma decimals and colons",
			text: "Protein: 25,5 % Fat: 15,5 % Fibre: 2,8 %",
			expected: Nutrition{
				ProteinPercent: 25.5,
				FatPercent:     15.5,
				FiberPercent:   2.8,
			},
		},
		{
			name: "american fiber spelling",
			text: "Crude Fiber 4%",
			expected: Nutrition{
				FiberPercent: 4,
			},
		},
		{
			name: "kcal with spaces",
			text: "Energy 356 kcal / 100 g",
			expected: Nutrition{
				KcalPer100g: 356,
			},
		},
		{
			name:     "empty text",
			text:     "  ",
			expected: Nutrition{},
		},
		{
			name:     "no nutrition data",
			text:     "Tasty chicken dinner for adult dogs",
			expected: Nutrition{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ParseNutrition(tt.text)
			if got != tt.expected {
				t.Errorf("ParseNutrition(%q) = %+v, want %+v", tt.text, got, tt.expected)
			}
		})
	}
}

func TestTokenizeIngredients(t *testing.T) {
	tests := []struct {
		name     string
		raw      string
		expected []string
	}{
		{
			name:     "parentheticals dropped",
			raw:      "Chicken (26%), Rice, Chicken Fat (preserved with mixed tocopherols)",
			expected: []string{"chicken", "rice", "chicken fat"},
		},
		{
			name:     "deduplicated",
			raw:      "Chicken, chicken, CHICKEN",
			expected: []string{"chicken"},
		},
		{
			name:     "trailing punctuation trimmed",
			raw:      "Salmon, Peas.",
			expected: []string{"salmon", "peas"},
		},
		{
			name:     "empty",
			raw:      "",
			expected: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := TokenizeIngredients(tt.raw)
			if !reflect.DeepEqual(got, tt.expected) {
				t.Errorf("TokenizeIngredients(%q) = %v, want %v", tt.raw, got, tt.expected)
			}
		})
	}
}
