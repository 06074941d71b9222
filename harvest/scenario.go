package harvest

import (
	"encoding/json"
	"fmt"
)

// Scenario сценарий JS-взаимодействия со страницей для рендерящего
// прокси: последовательность инструкций wait/scroll/click, сериализуемая
// в JSON параметра js_scenario
type Scenario struct {
	Instructions []Instruction `json:"instructions"`
}

// Instruction одна инструкция сценария. Заполняется ровно одно поле.
type Instruction struct {
	WaitMs     int    `json:"wait,omitempty"`
	WaitFor    string `json:"wait_for,omitempty"`
	ScrollY    int    `json:"scroll_y,omitempty"`
	Click      string `json:"click,omitempty"`
}

// Wait добавляет паузу в миллисекундах
func (s *Scenario) Wait(ms int) *Scenario {
	s.Instructions = append(s.Instructions, Instruction{WaitMs: ms})
	return s
}

// WaitFor добавляет ожидание появления селектора
func (s *Scenario) WaitFor(selector string) *Scenario {
	s.Instructions = append(s.Instructions, Instruction{WaitFor: selector})
	return s
}

// Scroll добавляет вертикальную прокрутку
func (s *Scenario) Scroll(y int) *Scenario {
	s.Instructions = append(s.Instructions, Instruction{ScrollY: y})
	return s
}

// Click добавляет клик по селектору
func (s *Scenario) Click(selector string) *Scenario {
	s.Instructions = append(s.Instructions, Instruction{Click: selector})
	return s
}

// Encode сериализует сценарий для передачи в параметре запроса
func (s *Scenario) Encode() (string, error) {
	if s == nil || len(s.Instructions) == 0 {
		return "", nil
	}
	data, err := json.Marshal(s)
	if err != nil {
		return "", fmt.Errorf("failed to encode js scenario: %w", err)
	}
	return string(data), nil
}
