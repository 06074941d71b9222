package harvest

import (
	"errors"
	"fmt"
)

// RetryableError временная ошибка скрейпинга: сетевой сбой, таймаут,
// ограничение частоты или 5xx от провайдера. Повторяется с паузой.
type RetryableError struct {
	StatusCode int
	Err        error
}

func (e *RetryableError) Error() string {
	if e.StatusCode > 0 {
		return fmt.Sprintf("retryable scrape error (status %d): %v", e.StatusCode, e.Err)
	}
	return fmt.Sprintf("retryable scrape error: %v", e.Err)
}

func (e *RetryableError) Unwrap() error { return e.Err }

// TerminalError окончательная ошибка: неверный ключ API, исчерпанная
// квота, некорректный запрос. Повторы бессмысленны, прогон прерывается.
type TerminalError struct {
	StatusCode int
	Err        error
}

func (e *TerminalError) Error() string {
	if e.StatusCode > 0 {
		return fmt.Sprintf("terminal scrape error (status %d): %v", e.StatusCode, e.Err)
	}
	return fmt.Sprintf("terminal scrape error: %v", e.Err)
}

func (e *TerminalError) Unwrap() error { return e.Err }

// IsRetryable сообщает, можно ли повторить операцию
func IsRetryable(err error) bool {
	var re *RetryableError
	return errors.As(err, &re)
}

// IsTerminal сообщает, что прогон надо прервать
func IsTerminal(err error) bool {
	var te *TerminalError
	return errors.As(err, &te)
}
