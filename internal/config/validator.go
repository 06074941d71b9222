package config

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Validate проверяет корректность конфигурации
func (c *Config) Validate() error {
	var errors []string

	// Валидация порта
	if c.Port == "" {
		errors = append(errors, "port is required")
	} else {
		port, err := strconv.Atoi(c.Port)
		if err != nil {
			errors = append(errors, fmt.Sprintf("invalid port: %s", c.Port))
		} else if port < 1 || port > 65535 {
			errors = append(errors, fmt.Sprintf("port must be between 1 and 65535, got %d", port))
		}
	}

	// Валидация путей к базам данных
	if c.ReviewDatabasePath == "" {
		errors = append(errors, "review database path is required")
	}

	// Валидация connection pooling
	if c.MaxOpenConns < 1 {
		errors = append(errors, "max open connections must be at least 1")
	}
	if c.MaxIdleConns < 1 {
		errors = append(errors, "max idle connections must be at least 1")
	}
	if c.MaxIdleConns > c.MaxOpenConns {
		errors = append(errors, "max idle connections cannot be greater than max open connections")
	}
	if c.ConnMaxLifetime < time.Second {
		errors = append(errors, "connection max lifetime must be at least 1 second")
	}

	// Валидация уровня логирования
	validLogLevels := []string{"DEBUG", "INFO", "WARN", "ERROR"}
	if c.LogLevel != "" {
		valid := false
		logLevelUpper := strings.ToUpper(c.LogLevel)
		for _, level := range validLogLevels {
			if logLevelUpper == level {
				valid = true
				break
			}
		}
		if !valid {
			errors = append(errors, fmt.Sprintf("invalid log level: %s (valid: %s)",
				c.LogLevel, strings.Join(validLogLevels, ", ")))
		}
	}

	// Валидация пайплайна
	if c.PipelineConcurrency < 1 {
		errors = append(errors, "pipeline concurrency must be at least 1")
	}

	if c.Harvest != nil {
		if err := c.Harvest.Validate(); err != nil {
			errors = append(errors, fmt.Sprintf("harvest config: %v", err))
		}
	}
	if c.Quality != nil {
		if err := c.Quality.Validate(); err != nil {
			errors = append(errors, fmt.Sprintf("quality config: %v", err))
		}
	}

	if len(errors) > 0 {
		return fmt.Errorf("validation errors: %s", strings.Join(errors, "; "))
	}

	return nil
}

// Validate проверяет корректность конфигурации скрейпинга.
// Ключ API не обязателен, без него недоступен только сбор.
func (hc *HarvestConfig) Validate() error {
	var errors []string

	if hc.Timeout < time.Second {
		errors = append(errors, "timeout must be at least 1 second")
	}
	if hc.RequestInterval < 100*time.Millisecond {
		errors = append(errors, "request interval must be at least 100ms")
	}
	if hc.MaxRetries < 0 {
		errors = append(errors, "max retries cannot be negative")
	}
	if hc.CountryCode != "" && len(hc.CountryCode) != 2 {
		errors = append(errors, fmt.Sprintf("country code must be two letters, got %q", hc.CountryCode))
	}

	if len(errors) > 0 {
		return fmt.Errorf("harvest validation errors: %s", strings.Join(errors, "; "))
	}

	return nil
}

// Validate проверяет пороги гейта качества
func (qc *QualityConfig) Validate() error {
	var errors []string

	for _, p := range []struct {
		name  string
		value float64
	}{
		{"ingredients", qc.IngredientsPct},
		{"form", qc.FormPct},
		{"life stage", qc.LifeStagePct},
		{"kcal", qc.KcalPct},
	} {
		if p.value < 0 || p.value > 100 {
			errors = append(errors, fmt.Sprintf("%s threshold must be between 0 and 100", p.name))
		}
	}
	if qc.MinProducts < 0 {
		errors = append(errors, "min products cannot be negative")
	}

	if len(errors) > 0 {
		return fmt.Errorf("quality validation errors: %s", strings.Join(errors, "; "))
	}

	return nil
}

// GetDefaults возвращает конфигурацию со значениями по умолчанию
func GetDefaults() *Config {
	return &Config{
		Port:                "8090",
		ReviewDatabasePath:  "review.db",
		MaxOpenConns:        25,
		MaxIdleConns:        5,
		ConnMaxLifetime:     5 * time.Minute,
		LogLevel:            "INFO",
		PipelineConcurrency: 4,
		AliasLearning:       true,
		CanonicalBrandsPath: "data/ALL-BRANDS.md",
		BrandVariantsPath:   "data/brand-aliases.json",
		Harvest: &HarvestConfig{
			RequestInterval: 2 * time.Second,
			Timeout:         90 * time.Second,
			MaxRetries:      3,
			RetryBackoff:    5 * time.Second,
			CountryCode:     "gb",
		},
		Quality: &QualityConfig{
			IngredientsPct: 85.0,
			FormPct:        90.0,
			LifeStagePct:   90.0,
			KcalPct:        70.0,
			MinProducts:    5,
		},
	}
}
