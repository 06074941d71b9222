// Package config загружает конфигурацию пайплайна из переменных
// окружения с поддержкой .env файла.
package config

import (
	"log/slog"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"

	"foodpipeline/database"
)

// Config конфигурация пайплайна каталога
type Config struct {
	// Сервер
	Port string `json:"port"`

	// Каталог в Postgres (Supabase выдает обычный DSN)
	DatabaseURL string `json:"database_url"`

	// Локальная БД очереди ревью и снимков отката
	ReviewDatabasePath string `json:"review_database_path"`

	// Connection pooling
	MaxOpenConns    int           `json:"max_open_conns"`
	MaxIdleConns    int           `json:"max_idle_conns"`
	ConnMaxLifetime time.Duration `json:"conn_max_lifetime"`

	// Логирование
	LogLevel string `json:"log_level"`

	// Нормализация брендов
	PipelineConcurrency int  `json:"pipeline_concurrency"`
	AliasLearning       bool `json:"alias_learning"`

	// Справочники брендов
	CanonicalBrandsPath string `json:"canonical_brands_path"`
	BrandVariantsPath   string `json:"brand_variants_path"`

	// Скрейпинг
	Harvest *HarvestConfig `json:"harvest"`

	// Гейт качества
	Quality *QualityConfig `json:"quality"`
}

// HarvestConfig конфигурация сбора страниц производителей
type HarvestConfig struct {
	APIKey string `json:"api_key"`
	// Минимальный интервал между запросами к прокси
	RequestInterval time.Duration `json:"request_interval"`
	Timeout         time.Duration `json:"timeout"`
	MaxRetries      int           `json:"max_retries"`
	RetryBackoff    time.Duration `json:"retry_backoff"`
	CountryCode     string        `json:"country_code"`
	Stealth         bool          `json:"stealth"`
}

// QualityConfig пороги гейта публикации
type QualityConfig struct {
	IngredientsPct float64 `json:"ingredients_pct"`
	FormPct        float64 `json:"form_pct"`
	LifeStagePct   float64 `json:"life_stage_pct"`
	KcalPct        float64 `json:"kcal_pct"`
	MinProducts    int     `json:"min_products"`
}

// LoadConfig загружает конфигурацию из окружения. Файл .env в рабочей
// директории подхватывается если присутствует.
func LoadConfig() (*Config, error) {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		slog.Default().Warn("Failed to load .env file", "error", err)
	}

	config := &Config{
		// Сервер
		Port: getEnv("SERVER_PORT", "8090"),

		// Базы данных
		DatabaseURL:        os.Getenv("DATABASE_URL"),
		ReviewDatabasePath: getEnv("REVIEW_DATABASE_PATH", "review.db"),

		// Connection pooling
		MaxOpenConns:    getEnvInt("DB_MAX_OPEN_CONNS", 25),
		MaxIdleConns:    getEnvInt("DB_MAX_IDLE_CONNS", 5),
		ConnMaxLifetime: getEnvDuration("DB_CONN_MAX_LIFETIME", 5*time.Minute),

		// Логирование
		LogLevel: getEnv("LOG_LEVEL", "INFO"),

		// Нормализация
		PipelineConcurrency: getEnvInt("PIPELINE_CONCURRENCY", 4),
		AliasLearning:       getEnv("ALIAS_LEARNING", "true") == "true",

		// Справочники
		CanonicalBrandsPath: getEnv("CANONICAL_BRANDS_PATH", "data/ALL-BRANDS.md"),
		BrandVariantsPath:   getEnv("BRAND_VARIANTS_PATH", "data/brand-aliases.json"),

		Harvest: LoadHarvestConfig(),
		Quality: LoadQualityConfig(),
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}

	return config, nil
}

// LoadHarvestConfig загружает конфигурацию скрейпинга
func LoadHarvestConfig() *HarvestConfig {
	return &HarvestConfig{
		APIKey:          os.Getenv("SCRAPINGBEE_API_KEY"),
		RequestInterval: getEnvDuration("HARVEST_REQUEST_INTERVAL", 2*time.Second),
		Timeout:         getEnvDuration("HARVEST_TIMEOUT", 90*time.Second),
		MaxRetries:      getEnvInt("HARVEST_MAX_RETRIES", 3),
		RetryBackoff:    getEnvDuration("HARVEST_RETRY_BACKOFF", 5*time.Second),
		CountryCode:     getEnv("HARVEST_COUNTRY_CODE", "gb"),
		Stealth:         getEnv("HARVEST_STEALTH", "false") == "true",
	}
}

// LoadQualityConfig загружает пороги гейта качества
func LoadQualityConfig() *QualityConfig {
	return &QualityConfig{
		IngredientsPct: getEnvFloat("QUALITY_INGREDIENTS_PCT", 85.0),
		FormPct:        getEnvFloat("QUALITY_FORM_PCT", 90.0),
		LifeStagePct:   getEnvFloat("QUALITY_LIFE_STAGE_PCT", 90.0),
		KcalPct:        getEnvFloat("QUALITY_KCAL_PCT", 70.0),
		MinProducts:    getEnvInt("QUALITY_MIN_PRODUCTS", 5),
	}
}

// DBConfig возвращает настройки пула для подключения к каталогу
func (c *Config) DBConfig() database.DBConfig {
	return database.DBConfig{
		MaxOpenConns:    c.MaxOpenConns,
		MaxIdleConns:    c.MaxIdleConns,
		ConnMaxLifetime: c.ConnMaxLifetime,
	}
}

// SlogLevel переводит строковый уровень в slog.Level
func (c *Config) SlogLevel() slog.Level {
	switch c.LogLevel {
	case "DEBUG":
		return slog.LevelDebug
	case "WARN":
		return slog.LevelWarn
	case "ERROR":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// getEnv получает переменную окружения или возвращает значение по умолчанию
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvInt получает переменную окружения как int или возвращает значение по умолчанию
func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

// getEnvFloat получает переменную окружения как float64 или возвращает значение по умолчанию
func getEnvFloat(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if floatValue, err := strconv.ParseFloat(value, 64); err == nil {
			return floatValue
		}
	}
	return defaultValue
}

// getEnvDuration получает переменную окружения как Duration или возвращает значение по умолчанию
func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}
