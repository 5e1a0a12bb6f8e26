package config

import (
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// Config содержит конфигурацию сервера
type Config struct {
	Port             int
	MaxPrice         float64
	MaxHoldYears     int
	MaxScheduleYears int
	DealSeedFile     string
	OTELEndpoint     string
	OTELServiceName  string
	LogLevel         string
}

// LoadConfig загружает конфигурацию из переменных окружения
func LoadConfig() (*Config, error) {
	// Загружаем .env файл, если он существует (игнорируем ошибку)
	_ = godotenv.Load()

	cfg := &Config{
		Port:             getEnvInt("PORT", 8000),
		MaxPrice:         getEnvFloat("MAX_PRICE", 1e11),
		MaxHoldYears:     getEnvInt("MAX_HOLD_YEARS", 50),
		MaxScheduleYears: getEnvInt("MAX_SCHEDULE_YEARS", 50),
		DealSeedFile:     getEnvString("DEAL_SEED_FILE", ""),
		OTELEndpoint:     getEnvString("OTEL_ENDPOINT", ""),
		OTELServiceName:  getEnvString("OTEL_SERVICE_NAME", "mcp-dealcalc-server"),
		LogLevel:         getEnvString("LOG_LEVEL", "INFO"),
	}

	if cfg.MaxHoldYears < 1 {
		cfg.MaxHoldYears = 1
	}
	if cfg.MaxScheduleYears < 1 {
		cfg.MaxScheduleYears = 1
	}

	return cfg, nil
}

func getEnvString(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvFloat(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if floatValue, err := strconv.ParseFloat(value, 64); err == nil {
			return floatValue
		}
	}
	return defaultValue
}

// HoldYearsCap возвращает максимальный срок владения в прогнозе
func (c *Config) HoldYearsCap() int {
	return c.MaxHoldYears
}

// PriceCap возвращает максимальную цену объекта
func (c *Config) PriceCap() float64 {
	return c.MaxPrice
}
