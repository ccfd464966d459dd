package config

import (
	"errors"
	"fmt"
	"log"
	"os"
	"strconv"

	"github.com/Freeeeeet/schedule_grid/internal/model"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

const (
	defaultHTTPAddr         = ":8080"
	defaultMigrationsPath   = "migrations"
	defaultAvailabilityFile = "availability.yaml"
	defaultHolidayCacheSize = 8
)

type Config struct {
	TelegramToken    string `mapstructure:"TELEGRAM_TOKEN"`
	DBDSN            string `mapstructure:"DB_DSN"`
	Environment      string `mapstructure:"ENV"`
	HTTPAddr         string `mapstructure:"HTTP_ADDR"`
	MigrationsPath   string `mapstructure:"MIGRATIONS_PATH"`
	AvailabilityFile string `mapstructure:"AVAILABILITY_FILE"`
	HolidayCacheSize int    `mapstructure:"HOLIDAY_CACHE_SIZE"`
}

func Load() (*Config, error) {
	// Пытаемся загрузить .env файл (игнорируем ошибку, если файла нет)
	if err := godotenv.Load(".env"); err != nil {
		log.Println("⚠️  No .env file found, using environment variables")
	} else {
		log.Println("✅ Loaded configuration from .env file")
	}

	return FromEnv(os.Getenv)
}

// FromEnv собирает конфигурацию из функции чтения переменных окружения
func FromEnv(getenv func(string) string) (*Config, error) {
	cfg := &Config{
		DBDSN:            getenv("DB_DSN"),
		TelegramToken:    getenv("TELEGRAM_TOKEN"),
		Environment:      getenv("ENV"),
		HTTPAddr:         getenv("HTTP_ADDR"),
		MigrationsPath:   getenv("MIGRATIONS_PATH"),
		AvailabilityFile: getenv("AVAILABILITY_FILE"),
		HolidayCacheSize: defaultHolidayCacheSize,
	}

	// Устанавливаем дефолтные значения
	if cfg.Environment == "" {
		cfg.Environment = "development"
	}
	if cfg.HTTPAddr == "" {
		cfg.HTTPAddr = defaultHTTPAddr
	}
	if cfg.MigrationsPath == "" {
		cfg.MigrationsPath = defaultMigrationsPath
	}
	if cfg.AvailabilityFile == "" {
		cfg.AvailabilityFile = defaultAvailabilityFile
	}
	if raw := getenv("HOLIDAY_CACHE_SIZE"); raw != "" {
		size, err := strconv.Atoi(raw)
		if err != nil || size <= 0 {
			return nil, fmt.Errorf("HOLIDAY_CACHE_SIZE must be a positive integer, got %q", raw)
		}
		cfg.HolidayCacheSize = size
	}

	// Проверяем обязательные поля
	if cfg.DBDSN == "" {
		return nil, fmt.Errorf("DB_DSN is required but not set")
	}

	return cfg, nil
}

// BotEnabled возвращает true, если задан токен бота
func (c *Config) BotEnabled() bool {
	return c.TelegramToken != ""
}

// LoadAvailability читает настройки доступности из YAML. Отсутствующий файл -
// настройки по умолчанию, незаданные поля тоже берутся из умолчаний.
func LoadAvailability(path string) (model.AvailabilitySettings, error) {
	settings := model.DefaultAvailabilitySettings()

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return settings, nil
		}
		return model.AvailabilitySettings{}, fmt.Errorf("read availability file: %w", err)
	}

	if err := yaml.Unmarshal(data, &settings); err != nil {
		return model.AvailabilitySettings{}, fmt.Errorf("parse availability file %s: %w", path, err)
	}

	if err := settings.Validate(); err != nil {
		return model.AvailabilitySettings{}, fmt.Errorf("availability file %s: %w", path, err)
	}

	return settings, nil
}
