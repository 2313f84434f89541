package engine

import (
	"fmt"

	"notquiteparadise/internal/domain"
	"notquiteparadise/internal/event"
	"notquiteparadise/pkg/logger"

	"github.com/caarlos0/env/v11"
)

// Config - параметры симуляции. Читаются из окружения, флаги main.go
// могут их переопределить.
type Config struct {
	// Seed 0 - сгенерировать случайно.
	Seed             int64 `env:"SIM_SEED" envDefault:"0"`
	ActivationRadius int   `env:"SIM_ACTIVATION_RADIUS" envDefault:"12"`
	MaxDispatchDepth int   `env:"SIM_MAX_DISPATCH_DEPTH" envDefault:"64"`
	RoundLength      int   `env:"SIM_ROUND_LENGTH" envDefault:"100"`
	MaxAITurns       int   `env:"SIM_MAX_AI_TURNS" envDefault:"1000"`
	MapWidth         int   `env:"SIM_MAP_WIDTH" envDefault:"40"`
	MapHeight        int   `env:"SIM_MAP_HEIGHT" envDefault:"25"`

	SnapshotPath string `env:"SIM_SNAPSHOT_PATH" envDefault:"notquiteparadise.db"`
	Port         string `env:"PORT" envDefault:"8080"`

	Log logger.Options
}

// NewConfig возвращает значения по умолчанию (для тестов и встраивания).
func NewConfig() Config {
	return Config{
		ActivationRadius: domain.DefaultActivationRadius,
		MaxDispatchDepth: event.DefaultMaxDepth,
		RoundLength:      100,
		MaxAITurns:       1000,
		MapWidth:         40,
		MapHeight:        25,
		SnapshotPath:     "notquiteparadise.db",
		Port:             "8080",
		Log:              logger.Options{Level: "info", Format: "text"},
	}
}

// LoadConfig читает конфигурацию из переменных окружения.
func LoadConfig() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse config: %w", err)
	}
	if cfg.RoundLength <= 0 {
		return Config{}, fmt.Errorf("SIM_ROUND_LENGTH must be positive, got %d", cfg.RoundLength)
	}
	return cfg, nil
}
