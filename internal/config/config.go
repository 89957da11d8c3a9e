// Package config предоставляет структуры и функцию для парсинга и загрузки конфига агента.
package config

import (
	"log"
	"os"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

// Config общая структура для хранения настроек агента.
type Config struct {
	Env     string `yaml:"env" env-default:"local"`
	Backend `yaml:"backend"`
	Poller  `yaml:"poller"`
	Storage `yaml:"storage"`
	Ops     `yaml:"ops"`
}

// Backend структура для настройки подключения к бэкенду LegalTrack.
type Backend struct {
	BaseURL    string        `yaml:"base_url" env:"BACKEND_BASE_URL" env-required:"true"`
	Timeout    time.Duration `yaml:"timeout" env-default:"10s"`
	RatePerSec float64       `yaml:"rate_per_sec" env-default:"5"`
	RateBurst  int           `yaml:"rate_burst" env-default:"10"`
}

// Poller структура для настройки периодического обновления данных.
type Poller struct {
	Interval time.Duration `yaml:"interval" env-default:"60s"`
}

// Storage структура для настройки локального key/value-хранилища сессии.
type Storage struct {
	Path string `yaml:"path" env-default:"legaltrack.db"`
}

// Ops структура для настройки служебного HTTP-сервера (метрики, health).
type Ops struct {
	Address string `yaml:"address" env-default:"localhost:9090"`
}

// MustLoad функция для загрузки конфига, путь к файлу берётся из CONFIG_PATH.
func MustLoad() *Config {
	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		log.Fatal("CONFIG_PATH is not set")
	}
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		log.Fatalf("file: %s - does not exist", configPath)
	}
	var cfg Config

	if err := cleanenv.ReadConfig(configPath, &cfg); err != nil {
		log.Fatalf("cannot read config: %s", err)
	}
	return &cfg
}
