package config

import (
	"fmt"
	"net"
	"net/url"
	"time"

	"github.com/caarlos0/env/v6"
)

const (
	StoragePostgres = "postgres"
	StorageMemory   = "memory"
)

type Config struct {
	ServerAddress   string        `env:"SERVER_ADDRESS" envDefault:"0.0.0.0:8080"`
	LogLevel        string        `env:"LOG_LEVEL" envDefault:"info"`
	Storage         string        `env:"STORAGE" envDefault:"postgres"`
	ReadTimeout     time.Duration `env:"READ_TIMEOUT" envDefault:"30s"`
	WriteTimeout    time.Duration `env:"WRITE_TIMEOUT" envDefault:"30s"`
	ShutdownTimeout time.Duration `env:"SHUTDOWN_TIMEOUT" envDefault:"10s"`
	PostgresConfig
}

func NewConfig() (*Config, error) {
	config := &Config{}

	if err := env.Parse(config); err != nil {
		return nil, fmt.Errorf("config.NewConfig: %w", err)
	}
	if config.Storage != StoragePostgres && config.Storage != StorageMemory {
		return nil, fmt.Errorf("config.NewConfig: unknown STORAGE %q", config.Storage)
	}
	return config, nil
}

type PostgresConfig struct {
	Conn         string `env:"POSTGRES_CONN"`
	Host         string `env:"POSTGRES_HOST" envDefault:"localhost"`
	Port         string `env:"POSTGRES_PORT" envDefault:"5432"`
	Username     string `env:"POSTGRES_USERNAME" envDefault:"postgres"`
	Password     string `env:"POSTGRES_PASSWORD"`
	Database     string `env:"POSTGRES_DATABASE" envDefault:"postgres"`
	MaxOpenConns int    `env:"POSTGRES_MAX_OPEN_CONNS" envDefault:"20"`
	MaxIdleConns int    `env:"POSTGRES_MAX_IDLE_CONNS" envDefault:"5"`
	AutoMigrate  bool   `env:"AUTO_MIGRATE" envDefault:"true"`
}

// DSN возвращает POSTGRES_CONN, если он задан, иначе собирает строку из частей.
func (c PostgresConfig) DSN() string {
	if c.Conn != "" {
		return c.Conn
	}
	u := url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(c.Username, c.Password),
		Host:     net.JoinHostPort(c.Host, c.Port),
		Path:     "/" + c.Database,
		RawQuery: "sslmode=disable",
	}
	return u.String()
}
