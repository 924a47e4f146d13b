package config

import (
	"errors"
	"fmt"
	"net"
	"strconv"
	"time"

	"github.com/spf13/viper"
)

const (
	RepositoryPostgres = "postgres"
	RepositoryInMemory = "inmemory"
)

type Config struct {
	Server     ServerConfig     `mapstructure:"server"`
	Service    ServiceConfig    `mapstructure:"service"`
	Database   DatabaseConfig   `mapstructure:"database"`
	Logging    LoggingConfig    `mapstructure:"logging"`
	Repository RepositoryConfig `mapstructure:"repository"`
	Worker     WorkerConfig     `mapstructure:"worker"`
}

type ServerConfig struct {
	Host            string        `mapstructure:"host"`
	Port            int           `mapstructure:"port"`
	ReadTimeout     time.Duration `mapstructure:"read_timeout"`
	WriteTimeout    time.Duration `mapstructure:"write_timeout"`
	IdleTimeout     time.Duration `mapstructure:"idle_timeout"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
}

type ServiceConfig struct {
	Name string `mapstructure:"name"`
}

type DatabaseConfig struct {
	URL            string        `mapstructure:"url"`
	MaxConnections int32         `mapstructure:"max_connections"`
	MinConnections int32         `mapstructure:"min_connections"`
	IdleTimeout    time.Duration `mapstructure:"idle_timeout"`
	ConnectTimeout time.Duration `mapstructure:"connect_timeout"`
	Migrate        bool          `mapstructure:"migrate"`
}

type LoggingConfig struct {
	Development bool `mapstructure:"development"`
}

type RepositoryConfig struct {
	Type string `mapstructure:"type"` // "postgres" или "inmemory"
}

type WorkerConfig struct {
	// 0 - монитор пула выключен
	PoolStatsInterval time.Duration `mapstructure:"pool_stats_interval"`
}

var defaults = map[string]any{
	"server.host":                "0.0.0.0",
	"server.port":                3003,
	"server.read_timeout":        15 * time.Second,
	"server.write_timeout":       15 * time.Second,
	"server.idle_timeout":        60 * time.Second,
	"server.shutdown_timeout":    10 * time.Second,
	"service.name":               "todo-api",
	"database.url":               "",
	"database.max_connections":   10,
	"database.min_connections":   2,
	"database.idle_timeout":      5 * time.Minute,
	"database.connect_timeout":   30 * time.Second,
	"database.migrate":           true,
	"logging.development":        false,
	"repository.type":            RepositoryPostgres,
	"worker.pool_stats_interval": time.Duration(0),
}

var envBindings = map[string]string{
	"server.host":                "HOST",
	"server.port":                "PORT",
	"server.read_timeout":        "SERVER_READ_TIMEOUT",
	"server.write_timeout":       "SERVER_WRITE_TIMEOUT",
	"server.idle_timeout":        "SERVER_IDLE_TIMEOUT",
	"server.shutdown_timeout":    "SERVER_SHUTDOWN_TIMEOUT",
	"service.name":               "SERVICE_NAME",
	"database.url":               "DATABASE_URL",
	"database.max_connections":   "DATABASE_MAX_CONNECTIONS",
	"database.min_connections":   "DATABASE_MIN_CONNECTIONS",
	"database.idle_timeout":      "DATABASE_IDLE_TIMEOUT",
	"database.connect_timeout":   "DATABASE_CONNECT_TIMEOUT",
	"database.migrate":           "DATABASE_MIGRATE",
	"logging.development":        "LOG_DEVELOPMENT",
	"repository.type":            "REPOSITORY_TYPE",
	"worker.pool_stats_interval": "WORKER_POOL_STATS_INTERVAL",
}

// Load читает config.yml из текущей директории, если он есть
func Load() (*Config, error) {
	return LoadFrom(".")
}

// LoadFrom: значения по умолчанию, поверх них config.yml из dir, поверх - окружение
func LoadFrom(dir string) (*Config, error) {
	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(dir)

	for key, value := range defaults {
		v.SetDefault(key, value)
	}
	for key, env := range envBindings {
		if err := v.BindEnv(key, env); err != nil {
			return nil, fmt.Errorf("привязка %s: %w", env, err)
		}
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("ошибка парсинга config.yml: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("разбор конфигурации: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) Validate() error {
	switch c.Repository.Type {
	case RepositoryPostgres:
		if c.Database.URL == "" {
			return errors.New("конфигурация: DATABASE_URL обязателен для postgres")
		}
	case RepositoryInMemory:
	default:
		return fmt.Errorf("конфигурация: неизвестный тип репозитория %q", c.Repository.Type)
	}

	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("конфигурация: неверный порт %d", c.Server.Port)
	}
	return nil
}

func (c *Config) GetServerAddr() string {
	return net.JoinHostPort(c.Server.Host, strconv.Itoa(c.Server.Port))
}
