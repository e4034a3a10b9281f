package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"
)

const (
	BackendMemory   = "memory"
	BackendPostgres = "postgres"
)

type GRPC struct {
	Addr string `yaml:"addr"`
}

type HTTP struct {
	Addr string `yaml:"addr"`
}

type Logging struct {
	Env       string `yaml:"env"`       // dev|prod
	Service   string `yaml:"service"`   // draw-service
	Version   string `yaml:"version"`   // v0.1.0
	Backend   string `yaml:"backend"`   // std|zap
	AddSource bool   `yaml:"addSource"` // false|true
	Debug     bool   `yaml:"debug"`     // false|true
}

type Store struct {
	Backend  string `yaml:"backend"` // memory|postgres
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	Database string `yaml:"database"`
}

type Config struct {
	HTTP    HTTP    `yaml:"http"`
	GRPC    GRPC    `yaml:"grpc"`
	Logging Logging `yaml:"logging"`
	Store   Store   `yaml:"store"`
}

func LoadConfig() (*Config, error) {
	path := os.Getenv("CONFIG_PATH")
	if path == "" {
		path = "./config/config.yaml"
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}
	cfg.applyEnv()
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// applyEnv — переменные окружения выигрывают у yaml (адрес store в
// деплое задаёт оркестратор).
func (c *Config) applyEnv() {
	if v := os.Getenv("STORE_HOST"); v != "" {
		c.Store.Host = v
	}
	if v := os.Getenv("STORE_PORT"); v != "" {
		if p, err := strconv.Atoi(v); err == nil && p > 0 {
			c.Store.Port = p
		}
	}
}

func (c *Config) validate() error {
	if c.HTTP.Addr == "" {
		return errors.New("http.addr is required")
	}
	if c.GRPC.Addr == "" {
		return errors.New("grpc.addr is required")
	}
	// установка дефолтов, если значения не указаны
	if c.Logging.Service == "" {
		c.Logging.Service = "draw-service"
	}
	if c.Logging.Env == "" {
		c.Logging.Env = "dev"
	}
	if c.Logging.Version == "" {
		c.Logging.Version = "v0.1.0"
	}
	if c.Logging.Backend == "" {
		c.Logging.Backend = "std"
	}
	if c.Store.Backend == "" {
		c.Store.Backend = BackendMemory
	}
	if c.Store.Backend != BackendMemory && c.Store.Backend != BackendPostgres {
		return fmt.Errorf("store.backend must be %q or %q", BackendMemory, BackendPostgres)
	}
	if c.Store.Host == "" {
		c.Store.Host = "localhost"
	}
	if c.Store.Port == 0 {
		c.Store.Port = 5432
	}
	if c.Store.User == "" {
		c.Store.User = "draw"
	}
	if c.Store.Database == "" {
		c.Store.Database = "draw"
	}
	return nil
}

// DSN собирает строку подключения для postgres-бэкенда store.
func (s Store) DSN() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s",
		s.User, s.Password, s.Host, s.Port, s.Database)
}
