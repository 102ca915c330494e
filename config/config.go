package config

import (
	"errors"
	"os"
	"strconv"
	"sync"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

type ServerConfig struct {
	Port           string   `yaml:"port" json:"port"`
	AllowedOrigins []string `yaml:"allowedOrigins" json:"allowedOrigins"`
}

type DatabaseConfig struct {
	Path string `yaml:"path" json:"path"`
}

type AuthConfig struct {
	JWTSecret     string `yaml:"-" json:"-"`
	TokenTTLHours int    `yaml:"tokenTTLHours" json:"tokenTTLHours"`
}

type StockConfig struct {
	AllowNegative     bool    `yaml:"allowNegative" json:"allowNegative"`
	LowStockThreshold float64 `yaml:"lowStockThreshold" json:"lowStockThreshold"`
}

type NotifyConfig struct {
	RelayURL string `yaml:"relayURL" json:"relayURL"`
}

type Config struct {
	Server   ServerConfig   `yaml:"server" json:"server"`
	Database DatabaseConfig `yaml:"database" json:"database"`
	Auth     AuthConfig     `yaml:"auth" json:"auth"`
	Stock    StockConfig    `yaml:"stock" json:"stock"`
	Notify   NotifyConfig   `yaml:"notify" json:"notify"`
}

var (
	cfg  = Default()
	mu   sync.RWMutex
	path = "./doceria.yaml"

	// file holds the settings as written on disk, before env overrides.
	file = Default()
)

// Default returns the configuration used when no file exists.
func Default() Config {
	return Config{
		Server:   ServerConfig{Port: "8080", AllowedOrigins: []string{"*"}},
		Database: DatabaseConfig{Path: "./doceria.db"},
		Auth:     AuthConfig{TokenTTLHours: 24},
		Stock:    StockConfig{AllowNegative: true, LowStockThreshold: 10},
	}
}

// SetPath changes the file LoadConfig and SaveConfig operate on.
func SetPath(p string) {
	mu.Lock()
	defer mu.Unlock()
	path = p
}

// LoadEnv reads an optional .env file into the process environment.
func LoadEnv(files ...string) error {
	err := godotenv.Load(files...)
	if err != nil && errors.Is(err, os.ErrNotExist) {
		return nil
	}
	return err
}

func LoadConfig() (Config, error) {
	mu.Lock()
	defer mu.Unlock()

	next := Default()
	raw, err := os.ReadFile(path)
	if err != nil && !os.IsNotExist(err) {
		return Config{}, err
	}
	if err == nil {
		if err := yaml.Unmarshal(raw, &next); err != nil {
			return Config{}, err
		}
	}
	applyDefaults(&next)
	file = next
	applyEnv(&next)
	applyDefaults(&next)
	cfg = next
	return cfg, nil
}

// SaveConfig writes newCfg to disk. Fields set through the environment keep
// their file value on disk and their env value in memory.
func SaveConfig(newCfg Config) error {
	mu.Lock()
	defer mu.Unlock()

	onDisk := newCfg
	keepFileValues(&onDisk, file)
	applyDefaults(&onDisk)

	raw, err := yaml.Marshal(onDisk)
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, raw, 0644); err != nil {
		return err
	}
	file = onDisk

	newCfg.Auth.JWTSecret = cfg.Auth.JWTSecret
	applyEnv(&newCfg)
	applyDefaults(&newCfg)
	cfg = newCfg
	return nil
}

func GetConfig() Config {
	mu.RLock()
	defer mu.RUnlock()
	return cfg
}

// Set replaces the in-memory configuration without touching disk.
func Set(c Config) {
	mu.Lock()
	defer mu.Unlock()
	applyDefaults(&c)
	cfg = c
}

func (c Config) TokenTTL() time.Duration {
	return time.Duration(c.Auth.TokenTTLHours) * time.Hour
}

const envAllowNegative = "DOCERIA_ALLOW_NEGATIVE_STOCK"

var envStrings = []struct {
	key   string
	field func(*Config) *string
}{
	{"DOCERIA_DB_PATH", func(c *Config) *string { return &c.Database.Path }},
	{"DOCERIA_PORT", func(c *Config) *string { return &c.Server.Port }},
	{"DOCERIA_JWT_SECRET", func(c *Config) *string { return &c.Auth.JWTSecret }},
	{"DOCERIA_PUSH_RELAY_URL", func(c *Config) *string { return &c.Notify.RelayURL }},
}

func applyEnv(c *Config) {
	for _, e := range envStrings {
		f := e.field(c)
		*f = getEnv(e.key, *f)
	}
	if b, ok := envBool(envAllowNegative); ok {
		c.Stock.AllowNegative = b
	}
}

// keepFileValues copies from src every field the environment overrides.
func keepFileValues(dst *Config, src Config) {
	for _, e := range envStrings {
		if os.Getenv(e.key) != "" {
			*e.field(dst) = *e.field(&src)
		}
	}
	if _, ok := envBool(envAllowNegative); ok {
		dst.Stock.AllowNegative = src.Stock.AllowNegative
	}
}

func envBool(key string) (bool, bool) {
	v := os.Getenv(key)
	if v == "" {
		return false, false
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return false, false
	}
	return b, true
}

func applyDefaults(c *Config) {
	if c.Server.Port == "" {
		c.Server.Port = "8080"
	}
	if c.Database.Path == "" {
		c.Database.Path = "./doceria.db"
	}
	if c.Auth.TokenTTLHours <= 0 {
		c.Auth.TokenTTLHours = 24
	}
	if c.Stock.LowStockThreshold <= 0 {
		c.Stock.LowStockThreshold = 10
	}
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok && value != "" {
		return value
	}
	return fallback
}
