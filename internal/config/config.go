// Package config loads service configuration from an optional YAML file with
// environment overrides on top.
package config

import (
	"fmt"
	"os"

	"github.com/spf13/cast"
	"gopkg.in/yaml.v3"

	"ShriHariStore/internal/contact"
)

type Server struct {
	Port string `yaml:"port"`
}

type Storage struct {
	// Driver selects the key-value backend: bolt, postgres or memory.
	Driver     string `yaml:"driver"`
	Path       string `yaml:"path"`
	DSN        string `yaml:"dsn"`
	QuotaBytes int64  `yaml:"quota_bytes"`
}

type Catalog struct {
	MaxProducts int `yaml:"max_products"`
}

type Auth struct {
	Username     string `yaml:"username"`
	Password     string `yaml:"password"`
	SessionHours int    `yaml:"session_hours"`
	JWTSecret    string `yaml:"jwt_secret"`
}

type Logger struct {
	FileEnable bool   `yaml:"file_enable"`
	Filename   string `yaml:"filename"`
}

type Metrics struct {
	Enabled bool   `yaml:"enabled"`
	Token   string `yaml:"token"`
}

type Sweep struct {
	// Schedule is a cron expression for the orphan image sweep; empty
	// disables it.
	Schedule string `yaml:"schedule"`
}

type Config struct {
	Server   Server               `yaml:"server"`
	Storage  Storage              `yaml:"storage"`
	Catalog  Catalog              `yaml:"catalog"`
	Auth     Auth                 `yaml:"auth"`
	Business contact.BusinessInfo `yaml:"business"`
	Logger   Logger               `yaml:"logger"`
	Metrics  Metrics              `yaml:"metrics"`
	Sweep    Sweep                `yaml:"sweep"`
}

func Default() Config {
	var c Config
	c.Server.Port = "8080"
	c.Storage.Driver = "bolt"
	c.Storage.Path = "shrihari.db"
	c.Catalog.MaxProducts = 2000
	c.Auth.Username = "admin"
	c.Auth.Password = "shrihari2024"
	c.Auth.SessionHours = 24
	c.Auth.JWTSecret = "dev-secret"
	c.Business = contact.BusinessInfo{
		Name:           "Shri Hari Collections",
		WhatsAppNumber: "+918816831181",
		Email:          "contact@shrihari.example",
	}
	c.Sweep.Schedule = "@hourly"
	return c
}

// Load starts from defaults, merges the YAML file when path is non-empty,
// then applies environment overrides.
func Load(path string) (Config, error) {
	c := Default()

	if path != "" {
		raw, err := os.ReadFile(path)
		if err != nil {
			return Config{}, fmt.Errorf("read config: %w", err)
		}
		if err := yaml.Unmarshal(raw, &c); err != nil {
			return Config{}, fmt.Errorf("parse config: %w", err)
		}
	}

	c.applyEnv()
	return c, nil
}

func (c *Config) applyEnv() {
	setStr(&c.Server.Port, "PORT")
	setStr(&c.Storage.Driver, "STORAGE_DRIVER")
	setStr(&c.Storage.Path, "STORAGE_PATH")
	setStr(&c.Storage.DSN, "DATABASE_URL")
	setInt64(&c.Storage.QuotaBytes, "STORAGE_QUOTA_BYTES")
	setInt(&c.Catalog.MaxProducts, "CATALOG_MAX_PRODUCTS")
	setStr(&c.Auth.Username, "ADMIN_USERNAME")
	setStr(&c.Auth.Password, "ADMIN_PASSWORD")
	setInt(&c.Auth.SessionHours, "SESSION_HOURS")
	setStr(&c.Auth.JWTSecret, "JWT_SECRET")
	setStr(&c.Metrics.Token, "METRICS_TOKEN")
	setBool(&c.Metrics.Enabled, "METRICS_ENABLED")
	setStr(&c.Sweep.Schedule, "SWEEP_SCHEDULE")
	setStr(&c.Logger.Filename, "LOG_FILE")
	if c.Logger.Filename != "" && os.Getenv("LOG_FILE") != "" {
		c.Logger.FileEnable = true
	}
}

func setStr(dst *string, key string) {
	if v := os.Getenv(key); v != "" {
		*dst = v
	}
}

func setInt(dst *int, key string) {
	if v := os.Getenv(key); v != "" {
		*dst = cast.ToInt(v)
	}
}

func setInt64(dst *int64, key string) {
	if v := os.Getenv(key); v != "" {
		*dst = cast.ToInt64(v)
	}
}

func setBool(dst *bool, key string) {
	if v := os.Getenv(key); v != "" {
		*dst = cast.ToBool(v)
	}
}
