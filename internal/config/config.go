package config

import (
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

type Config struct {
	Server    ServerConfig    `yaml:"server"`
	Backend   BackendConfig   `yaml:"backend"`
	Dashboard DashboardConfig `yaml:"dashboard"`
	Session   SessionConfig   `yaml:"session"`
}

type ServerConfig struct {
	Port         string        `yaml:"port"`
	Env          string        `yaml:"env"`
	ReadTimeout  time.Duration `yaml:"read_timeout"`
	WriteTimeout time.Duration `yaml:"write_timeout"`
	MaxBodySize  int           `yaml:"max_body_size"`
}

type BackendConfig struct {
	URL           string `yaml:"url"`
	SessionCookie string `yaml:"session_cookie"`
	ReauthURL     string `yaml:"reauth_url"`
}

type DashboardConfig struct {
	DefaultDaysFilter int   `yaml:"default_days_filter"`
	DaysFilterOptions []int `yaml:"days_filter_options"`
}

type SessionConfig struct {
	TTL           time.Duration `yaml:"ttl"`
	SweepInterval time.Duration `yaml:"sweep_interval"`
}

// Load reads .env, then the optional YAML file, then the environment.
// Later sources win.
func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found. Using default values.")
	}

	cfg := Defaults()

	path := getEnv("CONFIG_FILE", "configs/config.yaml")
	if err := loadFile(path, cfg); err != nil {
		log.Printf("⚠️  Could not read %s: %v\n", path, err)
	}

	applyEnv(cfg)
	cfg.normalize()
	return cfg
}

func Defaults() *Config {
	return &Config{
		Server: ServerConfig{
			Port:         "3000",
			Env:          "development",
			ReadTimeout:  30 * time.Second,
			WriteTimeout: 10 * time.Minute,
			MaxBodySize:  4 << 20,
		},
		Backend: BackendConfig{
			URL:           "http://localhost:5000",
			SessionCookie: "session",
		},
		Dashboard: DashboardConfig{
			DefaultDaysFilter: 30,
			DaysFilterOptions: []int{7, 14, 30, 60, 90},
		},
		Session: SessionConfig{
			TTL:           24 * time.Hour,
			SweepInterval: 10 * time.Minute,
		},
	}
}

func loadFile(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	return yaml.Unmarshal(data, cfg)
}

func applyEnv(cfg *Config) {
	cfg.Server.Port = getEnv("PORT", cfg.Server.Port)
	cfg.Server.Env = getEnv("ENV", cfg.Server.Env)
	cfg.Server.ReadTimeout = getEnvAsDuration("SERVER_READ_TIMEOUT", cfg.Server.ReadTimeout)
	cfg.Server.WriteTimeout = getEnvAsDuration("SERVER_WRITE_TIMEOUT", cfg.Server.WriteTimeout)
	cfg.Server.MaxBodySize = getEnvAsInt("MAX_BODY_SIZE", cfg.Server.MaxBodySize)

	cfg.Backend.URL = getEnv("BACKEND_URL", cfg.Backend.URL)
	cfg.Backend.SessionCookie = getEnv("BACKEND_SESSION_COOKIE", cfg.Backend.SessionCookie)
	cfg.Backend.ReauthURL = getEnv("REAUTH_URL", cfg.Backend.ReauthURL)

	cfg.Dashboard.DefaultDaysFilter = getEnvAsInt("DEFAULT_DAYS_FILTER", cfg.Dashboard.DefaultDaysFilter)
	cfg.Dashboard.DaysFilterOptions = getEnvAsIntList("DAYS_FILTER_OPTIONS", cfg.Dashboard.DaysFilterOptions)

	cfg.Session.TTL = getEnvAsDuration("SESSION_TTL", cfg.Session.TTL)
	cfg.Session.SweepInterval = getEnvAsDuration("SESSION_SWEEP_INTERVAL", cfg.Session.SweepInterval)
}

func (c *Config) normalize() {
	c.Backend.URL = strings.TrimRight(c.Backend.URL, "/")
	if c.Backend.ReauthURL == "" {
		c.Backend.ReauthURL = c.Backend.URL + "/authenticate"
	}
	if c.Dashboard.DefaultDaysFilter <= 0 {
		c.Dashboard.DefaultDaysFilter = 30
	}

	// The default must always be selectable.
	found := false
	for _, d := range c.Dashboard.DaysFilterOptions {
		if d == c.Dashboard.DefaultDaysFilter {
			found = true
			break
		}
	}
	if !found {
		c.Dashboard.DaysFilterOptions = append(c.Dashboard.DaysFilterOptions, c.Dashboard.DefaultDaysFilter)
	}
}

// IsDevelopment reports whether the server runs with development defaults.
func (c *Config) IsDevelopment() bool {
	return c.Server.Env == "development"
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr := getEnv(key, "")
	if value, err := strconv.Atoi(valueStr); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	valueStr := getEnv(key, "")
	if duration, err := time.ParseDuration(valueStr); err == nil {
		return duration
	}
	return defaultValue
}

func getEnvAsIntList(key string, defaultValue []int) []int {
	valueStr := getEnv(key, "")
	if valueStr == "" {
		return defaultValue
	}

	var values []int
	for _, part := range strings.Split(valueStr, ",") {
		v, err := strconv.Atoi(strings.TrimSpace(part))
		if err != nil || v <= 0 {
			log.Printf("⚠️  Ignoring invalid %s entry %q\n", key, part)
			continue
		}
		values = append(values, v)
	}
	if len(values) == 0 {
		return defaultValue
	}
	return values
}
