package config

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Environment string
	LogLevel    slog.Level

	SpecPath     string
	DataDir      string
	MastersDir   string
	LoadOrder    string
	ContractPath string
	RedisURL     string
	AutoDiscover bool

	// Targets are explicit merge targets ("Skyrim.esm|0009AF0A").
	Targets []string
}

// fileConfig is the optional YAML overlay named by AFFIX_CONFIG.
type fileConfig struct {
	Environment  string   `yaml:"environment"`
	LogLevel     string   `yaml:"logLevel"`
	Spec         string   `yaml:"spec"`
	DataDir      string   `yaml:"dataDir"`
	Masters      string   `yaml:"masters"`
	LoadOrder    string   `yaml:"loadOrder"`
	Contract     string   `yaml:"contract"`
	RedisURL     string   `yaml:"redisUrl"`
	AutoDiscover *bool    `yaml:"autoDiscover"`
	Targets      []string `yaml:"targets"`
}

// Load reads configuration from the environment, then applies the YAML file
// named by AFFIX_CONFIG when it is set.
func Load() (*Config, error) {
	cfg := &Config{
		Environment:  getEnv("ENVIRONMENT", "development"),
		LogLevel:     parseLogLevel(getEnv("LOG_LEVEL", "info")),
		SpecPath:     getEnv("AFFIX_SPEC", "affixes/affixes.json"),
		DataDir:      getEnv("AFFIX_DATA_DIR", "Data"),
		MastersDir:   getEnv("AFFIX_MASTERS_DIR", ""),
		LoadOrder:    getEnv("AFFIX_LOAD_ORDER", ""),
		ContractPath: getEnv("AFFIX_CONTRACT", ""),
		RedisURL:     getEnv("REDIS_URL", ""),
		AutoDiscover: getEnvBool("AFFIX_AUTO_DISCOVER", true),
	}

	if path := os.Getenv("AFFIX_CONFIG"); path != "" {
		if err := cfg.applyFile(path); err != nil {
			return nil, err
		}
	}
	return cfg, nil
}

func (c *Config) applyFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config file: %w", err)
	}
	var fc fileConfig
	if err := yaml.Unmarshal(data, &fc); err != nil {
		return fmt.Errorf("failed to parse config file %s: %w", path, err)
	}

	set := func(dst *string, v string) {
		if v != "" {
			*dst = v
		}
	}
	set(&c.Environment, fc.Environment)
	set(&c.SpecPath, fc.Spec)
	set(&c.DataDir, fc.DataDir)
	set(&c.MastersDir, fc.Masters)
	set(&c.LoadOrder, fc.LoadOrder)
	set(&c.ContractPath, fc.Contract)
	set(&c.RedisURL, fc.RedisURL)
	if fc.LogLevel != "" {
		c.LogLevel = parseLogLevel(fc.LogLevel)
	}
	if fc.AutoDiscover != nil {
		c.AutoDiscover = *fc.AutoDiscover
	}
	if len(fc.Targets) > 0 {
		c.Targets = fc.Targets
	}
	return nil
}

func parseLogLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if b, err := strconv.ParseBool(value); err == nil {
			return b
		}
	}
	return defaultValue
}
