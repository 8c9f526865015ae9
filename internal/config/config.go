package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

// Config defines server configuration.
type Config struct {
	Server   ServerConfig   `yaml:"server"`
	DB       DBConfig       `yaml:"db"`
	Log      LogConfig      `yaml:"log"`
	Oracle   OracleConfig   `yaml:"oracle"`
	Pipeline PipelineConfig `yaml:"pipeline"`
	Ledger   LedgerConfig   `yaml:"ledger"`
}

type ServerConfig struct {
	Host string `yaml:"host"`
	Port int    `yaml:"port"`
}

type DBConfig struct {
	Path string `yaml:"path"`
}

type LogConfig struct {
	Level string `yaml:"level"`
}

// OracleConfig points at the chat-completions endpoint used for duplicate
// judgments and validity scoring. An empty endpoint runs the server with a
// scripted oracle, which treats every ambiguous pair as a different issue.
type OracleConfig struct {
	Endpoint   string        `yaml:"endpoint"`
	APIKey     string        `yaml:"api_key"`
	Model      string        `yaml:"model"`
	Timeout    time.Duration `yaml:"timeout"`
	MaxRetries uint          `yaml:"max_retries"`
}

type PipelineConfig struct {
	// RequireRegisteredTask rejects batches whose project id has no active
	// task in the registry.
	RequireRegisteredTask bool          `yaml:"require_registered_task"`
	LowThreshold          float64       `yaml:"low_threshold"`
	HighThreshold         float64       `yaml:"high_threshold"`
	QualityThreshold      int           `yaml:"quality_threshold"`
	RetryInterval         time.Duration `yaml:"retry_interval"`
}

// LedgerConfig seeds ledger accounts at startup so task submitters have
// funds to escrow. Keys are account ids, values are starting balances.
type LedgerConfig struct {
	Seed map[string]int64 `yaml:"seed"`
}

// Load reads configuration from an optional YAML file and environment variables.
func Load() (Config, error) {
	cfg := Config{
		Server: ServerConfig{
			Host: "0.0.0.0",
			Port: 8080,
		},
		DB: DBConfig{
			Path: "arbiter.db",
		},
		Log: LogConfig{
			Level: "info",
		},
		Oracle: OracleConfig{
			Model:      "gpt-4o-mini",
			Timeout:    30 * time.Second,
			MaxRetries: 3,
		},
		Pipeline: PipelineConfig{
			RequireRegisteredTask: true,
			LowThreshold:          40,
			HighThreshold:         85,
			QualityThreshold:      60,
			RetryInterval:         time.Minute,
		},
	}

	if path := os.Getenv("ARBITER_CONFIG_PATH"); path != "" {
		if err := loadFromFile(path, &cfg); err != nil {
			return Config{}, err
		}
	}

	if host := os.Getenv("ARBITER_SERVER_HOST"); host != "" {
		cfg.Server.Host = host
	}
	if portStr := os.Getenv("ARBITER_SERVER_PORT"); portStr != "" {
		port, err := strconv.Atoi(portStr)
		if err != nil {
			return Config{}, fmt.Errorf("invalid ARBITER_SERVER_PORT: %w", err)
		}
		cfg.Server.Port = port
	}
	if dbPath := os.Getenv("ARBITER_DB_PATH"); dbPath != "" {
		cfg.DB.Path = dbPath
	}
	if level := os.Getenv("ARBITER_LOG_LEVEL"); level != "" {
		cfg.Log.Level = level
	}
	if endpoint := os.Getenv("ARBITER_ORACLE_ENDPOINT"); endpoint != "" {
		cfg.Oracle.Endpoint = endpoint
	}
	if key := os.Getenv("ARBITER_ORACLE_API_KEY"); key != "" {
		cfg.Oracle.APIKey = key
	}
	if model := os.Getenv("ARBITER_ORACLE_MODEL"); model != "" {
		cfg.Oracle.Model = model
	}
	if reqStr := os.Getenv("ARBITER_REQUIRE_REGISTERED_TASK"); reqStr != "" {
		req, err := strconv.ParseBool(reqStr)
		if err != nil {
			return Config{}, fmt.Errorf("invalid ARBITER_REQUIRE_REGISTERED_TASK: %w", err)
		}
		cfg.Pipeline.RequireRegisteredTask = req
	}

	return cfg, nil
}

func loadFromFile(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("parse config file: %w", err)
	}
	return nil
}
