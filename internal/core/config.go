package core

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"strconv"

	"github.com/jo-hoe/similarity-game/internal/backend/database"
	"gopkg.in/yaml.v3"
)

const (
	DefaultPort             = 8000
	DefaultDatabaseType     = database.TypeSQLite
	DefaultConnectionString = "db/similarity_game.db"
)

type Database struct {
	Type             string `yaml:"type"`
	ConnectionString string `yaml:"connectionString"`
	KeyPrefix        string `yaml:"keyPrefix"`
}

// CORSConfig controls cross-origin access. Empty lists fall back to permissive
// development defaults.
type CORSConfig struct {
	AllowOrigins     []string `yaml:"allowOrigins"`
	AllowMethods     []string `yaml:"allowMethods"`
	AllowHeaders     []string `yaml:"allowHeaders"`
	AllowCredentials bool     `yaml:"allowCredentials"`
}

// SeedPair is a pair inserted on startup into an empty store.
type SeedPair struct {
	Img1       string `yaml:"img1"`
	Img2       string `yaml:"img2"`
	Similarity int    `yaml:"similarity"`
}

type ServiceConfig struct {
	Port      int        `yaml:"port"`
	Database  Database   `yaml:"database"`
	CORS      CORSConfig `yaml:"cors"`
	SeedPairs []SeedPair `yaml:"seedPairs"`
}

// DefaultConfig returns the configuration used when no file is present.
func DefaultConfig() *ServiceConfig {
	config := baseConfig()
	applyDefaults(config)
	return config
}

// baseConfig holds the defaults that do not depend on other values.
func baseConfig() *ServiceConfig {
	return &ServiceConfig{
		Port: DefaultPort,
		Database: Database{
			Type: DefaultDatabaseType,
		},
		CORS: CORSConfig{
			AllowOrigins: []string{"*"},
			AllowHeaders: []string{"*"},
		},
	}
}

// LoadConfig loads configuration from the specified YAML file. A missing file
// yields the defaults. Environment variables PORT, DATABASE_TYPE and
// DATABASE_CONNECTION_STRING take precedence over file values.
func LoadConfig(configPath string) (*ServiceConfig, error) {
	config := baseConfig()

	data, err := os.ReadFile(configPath)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		slog.Info("config file not found, using defaults", "path", configPath)
	case err != nil:
		return nil, fmt.Errorf("failed to read config file %s: %w", configPath, err)
	default:
		if err := yaml.Unmarshal(data, config); err != nil {
			return nil, fmt.Errorf("failed to parse config file %s: %w", configPath, err)
		}
	}

	if err := applyEnvOverrides(config); err != nil {
		return nil, err
	}
	applyDefaults(config)

	if err := validateConfig(config); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return config, nil
}

func applyEnvOverrides(config *ServiceConfig) error {
	if value := os.Getenv("PORT"); value != "" {
		port, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("invalid PORT %q: %w", value, err)
		}
		config.Port = port
	}
	if value := os.Getenv("DATABASE_TYPE"); value != "" {
		config.Database.Type = value
	}
	if value := os.Getenv("DATABASE_CONNECTION_STRING"); value != "" {
		config.Database.ConnectionString = value
	}
	return nil
}

// applyDefaults fills values a partial config file left empty.
func applyDefaults(config *ServiceConfig) {
	if config.Port == 0 {
		config.Port = DefaultPort
	}
	if config.Database.Type == "" {
		config.Database.Type = DefaultDatabaseType
	}
	if config.Database.ConnectionString == "" && config.Database.Type == database.TypeSQLite {
		config.Database.ConnectionString = DefaultConnectionString
	}
}

func validateConfig(config *ServiceConfig) error {
	if config.Port < 1 || config.Port > 65535 {
		return fmt.Errorf("port %d out of range", config.Port)
	}

	switch config.Database.Type {
	case database.TypeSQLite, database.TypeMemory:
	case database.TypeRedis:
		if config.Database.ConnectionString == "" {
			return errors.New("redis database requires a connectionString")
		}
	default:
		return fmt.Errorf("unsupported database type: %s", config.Database.Type)
	}

	return validateSeedPairs(config.SeedPairs)
}

// validateSeedPairs ensures all seed entries reference two images
func validateSeedPairs(seeds []SeedPair) error {
	for i, seed := range seeds {
		if seed.Img1 == "" || seed.Img2 == "" {
			return fmt.Errorf("seed pair at index %d is missing an image", i)
		}
	}
	return nil
}
