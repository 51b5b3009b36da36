package main

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/cyberescape/backend/go/internal/models"
	"github.com/cyberescape/backend/go/internal/scoring"
	"github.com/cyberescape/backend/go/internal/verification"
)

type Config struct {
	Server struct {
		Port           string   `yaml:"port"`
		AllowedOrigins []string `yaml:"allowed_origins"`
	} `yaml:"server"`
	Game   verification.Config `yaml:"game"`
	Badges []BadgeTier         `yaml:"badges"`
	Events struct {
		Enabled       bool          `yaml:"enabled"`
		NatsURL       string        `yaml:"nats_url"`
		Stream        string        `yaml:"stream"`
		SubjectPrefix string        `yaml:"subject_prefix"`
		PollInterval  time.Duration `yaml:"poll_interval"`
		BatchSize     int32         `yaml:"batch_size"`
	} `yaml:"events"`
}

type BadgeTier struct {
	Badge      string `yaml:"badge"`
	MaxSeconds int    `yaml:"max_seconds"`
}

type DatabaseConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	Database string
	SSLMode  string
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func defaultConfig() *Config {
	config := &Config{}
	config.Server.Port = "8080"
	config.Server.AllowedOrigins = []string{"*"}
	config.Game = verification.DefaultConfig()
	for _, tier := range scoring.DefaultTiers() {
		config.Badges = append(config.Badges, BadgeTier{
			Badge:      string(tier.Badge),
			MaxSeconds: tier.MaxSeconds,
		})
	}
	return config
}

func loadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	config := defaultConfig()
	if err := yaml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	return config, nil
}

func (c *Config) scoringTiers() []scoring.Tier {
	tiers := make([]scoring.Tier, len(c.Badges))
	for i, tier := range c.Badges {
		tiers[i] = scoring.Tier{
			Badge:      models.Badge(tier.Badge),
			MaxSeconds: tier.MaxSeconds,
		}
	}
	return tiers
}
