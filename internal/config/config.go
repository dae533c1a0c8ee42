// Package config loads application configuration from environment
// variables and an optional config file.
package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

// Config holds all runtime settings, including the feature flags that
// drive the volunteer workflow and task state machine.
type Config struct {
	Port          string `mapstructure:"PORT"`
	GinMode       string `mapstructure:"GIN_MODE"`
	DBHost        string `mapstructure:"DB_HOST"`
	DBPort        string `mapstructure:"DB_PORT"`
	DBUser        string `mapstructure:"DB_USER"`
	DBPassword    string `mapstructure:"DB_PASSWORD"`
	DBName        string `mapstructure:"DB_NAME"`
	DBSSLMode     string `mapstructure:"DB_SSLMODE"`
	RedisHost     string `mapstructure:"REDIS_HOST"`
	RedisPort     string `mapstructure:"REDIS_PORT"`
	SessionSecret string `mapstructure:"SESSION_SECRET"`

	// TaskStates is the comma-separated enumerated list of valid task states.
	TaskStates string `mapstructure:"TASK_STATES"`
	// DraftAdminOnly restricts the draft state to administrators, both at
	// creation and via direct state changes.
	DraftAdminOnly bool `mapstructure:"DRAFT_ADMIN_ONLY"`
	// CopyTaskState is the state a copied task starts in.
	CopyTaskState string `mapstructure:"COPY_TASK_STATE"`

	AgencyRequired     bool `mapstructure:"AGENCY_REQUIRED"`
	LocationRequired   bool `mapstructure:"LOCATION_REQUIRED"`
	UseSupervisorEmail bool `mapstructure:"USE_SUPERVISOR_EMAIL"`

	// ValidateDomains turns on the signup mail-domain whitelist.
	ValidateDomains bool   `mapstructure:"VALIDATE_DOMAINS"`
	Domains         string `mapstructure:"DOMAINS"`
}

// Load reads configuration from an optional config.yml plus the environment.
func Load() (*Config, error) {
	viper.AddConfigPath(".")
	viper.SetConfigName("config")
	viper.SetConfigType("yml")
	viper.AutomaticEnv()

	// The config file is optional; environment variables and defaults
	// are enough to run.
	_ = viper.ReadInConfig()

	viper.SetDefault("PORT", "8080")
	viper.SetDefault("GIN_MODE", "debug")
	viper.SetDefault("DB_HOST", "localhost")
	viper.SetDefault("DB_PORT", "5432")
	viper.SetDefault("DB_USER", "openopps")
	viper.SetDefault("DB_PASSWORD", "openopps")
	viper.SetDefault("DB_NAME", "openopps")
	viper.SetDefault("DB_SSLMODE", "disable")
	viper.SetDefault("REDIS_HOST", "localhost")
	viper.SetDefault("REDIS_PORT", "6379")
	viper.SetDefault("SESSION_SECRET", "default-secret-key-change-me")
	viper.SetDefault("TASK_STATES", "draft,open,closed")
	viper.SetDefault("DRAFT_ADMIN_ONLY", true)
	viper.SetDefault("COPY_TASK_STATE", "draft")
	viper.SetDefault("AGENCY_REQUIRED", false)
	viper.SetDefault("LOCATION_REQUIRED", false)
	viper.SetDefault("USE_SUPERVISOR_EMAIL", false)
	viper.SetDefault("VALIDATE_DOMAINS", false)
	viper.SetDefault("DOMAINS", "")

	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	return &cfg, nil
}

// States returns the enumerated task state list.
func (c *Config) States() []string {
	return splitList(c.TaskStates)
}

// DomainList returns the whitelisted mail domains.
func (c *Config) DomainList() []string {
	return splitList(c.Domains)
}

func splitList(s string) []string {
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
