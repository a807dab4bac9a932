// Package config loads reqtrace configuration from config files,
// environment variables, and the OS keychain.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds all settings for a run.
type Config struct {
	// Repository is the "owner/name" to fetch issues from.
	Repository string `yaml:"repository"`

	GitHub GitHubConfig `yaml:"github"`
	Cache  CacheConfig  `yaml:"cache"`
	Output OutputConfig `yaml:"output"`
}

type GitHubConfig struct {
	Token     string `yaml:"token"`
	RateLimit int    `yaml:"rate_limit"` // Requests per second
}

type CacheConfig struct {
	Path string `yaml:"path"`
}

type OutputConfig struct {
	Path string `yaml:"path"`
}

// Default returns default configuration.
func Default() *Config {
	homeDir, _ := os.UserHomeDir()
	return &Config{
		GitHub: GitHubConfig{
			RateLimit: 10,
		},
		Cache: CacheConfig{
			Path: filepath.Join(homeDir, ".reqtrace", "cache.db"),
		},
		Output: OutputConfig{
			Path: filepath.Join("build", "traceability.json"),
		},
	}
}

// Load loads configuration from file, environment, and keychain.
// Precedence, highest first: environment variables, config file,
// keychain (token only), defaults.
func Load(path string) (*Config, error) {
	loadEnvFiles()

	v := viper.New()
	v.SetConfigType("yaml")

	cfg := Default()
	v.SetDefault("repository", cfg.Repository)
	v.SetDefault("github", cfg.GitHub)
	v.SetDefault("cache", cfg.Cache)
	v.SetDefault("output", cfg.Output)

	v.SetEnvPrefix("REQTRACE")
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("config")
		v.AddConfigPath(".reqtrace")
		v.AddConfigPath(".")
		homeDir, _ := os.UserHomeDir()
		v.AddConfigPath(filepath.Join(homeDir, ".reqtrace"))
	}

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
		// Config file not found is OK, use defaults
	}

	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	applyEnvOverrides(cfg)
	return cfg, nil
}

// loadEnvFiles loads .env files in order of precedence.
func loadEnvFiles() {
	envFiles := []string{
		".env.local",
		".env",
	}
	for _, file := range envFiles {
		if _, err := os.Stat(file); err == nil {
			godotenv.Load(file)
		}
	}

	homeDir, _ := os.UserHomeDir()
	homeEnvFile := filepath.Join(homeDir, ".reqtrace", ".env")
	if _, err := os.Stat(homeEnvFile); err == nil {
		godotenv.Load(homeEnvFile)
	}
}

// applyEnvOverrides applies the well-known GitHub environment variables
// and falls back to the OS keychain for the token.
func applyEnvOverrides(cfg *Config) {
	if repo := os.Getenv("GITHUB_REPOSITORY"); repo != "" {
		cfg.Repository = repo
	}
	if rateLimit := os.Getenv("GITHUB_RATE_LIMIT"); rateLimit != "" {
		if rl, err := strconv.Atoi(rateLimit); err == nil {
			cfg.GitHub.RateLimit = rl
		}
	}

	if token := os.Getenv("GITHUB_TOKEN"); token != "" {
		cfg.GitHub.Token = token
	} else if cfg.GitHub.Token == "" {
		if token, err := KeychainToken(); err == nil && token != "" {
			cfg.GitHub.Token = token
		}
	}
}

// Repo splits the configured repository into owner and name.
func (c *Config) Repo() (owner, name string, err error) {
	owner, name, ok := strings.Cut(c.Repository, "/")
	if !ok || owner == "" || name == "" {
		return "", "", fmt.Errorf("repository must be owner/name, got %q", c.Repository)
	}
	return owner, name, nil
}
