package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

const (
	defaultEndpoint        = "http://localhost:8000"
	defaultRequestTimeout  = 30 * time.Second
	defaultGenerateTimeout = 3 * time.Minute
	defaultOAuthPort       = 8765
	appDirName             = "practicetestbulk"
)

// loads configuration from the optional YAML file, then environment variables
func LoadEnvironmentVariables() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		_ = err // not an error - most installs have no .env file
	}

	cfg := Defaults()

	path := os.Getenv("PTB_CONFIG")
	explicit := path != ""

	if !explicit {
		if dir, err := os.UserConfigDir(); err == nil {
			path = filepath.Join(dir, appDirName, "config.yaml")
		}
	}

	if path != "" {
		if err := loadFile(path, cfg, explicit); err != nil {
			return nil, err
		}
	}

	if err := applyEnv(cfg); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// returns the configuration used when nothing is set
func Defaults() *Config {
	tokenPath := ""
	downloadDir := "."

	if dir, err := os.UserConfigDir(); err == nil {
		tokenPath = filepath.Join(dir, appDirName, "session.json")
	}

	return &Config{
		APIEndpoint:     defaultEndpoint,
		Environment:     "development",
		Profile:         "default",
		TokenStore:      StoreFile,
		TokenPath:       tokenPath,
		DownloadDir:     downloadDir,
		RequestTimeout:  defaultRequestTimeout,
		GenerateTimeout: defaultGenerateTimeout,
		OAuthPort:       defaultOAuthPort,
	}
}

// overlays a YAML file onto cfg. a missing file is only an error when the
// path was given explicitly.
func loadFile(path string, cfg *Config, explicit bool) error {
	data, err := os.ReadFile(path) //nolint:gosec // G304: path comes from the user's own config
	if err != nil {
		if errors.Is(err, os.ErrNotExist) && !explicit {
			return nil
		}

		return fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("failed to parse config file %s: %w", path, err)
	}

	return nil
}

func applyEnv(cfg *Config) error {
	setString(&cfg.APIEndpoint, "PTB_API_ENDPOINT")
	setString(&cfg.Environment, "PTB_ENV")
	setString(&cfg.Profile, "PTB_PROFILE")
	setString(&cfg.TokenStore, "PTB_TOKEN_STORE")
	setString(&cfg.TokenPath, "PTB_TOKEN_PATH")
	setString(&cfg.RedisURL, "PTB_REDIS_URL")
	setString(&cfg.DownloadDir, "PTB_DOWNLOAD_DIR")
	setString(&cfg.SessionSecret, "PTB_SESSION_SECRET")
	setString(&cfg.LogFile, "PTB_LOG_FILE")

	if err := setDuration(&cfg.RequestTimeout, "PTB_REQUEST_TIMEOUT"); err != nil {
		return err
	}

	if err := setDuration(&cfg.GenerateTimeout, "PTB_GENERATE_TIMEOUT"); err != nil {
		return err
	}

	if v := os.Getenv("PTB_OAUTH_PORT"); v != "" {
		port, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("PTB_OAUTH_PORT must be a number: %w", err)
		}
		cfg.OAuthPort = port
	}

	return nil
}

// checks that the combination of settings is usable
func (c *Config) Validate() error {
	c.APIEndpoint = strings.TrimRight(c.APIEndpoint, "/")

	if c.APIEndpoint == "" {
		return fmt.Errorf("PTB_API_ENDPOINT must not be empty")
	}

	switch c.TokenStore {
	case StoreFile:
		if c.TokenPath == "" {
			return fmt.Errorf("PTB_TOKEN_PATH environment variable is required when no user config dir exists")
		}
	case StoreMemory:
	case StoreRedis:
		if c.RedisURL == "" {
			return fmt.Errorf("PTB_REDIS_URL environment variable is required for the redis token store")
		}
	default:
		return fmt.Errorf("PTB_TOKEN_STORE must be one of file, memory, redis (got %q)", c.TokenStore)
	}

	if c.OAuthPort < 0 || c.OAuthPort > 65535 {
		return fmt.Errorf("PTB_OAUTH_PORT out of range: %d", c.OAuthPort)
	}

	if c.RequestTimeout <= 0 || c.GenerateTimeout <= 0 {
		return fmt.Errorf("request timeouts must be positive")
	}

	return nil
}

func setString(dst *string, key string) {
	if v := os.Getenv(key); v != "" {
		*dst = v
	}
}

func setDuration(dst *time.Duration, key string) error {
	v := os.Getenv(key)
	if v == "" {
		return nil
	}

	d, err := time.ParseDuration(v)
	if err != nil {
		return fmt.Errorf("%s must be a duration like 30s: %w", key, err)
	}

	*dst = d
	return nil
}
