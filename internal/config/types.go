package config

import "time"

type Config struct {
	APIEndpoint     string        `yaml:"api_endpoint"`
	Environment     string        `yaml:"environment"`
	Profile         string        `yaml:"profile"`
	TokenStore      string        `yaml:"token_store"`
	TokenPath       string        `yaml:"token_path"`
	RedisURL        string        `yaml:"redis_url"`
	DownloadDir     string        `yaml:"download_dir"`
	RequestTimeout  time.Duration `yaml:"request_timeout"`
	GenerateTimeout time.Duration `yaml:"generate_timeout"`
	OAuthPort       int           `yaml:"oauth_port"`
	SessionSecret   string        `yaml:"session_secret"`
	LogFile         string        `yaml:"log_file"`
}

// command-line overrides shared by every ptb subcommand
type Flags struct {
	Endpoint  string
	Profile   string
	Ephemeral bool
}

// token store backends
const (
	StoreFile   = "file"
	StoreMemory = "memory"
	StoreRedis  = "redis"
)
