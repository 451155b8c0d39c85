package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

const (
	EnvUACURL   = "UAC_URL"
	EnvUACToken = "UAC_TOKEN"
)

// ErrMissingUAC is returned by LoadUAC when either connection value is unset.
var ErrMissingUAC = errors.New("missing UAC_URL or UAC_TOKEN environment variables")

type Config struct {
	Server ServerConfig `yaml:"server"`
	UAC    UACSettings  `yaml:"uac"`
	Log    LogConfig    `yaml:"log"`
}

type ServerConfig struct {
	Port            string `yaml:"port"`
	ReadTimeout     string `yaml:"read_timeout"`
	WriteTimeout    string `yaml:"write_timeout"`
	IdleTimeout     string `yaml:"idle_timeout"`
	ShutdownTimeout string `yaml:"shutdown_timeout"`
}

// UACSettings holds the tunables of the outbound client. The endpoint and
// token are deliberately absent: they only ever come from the environment.
type UACSettings struct {
	Timeout string `yaml:"timeout"`
}

type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// UACConfig is what the client factory needs to reach the platform.
type UACConfig struct {
	URL     string
	Token   string
	Timeout time.Duration
}

// Load reads the YAML file at configPath. When the file cannot be read the
// configuration is assembled from .env files and the process environment.
func Load(configPath string) (*Config, error) {
	data, err := os.ReadFile(configPath)
	if err != nil {
		loadDotEnv()

		return &Config{
			Server: ServerConfig{
				Port:            getEnv("PORT", "8000"),
				ReadTimeout:     getEnv("SERVER_READ_TIMEOUT", "10s"),
				WriteTimeout:    getEnv("SERVER_WRITE_TIMEOUT", "60s"),
				IdleTimeout:     getEnv("SERVER_IDLE_TIMEOUT", "60s"),
				ShutdownTimeout: getEnv("SERVER_SHUTDOWN_TIMEOUT", "5s"),
			},
			UAC: UACSettings{
				Timeout: getEnv("UAC_TIMEOUT", "30s"),
			},
			Log: LogConfig{
				Level:  getEnv("LOG_LEVEL", "info"),
				Format: getEnv("LOG_FORMAT", "text"),
			},
		}, nil
	}

	config := DefaultConfig()
	if err := yaml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	return config, nil
}

func DefaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Port:            "8000",
			ReadTimeout:     "10s",
			WriteTimeout:    "60s",
			IdleTimeout:     "60s",
			ShutdownTimeout: "5s",
		},
		UAC: UACSettings{
			Timeout: "30s",
		},
		Log: LogConfig{
			Level:  "info",
			Format: "text",
		},
	}
}

// LoadUAC reads the platform endpoint and token from the environment. Neither
// value has a default.
func (c *Config) LoadUAC() (UACConfig, error) {
	url := os.Getenv(EnvUACURL)
	token := os.Getenv(EnvUACToken)
	if url == "" || token == "" {
		return UACConfig{}, ErrMissingUAC
	}

	timeout, err := ParseDuration(c.UAC.Timeout, 30*time.Second)
	if err != nil {
		return UACConfig{}, fmt.Errorf("invalid uac timeout: %w", err)
	}

	return UACConfig{
		URL:     url,
		Token:   token,
		Timeout: timeout,
	}, nil
}

// ParseDuration parses value, returning fallback when value is empty.
func ParseDuration(value string, fallback time.Duration) (time.Duration, error) {
	if value == "" {
		return fallback, nil
	}
	return time.ParseDuration(value)
}

func loadDotEnv() {
	if err := godotenv.Load(); err != nil {
		if err := godotenv.Load(".env.local"); err != nil {
			fmt.Printf("No .env or .env.local file found. Using environment variables.\n")
		}
	}
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}
