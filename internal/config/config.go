// Package config provides configuration management for the items API server.
//
// Values are layered, later sources overriding earlier ones:
// built-in defaults, an optional YAML file named by APP_CONFIG_FILE,
// an optional .env file in the working directory, and APP_* environment variables.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// Default configuration values.
const (
	DefaultServerPort      = 8080
	DefaultProbePort       = 9090
	DefaultLogLevel        = "info"
	DefaultShutdownTimeout = 30 * time.Second
	DefaultMetricsEnabled  = true
	DefaultDataFile        = "data.json"
	DefaultStoreBackend    = StoreBackendFile
	DefaultAuthMode        = AuthModeNone
)

// Store backends.
const (
	StoreBackendFile   = "file"
	StoreBackendMemory = "memory"
)

// Authentication modes.
const (
	AuthModeNone   = "none"
	AuthModeBasic  = "basic"
	AuthModeAPIKey = "apikey"
	AuthModeMulti  = "multi"
)

// EnvPrefix is the prefix of environment variables read by Load.
const EnvPrefix = "APP_"

// Environment variable names.
const (
	EnvConfigFile      = "APP_CONFIG_FILE"
	EnvServerPort      = "APP_SERVER_PORT"
	EnvProbePort       = "APP_PROBE_PORT"
	EnvLogLevel        = "APP_LOG_LEVEL"
	EnvShutdownTimeout = "APP_SHUTDOWN_TIMEOUT"
	EnvMetricsEnabled  = "APP_METRICS_ENABLED"
	EnvDataFile        = "APP_DATA_FILE"
	EnvStoreBackend    = "APP_STORE_BACKEND"
	EnvAuthMode        = "APP_AUTH_MODE"
	EnvBasicAuthUsers  = "APP_BASIC_AUTH_USERS"
	EnvAPIKeys         = "APP_API_KEYS" //nolint:gosec // env var name, not a credential
)

// DotEnvFile is the optional dotenv file read from the working directory.
const DotEnvFile = ".env"

// Config holds the application configuration.
type Config struct {
	// Server settings.
	ServerPort      int           `koanf:"server_port"`
	ProbePort       int           `koanf:"probe_port"` // 0 disables the probe server.
	LogLevel        string        `koanf:"log_level"`
	ShutdownTimeout time.Duration `koanf:"shutdown_timeout"`
	MetricsEnabled  bool          `koanf:"metrics_enabled"`

	// Storage settings.
	DataFile     string `koanf:"data_file"`
	StoreBackend string `koanf:"store_backend"`

	// Authentication mode: none, basic, apikey, multi.
	AuthMode string `koanf:"auth_mode"`

	// Basic auth users (format: "user1:bcrypt_hash,user2:bcrypt_hash").
	BasicAuthUsers string `koanf:"basic_auth_users"`

	// API keys (format: "key1:name1,key2:name2").
	APIKeys string `koanf:"api_keys"`
}

// Validation errors.
var (
	ErrInvalidServerPort      = errors.New("server port must be between 1 and 65535")
	ErrInvalidProbePort       = errors.New("probe port must be between 0 and 65535")
	ErrProbePortConflict      = errors.New("probe port must differ from server port when probe port is not 0")
	ErrInvalidLogLevel        = errors.New("log level must be one of: debug, info, warn, error")
	ErrInvalidShutdownTimeout = errors.New("shutdown timeout must be positive")
	ErrInvalidDataFile        = errors.New("data file must be set when store backend is file")
	ErrInvalidStoreBackend    = errors.New("store backend must be one of: file, memory")
	ErrInvalidAuthMode        = errors.New("auth mode must be one of: none, basic, apikey, multi")
	ErrInvalidBasicAuthConfig = errors.New("basic auth users must be set when auth mode is basic")
	ErrInvalidAPIKeyConfig    = errors.New("API keys must be set when auth mode is apikey")
	ErrInvalidMultiAuthConfig = errors.New(
		"basic auth users or API keys must be set when auth mode is multi",
	)
)

var validLogLevels = map[string]bool{
	"debug": true,
	"info":  true,
	"warn":  true,
	"error": true,
}

// Load reads configuration from all sources and validates it.
func Load() (*Config, error) {
	return load(os.Getenv(EnvConfigFile), DotEnvFile)
}

func load(configFile, dotEnvFile string) (*Config, error) {
	k := koanf.New(".")

	if err := k.Load(confmap.Provider(defaults(), "."), nil); err != nil {
		return nil, fmt.Errorf("loading defaults: %w", err)
	}

	if configFile != "" {
		if err := k.Load(file.Provider(configFile), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("loading config file %s: %w", configFile, err)
		}
	}

	dotEnv, err := godotenv.Read(dotEnvFile)
	switch {
	case err == nil:
		values := make(map[string]any, len(dotEnv))
		for key, value := range dotEnv {
			if strings.HasPrefix(key, EnvPrefix) {
				values[envKey(key)] = value
			}
		}
		if err := k.Load(confmap.Provider(values, "."), nil); err != nil {
			return nil, fmt.Errorf("loading %s: %w", dotEnvFile, err)
		}
	case !errors.Is(err, fs.ErrNotExist):
		return nil, fmt.Errorf("reading %s: %w", dotEnvFile, err)
	}

	if err := k.Load(env.Provider(EnvPrefix, ".", envKey), nil); err != nil {
		return nil, fmt.Errorf("loading environment: %w", err)
	}

	cfg := &Config{}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("decoding config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}

	return cfg, nil
}

// defaults returns the built-in configuration layer.
func defaults() map[string]any {
	return map[string]any{
		"server_port":      DefaultServerPort,
		"probe_port":       DefaultProbePort,
		"log_level":        DefaultLogLevel,
		"shutdown_timeout": DefaultShutdownTimeout.String(),
		"metrics_enabled":  DefaultMetricsEnabled,
		"data_file":        DefaultDataFile,
		"store_backend":    DefaultStoreBackend,
		"auth_mode":        DefaultAuthMode,
	}
}

// envKey maps APP_SERVER_PORT to server_port.
func envKey(name string) string {
	return strings.ToLower(strings.TrimPrefix(name, EnvPrefix))
}

// Validate checks if the configuration values are valid.
func (c *Config) Validate() error {
	if err := c.validateServer(); err != nil {
		return err
	}

	if err := c.validateStore(); err != nil {
		return err
	}

	return c.validateAuth()
}

func (c *Config) validateServer() error {
	if c.ServerPort < 1 || c.ServerPort > 65535 {
		return ErrInvalidServerPort
	}

	if c.ProbePort < 0 || c.ProbePort > 65535 {
		return ErrInvalidProbePort
	}

	if c.ProbePort != 0 && c.ProbePort == c.ServerPort {
		return ErrProbePortConflict
	}

	if !validLogLevels[c.LogLevel] {
		return ErrInvalidLogLevel
	}

	if c.ShutdownTimeout <= 0 {
		return ErrInvalidShutdownTimeout
	}

	return nil
}

func (c *Config) validateStore() error {
	switch c.StoreBackend {
	case StoreBackendFile:
		if strings.TrimSpace(c.DataFile) == "" {
			return ErrInvalidDataFile
		}
	case StoreBackendMemory:
	default:
		return ErrInvalidStoreBackend
	}

	return nil
}

func (c *Config) validateAuth() error {
	switch c.AuthMode {
	case AuthModeNone:
	case AuthModeBasic:
		if c.BasicAuthUsers == "" {
			return ErrInvalidBasicAuthConfig
		}
	case AuthModeAPIKey:
		if c.APIKeys == "" {
			return ErrInvalidAPIKeyConfig
		}
	case AuthModeMulti:
		if c.BasicAuthUsers == "" && c.APIKeys == "" {
			return ErrInvalidMultiAuthConfig
		}
	default:
		return ErrInvalidAuthMode
	}

	return nil
}

// Address returns the server address in host:port format.
func (c *Config) Address() string {
	return fmt.Sprintf(":%d", c.ServerPort)
}

// ProbeAddress returns the probe server address in host:port format.
func (c *Config) ProbeAddress() string {
	return fmt.Sprintf(":%d", c.ProbePort)
}
