package app

import (
	"fmt"
	"os"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/aussiebroadwan/registrar/internal/auth/domain"
	"github.com/aussiebroadwan/registrar/internal/auth/service"
	"github.com/aussiebroadwan/registrar/pkg/authsdk"
	"github.com/aussiebroadwan/registrar/pkg/jwtx"
	"gopkg.in/yaml.v3"
)

// Client store drivers.
const (
	StoreSQLite = "sqlite"
	StoreRedis  = "redis"
	StoreMemory = "memory"
)

// Key storage modes.
const (
	KeyStorageEphemeral  = "ephemeral"
	KeyStoragePersistent = "persistent"
)

type RedisConfig struct {
	Addr      string `yaml:"addr"`
	Password  string `yaml:"password"`
	DB        int    `yaml:"db"`
	KeyPrefix string `yaml:"key_prefix"`
}

type Config struct {
	Issuer         string `yaml:"issuer"`          // issuer claim and base of registration_client_uri
	BootstrapToken string `yaml:"bootstrap_token"` // Optional: enables POST /v1/bootstrap

	Algorithm      string        `yaml:"algorithm"`        // JWT signing algorithm (RS256, ES256, EdDSA) (default: RS256)
	RSABits        int           `yaml:"rsa_bits"`         // RSA key size for RS256 (default: 4096)
	NumKeys        int           `yaml:"num_keys"`         // signing keys kept active (default: 3, min: 1, max: 10)
	KeyStorageMode string        `yaml:"key_storage_mode"` // ephemeral or persistent (default: ephemeral)
	KeyGracePeriod time.Duration `yaml:"key_grace_period"` // verification lifetime of a key (default: 30 days)
	MasterKeyPath  string        `yaml:"master_key_path"`  // file holding the sealing key
	MasterKey      string        `yaml:"-"`                // AUTH_MASTER_KEY, never read from file

	ClientStore  string      `yaml:"client_store"`  // sqlite, redis or memory (default: sqlite)
	DatabaseFile string      `yaml:"database_file"` // SQLite database file (default: ./auth.db)
	Redis        RedisConfig `yaml:"redis"`
	PepperFile   string      `yaml:"pepper_file"` // pepper for client secret hashing (default: ./pepper)

	RegistrationPath     string        `yaml:"registration_path"`      // default: /connect/register
	RegistrationScope    string        `yaml:"registration_scope"`     // default: client.create
	ConfigurationScope   string        `yaml:"configuration_scope"`    // default: client.read
	DefaultAuthMethod    string        `yaml:"default_auth_method"`    // default: client_secret_basic
	AccessTokenTTL       time.Duration `yaml:"access_token_ttl"`       // default: 15m
	RegistrationTokenTTL time.Duration `yaml:"registration_token_ttl"` // default: 24h

	Env                  string        `yaml:"env"`        // dev, staging, prod (default: dev)
	LogLevel             string        `yaml:"log_level"`  // debug, info, warn, error (default: info)
	LogFormat            string        `yaml:"log_format"` // json, text (default: json)
	Port                 int           `yaml:"port"`       // default: 8080
	ShutdownGracePeriod  time.Duration `yaml:"shutdown_grace_period"`
	HousekeepingInterval time.Duration `yaml:"housekeeping_interval"`
}

// DefaultConfig returns the built-in settings.
func DefaultConfig() Config {
	return Config{
		Issuer:               "http://localhost:8080",
		Algorithm:            jwtx.AlgorithmRS256,
		KeyStorageMode:       KeyStorageEphemeral,
		KeyGracePeriod:       30 * 24 * time.Hour,
		ClientStore:          StoreSQLite,
		DatabaseFile:         "auth.db",
		Redis:                RedisConfig{KeyPrefix: "registrar:"},
		PepperFile:           "pepper",
		RegistrationPath:     authsdk.DefaultRegistrationPath,
		RegistrationScope:    service.DefaultRegistrationScope,
		ConfigurationScope:   service.DefaultConfigurationScope,
		DefaultAuthMethod:    domain.AuthMethodClientSecretBasic,
		AccessTokenTTL:       jwtx.DefaultAccessTokenTTL,
		RegistrationTokenTTL: 24 * time.Hour,
		Env:                  "dev",
		LogLevel:             "info",
		LogFormat:            "json",
		Port:                 8080,
		ShutdownGracePeriod:  10 * time.Second,
		HousekeepingInterval: time.Hour,
	}
}

// LoadConfig starts from DefaultConfig, applies the YAML file named by
// AUTH_CONFIG_FILE if set, then any environment variables. Environment
// variables win.
func LoadConfig() (Config, error) {
	cfg := DefaultConfig()

	if path := os.Getenv("AUTH_CONFIG_FILE"); path != "" {
		if err := cfg.loadFile(path); err != nil {
			return Config{}, err
		}
	}
	cfg.applyEnv()

	cfg.Issuer = strings.TrimRight(cfg.Issuer, "/")
	return cfg, nil
}

func (c *Config) loadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("config: read file %q: %w", path, err)
	}
	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("config: parse YAML: %w", err)
	}
	return nil
}

func (c *Config) applyEnv() {
	c.Issuer = getEnvOrDefault("AUTH_ISSUER", c.Issuer)
	c.BootstrapToken = getEnvOrDefault("BOOTSTRAP_TOKEN", c.BootstrapToken)

	c.Algorithm = getEnvOrDefault("AUTH_ALGORITHM", c.Algorithm)
	c.RSABits = getEnvIntOrDefault("AUTH_RSA_BITS", c.RSABits)
	c.NumKeys = getEnvIntOrDefault("AUTH_NUM_KEYS", c.NumKeys)
	c.KeyStorageMode = getEnvOrDefault("AUTH_KEY_STORAGE_MODE", c.KeyStorageMode)
	c.KeyGracePeriod = getEnvDurationOrDefault("AUTH_KEY_GRACE_PERIOD", c.KeyGracePeriod)
	c.MasterKeyPath = getEnvOrDefault("AUTH_MASTER_KEY_PATH", c.MasterKeyPath)
	c.MasterKey = getEnvOrDefault("AUTH_MASTER_KEY", c.MasterKey)

	c.ClientStore = getEnvOrDefault("AUTH_CLIENT_STORE", c.ClientStore)
	c.DatabaseFile = getEnvOrDefault("AUTH_DATABASE_FILE", c.DatabaseFile)
	c.Redis.Addr = getEnvOrDefault("AUTH_REDIS_ADDR", c.Redis.Addr)
	c.Redis.Password = getEnvOrDefault("AUTH_REDIS_PASSWORD", c.Redis.Password)
	c.Redis.DB = getEnvIntOrDefault("AUTH_REDIS_DB", c.Redis.DB)
	c.Redis.KeyPrefix = getEnvOrDefault("AUTH_REDIS_KEY_PREFIX", c.Redis.KeyPrefix)
	c.PepperFile = getEnvOrDefault("AUTH_PEPPER_FILE", c.PepperFile)

	c.RegistrationPath = getEnvOrDefault("AUTH_REGISTRATION_PATH", c.RegistrationPath)
	c.RegistrationScope = getEnvOrDefault("AUTH_REGISTRATION_SCOPE", c.RegistrationScope)
	c.ConfigurationScope = getEnvOrDefault("AUTH_CONFIGURATION_SCOPE", c.ConfigurationScope)
	c.DefaultAuthMethod = getEnvOrDefault("AUTH_DEFAULT_AUTH_METHOD", c.DefaultAuthMethod)
	c.AccessTokenTTL = getEnvDurationOrDefault("AUTH_ACCESS_TOKEN_TTL", c.AccessTokenTTL)
	c.RegistrationTokenTTL = getEnvDurationOrDefault("AUTH_REGISTRATION_TOKEN_TTL", c.RegistrationTokenTTL)

	c.Env = getEnvOrDefault("ENV", c.Env)
	c.LogLevel = getEnvOrDefault("LOG_LEVEL", c.LogLevel)
	c.LogFormat = getEnvOrDefault("LOG_FORMAT", c.LogFormat)
	c.Port = getEnvIntOrDefault("PORT", c.Port)
	c.ShutdownGracePeriod = getEnvDurationOrDefault("SHUTDOWN_GRACE_PERIOD", c.ShutdownGracePeriod)
	c.HousekeepingInterval = getEnvDurationOrDefault("HOUSEKEEPING_INTERVAL", c.HousekeepingInterval)
}

// Validate returns the first problem found.
func (c *Config) Validate() error {
	if c.Issuer == "" {
		return fmt.Errorf("config: issuer is required")
	}
	if !slices.Contains(jwtx.SupportedAlgorithms, c.Algorithm) {
		return fmt.Errorf("config: unsupported algorithm %q", c.Algorithm)
	}

	switch c.KeyStorageMode {
	case KeyStorageEphemeral, KeyStoragePersistent:
	default:
		return fmt.Errorf("config: unknown key storage mode %q", c.KeyStorageMode)
	}

	switch c.ClientStore {
	case StoreSQLite:
		if c.DatabaseFile == "" {
			return fmt.Errorf("config: database_file is required for the sqlite store")
		}
	case StoreRedis:
		if c.Redis.Addr == "" {
			return fmt.Errorf("config: redis.addr is required for the redis store")
		}
	case StoreMemory:
		if c.KeyStorageMode == KeyStoragePersistent {
			return fmt.Errorf("config: persistent keys need a durable client store, got %q", c.ClientStore)
		}
	default:
		return fmt.Errorf("config: unknown client store %q", c.ClientStore)
	}

	if !strings.HasPrefix(c.RegistrationPath, "/") {
		return fmt.Errorf("config: registration_path must start with '/', got %q", c.RegistrationPath)
	}
	if c.RegistrationScope == "" || c.ConfigurationScope == "" {
		return fmt.Errorf("config: registration and configuration scopes are required")
	}
	if c.RegistrationScope == c.ConfigurationScope {
		return fmt.Errorf("config: registration and configuration scopes must differ")
	}
	if !slices.Contains(domain.SupportedAuthMethods, c.DefaultAuthMethod) {
		return fmt.Errorf("config: unsupported default auth method %q", c.DefaultAuthMethod)
	}
	if c.AccessTokenTTL <= 0 || c.RegistrationTokenTTL <= 0 {
		return fmt.Errorf("config: token TTLs must be positive")
	}
	if c.Port <= 0 {
		return fmt.Errorf("config: port must be greater than 0, got %d", c.Port)
	}
	return nil
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvIntOrDefault(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	if intValue, err := strconv.Atoi(value); err == nil {
		return intValue
	}

	return defaultValue
}

func getEnvDurationOrDefault(key string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	// Try parsing as duration (e.g., "1h", "30m", "90s")
	if duration, err := time.ParseDuration(value); err == nil {
		return duration
	}

	// Bare integers are minutes
	if minutes, err := strconv.Atoi(value); err == nil {
		return time.Duration(minutes) * time.Minute
	}

	return defaultValue
}
