package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"runtime"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/kailas-cloud/docchat/internal/domain"
)

// Secret store drivers.
const (
	SecretDriverNone          = "none"
	SecretDriverEnv           = "env"
	SecretDriverAzureKeyVault = "azure-key-vault"
	SecretDriverRedis         = "redis"
)

// DefaultVaultName is the Key Vault queried when neither config nor AZURE_KEY_VAULT_NAME name one.
const DefaultVaultName = "kv-hoisington-docchat"

// Config holds the docchat configuration.
type Config struct {
	HTTP    HTTPConfig    `yaml:"http"`
	Auth    AuthConfig    `yaml:"auth"`
	Search  SearchConfig  `yaml:"search"`
	OpenAI  OpenAIConfig  `yaml:"openai"`
	Secrets SecretsConfig `yaml:"secrets"`
	Logging LoggingConfig `yaml:"logging"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level string `yaml:"level"` // debug, info, warn, error (default: determined by env)
}

// AuthConfig holds API authentication settings.
type AuthConfig struct {
	APIKeys []string `yaml:"api_keys"`
}

// HTTPConfig holds HTTP server settings.
type HTTPConfig struct {
	Port            int `yaml:"port"`
	ReadTimeoutSec  int `yaml:"read_timeout_sec"`
	WriteTimeoutSec int `yaml:"write_timeout_sec"`
	ShutdownSec     int `yaml:"shutdown_timeout_sec"`
}

// SearchConfig holds the managed search index settings.
type SearchConfig struct {
	Endpoint              string `yaml:"endpoint"`
	Index                 string `yaml:"index"`
	APIKey                string `yaml:"api_key"`
	SemanticConfiguration string `yaml:"semantic_configuration"`
	APIVersion            string `yaml:"api_version"`
}

// OpenAIConfig holds the OpenAI-compatible embeddings endpoint settings.
type OpenAIConfig struct {
	Endpoint             string `yaml:"endpoint"`
	APIKey               string `yaml:"api_key"`
	EmbeddingsDeployment string `yaml:"embeddings_deployment"`
}

// SecretsConfig selects the secret store that overrides settings on first use.
type SecretsConfig struct {
	Driver    string      `yaml:"driver"` // none, env, azure-key-vault, redis (default: none)
	VaultName string      `yaml:"vault_name"`
	Redis     RedisConfig `yaml:"redis"`
}

// RedisConfig holds connection settings for the redis secret driver.
type RedisConfig struct {
	Addrs            []string `yaml:"addrs"`
	Password         string   `yaml:"password"`
	DB               int      `yaml:"db"`
	ReadinessTimeout int      `yaml:"readiness_timeout_sec"`
}

// Load reads configuration from a YAML file by environment name (local, dev, prod).
// A .env file in the working directory is loaded first; it never overrides
// variables already present in the process environment.
func Load(env string) (Config, error) {
	if err := loadDotEnv(".env"); err != nil {
		return Config{}, err
	}

	configPath := findConfigPath(env)

	data, err := os.ReadFile(filepath.Clean(configPath))
	if err != nil {
		return Config{}, fmt.Errorf("failed to read config %s: %w", configPath, err)
	}

	return Parse(data)
}

// Parse decodes YAML with ${VAR} expansion, applies defaults and validates.
func Parse(data []byte) (Config, error) {
	data = expandEnvVars(data)

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("failed to parse config: %w", err)
	}

	cfg.ApplyDefaults()

	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

// GetEnv returns the current environment from the ENV variable, defaulting to "local".
func GetEnv() string {
	if env := os.Getenv("ENV"); env != "" {
		return env
	}
	return "local"
}

// ApplyDefaults fills empty fields with default values.
func (c *Config) ApplyDefaults() {
	if c.HTTP.Port <= 0 {
		c.HTTP.Port = 8080
	}
	if c.HTTP.ReadTimeoutSec <= 0 {
		c.HTTP.ReadTimeoutSec = 10
	}
	if c.HTTP.WriteTimeoutSec <= 0 {
		c.HTTP.WriteTimeoutSec = 60
	}
	if c.HTTP.ShutdownSec <= 0 {
		c.HTTP.ShutdownSec = 10
	}
	if c.Search.Index == "" {
		c.Search.Index = domain.DefaultSearchIndex
	}
	if c.Search.APIVersion == "" {
		c.Search.APIVersion = "2024-05-01-preview"
	}
	if c.Secrets.Driver == "" {
		c.Secrets.Driver = SecretDriverNone
	}
	if c.Secrets.Driver == SecretDriverAzureKeyVault && c.Secrets.VaultName == "" {
		c.Secrets.VaultName = os.Getenv("AZURE_KEY_VAULT_NAME")
		if c.Secrets.VaultName == "" {
			c.Secrets.VaultName = DefaultVaultName
		}
	}
	if c.Secrets.Redis.ReadinessTimeout <= 0 {
		c.Secrets.Redis.ReadinessTimeout = 5
	}
}

// Validate checks the configuration for correctness.
// Search and embeddings settings are checked after secret resolution, not here.
func (c *Config) Validate() error {
	if c.HTTP.Port > 65535 {
		return fmt.Errorf("http.port must be between 1 and 65535, got %d", c.HTTP.Port)
	}
	switch c.Secrets.Driver {
	case SecretDriverNone, SecretDriverEnv, SecretDriverAzureKeyVault:
	case SecretDriverRedis:
		if len(c.Secrets.Redis.Addrs) == 0 {
			return fmt.Errorf("secrets.redis.addrs is required for driver %q", SecretDriverRedis)
		}
	default:
		return fmt.Errorf("secrets.driver must be one of none, env, azure-key-vault, redis, got %q", c.Secrets.Driver)
	}
	return nil
}

// Settings returns the flat search settings seeded from this configuration.
func (c *Config) Settings() domain.Settings {
	return domain.Settings{
		SearchEndpoint:        c.Search.Endpoint,
		SearchIndex:           c.Search.Index,
		SearchAPIKey:          c.Search.APIKey,
		SemanticConfiguration: c.Search.SemanticConfiguration,
		OpenAIEndpoint:        c.OpenAI.Endpoint,
		OpenAIAPIKey:          c.OpenAI.APIKey,
		EmbeddingsDeployment:  c.OpenAI.EmbeddingsDeployment,
	}
}

func loadDotEnv(path string) error {
	if err := godotenv.Load(path); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("failed to load %s: %w", path, err)
	}
	return nil
}

// findConfigPath locates the config file.
func findConfigPath(env string) string {
	filename := fmt.Sprintf("%s.yaml", env)

	// 1. Check ./config/
	if path := filepath.Join("config", filename); fileExists(path) {
		return path
	}

	// 2. Check relative to the source file
	_, b, _, _ := runtime.Caller(0)
	projectRoot := filepath.Dir(filepath.Dir(filepath.Dir(b))) // internal/config -> project root
	if path := filepath.Join(projectRoot, "config", filename); fileExists(path) {
		return path
	}

	// 3. Fallback to ./config/
	return filepath.Join("config", filename)
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// expandEnvVars replaces ${VAR} and ${VAR:-default} with environment variable values.
var envVarRegex = regexp.MustCompile(`\$\{([^}]+)\}`)

func expandEnvVars(data []byte) []byte {
	return envVarRegex.ReplaceAllFunc(data, func(match []byte) []byte {
		expr := string(match[2 : len(match)-1]) // strip ${ and }
		varName, defaultVal, hasDefault := strings.Cut(expr, ":-")
		val := os.Getenv(varName)
		if val == "" && hasDefault {
			val = defaultVal
		}
		return []byte(val)
	})
}
