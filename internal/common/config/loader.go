// internal/common/config/loader.go
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Load reads configs/config.yaml, merges config.<APP_ENVIRONMENT>.yaml on top,
// then applies environment overrides and defaults.
func Load() (*Config, error) {
	loadEnvFile()

	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath("./configs")
	v.AddConfigPath("../../configs")
	v.AddConfigPath(".")

	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()

	env := os.Getenv("APP_ENVIRONMENT")
	if env == "" {
		env = "development"
	}

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading base config: %w", err)
		}
	}

	v.SetConfigName(fmt.Sprintf("config.%s", env))
	_ = v.MergeInConfig() // optional

	return finish(v)
}

// LoadFromFile loads configuration from a specific file path.
func LoadFromFile(path string) (*Config, error) {
	loadEnvFile()

	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	return finish(v)
}

func finish(v *viper.Viper) (*Config, error) {
	expandEnvVars(v)

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	overrideEmptyConfig(&cfg)
	applyDefaults(&cfg)

	if err := validateConfig(&cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return &cfg, nil
}

func loadEnvFile() {
	possiblePaths := []string{".env", "../.env", "../../.env"}
	if rootDir := findProjectRoot(); rootDir != "" {
		possiblePaths = append(possiblePaths, filepath.Join(rootDir, ".env"))
	}

	for _, path := range possiblePaths {
		if _, err := os.Stat(path); err == nil {
			if err := godotenv.Load(path); err == nil {
				return
			}
		}
	}
}

// findProjectRoot walks up from the working directory looking for go.mod.
func findProjectRoot() string {
	dir, err := os.Getwd()
	if err != nil {
		return ""
	}
	for {
		if _, err := os.Stat(filepath.Join(dir, "go.mod")); err == nil {
			return dir
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return ""
		}
		dir = parent
	}
}

// expandEnvVars resolves ${VAR} placeholders in string values.
func expandEnvVars(v *viper.Viper) {
	for _, key := range v.AllKeys() {
		strVal, ok := v.Get(key).(string)
		if !ok {
			continue
		}
		if strings.Contains(strVal, "${") || (strings.HasPrefix(strVal, "$") && len(strVal) > 1) {
			expanded := os.ExpandEnv(strVal)
			if expanded != strVal {
				v.Set(key, expanded)
			}
		}
	}
}

// overrideEmptyConfig fills credentials from the conventional env names when
// the config file leaves them blank.
func overrideEmptyConfig(cfg *Config) {
	setIfEmpty(&cfg.GenAI.APIKey, "GOOGLE_API_KEY")
	setIfEmpty(&cfg.APIs.Weather.APIKey, "WEATHER_API_KEY")
	setIfEmpty(&cfg.APIs.WebSearch.APIKey, "WEB_SEARCH_API_KEY")
	setIfEmpty(&cfg.APIs.WebSearch.EngineID, "WEB_SEARCH_ENGINE_ID")
	setIfEmpty(&cfg.Storage.Postgres.User, "DB_USER")
	setIfEmpty(&cfg.Storage.Postgres.Password, "DB_PASSWORD")
	setIfEmpty(&cfg.Storage.Redis.Password, "REDIS_PASSWORD")
	setIfEmpty(&cfg.Observability.JaegerEndpoint, "JAEGER_ENDPOINT")
}

func setIfEmpty(field *string, envKey string) {
	if *field != "" {
		return
	}
	if val := os.Getenv(envKey); val != "" {
		*field = val
	}
}

// applyDefaults sets default values for optional configuration fields
func applyDefaults(cfg *Config) {
	if cfg.App.Name == "" {
		cfg.App.Name = "web-assistant"
	}
	if cfg.App.Environment == "" {
		cfg.App.Environment = "development"
	}

	if cfg.Server.Port == 0 {
		cfg.Server.Port = 5000
	}
	if cfg.Server.Host == "" {
		cfg.Server.Host = "0.0.0.0"
	}
	if cfg.Server.ReadTimeout == 0 {
		cfg.Server.ReadTimeout = 15000
	}
	if cfg.Server.WriteTimeout == 0 {
		cfg.Server.WriteTimeout = 120000
	}

	if cfg.GenAI.Model == "" {
		cfg.GenAI.Model = "gemini-1.5-flash"
	}
	if cfg.GenAI.Timeout == 0 {
		cfg.GenAI.Timeout = 30000
	}

	if cfg.APIs.Weather.BaseURL == "" {
		cfg.APIs.Weather.BaseURL = "https://api.weatherapi.com/v1"
	}
	if cfg.APIs.Weather.Timeout == 0 {
		cfg.APIs.Weather.Timeout = 10000
	}
	if cfg.APIs.Geocoding.BaseURL == "" {
		cfg.APIs.Geocoding.BaseURL = "https://nominatim.openstreetmap.org"
	}
	if cfg.APIs.Geocoding.UserAgent == "" {
		cfg.APIs.Geocoding.UserAgent = fmt.Sprintf("%s/%s (conversational assistant)", cfg.App.Name, versionOrDev(cfg.App.Version))
	}
	if cfg.APIs.Geocoding.Timeout == 0 {
		cfg.APIs.Geocoding.Timeout = 10000
	}
	if cfg.APIs.WebSearch.BaseURL == "" {
		cfg.APIs.WebSearch.BaseURL = "https://www.googleapis.com/customsearch/v1"
	}
	if cfg.APIs.WebSearch.FallbackURL == "" {
		cfg.APIs.WebSearch.FallbackURL = "https://api.duckduckgo.com/"
	}
	if cfg.APIs.WebSearch.MaxResults == 0 {
		cfg.APIs.WebSearch.MaxResults = 5
	}
	if cfg.APIs.WebSearch.Timeout == 0 {
		cfg.APIs.WebSearch.Timeout = 10000
	}

	if cfg.Storage.QueueSize == 0 {
		cfg.Storage.QueueSize = 256
	}
	if cfg.Storage.WriteTimeout == 0 {
		cfg.Storage.WriteTimeout = 5000
	}
	if cfg.Storage.SQLite.Path == "" {
		cfg.Storage.SQLite.Path = "data/interactions.db"
	}
	if cfg.Storage.Postgres.Port == 0 {
		cfg.Storage.Postgres.Port = 5432
	}
	if cfg.Storage.Postgres.MaxConnections == 0 {
		cfg.Storage.Postgres.MaxConnections = 10
	}
	if cfg.Storage.Postgres.MaxIdle == 0 {
		cfg.Storage.Postgres.MaxIdle = 2
	}
	if cfg.Storage.Postgres.SSLMode == "" {
		cfg.Storage.Postgres.SSLMode = "disable"
	}
	if cfg.Storage.Postgres.Table == "" {
		cfg.Storage.Postgres.Table = "interactions"
	}
	if cfg.Storage.Redis.Key == "" {
		cfg.Storage.Redis.Key = "assistant:interactions"
	}
	if cfg.Storage.Redis.MaxLen == 0 {
		cfg.Storage.Redis.MaxLen = 1000
	}
	if cfg.Storage.Elasticsearch.Index == "" {
		cfg.Storage.Elasticsearch.Index = "assistant-interactions"
	}
	if cfg.Storage.Kafka.Topic == "" {
		cfg.Storage.Kafka.Topic = "assistant.interactions"
	}
	if cfg.Storage.Kafka.ClientID == "" {
		cfg.Storage.Kafka.ClientID = cfg.App.Name
	}

	if cfg.Logging.Level == "" {
		cfg.Logging.Level = "info"
	}
	if cfg.Logging.Format == "" {
		cfg.Logging.Format = "json"
	}
	if cfg.Logging.Output == "" {
		cfg.Logging.Output = "stdout"
	}

	if cfg.Observability.ServiceName == "" {
		cfg.Observability.ServiceName = cfg.App.Name
	}
}

func versionOrDev(v string) string {
	if v == "" {
		return "dev"
	}
	return v
}

// validateConfig validates critical configuration fields. Missing LLM
// credentials are not an error: the server starts and reports 500 per request.
func validateConfig(cfg *Config) error {
	if cfg.Server.Port <= 0 || cfg.Server.Port > 65535 {
		return fmt.Errorf("server.port %d out of range", cfg.Server.Port)
	}

	for _, sink := range cfg.Storage.Sinks {
		switch sink {
		case "sqlite":
			// path always has a default
		case "postgres":
			if cfg.Storage.Postgres.Host == "" {
				return fmt.Errorf("storage.postgres.host is required")
			}
			if cfg.Storage.Postgres.Database == "" {
				return fmt.Errorf("storage.postgres.database is required")
			}
			if cfg.Storage.Postgres.User == "" {
				return fmt.Errorf("storage.postgres.user is required")
			}
		case "redis":
			if cfg.Storage.Redis.Address == "" {
				return fmt.Errorf("storage.redis.address is required")
			}
		case "elasticsearch":
			if len(cfg.Storage.Elasticsearch.Addresses) == 0 {
				return fmt.Errorf("storage.elasticsearch.addresses is required")
			}
		case "kafka":
			if len(cfg.Storage.Kafka.Brokers) == 0 {
				return fmt.Errorf("storage.kafka.brokers is required")
			}
		default:
			return fmt.Errorf("storage.sinks: unknown sink %q", sink)
		}
	}

	return nil
}

// GetDuration converts milliseconds from config to time.Duration
func GetDuration(milliseconds int) time.Duration {
	return time.Duration(milliseconds) * time.Millisecond
}
