package config

import (
	"errors"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all configuration for the application.
type Config struct {
	Subgraph Subgraph `mapstructure:"subgraph"`
	Ledger   Ledger   `mapstructure:"ledger"`
	Redis    Redis    `mapstructure:"redis"`
	OpenAI   OpenAI   `mapstructure:"openai"`
	Logger   Logger   `mapstructure:"logger"`
	Server   Server   `mapstructure:"server"`
	Database Database `mapstructure:"database"`
}

// Subgraph holds the configuration for the curve indexer.
type Subgraph struct {
	URL            string        `mapstructure:"url"`
	RateLimit      float64       `mapstructure:"rate_limit"`
	RateLimitBurst int           `mapstructure:"rate_limit_burst"`
	MaxRetries     int           `mapstructure:"max_retries"`
	Timeout        time.Duration `mapstructure:"timeout"`
	CurveLimit     int           `mapstructure:"curve_limit"`
}

// Ledger holds the configuration for the simulated portfolio ledger.
type Ledger struct {
	SeedBalance  float64 `mapstructure:"seed_balance"`
	HistoryLimit int     `mapstructure:"history_limit"`
	// Store is either "memory" or "sqlite".
	Store string `mapstructure:"store"`
}

// Redis holds the configuration for the curve snapshot cache.
type Redis struct {
	Enabled         bool          `mapstructure:"enabled"`
	Addr            string        `mapstructure:"addr"`
	Password        string        `mapstructure:"password"`
	DB              int           `mapstructure:"db"`
	TTL             time.Duration `mapstructure:"ttl"`
	RefreshInterval time.Duration `mapstructure:"refresh_interval"`
}

// OpenAI holds the configuration for the narrative risk assessment.
type OpenAI struct {
	APIKey string `mapstructure:"api_key"`
	// BaseURL overrides the OpenAI endpoint, e.g. for a compatible proxy.
	BaseURL         string        `mapstructure:"base_url"`
	Model           string        `mapstructure:"model"`
	MaxTokens       int           `mapstructure:"max_tokens"`
	IPFSGateway     string        `mapstructure:"ipfs_gateway"`
	MetadataTimeout time.Duration `mapstructure:"metadata_timeout"`
}

// Server holds the configuration for the web server.
type Server struct {
	Port            int           `mapstructure:"port"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
}

// Database holds the configuration for the database.
type Database struct {
	DSN string `mapstructure:"dsn"`
}

// Logger holds the configuration for the logger.
type Logger struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
	// Service is attached to every log line as the "service" field.
	Service string `mapstructure:"service"`
}

// LoadConfig reads configuration from file or environment variables.
// A missing config file is not an error; defaults and environment apply.
func LoadConfig(path string) (config Config, err error) {
	v := viper.New()
	v.AddConfigPath(path)
	v.SetConfigName("config")
	v.SetConfigType("yml")

	// Allow environment variables to override config file
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	setDefaults(v)

	if err = v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return
		}
		err = nil
	}

	err = v.Unmarshal(&config)
	return
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("subgraph.url", "https://api.goldsky.com/api/public/project_cmjjrebt3mxpt01rm9yi04vqq/subgraphs/pump-charts/v2/gn")
	v.SetDefault("subgraph.rate_limit", 10) // requests per second
	v.SetDefault("subgraph.rate_limit_burst", 5)
	v.SetDefault("subgraph.max_retries", 3)
	v.SetDefault("subgraph.timeout", 10*time.Second)
	v.SetDefault("subgraph.curve_limit", 50)

	v.SetDefault("ledger.seed_balance", 100)
	v.SetDefault("ledger.history_limit", 50)
	v.SetDefault("ledger.store", "memory")

	v.SetDefault("redis.enabled", false)
	v.SetDefault("redis.addr", "localhost:6379")
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)
	v.SetDefault("redis.ttl", 30*time.Second)
	v.SetDefault("redis.refresh_interval", 20*time.Second)

	// Registered so OPENAI_API_KEY and OPENAI_BASE_URL reach Unmarshal.
	v.SetDefault("openai.api_key", "")
	v.SetDefault("openai.base_url", "")
	v.SetDefault("openai.model", "gpt-4o-mini")
	v.SetDefault("openai.max_tokens", 500)
	v.SetDefault("openai.ipfs_gateway", "https://olive-defensive-giraffe-83.mypinata.cloud")
	v.SetDefault("openai.metadata_timeout", 5*time.Second)

	v.SetDefault("server.port", 8080)
	v.SetDefault("server.shutdown_timeout", 10*time.Second)

	v.SetDefault("database.dsn", "curves.db")

	v.SetDefault("logger.level", "info")
	v.SetDefault("logger.format", "console")
	v.SetDefault("logger.service", "curve-trade-sim")
}
