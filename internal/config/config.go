package config

import (
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/spf13/viper"
)

const envPrefix = "WIKIQA"

// QA backends
const (
	BackendSquad       = "squad"
	BackendHuggingFace = "huggingface"
)

type QAConfig struct {
	Backend               string `mapstructure:"backend" json:"backend"`
	URL                   string `mapstructure:"url" json:"url"`
	Model                 string `mapstructure:"model" json:"model"`
	ModelType             string `mapstructure:"model_type" json:"model_type"`
	APIKey                string `mapstructure:"api_key" json:"-"`
	NBestSize             int    `mapstructure:"n_best_size" json:"n_best_size"`
	TimeoutSeconds        int    `mapstructure:"timeout_seconds" json:"timeout_seconds"`
	MaxRetries            int    `mapstructure:"max_retries" json:"max_retries"`
	BreakerThreshold      int    `mapstructure:"breaker_threshold" json:"breaker_threshold"`
	BreakerTimeoutSeconds int    `mapstructure:"breaker_timeout_seconds" json:"breaker_timeout_seconds"`
}

type WikipediaConfig struct {
	APIURL            string  `mapstructure:"api_url" json:"api_url"`
	UserAgent         string  `mapstructure:"user_agent" json:"user_agent"`
	SummaryChars      int     `mapstructure:"summary_chars" json:"summary_chars"`
	SearchLimit       int     `mapstructure:"search_limit" json:"search_limit"`
	RequestsPerSecond float64 `mapstructure:"requests_per_second" json:"requests_per_second"`
	TimeoutSeconds    int     `mapstructure:"timeout_seconds" json:"timeout_seconds"`
	MaxRetries        int     `mapstructure:"max_retries" json:"max_retries"`
}

type Config struct {
	Server struct {
		Host    string `mapstructure:"host" json:"host"`
		Port    int    `mapstructure:"port" json:"port"`
		Subpath string `mapstructure:"subpath" json:"subpath"`
	} `mapstructure:"server" json:"server"`
	Redis struct {
		Enabled  bool   `mapstructure:"enabled" json:"enabled"`
		Addr     string `mapstructure:"addr" json:"addr"`
		Password string `mapstructure:"password" json:"-"`
		DB       int    `mapstructure:"db" json:"db"`
	} `mapstructure:"redis" json:"redis"`
	Cache struct {
		TTLSeconds int `mapstructure:"ttl_seconds" json:"ttl_seconds"`
		MaxEntries int `mapstructure:"max_entries" json:"max_entries"`
	} `mapstructure:"cache" json:"cache"`
	Database struct {
		Driver string `mapstructure:"driver" json:"driver"`
		DSN    string `mapstructure:"dsn" json:"-"`
	} `mapstructure:"database" json:"database"`
	QA        QAConfig        `mapstructure:"qa" json:"qa"`
	Wikipedia WikipediaConfig `mapstructure:"wikipedia" json:"wikipedia"`
	UI        struct {
		Title            string `mapstructure:"title" json:"title"`
		QuestionMaxChars int    `mapstructure:"question_max_chars" json:"question_max_chars"`
	} `mapstructure:"ui" json:"ui"`
}

var (
	once   sync.Once
	cfg    *Config
	cfgErr error
)

// setDefaults registers every key so env overrides resolve even when the
// file omits a section.
func setDefaults(v *viper.Viper) {
	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.port", 8501)
	v.SetDefault("server.subpath", "")

	v.SetDefault("redis.enabled", false)
	v.SetDefault("redis.addr", "localhost:6379")
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)

	v.SetDefault("cache.ttl_seconds", 3600)
	v.SetDefault("cache.max_entries", 1024)

	v.SetDefault("database.driver", "")
	v.SetDefault("database.dsn", "")

	v.SetDefault("qa.backend", BackendSquad)
	v.SetDefault("qa.url", "")
	v.SetDefault("qa.model", "Ifenna/dbert-3epoch")
	v.SetDefault("qa.model_type", "distilbert")
	v.SetDefault("qa.api_key", "")
	v.SetDefault("qa.n_best_size", 10)
	v.SetDefault("qa.timeout_seconds", 60)
	v.SetDefault("qa.max_retries", 3)
	v.SetDefault("qa.breaker_threshold", 3)
	v.SetDefault("qa.breaker_timeout_seconds", 60)

	v.SetDefault("wikipedia.api_url", "https://en.wikipedia.org/w/api.php")
	v.SetDefault("wikipedia.user_agent", "wikiqa/1.0 (information retrieval demo)")
	v.SetDefault("wikipedia.summary_chars", 384)
	v.SetDefault("wikipedia.search_limit", 10)
	v.SetDefault("wikipedia.requests_per_second", 2.0)
	v.SetDefault("wikipedia.timeout_seconds", 10)
	v.SetDefault("wikipedia.max_retries", 2)

	v.SetDefault("ui.title", "Information retrieval")
	v.SetDefault("ui.question_max_chars", 128)
}

func load(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)
	v.SetConfigFile(path)
	v.SetConfigType("json")
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}
	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return nil, fmt.Errorf("invalid config format: %w", err)
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return &c, nil
}

// Default returns a config holding only the built-in defaults.
func Default() *Config {
	v := viper.New()
	setDefaults(v)
	var c Config
	_ = v.Unmarshal(&c)
	return &c
}

// Validate checks the fields the server cannot run without.
func (c *Config) Validate() error {
	if c.QA.URL == "" {
		return errors.New("qa.url must be set in config")
	}
	switch c.QA.Backend {
	case BackendSquad, BackendHuggingFace:
	default:
		return fmt.Errorf("unknown qa.backend %q", c.QA.Backend)
	}
	switch c.Database.Driver {
	case "", "postgres", "sqlite":
	default:
		return fmt.Errorf("unknown database.driver %q", c.Database.Driver)
	}
	if c.UI.QuestionMaxChars <= 0 {
		return errors.New("ui.question_max_chars must be positive")
	}
	return nil
}

// LoadConfig reads the config file from disk (singleton)
func LoadConfig(path string) (*Config, error) {
	once.Do(func() {
		cfg, cfgErr = load(path)
	})
	return cfg, cfgErr
}

// GetConfig returns the loaded config (must call LoadConfig first)
func GetConfig() *Config {
	return cfg
}

// ResetConfigForTest resets the singleton state (for testing only)
func ResetConfigForTest() {
	once = sync.Once{}
	cfg = nil
	cfgErr = nil
}
