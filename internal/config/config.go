package config

import (
	"errors"
	"fmt"
	"reflect"
	"strconv"
	"strings"
	"time"

	"github.com/mitchellh/mapstructure"
	"github.com/spf13/viper"
)

const (
	EnvPrefix = "ELSEVIER"

	DefaultBaseURL       = "https://api.elsevier.com"
	DefaultSearchTimeout = 15 * time.Second
	DefaultLookupTimeout = 10 * time.Second
	DefaultLogLevel      = "info"
	DefaultHTTPAddr      = "127.0.0.1:8080"
)

var (
	ErrMissingAPIKey = errors.New("ELSEVIER_API_KEY is required")
	ErrInvalidURL    = errors.New("base_url must be an http(s) URL")
)

// Config holds the process-wide settings. It is read-only once loaded.
type Config struct {
	APIKey        string        `mapstructure:"api_key"`
	InstToken     string        `mapstructure:"insttoken"`
	BaseURL       string        `mapstructure:"base_url"`
	SearchTimeout time.Duration `mapstructure:"search_timeout"`
	LookupTimeout time.Duration `mapstructure:"lookup_timeout"`
	LogLevel      string        `mapstructure:"log_level"`
	HTTPAddr      string        `mapstructure:"http_addr"`
}

// Defaults returns a Config with every optional field populated.
func Defaults() Config {
	return Config{
		BaseURL:       DefaultBaseURL,
		SearchTimeout: DefaultSearchTimeout,
		LookupTimeout: DefaultLookupTimeout,
		LogLevel:      DefaultLogLevel,
		HTTPAddr:      DefaultHTTPAddr,
	}
}

// HasInstToken reports whether full-text requests can carry an institution token.
func (c Config) HasInstToken() bool {
	return c.InstToken != ""
}

// Validate checks required fields and normalizes the rest in place.
func (c *Config) Validate() error {
	c.APIKey = strings.TrimSpace(c.APIKey)
	c.InstToken = strings.TrimSpace(c.InstToken)
	if c.APIKey == "" {
		return ErrMissingAPIKey
	}

	c.BaseURL = strings.TrimRight(strings.TrimSpace(c.BaseURL), "/")
	if c.BaseURL == "" {
		c.BaseURL = DefaultBaseURL
	}
	if !strings.HasPrefix(c.BaseURL, "http://") && !strings.HasPrefix(c.BaseURL, "https://") {
		return fmt.Errorf("%w: %q", ErrInvalidURL, c.BaseURL)
	}

	if c.SearchTimeout <= 0 {
		c.SearchTimeout = DefaultSearchTimeout
	}
	if c.LookupTimeout <= 0 {
		c.LookupTimeout = DefaultLookupTimeout
	}
	if c.LogLevel == "" {
		c.LogLevel = DefaultLogLevel
	}
	if c.HTTPAddr == "" {
		c.HTTPAddr = DefaultHTTPAddr
	}
	return nil
}

// Load reads configuration from the environment (ELSEVIER_*) and, when
// configFile is set, from that file. Environment values win over the file.
func Load(configFile string) (Config, error) {
	v := viper.New()
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	setDefaults(v)

	if configFile != "" {
		v.SetConfigFile(configFile)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("failed to read config file %s: %w", configFile, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg, viper.DecodeHook(decodeHook())); err != nil {
		return Config{}, fmt.Errorf("failed to decode config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	d := Defaults()
	// AutomaticEnv only resolves keys viper already knows about.
	v.SetDefault("api_key", "")
	v.SetDefault("insttoken", "")
	v.SetDefault("base_url", d.BaseURL)
	v.SetDefault("search_timeout", d.SearchTimeout.String())
	v.SetDefault("lookup_timeout", d.LookupTimeout.String())
	v.SetDefault("log_level", d.LogLevel)
	v.SetDefault("http_addr", d.HTTPAddr)
}

func decodeHook() mapstructure.DecodeHookFunc {
	return mapstructure.ComposeDecodeHookFunc(
		secondsToDurationHookFunc(),
		mapstructure.StringToTimeDurationHookFunc(),
	)
}

// secondsToDurationHookFunc treats bare numbers as seconds, so "timeout: 15"
// in a config file means 15s rather than 15ns.
func secondsToDurationHookFunc() mapstructure.DecodeHookFuncType {
	return func(f reflect.Type, t reflect.Type, data interface{}) (interface{}, error) {
		if t != reflect.TypeOf(time.Duration(0)) {
			return data, nil
		}
		switch n := data.(type) {
		case int:
			return time.Duration(n) * time.Second, nil
		case int64:
			return time.Duration(n) * time.Second, nil
		case float64:
			return time.Duration(n * float64(time.Second)), nil
		case string:
			if secs, err := strconv.Atoi(strings.TrimSpace(n)); err == nil {
				return time.Duration(secs) * time.Second, nil
			}
		}
		return data, nil
	}
}
