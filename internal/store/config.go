package store

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"

	"smart-send/internal/policy"
)

type Config struct {
	LLM struct {
		Provider          string        `yaml:"provider" validate:"required,oneof=GROQ OPENAI CLAUDE"`
		Model             string        `yaml:"model" validate:"required"`
		BaseURL           string        `yaml:"base_url" validate:"omitempty,url"`
		MaxTokens         int           `yaml:"max_tokens" validate:"gte=0"`
		Temperature       float32       `yaml:"temperature" validate:"gte=0,lte=2"`
		Timeout           time.Duration `yaml:"timeout" validate:"gt=0"`
		RequestsPerMinute int           `yaml:"requests_per_minute" validate:"gte=0"`
	} `yaml:"llm"`
	Pipeline struct {
		FanOut     bool          `yaml:"fan_out"`
		PolicyMode string        `yaml:"policy_mode" validate:"policymode"`
		Retries    int           `yaml:"retries" validate:"gte=0,lte=5"`
		RetryWait  time.Duration `yaml:"retry_wait" validate:"gte=0"`
	} `yaml:"pipeline"`
	Capabilities struct {
		LookupTimeout time.Duration `yaml:"lookup_timeout" validate:"gte=0"`
		Rates         struct {
			Enabled  bool          `yaml:"enabled"`
			Endpoint string        `yaml:"endpoint" validate:"omitempty,url"`
			CacheDir string        `yaml:"cache_dir"`
			CacheTTL time.Duration `yaml:"cache_ttl" validate:"gte=0"`
		} `yaml:"rates"`
		Headlines struct {
			Enabled bool `yaml:"enabled"`
			Max     int  `yaml:"max" validate:"gte=0,lte=20"`
		} `yaml:"headlines"`
	} `yaml:"capabilities"`
	Journal struct {
		Enabled       bool   `yaml:"enabled"`
		Dir           string `yaml:"dir" validate:"required_if=Enabled true"`
		RetentionDays int    `yaml:"retention_days" validate:"gte=0"`
	} `yaml:"journal"`
}

var validate = func() *validator.Validate {
	v := validator.New()
	_ = v.RegisterValidation("policymode", func(fl validator.FieldLevel) bool {
		s := strings.ToUpper(strings.TrimSpace(fl.Field().String()))
		return s == "" || s == string(policy.ModeAdvisory) || s == string(policy.ModeEnforced)
	})
	return v
}()

// Default is the configuration used when no config file exists.
func Default() *Config {
	var c Config
	c.LLM.Provider = "GROQ"
	c.LLM.Model = "llama-3.3-70b-versatile"
	c.LLM.MaxTokens = 512
	c.LLM.Temperature = 0.3
	c.LLM.Timeout = 60 * time.Second
	c.Pipeline.FanOut = true
	c.Pipeline.PolicyMode = string(policy.ModeEnforced)
	c.Pipeline.RetryWait = time.Second
	c.Capabilities.LookupTimeout = 10 * time.Second
	c.Capabilities.Rates.Endpoint = "https://open.er-api.com/v6/latest"
	c.Capabilities.Rates.CacheTTL = time.Hour
	c.Capabilities.Headlines.Max = 5
	c.Journal.Dir = "logs"
	c.Journal.RetentionDays = 14
	return &c
}

func (c *Config) Mode() policy.Mode {
	return policy.ParseMode(c.Pipeline.PolicyMode)
}

func (c *Config) Validate() error {
	c.LLM.Provider = strings.ToUpper(strings.TrimSpace(c.LLM.Provider))
	if err := validate.Struct(c); err != nil {
		return err
	}
	if c.Capabilities.Rates.Enabled && c.Capabilities.Rates.Endpoint == "" {
		return errors.New("capabilities.rates.endpoint is required when rates are enabled")
	}
	if c.Capabilities.Headlines.Enabled && c.Capabilities.Headlines.Max == 0 {
		return errors.New("capabilities.headlines.max must be positive when headlines are enabled")
	}
	return nil
}

// LoadConfig reads path over the defaults. A missing file yields Default().
func LoadConfig(path string) (*Config, error) {
	c := Default()

	b, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return c, nil
	}
	if err != nil {
		return nil, err
	}
	if err := yaml.Unmarshal(b, c); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}

	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}
	return c, nil
}
