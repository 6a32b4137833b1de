// Package config loads the studio's application configuration from a YAML or
// TOML file, with PROMPT_* environment variables taking precedence.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	"prompt_page_studio/kickstarters"
)

type Config struct {
	LogLevel     string              `yaml:"log_level" toml:"log_level"`
	Server       ServerConfig        `yaml:"server" toml:"server"`
	Store        StoreConfig         `yaml:"store" toml:"store"`
	LLM          LLMConfig           `yaml:"llm" toml:"llm"`
	Kickstarters kickstarters.Limits `yaml:"kickstarters" toml:"kickstarters"`
	Events       EventsConfig        `yaml:"events" toml:"events"`
	Publisher    PublisherConfig     `yaml:"publisher" toml:"publisher"`
}

type ServerConfig struct {
	Addr string `yaml:"addr" toml:"addr"`
	// PublicBaseURL is where public prompt pages live; embed links point here.
	PublicBaseURL string `yaml:"public_base_url" toml:"public_base_url"`
	// AssetBaseURL hosts the emoji images; empty means PublicBaseURL/emoji.
	AssetBaseURL string   `yaml:"asset_base_url" toml:"asset_base_url"`
	SessionTTL   Duration `yaml:"session_ttl" toml:"session_ttl"`
}

type StoreConfig struct {
	// Driver is "memory" or "postgres".
	Driver        string   `yaml:"driver" toml:"driver"`
	DSN           string   `yaml:"dsn" toml:"dsn"`
	RedisAddr     string   `yaml:"redis_addr" toml:"redis_addr"`
	RedisPassword string   `yaml:"redis_password" toml:"redis_password"`
	RedisDB       int      `yaml:"redis_db" toml:"redis_db"`
	CacheTTL      Duration `yaml:"cache_ttl" toml:"cache_ttl"`
}

type LLMConfig struct {
	// Provider is "mock", "openai" or "deepseek" (any OpenAI-compatible endpoint).
	Provider       string   `yaml:"provider" toml:"provider"`
	Model          string   `yaml:"model" toml:"model"`
	APIKey         string   `yaml:"api_key" toml:"api_key"`
	BaseURL        string   `yaml:"base_url" toml:"base_url"`
	RPS            float64  `yaml:"rps" toml:"rps"`
	Burst          int      `yaml:"burst" toml:"burst"`
	BreakerTimeout Duration `yaml:"breaker_timeout" toml:"breaker_timeout"`
}

type EventsConfig struct {
	// NATSURL enables event publishing when set.
	NATSURL string `yaml:"nats_url" toml:"nats_url"`
}

type PublisherConfig struct {
	// Bucket enables page snapshots on publish when set.
	Bucket   string `yaml:"bucket" toml:"bucket"`
	Region   string `yaml:"region" toml:"region"`
	Endpoint string `yaml:"endpoint" toml:"endpoint"`
	Prefix   string `yaml:"prefix" toml:"prefix"`
}

// Duration reads "90s"-style strings from either file format.
type Duration struct {
	time.Duration
}

func (d *Duration) UnmarshalText(b []byte) error {
	v, err := time.ParseDuration(strings.TrimSpace(string(b)))
	if err != nil {
		return err
	}
	d.Duration = v
	return nil
}

func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

func (d *Duration) UnmarshalYAML(n *yaml.Node) error {
	return d.UnmarshalText([]byte(n.Value))
}

// Default is a runnable local setup: in-memory store, mock model, no events,
// no page snapshots.
func Default() Config {
	return Config{
		LogLevel: "info",
		Server: ServerConfig{
			Addr:          ":8080",
			PublicBaseURL: "http://localhost:8080",
			SessionTTL:    Duration{2 * time.Hour},
		},
		Store: StoreConfig{
			Driver:   "memory",
			CacheTTL: Duration{10 * time.Minute},
		},
		LLM: LLMConfig{
			Provider:       "mock",
			RPS:            2,
			Burst:          4,
			BreakerTimeout: Duration{30 * time.Second},
		},
		Kickstarters: kickstarters.DefaultLimits(),
		Publisher: PublisherConfig{
			Region: "us-east-1",
			Prefix: "pages/",
		},
	}
}

// Load reads path over Default (an empty path skips the file), applies env
// overrides and validates the result.
func Load(path string) (Config, error) {
	cfg := Default()
	if path != "" {
		if err := decodeFile(path, &cfg); err != nil {
			return Config{}, err
		}
	}
	if err := applyEnv(&cfg); err != nil {
		return Config{}, err
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func decodeFile(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config: %w", err)
	}
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".yaml", ".yml":
		dec := yaml.NewDecoder(bytes.NewReader(data))
		dec.KnownFields(true)
		if err := dec.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
			return fmt.Errorf("parse %s: %w", path, err)
		}
	case ".toml":
		md, err := toml.Decode(string(data), cfg)
		if err != nil {
			return fmt.Errorf("parse %s: %w", path, err)
		}
		if undecoded := md.Undecoded(); len(undecoded) > 0 {
			return fmt.Errorf("parse %s: unknown keys %v", path, undecoded)
		}
	default:
		return fmt.Errorf("unsupported config format %q (want .yaml, .yml or .toml)", ext)
	}
	return nil
}

func applyEnv(c *Config) error {
	c.LogLevel = envOrDefault("PROMPT_LOG_LEVEL", c.LogLevel)
	c.Server.Addr = envOrDefault("PROMPT_ADDR", c.Server.Addr)
	c.Server.PublicBaseURL = envOrDefault("PROMPT_PUBLIC_BASE_URL", c.Server.PublicBaseURL)
	c.Server.AssetBaseURL = envOrDefault("PROMPT_ASSET_BASE_URL", c.Server.AssetBaseURL)
	c.Store.Driver = envOrDefault("PROMPT_STORE_DRIVER", c.Store.Driver)
	c.Store.DSN = envOrDefault("PROMPT_DATABASE_URL", c.Store.DSN)
	c.Store.RedisAddr = envOrDefault("PROMPT_REDIS_ADDR", c.Store.RedisAddr)
	c.Store.RedisPassword = envOrDefault("PROMPT_REDIS_PASSWORD", c.Store.RedisPassword)
	c.LLM.Provider = envOrDefault("PROMPT_LLM_PROVIDER", c.LLM.Provider)
	c.LLM.Model = envOrDefault("PROMPT_LLM_MODEL", c.LLM.Model)
	c.LLM.APIKey = envOrDefault("PROMPT_LLM_API_KEY", envOrDefault("OPENAI_API_KEY", c.LLM.APIKey))
	c.LLM.BaseURL = envOrDefault("PROMPT_LLM_BASE_URL", c.LLM.BaseURL)
	c.Events.NATSURL = envOrDefault("PROMPT_NATS_URL", c.Events.NATSURL)
	c.Publisher.Bucket = envOrDefault("PROMPT_S3_BUCKET", c.Publisher.Bucket)
	c.Publisher.Region = envOrDefault("PROMPT_S3_REGION", c.Publisher.Region)
	c.Publisher.Endpoint = envOrDefault("PROMPT_S3_ENDPOINT", c.Publisher.Endpoint)

	if v := os.Getenv("PROMPT_SELECTION_CAP"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("PROMPT_SELECTION_CAP: %w", err)
		}
		c.Kickstarters.SelectionCap = n
	}
	if v := os.Getenv("PROMPT_SESSION_TTL"); v != "" {
		if err := c.Server.SessionTTL.UnmarshalText([]byte(v)); err != nil {
			return fmt.Errorf("PROMPT_SESSION_TTL: %w", err)
		}
	}
	return nil
}

func envOrDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// Validate checks the settings that would otherwise fail at first use.
func (c Config) Validate() error {
	switch c.Store.Driver {
	case "memory":
	case "postgres":
		if c.Store.DSN == "" {
			return errors.New("store.dsn is required for the postgres driver")
		}
	default:
		return fmt.Errorf("unknown store driver %q", c.Store.Driver)
	}
	switch c.LLM.Provider {
	case "mock":
	case "openai":
		if c.LLM.APIKey == "" {
			return errors.New("llm.api_key is required for the openai provider")
		}
	case "deepseek":
		if c.LLM.BaseURL == "" {
			return errors.New("llm provider deepseek requires base_url (OpenAI-compatible endpoint)")
		}
	default:
		return fmt.Errorf("llm provider %s not supported", c.LLM.Provider)
	}
	if c.Kickstarters.SelectionCap < 0 || c.Kickstarters.MaxQuestionLength < 0 {
		return errors.New("kickstarter limits must not be negative")
	}
	return nil
}
