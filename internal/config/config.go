package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/pelletier/go-toml/v2"

	"blogsearch/internal/domain"
	"blogsearch/internal/eventbus"
)

// Content source kinds
const (
	SourceFS = "fs"
	SourceS3 = "s3"
)

// MaxSearchLimit is the largest accepted search.limit
const MaxSearchLimit = 10

// Config represents the application configuration
type Config struct {
	Version int             `toml:"version"`
	Content ContentSettings `toml:"content"`
	Search  SearchSettings  `toml:"search"`
	History HistorySettings `toml:"history"`
	UI      UISettings      `toml:"ui"`
}

// ContentSettings select where articles are read from
type ContentSettings struct {
	Source string     `toml:"source"` // fs or s3
	Dir    string     `toml:"dir"`
	Watch  bool       `toml:"watch"`
	S3     S3Settings `toml:"s3"`
}

// S3Settings locate articles in an object store. Credentials come from the
// environment only.
type S3Settings struct {
	Bucket          string `toml:"bucket"`
	Prefix          string `toml:"prefix"`
	Region          string `toml:"region"`
	Endpoint        string `toml:"endpoint"`
	AccessKeyID     string `toml:"-"`
	SecretAccessKey string `toml:"-"`
}

// SearchSettings tune the query pipeline
type SearchSettings struct {
	Limit      int `toml:"limit"`
	DebounceMS int `toml:"debounce_ms"`
}

// HistorySettings select the history backend
type HistorySettings struct {
	Backend string `toml:"backend"` // file, bolt, sqlite or memory
	Path    string `toml:"path"`
	Key     string `toml:"key"`
}

// UISettings represents UI-related configuration
type UISettings struct {
	ShowBodyPreview bool `toml:"show_body_preview"`
}

// Debounce returns the search quiet period
func (c *Config) Debounce() time.Duration {
	return time.Duration(c.Search.DebounceMS) * time.Millisecond
}

// HistoryPath returns the configured history location or a default next to
// the config file
func (c *Config) HistoryPath() string {
	if c.History.Path != "" {
		return c.History.Path
	}
	name := "history.json"
	switch c.History.Backend {
	case "bolt":
		name = "history.db"
	case "sqlite":
		name = "history.sqlite"
	}
	return filepath.Join(configDir(), name)
}

// Validate rejects settings the application cannot run with
func (c *Config) Validate() error {
	var errs []error
	switch c.Content.Source {
	case SourceFS:
		if c.Content.Dir == "" {
			errs = append(errs, errors.New("content.dir is required for the fs source"))
		}
	case SourceS3:
		if c.Content.S3.Bucket == "" {
			errs = append(errs, errors.New("content.s3.bucket is required for the s3 source"))
		}
		if c.Content.Watch {
			errs = append(errs, errors.New("content.watch is only supported for the fs source"))
		}
	default:
		errs = append(errs, fmt.Errorf("unknown content.source %q", c.Content.Source))
	}
	if c.Search.Limit <= 0 || c.Search.Limit > MaxSearchLimit {
		errs = append(errs, fmt.Errorf("search.limit must be between 1 and %d, got %d", MaxSearchLimit, c.Search.Limit))
	}
	if c.Search.DebounceMS < 0 {
		errs = append(errs, fmt.Errorf("search.debounce_ms must not be negative, got %d", c.Search.DebounceMS))
	}
	switch c.History.Backend {
	case "file", "bolt", "sqlite", "memory":
	default:
		errs = append(errs, fmt.Errorf("unknown history.backend %q", c.History.Backend))
	}
	return errors.Join(errs...)
}

// ConfigService handles configuration management
type ConfigService interface {
	Load() (*Config, error)
	Save(config *Config) error
	LoadFromPath(path string) (*Config, error)
	SaveToPath(config *Config, path string) error
}

// configService is the concrete implementation
type configService struct {
	bus      eventbus.EventBus
	filePath string
}

func configDir() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		// Fallback to home directory
		dir, err = os.UserHomeDir()
		if err != nil {
			dir = "."
		}
		dir = filepath.Join(dir, ".config")
	}
	return filepath.Join(dir, "blogsearch")
}

// DefaultPath is where Load and Save look
func DefaultPath() string {
	return filepath.Join(configDir(), "config.toml")
}

// NewConfigService creates a new config service
func NewConfigService() ConfigService {
	return &configService{filePath: DefaultPath()}
}

// NewConfigServiceWithBus creates a config service with event bus support
func NewConfigServiceWithBus(bus eventbus.EventBus) ConfigService {
	cs := NewConfigService().(*configService)
	cs.bus = bus
	return cs
}

// Load loads the configuration from the default file. A missing file yields
// the defaults.
func (cs *configService) Load() (*Config, error) {
	var cfg *Config
	if _, err := os.Stat(cs.filePath); os.IsNotExist(err) {
		cfg = DefaultConfig()
		applyEnv(cfg)
	} else {
		cfg, err = cs.LoadFromPath(cs.filePath)
		if err != nil {
			return nil, err
		}
	}

	if cs.bus != nil {
		cs.bus.Publish(domain.ConfigLoadedEvent{Path: cs.filePath})
	}
	return cfg, nil
}

// Save saves the configuration to the default file
func (cs *configService) Save(config *Config) error {
	if err := cs.SaveToPath(config, cs.filePath); err != nil {
		return err
	}
	if cs.bus != nil {
		cs.bus.Publish(domain.ConfigSavedEvent{Path: cs.filePath})
	}
	return nil
}

// LoadFromPath loads configuration from a specific path. Keys absent from the
// file keep their defaults.
func (cs *configService) LoadFromPath(path string) (*Config, error) {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil, fmt.Errorf("config file not found: %s", path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg := DefaultConfig()
	if err := toml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	applyEnv(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", path, err)
	}
	return cfg, nil
}

// SaveToPath saves configuration to a specific path
func (cs *configService) SaveToPath(config *Config, path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := toml.Marshal(config)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}

func applyEnv(cfg *Config) {
	if v := os.Getenv("AWS_ACCESS_KEY_ID"); v != "" {
		cfg.Content.S3.AccessKeyID = v
	}
	if v := os.Getenv("AWS_SECRET_ACCESS_KEY"); v != "" {
		cfg.Content.S3.SecretAccessKey = v
	}
	if cfg.Content.S3.Region == "" {
		cfg.Content.S3.Region = os.Getenv("AWS_REGION")
	}
}

// DefaultConfig returns the default configuration
func DefaultConfig() *Config {
	return &Config{
		Version: 1,
		Content: ContentSettings{
			Source: SourceFS,
			Dir:    "content",
			S3: S3Settings{
				Prefix: "content/",
				Region: "us-east-1",
			},
		},
		Search: SearchSettings{
			Limit:      10,
			DebounceMS: 200,
		},
		History: HistorySettings{
			Backend: "file",
			Key:     "blog-search-history",
		},
		UI: UISettings{
			ShowBodyPreview: true,
		},
	}
}
