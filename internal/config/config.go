package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"slices"
	"sort"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/ppiankov/feedcache/internal/feedcache"
	"github.com/ppiankov/feedcache/internal/logging"
	"github.com/ppiankov/feedcache/internal/source"
	"github.com/ppiankov/feedcache/internal/store"
)

const (
	DefaultConfigFile = "config.yaml"
	DefaultDBPath     = ".feedcache/feedcache.db"
	AccountEnv        = "FEEDCACHE_ACCOUNT"
)

// Duration wraps time.Duration for YAML unmarshaling from strings like "30s".
type Duration struct {
	time.Duration
}

func (d *Duration) UnmarshalYAML(value *yaml.Node) error {
	var s string
	if err := value.Decode(&s); err != nil {
		return err
	}
	parsed, err := time.ParseDuration(s)
	if err != nil {
		return fmt.Errorf("parse duration %q: %w", s, err)
	}
	d.Duration = parsed
	return nil
}

type Config struct {
	Account string       `yaml:"account"`
	Cache   CacheConfig  `yaml:"cache"`
	Source  SourceConfig `yaml:"source"`
	Log     LogConfig    `yaml:"log"`

	// Keys present in the file that feedcache does not recognise, dotted
	// (e.g. "cache.ttl"). They are ignored.
	Unknown []string `yaml:"-"`
}

type CacheConfig struct {
	Backend     string `yaml:"backend"`
	Location    string `yaml:"location"`
	DBPath      string `yaml:"db_path"`
	MaxAgeHours *int   `yaml:"max_age_hours"`
}

type SourceConfig struct {
	Endpoint string   `yaml:"endpoint"`
	Timeout  Duration `yaml:"timeout"`
}

type LogConfig struct {
	Level string `yaml:"level"`
}

var knownKeys = map[string][]string{
	"":       {"account", "cache", "source", "log"},
	"cache":  {"backend", "location", "db_path", "max_age_hours"},
	"source": {"endpoint", "timeout"},
	"log":    {"level"},
}

// Load reads config.yaml from dir, applies defaults, resolves env vars, and validates.
func Load(dir string) (*Config, error) {
	if strings.TrimSpace(dir) == "" {
		return nil, errors.New("config dir is required")
	}

	data, err := os.ReadFile(filepath.Join(dir, DefaultConfigFile))
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	return Parse(data)
}

// Parse decodes YAML config data, applies defaults, resolves env vars, and validates.
func Parse(data []byte) (*Config, error) {
	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	var cfg Config
	if len(doc.Content) > 0 {
		if err := doc.Decode(&cfg); err != nil {
			return nil, fmt.Errorf("parse config: %w", err)
		}
		cfg.Unknown = unknownKeys(doc.Content[0], "")
	}

	applyDefaults(&cfg)
	resolveEnv(&cfg)

	if err := validate(&cfg); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}

	return &cfg, nil
}

// FeedCache returns the cache configuration derived from cfg.
func (c *Config) FeedCache() feedcache.Config {
	return feedcache.Config{
		Account:          c.Account,
		CacheLocation:    c.Cache.Location,
		MaxCacheAgeHours: c.Cache.MaxAgeHours,
	}
}

func applyDefaults(cfg *Config) {
	if cfg.Cache.Backend == "" {
		cfg.Cache.Backend = store.BackendFile
	}
	cfg.Cache.Backend = strings.ToLower(cfg.Cache.Backend)
	if cfg.Cache.Backend == store.BackendSQLite && cfg.Cache.DBPath == "" {
		cfg.Cache.DBPath = DefaultDBPath
	}
	if cfg.Source.Endpoint == "" {
		cfg.Source.Endpoint = source.DefaultEndpoint
	}
	if cfg.Source.Timeout.Duration == 0 {
		cfg.Source.Timeout.Duration = source.DefaultTimeout
	}
	if cfg.Log.Level == "" {
		cfg.Log.Level = logging.DefaultLevel
	}
}

func resolveEnv(cfg *Config) {
	if account := strings.TrimSpace(os.Getenv(AccountEnv)); account != "" {
		cfg.Account = account
	}
}

func validate(cfg *Config) error {
	switch cfg.Cache.Backend {
	case store.BackendFile, store.BackendSQLite:
		// valid
	default:
		return fmt.Errorf("cache.backend: unknown backend %q (want file or sqlite)", cfg.Cache.Backend)
	}

	if cfg.Source.Timeout.Duration < 0 {
		return fmt.Errorf("source.timeout: must not be negative, got %s", cfg.Source.Timeout.Duration)
	}

	u, err := url.Parse(cfg.Source.Endpoint)
	if err != nil {
		return fmt.Errorf("source.endpoint: %w", err)
	}
	if (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("source.endpoint: %q must be an absolute http(s) URL", cfg.Source.Endpoint)
	}

	return nil
}

func unknownKeys(node *yaml.Node, prefix string) []string {
	if node == nil || node.Kind != yaml.MappingNode {
		return nil
	}

	var unknown []string
	for i := 0; i+1 < len(node.Content); i += 2 {
		key := node.Content[i].Value
		path := key
		if prefix != "" {
			path = prefix + "." + key
		}

		if !slices.Contains(knownKeys[prefix], key) {
			unknown = append(unknown, path)
			continue
		}
		if _, nested := knownKeys[path]; nested {
			unknown = append(unknown, unknownKeys(node.Content[i+1], path)...)
		}
	}

	sort.Strings(unknown)
	return unknown
}
