package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strconv"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

var (
	ErrRequiredOptions = errors.New("the host, port and language options are required when no config file defines them")
	ErrInvalidPort     = errors.New("port not in range 1-65535")
)

// DefaultFiles are looked up in the working directory when no config file is given.
var DefaultFiles = []string{"prosecheck.yaml", "prosecheck.yml", "prosecheck.toml"}

// DefaultDisabledRules are disabled unless NoDefaultDisabledRules is set.
var DefaultDisabledRules = []string{"WHITESPACE_RULE"}

type Config struct {
	Host     string `yaml:"host" toml:"host"`
	Port     int    `yaml:"port" toml:"port"`
	Language string `yaml:"language" toml:"language"`
	Picky    bool   `yaml:"picky" toml:"picky"`

	DisabledRules      []string `yaml:"disabled_rules" toml:"disabled_rules"`
	DisabledCategories []string `yaml:"disabled_categories" toml:"disabled_categories"`
	IgnoreWords        []string `yaml:"ignore_words" toml:"ignore_words"` // case sensitive

	Concurrency            int  `yaml:"concurrency" toml:"concurrency"` // 0 means unbounded
	NoDefaultDisabledRules bool `yaml:"no_default_disabled_rules" toml:"no_default_disabled_rules"`
}

// Overrides are command line values. Nil fields leave the file value alone.
type Overrides struct {
	Host                   *string
	Port                   *int
	Language               *string
	Picky                  *bool
	DisabledRules          []string
	DisabledCategories     []string
	IgnoreWords            []string
	Concurrency            *int
	NoDefaultDisabledRules *bool
}

// LoadConfig reads a YAML or TOML config file, chosen by extension.
func LoadConfig(path string) (*Config, error) {
	file, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var cfg Config
	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		if err := toml.Unmarshal(file, &cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
		}
	default:
		if err := yaml.Unmarshal(file, &cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
		}
	}
	return &cfg, nil
}

// Discover returns the first default config file present in dir.
func Discover(dir string) (string, bool) {
	for _, name := range DefaultFiles {
		path := filepath.Join(dir, name)
		if info, err := os.Stat(path); err == nil && !info.IsDir() {
			return path, true
		}
	}
	return "", false
}

// Load resolves the effective configuration. Precedence, lowest first: the
// config file (path, or one discovered in the working directory), the
// environment (including .env), then the overrides.
func Load(path string, o Overrides) (*Config, error) {
	// 1. Load .env if exists
	_ = godotenv.Load()

	// 2. Load the config file
	cfg := &Config{}
	if path == "" {
		if wd, err := os.Getwd(); err == nil {
			path, _ = Discover(wd)
		}
	}
	if path != "" {
		loaded, err := LoadConfig(path)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}

	// 3. Override with Environment Variables if present
	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}

	// 4. Command line flags win
	cfg.apply(o)

	if !cfg.NoDefaultDisabledRules {
		for _, rule := range DefaultDisabledRules {
			if !slices.Contains(cfg.DisabledRules, rule) {
				cfg.DisabledRules = append(cfg.DisabledRules, rule)
			}
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) applyEnv() error {
	if host := os.Getenv("PROSECHECK_HOST"); host != "" {
		c.Host = host
	}
	if port := os.Getenv("PROSECHECK_PORT"); port != "" {
		n, err := strconv.Atoi(port)
		if err != nil {
			return fmt.Errorf("PROSECHECK_PORT %q isn't a port number: %w", port, err)
		}
		c.Port = n
	}
	if language := os.Getenv("PROSECHECK_LANGUAGE"); language != "" {
		c.Language = language
	}
	return nil
}

func (c *Config) apply(o Overrides) {
	if o.Host != nil {
		c.Host = *o.Host
	}
	if o.Port != nil {
		c.Port = *o.Port
	}
	if o.Language != nil {
		c.Language = *o.Language
	}
	if o.Picky != nil {
		c.Picky = *o.Picky
	}
	if o.DisabledRules != nil {
		c.DisabledRules = slices.Clone(o.DisabledRules)
	}
	if o.DisabledCategories != nil {
		c.DisabledCategories = o.DisabledCategories
	}
	if o.IgnoreWords != nil {
		c.IgnoreWords = o.IgnoreWords
	}
	if o.Concurrency != nil {
		c.Concurrency = *o.Concurrency
	}
	if o.NoDefaultDisabledRules != nil {
		c.NoDefaultDisabledRules = *o.NoDefaultDisabledRules
	}
}

// Validate checks the options every run needs.
func (c *Config) Validate() error {
	if c.Host == "" || c.Port == 0 || c.Language == "" {
		return ErrRequiredOptions
	}
	if c.Port < 1 || c.Port > 65535 {
		return fmt.Errorf("%w: %d", ErrInvalidPort, c.Port)
	}
	if c.Concurrency < 0 {
		return fmt.Errorf("concurrency must not be negative: %d", c.Concurrency)
	}
	return nil
}
