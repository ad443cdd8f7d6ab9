// Package config handles loading and validating the application configuration
// from YAML files with environment variable substitution.
package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Config is the top-level application configuration.
type Config struct {
	Server     ServerConfig     `yaml:"server"`
	Ebay       EbayConfig       `yaml:"ebay"`
	Meli       MeliConfig       `yaml:"mercadolivre"`
	Currency   CurrencyConfig   `yaml:"currency"`
	Aggregator AggregatorConfig `yaml:"aggregator"`
	Database   DatabaseConfig   `yaml:"database"`
	Logging    LoggingConfig    `yaml:"logging"`
}

// DatabaseConfig defines optional PostgreSQL settings. With no URL the
// server runs stateless and OAuth grants live only in memory.
type DatabaseConfig struct {
	URL string `yaml:"url"`
}

// ServerConfig defines the Echo HTTP server settings.
type ServerConfig struct {
	Host         string        `yaml:"host"`
	Port         int           `yaml:"port"`
	ReadTimeout  time.Duration `yaml:"read_timeout"`
	WriteTimeout time.Duration `yaml:"write_timeout"`
}

// EbayConfig defines eBay API settings. Search on eBay always requires an
// application token obtained via the client-credentials grant.
type EbayConfig struct {
	ClientID     string          `yaml:"client_id"`
	ClientSecret string          `yaml:"client_secret"`
	TokenURL     string          `yaml:"token_url"`
	BrowseURL    string          `yaml:"browse_url"`
	Marketplace  string          `yaml:"marketplace"`
	RateLimit    RateLimitConfig `yaml:"rate_limit"`
}

// MeliConfig defines Mercado Livre API settings. Search works anonymously;
// the authorization-code + refresh-token flow unlocks discount filtering.
type MeliConfig struct {
	AppID       string          `yaml:"app_id"`
	SecretKey   string          `yaml:"secret_key"`
	RedirectURI string          `yaml:"redirect_uri"`
	AuthURL     string          `yaml:"auth_url"`
	TokenURL    string          `yaml:"token_url"`
	SiteURL     string          `yaml:"site_url"`
	RateLimit   RateLimitConfig `yaml:"rate_limit"`
}

// RateLimitConfig defines per-marketplace API rate limiting settings.
type RateLimitConfig struct {
	PerSecond  float64 `yaml:"per_second"`
	Burst      int     `yaml:"burst"`
	DailyLimit int64   `yaml:"daily_limit"`
}

// CurrencyConfig defines exchange-rate fetching and conversion settings.
type CurrencyConfig struct {
	RateURL     string        `yaml:"rate_url"`
	Display     string        `yaml:"display"`
	DefaultRate float64       `yaml:"default_rate"`
	CacheTTL    time.Duration `yaml:"cache_ttl"`
}

// AggregatorConfig tunes the category fan-out behavior.
type AggregatorConfig struct {
	Concurrency     int      `yaml:"concurrency"`
	PerTermQuota    int      `yaml:"per_term_quota"`
	OverfetchFactor int      `yaml:"overfetch_factor"`
	BrowseTerms     []string `yaml:"browse_terms"`
	FirstPageTerms  int      `yaml:"first_page_terms"`
}

// LoggingConfig defines logging settings.
type LoggingConfig struct {
	Level  string `yaml:"level"`  // debug, info, warn, error
	Format string `yaml:"format"` // text, json
}

// Load reads and parses a YAML config file, performing environment variable
// substitution and validation.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path) //nolint:gosec // config path from trusted CLI flag
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	// Expand environment variables in the YAML content.
	expanded := os.ExpandEnv(string(data))

	cfg := &Config{}
	if err := yaml.Unmarshal([]byte(expanded), cfg); err != nil {
		return nil, fmt.Errorf("parsing config YAML: %w", err)
	}

	applyDefaults(cfg)

	if err := validate(cfg); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}

	return cfg, nil
}

func applyDefaults(cfg *Config) {
	applyServerDefaults(&cfg.Server)
	applyEbayDefaults(&cfg.Ebay)
	applyMeliDefaults(&cfg.Meli)
	applyCurrencyDefaults(&cfg.Currency)
	applyAggregatorDefaults(&cfg.Aggregator)
	applyLoggingDefaults(&cfg.Logging)
}

func applyServerDefaults(s *ServerConfig) {
	if s.Host == "" {
		s.Host = "0.0.0.0"
	}
	if s.Port == 0 {
		s.Port = 8080
	}
	if s.ReadTimeout == 0 {
		s.ReadTimeout = 30 * time.Second
	}
	if s.WriteTimeout == 0 {
		s.WriteTimeout = 30 * time.Second
	}
}

func applyEbayDefaults(e *EbayConfig) {
	if e.TokenURL == "" {
		e.TokenURL = "https://api.ebay.com/identity/v1/oauth2/token"
	}
	if e.BrowseURL == "" {
		e.BrowseURL = "https://api.ebay.com/buy/browse/v1/item_summary/search"
	}
	if e.Marketplace == "" {
		e.Marketplace = "EBAY_US"
	}
	applyRateLimitDefaults(&e.RateLimit)
}

func applyMeliDefaults(m *MeliConfig) {
	if m.AuthURL == "" {
		m.AuthURL = "https://auth.mercadolivre.com.br/authorization"
	}
	if m.TokenURL == "" {
		m.TokenURL = "https://api.mercadolibre.com/oauth/token"
	}
	if m.SiteURL == "" {
		m.SiteURL = "https://api.mercadolibre.com/sites/MLB/search"
	}
	applyRateLimitDefaults(&m.RateLimit)
}

func applyRateLimitDefaults(r *RateLimitConfig) {
	if r.PerSecond == 0 {
		r.PerSecond = 5.0
	}
	if r.Burst == 0 {
		r.Burst = 10
	}
	if r.DailyLimit == 0 {
		r.DailyLimit = 5000
	}
}

func applyCurrencyDefaults(c *CurrencyConfig) {
	if c.RateURL == "" {
		c.RateURL = "https://open.er-api.com/v6/latest"
	}
	if c.Display == "" {
		c.Display = "BRL"
	}
	if c.DefaultRate == 0 {
		c.DefaultRate = 5.0
	}
	if c.CacheTTL == 0 {
		c.CacheTTL = time.Hour
	}
}

func applyAggregatorDefaults(a *AggregatorConfig) {
	if a.Concurrency == 0 {
		a.Concurrency = 4
	}
	if a.PerTermQuota == 0 {
		a.PerTermQuota = 15
	}
	if a.OverfetchFactor == 0 {
		a.OverfetchFactor = 2
	}
	if len(a.BrowseTerms) == 0 {
		a.BrowseTerms = []string{
			"smartphone",
			"notebook",
			"smart tv",
			"gaming console",
			"book",
			"sporting goods",
			"camera",
			"headphones",
			"watch",
			"tablet",
		}
	}
	if a.FirstPageTerms == 0 {
		a.FirstPageTerms = 4
	}
}

func applyLoggingDefaults(l *LoggingConfig) {
	if l.Level == "" {
		l.Level = "info"
	}
	if l.Format == "" {
		l.Format = "text"
	}
}

func validate(cfg *Config) error {
	var errs []error

	if cfg.Ebay.ClientID == "" {
		errs = append(errs, fmt.Errorf("ebay.client_id is required"))
	}
	if cfg.Ebay.ClientSecret == "" {
		errs = append(errs, fmt.Errorf("ebay.client_secret is required"))
	}

	// Mercado Livre credentials are optional: anonymous search still works,
	// but the refresh flow needs both halves when either is set.
	if (cfg.Meli.AppID == "") != (cfg.Meli.SecretKey == "") {
		errs = append(
			errs,
			fmt.Errorf("mercadolivre.app_id and mercadolivre.secret_key must be set together"),
		)
	}

	if cfg.Currency.DefaultRate < 0 {
		errs = append(errs, fmt.Errorf("currency.default_rate must be positive"))
	}

	if cfg.Aggregator.Concurrency < 1 {
		errs = append(errs, fmt.Errorf("aggregator.concurrency must be at least 1"))
	}
	if cfg.Aggregator.FirstPageTerms > len(cfg.Aggregator.BrowseTerms) {
		errs = append(
			errs,
			fmt.Errorf("aggregator.first_page_terms cannot exceed the browse term count"),
		)
	}

	return errors.Join(errs...)
}
