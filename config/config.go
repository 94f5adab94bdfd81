// Package config loads investorpro settings from a yaml file, the environment and flags.
package config

import (
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

const (
	EnvBackendURL = "INVESTORPRO_BACKEND_URL"
	EnvToken      = "INVESTORPRO_TOKEN"
)

// Config is the resolved client configuration.
type Config struct {
	BackendURL             string
	Token                  string
	Debounce               time.Duration
	QuotePollInterval      time.Duration
	AccountRefreshInterval time.Duration
	HTTPTimeout            time.Duration
	Watchlist              []string
	WALDir                 string
	SessionFile            string
	WebAddr                string
	TLSDomains             []string
	TLSCacheDir            string
}

type configTmp struct {
	BackendURL             string        `yaml:"backend_url"`
	Debounce               time.Duration `yaml:"debounce,omitempty"`
	QuotePollInterval      time.Duration `yaml:"quote_poll_interval,omitempty"`
	AccountRefreshInterval time.Duration `yaml:"account_refresh_interval,omitempty"`
	HTTPTimeout            time.Duration `yaml:"http_timeout,omitempty"`
	Watchlist              []string      `yaml:"watchlist,omitempty"`
	WALDir                 string        `yaml:"wal_dir,omitempty"`
	SessionFile            string        `yaml:"session_file,omitempty"`
	WebAddr                string        `yaml:"web_addr,omitempty"`
	TLSDomains             []string      `yaml:"tls_domains,omitempty"`
	TLSCacheDir            string        `yaml:"tls_cache_dir,omitempty"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		BackendURL:             "http://localhost:8000",
		Debounce:               500 * time.Millisecond,
		QuotePollInterval:      30 * time.Second,
		AccountRefreshInterval: time.Minute,
		HTTPTimeout:            30 * time.Second,
		Watchlist:              []string{"AAPL", "GOOGL", "MSFT", "TSLA"},
		WALDir:                 "./wal",
		SessionFile:            "./wal/session.json",
		WebAddr:                ":8080",
		TLSCacheDir:            "cert-cache",
	}
}

// Load reads path (optional) over the defaults and applies environment overrides.
func Load(path string) (Config, error) {
	cfg := Default()

	if path != "" {
		if err := cfg.mergeYaml(path); err != nil {
			return Config{}, err
		}
	}

	cfg.applyEnv(os.Getenv)

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c *Config) mergeYaml(path string) error {
	f, err := os.ReadFile(path)
	if err != nil {
		return errors.Wrapf(err, "read config %s", path)
	}

	var tmp configTmp
	if err := yaml.Unmarshal(f, &tmp); err != nil {
		return errors.Wrapf(err, "parse config %s", path)
	}

	if tmp.BackendURL != "" {
		c.BackendURL = tmp.BackendURL
	}
	if tmp.Debounce != 0 {
		c.Debounce = tmp.Debounce
	}
	if tmp.QuotePollInterval != 0 {
		c.QuotePollInterval = tmp.QuotePollInterval
	}
	if tmp.AccountRefreshInterval != 0 {
		c.AccountRefreshInterval = tmp.AccountRefreshInterval
	}
	if tmp.HTTPTimeout != 0 {
		c.HTTPTimeout = tmp.HTTPTimeout
	}
	if len(tmp.Watchlist) > 0 {
		c.Watchlist = tmp.Watchlist
	}
	if tmp.WALDir != "" {
		c.WALDir = tmp.WALDir
	}
	if tmp.SessionFile != "" {
		c.SessionFile = tmp.SessionFile
	}
	if tmp.WebAddr != "" {
		c.WebAddr = tmp.WebAddr
	}
	if len(tmp.TLSDomains) > 0 {
		c.TLSDomains = tmp.TLSDomains
	}
	if tmp.TLSCacheDir != "" {
		c.TLSCacheDir = tmp.TLSCacheDir
	}
	return nil
}

func (c *Config) applyEnv(getenv func(string) string) {
	if v := strings.TrimSpace(getenv(EnvBackendURL)); v != "" {
		c.BackendURL = v
	}
	if v := strings.TrimSpace(getenv(EnvToken)); v != "" {
		c.Token = v
	}
}

// Validate checks that every value is usable.
func (c Config) Validate() error {
	u, err := url.Parse(c.BackendURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return errors.Errorf("incorrect 'backend_url' param: %q (expected http(s)://host[:port])", c.BackendURL)
	}
	if c.Debounce <= 0 {
		return errors.Errorf("incorrect 'debounce' param: %s (must be positive)", c.Debounce)
	}
	if c.QuotePollInterval <= 0 {
		return errors.Errorf("incorrect 'quote_poll_interval' param: %s (must be positive)", c.QuotePollInterval)
	}
	if c.AccountRefreshInterval <= 0 {
		return errors.Errorf("incorrect 'account_refresh_interval' param: %s (must be positive)", c.AccountRefreshInterval)
	}
	if c.HTTPTimeout <= 0 {
		return errors.Errorf("incorrect 'http_timeout' param: %s (must be positive)", c.HTTPTimeout)
	}
	for _, s := range c.Watchlist {
		if strings.TrimSpace(s) == "" {
			return errors.New("incorrect 'watchlist' param: empty symbol")
		}
	}
	return nil
}
