package config

import (
	"flag"
	"io"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"
)

// Parse reads global flags from args, loads the config they point to and
// applies explicitly set flags on top. It returns the remaining arguments.
func Parse(args []string, output io.Writer) (Config, []string, error) {
	fs := flag.NewFlagSet("investorpro", flag.ContinueOnError)
	if output != nil {
		fs.SetOutput(output)
	}

	path := fs.String("config", "", "path to yaml config")
	backend := fs.String("backend", "", "backend base URL, example: http://localhost:8000")
	webAddr := fs.String("web-addr", "", "dashboard listen address, example: :8080")
	walDir := fs.String("wal-dir", "", "directory for notification and account history")
	debounce := fs.Duration("debounce", 0, "symbol validation quiet period")
	pollInterval := fs.Duration("quote-poll-interval", 0, "watchlist quote poll interval")
	watchlist := fs.String("watchlist", "", "comma separated symbols, example: AAPL,MSFT")

	if err := fs.Parse(args); err != nil {
		return Config{}, nil, errors.Wrap(err, "parse flags")
	}

	cfg, err := Load(*path)
	if err != nil {
		return Config{}, nil, err
	}

	fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "backend":
			cfg.BackendURL = *backend
		case "web-addr":
			cfg.WebAddr = *webAddr
		case "wal-dir":
			cfg.WALDir = *walDir
		case "debounce":
			cfg.Debounce = *debounce
		case "quote-poll-interval":
			cfg.QuotePollInterval = *pollInterval
		case "watchlist":
			cfg.Watchlist = splitSymbols(*watchlist)
		}
	})
	if err := cfg.Validate(); err != nil {
		return Config{}, nil, err
	}

	return cfg, fs.Args(), nil
}

func splitSymbols(raw string) []string {
	var out []string
	for _, s := range strings.Split(raw, ",") {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, strings.ToUpper(s))
		}
	}
	return out
}

// AccountHistoryDir is where account snapshots are kept.
func (c Config) AccountHistoryDir() string {
	return filepath.Join(c.WALDir, "account")
}

// NotificationDir is where notifications are kept.
func (c Config) NotificationDir() string {
	return filepath.Join(c.WALDir, "notifications")
}
