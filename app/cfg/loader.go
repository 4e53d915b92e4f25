package cfg

import (
	"cmp"
	"fmt"

	"github.com/jessevdk/go-flags"
)

// Version is set at build time via -ldflags
var Version = "dev"

func GetVersion() string {
	return cmp.Or(Version, "unknown")
}

type rawCfg struct {
	// Database configuration
	DatabaseURL string `long:"database-url" env:"DATABASE_URL" default:"postgres://localhost/mcp_news?sslmode=disable" description:"Postgres connection string"`

	// Ingestion configuration
	LookbackHours int    `long:"lookback-hours" env:"LOOKBACK_HOURS" default:"6" description:"Skip feed items older than this many hours"`
	WorkerCount   int    `long:"worker-count" env:"WORKER_COUNT" default:"4" description:"Number of concurrent workers for feed harvesting"`
	FetchTimeout  int    `long:"fetch-timeout" env:"FETCH_TIMEOUT" default:"10" description:"Timeout in seconds for feed and article fetches"`
	SourcesFile   string `long:"sources-file" env:"SOURCES_FILE" description:"YAML file with feed sources (overrides the built-in registry)"`

	// Query service configuration
	Port            string `long:"port" env:"PORT" default:"8080" description:"HTTP server port"`
	DefaultCategory string `long:"default-category" env:"DEFAULT_CATEGORY" default:"us_national_news" description:"Category used when a query supplies none"`
	APIAccessKey    string `long:"api-key" env:"API_ACCESS_KEY" description:"API access key for authenticated endpoints (optional)"`

	// External API credentials
	AnthropicAPIKey string `long:"anthropic-api-key" env:"ANTHROPIC_API_KEY" description:"Anthropic API key for digest composition"`

	// Application metadata
	UserAgent string `long:"user-agent" env:"USER_AGENT" default:"Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/121.0.0.0 Safari/537.36" description:"User agent string for HTTP requests"`
	Debug     bool   `long:"debug" env:"DEBUG" description:"Enable debug logging"`
}

// Load parses environment variables and command-line flags. A nil Cfg with a
// nil error means help was requested and the caller should exit.
func Load() (*Cfg, error) {
	var raw rawCfg

	parser := flags.NewParser(&raw, flags.Default)

	if _, err := parser.Parse(); err != nil {
		if flagsErr, ok := err.(*flags.Error); ok {
			if flagsErr.Type == flags.ErrHelp {
				return nil, nil
			}
		}
		return nil, fmt.Errorf("failed to parse configuration: %w", err)
	}

	if raw.LookbackHours <= 0 {
		return nil, fmt.Errorf("lookback hours must be positive, got %d", raw.LookbackHours)
	}
	if raw.WorkerCount <= 0 {
		return nil, fmt.Errorf("worker count must be positive, got %d", raw.WorkerCount)
	}

	cfg := &Cfg{
		DatabaseURL:     raw.DatabaseURL,
		LookbackHours:   raw.LookbackHours,
		WorkerCount:     raw.WorkerCount,
		FetchTimeout:    raw.FetchTimeout,
		SourcesFile:     raw.SourcesFile,
		Port:            raw.Port,
		DefaultCategory: raw.DefaultCategory,
		APIAccessKey:    raw.APIAccessKey,
		AnthropicAPIKey: raw.AnthropicAPIKey,
		UserAgent:       raw.UserAgent,
		Debug:           raw.Debug,
		Version:         GetVersion(),
	}

	return cfg, nil
}
