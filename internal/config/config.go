package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jessevdk/go-flags"
	"github.com/samber/lo"
)

const (
	BackendFile     = "file"
	BackendRedis    = "redis"
	BackendSQLite   = "sqlite"
	BackendPostgres = "postgres"
)

// ErrMissingToken is returned when no bot token is configured
var ErrMissingToken = errors.New("bot token is not set")

type rawConfig struct {
	Token       string `long:"token" env:"TOKEN" description:"Telegram bot token (required)"`
	Channel     string `long:"channel" env:"CHANNEL" default:"@AnimeNewsuz" description:"Channel username or numeric chat ID to publish to"`
	RSSURLs     string `long:"rss-urls" env:"RSS_URLS" default:"https://www.animenewsnetwork.com/news/rss.xml" description:"Semicolon-separated feed URLs"`
	Interval    int    `long:"interval" env:"INTERVAL_SECONDS" default:"14400" description:"Delay between job runs in seconds"`
	MaxPerRun   int    `long:"max-per-run" env:"MAX_PER_RUN" default:"5" description:"Maximum number of posts published per run"`
	Timeout     int    `long:"request-timeout" env:"REQUEST_TIMEOUT" default:"10" description:"HTTP timeout for page fetches in seconds"`
	PostDelay   int    `long:"post-delay" env:"POST_DELAY_SECONDS" default:"2" description:"Pause after each published post in seconds"`
	StorageFile string `long:"storage-file" env:"STORAGE_FILE" default:"posted.json" description:"Path of the posted links file"`

	StoreBackend string `long:"store-backend" env:"STORE_BACKEND" default:"file" choice:"file" choice:"redis" choice:"sqlite" choice:"postgres" description:"Where posted links are kept"`
	StoreDSN     string `long:"store-dsn" env:"STORE_DSN" default:"posted.db" description:"SQLite path or PostgreSQL connection string"`
	RedisAddr    string `long:"redis-addr" env:"REDIS_ADDR" default:"redis:6379" description:"Redis address"`
	RedisKey     string `long:"redis-key" env:"REDIS_KEY" default:"rssposter:posted" description:"Redis set holding posted links"`

	APIEndpoint  string `long:"telegram-api-endpoint" env:"TELEGRAM_API_ENDPOINT" description:"Bot API endpoint format, e.g. https://api.telegram.org/bot%s/%s"`
	Port         string `long:"port" env:"HTTP_SERVER_PORT" description:"Status server port, disabled when empty"`
	ActivitySize int    `long:"activity-size" env:"ACTIVITY_SIZE" default:"50" description:"Number of recent publications kept for the status feed"`
	LogLevel     string `long:"log-level" env:"LOG_LEVEL" default:"info" description:"Log level: debug, info, warn or error"`
	Once         bool   `long:"once" description:"Run a single job cycle and exit"`
}

// Config is the process-wide configuration, immutable after Load
type Config struct {
	Token     string
	Channel   string
	Sources   []string
	Interval  time.Duration
	MaxPerRun int
	Timeout   time.Duration
	PostDelay time.Duration

	StoreBackend string
	StorageFile  string
	StoreDSN     string
	RedisAddr    string
	RedisKey     string

	APIEndpoint  string
	Port         string
	ActivitySize int
	LogLevel     string
	Once         bool
}

// Load reads the configuration from args and the environment.
// It returns nil, nil when help was requested.
func Load(args []string) (*Config, error) {
	var raw rawConfig

	parser := flags.NewParser(&raw, flags.Default)

	if _, err := parser.ParseArgs(args); err != nil {
		if flagsErr, ok := err.(*flags.Error); ok && flagsErr.Type == flags.ErrHelp {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to parse configuration: %w", err)
	}

	cfg := &Config{
		Token:        strings.TrimSpace(raw.Token),
		Channel:      strings.TrimSpace(raw.Channel),
		Sources:      SplitSources(raw.RSSURLs),
		Interval:     time.Duration(raw.Interval) * time.Second,
		MaxPerRun:    raw.MaxPerRun,
		Timeout:      time.Duration(raw.Timeout) * time.Second,
		PostDelay:    time.Duration(raw.PostDelay) * time.Second,
		StoreBackend: raw.StoreBackend,
		StorageFile:  raw.StorageFile,
		StoreDSN:     raw.StoreDSN,
		RedisAddr:    raw.RedisAddr,
		RedisKey:     raw.RedisKey,
		APIEndpoint:  raw.APIEndpoint,
		Port:         raw.Port,
		ActivitySize: raw.ActivitySize,
		LogLevel:     raw.LogLevel,
		Once:         raw.Once,
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (c *Config) validate() error {
	if c.Token == "" {
		return ErrMissingToken
	}
	if c.Channel == "" {
		return fmt.Errorf("channel is required")
	}
	if len(c.Sources) == 0 {
		return fmt.Errorf("at least one feed URL is required")
	}
	if c.Interval < time.Second {
		return fmt.Errorf("interval must be at least 1 second")
	}
	if c.MaxPerRun < 1 {
		return fmt.Errorf("max per run must be positive")
	}
	if c.Timeout < time.Second {
		return fmt.Errorf("request timeout must be at least 1 second")
	}
	if c.PostDelay < 0 {
		return fmt.Errorf("post delay must be non-negative")
	}
	if c.ActivitySize < 1 {
		return fmt.Errorf("activity size must be positive")
	}

	switch c.StoreBackend {
	case BackendFile, BackendRedis, BackendSQLite, BackendPostgres:
	default:
		return fmt.Errorf("unknown store backend %q", c.StoreBackend)
	}

	return nil
}

// SplitSources splits a semicolon-separated URL list, dropping blank items
func SplitSources(s string) []string {
	return lo.Compact(lo.Map(strings.Split(s, ";"), func(part string, _ int) string {
		return strings.TrimSpace(part)
	}))
}
