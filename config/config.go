package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	Exchange  ExchangeConfig  `mapstructure:"exchange"`
	Feed      FeedConfig      `mapstructure:"feed"`
	Aggregate AggregateConfig `mapstructure:"aggregate"`
	Log       LogConfig       `mapstructure:"log"`
	Postgres  PostgresConfig  `mapstructure:"postgres"`
}

// ExchangeConfig identifies the upstream exchange and its endpoints.
type ExchangeConfig struct {
	Name string     `mapstructure:"name"`
	REST RESTConfig `mapstructure:"rest"`
	WS   WSConfig   `mapstructure:"ws"`
}

type RESTConfig struct {
	BaseURL string        `mapstructure:"base_url"`
	Timeout time.Duration `mapstructure:"timeout"`
}

type WSConfig struct {
	URL     string        `mapstructure:"url"`
	Timeout time.Duration `mapstructure:"timeout"`
}

// FeedConfig lists the instruments and aggregation cadences. Instruments and
// timeframes are comma-separated so they can come straight from environment
// variables (FEED_INSTRUMENTS, FEED_TIMEFRAMES, FEED_TIMEFRAME_NAMES); the
// minutes list pairs positionally with the names list.
type FeedConfig struct {
	Instruments    string `mapstructure:"instruments"`
	Timeframes     string `mapstructure:"timeframes"`
	TimeframeNames string `mapstructure:"timeframe_names"`
}

// AggregateConfig holds the aggregation engine knobs.
type AggregateConfig struct {
	FlushInterval      time.Duration `mapstructure:"flush_interval"`      // period of the bulk state flush
	QueueSize          int           `mapstructure:"queue_size"`          // outbound persistence queue capacity
	HeartbeatThreshold time.Duration `mapstructure:"heartbeat_threshold"` // max tick/heartbeat skew before a heartbeat write
	Timezone           string        `mapstructure:"timezone"`            // IANA zone used for bar boundary alignment; "" = local
}

// LogConfig defines the logger configuration options.
type LogConfig struct {
	Level       string `mapstructure:"level"`       // log level: "debug", "info", "warn", "error"
	Format      string `mapstructure:"format"`      // log format: "json" or "console"
	OutputFile  string `mapstructure:"output_file"` // file path to store logs (optional)
	Environment string `mapstructure:"environment"` // environment: "dev" or "prod"
	Verbose     bool   `mapstructure:"verbose"`     // log every tick and candlestick update
}

// Timeframe is one configured aggregation cadence.
type Timeframe struct {
	Minutes int
	Name    string
}

// Load loads application configuration using Viper.
// It reads from config.yaml when present and overrides with environment variables.
func Load() (*Config, error) {
	v := viper.New()

	v.SetConfigName("config") // config.yaml
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")
	if path := os.Getenv("CONFIG_PATH"); path != "" {
		v.AddConfigPath(path)
	}

	setDefaults(v)

	// Support environment variables with dot notation (e.g., FEED_INSTRUMENTS)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		// The whole surface can come from environment variables alone.
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("exchange.name", "ftxus")
	v.SetDefault("exchange.rest.base_url", "https://ftx.us")
	v.SetDefault("exchange.rest.timeout", 10*time.Second)
	v.SetDefault("exchange.ws.url", "wss://ftx.us/ws/")
	v.SetDefault("exchange.ws.timeout", 10*time.Second)
	v.SetDefault("feed.timeframes", "1,5,15,60")
	v.SetDefault("feed.timeframe_names", "1m,5m,15m,1h")
	v.SetDefault("aggregate.flush_interval", 100*time.Millisecond)
	v.SetDefault("aggregate.queue_size", 1024)
	v.SetDefault("aggregate.heartbeat_threshold", 5*time.Second)
	v.SetDefault("log.level", "info")
	v.SetDefault("log.environment", "dev")
	v.SetDefault("postgres.host", "localhost")
	v.SetDefault("postgres.port", 5432)
	v.SetDefault("postgres.sslmode", "disable")
}

// InstrumentList returns the configured instrument symbols.
func (f FeedConfig) InstrumentList() []string {
	return splitList(f.Instruments)
}

// TimeframeList returns the configured (minutes, name) pairs.
func (f FeedConfig) TimeframeList() ([]Timeframe, error) {
	minutes := splitList(f.Timeframes)
	names := splitList(f.TimeframeNames)
	if len(minutes) != len(names) {
		return nil, fmt.Errorf("timeframes and timeframe_names differ in length: %d vs %d", len(minutes), len(names))
	}

	out := make([]Timeframe, 0, len(minutes))
	for i, m := range minutes {
		parsed, err := strconv.Atoi(m)
		if err != nil {
			return nil, fmt.Errorf("invalid timeframe minutes %q: %w", m, err)
		}
		out = append(out, Timeframe{Minutes: parsed, Name: names[i]})
	}
	return out, nil
}

// Location resolves the bar alignment timezone.
func (a AggregateConfig) Location() (*time.Location, error) {
	if a.Timezone == "" {
		return time.Local, nil
	}
	loc, err := time.LoadLocation(a.Timezone)
	if err != nil {
		return nil, fmt.Errorf("invalid aggregate timezone %q: %w", a.Timezone, err)
	}
	return loc, nil
}

func splitList(s string) []string {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
