package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v10"
	"github.com/joho/godotenv"
)

type Config struct {
	App      App
	Remote   Remote
	Supabase Supabase
	Postgres Postgres
	Local    Local
	Redis    Redis
	Tracking Tracking
	Kafka    Kafka
	Bot      Bot
	Monitor  Monitor
}

type App struct {
	Name                 string        `env:"APP_NAME"                  envDefault:"bikeship"`
	Version              string        `env:"APP_VERSION"               envDefault:"dev"`
	LogLevel             string        `env:"LOG_LEVEL"                 envDefault:"info"`
	HTTPListenAddress    string        `env:"HTTP_LISTEN_ADDRESS"       envDefault:":8080"`
	ProbeListenAddress   string        `env:"PROBE_LISTEN_ADDRESS"      envDefault:":8081"`
	MetricsListenAddress string        `env:"METRICS_LISTEN_ADDRESS"    envDefault:":9090"`
	ShutdownTimeout      time.Duration `env:"SHUTDOWN_TIMEOUT"          envDefault:"10s"`
	LogFieldMaxLen       int           `env:"LOG_FIELD_MAX_LEN"         envDefault:"4096"`
	SuggestionCacheTTL   time.Duration `env:"SUGGESTION_CACHE_TTL"      envDefault:"1m"`
}

// RemoteDriver selects the primary shipment store.
type RemoteDriver string

const (
	RemoteSupabase RemoteDriver = "supabase"
	RemotePostgres RemoteDriver = "postgres"
	RemoteNone     RemoteDriver = "none"
)

type Remote struct {
	Driver  RemoteDriver  `env:"REMOTE_DRIVER"  envDefault:"supabase"`
	Timeout time.Duration `env:"REMOTE_TIMEOUT" envDefault:"5s"`
}

// Supabase is used when REMOTE_DRIVER=supabase. An empty URL or key leaves
// the service local-only.
type Supabase struct {
	URL   string `env:"SUPABASE_URL"`
	Key   string `env:"SUPABASE_KEY"   json:"-"`
	Table string `env:"SUPABASE_TABLE" envDefault:"shipments"`
}

type LocalDriver string

const (
	LocalFile  LocalDriver = "file"
	LocalRedis LocalDriver = "redis"
)

type Local struct {
	Driver LocalDriver `env:"LOCAL_DRIVER" envDefault:"file"`
	Path   string      `env:"LOCAL_PATH"   envDefault:"./data"`
	Key    string      `env:"LOCAL_KEY"    envDefault:"bikeship_data_v1"`
}

type Redis struct {
	Address            string `env:"REDIS_ADDRESS"              envDefault:"localhost:6379"`
	Username           string `env:"REDIS_USERNAME"`
	Password           string `env:"REDIS_PASSWORD"             json:"-"`
	DatabaseNumber     int    `env:"REDIS_DB"                   envDefault:"0"`
	PoolSize           int    `env:"REDIS_POOL_SIZE"            envDefault:"10"`
	MinIdleConnections int    `env:"REDIS_MIN_IDLE_CONNECTIONS" envDefault:"1"`
	MaxIdleConnections int    `env:"REDIS_MAX_IDLE_CONNECTIONS" envDefault:"5"`
}

// Tracking lookups fall back to mocked updates when Key is empty.
type Tracking struct {
	Key     string        `env:"TRACKING_17TRACK_KEY"     json:"-"`
	URL     string        `env:"TRACKING_17TRACK_URL"`
	Timeout time.Duration `env:"TRACKING_TIMEOUT"         envDefault:"10s"`
}

// Kafka publishing is disabled when no broker is listed.
type Kafka struct {
	Brokers []string `env:"KAFKA_BROKERS" envSeparator:","`
	Topic   string   `env:"KAFKA_TOPIC"   envDefault:"bikeship.shipments"`
}

// Bot alerts are disabled when Token is empty.
type Bot struct {
	Token  string `env:"BOT_TOKEN"   json:"-"`
	ChatID int64  `env:"BOT_CHAT_ID"`
}

type Monitor struct {
	Interval time.Duration `env:"MONITOR_INTERVAL" envDefault:"30s"`
}

func Load() (Config, error) {
	_ = godotenv.Load()

	var config Config

	if err := env.Parse(&config); err != nil {
		return Config{}, fmt.Errorf("env.Parse: %w", err)
	}

	if err := config.validate(); err != nil {
		return Config{}, fmt.Errorf("config.validate: %w", err)
	}

	return config, nil
}

func (c Config) validate() error {
	switch c.Remote.Driver {
	case RemoteSupabase, RemoteNone:
	case RemotePostgres:
		if c.Postgres.DSN == "" {
			return fmt.Errorf("PG_DSN is required for REMOTE_DRIVER=%s", c.Remote.Driver)
		}
	default:
		return fmt.Errorf("unknown REMOTE_DRIVER %q", c.Remote.Driver)
	}

	switch c.Local.Driver {
	case LocalFile, LocalRedis:
	default:
		return fmt.Errorf("unknown LOCAL_DRIVER %q", c.Local.Driver)
	}

	if c.Remote.Timeout <= 0 {
		return fmt.Errorf("REMOTE_TIMEOUT must be positive, got %s", c.Remote.Timeout)
	}

	if c.Bot.Token != "" && c.Bot.ChatID == 0 {
		return fmt.Errorf("BOT_CHAT_ID is required when BOT_TOKEN is set")
	}

	return nil
}
