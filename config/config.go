package config

import (
	"log"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Config represents the overall application configuration.
type Config struct {
	Server     ServerConfig     `yaml:"server"`
	Database   DatabaseConfig   `yaml:"database"`
	Booking    BookingConfig    `yaml:"booking"`
	Auth       AuthConfig       `yaml:"auth"`
	Push       PushConfig       `yaml:"push"`
	WorkerPool WorkerPoolConfig `yaml:"worker_pool"`
}

// ServerConfig holds the server-related configuration.
type ServerConfig struct {
	Port            int      `yaml:"port"`
	RateLimitPerSec float64  `yaml:"rate_limit_per_sec"`
	RateLimitBurst  int      `yaml:"rate_limit_burst"`
	CacheTTLSeconds int      `yaml:"cache_ttl_seconds"`
	CORSOrigins     []string `yaml:"cors_origins"`
}

// DatabaseConfig holds the database connection configuration.
type DatabaseConfig struct {
	DSN                    string `yaml:"dsn"`
	MaxOpenConns           int    `yaml:"max_open_conns"`
	MaxIdleConns           int    `yaml:"max_idle_conns"`
	ConnMaxLifetimeMinutes int    `yaml:"conn_max_lifetime_minutes"`
	EnableExclusion        bool   `yaml:"enable_exclusion"`
}

// BookingConfig holds the booking engine policy knobs.
type BookingConfig struct {
	// CancellationLeadHours is the minimum lead time before check-in
	// under which a cancellation is still accepted.
	CancellationLeadHours int `yaml:"cancellation_lead_hours"`
	// PendingTimeoutMinutes is the age past which an unconfirmed
	// pending reservation is reclaimed by the sweeper.
	PendingTimeoutMinutes int    `yaml:"pending_timeout_minutes"`
	SweepIntervalSeconds  int    `yaml:"sweep_interval_seconds"`
	SweepEnabled          bool   `yaml:"sweep_enabled"`
	DefaultCurrency       string `yaml:"default_currency"`

	CancellationLead time.Duration `yaml:"-"`
	PendingTimeout   time.Duration `yaml:"-"`
	SweepInterval    time.Duration `yaml:"-"`
}

// AuthConfig holds the token secrets consumed from the identity layer.
type AuthConfig struct {
	AccessTokenSecret  string `yaml:"access_token_secret"`
	GuestTokenSecret   string `yaml:"guest_token_secret"`
	GuestTokenTTLHours int    `yaml:"guest_token_ttl_hours"`
}

// PushConfig holds the VAPID keys for web push notifications.
type PushConfig struct {
	PublicKey  string `yaml:"vapid_public_key"`
	PrivateKey string `yaml:"vapid_private_key"`
	Subject    string `yaml:"subject"`
	TTL        int    `yaml:"ttl"`
}

// WorkerPoolConfig holds the configuration for the notification worker pool.
type WorkerPoolConfig struct {
	Size int `yaml:"size"`
}

// Load reads the configuration from the given path.
func Load(path string) (*Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var cfg Config
	decoder := yaml.NewDecoder(f)
	if err := decoder.Decode(&cfg); err != nil {
		return nil, err
	}

	if cfg.Server.Port <= 0 {
		cfg.Server.Port = 8080
	}
	if cfg.Server.RateLimitPerSec <= 0 {
		cfg.Server.RateLimitPerSec = 10
	}
	if cfg.Server.RateLimitBurst <= 0 {
		cfg.Server.RateLimitBurst = 5
	}
	if cfg.Server.CacheTTLSeconds <= 0 {
		cfg.Server.CacheTTLSeconds = 30
	}

	if cfg.Booking.CancellationLeadHours <= 0 {
		cfg.Booking.CancellationLeadHours = 24
	}
	if cfg.Booking.PendingTimeoutMinutes <= 0 {
		cfg.Booking.PendingTimeoutMinutes = 30
	}
	if cfg.Booking.SweepIntervalSeconds <= 0 {
		cfg.Booking.SweepIntervalSeconds = 300
	}
	if cfg.Booking.DefaultCurrency == "" {
		cfg.Booking.DefaultCurrency = "USD"
	}
	cfg.Booking.CancellationLead = time.Duration(cfg.Booking.CancellationLeadHours) * time.Hour
	cfg.Booking.PendingTimeout = time.Duration(cfg.Booking.PendingTimeoutMinutes) * time.Minute
	cfg.Booking.SweepInterval = time.Duration(cfg.Booking.SweepIntervalSeconds) * time.Second

	if cfg.Auth.GuestTokenTTLHours <= 0 {
		cfg.Auth.GuestTokenTTLHours = 72
	}

	if cfg.Push.TTL <= 0 {
		cfg.Push.TTL = 3600
	}

	if cfg.WorkerPool.Size <= 0 {
		log.Printf("worker_pool.size is not set or invalid; defaulting to 1")
		cfg.WorkerPool.Size = 1
	}

	return &cfg, nil
}
