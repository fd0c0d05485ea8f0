package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds all application configuration.
type Config struct {
	Server     ServerConfig     `mapstructure:"server"`
	Database   DatabaseConfig   `mapstructure:"database"`
	Redis      RedisConfig      `mapstructure:"redis"`
	JWT        JWTConfig        `mapstructure:"jwt"`
	Log        LogConfig        `mapstructure:"log"`
	Offerwall  OfferwallConfig  `mapstructure:"offerwall"`
	Withdrawal WithdrawalConfig `mapstructure:"withdrawal"`
	Admin      AdminConfig      `mapstructure:"admin"`
	Telegram   TelegramConfig   `mapstructure:"telegram"`
	Webhook    WebhookConfig    `mapstructure:"webhook"`
	RateLimit  RateLimitConfig  `mapstructure:"rate_limit"`
}

type ServerConfig struct {
	Host string `mapstructure:"host"`
	Port int    `mapstructure:"port"`
	Mode string `mapstructure:"mode"` // debug, release, test
	// TrustedProxies lists proxy IPs or CIDRs whose X-Forwarded-For is honoured.
	// Empty means the socket address is the client IP.
	TrustedProxies  []string      `mapstructure:"trusted_proxies"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
}

type DatabaseConfig struct {
	Host            string        `mapstructure:"host"`
	Port            int           `mapstructure:"port"`
	User            string        `mapstructure:"user"`
	Password        string        `mapstructure:"password"`
	DBName          string        `mapstructure:"dbname"`
	SSLMode         string        `mapstructure:"sslmode"`
	MaxConns        int32         `mapstructure:"max_conns"`
	MinConns        int32         `mapstructure:"min_conns"`
	ConnMaxLifetime time.Duration `mapstructure:"conn_max_lifetime"`
	AutoMigrate     bool          `mapstructure:"auto_migrate"`
	// ConnectAttempts bounds startup pings before giving up.
	ConnectAttempts   int           `mapstructure:"connect_attempts"`
	ConnectRetryDelay time.Duration `mapstructure:"connect_retry_delay"`
}

// DSN returns the PostgreSQL connection string.
func (d DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		d.User, d.Password, d.Host, d.Port, d.DBName, d.SSLMode,
	)
}

type RedisConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

// Addr returns the Redis address string.
func (r RedisConfig) Addr() string {
	return fmt.Sprintf("%s:%d", r.Host, r.Port)
}

type JWTConfig struct {
	Secret string        `mapstructure:"secret"`
	Expiry time.Duration `mapstructure:"expiry"`
	Issuer string        `mapstructure:"issuer"`
}

type LogConfig struct {
	Level  string `mapstructure:"level"`  // debug, info, warn, error
	Pretty bool   `mapstructure:"pretty"` // human-readable output (dev only)
}

// ProviderConfig configures a single offerwall postback endpoint.
type ProviderConfig struct {
	Enabled    bool     `mapstructure:"enabled"`
	Secret     string   `mapstructure:"secret"`
	Rate       float64  `mapstructure:"rate"`        // coins per payout unit
	AllowedIPs []string `mapstructure:"allowed_ips"` // IPs or CIDRs, empty = any
}

// OfferwallConfig holds postback processing settings and per-provider config.
type OfferwallConfig struct {
	LockTTL     time.Duration  `mapstructure:"lock_ttl"`
	ResultTTL   time.Duration  `mapstructure:"result_ttl"`
	Generic     ProviderConfig `mapstructure:"generic"`
	AdswedMedia ProviderConfig `mapstructure:"adswedmedia"`
	CPX         ProviderConfig `mapstructure:"cpx"`
	Gemiwall    ProviderConfig `mapstructure:"gemiwall"`
	Notik       ProviderConfig `mapstructure:"notik"`
}

type WithdrawalConfig struct {
	Coins     []string `mapstructure:"coins"`      // allowlisted payout coins
	MinAmount int64    `mapstructure:"min_amount"` // in points
}

type AdminConfig struct {
	Emails []string `mapstructure:"emails"` // flagged admin at registration
}

type TelegramConfig struct {
	Token   string        `mapstructure:"token"` // empty = notifications disabled
	ChatID  int64         `mapstructure:"chat_id"`
	Timeout time.Duration `mapstructure:"timeout"` // per Bot API call
}

// WebhookConfig configures the signed ops webhook for withdrawal events.
type WebhookConfig struct {
	URL     string        `mapstructure:"url"` // empty = disabled
	Secret  string        `mapstructure:"secret"`
	Timeout time.Duration `mapstructure:"timeout"`
}

// RateLimitConfig holds fixed-window limits per client IP.
type RateLimitConfig struct {
	Window   time.Duration `mapstructure:"window"`
	Auth     int64         `mapstructure:"auth"`     // per window on /auth routes
	Postback int64         `mapstructure:"postback"` // per window on /postback routes
	API      int64         `mapstructure:"api"`      // per window on authenticated routes
}

// Load reads configuration from file and environment variables.
// A .env file in the working directory is loaded first if present.
// Environment variables override file values. Prefix: OFW_.
// Nested keys use underscore: OFW_DATABASE_HOST, OFW_OFFERWALL_CPX_SECRET, etc.
func Load(path string) (*Config, error) {
	_ = godotenv.Load() // optional

	v := viper.New()

	// Defaults
	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.mode", "debug")
	v.SetDefault("server.trusted_proxies", []string{})
	v.SetDefault("server.shutdown_timeout", "15s")
	v.SetDefault("database.host", "localhost")
	v.SetDefault("database.port", 5432)
	v.SetDefault("database.user", "postgres")
	v.SetDefault("database.password", "postgres")
	v.SetDefault("database.dbname", "offerwall")
	v.SetDefault("database.sslmode", "disable")
	v.SetDefault("database.max_conns", 20)
	v.SetDefault("database.min_conns", 5)
	v.SetDefault("database.conn_max_lifetime", "30m")
	v.SetDefault("database.auto_migrate", true)
	v.SetDefault("database.connect_attempts", 5)
	v.SetDefault("database.connect_retry_delay", "2s")
	v.SetDefault("redis.host", "localhost")
	v.SetDefault("redis.port", 6379)
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)
	v.SetDefault("jwt.secret", "")
	v.SetDefault("jwt.expiry", "24h")
	v.SetDefault("jwt.issuer", "offerwall-rewards")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.pretty", false)
	v.SetDefault("offerwall.lock_ttl", "30s")
	v.SetDefault("offerwall.result_ttl", "24h")
	for _, p := range []string{"generic", "adswedmedia", "cpx", "gemiwall", "notik"} {
		v.SetDefault("offerwall."+p+".enabled", true)
		v.SetDefault("offerwall."+p+".secret", "")
		v.SetDefault("offerwall."+p+".rate", 1.0)
		v.SetDefault("offerwall."+p+".allowed_ips", []string{})
	}
	v.SetDefault("withdrawal.coins", []string{"BTC", "ETH", "LTC", "USDT", "TON"})
	v.SetDefault("withdrawal.min_amount", 1000)
	v.SetDefault("admin.emails", []string{})
	v.SetDefault("telegram.token", "")
	v.SetDefault("telegram.chat_id", 0)
	v.SetDefault("telegram.timeout", "10s")
	v.SetDefault("webhook.url", "")
	v.SetDefault("webhook.secret", "")
	v.SetDefault("webhook.timeout", "10s")
	v.SetDefault("rate_limit.window", "1m")
	v.SetDefault("rate_limit.auth", 10)
	v.SetDefault("rate_limit.postback", 600)
	v.SetDefault("rate_limit.api", 120)

	// File config
	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("./config")
	}

	// Environment variables: OFW_DATABASE_HOST -> database.host
	v.SetEnvPrefix("OFW")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Read config file (not required, env vars can suffice)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshaling config: %w", err)
	}

	for i, c := range cfg.Withdrawal.Coins {
		cfg.Withdrawal.Coins[i] = strings.ToUpper(strings.TrimSpace(c))
	}

	return &cfg, nil
}

// Validate checks settings the server cannot start without.
func (c *Config) Validate() error {
	if c.JWT.Secret == "" {
		return errors.New("jwt.secret is required")
	}
	if len(c.Withdrawal.Coins) == 0 {
		return errors.New("withdrawal.coins must not be empty")
	}
	if c.Withdrawal.MinAmount <= 0 {
		return errors.New("withdrawal.min_amount must be positive")
	}
	if c.Webhook.URL != "" && c.Webhook.Secret == "" {
		return errors.New("webhook.secret is required when webhook.url is set")
	}
	return nil
}
