// Package config loads catwatch settings from flags, CATWATCH_* environment
// variables and an optional catwatch.yaml, in that order of precedence.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

const EnvPrefix = "CATWATCH"

// Server captures HTTP server level configuration.
type Server struct {
	Addr            string
	JWTSigningKey   string
	RequestTimeout  time.Duration
	ShutdownTimeout time.Duration
}

type Log struct {
	Format string
	Level  string
}

type Postgres struct {
	URL string
}

// RedisConfig holds connection settings. An empty URL disables Redis.
type RedisConfig struct {
	URL          string
	PoolSize     int
	MinIdleConns int
	DialTimeout  time.Duration
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

// Kafka holds the refresh-feed settings. No brokers disables Kafka.
type Kafka struct {
	Brokers []string
	Topic   string
}

type Sightings struct {
	Debounce       time.Duration
	SessionIdleTTL time.Duration
}

type Notifications struct {
	TTL time.Duration
}

type Config struct {
	Server        Server
	Log           Log
	Postgres      Postgres
	Redis         RedisConfig
	Kafka         Kafka
	Sightings     Sightings
	Notifications Notifications
}

var errMissingSigningKey = errors.New("server.jwt_signing_key is required")

// SetDefaults registers every key so AutomaticEnv can see it.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("server.addr", ":8080")
	v.SetDefault("server.jwt_signing_key", "")
	v.SetDefault("server.request_timeout", 30*time.Second)
	v.SetDefault("server.shutdown_timeout", 10*time.Second)
	v.SetDefault("log.format", "json")
	v.SetDefault("log.level", "info")
	v.SetDefault("postgres.url", "")
	v.SetDefault("redis.url", "")
	v.SetDefault("redis.pool_size", 10)
	v.SetDefault("redis.min_idle_conns", 2)
	v.SetDefault("redis.dial_timeout", 5*time.Second)
	v.SetDefault("redis.read_timeout", 3*time.Second)
	v.SetDefault("redis.write_timeout", 3*time.Second)
	v.SetDefault("kafka.brokers", []string{})
	v.SetDefault("kafka.topic", "catwatch.notifications.refresh")
	v.SetDefault("sightings.debounce", 300*time.Millisecond)
	v.SetDefault("sightings.session_idle_ttl", 30*time.Minute)
	v.SetDefault("notifications.ttl", 7*24*time.Hour)
}

// BindFlags exposes the most commonly overridden keys as command flags.
func BindFlags(v *viper.Viper, fs *pflag.FlagSet) error {
	fs.String("addr", ":8080", "HTTP listen address")
	fs.String("log-format", "json", "log format (json or text)")
	fs.String("log-level", "info", "log level")
	fs.String("postgres-url", "", "Postgres connection URL; empty uses the in-memory store")
	fs.String("redis-url", "", "Redis URL; empty keeps notifications in memory")
	fs.StringSlice("kafka-brokers", nil, "Kafka seed brokers for the refresh feed")

	bindings := map[string]string{
		"server.addr":   "addr",
		"log.format":    "log-format",
		"log.level":     "log-level",
		"postgres.url":  "postgres-url",
		"redis.url":     "redis-url",
		"kafka.brokers": "kafka-brokers",
	}
	for key, flag := range bindings {
		if err := v.BindPFlag(key, fs.Lookup(flag)); err != nil {
			return fmt.Errorf("bind flag %s: %w", flag, err)
		}
	}
	return nil
}

// New returns a viper instance configured for catwatch.
func New() *viper.Viper {
	v := viper.New()
	SetDefaults(v)
	v.SetConfigName("catwatch")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	return v
}

// Load reads the optional config file and decodes v into a Config.
func Load(v *viper.Viper) (Config, error) {
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return Config{}, fmt.Errorf("read config file: %w", err)
		}
	}

	cfg := Config{
		Server: Server{
			Addr:            v.GetString("server.addr"),
			JWTSigningKey:   v.GetString("server.jwt_signing_key"),
			RequestTimeout:  v.GetDuration("server.request_timeout"),
			ShutdownTimeout: v.GetDuration("server.shutdown_timeout"),
		},
		Log: Log{
			Format: v.GetString("log.format"),
			Level:  v.GetString("log.level"),
		},
		Postgres: Postgres{URL: v.GetString("postgres.url")},
		Redis: RedisConfig{
			URL:          v.GetString("redis.url"),
			PoolSize:     v.GetInt("redis.pool_size"),
			MinIdleConns: v.GetInt("redis.min_idle_conns"),
			DialTimeout:  v.GetDuration("redis.dial_timeout"),
			ReadTimeout:  v.GetDuration("redis.read_timeout"),
			WriteTimeout: v.GetDuration("redis.write_timeout"),
		},
		Kafka: Kafka{
			Brokers: splitList(v.GetStringSlice("kafka.brokers")),
			Topic:   v.GetString("kafka.topic"),
		},
		Sightings: Sightings{
			Debounce:       v.GetDuration("sightings.debounce"),
			SessionIdleTTL: v.GetDuration("sightings.session_idle_ttl"),
		},
		Notifications: Notifications{TTL: v.GetDuration("notifications.ttl")},
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) Validate() error {
	if c.Server.JWTSigningKey == "" {
		return errMissingSigningKey
	}
	if c.Sightings.Debounce < 0 {
		return fmt.Errorf("sightings.debounce must not be negative, got %s", c.Sightings.Debounce)
	}
	if c.Sightings.SessionIdleTTL <= 0 {
		return fmt.Errorf("sightings.session_idle_ttl must be positive, got %s", c.Sightings.SessionIdleTTL)
	}
	if c.Notifications.TTL <= 0 {
		return fmt.Errorf("notifications.ttl must be positive, got %s", c.Notifications.TTL)
	}
	return nil
}

// splitList accepts both repeated values and a single comma separated
// environment value.
func splitList(in []string) []string {
	out := make([]string, 0, len(in))
	for _, item := range in {
		for part := range strings.SplitSeq(item, ",") {
			if part = strings.TrimSpace(part); part != "" {
				out = append(out, part)
			}
		}
	}
	return out
}
