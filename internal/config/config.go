package config

import (
	"errors"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type Config struct {
	Server    ServerConfig    `mapstructure:"server" yaml:"server"`
	Postgres  PostgresConfig  `mapstructure:"postgres" yaml:"postgres"`
	Redis     RedisConfig     `mapstructure:"redis" yaml:"redis"`
	Auth      AuthConfig      `mapstructure:"auth" yaml:"auth"`
	Broadcast BroadcastConfig `mapstructure:"broadcast" yaml:"broadcast"`
	Chat      ChatConfig      `mapstructure:"chat" yaml:"chat"`
	RateLimit RateLimitConfig `mapstructure:"rate_limit" yaml:"rate_limit"`
	Log       LogConfig       `mapstructure:"log" yaml:"log"`
}

type ServerConfig struct {
	Port int    `mapstructure:"port" yaml:"port"`
	Mode string `mapstructure:"mode" yaml:"mode"`
}

type PostgresConfig struct {
	DSN          string        `mapstructure:"dsn" yaml:"dsn"`
	MaxIdle      int           `mapstructure:"max_idle" yaml:"max_idle"`
	MaxOpen      int           `mapstructure:"max_open" yaml:"max_open"`
	MaxLife      time.Duration `mapstructure:"max_life" yaml:"max_life"`
	ConnectRetry time.Duration `mapstructure:"connect_retry" yaml:"connect_retry"`
}

type RedisConfig struct {
	URL string `mapstructure:"url" yaml:"url"`
}

type AuthConfig struct {
	JWTSecret string        `mapstructure:"jwt_secret" yaml:"jwt_secret"`
	TokenTTL  time.Duration `mapstructure:"token_ttl" yaml:"token_ttl"`
}

type BroadcastConfig struct {
	// pusher | redis
	Driver        string        `mapstructure:"driver" yaml:"driver"`
	ChannelPrefix string        `mapstructure:"channel_prefix" yaml:"channel_prefix"`
	EventName     string        `mapstructure:"event_name" yaml:"event_name"`
	Timeout       time.Duration `mapstructure:"timeout" yaml:"timeout"`
	Pusher        PusherConfig  `mapstructure:"pusher" yaml:"pusher"`
}

type PusherConfig struct {
	AppID   string `mapstructure:"app_id" yaml:"app_id"`
	Key     string `mapstructure:"key" yaml:"key"`
	Secret  string `mapstructure:"secret" yaml:"secret"`
	Cluster string `mapstructure:"cluster" yaml:"cluster"`
	Secure  bool   `mapstructure:"secure" yaml:"secure"`
}

type ChatConfig struct {
	EnforceMembership bool `mapstructure:"enforce_membership" yaml:"enforce_membership"`
}

type RateLimitConfig struct {
	QPS int `mapstructure:"qps" yaml:"qps"`
}

type LogConfig struct {
	Development bool `mapstructure:"development" yaml:"development"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.mode", "release")

	v.SetDefault("postgres.dsn", "")
	v.SetDefault("postgres.max_idle", 10)
	v.SetDefault("postgres.max_open", 25)
	v.SetDefault("postgres.max_life", 5*time.Minute)
	v.SetDefault("postgres.connect_retry", 30*time.Second)

	v.SetDefault("redis.url", "redis://localhost:6379/0")

	v.SetDefault("auth.jwt_secret", "")
	v.SetDefault("auth.token_ttl", 24*time.Hour)

	v.SetDefault("broadcast.driver", "redis")
	v.SetDefault("broadcast.channel_prefix", "my-channel-")
	v.SetDefault("broadcast.event_name", "my_event")
	v.SetDefault("broadcast.timeout", 5*time.Second)
	v.SetDefault("broadcast.pusher.app_id", "")
	v.SetDefault("broadcast.pusher.key", "")
	v.SetDefault("broadcast.pusher.secret", "")
	v.SetDefault("broadcast.pusher.cluster", "eu")
	v.SetDefault("broadcast.pusher.secure", true)

	v.SetDefault("chat.enforce_membership", true)
	v.SetDefault("rate_limit.qps", 0)
	v.SetDefault("log.development", false)
}

// Load читает .env, config/config.yml и переменные окружения (POSTGRES_DSN, AUTH_JWT_SECRET, ...)
func Load() (*Config, error) {
	// .env.local имеет приоритет, отсутствие файлов не ошибка
	_ = godotenv.Load(".env.local")
	_ = godotenv.Load()

	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath("config")
	v.AddConfigPath(".")

	return load(v)
}

func load(v *viper.Viper) (*Config, error) {
	setDefaults(v)
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, err
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) Validate() error {
	if c.Postgres.DSN == "" {
		return errors.New("postgres.dsn is not set")
	}
	if c.Auth.JWTSecret == "" {
		return errors.New("auth.jwt_secret is not set")
	}
	switch c.Broadcast.Driver {
	case "redis":
	case "pusher":
		p := c.Broadcast.Pusher
		if p.AppID == "" || p.Key == "" || p.Secret == "" {
			return errors.New("broadcast.pusher credentials are not set")
		}
	default:
		return errors.New("broadcast.driver must be pusher or redis")
	}
	return nil
}
