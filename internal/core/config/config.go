package config

import (
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/spf13/viper"
)

type HTTP struct {
	Host            string
	Port            int
	ReadTimeoutSec  int
	WriteTimeoutSec int
	IdleTimeoutSec  int
}

type App struct {
	Name string
	Env  string
	HTTP HTTP
}

type LogFile struct {
	Enable     bool
	Filename   string
	MaxSizeMB  int
	MaxBackups int
	MaxAgeDays int
	Compress   bool
}

type Log struct {
	Level string
	JSON  bool
	File  LogFile
}

type JWT struct {
	Secret              string
	Issuer              string
	AccessTokenTTLMin   int
	RefreshTokenTTLHour int
}

type Redis struct {
	Addr     string `mapstructure:"addr"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

type DB struct {
	Driver             string
	DSN                string
	Username           string
	Password           string
	MaxOpenConns       int
	MaxIdleConns       int
	ConnMaxLifetimeMin int
	AutoMigrate        bool
	LogLevel           string
}

type Auth struct {
	// "db" 或 "redis"
	RevocationStore string `mapstructure:"revocation_store"`
	UserCacheTTLSec int    `mapstructure:"user_cache_ttl_sec"`
}

type Query struct {
	Strict          bool `mapstructure:"strict"`
	DefaultPageSize int  `mapstructure:"default_page_size"`
	MaxPageSize     int  `mapstructure:"max_page_size"`
}

type Limits struct {
	RPS          float64 `mapstructure:"rps"`
	Burst        int     `mapstructure:"burst"`
	PerIPRPS     float64 `mapstructure:"per_ip_rps"`
	PerIPBurst   int     `mapstructure:"per_ip_burst"`
	Concurrency  int64   `mapstructure:"concurrency"`
	MaxBodyBytes int64   `mapstructure:"max_body_bytes"`
	TimeoutSec   int     `mapstructure:"timeout_sec"`
}

type Config struct {
	App    App
	Log    Log
	JWT    JWT
	DB     DB
	Redis  Redis  `mapstructure:"redis"`
	Auth   Auth   `mapstructure:"auth"`
	Query  Query  `mapstructure:"query"`
	Limits Limits `mapstructure:"limits"`
}

// UseRedis reports whether a Redis address has been configured.
func (c *Config) UseRedis() bool { return strings.TrimSpace(c.Redis.Addr) != "" }

func setDefaults(v *viper.Viper) {
	v.SetDefault("app.name", "issue-tracker")
	v.SetDefault("app.env", "local")
	v.SetDefault("app.http.host", "0.0.0.0")
	v.SetDefault("app.http.port", 8080)
	v.SetDefault("app.http.readtimeoutsec", 5)
	v.SetDefault("app.http.writetimeoutsec", 10)
	v.SetDefault("app.http.idletimeoutsec", 60)

	v.SetDefault("log.level", "info")
	v.SetDefault("log.json", false)
	v.SetDefault("log.file.filename", "logs/app.log")
	v.SetDefault("log.file.maxsizemb", 100)
	v.SetDefault("log.file.maxbackups", 7)
	v.SetDefault("log.file.maxagedays", 30)

	v.SetDefault("jwt.secret", "")
	v.SetDefault("jwt.issuer", "issue-tracker")
	v.SetDefault("jwt.accesstokenttlmin", 5)
	v.SetDefault("jwt.refreshtokenttlhour", 24)

	v.SetDefault("db.driver", "sqlite")
	v.SetDefault("db.dsn", "issue_tracker.db")
	v.SetDefault("db.maxopenconns", 20)
	v.SetDefault("db.maxidleconns", 10)
	v.SetDefault("db.connmaxlifetimemin", 30)
	v.SetDefault("db.automigrate", true)
	v.SetDefault("db.loglevel", "warn")

	v.SetDefault("auth.revocation_store", "db")
	v.SetDefault("auth.user_cache_ttl_sec", 30)

	v.SetDefault("query.strict", false)
	v.SetDefault("query.default_page_size", 10)
	v.SetDefault("query.max_page_size", 200)

	v.SetDefault("limits.rps", 200)
	v.SetDefault("limits.burst", 400)
	v.SetDefault("limits.per_ip_rps", 20)
	v.SetDefault("limits.per_ip_burst", 40)
	v.SetDefault("limits.concurrency", 300)
	v.SetDefault("limits.max_body_bytes", 16<<20)
	v.SetDefault("limits.timeout_sec", 10)
}

// Read loads the YAML file at path (falling back to CONFIG_PATH and then the
// local default) and applies APP_* environment overrides.
func Read(path string) (*Config, error) {
	v := viper.New()
	if path == "" {
		path = os.Getenv("CONFIG_PATH")
		if path == "" {
			path = "./configs/config.local.yaml"
		}
	}
	setDefaults(v)
	v.SetConfigFile(path)
	v.SetConfigType("yaml")
	v.SetEnvPrefix("APP")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	if c.JWT.Secret == "" {
		return nil, fmt.Errorf("jwt.secret is required")
	}
	return &c, nil
}

func Load(path string) *Config {
	c, err := Read(path)
	if err != nil {
		log.Fatalf("%v", err)
	}
	return c
}
