package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

const envPrefix = "TRACKIFYR_"

type Config struct {
	Server   ServerConfig   `yaml:"server"`
	Auth     AuthConfig     `yaml:"auth"`
	Storage  StorageConfig  `yaml:"storage"`
	Activity ActivityConfig `yaml:"activity"`
	Log      LogConfig      `yaml:"log"`
}

type ServerConfig struct {
	Addr string `yaml:"addr"`
	CSRF bool   `yaml:"csrf"`
	// ShutdownTimeout bounds graceful shutdown after a signal.
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`
}

type AuthConfig struct {
	// Secret signs the client cookie. Empty means a random per-process secret.
	Secret string `yaml:"secret"`
	// VerifyPassword makes signin compare the stored bcrypt hash.
	VerifyPassword bool          `yaml:"verify_password"`
	ClientCookie   string        `yaml:"client_cookie"`
	ClientTTL      time.Duration `yaml:"client_ttl"`
}

type StorageConfig struct {
	Driver string `yaml:"driver"`

	// memory
	MaxClients int           `yaml:"max_clients"`
	IdleTTL    time.Duration `yaml:"idle_ttl"`

	// sqlite
	Path string `yaml:"path"`

	// postgres
	DatabaseURL string `yaml:"database_url"`

	// redis
	RedisAddr     string `yaml:"redis_addr"`
	RedisPassword string `yaml:"redis_password"`
	RedisDB       int    `yaml:"redis_db"`
	RedisPrefix   string `yaml:"redis_prefix"`
}

type ActivityConfig struct {
	Interval time.Duration `yaml:"interval"`
	Keep     int           `yaml:"keep"`
}

type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

func Default() Config {
	return Config{
		Server: ServerConfig{
			Addr:            ":8000",
			CSRF:            true,
			ShutdownTimeout: 10 * time.Second,
		},
		Auth: AuthConfig{
			ClientCookie: "trackifyr_client",
			ClientTTL:    24 * 365 * time.Hour,
		},
		Storage: StorageConfig{
			Driver:      "memory",
			MaxClients:  1000,
			IdleTTL:     24 * time.Hour,
			Path:        "trackifyr.db",
			RedisAddr:   "localhost:6379",
			RedisPrefix: "trackifyr",
		},
		Activity: ActivityConfig{
			Interval: 10 * time.Second,
			Keep:     20,
		},
		Log: LogConfig{
			Level:  "info",
			Format: "text",
		},
	}
}

// Load reads path (if not empty) over the defaults and applies environment
// overrides.
func Load(path string) (Config, error) {
	cfg := Default()
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return cfg, fmt.Errorf("read config: %w", err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return cfg, fmt.Errorf("parse config: %w", err)
		}
	}
	if err := cfg.applyEnv(); err != nil {
		return cfg, err
	}
	return cfg, cfg.Validate()
}

func (c *Config) applyEnv() error {
	str := func(name string, dst *string) {
		if v, ok := os.LookupEnv(envPrefix + name); ok {
			*dst = v
		}
	}
	str("ADDR", &c.Server.Addr)
	str("SECRET", &c.Auth.Secret)
	str("STORAGE_DRIVER", &c.Storage.Driver)
	str("STORAGE_PATH", &c.Storage.Path)
	str("DATABASE_URL", &c.Storage.DatabaseURL)
	str("REDIS_ADDR", &c.Storage.RedisAddr)
	str("REDIS_PASSWORD", &c.Storage.RedisPassword)
	str("LOG_LEVEL", &c.Log.Level)
	str("LOG_FORMAT", &c.Log.Format)

	for name, dst := range map[string]*bool{
		"CSRF":            &c.Server.CSRF,
		"VERIFY_PASSWORD": &c.Auth.VerifyPassword,
	} {
		if v, ok := os.LookupEnv(envPrefix + name); ok {
			b, err := strconv.ParseBool(v)
			if err != nil {
				return fmt.Errorf("env %s%s: %w", envPrefix, name, err)
			}
			*dst = b
		}
	}
	if v, ok := os.LookupEnv(envPrefix + "ACTIVITY_INTERVAL"); ok {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("env %sACTIVITY_INTERVAL: %w", envPrefix, err)
		}
		c.Activity.Interval = d
	}
	return nil
}

func (c Config) Validate() error {
	var errs []error
	if c.Server.Addr == "" {
		errs = append(errs, errors.New("server.addr is required"))
	}
	// memory storage dies with the process, so a per-process secret is enough
	if c.Auth.Secret == "" && strings.ToLower(c.Storage.Driver) != "memory" {
		errs = append(errs, fmt.Errorf("auth.secret is required for %s storage", c.Storage.Driver))
	}
	if c.Auth.ClientCookie == "" {
		errs = append(errs, errors.New("auth.client_cookie is required"))
	}
	switch strings.ToLower(c.Storage.Driver) {
	case "memory":
	case "sqlite":
		if c.Storage.Path == "" {
			errs = append(errs, errors.New("storage.path is required for sqlite"))
		}
	case "postgres":
		if c.Storage.DatabaseURL == "" {
			errs = append(errs, errors.New("storage.database_url is required for postgres"))
		}
	case "redis":
		if c.Storage.RedisAddr == "" {
			errs = append(errs, errors.New("storage.redis_addr is required for redis"))
		}
	default:
		errs = append(errs, fmt.Errorf("unknown storage driver %q", c.Storage.Driver))
	}
	if c.Activity.Interval <= 0 {
		errs = append(errs, errors.New("activity.interval must be positive"))
	}
	return errors.Join(errs...)
}
