// Package config loads application configuration from file and environment.
package config

import (
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/viper"

	"github.com/codeshark-lucifer/pos-system/logging/logger"
)

var (
	mu sync.Mutex
	v  = viper.New()
)

// Config represents the application configuration.
type Config struct {
	AppName     string
	Environment string
	Host        string
	Port        int
	Logger      *logger.Config
	Data        *Data
	Auth        *Auth
}

// Data holds data layer configuration.
type Data struct {
	MongoDB *MongoDB
}

// MongoDB holds document store configuration.
type MongoDB struct {
	URI      string
	Database string
}

// IsProd reports whether the service runs in a production environment.
func (c *Config) IsProd() bool {
	return c.Environment == "production" || c.Environment == "prod"
}

// Addr returns the listen address.
func (c *Config) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// LoadConfig reads configuration from the given file, with environment
// variables taking precedence (e.g. AUTH_JWT_SECRET overrides
// auth.jwt.secret).
func LoadConfig(path string) (*Config, error) {
	mu.Lock()
	defer mu.Unlock()

	setDefaults(v)

	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		// A missing default config file is fine, env and defaults apply.
		if path != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("error reading config: %w", err)
		}
	}

	cfg := fromViper(v)
	if cfg.Auth.JWT.Secret == "" {
		return nil, fmt.Errorf("auth.jwt.secret is required")
	}
	return cfg, nil
}

// Watch re-reads the configuration whenever the underlying file changes.
func Watch(onChange func(*Config)) {
	v.OnConfigChange(func(e fsnotify.Event) {
		mu.Lock()
		cfg := fromViper(v)
		mu.Unlock()
		onChange(cfg)
	})
	v.WatchConfig()
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("app_name", "pos-system")
	v.SetDefault("environment", "development")
	v.SetDefault("host", "")
	v.SetDefault("port", 3000)
	v.SetDefault("logger.level", "info")
	v.SetDefault("logger.format", "text")
	v.SetDefault("logger.output", "stdout")
	v.SetDefault("data.mongodb.uri", "mongodb://localhost:27017")
	v.SetDefault("data.mongodb.database", "pos")
	v.SetDefault("auth.jwt.expire", "1h")
	v.SetDefault("auth.limiter.enabled", true)
	v.SetDefault("auth.limiter.rps", 0.2)
	v.SetDefault("auth.limiter.burst", 10)
}

func fromViper(v *viper.Viper) *Config {
	return &Config{
		AppName:     v.GetString("app_name"),
		Environment: v.GetString("environment"),
		Host:        v.GetString("host"),
		Port:        v.GetInt("port"),
		Logger: &logger.Config{
			Level:      v.GetString("logger.level"),
			Format:     v.GetString("logger.format"),
			Output:     v.GetString("logger.output"),
			OutputFile: v.GetString("logger.output_file"),
		},
		Data: &Data{
			MongoDB: &MongoDB{
				URI:      v.GetString("data.mongodb.uri"),
				Database: v.GetString("data.mongodb.database"),
			},
		},
		Auth: getAuth(v),
	}
}

// Auth holds authentication configuration.
type Auth struct {
	JWT     *JWT
	Limiter *Limiter
}

// JWT holds token signing configuration. Rotating the secret invalidates
// every outstanding token.
type JWT struct {
	Secret string
	Expire time.Duration
}

// Limiter holds login rate limiter configuration.
type Limiter struct {
	Enabled bool
	RPS     float64
	Burst   int
}

func getAuth(v *viper.Viper) *Auth {
	return &Auth{
		JWT: &JWT{
			Secret: v.GetString("auth.jwt.secret"),
			Expire: v.GetDuration("auth.jwt.expire"),
		},
		Limiter: &Limiter{
			Enabled: v.GetBool("auth.limiter.enabled"),
			RPS:     v.GetFloat64("auth.limiter.rps"),
			Burst:   v.GetInt("auth.limiter.burst"),
		},
	}
}
