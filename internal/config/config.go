package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config is the server configuration. Every key can be set in rally.yaml or
// through a RALLY_-prefixed environment variable (RALLY_JWT_SECRET, ...).
type Config struct {
	Addr            string        `mapstructure:"addr"`
	SQLitePath      string        `mapstructure:"sqlite_path"`
	MigrationsDir   string        `mapstructure:"migrations_dir"`
	JWTSecret       string        `mapstructure:"jwt_secret"`
	JWTTTL          time.Duration `mapstructure:"jwt_ttl"`
	LogLevel        string        `mapstructure:"log_level"`
	BankPath        string        `mapstructure:"bank_path"`
	MetricsInterval string        `mapstructure:"metrics_interval"`
	StaticDir       string        `mapstructure:"static_dir"`
	DevFrontendURL  string        `mapstructure:"dev_frontend_url"`
	CORSOrigins     []string      `mapstructure:"cors_origins"`
	Commit          string        `mapstructure:"commit"`
	BuildTime       string        `mapstructure:"build_time"`
}

// InMemory reports whether the server runs without a database.
func (c *Config) InMemory() bool { return strings.TrimSpace(c.SQLitePath) == "" }

func setDefaults(v *viper.Viper) {
	v.SetDefault("addr", ":8080")
	v.SetDefault("sqlite_path", "data/rally.db")
	v.SetDefault("migrations_dir", "")
	v.SetDefault("jwt_secret", "rally-dev-secret")
	v.SetDefault("jwt_ttl", "24h")
	v.SetDefault("log_level", "info")
	v.SetDefault("bank_path", "")
	v.SetDefault("metrics_interval", "@every 30s")
	v.SetDefault("static_dir", "")
	v.SetDefault("dev_frontend_url", "")
	v.SetDefault("cors_origins", []string{"*"})
	v.SetDefault("commit", "")
	v.SetDefault("build_time", "")
}

// Load reads .env (if present), then the config file, then the environment.
// An explicit configFile must exist; otherwise ./rally.yaml is optional.
func Load(configFile string) (*Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	setDefaults(v)

	if configFile != "" {
		v.SetConfigFile(configFile)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	} else {
		v.SetConfigName("rally")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				return nil, fmt.Errorf("error reading config file: %w", err)
			}
		}
	}

	v.SetEnvPrefix("RALLY")
	v.AllowEmptyEnv(true)
	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return &cfg, nil
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if strings.TrimSpace(c.Addr) == "" {
		return fmt.Errorf("addr is required")
	}
	if strings.TrimSpace(c.JWTSecret) == "" {
		return fmt.Errorf("jwt_secret is required")
	}
	if c.JWTTTL <= 0 {
		return fmt.Errorf("jwt_ttl must be positive, got %s", c.JWTTTL)
	}
	if strings.TrimSpace(c.MetricsInterval) == "" {
		return fmt.Errorf("metrics_interval is required")
	}
	return nil
}
