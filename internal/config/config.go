package config

import (
	"errors"
	"fmt"
	"net"
	"strings"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	AppPort string `mapstructure:"app_port"`

	DBDriver string `mapstructure:"db_driver"` // mysql | postgres | sqlite
	DBDSN    string `mapstructure:"db_dsn"`    // overrides the per-driver pieces below

	MySQLHost string `mapstructure:"mysql_host"`
	MySQLPort string `mapstructure:"mysql_port"`
	MySQLDB   string `mapstructure:"mysql_db"`
	MySQLUser string `mapstructure:"mysql_user"`
	MySQLPass string `mapstructure:"mysql_pass"`

	PostgresHost    string `mapstructure:"postgres_host"`
	PostgresPort    string `mapstructure:"postgres_port"`
	PostgresDB      string `mapstructure:"postgres_db"`
	PostgresUser    string `mapstructure:"postgres_user"`
	PostgresPass    string `mapstructure:"postgres_pass"`
	PostgresSSLMode string `mapstructure:"postgres_sslmode"`

	SQLitePath string `mapstructure:"sqlite_path"`

	RedisAddr     string `mapstructure:"redis_addr"`
	RedisPassword string `mapstructure:"redis_password"`
	RedisDB       int    `mapstructure:"redis_db"`
	RedisPoolSize int    `mapstructure:"redis_pool_size"`

	IdempTTLSecs    int `mapstructure:"idempotency_ttl_seconds"`
	PrefsTTLHours   int `mapstructure:"preferences_ttl_hours"`
	BulkConcurrency int `mapstructure:"bulk_concurrency"`

	JWTSecret     string `mapstructure:"jwt_secret"`
	JWTTTLMinutes int    `mapstructure:"jwt_ttl_minutes"`

	LogLevel  string `mapstructure:"log_level"`
	LogFormat string `mapstructure:"log_format"`

	Timezone      string `mapstructure:"timezone"`
	NotifyChannel string `mapstructure:"notify_channel"`
}

const (
	DriverMySQL    = "mysql"
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

func setDefaults(v *viper.Viper) {
	v.SetDefault("app_port", "8080")
	v.SetDefault("db_driver", DriverMySQL)
	v.SetDefault("db_dsn", "")

	v.SetDefault("mysql_host", "mysql")
	v.SetDefault("mysql_port", "3306")
	v.SetDefault("mysql_db", "ops_portal")
	v.SetDefault("mysql_user", "ops_portal")
	v.SetDefault("mysql_pass", "ops_portal")

	v.SetDefault("postgres_host", "postgres")
	v.SetDefault("postgres_port", "5432")
	v.SetDefault("postgres_db", "ops_portal")
	v.SetDefault("postgres_user", "ops_portal")
	v.SetDefault("postgres_pass", "ops_portal")
	v.SetDefault("postgres_sslmode", "disable")

	v.SetDefault("sqlite_path", "ops_portal.db")

	v.SetDefault("redis_addr", "redis:6379")
	v.SetDefault("redis_password", "")
	v.SetDefault("redis_db", 0)
	v.SetDefault("redis_pool_size", 0)

	v.SetDefault("idempotency_ttl_seconds", 300)
	v.SetDefault("preferences_ttl_hours", 24*30)
	v.SetDefault("bulk_concurrency", 1)

	v.SetDefault("jwt_secret", "")
	v.SetDefault("jwt_ttl_minutes", 480)
	v.SetDefault("log_level", "info")
	v.SetDefault("log_format", "json")
	v.SetDefault("timezone", "UTC")
	v.SetDefault("notify_channel", "ops:notifications")
}

// Load reads defaults, then an optional config file, then the environment (env wins).
// An empty path looks for ./config.yaml.
func Load(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
	}
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	return &c, nil
}

func (c *Config) Validate() error {
	if c.AppPort == "" {
		return errors.New("missing APP_PORT")
	}
	if _, err := net.LookupPort("tcp", c.AppPort); err != nil {
		return fmt.Errorf("invalid APP_PORT %q: %w", c.AppPort, err)
	}
	if c.DBDSN == "" {
		switch c.DBDriver {
		case DriverMySQL:
			if c.MySQLHost == "" || c.MySQLPort == "" || c.MySQLDB == "" || c.MySQLUser == "" {
				return errors.New("missing MySQL config (MYSQL_HOST/PORT/DB/USER)")
			}
			// ensure port is valid
			if _, err := net.LookupPort("tcp", c.MySQLPort); err != nil {
				return fmt.Errorf("invalid MYSQL_PORT %q: %w", c.MySQLPort, err)
			}
		case DriverPostgres:
			if c.PostgresHost == "" || c.PostgresPort == "" || c.PostgresDB == "" || c.PostgresUser == "" {
				return errors.New("missing Postgres config (POSTGRES_HOST/PORT/DB/USER)")
			}
			if _, err := net.LookupPort("tcp", c.PostgresPort); err != nil {
				return fmt.Errorf("invalid POSTGRES_PORT %q: %w", c.PostgresPort, err)
			}
		case DriverSQLite:
			if c.SQLitePath == "" {
				return errors.New("missing SQLITE_PATH")
			}
		default:
			return fmt.Errorf("unsupported DB_DRIVER %q", c.DBDriver)
		}
	} else if c.DBDriver != DriverMySQL && c.DBDriver != DriverPostgres && c.DBDriver != DriverSQLite {
		return fmt.Errorf("unsupported DB_DRIVER %q", c.DBDriver)
	}
	if len(c.JWTSecret) < 16 {
		return errors.New("JWT_SECRET must be at least 16 characters")
	}
	if c.JWTTTLMinutes <= 0 {
		return errors.New("JWT_TTL_MINUTES must be positive")
	}
	if c.BulkConcurrency < 1 {
		return errors.New("BULK_CONCURRENCY must be >= 1")
	}
	if c.IdempTTLSecs <= 0 {
		return errors.New("IDEMPOTENCY_TTL_SECONDS must be positive")
	}
	if _, err := c.Location(); err != nil {
		return fmt.Errorf("invalid TIMEZONE %q: %w", c.Timezone, err)
	}
	return nil
}

// Location is the zone "today" is evaluated in for day gating.
func (c *Config) Location() (*time.Location, error) {
	if c.Timezone == "" {
		return time.UTC, nil
	}
	return time.LoadLocation(c.Timezone)
}

// DSN picks DB_DSN when set, otherwise builds one for the configured driver.
func (c *Config) DSN() string {
	if c.DBDSN != "" {
		return c.DBDSN
	}
	switch c.DBDriver {
	case DriverPostgres:
		return c.PostgresDSN()
	case DriverSQLite:
		return c.SQLitePath
	default:
		return c.MySQLDSN()
	}
}

func (c *Config) mysqlAddr() string { return net.JoinHostPort(c.MySQLHost, c.MySQLPort) }

func (c *Config) MySQLDSN() string {
	// parseTime needed for DATETIME
	return fmt.Sprintf("%s:%s@tcp(%s)/%s?parseTime=true&charset=utf8mb4,utf8",
		c.MySQLUser, c.MySQLPass, c.mysqlAddr(), c.MySQLDB)
}

func (c *Config) PostgresDSN() string {
	return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.PostgresHost, c.PostgresPort, c.PostgresUser, c.PostgresPass, c.PostgresDB, c.PostgresSSLMode)
}

func (c *Config) IdempotencyTTL() time.Duration { return time.Duration(c.IdempTTLSecs) * time.Second }

func (c *Config) TokenTTL() time.Duration { return time.Duration(c.JWTTTLMinutes) * time.Minute }

func (c *Config) PreferencesTTL() time.Duration { return time.Duration(c.PrefsTTLHours) * time.Hour }
