package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

const secret = "0123456789abcdef0123"

func TestLoad_DefaultsAndEnv(t *testing.T) {
	t.Setenv("APP_PORT", "9090")
	t.Setenv("REDIS_DB", "3")
	t.Setenv("JWT_SECRET", secret)

	dir := t.TempDir()
	wd, _ := os.Getwd()
	if err := os.Chdir(dir); err != nil {
		t.Fatalf("chdir: %v", err)
	}
	t.Cleanup(func() { _ = os.Chdir(wd) })

	c, err := Load("")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if c.AppPort != "9090" || c.RedisDB != 3 {
		t.Fatalf("env not applied: %+v", c)
	}
	if c.DBDriver != DriverMySQL || c.IdempTTLSecs != 300 || c.BulkConcurrency != 1 {
		t.Fatalf("defaults not applied: %+v", c)
	}
	if c.TokenTTL() != 8*time.Hour {
		t.Fatalf("token ttl = %v", c.TokenTTL())
	}
	if err := c.Validate(); err != nil {
		t.Fatalf("Validate: %v", err)
	}
}

func TestLoad_FileThenEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	body := "app_port: \"7070\"\ndb_driver: sqlite\nsqlite_path: /tmp/x.db\nlog_level: debug\n"
	if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
		t.Fatalf("write: %v", err)
	}
	t.Setenv("LOG_LEVEL", "warn")

	c, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if c.AppPort != "7070" || c.DBDriver != DriverSQLite || c.DSN() != "/tmp/x.db" {
		t.Fatalf("file not applied: %+v", c)
	}
	if c.LogLevel != "warn" {
		t.Fatalf("env should win over file, got %q", c.LogLevel)
	}
}

func TestValidate(t *testing.T) {
	base := func() *Config {
		return &Config{
			AppPort: "8080", DBDriver: DriverMySQL,
			MySQLHost: "h", MySQLPort: "3306", MySQLDB: "d", MySQLUser: "u",
			JWTSecret: secret, JWTTTLMinutes: 60, BulkConcurrency: 1, IdempTTLSecs: 300, Timezone: "UTC",
		}
	}
	cases := []struct {
		name   string
		mutate func(c *Config)
		want   string
	}{
		{"ok", func(c *Config) {}, ""},
		{"missing mysql host", func(c *Config) { c.MySQLHost = "" }, "missing MySQL config"},
		{"bad mysql port", func(c *Config) { c.MySQLPort = "abc" }, "invalid MYSQL_PORT"},
		{"postgres missing db", func(c *Config) {
			c.DBDriver = DriverPostgres
			c.PostgresHost = "h"
			c.PostgresPort = "5432"
			c.PostgresUser = "u"
		}, "missing Postgres config"},
		{"unknown driver", func(c *Config) { c.DBDriver = "oracle" }, "unsupported DB_DRIVER"},
		{"dsn override skips pieces", func(c *Config) { c.DBDSN = "x"; c.MySQLHost = "" }, ""},
		{"short secret", func(c *Config) { c.JWTSecret = "short" }, "JWT_SECRET"},
		{"token ttl", func(c *Config) { c.JWTTTLMinutes = 0 }, "JWT_TTL_MINUTES"},
		{"bulk", func(c *Config) { c.BulkConcurrency = 0 }, "BULK_CONCURRENCY"},
		{"timezone", func(c *Config) { c.Timezone = "Mars/Olympus" }, "invalid TIMEZONE"},
		{"port", func(c *Config) { c.AppPort = "" }, "missing APP_PORT"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			c := base()
			tc.mutate(c)
			err := c.Validate()
			if tc.want == "" {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), tc.want) {
				t.Fatalf("want error containing %q, got %v", tc.want, err)
			}
		})
	}
}

func TestDSN(t *testing.T) {
	c := &Config{DBDriver: DriverMySQL, MySQLUser: "u", MySQLPass: "p", MySQLHost: "h", MySQLPort: "3306", MySQLDB: "d"}
	if got := c.DSN(); !strings.HasPrefix(got, "u:p@tcp(h:3306)/d?") {
		t.Fatalf("mysql dsn = %q", got)
	}
	c = &Config{DBDriver: DriverPostgres, PostgresHost: "h", PostgresPort: "5432", PostgresUser: "u", PostgresPass: "p", PostgresDB: "d", PostgresSSLMode: "disable"}
	if got := c.DSN(); got != "host=h port=5432 user=u password=p dbname=d sslmode=disable" {
		t.Fatalf("postgres dsn = %q", got)
	}
	c.DBDSN = "override"
	if c.DSN() != "override" {
		t.Fatalf("override ignored")
	}
}
