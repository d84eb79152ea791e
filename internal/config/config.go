package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"
	"github.com/labstack/gommon/random"
)

// Config represents the complete configuration
type Config struct {
	Server   ServerConfig   `toml:"server"`
	Database DatabaseConfig `toml:"database"`
	Redis    RedisConfig    `toml:"redis"`
	Minio    MinioConfig    `toml:"minio"`
	Reports  ReportsConfig  `toml:"reports"`
	Jobs     JobsConfig     `toml:"jobs"`
	Auth     AuthConfig     `toml:"auth"`
	Log      LogConfig      `toml:"log"`
	Tables   TablesConfig   `toml:"tables"`
}

type ServerConfig struct {
	Port            int      `toml:"port"`
	ShutdownTimeout Duration `toml:"shutdown_timeout"`
	// Timezone is used to read calendar dates on report requests.
	Timezone string `toml:"timezone"`
}

type DatabaseConfig struct {
	URL      string `toml:"url"`
	MaxConns int32  `toml:"max_conns"`
}

type RedisConfig struct {
	Addr     string `toml:"addr"`
	Password string `toml:"password"`
	DB       int    `toml:"db"`
	// FilterTTL bounds how long persisted table filters live. Zero keeps them.
	FilterTTL Duration `toml:"filter_ttl"`
}

type MinioConfig struct {
	Endpoint  string `toml:"endpoint"`
	AccessKey string `toml:"access_key"`
	SecretKey string `toml:"secret_key"`
	Region    string `toml:"region"`
	UseSSL    bool   `toml:"use_ssl"`
	Bucket    string `toml:"bucket"`
}

type ReportsConfig struct {
	URLExpiry Duration `toml:"url_expiry"`
}

type JobsConfig struct {
	Enabled           bool     `toml:"enabled"`
	DatasetRefresh    Duration `toml:"dataset_refresh"`
	ArchiveAt         string   `toml:"archive_at"`
	WorkerQueue       string   `toml:"worker_queue"`
	WorkerConcurrency int      `toml:"worker_concurrency"`
}

type AuthConfig struct {
	Secret   string   `toml:"secret"`
	TokenTTL Duration `toml:"token_ttl"`
	// SecretGenerated is set when no secret was configured and a random one
	// was made up for this process.
	SecretGenerated bool `toml:"-"`
}

type LogConfig struct {
	Level       string `toml:"level"`
	Development bool   `toml:"development"`
}

type TablesConfig struct {
	PageSize     int      `toml:"page_size"`
	MemoSize     int      `toml:"memo_size"`
	Workspaces   int      `toml:"workspaces"`
	WorkspaceTTL Duration `toml:"workspace_ttl"`
}

// Duration decodes TOML strings such as "15m".
type Duration struct {
	time.Duration
}

func (d *Duration) UnmarshalText(text []byte) error {
	v, err := time.ParseDuration(string(text))
	if err != nil {
		return fmt.Errorf("invalid duration %q: %w", text, err)
	}
	d.Duration = v
	return nil
}

func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.Duration.String()), nil
}

// Default returns the development defaults.
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Port:            8080,
			ShutdownTimeout: Duration{10 * time.Second},
			Timezone:        "Local",
		},
		Database: DatabaseConfig{MaxConns: 10},
		Redis:    RedisConfig{Addr: "localhost:6379"},
		Minio: MinioConfig{
			Endpoint:  "localhost:9000",
			AccessKey: "minioadmin",
			SecretKey: "minioadmin",
			Region:    "us-east-1",
			Bucket:    "reports",
		},
		Reports: ReportsConfig{URLExpiry: Duration{15 * time.Minute}},
		Jobs: JobsConfig{
			Enabled:           true,
			DatasetRefresh:    Duration{5 * time.Minute},
			ArchiveAt:         "01:00",
			WorkerQueue:       "reports",
			WorkerConcurrency: 2,
		},
		Auth: AuthConfig{TokenTTL: Duration{8 * time.Hour}},
		Log:  LogConfig{Level: "info"},
		Tables: TablesConfig{
			PageSize:     10,
			MemoSize:     64,
			Workspaces:   256,
			WorkspaceTTL: Duration{30 * time.Minute},
		},
	}
}

// Load reads the optional TOML file at path, then a .env file when present,
// then applies environment overrides. An empty path skips the file.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path != "" {
		if _, err := toml.DecodeFile(path, cfg); err != nil {
			return nil, fmt.Errorf("failed to load config file: %w", err)
		}
	}

	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("failed to load .env: %w", err)
	}
	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}

	if cfg.Auth.Secret == "" {
		cfg.Auth.Secret = random.String(32)
		cfg.Auth.SecretGenerated = true
	}
	return cfg, cfg.Validate()
}

func (c *Config) applyEnv() error {
	setString(&c.Database.URL, "DATABASE_URL")
	setString(&c.Redis.Addr, "REDIS_ADDR")
	setString(&c.Redis.Password, "REDIS_PASSWORD")
	setString(&c.Minio.Endpoint, "MINIO_ENDPOINT")
	setString(&c.Minio.AccessKey, "MINIO_ACCESS_KEY")
	setString(&c.Minio.SecretKey, "MINIO_SECRET_KEY")
	setString(&c.Minio.Region, "MINIO_REGION")
	setString(&c.Minio.Bucket, "MINIO_BUCKET")
	setString(&c.Auth.Secret, "JWT_SECRET")
	setString(&c.Log.Level, "LOG_LEVEL")
	setString(&c.Server.Timezone, "REPORTS_TIMEZONE")

	if err := setInt(&c.Redis.DB, "REDIS_DB"); err != nil {
		return err
	}
	if err := setInt(&c.Server.Port, "PORT"); err != nil {
		return err
	}
	if v, ok := os.LookupEnv("MINIO_USE_SSL"); ok {
		c.Minio.UseSSL = strings.EqualFold(v, "true")
	}
	if v, ok := os.LookupEnv("JOBS_ENABLED"); ok {
		c.Jobs.Enabled = !strings.EqualFold(v, "false")
	}
	return nil
}

// Validate checks the settings every command needs.
func (c *Config) Validate() error {
	if c.Database.URL == "" {
		return errors.New("DATABASE_URL environment variable is required")
	}
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid port %d", c.Server.Port)
	}
	if c.Tables.PageSize < 1 {
		return fmt.Errorf("invalid page size %d", c.Tables.PageSize)
	}
	if _, err := c.Location(); err != nil {
		return err
	}
	return nil
}

// Location resolves Server.Timezone.
func (c *Config) Location() (*time.Location, error) {
	loc, err := time.LoadLocation(c.Server.Timezone)
	if err != nil {
		return nil, fmt.Errorf("invalid timezone %q: %w", c.Server.Timezone, err)
	}
	return loc, nil
}

func setString(dst *string, key string) {
	if v := os.Getenv(key); v != "" {
		*dst = v
	}
}

func setInt(dst *int, key string) error {
	v := os.Getenv(key)
	if v == "" {
		return nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fmt.Errorf("invalid %s %q: %w", key, v, err)
	}
	*dst = n
	return nil
}
