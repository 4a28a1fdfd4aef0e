package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"notekeep/utils"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

const (
	CacheNone   = "none"
	CacheMemory = "memory"
	CacheRedis  = "redis"
)

type Config struct {
	Port            string         `yaml:"port"`
	Database        DatabaseConfig `yaml:"database"`
	Uploads         UploadsConfig  `yaml:"uploads"`
	Cache           CacheConfig    `yaml:"cache"`
	Log             LogConfig      `yaml:"log"`
	CORSOrigins     []string       `yaml:"cors_origins"`
	MaxBodyBytes    int64          `yaml:"max_body_bytes"`
	StrictMutations bool           `yaml:"strict_mutations"`
	SanitizeHTML    bool           `yaml:"sanitize_html"`
	ShutdownTimeout time.Duration  `yaml:"shutdown_timeout"`
}

type UploadsConfig struct {
	Dir           string `yaml:"dir"`
	URLPrefix     string `yaml:"url_prefix"`
	PublicBaseURL string `yaml:"public_base_url"`
	MaxBytes      int64  `yaml:"max_bytes"`
}

type CacheConfig struct {
	Backend  string `yaml:"backend"`
	Size     int    `yaml:"size"`
	RedisURL string `yaml:"redis_url"`
}

type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

func Default() *Config {
	return &Config{
		Port:     "3000",
		Database: defaultDatabaseConfig(),
		Uploads: UploadsConfig{
			Dir:       "uploads",
			URLPrefix: "/uploads",
			MaxBytes:  5 << 20,
		},
		Cache: CacheConfig{
			Backend:  CacheNone,
			Size:     512,
			RedisURL: "redis://localhost:6379/0",
		},
		Log: LogConfig{
			Level:  "info",
			Format: "json",
		},
		CORSOrigins:     []string{"*"},
		MaxBodyBytes:    10 << 20,
		ShutdownTimeout: 10 * time.Second,
	}
}

// Load builds the configuration from defaults, an optional .env file, an
// optional YAML file named by NOTEKEEP_CONFIG, and finally the environment.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("loading .env: %w", err)
	}

	cfg := Default()
	if path := os.Getenv("NOTEKEEP_CONFIG"); path != "" {
		if err := cfg.loadFile(path); err != nil {
			return nil, err
		}
	}
	cfg.applyEnv()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) loadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading config file: %w", err)
	}
	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("parsing config file %s: %w", path, err)
	}
	return nil
}

func (c *Config) applyEnv() {
	c.Port = utils.GetEnvAsString("PORT", c.Port)
	c.Database.applyEnv()

	c.Uploads.Dir = utils.GetEnvAsString("UPLOADS_DIR", c.Uploads.Dir)
	c.Uploads.PublicBaseURL = utils.GetEnvAsString("PUBLIC_BASE_URL", c.Uploads.PublicBaseURL)
	c.Uploads.MaxBytes = utils.GetEnvAsInt64("MAX_UPLOAD_BYTES", c.Uploads.MaxBytes)

	c.Cache.Backend = utils.GetEnvAsString("CACHE_BACKEND", c.Cache.Backend)
	c.Cache.Size = utils.GetEnvAsInt("CACHE_SIZE", c.Cache.Size)
	c.Cache.RedisURL = utils.GetEnvAsString("REDIS_URL", c.Cache.RedisURL)

	c.Log.Level = utils.GetEnvAsString("LOG_LEVEL", c.Log.Level)
	c.Log.Format = utils.GetEnvAsString("LOG_FORMAT", c.Log.Format)

	c.CORSOrigins = utils.GetEnvAsList("CORS_ORIGINS", c.CORSOrigins)
	c.MaxBodyBytes = utils.GetEnvAsInt64("MAX_BODY_BYTES", c.MaxBodyBytes)
	c.StrictMutations = utils.GetEnvAsBool("STRICT_MUTATIONS", c.StrictMutations)
	c.SanitizeHTML = utils.GetEnvAsBool("SANITIZE_HTML", c.SanitizeHTML)
	c.ShutdownTimeout = utils.GetEnvAsDuration("SHUTDOWN_TIMEOUT", c.ShutdownTimeout)
}

func (c *Config) Validate() error {
	if c.Port == "" {
		return fmt.Errorf("port must not be empty")
	}
	if _, err := c.Database.DSN(); err != nil {
		return err
	}
	if c.Uploads.Dir == "" {
		return fmt.Errorf("uploads dir must not be empty")
	}
	if c.Uploads.MaxBytes <= 0 {
		return fmt.Errorf("max upload bytes must be positive, got %d", c.Uploads.MaxBytes)
	}
	if !strings.HasPrefix(c.Uploads.URLPrefix, "/") {
		return fmt.Errorf("uploads url prefix must start with '/', got %q", c.Uploads.URLPrefix)
	}
	switch c.Cache.Backend {
	case CacheNone, CacheMemory, CacheRedis:
	default:
		return fmt.Errorf("unknown cache backend %q", c.Cache.Backend)
	}
	return nil
}
