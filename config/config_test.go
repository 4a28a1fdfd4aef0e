package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/go-sql-driver/mysql"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("NOTEKEEP_CONFIG", "")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "3000", cfg.Port)
	assert.Equal(t, DriverMySQL, cfg.Database.Driver)
	assert.EqualValues(t, 5<<20, cfg.Uploads.MaxBytes)
	assert.Equal(t, "/uploads", cfg.Uploads.URLPrefix)
	assert.Equal(t, CacheNone, cfg.Cache.Backend)
	assert.False(t, cfg.StrictMutations)
	assert.False(t, cfg.SanitizeHTML)
}

func TestLoadFileThenEnv(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)

	path := filepath.Join(dir, "notekeep.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
port: "8080"
database:
  driver: sqlite
  sqlite_path: /tmp/notes.db
uploads:
  dir: /var/lib/notekeep/uploads
  url_prefix: /files
cache:
  backend: memory
  size: 64
shutdown_timeout: 3s
strict_mutations: true
`), 0o644))

	t.Setenv("NOTEKEEP_CONFIG", path)
	t.Setenv("PORT", "9090")
	t.Setenv("CORS_ORIGINS", "http://localhost:5173, https://notes.example.com")
	t.Setenv("SANITIZE_HTML", "true")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "9090", cfg.Port, "env wins over file")
	assert.Equal(t, DriverSQLite, cfg.Database.Driver)
	assert.Equal(t, "/tmp/notes.db", cfg.Database.SQLitePath)
	assert.Equal(t, "/files", cfg.Uploads.URLPrefix)
	assert.Equal(t, CacheMemory, cfg.Cache.Backend)
	assert.Equal(t, 64, cfg.Cache.Size)
	assert.Equal(t, 3*time.Second, cfg.ShutdownTimeout)
	assert.True(t, cfg.StrictMutations)
	assert.True(t, cfg.SanitizeHTML)
	assert.Equal(t, []string{"http://localhost:5173", "https://notes.example.com"}, cfg.CORSOrigins)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		modify func(*Config)
	}{
		{"empty port", func(c *Config) { c.Port = "" }},
		{"unknown driver", func(c *Config) { c.Database.Driver = "postgres" }},
		{"no uploads dir", func(c *Config) { c.Uploads.Dir = "" }},
		{"zero upload size", func(c *Config) { c.Uploads.MaxBytes = 0 }},
		{"relative url prefix", func(c *Config) { c.Uploads.URLPrefix = "uploads" }},
		{"unknown cache", func(c *Config) { c.Cache.Backend = "memcached" }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.modify(cfg)
			assert.Error(t, cfg.Validate())
		})
	}

	assert.NoError(t, Default().Validate())
}

func TestDSN(t *testing.T) {
	cfg := defaultDatabaseConfig()
	cfg.User, cfg.Password, cfg.Host, cfg.Port, cfg.Name = "notes", "secret", "db", 3307, "notekeep"

	dsn, err := cfg.DSN()
	require.NoError(t, err)
	parsed, err := mysql.ParseDSN(dsn)
	require.NoError(t, err)
	assert.Equal(t, "notes", parsed.User)
	assert.Equal(t, "secret", parsed.Passwd)
	assert.Equal(t, "tcp", parsed.Net)
	assert.Equal(t, "db:3307", parsed.Addr)
	assert.Equal(t, "notekeep", parsed.DBName)
	assert.True(t, parsed.ParseTime)
	assert.True(t, parsed.ClientFoundRows)
	assert.Equal(t, time.UTC, parsed.Loc)
	assert.Contains(t, dsn, "charset=utf8mb4")

	// Reserved characters in the password survive the round trip.
	cfg.Password = "p@ss/w?rd:"
	dsn, err = cfg.DSN()
	require.NoError(t, err)
	parsed, err = mysql.ParseDSN(dsn)
	require.NoError(t, err)
	assert.Equal(t, "p@ss/w?rd:", parsed.Passwd)

	cfg.Driver = DriverSQLite
	cfg.SQLitePath = ":memory:"
	dsn, err = cfg.DSN()
	require.NoError(t, err)
	assert.Equal(t, ":memory:", dsn)
}
