package config

import (
	"fmt"
	"net"
	"strconv"
	"time"

	"notekeep/utils"

	"github.com/go-sql-driver/mysql"
)

const (
	DriverMySQL  = "mysql"
	DriverSQLite = "sqlite"
)

type DatabaseConfig struct {
	Driver          string        `yaml:"driver"`
	Host            string        `yaml:"host"`
	Port            int           `yaml:"port"`
	User            string        `yaml:"user"`
	Password        string        `yaml:"password"`
	Name            string        `yaml:"name"`
	SQLitePath      string        `yaml:"sqlite_path"`
	MaxOpenConns    int           `yaml:"max_open_conns"`
	MaxIdleConns    int           `yaml:"max_idle_conns"`
	ConnMaxIdleTime time.Duration `yaml:"conn_max_idle_time"`
}

func defaultDatabaseConfig() DatabaseConfig {
	return DatabaseConfig{
		Driver:          DriverMySQL,
		Host:            "localhost",
		Port:            3306,
		User:            "root",
		Name:            "notekeep",
		SQLitePath:      "notekeep.db",
		MaxOpenConns:    25,
		MaxIdleConns:    5,
		ConnMaxIdleTime: 60 * time.Second,
	}
}

func (c *DatabaseConfig) applyEnv() {
	c.Driver = utils.GetEnvAsString("DB_DRIVER", c.Driver)
	c.Host = utils.GetEnvAsString("DB_HOST", c.Host)
	c.Port = utils.GetEnvAsInt("DB_PORT", c.Port)
	c.User = utils.GetEnvAsString("DB_USER", c.User)
	c.Password = utils.GetEnvAsString("DB_PASSWORD", c.Password)
	c.Name = utils.GetEnvAsString("DB_NAME", c.Name)
	c.SQLitePath = utils.GetEnvAsString("SQLITE_PATH", c.SQLitePath)
	c.MaxOpenConns = utils.GetEnvAsInt("DB_MAX_OPEN_CONNS", c.MaxOpenConns)
	c.MaxIdleConns = utils.GetEnvAsInt("DB_MAX_IDLE_CONNS", c.MaxIdleConns)
	c.ConnMaxIdleTime = utils.GetEnvAsDuration("DB_CONN_MAX_IDLE_TIME", c.ConnMaxIdleTime)
}

// DSN returns the data source name for the configured driver. MySQL reports
// matched rather than changed rows so that re-applying a flag value still
// counts as a hit.
func (c DatabaseConfig) DSN() (string, error) {
	switch c.Driver {
	case DriverMySQL:
		mc := mysql.NewConfig()
		mc.User = c.User
		mc.Passwd = c.Password
		mc.Net = "tcp"
		mc.Addr = net.JoinHostPort(c.Host, strconv.Itoa(c.Port))
		mc.DBName = c.Name
		mc.ParseTime = true
		mc.Loc = time.UTC
		mc.ClientFoundRows = true
		if err := mc.Apply(mysql.Charset("utf8mb4", "")); err != nil {
			return "", err
		}
		return mc.FormatDSN(), nil
	case DriverSQLite:
		return c.SQLitePath, nil
	default:
		return "", fmt.Errorf("unsupported database driver %q", c.Driver)
	}
}
