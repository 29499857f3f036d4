// Package config holds the immutable connection settings for a dbal.DB and
// builds driver-specific DSNs from them. FromEnv is the environment-driven
// loader; it is a collaborator of the wrapper, not part of its core.
package config

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
)

// Supported driver kinds. The names double as the driver names registered
// with database/sql by the imported drivers.
const (
	DriverSQLite   = "sqlite"
	DriverMySQL    = "mysql"
	DriverPostgres = "postgres"
)

// DefaultCharset is applied when no charset is configured.
const DefaultCharset = "utf8mb4"

// Config is fixed at construction. For file-based or in-memory engines
// (sqlite) only Driver and Name are meaningful; Name is a file path or the
// ":memory:" marker.
type Config struct {
	Driver   string
	Host     string
	Name     string
	User     string
	Password string
	Charset  string
}

// New builds a Config, defaulting the charset when empty.
func New(driver, host, name, user, password, charset string) Config {
	if charset == "" {
		charset = DefaultCharset
	}
	return Config{
		Driver:   driver,
		Host:     host,
		Name:     name,
		User:     user,
		Password: password,
		Charset:  charset,
	}
}

// FromEnv loads a .env file when present and reads the DBAL_* variables:
//
//	DBAL_DRIVER   driver kind (default "sqlite")
//	DBAL_HOST     database host (default "localhost")
//	DBAL_NAME     database name or sqlite path (default ":memory:")
//	DBAL_USER     user name (default empty)
//	DBAL_PASSWORD password (default empty)
//	DBAL_CHARSET  connection charset (default "utf8mb4")
func FromEnv() Config {
	_ = godotenv.Load()
	return New(
		getenv("DBAL_DRIVER", DriverSQLite),
		getenv("DBAL_HOST", "localhost"),
		getenv("DBAL_NAME", ":memory:"),
		getenv("DBAL_USER", ""),
		getenv("DBAL_PASSWORD", ""),
		getenv("DBAL_CHARSET", DefaultCharset),
	)
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// DSN builds the driver-specific data source name. sqlite uses the database
// name verbatim (file path or ":memory:"); host, credentials and charset are
// ignored for it. postgres negotiates client encoding in the driver, so the
// charset is ignored there too.
func (c Config) DSN() (string, error) {
	switch c.Driver {
	case DriverSQLite:
		return c.Name, nil
	case DriverMySQL:
		return fmt.Sprintf("%s:%s@tcp(%s)/%s?charset=%s&parseTime=true",
			c.User, c.Password, c.Host, c.Name, c.Charset), nil
	case DriverPostgres:
		return fmt.Sprintf("host=%s dbname=%s user=%s password=%s sslmode=disable",
			c.Host, c.Name, c.User, c.Password), nil
	default:
		return "", fmt.Errorf("unsupported driver %q", c.Driver)
	}
}
