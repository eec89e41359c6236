// Package config holds the data-source descriptor used to open sqlbridge
// clients. A descriptor can be populated from a YAML file, from environment
// variables (optionally loaded out of .env files), or literally.
package config

import (
	"fmt"
	"os"
	"sort"
	"strconv"
	"strings"

	"github.com/go-sql-driver/mysql"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/syssam/sqlbridge/dialect"
)

// DataSource describes a database connection: the dialect, the endpoint, and
// the credentials. The dialect is immutable for the lifetime of a connection.
type DataSource struct {
	Dialect  string            `yaml:"dialect"`
	Host     string            `yaml:"host"`
	Port     int               `yaml:"port"`
	Database string            `yaml:"database"`
	User     string            `yaml:"user"`
	Password string            `yaml:"password"`
	Params   map[string]string `yaml:"params,omitempty"`
}

// defaultPorts per dialect, applied when the descriptor leaves Port zero.
var defaultPorts = map[string]int{
	dialect.MySQL:    3306,
	dialect.Postgres: 5432,
	dialect.Oracle:   1521,
	dialect.Firebird: 3050,
}

// driverNames maps each dialect to the database/sql driver name it is
// conventionally registered under. Only the MySQL and Postgres drivers are
// dependencies of this module; Oracle and Firebird require the caller to
// import the driver package for its side effect.
var driverNames = map[string]string{
	dialect.MySQL:    "mysql",
	dialect.Postgres: "postgres",
	dialect.Oracle:   "godror",
	dialect.Firebird: "firebirdsql",
}

// FromFile reads a YAML data-source descriptor from path.
func FromFile(path string) (*DataSource, error) {
	buf, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: read %s: %w", path, err)
	}
	ds := &DataSource{}
	if err := yaml.Unmarshal(buf, ds); err != nil {
		return nil, fmt.Errorf("config: parse %s: %w", path, err)
	}
	if err := ds.Validate(); err != nil {
		return nil, err
	}
	return ds, nil
}

// FromEnv builds a descriptor from the DB_* environment variables:
// DB_DIALECT, DB_HOST, DB_PORT, DB_NAME, DB_USER, DB_PASSWORD. Any given
// .env files are loaded first without overriding variables already set.
func FromEnv(files ...string) (*DataSource, error) {
	if len(files) > 0 {
		if err := godotenv.Load(files...); err != nil {
			return nil, fmt.Errorf("config: load env: %w", err)
		}
	}
	ds := &DataSource{
		Dialect:  os.Getenv("DB_DIALECT"),
		Host:     os.Getenv("DB_HOST"),
		Database: os.Getenv("DB_NAME"),
		User:     os.Getenv("DB_USER"),
		Password: os.Getenv("DB_PASSWORD"),
	}
	if port := os.Getenv("DB_PORT"); port != "" {
		p, err := strconv.Atoi(port)
		if err != nil {
			return nil, fmt.Errorf("config: invalid DB_PORT %q: %w", port, err)
		}
		ds.Port = p
	}
	if err := ds.Validate(); err != nil {
		return nil, err
	}
	return ds, nil
}

// Validate checks the descriptor and fills in the default port.
func (ds *DataSource) Validate() error {
	if _, ok := defaultPorts[ds.Dialect]; !ok {
		return fmt.Errorf("config: unsupported dialect %q", ds.Dialect)
	}
	if ds.Database == "" {
		return fmt.Errorf("config: database name is required")
	}
	if ds.Host == "" {
		ds.Host = "localhost"
	}
	if ds.Port == 0 {
		ds.Port = defaultPorts[ds.Dialect]
	}
	return nil
}

// DriverName returns the database/sql driver name for the descriptor's
// dialect.
func (ds *DataSource) DriverName() string {
	return driverNames[ds.Dialect]
}

// DSN renders the descriptor into the connection string form the dialect's
// driver expects.
func (ds *DataSource) DSN() (string, error) {
	if err := ds.Validate(); err != nil {
		return "", err
	}
	switch ds.Dialect {
	case dialect.MySQL:
		cfg := mysql.NewConfig()
		cfg.User = ds.User
		cfg.Passwd = ds.Password
		cfg.Net = "tcp"
		cfg.Addr = fmt.Sprintf("%s:%d", ds.Host, ds.Port)
		cfg.DBName = ds.Database
		if len(ds.Params) > 0 {
			cfg.Params = ds.Params
		}
		return cfg.FormatDSN(), nil
	case dialect.Postgres:
		kv := []string{
			"host=" + ds.Host,
			"port=" + strconv.Itoa(ds.Port),
			"dbname=" + ds.Database,
		}
		if ds.User != "" {
			kv = append(kv, "user="+ds.User)
		}
		if ds.Password != "" {
			kv = append(kv, "password="+ds.Password)
		}
		for _, k := range sortedKeys(ds.Params) {
			kv = append(kv, k+"="+ds.Params[k])
		}
		return strings.Join(kv, " "), nil
	case dialect.Oracle:
		// EZConnect form: user/password@host:port/service.
		return fmt.Sprintf("%s/%s@%s:%d/%s", ds.User, ds.Password, ds.Host, ds.Port, ds.Database), nil
	case dialect.Firebird:
		return fmt.Sprintf("%s:%s@%s:%d/%s", ds.User, ds.Password, ds.Host, ds.Port, ds.Database), nil
	}
	return "", fmt.Errorf("config: unsupported dialect %q", ds.Dialect)
}

func sortedKeys(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
