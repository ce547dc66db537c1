// Package config handles configuration for the server component,
// including defaults, JSON overlay, dotenv/environment and command-line flags.
package config

import (
	"errors"
	"fmt"
	"net"
	"net/url"
	"time"

	"github.com/dmitrijs2005/tyrekeeper/internal/dbx"
	"golang.org/x/crypto/bcrypt"
)

// Config holds runtime settings for the tyrekeeper server. It is built once
// at startup and shared read-only afterwards.
//
// Fields:
//   - EndpointAddrHTTP: bind address for the public REST API.
//   - EndpointAddrGRPC: bind address for the gRPC health endpoint.
//   - DatabaseDSN: full PostgreSQL DSN; when empty it is assembled from DB*.
//   - DBTimeZone: fixed UTC offset every DB session is pinned to.
//   - SecretKey: HMAC secret for signing JWTs (HS256). Do not use test defaults in prod.
//   - AccessTokenValidityDuration: token lifetime.
//   - BcryptCost: bcrypt work factor.
//   - HealthCheckInterval: how often the gRPC health service pings the database.
type Config struct {
	EndpointAddrHTTP string
	EndpointAddrGRPC string

	DatabaseDSN    string
	DBHost         string
	DBPort         string
	DBUser         string
	DBPassword     string
	DBName         string
	DBSSLMode      string
	DBTimeZone     string
	DBMaxOpenConns int
	DBMaxIdleConns int
	DBConnLifetime time.Duration

	HealthCheckInterval time.Duration

	SecretKey                   string
	AccessTokenValidityDuration time.Duration
	BcryptCost                  int

	LogLevel   string
	LogFormat  string
	LogBackend string
}

// LoadDefaults populates Config with development defaults.
// NOTE: These values are insecure for production and should be overridden.
func (c *Config) LoadDefaults() {
	c.EndpointAddrHTTP = ":3000"
	c.EndpointAddrGRPC = ":50051"
	c.DBHost = "localhost"
	c.DBPort = "5432"
	c.DBUser = "postgres"
	c.DBPassword = "postgres"
	c.DBName = "tyres"
	c.DBSSLMode = "disable"
	c.DBTimeZone = "-08:00"
	c.DBMaxOpenConns = 10
	c.DBMaxIdleConns = 5
	c.DBConnLifetime = 30 * time.Minute
	c.HealthCheckInterval = 10 * time.Second
	c.SecretKey = "secretKey"
	c.AccessTokenValidityDuration = time.Hour
	c.BcryptCost = 10
	c.LogLevel = "info"
	c.LogFormat = "json"
	c.LogBackend = "zerolog"
}

// DSN returns DatabaseDSN if set, otherwise a postgres URL built from the
// individual DB settings.
func (c *Config) DSN() string {
	if c.DatabaseDSN != "" {
		return c.DatabaseDSN
	}

	u := url.URL{
		Scheme: "postgres",
		User:   url.UserPassword(c.DBUser, c.DBPassword),
		Host:   net.JoinHostPort(c.DBHost, c.DBPort),
		Path:   "/" + c.DBName,
	}
	if c.DBSSLMode != "" {
		u.RawQuery = url.Values{"sslmode": []string{c.DBSSLMode}}.Encode()
	}
	return u.String()
}

// Validate rejects settings the server cannot run with.
func (c *Config) Validate() error {
	var errs []error

	if c.SecretKey == "" {
		errs = append(errs, errors.New("secret key must not be empty"))
	}
	if c.BcryptCost < bcrypt.MinCost || c.BcryptCost > bcrypt.MaxCost {
		errs = append(errs, fmt.Errorf("bcrypt cost %d out of range [%d, %d]", c.BcryptCost, bcrypt.MinCost, bcrypt.MaxCost))
	}
	if c.AccessTokenValidityDuration <= 0 {
		errs = append(errs, errors.New("token validity must be positive"))
	}
	if c.HealthCheckInterval <= 0 {
		errs = append(errs, errors.New("health check interval must be positive"))
	}
	if !dbx.ValidOffset(c.DBTimeZone) {
		errs = append(errs, fmt.Errorf("invalid db time zone %q", c.DBTimeZone))
	}

	return errors.Join(errs...)
}

// LoadConfig builds a Config by applying defaults, then overlaying values
// from an optional JSON file, the environment (after an optional .env file)
// and finally command-line flags.
func LoadConfig() *Config {
	cfg := &Config{}
	cfg.LoadDefaults()
	parseJson(cfg)
	parseEnv(cfg)
	parseFlags(cfg)
	return cfg
}
