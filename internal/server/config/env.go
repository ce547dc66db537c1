package config

import (
	"errors"
	"io/fs"
	"os"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/dmitrijs2005/tyrekeeper/internal/flagx"
	"github.com/joho/godotenv"
)

// EnvConfig lists the environment variables the server understands. Unset
// variables stay nil and leave the current value alone.
type EnvConfig struct {
	Port        *string        `env:"PORT"`
	GRPCAddress *string        `env:"GRPC_ADDRESS"`
	DatabaseDSN *string        `env:"DATABASE_DSN"`
	DBHost      *string        `env:"DB_HOST"`
	DBPort      *string        `env:"DB_PORT"`
	DBUser      *string        `env:"DB_USER"`
	DBPassword  *string        `env:"DB_PASSWORD"`
	DBName      *string        `env:"DB_NAME"`
	DBSSLMode   *string        `env:"DB_SSLMODE"`
	DBTimeZone  *string        `env:"DB_TIMEZONE"`
	DBMaxOpen   *int           `env:"DB_MAX_OPEN_CONNS"`
	DBMaxIdle   *int           `env:"DB_MAX_IDLE_CONNS"`
	DBLifetime  *time.Duration `env:"DB_CONN_MAX_LIFETIME"`
	HealthEvery *time.Duration `env:"HEALTH_CHECK_INTERVAL"`
	JWTKey      *string        `env:"JWT_KEY"`
	TokenTTL    *time.Duration `env:"TOKEN_TTL"`
	BcryptCost  *int           `env:"BCRYPT_COST"`
	LogLevel    *string        `env:"LOG_LEVEL"`
	LogFormat   *string        `env:"LOG_FORMAT"`
	LogBackend  *string        `env:"LOG_BACKEND"`
}

// loadDotenv populates the process environment from a .env file. The file
// named by -e/-envfile must exist; the implicit ./.env is optional. Variables
// already present in the environment win.
func loadDotenv() {
	path := flagx.EnvFileFlags()
	if path == "" {
		if _, err := os.Stat(".env"); errors.Is(err, fs.ErrNotExist) {
			return
		}
		path = ".env"
	}

	if err := godotenv.Load(path); err != nil {
		panic(err)
	}
}

// parseEnv overlays config with environment variables. Malformed values
// (e.g. BCRYPT_COST=abc) panic, matching the other loaders.
func parseEnv(config *Config) {
	loadDotenv()

	var e EnvConfig
	if err := env.Parse(&e); err != nil {
		panic(err)
	}

	if e.Port != nil {
		config.EndpointAddrHTTP = ":" + *e.Port
	}
	overlay(&config.EndpointAddrGRPC, e.GRPCAddress)
	overlay(&config.DatabaseDSN, e.DatabaseDSN)
	overlay(&config.DBHost, e.DBHost)
	overlay(&config.DBPort, e.DBPort)
	overlay(&config.DBUser, e.DBUser)
	overlay(&config.DBPassword, e.DBPassword)
	overlay(&config.DBName, e.DBName)
	overlay(&config.DBSSLMode, e.DBSSLMode)
	overlay(&config.DBTimeZone, e.DBTimeZone)
	overlay(&config.DBMaxOpenConns, e.DBMaxOpen)
	overlay(&config.DBMaxIdleConns, e.DBMaxIdle)
	overlay(&config.DBConnLifetime, e.DBLifetime)
	overlay(&config.HealthCheckInterval, e.HealthEvery)
	overlay(&config.SecretKey, e.JWTKey)
	overlay(&config.AccessTokenValidityDuration, e.TokenTTL)
	overlay(&config.BcryptCost, e.BcryptCost)
	overlay(&config.LogLevel, e.LogLevel)
	overlay(&config.LogFormat, e.LogFormat)
	overlay(&config.LogBackend, e.LogBackend)
}

func overlay[T any](dst *T, v *T) {
	if v != nil {
		*dst = *v
	}
}
