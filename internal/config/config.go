package config

import (
	"log"
	"os"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	ServiceName string

	ServerPort int

	DBDriver    string
	DatabaseURL string
	TxTimeout   time.Duration

	JWTSecret    []byte
	AccessTTL    time.Duration
	CookieSecure bool
	CSRFEnabled  bool

	StaffEmail    string
	StaffPassword string

	KafkaBrokers []string

	ESURL      string
	ESUser     string
	ESPassword string
	ESIndex    string

	LogLevel string
	Currency string
}

// Load reads envFiles (if present) and then the process environment.
func Load(envFiles ...string) Config {
	if len(envFiles) > 0 {
		if err := godotenv.Load(envFiles...); err != nil {
			log.Printf("notice: .env not loaded: %v, using system environment", err)
		}
	}

	return Config{
		ServiceName: EnvDefault("SERVICE_NAME", "storefront"),

		ServerPort: EnvIntDefault("SERVER_PORT", 8080),

		DBDriver:    EnvDefault("DB_DRIVER", "pgx"),
		DatabaseURL: os.Getenv("DATABASE_URL"),
		TxTimeout:   EnvDurationDefault("TX_TIMEOUT", 5*time.Second),

		JWTSecret:    []byte(os.Getenv("JWT_SECRET")),
		AccessTTL:    EnvDurationDefault("ACCESS_TTL", 24*time.Hour),
		CookieSecure: EnvBoolDefault("COOKIE_SECURE", true),
		CSRFEnabled:  EnvBoolDefault("CSRF_ENABLED", true),

		StaffEmail:    os.Getenv("STAFF_EMAIL"),
		StaffPassword: os.Getenv("STAFF_PASSWORD"),

		KafkaBrokers: CSV(os.Getenv("KAFKA_BROKERS")),

		ESURL:      os.Getenv("ES_URL"),
		ESUser:     os.Getenv("ES_USER"),
		ESPassword: os.Getenv("ES_PASSWORD"),
		ESIndex:    EnvDefault("ES_INDEX", "products"),

		LogLevel: EnvDefault("LOG_LEVEL", "info"),
		Currency: EnvDefault("CURRENCY", "USD"),
	}
}

// MustLoad is Load plus the checks the server cannot start without.
func MustLoad(envFiles ...string) Config {
	cfg := Load(envFiles...)

	MustNonEmpty(cfg.DatabaseURL, "DATABASE_URL")
	MustNonEmptyBytes(cfg.JWTSecret, "JWT_SECRET")
	MustOneOf(cfg.DBDriver, "DB_DRIVER", "pgx", "pq", "sqlite")

	return cfg
}
