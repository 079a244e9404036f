package config

import (
	"errors"
	"fmt"
	"io/fs"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"

	"github.com/dtroode/landregistry-server/internal/model"
)

// Config contains server configuration parameters.
type Config struct {
	LogLevel   int      `env:"LOG_LEVEL" envDefault:"0"`
	LogFormat  string   `env:"LOG_FORMAT" envDefault:"text"`
	BcryptCost int      `env:"BCRYPT_COST" envDefault:"12"`
	HTTP       HTTP     `envPrefix:"HTTP_"`
	Database   Database `envPrefix:"DATABASE_"`
	JWT        JWT      `envPrefix:"JWT_"`
	Storage    Storage  `envPrefix:"MINIO_"`
	Ledger     Ledger   `envPrefix:"LEDGER_"`
	Redis      Redis    `envPrefix:"REDIS_"`
	Kafka      Kafka    `envPrefix:"KAFKA_"`
}

// HTTP contains HTTP server parameters.
type HTTP struct {
	Port               string        `env:"PORT" envDefault:"8080"`
	EnableHTTPS        bool          `env:"ENABLE_HTTPS" envDefault:"false"`
	CertFileName       string        `env:"CERT_FILE_NAME" envDefault:"cert.pem"`
	PrivateKeyFileName string        `env:"PRIVATE_KEY_FILE_NAME" envDefault:"key.pem"`
	RequestTimeout     time.Duration `env:"REQUEST_TIMEOUT" envDefault:"60s"`
	ShutdownTimeout    time.Duration `env:"SHUTDOWN_TIMEOUT" envDefault:"10s"`
}

// Database contains database connection parameters. An empty DSN selects
// the in-memory store.
type Database struct {
	DSN      string `env:"DSN"`
	MaxConns int32  `env:"MAX_CONNS" envDefault:"10"`
}

// JWT contains session token parameters.
type JWT struct {
	Secret string        `env:"SECRET" envDefault:"devsecret"`
	Issuer string        `env:"ISSUER" envDefault:"landregistry"`
	TTL    time.Duration `env:"TTL" envDefault:"24h"`
}

// Storage contains object storage parameters. An empty endpoint selects the
// in-memory blob store.
type Storage struct {
	Endpoint  string `env:"ENDPOINT"`
	AccessKey string `env:"ACCESS_KEY" envDefault:"landregistry-access-key"`
	SecretKey string `env:"SECRET_KEY" envDefault:"landregistry-secret-key"`
	Bucket    string `env:"BUCKET_NAME" envDefault:"landregistry-images"`
	UseSSL    bool   `env:"USE_SSL" envDefault:"false"`
}

// Ledger selects and tunes the ledger gateway.
type Ledger struct {
	Mode          string        `env:"MODE" envDefault:"simulated"`
	Endpoint      string        `env:"ENDPOINT" envDefault:"http://localhost:8545"`
	Passphrase    string        `env:"PASSPHRASE"`
	CallTimeout   time.Duration `env:"CALL_TIMEOUT" envDefault:"5s"`
	VerifyTimeout time.Duration `env:"VERIFY_TIMEOUT" envDefault:"30s"`
	PollInterval  time.Duration `env:"POLL_INTERVAL" envDefault:"1s"`
}

// Redis contains session revocation store parameters. An empty address keeps
// revocations in memory.
type Redis struct {
	Addr     string `env:"ADDR"`
	Password string `env:"PASSWORD"`
	DB       int    `env:"DB" envDefault:"0"`
}

// Kafka contains transfer event publishing parameters. No brokers disables
// publishing.
type Kafka struct {
	Brokers  []string `env:"BROKERS" envSeparator:","`
	Topic    string   `env:"TOPIC" envDefault:"landregistry.transfers"`
	ClientID string   `env:"CLIENT_ID" envDefault:"landregistry-server"`
}

// NewConfig loads configuration from environment variables. Values from a
// .env file in the working directory fill in variables that are not set.
func NewConfig() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("failed to load .env: %w", err)
	}

	cfg := Config{}
	if err := env.Parse(&cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func (c *Config) validate() error {
	switch model.LedgerMode(c.Ledger.Mode) {
	case model.LedgerModeLive, model.LedgerModeSimulated:
	default:
		return fmt.Errorf("unknown ledger mode %q", c.Ledger.Mode)
	}
	if c.Ledger.PollInterval <= 0 || c.Ledger.VerifyTimeout <= 0 {
		return errors.New("ledger poll interval and verify timeout must be positive")
	}
	return nil
}
