package config

import (
	"fmt"
	"net/url"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

type AppEnv string

const (
	ProductionEnv AppEnv = "production"
	StageEnv      AppEnv = "stage"
	DevelopEnv    AppEnv = "develop"
	LocalEnv      AppEnv = "local"
	TestEnv       AppEnv = "test"
)

type (
	Config struct {
		AppEnv   AppEnv `env:"APP_ENV" envDefault:"local"`
		LogLevel string `env:"LOG_LEVEL" envDefault:"info"`
		HTTP     HTTP   `envPrefix:"HTTP_"`
		Database Database
		Queue    Queue `envPrefix:"QUEUE_"`
		Tasks    Tasks `envPrefix:"TASKS_"`
	}

	HTTP struct {
		Host string `env:"HOST" envDefault:"localhost"`
		Port int    `env:"PORT" envDefault:"8701"`
	}

	Database struct {
		Postgres Postgres
		Redis    Redis `envPrefix:"REDIS_"`
	}

	Postgres struct {
		URL          string `env:"PG_URL"`
		Host         string `env:"DB_HOST" envDefault:"localhost"`
		Port         int    `env:"DB_PORT" envDefault:"5432"`
		Username     string `env:"DB_USER" envDefault:"postgres"`
		Password     string `env:"DB_PASSWORD"`
		Database     string `env:"DB_NAME" envDefault:"arcqueue"`
		SSLMode      string `env:"DB_SSLMODE" envDefault:"disable"`
		MaxOpenConns int    `env:"DB_MAX_OPEN_CONNS" envDefault:"10"`
		MaxIdleConns int    `env:"DB_MAX_IDLE_CONNS" envDefault:"5"`
	}

	Redis struct {
		Addr     string        `env:"ADDR"`
		Password string        `env:"PASSWORD"`
		Database int           `env:"DB" envDefault:"0"`
		CacheTTL time.Duration `env:"CACHE_TTL" envDefault:"10m"`
	}

	Queue struct {
		ConflictRetries int           `env:"CONFLICT_RETRIES" envDefault:"3"`
		TxTimeout       time.Duration `env:"TX_TIMEOUT" envDefault:"2s"`
		IdleTTL         time.Duration `env:"IDLE_TTL" envDefault:"24h"`
	}

	Tasks struct {
		Enabled         bool   `env:"ENABLED" envDefault:"true"`
		AuditSchedule   string `env:"AUDIT_SCHEDULE" envDefault:"0 */10 * * * *"`
		JanitorSchedule string `env:"JANITOR_SCHEDULE" envDefault:"0 0 4 * * *"`
	}
)

// Load reads the configuration from the environment.
func Load() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, errors.Wrap(err, "config : failed to parse environment")
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) Validate() error {
	if c.HTTP.Port < 1 || c.HTTP.Port > 65535 {
		return errors.Errorf("config : http port %d out of range", c.HTTP.Port)
	}
	if c.Queue.ConflictRetries < 1 {
		return errors.New("config : QUEUE_CONFLICT_RETRIES must be at least 1")
	}
	if _, err := logrus.ParseLevel(c.LogLevel); err != nil {
		return errors.Wrap(err, "config : invalid LOG_LEVEL")
	}
	return nil
}

// DSN returns PG_URL when set, otherwise a key/value DSN assembled from the
// DB_* variables.
func (p Postgres) DSN() string {
	if p.URL != "" {
		return p.URL
	}
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		p.Host, p.Port, p.Username, p.Password, p.Database, p.SSLMode)
}

// DatabaseName is the database the migrations run against.
func (p Postgres) DatabaseName() string {
	if p.URL != "" {
		if u, err := url.Parse(p.URL); err == nil && len(u.Path) > 1 {
			return u.Path[1:]
		}
	}
	return p.Database
}

func (c *Config) Level() logrus.Level {
	level, err := logrus.ParseLevel(c.LogLevel)
	if err != nil {
		return logrus.InfoLevel
	}
	return level
}

func (c *Config) Addr() string {
	return fmt.Sprintf("%s:%d", c.HTTP.Host, c.HTTP.Port)
}
