package config

import (
	"fmt"
	"log"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// StoreConfig selects and addresses the persistence backend.
type StoreConfig struct {
	Driver   string `env:"STORE_DRIVER" envDefault:"mongo"`
	MongoURI string `env:"MONGO_URI" envDefault:"mongodb://localhost:27017"`
	MongoDB  string `env:"MONGO_DB" envDefault:"pagebuilder"`
	DBDSN    string `env:"DB_DSN"`
}

type APIConfig struct {
	Port  string `env:"PORT" envDefault:"8080"`
	Store StoreConfig

	RMQURL string `env:"RMQ_URL"`
	Queue  string `env:"QUEUE" envDefault:"campaign_events"`

	JWTSecret     string        `env:"JWT_SECRET,required"`
	TokenTTL      time.Duration `env:"TOKEN_TTL" envDefault:"24h"`
	AdminUsername string        `env:"ADMIN_USERNAME"`
	AdminPassword string        `env:"ADMIN_PASSWORD"`

	CORSOrigins    []string      `env:"CORS_ORIGINS" envSeparator:","`
	DefaultLang    string        `env:"DEFAULT_LANG" envDefault:"en"`
	SessionIdleTTL time.Duration `env:"SESSION_IDLE_TTL" envDefault:"30m"`
	RequestTimeout time.Duration `env:"REQUEST_TIMEOUT" envDefault:"5s"`
}

type WorkerConfig struct {
	Store       StoreConfig
	RMQURL      string `env:"RMQ_URL,required"`
	Queue       string `env:"QUEUE" envDefault:"campaign_events"`
	MaxRetries  int    `env:"MAX_RETRIES" envDefault:"3"`
	MetricsPort string `env:"METRICS_PORT" envDefault:"9091"`
}

type MigratorConfig struct {
	DBDSN string `env:"DB_DSN,required"`
}

var (
	API      APIConfig
	Worker   WorkerConfig
	Migrator MigratorConfig
)

// Parse loads .env (when present) and fills target from the environment.
func Parse(target any) error {
	_ = godotenv.Load()
	if err := env.Parse(target); err != nil {
		return fmt.Errorf("parse env: %w", err)
	}
	return nil
}

func MustLoadAPI() {
	if err := Parse(&API); err != nil {
		log.Fatalf("config: %v", err)
	}
}

func MustLoadWorker() {
	if err := Parse(&Worker); err != nil {
		log.Fatalf("config: %v", err)
	}
}

func MustLoadMigrator() {
	if err := Parse(&Migrator); err != nil {
		log.Fatalf("config: %v", err)
	}
}
