package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config captures everything main needs to wire the service. Values come from
// the environment, optionally seeded from a local .env file.
type Config struct {
	Addr     string
	LogLevel string

	// StoreBackend selects "memory" or "postgres" for the dossier and audit
	// stores. The in-memory backend is the default and needs no DSN.
	StoreBackend string
	PostgresDSN  string

	// RedisURL, when set, switches the notification store to redis.
	RedisURL string

	// Kafka settings for the optional audit mirror. Mirroring is disabled
	// when no brokers are configured.
	KafkaBrokers []string
	KafkaTopic   string
	AuditBuffer  int

	// TechnicalLead is the recipient channel for intake notifications.
	TechnicalLead string

	RequestTimeout  time.Duration
	ShutdownTimeout time.Duration
}

// FromEnv builds a Config from environment variables so main stays lean.
// A .env file in the working directory is loaded first when present.
func FromEnv() Config {
	_ = godotenv.Load()

	cfg := Config{
		Addr:            getenv("CERTITRACK_ADDR", ":8080"),
		LogLevel:        getenv("CERTITRACK_LOG_LEVEL", "info"),
		StoreBackend:    getenv("CERTITRACK_STORE", "memory"),
		PostgresDSN:     os.Getenv("CERTITRACK_POSTGRES_DSN"),
		RedisURL:        os.Getenv("CERTITRACK_REDIS_URL"),
		KafkaTopic:      getenv("CERTITRACK_KAFKA_TOPIC", "certitrack.audit"),
		AuditBuffer:     getint("CERTITRACK_AUDIT_BUFFER", 256),
		TechnicalLead:   getenv("CERTITRACK_TECHNICAL_LEAD", "responsable technique"),
		RequestTimeout:  getduration("CERTITRACK_REQUEST_TIMEOUT", 30*time.Second),
		ShutdownTimeout: getduration("CERTITRACK_SHUTDOWN_TIMEOUT", 10*time.Second),
	}

	if brokers := os.Getenv("CERTITRACK_KAFKA_BROKERS"); brokers != "" {
		for _, b := range strings.Split(brokers, ",") {
			if b = strings.TrimSpace(b); b != "" {
				cfg.KafkaBrokers = append(cfg.KafkaBrokers, b)
			}
		}
	}

	return cfg
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getint(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func getduration(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}
