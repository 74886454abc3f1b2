package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestFromEnv(t *testing.T) {
	t.Run("defaults", func(t *testing.T) {
		cfg := FromEnv()
		assert.Equal(t, ":8080", cfg.Addr)
		assert.Equal(t, "memory", cfg.StoreBackend)
		assert.Equal(t, "certitrack.audit", cfg.KafkaTopic)
		assert.Empty(t, cfg.KafkaBrokers)
		assert.Equal(t, 30*time.Second, cfg.RequestTimeout)
		assert.Equal(t, "responsable technique", cfg.TechnicalLead)
	})

	t.Run("environment overrides", func(t *testing.T) {
		t.Setenv("CERTITRACK_ADDR", ":9090")
		t.Setenv("CERTITRACK_STORE", "postgres")
		t.Setenv("CERTITRACK_KAFKA_BROKERS", "broker-1:9092, broker-2:9092,")
		t.Setenv("CERTITRACK_AUDIT_BUFFER", "64")
		t.Setenv("CERTITRACK_REQUEST_TIMEOUT", "5s")

		cfg := FromEnv()
		assert.Equal(t, ":9090", cfg.Addr)
		assert.Equal(t, "postgres", cfg.StoreBackend)
		assert.Equal(t, []string{"broker-1:9092", "broker-2:9092"}, cfg.KafkaBrokers)
		assert.Equal(t, 64, cfg.AuditBuffer)
		assert.Equal(t, 5*time.Second, cfg.RequestTimeout)
	})

	t.Run("malformed numbers fall back to defaults", func(t *testing.T) {
		t.Setenv("CERTITRACK_AUDIT_BUFFER", "beaucoup")
		t.Setenv("CERTITRACK_REQUEST_TIMEOUT", "soon")

		cfg := FromEnv()
		assert.Equal(t, 256, cfg.AuditBuffer)
		assert.Equal(t, 30*time.Second, cfg.RequestTimeout)
	})
}
