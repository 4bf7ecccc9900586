package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoadDefaults(t *testing.T) {
	cfg := Load()

	assert.Equal(t, "8080", cfg.ServerPort)
	assert.False(t, cfg.PostgresEnabled)
	assert.False(t, cfg.KafkaEnabled())
	assert.Equal(t, "forms.yaml", cfg.FormsFile)
	assert.Equal(t, 15*time.Second, cfg.LeadRequestTimeout)
	assert.False(t, cfg.AdminAuthEnabled())
}

func TestLoadFromEnvironment(t *testing.T) {
	t.Setenv("KAFKA_BROKERS", "kafka-1:9092, kafka-2:9092,")
	t.Setenv("LEAD_FORCE_DEBUG", "true")
	t.Setenv("FORMS_CACHE_TTL", "90s")
	t.Setenv("REDIS_DB", "not-a-number")

	cfg := Load()

	assert.Equal(t, []string{"kafka-1:9092", "kafka-2:9092"}, cfg.KafkaBrokers)
	assert.True(t, cfg.KafkaEnabled())
	assert.True(t, cfg.LeadForceDebug)
	assert.Equal(t, 90*time.Second, cfg.FormsCacheTTL)
	assert.Equal(t, 0, cfg.RedisDB)
}

func TestAdminAuthEnabled(t *testing.T) {
	t.Setenv("OIDC_ISSUER", "https://issuer.example.com")
	assert.False(t, Load().AdminAuthEnabled())

	t.Setenv("OIDC_CLIENT_ID", "web2lead")
	assert.True(t, Load().AdminAuthEnabled())
}
