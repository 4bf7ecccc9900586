package database

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/synaptica-ai/web2lead/pkg/common/config"
)

func TestPostgresDSN(t *testing.T) {
	cfg := &config.Config{
		PostgresHost:     "db",
		PostgresPort:     "5433",
		PostgresUser:     "leads",
		PostgresPassword: "secret",
		PostgresDB:       "forms",
		PostgresSSLMode:  "require",
	}

	assert.Equal(t, "host=db user=leads password=secret dbname=forms port=5433 sslmode=require", PostgresDSN(cfg))
}
