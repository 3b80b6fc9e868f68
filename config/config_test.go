package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "0123456789abcdef0123456789abcdef"

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://localhost/compass")
	t.Setenv("AUTH_JWT_SECRET", testSecret)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.Port)
	assert.Equal(t, "0.0.0.0:8080", cfg.Addr())
	assert.Equal(t, 5*time.Second, cfg.DBQueryTimeout)
	assert.Equal(t, 30*time.Minute, cfg.DBConnMaxLifetime)
	assert.Equal(t, 30*time.Second, cfg.ReadTimeout())
	assert.True(t, cfg.IsDevelopment())
	assert.False(t, cfg.NotificationsEnabled())
	assert.False(t, cfg.TrustProxy)
}

func TestLoad_CustomValues(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://localhost/compass")
	t.Setenv("AUTH_JWT_SECRET", testSecret)
	t.Setenv("PORT", "9090")
	t.Setenv("APP_ENV", "production")
	t.Setenv("DATABASE_REPLICA_URLS", "postgres://r1/compass,postgres://r2/compass")
	t.Setenv("ACCEPTED_ORIGINS", "https://a.example,https://b.example")
	t.Setenv("DB_QUERY_TIMEOUT", "2s")
	t.Setenv("RESEND_API_KEY", "re_test")
	t.Setenv("RESEND_FROM_EMAIL", "Compass <[email protected]>")
	t.Setenv("ADMIN_NOTIFY_EMAILS", "[email protected]")
	t.Setenv("TRUST_PROXY", "true")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "0.0.0.0:9090", cfg.Addr())
	assert.False(t, cfg.IsDevelopment())
	assert.Equal(t, []string{"postgres://r1/compass", "postgres://r2/compass"}, cfg.ReplicaURLs)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.AcceptedOrigins)
	assert.Equal(t, 2*time.Second, cfg.DBQueryTimeout)
	assert.True(t, cfg.NotificationsEnabled())
	assert.True(t, cfg.TrustProxy)
}

func TestLoad_MissingDatabaseURL(t *testing.T) {
	t.Setenv("DATABASE_URL", "")
	t.Setenv("AUTH_JWT_SECRET", testSecret)

	_, err := Load()
	assert.Error(t, err)
}

func TestLoad_ShortSecret(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://localhost/compass")
	t.Setenv("AUTH_JWT_SECRET", "short")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "AUTH_JWT_SECRET")
}
