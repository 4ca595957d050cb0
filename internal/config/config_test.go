package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("SUPABASE_URL", "https://example.supabase.co/")
	t.Setenv("ADMIN_EMAILS", " admin@example.com, ,ops@example.com")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "8001", cfg.HTTPPort)
	assert.Equal(t, StoreSupabase, cfg.StoreBackend)
	assert.Equal(t, RaceGuardNone, cfg.RaceGuard)
	assert.Equal(t, "https://example.supabase.co", cfg.SupabaseURL)
	assert.Equal(t, []string{"admin@example.com", "ops@example.com"}, cfg.AdminEmails)
	assert.True(t, cfg.MetricsEnabled)
	assert.Equal(t, 10*time.Minute, cfg.QuotaHold)
}

func TestLoad_QuotaHold(t *testing.T) {
	t.Setenv("SUPABASE_URL", "https://example.supabase.co")
	t.Setenv("RACE_GUARD", "Redis")
	t.Setenv("QUOTA_HOLD", "90s")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, RaceGuardRedis, cfg.RaceGuard)
	assert.Equal(t, 90*time.Second, cfg.QuotaHold)
}

func TestLoad_YDBRequiresEndpoint(t *testing.T) {
	t.Setenv("SUPABASE_URL", "https://example.supabase.co")
	t.Setenv("STORE_BACKEND", "YDB")

	_, err := Load()
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "SP_YDB_ENDPOINT")
}

func TestLoad_UnknownRaceGuard(t *testing.T) {
	t.Setenv("SUPABASE_URL", "https://example.supabase.co")
	t.Setenv("RACE_GUARD", "zookeeper")

	_, err := Load()
	assert.Error(t, err)
}

func TestConfig_SupabaseAPIKey(t *testing.T) {
	cfg := &Config{SupabaseAnonKey: "anon"}
	assert.Equal(t, "anon", cfg.SupabaseAPIKey())

	cfg.SupabaseServiceKey = "service"
	assert.Equal(t, "service", cfg.SupabaseAPIKey())
}

func TestConfig_S3EndpointScheme(t *testing.T) {
	cfg := &Config{S3Endpoint: "storage.example.com"}
	cfg.normalize()
	assert.Equal(t, "https://storage.example.com", cfg.S3Endpoint)
}
