package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func baseEnv(t *testing.T) {
	t.Setenv("JWT_SECRET_KEY", "secret")
	t.Setenv("USER_DB_DRIVER", "sqlite")
	t.Setenv("STORE_DRIVER", "memory")
}

func TestFromEnv_Defaults(t *testing.T) {
	baseEnv(t)

	cfg := FromEnv()
	require.NoError(t, cfg.Validate())

	assert.Equal(t, "8080", cfg.Server.Port)
	assert.Equal(t, []string{"*"}, cfg.Server.CORSOrigins)
	assert.Equal(t, 30*time.Minute, cfg.Auth.AccessTTL)
	assert.Equal(t, "secret", cfg.Auth.RefreshSecret, "refresh secret falls back to access secret")
	assert.Equal(t, "disasterprep.db", cfg.UserDB.DSN)
	assert.Equal(t, 15*time.Second, cfg.Routing.Timeout)
	assert.Equal(t, 6*time.Hour, cfg.News.CacheTTL)
	assert.Equal(t, 90.0, cfg.Occupancy.SafeThresholdPercent)
}

func TestFromEnv_Overrides(t *testing.T) {
	baseEnv(t)
	t.Setenv("CORS_ORIGINS", "http://a.test, http://b.test")
	t.Setenv("NEWS_CACHE_TTL", "30m")
	t.Setenv("OCCUPANCY_SAFE_THRESHOLD", "85.5")
	t.Setenv("WEATHER_ENABLED", "yes")
	t.Setenv("WEATHER_API_KEY", "k")

	cfg := FromEnv()
	require.NoError(t, cfg.Validate())

	assert.Equal(t, []string{"http://a.test", "http://b.test"}, cfg.Server.CORSOrigins)
	assert.Equal(t, 30*time.Minute, cfg.News.CacheTTL)
	assert.Equal(t, 85.5, cfg.Occupancy.SafeThresholdPercent)
	assert.True(t, cfg.Weather.Enabled)
}

func TestValidate_FailsFast(t *testing.T) {
	cases := []struct {
		name string
		env  map[string]string
		want string
	}{
		{"missing secret", map[string]string{"JWT_SECRET_KEY": ""}, "JWT_SECRET_KEY"},
		{"weather without key", map[string]string{"WEATHER_ENABLED": "true"}, "WEATHER_API_KEY"},
		{"routing without key", map[string]string{"ROUTING_ENABLED": "true"}, "ORS_API_KEY"},
		{"youtube without key", map[string]string{"YOUTUBE_ENABLED": "true"}, "YOUTUBE_API_KEY"},
		{"news without key", map[string]string{"NEWS_ENABLED": "true"}, "NEWS_API_KEY"},
		{"unknown store", map[string]string{"STORE_DRIVER": "mongo"}, "STORE_DRIVER"},
		{"mysql without dsn", map[string]string{"USER_DB_DRIVER": "mysql"}, "USER_DB_DSN"},
		{"push on memory store", map[string]string{"PUSH_ENABLED": "1"}, "PUSH_ENABLED"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			baseEnv(t)
			for k, v := range tc.env {
				t.Setenv(k, v)
			}
			err := FromEnv().Validate()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tc.want)
		})
	}
}
