package config

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	for _, k := range []string{"API_ADDR", "APP_ADDR", "STORE", "DB_URL", "DB_DRIVER", "ALLOWED_GENDERS", "API_URL", "API_TIMEOUT", "SESSION_TTL"} {
		t.Setenv(k, "")
		os.Unsetenv(k)
	}

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, ":4000", cfg.APIAddr)
	assert.Equal(t, ":8080", cfg.AppAddr)
	assert.Equal(t, StorePostgres, cfg.Store)
	assert.Equal(t, "pgx", cfg.DBDriver)
	assert.Equal(t, []string{"男性"}, cfg.AllowedGenders)
	assert.Equal(t, "http://localhost:4000/graphql", cfg.APIURL)
	assert.Equal(t, 15*time.Second, cfg.APITimeout)
	assert.Equal(t, 30*time.Minute, cfg.SessionTTL)
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("STORE", "memory")
	t.Setenv("ALLOWED_GENDERS", "男性,女性")
	t.Setenv("API_TIMEOUT", "2s")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, StoreMemory, cfg.Store)
	assert.Equal(t, []string{"男性", "女性"}, cfg.AllowedGenders)
	assert.Equal(t, 2*time.Second, cfg.APITimeout)
}

func TestValidateStore(t *testing.T) {
	assert.NoError(t, Config{Store: StoreMemory}.ValidateStore())
	assert.NoError(t, Config{Store: StorePostgres, DatabaseURL: "postgres://localhost/db"}.ValidateStore())
	assert.EqualError(t, Config{Store: StorePostgres}.ValidateStore(), "DB_URL is not set")
	assert.Error(t, Config{Store: "mysql"}.ValidateStore())
}

func TestLoad_RejectsNonPositiveDurations(t *testing.T) {
	tests := []struct {
		key, value, want string
	}{
		{"API_TIMEOUT", "0s", "API_TIMEOUT must be positive"},
		{"API_TIMEOUT", "-1s", "API_TIMEOUT must be positive"},
		{"SESSION_TTL", "0s", "SESSION_TTL must be positive"},
	}
	for _, tt := range tests {
		t.Run(tt.key+"="+tt.value, func(t *testing.T) {
			t.Setenv(tt.key, tt.value)

			_, err := Load()
			assert.EqualError(t, err, tt.want)
		})
	}
}
