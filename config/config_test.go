package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// unsetEnv clears keys for the test; godotenv never overrides a key that is
// already present, even when empty.
func unsetEnv(t *testing.T, keys ...string) {
	t.Helper()
	for _, k := range keys {
		t.Setenv(k, "")
		os.Unsetenv(k)
	}
}

func TestLoadDefaults(t *testing.T) {
	unsetEnv(t, "DB_DRIVER", "DB_DSN", "PORT", "CHANGE_POLL_INTERVAL", "STORE_TIMEOUT", "AMQP_URL")
	cfg, err := Load(filepath.Join(t.TempDir(), "missing.env"))
	require.NoError(t, err)
	assert.Equal(t, "sqlite", cfg.DBDriver)
	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, time.Second, cfg.PollInterval)
	assert.Equal(t, 5*time.Second, cfg.StoreTimeout)
	assert.Empty(t, cfg.AMQPURL)
}

func TestLoadFromEnvFile(t *testing.T) {
	unsetEnv(t, "DB_DRIVER", "DB_DSN", "STORE_TIMEOUT", "CHANGE_POLL_INTERVAL")
	path := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(path, []byte("DB_DRIVER=Postgres\nDB_DSN=host=db user=comanda\nSTORE_TIMEOUT=3\nCHANGE_POLL_INTERVAL=250ms\n"), 0o600))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "postgres", cfg.DBDriver)
	assert.Equal(t, "host=db user=comanda", cfg.DBDSN)
	assert.Equal(t, 3*time.Second, cfg.StoreTimeout)
	assert.Equal(t, 250*time.Millisecond, cfg.PollInterval)
}

func TestValidateRejectsUnknownDriver(t *testing.T) {
	cfg := Config{DBDriver: "oracle", DBDSN: "x", PollInterval: time.Second, StoreTimeout: time.Second}
	assert.ErrorIs(t, cfg.Validate(), ErrUnknownDriver)
}

func TestInitDBSQLite(t *testing.T) {
	cfg := Config{DBDriver: "sqlite", DBDSN: "file::memory:", PollInterval: time.Second, StoreTimeout: time.Second}
	db, err := InitDB(cfg)
	require.NoError(t, err)
	var one int
	require.NoError(t, db.Raw("SELECT 1").Scan(&one).Error)
	assert.Equal(t, 1, one)
}

func TestLocationFallsBackToUTC(t *testing.T) {
	assert.Equal(t, time.UTC, Config{Timezone: "Nowhere/Atlantis"}.Location())
}
