package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("STORAGE_DRIVER", "memory")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, StorageMemory, cfg.StorageDriver)
	assert.Equal(t, 10, cfg.ChatBurst)
	assert.Equal(t, time.Minute, cfg.OverdueScanInterval)
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("SERVER_PORT", "9090")
	t.Setenv("STORAGE_DRIVER", "postgres")
	t.Setenv("DATABASE_URI", "postgres://localhost/helperhub")
	t.Setenv("OVERDUE_SCAN_INTERVAL", "30s")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "9090", cfg.ServerPort)
	assert.Equal(t, StoragePostgres, cfg.StorageDriver)
	assert.Equal(t, 30*time.Second, cfg.OverdueScanInterval)
}

func TestLoadRejectsIncompleteDriver(t *testing.T) {
	t.Setenv("STORAGE_DRIVER", "firestore")
	t.Setenv("FIREBASE_PROJECT_ID", "")

	_, err := Load()
	assert.Error(t, err)

	t.Setenv("STORAGE_DRIVER", "cassandra")
	_, err = Load()
	assert.Error(t, err)
}

func TestFirebaseAuthNeedsProject(t *testing.T) {
	t.Setenv("STORAGE_DRIVER", "memory")
	t.Setenv("FIREBASE_AUTH_ENABLED", "true")
	t.Setenv("FIREBASE_PROJECT_ID", "")

	_, err := Load()
	assert.Error(t, err)

	t.Setenv("FIREBASE_PROJECT_ID", "helperhub-dev")
	cfg, err := Load()
	require.NoError(t, err)
	assert.True(t, cfg.FirebaseAuth)
	assert.Equal(t, 24*time.Hour, cfg.TokenTTL())
}

func TestLoadRejectsNonPositiveScanInterval(t *testing.T) {
	t.Setenv("STORAGE_DRIVER", "memory")

	for _, interval := range []string{"0s", "-5s"} {
		t.Setenv("OVERDUE_SCAN_INTERVAL", interval)
		_, err := Load()
		assert.Error(t, err, interval)
	}
}
