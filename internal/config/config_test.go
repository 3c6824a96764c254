package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("KVITT_DB", "")
	t.Setenv("KVITT_QUERIES", "")
	t.Setenv("KVITT_CAPITALIZE_ITEM_NAMES", "")
	t.Setenv("KVITT_LOG_LEVEL", "")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "kvitt.db", cfg.DBPath)
	assert.Equal(t, "queries.yaml", cfg.QueriesPath)
	assert.False(t, cfg.CapitalizeItemNames)
	assert.Equal(t, "warn", cfg.LogLevel)
}

func TestLoad_FromEnv(t *testing.T) {
	t.Setenv("KVITT_DB", "/tmp/ledger.db")
	t.Setenv("KVITT_CAPITALIZE_ITEM_NAMES", "true")
	t.Setenv("KVITT_LOG_LEVEL", "debug")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "/tmp/ledger.db", cfg.DBPath)
	assert.True(t, cfg.CapitalizeItemNames)
	assert.Equal(t, "debug", cfg.LogLevel)
}

func TestLoad_InvalidBool(t *testing.T) {
	t.Setenv("KVITT_CAPITALIZE_ITEM_NAMES", "maybe")

	_, err := Load()
	assert.Error(t, err)
}

func TestLoad_EnvFile(t *testing.T) {
	// godotenv does not override variables already in the environment,
	// so make sure KVITT_DB is truly unset (t.Setenv restores it after).
	t.Setenv("KVITT_DB", "")
	os.Unsetenv("KVITT_DB")
	path := filepath.Join(t.TempDir(), "custom.env")
	require.NoError(t, os.WriteFile(path, []byte("KVITT_DB=from-file.db\n"), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "from-file.db", cfg.DBPath)
}

func TestLoad_MissingEnvFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent.env"))
	assert.Error(t, err)
}
