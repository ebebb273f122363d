package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, 8080, cfg.Port)
	assert.Equal(t, "attendance.db", cfg.DBPath)
	assert.Equal(t, "0 7 * * *", cfg.DigestSpec)
}

func TestLoad_FileAndEnvOverride(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("port: 9000\ndb_path: /tmp/att.db\n"), 0o600))

	t.Setenv("ATTENDANCE_PORT", "9100")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 9100, cfg.Port, "environment wins over the file")
	assert.Equal(t, "/tmp/att.db", cfg.DBPath)
}

func TestLoad_MissingExplicitFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	assert.Error(t, err)
}

func TestLoad_BadPortEnv(t *testing.T) {
	t.Setenv("ATTENDANCE_PORT", "not-a-port")
	_, err := Load("")
	assert.Error(t, err)
}
