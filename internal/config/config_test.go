package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoadAppliesDefaults(t *testing.T) {
	path := writeConfig(t, `
auth:
  users:
    - id: ADMIN_01
      key: secret
      name: COMMANDER SHEPARD
      role: ADMIN
      clearance: 5
`)
	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, 8000, cfg.AI.MaxExcerptChars)
	assert.Equal(t, 600*time.Millisecond, cfg.GateDelay())
	assert.Equal(t, 400*time.Millisecond, cfg.ExtractDelay())
	assert.Equal(t, 500*time.Millisecond, cfg.DecisionDelay())
	assert.Equal(t, 4*time.Second, cfg.RedTeamDelay())
	assert.Equal(t, 60, cfg.RateLimit.Capacity)
	require.Len(t, cfg.Auth.Users, 1)
	assert.Equal(t, 5, cfg.Auth.Users[0].Clearance)
}

func TestLoadOverrides(t *testing.T) {
	path := writeConfig(t, `
server:
  port: 9090
pipeline:
  gateDelayMs: 10
auth:
  users:
    - id: A
      key: k
`)
	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, 10*time.Millisecond, cfg.GateDelay())
}

func TestLoadRequiresUsers(t *testing.T) {
	path := writeConfig(t, `server: {port: 8080}`)
	_, err := Load(path)
	assert.Error(t, err)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	assert.Error(t, err)
}
