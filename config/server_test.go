package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/automoto/superpong-mp/shared/netconfig"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func envMap(m map[string]string) func(string) string {
	return func(k string) string { return m[k] }
}

func TestFromEnvDefaults(t *testing.T) {
	c, err := FromEnv(envMap(nil))
	require.NoError(t, err)
	assert.Equal(t, DefaultServer(), c)
}

func TestFromEnvOverrides(t *testing.T) {
	c, err := FromEnv(envMap(map[string]string{
		"SUPERPONG_NAME":         "Arena 1",
		"SUPERPONG_PORT":         "9000",
		"SUPERPONG_READY_UP":     "true",
		"SUPERPONG_RANDOM_SERVE": "0",
		"SUPERPONG_CONTROL":      "velocity",
		"REDIS_URL":              "redis://localhost:6379/0",
	}))
	require.NoError(t, err)
	assert.Equal(t, "Arena 1", c.Name)
	assert.Equal(t, uint(9000), c.Port)
	assert.True(t, c.ReadyUp)
	assert.False(t, c.RandServe)
	assert.Equal(t, "velocity", c.Control)
	assert.Equal(t, "redis://localhost:6379/0", c.RedisURL)
}

func TestFromEnvRejectsBadValues(t *testing.T) {
	_, err := FromEnv(envMap(map[string]string{"SUPERPONG_PORT": "seventy"}))
	assert.ErrorContains(t, err, "SUPERPONG_PORT")

	_, err = FromEnv(envMap(map[string]string{"SUPERPONG_READY_UP": "maybe"}))
	assert.ErrorContains(t, err, "SUPERPONG_READY_UP")
}

func TestLoadServerReadsEnvFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.env")
	require.NoError(t, os.WriteFile(path, []byte("SUPERPONG_NAME=from-file\n"), 0o600))
	t.Setenv("SUPERPONG_NAME", "")
	os.Unsetenv("SUPERPONG_NAME")

	c, err := LoadServer(path)
	require.NoError(t, err)
	assert.Equal(t, "from-file", c.Name)
}

func TestLoadServerMissingFileIsFine(t *testing.T) {
	_, err := LoadServer(filepath.Join(t.TempDir(), "absent.env"))
	assert.NoError(t, err)
}

func TestDefaultTuningShape(t *testing.T) {
	d := Default()
	assert.Less(t, d.Ball.WallBounceFactor, 1.0)
	assert.Greater(t, d.Paddle.BounceFactor, 1.0)
	assert.LessOrEqual(t, d.Paddle.MaxHitAngle, 1.0472)
	assert.Equal(t, 5, d.Match.WinScore)
	assert.NotContains(t, d.PowerUp.SpawnPool, netconfig.PowerUpMultiBall)
	assert.Equal(t, d, Current())
}
