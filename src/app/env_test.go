package app

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadEnvDefaults(t *testing.T) {
	env, err := loadEnv()
	require.NoError(t, err)

	assert.Equal(t, EnvProd, env.Environment)
	assert.Equal(t, "0.0.0.0", env.ServerHost)
	assert.Equal(t, 8080, env.ServerPort)
	assert.Equal(t, uint64(0), env.Seed)
	assert.False(t, env.UseStableHashForRiskyHash)
}

func TestLoadEnvOverrides(t *testing.T) {
	t.Setenv("HASHKIT_ENVIRONMENT", EnvDev)
	t.Setenv("HASHKIT_SERVER_HOST", "127.0.0.1")
	t.Setenv("HASHKIT_SERVER_PORT", "9000")
	t.Setenv("HASHKIT_SEED", "42")
	t.Setenv("HASHKIT_USE_STABLE_HASH_FOR_RISKY_HASH", "true")

	env, err := loadEnv()
	require.NoError(t, err)

	assert.Equal(t, EnvDev, env.Environment)
	assert.Equal(t, "127.0.0.1", env.ServerHost)
	assert.Equal(t, 9000, env.ServerPort)
	assert.Equal(t, uint64(42), env.Seed)
	assert.True(t, env.UseStableHashForRiskyHash)
}

func TestLoadEnvInvalid(t *testing.T) {
	t.Setenv("HASHKIT_ENVIRONMENT", "staging")
	_, err := loadEnv()
	assert.Error(t, err)

	t.Setenv("HASHKIT_ENVIRONMENT", EnvDev)
	t.Setenv("HASHKIT_SERVER_PORT", "not-a-port")
	_, err = loadEnv()
	assert.Error(t, err)
}

func TestPrintUsage(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, PrintUsage(&buf))

	out := buf.String()
	assert.Contains(t, out, "HASHKIT_SERVER_PORT")
	assert.Contains(t, out, "HASHKIT_USE_STABLE_HASH_FOR_RISKY_HASH")
	assert.Contains(t, out, "HASHKIT_SEED")
}
