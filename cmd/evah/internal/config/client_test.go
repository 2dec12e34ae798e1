package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	evah "evah-sdk"
	"evah-sdk/models"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range []string{EnvBaseURL, EnvVariant, EnvTimeout, EnvOutputDir, EnvHistoryDBType, EnvHistoryDSN} {
		t.Setenv(k, "")
	}
	chdir(t, t.TempDir())
}

func TestLoadDefaults(t *testing.T) {
	clearEnv(t)

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, evah.DefaultBaseURL, cfg.BaseURL)
	assert.Equal(t, models.Canonical, cfg.Variant)
	assert.Equal(t, evah.DefaultTimeout, cfg.Timeout)
	assert.Equal(t, ".", cfg.OutputDir)
	assert.False(t, cfg.HistoryEnabled())
}

func TestLoadFromEnvironment(t *testing.T) {
	clearEnv(t)
	t.Setenv(EnvBaseURL, "http://model:5000")
	t.Setenv(EnvVariant, "extended")
	t.Setenv(EnvTimeout, "90s")
	t.Setenv(EnvOutputDir, "out")
	t.Setenv(EnvHistoryDBType, "postgresql")
	t.Setenv(EnvHistoryDSN, "postgres://localhost/evah")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "http://model:5000", cfg.BaseURL)
	assert.Equal(t, models.Extended, cfg.Variant)
	assert.Equal(t, 90*time.Second, cfg.Timeout)
	assert.Equal(t, "out", cfg.OutputDir)
	assert.True(t, cfg.HistoryEnabled())

	client := cfg.NewClient()
	assert.Equal(t, "http://model:5000", client.GetBaseURL())
	assert.Equal(t, models.Extended, client.Variant())
	assert.Equal(t, 90*time.Second, client.GetTimeout())
}

func TestLoadRejectsBadValues(t *testing.T) {
	clearEnv(t)
	t.Setenv(EnvVariant, "fancy")
	_, err := Load()
	assert.Error(t, err)

	clearEnv(t)
	t.Setenv(EnvTimeout, "soon")
	_, err = Load()
	assert.Error(t, err)

	clearEnv(t)
	t.Setenv(EnvTimeout, "-1s")
	_, err = Load()
	assert.Error(t, err)
}
