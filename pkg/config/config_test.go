package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadReadsEnvironment(t *testing.T) {
	t.Setenv("ENV", "test")
	t.Setenv("PORT", "9090")
	t.Setenv("SNAPSHOT_ACTIVE_STATES", " В работе , В простое,")
	t.Setenv("REFERENCE_RELOAD_POLICY", "PER_REQUEST")
	t.Setenv("REFERENCE_CSV_DELIMITER", "tab")
	t.Setenv("RESULT_CACHE_TTL", "bogus")
	t.Setenv("USAGE_LOG_DRIVER", "Postgres")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "test", cfg.Env)
	assert.Equal(t, 9090, cfg.Port)
	assert.Equal(t, []string{"В работе", "В простое"}, cfg.Snapshot.ActiveStates)
	assert.Equal(t, ReloadPerRequest, cfg.References.ReloadPolicy)
	assert.Equal(t, '\t', cfg.References.CSVDelimiter)
	assert.Equal(t, 10*time.Minute, cfg.Cache.TTL)
	assert.Equal(t, UsageDriverPostgres, cfg.Usage.Driver)
}

func TestLoadRejectsInvalidUsageLimit(t *testing.T) {
	t.Setenv("ENV", "test")
	t.Setenv("USAGE_LOG_DEFAULT_LIMIT", "5000")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid configuration")
}

func TestParseDelimiter(t *testing.T) {
	assert.Equal(t, ';', parseDelimiter("", ';'))
	assert.Equal(t, ',', parseDelimiter(",", ';'))
	assert.Equal(t, '\t', parseDelimiter(`\t`, ';'))
}
