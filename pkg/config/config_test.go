package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestDefaultAppliesEngineDefaults(t *testing.T) {
	c, err := Default()
	require.NoError(t, err)

	require.Equal(t, "10min", c.Simulate.Horizon)
	require.Equal(t, 3, c.Simulate.LookbackHours)
	require.Equal(t, 60, c.Simulate.RefreshCadenceMinutes)
	require.Equal(t, "acceleration", c.Simulate.ScoreFormula)
	require.Equal(t, "momentum", c.Simulate.Selector)
	require.Equal(t, 6, c.Simulate.TopK)
	require.Equal(t, 25.0, c.Simulate.MinScore)
	require.Equal(t, 1, c.Simulate.MaxSelect)
	require.Equal(t, 250.0, c.Simulate.Stake)
	require.Equal(t, 0.8, c.Simulate.Payout)
	require.Equal(t, 1000.0, c.Simulate.StartingCash)
	require.Equal(t, 5, c.Simulate.DailyCap)
	require.Equal(t, 4, c.Simulate.MaxConsecutiveLosses)

	require.Equal(t, 1, c.Scan.EmbargoDays)
	require.Equal(t, 100.0, c.Scan.Stake)
	require.Equal(t, 10, c.Scan.Filters.MinTrades)
	require.Equal(t, 0.74, c.Scan.Filters.MinWilsonLB)
	require.Equal(t, 20, c.Scan.Filters.Keep)
}

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestLoadOverridesDefaults(t *testing.T) {
	path := writeConfig(t, `
source:
  type: csv
  path: signals.csv
simulate:
  score_formula: linear
  top_k: 3
`)
	c, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, "linear", c.Simulate.ScoreFormula)
	require.Equal(t, 3, c.Simulate.TopK)
	// Untouched fields keep their defaults.
	require.Equal(t, 1, c.Simulate.MaxSelect)
}

func TestLoadKeepsExplicitZeroValues(t *testing.T) {
	path := writeConfig(t, `
source:
  type: csv
  path: signals.csv
simulate:
  min_score: 0
  max_select: 0
  daily_cap: 0
  max_consecutive_losses: 0
scan:
  embargo_days: 0
`)
	c, err := Load(path)
	require.NoError(t, err)

	// 0 disables each of these; it must not be clobbered by the default.
	require.Equal(t, 0.0, c.Simulate.MinScore)
	require.Equal(t, 0, c.Simulate.MaxSelect)
	require.Equal(t, 0, c.Simulate.DailyCap)
	require.Equal(t, 0, c.Simulate.MaxConsecutiveLosses)
	require.Equal(t, 0, c.Scan.EmbargoDays)
}

func TestLoadRejectsInvalidValues(t *testing.T) {
	path := writeConfig(t, `
source:
  type: csv
  path: signals.csv
simulate:
  horizon: 15min
`)
	_, err := Load(path)
	require.Error(t, err)
}

func TestValidateCSVRequiresPath(t *testing.T) {
	c, err := Default()
	require.NoError(t, err)
	require.Error(t, c.Validate())

	c.Source.Path = "signals.csv"
	require.NoError(t, c.Validate())
}

func TestValidateMaxSelectBound(t *testing.T) {
	c, err := Default()
	require.NoError(t, err)
	c.Source.Path = "signals.csv"
	c.Simulate.MaxSelect = 7
	require.Error(t, c.Validate())
}

func TestLoadWithEnvOverridesCredentials(t *testing.T) {
	t.Setenv("CLICKHOUSE_PASSWORD", "secret")
	t.Setenv("REDIS_PASSWORD", "hush")

	path := writeConfig(t, `
source:
  type: csv
  path: signals.csv
`)
	c, err := LoadWithEnv(path)
	require.NoError(t, err)
	require.Equal(t, "secret", c.ClickHouse.Password)
	require.Equal(t, "hush", c.Cache.Redis.Password)
}
