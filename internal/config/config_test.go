package config

import (
	"encoding/json"
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/jwtly10/tradesim/internal/errors"
	"github.com/jwtly10/tradesim/internal/strategy"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, name, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(body), 0644))
	return path
}

func noEnvFile(t *testing.T) string {
	return filepath.Join(t.TempDir(), "missing.env")
}

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
	assert.Equal(t, 100000.0, cfg.StartingInvestment)
	assert.Equal(t, 10.0, cfg.RoundTripCost)
	assert.Equal(t, strategy.BuyAndHoldKind, cfg.Strategy.Name)

	// Training data is required
	assert.True(t, errors.IsConfiguration(cfg.Validate()))
}

func TestLoad_YAML(t *testing.T) {
	path := writeFile(t, "sim.yaml", `
starting_investment: 5000
strategy:
  name: moving_average_trend
  n: 20
data:
  training: data/SPY.2010.jan_jun.csv
  testing: data/SPY.2010.jul_dec.parquet
`)

	cfg, err := Load(path)
	require.NoError(t, err)
	require.NoError(t, cfg.Validate())

	assert.Equal(t, 5000.0, cfg.StartingInvestment)
	assert.Equal(t, 10.0, cfg.RoundTripCost, "Unset fields keep their defaults")
	assert.Equal(t, strategy.MovingAverageTrendKind, cfg.Strategy.Name)
	assert.Equal(t, 20, cfg.Strategy.N)
	assert.Equal(t, "data/SPY.2010.jul_dec.parquet", cfg.Data.Testing)

	s, err := cfg.NewStrategy()
	require.NoError(t, err)
	assert.Equal(t, "moving_average_trend", s.Name())
}

func TestLoad_Errors(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.True(t, errors.HasCode(err, errors.ErrCodeInvalidConfiguration))

	path := writeFile(t, "bad.yaml", "starting_investment: [1, 2\n")
	_, err = Load(path)
	assert.True(t, errors.HasCode(err, errors.ErrCodeInvalidConfiguration))
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"zero investment", func(c *Config) { c.StartingInvestment = 0 }},
		{"negative cost", func(c *Config) { c.RoundTripCost = -1 }},
		{"infinite investment", func(c *Config) { c.StartingInvestment = math.Inf(1) }},
		{"NaN investment", func(c *Config) { c.StartingInvestment = math.NaN() }},
		{"infinite cost", func(c *Config) { c.RoundTripCost = math.Inf(1) }},
		{"unknown strategy", func(c *Config) { c.Strategy.Name = "martingale" }},
		{"zero window", func(c *Config) { c.Strategy.N = 0 }},
		{"unknown format", func(c *Config) { c.Data.Format = "xlsx" }},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			cfg := Default()
			cfg.Data.Training = "train.csv"
			require.NoError(t, cfg.Validate())

			tc.mutate(&cfg)
			assert.True(t, errors.IsConfiguration(cfg.Validate()))
		})
	}
}

func TestApplyEnv(t *testing.T) {
	t.Setenv(EnvStartingInvestment, "2500.5")
	t.Setenv(EnvRoundTripCost, "0")
	t.Setenv(EnvStrategy, "moving_average_trend")
	t.Setenv(EnvTrainingData, "train.csv")

	// godotenv only fills variables that are not already set
	for _, key := range []string{EnvMovingAverageN, EnvTestingData} {
		t.Setenv(key, "")
		require.NoError(t, os.Unsetenv(key))
	}
	envFile := writeFile(t, ".env", "SIM_MA_N=5\nSIM_TESTING_DATA=from-dotenv.csv\nSIM_TRAINING_DATA=ignored.csv\n")

	cfg := Default()
	require.NoError(t, cfg.ApplyEnv(envFile))

	assert.Equal(t, 2500.5, cfg.StartingInvestment)
	assert.Equal(t, 0.0, cfg.RoundTripCost)
	assert.Equal(t, strategy.MovingAverageTrendKind, cfg.Strategy.Name)
	assert.Equal(t, 5, cfg.Strategy.N)
	assert.Equal(t, "train.csv", cfg.Data.Training)
	assert.Equal(t, "from-dotenv.csv", cfg.Data.Testing)
}

func TestApplyEnv_InvalidNumber(t *testing.T) {
	t.Setenv(EnvRoundTripCost, "ten")

	cfg := Default()
	err := cfg.ApplyEnv(noEnvFile(t))
	assert.True(t, errors.HasCode(err, errors.ErrCodeInvalidConfiguration))
}

func TestResolve_NonFiniteInvestment(t *testing.T) {
	t.Setenv(EnvStartingInvestment, "Inf")
	t.Setenv(EnvTrainingData, "train.csv")

	_, err := Resolve("", noEnvFile(t))
	assert.True(t, errors.HasCode(err, errors.ErrCodeInvalidConfiguration), "got %v", err)

	path := writeFile(t, "sim.yaml", "round_trip_cost: .inf\n")
	t.Setenv(EnvStartingInvestment, "")
	_, err = Resolve(path, noEnvFile(t))
	assert.True(t, errors.HasCode(err, errors.ErrCodeInvalidConfiguration), "got %v", err)
}

func TestResolve(t *testing.T) {
	t.Setenv(EnvTrainingData, "env-train.csv")
	path := writeFile(t, "sim.yaml", "round_trip_cost: 2.5\n")

	cfg, err := Resolve(path, noEnvFile(t))
	require.NoError(t, err)
	assert.Equal(t, 2.5, cfg.RoundTripCost)
	assert.Equal(t, "env-train.csv", cfg.Data.Training)

	simCfg, err := cfg.SimulatorConfig()
	require.NoError(t, err)
	assert.Equal(t, 2.5, simCfg.RoundTripCost)
	assert.Equal(t, "buy_and_hold", simCfg.Strategy.Name())
}

func TestGenerateSchemaJSON(t *testing.T) {
	cfg := Default()
	out, err := cfg.GenerateSchemaJSON()
	require.NoError(t, err)

	var schema map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &schema))
	assert.Equal(t, "tradesim-config", schema["title"])

	props, ok := schema["properties"].(map[string]any)
	require.True(t, ok)
	assert.Contains(t, props, "starting_investment")
	assert.Contains(t, props, "strategy")
	assert.Contains(t, props, "data")
}
