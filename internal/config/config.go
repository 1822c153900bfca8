// Package config loads simulator settings from a YAML file, a .env file and
// SIM_* environment variables, in that order of precedence (lowest first).
package config

import (
	"encoding/json"
	"io/fs"
	"math"
	"os"
	"strconv"

	"github.com/go-playground/validator/v10"
	"github.com/invopop/jsonschema"
	"github.com/joho/godotenv"
	"github.com/jwtly10/tradesim/internal/backtest"
	"github.com/jwtly10/tradesim/internal/errors"
	"github.com/jwtly10/tradesim/internal/strategy"
	"gopkg.in/yaml.v3"
)

const (
	EnvStartingInvestment = "SIM_STARTING_INVESTMENT"
	EnvRoundTripCost      = "SIM_ROUND_TRIP_COST"
	EnvStrategy           = "SIM_STRATEGY"
	EnvMovingAverageN     = "SIM_MA_N"
	EnvTrainingData       = "SIM_TRAINING_DATA"
	EnvTestingData        = "SIM_TESTING_DATA"
	EnvDataFormat         = "SIM_DATA_FORMAT"
)

type Config struct {
	StartingInvestment float64        `yaml:"starting_investment" json:"starting_investment" jsonschema:"title=Starting Investment,description=Capital at the start of every pass,minimum=0" validate:"gt=0"`
	RoundTripCost      float64        `yaml:"round_trip_cost" json:"round_trip_cost" jsonschema:"title=Round Trip Cost,description=Flat cost charged on every close,minimum=0" validate:"gte=0"`
	Strategy           StrategyConfig `yaml:"strategy" json:"strategy" jsonschema:"title=Strategy"`
	Data               DataConfig     `yaml:"data" json:"data" jsonschema:"title=Data"`
}

type StrategyConfig struct {
	Name strategy.Kind `yaml:"name" json:"name" jsonschema:"title=Name,description=Decision rule used in training,enum=buy_and_hold,enum=moving_average_trend,default=buy_and_hold" validate:"omitempty,oneof=buy_and_hold moving_average_trend"`
	N    int           `yaml:"n" json:"n" jsonschema:"title=Window,description=Moving average window length,minimum=1" validate:"gte=1"`
}

type DataConfig struct {
	Training string `yaml:"training" json:"training" jsonschema:"title=Training Data,description=Path to the training series (.csv or .parquet),required" validate:"required"`
	Testing  string `yaml:"testing" json:"testing" jsonschema:"title=Testing Data,description=Path to the testing series; testing is skipped when empty"`
	Format   string `yaml:"format" json:"format" jsonschema:"title=Format,description=Overrides the format inferred from the file extension,enum=csv,enum=parquet" validate:"omitempty,oneof=csv parquet"`
}

func Default() Config {
	return Config{
		StartingInvestment: backtest.DefaultStartingInvestment,
		RoundTripCost:      backtest.DefaultRoundTripCost,
		Strategy: StrategyConfig{
			Name: strategy.BuyAndHoldKind,
			N:    strategy.DefaultN,
		},
	}
}

// Load reads the YAML file at path over the defaults. An empty path yields
// the defaults.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		return cfg, errors.Wrapf(errors.ErrCodeInvalidConfiguration, err, "failed to read config %s", path)
	}
	if err := yaml.Unmarshal(raw, &cfg); err != nil {
		return cfg, errors.Wrapf(errors.ErrCodeInvalidConfiguration, err, "failed to parse config %s", path)
	}
	return cfg, nil
}

// Resolve loads the file, applies the environment and validates the result.
func Resolve(path string, envFiles ...string) (Config, error) {
	cfg, err := Load(path)
	if err != nil {
		return cfg, err
	}
	if err := cfg.ApplyEnv(envFiles...); err != nil {
		return cfg, err
	}
	return cfg, cfg.Validate()
}

// ApplyEnv loads .env files (a missing file is not an error) and overrides
// fields from SIM_* variables.
func (c *Config) ApplyEnv(envFiles ...string) error {
	if err := godotenv.Load(envFiles...); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return errors.Wrap(errors.ErrCodeInvalidConfiguration, "error loading .env file", err)
	}

	if err := envFloat(EnvStartingInvestment, &c.StartingInvestment); err != nil {
		return err
	}
	if err := envFloat(EnvRoundTripCost, &c.RoundTripCost); err != nil {
		return err
	}
	if v := os.Getenv(EnvStrategy); v != "" {
		c.Strategy.Name = strategy.Kind(v)
	}
	if v := os.Getenv(EnvMovingAverageN); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return errors.Wrapf(errors.ErrCodeInvalidConfiguration, err, "invalid %s", EnvMovingAverageN)
		}
		c.Strategy.N = n
	}
	if v := os.Getenv(EnvTrainingData); v != "" {
		c.Data.Training = v
	}
	if v := os.Getenv(EnvTestingData); v != "" {
		c.Data.Testing = v
	}
	if v := os.Getenv(EnvDataFormat); v != "" {
		c.Data.Format = v
	}
	return nil
}

func envFloat(key string, dst *float64) error {
	v := os.Getenv(key)
	if v == "" {
		return nil
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return errors.Wrapf(errors.ErrCodeInvalidConfiguration, err, "invalid %s", key)
	}
	*dst = f
	return nil
}

func (c *Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidConfiguration, "invalid config", err)
	}
	// YAML .inf and env "Inf" parse fine and pass gt=0
	if math.IsInf(c.StartingInvestment, 0) || math.IsInf(c.RoundTripCost, 0) {
		return errors.New(errors.ErrCodeInvalidConfiguration, "invalid config: amounts must be finite")
	}
	return nil
}

// NewStrategy builds a fresh instance of the configured strategy.
func (c *Config) NewStrategy() (strategy.Strategy, error) {
	return strategy.New(c.Strategy.Name, c.Strategy.N)
}

// SimulatorConfig maps the file settings onto a simulator config with a
// fresh strategy.
func (c *Config) SimulatorConfig() (backtest.Config, error) {
	s, err := c.NewStrategy()
	if err != nil {
		return backtest.Config{}, err
	}

	return backtest.Config{
		StartingInvestment: c.StartingInvestment,
		RoundTripCost:      c.RoundTripCost,
		Strategy:           s,
	}, nil
}

func (c *Config) GenerateSchema() *jsonschema.Schema {
	reflector := jsonschema.Reflector{
		RequiredFromJSONSchemaTags: true,
		AllowAdditionalProperties:  false,
		ExpandedStruct:             true,
	}

	schema := reflector.Reflect(c)
	schema.Title = "tradesim-config"
	schema.Description = "Configuration schema for the trading simulator"
	schema.Version = "http://json-schema.org/draft-07/schema#"
	return schema
}

func (c *Config) GenerateSchemaJSON() (string, error) {
	schemaBytes, err := json.MarshalIndent(c.GenerateSchema(), "", "  ")
	if err != nil {
		return "", err
	}
	return string(schemaBytes), nil
}
