package config

import (
	"fmt"
	"os"
	"time"

	"github.com/creasty/defaults"
	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

var validate = validator.New()

// Config is the full configuration of one run. Every engine option is also
// exposed as a CLI flag with the same name; flags override the file.
type Config struct {
	Environment string `yaml:"environment" default:"dev"`
	Logging     struct {
		Level  string `yaml:"level" default:"info"`
		Format string `yaml:"format" default:"console" validate:"oneof=json console"`
		Output string `yaml:"output" default:"stderr"`
	} `yaml:"logging"`
	Source struct {
		Type      string `yaml:"type" default:"csv" validate:"oneof=csv clickhouse"`
		Path      string `yaml:"path"`      // csv file path
		Delimiter string `yaml:"delimiter" default:","`
	} `yaml:"source"`
	ClickHouse struct {
		Host        string        `yaml:"host" default:"localhost"`
		Port        int           `yaml:"port" default:"9000"`
		Database    string        `yaml:"database" default:"signalbench"`
		Table       string        `yaml:"table" default:"signals_raw"`
		User        string        `yaml:"user" default:"default"`
		Password    string        `yaml:"password"`
		DialTimeout time.Duration `yaml:"dial_timeout" default:"5s"`
		ReadTimeout time.Duration `yaml:"read_timeout" default:"10s"`
	} `yaml:"clickhouse"`
	Cache struct {
		Enabled bool          `yaml:"enabled"`
		TTL     time.Duration `yaml:"ttl" default:"10m"`
		Redis   struct {
			Enabled  bool   `yaml:"enabled"`
			Host     string `yaml:"host" default:"localhost"`
			Port     int    `yaml:"port" default:"6379"`
			Password string `yaml:"password"`
			DB       int    `yaml:"db"`
			Prefix   string `yaml:"prefix" default:"signalbench"`
		} `yaml:"redis"`
	} `yaml:"cache"`
	Kafka struct {
		Brokers []string `yaml:"brokers"`
		Topic   string   `yaml:"topic" default:"signals"`
		GroupID string   `yaml:"group_id" default:"signalbench-ingest"`
	} `yaml:"kafka"`
	Simulate SimulateConfig `yaml:"simulate"`
	Scan     ScanConfig     `yaml:"scan"`
}

// SimulateConfig drives the walk-forward simulator.
type SimulateConfig struct {
	Horizon               string  `yaml:"horizon" default:"10min" validate:"oneof=10min 30min 60min"`
	LookbackHours         int     `yaml:"lookback_hours" default:"3" validate:"gte=1"`
	RefreshCadenceMinutes int     `yaml:"refresh_cadence_minutes" default:"60" validate:"gte=1"`
	ScoreFormula          string  `yaml:"score_formula" default:"acceleration" validate:"oneof=linear exponential rate_of_growth acceleration"`
	Selector              string  `yaml:"selector" default:"momentum" validate:"oneof=momentum performance"`
	TopK                  int     `yaml:"top_k" default:"6" validate:"gte=1"`
	MinScore              float64 `yaml:"min_score" default:"25"`
	MaxSelect             int     `yaml:"max_select" default:"1" validate:"gte=0"`
	Stake                 float64 `yaml:"stake" default:"250" validate:"gt=0"`
	Payout                float64 `yaml:"payout" default:"0.8" validate:"gt=0"`
	StartingCash          float64 `yaml:"starting_cash" default:"1000" validate:"gt=0"`
	DailyCap              int     `yaml:"daily_cap" default:"5" validate:"gte=0"`
	MaxConsecutiveLosses  int     `yaml:"max_consecutive_losses" default:"4" validate:"gte=0"`
	From                  string  `yaml:"from"`
	To                    string  `yaml:"to"`
}

// ScanConfig drives the bucket scanner and the train/test split.
type ScanConfig struct {
	TrainStart  string        `yaml:"train_start"`
	TrainEnd    string        `yaml:"train_end"`
	TestStart   string        `yaml:"test_start"`
	TestEnd     string        `yaml:"test_end"`
	EmbargoDays int           `yaml:"embargo_days" default:"1" validate:"gte=0"`
	Stake       float64       `yaml:"stake" default:"100" validate:"gt=0"`
	Payout      float64       `yaml:"payout" default:"0.8" validate:"gt=0"`
	Filters     BucketFilters `yaml:"bucket_filters"`
}

// BucketFilters are the bucket-scan selection thresholds.
type BucketFilters struct {
	MinTrades        int     `yaml:"min_trades" default:"10" validate:"gte=1"`
	MinWilsonLB      float64 `yaml:"min_wilson_lb" default:"0.74"`
	MinStability     float64 `yaml:"min_stability" default:"8"`
	MinSignalQuality float64 `yaml:"min_signal_quality" default:"7.5"`
	MinEV            float64 `yaml:"min_ev" default:"35"`
	BreakevenMargin  float64 `yaml:"breakeven_margin_pp" default:"3"`
	Keep             int     `yaml:"keep" default:"20" validate:"gte=1"`
}

// Default returns a config with all defaults applied and no file read.
func Default() (*Config, error) {
	var c Config
	if err := defaults.Set(&c); err != nil {
		return nil, fmt.Errorf("config defaults: %w", err)
	}
	return &c, nil
}

// Load reads and parses a YAML configuration file over the defaults and
// validates the result. Defaults are applied before unmarshaling so that an
// explicit zero in the file (min_score, max_select, daily_cap,
// max_consecutive_losses, embargo_days all treat 0 as "disabled") is kept
// rather than replaced by the default.
func Load(path string) (*Config, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	var c Config
	if err := defaults.Set(&c); err != nil {
		return nil, fmt.Errorf("config defaults: %w", err)
	}
	if err := yaml.Unmarshal(b, &c); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}

	return &c, nil
}

// LoadWithEnv loads config and overrides credentials from environment
// variables.
func LoadWithEnv(path string) (*Config, error) {
	var c *Config
	var err error
	if path == "" {
		c, err = Default()
	} else {
		c, err = Load(path)
	}
	if err != nil {
		return nil, err
	}

	if v := os.Getenv("CLICKHOUSE_HOST"); v != "" {
		c.ClickHouse.Host = v
	}
	if v := os.Getenv("CLICKHOUSE_PASSWORD"); v != "" {
		c.ClickHouse.Password = v
	}
	if v := os.Getenv("REDIS_PASSWORD"); v != "" {
		c.Cache.Redis.Password = v
	}

	return c, nil
}

// Validate checks structural tags plus cross-field constraints.
func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return err
	}
	if c.Source.Type == "csv" && c.Source.Path == "" {
		return fmt.Errorf("source.path is required for csv source")
	}
	return c.Simulate.Validate()
}

// Validate checks the simulator options against each other.
func (s *SimulateConfig) Validate() error {
	if s.MaxSelect > s.TopK {
		return fmt.Errorf("max_select (%d) must not exceed top_k (%d)", s.MaxSelect, s.TopK)
	}
	return nil
}
