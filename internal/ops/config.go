package ops

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v3"

	"tradesim/internal/errors"
	"tradesim/internal/sim"
)

const envPrefix = "SIM"

// FileConfig mirrors the config file layout.
type FileConfig struct {
	Sim      sim.Config     `json:"sim" yaml:"sim"`
	Sink     SinkConfig     `json:"sink" yaml:"sink"`
	Scenario ScenarioConfig `json:"scenario" yaml:"scenario"`
}

// SinkConfig selects where price reports go.
type SinkConfig struct {
	Kind      string `json:"kind" yaml:"kind" envconfig:"KIND" validate:"oneof=logs zap discard"`
	Level     string `json:"level" yaml:"level" envconfig:"LEVEL" validate:"omitempty,oneof=debug info warn error"`
	QueueSize int    `json:"queueSize" yaml:"queueSize" envconfig:"QUEUE_SIZE" validate:"gte=0"`
}

// ScenarioConfig holds the inputs of the demo scenarios.
type ScenarioConfig struct {
	Traders         int           `json:"traders" yaml:"traders" envconfig:"TRADERS" validate:"gt=0"`
	OrdersPerTrader int           `json:"ordersPerTrader" yaml:"ordersPerTrader" envconfig:"ORDERS_PER_TRADER" validate:"gt=0"`
	Symbols         []string      `json:"symbols" yaml:"symbols" envconfig:"SYMBOLS" validate:"min=1,unique,dive,required"`
	FeedDuration    time.Duration `json:"feedDuration" yaml:"feedDuration" envconfig:"FEED_DURATION" validate:"gt=0"`
	RiskDuration    time.Duration `json:"riskDuration" yaml:"riskDuration" envconfig:"RISK_DURATION" validate:"gt=0"`
	ScanSymbols     []string      `json:"scanSymbols" yaml:"scanSymbols" envconfig:"SCAN_SYMBOLS" validate:"min=1,unique,dive,required"`
	Target          float64       `json:"target" yaml:"target" envconfig:"TARGET" validate:"gt=0"`
	Window          int           `json:"window" yaml:"window" envconfig:"WINDOW" validate:"gt=0"`
	Workers         int           `json:"workers" yaml:"workers" envconfig:"WORKERS" validate:"gt=0"`
	Days            int           `json:"days" yaml:"days" envconfig:"DAYS" validate:"gte=0"`
	Sigma           float64       `json:"sigma" yaml:"sigma" envconfig:"SIGMA" validate:"gte=0"`
}

// Loaded is the resolved configuration ready for use.
type Loaded struct {
	Sim      sim.Config
	Sink     SinkConfig
	Scenario ScenarioConfig
}

// Default returns the built-in configuration.
func Default() FileConfig {
	return FileConfig{
		Sim: sim.DefaultConfig(),
		Sink: SinkConfig{
			Kind:      "logs",
			Level:     "info",
			QueueSize: 64,
		},
		Scenario: ScenarioConfig{
			Traders:         5,
			OrdersPerTrader: 100,
			Symbols:         []string{"AAPL", "GOOG", "TSLA", "MSFT"},
			FeedDuration:    10 * time.Second,
			RiskDuration:    5 * time.Second,
			ScanSymbols:     []string{"AAPL", "GOOG", "MSFT"},
			Target:          175,
			Window:          3,
			Workers:         4,
			Days:            250,
			Sigma:           1,
		},
	}
}

// Load resolves the configuration: defaults, then the optional JSON or
// YAML file at path, then .env files, then SIM_* environment overrides.
// The result is validated.
func Load(path string, envFiles ...string) (Loaded, error) {
	cfg := Default()
	if path != "" {
		if err := decodeFile(path, &cfg); err != nil {
			return Loaded{}, err
		}
	}
	if err := loadEnvFiles(envFiles); err != nil {
		return Loaded{}, err
	}
	if err := applyEnv(&cfg); err != nil {
		return Loaded{}, err
	}
	if err := Validate(cfg); err != nil {
		return Loaded{}, err
	}
	return Loaded{
		Sim:      cfg.Sim,
		Sink:     cfg.Sink,
		Scenario: cfg.Scenario,
	}, nil
}

// Validate runs struct tag validation and the component checks.
func Validate(cfg FileConfig) error {
	if err := validator.New().Struct(cfg); err != nil {
		return errors.Wrap(err, "validate config")
	}
	return cfg.Sim.Validate()
}

func decodeFile(path string, cfg *FileConfig) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return fmt.Errorf("decode yaml %s: %w", path, err)
		}
	default:
		if err := json.Unmarshal(data, cfg); err != nil {
			return fmt.Errorf("decode json %s: %w", path, err)
		}
	}
	return nil
}

func loadEnvFiles(files []string) error {
	existing := make([]string, 0, len(files))
	for _, f := range files {
		if _, err := os.Stat(f); err == nil {
			existing = append(existing, f)
		}
	}
	if len(existing) == 0 {
		return nil
	}
	return godotenv.Load(existing...)
}

func applyEnv(cfg *FileConfig) error {
	if err := envconfig.Process(envPrefix, &cfg.Sim); err != nil {
		return errors.Wrap(err, "env sim")
	}
	if err := envconfig.Process(envPrefix+"_SINK", &cfg.Sink); err != nil {
		return errors.Wrap(err, "env sink")
	}
	if err := envconfig.Process(envPrefix+"_SCENARIO", &cfg.Scenario); err != nil {
		return errors.Wrap(err, "env scenario")
	}
	return nil
}
