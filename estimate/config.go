package estimate

import (
	"log"
	"os"

	"gopkg.in/yaml.v2"
)

const configFileEnv = "AUGUR_CONFIG"

// Config holds the Estimator parameters. Windows are in seconds,
// MaxBlockSize in weight units, Targets in blocks (fractional targets
// are allowed; table rows round to the nearest integer).
type Config struct {
	Confidence   []float64 `yaml:"confidence" json:"confidence"`
	Targets      []float64 `yaml:"targets" json:"targets"`
	ShortWindow  int64     `yaml:"shortwindow" json:"shortwindow"`
	LongWindow   int64     `yaml:"longwindow" json:"longwindow"`
	MaxBlockSize float64   `yaml:"maxblocksize" json:"maxblocksize"`

	Logger *log.Logger `yaml:"-" json:"-"`
}

// DefaultConfig returns the stock configuration: the standard
// confidence levels and targets, a 30-minute short window, a 24-hour
// long window and the consensus 4M-WU block size.
func DefaultConfig() Config {
	return Config{
		Confidence:   []float64{0.05, 0.20, 0.50, 0.80, 0.95},
		Targets:      []float64{3, 6, 9, 12, 18, 24, 36, 48, 72, 96, 144},
		ShortWindow:  1800,
		LongWindow:   86400,
		MaxBlockSize: 4e6,
	}
}

// LoadConfig layers a YAML config file over DefaultConfig. The path
// argument takes precedence over the AUGUR_CONFIG env variable; if
// neither is set the defaults are returned as-is.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()
	if path == "" {
		path = os.Getenv(configFileEnv)
	}
	if path == "" {
		return cfg, nil
	}
	c, err := os.ReadFile(path)
	if err != nil {
		return cfg, err
	}
	if err := yaml.Unmarshal(c, &cfg); err != nil {
		return cfg, err
	}
	return cfg, nil
}
