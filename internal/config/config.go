package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Config describes one backtest run.
type Config struct {
	Capital   int64             `yaml:"capital"`
	Duration  int               `yaml:"duration"`
	Start     time.Time         `yaml:"start"`
	Batch     int64             `yaml:"batch"`
	Grid      []float64         `yaml:"grid"`
	Data      map[string]string `yaml:"data"`
	Establish map[string]int64  `yaml:"establish"`
	Report    string            `yaml:"report"`
	Journal   string            `yaml:"journal"`

	// UnorderedSkip selects the reference direction-blind no-op comparison
	// in the grid strategy. Defaults to true.
	UnorderedSkip *bool `yaml:"unordered_skip"`
}

func Read(r io.Reader) (*Config, error) {
	var cfg Config
	d := yaml.NewDecoder(r)
	if err := d.Decode(&cfg); err != nil {
		return nil, fmt.Errorf("unable to parse config file: %w", err)
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func ReadFromFile(path string) (*Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("unable to read config file: %w", err)
	}
	defer f.Close()

	return Read(f)
}

// Unordered resolves the UnorderedSkip option with its default.
func (c *Config) Unordered() bool {
	if c.UnorderedSkip == nil {
		return true
	}

	return *c.UnorderedSkip
}

func (c *Config) validate() error {
	if c.Capital <= 0 {
		return fmt.Errorf("capital must be positive, got %d", c.Capital)
	}
	if c.Duration <= 0 {
		return fmt.Errorf("duration must be positive, got %d", c.Duration)
	}
	if c.Batch <= 0 {
		return fmt.Errorf("batch must be positive, got %d", c.Batch)
	}
	if len(c.Grid) < 2 {
		return errors.New("grid requires at least two multipliers")
	}
	if c.Start.IsZero() {
		return errors.New("start date is required")
	}
	if len(c.Data) == 0 {
		return errors.New("at least one data series is required")
	}
	for name := range c.Establish {
		if _, ok := c.Data[name]; !ok {
			return fmt.Errorf("establish references unknown asset %q", name)
		}
	}

	return nil
}
