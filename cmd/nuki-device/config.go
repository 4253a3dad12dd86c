package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/nuki-esphome/nuki-go/pkg/discovery"
)

// Config holds the runtime settings of the device process. The lock's own
// configuration lives in the system document.
type Config struct {
	System      string        `yaml:"system"`
	StateDir    string        `yaml:"state_dir"`
	EventLog    string        `yaml:"event_log"`
	LogLevel    string        `yaml:"log_level"`
	Interactive bool          `yaml:"interactive"`
	Update      time.Duration `yaml:"update_interval"`

	MDNS     MDNSConfig     `yaml:"mdns"`
	Simulate SimulateConfig `yaml:"simulate"`
}

// MDNSConfig controls the pairing advertisement.
type MDNSConfig struct {
	Enabled   bool          `yaml:"enabled"`
	Interface string        `yaml:"interface"`
	Port      uint16        `yaml:"port"`
	TTL       time.Duration `yaml:"ttl"`
}

// SimulateConfig shapes the simulated lock.
type SimulateConfig struct {
	// Paired starts the simulator with stored credentials.
	Paired bool `yaml:"paired"`
	// PairAfter is the number of pairing attempts before one succeeds.
	PairAfter int `yaml:"pair_after"`
	// Drain is how often the battery loses one percent; zero disables.
	Drain time.Duration `yaml:"drain"`
}

// StateFile is the persisted state file name inside StateDir.
const StateFile = "nuki_lock.json"

func defaultConfig() Config {
	return Config{
		StateDir: ".",
		LogLevel: "info",
		MDNS: MDNSConfig{
			Enabled: true,
			Port:    discovery.DefaultPort,
			TTL:     discovery.DefaultAdvertiserConfig().TTL,
		},
		Simulate: SimulateConfig{PairAfter: 2},
	}
}

// loadConfig reads a YAML runtime configuration over the defaults.
func loadConfig(path string) (Config, error) {
	cfg := defaultConfig()
	if path == "" {
		return cfg, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, err
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parse %s: %w", path, err)
	}
	return cfg, nil
}

func (c Config) validate() error {
	if c.System == "" {
		return errors.New("no system document: pass -system or set system in the config file")
	}
	if c.Simulate.PairAfter < 0 {
		return fmt.Errorf("simulate.pair_after must not be negative, got %d", c.Simulate.PairAfter)
	}
	return nil
}

// StatePath returns the state file location.
func (c Config) StatePath() string {
	return filepath.Join(c.StateDir, StateFile)
}

func (c Config) advertiserConfig() discovery.AdvertiserConfig {
	ac := discovery.DefaultAdvertiserConfig()
	ac.Interface = c.MDNS.Interface
	if c.MDNS.TTL > 0 {
		ac.TTL = c.MDNS.TTL
	}
	return ac
}
