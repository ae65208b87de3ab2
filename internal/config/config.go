package config

import (
	"os"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Server  Server  `yaml:"server" json:"server"`
	Outline Outline `yaml:"outline" json:"outline"`
	Energy  Energy  `yaml:"energy" json:"energy"`
}

type Server struct {
	Addr string `yaml:"addr" json:"addr"`
}

type Outline struct {
	Path      string `yaml:"path" json:"path"`
	BackupDir string `yaml:"backup_dir" json:"backup_dir"`
	Watch     bool   `yaml:"watch" json:"watch"`
}

type Energy struct {
	MaxEnergy            int   `yaml:"max_energy" json:"max_energy"`
	RegenIntervalMinutes int   `yaml:"regen_interval_minutes" json:"regen_interval_minutes"`
	TickSeconds          int   `yaml:"tick_seconds" json:"tick_seconds"`
	Break                Break `yaml:"break" json:"break"`
}

type Break struct {
	MinMinutes            int `yaml:"min_minutes" json:"min_minutes"`
	MaxMinutes            int `yaml:"max_minutes" json:"max_minutes"`
	RestorePerQuarterHour int `yaml:"restore_per_quarter_hour" json:"restore_per_quarter_hour"`
}

func (c *Config) ApplyDefaults() {
	if c.Server.Addr == "" {
		c.Server.Addr = ":8000"
	}
	if c.Outline.Path == "" {
		c.Outline.Path = "todos.md"
	}
	if c.Outline.BackupDir == "" {
		c.Outline.BackupDir = "backups"
	}
	if c.Energy.MaxEnergy == 0 {
		c.Energy.MaxEnergy = 12
	}
	if c.Energy.RegenIntervalMinutes == 0 {
		c.Energy.RegenIntervalMinutes = 15
	}
	if c.Energy.TickSeconds == 0 {
		c.Energy.TickSeconds = 1
	}
	if c.Energy.Break.MinMinutes == 0 {
		c.Energy.Break.MinMinutes = 5
	}
	if c.Energy.Break.MaxMinutes == 0 {
		c.Energy.Break.MaxMinutes = 60
	}
	if c.Energy.Break.RestorePerQuarterHour == 0 {
		c.Energy.Break.RestorePerQuarterHour = 1
	}
}

// Default returns the configuration used when no file is present.
func Default() *Config {
	c := &Config{Outline: Outline{Watch: true}}
	c.ApplyDefaults()
	return c
}

func Load(path string) (*Config, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var c Config
	if err := yaml.Unmarshal(b, &c); err != nil {
		return nil, err
	}
	c.ApplyDefaults()
	return &c, nil
}

// LoadOrDefault loads path when it exists and otherwise falls back to the
// defaults with environment overrides applied either way.
func LoadOrDefault(path string) (*Config, error) {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		c := Default()
		c.applyEnv()
		return c, nil
	}
	c, err := Load(path)
	if err != nil {
		return nil, err
	}
	c.applyEnv()
	return c, nil
}
