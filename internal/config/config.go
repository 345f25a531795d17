package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Server struct {
		Port        int      `yaml:"port"`
		CORSOrigins []string `yaml:"corsOrigins"`
	} `yaml:"server"`

	AI struct {
		APIKey          string `yaml:"apiKey"`
		Model           string `yaml:"model"`
		MaxExcerptChars int    `yaml:"maxExcerptChars"`
	} `yaml:"ai"`

	Pipeline struct {
		GateDelayMS     int `yaml:"gateDelayMs"`
		ExtractDelayMS  int `yaml:"extractDelayMs"`
		DecisionDelayMS int `yaml:"decisionDelayMs"`
		RedTeamDelayMS  int `yaml:"redTeamDelayMs"`
	} `yaml:"pipeline"`

	Auth struct {
		Users []User `yaml:"users"`
	} `yaml:"auth"`

	RateLimit struct {
		Capacity   int `yaml:"capacity"`
		RefillRate int `yaml:"refillRate"`
	} `yaml:"rateLimit"`
}

// User is one entry in the static authorized-personnel registry.
type User struct {
	ID        string `yaml:"id"`
	Key       string `yaml:"key"`
	Name      string `yaml:"name"`
	Role      string `yaml:"role"`
	Clearance int    `yaml:"clearance"`
}

// Load reads config from path and fills in defaults.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}
	cfg.applyDefaults()
	if len(cfg.Auth.Users) == 0 {
		return nil, fmt.Errorf("config: auth.users must not be empty")
	}
	return &cfg, nil
}

func (c *Config) applyDefaults() {
	if c.Server.Port == 0 {
		c.Server.Port = 8080
	}
	if c.AI.MaxExcerptChars == 0 {
		c.AI.MaxExcerptChars = 8000
	}
	if c.Pipeline.GateDelayMS == 0 {
		c.Pipeline.GateDelayMS = 600
	}
	if c.Pipeline.ExtractDelayMS == 0 {
		c.Pipeline.ExtractDelayMS = 400
	}
	if c.Pipeline.DecisionDelayMS == 0 {
		c.Pipeline.DecisionDelayMS = 500
	}
	if c.Pipeline.RedTeamDelayMS == 0 {
		c.Pipeline.RedTeamDelayMS = 4000
	}
	if c.RateLimit.Capacity == 0 {
		c.RateLimit.Capacity = 60
	}
	if c.RateLimit.RefillRate == 0 {
		c.RateLimit.RefillRate = 1
	}
}

func (c *Config) GateDelay() time.Duration {
	return time.Duration(c.Pipeline.GateDelayMS) * time.Millisecond
}

func (c *Config) ExtractDelay() time.Duration {
	return time.Duration(c.Pipeline.ExtractDelayMS) * time.Millisecond
}

func (c *Config) DecisionDelay() time.Duration {
	return time.Duration(c.Pipeline.DecisionDelayMS) * time.Millisecond
}

func (c *Config) RedTeamDelay() time.Duration {
	return time.Duration(c.Pipeline.RedTeamDelayMS) * time.Millisecond
}
