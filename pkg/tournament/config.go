package tournament

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/cuteataxx/arbiter/pkg/engine"
	"github.com/cuteataxx/arbiter/pkg/match"
)

// Config is the yaml-driven description of an entire tournament run:
// which engines take part, how pairings and openings are scheduled, and
// how games are adjudicated. Adapted from pkg/eve/tournament.Config.
type Config struct {
	Event string `yaml:"event"`
	Site  string `yaml:"site"`

	Engines []engine.Ref `yaml:"engines"`

	Concurrency int `yaml:"concurrency"`

	Scheduler string `yaml:"scheduler"` // "round-robin" or "gauntlet"

	// GamesPerPairing is only honoured when Openings.Repeat is true; see
	// RoundRobinGenerator.
	GamesPerPairing int `yaml:"games-per-pairing"`

	Openings OpeningsConfig `yaml:"openings"`

	Search       match.SearchSettings      `yaml:"search"`
	Adjudication match.AdjudicationSettings `yaml:"adjudication"`

	PGNOut string `yaml:"pgn-out"`

	Sprt *SprtConfig `yaml:"sprt"`
}

// OpeningsConfig names the opening book and how it is walked.
type OpeningsConfig struct {
	File   string `yaml:"file"`
	Repeat bool   `yaml:"repeat"`
}

// SprtConfig switches on a sequential probability ratio test whose
// verdict is logged as results come in. It does not stop the run: every
// scheduled game is still played.
type SprtConfig struct {
	Elo0  float64 `yaml:"elo0"`
	Elo1  float64 `yaml:"elo1"`
	Alpha float64 `yaml:"alpha"`
	Beta  float64 `yaml:"beta"`
}

// LoadConfig reads and validates a tournament configuration file.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("tournament: read config: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("tournament: parse config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate rejects configurations the worker pool could not run, per
// the arbiter's config-time (fatal) error class.
func (c *Config) Validate() error {
	if len(c.Engines) < 2 {
		return fmt.Errorf("tournament: need at least 2 engines, got %d", len(c.Engines))
	}

	seen := make(map[string]bool, len(c.Engines))
	for _, e := range c.Engines {
		if e.ID == "" {
			return fmt.Errorf("tournament: engine with empty id")
		}
		if seen[e.ID] {
			return fmt.Errorf("tournament: duplicate engine id %q", e.ID)
		}
		seen[e.ID] = true
	}

	if c.Concurrency <= 0 {
		c.Concurrency = 1
	}

	switch c.Scheduler {
	case "", "round-robin", "gauntlet":
	default:
		return fmt.Errorf("tournament: unknown scheduler %q", c.Scheduler)
	}

	if c.Openings.Repeat && c.GamesPerPairing <= 0 {
		return fmt.Errorf("tournament: games-per-pairing must be positive when openings.repeat is set")
	}

	return nil
}
