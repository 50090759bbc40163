package config

import (
	"fmt"
	"os"

	"github.com/coursedesk/course-survey-mcp/internal/search"
	"gopkg.in/yaml.v3"
)

// SearchConfig is the ranking tuning loaded from configs/search.yaml.
// A missing file means defaults, so the binaries run without any config.
type SearchConfig struct {
	Strategy string `yaml:"strategy"`
	Weights  struct {
		TokenCoverage float64 `yaml:"token_coverage"`
		LengthBonus   float64 `yaml:"length_bonus"`
	} `yaml:"weights"`
	DefaultTopK     int     `yaml:"default_top_k"`
	LookaheadFactor int     `yaml:"lookahead_factor"`
	MaxScan         int     `yaml:"max_scan"`
	MinScore        float64 `yaml:"min_score"`
}

func LoadSearchConfig() (*SearchConfig, error) {
	path := os.Getenv("SEARCH_CONFIG_PATH")
	if path == "" {
		path = "configs/search.yaml"
	}

	var cfg SearchConfig
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			applyDefaults(&cfg)
			return &cfg, nil
		}
		return nil, err
	}

	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}

	applyDefaults(&cfg)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func applyDefaults(cfg *SearchConfig) {
	def := search.Defaults()
	if cfg.Strategy == "" {
		cfg.Strategy = string(def.Strategy)
	}
	if cfg.Weights.TokenCoverage == 0 {
		cfg.Weights.TokenCoverage = def.TokenWeight
	}
	if cfg.Weights.LengthBonus == 0 {
		cfg.Weights.LengthBonus = def.LengthWeight
	}
	if cfg.DefaultTopK == 0 {
		cfg.DefaultTopK = def.DefaultTopK
	}
	if cfg.LookaheadFactor == 0 {
		cfg.LookaheadFactor = def.LookaheadFactor
	}
	if cfg.MaxScan == 0 {
		cfg.MaxScan = def.MaxScan
	}
	if cfg.MinScore == 0 {
		cfg.MinScore = def.MinScore
	}
}

func (c *SearchConfig) Validate() error {
	switch search.Strategy(c.Strategy) {
	case search.StrategyPredicate, search.StrategyScan:
	default:
		return fmt.Errorf("unknown search strategy: %q", c.Strategy)
	}
	if c.Weights.TokenCoverage < 0 || c.Weights.LengthBonus < 0 {
		return fmt.Errorf("search weights must be non-negative")
	}
	if c.MinScore < 0 || c.MinScore > 1 {
		return fmt.Errorf("min_score must be in [0,1], got %v", c.MinScore)
	}
	return nil
}

// EngineConfig converts the YAML form into the engine's tuning struct.
func (c *SearchConfig) EngineConfig() search.Config {
	return search.Config{
		Strategy:        search.Strategy(c.Strategy),
		TokenWeight:     c.Weights.TokenCoverage,
		LengthWeight:    c.Weights.LengthBonus,
		DefaultTopK:     c.DefaultTopK,
		LookaheadFactor: c.LookaheadFactor,
		MaxScan:         c.MaxScan,
		MinScore:        c.MinScore,
	}
}
