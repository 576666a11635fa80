package config

import (
	"fmt"
	"io"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/dreamware/passivation/internal/logging"
	"github.com/dreamware/passivation/internal/passivation"
	"github.com/dreamware/passivation/internal/strategy"
)

// Config is the flat-key configuration document that selects a
// Strategy variant and its tuning knobs. Durations are strings parsed
// with time.ParseDuration, matching how the rest of the example pack
// keeps duration fields human-editable in YAML.
type Config struct {
	Passivation struct {
		Strategy string `yaml:"strategy"`
		Idle     struct {
			Timeout string `yaml:"timeout"`
		} `yaml:"idle"`
		LeastRecentlyUsed struct {
			Limit int `yaml:"limit"`
		} `yaml:"least-recently-used"`
	} `yaml:"passivation"`

	Tuning struct {
		BufferSize     int    `yaml:"bufferSize"`
		HandOffTimeout string `yaml:"handOffTimeout"`
	} `yaml:"tuning"`

	// Legacy is a pre-Strategy configuration surface kept for backward
	// compatibility. If PassivateIdleEntityAfter is set alongside an
	// explicit Passivation.Strategy, the explicit strategy wins and
	// Load logs a warning rather than erroring.
	Legacy struct {
		PassivateIdleEntityAfter string `yaml:"passivateIdleEntityAfter"`
	} `yaml:"legacy"`
}

const (
	StrategyNone  = "none"
	StrategyIdle  = "idle"
	StrategyLRU   = "least-recently-used"
	defaultBuffer = 16
	defaultTuning = 5 * time.Second
)

// Load reads and validates a Config from r.
func Load(r io.Reader, logger logging.Logger) (*Config, error) {
	if logger == nil {
		logger = logging.Noop{}
	}
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("config: read: %w", err)
	}
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("config: parse yaml: %w", err)
	}
	if cfg.Passivation.Strategy == "" {
		cfg.Passivation.Strategy = StrategyNone
	}
	if cfg.Tuning.BufferSize == 0 {
		cfg.Tuning.BufferSize = defaultBuffer
	}
	if err := cfg.validate(logger); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// LoadFile is a convenience wrapper around Load for a path on disk.
func LoadFile(path string, logger logging.Logger) (*Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("config: open %s: %w", path, err)
	}
	defer f.Close()
	return Load(f, logger)
}

func (c *Config) validate(logger logging.Logger) error {
	if c.Legacy.PassivateIdleEntityAfter != "" && c.Passivation.Strategy != "" {
		logger.Warnf("config: legacy.passivateIdleEntityAfter is ignored under strategy %q", c.Passivation.Strategy)
	}

	switch c.Passivation.Strategy {
	case StrategyNone:
	case StrategyIdle:
		timeout, err := c.idleTimeout()
		if err != nil {
			return err
		}
		if timeout <= 0 {
			return fmt.Errorf("config: passivation.idle.timeout must be positive, got %v", timeout)
		}
	case StrategyLRU:
		if c.Passivation.LeastRecentlyUsed.Limit <= 0 {
			return fmt.Errorf("config: passivation.least-recently-used.limit must be positive, got %d", c.Passivation.LeastRecentlyUsed.Limit)
		}
	default:
		return fmt.Errorf("config: unknown passivation.strategy %q", c.Passivation.Strategy)
	}

	if c.Tuning.BufferSize <= 0 {
		return fmt.Errorf("config: tuning.bufferSize must be positive, got %d", c.Tuning.BufferSize)
	}
	handOff, err := c.handOffTimeout()
	if err != nil {
		return err
	}
	if handOff <= 0 {
		return fmt.Errorf("config: tuning.handOffTimeout must be positive, got %v", handOff)
	}
	return nil
}

// IdleTimeout returns the configured idle timeout and true if this
// Config selects the idle strategy, or (0, false) otherwise. Callers
// that need to derive a sweep interval (roughly timeout/2) without
// reaching into the built Strategy use this instead.
func (c *Config) IdleTimeout() (time.Duration, bool) {
	if c.Passivation.Strategy != StrategyIdle {
		return 0, false
	}
	timeout, err := c.idleTimeout()
	if err != nil {
		return 0, false
	}
	return timeout, true
}

func (c *Config) idleTimeout() (time.Duration, error) {
	if c.Passivation.Idle.Timeout == "" {
		return 0, fmt.Errorf("config: passivation.idle.timeout is required for strategy %q", StrategyIdle)
	}
	d, err := time.ParseDuration(c.Passivation.Idle.Timeout)
	if err != nil {
		return 0, fmt.Errorf("config: passivation.idle.timeout: %w", err)
	}
	return d, nil
}

func (c *Config) handOffTimeout() (time.Duration, error) {
	if c.Tuning.HandOffTimeout == "" {
		return defaultTuning, nil
	}
	d, err := time.ParseDuration(c.Tuning.HandOffTimeout)
	if err != nil {
		return 0, fmt.Errorf("config: tuning.handOffTimeout: %w", err)
	}
	return d, nil
}

// BuildStrategy constructs the Strategy variant this Config selects.
// Call validate (via Load/LoadFile) first; BuildStrategy assumes a
// valid Config and returns None for any name other than idle or
// least-recently-used.
func (c *Config) BuildStrategy() strategy.Strategy {
	switch c.Passivation.Strategy {
	case StrategyIdle:
		timeout, _ := c.idleTimeout()
		return strategy.NewIdle(timeout)
	case StrategyLRU:
		return strategy.NewLRU(c.Passivation.LeastRecentlyUsed.Limit)
	default:
		return strategy.NewNone()
	}
}

// BuildManager constructs a passivation.Manager wired from this
// Config.
func (c *Config) BuildManager(deps passivation.Config) *passivation.Manager {
	deps.Strategy = c.BuildStrategy()
	deps.BufferSize = c.Tuning.BufferSize
	handOff, _ := c.handOffTimeout()
	deps.HandOffTimeout = handOff
	return passivation.New(deps)
}
