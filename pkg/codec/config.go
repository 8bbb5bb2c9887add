package codec

import (
	"fmt"
	"os"

	"github.com/BurntSushi/toml"
)

// Config controls the instrumented codec
type Config struct {
	Logging LoggingSection `toml:"logging"`
	Limits  LimitsSection  `toml:"limits"`
}

type LoggingSection struct {
	LogDecodeErrors bool `toml:"log_decode_errors"`
	LogUnrecognized bool `toml:"log_unrecognized"`
}

type LimitsSection struct {
	// MaxMessageBytes rejects larger inputs before parsing. 0 means no limit.
	MaxMessageBytes int `toml:"max_message_bytes"`
}

// DefaultConfig returns the default configuration
func DefaultConfig() Config {
	return Config{
		Logging: LoggingSection{
			LogDecodeErrors: true,
			LogUnrecognized: false,
		},
		Limits: LimitsSection{
			MaxMessageBytes: 64 * 1024,
		},
	}
}

// ParseConfig decodes TOML on top of the defaults, so omitted keys keep their default value
func ParseConfig(data []byte) (Config, error) {
	cfg := DefaultConfig()
	if _, err := toml.Decode(string(data), &cfg); err != nil {
		return Config{}, fmt.Errorf("failed to parse config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// LoadConfig reads a TOML config file. A missing file yields the defaults.
func LoadConfig(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return DefaultConfig(), nil
	}
	if err != nil {
		return Config{}, fmt.Errorf("failed to read config file: %w", err)
	}
	return ParseConfig(data)
}

// Validate checks the configuration for impossible values
func (c Config) Validate() error {
	if c.Limits.MaxMessageBytes < 0 {
		return fmt.Errorf("limits.max_message_bytes must not be negative, got %d", c.Limits.MaxMessageBytes)
	}
	return nil
}
