package runtime

import (
	"fmt"
	"net"
	"strings"
	"time"

	"github.com/louisbranch/rpcnode/internal/platform/config"
	"github.com/louisbranch/rpcnode/internal/platform/timeouts"
)

// DefaultListenAddr is the RPC listen address used when none is configured.
const DefaultListenAddr = "127.0.0.1:50080"

// Config controls the runtime core. File values are read from the `runtime`
// section of the YAML configuration; RPCNODE_* environment variables override them.
type Config struct {
	ListenAddr      string        `yaml:"listen_addr" env:"RPCNODE_LISTEN_ADDR"`
	AdminAddr       string        `yaml:"admin_addr" env:"RPCNODE_ADMIN_ADDR"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout" env:"RPCNODE_SHUTDOWN_TIMEOUT"`
	RateLimit       float64       `yaml:"rate_limit" env:"RPCNODE_RATE_LIMIT"`
	RateBurst       int           `yaml:"rate_burst" env:"RPCNODE_RATE_BURST"`
}

type fileConfig struct {
	Runtime Config `yaml:"runtime"`
}

// DefaultConfig returns the configuration used for an empty config path.
func DefaultConfig() Config {
	return Config{
		ListenAddr:      DefaultListenAddr,
		ShutdownTimeout: timeouts.Shutdown,
	}
}

// LoadConfig reads path (empty means defaults only), applies environment
// overrides and validates the result.
func LoadConfig(path string) (Config, error) {
	file := fileConfig{Runtime: DefaultConfig()}
	if strings.TrimSpace(path) != "" {
		if err := config.LoadYAML(path, &file); err != nil {
			return Config{}, err
		}
	}
	cfg := file.Runtime
	if err := config.ParseEnv(&cfg); err != nil {
		return Config{}, err
	}
	if cfg.RateLimit > 0 && cfg.RateBurst == 0 {
		cfg.RateBurst = 1
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate reports the first invalid field.
func (c Config) Validate() error {
	if strings.TrimSpace(c.ListenAddr) == "" {
		return fmt.Errorf("%w: listen_addr is required", ErrInvalidConfig)
	}
	if _, _, err := net.SplitHostPort(c.ListenAddr); err != nil {
		return fmt.Errorf("%w: listen_addr %q: %v", ErrInvalidConfig, c.ListenAddr, err)
	}
	if c.AdminAddr != "" {
		if _, _, err := net.SplitHostPort(c.AdminAddr); err != nil {
			return fmt.Errorf("%w: admin_addr %q: %v", ErrInvalidConfig, c.AdminAddr, err)
		}
	}
	if c.ShutdownTimeout <= 0 {
		return fmt.Errorf("%w: shutdown_timeout must be positive", ErrInvalidConfig)
	}
	if c.RateLimit < 0 {
		return fmt.Errorf("%w: rate_limit must not be negative", ErrInvalidConfig)
	}
	if c.RateBurst < 0 {
		return fmt.Errorf("%w: rate_burst must not be negative", ErrInvalidConfig)
	}
	return nil
}
