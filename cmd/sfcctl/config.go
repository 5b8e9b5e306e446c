package main

import (
	"fmt"
	"time"

	"github.com/BurntSushi/toml"
)

// config holds connection settings, loadable from a TOML file and
// overridable by flags.
type config struct {
	Port          string `toml:"port"`
	Baud          int    `toml:"baud"`
	Address       int    `toml:"address"`
	ReadTimeoutMS int    `toml:"read_timeout_ms"`
	RetryLimit    int    `toml:"retry_limit"`
	Verbose       bool   `toml:"verbose"`
}

func defaultConfig() config {
	return config{
		Baud:          115200,
		ReadTimeoutMS: 600,
		RetryLimit:    2,
	}
}

// loadConfig reads the TOML file at path over the defaults. Unknown keys
// are rejected to catch typos.
func loadConfig(path string) (config, error) {
	cfg := defaultConfig()

	meta, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		return cfg, fmt.Errorf("config %s: %w", path, err)
	}

	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		return cfg, fmt.Errorf("config %s: unknown key %q", path, undecoded[0].String())
	}

	return cfg, nil
}

func (c config) readTimeout() time.Duration {
	return time.Duration(c.ReadTimeoutMS) * time.Millisecond
}

func (c config) validate() error {
	if c.Port == "" {
		return fmt.Errorf("no serial port given (use --port or a config file)")
	}
	if c.Address < 0 || c.Address > 255 {
		return fmt.Errorf("address %d out of range [0, 255]", c.Address)
	}

	return nil
}
