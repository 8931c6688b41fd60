package config

import "time"

type Configuration struct {
	// Server config
	Server struct {
		UseSSL bool   `yaml:"ssl"`
		Listen string `yaml:"listen"`
	} `yaml:"server"`
	// bridge service config
	Bridge struct {
		// base URL of the RPC gateway; service and ledger addresses are
		// resolved against it
		Gateway string `yaml:"gateway" envconfig:"BRIDGE_GATEWAY"`
		// address of the primary bridge service instance
		Address        string `yaml:"address" envconfig:"BRIDGE_ADDRESS"`
		PollIntervalMS int    `yaml:"poll_interval_ms"`
		PageSize       uint64 `yaml:"page_size"`
	} `yaml:"bridge"`
	Log struct {
		Level string `yaml:"level"`
	} `yaml:"log"`
}

var Config Configuration

// maximum log page size a caller may request; the service caps pages too
const MaxLogPageSize uint64 = 100

// PollInterval returns the configured tracker poll interval.
func PollInterval() time.Duration {
	if Config.Bridge.PollIntervalMS <= 0 {
		return 2 * time.Second
	}
	return time.Duration(Config.Bridge.PollIntervalMS) * time.Millisecond
}

// PageSize returns the configured log page size, capped and defaulted.
func PageSize() uint64 {
	size := Config.Bridge.PageSize
	if size == 0 {
		return 20
	}
	if size > MaxLogPageSize {
		return MaxLogPageSize
	}
	return size
}
