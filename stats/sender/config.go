package sender

import (
	"os"
	"time"
)

// Config defines the config for the sender.
type Config struct {
	Logger             Logger        `yaml:"-"`
	SendInterval       time.Duration `yaml:"send_interval"`
	SendLimit          int           `yaml:"send_limit"`
	UseMemoryFallback  bool          `yaml:"use_memory_fallback"`
	FileWorkspace      string        `yaml:"file_workspace"`
	ShowSuccessfulInfo bool          `yaml:"show_successful_info"`
}

// ConfigDefault is the default config.
var ConfigDefault = Config{
	SendInterval:       time.Second,
	SendLimit:          256,
	UseMemoryFallback:  true,
	ShowSuccessfulInfo: false,
}

// Helper function to set default values
func configDefault(config ...Config) Config {
	if len(config) < 1 {
		return ConfigDefault
	}

	cfg := config[0]

	if cfg.FileWorkspace == "" {
		cfg.FileWorkspace, _ = os.MkdirTemp("", "evonomics-stats")
	}
	if cfg.SendLimit == 0 {
		cfg.SendLimit = ConfigDefault.SendLimit
	}
	if cfg.SendInterval < 100*time.Millisecond {
		cfg.SendInterval = 100 * time.Millisecond
	}

	return cfg
}
