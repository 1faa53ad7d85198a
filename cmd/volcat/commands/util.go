package commands

import (
	"github.com/marmos91/volcat/internal/logger"
	"github.com/marmos91/volcat/pkg/config"
)

// loadConfig loads the configuration and initializes the logger from it.
// The --debug flag forces DEBUG level regardless of the configured one.
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(flagConfig)
	if err != nil {
		return nil, err
	}

	logCfg := logger.Config{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
		Output: cfg.Logging.Output,
	}
	if flagDebug {
		logCfg.Level = "DEBUG"
	}
	if err := logger.Init(logCfg); err != nil {
		return nil, err
	}

	return cfg, nil
}
