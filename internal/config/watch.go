package config

import (
	"resumelens/internal/errors"

	"github.com/fsnotify/fsnotify"
)

// Watch re-reads and re-validates the configuration whenever the config file
// changes on disk. Invalid edits are logged and ignored; a valid reload is
// handed to onChange as a fresh Config. The receiver is never mutated, so
// goroutines reading it need no locking. onChange runs on the watcher
// goroutine and must not write to shared state without synchronization.
func (c *Config) Watch(logger *errors.Logger, onChange func(*Config)) {
	if c.viper == nil || c.viper.ConfigFileUsed() == "" {
		return
	}

	c.viper.OnConfigChange(func(e fsnotify.Event) {
		logger.Info("Config file changed", "file", e.Name, "op", e.Op.String())

		var next Config
		if err := c.viper.Unmarshal(&next); err != nil {
			logger.LogError(err, "Failed to reload config, keeping previous values")
			return
		}
		next.applyFallbacks()
		if err := next.Validate(); err != nil {
			logger.LogError(err, "Reloaded config is invalid, keeping previous values")
			return
		}
		next.viper = c.viper

		if onChange != nil {
			onChange(&next)
		}
	})
	c.viper.WatchConfig()
}
