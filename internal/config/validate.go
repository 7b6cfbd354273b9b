package config

import (
	"errors"
	"fmt"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validateTelegram(); err != nil {
		return err
	}
	if err := c.validateDelivery(); err != nil {
		return err
	}
	if err := c.validateLogging(); err != nil {
		return err
	}
	return nil
}

func (c *Config) validateTelegram() error {
	if c.Telegram.BotToken == "" {
		defaultPath, err := DefaultConfigPath()
		if err != nil {
			defaultPath = "~/.config/reel/config.toml"
		}
		return fmt.Errorf("telegram.bot_token is required. Set REEL_BOT_TOKEN env var or edit %s (create with 'reel config init')", defaultPath)
	}
	if c.Telegram.PollTimeout > 300 {
		return errors.New("telegram.poll_timeout must be at most 300 seconds")
	}
	return nil
}

func (c *Config) validateDelivery() error {
	if c.Delivery.SizeLimitBytes < 1024 {
		return errors.New("delivery.size_limit_bytes must be at least 1024")
	}
	if c.Delivery.OperationTimeout < 1 {
		return errors.New("delivery.operation_timeout must be positive")
	}
	if c.Delivery.AudioBitrateKbps < 32 || c.Delivery.AudioBitrateKbps > 320 {
		return errors.New("delivery.audio_bitrate_kbps must be between 32 and 320")
	}
	return nil
}

func (c *Config) validateLogging() error {
	switch c.Logging.Format {
	case "console", "json":
	default:
		return fmt.Errorf("logging.format must be console or json, got %q", c.Logging.Format)
	}
	return nil
}
