package config

import (
	"errors"
	"fmt"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validateMatching(); err != nil {
		return err
	}
	if err := c.validateAssembly(); err != nil {
		return err
	}
	if err := c.validateMusic(); err != nil {
		return err
	}
	if err := c.validateLogging(); err != nil {
		return err
	}
	return nil
}

func (c *Config) validateMatching() error {
	if c.Matching.MinScore < 0 || c.Matching.MinScore > 1 {
		return errors.New("matching.min_score must be between 0 and 1")
	}
	if c.Matching.MinConfidence < 0 || c.Matching.MinConfidence > 1 {
		return errors.New("matching.min_confidence must be between 0 and 1")
	}
	return nil
}

func (c *Config) validateAssembly() error {
	if c.Assembly.PaddingSeconds < 0 {
		return errors.New("assembly.padding_seconds must not be negative")
	}
	if c.Assembly.CRF < 0 || c.Assembly.CRF > 51 {
		return fmt.Errorf("assembly.crf must be between 0 and 51, got %d", c.Assembly.CRF)
	}
	if c.Assembly.LoudnormI > 0 {
		return errors.New("assembly.loudnorm_i is a LUFS target and must not be positive")
	}
	return nil
}

func (c *Config) validateMusic() error {
	if c.Music.Volume < 0 || c.Music.Volume > 1 {
		return errors.New("music.volume must be between 0 and 1")
	}
	if c.Music.DialogueVolume < 0 {
		return errors.New("music.dialogue_volume must not be negative")
	}
	if c.Music.FadeIn < 0 || c.Music.FadeOut < 0 {
		return errors.New("music fade durations must not be negative")
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
