package config

import (
	"errors"
	"fmt"
	"strings"
)

// Validate ensures the configuration is usable. The Gemini API key is
// deliberately not checked here: cleanup runs and config inspection work
// without one, so the run command enforces it instead.
func (c *Config) Validate() error {
	if err := c.validateGemini(); err != nil {
		return err
	}
	if err := c.validateLibrary(); err != nil {
		return err
	}
	if err := c.validatePacing(); err != nil {
		return err
	}
	return nil
}

func (c *Config) validateGemini() error {
	if strings.TrimSpace(c.Gemini.Model) == "" {
		return errors.New("gemini.model must be set")
	}
	if c.Gemini.TimeoutSeconds <= 0 {
		return errors.New("gemini.timeout_seconds must be positive")
	}
	if c.Gemini.MaxAttempts <= 0 {
		return errors.New("gemini.max_attempts must be positive")
	}
	return nil
}

func (c *Config) validateLibrary() error {
	if c.Library.OutputSuffix == "" {
		return errors.New("library.output_suffix must be set")
	}
	if !strings.HasPrefix(c.Library.Extension, ".") {
		return fmt.Errorf("library.extension must start with a dot, got %q", c.Library.Extension)
	}
	return nil
}

func (c *Config) validatePacing() error {
	if c.Pacing.CooldownMinSeconds < 0 {
		return errors.New("pacing.cooldown_min_seconds must be >= 0")
	}
	if c.Pacing.CooldownMaxSeconds < c.Pacing.CooldownMinSeconds {
		return errors.New("pacing.cooldown_max_seconds must be >= pacing.cooldown_min_seconds")
	}
	return nil
}
