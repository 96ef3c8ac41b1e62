package config

import (
	"errors"
	"fmt"
	"strings"
)

var (
	prosodyRates  = []string{"x-slow", "slow", "medium", "fast", "x-fast"}
	speechEngines = []string{"standard", "neural", "long-form", "generative"}
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validatePaths(); err != nil {
		return err
	}
	if err := c.validateMedia(); err != nil {
		return err
	}
	if err := c.validateSpeech(); err != nil {
		return err
	}
	return nil
}

func (c *Config) validatePaths() error {
	if strings.TrimSpace(c.Paths.RootDir) == "" {
		return errors.New("paths.root_dir must be set")
	}
	if strings.TrimSpace(c.Paths.PackagesDir) == "" {
		return errors.New("paths.packages_dir must be set")
	}
	if strings.TrimSpace(c.Paths.TempDir) == "" {
		return errors.New("paths.temp_dir must be set")
	}
	if c.Paths.PackagesDir == c.Paths.TempDir {
		return errors.New("paths.packages_dir and paths.temp_dir must differ")
	}
	return nil
}

func (c *Config) validateMedia() error {
	if c.Media.ImageQuality < 1 || c.Media.ImageQuality > 100 {
		return errors.New("media.image_quality must be between 1 and 100")
	}
	if c.Media.VideoCRF < 0 || c.Media.VideoCRF > 51 {
		return errors.New("media.video_crf must be between 0 and 51")
	}
	return nil
}

func (c *Config) validateSpeech() error {
	if !c.Speech.Enabled {
		return nil
	}
	if c.Speech.ProsodyRate != "" && !contains(prosodyRates, c.Speech.ProsodyRate) {
		return fmt.Errorf("speech.prosody_rate must be one of %s (or empty)", strings.Join(prosodyRates, ", "))
	}
	if !contains(speechEngines, c.Speech.Engine) {
		return fmt.Errorf("speech.engine must be one of %s", strings.Join(speechEngines, ", "))
	}
	if (c.Speech.AccessKeyID == "") != (c.Speech.SecretAccessKey == "") {
		return errors.New("speech.access_key_id and speech.secret_access_key must be set together")
	}
	return nil
}

func contains(values []string, target string) bool {
	for _, value := range values {
		if value == target {
			return true
		}
	}
	return false
}
