package config

import (
	"fmt"
	"os"
	"strings"
)

func (c *Config) normalize() error {
	if err := c.normalizePaths(); err != nil {
		return err
	}
	c.normalizeMedia()
	if err := c.normalizeSpeech(); err != nil {
		return err
	}
	c.normalizeLogging()
	return nil
}

func (c *Config) normalizePaths() error {
	if value, ok := os.LookupEnv("FANKI_ROOT"); ok && strings.TrimSpace(value) != "" {
		c.Paths.RootDir = strings.TrimSpace(value)
	}
	var err error
	if strings.TrimSpace(c.Paths.RootDir) == "" {
		c.Paths.RootDir = defaultRootDir
	}
	if c.Paths.RootDir, err = expandPath(c.Paths.RootDir); err != nil {
		return fmt.Errorf("paths.root_dir: %w", err)
	}
	if strings.TrimSpace(c.Paths.PackagesDir) == "" {
		c.Paths.PackagesDir = defaultPackagesDir
	}
	if c.Paths.PackagesDir, err = expandPath(c.Paths.PackagesDir); err != nil {
		return fmt.Errorf("paths.packages_dir: %w", err)
	}
	if strings.TrimSpace(c.Paths.TempDir) == "" {
		c.Paths.TempDir = defaultTempDir
	}
	if c.Paths.TempDir, err = expandPath(c.Paths.TempDir); err != nil {
		return fmt.Errorf("paths.temp_dir: %w", err)
	}
	if c.Paths.LogDir, err = expandPath(c.Paths.LogDir); err != nil {
		return fmt.Errorf("paths.log_dir: %w", err)
	}
	return nil
}

func (c *Config) normalizeMedia() {
	c.Media.FFmpegBinary = strings.TrimSpace(c.Media.FFmpegBinary)
	if value, ok := os.LookupEnv("FANKI_FFMPEG"); ok && strings.TrimSpace(value) != "" {
		c.Media.FFmpegBinary = strings.TrimSpace(value)
	}
	if c.Media.FFmpegBinary == "" {
		c.Media.FFmpegBinary = defaultFFmpegBinary
	}
	if c.Media.TimeoutSeconds < 0 {
		c.Media.TimeoutSeconds = 0
	}
	if c.Media.ImageQuality == 0 {
		c.Media.ImageQuality = defaultImageQuality
	}
	if c.Media.VideoCRF == 0 {
		c.Media.VideoCRF = defaultVideoCRF
	}
}

func (c *Config) normalizeSpeech() error {
	c.Speech.Language = strings.ToLower(strings.TrimSpace(c.Speech.Language))
	if c.Speech.Language == "" {
		c.Speech.Language = defaultSpeechLanguage
	}
	c.Speech.ProsodyRate = strings.ToLower(strings.TrimSpace(c.Speech.ProsodyRate))
	c.Speech.Engine = strings.ToLower(strings.TrimSpace(c.Speech.Engine))
	if c.Speech.Engine == "" {
		c.Speech.Engine = defaultSpeechEngine
	}
	c.Speech.Profile = strings.TrimSpace(c.Speech.Profile)
	if c.Speech.Profile == "" {
		if value, ok := os.LookupEnv("AWS_PROFILE"); ok {
			c.Speech.Profile = strings.TrimSpace(value)
		}
	}
	c.Speech.Region = strings.TrimSpace(c.Speech.Region)
	if value, ok := os.LookupEnv("AWS_REGION"); ok && strings.TrimSpace(value) != "" {
		c.Speech.Region = strings.TrimSpace(value)
	} else if value, ok := os.LookupEnv("AWS_DEFAULT_REGION"); ok && strings.TrimSpace(value) != "" {
		c.Speech.Region = strings.TrimSpace(value)
	}
	if c.Speech.Region == "" {
		c.Speech.Region = defaultSpeechRegion
	}
	c.Speech.AccessKeyID = strings.TrimSpace(c.Speech.AccessKeyID)
	c.Speech.SecretAccessKey = strings.TrimSpace(c.Speech.SecretAccessKey)

	c.Speech.CacheDir = strings.TrimSpace(c.Speech.CacheDir)
	if c.Speech.CacheDir != "" {
		var err error
		if c.Speech.CacheDir, err = expandPath(c.Speech.CacheDir); err != nil {
			return fmt.Errorf("speech.cache_dir: %w", err)
		}
	}
	return nil
}

func (c *Config) normalizeLogging() {
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	switch c.Logging.Format {
	case "", "console":
		c.Logging.Format = "console"
	case "json":
	default:
		c.Logging.Format = "console"
	}
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}
}
