package config

const (
	defaultRootDir           = "~/fanki"
	defaultPackagesDir       = "~/fanki/packages"
	defaultTempDir           = "~/fanki/temp"
	defaultLogDir            = "~/.local/share/fanki/logs"
	defaultFFmpegBinary      = "ffmpeg"
	defaultImageQuality      = 80
	defaultVideoCRF          = 23
	defaultSpeechLanguage    = "fr"
	defaultSpeechProsodyRate = "slow"
	defaultSpeechEngine      = "neural"
	defaultSpeechRegion      = "us-east-1"
	defaultLogFormat         = "console"
	defaultLogLevel          = "info"
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			RootDir:     defaultRootDir,
			PackagesDir: defaultPackagesDir,
			TempDir:     defaultTempDir,
			LogDir:      defaultLogDir,
		},
		Media: Media{
			FFmpegBinary: defaultFFmpegBinary,
			ImageQuality: defaultImageQuality,
			VideoCRF:     defaultVideoCRF,
		},
		Speech: Speech{
			Enabled:     true,
			Language:    defaultSpeechLanguage,
			ProsodyRate: defaultSpeechProsodyRate,
			Engine:      defaultSpeechEngine,
			Region:      defaultSpeechRegion,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}
