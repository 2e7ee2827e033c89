package config

const (
	defaultLogDir        = "~/.local/share/srtforge/logs"
	defaultStateDir      = "~/.local/share/srtforge/state"
	defaultBinary        = "whisper"
	defaultFFmpegBinary  = "ffmpeg"
	defaultProfile       = "fast"
	defaultSettleSeconds = 5
	defaultLogFormat     = "console"
	defaultLogLevel      = "info"
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			LogDir:   defaultLogDir,
			StateDir: defaultStateDir,
		},
		Transcriber: Transcriber{
			Binary:       defaultBinary,
			FFmpegBinary: defaultFFmpegBinary,
			Profile:      defaultProfile,
		},
		Watch: Watch{
			SettleSeconds: defaultSettleSeconds,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}
