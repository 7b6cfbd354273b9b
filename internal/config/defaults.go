package config

const (
	defaultScratchDir         = "~/.local/share/reel/scratch"
	defaultLogDir             = "~/.local/share/reel/logs"
	defaultHistoryDBPath      = "~/.local/share/reel/history.db"
	defaultAPIBind            = "127.0.0.1:7519"
	defaultTelegramBaseURL    = "https://api.telegram.org"
	defaultPollTimeout        = 50
	defaultSizeLimitBytes     = 50 * 1024 * 1024
	defaultOperationTimeout   = 120
	defaultAudioBitrateKbps   = 192
	defaultYtDlpBinary        = "yt-dlp"
	defaultFFmpegBinary       = "ffmpeg"
	defaultNotifyTimeout      = 10
	defaultScratchMaxAgeHours = 24
	defaultLogFormat          = "console"
	defaultLogLevel           = "info"
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			ScratchDir:    defaultScratchDir,
			LogDir:        defaultLogDir,
			HistoryDBPath: defaultHistoryDBPath,
			APIBind:       defaultAPIBind,
		},
		Telegram: Telegram{
			BaseURL:     defaultTelegramBaseURL,
			PollTimeout: defaultPollTimeout,
		},
		Delivery: Delivery{
			SizeLimitBytes:   defaultSizeLimitBytes,
			OperationTimeout: defaultOperationTimeout,
			AudioBitrateKbps: defaultAudioBitrateKbps,
		},
		Tools: Tools{
			YtDlpBinary:  defaultYtDlpBinary,
			FFmpegBinary: defaultFFmpegBinary,
		},
		Notifications: Notifications{
			RequestTimeout: defaultNotifyTimeout,
			Deliveries:     true,
			Errors:         true,
		},
		Workflow: Workflow{
			ScratchMaxAgeHours: defaultScratchMaxAgeHours,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}
