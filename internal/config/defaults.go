package config

// Defaults returns the configuration the bot runs with when no file or
// environment overrides are present (token excepted, which has no
// usable default).
func Defaults() *Config {
	return &Config{
		Telegram: TelegramConfig{},
		Download: DownloadConfig{
			Binary:               "yt-dlp",
			Retries:              10,
			SocketTimeoutSeconds: 1000,
			UserAgent:            "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/117.0.0.0 Safari/537.36",
			Referer:              "https://www.tiktok.com/",
		},
		Relay: RelayConfig{
			WorkRoot:           ".",
			SendTimeoutSeconds: 60,
			BusBuffer:          100,
		},
		Health: HealthConfig{
			Enabled: true,
			Host:    "0.0.0.0",
			Port:    8080,
		},
		Log: LogConfig{
			Level: "info",
		},
	}
}
