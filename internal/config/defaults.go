package config

const (
	defaultDataDir            = "~/.local/share/hawker"
	defaultLogDir             = "~/.local/share/hawker/logs"
	defaultStopPollIntervalMS = 200
	defaultStopPollAttempts   = 10
	defaultLogSnapshotLines   = 50
	defaultMarketBaseURL      = "https://api.dexscreener.com"
	defaultMarketTimeout      = 15
	defaultPricingCurrency    = "USD"
	defaultPricingBaseFee     = 1.0
	defaultLogLevel           = "info"
	defaultLogFormat          = "console"
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			DataDir: defaultDataDir,
			LogDir:  defaultLogDir,
		},
		Daemon: Daemon{
			StopPollInterval: defaultStopPollIntervalMS,
			StopPollAttempts: defaultStopPollAttempts,
			LogSnapshotLines: defaultLogSnapshotLines,
		},
		Market: Market{
			BaseURL:        defaultMarketBaseURL,
			RequestTimeout: defaultMarketTimeout,
		},
		Pricing: Pricing{
			Currency: defaultPricingCurrency,
			BaseFee:  defaultPricingBaseFee,
		},
		LogLevel:  defaultLogLevel,
		LogFormat: defaultLogFormat,
	}
}
