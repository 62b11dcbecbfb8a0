package config

const (
	defaultDataDir              = "~/.local/share/claw"
	defaultLogDir               = "~/.local/share/claw/logs"
	defaultAPIBind              = "127.0.0.1:7787"
	defaultLogFormat            = "auto"
	defaultLogLevel             = "info"
	defaultProcessDelaySeconds  = 2
	defaultStaleAfterMinutes    = 30
	defaultShutdownGraceSeconds = 10
	defaultWriterTimeoutSeconds = 180
	defaultWriterRetryAttempts  = 3
	defaultCreditTier           = "standard"
	defaultCreditIncluded       = 10
	defaultTokenTTLHours        = 720
	defaultOwner                = "default"
	defaultRateLimitPerMinute   = 100
	defaultNotifyTimeoutSeconds = 10
)

// TierExempt is the owner class not subject to credit metering.
const TierExempt = "exempt"

// TierStandard is the metered owner class.
const TierStandard = "standard"

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			DataDir: defaultDataDir,
			LogDir:  defaultLogDir,
			APIBind: defaultAPIBind,
		},
		Engine: Engine{
			ProcessDelaySeconds:  defaultProcessDelaySeconds,
			StaleAfterMinutes:    defaultStaleAfterMinutes,
			ShutdownGraceSeconds: defaultShutdownGraceSeconds,
		},
		Writer: Writer{
			TimeoutSeconds:   defaultWriterTimeoutSeconds,
			RetryMaxAttempts: defaultWriterRetryAttempts,
		},
		Credits: Credits{
			DefaultTier:     defaultCreditTier,
			DefaultIncluded: defaultCreditIncluded,
		},
		Auth: Auth{
			TokenTTLHours: defaultTokenTTLHours,
			DefaultOwner:  defaultOwner,
		},
		Server: Server{
			RateLimitPerMinute: defaultRateLimitPerMinute,
		},
		Notifications: Notifications{
			RequestTimeout: defaultNotifyTimeoutSeconds,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}
