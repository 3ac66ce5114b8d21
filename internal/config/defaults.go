package config

const (
	defaultGeminiBaseURL        = "https://generativelanguage.googleapis.com/v1beta"
	defaultGeminiModel          = "gemini-2.5-flash"
	defaultGeminiTimeoutSeconds = 400
	defaultGeminiMaxAttempts    = 3
	defaultOutputSuffix         = "_telugu"
	defaultExtension            = ".srt"
	defaultFileDelaySeconds     = 1
	defaultCooldownMinSeconds   = 2
	defaultCooldownMaxSeconds   = 7
	defaultLogFormat            = "console"
	defaultLogLevel             = "info"
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Gemini: Gemini{
			BaseURL:        defaultGeminiBaseURL,
			Model:          defaultGeminiModel,
			TimeoutSeconds: defaultGeminiTimeoutSeconds,
			MaxAttempts:    defaultGeminiMaxAttempts,
		},
		Library: Library{
			OutputSuffix: defaultOutputSuffix,
			Extension:    defaultExtension,
		},
		Pacing: Pacing{
			FileDelaySeconds:   defaultFileDelaySeconds,
			CooldownMinSeconds: defaultCooldownMinSeconds,
			CooldownMaxSeconds: defaultCooldownMaxSeconds,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}
