package config

import "time"

// Provider names
const (
	ProviderAssemblyAI = "assemblyai"
	ProviderOpenAI     = "openai"
)

// Provider default configuration constants
const (
	// Endpoints
	DefaultAssemblyAIBaseURL = "https://api.assemblyai.com"
	DefaultOpenAIBaseURL     = "https://api.openai.com/v1"

	// Models
	DefaultAssemblyAISpeechModel = "best"
	DefaultOpenAIModel           = "whisper-1"

	// Timeout defaults
	DefaultAssemblyAITimeout = 120 * time.Second
	DefaultOpenAITimeout     = 300 * time.Second

	// Job lifecycle defaults
	DefaultPollInterval    = 5 * time.Second
	DefaultMaxPollAttempts = 120
	DefaultJobTimeout      = 10 * time.Minute

	// Network defaults
	DefaultHTTPHost = "127.0.0.1"
	DefaultHTTPPort = "8787"
)

// GetProviderDefaults returns default configuration for a given provider
func GetProviderDefaults(name string) ProviderSettings {
	switch name {
	case ProviderAssemblyAI:
		return ProviderSettings{
			APIKey:      "${ASSEMBLYAI_API_KEY}",
			BaseURL:     DefaultAssemblyAIBaseURL,
			SpeechModel: DefaultAssemblyAISpeechModel,
			TimeoutSec:  int(DefaultAssemblyAITimeout / time.Second),
		}
	case ProviderOpenAI:
		return ProviderSettings{
			APIKey:      "${OPENAI_API_KEY}",
			BaseURL:     DefaultOpenAIBaseURL,
			SpeechModel: DefaultOpenAIModel,
			TimeoutSec:  int(DefaultOpenAITimeout / time.Second),
		}
	default:
		return ProviderSettings{}
	}
}
