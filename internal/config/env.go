package config

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/joho/godotenv"
)

// APIKeys holds all API keys loaded from environment
type APIKeys struct {
	AssemblyAI string
	OpenAI     string
}

// LoadEnv loads environment variables from the first .env file found.
// Missing files are not an error: variables may be set system-wide.
func LoadEnv(paths ...string) (string, error) {
	if len(paths) == 0 {
		paths = []string{
			".env",
			".env.local",
			"../.env",
		}
	}

	for _, envPath := range paths {
		if _, err := os.Stat(envPath); err == nil {
			if err := godotenv.Load(envPath); err != nil {
				return "", fmt.Errorf("error loading %s file: %w", envPath, err)
			}
			return envPath, nil
		}
	}
	return "", nil
}

// GetAPIKeys retrieves and validates API keys from environment variables
func GetAPIKeys() (*APIKeys, error) {
	apiKeys := &APIKeys{
		AssemblyAI: strings.TrimSpace(os.Getenv("ASSEMBLYAI_API_KEY")),
		OpenAI:     strings.TrimSpace(os.Getenv("OPENAI_API_KEY")),
	}

	if apiKeys.AssemblyAI != "" {
		if err := ValidateAPIKey(ProviderAssemblyAI, apiKeys.AssemblyAI); err != nil {
			return nil, err
		}
	}
	if apiKeys.OpenAI != "" {
		if err := ValidateAPIKey(ProviderOpenAI, apiKeys.OpenAI); err != nil {
			return nil, err
		}
	}

	return apiKeys, nil
}

// Available lists the providers that have a key
func (k *APIKeys) Available() []string {
	var available []string
	if k.AssemblyAI != "" {
		available = append(available, ProviderAssemblyAI)
	}
	if k.OpenAI != "" {
		available = append(available, ProviderOpenAI)
	}
	return available
}

// InitializeConfig loads the environment and reports which providers have keys.
// Missing keys only produce a notice: transcription stays unavailable until one is set.
func InitializeConfig(out io.Writer) (*APIKeys, error) {
	if _, err := LoadEnv(); err != nil {
		return nil, fmt.Errorf("failed to load environment: %w", err)
	}

	apiKeys, err := GetAPIKeys()
	if err != nil {
		return nil, fmt.Errorf("failed to get API keys: %w", err)
	}

	if out != nil {
		if available := apiKeys.Available(); len(available) > 0 {
			fmt.Fprintf(out, "API keys available: %s\n", strings.Join(available, ", "))
		} else {
			fmt.Fprintln(out, "No provider API keys configured (transcription will be unavailable)")
		}
	}

	return apiKeys, nil
}
