package config

import (
	"os"
	"strings"
)

// ApplyEnvOverrides overlays connection settings taken from the environment.
// Provider base URLs are validated because they come straight from the shell.
func ApplyEnvOverrides(s *Settings) error {
	s.Server.Host = getEnvOrDefault("TABSCRIBE_HTTP_HOST", s.Server.Host)
	s.Server.Port = getEnvOrDefault("TABSCRIBE_HTTP_PORT", s.Server.Port)

	s.Log.Level = getEnvOrDefault("TABSCRIBE_LOG_LEVEL", s.Log.Level)

	s.Storage.Driver = getEnvOrDefault("TABSCRIBE_STORAGE_DRIVER", s.Storage.Driver)
	s.Storage.PostgresDSN = getEnvOrDefault("DATABASE_URL", s.Storage.PostgresDSN)
	s.Storage.RedisURL = getEnvOrDefault("REDIS_URL", s.Storage.RedisURL)

	s.Storage.Media.MinIO.Endpoint = getEnvOrDefault("MINIO_ENDPOINT", s.Storage.Media.MinIO.Endpoint)
	s.Storage.Media.MinIO.AccessKey = getEnvOrDefault("MINIO_ACCESS_KEY", s.Storage.Media.MinIO.AccessKey)
	s.Storage.Media.MinIO.SecretKey = getEnvOrDefault("MINIO_SECRET_KEY", s.Storage.Media.MinIO.SecretKey)
	s.Storage.Media.MinIO.Bucket = getEnvOrDefault("MINIO_BUCKET", s.Storage.Media.MinIO.Bucket)
	if v := os.Getenv("MINIO_USE_SSL"); v != "" {
		s.Storage.Media.MinIO.UseSSL = v == "true"
	}

	for _, name := range []string{ProviderAssemblyAI, ProviderOpenAI} {
		baseURL := os.Getenv(strings.ToUpper(name) + "_BASE_URL")
		if baseURL == "" {
			continue
		}
		if err := ValidateURL(baseURL, name); err != nil {
			return err
		}
		if s.Transcription.Providers == nil {
			s.Transcription.Providers = make(map[string]ProviderSettings)
		}
		ps := s.Transcription.Providers[name]
		ps.BaseURL = baseURL
		s.Transcription.Providers[name] = ps
	}
	return nil
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// EnvOverlay wraps a Store so that every Load applies ApplyEnvOverrides
type EnvOverlay struct {
	Store
}

// Load reads the stored settings and overlays the environment
func (e EnvOverlay) Load() (Settings, error) {
	s, err := e.Store.Load()
	if err != nil {
		return Settings{}, err
	}
	if err := ApplyEnvOverrides(&s); err != nil {
		return Settings{}, err
	}
	return s, nil
}
