package config

import (
	"errors"
	"fmt"
	"maps"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"

	"github.com/Elandig/tabscribe/internal/app/model"
)

// Settings is the complete persisted application configuration
type Settings struct {
	Transcription TranscriptionSettings `yaml:"transcription" json:"transcription"`
	Storage       StorageSettings       `yaml:"storage" json:"storage"`
	Server        ServerSettings        `yaml:"server" json:"server"`
	Log           LogSettings           `yaml:"log" json:"log"`
}

// TranscriptionSettings selects the provider and the default capture options
type TranscriptionSettings struct {
	Enabled   bool                        `yaml:"enabled" json:"enabled"`
	Provider  string                      `yaml:"provider" json:"provider" validate:"omitempty,oneof=assemblyai openai"`
	Capture   model.CaptureConfiguration  `yaml:"capture" json:"capture"`
	Providers map[string]ProviderSettings `yaml:"providers" json:"providers" validate:"dive"`

	PollIntervalSec int `yaml:"poll_interval_sec" json:"pollIntervalSec" validate:"gte=0,lte=300"`
	MaxPollAttempts int `yaml:"max_poll_attempts" json:"maxPollAttempts" validate:"gte=0,lte=10000"`
	TimeoutMinutes  int `yaml:"timeout_minutes" json:"timeoutMinutes" validate:"gte=0,lte=1440"`
}

// ProviderSettings holds one provider's credentials and endpoint
type ProviderSettings struct {
	APIKey      string `yaml:"api_key,omitempty" json:"apiKey,omitempty"`
	BaseURL     string `yaml:"base_url,omitempty" json:"baseUrl,omitempty" validate:"omitempty,url"`
	SpeechModel string `yaml:"speech_model,omitempty" json:"speechModel,omitempty"`
	TimeoutSec  int    `yaml:"timeout_sec,omitempty" json:"timeoutSec,omitempty" validate:"gte=0,lte=1800"`
}

// StorageSettings selects where recordings and media live
type StorageSettings struct {
	Driver      string        `yaml:"driver" json:"driver" validate:"oneof=sqlite postgres redis memory"`
	SQLitePath  string        `yaml:"sqlite_path,omitempty" json:"sqlitePath,omitempty"`
	PostgresDSN string        `yaml:"postgres_dsn,omitempty" json:"postgresDsn,omitempty"`
	RedisURL    string        `yaml:"redis_url,omitempty" json:"redisUrl,omitempty"`
	Media       MediaSettings `yaml:"media" json:"media"`
}

// MediaSettings selects the blob store for recording media
type MediaSettings struct {
	Driver string        `yaml:"driver" json:"driver" validate:"oneof=fs minio"`
	Dir    string        `yaml:"dir,omitempty" json:"dir,omitempty"`
	MinIO  MinIOSettings `yaml:"minio,omitempty" json:"minio,omitempty"`
}

// MinIOSettings configures the S3-compatible media store
type MinIOSettings struct {
	Endpoint  string `yaml:"endpoint,omitempty" json:"endpoint,omitempty"`
	AccessKey string `yaml:"access_key,omitempty" json:"accessKey,omitempty"`
	SecretKey string `yaml:"secret_key,omitempty" json:"secretKey,omitempty"`
	Bucket    string `yaml:"bucket,omitempty" json:"bucket,omitempty"`
	UseSSL    bool   `yaml:"use_ssl,omitempty" json:"useSsl,omitempty"`
}

// ServerSettings configures the local HTTP API
type ServerSettings struct {
	Host        string `yaml:"host" json:"host"`
	Port        string `yaml:"port" json:"port" validate:"required,numeric"`
	Environment string `yaml:"environment" json:"environment" validate:"omitempty,oneof=development production"`
}

// LogSettings configures zap
type LogSettings struct {
	Development bool   `yaml:"development" json:"development"`
	Level       string `yaml:"level" json:"level" validate:"omitempty,oneof=debug info warn error"`
}

// ProviderSettings returns the provider's settings merged over its defaults
func (t TranscriptionSettings) ProviderSettings(name string) ProviderSettings {
	ps := GetProviderDefaults(name)
	if configured, ok := t.Providers[name]; ok {
		if configured.APIKey != "" {
			ps.APIKey = configured.APIKey
		}
		if configured.BaseURL != "" {
			ps.BaseURL = configured.BaseURL
		}
		if configured.SpeechModel != "" {
			ps.SpeechModel = configured.SpeechModel
		}
		if configured.TimeoutSec > 0 {
			ps.TimeoutSec = configured.TimeoutSec
		}
	}
	ps.APIKey = os.ExpandEnv(ps.APIKey)
	ps.BaseURL = os.ExpandEnv(ps.BaseURL)
	return ps
}

// PollInterval returns the delay between status polls
func (t TranscriptionSettings) PollInterval() time.Duration {
	if t.PollIntervalSec <= 0 {
		return DefaultPollInterval
	}
	return time.Duration(t.PollIntervalSec) * time.Second
}

// PollAttempts returns the polling budget of one loop
func (t TranscriptionSettings) PollAttempts() int {
	if t.MaxPollAttempts <= 0 {
		return DefaultMaxPollAttempts
	}
	return t.MaxPollAttempts
}

// Timeout returns the wall-clock window after which an in-flight job is stale
func (t TranscriptionSettings) Timeout() time.Duration {
	if t.TimeoutMinutes <= 0 {
		return DefaultJobTimeout
	}
	return time.Duration(t.TimeoutMinutes) * time.Minute
}

// DefaultSettings returns settings for a fresh installation rooted at dataDir
func DefaultSettings(dataDir string) Settings {
	return Settings{
		Transcription: TranscriptionSettings{
			Enabled:  true,
			Provider: ProviderAssemblyAI,
			Capture: model.CaptureConfiguration{
				Language: model.LanguageAuto,
			},
			Providers: map[string]ProviderSettings{
				ProviderAssemblyAI: GetProviderDefaults(ProviderAssemblyAI),
				ProviderOpenAI:     GetProviderDefaults(ProviderOpenAI),
			},
		},
		Storage: StorageSettings{
			Driver:     "sqlite",
			SQLitePath: filepath.Join(dataDir, "recordings.db"),
			Media: MediaSettings{
				Driver: "fs",
				Dir:    filepath.Join(dataDir, "media"),
			},
		},
		Server: ServerSettings{
			Host:        DefaultHTTPHost,
			Port:        DefaultHTTPPort,
			Environment: "development",
		},
		Log: LogSettings{
			Level: "info",
		},
	}
}

// Clone returns a copy that shares no maps with s
func (s Settings) Clone() Settings {
	c := s
	c.Transcription.Providers = maps.Clone(s.Transcription.Providers)
	return c
}

var (
	validate     *validator.Validate
	validateOnce sync.Once
)

// Validate checks struct tags and the capture configuration rules
func (s Settings) Validate() error {
	validateOnce.Do(func() {
		validate = validator.New(validator.WithRequiredStructEnabled())
	})
	if err := validate.Struct(s); err != nil {
		return fmt.Errorf("invalid settings: %w", err)
	}
	return s.Transcription.Capture.Validate()
}

// Store defines persistence operations for settings
type Store interface {
	Load() (Settings, error)
	Save(Settings) error
}

// YAMLStore persists settings in a single YAML file on disk
type YAMLStore struct {
	path     string
	defaults Settings
}

// NewYAMLStore creates a YAML-backed settings store
func NewYAMLStore(path string, defaults Settings) *YAMLStore {
	return &YAMLStore{path: path, defaults: defaults}
}

// Path returns the settings file location
func (s *YAMLStore) Path() string {
	return s.path
}

// Load reads settings from disk or returns defaults when missing
func (s *YAMLStore) Load() (Settings, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return s.defaults.Clone(), nil
		}
		return Settings{}, fmt.Errorf("failed to read settings file: %w", err)
	}

	cfg := s.defaults.Clone()
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Settings{}, fmt.Errorf("failed to parse settings YAML: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Settings{}, err
	}
	return cfg, nil
}

// Save validates and writes settings, creating parent directories
func (s *YAMLStore) Save(cfg Settings) error {
	if err := cfg.Validate(); err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return fmt.Errorf("failed to create settings directory: %w", err)
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to marshal settings to YAML: %w", err)
	}
	return os.WriteFile(s.path, data, 0o600)
}

// GetDefaultDataDir returns the directory holding settings, database and media
func GetDefaultDataDir() string {
	if dir := os.Getenv("TABSCRIBE_HOME"); dir != "" {
		return dir
	}
	if homeDir, err := os.UserHomeDir(); err == nil {
		return filepath.Join(homeDir, ".tabscribe")
	}
	return "./data"
}

// GetDefaultSettingsPath returns the default settings file path
func GetDefaultSettingsPath() string {
	return filepath.Join(GetDefaultDataDir(), "settings.yaml")
}
