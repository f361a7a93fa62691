package app

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/Elandig/tabscribe/internal/app/api/provider"
	"github.com/Elandig/tabscribe/internal/app/audio"
	"github.com/Elandig/tabscribe/internal/app/common"
	"github.com/Elandig/tabscribe/internal/app/converter"
	"github.com/Elandig/tabscribe/internal/app/errors"
	"github.com/Elandig/tabscribe/internal/app/jobs"
	"github.com/Elandig/tabscribe/internal/app/metrics"
	"github.com/Elandig/tabscribe/internal/app/repository"
	"github.com/Elandig/tabscribe/internal/app/repository/memory"
	"github.com/Elandig/tabscribe/internal/app/repository/pg"
	"github.com/Elandig/tabscribe/internal/app/repository/redis"
	"github.com/Elandig/tabscribe/internal/app/repository/sqlite"
	"github.com/Elandig/tabscribe/internal/app/storage"
	"github.com/Elandig/tabscribe/internal/config"

	// Import adapters to register them
	_ "github.com/Elandig/tabscribe/internal/app/api/assemblyai"
	_ "github.com/Elandig/tabscribe/internal/app/api/openai/whisper"
)

// SettingsPath is the location of the YAML settings file
type SettingsPath string

// Application holds the long-lived components shared by the CLI and the HTTP API
type Application struct {
	SettingsStore *config.YAMLStore
	// SettingsLoader reads the settings file with environment overrides applied
	SettingsLoader jobs.SettingsLoader
	Settings       config.Settings
	Logger         *zap.Logger
	Store          repository.RecordingStore
	Media          storage.MediaStore
	Metrics        *metrics.Metrics
	Manager        *jobs.Manager
	Importer       *converter.Importer
}

// NewApplication bundles the components
func NewApplication(
	settingsStore *config.YAMLStore,
	loader jobs.SettingsLoader,
	settings config.Settings,
	logger *zap.Logger,
	store repository.RecordingStore,
	media storage.MediaStore,
	m *metrics.Metrics,
	manager *jobs.Manager,
	importer *converter.Importer,
) *Application {
	return &Application{
		SettingsStore:  settingsStore,
		SettingsLoader: loader,
		Settings:       settings,
		Logger:         logger,
		Store:          store,
		Media:          media,
		Metrics:        m,
		Manager:        manager,
		Importer:       importer,
	}
}

// NewSettingsStore opens the settings file at path, or the default location when path is empty
func NewSettingsStore(path SettingsPath) *config.YAMLStore {
	p := string(path)
	if p == "" {
		p = config.GetDefaultSettingsPath()
	}
	return config.NewYAMLStore(p, config.DefaultSettings(config.GetDefaultDataDir()))
}

func provideSettingsLoader(store *config.YAMLStore) jobs.SettingsLoader {
	return config.EnvOverlay{Store: store}
}

func provideSettings(loader jobs.SettingsLoader) (config.Settings, error) {
	return loader.Load()
}

func provideLogger(settings config.Settings) (*zap.Logger, func(), error) {
	logger, err := common.NewLogger(settings.Log.Development, settings.Log.Level)
	if err != nil {
		return nil, nil, err
	}
	return logger, func() { _ = logger.Sync() }, nil
}

func provideRecordingStore(settings config.Settings, logger *zap.Logger) (repository.RecordingStore, func(), error) {
	store, err := OpenRecordingStore(context.Background(), settings.Storage)
	if err != nil {
		return nil, nil, err
	}
	logger.Debug("recording store opened", zap.String("driver", settings.Storage.Driver))
	cleanup := func() {
		if err := store.Close(); err != nil {
			logger.Warn("failed to close recording store", zap.Error(err))
		}
	}
	return store, cleanup, nil
}

// OpenRecordingStore opens the store selected by the storage settings
func OpenRecordingStore(ctx context.Context, s config.StorageSettings) (repository.RecordingStore, error) {
	switch s.Driver {
	case "", "sqlite":
		db, err := sqlite.NewSQLiteDB(s.SQLitePath)
		if err != nil {
			return nil, err
		}
		return db, nil
	case "postgres":
		db, err := pg.NewPostgresDB(s.PostgresDSN)
		if err != nil {
			return nil, errors.Wrap(err, "open postgres")
		}
		if err := db.Migrate(ctx); err != nil {
			db.Close()
			return nil, err
		}
		return db, nil
	case "redis":
		store, err := redis.New(s.RedisURL)
		if err != nil {
			return nil, err
		}
		if err := store.Ping(ctx); err != nil {
			store.Close()
			return nil, errors.Wrap(err, "ping redis")
		}
		return store, nil
	case "memory":
		return memory.New(), nil
	default:
		return nil, errors.Wrapf(errors.ErrInvalidConfig, "unknown storage driver %q", s.Driver)
	}
}

func provideMediaStore(settings config.Settings) (storage.MediaStore, error) {
	media := settings.Storage.Media
	switch media.Driver {
	case "", "fs":
		local, err := storage.NewLocalStore(media.Dir)
		if err != nil {
			return nil, err
		}
		return local, nil
	case "minio":
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		remote, err := storage.NewMinioStore(ctx, storage.MinioConfig{
			Endpoint:  media.MinIO.Endpoint,
			AccessKey: media.MinIO.AccessKey,
			SecretKey: media.MinIO.SecretKey,
			Bucket:    media.MinIO.Bucket,
			UseSSL:    media.MinIO.UseSSL,
		})
		if err != nil {
			return nil, err
		}
		return remote, nil
	default:
		return nil, errors.Wrapf(errors.ErrInvalidConfig, "unknown media driver %q", media.Driver)
	}
}

func provideMetrics() *metrics.Metrics {
	return metrics.New()
}

func provideResolver() *provider.Resolver {
	return provider.NewResolver(provider.DefaultRegistry())
}

func provideEventBus() *jobs.EventBus {
	return jobs.NewEventBus(0)
}

func provideManager(
	store repository.RecordingStore,
	media storage.MediaStore,
	resolver jobs.AdapterResolver,
	loader jobs.SettingsLoader,
	settings config.Settings,
	logger *zap.Logger,
	m *metrics.Metrics,
	events *jobs.EventBus,
) (*jobs.Manager, func()) {
	t := settings.Transcription
	manager := jobs.NewManager(store, media, resolver, loader,
		jobs.WithLogger(logger.Named("jobs")),
		jobs.WithMetrics(m),
		jobs.WithEvents(events),
		jobs.WithPollInterval(t.PollInterval()),
		jobs.WithMaxPollAttempts(t.PollAttempts()),
		jobs.WithTimeout(t.Timeout()),
	)
	return manager, manager.Close
}

func provideImporter(store repository.RecordingStore, media storage.MediaStore, logger *zap.Logger) *converter.Importer {
	return converter.NewImporter(store, media, audio.NewProber(), logger.Named("import"))
}
