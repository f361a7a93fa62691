//go:build wireinject
// +build wireinject

package app

import (
	"github.com/google/wire"

	"github.com/Elandig/tabscribe/internal/app/api/provider"
	"github.com/Elandig/tabscribe/internal/app/jobs"
)

var storeSet = wire.NewSet(
	NewSettingsStore,
	provideSettingsLoader,
	provideSettings,
	provideLogger,
	provideRecordingStore,
	provideMediaStore,
)

var jobSet = wire.NewSet(
	provideMetrics,
	provideResolver,
	wire.Bind(new(jobs.AdapterResolver), new(*provider.Resolver)),
	provideEventBus,
	provideManager,
	provideImporter,
)

// InitializeApplication builds every component from the settings file at path
func InitializeApplication(path SettingsPath) (*Application, func(), error) {
	wire.Build(storeSet, jobSet, NewApplication)
	return &Application{}, nil, nil
}
