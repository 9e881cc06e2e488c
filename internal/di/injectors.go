//go:build wireinject
// +build wireinject

package di

import (
	wire "github.com/google/wire"
	"tad/internal"
	"tad/internal/clients"
	"tad/internal/controllers"
	"tad/internal/providers"
	"tad/internal/store"
	"tad/internal/structures"
	"tad/internal/trend"
)

func InitApp(cfg *structures.CliFlags) (*internal.App, error) {

	wire.Build(
		providers.NewConfigProvider,
		providers.NewLogProvider,
		trend.NewRunGuard,
		providers.NewMetricsProvider,
		providers.NewInstrumentedCacheProvider,

		store.NewZstdCompressor,
		store.NewSnapshotStore,
		clients.NewCollector,
		clients.NewAnalyzer,
		clients.NewNotifier,
		trend.NewOrchestrator,
		trend.NewTriggerManager,
		controllers.NewStatusController,
		controllers.NewTriggerController,
		controllers.NewHealthController,
		internal.InitRoutes,
		internal.NewApp,
	)

	return nil, nil
}
