//go:build wireinject
// +build wireinject

package di

import (
	"SignalBench/pkg/config"

	"github.com/google/wire"
)

// InitializeApp wires the simulate/scan surface. Wire generates the
// implementation.
func InitializeApp(cfg *config.Config) (*App, func(), error) {
	wire.Build(
		ProvideLogger,
		ProvideSignalStore,
		ProvideSimulationRunner,
		ProvideScanRunner,
		newApp,
	)
	return &App{}, nil, nil
}

// InitializeIngest wires the ingest surface.
func InitializeIngest(cfg *config.Config) (*IngestApp, func(), error) {
	wire.Build(
		ProvideLogger,
		ProvideSignalWriter,
		ProvideSignalPublisher,
		ProvideKafkaConsumer,
		ProvideIngestRunner,
		newIngestApp,
	)
	return &IngestApp{}, nil, nil
}
