package di

import (
	domrepo "SignalBench/internal/domain/repository"
	"SignalBench/internal/usecase"
	pkgkafka "SignalBench/pkg/kafka"
	applogger "SignalBench/pkg/logger"
)

// App bundles the wired run surfaces of the CLI.
type App struct {
	Logger     *applogger.Logger
	Store      domrepo.SignalStore
	Simulation *usecase.SimulationRunner
	Scan       *usecase.ScanRunner
}

// IngestApp bundles the wired ingest surface. Consumer is nil unless Kafka
// brokers are configured.
type IngestApp struct {
	Logger   *applogger.Logger
	Runner   *usecase.IngestRunner
	Consumer *pkgkafka.Consumer
}

func newApp(l *applogger.Logger, store domrepo.SignalStore, simulation *usecase.SimulationRunner, scan *usecase.ScanRunner) *App {
	return &App{Logger: l, Store: store, Simulation: simulation, Scan: scan}
}

func newIngestApp(l *applogger.Logger, runner *usecase.IngestRunner, consumer *pkgkafka.Consumer) *IngestApp {
	return &IngestApp{Logger: l, Runner: runner, Consumer: consumer}
}
