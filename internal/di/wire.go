//go:build wireinject
// +build wireinject

package di

import (
	"SignalRelay/pkg/config"
	"SignalRelay/pkg/server"

	"github.com/google/wire"
)

// InitializeApp wires up all dependencies and returns the application.
// Wire will generate the implementation of this function.
func InitializeApp(cfg *config.Config) (*server.App, error) {
	wire.Build(
		ProvideLogger,
		ProvideMetrics,

		// Shared state + collaborators
		ProvideDeduper,
		ProvideLastSignalStore,
		ProvideTransport,
		ProvidePublisher,
		ProvideAdvisor,

		// Use cases
		ProvideIngestor,
		ProvideDispatcher,

		// Gateway + application server
		ProvideHandler,
		ProvideApp,
	)
	return &server.App{}, nil
}
