package main

import (
	"log/slog"
	"os"

	"github.com/google/wire"

	"github.com/cyanprint/cyancore/internal/config"
	"github.com/cyanprint/cyancore/internal/coordinator"
	"github.com/cyanprint/cyancore/internal/executor"
	"github.com/cyanprint/cyancore/internal/orchestrator"
	"github.com/cyanprint/cyancore/internal/question"
	"github.com/cyanprint/cyancore/internal/registry"
	"github.com/cyanprint/cyancore/internal/vfs/merge"
)

// ProvideConfig loads process configuration, mirroring the teacher's own
// ProvideConfig.
func ProvideConfig() (*config.Config, error) {
	return config.Load()
}

// ProvideLogger builds the structured logger every constructor below
// threads through.
func ProvideLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelInfo}))
}

// ProvideRegistryClient builds the registry's HTTP-backed client.
func ProvideRegistryClient(cfg *config.Config) registry.Client {
	return registry.NewHTTPClient(cfg.Registry.BaseURL, cfg.Registry.APIKey)
}

// ProvideCoordinatorClient builds the coordinator's HTTP-backed client.
func ProvideCoordinatorClient(cfg *config.Config) *coordinator.Client {
	return coordinator.New(cfg.Coordinator.BaseURL, nil)
}

// ProvideExecutor wires the coordinator client and the interactive prompter
// into a TemplateExecutor.
func ProvideExecutor(client *coordinator.Client) *executor.TemplateExecutor {
	return executor.New(client, question.TUIPrompter{})
}

// ProvideMerger selects the default text merger. A GitMerger is available
// (merge.NewGitMerger) but is not the default: rename-aware merging costs an
// in-memory git tree build per file and most templates never rename paths.
func ProvideMerger(logger *slog.Logger) merge.Merger {
	return &merge.TextMerger{Logger: logger}
}

// ProvideOrchestrator assembles the top-level dispatcher.
func ProvideOrchestrator(
	reg registry.Client,
	coord *coordinator.Client,
	exec *executor.TemplateExecutor,
	merger merge.Merger,
	logger *slog.Logger,
) *orchestrator.Orchestrator {
	return orchestrator.New(reg, coord, exec, merger, logger)
}

// Wires collects every provider for wire to assemble.
var Wires = wire.NewSet(
	ProvideConfig,
	ProvideLogger,
	ProvideRegistryClient,
	ProvideCoordinatorClient,
	ProvideExecutor,
	ProvideMerger,
	ProvideOrchestrator,
)
