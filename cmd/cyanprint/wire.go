//go:build wireinject

package main

import (
	"github.com/google/wire"

	"github.com/cyanprint/cyancore/internal/orchestrator"
)

// InitOrchestrator assembles the full provider graph. wire_gen.go is this
// function's hand-maintained output, since wire's code generator is not run
// as part of this build.
func InitOrchestrator() (*orchestrator.Orchestrator, error) {
	panic(wire.Build(Wires))
}
