// Package orchestrator wires the classifier, resolver, composition
// operator, merger, writer, and state store into the three top-level
// entry points spec §4.10 describes: create_new, rerun, and upgrade.
package orchestrator

import (
	"context"
	"log/slog"
	"time"

	"github.com/cyanprint/cyancore/internal/compose"
	"github.com/cyanprint/cyancore/internal/coordinator"
	"github.com/cyanprint/cyancore/internal/executor"
	"github.com/cyanprint/cyancore/internal/registry"
	"github.com/cyanprint/cyancore/internal/state"
	"github.com/cyanprint/cyancore/internal/vfs"
	"github.com/cyanprint/cyancore/internal/vfs/merge"
)

// Orchestrator is the top-level dispatcher.
type Orchestrator struct {
	Registry    registry.Client
	Coordinator *coordinator.Client
	Executor    *executor.TemplateExecutor
	Merger      merge.Merger
	Logger      *slog.Logger
}

// New builds an Orchestrator.
func New(reg registry.Client, coord *coordinator.Client, exec *executor.TemplateExecutor, merger merge.Merger, logger *slog.Logger) *Orchestrator {
	return &Orchestrator{Registry: reg, Coordinator: coord, Executor: exec, Merger: merger, Logger: logger}
}

// Apply resolves ref against targetDir's project history, classifies the
// invocation, and dispatches to createNew or rerunOrUpgrade. Every session id
// collected along the way is cleaned on every exit path, success or error.
func (o *Orchestrator) Apply(ctx context.Context, ref registry.Ref, targetDir string) error {
	currentRoot, err := o.Registry.GetBySlug(ctx, ref.Username, ref.TemplateName, ref.Version)
	if err != nil {
		return err
	}

	ps, err := state.Load(targetDir)
	if err != nil {
		return err
	}

	classification := state.Classify(ps, currentRoot.Username, currentRoot.TemplateName, currentRoot.Principal.Version)

	var sessionIDs []string
	defer func() { o.cleanupSessions(context.Background(), sessionIDs) }()

	switch classification.Kind {
	case state.NewTemplate:
		return o.createNew(ctx, currentRoot, targetDir, ps, &sessionIDs)
	case state.RerunTemplate:
		return o.rerunOrUpgrade(ctx, currentRoot, classification, targetDir, ps, true, &sessionIDs)
	default:
		return o.rerunOrUpgrade(ctx, currentRoot, classification, targetDir, ps, false, &sessionIDs)
	}
}

// createNew materializes root into an empty target layout: base is empty,
// incoming is the fresh composition's output, local is read in path-list
// mode over exactly the paths the composition produced.
func (o *Orchestrator) createNew(ctx context.Context, root *registry.TemplateVersion, targetDir string, ps state.ProjectState, sessionIDs *[]string) error {
	resolved, err := registry.ResolveDependencies(ctx, o.Registry, root)
	if err != nil {
		return err
	}

	op := compose.NewOperator(o.Executor)
	result, err := op.Run(ctx, resolved, compose.NewState())
	*sessionIDs = append(*sessionIDs, result.SessionIDs...)
	if err != nil {
		return err
	}

	incoming := result.LayeredVFS
	base := vfs.New()
	local, err := vfs.LoadPaths(targetDir, incoming.Paths())
	if err != nil {
		return err
	}

	merged, _, err := o.Merger.Merge(base, local, incoming)
	if err != nil {
		return err
	}
	if err := vfs.Write(targetDir, merged); err != nil {
		return err
	}

	return appendAndSave(targetDir, ps, root, result.State)
}

// rerunOrUpgrade resolves two compositions: previous (seeded from persisted
// answers/state, run against the previously recorded version) and current
// (the live root). Rerun starts the current side fresh so the user is
// re-prompted; upgrade reuses the persisted answers as the current side's
// starting point.
func (o *Orchestrator) rerunOrUpgrade(
	ctx context.Context,
	currentRoot *registry.TemplateVersion,
	classification state.Classification,
	targetDir string,
	ps state.ProjectState,
	isRerun bool,
	sessionIDs *[]string,
) error {
	previousVersion := classification.PreviousVersion
	previousRoot, err := o.Registry.GetBySlug(ctx, currentRoot.Username, currentRoot.TemplateName, &previousVersion)
	if err != nil {
		return err
	}

	previousResolved, err := registry.ResolveDependencies(ctx, o.Registry, previousRoot)
	if err != nil {
		return err
	}
	previousOp := compose.NewOperator(o.Executor)
	previousResult, err := previousOp.Run(ctx, previousResolved, compose.NewStateFrom(classification.PreviousAnswers, classification.PreviousStates))
	*sessionIDs = append(*sessionIDs, previousResult.SessionIDs...)
	if err != nil {
		return err
	}

	currentResolved, err := registry.ResolveDependencies(ctx, o.Registry, currentRoot)
	if err != nil {
		return err
	}
	currentOp := compose.NewOperator(o.Executor)

	var currentInitial *compose.State
	if isRerun {
		currentInitial = compose.NewState()
	} else {
		currentInitial = compose.NewStateFrom(classification.PreviousAnswers, classification.PreviousStates)
	}

	currentResult, err := currentOp.Run(ctx, currentResolved, currentInitial)
	*sessionIDs = append(*sessionIDs, currentResult.SessionIDs...)
	if err != nil {
		return err
	}

	base := previousResult.LayeredVFS
	incoming := currentResult.LayeredVFS

	local, err := vfs.LoadTree(targetDir)
	if err != nil {
		return err
	}

	merged, _, err := o.Merger.Merge(base, local, incoming)
	if err != nil {
		return err
	}
	if err := vfs.Write(targetDir, merged); err != nil {
		return err
	}

	return appendAndSave(targetDir, ps, currentRoot, currentResult.State)
}

func appendAndSave(targetDir string, ps state.ProjectState, root *registry.TemplateVersion, final *compose.State) error {
	entry := state.TemplateHistoryEntry{
		Version:             root.Principal.Version,
		Time:                time.Now(),
		Answers:             final.SharedAnswers,
		DeterministicStates: final.SharedDeterministicStates,
	}
	next := state.AppendHistory(ps, root.Username, root.TemplateName, entry)
	return state.Save(targetDir, next)
}

// cleanupSessions issues clean for every session id regardless of the
// run's outcome. A clean failure is logged, never propagated, per spec §5.
func (o *Orchestrator) cleanupSessions(ctx context.Context, sessionIDs []string) {
	for _, id := range sessionIDs {
		if err := o.Coordinator.Clean(ctx, id); err != nil && o.Logger != nil {
			o.Logger.Warn("session cleanup failed", "session_id", id, "error", err)
		}
	}
}
