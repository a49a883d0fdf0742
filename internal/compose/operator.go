package compose

import (
	"context"
	"strconv"

	"github.com/cyanprint/cyancore/internal/executor"
	"github.com/cyanprint/cyancore/internal/registry"
	"github.com/cyanprint/cyancore/internal/vfs"
)

// Result is the composition operator's output: the layered VFS produced by
// every executable template in the resolved list, the final shared state,
// and every session id collected along the way so the caller can clean
// them up unconditionally.
type Result struct {
	LayeredVFS *vfs.VFS
	State      *State
	SessionIDs []string
}

// Operator executes a resolved dependency list against an initial
// CompositionState.
type Operator struct {
	Executor *executor.TemplateExecutor
}

// NewOperator builds an Operator.
func NewOperator(exec *executor.TemplateExecutor) *Operator {
	return &Operator{Executor: exec}
}

// Run executes resolved in order, per spec §4.9. Group templates (absent
// Principal.Properties) only contribute to the execution-order audit trail.
// Executable templates run through the executor with the engine's
// start_with semantics seeded from the shared state so far; their returned
// answers fold into the shared state under the type-conflict invariant and
// their output VFS is collected for layering. Session ids are collected
// even on failure so the caller can still issue clean.
func (o *Operator) Run(ctx context.Context, resolved []*registry.TemplateVersion, initial *State) (Result, error) {
	st := initial
	var outputs []*vfs.VFS
	var sessionIDs []string

	for _, t := range resolved {
		if t.Principal.IsGroup() {
			st.Visit(t.ID())
			continue
		}

		templateRef := templateRefString(t)
		result, err := o.Executor.Execute(ctx, templateRef, t.ID(), st.SharedAnswers, st.SharedDeterministicStates[t.ID()])
		if result.SessionID != "" {
			sessionIDs = append(sessionIDs, result.SessionID)
		}
		if err != nil {
			return Result{SessionIDs: sessionIDs, State: st}, err
		}

		if err := st.MergeAnswers(result.FinalState.Answers); err != nil {
			return Result{SessionIDs: sessionIDs, State: st}, err
		}
		st.SetDeterministicState(t.ID(), result.FinalState.DeterministicState)
		st.Visit(t.ID())
		outputs = append(outputs, result.VFS)
	}

	return Result{
		LayeredVFS: Layer(outputs...),
		State:      st,
		SessionIDs: sessionIDs,
	}, nil
}

func templateRefString(t *registry.TemplateVersion) string {
	return t.Username + "/" + t.TemplateName + ":" + strconv.FormatInt(t.Principal.Version, 10)
}
