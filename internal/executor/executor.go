// Package executor drives a single template through the coordinator's
// warm -> bootstrap||prompt -> build protocol described in spec §4.7,
// running the independent halves of each step concurrently and joining
// before the next.
package executor

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/cyanprint/cyancore/internal/coordinator"
	"github.com/cyanprint/cyancore/internal/cyanerr"
	"github.com/cyanprint/cyancore/internal/question"
	"github.com/cyanprint/cyancore/internal/session"
	"github.com/cyanprint/cyancore/internal/state"
	"github.com/cyanprint/cyancore/internal/vfs"
)

// Result is what a single template execution produces: the unpacked output
// tree, the questionnaire's terminal state, and the session id the caller
// must eventually clean.
type Result struct {
	VFS        *vfs.VFS
	FinalState question.State
	SessionID  string
}

// TemplateExecutor drives one template execution end to end.
type TemplateExecutor struct {
	Client       *coordinator.Client
	Prompter     question.Prompter
	NewSessionID session.Generator
}

// New builds a TemplateExecutor with the default session id generator.
func New(client *coordinator.Client, prompter question.Prompter) *TemplateExecutor {
	return &TemplateExecutor{Client: client, Prompter: prompter, NewSessionID: session.NewID}
}

// Execute runs templateRef (the registry "user/name:version" slug) against
// templateID (the proxied questionnaire's target id), resuming the
// questionnaire from initialAnswers/initialState.
//
// Result.SessionID is populated as soon as warm-executor succeeds, even if a
// later step fails, so the caller can still clean it up.
func (e *TemplateExecutor) Execute(
	ctx context.Context,
	templateRef, templateID string,
	initialAnswers map[string]state.Answer,
	initialState string,
) (Result, error) {
	sessionID, err := e.NewSessionID()
	if err != nil {
		return Result{}, err
	}

	var warmResp *coordinator.WarmExecutorResponse
	warmGroup, warmCtx := errgroup.WithContext(ctx)
	warmGroup.Go(func() error {
		return e.Client.WarmTemplate(warmCtx, templateRef)
	})
	warmGroup.Go(func() error {
		resp, err := e.Client.WarmExecutor(warmCtx, sessionID)
		if err != nil {
			return err
		}
		warmResp = resp
		return nil
	})
	if err := warmGroup.Wait(); err != nil {
		if warmResp != nil {
			return Result{SessionID: warmResp.SessionID}, err
		}
		return Result{}, err
	}

	mergerID := uuid.NewString()

	var finalState question.State
	buildupGroup, buildupCtx := errgroup.WithContext(ctx)
	buildupGroup.Go(func() error {
		return e.Client.Bootstrap(buildupCtx, coordinator.StartExecutorReq{
			SessionID:         warmResp.SessionID,
			Template:          templateRef,
			WriteVolReference: warmResp.VolRef,
			Merger:            coordinator.MergerRef{MergerID: mergerID},
		})
	})
	buildupGroup.Go(func() error {
		engine := question.New(&coordinator.RemoteTemplate{Client: e.Client, TemplateID: templateID}, e.Prompter)
		finalState = engine.Run(buildupCtx, initialAnswers, initialState)
		return nil
	})
	if err := buildupGroup.Wait(); err != nil {
		return Result{SessionID: warmResp.SessionID}, err
	}
	if finalState.Phase == question.PhaseError {
		if finalState.ErrorMessage == (&cyanerr.UserAbort{}).Error() {
			return Result{SessionID: warmResp.SessionID}, &cyanerr.UserAbort{}
		}
		return Result{SessionID: warmResp.SessionID}, fmt.Errorf("questionnaire: %s", finalState.ErrorMessage)
	}

	archive, err := e.Client.Build(ctx, warmResp.SessionID, coordinator.BuildReq{
		Template: templateRef,
		Cyan:     finalState.Cyan,
		MergerID: mergerID,
	})
	if err != nil {
		return Result{SessionID: warmResp.SessionID}, err
	}

	unpacked, err := vfs.Unpack(archive)
	if err != nil {
		return Result{SessionID: warmResp.SessionID}, err
	}

	return Result{VFS: unpacked, FinalState: finalState, SessionID: warmResp.SessionID}, nil
}
