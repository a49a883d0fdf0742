package question

import (
	"context"
	"errors"

	"github.com/cyanprint/cyancore/internal/cyanerr"
	"github.com/cyanprint/cyancore/internal/state"
)

// ErrCancelled is returned by a Prompter when the user backs out of the
// current question (escape key, ctrl-c, and similar).
var ErrCancelled = errors.New("question: prompt cancelled")

// Remote is the template service's side of the round-trip: advance the
// state machine given the answers and deterministic state collected so far,
// and validate a single typed answer before it is accepted.
type Remote interface {
	Init(ctx context.Context, answers map[string]state.Answer, deterministicState string) (Step, error)
	// Validate returns a non-empty message when the answer is invalid; an
	// empty message means the answer is accepted.
	Validate(ctx context.Context, questionID string, answer state.Answer) (string, error)
}

// Prompter presents a Question to the user and returns their answer. It
// returns ErrCancelled if the user backs out of the prompt.
type Prompter interface {
	Ask(ctx context.Context, q Question) (state.Answer, error)
}

// Engine drives the questionnaire loop described in spec §4.6.
type Engine struct {
	Remote   Remote
	Prompter Prompter
}

// New builds an Engine.
func New(remote Remote, prompter Prompter) *Engine {
	return &Engine{Remote: remote, Prompter: prompter}
}

// Run drives the loop to completion. initialAnswers/initialState pre-populate
// the round-trip (start_with semantics): the remote decides which questions
// to re-ask or skip based on what it already has.
func (e *Engine) Run(ctx context.Context, initialAnswers map[string]state.Answer, initialState string) State {
	answers := cloneAnswers(initialAnswers)
	deterministicState := initialState
	var answerOrder []string

	for {
		step, err := e.Remote.Init(ctx, answers, deterministicState)
		if err != nil {
			return State{Phase: PhaseError, ErrorMessage: err.Error()}
		}
		if step.Kind == StepFinal {
			return State{Phase: PhaseComplete, Cyan: step.Cyan, Answers: answers, DeterministicState: deterministicState}
		}

		q := step.NextQuestion
		deterministicState = step.NewDeterministicState

		answer, cancelled, err := e.askUntilValid(ctx, q)
		if err != nil {
			return State{Phase: PhaseError, ErrorMessage: err.Error()}
		}
		if cancelled {
			if len(answerOrder) == 0 {
				return State{Phase: PhaseError, ErrorMessage: (&cyanerr.UserAbort{}).Error()}
			}
			last := answerOrder[len(answerOrder)-1]
			answerOrder = answerOrder[:len(answerOrder)-1]
			delete(answers, last)
			continue
		}

		answers[q.ID] = answer
		answerOrder = append(answerOrder, q.ID)
	}
}

// askUntilValid prompts for q, round-tripping each candidate answer through
// the remote validator, until an accepted answer or cancellation.
func (e *Engine) askUntilValid(ctx context.Context, q Question) (answer state.Answer, cancelled bool, err error) {
	for {
		answer, err = e.Prompter.Ask(ctx, q)
		if errors.Is(err, ErrCancelled) {
			return state.Answer{}, true, nil
		}
		if err != nil {
			return state.Answer{}, false, err
		}

		msg, verr := e.Remote.Validate(ctx, q.ID, answer)
		if verr != nil {
			return state.Answer{}, false, verr
		}
		if msg != "" {
			continue // invalid per the remote validator, re-prompt
		}
		return answer, false, nil
	}
}

func cloneAnswers(in map[string]state.Answer) map[string]state.Answer {
	out := make(map[string]state.Answer, len(in))
	for k, v := range in {
		out[k] = v
	}
	return out
}
