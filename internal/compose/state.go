// Package compose implements the composition operator: executing a resolved
// dependency list against a shared answer/state accumulator and layering
// the executable templates' outputs into one VFS.
package compose

import (
	"github.com/cyanprint/cyancore/internal/cyanerr"
	"github.com/cyanprint/cyancore/internal/state"
)

// State accumulates shared answers and deterministic states across a
// dependency chain, plus the audit trail of every template visited.
type State struct {
	SharedAnswers             map[string]state.Answer
	SharedDeterministicStates map[string]string
	ExecutionOrder            []string
}

// NewState builds an empty accumulator, the starting point for create_new.
func NewState() *State {
	return &State{
		SharedAnswers:             map[string]state.Answer{},
		SharedDeterministicStates: map[string]string{},
	}
}

// NewStateFrom seeds an accumulator from a previous run's persisted answers
// and deterministic states, the starting point for upgrade (rerun instead
// starts from NewState so the user is re-prompted fresh).
func NewStateFrom(answers map[string]state.Answer, deterministicStates map[string]string) *State {
	s := NewState()
	for k, v := range answers {
		s.SharedAnswers[k] = v
	}
	for k, v := range deterministicStates {
		s.SharedDeterministicStates[k] = v
	}
	return s
}

// MergeAnswers folds newAnswers into the accumulator under the type-conflict
// invariant from spec §3: inserting (k, v) where SharedAnswers[k] already
// exists requires v to be the same Answer variant as the existing value.
func (s *State) MergeAnswers(newAnswers map[string]state.Answer) error {
	for k, v := range newAnswers {
		if existing, ok := s.SharedAnswers[k]; ok && !existing.SameType(v) {
			return &cyanerr.TypeConflict{QuestionID: k}
		}
		s.SharedAnswers[k] = v
	}
	return nil
}

// SetDeterministicState records templateID's deterministic scratch state,
// replacing whatever was there before.
func (s *State) SetDeterministicState(templateID, value string) {
	s.SharedDeterministicStates[templateID] = value
}

// Visit appends templateID to the execution order audit trail.
func (s *State) Visit(templateID string) {
	s.ExecutionOrder = append(s.ExecutionOrder, templateID)
}
