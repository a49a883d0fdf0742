// Package question implements the questionnaire engine: a small state
// machine that drives a prompt/answer loop against a remote template
// service, enforcing validators and supporting resume from prior answers.
package question

import (
	"github.com/cyanprint/cyancore/internal/state"
)

// Kind is the variant of input a Question expects.
type Kind string

const (
	KindText     Kind = "text"
	KindBool     Kind = "bool"
	KindSelect   Kind = "select"
	KindCheckbox Kind = "checkbox"
	KindPassword Kind = "password"
	KindDate     Kind = "date"
)

// Question is the prompt the remote template service asks for next.
type Question struct {
	ID      string   `json:"id"`
	Kind    Kind     `json:"kind"`
	Prompt  string   `json:"prompt"`
	Options []string `json:"options,omitempty"`
}

// StepKind distinguishes the remote service's two possible responses to a
// round-trip.
type StepKind int

const (
	StepQnA StepKind = iota
	StepFinal
)

// Step is the remote template service's response to one round-trip: either
// another question to ask, or the finished artifact descriptor.
type Step struct {
	Kind StepKind

	// Populated when Kind == StepQnA.
	NextQuestion          Question
	NewDeterministicState string

	// Populated when Kind == StepFinal.
	Cyan string
}

// Phase is the engine's own state, {QnA, Complete, Error}.
type Phase int

const (
	PhaseQnA Phase = iota
	PhaseComplete
	PhaseError
)

// State is the engine's externally observable status after each
// transition.
type State struct {
	Phase Phase

	// Populated when Phase == PhaseComplete.
	Cyan               string
	Answers            map[string]state.Answer
	DeterministicState string

	// Populated when Phase == PhaseError.
	ErrorMessage string
}
