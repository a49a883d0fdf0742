// Package state models the persisted project history in .cyan_state.yaml:
// per-template answer/version history, and the classifier that turns a
// target template plus that history into New/Rerun/Upgrade.
package state

import (
	"fmt"
	"time"
)

// AnswerKind is the normative tag name for an Answer's variant, stable
// across releases because it is serialized verbatim into .cyan_state.yaml.
type AnswerKind string

const (
	AnswerString    AnswerKind = "string"
	AnswerStrArray  AnswerKind = "str_array"
	AnswerBool      AnswerKind = "boolean"
)

// Answer is a tagged union over the three question-response shapes the
// questionnaire engine accepts. Exactly one of the Str/StrArray/Bool fields
// is meaningful, selected by Kind.
type Answer struct {
	Kind     AnswerKind
	Str      string
	StrArray []string
	Bool     bool
}

// NewStringAnswer builds a string-variant Answer.
func NewStringAnswer(s string) Answer { return Answer{Kind: AnswerString, Str: s} }

// NewStrArrayAnswer builds a str_array-variant Answer.
func NewStrArrayAnswer(items []string) Answer {
	cp := make([]string, len(items))
	copy(cp, items)
	return Answer{Kind: AnswerStrArray, StrArray: cp}
}

// NewBoolAnswer builds a boolean-variant Answer.
func NewBoolAnswer(b bool) Answer { return Answer{Kind: AnswerBool, Bool: b} }

// SameType reports whether a and other are the same Answer variant,
// ignoring value. This is the sole predicate the composition operator's
// type-conflict invariant is built on.
func (a Answer) SameType(other Answer) bool { return a.Kind == other.Kind }

func (a Answer) String() string {
	switch a.Kind {
	case AnswerString:
		return a.Str
	case AnswerStrArray:
		return fmt.Sprintf("%v", a.StrArray)
	case AnswerBool:
		return fmt.Sprintf("%t", a.Bool)
	default:
		return ""
	}
}

// TemplateHistoryEntry is one completed run of a template, appended to
// TemplateState.History and never rewritten.
type TemplateHistoryEntry struct {
	Version             int64             `yaml:"version"`
	Time                time.Time         `yaml:"time"`
	Answers             map[string]Answer `yaml:"answers"`
	DeterministicStates map[string]string `yaml:"deterministic_states"`
}

// TemplateState is the persisted record for a single "{username}/{name}"
// key: whether the template is still considered active in the project, and
// its append-only run history, most recent last.
type TemplateState struct {
	Active  bool                    `yaml:"active"`
	History []TemplateHistoryEntry  `yaml:"history"`
}

// Last returns the most recent history entry, or false if the template has
// never been run.
func (t TemplateState) Last() (TemplateHistoryEntry, bool) {
	if len(t.History) == 0 {
		return TemplateHistoryEntry{}, false
	}
	return t.History[len(t.History)-1], true
}

// ProjectState is the top-level .cyan_state.yaml document: every template
// this project has ever materialized, keyed by "{username}/{template_name}".
type ProjectState map[string]TemplateState

// Key builds the canonical state-map key for a username/template pair.
func Key(username, templateName string) string {
	return username + "/" + templateName
}
