package state

import (
	"fmt"

	"gopkg.in/yaml.v3"
)

// answerWire is the on-disk shape of an Answer: {type: "...", answer: ...}.
// The answer field's Go type varies with Kind, so it is decoded into a raw
// yaml.Node and interpreted by hand.
type answerWire struct {
	Type   AnswerKind `yaml:"type"`
	Answer yaml.Node  `yaml:"answer"`
}

// MarshalYAML implements yaml.Marshaler so Answer always serializes with the
// normative type/answer tag shape, regardless of which variant it holds.
func (a Answer) MarshalYAML() (interface{}, error) {
	var payload interface{}
	switch a.Kind {
	case AnswerString:
		payload = a.Str
	case AnswerStrArray:
		payload = a.StrArray
	case AnswerBool:
		payload = a.Bool
	default:
		return nil, fmt.Errorf("state: answer has unset kind")
	}

	return map[string]interface{}{
		"type":   string(a.Kind),
		"answer": payload,
	}, nil
}

// UnmarshalYAML implements yaml.Unmarshaler, dispatching on the type tag to
// decode the answer field into the matching Go shape.
func (a *Answer) UnmarshalYAML(value *yaml.Node) error {
	var wire answerWire
	if err := value.Decode(&wire); err != nil {
		return err
	}

	switch wire.Type {
	case AnswerString:
		var s string
		if err := wire.Answer.Decode(&s); err != nil {
			return fmt.Errorf("state: decode string answer: %w", err)
		}
		*a = Answer{Kind: AnswerString, Str: s}
	case AnswerStrArray:
		var items []string
		if err := wire.Answer.Decode(&items); err != nil {
			return fmt.Errorf("state: decode str_array answer: %w", err)
		}
		*a = Answer{Kind: AnswerStrArray, StrArray: items}
	case AnswerBool:
		var b bool
		if err := wire.Answer.Decode(&b); err != nil {
			return fmt.Errorf("state: decode boolean answer: %w", err)
		}
		*a = Answer{Kind: AnswerBool, Bool: b}
	default:
		return fmt.Errorf("state: unknown answer type %q", wire.Type)
	}
	return nil
}
