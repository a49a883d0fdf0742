package coordinator

import (
	"context"
	"fmt"
	"net/http"

	"github.com/cyanprint/cyancore/internal/question"
	"github.com/cyanprint/cyancore/internal/state"
)

// wireQuestion is the proxied template service's question shape.
type wireQuestion struct {
	ID      string   `json:"id"`
	Kind    string   `json:"kind"`
	Prompt  string   `json:"prompt"`
	Options []string `json:"options,omitempty"`
}

// initResponse is the proxied POST .../api/template/init response: either a
// next question plus refreshed deterministic state, or a finished cyan.
type initResponse struct {
	Kind                  string        `json:"kind"` // "qna" | "final"
	NextQuestion          *wireQuestion `json:"next_question,omitempty"`
	NewDeterministicState string        `json:"new_deterministic_state,omitempty"`
	Cyan                  string        `json:"cyan,omitempty"`
}

type initRequest struct {
	Answers            map[string]state.Answer `json:"answers"`
	DeterministicState string                  `json:"deterministic_state"`
}

type validateRequest struct {
	QuestionID string       `json:"question_id"`
	Answer     state.Answer `json:"answer"`
}

type validateResponse struct {
	Valid *string `json:"valid"`
}

// RemoteTemplate adapts a Client plus a specific template id to the
// question.Remote interface, implementing the proxied
// /proxy/template/{template_id}/api/template/{init,validate} calls.
type RemoteTemplate struct {
	Client     *Client
	TemplateID string
}

// Init implements question.Remote.
func (r *RemoteTemplate) Init(ctx context.Context, answers map[string]state.Answer, deterministicState string) (question.Step, error) {
	path := fmt.Sprintf("/proxy/template/%s/api/template/init", r.TemplateID)
	var resp initResponse
	if err := r.Client.doJSON(ctx, http.MethodPost, path, initRequest{Answers: answers, DeterministicState: deterministicState}, &resp); err != nil {
		return question.Step{}, err
	}

	if resp.Kind == "final" {
		return question.Step{Kind: question.StepFinal, Cyan: resp.Cyan}, nil
	}
	if resp.NextQuestion == nil {
		return question.Step{}, fmt.Errorf("coordinator: qna response missing next_question")
	}
	return question.Step{
		Kind: question.StepQnA,
		NextQuestion: question.Question{
			ID:      resp.NextQuestion.ID,
			Kind:    question.Kind(resp.NextQuestion.Kind),
			Prompt:  resp.NextQuestion.Prompt,
			Options: resp.NextQuestion.Options,
		},
		NewDeterministicState: resp.NewDeterministicState,
	}, nil
}

// Validate implements question.Remote.
func (r *RemoteTemplate) Validate(ctx context.Context, questionID string, answer state.Answer) (string, error) {
	path := fmt.Sprintf("/proxy/template/%s/api/template/validate", r.TemplateID)
	var resp validateResponse
	if err := r.Client.doJSON(ctx, http.MethodPost, path, validateRequest{QuestionID: questionID, Answer: answer}, &resp); err != nil {
		return "", err
	}
	if resp.Valid == nil {
		return "", nil
	}
	return *resp.Valid, nil
}
