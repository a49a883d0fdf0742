// Package coordinator implements the executor coordination protocol's HTTP
// transport: warm/bootstrap/build/clean calls against a coordinator base
// URL, plus the proxied questionnaire round-trip endpoints.
//
// The teacher's own HTTP helper only demonstrates a server-sent-events call
// shape; bootstrap/build/clean here are plain request/response and binary
// download, a surface it does not cover, so this client is built directly on
// net/http rather than guessing at an unobserved method signature.
package coordinator

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/cyanprint/cyancore/internal/cyanerr"
)

// callTimeout is the budget for every single HTTP call the client issues,
// per spec §4.7.
const callTimeout = 600 * time.Second

// Client talks to a single coordinator instance.
type Client struct {
	BaseURL    string
	HTTPClient *http.Client
}

// New builds a Client. If httpClient is nil, one with callTimeout is used.
func New(baseURL string, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: callTimeout}
	}
	return &Client{BaseURL: baseURL, HTTPClient: httpClient}
}

// WarmTemplate issues POST /template/warm and requires status "ok".
func (c *Client) WarmTemplate(ctx context.Context, templateRef string) error {
	var resp StatusResponse
	if err := c.doJSON(ctx, http.MethodPost, "/template/warm", map[string]string{"template": templateRef}, &resp); err != nil {
		return err
	}
	if resp.Status != "ok" {
		return &cyanerr.RemoteError{Problem: cyanerr.ProblemDetails{Title: "template warm did not report ok", Status: 0}}
	}
	return nil
}

// WarmExecutor issues POST /executor/{sid}/warm.
func (c *Client) WarmExecutor(ctx context.Context, sessionID string) (*WarmExecutorResponse, error) {
	var resp WarmExecutorResponse
	path := fmt.Sprintf("/executor/%s/warm", sessionID)
	if err := c.doJSON(ctx, http.MethodPost, path, nil, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// Bootstrap issues POST /executor and requires status "ok".
func (c *Client) Bootstrap(ctx context.Context, req StartExecutorReq) error {
	var resp StatusResponse
	if err := c.doJSON(ctx, http.MethodPost, "/executor", req, &resp); err != nil {
		return err
	}
	if resp.Status != "ok" {
		return &cyanerr.RemoteError{Problem: cyanerr.ProblemDetails{Title: "bootstrap did not report ok", Status: 0}}
	}
	return nil
}

// Build issues POST /executor/{sid} and returns the raw gzip'd tar bytes.
func (c *Client) Build(ctx context.Context, sessionID string, req BuildReq) ([]byte, error) {
	body, err := json.Marshal(req)
	if err != nil {
		return nil, &cyanerr.TransportError{Op: "encode build request", Err: err}
	}

	path := fmt.Sprintf("/executor/%s", sessionID)
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.BaseURL+path, bytes.NewReader(body))
	if err != nil {
		return nil, &cyanerr.TransportError{Op: "build " + sessionID, Err: err}
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Accept", "application/gzip")

	resp, err := c.HTTPClient.Do(httpReq)
	if err != nil {
		return nil, &cyanerr.TransportError{Op: "build " + sessionID, Err: err}
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &cyanerr.TransportError{Op: "read build response " + sessionID, Err: err}
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, problemFromBody(data, resp.StatusCode)
	}
	return data, nil
}

// Clean issues DELETE /executor/{sid}. Best-effort: failures are the
// caller's to log, not propagate, per spec §5's cleanup discipline.
func (c *Client) Clean(ctx context.Context, sessionID string) error {
	var resp StatusResponse
	path := fmt.Sprintf("/executor/%s", sessionID)
	return c.doJSON(ctx, http.MethodDelete, path, nil, &resp)
}

// doJSON issues a JSON request and decodes a JSON response, translating
// non-2xx bodies into cyanerr.RemoteError and transport failures into
// cyanerr.TransportError.
func (c *Client) doJSON(ctx context.Context, method, path string, body, out any) error {
	var reader io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return &cyanerr.TransportError{Op: method + " " + path, Err: err}
		}
		reader = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.BaseURL+path, reader)
	if err != nil {
		return &cyanerr.TransportError{Op: method + " " + path, Err: err}
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return &cyanerr.TransportError{Op: method + " " + path, Err: err}
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return &cyanerr.TransportError{Op: "read response " + method + " " + path, Err: err}
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return problemFromBody(data, resp.StatusCode)
	}

	if out == nil || len(data) == 0 {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return &cyanerr.TransportError{Op: "decode response " + method + " " + path, Err: err}
	}
	return nil
}

// problemFromBody attempts to parse body as a problem-details object;
// if that fails the raw body is still surfaced as a RemoteError so callers
// always get a typed error for a non-2xx response.
func problemFromBody(body []byte, status int) error {
	var problem cyanerr.ProblemDetails
	if err := json.Unmarshal(body, &problem); err == nil && problem.Title != "" {
		if problem.Status == 0 {
			problem.Status = status
		}
		return &cyanerr.RemoteError{Problem: problem}
	}
	return &cyanerr.RemoteError{Problem: cyanerr.ProblemDetails{
		Title:  string(body),
		Status: status,
	}}
}
