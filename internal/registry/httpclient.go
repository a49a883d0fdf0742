package registry

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/cyanprint/cyancore/internal/cyanerr"
)

// callTimeout mirrors the coordinator client's per-call budget; the
// registry is a separate remote peer but spec §4.7's 600s figure is the
// only timeout this spec names, so it is reused here too.
const callTimeout = 600 * time.Second

// HTTPClient is a minimal implementation of the registry's external
// contract, consumed but not specified by this core (spec §1). It exists so
// cmd/cyanprint has something real to wire in; its wire format is this
// core's own reasonable reading of spec §6, not a normative surface.
type HTTPClient struct {
	BaseURL    string
	APIKey     string
	HTTPClient *http.Client
}

// NewHTTPClient builds an HTTPClient.
func NewHTTPClient(baseURL, apiKey string) *HTTPClient {
	return &HTTPClient{BaseURL: baseURL, APIKey: apiKey, HTTPClient: &http.Client{Timeout: callTimeout}}
}

// GetBySlug implements Client.
func (c *HTTPClient) GetBySlug(ctx context.Context, username, templateName string, version *int64) (*TemplateVersion, error) {
	path := fmt.Sprintf("/templates/%s/%s", username, templateName)
	if version != nil {
		path += "?version=" + strconv.FormatInt(*version, 10)
	}
	var tv TemplateVersion
	if err := c.get(ctx, path, &tv); err != nil {
		return nil, err
	}
	return &tv, nil
}

// ListVersions implements Client.
func (c *HTTPClient) ListVersions(ctx context.Context, username, templateName string, skip, limit int) ([]TemplateVersion, error) {
	path := fmt.Sprintf("/templates/%s/%s/versions?skip=%d&limit=%d", username, templateName, skip, limit)
	var versions []TemplateVersion
	if err := c.get(ctx, path, &versions); err != nil {
		return nil, err
	}
	return versions, nil
}

// GetByID implements Client.
func (c *HTTPClient) GetByID(ctx context.Context, id string) (*TemplateVersion, error) {
	var tv TemplateVersion
	if err := c.get(ctx, "/template-versions/"+id, &tv); err != nil {
		return nil, err
	}
	return &tv, nil
}

func (c *HTTPClient) get(ctx context.Context, path string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.BaseURL+path, nil)
	if err != nil {
		return &cyanerr.TransportError{Op: "GET " + path, Err: err}
	}
	if c.APIKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.APIKey)
	}

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return &cyanerr.TransportError{Op: "GET " + path, Err: err}
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return &cyanerr.TransportError{Op: "read response GET " + path, Err: err}
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		var problem cyanerr.ProblemDetails
		if jsonErr := json.Unmarshal(data, &problem); jsonErr == nil && problem.Title != "" {
			if problem.Status == 0 {
				problem.Status = resp.StatusCode
			}
			return &cyanerr.RemoteError{Problem: problem}
		}
		return &cyanerr.RemoteError{Problem: cyanerr.ProblemDetails{Title: string(data), Status: resp.StatusCode}}
	}

	if err := json.Unmarshal(data, out); err != nil {
		return &cyanerr.TransportError{Op: "decode response GET " + path, Err: err}
	}
	return nil
}
