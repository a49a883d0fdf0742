package orchestrator

import (
	"archive/tar"
	"bytes"
	"compress/gzip"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cyanprint/cyancore/internal/coordinator"
	"github.com/cyanprint/cyancore/internal/executor"
	"github.com/cyanprint/cyancore/internal/question"
	"github.com/cyanprint/cyancore/internal/registry"
	"github.com/cyanprint/cyancore/internal/state"
	"github.com/cyanprint/cyancore/internal/vfs/merge"
)

// fakeRegistry serves a single leaf template version with no dependencies.
type fakeRegistry struct {
	root *registry.TemplateVersion
}

func (f *fakeRegistry) GetBySlug(ctx context.Context, username, templateName string, version *int64) (*registry.TemplateVersion, error) {
	return f.root, nil
}

func (f *fakeRegistry) ListVersions(ctx context.Context, username, templateName string, skip, limit int) ([]registry.TemplateVersion, error) {
	return []registry.TemplateVersion{*f.root}, nil
}

func (f *fakeRegistry) GetByID(ctx context.Context, id string) (*registry.TemplateVersion, error) {
	return f.root, nil
}

// answeringPrompter answers every question with a fixed string.
type answeringPrompter struct{}

func (answeringPrompter) Ask(ctx context.Context, q question.Question) (state.Answer, error) {
	return state.NewStringAnswer("demo-project"), nil
}

func buildArchiveWith(t *testing.T, name, content string) []byte {
	t.Helper()
	var buf bytes.Buffer
	gz := gzip.NewWriter(&buf)
	tw := tar.NewWriter(gz)
	require.NoError(t, tw.WriteHeader(&tar.Header{Name: name, Typeflag: tar.TypeReg, Mode: 0o644, Size: int64(len(content))}))
	_, err := tw.Write([]byte(content))
	require.NoError(t, err)
	require.NoError(t, tw.Close())
	require.NoError(t, gz.Close())
	return buf.Bytes()
}

// newCoordinatorServer builds a server implementing the warm/bootstrap/build
// protocol for a single template id, always answering with archive on build.
func newCoordinatorServer(t *testing.T, templateID string, archive []byte) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()

	mux.HandleFunc("/template/warm", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(coordinator.StatusResponse{Status: "ok"})
	})
	mux.HandleFunc("/executor/sess-1/warm", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(coordinator.WarmExecutorResponse{SessionID: "sess-1"})
	})
	mux.HandleFunc("/proxy/template/"+templateID+"/api/template/init", func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			Answers map[string]state.Answer `json:"answers"`
		}
		_ = json.NewDecoder(r.Body).Decode(&req)
		if len(req.Answers) == 0 {
			json.NewEncoder(w).Encode(map[string]any{
				"kind":          "qna",
				"next_question": map[string]any{"id": "name", "kind": "text", "prompt": "project name?"},
			})
			return
		}
		json.NewEncoder(w).Encode(map[string]any{"kind": "final", "cyan": "cyan-payload"})
	})
	mux.HandleFunc("/proxy/template/"+templateID+"/api/template/validate", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{"valid": nil})
	})
	mux.HandleFunc("/executor", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(coordinator.StatusResponse{Status: "ok"})
	})
	mux.HandleFunc("/executor/sess-1", func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodPost:
			w.Header().Set("Content-Type", "application/gzip")
			w.Write(archive)
		default:
			json.NewEncoder(w).Encode(coordinator.StatusResponse{Status: "ok"})
		}
	})

	return httptest.NewServer(mux)
}

func TestApplyCreateNewWritesGeneratedFiles(t *testing.T) {
	root := &registry.TemplateVersion{
		Principal:    registry.Principal{ID: "tmpl-1", Version: 1, Properties: json.RawMessage(`{}`)},
		TemplateName: "demo",
		Username:     "alice",
	}

	archive := buildArchiveWith(t, "README.md", "hello from template")
	server := newCoordinatorServer(t, "tmpl-1", archive)
	defer server.Close()

	coordClient := coordinator.New(server.URL, nil)
	exec := executor.New(coordClient, answeringPrompter{})
	exec.NewSessionID = func() (string, error) { return "sess-1", nil }

	orch := New(&fakeRegistry{root: root}, coordClient, exec, &merge.TextMerger{}, nil)

	targetDir := t.TempDir()
	err := orch.Apply(context.Background(), registry.Ref{Username: "alice", TemplateName: "demo"}, targetDir)
	require.NoError(t, err)

	content, err := os.ReadFile(filepath.Join(targetDir, "README.md"))
	require.NoError(t, err)
	assert.Equal(t, "hello from template", string(content))

	ps, err := state.Load(targetDir)
	require.NoError(t, err)
	entry, ok := ps[state.Key("alice", "demo")]
	require.True(t, ok)
	assert.True(t, entry.Active)
	require.Len(t, entry.History, 1)
	assert.Equal(t, int64(1), entry.History[0].Version)
}

func TestApplySecondRunClassifiesAsRerun(t *testing.T) {
	root := &registry.TemplateVersion{
		Principal:    registry.Principal{ID: "tmpl-1", Version: 1, Properties: json.RawMessage(`{}`)},
		TemplateName: "demo",
		Username:     "alice",
	}

	archive := buildArchiveWith(t, "README.md", "version one")
	server := newCoordinatorServer(t, "tmpl-1", archive)
	defer server.Close()

	coordClient := coordinator.New(server.URL, nil)
	exec := executor.New(coordClient, answeringPrompter{})
	exec.NewSessionID = func() (string, error) { return "sess-1", nil }

	orch := New(&fakeRegistry{root: root}, coordClient, exec, &merge.TextMerger{}, nil)

	targetDir := t.TempDir()
	require.NoError(t, orch.Apply(context.Background(), registry.Ref{Username: "alice", TemplateName: "demo"}, targetDir))
	require.NoError(t, orch.Apply(context.Background(), registry.Ref{Username: "alice", TemplateName: "demo"}, targetDir))

	ps, err := state.Load(targetDir)
	require.NoError(t, err)
	entry := ps[state.Key("alice", "demo")]
	assert.Len(t, entry.History, 2)
}
