package coordinator

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cyanprint/cyancore/internal/cyanerr"
)

func TestWarmTemplateOK(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/template/warm", r.URL.Path)
		json.NewEncoder(w).Encode(StatusResponse{Status: "ok"})
	}))
	defer srv.Close()

	c := New(srv.URL, nil)
	err := c.WarmTemplate(context.Background(), "alice/tpl:1")
	require.NoError(t, err)
}

func TestBuildStreamsRawBytes(t *testing.T) {
	want := []byte{0x1f, 0x8b, 0x03, 0x04}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/executor/sess1", r.URL.Path)
		w.Header().Set("Content-Type", "application/gzip")
		w.Write(want)
	}))
	defer srv.Close()

	c := New(srv.URL, nil)
	got, err := c.Build(context.Background(), "sess1", BuildReq{Template: "alice/tpl:1", Cyan: "cyan-token"})
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestNonTwoXXSurfacesProblemDetails(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		json.NewEncoder(w).Encode(cyanerr.ProblemDetails{Title: "bad template ref", Status: 400, Type: "validation"})
	}))
	defer srv.Close()

	c := New(srv.URL, nil)
	err := c.WarmTemplate(context.Background(), "bad-ref")

	var remoteErr *cyanerr.RemoteError
	require.ErrorAs(t, err, &remoteErr)
	assert.Equal(t, "bad template ref", remoteErr.Problem.Title)
	assert.Equal(t, 400, remoteErr.Problem.Status)
}

func TestCleanIssuesDelete(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodDelete, r.Method)
		json.NewEncoder(w).Encode(StatusResponse{Status: "ok"})
	}))
	defer srv.Close()

	c := New(srv.URL, nil)
	require.NoError(t, c.Clean(context.Background(), "sess1"))
}
