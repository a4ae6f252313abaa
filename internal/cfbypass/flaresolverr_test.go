package cfbypass

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIsChallenge(t *testing.T) {
	assert.True(t, IsChallenge("Just a moment..."))
	assert.True(t, IsChallenge(`<div class="cf-browser-verification">`))
	assert.False(t, IsChallenge("<html><body>Normal page</body></html>"))
}

func TestResolve_ReturnsCookiesAndUserAgent(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req solveRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "request.get", req.Cmd)
		assert.Equal(t, "https://example.com/book", req.URL)

		resp := solveResponse{
			Status: "ok",
			Solution: &solveSolution{
				Cookies:   []solveCookie{{Name: "cf_clearance", Value: "abc123"}},
				UserAgent: "Mozilla/5.0 solver",
			},
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(resp)
	}))
	defer server.Close()

	client := New(server.URL, 0, nil)
	cookie, ua, err := client.Resolve(context.Background(), "https://example.com/book")
	require.NoError(t, err)
	assert.Equal(t, "cf_clearance=abc123", cookie)
	assert.Equal(t, "Mozilla/5.0 solver", ua)
}

func TestResolve_SolverFailureReturnsError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(solveResponse{Status: "error", Message: "challenge not detected"})
	}))
	defer server.Close()

	client := New(server.URL, 0, nil)
	_, _, err := client.Resolve(context.Background(), "https://example.com")
	assert.Error(t, err)
}

func TestResolve_NoEndpointConfigured(t *testing.T) {
	client := New("", 0, nil)
	_, _, err := client.Resolve(context.Background(), "https://example.com")
	assert.Error(t, err)
}
