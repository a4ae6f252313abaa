// Package cfbypass implements interfaces.CloudflareBypass as a thin client
// for a FlareSolverr-compatible solver service (SPEC_FULL.md §12, grounded
// on original_source's engine/flaresolverr.rs): a sidecar that drives a
// real browser to clear a Cloudflare challenge and hands back the
// clearance cookie so subsequent plain HTTP requests can reuse it.
package cfbypass

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/ternarybob/arbor"
)

// challengeMarkers are substrings that indicate a Cloudflare interactive
// challenge page rather than real content.
var challengeMarkers = []string{
	"Just a moment",
	"Checking your browser",
	"cf-browser-verification",
	"challenge-running",
	"_cf_chl_opt",
	"Attention Required",
}

// IsChallenge reports whether html looks like a Cloudflare challenge page.
func IsChallenge(html string) bool {
	for _, marker := range challengeMarkers {
		if strings.Contains(html, marker) {
			return true
		}
	}
	return false
}

// Client implements interfaces.CloudflareBypass by POSTing a
// "request.get" command to a FlareSolverr-compatible endpoint.
type Client struct {
	Endpoint string
	HTTP     *http.Client
	Logger   arbor.ILogger
}

// New returns a Client targeting endpoint (e.g. "http://localhost:8191/v1"),
// with timeout bounding each solve call - FlareSolverr challenges routinely
// take tens of seconds.
func New(endpoint string, timeout time.Duration, logger arbor.ILogger) *Client {
	if timeout <= 0 {
		timeout = 60 * time.Second
	}
	return &Client{
		Endpoint: endpoint,
		HTTP:     &http.Client{Timeout: timeout},
		Logger:   logger,
	}
}

type solveRequest struct {
	Cmd        string `json:"cmd"`
	URL        string `json:"url"`
	MaxTimeout int    `json:"maxTimeout"`
}

type solveCookie struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

type solveSolution struct {
	Cookies   []solveCookie `json:"cookies"`
	UserAgent string        `json:"userAgent"`
}

type solveResponse struct {
	Status   string         `json:"status"`
	Message  string         `json:"message"`
	Solution *solveSolution `json:"solution"`
}

// Resolve implements interfaces.CloudflareBypass: requests a challenge
// solve for rawURL and returns the resulting cookie header and the user
// agent that obtained it.
func (c *Client) Resolve(ctx context.Context, rawURL string) (string, string, error) {
	if c.Endpoint == "" {
		return "", "", fmt.Errorf("cfbypass: no endpoint configured")
	}

	reqBody, err := json.Marshal(solveRequest{Cmd: "request.get", URL: rawURL, MaxTimeout: 60000})
	if err != nil {
		return "", "", fmt.Errorf("cfbypass: encode request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.Endpoint, bytes.NewReader(reqBody))
	if err != nil {
		return "", "", fmt.Errorf("cfbypass: build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.HTTP.Do(req)
	if err != nil {
		return "", "", fmt.Errorf("cfbypass: connect to solver: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", "", fmt.Errorf("cfbypass: read response: %w", err)
	}
	if resp.StatusCode >= 400 {
		return "", "", fmt.Errorf("cfbypass: solver returned %d: %s", resp.StatusCode, string(body))
	}

	var result solveResponse
	if err := json.Unmarshal(body, &result); err != nil {
		return "", "", fmt.Errorf("cfbypass: parse response: %w", err)
	}
	if result.Status != "ok" || result.Solution == nil {
		return "", "", fmt.Errorf("cfbypass: solver failed: %s", result.Message)
	}

	cookies := make([]string, 0, len(result.Solution.Cookies))
	for _, ck := range result.Solution.Cookies {
		cookies = append(cookies, fmt.Sprintf("%s=%s", ck.Name, ck.Value))
	}

	if c.Logger != nil {
		c.Logger.Debug().Str("url", rawURL).Int("cookies", len(cookies)).Msg("cloudflare challenge resolved")
	}

	return strings.Join(cookies, "; "), result.Solution.UserAgent, nil
}
