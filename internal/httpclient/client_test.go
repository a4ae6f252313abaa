package httpclient

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ternarybob/bookscraper/internal/interfaces"
)

func TestClient_Do_ReturnsBodyAndStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Test", "1")
		w.Write([]byte("hello"))
	}))
	defer srv.Close()

	c, err := New(Config{}, nil)
	require.NoError(t, err)

	resp, err := c.Do(context.Background(), interfaces.HTTPRequest{Method: "GET", URL: srv.URL})
	require.NoError(t, err)
	assert.Equal(t, 200, resp.Code)
	assert.Equal(t, "hello", resp.Body)
	assert.Equal(t, "1", resp.Headers["X-Test"])
}

func TestClient_Do_RetriesOnRetryableStatus(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		n := atomic.AddInt32(&calls, 1)
		if n < 2 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	retry := NewRetryPolicy()
	retry.InitialBackoff = time.Millisecond
	retry.MaxBackoff = 5 * time.Millisecond

	c, err := New(Config{Retry: retry}, nil)
	require.NoError(t, err)

	resp, err := c.Do(context.Background(), interfaces.HTTPRequest{Method: "GET", URL: srv.URL})
	require.NoError(t, err)
	assert.Equal(t, 200, resp.Code)
	assert.Equal(t, int32(2), atomic.LoadInt32(&calls))
}

func TestRateLimiter_EnforcesDelayPerDomain(t *testing.T) {
	rl := NewRateLimiter(20 * time.Millisecond)
	start := time.Now()
	require.NoError(t, rl.Wait(context.Background(), "https://example.com/a"))
	require.NoError(t, rl.Wait(context.Background(), "https://example.com/b"))
	assert.GreaterOrEqual(t, time.Since(start), 20*time.Millisecond)
}

func TestRateLimiter_ContextCancellationReturnsEarly(t *testing.T) {
	rl := NewRateLimiter(time.Hour)
	require.NoError(t, rl.Wait(context.Background(), "https://example.com/a"))

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Millisecond)
	defer cancel()
	err := rl.Wait(ctx, "https://example.com/a")
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}
