package worker

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/ternarybob/arbor"

	"github.com/ternarybob/bookscraper/internal/models"
)

func sources(n int) []*models.SourceSpec {
	out := make([]*models.SourceSpec, n)
	for i := range out {
		out[i] = &models.SourceSpec{ID: "src", Name: "source"}
	}
	return out
}

func TestRun_CollectsOneResultPerSource(t *testing.T) {
	p := &Pool{Concurrency: 4, Deadline: time.Second, Logger: arbor.NewLogger()}

	results := p.Run(context.Background(), sources(10), func(ctx context.Context, s *models.SourceSpec) (any, error) {
		return "ok", nil
	})

	count := 0
	for r := range results {
		require.NoError(t, r.Err)
		assert.Equal(t, "ok", r.Value)
		count++
	}
	assert.Equal(t, 10, count)
}

func TestRun_BoundsConcurrency(t *testing.T) {
	p := &Pool{Concurrency: 2, Deadline: time.Second, Logger: arbor.NewLogger()}

	var inFlight, maxInFlight int64
	results := p.Run(context.Background(), sources(8), func(ctx context.Context, s *models.SourceSpec) (any, error) {
		cur := atomic.AddInt64(&inFlight, 1)
		defer atomic.AddInt64(&inFlight, -1)
		for {
			max := atomic.LoadInt64(&maxInFlight)
			if cur <= max || atomic.CompareAndSwapInt64(&maxInFlight, max, cur) {
				break
			}
		}
		time.Sleep(10 * time.Millisecond)
		return nil, nil
	})
	for range results {
	}
	assert.LessOrEqual(t, atomic.LoadInt64(&maxInFlight), int64(2))
}

func TestRun_PerTaskDeadlineCancelsSlowTask(t *testing.T) {
	p := &Pool{Concurrency: 1, Deadline: 20 * time.Millisecond, Logger: arbor.NewLogger()}

	results := p.Run(context.Background(), sources(1), func(ctx context.Context, s *models.SourceSpec) (any, error) {
		<-ctx.Done()
		return nil, ctx.Err()
	})

	r := <-results
	assert.ErrorIs(t, r.Err, context.DeadlineExceeded)
}
