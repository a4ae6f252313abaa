package script

import (
	"fmt"
	"sync"

	"github.com/ternarybob/arbor"

	"github.com/ternarybob/bookscraper/internal/engine/nativeapi"
	"github.com/ternarybob/bookscraper/internal/models"
)

// RunnerPool implements ruleanalyzer.ScriptRunner by keeping one goja
// Instance alive per source for its whole session (spec.md §4.6: preload
// side effects persist across calls for the instance's lifetime). Distinct
// sources never share an Instance, so concurrent per-source fan-out
// (internal/worker) is safe as long as each source's own calls stay on one
// goroutine at a time.
type RunnerPool struct {
	mu        sync.Mutex
	instances map[string]*Instance
	provider  *nativeapi.Provider
	logger    arbor.ILogger
}

// NewRunnerPool returns an empty pool; instances are created lazily on
// first use per source ID.
func NewRunnerPool(provider *nativeapi.Provider, logger arbor.ILogger) *RunnerPool {
	return &RunnerPool{
		instances: make(map[string]*Instance),
		provider:  provider,
		logger:    logger,
	}
}

// Run implements ruleanalyzer.ScriptRunner.
func (p *RunnerPool) Run(fragment string, ctx models.ExecutionContext) (string, error) {
	inst, err := p.instanceFor(ctx.Source)
	if err != nil {
		return "", err
	}
	return inst.Run(fragment, ctx)
}

func (p *RunnerPool) instanceFor(src *models.SourceSpec) (*Instance, error) {
	if src == nil {
		return nil, fmt.Errorf("script runner pool: execution context has no source")
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	if inst, ok := p.instances[src.ID]; ok {
		return inst, nil
	}

	inst, err := NewInstance(p.provider, p.logger)
	if err != nil {
		return nil, fmt.Errorf("create script instance for source %q: %w", src.ID, err)
	}
	if err := inst.RunPreload(src.Preload); err != nil {
		return nil, fmt.Errorf("run preload for source %q: %w", src.ID, err)
	}

	p.instances[src.ID] = inst
	return inst, nil
}

// Evict drops the cached Instance for a source, e.g. after a SourceSpec is
// updated and its preload script must re-run on next use.
func (p *RunnerPool) Evict(sourceID string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	delete(p.instances, sourceID)
}
