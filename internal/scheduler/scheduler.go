// Package scheduler runs periodic source health checks on a cron schedule
// (spec.md §4.8 "check(source)"), adapted from the teacher's
// internal/services/scheduler package (github.com/robfig/cron/v3), trimmed
// from a generic named-job registry down to the one recurring job this
// domain has: re-running check(source) for every enabled source.
package scheduler

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/ternarybob/arbor"

	"github.com/ternarybob/bookscraper/internal/interfaces"
	"github.com/ternarybob/bookscraper/internal/models"
)

// Checker runs spec.md §4.8's check(source) operation. *sourceengine.Engine
// satisfies this.
type Checker interface {
	Check(ctx context.Context, source *models.SourceSpec) (bool, error)
}

// SourceLister supplies the set of sources to check on each tick.
// *sources.Service satisfies this.
type SourceLister interface {
	ListSources(ctx context.Context) ([]*models.SourceSpec, error)
}

// Service runs a single cron-scheduled sweep that checks every source and
// publishes an EventSourceCheckStarted/Finished pair per source.
type Service struct {
	cron    *cron.Cron
	checker Checker
	sources SourceLister
	events  interfaces.EventService
	logger  arbor.ILogger

	mu        sync.Mutex
	entryID   cron.EntryID
	scheduled bool
}

func New(checker Checker, sources SourceLister, events interfaces.EventService, logger arbor.ILogger) *Service {
	return &Service{
		cron:    cron.New(),
		checker: checker,
		sources: sources,
		events:  events,
		logger:  logger,
	}
}

// Schedule registers the recurring sweep under a standard 5-field cron
// expression (e.g. "0 */6 * * *" for every six hours) and starts the
// scheduler. Calling Schedule again replaces the existing entry.
func (s *Service) Schedule(spec string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.scheduled {
		s.cron.Remove(s.entryID)
	}

	entryID, err := s.cron.AddFunc(spec, s.runSweep)
	if err != nil {
		return fmt.Errorf("schedule check sweep %q: %w", spec, err)
	}
	s.entryID = entryID
	s.scheduled = true

	s.cron.Start()
	s.logger.Info().Str("spec", spec).Msg("scheduled source check sweep")
	return nil
}

// Stop halts the cron scheduler, waiting for any in-flight sweep to finish.
func (s *Service) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
}

func (s *Service) runSweep() {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	srcs, err := s.sources.ListSources(ctx)
	if err != nil {
		s.logger.Error().Err(err).Msg("check sweep: list sources failed")
		return
	}

	for _, src := range srcs {
		s.checkOne(ctx, src)
	}
}

func (s *Service) checkOne(ctx context.Context, src *models.SourceSpec) {
	s.events.Publish(ctx, interfaces.Event{
		Type:    interfaces.EventSourceCheckStarted,
		Payload: map[string]any{"source_id": src.ID, "source_name": src.Name},
	})

	ok, err := s.checker.Check(ctx, src)
	if err != nil {
		s.logger.Warn().Err(err).Str("source", src.Name).Msg("source check failed")
	}

	s.events.Publish(ctx, interfaces.Event{
		Type: interfaces.EventSourceCheckFinished,
		Payload: map[string]any{
			"source_id":   src.ID,
			"source_name": src.Name,
			"healthy":     ok,
			"error":       errString(err),
		},
	})
}

func errString(err error) string {
	if err == nil {
		return ""
	}
	return err.Error()
}
