// Package events is a pub/sub service (interfaces.EventService) that
// delivers progress and lifecycle events to subscribers such as a log tail.
// In this module the scheduler publishes a check-started/check-finished
// pair per source; the source engine publishes no events and does not
// depend on this package.
//
// Adapted from the teacher's internal/services/events.Service. Uses
// github.com/phuslu/log rather than arbor so the event fan-out path has its
// own lightweight structured logger, independent of the process logger's
// configuration (SPEC_FULL.md §11).
package events

import (
	"context"
	"fmt"
	"reflect"
	"sync"

	plog "github.com/phuslu/log"

	"github.com/ternarybob/bookscraper/internal/interfaces"
)

// Service implements interfaces.EventService with an async/sync pub/sub.
type Service struct {
	subscribers map[interfaces.EventType][]interfaces.EventHandler
	mu          sync.RWMutex
	logger      *plog.Logger
}

// NewService creates an event service with its own phuslu/log logger.
func NewService() *Service {
	return &Service{
		subscribers: make(map[interfaces.EventType][]interfaces.EventHandler),
		logger:      &plog.DefaultLogger,
	}
}

func (s *Service) Subscribe(eventType interfaces.EventType, handler interfaces.EventHandler) error {
	if handler == nil {
		return fmt.Errorf("handler cannot be nil")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.subscribers[eventType] = append(s.subscribers[eventType], handler)
	s.logger.Debug().Str("event_type", string(eventType)).Int("subscriber_count", len(s.subscribers[eventType])).Msg("event handler subscribed")
	return nil
}

func (s *Service) Unsubscribe(eventType interfaces.EventType, handler interfaces.EventHandler) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	target := reflect.ValueOf(handler).Pointer()
	handlers := s.subscribers[eventType]
	for i, h := range handlers {
		if reflect.ValueOf(h).Pointer() == target {
			s.subscribers[eventType] = append(handlers[:i:i], handlers[i+1:]...)
			s.logger.Debug().Str("event_type", string(eventType)).Msg("event handler unsubscribed")
			return nil
		}
	}
	return fmt.Errorf("handler not found for event type: %s", eventType)
}

// Publish dispatches to all subscribers asynchronously, one goroutine per
// handler; handler errors are logged, never returned to the publisher.
func (s *Service) Publish(ctx context.Context, event interfaces.Event) {
	s.mu.RLock()
	handlers := s.subscribers[event.Type]
	s.mu.RUnlock()

	if len(handlers) == 0 {
		return
	}

	for _, handler := range handlers {
		go func(h interfaces.EventHandler) {
			if err := h(ctx, event); err != nil {
				s.logger.Error().Err(err).Str("event_type", string(event.Type)).Msg("event handler failed")
			}
		}(handler)
	}
}

// PublishSync dispatches to all subscribers and waits for every handler to
// return, aggregating failures into a single error.
func (s *Service) PublishSync(ctx context.Context, event interfaces.Event) error {
	s.mu.RLock()
	handlers := s.subscribers[event.Type]
	s.mu.RUnlock()

	if len(handlers) == 0 {
		return nil
	}

	var wg sync.WaitGroup
	errCh := make(chan error, len(handlers))

	for _, handler := range handlers {
		wg.Add(1)
		go func(h interfaces.EventHandler) {
			defer wg.Done()
			if err := h(ctx, event); err != nil {
				s.logger.Error().Err(err).Str("event_type", string(event.Type)).Msg("event handler failed")
				errCh <- err
			}
		}(handler)
	}

	wg.Wait()
	close(errCh)

	var failures int
	for range errCh {
		failures++
	}
	if failures > 0 {
		return fmt.Errorf("event handlers failed: %d errors", failures)
	}
	return nil
}

func (s *Service) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.subscribers = make(map[interfaces.EventType][]interfaces.EventHandler)
}
