package events

import (
	"context"

	"github.com/ternarybob/arbor"

	"github.com/ternarybob/bookscraper/internal/interfaces"
)

// NewLoggerSubscriber bridges events into the process logger (arbor), so
// pagination and check progress shows up alongside the rest of the
// application's structured logs, not just in this package's phuslu/log
// stream. Adapted from the teacher's events.NewLoggerSubscriber.
func NewLoggerSubscriber(logger arbor.ILogger) interfaces.EventHandler {
	return func(ctx context.Context, event interfaces.Event) error {
		logger.Debug().Str("event_type", string(event.Type)).Msg("event published")
		return nil
	}
}

// SubscribeLoggerToAllEvents wires the logger subscriber to every known
// EventType.
func SubscribeLoggerToAllEvents(svc interfaces.EventService, logger arbor.ILogger) error {
	subscriber := NewLoggerSubscriber(logger)
	eventTypes := []interfaces.EventType{
		interfaces.EventSearchProgress,
		interfaces.EventTocPageFetched,
		interfaces.EventContentPageFetched,
		interfaces.EventSourceCheckStarted,
		interfaces.EventSourceCheckFinished,
		interfaces.EventCompiledSourceReady,
		interfaces.EventAnalysisCacheEvict,
	}
	for _, et := range eventTypes {
		if err := svc.Subscribe(et, subscriber); err != nil {
			return err
		}
	}
	return nil
}
