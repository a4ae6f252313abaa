package interfaces

import "context"

// EventType enumerates the progress/lifecycle events the engine and its
// collaborators publish. Adapted from the teacher's much larger
// jira/confluence EventType block (internal/interfaces/event_service.go) down
// to the events a book-source scraper actually produces.
type EventType string

const (
	EventSearchProgress      EventType = "search.progress"
	EventTocPageFetched      EventType = "toc.page_fetched"
	EventContentPageFetched  EventType = "content.page_fetched"
	EventSourceCheckStarted  EventType = "source.check_started"
	EventSourceCheckFinished EventType = "source.check_finished"
	EventCompiledSourceReady EventType = "source.compiled"
	EventAnalysisCacheEvict  EventType = "analysis_cache.evict"
)

// Event is one published occurrence; Payload shape depends on Type.
type Event struct {
	Type    EventType
	Payload interface{}
}

// EventHandler reacts to a published Event.
type EventHandler func(ctx context.Context, event Event) error

// EventService is the pub/sub collaborator used to broadcast engine
// progress (spec.md §1 non-goal surface; SPEC_FULL.md §11 "Secondary
// structured logger for WebSocket/event fan-out"). Grounded on the
// teacher's internal/services/events.Service shape.
type EventService interface {
	Subscribe(eventType EventType, handler EventHandler) error
	Unsubscribe(eventType EventType, handler EventHandler) error
	Publish(ctx context.Context, event Event)
	PublishSync(ctx context.Context, event Event) error
	Close()
}
