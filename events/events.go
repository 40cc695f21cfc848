package events

import (
	"context"
	"sync"

	"giveaway-bot/domain/entities"

	log "github.com/sirupsen/logrus"
)

// EventType represents different types of events in the system
type EventType string

const (
	EventTypeGiveawayLaunched     EventType = "giveaway_launched"
	EventTypeParticipationToggled EventType = "participation_toggled"
	EventTypeGiveawayClosed       EventType = "giveaway_closed"
)

// Event is the base interface for all events
type Event interface {
	Type() EventType
}

// GiveawayLaunchedEvent is published when a new giveaway opens for entry.
type GiveawayLaunchedEvent struct {
	GiveawayID string
	GuildID    int64
	ChannelID  int64
	HostID     int64
	Prize      string
}

func (e GiveawayLaunchedEvent) Type() EventType {
	return EventTypeGiveawayLaunched
}

// ParticipationToggledEvent is published on every entry button toggle.
type ParticipationToggledEvent struct {
	GiveawayID string
	UserID     int64
	Joined     bool
	Count      int
}

func (e ParticipationToggledEvent) Type() EventType {
	return EventTypeParticipationToggled
}

// GiveawayClosedEvent is published when a giveaway leaves the registry,
// whether by natural expiry, organizer stop or reroll.
type GiveawayClosedEvent struct {
	GiveawayID string
	GuildID    int64
	Outcome    *entities.ClosureOutcome
	Stopped    bool // organizer stop, no selection performed
}

func (e GiveawayClosedEvent) Type() EventType {
	return EventTypeGiveawayClosed
}

// Handler is a function that handles events
type Handler func(ctx context.Context, event Event)

// Bus manages event subscriptions and dispatching
type Bus struct {
	mu       sync.RWMutex
	handlers map[EventType][]Handler
}

// NewBus creates a new event bus
func NewBus() *Bus {
	return &Bus{
		handlers: make(map[EventType][]Handler),
	}
}

// Subscribe adds a handler for a specific event type
func (b *Bus) Subscribe(eventType EventType, handler Handler) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.handlers[eventType] = append(b.handlers[eventType], handler)

	log.WithFields(log.Fields{
		"eventType":    eventType,
		"handlerCount": len(b.handlers[eventType]),
	}).Debug("Subscribed handler to event type")
}

// Publish dispatches an event to all registered handlers. Handlers run
// asynchronously so a slow subscriber never blocks the lifecycle engine.
func (b *Bus) Publish(ctx context.Context, event Event) {
	b.mu.RLock()
	handlers := make([]Handler, len(b.handlers[event.Type()]))
	copy(handlers, b.handlers[event.Type()])
	b.mu.RUnlock()

	for _, handler := range handlers {
		go func(h Handler) {
			defer func() {
				if r := recover(); r != nil {
					log.WithFields(log.Fields{
						"eventType": event.Type(),
						"panic":     r,
					}).Error("Event handler panicked")
				}
			}()
			h(ctx, event)
		}(handler)
	}
}
