package service

import (
	"log"

	"github.com/SagorIslamOfficial/hrm-sub003/models"
)

// StatusSubscriber consumes StatusChanged events. Subscribers are named so
// that cross-entity propagation stays visible in logs and tests instead of
// happening as hidden writes.
type StatusSubscriber interface {
	Name() string
	OnStatusChanged(event models.StatusChanged)
}

// EventBus fans StatusChanged events out to its subscribers, synchronously
// and in registration order. A panicking or failing subscriber must not
// block the transition that already committed; subscribers log their own
// failures.
type EventBus struct {
	subscribers []StatusSubscriber
}

// NewEventBus creates an empty event bus
func NewEventBus() *EventBus {
	return &EventBus{}
}

// Subscribe registers a subscriber.
func (b *EventBus) Subscribe(sub StatusSubscriber) {
	b.subscribers = append(b.subscribers, sub)
}

// PublishStatusChanged delivers the event to every subscriber.
func (b *EventBus) PublishStatusChanged(event models.StatusChanged) {
	for _, sub := range b.subscribers {
		func() {
			defer func() {
				if r := recover(); r != nil {
					log.Printf("[events] subscriber %s panicked on %s -> %s for complaint %d: %v",
						sub.Name(), event.From, event.To, event.ComplaintID, r)
				}
			}()
			sub.OnStatusChanged(event)
		}()
	}
}
