// Package changes tells connected clients that a household's data moved on.
// Events carry no data beyond a revision; receivers re-query the store.
package changes

import (
	"sync"
	"time"
)

const (
	KindPlan   = "plan"
	KindSlot   = "slot"
	KindRecipe = "recipe"
	KindSeed   = "seed"
)

const defaultBuffer = 16

type Event struct {
	HouseholdID uint      `json:"household_id"`
	Revision    uint64    `json:"revision"`
	Kind        string    `json:"kind"`
	WeekKey     string    `json:"week_key,omitempty"`
	At          time.Time `json:"at"`
}

type Subscriber struct {
	householdID uint
	events      chan Event
	once        sync.Once
}

// Events is closed when the subscriber is removed or the hub shuts down.
func (subscriber *Subscriber) Events() <-chan Event {
	return subscriber.events
}

func (subscriber *Subscriber) close() {
	subscriber.once.Do(func() { close(subscriber.events) })
}

type Hub struct {
	mu          sync.RWMutex
	revisions   map[uint]uint64
	subscribers map[uint]map[*Subscriber]struct{}
	closed      bool
	buffer      int
	now         func() time.Time
}

func NewHub() *Hub {
	return &Hub{
		revisions:   make(map[uint]uint64),
		subscribers: make(map[uint]map[*Subscriber]struct{}),
		buffer:      defaultBuffer,
		now:         time.Now,
	}
}

func (hub *Hub) Revision(householdID uint) uint64 {
	hub.mu.RLock()
	defer hub.mu.RUnlock()
	return hub.revisions[householdID]
}

// Publish bumps the household revision and offers the event to every
// subscriber. A subscriber whose buffer is full misses the event; the next
// one still carries the newer revision.
func (hub *Hub) Publish(householdID uint, kind string, weekKey string) Event {
	hub.mu.Lock()
	defer hub.mu.Unlock()
	hub.revisions[householdID]++
	event := Event{
		HouseholdID: householdID,
		Revision:    hub.revisions[householdID],
		Kind:        kind,
		WeekKey:     weekKey,
		At:          hub.now().UTC(),
	}
	for subscriber := range hub.subscribers[householdID] {
		select {
		case subscriber.events <- event:
		default:
		}
	}
	return event
}

// Subscribe returns nil after Close.
func (hub *Hub) Subscribe(householdID uint) *Subscriber {
	hub.mu.Lock()
	defer hub.mu.Unlock()
	if hub.closed {
		return nil
	}

	subscriber := &Subscriber{householdID: householdID, events: make(chan Event, hub.buffer)}
	if hub.subscribers[householdID] == nil {
		hub.subscribers[householdID] = make(map[*Subscriber]struct{})
	}
	hub.subscribers[householdID][subscriber] = struct{}{}
	return subscriber
}

func (hub *Hub) Unsubscribe(subscriber *Subscriber) {
	if subscriber == nil {
		return
	}
	hub.mu.Lock()
	if set := hub.subscribers[subscriber.householdID]; set != nil {
		delete(set, subscriber)
		if len(set) == 0 {
			delete(hub.subscribers, subscriber.householdID)
		}
	}
	hub.mu.Unlock()
	subscriber.close()
}

func (hub *Hub) SubscriberCount(householdID uint) int {
	hub.mu.RLock()
	defer hub.mu.RUnlock()
	return len(hub.subscribers[householdID])
}

// Close ends every subscription. Publishing after Close still counts
// revisions but reaches nobody.
func (hub *Hub) Close() {
	hub.mu.Lock()
	defer hub.mu.Unlock()
	if hub.closed {
		return
	}
	hub.closed = true
	for householdID, set := range hub.subscribers {
		for subscriber := range set {
			subscriber.close()
		}
		delete(hub.subscribers, householdID)
	}
}
