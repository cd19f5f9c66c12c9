package events

import (
	"context"
	"errors"
	"sync"

	"github.com/dd0wney/mindmapr/pkg/metrics"
)

// ErrBrokerClosed is returned by Subscribe after Shutdown
var ErrBrokerClosed = errors.New("event broker is shut down")

// subscriptionBuffer is the per-subscriber channel depth. Slow
// consumers drop events rather than block publishers.
const subscriptionBuffer = 100

// Broker routes map events to subscribers. Topics are map IDs.
type Broker struct {
	subscribers map[string]map[*Subscription]bool
	mu          sync.RWMutex
	shutdown    chan struct{}
	shutdownMu  sync.Mutex
	isShutdown  bool
	metrics     *metrics.Registry
}

// Subscription is one subscriber's view of a map topic
type Subscription struct {
	mapID   string
	channel chan Event
	broker  *Broker
	ctx     context.Context
	cancel  context.CancelFunc

	// sendMu orders sends against close so Publish never writes
	// to a channel a concurrent Unsubscribe has already closed
	sendMu sync.Mutex
	closed bool
}

// NewBroker creates an event broker
func NewBroker(reg *metrics.Registry) *Broker {
	return &Broker{
		subscribers: make(map[string]map[*Subscription]bool),
		shutdown:    make(chan struct{}),
		metrics:     reg,
	}
}

// Subscribe registers for events on one map. The subscription ends
// when ctx is cancelled, Unsubscribe is called, or the broker shuts down.
func (b *Broker) Subscribe(ctx context.Context, mapID string) (*Subscription, error) {
	b.shutdownMu.Lock()
	if b.isShutdown {
		b.shutdownMu.Unlock()
		return nil, ErrBrokerClosed
	}
	b.shutdownMu.Unlock()

	subCtx, cancel := context.WithCancel(ctx)
	sub := &Subscription{
		mapID:   mapID,
		channel: make(chan Event, subscriptionBuffer),
		broker:  b,
		ctx:     subCtx,
		cancel:  cancel,
	}

	b.mu.Lock()
	if b.subscribers[mapID] == nil {
		b.subscribers[mapID] = make(map[*Subscription]bool)
	}
	b.subscribers[mapID][sub] = true
	subscriberCount := b.totalSubscribersLocked()
	b.mu.Unlock()

	if b.metrics != nil {
		b.metrics.EventSubscribers.Set(float64(subscriberCount))
	}

	go func() {
		select {
		case <-subCtx.Done():
			sub.Unsubscribe()
		case <-b.shutdown:
			sub.close()
		}
	}()

	return sub, nil
}

// Publish delivers an event to every subscriber of its map.
// Subscriber channels are written outside the lock; full channels
// are skipped rather than blocked on.
func (b *Broker) Publish(event Event) {
	b.shutdownMu.Lock()
	if b.isShutdown {
		b.shutdownMu.Unlock()
		return
	}
	b.shutdownMu.Unlock()

	if b.metrics != nil {
		b.metrics.RecordEventPublished(event.Type)
	}

	b.mu.RLock()
	topicSubs := b.subscribers[event.MapID]
	if len(topicSubs) == 0 {
		b.mu.RUnlock()
		return
	}
	subs := make([]*Subscription, 0, len(topicSubs))
	for sub := range topicSubs {
		subs = append(subs, sub)
	}
	b.mu.RUnlock()

	for _, sub := range subs {
		sub.send(event)
	}
}

// SubscriberCount returns the number of subscribers for a map
func (b *Broker) SubscriberCount(mapID string) int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.subscribers[mapID])
}

// Shutdown closes every subscription and stops the broker
func (b *Broker) Shutdown() {
	b.shutdownMu.Lock()
	if b.isShutdown {
		b.shutdownMu.Unlock()
		return
	}
	b.isShutdown = true
	b.shutdownMu.Unlock()

	close(b.shutdown)

	b.mu.Lock()
	for mapID := range b.subscribers {
		for sub := range b.subscribers[mapID] {
			sub.close()
		}
		delete(b.subscribers, mapID)
	}
	b.mu.Unlock()

	if b.metrics != nil {
		b.metrics.EventSubscribers.Set(0)
	}
}

func (b *Broker) totalSubscribersLocked() int {
	total := 0
	for _, subs := range b.subscribers {
		total += len(subs)
	}
	return total
}

// Channel returns the subscription's event channel. It is closed
// when the subscription ends.
func (s *Subscription) Channel() <-chan Event {
	return s.channel
}

// Unsubscribe removes the subscription and closes its channel
func (s *Subscription) Unsubscribe() {
	s.cancel()

	s.broker.mu.Lock()
	if s.broker.subscribers[s.mapID] != nil {
		delete(s.broker.subscribers[s.mapID], s)
		if len(s.broker.subscribers[s.mapID]) == 0 {
			delete(s.broker.subscribers, s.mapID)
		}
	}
	remaining := s.broker.totalSubscribersLocked()
	s.broker.mu.Unlock()

	if s.broker.metrics != nil {
		s.broker.metrics.EventSubscribers.Set(float64(remaining))
	}

	s.close()
}

// send delivers one event, dropping it if the channel is full
// or the subscription already ended
func (s *Subscription) send(event Event) {
	s.sendMu.Lock()
	defer s.sendMu.Unlock()
	if s.closed {
		return
	}
	select {
	case s.channel <- event:
	default:
	}
}

func (s *Subscription) close() {
	s.sendMu.Lock()
	defer s.sendMu.Unlock()
	if s.closed {
		return
	}
	s.closed = true
	close(s.channel)
}
