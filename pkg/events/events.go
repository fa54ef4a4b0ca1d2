package events

import (
	"sort"
	"sync"
	"time"

	"github.com/cuemby/arenafeed/pkg/metrics"
	"github.com/cuemby/arenafeed/pkg/types"
	"github.com/google/uuid"
)

// EventType represents the type of event
type EventType string

const (
	// EventDirty asks observers to recompute every consumer of the categories
	EventDirty EventType = "feedback.dirty"
	// EventRecheck asks observers to recompute specific consumers
	EventRecheck EventType = "feedback.recheck"
)

// DefaultFlushInterval is the batching window for dirty notifications
const DefaultFlushInterval = 50 * time.Millisecond

// Event is one flushed batch of invalidations
type Event struct {
	ID         string
	Type       EventType
	Timestamp  time.Time
	Categories []string
	Consumers  []types.ConsumerID
}

// Notifier is told which feedback categories need re-evaluation
type Notifier interface {
	MarkDirty(categories ...string)
	RecheckConsumer(consumer types.ConsumerID)
}

// Subscriber is a channel that receives events
type Subscriber chan *Event

// Broker batches invalidations and distributes them to subscribers.
// MarkDirty and RecheckConsumer never block; pending work is coalesced
// until the next flush.
type Broker struct {
	mu          sync.Mutex
	subscribers map[Subscriber]bool
	categories  map[string]struct{}
	consumers   map[types.ConsumerID]struct{}

	interval time.Duration
	stopCh   chan struct{}
	stopOnce sync.Once
}

// NewBroker creates a new broker flushing every interval
func NewBroker(interval time.Duration) *Broker {
	if interval <= 0 {
		interval = DefaultFlushInterval
	}
	return &Broker{
		subscribers: make(map[Subscriber]bool),
		categories:  make(map[string]struct{}),
		consumers:   make(map[types.ConsumerID]struct{}),
		interval:    interval,
		stopCh:      make(chan struct{}),
	}
}

// Start begins the broker's flush loop
func (b *Broker) Start() {
	go b.run()
}

// Stop stops the broker
func (b *Broker) Stop() {
	b.stopOnce.Do(func() { close(b.stopCh) })
}

// Subscribe creates a new subscription and returns a channel
func (b *Broker) Subscribe() Subscriber {
	b.mu.Lock()
	defer b.mu.Unlock()

	sub := make(Subscriber, 50) // Buffer per subscriber
	b.subscribers[sub] = true
	return sub
}

// Unsubscribe removes a subscription
func (b *Broker) Unsubscribe(sub Subscriber) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if _, ok := b.subscribers[sub]; !ok {
		return
	}
	delete(b.subscribers, sub)
	close(sub)
}

// MarkDirty queues categories for re-evaluation
func (b *Broker) MarkDirty(categories ...string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	for _, c := range categories {
		b.categories[c] = struct{}{}
	}
}

// RecheckConsumer queues a single consumer for re-evaluation
func (b *Broker) RecheckConsumer(consumer types.ConsumerID) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.consumers[consumer] = struct{}{}
}

// Flush broadcasts pending work immediately
func (b *Broker) Flush() {
	b.mu.Lock()
	categories := make([]string, 0, len(b.categories))
	for c := range b.categories {
		categories = append(categories, c)
	}
	consumers := make([]types.ConsumerID, 0, len(b.consumers))
	for c := range b.consumers {
		consumers = append(consumers, c)
	}
	b.categories = make(map[string]struct{})
	b.consumers = make(map[types.ConsumerID]struct{})
	b.mu.Unlock()

	now := time.Now()
	if len(categories) > 0 {
		sort.Strings(categories)
		b.broadcast(&Event{
			ID:         uuid.NewString(),
			Type:       EventDirty,
			Timestamp:  now,
			Categories: categories,
		})
		metrics.DirtyBatchesTotal.Inc()
	}
	if len(consumers) > 0 {
		sort.Slice(consumers, func(i, j int) bool { return consumers[i] < consumers[j] })
		b.broadcast(&Event{
			ID:        uuid.NewString(),
			Type:      EventRecheck,
			Timestamp: now,
			Consumers: consumers,
		})
	}
}

func (b *Broker) run() {
	ticker := time.NewTicker(b.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			b.Flush()
		case <-b.stopCh:
			b.Flush()
			return
		}
	}
}

func (b *Broker) broadcast(event *Event) {
	b.mu.Lock()
	defer b.mu.Unlock()

	for sub := range b.subscribers {
		select {
		case sub <- event:
		default:
			// Subscriber buffer full, skip
		}
	}
}

// SubscriberCount returns the number of active subscribers
func (b *Broker) SubscriberCount() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.subscribers)
}
