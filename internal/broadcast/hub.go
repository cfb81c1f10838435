package broadcast

import (
	"sync"

	"github.com/ozanyurt/voice-campaign-service/pkg/logger"
)

const defaultSubscriberBuffer = 64

// Subscriber is one observer's view of the event stream. Events arrive on
// Events in publish order; the channel is closed on Unsubscribe.
type Subscriber struct {
	Events chan string
}

// Hub fans campaign progress events out to every live subscriber. Publish
// never blocks: a subscriber whose buffer is full just misses the event.
// There is no replay — observers only see events published while they are
// subscribed.
type Hub struct {
	mu          sync.RWMutex
	subscribers map[*Subscriber]struct{}
	bufferSize  int
}

func NewHub() *Hub {
	return &Hub{
		subscribers: make(map[*Subscriber]struct{}),
		bufferSize:  defaultSubscriberBuffer,
	}
}

func (h *Hub) Subscribe() *Subscriber {
	sub := &Subscriber{Events: make(chan string, h.bufferSize)}

	h.mu.Lock()
	h.subscribers[sub] = struct{}{}
	h.mu.Unlock()

	return sub
}

func (h *Hub) Unsubscribe(sub *Subscriber) {
	h.mu.Lock()
	if _, ok := h.subscribers[sub]; ok {
		delete(h.subscribers, sub)
		close(sub.Events)
	}
	h.mu.Unlock()
}

func (h *Hub) Publish(event string) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	for sub := range h.subscribers {
		select {
		case sub.Events <- event:
		default:
			// Slow observer: drop rather than stall the campaign loop.
			logger.Debugf("Dropping progress event for slow subscriber")
		}
	}
}

// SubscriberCount is used by the health endpoint.
func (h *Hub) SubscriberCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.subscribers)
}
