package notify

import "sync"

// Event is pushed to every open back-office tab of a store.
type Event struct {
	Type      string      `json:"type"`
	PlaySound bool        `json:"playSound"`
	Data      interface{} `json:"data,omitempty"`
}

// Hub fans events out to per-store subscribers. Slow subscribers drop
// events instead of blocking the publisher.
type Hub struct {
	mu   sync.Mutex
	subs map[string]map[chan Event]struct{}
}

func NewHub() *Hub {
	return &Hub{subs: map[string]map[chan Event]struct{}{}}
}

// Subscribe registers a listener for storeID. Call the returned func to
// unsubscribe; it closes the channel.
func (h *Hub) Subscribe(storeID string) (<-chan Event, func()) {
	ch := make(chan Event, 8)
	h.mu.Lock()
	if h.subs[storeID] == nil {
		h.subs[storeID] = map[chan Event]struct{}{}
	}
	h.subs[storeID][ch] = struct{}{}
	h.mu.Unlock()

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			h.mu.Lock()
			delete(h.subs[storeID], ch)
			if len(h.subs[storeID]) == 0 {
				delete(h.subs, storeID)
			}
			h.mu.Unlock()
			close(ch)
		})
	}
}

// Publish delivers ev to the store's subscribers and returns how many
// received it.
func (h *Hub) Publish(storeID string, ev Event) int {
	h.mu.Lock()
	defer h.mu.Unlock()
	n := 0
	for ch := range h.subs[storeID] {
		select {
		case ch <- ev:
			n++
		default:
		}
	}
	return n
}
