package bus

import "sync"

// Topic names shared across the client core.
const (
	TopicSessionExpired = "auth:expired"
)

// Bus is a tiny in-process broadcaster. The commerce client publishes
// session-expiry on it and the auth store subscribes; neither side knows
// about the other.
type Bus struct {
	mu   sync.RWMutex
	subs map[string][]func()
}

func New() *Bus {
	return &Bus{subs: make(map[string][]func())}
}

func (b *Bus) Subscribe(topic string, fn func()) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.subs[topic] = append(b.subs[topic], fn)
}

// Publish invokes subscribers synchronously, in subscription order.
func (b *Bus) Publish(topic string) {
	b.mu.RLock()
	handlers := append([]func(){}, b.subs[topic]...)
	b.mu.RUnlock()

	for _, fn := range handlers {
		fn()
	}
}
