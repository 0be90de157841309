package relay

import (
	"context"
	"sync"

	"signet/internal/domain"
)

// Memory is an in-process relay hub. Every client dialled from the same hub
// sees events published by any other, filtered per subscription.
type Memory struct {
	mu   sync.Mutex
	subs map[int]*memorySub
	next int
}

type memorySub struct {
	filter domain.Filter
	ch     chan domain.Event
}

func NewMemory() *Memory {
	return &Memory{subs: make(map[int]*memorySub)}
}

// Dial returns a client attached to the hub, ignoring the URL. It satisfies
// domain.DialFunc.
func (m *Memory) Dial(ctx context.Context, url string) (domain.RelayClient, error) {
	return &memoryClient{hub: m}, nil
}

func (m *Memory) publish(ev domain.Event) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, sub := range m.subs {
		if sub.filter.Matches(ev) {
			select {
			case sub.ch <- ev:
			default:
			}
		}
	}
}

func (m *Memory) subscribe(ctx context.Context, f domain.Filter) <-chan domain.Event {
	m.mu.Lock()
	id := m.next
	m.next++
	sub := &memorySub{filter: f, ch: make(chan domain.Event, subBufferLen)}
	m.subs[id] = sub
	m.mu.Unlock()

	go func() {
		<-ctx.Done()
		m.mu.Lock()
		defer m.mu.Unlock()
		if _, ok := m.subs[id]; ok {
			delete(m.subs, id)
			close(sub.ch)
		}
	}()
	return sub.ch
}

type memoryClient struct {
	hub *Memory
}

func (c *memoryClient) Publish(ctx context.Context, ev domain.Event) error {
	c.hub.publish(ev)
	return nil
}

func (c *memoryClient) Subscribe(ctx context.Context, f domain.Filter) (<-chan domain.Event, error) {
	return c.hub.subscribe(ctx, f), nil
}

func (c *memoryClient) Close() error { return nil }

var _ domain.RelayClient = (*memoryClient)(nil)
