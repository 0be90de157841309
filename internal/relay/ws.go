package relay

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"signet/internal/domain"
)

const (
	dialTimeout  = 10 * time.Second
	subBufferLen = 32
)

// WS is a websocket relay client.
type WS struct {
	url  string
	conn *websocket.Conn

	writeMu sync.Mutex // one writer on the socket at a time

	mu   sync.Mutex
	subs map[string]chan domain.Event

	closeOnce sync.Once
	done      chan struct{}
}

// Dial connects to the relay at url. It satisfies domain.DialFunc.
func Dial(ctx context.Context, url string) (domain.RelayClient, error) {
	d := websocket.Dialer{HandshakeTimeout: dialTimeout}
	conn, _, err := d.DialContext(ctx, url, nil)
	if err != nil {
		return nil, fmt.Errorf("dialing relay %s: %w", url, err)
	}
	c := &WS{
		url:  url,
		conn: conn,
		subs: make(map[string]chan domain.Event),
		done: make(chan struct{}),
	}
	go c.readLoop()
	return c, nil
}

func (c *WS) Publish(ctx context.Context, ev domain.Event) error {
	return c.writeFrame([]any{"EVENT", ev})
}

func (c *WS) Subscribe(ctx context.Context, f domain.Filter) (<-chan domain.Event, error) {
	id := uuid.NewString()
	ch := make(chan domain.Event, subBufferLen)

	c.mu.Lock()
	c.subs[id] = ch
	c.mu.Unlock()

	if err := c.writeFrame([]any{"REQ", id, f}); err != nil {
		c.unsubscribe(id)
		return nil, err
	}

	go func() {
		select {
		case <-ctx.Done():
			_ = c.writeFrame([]any{"CLOSE", id})
		case <-c.done:
		}
		c.unsubscribe(id)
	}()
	return ch, nil
}

func (c *WS) Close() error {
	var err error
	c.closeOnce.Do(func() {
		close(c.done)
		err = c.conn.Close()
	})
	return err
}

func (c *WS) writeFrame(frame []any) error {
	c.writeMu.Lock()
	defer c.writeMu.Unlock()
	if err := c.conn.WriteJSON(frame); err != nil {
		return fmt.Errorf("relay write %s: %w", c.url, err)
	}
	return nil
}

// readLoop routes inbound EVENT frames to their subscriptions until the
// connection drops, then closes every subscription channel.
func (c *WS) readLoop() {
	defer c.closeAllSubs()
	for {
		_, data, err := c.conn.ReadMessage()
		if err != nil {
			return
		}
		var frame []json.RawMessage
		if err := json.Unmarshal(data, &frame); err != nil || len(frame) < 3 {
			continue
		}
		var label string
		if err := json.Unmarshal(frame[0], &label); err != nil || label != "EVENT" {
			continue
		}
		var subID string
		if err := json.Unmarshal(frame[1], &subID); err != nil {
			continue
		}
		var ev domain.Event
		if err := json.Unmarshal(frame[2], &ev); err != nil {
			continue
		}
		c.mu.Lock()
		if ch, ok := c.subs[subID]; ok {
			select {
			case ch <- ev:
			default: // slow consumer, drop
			}
		}
		c.mu.Unlock()
	}
}

func (c *WS) unsubscribe(id string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if ch, ok := c.subs[id]; ok {
		delete(c.subs, id)
		close(ch)
	}
}

func (c *WS) closeAllSubs() {
	c.mu.Lock()
	defer c.mu.Unlock()
	for id, ch := range c.subs {
		delete(c.subs, id)
		close(ch)
	}
}

var _ domain.RelayClient = (*WS)(nil)
