package relay

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"signet/internal/domain"
)

// newTestRelay runs a minimal relay: REQ registers a subscription id, EVENT
// frames fan out to every registered id on the same connection.
func newTestRelay(t *testing.T) string {
	t.Helper()
	up := websocket.Upgrader{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := up.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		defer conn.Close()

		subs := make(map[string]bool)
		for {
			_, data, err := conn.ReadMessage()
			if err != nil {
				return
			}
			var frame []json.RawMessage
			if err := json.Unmarshal(data, &frame); err != nil || len(frame) < 2 {
				continue
			}
			var label string
			if err := json.Unmarshal(frame[0], &label); err != nil {
				continue
			}
			switch label {
			case "REQ":
				var id string
				if err := json.Unmarshal(frame[1], &id); err == nil {
					subs[id] = true
				}
			case "CLOSE":
				var id string
				if err := json.Unmarshal(frame[1], &id); err == nil {
					delete(subs, id)
				}
			case "EVENT":
				var ev domain.Event
				if err := json.Unmarshal(frame[1], &ev); err != nil {
					continue
				}
				for id := range subs {
					if err := conn.WriteJSON([]any{"EVENT", id, ev}); err != nil {
						return
					}
				}
			}
		}
	}))
	t.Cleanup(srv.Close)
	return "ws" + strings.TrimPrefix(srv.URL, "http")
}

func TestWSDialFailure(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	_, err := Dial(ctx, "ws://127.0.0.1:1")
	assert.Error(t, err)
}

func TestWSPublishSubscribeRoundTrip(t *testing.T) {
	url := newTestRelay(t)
	ctx := context.Background()

	client, err := Dial(ctx, url)
	require.NoError(t, err)
	defer client.Close()

	sub, err := client.Subscribe(ctx, domain.Filter{Kinds: []int{domain.KindSignerRequest}})
	require.NoError(t, err)

	ev := domain.Event{
		ID:        "id",
		PubKey:    "author",
		CreatedAt: time.Now().Unix(),
		Kind:      domain.KindSignerRequest,
		Tags:      [][]string{{"p", "target"}},
		Content:   "payload",
		Sig:       "sig",
	}
	require.NoError(t, client.Publish(ctx, ev))

	select {
	case got := <-sub:
		assert.Equal(t, ev, got)
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for event")
	}
}

func TestWSSubscriptionClosesOnContextCancel(t *testing.T) {
	url := newTestRelay(t)
	client, err := Dial(context.Background(), url)
	require.NoError(t, err)
	defer client.Close()

	ctx, cancel := context.WithCancel(context.Background())
	sub, err := client.Subscribe(ctx, domain.Filter{})
	require.NoError(t, err)

	cancel()
	select {
	case _, ok := <-sub:
		assert.False(t, ok)
	case <-time.After(2 * time.Second):
		t.Fatal("subscription did not close")
	}
}

func TestWSCloseClosesSubscriptions(t *testing.T) {
	url := newTestRelay(t)
	client, err := Dial(context.Background(), url)
	require.NoError(t, err)

	sub, err := client.Subscribe(context.Background(), domain.Filter{})
	require.NoError(t, err)

	require.NoError(t, client.Close())
	select {
	case _, ok := <-sub:
		assert.False(t, ok)
	case <-time.After(2 * time.Second):
		t.Fatal("subscription did not close")
	}
}
