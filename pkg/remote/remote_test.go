package remote

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/cuemby/arenafeed/pkg/types"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLedgerTracksActiveSet(t *testing.T) {
	l := NewLedger(nil)

	l.SubscribePath("/composition/columns/1/select")
	l.SubscribePath("/composition/columns/1/select")
	l.SubscribeParam(42)
	l.UnsubscribePath("/composition/columns/2/select")

	assert.Equal(t, []string{"/composition/columns/1/select"}, l.ActivePaths())
	assert.Equal(t, []int64{42}, l.ActiveParams())
	assert.Equal(t, Calls{SubscribePath: 2, UnsubscribePath: 1, SubscribeParam: 1}, l.Calls())

	l.UnsubscribeParam(42)
	assert.Empty(t, l.ActiveParams())

	l.ResetCalls()
	assert.Equal(t, Calls{}, l.Calls())
	assert.Len(t, l.ActivePaths(), 1)

	l.Forget()
	assert.Empty(t, l.ActivePaths())
}

func TestLedgerForwards(t *testing.T) {
	inner := NewLedger(nil)
	l := NewLedger(inner)

	l.SubscribeParam(7)
	l.SubscribePath("/a")
	l.UnsubscribePath("/a")

	assert.Equal(t, []int64{7}, inner.ActiveParams())
	assert.Equal(t, Calls{SubscribePath: 1, UnsubscribePath: 1, SubscribeParam: 1}, inner.Calls())
}

func TestParamPath(t *testing.T) {
	assert.Equal(t, "/parameter/by-id/123", ParamPath(123))
}

type recordingHandler struct {
	mu      sync.Mutex
	comps   []*types.Composition
	updates []types.Update
}

func (h *recordingHandler) HandleComposition(comp *types.Composition) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.comps = append(h.comps, comp)
}

func (h *recordingHandler) HandleUpdate(update types.Update) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.updates = append(h.updates, update)
}

func (h *recordingHandler) counts() (int, int) {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.comps), len(h.updates)
}

func TestClientRoundTrip(t *testing.T) {
	received := make(chan request, 4)
	upgrader := websocket.Upgrader{}

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		defer conn.Close()

		_ = conn.WriteMessage(websocket.TextMessage, []byte(`{"layers":[{"id":1,"clips":[{"id":2}]}],"columns":[],"decks":[]}`))
		_ = conn.WriteMessage(websocket.TextMessage, []byte(`{"type":"parameter_update","path":"/composition/columns/1/select","id":9,"value":true}`))
		_ = conn.WriteMessage(websocket.TextMessage, []byte(`{"type":"thumbnail_update"}`))

		for {
			var req request
			if err := conn.ReadJSON(&req); err != nil {
				return
			}
			received <- req
		}
	}))
	defer srv.Close()

	handler := &recordingHandler{}
	client := NewClient("ws" + strings.TrimPrefix(srv.URL, "http"))

	var states []bool
	var stateMu sync.Mutex
	client.OnStateChange(func(up bool) {
		stateMu.Lock()
		states = append(states, up)
		stateMu.Unlock()
	})

	client.SubscribePath("/composition/columns/1/select")
	client.UnsubscribeParam(5)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- client.Run(ctx, handler) }()

	first := <-received
	second := <-received
	assert.Equal(t, request{Action: "subscribe", Parameter: "/composition/columns/1/select"}, first)
	assert.Equal(t, request{Action: "unsubscribe", Parameter: "/parameter/by-id/5"}, second)

	require.Eventually(t, func() bool {
		comps, updates := handler.counts()
		return comps == 1 && updates == 1
	}, time.Second, 10*time.Millisecond)

	handler.mu.Lock()
	assert.Len(t, handler.comps[0].Layers, 1)
	assert.Equal(t, "/composition/columns/1/select", handler.updates[0].Path)
	assert.Equal(t, true, handler.updates[0].Value)
	handler.mu.Unlock()

	assert.True(t, client.Connected())

	cancel()
	require.NoError(t, <-done)
	assert.False(t, client.Connected())

	stateMu.Lock()
	assert.Equal(t, []bool{true, false}, states)
	stateMu.Unlock()
}

func TestClientReconnectDeliversEveryRequest(t *testing.T) {
	received := make(chan request, 64)
	upgrader := websocket.Upgrader{}
	var conns atomic.Int32

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		defer conn.Close()

		// the first connection is dropped straight away
		if conns.Add(1) == 1 {
			return
		}
		for {
			var req request
			if err := conn.ReadJSON(&req); err != nil {
				return
			}
			received <- req
		}
	}))
	defer srv.Close()

	client := NewClient("ws" + strings.TrimPrefix(srv.URL, "http"))
	ups := make(chan struct{}, 4)
	client.OnStateChange(func(up bool) {
		if up {
			ups <- struct{}{}
		}
	})

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- client.Serve(ctx, &recordingHandler{}, 10*time.Millisecond) }()

	for i := 0; i < 2; i++ {
		select {
		case <-ups:
		case <-time.After(2 * time.Second):
			t.Fatalf("connection %d never came up", i+1)
		}
	}

	const count = 20
	for i := 0; i < count; i++ {
		client.SubscribePath(fmt.Sprintf("/composition/columns/%d/select", i+1))
	}

	for i := 0; i < count; i++ {
		select {
		case req := <-received:
			assert.Equal(t, fmt.Sprintf("/composition/columns/%d/select", i+1), req.Parameter)
		case <-time.After(2 * time.Second):
			t.Fatalf("received %d of %d requests after reconnect", i, count)
		}
	}
	assert.Equal(t, int32(2), conns.Load())

	cancel()
	require.NoError(t, <-done)
}

func TestClientDialFailure(t *testing.T) {
	client := NewClient("ws://127.0.0.1:1/api")
	err := client.Run(context.Background(), &recordingHandler{})
	assert.Error(t, err)
}

func TestClientServeStopsOnCancel(t *testing.T) {
	client := NewClient("ws://127.0.0.1:1/api")
	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	assert.NoError(t, client.Serve(ctx, &recordingHandler{}, 10*time.Millisecond))
}

func TestClientClose(t *testing.T) {
	client := NewClient("ws://127.0.0.1:1/api")
	require.NoError(t, client.Close())
	assert.ErrorIs(t, client.Close(), ErrClosed)

	client.SubscribePath("/ignored")
	assert.Len(t, client.sendCh, 0)
}
