package remote

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/cuemby/arenafeed/pkg/log"
	"github.com/cuemby/arenafeed/pkg/types"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"
)

const (
	writeWait   = 10 * time.Second
	sendBufSize = 1024
)

// Handler receives decoded inbound messages
type Handler interface {
	HandleComposition(comp *types.Composition)
	HandleUpdate(update types.Update)
}

// request is an outbound subscribe/unsubscribe frame
type request struct {
	Action    string `json:"action"`
	Parameter string `json:"parameter"`
}

// envelope is used to classify an inbound frame before decoding it fully
type envelope struct {
	Type    string          `json:"type"`
	Layers  json.RawMessage `json:"layers"`
	Columns json.RawMessage `json:"columns"`
	Decks   json.RawMessage `json:"decks"`
}

// Client is a websocket implementation of Channel.
// Requests issued before Run connects are queued and sent once connected.
type Client struct {
	url    string
	dialer *websocket.Dialer
	logger zerolog.Logger

	sendCh chan request

	mu        sync.Mutex
	connected bool
	closed    bool
	onState   func(connected bool)
}

// NewClient creates a client for the websocket at url
func NewClient(url string) *Client {
	return &Client{
		url:    url,
		dialer: websocket.DefaultDialer,
		logger: log.WithComponent("remote"),
		sendCh: make(chan request, sendBufSize),
	}
}

// OnStateChange registers a callback invoked when the connection goes up or down
func (c *Client) OnStateChange(fn func(connected bool)) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.onState = fn
}

// Connected reports whether the websocket is currently open
func (c *Client) Connected() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.connected
}

func (c *Client) SubscribePath(path string) {
	c.enqueue(request{Action: "subscribe", Parameter: path})
}

func (c *Client) UnsubscribePath(path string) {
	c.enqueue(request{Action: "unsubscribe", Parameter: path})
}

func (c *Client) SubscribeParam(id int64) {
	c.enqueue(request{Action: "subscribe", Parameter: ParamPath(id)})
}

func (c *Client) UnsubscribeParam(id int64) {
	c.enqueue(request{Action: "unsubscribe", Parameter: ParamPath(id)})
}

func (c *Client) enqueue(req request) {
	c.mu.Lock()
	closed := c.closed
	c.mu.Unlock()
	if closed {
		return
	}

	select {
	case c.sendCh <- req:
	default:
		c.logger.Warn().
			Str("action", req.Action).
			Str("parameter", req.Parameter).
			Msg("send buffer full, dropping request")
	}
}

// Serve runs the client until ctx is cancelled, redialling retry after every
// failed or dropped connection.
func (c *Client) Serve(ctx context.Context, handler Handler, retry time.Duration) error {
	for {
		err := c.Run(ctx, handler)
		if ctx.Err() != nil {
			return nil
		}
		c.logger.Warn().Err(err).Dur("retry", retry).Msg("websocket disconnected")

		select {
		case <-ctx.Done():
			return nil
		case <-time.After(retry):
		}
	}
}

// Run dials the server and delivers decoded frames to handler until ctx is
// cancelled or the connection fails. It returns nil only when ctx is
// cancelled.
func (c *Client) Run(ctx context.Context, handler Handler) error {
	conn, _, err := c.dialer.DialContext(ctx, c.url, nil)
	if err != nil {
		return fmt.Errorf("failed to dial %s: %w", c.url, err)
	}
	defer conn.Close()

	c.setConnected(true)
	defer c.setConnected(false)
	c.logger.Info().Str("url", c.url).Msg("websocket connected")

	// The writer must be gone before Run returns; a redial must not share
	// sendCh with a loop still bound to this connection.
	connCtx, cancel := context.WithCancel(ctx)
	writerDone := make(chan struct{})
	defer func() {
		cancel()
		<-writerDone
	}()

	errCh := make(chan error, 2)
	go func() { errCh <- c.readLoop(conn, handler) }()
	go func() {
		defer close(writerDone)
		errCh <- c.writeLoop(connCtx, conn)
	}()

	select {
	case <-ctx.Done():
		_ = conn.WriteControl(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
			time.Now().Add(writeWait))
		return nil
	case err := <-errCh:
		return err
	}
}

// Close stops accepting new requests
func (c *Client) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return ErrClosed
	}
	c.closed = true
	return nil
}

func (c *Client) setConnected(up bool) {
	c.mu.Lock()
	c.connected = up
	fn := c.onState
	c.mu.Unlock()
	if fn != nil {
		fn(up)
	}
}

func (c *Client) writeLoop(ctx context.Context, conn *websocket.Conn) error {
	for {
		select {
		case <-ctx.Done():
			return nil
		case req := <-c.sendCh:
			_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteJSON(req); err != nil {
				return fmt.Errorf("failed to write %s %s: %w", req.Action, req.Parameter, err)
			}
		}
	}
}

func (c *Client) readLoop(conn *websocket.Conn, handler Handler) error {
	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			return fmt.Errorf("websocket read failed: %w", err)
		}
		c.decode(data, handler)
	}
}

func (c *Client) decode(data []byte, handler Handler) {
	var env envelope
	if err := json.Unmarshal(data, &env); err != nil {
		c.logger.Warn().Err(err).Msg("failed to decode frame")
		return
	}

	switch env.Type {
	case "parameter_update", "parameter_subscribed", "parameter_set":
		var upd types.Update
		if err := json.Unmarshal(data, &upd); err != nil {
			c.logger.Warn().Err(err).Msg("failed to decode parameter update")
			return
		}
		if upd.Path == "" {
			return
		}
		handler.HandleUpdate(upd)
	case "":
		if env.Layers == nil && env.Columns == nil && env.Decks == nil {
			return
		}
		var comp types.Composition
		if err := json.Unmarshal(data, &comp); err != nil {
			c.logger.Warn().Err(err).Msg("failed to decode composition")
			return
		}
		handler.HandleComposition(&comp)
	default:
		c.logger.Debug().Str("type", env.Type).Msg("ignoring frame")
	}
}
