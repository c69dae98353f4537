package network

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/automoto/superpong-mp/shared/messages"
	"github.com/automoto/superpong-mp/shared/protocol"
	"github.com/gorilla/websocket"
)

const writeWait = 10 * time.Second

// WSClient speaks the browser JSON protocol. Unlike Client it receives the
// full GameState every tick.
type WSClient struct {
	conn *websocket.Conn
	wmu  sync.Mutex

	welcome messages.Welcome
	stateCh chan messages.GameState // size-1 buffered; latest wins
	eventCh chan any
	done    chan struct{}
	err     error
}

// DialWS connects to a browser websocket endpoint such as
// ws://host:8080/ws and waits for the welcome message.
func DialWS(ctx context.Context, url string) (*WSClient, error) {
	conn, _, err := websocket.DefaultDialer.DialContext(ctx, url, nil)
	if err != nil {
		return nil, fmt.Errorf("dial %s: %w", url, err)
	}

	c := &WSClient{
		conn:    conn,
		stateCh: make(chan messages.GameState, 1),
		eventCh: make(chan any, eventBuffer),
		done:    make(chan struct{}),
	}

	if deadline, ok := ctx.Deadline(); ok {
		conn.SetReadDeadline(deadline)
	}
	for {
		msg, err := c.read()
		if err != nil {
			conn.Close()
			return nil, fmt.Errorf("await welcome: %w", err)
		}
		if w, ok := msg.(messages.Welcome); ok {
			c.welcome = w
			break
		}
	}
	conn.SetReadDeadline(time.Time{})

	go c.readLoop()
	return c, nil
}

func (c *WSClient) read() (any, error) {
	_, data, err := c.conn.ReadMessage()
	if err != nil {
		return nil, err
	}
	return protocol.DecodeServer(data)
}

func (c *WSClient) readLoop() {
	defer close(c.done)
	for {
		msg, err := c.read()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				log.Printf("[wsclient] read: %v", err)
			}
			c.err = err
			return
		}
		switch m := msg.(type) {
		case messages.GameState:
			select {
			case <-c.stateCh:
			default:
			}
			c.stateCh <- m
		default:
			select {
			case c.eventCh <- m:
			default:
			}
		}
	}
}

// Welcome returns the handshake the server sent on join.
func (c *WSClient) Welcome() messages.Welcome {
	return c.welcome
}

// States delivers the latest snapshot; older undelivered snapshots are
// discarded.
func (c *WSClient) States() <-chan messages.GameState {
	return c.stateCh
}

// DrainEvents returns all pending events in arrival order, non-blocking.
func (c *WSClient) DrainEvents() []any {
	return drainChan(c.eventCh)
}

// Done is closed when the connection is lost.
func (c *WSClient) Done() <-chan struct{} {
	return c.done
}

// Err returns why the connection ended. Valid after Done is closed.
func (c *WSClient) Err() error {
	<-c.done
	return c.err
}

func (c *WSClient) SendMessage(msg any) error {
	data, err := protocol.Encode(msg)
	if err != nil {
		return err
	}
	c.wmu.Lock()
	defer c.wmu.Unlock()
	c.conn.SetWriteDeadline(time.Now().Add(writeWait))
	return c.conn.WriteMessage(websocket.TextMessage, data)
}

// Close sends a close frame and waits for the read loop to end.
func (c *WSClient) Close() error {
	c.wmu.Lock()
	c.conn.WriteControl(websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""), time.Now().Add(writeWait))
	c.wmu.Unlock()

	select {
	case <-c.done:
	case <-time.After(time.Second):
	}
	return c.conn.Close()
}
