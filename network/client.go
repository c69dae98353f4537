// Package network holds headless Super Pong clients: a native necs client
// and a client for the browser JSON protocol.
package network

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"

	"github.com/automoto/superpong-mp/shared/messages"
	"github.com/coder/websocket"
	"github.com/leap-fish/necs/esync"
	"github.com/leap-fish/necs/router"
	"github.com/leap-fish/necs/transports"
)

var ErrNotConnected = errors.New("not connected")

type ClientState int

const (
	StateDisconnected ClientState = iota
	StateConnecting
	StateConnected
	StateJoined
	StateError
)

// eventBuffer bounds how many undrained events a client keeps.
const eventBuffer = 64

// Client is a native necs connection to a game server. Match state arrives as
// esync world snapshots; discrete events are queued for Drain.
// All shared fields are protected by mu (router callbacks run on necs goroutines).
type Client struct {
	mu sync.RWMutex

	state     ClientState
	lastError error
	welcome   messages.Welcome
	conn      *websocket.Conn

	snapshotCh chan esync.WorldSnapshot // size-1 buffered; latest wins
	eventCh    chan any
}

func NewClient() *Client {
	return &Client{
		state:      StateDisconnected,
		snapshotCh: make(chan esync.WorldSnapshot, 1),
		eventCh:    make(chan any, eventBuffer),
	}
}

// Connect dials the server in a background goroutine. necs routes are process
// global, so only one Client may be connected at a time.
func (c *Client) Connect(address string) {
	c.mu.Lock()
	c.state = StateConnecting
	c.lastError = nil
	c.mu.Unlock()

	router.OnConnect(func(_ *router.NetworkClient) {
		log.Println("[client] connected to server")
		c.mu.Lock()
		c.state = StateConnected
		c.mu.Unlock()
	})

	router.On(func(_ *router.NetworkClient, msg messages.Welcome) {
		log.Printf("[client] welcome: slot=%d server=%s tickRate=%d control=%s",
			msg.Slot, msg.ServerName, msg.TickRate, msg.ControlMode)
		c.mu.Lock()
		c.welcome = msg
		c.state = StateJoined
		c.mu.Unlock()
	})

	router.On(func(_ *router.NetworkClient, snapshot esync.WorldSnapshot) {
		select { // drain stale, push latest
		case <-c.snapshotCh:
		default:
		}
		c.snapshotCh <- snapshot
	})

	onEvent[messages.CountdownUpdate](c)
	onEvent[messages.GameStarted](c)
	onEvent[messages.BallStart](c)
	onEvent[messages.PaddleMoved](c)
	onEvent[messages.PlayerReadyUpdate](c)
	onEvent[messages.RoundReset](c)
	onEvent[messages.MatchFinished](c)

	router.OnDisconnect(func(_ *router.NetworkClient, err error) {
		log.Printf("[client] disconnected: %v", err)
		c.mu.Lock()
		if c.state != StateError {
			c.state = StateDisconnected
		}
		c.conn = nil
		c.mu.Unlock()
	})

	router.OnError(func(_ *router.NetworkClient, err error) {
		log.Printf("[client] error: %v", err)
	})

	go func() {
		transport := transports.NewWsClientTransport("ws://" + address)
		err := transport.Start(func(conn *websocket.Conn) {
			c.mu.Lock()
			c.conn = conn
			c.mu.Unlock()
		})
		if err != nil {
			c.setError(fmt.Errorf("connection failed: %w", err))
		}
	}()
}

// onEvent queues every T the server sends. A full queue drops the event.
func onEvent[T any](c *Client) {
	router.On(func(_ *router.NetworkClient, evt T) {
		c.pushEvent(evt)
	})
}

func (c *Client) pushEvent(evt any) {
	select {
	case c.eventCh <- evt:
	default:
	}
}

func (c *Client) Disconnect() {
	c.mu.Lock()
	conn := c.conn
	c.state = StateDisconnected
	c.conn = nil
	c.mu.Unlock()

	if conn != nil {
		_ = conn.CloseNow()
	}

	router.ResetRouter()
}

func (c *Client) State() ClientState {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.state
}

func (c *Client) LastError() error {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.lastError
}

// Welcome returns the handshake received from the server, if any.
func (c *Client) Welcome() (messages.Welcome, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.welcome, c.state == StateJoined
}

// LatestSnapshot returns the most recent WorldSnapshot, or nil. Non-blocking.
func (c *Client) LatestSnapshot() *esync.WorldSnapshot {
	select {
	case snap := <-c.snapshotCh:
		return &snap
	default:
		return nil
	}
}

// DrainEvents returns all pending events in arrival order, non-blocking.
func (c *Client) DrainEvents() []any {
	return drainChan(c.eventCh)
}

func (c *Client) SendMessage(msg any) error {
	c.mu.RLock()
	conn := c.conn
	c.mu.RUnlock()

	if conn == nil {
		return ErrNotConnected
	}

	payload, err := router.Serialize(msg)
	if err != nil {
		return fmt.Errorf("serialize: %w", err)
	}

	return conn.Write(context.Background(), websocket.MessageBinary, payload)
}

func (c *Client) setError(err error) {
	c.mu.Lock()
	c.state = StateError
	c.lastError = err
	c.mu.Unlock()
}

func drainChan[T any](ch chan T) []T {
	var out []T
	for {
		select {
		case v := <-ch:
			out = append(out, v)
		default:
			return out
		}
	}
}
