package core

import (
	"context"
	"log"
	"sync"

	"github.com/automoto/superpong-mp/shared/messages"
	"github.com/leap-fish/necs/router"
	"github.com/leap-fish/necs/transports"
)

// messageSender is the part of a necs connection the gateway writes to.
type messageSender interface {
	SendMessage(msg any) error
}

// necsPeer adapts a necs client connection to Peer. Full snapshots are not
// forwarded: necs clients receive world state through esync replication.
type necsPeer struct {
	id    string
	conn  messageSender
	queue *sendQueue
}

func newNecsPeer(id string, conn messageSender) *necsPeer {
	p := &necsPeer{id: id, conn: conn, queue: newSendQueue(sendQueueSize)}
	go func() {
		if err := p.queue.drain(p.conn.SendMessage); err != nil {
			log.Printf("[necs] write to %s: %v", p.id, err)
		}
	}()
	return p
}

func (p *necsPeer) ID() string { return p.id }

func (p *necsPeer) Send(msg any) error {
	if _, ok := msg.(messages.GameState); ok {
		return nil
	}
	return p.queue.push(msg)
}

func (p *necsPeer) Close() error {
	p.queue.close()
	return nil
}

// NecsGateway accepts native clients over the necs websocket transport and
// routes their messages into the match.
type NecsGateway struct {
	match     *Match
	transport *transports.WsServerTransport

	mu    sync.Mutex
	peers map[*router.NetworkClient]*necsPeer
}

// NewNecsGateway registers the router callbacks. necs routes are process
// global, so only one gateway may exist.
func NewNecsGateway(match *Match) *NecsGateway {
	g := &NecsGateway{
		match: match,
		peers: make(map[*router.NetworkClient]*necsPeer),
	}
	g.setupRouterCallbacks()
	return g
}

// Start serves the necs transport on port. It blocks until the listener fails.
func (g *NecsGateway) Start(port uint) error {
	g.transport = transports.NewWsServerTransport(port, "", nil)
	log.Printf("[necs] listening on port %d", port)
	return g.transport.Start()
}

func (g *NecsGateway) setupRouterCallbacks() {
	router.OnConnect(func(client *router.NetworkClient) {
		g.onConnect(client)
	})

	router.OnDisconnect(func(client *router.NetworkClient, err error) {
		g.onDisconnect(client, err)
	})

	router.On(func(client *router.NetworkClient, msg messages.MovePaddle) {
		g.submit(client, msg)
	})

	router.On(func(client *router.NetworkClient, msg messages.PlayerReady) {
		g.submit(client, msg)
	})

	router.On(func(client *router.NetworkClient, msg messages.ResetGame) {
		g.submit(client, msg)
	})

	router.OnError(func(client *router.NetworkClient, err error) {
		log.Printf("[necs] client error: %v", err)
	})
}

func (g *NecsGateway) onConnect(client *router.NetworkClient) {
	log.Printf("[necs] client connected: %s", client.Id())

	p := newNecsPeer(client.Id(), client)
	g.mu.Lock()
	g.peers[client] = p
	g.mu.Unlock()

	if _, err := g.match.Join(context.Background(), p); err != nil {
		log.Printf("[necs] join %s: %v", client.Id(), err)
		g.forget(client)
	}
}

func (g *NecsGateway) onDisconnect(client *router.NetworkClient, err error) {
	if err != nil {
		log.Printf("[necs] client %s disconnected with error: %v", client.Id(), err)
	} else {
		log.Printf("[necs] client %s disconnected", client.Id())
	}
	if p := g.forget(client); p != nil {
		g.match.Leave(p.ID())
	}
}

func (g *NecsGateway) forget(client *router.NetworkClient) *necsPeer {
	g.mu.Lock()
	defer g.mu.Unlock()
	p, ok := g.peers[client]
	if !ok {
		return nil
	}
	delete(g.peers, client)
	p.Close()
	return p
}

func (g *NecsGateway) submit(client *router.NetworkClient, msg any) {
	g.mu.Lock()
	p, ok := g.peers[client]
	g.mu.Unlock()
	if !ok {
		return
	}
	if err := g.match.Submit(context.Background(), p.ID(), msg); err != nil {
		log.Printf("[necs] submit from %s: %v", p.ID(), err)
	}
}
