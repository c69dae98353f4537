package core

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"time"

	"github.com/automoto/superpong-mp/shared/protocol"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 4096
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// browserPeer is a JSON envelope connection from a browser client.
type browserPeer struct {
	id    string
	conn  *websocket.Conn
	queue *sendQueue
}

func (p *browserPeer) ID() string { return p.id }

func (p *browserPeer) Send(msg any) error { return p.queue.push(msg) }

func (p *browserPeer) Close() error {
	p.queue.close()
	return nil
}

// readPump decodes client messages into the match until the connection
// fails, then leaves the match.
func (p *browserPeer) readPump(m *Match) {
	defer func() {
		m.Leave(p.id)
		p.Close()
	}()

	p.conn.SetReadLimit(maxMessageSize)
	p.conn.SetReadDeadline(time.Now().Add(pongWait))
	p.conn.SetPongHandler(func(string) error {
		p.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		_, data, err := p.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				log.Printf("[browser] read from %s: %v", p.id, err)
			}
			return
		}
		msg, err := protocol.DecodeClient(data)
		if err != nil {
			log.Printf("[browser] dropping message from %s: %v", p.id, err)
			continue
		}
		if err := m.Submit(context.Background(), p.id, msg); err != nil {
			return
		}
	}
}

// writePump encodes queued messages onto the connection and keeps it alive
// with pings. It owns closing the connection.
func (p *browserPeer) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		p.conn.Close()
	}()

	for {
		select {
		case <-p.queue.done:
			p.conn.SetWriteDeadline(time.Now().Add(writeWait))
			p.conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
			return

		case msg := <-p.queue.ch:
			data, err := protocol.Encode(msg)
			if err != nil {
				log.Printf("[browser] encode %T: %v", msg, err)
				continue
			}
			p.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := p.conn.WriteMessage(websocket.TextMessage, data); err != nil {
				p.queue.close()
				return
			}

		case <-ticker.C:
			p.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := p.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				p.queue.close()
				return
			}
		}
	}
}

// Health is the body of GET /health.
type Health struct {
	Status     string `json:"status"`
	Players    int    `json:"players"`
	GameStatus string `json:"gameStatus"`
}

// NewBrowserRouter serves browser clients: the websocket endpoint, a health
// probe and, when staticDir is set, the web client files.
func NewBrowserRouter(m *Match, staticDir string) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(Health{
			Status:     "ok",
			Players:    m.PlayerCount(),
			GameStatus: m.Status().String(),
		})
	})

	r.Get("/ws", func(w http.ResponseWriter, req *http.Request) {
		serveBrowser(m, w, req)
	})

	if staticDir != "" {
		r.With(middleware.Logger).Handle("/*", http.FileServer(http.Dir(staticDir)))
	}
	return r
}

func serveBrowser(m *Match, w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("[browser] upgrade error: %v", err)
		return
	}

	p := &browserPeer{
		id:    uuid.NewString(),
		conn:  conn,
		queue: newSendQueue(sendQueueSize),
	}
	go p.writePump()

	if _, err := m.Join(r.Context(), p); err != nil {
		log.Printf("[browser] join %s: %v", p.id, err)
		p.Close()
		return
	}
	go p.readPump(m)
}
