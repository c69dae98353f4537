package core

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync/atomic"
	"time"

	"github.com/automoto/superpong-mp/server/game"
	"github.com/automoto/superpong-mp/shared/messages"
	"github.com/automoto/superpong-mp/shared/netconfig"
)

var ErrMatchClosed = errors.New("match closed")

const inboxSize = 256

// EventSink receives every discrete event the match produces, in order. It is
// called from the match goroutine and must not block.
type EventSink interface {
	Publish(msg any)
}

// TickObserver is handed the snapshot after every simulation tick.
type TickObserver interface {
	OnTick(state messages.GameState)
}

// MatchInfo is sent to every connection in its welcome message.
type MatchInfo struct {
	ServerName string
	TickRate   int
}

// Match owns a game session and serializes every mutation of it through a
// single goroutine: peer commands, the simulation tick, the countdown and the
// ball launch all run inside Run.
type Match struct {
	session *game.Session
	info    MatchInfo
	inbox   chan command
	done    chan struct{}
	now     func() time.Time

	peers     map[string]Peer
	sinks     []EventSink
	observers []TickObserver

	players atomic.Int32
	status  atomic.Int32
	running atomic.Bool
}

// NewMatch wraps a session. The session must not be used by anything else.
func NewMatch(session *game.Session, info MatchInfo) *Match {
	m := &Match{
		session: session,
		info:    info,
		inbox:   make(chan command, inboxSize),
		done:    make(chan struct{}),
		now:     time.Now,
		peers:   make(map[string]Peer),
	}
	m.publishStats()
	return m
}

// AddSink registers an event sink. Call before Run.
func (m *Match) AddSink(s EventSink) {
	m.sinks = append(m.sinks, s)
}

// AddObserver registers a tick observer. Call before Run.
func (m *Match) AddObserver(o TickObserver) {
	m.observers = append(m.observers, o)
}

// PlayerCount returns the number of seated players. Safe from any goroutine.
func (m *Match) PlayerCount() int {
	return int(m.players.Load())
}

// Status returns the last published match status. Safe from any goroutine.
func (m *Match) Status() netconfig.MatchStatus {
	return netconfig.MatchStatus(m.status.Load())
}

// Join attaches a peer and waits for its slot assignment. When ctx ends first
// the queued join is followed by a leave, so the peer never holds a slot.
func (m *Match) Join(ctx context.Context, p Peer) (int, error) {
	reply := make(chan int, 1)
	if err := m.enqueue(ctx, joinCmd{peer: p, reply: reply}); err != nil {
		return game.SlotObserver, err
	}
	select {
	case slot := <-reply:
		return slot, nil
	case <-m.done:
		return game.SlotObserver, ErrMatchClosed
	case <-ctx.Done():
		m.Leave(p.ID())
		return game.SlotObserver, ctx.Err()
	}
}

// Leave detaches a peer. Unknown peers are ignored.
func (m *Match) Leave(peerID string) {
	_ = m.enqueue(context.Background(), leaveCmd{peerID: peerID})
}

// Submit hands a decoded client message to the match.
func (m *Match) Submit(ctx context.Context, peerID string, msg any) error {
	var cmd command
	switch v := msg.(type) {
	case messages.MovePaddle:
		cmd = moveCmd{msg: v}
	case messages.PlayerReady:
		cmd = readyCmd{player: v.Player}
	case messages.ResetGame:
		cmd = resetCmd{peerID: peerID}
	default:
		return fmt.Errorf("submit %T: unsupported client message", msg)
	}
	return m.enqueue(ctx, cmd)
}

func (m *Match) enqueue(ctx context.Context, cmd command) error {
	select {
	case <-m.done:
		return ErrMatchClosed
	default:
	}
	select {
	case m.inbox <- cmd:
		return nil
	case <-m.done:
		return ErrMatchClosed
	case <-ctx.Done():
		return ctx.Err()
	}
}

type command interface {
	apply(m *Match, now time.Time)
}

type joinCmd struct {
	peer  Peer
	reply chan<- int
}

func (c joinCmd) apply(m *Match, now time.Time) {
	id := c.peer.ID()
	m.peers[id] = c.peer
	slot := m.session.Join(id, now)
	c.reply <- slot

	if slot == game.SlotObserver {
		log.Printf("[match] %s joined as observer", id)
	} else {
		log.Printf("[match] %s joined as player %d", id, slot)
	}
	m.sendTo(c.peer, messages.Welcome{
		PeerID:      id,
		Slot:        slot,
		ServerName:  m.info.ServerName,
		TickRate:    m.info.TickRate,
		ControlMode: m.session.Config().Match.Control.String(),
	})
	m.sendTo(c.peer, m.session.Snapshot())
}

type leaveCmd struct {
	peerID string
}

func (c leaveCmd) apply(m *Match, _ time.Time) {
	p, ok := m.peers[c.peerID]
	if !ok {
		return
	}
	delete(m.peers, c.peerID)
	if slot := m.session.Leave(c.peerID); slot != game.SlotObserver {
		log.Printf("[match] player %d (%s) left", slot, c.peerID)
	}
	_ = p.Close()
}

type moveCmd struct {
	msg messages.MovePaddle
}

func (c moveCmd) apply(m *Match, _ time.Time) {
	m.session.MovePaddle(c.msg)
}

type readyCmd struct {
	player int
}

func (c readyCmd) apply(m *Match, now time.Time) {
	m.session.SetReady(c.player, now)
}

type resetCmd struct {
	peerID string
}

func (c resetCmd) apply(m *Match, now time.Time) {
	log.Printf("[match] reset requested by %s", c.peerID)
	m.session.ResetMatch(now)
}

// flush fans out the session's pending events to every peer and sink.
func (m *Match) flush() {
	for _, ev := range m.session.DrainEvents() {
		m.broadcast(ev)
		for _, s := range m.sinks {
			s.Publish(ev)
		}
	}
	m.publishStats()
}

func (m *Match) broadcast(msg any) {
	for _, p := range m.peers {
		m.sendTo(p, msg)
	}
}

func (m *Match) sendTo(p Peer, msg any) {
	if err := p.Send(msg); err != nil && !errors.Is(err, ErrPeerQueueFull) && !errors.Is(err, ErrPeerClosed) {
		log.Printf("[match] send to %s: %v", p.ID(), err)
	}
}

func (m *Match) publishStats() {
	m.players.Store(int32(m.session.PlayerCount()))
	m.status.Store(int32(m.session.Status()))
}
