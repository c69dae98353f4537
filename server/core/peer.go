package core

import (
	"errors"
	"sync"
	"sync/atomic"
)

var (
	ErrPeerQueueFull = errors.New("peer send queue full")
	ErrPeerClosed    = errors.New("peer closed")
)

// sendQueueSize bounds each connection's outgoing buffer. At one snapshot per
// tick this is a little over a second of backlog.
const sendQueueSize = 64

// Peer is one connection attached to the match, whatever its transport.
// Send must never block: a slow connection loses messages instead of stalling
// the match.
type Peer interface {
	ID() string
	Send(msg any) error
	Close() error
}

// sendQueue is a bounded drop-on-full queue drained by a single writer
// goroutine.
type sendQueue struct {
	ch      chan any
	done    chan struct{}
	once    sync.Once
	dropped atomic.Uint64
}

func newSendQueue(size int) *sendQueue {
	return &sendQueue{
		ch:   make(chan any, size),
		done: make(chan struct{}),
	}
}

func (q *sendQueue) push(msg any) error {
	select {
	case <-q.done:
		return ErrPeerClosed
	default:
	}
	select {
	case q.ch <- msg:
		return nil
	default:
		q.dropped.Add(1)
		return ErrPeerQueueFull
	}
}

func (q *sendQueue) close() {
	q.once.Do(func() { close(q.done) })
}

// Dropped returns how many messages were discarded because the queue was full.
func (q *sendQueue) Dropped() uint64 {
	return q.dropped.Load()
}

// drain runs write for every queued message until the queue is closed or
// write fails.
func (q *sendQueue) drain(write func(any) error) error {
	for {
		select {
		case <-q.done:
			return nil
		case msg := <-q.ch:
			if err := write(msg); err != nil {
				return err
			}
		}
	}
}
