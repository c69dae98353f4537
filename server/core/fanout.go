package core

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/automoto/superpong-mp/shared/messages"
	"github.com/automoto/superpong-mp/shared/protocol"
	"github.com/redis/go-redis/v9"
)

const (
	fanoutQueueSize = 256
	publishTimeout  = 500 * time.Millisecond
)

// publisher is the subset of the redis client the fan-out uses.
type publisher interface {
	Publish(ctx context.Context, channel string, message interface{}) *redis.IntCmd
}

// RedisSink republishes match events on a redis channel so other services can
// follow the match. Full snapshots are not published.
type RedisSink struct {
	client  publisher
	closer  func() error
	channel string
	queue   chan []byte

	wg   sync.WaitGroup
	once sync.Once
}

// EventChannel is the redis channel events for serverName are published on.
func EventChannel(serverName string) string {
	return "superpong:" + serverName + ":events"
}

// NewRedisSink connects to the redis server at url, a redis:// URL.
func NewRedisSink(url, serverName string) (*RedisSink, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}
	opts.ReadTimeout = publishTimeout
	opts.WriteTimeout = publishTimeout
	opts.DialTimeout = publishTimeout

	client := redis.NewClient(opts)
	s := newRedisSink(client, EventChannel(serverName))
	s.closer = client.Close
	return s, nil
}

func newRedisSink(client publisher, channel string) *RedisSink {
	s := &RedisSink{
		client:  client,
		channel: channel,
		queue:   make(chan []byte, fanoutQueueSize),
	}
	s.wg.Add(1)
	go s.run()
	return s
}

// Publish queues msg for publishing. It drops the event when the queue is full.
func (s *RedisSink) Publish(msg any) {
	if _, ok := msg.(messages.GameState); ok {
		return
	}
	data, err := protocol.Encode(msg)
	if err != nil {
		log.Printf("[fanout] encode %T: %v", msg, err)
		return
	}
	select {
	case s.queue <- data:
	default:
		log.Printf("[fanout] queue full, dropping %T", msg)
	}
}

func (s *RedisSink) run() {
	defer s.wg.Done()
	for data := range s.queue {
		ctx, cancel := context.WithTimeout(context.Background(), publishTimeout)
		if err := s.client.Publish(ctx, s.channel, data).Err(); err != nil {
			log.Printf("[fanout] publish: %v", err)
		}
		cancel()
	}
}

// Close flushes queued events and closes the redis client. Publish must not be
// called after Close.
func (s *RedisSink) Close() error {
	var err error
	s.once.Do(func() {
		close(s.queue)
		s.wg.Wait()
		if s.closer != nil {
			err = s.closer()
		}
	})
	return err
}

