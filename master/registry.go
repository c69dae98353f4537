package main

import (
	"log"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
)

// ServerInfo describes a Super Pong server visible to clients.
type ServerInfo struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	Address    string `json:"address"`
	Players    int    `json:"players"`
	MaxPlayers int    `json:"maxPlayers"`
	Status     string `json:"status"`
	GameMode   string `json:"gameMode"`
	Version    string `json:"version"`
	Region     string `json:"region"`
}

// Joinable reports whether a new player would get a paddle.
func (s ServerInfo) Joinable() bool {
	return s.Players < s.MaxPlayers && s.Status != "finished"
}

type serverRecord struct {
	ServerInfo
	LastSeen time.Time
}

// Filter narrows List results. Zero fields match everything.
type Filter struct {
	Status       string
	GameMode     string
	Region       string
	JoinableOnly bool
}

func (f Filter) match(s ServerInfo) bool {
	switch {
	case f.Status != "" && s.Status != f.Status:
		return false
	case f.GameMode != "" && s.GameMode != f.GameMode:
		return false
	case f.Region != "" && s.Region != f.Region:
		return false
	case f.JoinableOnly && !s.Joinable():
		return false
	}
	return true
}

// Registry is an in-memory store of active game servers with TTL-based expiry.
type Registry struct {
	mu      sync.RWMutex
	servers map[string]*serverRecord
	ttl     time.Duration
	now     func() time.Time
	stopCh  chan struct{}
	once    sync.Once
}

func NewRegistry(ttl time.Duration) *Registry {
	r := &Registry{
		servers: make(map[string]*serverRecord),
		ttl:     ttl,
		now:     time.Now,
		stopCh:  make(chan struct{}),
	}
	go r.cleanupLoop()
	return r
}

func (r *Registry) Stop() {
	r.once.Do(func() { close(r.stopCh) })
}

func (r *Registry) Register(info ServerInfo) string {
	info.ID = uuid.NewString()

	r.mu.Lock()
	r.servers[info.ID] = &serverRecord{
		ServerInfo: info,
		LastSeen:   r.now(),
	}
	r.mu.Unlock()

	return info.ID
}

// Heartbeat refreshes a server's liveness and live stats. An empty status
// keeps the previous one.
func (r *Registry) Heartbeat(id string, players int, status string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	rec, ok := r.servers[id]
	if !ok {
		return false
	}
	rec.LastSeen = r.now()
	rec.Players = players
	if status != "" {
		rec.Status = status
	}
	return true
}

// List returns matching servers sorted by name, then id.
func (r *Registry) List(f Filter) []ServerInfo {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make([]ServerInfo, 0, len(r.servers))
	for _, rec := range r.servers {
		if f.match(rec.ServerInfo) {
			result = append(result, rec.ServerInfo)
		}
	}
	sort.Slice(result, func(i, j int) bool {
		if result[i].Name != result[j].Name {
			return result[i].Name < result[j].Name
		}
		return result[i].ID < result[j].ID
	})
	return result
}

// expire drops servers not seen within the TTL and returns how many.
func (r *Registry) expire() int {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := r.now()
	n := 0
	for id, rec := range r.servers {
		if now.Sub(rec.LastSeen) >= r.ttl {
			log.Printf("[master] expired server %q (id=%s, last seen %s ago)",
				rec.Name, id, now.Sub(rec.LastSeen).Round(time.Second))
			delete(r.servers, id)
			n++
		}
	}
	return n
}

func (r *Registry) cleanupLoop() {
	ticker := time.NewTicker(30 * time.Second)
	defer ticker.Stop()

	for {
		select {
		case <-r.stopCh:
			return
		case <-ticker.C:
			r.expire()
		}
	}
}
