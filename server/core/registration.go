package core

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/automoto/superpong-mp/shared/netconfig"
)

const (
	heartbeatInterval = 30 * time.Second
	maxPlayers        = 2
)

// MatchStats is what the master server is told about this server.
type MatchStats interface {
	PlayerCount() int
	Status() netconfig.MatchStatus
}

// RegistrationInfo describes this server to the master server.
type RegistrationInfo struct {
	MasterURL string
	Name      string
	Address   string
	Version   string
	Region    string
	GameMode  string
}

// Registration handles registering and heartbeating with the master server.
type Registration struct {
	info     RegistrationInfo
	stats    MatchStats
	client   *http.Client
	interval time.Duration
	serverID string
}

type regRequest struct {
	Name       string `json:"name"`
	Address    string `json:"address"`
	Players    int    `json:"players"`
	MaxPlayers int    `json:"maxPlayers"`
	Status     string `json:"status"`
	GameMode   string `json:"gameMode"`
	Version    string `json:"version"`
	Region     string `json:"region"`
}

type regResponse struct {
	ID string `json:"id"`
}

type heartbeatRequest struct {
	ID      string `json:"id"`
	Players int    `json:"players"`
	Status  string `json:"status"`
}

func NewRegistration(info RegistrationInfo, stats MatchStats) *Registration {
	return &Registration{
		info:     info,
		stats:    stats,
		client:   &http.Client{Timeout: 5 * time.Second},
		interval: heartbeatInterval,
	}
}

// Run registers and then heartbeats until ctx is cancelled.
func (r *Registration) Run(ctx context.Context) {
	if err := r.register(ctx); err != nil {
		log.Printf("[registration] initial registration failed: %v", err)
	}

	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := r.sendHeartbeat(ctx); err != nil {
				log.Printf("[registration] heartbeat failed: %v", err)
			}
		}
	}
}

// ServerID returns the id assigned by the master server, if registered.
func (r *Registration) ServerID() string {
	return r.serverID
}

func (r *Registration) register(ctx context.Context) error {
	var result regResponse
	status, err := r.post(ctx, "/servers/register", regRequest{
		Name:       r.info.Name,
		Address:    r.info.Address,
		Players:    r.stats.PlayerCount(),
		MaxPlayers: maxPlayers,
		Status:     r.stats.Status().String(),
		GameMode:   r.info.GameMode,
		Version:    r.info.Version,
		Region:     r.info.Region,
	}, &result)
	if err != nil {
		return err
	}
	if status != http.StatusCreated {
		return fmt.Errorf("unexpected status: %d", status)
	}

	r.serverID = result.ID
	log.Printf("[registration] registered with master (id=%s)", r.serverID)
	return nil
}

func (r *Registration) sendHeartbeat(ctx context.Context) error {
	if r.serverID == "" {
		return r.register(ctx)
	}

	status, err := r.post(ctx, "/servers/heartbeat", heartbeatRequest{
		ID:      r.serverID,
		Players: r.stats.PlayerCount(),
		Status:  r.stats.Status().String(),
	}, nil)
	if err != nil {
		return err
	}

	if status == http.StatusNotFound {
		log.Println("[registration] master lost our registration, re-registering")
		return r.register(ctx)
	}

	if status != http.StatusOK {
		return fmt.Errorf("unexpected status: %d", status)
	}
	return nil
}

func (r *Registration) post(ctx context.Context, path string, body, out any) (int, error) {
	data, err := json.Marshal(body)
	if err != nil {
		return 0, fmt.Errorf("marshal: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, r.info.MasterURL+path, bytes.NewReader(data))
	if err != nil {
		return 0, fmt.Errorf("request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := r.client.Do(req)
	if err != nil {
		return 0, fmt.Errorf("post: %w", err)
	}
	defer resp.Body.Close()

	if out != nil && resp.StatusCode < 300 {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return resp.StatusCode, fmt.Errorf("decode: %w", err)
		}
	}
	return resp.StatusCode, nil
}
