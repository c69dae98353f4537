package game

import (
	"time"

	"github.com/automoto/superpong-mp/shared/gamemath"
	"github.com/automoto/superpong-mp/shared/netconfig"
	"github.com/solarlune/resolv"
)

// Player slots. Observers hold no slot.
const (
	SlotObserver = 0
	SlotPlayer1  = 1
	SlotPlayer2  = 2
)

// ActivePowerUp is the effect currently applied to a paddle.
type ActivePowerUp struct {
	Type     netconfig.PowerUpType
	Start    time.Time
	Duration time.Duration
}

// Paddle is one player's paddle. X is fixed per side; Y is the vertical center.
type Paddle struct {
	X, Y      float64
	Width     float64
	Height    float64
	PowerUp   *ActivePowerUp
	Invisible bool
	Ready     bool

	// Velocity control only
	Speed       float64
	TargetSpeed float64
}

// Box returns the paddle's collision rectangle. Paddle 1's X is its left edge;
// paddle 2's X is its right edge.
func (p *Paddle) Box(player int) gamemath.Rect {
	left := p.X
	if player == SlotPlayer2 {
		left = p.X - p.Width
	}
	return gamemath.Rect{X: left, Y: p.Y - p.Height/2, W: p.Width, H: p.Height}
}

// Ball is recreated on every round reset.
type Ball struct {
	X, Y   float64
	DX, DY float64
	Radius float64
	Speed  float64
	Trail  []gamemath.Point // most recent first
	Moving bool
}

func (b *Ball) pushTrail(limit int) {
	if limit <= 0 {
		b.Trail = b.Trail[:0]
		return
	}
	b.Trail = append(b.Trail, gamemath.Point{})
	copy(b.Trail[1:], b.Trail)
	b.Trail[0] = gamemath.Point{X: b.X, Y: b.Y}
	if len(b.Trail) > limit {
		b.Trail = b.Trail[:limit]
	}
}

// PowerUp is a pickup lying on the field.
type PowerUp struct {
	ID        string
	X, Y      float64
	Type      netconfig.PowerUpType
	Active    bool
	CreatedAt time.Time
}

// Obstacle is a destructible block lying on the field.
type Obstacle struct {
	ID            string
	X, Y          float64
	Width, Height float64
	Type          netconfig.ObstacleType
	Active        bool
	CreatedAt     time.Time

	object *resolv.Object
}

// Rect returns the obstacle's bounds.
func (o *Obstacle) Rect() gamemath.Rect {
	return gamemath.Rect{X: o.X, Y: o.Y, W: o.Width, H: o.Height}
}

// Score holds both players' points for the current match.
type Score struct {
	Player1 int
	Player2 int
}

// Of returns the given player's score.
func (s Score) Of(player int) int {
	if player == SlotPlayer2 {
		return s.Player2
	}
	return s.Player1
}
