package game

import (
	"time"

	"github.com/automoto/superpong-mp/shared/gamemath"
	"github.com/automoto/superpong-mp/shared/netconfig"
	"github.com/google/uuid"
)

// maybeSpawnPowerUp rolls the spawn chance and, if the field has room, drops a
// random power-up inside the spawn zone.
func (s *Session) maybeSpawnPowerUp(now time.Time) {
	cfg := s.cfg.PowerUp
	if s.rng.Float64() >= cfg.SpawnChance || len(s.powerUps) >= cfg.MaxOnField || len(cfg.SpawnPool) == 0 {
		return
	}
	kind := cfg.SpawnPool[s.rng.IntN(len(cfg.SpawnPool))]
	x, y := s.randomInZone(cfg.SpawnZone)
	s.powerUps = append(s.powerUps, &PowerUp{
		ID:        uuid.NewString(),
		X:         x,
		Y:         y,
		Type:      kind,
		Active:    true,
		CreatedAt: now,
	})
}

func (s *Session) randomInZone(zone gamemath.Rect) (float64, float64) {
	return zone.X + s.rng.Float64()*zone.W, zone.Y + s.rng.Float64()*zone.H
}

// collectPowerUps hands every power-up the ball touches to the paddle on the
// ball's half of the field.
func (s *Session) collectPowerUps(now time.Time) {
	b := s.ball
	kept := s.powerUps[:0]
	for _, pu := range s.powerUps {
		if !pu.Active || !gamemath.CircleCircle(b.X, b.Y, b.Radius, pu.X, pu.Y, s.cfg.PowerUp.PickupRadius) {
			kept = append(kept, pu)
			continue
		}
		owner := SlotPlayer1
		if b.X >= s.cfg.Field.Width/2 {
			owner = SlotPlayer2
		}
		pu.Active = false
		s.applyPowerUp(s.paddle(owner), pu.Type, now)
	}
	clear(s.powerUps[len(kept):])
	s.powerUps = kept
}

// applyPowerUp replaces any effect already on the paddle. A size effect being
// overwritten gives the paddle its normal height back first.
func (s *Session) applyPowerUp(p *Paddle, kind netconfig.PowerUpType, now time.Time) {
	if p.PowerUp != nil && p.PowerUp.Type == netconfig.PowerUpSize {
		p.Height = s.cfg.Paddle.Height
	}
	p.PowerUp = &ActivePowerUp{Type: kind, Start: now, Duration: s.cfg.PowerUp.Duration}
	if kind == netconfig.PowerUpSize {
		p.Height = s.cfg.Paddle.EnlargedHeight
	}
}

// PowerUps returns copies of the power-ups on the field.
func (s *Session) PowerUps() []PowerUp {
	out := make([]PowerUp, len(s.powerUps))
	for i, pu := range s.powerUps {
		out[i] = *pu
	}
	return out
}
