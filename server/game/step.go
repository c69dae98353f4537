package game

import (
	"math"
	"time"

	"github.com/automoto/superpong-mp/shared/gamemath"
	"github.com/automoto/superpong-mp/shared/messages"
	"github.com/automoto/superpong-mp/shared/netconfig"
)

// Tick advances the simulation to now. It is a no-op unless the match is
// playing and the ball has been launched.
func (s *Session) Tick(now time.Time) {
	s.ticks++
	if s.status != netconfig.StatusPlaying || !s.ball.Moving {
		return
	}

	// --- Clock ---
	dt := now.Sub(s.lastUpdate).Seconds()
	if dt < 0 {
		dt = 0
	}
	s.lastUpdate = now
	s.gameTime += dt

	// --- Speed ramp ---
	b := s.ball
	target := gamemath.RampSpeed(s.cfg.Ball.InitialSpeed, s.cfg.Ball.Acceleration, s.cfg.Ball.MaxSpeed, s.gameTime)
	if dx, dy, ok := gamemath.ScaleToSpeed(b.DX, b.DY, target); ok {
		b.DX, b.DY = dx, dy
	}
	b.Speed = target

	// --- Integrate ---
	b.pushTrail(s.cfg.Ball.TrailLength)
	b.X += b.DX
	b.Y += b.DY

	s.bounceWalls()
	s.collidePaddles(now)
	s.collideObstacles()
	s.collectPowerUps(now)

	if !gamemath.Finite(b.X, b.Y, b.DX, b.DY) {
		s.reserve()
	}

	s.checkScore(now)
	s.expireItems(now)
	s.centerLine.advance()
}

func (s *Session) bounceWalls() {
	b := s.ball
	top := b.Radius
	bottom := s.cfg.Field.Height - b.Radius

	switch {
	case b.Y <= top:
		b.Y = top
	case b.Y >= bottom:
		b.Y = bottom
	default:
		return
	}
	b.DY = -b.DY * s.cfg.Ball.WallBounceFactor

	if j := s.cfg.Ball.WallJitter; j > 0 {
		mag := math.Max(math.Abs(b.DY)-s.rng.Float64()*j, 0)
		b.DY = math.Copysign(mag, b.DY)
	}
}

func (s *Session) collidePaddles(now time.Time) {
	for _, player := range [...]int{SlotPlayer1, SlotPlayer2} {
		p := s.paddle(player)
		if p.Invisible {
			continue
		}
		box := p.Box(player)
		b := s.ball
		if !gamemath.CircleRect(b.X, b.Y, b.Radius, box) {
			continue
		}

		angle := gamemath.HitAngle(b.Y, p.Y, p.Height, s.cfg.Paddle.MaxHitAngle)
		speed := math.Abs(b.DX) * s.cfg.Paddle.BounceFactor
		if player == SlotPlayer1 {
			b.X = box.Right() + b.Radius
			b.DX = speed
		} else {
			b.X = box.X - b.Radius
			b.DX = -speed
		}
		b.DY = math.Sin(angle) * speed

		s.maybeSpawnPowerUp(now)
		s.maybeSpawnObstacle(now)
	}
}

// reserve puts a ball with corrupt coordinates back into play from a fresh
// serve position at the current speed.
func (s *Session) reserve() {
	fresh := s.centeredBall()
	if s.cfg.Ball.RandomServe {
		fresh = s.randomBall()
	}
	fresh.DX, fresh.DY = s.randomDirection()
	fresh.Moving = true
	s.ball = fresh
}

func (s *Session) checkScore(now time.Time) {
	var scorer int
	switch {
	case s.ball.X <= 0:
		scorer = SlotPlayer2
		s.score.Player2++
	case s.ball.X >= s.cfg.Field.Width:
		scorer = SlotPlayer1
		s.score.Player1++
	default:
		return
	}

	score := messages.Score{Player1: s.score.Player1, Player2: s.score.Player2}
	if s.score.Of(scorer) >= s.cfg.Match.WinScore {
		s.status = netconfig.StatusFinished
		s.ball.Moving = false
		s.invalidateTimers()
		s.emit(messages.MatchFinished{Winner: scorer, Score: score})
		return
	}
	s.emit(messages.RoundReset{Scorer: scorer, Score: score})
	s.startRound(now)
}

// expireItems drops ground items past their lifetime and ends paddle effects
// past their duration.
func (s *Session) expireItems(now time.Time) {
	kept := s.powerUps[:0]
	for _, pu := range s.powerUps {
		if now.Sub(pu.CreatedAt) < s.cfg.PowerUp.Lifetime {
			kept = append(kept, pu)
		}
	}
	clear(s.powerUps[len(kept):])
	s.powerUps = kept

	s.obstacles.expire(now)

	for _, p := range s.paddles {
		if p.PowerUp == nil || now.Sub(p.PowerUp.Start) <= p.PowerUp.Duration {
			continue
		}
		if p.PowerUp.Type == netconfig.PowerUpSize {
			p.Height = s.cfg.Paddle.Height
		}
		p.PowerUp = nil
	}
}
