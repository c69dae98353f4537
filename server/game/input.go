package game

import (
	"github.com/automoto/superpong-mp/shared/gamemath"
	"github.com/automoto/superpong-mp/shared/messages"
	"github.com/automoto/superpong-mp/shared/netconfig"
)

// MovePaddle applies a paddle input under the configured control mode and
// echoes it to every connection. Inputs naming an unknown player, or missing
// the field the control mode needs, are dropped. Out-of-range values are
// clamped.
func (s *Session) MovePaddle(in messages.MovePaddle) bool {
	if in.Player != SlotPlayer1 && in.Player != SlotPlayer2 {
		return false
	}
	p := s.paddle(in.Player)

	switch s.cfg.Match.Control {
	case netconfig.ControlDirect:
		if in.Y == nil || !gamemath.Finite(*in.Y) {
			return false
		}
		p.Y = gamemath.Clamp(*in.Y, s.cfg.Paddle.MinY, s.cfg.Paddle.MaxY)
		y := p.Y
		s.emit(messages.PaddleMoved{Player: in.Player, Y: &y})

	case netconfig.ControlVelocity:
		if in.Speed == nil || !gamemath.Finite(*in.Speed) {
			return false
		}
		p.TargetSpeed = gamemath.ClampSpeed(*in.Speed, s.maxPaddleSpeed(p))
		speed := p.TargetSpeed
		s.emit(messages.PaddleMoved{Player: in.Player, Speed: &speed})

	default:
		return false
	}
	return true
}

// IntegratePaddles moves velocity-controlled paddles one tick: the speed
// blends toward the requested target, decays by friction once the target is
// zero, and the position is clamped to the field. It runs in every match
// status and does nothing under direct control.
func (s *Session) IntegratePaddles() {
	if s.cfg.Match.Control != netconfig.ControlVelocity {
		return
	}
	cfg := s.cfg.Paddle
	for _, p := range s.paddles {
		limit := s.maxPaddleSpeed(p)
		p.Speed = gamemath.Blend(p.Speed, p.TargetSpeed, cfg.Smoothing)
		if p.TargetSpeed == 0 {
			p.Speed = gamemath.ApplyFriction(p.Speed, cfg.Friction)
		}
		p.Speed = gamemath.ClampSpeed(p.Speed, limit)

		y := p.Y + p.Speed
		p.Y = gamemath.Clamp(y, cfg.MinY, cfg.MaxY)
		if p.Y != y {
			p.Speed = 0
		}
	}
}

func (s *Session) maxPaddleSpeed(p *Paddle) float64 {
	limit := s.cfg.Paddle.MaxSpeed
	if p.PowerUp != nil && p.PowerUp.Type == netconfig.PowerUpSpeed {
		limit *= s.cfg.Paddle.SpeedBoost
	}
	return limit
}
