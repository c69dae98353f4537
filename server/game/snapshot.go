package game

import (
	"github.com/automoto/superpong-mp/shared/messages"
)

// Snapshot returns the full session state in wire form. It is enough for a
// client to render without simulating anything.
func (s *Session) Snapshot() messages.GameState {
	b := s.ball
	trail := make([]messages.Point, len(b.Trail))
	for i, pt := range b.Trail {
		trail[i] = messages.Point{X: pt.X, Y: pt.Y}
	}

	powerUps := make([]messages.PowerUpState, len(s.powerUps))
	for i, pu := range s.powerUps {
		powerUps[i] = messages.PowerUpState{
			ID:        pu.ID,
			X:         pu.X,
			Y:         pu.Y,
			Type:      pu.Type,
			Active:    pu.Active,
			CreatedAt: pu.CreatedAt.UnixMilli(),
		}
	}

	obstacles := make([]messages.ObstacleState, len(s.obstacles.items))
	for i, o := range s.obstacles.items {
		obstacles[i] = messages.ObstacleState{
			ID:        o.ID,
			X:         o.X,
			Y:         o.Y,
			Width:     o.Width,
			Height:    o.Height,
			Type:      o.Type,
			Active:    o.Active,
			CreatedAt: o.CreatedAt.UnixMilli(),
		}
	}

	return messages.GameState{
		Tick:    s.ticks,
		Paddle1: paddleState(s.paddles[0]),
		Paddle2: paddleState(s.paddles[1]),
		Ball: messages.BallState{
			X:      b.X,
			Y:      b.Y,
			DX:     b.DX,
			DY:     b.DY,
			Radius: b.Radius,
			Speed:  b.Speed,
			Trail:  trail,
			Moving: b.Moving,
		},
		Score:      messages.Score{Player1: s.score.Player1, Player2: s.score.Player2},
		GameStatus: s.status,
		Players:    s.Players(),
		PowerUps:   powerUps,
		Obstacles:  obstacles,
		GameTime:   s.gameTime,
		CenterLine: messages.CenterLine{Offset: s.centerLine.value()},
		GameMode:   s.cfg.Match.GameMode,
		Countdown:  s.countdown,
		Control:    s.cfg.Match.Control,
	}
}

func paddleState(p *Paddle) messages.PaddleState {
	ps := messages.PaddleState{
		X:         p.X,
		Y:         p.Y,
		Width:     p.Width,
		Height:    p.Height,
		Invisible: p.Invisible,
		Ready:     p.Ready,
		Speed:     p.Speed,
	}
	if p.PowerUp != nil {
		ps.PowerUp = &messages.ActiveEffect{
			Type:      p.PowerUp.Type,
			StartTime: p.PowerUp.Start.UnixMilli(),
			Duration:  p.PowerUp.Duration.Milliseconds(),
		}
	}
	return ps
}
