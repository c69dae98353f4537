// Package bot decides paddle inputs for a headless player from match
// snapshots.
package bot

import (
	"math"
	"math/rand/v2"
	"time"

	"github.com/automoto/superpong-mp/config"
	"github.com/automoto/superpong-mp/shared/gamemath"
	"github.com/automoto/superpong-mp/shared/messages"
	"github.com/automoto/superpong-mp/shared/netconfig"
)

// Brain tracks the ball for one paddle. It re-aims at most once per reaction
// delay and then walks the paddle toward that aim.
type Brain struct {
	cfg    config.BotDifficultyConfig
	field  config.FieldConfig
	player int
	rng    *rand.Rand

	aim      float64
	aimed    bool
	lastAim  time.Time
	lastSent float64
}

// NewBrain creates a brain for player 1 or 2. A nil rng is replaced by a
// randomly seeded one.
func NewBrain(cfg config.BotDifficultyConfig, field config.FieldConfig, player int, rng *rand.Rand) *Brain {
	if rng == nil {
		rng = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}
	return &Brain{cfg: cfg, field: field, player: player, rng: rng, lastSent: math.NaN()}
}

// Decide returns the input to send for this snapshot, if any.
func (b *Brain) Decide(state messages.GameState, now time.Time) (messages.MovePaddle, bool) {
	if b.player != 1 && b.player != 2 {
		return messages.MovePaddle{}, false
	}
	paddle := state.Paddle1
	if b.player == 2 {
		paddle = state.Paddle2
	}

	if !b.aimed || now.Sub(b.lastAim) >= b.cfg.ReactionDelay {
		b.aim = b.target(state, paddle)
		if b.cfg.AimError > 0 {
			b.aim += (b.rng.Float64()*2 - 1) * b.cfg.AimError
		}
		b.aimed = true
		b.lastAim = now
	}

	diff := b.aim - paddle.Y
	if math.Abs(diff) <= b.cfg.DeadZone {
		diff = 0
	}
	step := gamemath.ClampSpeed(diff, b.cfg.MaxStep)

	move := messages.MovePaddle{Player: b.player}
	if state.Control == netconfig.ControlVelocity {
		if step == b.lastSent {
			return move, false
		}
		move.Speed = &step
	} else {
		if step == 0 {
			return move, false
		}
		y := paddle.Y + step
		move.Y = &y
	}
	b.lastSent = step
	return move, true
}

// target is where the paddle center should be: the predicted intercept when
// the ball is heading our way, otherwise the middle of the field.
func (b *Brain) target(state messages.GameState, paddle messages.PaddleState) float64 {
	height := b.field.Height
	center := height / 2
	ball := state.Ball
	if state.GameStatus != netconfig.StatusPlaying || !ball.Moving {
		return center
	}

	face := paddle.X + paddle.Width
	if b.player == 2 {
		face = paddle.X - paddle.Width
	}
	toward := (b.player == 1 && ball.DX < 0) || (b.player == 2 && ball.DX > 0)
	if !toward {
		return center
	}
	return Intercept(ball.X, ball.Y, ball.DX, ball.DY, face, height, ball.Radius)
}

// Intercept predicts the ball's y when it reaches x = targetX, folding the
// path at the top and bottom walls. Wall damping is ignored.
func Intercept(x, y, dx, dy, targetX, height, radius float64) float64 {
	if dx == 0 {
		return y
	}
	t := (targetX - x) / dx
	if t < 0 {
		return y
	}
	span := height - 2*radius
	if span <= 0 {
		return height / 2
	}
	m := math.Mod(y+dy*t-radius, 2*span)
	if m < 0 {
		m += 2 * span
	}
	if m > span {
		m = 2*span - m
	}
	return radius + m
}
