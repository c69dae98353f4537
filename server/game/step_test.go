package game

import (
	"math"
	"testing"
	"time"

	"github.com/automoto/superpong-mp/config"
	"github.com/automoto/superpong-mp/shared/gamemath"
	"github.com/automoto/superpong-mp/shared/messages"
	"github.com/automoto/superpong-mp/shared/netconfig"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func magnitude(dx, dy float64) float64 {
	return gamemath.Magnitude(dx, dy)
}

func absf(v float64) float64 {
	return math.Abs(v)
}

func placeBall(s *Session, x, y, dx, dy float64) {
	s.ball.X, s.ball.Y = x, y
	s.ball.DX, s.ball.DY = dx, dy
}

func noSpawns(c *config.Tuning) {
	c.PowerUp.SpawnChance = 0
	c.Obstacle.SpawnChance = 0
}

func TestLeftExitScoresForPlayerTwo(t *testing.T) {
	s := playing(t, nil)
	placeBall(s, 1, 300, -5, 0)

	s.Tick(t0)

	assert.Equal(t, Score{Player1: 0, Player2: 1}, s.Score())
	assert.Equal(t, netconfig.StatusCountdown, s.Status(), "a new countdown starts")
	assert.False(t, s.Ball().Moving)
	assert.Equal(t, 3, s.Countdown())

	resets := eventsOf[messages.RoundReset](s.DrainEvents())
	require.Len(t, resets, 1)
	assert.Equal(t, SlotPlayer2, resets[0].Scorer)
	assert.Equal(t, messages.Score{Player2: 1}, resets[0].Score)
}

func TestRightExitScoresForPlayerOne(t *testing.T) {
	s := playing(t, nil)
	placeBall(s, 799, 300, 5, 0)

	s.Tick(t0)
	assert.Equal(t, Score{Player1: 1}, s.Score())
}

func TestCenterHitReflectsFlat(t *testing.T) {
	s := playing(t, noSpawns)
	placeBall(s, 76, 300, -5, 0)

	s.Tick(t0)

	b := s.Ball()
	assert.InDelta(t, 0, b.DY, 1e-9)
	assert.InDelta(t, 6*1.3, b.DX, 1e-9, "ramped speed times bounce factor, directed right")
	assert.Equal(t, 50+20+8.0, b.X, "clamped to the paddle face")
}

func TestEdgeHitUsesMaxAngle(t *testing.T) {
	s := playing(t, noSpawns)
	placeBall(s, 76, 350, -5, 0)

	s.Tick(t0)

	b := s.Ball()
	dxNew := 6 * 1.3
	assert.InDelta(t, dxNew, b.DX, 1e-9)
	assert.InDelta(t, math.Sin(math.Pi/3)*dxNew, b.DY, 1e-9)
	assert.InDelta(t, 0.866*dxNew, b.DY, 1e-3)
}

func TestPaddleTwoReflectsLeft(t *testing.T) {
	s := playing(t, noSpawns)
	placeBall(s, 724, 300, 5, 0)

	s.Tick(t0)

	b := s.Ball()
	assert.InDelta(t, -6*1.3, b.DX, 1e-9)
	assert.Equal(t, 750-20-8.0, b.X)
}

func TestInvisiblePaddleIsSkipped(t *testing.T) {
	s := playing(t, noSpawns)
	s.paddles[0].Invisible = true
	placeBall(s, 76, 300, -5, 0)

	s.Tick(t0)
	assert.Less(t, s.Ball().DX, 0.0)
}

func TestWallBounceDamps(t *testing.T) {
	s := playing(t, noSpawns)
	placeBall(s, 400, 10, 3, -4)

	s.Tick(t0)

	b := s.Ball()
	assert.Equal(t, 8.0, b.Y)
	assert.InDelta(t, 4.8*0.9, b.DY, 1e-9)
}

func TestWallJitterNeverAddsEnergy(t *testing.T) {
	s := playing(t, func(c *config.Tuning) {
		noSpawns(c)
		c.Ball.WallJitter = 2
	})
	for i := 0; i < 20; i++ {
		placeBall(s, 400, 590, 3, 4)
		s.Tick(t0)
		assert.LessOrEqual(t, absf(s.Ball().DY), 4.8*0.9+1e-9)
		assert.LessOrEqual(t, s.Ball().DY, 0.0)
	}
}

func TestTrailKeepsMostRecentFirst(t *testing.T) {
	s := playing(t, noSpawns)
	placeBall(s, 300, 300, 6, 0)

	for i := 0; i < 7; i++ {
		s.Tick(t0)
	}
	trail := s.Ball().Trail
	require.Len(t, trail, 5)
	assert.InDelta(t, s.Ball().X-6, trail[0].X, 1e-9)
	assert.Greater(t, trail[0].X, trail[4].X)
}

func TestReachingWinScoreFinishes(t *testing.T) {
	s := playing(t, nil)
	s.score = Score{Player1: 4, Player2: 4}
	placeBall(s, 799, 300, 5, 0)

	s.Tick(t0)

	assert.Equal(t, netconfig.StatusFinished, s.Status())
	assert.Equal(t, Score{Player1: 5, Player2: 4}, s.Score())
	assert.False(t, s.Ball().Moving)

	finished := eventsOf[messages.MatchFinished](s.DrainEvents())
	require.Len(t, finished, 1)
	assert.Equal(t, SlotPlayer1, finished[0].Winner)

	before := s.Ball()
	s.Tick(t0.Add(time.Second))
	assert.Equal(t, before.X, s.Ball().X, "finished match does not simulate")
	assert.Equal(t, Score{Player1: 5, Player2: 4}, s.Score())
}

func TestRoundResetRestoresPaddlesKeepsScore(t *testing.T) {
	s := playing(t, nil)
	s.score = Score{Player1: 2, Player2: 1}
	s.MovePaddle(messages.MovePaddle{Player: 1, Y: ptr(120.0)})
	s.applyPowerUp(s.paddles[1], netconfig.PowerUpSize, t0)
	s.powerUps = append(s.powerUps, &PowerUp{ID: "p", X: 300, Y: 300, Active: true, CreatedAt: t0})
	placeBall(s, 1, 300, -5, 0)

	s.Tick(t0)

	assert.Equal(t, Score{Player1: 2, Player2: 2}, s.Score())
	assert.Equal(t, 300.0, s.Paddle(SlotPlayer1).Y)
	assert.Equal(t, 100.0, s.Paddle(SlotPlayer2).Height)
	assert.Nil(t, s.Paddle(SlotPlayer2).PowerUp)
	assert.Empty(t, s.PowerUps())
	b := s.Ball()
	assert.False(t, b.Moving)
	assert.Equal(t, 400.0, b.X)
	assert.Equal(t, 300.0, b.Y)
}

func TestNonFiniteBallIsReserved(t *testing.T) {
	s := playing(t, noSpawns)
	placeBall(s, math.NaN(), 300, 5, 0)

	s.Tick(t0)

	b := s.Ball()
	assert.True(t, gamemath.Finite(b.X, b.Y, b.DX, b.DY))
	assert.True(t, b.Moving)
	assert.Equal(t, Score{}, s.Score())
}

func TestZeroVelocityDoesNotProduceNaN(t *testing.T) {
	s := playing(t, noSpawns)
	placeBall(s, 400, 300, 0, 0)

	s.Tick(t0.Add(time.Second))

	b := s.Ball()
	assert.Equal(t, 400.0, b.X)
	assert.Equal(t, 300.0, b.Y)
	assert.True(t, gamemath.Finite(b.DX, b.DY))
}

func TestSpeedRampFollowsGameTime(t *testing.T) {
	s := playing(t, noSpawns)
	placeBall(s, 400, 300, 3, 4)

	s.Tick(t0.Add(10 * time.Second))
	b := s.Ball()
	assert.InDelta(t, 9.0, magnitude(b.DX, b.DY), 1e-9)
	assert.InDelta(t, 0.6, b.DX/9.0, 1e-9, "direction kept")

	s.Tick(t0.Add(200 * time.Second))
	b = s.Ball()
	assert.InDelta(t, 18.0, magnitude(b.DX, b.DY), 1e-9, "capped at max speed")
}

func TestPowerUpGoesToPaddleOnBallSide(t *testing.T) {
	s := playing(t, noSpawns)
	s.powerUps = []*PowerUp{
		{ID: "left", X: 300, Y: 300, Type: netconfig.PowerUpSize, Active: true, CreatedAt: t0},
	}
	placeBall(s, 290, 300, 5, 0)

	s.Tick(t0)

	assert.Empty(t, s.PowerUps())
	p1 := s.Paddle(SlotPlayer1)
	require.NotNil(t, p1.PowerUp)
	assert.Equal(t, netconfig.PowerUpSize, p1.PowerUp.Type)
	assert.Equal(t, 150.0, p1.Height)
	assert.Nil(t, s.Paddle(SlotPlayer2).PowerUp)

	s.powerUps = []*PowerUp{
		{ID: "right", X: 520, Y: 300, Type: netconfig.PowerUpShield, Active: true, CreatedAt: t0},
	}
	placeBall(s, 510, 300, 5, 0)
	s.Tick(t0)
	require.NotNil(t, s.Paddle(SlotPlayer2).PowerUp)
	assert.Equal(t, netconfig.PowerUpShield, s.Paddle(SlotPlayer2).PowerUp.Type)
}

func TestPowerUpJustOutOfReachStays(t *testing.T) {
	s := playing(t, noSpawns)
	s.powerUps = []*PowerUp{{ID: "far", X: 300, Y: 324, Active: true, CreatedAt: t0}}
	placeBall(s, 294, 300, 6, 0)

	s.Tick(t0)
	assert.Len(t, s.PowerUps(), 1, "distance 24 is not under 8+15")
}

func TestOverwritingSizeRestoresHeight(t *testing.T) {
	s := newSession(nil)
	p := s.paddles[0]
	s.applyPowerUp(p, netconfig.PowerUpSize, t0)
	require.Equal(t, 150.0, p.Height)

	s.applyPowerUp(p, netconfig.PowerUpSpeed, t0)
	assert.Equal(t, 100.0, p.Height)
	assert.Equal(t, netconfig.PowerUpSpeed, p.PowerUp.Type)
}

func TestPaddleEffectExpires(t *testing.T) {
	s := newSession(nil)
	p := s.paddles[0]
	s.applyPowerUp(p, netconfig.PowerUpSize, t0)

	s.expireItems(t0.Add(8 * time.Second))
	require.NotNil(t, p.PowerUp, "still active at exactly its duration")

	s.expireItems(t0.Add(8*time.Second + time.Millisecond))
	assert.Nil(t, p.PowerUp)
	assert.Equal(t, 100.0, p.Height, "size reverted on expiry")
}

func TestGroundItemsExpire(t *testing.T) {
	s := newSession(nil)
	s.powerUps = []*PowerUp{
		{ID: "old", CreatedAt: t0, Active: true},
		{ID: "new", CreatedAt: t0.Add(10 * time.Second), Active: true},
		{ID: "old2", CreatedAt: t0, Active: true},
	}
	s.obstacles.add(&Obstacle{ID: "o", X: 300, Y: 300, Width: 40, Height: 40, Active: true, CreatedAt: t0})

	s.expireItems(t0.Add(20 * time.Second))
	ids := []string{}
	for _, pu := range s.PowerUps() {
		ids = append(ids, pu.ID)
	}
	assert.Equal(t, []string{"new"}, ids, "adjacent expired items are both removed")
	assert.Len(t, s.Obstacles(), 1)

	s.expireItems(t0.Add(30 * time.Second))
	assert.Empty(t, s.Obstacles())
}

func TestObstacleDestroyedOnContact(t *testing.T) {
	s := playing(t, noSpawns)
	s.obstacles.add(&Obstacle{ID: "o", X: 300, Y: 280, Width: 40, Height: 40, Active: true, CreatedAt: t0})
	placeBall(s, 296, 300, 5, 0)

	s.Tick(t0)

	assert.Empty(t, s.Obstacles())
	assert.Greater(t, s.Ball().DX, 0.0, "blocks do not deflect the ball")
}

func TestObstacleNeedsCenterInside(t *testing.T) {
	s := playing(t, noSpawns)
	s.obstacles.add(&Obstacle{ID: "o", X: 300, Y: 280, Width: 40, Height: 40, Active: true, CreatedAt: t0})
	placeBall(s, 288, 300, 5, 0)

	s.Tick(t0)
	assert.Len(t, s.Obstacles(), 1, "ball edge overlapping is not a hit")
}

func TestSpawnsRespectMaxima(t *testing.T) {
	s := newSession(func(c *config.Tuning) {
		c.PowerUp.SpawnChance = 1
		c.Obstacle.SpawnChance = 1
	})
	for i := 0; i < 10; i++ {
		s.maybeSpawnPowerUp(t0)
		s.maybeSpawnObstacle(t0)
	}
	require.Len(t, s.PowerUps(), 2)
	require.Len(t, s.Obstacles(), 1)

	zone := s.cfg.PowerUp.SpawnZone
	for _, pu := range s.PowerUps() {
		assert.True(t, zone.Contains(pu.X, pu.Y))
		assert.NotEqual(t, netconfig.PowerUpMultiBall, pu.Type)
		assert.NotEmpty(t, pu.ID)
	}
	o := s.Obstacles()[0]
	assert.Equal(t, 40.0, o.Width)
	assert.Equal(t, netconfig.ObstacleBlock, o.Type)
}

func TestPaddleHitMaySpawn(t *testing.T) {
	s := playing(t, func(c *config.Tuning) {
		c.PowerUp.SpawnChance = 1
		c.Obstacle.SpawnChance = 1
	})
	placeBall(s, 76, 300, -5, 0)

	s.Tick(t0)
	assert.Len(t, s.PowerUps(), 1)
	assert.Len(t, s.Obstacles(), 1)
}

func TestCenterLineWraps(t *testing.T) {
	c := newCenterLine(3, 20)
	want := 0.0
	for i := 0; i < 50; i++ {
		c.advance()
		want = math.Mod(want+3, 20)
		require.InDelta(t, want, c.value(), 1e-4, "step %d", i)
	}
}

func TestCenterLineAdvancesOnlyWhilePlaying(t *testing.T) {
	s := newSession(nil)
	s.Tick(t0)
	assert.Zero(t, s.Snapshot().CenterLine.Offset)

	s = playing(t, noSpawns)
	placeBall(s, 400, 300, 6, 0)
	s.Tick(t0)
	assert.Equal(t, 3.0, s.Snapshot().CenterLine.Offset)
}

func TestDirectInputClamps(t *testing.T) {
	s := newSession(nil)

	require.True(t, s.MovePaddle(messages.MovePaddle{Player: 1, Y: ptr(-100.0)}))
	assert.Equal(t, 50.0, s.Paddle(SlotPlayer1).Y)
	require.True(t, s.MovePaddle(messages.MovePaddle{Player: 2, Y: ptr(1000.0)}))
	assert.Equal(t, 550.0, s.Paddle(SlotPlayer2).Y)

	assert.False(t, s.MovePaddle(messages.MovePaddle{Player: 3, Y: ptr(100.0)}))
	assert.False(t, s.MovePaddle(messages.MovePaddle{Player: 1}))
	assert.False(t, s.MovePaddle(messages.MovePaddle{Player: 1, Y: ptr(math.NaN())}))

	moved := eventsOf[messages.PaddleMoved](s.DrainEvents())
	require.Len(t, moved, 2)
	assert.Equal(t, 50.0, *moved[0].Y)
	assert.Equal(t, 2, moved[1].Player)
}

func TestVelocityInputBlendsAndDecays(t *testing.T) {
	s := newSession(func(c *config.Tuning) { c.Match.Control = netconfig.ControlVelocity })

	assert.False(t, s.MovePaddle(messages.MovePaddle{Player: 1, Y: ptr(10.0)}), "direct field ignored")
	require.True(t, s.MovePaddle(messages.MovePaddle{Player: 1, Speed: ptr(100.0)}))
	assert.Equal(t, 15.0, s.paddles[0].TargetSpeed, "clamped to max speed")

	s.IntegratePaddles()
	assert.InDelta(t, 3.0, s.paddles[0].Speed, 1e-9)
	assert.InDelta(t, 303.0, s.Paddle(SlotPlayer1).Y, 1e-9)

	s.MovePaddle(messages.MovePaddle{Player: 1, Speed: ptr(0.0)})
	for i := 0; i < 20; i++ {
		s.IntegratePaddles()
	}
	assert.Zero(t, s.paddles[0].Speed)
}

func TestVelocitySpeedBoost(t *testing.T) {
	s := newSession(func(c *config.Tuning) { c.Match.Control = netconfig.ControlVelocity })
	s.applyPowerUp(s.paddles[1], netconfig.PowerUpSpeed, t0)

	s.MovePaddle(messages.MovePaddle{Player: 2, Speed: ptr(-100.0)})
	assert.Equal(t, -22.5, s.paddles[1].TargetSpeed)
}

func TestDirectModeIgnoresIntegration(t *testing.T) {
	s := newSession(nil)
	s.paddles[0].Speed = 10
	s.IntegratePaddles()
	assert.Equal(t, 300.0, s.Paddle(SlotPlayer1).Y)
}
