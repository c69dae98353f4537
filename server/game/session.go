// Package game holds the authoritative Super Pong session: entities, the
// match state machine and the fixed-tick simulation. It performs no I/O.
// Wall-clock time is passed in by the caller and randomness comes from an
// injected source, so a session is deterministic for a given clock and seed.
package game

import (
	"math"
	"math/rand/v2"
	"time"

	"github.com/automoto/superpong-mp/config"
	"github.com/automoto/superpong-mp/shared/gamemath"
	"github.com/automoto/superpong-mp/shared/messages"
	"github.com/automoto/superpong-mp/shared/netconfig"
)

type pendingLaunch struct {
	epoch uint64
	delay time.Duration
}

// Session is the full state of one match between up to two players. It is not
// safe for concurrent use; the owner must serialize every call.
type Session struct {
	cfg config.Tuning
	rng *rand.Rand

	status    netconfig.MatchStatus
	slots     [2]string
	paddles   [2]*Paddle
	ball      *Ball
	score     Score
	powerUps  []*PowerUp
	obstacles *obstacleField

	countdown  int
	gameTime   float64 // seconds of play this round, drives the speed ramp
	lastUpdate time.Time
	centerLine *centerLine

	// epoch changes whenever a running countdown or launch becomes stale
	epoch  uint64
	launch *pendingLaunch

	ticks  uint64
	events []any
}

// NewSession creates a session in the waiting state. A nil rng is replaced by
// a randomly seeded one.
func NewSession(cfg config.Tuning, rng *rand.Rand) *Session {
	if rng == nil {
		rng = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}
	s := &Session{
		cfg:        cfg,
		rng:        rng,
		status:     netconfig.StatusWaiting,
		obstacles:  newObstacleField(cfg.Field, cfg.Obstacle, cfg.Ball.Radius),
		centerLine: newCenterLine(cfg.Match.CenterLineStep, cfg.Match.CenterLineMod),
		countdown:  cfg.Match.CountdownFrom,
	}
	s.paddles[0] = s.newPaddle(SlotPlayer1)
	s.paddles[1] = s.newPaddle(SlotPlayer2)
	s.ball = s.centeredBall()
	return s
}

// Config returns the tuning the session runs with.
func (s *Session) Config() config.Tuning {
	return s.cfg
}

// Status returns the current match status.
func (s *Session) Status() netconfig.MatchStatus {
	return s.status
}

// Score returns the current score.
func (s *Session) Score() Score {
	return s.score
}

// Countdown returns the current countdown value.
func (s *Session) Countdown() int {
	return s.countdown
}

// Paddle returns a copy of the given player's paddle.
func (s *Session) Paddle(player int) Paddle {
	return *s.paddle(player)
}

// Ball returns a copy of the ball.
func (s *Session) Ball() Ball {
	b := *s.ball
	b.Trail = append([]gamemath.Point(nil), s.ball.Trail...)
	return b
}

// Players returns the connected player ids in slot order.
func (s *Session) Players() []string {
	out := make([]string, 0, 2)
	for _, id := range s.slots {
		if id != "" {
			out = append(out, id)
		}
	}
	return out
}

// PlayerCount returns the number of occupied slots.
func (s *Session) PlayerCount() int {
	return len(s.Players())
}

// SlotOf returns the slot held by peerID, or SlotObserver.
func (s *Session) SlotOf(peerID string) int {
	for i, id := range s.slots {
		if id != "" && id == peerID {
			return i + 1
		}
	}
	return SlotObserver
}

func (s *Session) hasQuorum() bool {
	return s.slots[0] != "" && s.slots[1] != ""
}

func (s *Session) paddle(player int) *Paddle {
	if player == SlotPlayer2 {
		return s.paddles[1]
	}
	return s.paddles[0]
}

func (s *Session) emit(msg any) {
	s.events = append(s.events, msg)
}

// DrainEvents returns the events produced since the last call, in order.
func (s *Session) DrainEvents() []any {
	out := s.events
	s.events = nil
	return out
}

// Join places peerID in the lowest free player slot and returns it. When every
// slot is taken the peer is an observer and SlotObserver is returned. Filling
// the second slot starts a round unless ready-up is required.
func (s *Session) Join(peerID string, now time.Time) int {
	if slot := s.SlotOf(peerID); slot != SlotObserver {
		return slot
	}
	slot := SlotObserver
	for i := range s.slots {
		if s.slots[i] == "" {
			s.slots[i] = peerID
			slot = i + 1
			break
		}
	}
	if slot == SlotObserver {
		return slot
	}
	if s.hasQuorum() && !s.cfg.Match.ReadyUp && s.status == netconfig.StatusWaiting {
		s.startRound(now)
	}
	return slot
}

// Leave frees peerID's slot. Dropping below two players returns the session
// to waiting, clears readiness, stops the ball and cancels any pending
// countdown or launch. The score is kept. It returns the slot that was freed.
func (s *Session) Leave(peerID string) int {
	slot := s.SlotOf(peerID)
	if slot == SlotObserver {
		return slot
	}
	s.slots[slot-1] = ""

	if !s.hasQuorum() {
		s.status = netconfig.StatusWaiting
		s.paddles[0].Ready = false
		s.paddles[1].Ready = false
		s.ball.Moving = false
		s.invalidateTimers()
		s.emit(s.Snapshot())
	}
	return slot
}

// SetReady marks a player ready. When both players are ready, quorum holds and
// the session is waiting, a round starts. Unknown players are ignored.
func (s *Session) SetReady(player int, now time.Time) bool {
	if player != SlotPlayer1 && player != SlotPlayer2 {
		return false
	}
	s.paddle(player).Ready = true
	s.emit(messages.PlayerReadyUpdate{Player: player, Ready: true})

	if s.paddles[0].Ready && s.paddles[1].Ready && s.hasQuorum() && s.status == netconfig.StatusWaiting {
		s.startRound(now)
	}
	return true
}

// ResetMatch zeroes both scores and restarts the round. Without two players
// the session stays waiting.
func (s *Session) ResetMatch(now time.Time) {
	s.score = Score{}
	if !s.hasQuorum() {
		s.status = netconfig.StatusWaiting
		s.ball.Moving = false
		s.invalidateTimers()
		s.emit(s.Snapshot())
		return
	}
	s.startRound(now)
}

// startRound resets every round-scoped entity, keeps the score and enters the
// countdown.
func (s *Session) startRound(now time.Time) {
	if s.cfg.Ball.RandomServe {
		s.ball = s.randomBall()
	} else {
		s.ball = s.centeredBall()
	}
	s.paddles[0] = s.newPaddle(SlotPlayer1)
	s.paddles[1] = s.newPaddle(SlotPlayer2)
	s.powerUps = nil
	s.obstacles.clear()

	s.gameTime = 0
	s.lastUpdate = now
	s.countdown = s.cfg.Match.CountdownFrom
	s.status = netconfig.StatusCountdown
	s.invalidateTimers()

	s.emit(s.Snapshot())
}

func (s *Session) invalidateTimers() {
	s.epoch++
	s.launch = nil
}

// CountdownEpoch reports whether a countdown is running and which epoch it
// belongs to. A new epoch means any previously armed countdown timer is stale.
func (s *Session) CountdownEpoch() (uint64, bool) {
	return s.epoch, s.status == netconfig.StatusCountdown
}

// CountdownStep advances the countdown by one step. Steps from a stale epoch
// are ignored. Reaching zero starts play and schedules the ball launch.
func (s *Session) CountdownStep(epoch uint64) bool {
	if epoch != s.epoch || s.status != netconfig.StatusCountdown {
		return false
	}
	s.countdown--
	if s.countdown > 0 {
		s.emit(messages.CountdownUpdate{Countdown: s.countdown})
		return true
	}

	s.countdown = 0
	s.status = netconfig.StatusPlaying
	s.ball.DX, s.ball.DY = s.randomDirection()
	s.launch = &pendingLaunch{epoch: s.epoch, delay: s.cfg.Ball.StartDelay}

	s.emit(s.Snapshot())
	s.emit(messages.GameStarted{})
	return true
}

// PendingLaunch reports a scheduled ball launch and the delay after which
// Launch should be called.
func (s *Session) PendingLaunch() (uint64, time.Duration, bool) {
	if s.launch == nil {
		return 0, 0, false
	}
	return s.launch.epoch, s.launch.delay, true
}

// Launch sets the ball moving. It fires at most once per round; stale epochs
// are ignored.
func (s *Session) Launch(epoch uint64, now time.Time) bool {
	if s.launch == nil || s.launch.epoch != epoch || s.status != netconfig.StatusPlaying {
		return false
	}
	s.launch = nil
	s.ball.Moving = true
	s.lastUpdate = now
	s.emit(messages.BallStart{DX: s.ball.DX, DY: s.ball.DY})
	return true
}

func (s *Session) newPaddle(player int) *Paddle {
	x := s.cfg.Paddle.Left
	if player == SlotPlayer2 {
		x = s.cfg.Paddle.Right
	}
	return &Paddle{
		X:      x,
		Y:      s.cfg.Field.Height / 2,
		Width:  s.cfg.Paddle.Width,
		Height: s.cfg.Paddle.Height,
	}
}

func (s *Session) centeredBall() *Ball {
	return &Ball{
		X:      s.cfg.Field.Width / 2,
		Y:      s.cfg.Field.Height / 2,
		Radius: s.cfg.Ball.Radius,
		Speed:  s.cfg.Ball.InitialSpeed,
	}
}

func (s *Session) randomBall() *Ball {
	b := s.centeredBall()
	b.X += (s.rng.Float64() - 0.5) * 2 * s.cfg.Ball.ServeJitterX
	b.Y = s.cfg.Ball.ServeMinY + s.rng.Float64()*(s.cfg.Ball.ServeMaxY-s.cfg.Ball.ServeMinY)
	return b
}

// randomDirection returns an initial velocity at the base speed, within
// MaxStartAngle of horizontal, toward a random side.
func (s *Session) randomDirection() (float64, float64) {
	angle := (s.rng.Float64()*2 - 1) * s.cfg.Ball.MaxStartAngle
	side := 1.0
	if s.rng.Float64() < 0.5 {
		side = -1
	}
	speed := s.cfg.Ball.InitialSpeed
	return math.Cos(angle) * speed * side, math.Sin(angle) * speed
}
