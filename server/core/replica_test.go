package core

import (
	"context"
	"math/rand/v2"
	"testing"
	"time"

	"github.com/automoto/superpong-mp/server/game"
	"github.com/automoto/superpong-mp/shared/messages"
	"github.com/automoto/superpong-mp/shared/netcomponents"
	"github.com/automoto/superpong-mp/shared/netconfig"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yohamta/donburi"
)

type trackCall struct {
	interp bool
	comp   donburi.IComponentType
}

func testReplica(t *testing.T) (*Replica, *[]trackCall, *int) {
	t.Helper()
	var calls []trackCall
	syncs := 0
	track := func(_ donburi.World, _ *donburi.Entity, interp bool, comp donburi.IComponentType) error {
		calls = append(calls, trackCall{interp: interp, comp: comp})
		return nil
	}
	r, err := newReplica(donburi.NewWorld(), track, func() error {
		syncs++
		return nil
	})
	require.NoError(t, err)
	return r, &calls, &syncs
}

func TestReplicaInterpolatesMovingEntities(t *testing.T) {
	_, calls, _ := testReplica(t)
	require.Len(t, *calls, 4)
	assert.True(t, (*calls)[0].interp, "paddle 1")
	assert.True(t, (*calls)[1].interp, "paddle 2")
	assert.True(t, (*calls)[2].interp, "ball")
	assert.False(t, (*calls)[3].interp, "match state")
}

func TestReplicaMirrorsSnapshot(t *testing.T) {
	r, _, syncs := testReplica(t)

	r.update(messages.GameState{
		Paddle2: messages.PaddleState{
			X: 750, Y: 200, Width: 20, Height: 150,
			PowerUp: &messages.ActiveEffect{Type: netconfig.PowerUpSize},
		},
		Ball:       messages.BallState{X: 400, Y: 300, DX: 6, Moving: true},
		Score:      messages.Score{Player1: 2},
		GameStatus: netconfig.StatusPlaying,
		PowerUps: []messages.PowerUpState{
			{ID: "p1", X: 300, Y: 200, Type: netconfig.PowerUpSpeed},
			{ID: "p2", X: 350, Y: 250, Type: netconfig.PowerUpShield},
		},
		Obstacles: []messages.ObstacleState{{ID: "o1", X: 400, Y: 100, Width: 40, Height: 40}},
	})
	assert.Equal(t, 1, *syncs)

	paddle := netcomponents.NetPaddle.Get(r.world.Entry(r.paddles[1]))
	assert.Equal(t, 2, paddle.Player)
	assert.True(t, paddle.HasPowerUp)
	assert.Equal(t, netconfig.PowerUpSize, paddle.PowerUp)
	assert.Equal(t, 150.0, paddle.Height)

	ball := netcomponents.NetBall.Get(r.world.Entry(r.ball))
	assert.True(t, ball.Moving)
	assert.Equal(t, 6.0, ball.DX)

	match := netcomponents.NetMatch.Get(r.world.Entry(r.match))
	assert.Equal(t, netconfig.StatusPlaying, match.Status)
	assert.Equal(t, 2, match.Score1)

	require.Len(t, r.powerUps, 2)
	require.Len(t, r.obstacles, 1)
	gone := r.powerUps["p1"]

	r.update(messages.GameState{
		PowerUps: []messages.PowerUpState{{ID: "p2", X: 350, Y: 250, Type: netconfig.PowerUpShield}},
	})
	assert.Len(t, r.powerUps, 1)
	assert.Empty(t, r.obstacles)
	assert.False(t, r.world.Valid(gone))
	assert.True(t, r.world.Valid(r.powerUps["p2"]))
}

func TestReplicaKeepsOnlyTheNewestPendingSnapshot(t *testing.T) {
	r, _, syncs := testReplica(t)

	for i := 1; i <= 5; i++ {
		r.OnTick(messages.GameState{Score: messages.Score{Player1: i}})
	}
	assert.Zero(t, *syncs, "nothing replicates until Run picks it up")
	require.Len(t, r.mailbox, 1)

	r.update(<-r.mailbox)
	assert.Equal(t, 5, netcomponents.NetMatch.Get(r.world.Entry(r.match)).Score1)
}

func TestStalledReplicationDoesNotBlockTheMatch(t *testing.T) {
	release := make(chan struct{})
	entered := make(chan struct{}, 1)
	noTrack := func(donburi.World, *donburi.Entity, bool, donburi.IComponentType) error { return nil }
	r, err := newReplica(donburi.NewWorld(), noTrack, func() error {
		select {
		case entered <- struct{}{}:
		default:
		}
		<-release
		return nil
	})
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	replicating := make(chan struct{})
	go func() {
		defer close(replicating)
		r.Run(ctx)
	}()
	t.Cleanup(func() {
		cancel()
		close(release)
		<-replicating
	})

	m := NewMatch(game.NewSession(fastTuning(), rand.New(rand.NewPCG(1, 2))), MatchInfo{})
	m.AddObserver(r)
	runMatch(t, m)

	select {
	case <-entered:
	case <-time.After(waitFor):
		t.Fatal("replication never started")
	}

	a, b := newFakePeer("a"), newFakePeer("b")
	joinCtx, joinCancel := context.WithTimeout(context.Background(), 300*time.Millisecond)
	defer joinCancel()
	_, err = m.Join(joinCtx, a)
	require.NoError(t, err)
	_, err = m.Join(joinCtx, b)
	require.NoError(t, err)

	y := 200.0
	require.NoError(t, m.Submit(context.Background(), "a", messages.MovePaddle{Player: 1, Y: &y}))
	require.Eventually(t, func() bool { return len(receivedOf[messages.PaddleMoved](b)) == 1 }, waitFor, tick)
}
