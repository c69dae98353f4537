package core

import (
	"context"
	"fmt"
	"log"

	"github.com/automoto/superpong-mp/shared/messages"
	"github.com/automoto/superpong-mp/shared/netcomponents"
	"github.com/leap-fish/necs/esync/srvsync"
	"github.com/yohamta/donburi"
)

// trackFn marks an entity for replication. interp selects interpolated
// replication for comp.
type trackFn func(world donburi.World, entity *donburi.Entity, interp bool, comp donburi.IComponentType) error

func esyncTrack(world donburi.World, entity *donburi.Entity, interp bool, comp donburi.IComponentType) error {
	if interp {
		return srvsync.NetworkSync(world, entity, srvsync.WithInterp(comp))
	}
	return srvsync.NetworkSync(world, entity, comp)
}

// Replica mirrors each tick's snapshot into a donburi world that esync
// replicates to necs clients. The world is only touched by Run; OnTick hands
// snapshots over through a single-slot mailbox where the newest one wins, so a
// stalled necs client delays replication but never the match.
type Replica struct {
	world   donburi.World
	track   trackFn
	sync    func() error
	mailbox chan messages.GameState

	paddles   [2]donburi.Entity
	ball      donburi.Entity
	match     donburi.Entity
	powerUps  map[string]donburi.Entity
	obstacles map[string]donburi.Entity
}

// NewReplica creates the replicated world. Components must already be
// registered with esync.
func NewReplica() (*Replica, error) {
	world := donburi.NewWorld()
	srvsync.UseEsync(world)
	return newReplica(world, esyncTrack, srvsync.DoSync)
}

func newReplica(world donburi.World, track trackFn, sync func() error) (*Replica, error) {
	r := &Replica{
		world:     world,
		track:     track,
		sync:      sync,
		mailbox:   make(chan messages.GameState, 1),
		powerUps:  make(map[string]donburi.Entity),
		obstacles: make(map[string]donburi.Entity),
	}

	for i := range r.paddles {
		e := world.Create(netcomponents.NetPaddle)
		netcomponents.NetPaddle.Set(world.Entry(e), &netcomponents.NetPaddleData{Player: i + 1})
		if err := track(world, &e, true, netcomponents.NetPaddle); err != nil {
			return nil, fmt.Errorf("sync paddle %d: %w", i+1, err)
		}
		r.paddles[i] = e
	}

	r.ball = world.Create(netcomponents.NetBall)
	if err := track(world, &r.ball, true, netcomponents.NetBall); err != nil {
		return nil, fmt.Errorf("sync ball: %w", err)
	}

	r.match = world.Create(netcomponents.NetMatch)
	if err := track(world, &r.match, false, netcomponents.NetMatch); err != nil {
		return nil, fmt.Errorf("sync match: %w", err)
	}
	return r, nil
}

// World returns the replicated world.
func (r *Replica) World() donburi.World {
	return r.world
}

// OnTick queues the snapshot for replication, replacing one that Run has not
// picked up yet. It never blocks. Only the match goroutine may call it.
func (r *Replica) OnTick(state messages.GameState) {
	select {
	case <-r.mailbox:
	default:
	}
	select {
	case r.mailbox <- state:
	default:
	}
}

// Run replicates queued snapshots until ctx is cancelled.
func (r *Replica) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case state := <-r.mailbox:
			r.update(state)
		}
	}
}

// update copies the snapshot into the world and pushes it to clients.
func (r *Replica) update(state messages.GameState) {
	r.apply(state)
	if err := r.sync(); err != nil {
		log.Printf("[replica] sync error: %v", err)
	}
}

func (r *Replica) apply(state messages.GameState) {
	for i, p := range []messages.PaddleState{state.Paddle1, state.Paddle2} {
		data := &netcomponents.NetPaddleData{
			Player:    i + 1,
			X:         p.X,
			Y:         p.Y,
			Width:     p.Width,
			Height:    p.Height,
			Invisible: p.Invisible,
			Ready:     p.Ready,
		}
		if p.PowerUp != nil {
			data.HasPowerUp = true
			data.PowerUp = p.PowerUp.Type
		}
		netcomponents.NetPaddle.Set(r.world.Entry(r.paddles[i]), data)
	}

	b := state.Ball
	netcomponents.NetBall.Set(r.world.Entry(r.ball), &netcomponents.NetBallData{
		X: b.X, Y: b.Y, DX: b.DX, DY: b.DY,
		Radius: b.Radius,
		Speed:  b.Speed,
		Moving: b.Moving,
	})

	netcomponents.NetMatch.Set(r.world.Entry(r.match), &netcomponents.NetMatchData{
		Status:     state.GameStatus,
		Score1:     state.Score.Player1,
		Score2:     state.Score.Player2,
		Countdown:  state.Countdown,
		GameTime:   state.GameTime,
		CenterLine: state.CenterLine.Offset,
	})

	seen := make(map[string]bool, len(state.PowerUps))
	for _, pu := range state.PowerUps {
		seen[pu.ID] = true
		e, ok := r.powerUps[pu.ID]
		if !ok {
			e = r.world.Create(netcomponents.NetPowerUp)
			if err := r.track(r.world, &e, false, netcomponents.NetPowerUp); err != nil {
				log.Printf("[replica] sync power-up %s: %v", pu.ID, err)
			}
			r.powerUps[pu.ID] = e
		}
		netcomponents.NetPowerUp.Set(r.world.Entry(e), &netcomponents.NetPowerUpData{X: pu.X, Y: pu.Y, Type: pu.Type})
	}
	r.prune(r.powerUps, seen)

	seen = make(map[string]bool, len(state.Obstacles))
	for _, o := range state.Obstacles {
		seen[o.ID] = true
		e, ok := r.obstacles[o.ID]
		if !ok {
			e = r.world.Create(netcomponents.NetObstacle)
			if err := r.track(r.world, &e, false, netcomponents.NetObstacle); err != nil {
				log.Printf("[replica] sync obstacle %s: %v", o.ID, err)
			}
			r.obstacles[o.ID] = e
		}
		netcomponents.NetObstacle.Set(r.world.Entry(e), &netcomponents.NetObstacleData{
			X: o.X, Y: o.Y, Width: o.Width, Height: o.Height, Type: o.Type,
		})
	}
	r.prune(r.obstacles, seen)
}

func (r *Replica) prune(entities map[string]donburi.Entity, keep map[string]bool) {
	for id, e := range entities {
		if keep[id] {
			continue
		}
		if r.world.Valid(e) {
			r.world.Remove(e)
		}
		delete(entities, id)
	}
}
