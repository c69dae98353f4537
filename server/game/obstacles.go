package game

import (
	"time"

	"github.com/automoto/superpong-mp/config"
	"github.com/automoto/superpong-mp/shared/netconfig"
	"github.com/google/uuid"
	"github.com/solarlune/resolv"
)

const (
	tagBall     = "ball"
	tagObstacle = "obstacle"
)

// obstacleField keeps the obstacles on the field in a resolv space. The ball
// has a probe object in the same space; the space's cell grid is the broad
// phase and the obstacle rectangle test on the ball center is the narrow phase.
type obstacleField struct {
	cfg   config.ObstacleConfig
	space *resolv.Space
	probe *resolv.Object
	items []*Obstacle
}

func newObstacleField(field config.FieldConfig, cfg config.ObstacleConfig, ballRadius float64) *obstacleField {
	cell := cfg.CellSize
	if cell <= 0 {
		cell = 20
	}
	space := resolv.NewSpace(int(field.Width), int(field.Height), cell, cell)

	size := ballRadius * 2
	probe := resolv.NewObject(0, 0, size, size, tagBall)
	probe.SetShape(resolv.NewRectangle(0, 0, size, size))
	space.Add(probe)

	return &obstacleField{cfg: cfg, space: space, probe: probe}
}

func (f *obstacleField) add(o *Obstacle) {
	obj := resolv.NewObject(o.X, o.Y, o.Width, o.Height, tagObstacle)
	obj.SetShape(resolv.NewRectangle(0, 0, o.Width, o.Height))
	obj.Data = o
	o.object = obj
	f.space.Add(obj)
	f.items = append(f.items, o)
}

// removeWhere rebuilds the item list without the obstacles matching drop.
func (f *obstacleField) removeWhere(drop func(*Obstacle) bool) {
	kept := f.items[:0]
	for _, o := range f.items {
		if drop(o) {
			o.Active = false
			f.space.Remove(o.object)
			continue
		}
		kept = append(kept, o)
	}
	clear(f.items[len(kept):])
	f.items = kept
}

func (f *obstacleField) clear() {
	f.removeWhere(func(*Obstacle) bool { return true })
}

func (f *obstacleField) expire(now time.Time) {
	f.removeWhere(func(o *Obstacle) bool {
		return now.Sub(o.CreatedAt) >= f.cfg.Lifetime
	})
}

// hit returns the obstacles containing the point (x, y).
func (f *obstacleField) hit(x, y, r float64) map[*Obstacle]bool {
	if len(f.items) == 0 {
		return nil
	}
	f.probe.X = x - r
	f.probe.Y = y - r
	f.probe.Update()

	check := f.probe.Check(0, 0, tagObstacle)
	if check == nil {
		return nil
	}
	var hits map[*Obstacle]bool
	for _, obj := range check.ObjectsByTags(tagObstacle) {
		o, ok := obj.Data.(*Obstacle)
		if !ok || !o.Active || !o.Rect().Contains(x, y) {
			continue
		}
		if hits == nil {
			hits = make(map[*Obstacle]bool)
		}
		hits[o] = true
	}
	return hits
}

func (s *Session) maybeSpawnObstacle(now time.Time) {
	cfg := s.cfg.Obstacle
	if s.rng.Float64() >= cfg.SpawnChance || len(s.obstacles.items) >= cfg.MaxOnField {
		return
	}
	x, y := s.randomInZone(s.cfg.PowerUp.SpawnZone)
	s.obstacles.add(&Obstacle{
		ID:        uuid.NewString(),
		X:         x,
		Y:         y,
		Width:     cfg.Width,
		Height:    cfg.Height,
		Type:      netconfig.ObstacleBlock,
		Active:    true,
		CreatedAt: now,
	})
}

// collideObstacles destroys every block the ball center is inside of.
func (s *Session) collideObstacles() {
	b := s.ball
	hits := s.obstacles.hit(b.X, b.Y, b.Radius)
	if len(hits) == 0 {
		return
	}
	s.obstacles.removeWhere(func(o *Obstacle) bool { return hits[o] })
}

// Obstacles returns copies of the obstacles on the field.
func (s *Session) Obstacles() []Obstacle {
	out := make([]Obstacle, len(s.obstacles.items))
	for i, o := range s.obstacles.items {
		out[i] = *o
		out[i].object = nil
	}
	return out
}
