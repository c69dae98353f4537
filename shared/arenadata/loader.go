package arenadata

import (
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"
	"sort"
	"strings"

	"github.com/automoto/superpong-mp/config"
	"github.com/automoto/superpong-mp/shared/gamemath"
	"github.com/lafriks/go-tiled"
)

var (
	ErrMissingPaddles   = errors.New("arena must define paddles for players 1 and 2")
	ErrMissingSpawnZone = errors.New("arena must define a spawn zone")
)

// Load parses a TMX file into an Arena. It takes an fs.FS so callers can pass
// the embedded assets or os.DirFS for a map on disk.
func Load(fsys fs.FS, tmxPath string) (*Arena, error) {
	m, err := tiled.LoadFile(tmxPath, tiled.WithFileSystem(fsys))
	if err != nil {
		return nil, fmt.Errorf("load TMX %s: %w", tmxPath, err)
	}

	a := &Arena{
		Name:   strings.TrimSuffix(filepath.Base(tmxPath), ".tmx"),
		Width:  float64(m.Width * m.TileWidth),
		Height: float64(m.Height * m.TileHeight),
	}

	var havePaddle [2]bool
	var haveSpawn bool
	for _, og := range m.ObjectGroups {
		switch og.Name {
		case "Paddles":
			for _, o := range og.Objects {
				player := o.Properties.GetInt("player")
				if player != 1 && player != 2 {
					continue
				}
				a.Paddles[player-1] = gamemath.Rect{X: o.X, Y: o.Y, W: o.Width, H: o.Height}
				havePaddle[player-1] = true
			}
		case "SpawnZone":
			if len(og.Objects) == 0 {
				continue
			}
			o := og.Objects[0]
			a.SpawnZone = gamemath.Rect{X: o.X, Y: o.Y, W: o.Width, H: o.Height}
			a.GameMode = o.Properties.GetString("gameMode")
			haveSpawn = true
		case "ServeZone":
			if len(og.Objects) == 0 {
				continue
			}
			o := og.Objects[0]
			a.ServeZone = gamemath.Rect{X: o.X, Y: o.Y, W: o.Width, H: o.Height}
		}
	}

	if !havePaddle[0] || !havePaddle[1] {
		return nil, fmt.Errorf("%s: %w", tmxPath, ErrMissingPaddles)
	}
	if !haveSpawn {
		return nil, fmt.Errorf("%s: %w", tmxPath, ErrMissingSpawnZone)
	}
	if a.ServeZone.W == 0 && a.ServeZone.H == 0 {
		a.ServeZone = gamemath.Rect{X: a.Width / 2, Y: a.Height / 2}
	}
	if a.GameMode == "" {
		a.GameMode = "classic"
	}
	return a, nil
}

// LoadAll discovers all .tmx files in dir within fsys and returns them keyed
// by stem name plus a sorted list of names.
func LoadAll(fsys fs.FS, dir string) (map[string]*Arena, []string, error) {
	pattern := dir + "/*.tmx"
	matches, err := fs.Glob(fsys, pattern)
	if err != nil {
		return nil, nil, fmt.Errorf("glob %s: %w", pattern, err)
	}
	if len(matches) == 0 {
		return nil, nil, fmt.Errorf("no .tmx files found in %s", dir)
	}

	arenas := make(map[string]*Arena, len(matches))
	names := make([]string, 0, len(matches))
	for _, path := range matches {
		a, err := Load(fsys, path)
		if err != nil {
			return nil, nil, err
		}
		arenas[a.Name] = a
		names = append(names, a.Name)
	}

	sort.Strings(names)
	return arenas, names, nil
}

// Apply copies the arena geometry onto a tuning set. Paddle travel is bounded
// so the paddle never leaves the field.
func (a *Arena) Apply(t *config.Tuning) {
	p1, p2 := a.Paddles[0], a.Paddles[1]

	t.Field.Width = a.Width
	t.Field.Height = a.Height

	t.Paddle.Width = p1.W
	t.Paddle.Height = p1.H
	t.Paddle.Left = p1.X
	t.Paddle.Right = p2.Right()
	t.Paddle.MinY = p1.H / 2
	t.Paddle.MaxY = a.Height - p1.H/2

	t.PowerUp.SpawnZone = a.SpawnZone

	t.Ball.ServeJitterX = a.ServeZone.W / 2
	t.Ball.ServeMinY = a.ServeZone.Y
	t.Ball.ServeMaxY = a.ServeZone.Bottom()

	t.Match.GameMode = a.GameMode
}
