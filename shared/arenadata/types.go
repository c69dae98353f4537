// Package arenadata provides TMX arena parsing for the server.
// It has no dependencies on donburi, resolv or the transport layer: pure data only.
package arenadata

import "github.com/automoto/superpong-mp/shared/gamemath"

// Arena holds the geometry parsed from a TMX arena file.
type Arena struct {
	Name      string
	GameMode  string
	Width     float64
	Height    float64
	Paddles   [2]gamemath.Rect // index 0 is player 1
	SpawnZone gamemath.Rect    // power-ups and obstacles appear here
	ServeZone gamemath.Rect    // randomized serve positions
}
