package netcomponents

import (
	"github.com/automoto/superpong-mp/shared/netconfig"
	"github.com/yohamta/donburi"
)

type NetPaddleData struct {
	Player     int // 1 or 2
	X, Y       float64
	Width      float64
	Height     float64
	HasPowerUp bool
	PowerUp    netconfig.PowerUpType
	Invisible  bool
	Ready      bool
}

var NetPaddle = donburi.NewComponentType[NetPaddleData]()

// LerpNetPaddle interpolates the paddle position; discrete fields snap to the target.
func LerpNetPaddle(from, to NetPaddleData, t float64) *NetPaddleData {
	out := to
	out.Y = from.Y + (to.Y-from.Y)*t
	out.Height = from.Height + (to.Height-from.Height)*t
	return &out
}
