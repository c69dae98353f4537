package netcomponents

import (
	"github.com/automoto/superpong-mp/shared/netconfig"
	"github.com/yohamta/donburi"
)

type NetPowerUpData struct {
	X, Y float64
	Type netconfig.PowerUpType
}

var NetPowerUp = donburi.NewComponentType[NetPowerUpData]()

type NetObstacleData struct {
	X, Y          float64
	Width, Height float64
	Type          netconfig.ObstacleType
}

var NetObstacle = donburi.NewComponentType[NetObstacleData]()
