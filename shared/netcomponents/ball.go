package netcomponents

import "github.com/yohamta/donburi"

type NetBallData struct {
	X, Y   float64
	DX, DY float64 // Client extrapolation between snapshots
	Radius float64
	Speed  float64
	Moving bool
}

var NetBall = donburi.NewComponentType[NetBallData]()

// LerpNetBall interpolates between two ball states
func LerpNetBall(from, to NetBallData, t float64) *NetBallData {
	return &NetBallData{
		X:      from.X + (to.X-from.X)*t,
		Y:      from.Y + (to.Y-from.Y)*t,
		DX:     to.DX,
		DY:     to.DY,
		Radius: to.Radius,
		Speed:  to.Speed,
		Moving: to.Moving,
	}
}
