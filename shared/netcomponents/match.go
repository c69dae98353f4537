package netcomponents

import (
	"github.com/automoto/superpong-mp/shared/netconfig"
	"github.com/yohamta/donburi"
)

type NetMatchData struct {
	Status     netconfig.MatchStatus
	Score1     int
	Score2     int
	Countdown  int
	GameTime   float64
	CenterLine float64
}

var NetMatch = donburi.NewComponentType[NetMatchData]()
