package protocol

import (
	"github.com/automoto/superpong-mp/shared/netcomponents"
	"github.com/leap-fish/necs/esync"
)

// Sync ID constants - ID 1 is reserved by necs for NetworkId
const (
	SyncIDNetPaddle   uint = 10
	SyncIDNetBall     uint = 11
	SyncIDNetPowerUp  uint = 12
	SyncIDNetObstacle uint = 13
	SyncIDNetMatch    uint = 14
)

// Interpolation IDs (uint8 for WithInterpFn)
const (
	InterpIDNetPaddle uint8 = 10
	InterpIDNetBall   uint8 = 11
)

// RegisterComponents registers all network components with necs for serialization.
// This must be called by both server and client before any network operations.
func RegisterComponents() error {
	if err := esync.RegisterComponent(
		SyncIDNetPaddle,
		netcomponents.NetPaddleData{},
		netcomponents.NetPaddle,
		esync.WithInterpFn(InterpIDNetPaddle, netcomponents.LerpNetPaddle),
	); err != nil {
		return err
	}

	if err := esync.RegisterComponent(
		SyncIDNetBall,
		netcomponents.NetBallData{},
		netcomponents.NetBall,
		esync.WithInterpFn(InterpIDNetBall, netcomponents.LerpNetBall),
	); err != nil {
		return err
	}

	// Field items and match state: no interpolation (discrete)
	if err := esync.RegisterComponent(
		SyncIDNetPowerUp,
		netcomponents.NetPowerUpData{},
		netcomponents.NetPowerUp,
	); err != nil {
		return err
	}

	if err := esync.RegisterComponent(
		SyncIDNetObstacle,
		netcomponents.NetObstacleData{},
		netcomponents.NetObstacle,
	); err != nil {
		return err
	}

	return esync.RegisterComponent(
		SyncIDNetMatch,
		netcomponents.NetMatchData{},
		netcomponents.NetMatch,
	)
}
