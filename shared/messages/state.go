package messages

import "github.com/automoto/superpong-mp/shared/netconfig"

// GameState is the full session snapshot sent every tick. It is sufficient
// for stateless rendering.
type GameState struct {
	Tick       uint64                `json:"tick"`
	Paddle1    PaddleState           `json:"paddle1"`
	Paddle2    PaddleState           `json:"paddle2"`
	Ball       BallState             `json:"ball"`
	Score      Score                 `json:"score"`
	GameStatus netconfig.MatchStatus `json:"gameStatus"`
	Players    []string              `json:"players"`
	PowerUps   []PowerUpState        `json:"powerups"`
	Obstacles  []ObstacleState       `json:"obstacles"`
	GameTime   float64               `json:"gameTime"`
	CenterLine CenterLine            `json:"centerLine"`
	GameMode   string                `json:"gameMode"`
	Countdown  int                   `json:"countdown"`
	Control    netconfig.ControlMode `json:"controlMode"`
}

type PaddleState struct {
	X         float64       `json:"x"`
	Y         float64       `json:"y"`
	Width     float64       `json:"width"`
	Height    float64       `json:"height"`
	PowerUp   *ActiveEffect `json:"powerup"`
	Invisible bool          `json:"invisible"`
	Ready     bool          `json:"ready"`
	Speed     float64       `json:"speed,omitempty"`
}

// ActiveEffect is a power-up currently applied to a paddle. Times are unix ms.
type ActiveEffect struct {
	Type      netconfig.PowerUpType `json:"type"`
	StartTime int64                 `json:"startTime"`
	Duration  int64                 `json:"duration"`
}

type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

type BallState struct {
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	DX     float64 `json:"dx"`
	DY     float64 `json:"dy"`
	Radius float64 `json:"radius"`
	Speed  float64 `json:"speed"`
	Trail  []Point `json:"trail"`
	Moving bool    `json:"moving"`
}

type Score struct {
	Player1 int `json:"player1"`
	Player2 int `json:"player2"`
}

type PowerUpState struct {
	ID        string                `json:"id"`
	X         float64               `json:"x"`
	Y         float64               `json:"y"`
	Type      netconfig.PowerUpType `json:"type"`
	Active    bool                  `json:"active"`
	CreatedAt int64                 `json:"createdAt"`
}

type ObstacleState struct {
	ID        string                 `json:"id"`
	X         float64                `json:"x"`
	Y         float64                `json:"y"`
	Width     float64                `json:"width"`
	Height    float64                `json:"height"`
	Type      netconfig.ObstacleType `json:"type"`
	Active    bool                   `json:"active"`
	CreatedAt int64                  `json:"createdAt"`
}

type CenterLine struct {
	Offset float64 `json:"offset"`
}
