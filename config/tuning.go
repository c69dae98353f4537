package config

import (
	"math"
	"time"

	"github.com/automoto/superpong-mp/shared/gamemath"
	"github.com/automoto/superpong-mp/shared/netconfig"
)

// FieldConfig contains the playfield geometry. An arena map may override it.
type FieldConfig struct {
	Width  float64
	Height float64
}

// BallConfig contains ball movement and serve configuration
type BallConfig struct {
	Radius       float64
	InitialSpeed float64 // units per tick
	MaxSpeed     float64
	Acceleration float64 // speed gained per second of play
	TrailLength  int

	// Serve
	StartDelay    time.Duration // pause between gameStarted and ballStart
	MaxStartAngle float64       // radians either side of horizontal
	RandomServe   bool
	ServeJitterX  float64 // random serve: x = center +/- jitter
	ServeMinY     float64
	ServeMaxY     float64

	// Walls
	WallBounceFactor float64 // applied to |dy| on a wall hit, must be < 1
	WallJitter       float64 // max random reduction of |dy| on a wall hit
}

// PaddleConfig contains paddle geometry and control configuration
type PaddleConfig struct {
	Width          float64
	Height         float64
	EnlargedHeight float64
	Left           float64 // x of paddle 1's left edge
	Right          float64 // x of paddle 2's right edge
	MinY           float64
	MaxY           float64

	// Rebound
	BounceFactor float64 // applied to |dx| on a paddle hit, must be > 1
	MaxHitAngle  float64

	// Velocity control
	MaxSpeed   float64
	Smoothing  float64 // blend factor toward target speed per tick
	Friction   float64 // decay per tick with no input
	SpeedBoost float64 // max speed multiplier under the speed power-up
}

// PowerUpConfig contains field pickup configuration
type PowerUpConfig struct {
	SpawnChance  float64 // per paddle hit
	MaxOnField   int
	Duration     time.Duration // effect duration once picked up
	Lifetime     time.Duration // time on the ground before expiry
	PickupRadius float64
	SpawnPool    []netconfig.PowerUpType
	SpawnZone    gamemath.Rect
}

// ObstacleConfig contains field obstacle configuration
type ObstacleConfig struct {
	SpawnChance float64 // per paddle hit
	MaxOnField  int
	Lifetime    time.Duration
	Width       float64
	Height      float64
	CellSize    int // broad-phase grid cell size
}

// MatchConfig contains round flow configuration
type MatchConfig struct {
	WinScore       int
	CountdownFrom  int
	CountdownStep  time.Duration
	TickInterval   time.Duration
	ReadyUp        bool // require playerReady from both players before starting
	Control        netconfig.ControlMode
	GameMode       string
	CenterLineStep float64
	CenterLineMod  float64
}

// Tuning bundles every gameplay knob. A session takes its own copy.
type Tuning struct {
	Field    FieldConfig
	Ball     BallConfig
	Paddle   PaddleConfig
	PowerUp  PowerUpConfig
	Obstacle ObstacleConfig
	Match    MatchConfig
}

var Field FieldConfig
var Ball BallConfig
var Paddle PaddleConfig
var PowerUp PowerUpConfig
var Obstacle ObstacleConfig
var Match MatchConfig

func init() {
	d := Default()
	Field = d.Field
	Ball = d.Ball
	Paddle = d.Paddle
	PowerUp = d.PowerUp
	Obstacle = d.Obstacle
	Match = d.Match
}

// Current returns the package-level tuning as a Tuning value.
func Current() Tuning {
	return Tuning{
		Field:    Field,
		Ball:     Ball,
		Paddle:   Paddle,
		PowerUp:  PowerUp,
		Obstacle: Obstacle,
		Match:    Match,
	}
}

// Default returns the stock Super Pong tuning.
func Default() Tuning {
	return Tuning{
		Field: FieldConfig{
			Width:  netconfig.FieldWidth,
			Height: netconfig.FieldHeight,
		},
		Ball: BallConfig{
			Radius:       netconfig.BallRadius,
			InitialSpeed: 6,
			MaxSpeed:     18,
			Acceleration: 0.3,
			TrailLength:  5,

			StartDelay:    time.Second,
			MaxStartAngle: math.Pi / 4,
			RandomServe:   true,
			ServeJitterX:  50,
			ServeMinY:     150,
			ServeMaxY:     450,

			WallBounceFactor: 0.9,
			WallJitter:       0,
		},
		Paddle: PaddleConfig{
			Width:          netconfig.PaddleWidth,
			Height:         netconfig.PaddleHeight,
			EnlargedHeight: netconfig.PaddleHeightEnlarged,
			Left:           netconfig.Paddle1X,
			Right:          netconfig.Paddle2X,
			MinY:           netconfig.PaddleMinY,
			MaxY:           netconfig.PaddleMaxY,

			BounceFactor: 1.3,
			MaxHitAngle:  math.Pi / 3,

			MaxSpeed:   15,
			Smoothing:  0.2,
			Friction:   1,
			SpeedBoost: 1.5,
		},
		PowerUp: PowerUpConfig{
			SpawnChance:  0.1,
			MaxOnField:   2,
			Duration:     8 * time.Second,
			Lifetime:     20 * time.Second,
			PickupRadius: 15,
			SpawnPool: []netconfig.PowerUpType{
				netconfig.PowerUpSpeed,
				netconfig.PowerUpSize,
				netconfig.PowerUpShield,
			},
			SpawnZone: gamemath.Rect{X: 200, Y: 100, W: 400, H: 400},
		},
		Obstacle: ObstacleConfig{
			SpawnChance: 0.05,
			MaxOnField:  1,
			Lifetime:    30 * time.Second,
			Width:       40,
			Height:      40,
			CellSize:    20,
		},
		Match: MatchConfig{
			WinScore:       netconfig.WinScore,
			CountdownFrom:  3,
			CountdownStep:  time.Second,
			TickInterval:   16 * time.Millisecond,
			ReadyUp:        false,
			Control:        netconfig.ControlDirect,
			GameMode:       "classic",
			CenterLineStep: 3,
			CenterLineMod:  20,
		},
	}
}
