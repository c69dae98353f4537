// Package netconfig defines lightweight types shared between client and server
// for network serialization. It must have zero dependencies on rendering or ECS
// libraries so the dedicated server binary stays headless.
package netconfig

import "fmt"

// Field geometry. Client rendering and server physics must agree on these.
const (
	FieldWidth  = 800.0
	FieldHeight = 600.0

	PaddleWidth          = 20.0
	PaddleHeight         = 100.0
	PaddleHeightEnlarged = 150.0
	Paddle1X             = 50.0
	Paddle2X             = 750.0
	PaddleMinY           = 50.0
	PaddleMaxY           = 550.0

	BallRadius = 8.0
	WinScore   = 5
)

// MatchStatus represents the current state of a match.
type MatchStatus int

const (
	StatusWaiting   MatchStatus = iota // Fewer than 2 players, or not both ready
	StatusCountdown                    // Pre-round countdown (3, 2, 1)
	StatusPlaying                      // Simulation active
	StatusFinished                     // Win threshold reached
)

var statusNames = map[MatchStatus]string{
	StatusWaiting:   "waiting",
	StatusCountdown: "countdown",
	StatusPlaying:   "playing",
	StatusFinished:  "finished",
}

func (s MatchStatus) String() string {
	if name, ok := statusNames[s]; ok {
		return name
	}
	return "unknown"
}

// MarshalText encodes the status with the names browser clients expect.
func (s MatchStatus) MarshalText() ([]byte, error) {
	name, ok := statusNames[s]
	if !ok {
		return nil, fmt.Errorf("unknown match status %d", int(s))
	}
	return []byte(name), nil
}

func (s *MatchStatus) UnmarshalText(b []byte) error {
	for k, v := range statusNames {
		if v == string(b) {
			*s = k
			return nil
		}
	}
	return fmt.Errorf("unknown match status %q", string(b))
}

// PowerUpType identifies a field pickup.
type PowerUpType int

const (
	PowerUpSpeed PowerUpType = iota
	PowerUpSize
	PowerUpShield
	PowerUpMultiBall // earlier design; never in the default spawn pool
)

var powerUpNames = map[PowerUpType]string{
	PowerUpSpeed:     "speed",
	PowerUpSize:      "size",
	PowerUpShield:    "shield",
	PowerUpMultiBall: "multiBall",
}

func (p PowerUpType) String() string {
	if name, ok := powerUpNames[p]; ok {
		return name
	}
	return "unknown"
}

func (p PowerUpType) MarshalText() ([]byte, error) {
	name, ok := powerUpNames[p]
	if !ok {
		return nil, fmt.Errorf("unknown power-up type %d", int(p))
	}
	return []byte(name), nil
}

func (p *PowerUpType) UnmarshalText(b []byte) error {
	for k, v := range powerUpNames {
		if v == string(b) {
			*p = k
			return nil
		}
	}
	return fmt.Errorf("unknown power-up type %q", string(b))
}

// ParsePowerUpType maps a configured name back to its type.
func ParsePowerUpType(name string) (PowerUpType, error) {
	var p PowerUpType
	err := p.UnmarshalText([]byte(name))
	return p, err
}

// ObstacleType identifies a field obstacle. Only destructible blocks exist.
type ObstacleType int

const (
	ObstacleBlock ObstacleType = iota
)

func (o ObstacleType) String() string {
	if o == ObstacleBlock {
		return "block"
	}
	return "unknown"
}

func (o ObstacleType) MarshalText() ([]byte, error) {
	if o != ObstacleBlock {
		return nil, fmt.Errorf("unknown obstacle type %d", int(o))
	}
	return []byte("block"), nil
}

func (o *ObstacleType) UnmarshalText(b []byte) error {
	if string(b) != "block" {
		return fmt.Errorf("unknown obstacle type %q", string(b))
	}
	*o = ObstacleBlock
	return nil
}

// ControlMode selects how movePaddle input is interpreted. A deployment picks one.
type ControlMode int

const (
	ControlDirect   ControlMode = iota // input names an absolute y
	ControlVelocity                    // input names a target speed
)

func (c ControlMode) String() string {
	switch c {
	case ControlDirect:
		return "direct"
	case ControlVelocity:
		return "velocity"
	}
	return "unknown"
}

func (c ControlMode) MarshalText() ([]byte, error) {
	s := c.String()
	if s == "unknown" {
		return nil, fmt.Errorf("unknown control mode %d", int(c))
	}
	return []byte(s), nil
}

func (c *ControlMode) UnmarshalText(b []byte) error {
	switch string(b) {
	case "direct":
		*c = ControlDirect
	case "velocity":
		*c = ControlVelocity
	default:
		return fmt.Errorf("unknown control mode %q", string(b))
	}
	return nil
}

// ParseControlMode maps a flag/env value to a ControlMode.
func ParseControlMode(s string) (ControlMode, error) {
	var c ControlMode
	err := c.UnmarshalText([]byte(s))
	return c, err
}
