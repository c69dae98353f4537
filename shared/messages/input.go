package messages

// MovePaddle is sent by a client to move a paddle. Exactly one of Y (direct
// control) or Speed (velocity control) is meaningful, depending on the
// server's control mode.
type MovePaddle struct {
	Player int      `json:"player"`
	Y      *float64 `json:"y,omitempty"`
	Speed  *float64 `json:"speed,omitempty"`
}

// PlayerReady signals that a player is ready to start.
type PlayerReady struct {
	Player int `json:"player"`
}

// ResetGame zeroes both scores and restarts the round.
type ResetGame struct{}
