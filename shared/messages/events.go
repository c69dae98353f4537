package messages

// CountdownUpdate is broadcast on each countdown step above zero.
type CountdownUpdate struct {
	Countdown int `json:"countdown"`
}

// GameStarted is broadcast when the countdown reaches zero.
type GameStarted struct{}

// BallStart is broadcast once per round when the ball leaves its resting
// position.
type BallStart struct {
	DX float64 `json:"dx"`
	DY float64 `json:"dy"`
}

// PaddleMoved echoes an applied input to every connection.
type PaddleMoved struct {
	Player int      `json:"player"`
	Y      *float64 `json:"y,omitempty"`
	Speed  *float64 `json:"speed,omitempty"`
}

// PlayerReadyUpdate is broadcast when a player signals ready.
type PlayerReadyUpdate struct {
	Player int  `json:"player"`
	Ready  bool `json:"ready"`
}

// RoundReset is broadcast when a point is scored and the match continues.
type RoundReset struct {
	Scorer int   `json:"scorer"`
	Score  Score `json:"score"`
}

// MatchFinished is broadcast when a player reaches the win threshold.
type MatchFinished struct {
	Winner int   `json:"winner"`
	Score  Score `json:"score"`
}
