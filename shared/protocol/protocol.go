package protocol

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/automoto/superpong-mp/shared/messages"
)

// Event names on the browser wire. Server -> client.
const (
	EvtWelcome           = "welcome"
	EvtGameState         = "gameState"
	EvtCountdownUpdate   = "countdownUpdate"
	EvtGameStarted       = "gameStarted"
	EvtBallStart         = "ballStart"
	EvtPaddleMoved       = "paddleMoved"
	EvtPlayerReadyUpdate = "playerReadyUpdate"
	EvtRoundReset        = "roundReset"
	EvtMatchFinished     = "matchFinished"
)

// Client -> server.
const (
	EvtMovePaddle  = "movePaddle"
	EvtPlayerReady = "playerReady"
	EvtResetGame   = "resetGame"
)

var ErrUnknownEvent = errors.New("unknown event")

// Envelope wraps every browser frame: {"t": name, "p": payload}.
type Envelope struct {
	T string          `json:"t"`
	P json.RawMessage `json:"p,omitempty"`
}

// EventName returns the wire name for a message in either direction.
func EventName(msg any) (string, error) {
	switch msg.(type) {
	case messages.MovePaddle, *messages.MovePaddle:
		return EvtMovePaddle, nil
	case messages.PlayerReady, *messages.PlayerReady:
		return EvtPlayerReady, nil
	case messages.ResetGame, *messages.ResetGame:
		return EvtResetGame, nil
	case messages.Welcome, *messages.Welcome:
		return EvtWelcome, nil
	case messages.GameState, *messages.GameState:
		return EvtGameState, nil
	case messages.CountdownUpdate, *messages.CountdownUpdate:
		return EvtCountdownUpdate, nil
	case messages.GameStarted, *messages.GameStarted:
		return EvtGameStarted, nil
	case messages.BallStart, *messages.BallStart:
		return EvtBallStart, nil
	case messages.PaddleMoved, *messages.PaddleMoved:
		return EvtPaddleMoved, nil
	case messages.PlayerReadyUpdate, *messages.PlayerReadyUpdate:
		return EvtPlayerReadyUpdate, nil
	case messages.RoundReset, *messages.RoundReset:
		return EvtRoundReset, nil
	case messages.MatchFinished, *messages.MatchFinished:
		return EvtMatchFinished, nil
	}
	return "", fmt.Errorf("%w: %T", ErrUnknownEvent, msg)
}

// Encode wraps a message in an envelope named after its type.
func Encode(msg any) ([]byte, error) {
	name, err := EventName(msg)
	if err != nil {
		return nil, err
	}
	pb, err := json.Marshal(msg)
	if err != nil {
		return nil, fmt.Errorf("marshal %s: %w", name, err)
	}
	return json.Marshal(Envelope{T: name, P: pb})
}

func DecodeEnvelope(b []byte) (Envelope, error) {
	if len(b) == 0 {
		return Envelope{}, errors.New("empty frame")
	}
	var e Envelope
	if err := json.Unmarshal(b, &e); err != nil {
		return Envelope{}, fmt.Errorf("decode envelope: %w", err)
	}
	return e, nil
}

func DecodePayload[T any](env Envelope) (T, error) {
	var out T
	if len(env.P) == 0 {
		return out, nil
	}
	err := json.Unmarshal(env.P, &out)
	return out, err
}

// DecodeClient parses a client frame into one of the client -> server
// message types.
func DecodeClient(b []byte) (any, error) {
	env, err := DecodeEnvelope(b)
	if err != nil {
		return nil, err
	}
	switch env.T {
	case EvtMovePaddle:
		return DecodePayload[messages.MovePaddle](env)
	case EvtPlayerReady:
		return DecodePayload[messages.PlayerReady](env)
	case EvtResetGame:
		return messages.ResetGame{}, nil
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownEvent, env.T)
}

// DecodeServer parses a server frame into one of the server -> client
// message types.
func DecodeServer(b []byte) (any, error) {
	env, err := DecodeEnvelope(b)
	if err != nil {
		return nil, err
	}
	switch env.T {
	case EvtWelcome:
		return DecodePayload[messages.Welcome](env)
	case EvtGameState:
		return DecodePayload[messages.GameState](env)
	case EvtCountdownUpdate:
		return DecodePayload[messages.CountdownUpdate](env)
	case EvtGameStarted:
		return messages.GameStarted{}, nil
	case EvtBallStart:
		return DecodePayload[messages.BallStart](env)
	case EvtPaddleMoved:
		return DecodePayload[messages.PaddleMoved](env)
	case EvtPlayerReadyUpdate:
		return DecodePayload[messages.PlayerReadyUpdate](env)
	case EvtRoundReset:
		return DecodePayload[messages.RoundReset](env)
	case EvtMatchFinished:
		return DecodePayload[messages.MatchFinished](env)
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownEvent, env.T)
}
