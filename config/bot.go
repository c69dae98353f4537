package config

import "time"

// BotDifficulty affects reaction time and tracking accuracy
type BotDifficulty int

const (
	BotDifficultyEasy BotDifficulty = iota
	BotDifficultyNormal
	BotDifficultyHard
)

// BotDifficultyConfig holds tuning values for the headless bot at a specific difficulty
type BotDifficultyConfig struct {
	ReactionDelay time.Duration // lag between seeing the ball and moving
	DeadZone      float64       // ignore ball offsets smaller than this
	MaxStep       float64       // max paddle travel per decision (direct control)
	AimError      float64       // max random error added to the target y
}

// BotConfigData holds all bot-related configuration
type BotConfigData struct {
	Difficulties map[BotDifficulty]BotDifficultyConfig
}

// Bot holds bot AI configuration
var Bot BotConfigData

func init() {
	Bot = BotConfigData{
		Difficulties: map[BotDifficulty]BotDifficultyConfig{
			BotDifficultyEasy: {
				ReactionDelay: 250 * time.Millisecond,
				DeadZone:      20,
				MaxStep:       6,
				AimError:      40,
			},
			BotDifficultyNormal: {
				ReactionDelay: 120 * time.Millisecond,
				DeadZone:      10,
				MaxStep:       10,
				AimError:      20,
			},
			BotDifficultyHard: {
				ReactionDelay: 30 * time.Millisecond,
				DeadZone:      4,
				MaxStep:       15,
				AimError:      5,
			},
		},
	}
}

// ParseBotDifficulty maps a flag value to a difficulty, defaulting to normal.
func ParseBotDifficulty(s string) BotDifficulty {
	switch s {
	case "easy":
		return BotDifficultyEasy
	case "hard":
		return BotDifficultyHard
	}
	return BotDifficultyNormal
}
