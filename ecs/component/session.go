package component

import (
	"github.com/google/uuid"
)

// SessionState is the controller state machine position.
type SessionState int

const (
	SessionInitializing SessionState = iota
	SessionPlaying
	SessionGameOver
)

func (s SessionState) String() string {
	switch s {
	case SessionInitializing:
		return "initializing"
	case SessionPlaying:
		return "playing"
	case SessionGameOver:
		return "game_over"
	default:
		return "unknown"
	}
}

// Session is the single owned state of one game. Restart replaces the whole
// world, so nothing here is ever reset in place.
type Session struct {
	ID        uuid.UUID
	State     SessionState
	Score     int
	HighScore int
	GameOver  bool
	// Falling is the entity id of the aiming piece, zero when none. The
	// session never owns that body.
	Falling      uint64
	DropDisabled bool
	// PendingMerges holds entity ids locked by an in-flight merge.
	PendingMerges map[uint64]struct{}
	FinalScore    int
	Merges        int
	Drops         int
	GameOverCause string
}

var SessionComponent = NewComponent[Session]()
