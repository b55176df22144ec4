package component

import "github.com/google/uuid"

// DropCooldown blocks the next spawn for a number of ticks after a drop.
// Generation is the session id that started it; an expiry whose generation
// no longer matches the live session is ignored.
type DropCooldown struct {
	Frames     int
	Generation uuid.UUID
}

var DropCooldownComponent = NewComponent[DropCooldown]()
