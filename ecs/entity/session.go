package entity

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/milk9111/pizzamerge/ecs"
	"github.com/milk9111/pizzamerge/ecs/component"
)

// NewSession creates the single session entity for a fresh world.
func NewSession(w *ecs.World, id uuid.UUID, highScore int) (ecs.Entity, error) {
	e := ecs.CreateEntity(w)
	if err := ecs.Add(w, e, component.SessionTagComponent.Kind(), &component.SessionTag{}); err != nil {
		return 0, fmt.Errorf("session: add tag: %w", err)
	}
	session := &component.Session{
		ID:            id,
		State:         component.SessionInitializing,
		HighScore:     highScore,
		PendingMerges: make(map[uint64]struct{}),
	}
	if err := ecs.Add(w, e, component.SessionComponent.Kind(), session); err != nil {
		return 0, fmt.Errorf("session: add session: %w", err)
	}
	if err := ecs.Add(w, e, component.InputComponent.Kind(), &component.Input{}); err != nil {
		return 0, fmt.Errorf("session: add input: %w", err)
	}
	return e, nil
}

// Session returns the live session entity and component.
func Session(w *ecs.World) (ecs.Entity, *component.Session, bool) {
	e, ok := ecs.First(w, component.SessionComponent.Kind())
	if !ok {
		return 0, nil, false
	}
	s, ok := ecs.Get(w, e, component.SessionComponent.Kind())
	return e, s, ok
}

// Field returns the field geometry of the world.
func Field(w *ecs.World) (component.Field, bool) {
	e, ok := ecs.First(w, component.FieldComponent.Kind())
	if !ok {
		return component.Field{}, false
	}
	f, ok := ecs.Get(w, e, component.FieldComponent.Kind())
	if !ok {
		return component.Field{}, false
	}
	return *f, true
}
