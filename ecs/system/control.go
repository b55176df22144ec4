package system

import (
	"log"

	"github.com/milk9111/pizzamerge/common"
	"github.com/milk9111/pizzamerge/ecs"
	"github.com/milk9111/pizzamerge/ecs/component"
	"github.com/milk9111/pizzamerge/ecs/entity"
)

// ControlSystem applies the pointer state in the session's Input component
// to the falling piece.
type ControlSystem struct {
	spawner        *Spawner
	cooldownFrames int
}

func NewControlSystem(spawner *Spawner, cooldownFrames int) *ControlSystem {
	return &ControlSystem{spawner: spawner, cooldownFrames: cooldownFrames}
}

func (c *ControlSystem) Update(w *ecs.World) {
	if c == nil || w == nil {
		return
	}
	e, _, ok := entity.Session(w)
	if !ok {
		return
	}
	input, ok := ecs.Get(w, e, component.InputComponent.Kind())
	if !ok {
		return
	}

	if input.HasAim {
		c.Aim(w, input.AimX)
	}
	if input.Drop {
		c.Drop(w, input.DropX)
		input.Drop = false
	}
}

// Aim moves the falling piece horizontally, clamped so it never overlaps a
// wall.
func (c *ControlSystem) Aim(w *ecs.World, x float64) bool {
	_, session, ok := entity.Session(w)
	if !ok || session.GameOver {
		return false
	}
	_, piece, tr, body, ok := fallingPiece(w, session)
	if !ok {
		return false
	}
	field, _ := entity.Field(w)
	tr.X = clampDropX(x, piece.Radius, field)
	body.Teleport = true
	return true
}

// Drop releases the falling piece at x into full simulation and starts the
// spawn cooldown. It is a no-op without a falling piece, while a cooldown is
// running, or once the game is over.
func (c *ControlSystem) Drop(w *ecs.World, x float64) bool {
	se, session, ok := entity.Session(w)
	if !ok || session.GameOver || session.DropDisabled {
		return false
	}
	if ecs.Has(w, se, component.DropCooldownComponent.Kind()) {
		return false
	}
	fe, piece, tr, body, ok := fallingPiece(w, session)
	if !ok {
		return false
	}
	field, _ := entity.Field(w)

	tr.X = clampDropX(x, piece.Radius, field)
	piece.Falling = false
	piece.RestFrames = 0
	body.Kinematic = false
	body.Sensor = false
	body.InitialVX = 0
	body.InitialVY = 0
	if vel, ok := ecs.Get(w, fe, component.VelocityComponent.Kind()); ok {
		vel.X, vel.Y = 0, 0
	}
	session.Falling = 0
	session.Drops++
	session.DropDisabled = true

	if c.cooldownFrames <= 0 {
		if _, _, err := c.spawner.SpawnNext(w); err != nil {
			log.Printf("ControlSystem: spawn after drop: %v", err)
		}
		return true
	}
	if err := ecs.Add(w, se, component.DropCooldownComponent.Kind(), &component.DropCooldown{
		Frames:     c.cooldownFrames,
		Generation: session.ID,
	}); err != nil {
		panic("control system: add drop cooldown: " + err.Error())
	}
	return true
}

func fallingPiece(w *ecs.World, session *component.Session) (ecs.Entity, *component.Piece, *component.Transform, *component.PhysicsBody, bool) {
	if session.Falling == 0 {
		return 0, nil, nil, nil, false
	}
	e := ecs.Entity(session.Falling)
	piece, ok := ecs.Get(w, e, component.PieceComponent.Kind())
	if !ok || !piece.Falling {
		return 0, nil, nil, nil, false
	}
	tr, ok := ecs.Get(w, e, component.TransformComponent.Kind())
	if !ok {
		return 0, nil, nil, nil, false
	}
	body, ok := ecs.Get(w, e, component.PhysicsBodyComponent.Kind())
	if !ok {
		return 0, nil, nil, nil, false
	}
	return e, piece, tr, body, true
}

func clampDropX(x, radius float64, field component.Field) float64 {
	b := dropBounds(field)
	return common.Clamp(x, b.Left+radius, b.Right-radius)
}
