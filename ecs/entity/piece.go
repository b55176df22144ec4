package entity

import (
	"fmt"
	"math"

	"github.com/milk9111/pizzamerge/catalog"
	"github.com/milk9111/pizzamerge/ecs"
	"github.com/milk9111/pizzamerge/ecs/component"
)

// Material is the physical material shared by every piece.
type Material struct {
	Density    float64
	Friction   float64
	Elasticity float64
}

// PieceSpec describes one piece to create. Falling pieces are kinematic
// sensors until dropped.
type PieceSpec struct {
	Level   int
	X, Y    float64
	VX, VY  float64
	Falling bool
}

// NewPiece creates a piece entity. The physics body is built by the physics
// system on its next update.
func NewPiece(w *ecs.World, cat *catalog.Catalog, scale float64, mat Material, spec PieceSpec) (ecs.Entity, error) {
	if cat == nil {
		return 0, fmt.Errorf("piece: nil catalog")
	}
	def, err := cat.DefinitionFor(spec.Level)
	if err != nil {
		return 0, fmt.Errorf("piece: %w", err)
	}
	radius := cat.ScaledRadius(def.Level, scale)

	density := mat.Density
	if density <= 0 {
		density = 0.001
	}
	mass := density * math.Pi * radius * radius

	e := ecs.CreateEntity(w)
	if err := ecs.Add(w, e, component.PieceComponent.Kind(), &component.Piece{
		Level:   def.Level,
		Radius:  radius,
		Falling: spec.Falling,
	}); err != nil {
		return 0, fmt.Errorf("piece: add piece: %w", err)
	}
	if err := ecs.Add(w, e, component.TransformComponent.Kind(), &component.Transform{X: spec.X, Y: spec.Y}); err != nil {
		return 0, fmt.Errorf("piece: add transform: %w", err)
	}
	if err := ecs.Add(w, e, component.VelocityComponent.Kind(), &component.Velocity{X: spec.VX, Y: spec.VY}); err != nil {
		return 0, fmt.Errorf("piece: add velocity: %w", err)
	}
	if err := ecs.Add(w, e, component.PhysicsBodyComponent.Kind(), &component.PhysicsBody{
		Radius:     radius,
		Mass:       mass,
		Friction:   mat.Friction,
		Elasticity: mat.Elasticity,
		Kinematic:  spec.Falling,
		Sensor:     spec.Falling,
		InitialVX:  spec.VX,
		InitialVY:  spec.VY,
	}); err != nil {
		return 0, fmt.Errorf("piece: add physics body: %w", err)
	}
	return e, nil
}
